// Package daily implements the daily challenge: every player gets the same
// root word on a given UTC date, and results are ranked per date.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordscramble/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// RootIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func RootIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Picker returns a game.Picker that always chooses the root word for date.
func Picker(date time.Time, salt string) game.Picker {
	return func(n int) int { return RootIndex(date, salt, n) }
}

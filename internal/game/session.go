// internal/game/session.go
//
// Session state machine for a single Word Scramble game.
// Responsibilities:
//   - Pick a root word from a candidate pool (newGame / restart).
//   - Run submissions through Validate and apply the scoring policy.
//   - Expose state through explicit snapshots.
//
// Scoring:
//   - Accept: score += len(word) + len(usedWords) after insertion.
//   - Reject: score -= 2, floored at 0.
//
// A Session serializes its own operations, so at most one Submit is in flight.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"
	"time"
	"unicode/utf8"
)

// RejectionPenalty is subtracted from the score on every rejection.
const RejectionPenalty = 2

// DefaultLanguage is the language tag passed to the Speller when none is set.
const DefaultLanguage = "en"

// Session holds the authoritative state of one game.
type Session struct {
	mu sync.Mutex

	id        string
	round     int
	mode      Mode
	lang      string
	speller   Speller
	pick      Picker
	now       func() time.Time
	root      string
	used      []string // most recent first, no duplicates
	score     int
	startedAt time.Time
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithPicker overrides the random root word choice.
func WithPicker(p Picker) Option { return func(s *Session) { s.pick = p } }

// WithLanguage sets the language tag used for normalization and spelling.
func WithLanguage(tag string) Option { return func(s *Session) { s.lang = tag } }

// WithID sets the session identifier instead of a random one.
func WithID(id string) Option { return func(s *Session) { s.id = id } }

// WithMode records how the root word pool was chosen.
func WithMode(m Mode) Option { return func(s *Session) { s.mode = m } }

// WithClock overrides time.Now for StartedAt.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// NewSession starts a game with a root word chosen from candidates.
// It fails with ErrDataUnavailable when candidates is empty.
func NewSession(candidates []string, sp Speller, opts ...Option) (*Session, error) {
	if sp == nil {
		return nil, fmt.Errorf("game: nil speller")
	}
	s := &Session{
		mode:    ModeRandom,
		lang:    DefaultLanguage,
		speller: sp,
		pick:    RandomIndex,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.id == "" {
		s.id = randomID()
	}
	root, err := PickRootWord(candidates, s.pick)
	if err != nil {
		return nil, err
	}
	s.root = Normalize(root, s.lang)
	s.used = []string{}
	s.round = 1
	s.startedAt = s.now().UTC()
	return s, nil
}

// PickRootWord selects one candidate uniformly at random.
func PickRootWord(candidates []string, pick Picker) (string, error) {
	if len(candidates) == 0 {
		return "", ErrDataUnavailable
	}
	if pick == nil {
		pick = RandomIndex
	}
	i := pick(len(candidates))
	if i < 0 || i >= len(candidates) {
		return "", fmt.Errorf("game: picker returned %d for %d candidates", i, len(candidates))
	}
	return candidates[i], nil
}

// Submit normalizes raw, validates it and applies the scoring policy.
// Rejections are returned as values; the session is never partially updated.
func (s *Session) Submit(raw string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(raw)
}

// SubmitSnapshot is Submit followed by Snapshot under the same lock, so the
// snapshot reflects exactly this submission.
func (s *Session) SubmitSnapshot(raw string) (Outcome, Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.submitLocked(raw)
	return out, s.snapshotLocked()
}

func (s *Session) submitLocked(raw string) Outcome {
	word := Normalize(raw, s.lang)
	if rej := Validate(word, s.root, s.used, s.speller, s.lang); rej != nil {
		delta := -min(RejectionPenalty, s.score)
		s.score += delta
		return Outcome{Word: word, Rejection: rej, ScoreDelta: delta, Score: s.score}
	}

	s.used = append([]string{word}, s.used...)
	delta := utf8.RuneCountInString(word) + len(s.used)
	s.score += delta
	return Outcome{Accepted: true, Word: word, ScoreDelta: delta, Score: s.score}
}

// Restart clears used words and score and picks a new root word.
// If no root word can be picked the session is left as it was.
func (s *Session) Restart(candidates []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := PickRootWord(candidates, s.pick)
	if err != nil {
		return "", err
	}
	s.root = Normalize(root, s.lang)
	s.used = []string{}
	s.score = 0
	s.round++
	s.startedAt = s.now().UTC()
	return s.root, nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        s.id,
		Round:     s.round,
		Mode:      s.mode,
		RootWord:  s.root,
		UsedWords: append([]string{}, s.used...),
		Score:     s.score,
		Language:  s.lang,
		StartedAt: s.startedAt,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// RootWord returns the current root word.
func (s *Session) RootWord() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Score returns the current score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// UsedWords returns the accepted words, most recent first.
func (s *Session) UsedWords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.used...)
}

// RandomIndex returns a cryptographically random index in [0, n).
func RandomIndex(n int) int {
	if n <= 1 {
		return 0
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

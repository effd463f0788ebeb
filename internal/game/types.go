// internal/game/types.go
//
// Core type definitions for the Word Scramble engine.
// Defines:
//   - Reason:    why a submission was rejected.
//   - Rejection: a typed rejection carrying the attempted word and root word.
//   - Outcome:   the result of a single Submit call.
//   - Snapshot:  an immutable copy of a session's state.
//   - Speller:   the injected "is this a real word" capability.

package game

import (
	"errors"
	"time"
)

// ErrDataUnavailable is returned when no candidate root words can be obtained.
// Callers treat it as fatal: a session without a root word is meaningless.
var ErrDataUnavailable = errors.New("game: candidate root words unavailable")

// Reason identifies which validation rule rejected a submission.
type Reason string

const (
	ReasonAlreadyUsed     Reason = "already_used"
	ReasonNotSubsetOfRoot Reason = "not_subset_of_root"
	ReasonNotARealWord    Reason = "not_a_real_word"
	ReasonEqualsRootWord  Reason = "equals_root_word"
	ReasonTooShort        Reason = "too_short"
)

// Mode records how the root word was chosen.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeDaily  Mode = "daily"
)

// Rejection is the recoverable, expected outcome of a failed rule.
type Rejection struct {
	Reason Reason `json:"reason"`
	Word   string `json:"word"` // normalized attempted word
	Root   string `json:"root"` // root word at the time of the submission
}

// Outcome is returned by Session.Submit.
//
// On acceptance Rejection is nil and ScoreDelta is positive.
// On rejection ScoreDelta is the amount actually subtracted (0, -1 or -2).
type Outcome struct {
	Accepted   bool       `json:"accepted"`
	Word       string     `json:"word"`
	Rejection  *Rejection `json:"rejection,omitempty"`
	ScoreDelta int        `json:"scoreDelta"`
	Score      int        `json:"score"`
}

// Snapshot is a point-in-time copy of a Session.
type Snapshot struct {
	ID        string    `json:"id"`
	Round     int       `json:"round"` // 1 for the first game, +1 per restart
	Mode      Mode      `json:"mode"`
	RootWord  string    `json:"rootWord"`
	UsedWords []string  `json:"usedWords"` // most recent first
	Score     int       `json:"score"`
	Language  string    `json:"language"`
	StartedAt time.Time `json:"startedAt"`
}

// Speller reports whether word is a real dictionary word in the given language.
// Implementations must be deterministic for a fixed dictionary.
type Speller interface {
	IsRealWord(word, languageTag string) bool
}

// SpellerFunc adapts a plain function to the Speller interface.
type SpellerFunc func(word, languageTag string) bool

// IsRealWord calls f(word, languageTag).
func (f SpellerFunc) IsRealWord(word, languageTag string) bool { return f(word, languageTag) }

// Picker returns an index in [0, n). n is always > 0.
type Picker func(n int) int

// internal/game/validate.go
//
// The word-acceptance pipeline.
//
// Rules run in a fixed order and the first failure wins:
//   1. originality       (already_used)
//   2. letter subset     (not_subset_of_root)
//   3. dictionary        (not_a_real_word)
//   4. non-triviality    (equals_root_word)
//   5. minimum length    (too_short)
//
// Local checks run before the Speller so words that cannot be built from the
// root never reach the dictionary.

package game

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinWordLength is the shortest accepted submission, in letters.
const MinWordLength = 3

// Validate runs the rule pipeline against a normalized submission.
// It returns nil when the word is accepted.
func Validate(word, root string, used []string, sp Speller, lang string) *Rejection {
	reject := func(r Reason) *Rejection {
		return &Rejection{Reason: r, Word: word, Root: root}
	}

	if !isOriginal(word, used) {
		return reject(ReasonAlreadyUsed)
	}
	if !isPossible(word, root) {
		return reject(ReasonNotSubsetOfRoot)
	}
	if !sp.IsRealWord(word, lang) {
		return reject(ReasonNotARealWord)
	}
	if word == root {
		return reject(ReasonEqualsRootWord)
	}
	if utf8.RuneCountInString(word) < MinWordLength {
		return reject(ReasonTooShort)
	}
	return nil
}

// isOriginal reports whether word has not been accepted yet.
func isOriginal(word string, used []string) bool {
	for _, u := range used {
		if u == word {
			return false
		}
	}
	return true
}

// isPossible reports whether word can be spelled from root's letters,
// using each letter at most as often as it appears in root.
//
// Works on a mutable copy of root: each letter of word removes one matching
// occurrence, and a missing letter fails immediately.
func isPossible(word, root string) bool {
	pool := []rune(root)
	for _, r := range word {
		i := indexRune(pool, r)
		if i < 0 {
			return false
		}
		pool = append(pool[:i], pool[i+1:]...)
	}
	return true
}

func indexRune(rs []rune, r rune) int {
	for i, x := range rs {
		if x == r {
			return i
		}
	}
	return -1
}

// Normalize trims surrounding whitespace and lower-cases raw using the
// casing rules of languageTag. Unknown tags fall back to root-language rules.
func Normalize(raw, languageTag string) string {
	return lowerCaser(languageTag).String(strings.TrimSpace(raw))
}

func lowerCaser(languageTag string) cases.Caser {
	tag, err := language.Parse(languageTag)
	if err != nil {
		tag = language.Und
	}
	return cases.Lower(tag)
}

// internal/words/words.go
//
// Word list management for the game engine.
//
// Responsibilities:
//   - Load candidate root words and the spelling dictionary from
//     environment-provided files or fall back to embedded defaults.
//   - Keep per-language dictionary sets for quick lookups.
//   - Expose CandidateRootWords (the root-word source) and Dictionary (the
//     game.Speller implementation).
//
// Load behavior:
//   1. StartFile set      → candidates come from that file.
//      otherwise          → embedded assets/start.txt.
//   2. DictionaryFile set → dictionary for Language comes from that file.
//      otherwise          → embedded English list registered as "en".
//
// Lists are trimmed, stripped of blank and # lines, and lower-cased with the
// casing rules of the configured language.

package words

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/robalobadob/wordscramble/assets"
	"github.com/robalobadob/wordscramble/internal/game"
)

// Config selects where word lists are read from.
type Config struct {
	StartFile      string // WORDS_START_FILE
	DictionaryFile string // WORDS_DICTIONARY_FILE
	Language       string // WORDS_LANGUAGE, tag the dictionary file is registered under
}

// Lists holds the loaded candidate pool and dictionary.
type Lists struct {
	candidates []string
	dict       *Dictionary
}

// Load reads the configured word lists.
// A missing or empty candidate list is reported as game.ErrDataUnavailable.
func Load(cfg Config) (*Lists, error) {
	var (
		cands []string
		err   error
	)
	if cfg.StartFile != "" {
		cands, err = readWordFile(cfg.StartFile)
	} else {
		cands, err = assets.StartWords()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrDataUnavailable, err)
	}
	if len(cands) == 0 {
		return nil, fmt.Errorf("%w: start word list is empty", game.ErrDataUnavailable)
	}

	lang := cfg.Language
	if lang == "" {
		lang = game.DefaultLanguage
	}
	for i, w := range cands {
		cands[i] = game.Normalize(w, lang)
	}
	var dictWords []string
	if cfg.DictionaryFile != "" {
		dictWords, err = readWordFile(cfg.DictionaryFile)
	} else {
		lang = "en"
		dictWords, err = assets.DictionaryWords()
	}
	if err != nil {
		return nil, fmt.Errorf("words: load dictionary: %w", err)
	}

	d := NewDictionary()
	d.Add(lang, dictWords)
	return &Lists{candidates: cands, dict: d}, nil
}

// CandidateRootWords returns the root word pool.
func (l *Lists) CandidateRootWords() ([]string, error) {
	if l == nil || len(l.candidates) == 0 {
		return nil, game.ErrDataUnavailable
	}
	return append([]string{}, l.candidates...), nil
}

// Dictionary returns the loaded spelling dictionary.
func (l *Lists) Dictionary() *Dictionary { return l.dict }

// Stats returns counts of loaded words: (candidates, dictionary entries).
func (l *Lists) Stats() (candidates int, dictionary int) {
	return len(l.candidates), l.dict.Len()
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadLines(f)
}

// Dictionary is an offline, per-language word set. It implements game.Speller.
type Dictionary struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{} // base language → words
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{sets: make(map[string]map[string]struct{})}
}

// Add registers words under languageTag, lower-cased with that language's
// casing rules so they match normalized submissions.
func (d *Dictionary) Add(languageTag string, list []string) {
	key := baseKey(languageTag)
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.sets[key]
	if !ok {
		set = make(map[string]struct{}, len(list))
		d.sets[key] = set
	}
	for _, w := range list {
		if w = game.Normalize(w, languageTag); w != "" {
			set[w] = struct{}{}
		}
	}
}

// IsRealWord reports whether word is known in languageTag.
// Regional tags resolve to their base language ("en-GB" → "en").
func (d *Dictionary) IsRealWord(word, languageTag string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set, ok := d.sets[baseKey(languageTag)]
	if !ok {
		return false
	}
	_, ok = set[word]
	return ok
}

// Len returns the total number of entries across languages.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, s := range d.sets {
		n += len(s)
	}
	return n
}

// Languages lists the registered base languages.
func (d *Dictionary) Languages() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.sets))
	for k := range d.sets {
		out = append(out, k)
	}
	return out
}

// baseKey maps a BCP 47 tag to its base language. Unparseable tags are kept
// verbatim so they never collide with a real language.
func baseKey(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return strings.ToLower(tag)
	}
	base, _ := t.Base()
	return base.String()
}

// ErrUnknownLanguage is returned by Require when no dictionary is loaded for a tag.
var ErrUnknownLanguage = errors.New("words: no dictionary for language")

// Require checks that languageTag has a dictionary.
func (d *Dictionary) Require(languageTag string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.sets[baseKey(languageTag)]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownLanguage, languageTag)
	}
	return nil
}

var _ game.Speller = (*Dictionary)(nil)

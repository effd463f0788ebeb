// Package assets embeds the default word lists shipped with the server.
package assets

import (
	"bufio"
	"embed"
	"io"
	"strings"
)

//go:embed start.txt dictionary.txt
var FS embed.FS

// ReadLines returns the non-blank, non-comment lines of r, trimmed.
// Case is left alone; callers lower-case with their language's rules.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// StartWords returns the embedded candidate root words.
func StartWords() ([]string, error) {
	return readLines("start.txt")
}

// DictionaryWords returns the embedded English dictionary.
func DictionaryWords() ([]string, error) {
	return readLines("dictionary.txt")
}

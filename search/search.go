// Package search filters the exported post index with a linear,
// case-insensitive substring scan over title, excerpt and tags. Matching uses
// Unicode case folding, so "strasse" finds "Straße". The browser search page
// runs the same scan with JavaScript lowercasing, which does not fold such
// characters.
package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

// Entry is one record of the exported posts.json index.
type Entry struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Excerpt     string   `json:"excerpt"`
	Tags        []string `json:"tags"`
	ReadingTime string   `json:"readingTime"`
	Author      string   `json:"author,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty"`
}

// Load reads an index file. A missing file is an empty index.
func Load(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", path, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Filter returns the entries whose title, excerpt or any tag contains query,
// ignoring case. A blank query matches nothing. Order is preserved.
func Filter(entries []Entry, query string) []Entry {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return []Entry{}
	}
	out := []Entry{}
	for _, e := range entries {
		if matches(e, q) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e Entry, folded string) bool {
	if strings.Contains(Fold(e.Title), folded) || strings.Contains(Fold(e.Excerpt), folded) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(Fold(t), folded) {
			return true
		}
	}
	return false
}

// Fold returns the Unicode case-folded form of s.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

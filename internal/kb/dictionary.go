// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kb

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/triple-engine/internal/resolve"
	"github.com/pdiddy/triple-engine/pkg/types"
)

// Entry is one page of an offline dictionary.
type Entry struct {
	Title      string   `yaml:"title"`
	Identifier string   `yaml:"identifier"`
	Aliases    []string `yaml:"aliases,omitempty"`
}

// Dictionary is an in-memory knowledge base read from YAML. A lookup
// returns the entry whose title or alias is closest to the text.
type Dictionary struct {
	entries []Entry
	exact   map[string]int
}

// NewDictionary indexes entries. Entries without a title or identifier
// are rejected.
func NewDictionary(entries []Entry) (*Dictionary, error) {
	d := &Dictionary{exact: make(map[string]int)}
	for i, e := range entries {
		if e.Title == "" || e.Identifier == "" {
			return nil, fmt.Errorf("dictionary entry %d: title and identifier are required", i+1)
		}
		d.entries = append(d.entries, e)
		for _, name := range names(e) {
			key := normalize(name)
			if _, taken := d.exact[key]; !taken {
				d.exact[key] = len(d.entries) - 1
			}
		}
	}
	return d, nil
}

// ParseDictionary reads a YAML list of entries from r.
func ParseDictionary(r io.Reader) (*Dictionary, error) {
	var entries []Entry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}
	return NewDictionary(entries)
}

// LoadDictionary reads a dictionary file.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary: %w", err)
	}
	defer f.Close()

	d, err := ParseDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Lookup matches text case-insensitively against titles and aliases and
// falls back to the closest name by edit distance. Two different entries
// tied for closest make the text ambiguous.
func (d *Dictionary) Lookup(ctx context.Context, text string) (types.Page, error) {
	if err := ctx.Err(); err != nil {
		return types.Page{}, err
	}
	if len(d.entries) == 0 || strings.TrimSpace(text) == "" {
		return types.Page{}, fmt.Errorf("%q: %w", text, types.ErrPageNotFound)
	}

	if i, ok := d.exact[normalize(text)]; ok {
		return page(d.entries[i]), nil
	}

	key := normalize(text)
	best, bestScore, tied := -1, 2.0, false
	for i, e := range d.entries {
		score := 2.0
		for _, name := range names(e) {
			score = min(score, resolve.Dissimilarity(key, normalize(name)))
		}
		switch {
		case score < bestScore:
			best, bestScore, tied = i, score, false
		case score == bestScore:
			tied = true
		}
	}
	if tied {
		return types.Page{}, fmt.Errorf("%q: %w", text, types.ErrAmbiguousTitle)
	}
	return page(d.entries[best]), nil
}

func names(e Entry) []string {
	return append([]string{e.Title}, e.Aliases...)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func page(e Entry) types.Page {
	return types.Page{Title: e.Title, Identifier: e.Identifier}
}

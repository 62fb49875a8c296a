// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package phrase merges known multi-word names (aircraft models, airport
// names, companies) into single proper-noun tokens before the dependency
// tree is built, so the extraction heuristic sees "Bombardier CRJ700" as
// one nominal instead of two.
package phrase

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pdiddy/triple-engine/pkg/types"
)

// DefaultTag is the part-of-speech tag given to merged tokens.
const DefaultTag = "NNP"

// Matcher finds phrase occurrences in token rows and merges them.
type Matcher struct {
	phrases [][]string
	tag     string
}

// NewMatcher returns a Matcher for phrases. Matching is case-insensitive
// and word-by-word against each token's lemma or surface form. Longer
// phrases are preferred when several start at the same token.
func NewMatcher(phrases []string, tag string) *Matcher {
	if tag == "" {
		tag = DefaultTag
	}

	seen := make(map[string]bool)
	m := &Matcher{tag: tag}
	for _, p := range phrases {
		words := strings.Fields(strings.ToLower(p))
		if len(words) == 0 {
			continue
		}
		key := strings.Join(words, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		m.phrases = append(m.phrases, words)
	}
	sort.SliceStable(m.phrases, func(i, j int) bool {
		return len(m.phrases[i]) > len(m.phrases[j])
	})
	return m
}

// Load reads one phrase per line from r. Blank lines and lines starting
// with '#' are skipped.
func Load(r io.Reader, tag string) (*Matcher, error) {
	var phrases []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading phrases: %w", err)
	}
	return NewMatcher(phrases, tag), nil
}

// LoadFile reads a phrase list from path.
func LoadFile(path, tag string) (*Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening phrase list: %w", err)
	}
	defer f.Close()
	return Load(f, tag)
}

// Len returns the number of distinct phrases.
func (m *Matcher) Len() int {
	return len(m.phrases)
}

// Merge returns a copy of rows in which every non-overlapping phrase
// occurrence, scanning left to right, is collapsed into one token. The
// merged token keeps the index of the first word and takes the head and
// dependency label of the span's syntactic head; tokens that depended on
// any word of the span are reattached to the merged token.
func (m *Matcher) Merge(rows []types.Token) []types.Token {
	out := make([]types.Token, 0, len(rows))
	remap := make(map[int]int)

	for i := 0; i < len(rows); {
		n := m.matchAt(rows, i)
		if n == 0 {
			out = append(out, rows[i])
			i++
			continue
		}

		merged := m.mergeSpan(rows[i : i+n])
		for _, row := range rows[i : i+n] {
			remap[row.Index] = merged.Index
		}
		out = append(out, merged)
		i += n
	}

	for i := range out {
		if target, ok := remap[out[i].Head]; ok && target != out[i].Index {
			out[i].Head = target
		}
	}
	return out
}

// matchAt returns the length of the longest phrase starting at rows[i],
// or 0.
func (m *Matcher) matchAt(rows []types.Token, i int) int {
	for _, words := range m.phrases {
		if i+len(words) > len(rows) {
			continue
		}
		ok := true
		for k, w := range words {
			if !wordMatches(rows[i+k], w) {
				ok = false
				break
			}
		}
		if ok {
			return len(words)
		}
	}
	return 0
}

func wordMatches(tok types.Token, word string) bool {
	return strings.ToLower(tok.Text) == word || (tok.Lemma != "" && strings.ToLower(tok.Lemma) == word)
}

func (m *Matcher) mergeSpan(span []types.Token) types.Token {
	inSpan := make(map[int]bool, len(span))
	for _, row := range span {
		inSpan[row.Index] = true
	}

	head := span[0]
	for _, row := range span {
		if !inSpan[row.Head] {
			head = row
			break
		}
	}

	texts := make([]string, len(span))
	lemmas := make([]string, len(span))
	for k, row := range span {
		texts[k] = row.Text
		lemmas[k] = row.Lemma
		if lemmas[k] == "" {
			lemmas[k] = row.Text
		}
	}

	return types.Token{
		Index: span[0].Index,
		Text:  strings.Join(texts, " "),
		Lemma: strings.Join(lemmas, " "),
		Tag:   m.tag,
		Dep:   head.Dep,
		Head:  head.Head,
	}
}

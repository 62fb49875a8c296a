// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package conllu reads dependency parses in CoNLL-U format. Each sentence
// is a block of tab-separated rows terminated by a blank line; comment
// lines start with '#'. See https://universaldependencies.org/format.html.
//
// Multiword token ranges ("1-2") and empty nodes ("1.1") are skipped:
// the tree builder only needs the basic dependency rows.
package conllu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/triple-engine/pkg/types"
)

const numFields = 10

// Column positions.
const (
	colID = iota
	colForm
	colLemma
	colUPOS
	colXPOS
	colFeats
	colHead
	colDepRel
	colDeps
	colMisc
)

// Sentence is one CoNLL-U block before tree construction.
type Sentence struct {
	// ID comes from a "# sent_id = ..." comment, empty when absent.
	ID string

	// Text comes from a "# text = ..." comment, empty when absent.
	Text string

	// Rows are the basic dependency rows in file order. Children are not
	// linked yet.
	Rows []types.Token
}

// Read parses every sentence in r.
func Read(r io.Reader) ([]Sentence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		sentences []Sentence
		current   Sentence
		lineNo    int
	)

	flush := func() {
		if len(current.Rows) > 0 {
			sentences = append(sentences, current)
		}
		current = Sentence{}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if strings.HasPrefix(line, "#") {
			parseComment(&current, line)
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != numFields {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", lineNo, numFields, len(fields))
		}

		if strings.ContainsAny(fields[colID], "-.") {
			continue
		}

		tok, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		current.Rows = append(current.Rows, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading CoNLL-U: %w", err)
	}
	flush()

	return sentences, nil
}

func parseComment(s *Sentence, line string) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	key, value, ok := strings.Cut(body, "=")
	if !ok {
		return
	}
	switch strings.TrimSpace(key) {
	case "sent_id":
		s.ID = strings.TrimSpace(value)
	case "text":
		s.Text = strings.TrimSpace(value)
	}
}

func parseRow(fields []string) (types.Token, error) {
	id, err := strconv.Atoi(fields[colID])
	if err != nil {
		return types.Token{}, fmt.Errorf("parsing ID field %q: %w", fields[colID], err)
	}

	head := 0
	if h := fields[colHead]; h != "_" {
		head, err = strconv.Atoi(h)
		if err != nil {
			return types.Token{}, fmt.Errorf("parsing HEAD field %q: %w", h, err)
		}
	}

	// Language-specific tags are finer grained; fall back to UPOS.
	tag := field(fields[colXPOS])
	if tag == "" {
		tag = field(fields[colUPOS])
	}

	return types.Token{
		Index: id,
		Text:  field(fields[colForm]),
		Lemma: field(fields[colLemma]),
		Tag:   tag,
		Dep:   field(fields[colDepRel]),
		Head:  head,
	}, nil
}

// field maps the CoNLL-U placeholder "_" to the empty string.
func field(value string) string {
	if value == "_" {
		return ""
	}
	return value
}

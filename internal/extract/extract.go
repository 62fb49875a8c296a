// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds subject-predicate-object candidates in a
// dependency tree. Every root-to-leaf branch is scanned from the leaf
// upward: the deepest nominal becomes the object, the next one up the
// subject, and the nearest verb the predicate. Branches without a subject
// borrow the sentence's grammatical subject.
package extract

import (
	"log/slog"

	"github.com/pdiddy/triple-engine/internal/branch"
	"github.com/pdiddy/triple-engine/pkg/types"
)

// Extractor applies the branch heuristic with a fixed tag vocabulary.
type Extractor struct {
	tags   TagSet
	logger *slog.Logger
}

// New returns an Extractor for cfg. A nil logger discards output.
func New(cfg types.TagConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{tags: NewTagSet(cfg), logger: logger}
}

// Extract returns the accepted raw triples of s, one per qualifying branch,
// in branch order. Branches lacking evidence are dropped.
func (e *Extractor) Extract(s *types.Sentence) []types.RawTriple {
	fallback := e.FallbackSubject(s)

	var triples []types.RawTriple
	for _, b := range branch.Decompose(s.Root) {
		raw := e.scan(b.Reversed())

		if raw.Subject == "" {
			raw.Subject = fallback
		}
		if raw.Predicate == "" {
			raw.Predicate = e.tags.copula
		}

		if !raw.Complete() || raw.Subject == raw.Object {
			e.logger.Debug("branch dropped",
				"sentence", s.ID,
				"leaf", b[len(b)-1].Text,
				"subject", raw.Subject,
				"predicate", raw.Predicate,
				"object", raw.Object)
			continue
		}
		triples = append(triples, raw)
	}
	return triples
}

// subjectStrength ranks fallback subject candidates.
type subjectStrength int

const (
	noSubject subjectStrength = iota
	pronounSubject
	nounSubject
)

// FallbackSubject returns the text of the sentence's grammatical subject,
// or "" when there is none. The first non-pronoun nominal subject wins; a
// pronoun is used only when no other subject exists.
func (e *Extractor) FallbackSubject(s *types.Sentence) string {
	text, strength := "", noSubject
	for _, tok := range s.Tokens {
		text, strength = e.foldSubject(text, strength, tok)
	}
	return text
}

func (e *Extractor) foldSubject(text string, strength subjectStrength, tok *types.Token) (string, subjectStrength) {
	if !e.tags.IsSubject(tok) {
		return text, strength
	}
	if e.tags.IsPronoun(tok) {
		if strength == noSubject {
			return tok.Text, pronounSubject
		}
		return text, strength
	}
	if strength < nounSubject {
		return tok.Text, nounSubject
	}
	return text, strength
}

// scan fills the slots of one leaf-to-root branch. A preposition only
// stands in for the predicate until a verb is seen.
func (e *Extractor) scan(leafToRoot types.Branch) types.RawTriple {
	var (
		raw               types.RawTriple
		predicateAssigned bool
	)
	for _, tok := range leafToRoot {
		switch {
		case e.tags.IsNominal(tok):
			if raw.Object == "" {
				raw.Object = tok.Text
			} else {
				raw.Subject = tok.Text
			}
		case e.tags.IsVerb(tok) && !predicateAssigned:
			raw.Predicate = tok.Text
			predicateAssigned = true
		case e.tags.IsPreposition(tok) && !predicateAssigned:
			raw.Predicate = tok.Text
		}
	}
	return raw
}

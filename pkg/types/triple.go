// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"sort"
)

// RawTriple holds the surface text chosen for each slot of an assertion
// before resolution. An empty string means the slot is unfilled.
type RawTriple struct {
	Subject   string `json:"subject" yaml:"subject"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    string `json:"object" yaml:"object"`
}

// Complete reports whether every slot is filled.
func (r RawTriple) Complete() bool {
	return r.Subject != "" && r.Predicate != "" && r.Object != ""
}

// ComponentKind distinguishes knowledge-base references from literals.
type ComponentKind string

const (
	KindReference ComponentKind = "reference"
	KindLiteral   ComponentKind = "literal"
)

// Component is a resolved triple slot: either a knowledge-base identifier
// or the raw text kept as a literal. Components are comparable values.
type Component struct {
	Kind  ComponentKind `json:"kind" yaml:"kind"`
	Value string        `json:"value" yaml:"value"`
}

// Reference returns a reference component for the identifier.
func Reference(identifier string) Component {
	return Component{Kind: KindReference, Value: identifier}
}

// Literal returns a literal component for the text.
func Literal(text string) Component {
	return Component{Kind: KindLiteral, Value: text}
}

// IsReference reports whether the component points into the knowledge base.
func (c Component) IsReference() bool {
	return c.Kind == KindReference
}

func (c Component) String() string {
	if c.IsReference() {
		return "<" + c.Value + ">"
	}
	return fmt.Sprintf("%q", c.Value)
}

// ResolvedTriple is a triple whose slots have been resolved.
type ResolvedTriple struct {
	Subject   Component `json:"subject" yaml:"subject"`
	Predicate Component `json:"predicate" yaml:"predicate"`
	Object    Component `json:"object" yaml:"object"`
}

func (t ResolvedTriple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String()
}

// TripleSet is a duplicate-free collection of resolved triples. The zero
// value is not usable; create one with NewTripleSet.
type TripleSet struct {
	items map[ResolvedTriple]struct{}
}

// NewTripleSet returns an empty set.
func NewTripleSet() TripleSet {
	return TripleSet{items: make(map[ResolvedTriple]struct{})}
}

// Add inserts t and reports whether it was not already present.
func (s TripleSet) Add(t ResolvedTriple) bool {
	if _, ok := s.items[t]; ok {
		return false
	}
	s.items[t] = struct{}{}
	return true
}

// Contains reports whether t is in the set.
func (s TripleSet) Contains(t ResolvedTriple) bool {
	_, ok := s.items[t]
	return ok
}

// Len returns the number of triples in the set.
func (s TripleSet) Len() int {
	return len(s.items)
}

// Triples returns the members sorted by subject, predicate, then object so
// that output is stable across runs.
func (s TripleSet) Triples() []ResolvedTriple {
	out := make([]ResolvedTriple, 0, len(s.items))
	for t := range s.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return tripleKey(out[i]) < tripleKey(out[j])
	})
	return out
}

// Equal reports whether both sets hold exactly the same triples.
func (s TripleSet) Equal(other TripleSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for t := range s.items {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

func tripleKey(t ResolvedTriple) string {
	return componentKey(t.Subject) + "\x00" + componentKey(t.Predicate) + "\x00" + componentKey(t.Object)
}

func componentKey(c Component) string {
	return string(c.Kind) + "\x01" + c.Value
}

// SentenceTriples pairs a sentence with the triples extracted from it.
type SentenceTriples struct {
	SentenceID string           `json:"sentence_id" yaml:"sentence_id"`
	Text       string           `json:"text,omitempty" yaml:"text,omitempty"`
	Triples    []ResolvedTriple `json:"triples" yaml:"triples"`
}

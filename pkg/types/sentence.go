// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the triple-engine
// pipeline: the dependency tree model, raw and resolved triples, the
// knowledge-base lookup contract, and configuration.
package types

// Token is one node of a dependency tree. Tokens are built once by the
// tree builder and treated as read-only afterwards.
type Token struct {
	// Index is the 1-based position of the token in the sentence.
	Index int `json:"index" yaml:"index"`

	// Text is the surface form. Merged phrases carry the joined forms.
	Text string `json:"text" yaml:"text"`

	// Lemma is the dictionary form, empty when the parser gave none.
	Lemma string `json:"lemma,omitempty" yaml:"lemma,omitempty"`

	// Tag is the part-of-speech tag (e.g. "NN", "VBG", "PROPN").
	Tag string `json:"tag" yaml:"tag"`

	// Dep is the dependency label relating the token to its head
	// (e.g. "nsubj", "prep", "ROOT").
	Dep string `json:"dep" yaml:"dep"`

	// Head is the Index of the parent token, 0 for the root.
	Head int `json:"head" yaml:"head"`

	// Children are the dependents of this token ordered by Index.
	Children []*Token `json:"-" yaml:"-"`
}

// IsLeaf reports whether the token has no dependents.
func (t *Token) IsLeaf() bool {
	return len(t.Children) == 0
}

// Sentence is a parsed sentence: its tokens in surface order and the root
// of the dependency tree linking them.
type Sentence struct {
	// ID identifies the sentence (CoNLL-U "sent_id" or a generated UUID).
	ID string `json:"id" yaml:"id"`

	// Text is the raw sentence text when known.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Tokens lists every token in surface order.
	Tokens []*Token `json:"tokens" yaml:"tokens"`

	// Root is the single token without a head.
	Root *Token `json:"-" yaml:"-"`
}

// Branch is one root-to-leaf path through a dependency tree.
type Branch []*Token

// Reversed returns a new branch ordered leaf-to-root.
func (b Branch) Reversed() Branch {
	out := make(Branch, len(b))
	for i, tok := range b {
		out[len(b)-1-i] = tok
	}
	return out
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "github.com/pdiddy/triple-engine/pkg/types"

// DefaultCopula is the predicate given to branches without a verb or
// preposition.
const DefaultCopula = "is"

// DefaultTagConfig covers Penn Treebank tags, Universal POS tags, and the
// matching spaCy / UD dependency labels.
func DefaultTagConfig() types.TagConfig {
	return types.TagConfig{
		Nouns:             []string{"NN", "NNS", "NNP", "NNPS", "NOUN", "PROPN"},
		Adjectives:        []string{"JJ", "JJR", "JJS", "ADJ"},
		Verbs:             []string{"VB", "VBD", "VBG", "VBN", "VBP", "VBZ", "VERB"},
		Pronouns:          []string{"PRP", "PRP$", "WP", "WP$", "PRON"},
		SubjectLabels:     []string{"nsubj", "nsubjpass", "nsubj:pass"},
		PrepositionLabels: []string{"prep", "case"},
		Copula:            DefaultCopula,
	}
}

// TagSet is the lookup form of a TagConfig.
type TagSet struct {
	nominals     set
	verbs        set
	pronouns     set
	subjects     set
	prepositions set
	copula       string
}

// NewTagSet indexes cfg for constant-time membership checks.
func NewTagSet(cfg types.TagConfig) TagSet {
	copula := cfg.Copula
	if copula == "" {
		copula = DefaultCopula
	}
	return TagSet{
		nominals:     newSet(cfg.Nouns, cfg.Adjectives),
		verbs:        newSet(cfg.Verbs),
		pronouns:     newSet(cfg.Pronouns),
		subjects:     newSet(cfg.SubjectLabels),
		prepositions: newSet(cfg.PrepositionLabels),
		copula:       copula,
	}
}

// IsNominal reports whether tok fills object/subject slots.
func (ts TagSet) IsNominal(tok *types.Token) bool { return ts.nominals[tok.Tag] }

// IsVerb reports whether tok can be the predicate.
func (ts TagSet) IsVerb(tok *types.Token) bool { return ts.verbs[tok.Tag] }

// IsPronoun reports whether tok is tagged as a pronoun.
func (ts TagSet) IsPronoun(tok *types.Token) bool { return ts.pronouns[tok.Tag] }

// IsSubject reports whether tok is a nominal subject.
func (ts TagSet) IsSubject(tok *types.Token) bool { return ts.subjects[tok.Dep] }

// IsPreposition reports whether tok stands in a prepositional relation.
func (ts TagSet) IsPreposition(tok *types.Token) bool { return ts.prepositions[tok.Dep] }

type set map[string]bool

func newSet(lists ...[]string) set {
	s := make(set)
	for _, list := range lists {
		for _, v := range list {
			s[v] = true
		}
	}
	return s
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/triple-engine/internal/conllu"
	"github.com/pdiddy/triple-engine/internal/phrase"
	"github.com/pdiddy/triple-engine/internal/tree"
	"github.com/pdiddy/triple-engine/pkg/types"
)

const (
	crjIRI     = "https://en.wikipedia.org/wiki/Bombardier_CRJ700_series"
	lisbonIRI  = "https://en.wikipedia.org/wiki/Lisbon_Airport"
	flyingText = "Bombardier CRJ700 is flying to Lisbon Portela Airport"
)

func wiki() types.Lookup {
	pages := map[string]types.Page{
		"Bombardier CRJ700":      {Title: "Bombardier CRJ700", Identifier: crjIRI},
		"Lisbon Portela Airport": {Title: "Lisbon Airport", Identifier: lisbonIRI},
	}
	return types.LookupFunc(func(_ context.Context, text string) (types.Page, error) {
		if p, ok := pages[text]; ok {
			return p, nil
		}
		return types.Page{}, types.ErrPageNotFound
	})
}

func mergedFlyingRows() []types.Token {
	return []types.Token{
		{Index: 1, Text: "Bombardier CRJ700", Tag: "NNP", Dep: "nsubj", Head: 3},
		{Index: 2, Text: "is", Tag: "VBZ", Dep: "aux", Head: 3},
		{Index: 3, Text: "flying", Tag: "VBG", Dep: "ROOT", Head: 0},
		{Index: 4, Text: "to", Tag: "IN", Dep: "prep", Head: 3},
		{Index: 5, Text: "Lisbon Portela Airport", Tag: "NNP", Dep: "pobj", Head: 4},
	}
}

func flyingSentence(t *testing.T) *types.Sentence {
	t.Helper()
	s, err := tree.Build("flying", flyingText, mergedFlyingRows())
	require.NoError(t, err)
	return s
}

func TestFlyingSentenceResolves(t *testing.T) {
	e := New(Options{Lookup: wiki()})

	set, err := e.ExtractAndResolveTriples(context.Background(), flyingSentence(t))
	require.NoError(t, err)

	require.Equal(t, 1, set.Len())
	assert.True(t, set.Contains(types.ResolvedTriple{
		Subject:   types.Reference(crjIRI),
		Predicate: types.Literal("flying"),
		Object:    types.Reference(lisbonIRI),
	}))
}

func TestWithoutKnowledgeBaseEverythingIsLiteral(t *testing.T) {
	e := New(Options{})

	set, err := e.ExtractAndResolveTriples(context.Background(), flyingSentence(t))
	require.NoError(t, err)
	assert.Equal(t, []types.ResolvedTriple{{
		Subject:   types.Literal("Bombardier CRJ700"),
		Predicate: types.Literal("flying"),
		Object:    types.Literal("Lisbon Portela Airport"),
	}}, set.Triples())
}

func TestExtractIsIdempotent(t *testing.T) {
	e := New(Options{Lookup: wiki()})
	s := flyingSentence(t)

	first, err := e.ExtractAndResolveTriples(context.Background(), s)
	require.NoError(t, err)
	second, err := e.ExtractAndResolveTriples(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestMalformedTreeFails(t *testing.T) {
	e := New(Options{})
	s := flyingSentence(t)
	// Make "to" its own ancestor.
	s.Tokens[3].Children = append(s.Tokens[3].Children, s.Tokens[3])

	_, err := e.ExtractAndResolveTriples(context.Background(), s)
	assert.ErrorIs(t, err, tree.ErrMalformedTree)
}

func TestCancelledContextReturnsError(t *testing.T) {
	e := New(Options{Lookup: wiki()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set, err := e.ExtractAndResolveTriples(ctx, flyingSentence(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, set.Len())
}

func TestCustomTagsAreUsed(t *testing.T) {
	// Only PROPN counts as a noun, so the Penn-tagged tree yields nothing.
	e := New(Options{Tags: types.TagConfig{Nouns: []string{"PROPN"}, Verbs: []string{"VERB"}}})

	set, err := e.ExtractAndResolveTriples(context.Background(), flyingSentence(t))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestPartialTagsAreNotReplacedByDefaults(t *testing.T) {
	// No noun list, but NNP listed as an adjective and only VBZ as a verb:
	// the aux "is" never reaches the object branch, so the copula fills in.
	e := New(Options{Tags: types.TagConfig{
		Adjectives:    []string{"NNP"},
		Verbs:         []string{"VBZ"},
		SubjectLabels: []string{"nsubj"},
	}})

	set, err := e.ExtractAndResolveTriples(context.Background(), flyingSentence(t))
	require.NoError(t, err)
	assert.Equal(t, []types.ResolvedTriple{{
		Subject:   types.Literal("Bombardier CRJ700"),
		Predicate: types.Literal("is"),
		Object:    types.Literal("Lisbon Portela Airport"),
	}}, set.Triples())
}

func TestAdjectiveOnlyTagsYieldNothing(t *testing.T) {
	e := New(Options{Tags: types.TagConfig{Adjectives: []string{"JJ"}, Verbs: []string{"NONE"}}})

	set, err := e.ExtractAndResolveTriples(context.Background(), flyingSentence(t))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

// --- Process ---

type failingSink struct {
	failID string
	seen   []string
}

func (f *failingSink) Add(_ context.Context, s *types.Sentence, _ types.TripleSet) error {
	if s.ID == f.failID {
		return errors.New("disk full")
	}
	f.seen = append(f.seen, s.ID)
	return nil
}

func document() []conllu.Sentence {
	return []conllu.Sentence{
		{
			ID:   "flying",
			Text: flyingText,
			Rows: []types.Token{
				{Index: 1, Text: "Bombardier", Lemma: "Bombardier", Tag: "NNP", Dep: "compound", Head: 2},
				{Index: 2, Text: "CRJ700", Lemma: "CRJ700", Tag: "NNP", Dep: "nsubj", Head: 4},
				{Index: 3, Text: "is", Lemma: "be", Tag: "VBZ", Dep: "aux", Head: 4},
				{Index: 4, Text: "flying", Lemma: "fly", Tag: "VBG", Dep: "ROOT", Head: 0},
				{Index: 5, Text: "to", Lemma: "to", Tag: "IN", Dep: "prep", Head: 4},
				{Index: 6, Text: "Lisbon", Lemma: "Lisbon", Tag: "NNP", Dep: "compound", Head: 8},
				{Index: 7, Text: "Portela", Lemma: "Portela", Tag: "NNP", Dep: "compound", Head: 8},
				{Index: 8, Text: "Airport", Lemma: "Airport", Tag: "NNP", Dep: "pobj", Head: 5},
			},
		},
		{
			ID:   "rains",
			Text: "It rains.",
			Rows: []types.Token{
				{Index: 1, Text: "It", Tag: "PRP", Dep: "nsubj", Head: 2},
				{Index: 2, Text: "rains", Tag: "VBZ", Dep: "ROOT", Head: 0},
			},
		},
		{
			ID: "two-roots",
			Rows: []types.Token{
				{Index: 1, Text: "Boeing", Tag: "NNP", Dep: "ROOT", Head: 0},
				{Index: 2, Text: "Airbus", Tag: "NNP", Dep: "ROOT", Head: 0},
			},
		},
		{
			ID:   "airbus",
			Text: "Airbus builds jets",
			Rows: []types.Token{
				{Index: 1, Text: "Airbus", Tag: "NNP", Dep: "nsubj", Head: 2},
				{Index: 2, Text: "builds", Tag: "VBZ", Dep: "ROOT", Head: 0},
				{Index: 3, Text: "jets", Tag: "NNS", Dep: "dobj", Head: 2},
			},
		},
	}
}

func TestProcessCountsAndContinues(t *testing.T) {
	phrases := phrase.NewMatcher([]string{"Bombardier CRJ700", "Lisbon Portela Airport"}, "")
	e := New(Options{Lookup: wiki(), Phrases: phrases})

	collector := &Collector{}
	var out bytes.Buffer
	summary, err := e.Process(context.Background(), document(), collector, &out)
	require.NoError(t, err)

	assert.Equal(t, Summary{WithTriples: 2, Empty: 1, Failed: 1, Triples: 2}, summary)
	assert.Equal(t, 4, summary.Total())

	require.Len(t, collector.Results, 3)
	assert.Equal(t, "flying", collector.Results[0].SentenceID)
	assert.Equal(t, []types.ResolvedTriple{{
		Subject:   types.Reference(crjIRI),
		Predicate: types.Literal("flying"),
		Object:    types.Reference(lisbonIRI),
	}}, collector.Results[0].Triples)
	assert.Empty(t, collector.Results[1].Triples)

	assert.Contains(t, out.String(), "extracted flying (1 triples)")
	assert.Contains(t, out.String(), "empty     rains")
	assert.Contains(t, out.String(), "failed    two-roots")
	assert.Contains(t, out.String(), "with triples: 2, empty: 1, failed: 1")
}

func TestProcessSinkFailureCountsAsFailed(t *testing.T) {
	e := New(Options{})
	sink := &failingSink{failID: "airbus"}

	var out bytes.Buffer
	summary, err := e.Process(context.Background(), document(), Sinks{sink}, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, []string{"flying", "rains"}, sink.seen)
	assert.Contains(t, out.String(), "failed    airbus: disk full")
}

func TestProcessStopsOnCancel(t *testing.T) {
	e := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := e.Process(ctx, document(), nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Total())
}

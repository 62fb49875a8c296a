// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires tree validation, triple extraction and entity
// resolution into the single per-sentence operation, and drives it over a
// document of parsed sentences.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/triple-engine/internal/assemble"
	"github.com/pdiddy/triple-engine/internal/conllu"
	"github.com/pdiddy/triple-engine/internal/extract"
	"github.com/pdiddy/triple-engine/internal/phrase"
	"github.com/pdiddy/triple-engine/internal/resolve"
	"github.com/pdiddy/triple-engine/internal/tree"
	"github.com/pdiddy/triple-engine/pkg/types"
)

// Options configures an Engine.
type Options struct {
	// Tags is the extraction vocabulary. The zero value selects
	// extract.DefaultTagConfig.
	Tags types.TagConfig

	// Resolver holds threshold and lookup timeout.
	Resolver types.ResolverConfig

	// Lookup is the knowledge base. Nil resolves everything to literals.
	Lookup types.Lookup

	// Phrases, when set, merges multi-word names before tree building.
	Phrases *phrase.Matcher

	Logger *slog.Logger
}

// Engine turns dependency trees into resolved triple sets. It holds no
// per-sentence state and may be reused across sentences.
type Engine struct {
	extractor *extract.Extractor
	resolver  *resolve.Resolver
	phrases   *phrase.Matcher
	logger    *slog.Logger
}

// New returns an Engine for opts.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tags := opts.Tags
	if tags.IsZero() {
		tags = extract.DefaultTagConfig()
	}
	return &Engine{
		extractor: extract.New(tags, logger),
		resolver:  resolve.New(opts.Lookup, opts.Resolver, logger),
		phrases:   opts.Phrases,
		logger:    logger,
	}
}

// ExtractAndResolveTriples returns the duplicate-free set of resolved
// triples asserted by s. A malformed tree fails with tree.ErrMalformedTree.
// A sentence with no acceptable branch yields an empty set and no error.
// When ctx is cancelled the partial result is discarded and ctx.Err() is
// returned.
func (e *Engine) ExtractAndResolveTriples(ctx context.Context, s *types.Sentence) (types.TripleSet, error) {
	if err := ctx.Err(); err != nil {
		return types.NewTripleSet(), err
	}
	if err := tree.Validate(s); err != nil {
		return types.NewTripleSet(), err
	}

	raws := e.extractor.Extract(s)
	set, err := assemble.Assemble(ctx, e.resolver.Session(), raws)
	if err != nil {
		return types.NewTripleSet(), err
	}

	e.logger.Debug("sentence resolved", "sentence", s.ID, "raw", len(raws), "triples", set.Len())
	return set, nil
}

// Build merges known phrases into rows and links them into a validated
// tree.
func (e *Engine) Build(in conllu.Sentence) (*types.Sentence, error) {
	rows := in.Rows
	if e.phrases != nil {
		rows = e.phrases.Merge(rows)
	}
	return tree.Build(in.ID, in.Text, rows)
}

// Sink receives the triples of each processed sentence.
type Sink interface {
	Add(ctx context.Context, s *types.Sentence, set types.TripleSet) error
}

// Summary holds counts from a Process run.
type Summary struct {
	WithTriples int
	Empty       int
	Failed      int
	Triples     int
}

// Total returns the number of sentences processed.
func (s Summary) Total() int {
	return s.WithTriples + s.Empty + s.Failed
}

// Process builds, extracts and resolves every sentence in order and hands
// each result to sink. A malformed tree or sink failure is reported on w,
// counted as failed, and processing continues. Cancellation stops the run
// and returns ctx.Err() with the counts so far.
func (e *Engine) Process(ctx context.Context, sentences []conllu.Sentence, sink Sink, w io.Writer) (Summary, error) {
	var summary Summary

	for _, in := range sentences {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		s, err := e.Build(in)
		if err != nil {
			fmt.Fprintf(w, "failed    %s: %v\n", label(in), err)
			summary.Failed++
			continue
		}

		set, err := e.ExtractAndResolveTriples(ctx, s)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			fmt.Fprintf(w, "failed    %s: %v\n", s.ID, err)
			summary.Failed++
			continue
		}

		if sink != nil {
			if err := sink.Add(ctx, s, set); err != nil {
				fmt.Fprintf(w, "failed    %s: %v\n", s.ID, err)
				summary.Failed++
				continue
			}
		}

		if set.Len() == 0 {
			fmt.Fprintf(w, "empty     %s\n", s.ID)
			summary.Empty++
			continue
		}
		fmt.Fprintf(w, "extracted %s (%d triples)\n", s.ID, set.Len())
		summary.WithTriples++
		summary.Triples += set.Len()
	}

	fmt.Fprintf(w, "\nsentences: %d, with triples: %d, empty: %d, failed: %d, triples: %d\n",
		summary.Total(), summary.WithTriples, summary.Empty, summary.Failed, summary.Triples)

	return summary, nil
}

func label(in conllu.Sentence) string {
	if in.ID != "" {
		return in.ID
	}
	return fmt.Sprintf("%q", in.Text)
}

// Collector is a Sink that keeps every result in memory, in order.
type Collector struct {
	Results []types.SentenceTriples
}

// Add records set for s.
func (c *Collector) Add(_ context.Context, s *types.Sentence, set types.TripleSet) error {
	c.Results = append(c.Results, types.SentenceTriples{
		SentenceID: s.ID,
		Text:       s.Text,
		Triples:    set.Triples(),
	})
	return nil
}

// Sinks fans each result out to several sinks, stopping at the first
// error.
type Sinks []Sink

// Add forwards to every sink in order.
func (ss Sinks) Add(ctx context.Context, s *types.Sentence, set types.TripleSet) error {
	for _, sink := range ss {
		if err := sink.Add(ctx, s, set); err != nil {
			return err
		}
	}
	return nil
}

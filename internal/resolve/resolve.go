// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns triple slot text into knowledge-base references
// or literals. A lookup result is trusted only when the returned page
// title is lexically close to the text that was looked up.
package resolve

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/triple-engine/pkg/types"
)

const (
	// DefaultThreshold is the dissimilarity below which a match is trusted.
	DefaultThreshold = 0.5

	// DefaultLookupTimeout bounds a single knowledge-base lookup.
	DefaultLookupTimeout = 5 * time.Second
)

// Dissimilarity returns the edit distance between a and b normalized by
// the longer string's rune count: 0 for identical strings, 1 for strings
// with nothing in common.
func Dissimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

// Resolver decides between a reference and a literal for a text.
type Resolver struct {
	lookup    types.Lookup
	threshold float64
	timeout   time.Duration
	logger    *slog.Logger
}

// New returns a Resolver over lookup. Zero config values take defaults; a
// nil lookup makes every component a literal.
func New(lookup types.Lookup, cfg types.ResolverConfig, logger *slog.Logger) *Resolver {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		lookup:    lookup,
		threshold: cfg.Threshold,
		timeout:   cfg.LookupTimeout,
		logger:    logger,
	}
}

// Resolve performs one lookup for text. Any lookup error, timeout
// included, counts as maximal dissimilarity and yields a literal.
func (r *Resolver) Resolve(ctx context.Context, text string) types.Component {
	score, page := r.score(ctx, text)
	if score < r.threshold {
		return types.Reference(page.Identifier)
	}
	return types.Literal(text)
}

func (r *Resolver) score(ctx context.Context, text string) (float64, types.Page) {
	if r.lookup == nil {
		return 1, types.Page{}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, err := r.lookup.Lookup(ctx, text)
	if err != nil {
		r.logger.Debug("lookup failed", "text", text, "error", err)
		return 1, types.Page{}
	}

	score := Dissimilarity(text, page.Title)
	r.logger.Debug("lookup matched", "text", text, "title", page.Title, "dissimilarity", score)
	return score, page
}

// Session returns a memoizing view of r for one sentence. Each distinct
// text is looked up at most once; concurrent callers asking for the same
// text wait for the single in-flight lookup.
func (r *Resolver) Session() *Session {
	return &Session{resolver: r, memo: make(map[string]types.Component)}
}

// Session memoizes resolutions within the processing of one sentence. It
// is safe for concurrent use and must not outlive the sentence.
type Session struct {
	resolver *Resolver
	group    singleflight.Group

	mu   sync.Mutex
	memo map[string]types.Component
}

// Resolve returns the memoized component for text, resolving it first if
// needed.
func (s *Session) Resolve(ctx context.Context, text string) types.Component {
	s.mu.Lock()
	c, ok := s.memo[text]
	s.mu.Unlock()
	if ok {
		return c
	}

	v, _, _ := s.group.Do(text, func() (any, error) {
		// A call that finished between the check above and Do has
		// already stored its result.
		s.mu.Lock()
		if c, ok := s.memo[text]; ok {
			s.mu.Unlock()
			return c, nil
		}
		s.mu.Unlock()

		c := s.resolver.Resolve(ctx, text)
		s.mu.Lock()
		s.memo[text] = c
		s.mu.Unlock()
		return c, nil
	})
	return v.(types.Component)
}

// Len returns the number of distinct texts resolved so far.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.memo)
}

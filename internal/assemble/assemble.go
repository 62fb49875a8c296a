// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble resolves raw triples and collects them into a set.
package assemble

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/triple-engine/pkg/types"
)

// Resolver resolves one slot text. *resolve.Session satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, text string) types.Component
}

// Assemble resolves the subject, predicate and object of every raw triple
// and returns the duplicate-free set of results. The three slots of a
// triple are resolved in parallel; a failed lookup still yields a literal,
// so every raw triple contributes one resolved triple before
// deduplication. Assembly stops with ctx.Err() once ctx is cancelled.
func Assemble(ctx context.Context, r Resolver, raws []types.RawTriple) (types.TripleSet, error) {
	set := types.NewTripleSet()
	for _, raw := range raws {
		t, err := resolveTriple(ctx, r, raw)
		if err != nil {
			return types.NewTripleSet(), err
		}
		set.Add(t)
	}
	return set, nil
}

func resolveTriple(ctx context.Context, r Resolver, raw types.RawTriple) (types.ResolvedTriple, error) {
	texts := [3]string{raw.Subject, raw.Predicate, raw.Object}
	var slots [3]types.Component

	g, gctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = r.Resolve(gctx, text)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return types.ResolvedTriple{}, err
	}

	return types.ResolvedTriple{
		Subject:   slots[0],
		Predicate: slots[1],
		Object:    slots[2],
	}, nil
}

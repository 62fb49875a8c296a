// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kb

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/triple-engine/pkg/types"
)

// cacheEntry holds a page or the definitive error for a text.
type cacheEntry struct {
	page types.Page
	err  error
}

// Cached remembers lookup results across sentences for a fixed TTL.
// Definitive answers (a page, ErrPageNotFound, ErrAmbiguousTitle) are
// cached; transport failures and timeouts are not.
type Cached struct {
	next  types.Lookup
	cache *gocache.Cache
}

// NewCached wraps next with an in-memory cache whose entries expire
// after ttl.
func NewCached(next types.Lookup, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Lookup answers from the cache when possible.
func (c *Cached) Lookup(ctx context.Context, text string) (types.Page, error) {
	if v, found := c.cache.Get(text); found {
		e := v.(cacheEntry)
		return e.page, e.err
	}

	page, err := c.next.Lookup(ctx, text)
	if err == nil || errors.Is(err, types.ErrPageNotFound) || errors.Is(err, types.ErrAmbiguousTitle) {
		c.cache.SetDefault(text, cacheEntry{page: page, err: err})
	}
	return page, err
}

// Len returns the number of cached texts, expired ones included until
// the next cleanup.
func (c *Cached) Len() int {
	return c.cache.ItemCount()
}

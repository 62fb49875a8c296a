// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kb provides the knowledge-base lookups used by entity
// resolution: the Wikipedia search API, an offline YAML dictionary, and a
// TTL cache that can wrap either.
package kb

import (
	"fmt"
	"log/slog"

	"github.com/pdiddy/triple-engine/pkg/types"
)

// Open builds the lookup selected by cfg.Backend. The none backend
// returns a nil Lookup, which resolves every component to a literal.
// A positive cfg.CacheTTL wraps the backend in a Cached.
func Open(cfg types.KBConfig, token string, logger *slog.Logger) (types.Lookup, error) {
	var lookup types.Lookup

	switch cfg.Backend {
	case types.BackendWikipedia, "":
		lookup = NewWikipedia(cfg, token, logger)
	case types.BackendDictionary:
		if cfg.DictionaryPath == "" {
			return nil, fmt.Errorf("dictionary backend requires a dictionary path")
		}
		d, err := LoadDictionary(cfg.DictionaryPath)
		if err != nil {
			return nil, err
		}
		lookup = d
	case types.BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown knowledge-base backend %q: use wikipedia, dictionary or none", cfg.Backend)
	}

	if cfg.CacheTTL > 0 {
		lookup = NewCached(lookup, cfg.CacheTTL)
	}
	return lookup, nil
}

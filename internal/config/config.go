// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the triple-engine configuration from defaults,
// a YAML config file and TRIPLE_ENGINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/triple-engine/internal/extract"
	"github.com/pdiddy/triple-engine/internal/logging"
	"github.com/pdiddy/triple-engine/internal/rdf"
	"github.com/pdiddy/triple-engine/internal/resolve"
	"github.com/pdiddy/triple-engine/pkg/types"
)

// EnvPrefix prefixes environment overrides: kb.backend is read from
// TRIPLE_ENGINE_KB_BACKEND.
const EnvPrefix = "TRIPLE_ENGINE"

// Default returns the built-in configuration.
func Default() types.Config {
	return types.Config{
		Tags: extract.DefaultTagConfig(),
		Resolver: types.ResolverConfig{
			Threshold:     resolve.DefaultThreshold,
			LookupTimeout: resolve.DefaultLookupTimeout,
		},
		KB: types.KBConfig{
			Backend:           types.BackendWikipedia,
			Endpoint:          "https://en.wikipedia.org/w/api.php",
			UserAgent:         "triple-engine/dev (https://github.com/pdiddy/triple-engine)",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			CacheTTL:          time.Hour,
		},
		Store: types.StoreConfig{
			Dir:        "data",
			MaxResults: 20,
		},
		RDF: types.RDFConfig{BaseIRI: rdf.DefaultBaseIRI},
		Log: types.LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers every key of Default with v so that environment
// variables can override keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	defaults := map[string]any{
		"tags.nouns":              d.Tags.Nouns,
		"tags.adjectives":         d.Tags.Adjectives,
		"tags.verbs":              d.Tags.Verbs,
		"tags.pronouns":           d.Tags.Pronouns,
		"tags.subject_labels":     d.Tags.SubjectLabels,
		"tags.preposition_labels": d.Tags.PrepositionLabels,
		"tags.copula":             d.Tags.Copula,
		"resolver.threshold":      d.Resolver.Threshold,
		"resolver.lookup_timeout": d.Resolver.LookupTimeout,
		"kb.backend":              d.KB.Backend,
		"kb.endpoint":             d.KB.Endpoint,
		"kb.user_agent":           d.KB.UserAgent,
		"kb.timeout":              d.KB.Timeout,
		"kb.requests_per_second":  d.KB.RequestsPerSecond,
		"kb.burst":                d.KB.Burst,
		"kb.dictionary_path":      d.KB.DictionaryPath,
		"kb.cache_ttl":            d.KB.CacheTTL,
		"store.dir":               d.Store.Dir,
		"store.max_results":       d.Store.MaxResults,
		"rdf.base_iri":            d.RDF.BaseIRI,
		"log.level":               d.Log.Level,
		"log.file":                d.Log.File,
		"log.max_size_mb":         d.Log.MaxSizeMB,
		"log.max_backups":         d.Log.MaxBackups,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config and validates it. Durations may be given
// as strings such as "750ms".
func Load(v *viper.Viper) (types.Config, error) {
	SetDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem in cfg at once.
func Validate(cfg types.Config) error {
	var errs []error

	if cfg.Resolver.Threshold <= 0 || cfg.Resolver.Threshold > 1 {
		errs = append(errs, fmt.Errorf("resolver.threshold %v must be in (0, 1]", cfg.Resolver.Threshold))
	}
	if cfg.Resolver.LookupTimeout < 0 {
		errs = append(errs, fmt.Errorf("resolver.lookup_timeout must not be negative"))
	}
	if len(cfg.Tags.Nouns) == 0 && len(cfg.Tags.Adjectives) == 0 {
		errs = append(errs, errors.New("tags: at least one noun or adjective tag is required"))
	}
	if len(cfg.Tags.Verbs) == 0 {
		errs = append(errs, errors.New("tags.verbs must not be empty"))
	}

	backends := []string{types.BackendWikipedia, types.BackendDictionary, types.BackendNone}
	if !slices.Contains(backends, cfg.KB.Backend) {
		errs = append(errs, fmt.Errorf("kb.backend %q: use %s", cfg.KB.Backend, strings.Join(backends, ", ")))
	}
	if cfg.KB.Backend == types.BackendDictionary && cfg.KB.DictionaryPath == "" {
		errs = append(errs, errors.New("kb.dictionary_path is required for the dictionary backend"))
	}
	if cfg.KB.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("kb.requests_per_second must not be negative"))
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

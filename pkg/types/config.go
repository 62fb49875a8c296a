// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TagConfig is the part-of-speech and dependency-label vocabulary the
// extraction heuristic matches against. Parsers disagree on tag sets, so
// every list is configurable.
type TagConfig struct {
	// Nouns are tags for common, plural and proper nouns.
	Nouns []string `json:"nouns" yaml:"nouns" mapstructure:"nouns"`

	// Adjectives are treated like nouns when filling object/subject slots.
	Adjectives []string `json:"adjectives" yaml:"adjectives" mapstructure:"adjectives"`

	// Verbs are tags that may become the predicate.
	Verbs []string `json:"verbs" yaml:"verbs" mapstructure:"verbs"`

	// Pronouns mark nominal subjects as weak fallback candidates.
	Pronouns []string `json:"pronouns" yaml:"pronouns" mapstructure:"pronouns"`

	// SubjectLabels are dependency labels denoting a nominal subject.
	SubjectLabels []string `json:"subject_labels" yaml:"subject_labels" mapstructure:"subject_labels"`

	// PrepositionLabels are dependency labels for prepositional relations.
	PrepositionLabels []string `json:"preposition_labels" yaml:"preposition_labels" mapstructure:"preposition_labels"`

	// Copula is the predicate used when a branch has no verb or preposition.
	Copula string `json:"copula" yaml:"copula" mapstructure:"copula"`
}

// IsZero reports whether no list and no copula is set.
func (c TagConfig) IsZero() bool {
	return len(c.Nouns) == 0 && len(c.Adjectives) == 0 && len(c.Verbs) == 0 &&
		len(c.Pronouns) == 0 && len(c.SubjectLabels) == 0 &&
		len(c.PrepositionLabels) == 0 && c.Copula == ""
}

// ResolverConfig holds entity resolution settings.
type ResolverConfig struct {
	// Threshold is the dissimilarity below which a match becomes a reference (default 0.5).
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`

	// LookupTimeout bounds each knowledge-base lookup (default 5s).
	LookupTimeout time.Duration `json:"lookup_timeout" yaml:"lookup_timeout" mapstructure:"lookup_timeout"`
}

// KB backend names.
const (
	BackendWikipedia  = "wikipedia"
	BackendDictionary = "dictionary"
	BackendNone       = "none"
)

// KBConfig selects and configures the knowledge-base lookup.
type KBConfig struct {
	// Backend is one of wikipedia, dictionary or none.
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Endpoint is the MediaWiki API URL for the wikipedia backend.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// UserAgent is sent with every request to the wiki.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Timeout is the HTTP client timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// RequestsPerSecond caps the outbound request rate.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Burst is the token-bucket burst size.
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`

	// DictionaryPath is the YAML file read by the dictionary backend.
	DictionaryPath string `json:"dictionary_path,omitempty" yaml:"dictionary_path,omitempty" mapstructure:"dictionary_path"`

	// CacheTTL keeps lookup results across sentences; zero disables the cache.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// StoreConfig locates the SQLite triple store.
type StoreConfig struct {
	// Dir is the directory holding triples.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// RDFConfig controls serialization of literal subjects and predicates.
type RDFConfig struct {
	// BaseIRI prefixes minted IRIs (default "urn:triple-engine:").
	BaseIRI string `json:"base_iri" yaml:"base_iri" mapstructure:"base_iri"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File, when set, receives logs with size-based rotation.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`

	// MaxSizeMB is the rotation threshold for File.
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
}

// Config groups every section of the triple-engine configuration.
type Config struct {
	Tags     TagConfig      `json:"tags" yaml:"tags" mapstructure:"tags"`
	Resolver ResolverConfig `json:"resolver" yaml:"resolver" mapstructure:"resolver"`
	KB       KBConfig       `json:"kb" yaml:"kb" mapstructure:"kb"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	RDF      RDFConfig      `json:"rdf" yaml:"rdf" mapstructure:"rdf"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"context"
	"errors"
)

// Page is a successful knowledge-base match.
type Page struct {
	// Title is the canonical page title (e.g. "Lisbon Airport").
	Title string `json:"title" yaml:"title"`

	// Identifier is the URI-like reference for the page.
	Identifier string `json:"identifier" yaml:"identifier"`
}

// Lookup finds the knowledge-base page that best matches text.
// Implementations return an error when no page can be chosen; callers
// treat every error as a failed lookup.
type Lookup interface {
	Lookup(ctx context.Context, text string) (Page, error)
}

// LookupFunc adapts a plain function to the Lookup interface.
type LookupFunc func(ctx context.Context, text string) (Page, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, text string) (Page, error) {
	return f(ctx, text)
}

var (
	// ErrPageNotFound is returned when the knowledge base has no page for the text.
	ErrPageNotFound = errors.New("no matching page")

	// ErrAmbiguousTitle is returned when the best match is a disambiguation page.
	ErrAmbiguousTitle = errors.New("ambiguous title")
)

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rdf serializes resolved triples. N-Triples output mints IRIs
// for literal subjects and predicates under a base IRI; JSON and YAML
// output keep the reference/literal distinction as-is.
package rdf

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/triple-engine/pkg/types"
)

// DefaultBaseIRI prefixes minted IRIs.
const DefaultBaseIRI = "urn:triple-engine:"

// Output formats.
const (
	FormatNTriples = "ntriples"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatNTriples, FormatJSON, FormatYAML}

// Minter turns components into N-Triples terms.
type Minter struct {
	base string
}

// NewMinter returns a Minter for base, or DefaultBaseIRI when base is
// empty.
func NewMinter(base string) Minter {
	if base == "" {
		base = DefaultBaseIRI
	}
	return Minter{base: base}
}

// IRI returns the IRI term for c. References keep their identifier;
// literals are percent-escaped under the base.
func (m Minter) IRI(c types.Component) string {
	if c.IsReference() {
		return "<" + escapeIRI(c.Value) + ">"
	}
	return "<" + m.base + url.PathEscape(c.Value) + ">"
}

// Object returns the term for an object slot: an IRI for references and
// a quoted string for literals.
func (m Minter) Object(c types.Component) string {
	if c.IsReference() {
		return m.IRI(c)
	}
	return `"` + escapeLiteral(c.Value) + `"`
}

// Line returns t as one N-Triples statement without the newline.
func (m Minter) Line(t types.ResolvedTriple) string {
	return m.IRI(t.Subject) + " " + m.IRI(t.Predicate) + " " + m.Object(t.Object) + " ."
}

// WriteNTriples writes one statement per line.
func (m Minter) WriteNTriples(w io.Writer, triples []types.ResolvedTriple) error {
	for _, t := range triples {
		if _, err := fmt.Fprintln(w, m.Line(t)); err != nil {
			return fmt.Errorf("writing n-triples: %w", err)
		}
	}
	return nil
}

// Encode writes docs to w in format. N-Triples output drops sentence
// grouping; JSON and YAML keep it.
func (m Minter) Encode(w io.Writer, format string, docs []types.SentenceTriples) error {
	switch format {
	case FormatNTriples, "":
		for _, d := range docs {
			if err := m.WriteNTriples(w, d.Triples); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(nonNil(docs)); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nonNil(docs)); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: use %s", format, strings.Join(Formats, ", "))
	}
}

func nonNil(docs []types.SentenceTriples) []types.SentenceTriples {
	if docs == nil {
		return []types.SentenceTriples{}
	}
	return docs
}

// iriEscaper percent-encodes the characters N-Triples forbids inside
// IRIREF.
var iriEscaper = strings.NewReplacer(
	" ", "%20", "<", "%3C", ">", "%3E", `"`, "%22", "{", "%7B", "}", "%7D",
	"|", "%7C", "^", "%5E", "`", "%60", `\`, "%5C",
)

func escapeIRI(s string) string {
	var b strings.Builder
	for _, r := range iriEscaper.Replace(s) {
		if r <= 0x20 {
			fmt.Fprintf(&b, "%%%02X", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

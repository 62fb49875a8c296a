// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/triple-engine/pkg/types"
)

// QueryOptions holds parameters for triple queries. Slot filters match
// case-insensitive substrings of the stored value, so "Lisbon" finds both
// the literal "Lisbon Portela Airport" and the Wikipedia URL for Lisbon
// Airport.
type QueryOptions struct {
	Subject    string
	Predicate  string
	Object     string
	SentenceID string

	// MaxResults limits result count. Zero uses store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Subject == "" && q.Predicate == "" && q.Object == "" && q.SentenceID == ""
}

// QueryResult is a stored triple with its sentence.
type QueryResult struct {
	types.ResolvedTriple `yaml:",inline"`

	SentenceID   string `json:"sentence_id" yaml:"sentence_id"`
	SentenceText string `json:"sentence_text,omitempty" yaml:"sentence_text,omitempty"`
}

// Retrieve returns triples matching opts in sentence, then insertion,
// order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT t.sentence_id, s.text,
			t.subject_kind, t.subject, t.predicate_kind, t.predicate, t.object_kind, t.object
		FROM triples t
		LEFT JOIN sentences s ON t.sentence_id = s.id
		WHERE 1=1`)

	for _, f := range []struct{ column, value string }{
		{"t.subject", opts.Subject},
		{"t.predicate", opts.Predicate},
		{"t.object", opts.Object},
	} {
		if f.value == "" {
			continue
		}
		qb.WriteString(` AND instr(lower(` + f.column + `), lower(?)) > 0`)
		args = append(args, f.value)
	}

	if opts.SentenceID != "" {
		qb.WriteString(` AND t.sentence_id = ?`)
		args = append(args, opts.SentenceID)
	}

	qb.WriteString(` ORDER BY t.sentence_id, t.rowid LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying triples: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr                  QueryResult
			text                sql.NullString
			sKind, pKind, oKind string
		)
		if err := rows.Scan(
			&qr.SentenceID, &text,
			&sKind, &qr.Subject.Value,
			&pKind, &qr.Predicate.Value,
			&oKind, &qr.Object.Value,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		qr.Subject.Kind = types.ComponentKind(sKind)
		qr.Predicate.Kind = types.ComponentKind(pKind)
		qr.Object.Kind = types.ComponentKind(oKind)
		if text.Valid {
			qr.SentenceText = text.String
		}
		results = append(results, qr)
	}

	return results, rows.Err()
}

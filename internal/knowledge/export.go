// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/triple-engine/internal/rdf"
	"github.com/pdiddy/triple-engine/pkg/types"
)

const exportLimit = 1000000

// Export writes the stored triples matching opts to w in format
// (ntriples, json or yaml), grouped by sentence.
func (s *Store) Export(ctx context.Context, w io.Writer, format string, minter rdf.Minter, opts QueryOptions) error {
	docs, err := s.exportDocs(ctx, opts)
	if err != nil {
		return err
	}
	return minter.Encode(w, format, docs)
}

func (s *Store) exportDocs(ctx context.Context, opts QueryOptions) ([]types.SentenceTriples, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	var docs []types.SentenceTriples
	for _, r := range results {
		if n := len(docs); n == 0 || docs[n-1].SentenceID != r.SentenceID {
			docs = append(docs, types.SentenceTriples{SentenceID: r.SentenceID, Text: r.SentenceText})
		}
		last := &docs[len(docs)-1]
		last.Triples = append(last.Triples, r.ResolvedTriple)
	}
	return docs, nil
}

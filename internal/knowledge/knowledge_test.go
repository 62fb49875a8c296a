// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/triple-engine/internal/rdf"
	"github.com/pdiddy/triple-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.StoreConfig{Dir: filepath.Join(t.TempDir(), "store"), MaxResults: 20})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sentence(id, text string) *types.Sentence {
	return &types.Sentence{ID: id, Text: text}
}

func setOf(triples ...types.ResolvedTriple) types.TripleSet {
	set := types.NewTripleSet()
	for _, tr := range triples {
		set.Add(tr)
	}
	return set
}

var (
	flying = types.ResolvedTriple{
		Subject:   types.Reference("https://en.wikipedia.org/wiki/Bombardier_CRJ700_series"),
		Predicate: types.Literal("flying"),
		Object:    types.Reference("https://en.wikipedia.org/wiki/Lisbon_Airport"),
	}
	builds = types.ResolvedTriple{
		Subject:   types.Reference("https://en.wikipedia.org/wiki/Airbus"),
		Predicate: types.Literal("builds"),
		Object:    types.Literal("jets"),
	}
	absorbed = types.ResolvedTriple{
		Subject:   types.Reference("https://en.wikipedia.org/wiki/Boeing"),
		Predicate: types.Literal("absorbed"),
		Object:    types.Literal("McDonnell Douglas"),
	}
)

func seed(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	if err := store.Add(ctx, sentence("s1", "Bombardier CRJ700 is flying to Lisbon Portela Airport"), setOf(flying)); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, sentence("s2", "Airbus builds jets and Boeing absorbed McDonnell Douglas"), setOf(builds, absorbed)); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, sentence("s3", "It rains."), types.NewTripleSet()); err != nil {
		t.Fatal(err)
	}
}

// --- store ---

func TestNewStoreCreatesDatabase(t *testing.T) {
	store := testStore(t)
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
	if filepath.Base(store.Path()) != "triples.db" {
		t.Errorf("Path() = %s, want triples.db", store.Path())
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(types.StoreConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	seed(t, store)
	store.Close()

	store, err = NewStore(types.StoreConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	st, err := store.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Sentences != 3 || st.Triples != 3 {
		t.Errorf("after reopen: %+v", st)
	}
}

func TestAddReplacesSentence(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	seed(t, store)

	// Re-running s2 with a different result replaces its triples.
	if err := store.Add(ctx, sentence("s2", "Airbus builds jets"), setOf(builds)); err != nil {
		t.Fatal(err)
	}

	results, err := store.Retrieve(ctx, QueryOptions{SentenceID: "s2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d triples for s2, want 1", len(results))
	}
	if results[0].ResolvedTriple != builds {
		t.Errorf("got %v, want %v", results[0].ResolvedTriple, builds)
	}
	if results[0].SentenceText != "Airbus builds jets" {
		t.Errorf("sentence text = %q", results[0].SentenceText)
	}
}

func TestSameTripleInTwoSentences(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := store.Add(ctx, sentence(id, ""), setOf(flying)); err != nil {
			t.Fatal(err)
		}
	}

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Triples != 2 {
		t.Errorf("Triples = %d, want 2 (deduplication is per sentence)", st.Triples)
	}
}

func TestStats(t *testing.T) {
	store := testStore(t)
	seed(t, store)

	st, err := store.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Sentences: 3, Triples: 3, References: 4, Literals: 5}
	if st != want {
		t.Errorf("Stats = %+v, want %+v", st, want)
	}
}

// --- retrieve ---

func TestRetrieveFilters(t *testing.T) {
	store := testStore(t)
	seed(t, store)

	tests := []struct {
		name string
		opts QueryOptions
		want []types.ResolvedTriple
	}{
		{"all", QueryOptions{}, []types.ResolvedTriple{flying, builds, absorbed}},
		{"subject substring", QueryOptions{Subject: "airbus"}, []types.ResolvedTriple{builds}},
		{"predicate", QueryOptions{Predicate: "flying"}, []types.ResolvedTriple{flying}},
		{"object matches url", QueryOptions{Object: "Lisbon"}, []types.ResolvedTriple{flying}},
		{"sentence", QueryOptions{SentenceID: "s2"}, []types.ResolvedTriple{builds, absorbed}},
		{"combined", QueryOptions{SentenceID: "s2", Object: "douglas"}, []types.ResolvedTriple{absorbed}},
		{"no match", QueryOptions{Subject: "Embraer"}, nil},
		{"limit", QueryOptions{MaxResults: 1}, []types.ResolvedTriple{flying}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Retrieve(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			var got []types.ResolvedTriple
			for _, r := range results {
				got = append(got, r.ResolvedTriple)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("result %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	if !(QueryOptions{MaxResults: 5}).IsEmpty() {
		t.Error("limit alone is not a filter")
	}
	if (QueryOptions{Predicate: "is"}).IsEmpty() {
		t.Error("predicate filter reported empty")
	}
}

// --- export ---

func TestExportNTriples(t *testing.T) {
	store := testStore(t)
	seed(t, store)

	var buf bytes.Buffer
	if err := store.Export(context.Background(), &buf, rdf.FormatNTriples, rdf.NewMinter(""), QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	want := "<https://en.wikipedia.org/wiki/Airbus> <urn:triple-engine:builds> \"jets\" ."
	if lines[1] != want {
		t.Errorf("line 2 = %s, want %s", lines[1], want)
	}
}

func TestExportJSONGroupsBySentence(t *testing.T) {
	store := testStore(t)
	seed(t, store)

	var buf bytes.Buffer
	if err := store.Export(context.Background(), &buf, rdf.FormatJSON, rdf.NewMinter(""), QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	var docs []types.SentenceTriples
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d sentences, want 2 (empty sentences carry no triples)", len(docs))
	}
	if docs[1].SentenceID != "s2" || len(docs[1].Triples) != 2 {
		t.Errorf("second doc = %+v", docs[1])
	}
}

func TestExportYAMLFiltered(t *testing.T) {
	store := testStore(t)
	seed(t, store)

	var buf bytes.Buffer
	if err := store.Export(context.Background(), &buf, rdf.FormatYAML, rdf.NewMinter(""), QueryOptions{Predicate: "flying"}); err != nil {
		t.Fatal(err)
	}

	var docs []types.SentenceTriples
	if err := yaml.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Triples[0] != flying {
		t.Errorf("got %+v", docs)
	}
	if docs[0].Text != "Bombardier CRJ700 is flying to Lisbon Portela Airport" {
		t.Errorf("text = %q", docs[0].Text)
	}
}

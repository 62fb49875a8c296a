// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge persists extracted triples in a SQLite database and
// answers structured queries over them.
package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/triple-engine/pkg/types"
)

const (
	dbFile            = "triples.db"
	defaultMaxResults = 20
)

// Store manages the triple store SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the database at cfg.Dir/triples.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sentences (
			id TEXT PRIMARY KEY,
			text TEXT,
			processed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS triples (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			sentence_id TEXT NOT NULL REFERENCES sentences(id) ON DELETE CASCADE,
			subject_kind TEXT NOT NULL,
			subject TEXT NOT NULL,
			predicate_kind TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object_kind TEXT NOT NULL,
			object TEXT NOT NULL,
			UNIQUE (sentence_id, subject_kind, subject, predicate_kind, predicate, object_kind, object)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_sentence ON triples(sentence_id)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_subject ON triples(subject)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_predicate ON triples(predicate)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_object ON triples(object)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add records the triples of one sentence, replacing whatever an earlier
// run stored for the same sentence ID. It satisfies pipeline.Sink.
func (s *Store) Add(ctx context.Context, sentence *types.Sentence, set types.TripleSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sentences (id, text, processed_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET text=excluded.text, processed_at=excluded.processed_at`,
		sentence.ID, sentence.Text, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting sentence: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM triples WHERE sentence_id = ?`, sentence.ID); err != nil {
		return fmt.Errorf("deleting old triples: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO triples
			(sentence_id, subject_kind, subject, predicate_kind, predicate, object_kind, object)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range set.Triples() {
		_, err := stmt.ExecContext(ctx, sentence.ID,
			string(t.Subject.Kind), t.Subject.Value,
			string(t.Predicate.Kind), t.Predicate.Value,
			string(t.Object.Kind), t.Object.Value,
		)
		if err != nil {
			return fmt.Errorf("inserting triple %s: %w", t, err)
		}
	}

	return tx.Commit()
}

// Stats holds store-wide counts.
type Stats struct {
	Sentences  int `json:"sentences" yaml:"sentences"`
	Triples    int `json:"triples" yaml:"triples"`
	References int `json:"references" yaml:"references"`
	Literals   int `json:"literals" yaml:"literals"`
}

// Stats counts sentences, triples, and reference versus literal slots.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM sentences`).Scan(&st.Sentences)
	if err != nil {
		return Stats{}, fmt.Errorf("counting sentences: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT count(*),
			COALESCE(SUM((subject_kind = ?) + (predicate_kind = ?) + (object_kind = ?)), 0)
		 FROM triples`,
		string(types.KindReference), string(types.KindReference), string(types.KindReference),
	).Scan(&st.Triples, &st.References)
	if err != nil {
		return Stats{}, fmt.Errorf("counting triples: %w", err)
	}
	st.Literals = 3*st.Triples - st.References
	return st, nil
}

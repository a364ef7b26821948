// Package sqlite stores visualization records in an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS visualizations (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	type TEXT NOT NULL,
	data TEXT NOT NULL,
	confidence REAL NOT NULL,
	complexity REAL NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_visualizations_document
	ON visualizations(document_id, created_at DESC);
`

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path with WAL enabled and the
// schema in place.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, rec *store.Record) error {
	if err := store.Prepare(rec); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO visualizations (id, document_id, type, data, confidence, complexity, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	document_id = excluded.document_id,
	type = excluded.type,
	data = excluded.data,
	confidence = excluded.confidence,
	complexity = excluded.complexity,
	created_at = excluded.created_at`,
		rec.ID, rec.DocumentID, string(rec.Type), string(rec.Data),
		rec.Confidence, rec.Complexity, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (store.Record, error) {
	var (
		rec       store.Record
		typ, data string
		created   string
	)
	if err := row.Scan(&rec.ID, &rec.DocumentID, &typ, &data, &rec.Confidence, &rec.Complexity, &created); err != nil {
		return store.Record{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return store.Record{}, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	rec.Type = common.VisualizationType(typ)
	rec.Data = []byte(data)
	rec.CreatedAt = t
	return rec, nil
}

const selectColumns = `SELECT id, document_id, type, data, confidence, complexity, created_at FROM visualizations`

func (s *Store) Get(ctx context.Context, id string) (*store.Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByDocument sorts in Go because RFC3339 strings with varying
// fractional digits do not order lexically.
func (s *Store) ListByDocument(ctx context.Context, documentID string) ([]store.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE document_id = ?`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.SortNewestFirst(out)
	return out, nil
}

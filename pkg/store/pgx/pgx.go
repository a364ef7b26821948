// Package pgx stores visualization records in Postgres.
package pgx

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/store"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded migrations to the database at databaseURL.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("error preparing migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error applying migrations: %w", err)
	}
	version, _, _ := m.Version()
	logger.Debug("Database schema up to date", "version", version)
	return nil
}

// GraphDBStorage implements store.Store on a pgx pool.
type GraphDBStorage struct {
	conn *pgxpool.Pool
}

// New connects to databaseURL. Migrate should have run first.
func New(ctx context.Context, databaseURL string) (*GraphDBStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	return &GraphDBStorage{conn: pool}, nil
}

func (s *GraphDBStorage) Close() error {
	s.conn.Close()
	return nil
}

// sanitizeJSON removes what Postgres refuses in jsonb: NUL bytes, their
// escaped form, and invalid UTF-8.
func sanitizeJSON(data []byte) string {
	return strings.ReplaceAll(store.SanitizePostgresText(string(data)), `\u0000`, "")
}

func (s *GraphDBStorage) Save(ctx context.Context, rec *store.Record) error {
	if err := store.Prepare(rec); err != nil {
		return err
	}
	_, err := s.conn.Exec(ctx, `
INSERT INTO visualizations (id, document_id, type, data, confidence, complexity, created_at)
VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
	document_id = EXCLUDED.document_id,
	type = EXCLUDED.type,
	data = EXCLUDED.data,
	confidence = EXCLUDED.confidence,
	complexity = EXCLUDED.complexity,
	created_at = EXCLUDED.created_at`,
		rec.ID,
		store.SanitizePostgresText(rec.DocumentID),
		string(rec.Type),
		sanitizeJSON(rec.Data),
		rec.Confidence,
		rec.Complexity,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving visualization %s: %w", rec.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, document_id, type, data, confidence, complexity, created_at FROM visualizations`

func scanRecord(row pgx.Row) (store.Record, error) {
	var (
		rec store.Record
		typ string
	)
	err := row.Scan(&rec.ID, &rec.DocumentID, &typ, &rec.Data, &rec.Confidence, &rec.Complexity, &rec.CreatedAt)
	rec.Type = common.VisualizationType(typ)
	return rec, err
}

func (s *GraphDBStorage) Get(ctx context.Context, id string) (*store.Record, error) {
	rec, err := scanRecord(s.conn.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GraphDBStorage) ListByDocument(ctx context.Context, documentID string) ([]store.Record, error) {
	rows, err := s.conn.Query(ctx,
		selectColumns+` WHERE document_id = $1 ORDER BY created_at DESC, id DESC`, documentID)
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
	return out, rows.Err()
}

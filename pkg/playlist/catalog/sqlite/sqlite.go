package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cognicore/text2playlist/pkg/playlist/catalog"
	"github.com/cognicore/text2playlist/pkg/playlist/ingest"
	"github.com/cognicore/text2playlist/pkg/playlist/internalerr"
)

// Catalog is a SQLite-backed track catalog. Each track is stored with the
// normalized form of its title so exact lookups hit an index.
type Catalog struct {
	db *sql.DB
}

var _ catalog.Catalog = (*Catalog)(nil)

// Open opens (or creates) a catalog database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	return c.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS tracks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	canonical_title TEXT NOT NULL,
	artist TEXT,
	uri TEXT,
	added_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);

CREATE INDEX IF NOT EXISTS idx_tracks_canonical ON tracks(canonical_title);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

const upsertTrack = `
INSERT INTO tracks (id, title, canonical_title, artist, uri)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title=excluded.title,
	canonical_title=excluded.canonical_title,
	artist=excluded.artist,
	uri=excluded.uri
`

// UpsertTrack inserts or replaces a track keyed by ID.
func (c *Catalog) UpsertTrack(ctx context.Context, e catalog.Entry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: track id is required", internalerr.ErrInvalidInput)
	}
	canonical := ingest.Canonical(e.Title)
	if canonical == "" {
		return fmt.Errorf("%w: track %s has no usable title", internalerr.ErrInvalidInput, e.ID)
	}

	_, err := c.db.ExecContext(ctx, upsertTrack, e.ID, e.Title, canonical, e.Artist, e.URI)
	return err
}

// UpsertTracks stores a batch of tracks in one transaction. Tracks that fail
// validation are skipped and counted; any database error aborts the batch.
func (c *Catalog) UpsertTracks(ctx context.Context, entries []catalog.Entry) (stored, skipped int, err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertTrack)
	if err != nil {
		return 0, 0, err
	}
	defer stmt.Close()

	for _, e := range entries {
		canonical := ingest.Canonical(e.Title)
		if strings.TrimSpace(e.ID) == "" || canonical == "" {
			skipped++
			continue
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Title, canonical, e.Artist, e.URI); err != nil {
			return 0, 0, fmt.Errorf("upsert track %s: %w", e.ID, err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return stored, skipped, nil
}

// Lookup returns tracks whose normalized title equals phrase, in insertion
// order.
func (c *Catalog) Lookup(ctx context.Context, phrase string) ([]catalog.Entry, error) {
	if phrase == "" {
		return nil, nil
	}

	rows, err := c.db.QueryContext(ctx, `
SELECT id, title, COALESCE(artist, ''), COALESCE(uri, '')
FROM tracks
WHERE canonical_title = ?
ORDER BY rowid
`, phrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Artist, &e.URI); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetTrack returns a track by ID.
func (c *Catalog) GetTrack(ctx context.Context, id string) (catalog.Entry, error) {
	var e catalog.Entry
	err := c.db.QueryRowContext(ctx, `
SELECT id, title, COALESCE(artist, ''), COALESCE(uri, '')
FROM tracks WHERE id = ?
`, id).Scan(&e.ID, &e.Title, &e.Artist, &e.URI)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Entry{}, fmt.Errorf("track %s: %w", id, internalerr.ErrNotFound)
	}
	return e, err
}

// Count returns the number of stored tracks.
func (c *Catalog) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&n)
	return n, err
}

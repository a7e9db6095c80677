package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteSynonymStore is the embedded/dev/test SynonymStore, backed by a
// single-file SQLite database. It implements the same SynonymStore
// interface as PostgresSynonymStore so Normalize never knows which backend
// it is talking to.
type SQLiteSynonymStore struct {
	db *sql.DB
}

// NewSQLiteSynonymStore opens (creating if needed) the SQLite database at
// dbPath and ensures its schema exists.
func NewSQLiteSynonymStore(dbPath string) (*SQLiteSynonymStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating synonym store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening synonym store: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := createSynonymSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating synonym schema: %w", err)
	}

	return &SQLiteSynonymStore{db: db}, nil
}

func createSynonymSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS drug_synonyms (
		surface_normalized TEXT PRIMARY KEY,
		canonical_id       TEXT NOT NULL,
		preferred_name     TEXT NOT NULL,
		external_code      TEXT DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS event_synonyms (
		surface_normalized  TEXT PRIMARY KEY,
		canonical_id        TEXT NOT NULL,
		representative_term TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_drug_synonyms_canonical ON drug_synonyms (canonical_id);
	CREATE INDEX IF NOT EXISTS idx_event_synonyms_canonical ON event_synonyms (canonical_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Upsert inserts or replaces a synonym entry. Used by fixtures and by
// whatever external loader seeds the synonym resource (out of scope here,
// but the store must expose a write path for it).
func (s *SQLiteSynonymStore) Upsert(ctx context.Context, kind Kind, e Entry) error {
	if kind == KindDrug {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO drug_synonyms (surface_normalized, canonical_id, preferred_name, external_code)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(surface_normalized) DO UPDATE SET
				canonical_id=excluded.canonical_id,
				preferred_name=excluded.preferred_name,
				external_code=excluded.external_code`,
			e.SurfaceNormalized, e.CanonicalID, e.DisplayName, e.ExternalCode)
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_synonyms (surface_normalized, canonical_id, representative_term)
		VALUES (?, ?, ?)
		ON CONFLICT(surface_normalized) DO UPDATE SET
			canonical_id=excluded.canonical_id,
			representative_term=excluded.representative_term`,
		e.SurfaceNormalized, e.CanonicalID, e.DisplayName)
	return err
}

// Lookup resolves a single normalized surface form.
func (s *SQLiteSynonymStore) Lookup(ctx context.Context, kind Kind, surfaceNormalized string) (Entry, bool, error) {
	var e Entry
	var row *sql.Row
	if kind == KindDrug {
		row = s.db.QueryRowContext(ctx, `
			SELECT surface_normalized, canonical_id, preferred_name, external_code
			FROM drug_synonyms WHERE surface_normalized = ?`, surfaceNormalized)
		err := row.Scan(&e.SurfaceNormalized, &e.CanonicalID, &e.DisplayName, &e.ExternalCode)
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		} else if err != nil {
			return Entry{}, false, fmt.Errorf("looking up drug synonym: %w", err)
		}
		return e, true, nil
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT surface_normalized, canonical_id, representative_term
		FROM event_synonyms WHERE surface_normalized = ?`, surfaceNormalized)
	err := row.Scan(&e.SurfaceNormalized, &e.CanonicalID, &e.DisplayName)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	} else if err != nil {
		return Entry{}, false, fmt.Errorf("looking up event synonym: %w", err)
	}
	return e, true, nil
}

// ListAll returns every entry of the given kind, ordered for determinism.
func (s *SQLiteSynonymStore) ListAll(ctx context.Context, kind Kind) ([]Entry, error) {
	var query string
	if kind == KindDrug {
		query = `SELECT surface_normalized, canonical_id, preferred_name, external_code
			FROM drug_synonyms ORDER BY surface_normalized`
	} else {
		query = `SELECT surface_normalized, canonical_id, representative_term
			FROM event_synonyms ORDER BY surface_normalized`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing %s synonyms: %w", kind, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if kind == KindDrug {
			if err := rows.Scan(&e.SurfaceNormalized, &e.CanonicalID, &e.DisplayName, &e.ExternalCode); err != nil {
				return nil, fmt.Errorf("scanning drug synonym row: %w", err)
			}
		} else {
			if err := rows.Scan(&e.SurfaceNormalized, &e.CanonicalID, &e.DisplayName); err != nil {
				return nil, fmt.Errorf("scanning event synonym row: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database handle.
func (s *SQLiteSynonymStore) Close() error {
	return s.db.Close()
}

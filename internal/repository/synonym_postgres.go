package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// ErrNotFound names the case of a surface form with no synonym-table entry.
// Lookup does not return it: a miss is reported as ok == false, err == nil.
var ErrNotFound = errors.New("synonym entry not found")

// PostgresSynonymStore is the production-shaped SynonymStore, backed by a
// pgxpool connection pool.
type PostgresSynonymStore struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPostgresSynonymStore wraps an existing pool.
func NewPostgresSynonymStore(db *pgxpool.Pool, logger *logrus.Logger) *PostgresSynonymStore {
	return &PostgresSynonymStore{db: db, log: logger}
}

func tableFor(kind Kind) string {
	if kind == KindDrug {
		return "drug_synonyms"
	}
	return "event_synonyms"
}

// Lookup resolves a single normalized surface form.
func (r *PostgresSynonymStore) Lookup(ctx context.Context, kind Kind, surfaceNormalized string) (Entry, bool, error) {
	query := fmt.Sprintf(`
		SELECT surface_normalized, canonical_id,
		       COALESCE(%s, '') AS display_name,
		       COALESCE(external_code, '') AS external_code
		FROM %s WHERE surface_normalized = $1`,
		displayNameColumn(kind), tableFor(kind))

	var e Entry
	row := r.db.QueryRow(ctx, query, surfaceNormalized)
	var externalCode string
	if kind == KindDrug {
		err := row.Scan(&e.SurfaceNormalized, &e.CanonicalID, &e.DisplayName, &externalCode)
		e.ExternalCode = externalCode
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Entry{}, false, nil
			}
			r.log.WithFields(logrus.Fields{"surface": surfaceNormalized, "kind": kind, "error": err}).
				Error("synonym lookup failed")
			return Entry{}, false, fmt.Errorf("looking up %s synonym: %w", kind, err)
		}
		return e, true, nil
	}

	query = `SELECT surface_normalized, canonical_id, representative_term
		FROM event_synonyms WHERE surface_normalized = $1`
	err := r.db.QueryRow(ctx, query, surfaceNormalized).Scan(&e.SurfaceNormalized, &e.CanonicalID, &e.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, false, nil
		}
		r.log.WithFields(logrus.Fields{"surface": surfaceNormalized, "kind": kind, "error": err}).
			Error("synonym lookup failed")
		return Entry{}, false, fmt.Errorf("looking up %s synonym: %w", kind, err)
	}
	return e, true, nil
}

// ListAll streams every entry of the given kind, used once per stage run to
// build the in-process prefix/edit-distance index.
func (r *PostgresSynonymStore) ListAll(ctx context.Context, kind Kind) ([]Entry, error) {
	var query string
	if kind == KindDrug {
		query = `SELECT surface_normalized, canonical_id, preferred_name, COALESCE(external_code, '')
			FROM drug_synonyms ORDER BY surface_normalized`
	} else {
		query = `SELECT surface_normalized, canonical_id, representative_term
			FROM event_synonyms ORDER BY surface_normalized`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.WithFields(logrus.Fields{"kind": kind, "error": err}).Error("synonym list failed")
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s synonym rows: %w", kind, err)
	}

	r.log.WithFields(logrus.Fields{"kind": kind, "count": len(entries)}).Debug("loaded synonym table")
	return entries, nil
}

// Close releases the underlying pool.
func (r *PostgresSynonymStore) Close() error {
	r.db.Close()
	return nil
}

func displayNameColumn(kind Kind) string {
	if kind == KindDrug {
		return "preferred_name"
	}
	return "representative_term"
}

// Package repository backs the drug/event synonym resource that Normalize's
// canonicalization step consults. Two implementations share one interface,
// mirroring the prior codebase's Postgres/SQLite duality for its feedback
// store: a Postgres-backed store for production and a SQLite-backed store
// for embedded/dev/test use.
package repository

import "context"

// Kind distinguishes the drug and event synonym tables, which are stored
// separately but share an identical lookup shape.
type Kind string

const (
	KindDrug  Kind = "drug"
	KindEvent Kind = "event"
)

// Entry is one row of a synonym table: a normalized surface form mapped to
// the canonical ID it resolves to, plus a display name. Normalize does not
// copy DisplayName into the canonical drug/event tables: those take the
// canonicalized surface form that first minted the ID.
type Entry struct {
	SurfaceNormalized string
	CanonicalID       string
	DisplayName       string // preferred_name for drugs, representative_term for events
	ExternalCode      string // drug-only; empty for events
}

// SynonymStore resolves normalized surface forms to canonical IDs and lists
// all known entries for a given Kind so Normalize can build its in-process
// prefix/edit-distance index once per stage run.
type SynonymStore interface {
	Lookup(ctx context.Context, kind Kind, surfaceNormalized string) (Entry, bool, error)
	ListAll(ctx context.Context, kind Kind) ([]Entry, error)
	Close() error
}

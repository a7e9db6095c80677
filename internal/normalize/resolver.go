package normalize

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/pharmvigilance/signalengine/internal/domain"
	"github.com/pharmvigilance/signalengine/internal/repository"
)

// Resolver implements domain.SynonymResolver for one synonym kind (drug or
// event). It loads the full synonym table once at construction, holds it
// read-only, and memoizes resolutions behind an in-process LRU cache, since
// normalize's hot path sees the same handful of surface strings millions of
// times per quarter.
type Resolver struct {
	kind          repository.Kind
	index         *Index
	externalCodes map[string]string // canonical id -> external code, drug kind only
	cache         *lru.Cache[string, resolution]
	log           *logrus.Logger
}

type resolution struct {
	id      string
	matched bool
}

// NewResolver builds a Resolver by loading every entry of kind from store.
func NewResolver(ctx context.Context, store repository.SynonymStore, kind repository.Kind, cacheSize int, logger *logrus.Logger) (*Resolver, error) {
	entries, err := store.ListAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("loading %s synonym table: %w", kind, err)
	}

	byNormalized := make(map[string]string, len(entries))
	externalCodes := make(map[string]string)
	for _, e := range entries {
		byNormalized[e.SurfaceNormalized] = e.CanonicalID
		if e.ExternalCode != "" {
			externalCodes[e.CanonicalID] = e.ExternalCode
		}
	}

	cache, err := lru.New[string, resolution](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("constructing resolver cache: %w", err)
	}

	logger.WithFields(logrus.Fields{"kind": kind, "entries": len(entries)}).
		Info("synonym resolver loaded")

	return &Resolver{kind: kind, index: NewIndex(byNormalized), externalCodes: externalCodes, cache: cache, log: logger}, nil
}

// Resolve implements domain.SynonymResolver.
func (r *Resolver) Resolve(_ context.Context, surface string) (string, bool, error) {
	normalized := Canonicalize(surface)

	if cached, ok := r.cache.Get(normalized); ok {
		return cached.id, cached.matched, nil
	}

	id, matched := r.index.Resolve(normalized)
	if !matched {
		id = UnmatchedID(normalized)
	}
	r.cache.Add(normalized, resolution{id: id, matched: matched})
	return id, matched, nil
}

// ExternalCode implements domain.ExternalCodeResolver: it returns the
// synonym resource's external code for a canonical ID minted by this
// resolver, when the resource carries one (drug kind only; event entries
// never have one).
func (r *Resolver) ExternalCode(canonicalID string) (string, bool) {
	code, ok := r.externalCodes[canonicalID]
	return code, ok
}

var _ domain.SynonymResolver = (*Resolver)(nil)
var _ domain.ExternalCodeResolver = (*Resolver)(nil)

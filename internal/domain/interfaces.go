package domain

import "context"

// SynonymResolver maps a raw surface string to a canonical drug or event ID.
// A single implementation is chosen at stage start and does not change
// during a run.
type SynonymResolver interface {
	// Resolve returns the canonical ID for surface, and whether a match was
	// found in the synonym resource at all (as opposed to falling back to an
	// "unmatched" namespaced ID).
	Resolve(ctx context.Context, surface string) (canonicalID string, matched bool, err error)
}

// ExternalCodeResolver is an optional capability a SynonymResolver
// implementation may also satisfy: looking up the synonym resource's
// external code (e.g. an RxNorm code) for a canonical ID it has already
// minted. Normalize type-asserts for this rather than folding it into
// SynonymResolver itself, since not every resolver backs a resource that
// carries external codes.
type ExternalCodeResolver interface {
	ExternalCode(canonicalID string) (code string, ok bool)
}

// Embedder turns text into a fixed-length vector. Implementations are
// CPU-friendly and seed-pinned for reproducibility.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Abstract is one literature record: a PubMed-style identifier plus text.
type Abstract struct {
	PMID string
	Text string
	Year int
}

// LiteratureSource provides a lazy sequence of abstracts. Implementations
// may wrap an unreliable external fetch behind a circuit breaker and rate
// limiter.
type LiteratureSource interface {
	// IterAbstracts streams abstracts to fn until the source is exhausted,
	// fn returns an error, or ctx is cancelled. A source with no data simply
	// calls fn zero times and returns nil: missing literature is not an
	// error.
	IterAbstracts(ctx context.Context, fn func(Abstract) error) error
}

// ProgressObserver receives advisory progress events. Events must never
// affect results.
type ProgressObserver interface {
	OnProgress(stage string, done, total int64)
}

// NoopProgressObserver discards all events.
type NoopProgressObserver struct{}

func (NoopProgressObserver) OnProgress(string, int64, int64) {}

// CancellationToken is checked at partition boundaries. On cancellation a
// stage discards partial output rather than publishing it.
type CancellationToken interface {
	Cancelled() bool
}

// ContextCancellationToken adapts a context.Context to CancellationToken.
type ContextCancellationToken struct {
	Ctx context.Context
}

func (t ContextCancellationToken) Cancelled() bool {
	select {
	case <-t.Ctx.Done():
		return true
	default:
		return false
	}
}

// ArtifactStore owns the content-addressed filesystem layout and the
// atomic write-to-temp-then-replace rule governing artifact visibility.
type ArtifactStore interface {
	// WriteAtomic writes data produced by write to path, visible to readers
	// only after the write completes successfully. On error or cancellation
	// the temporary file is discarded and path is left untouched.
	WriteAtomic(ctx context.Context, path string, write func(w WriteSink) error) error
	// Exists reports whether an artifact has already been published at path.
	Exists(path string) (bool, error)
	// Path resolves a logical artifact path to its absolute location.
	Path(relative string) string
}

// WriteSink is the write handle a stage receives for one artifact.
type WriteSink interface {
	Write(p []byte) (int, error)
}

// Package artifact owns the filesystem layout and write-visibility rules for
// every columnar artifact the pipeline stages produce and consume.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// Logical paths for the five parquet artifacts and the one CSV output,
// relative to a Store's base directory.
const (
	PathDrugs         = "data/clean/drugs.parquet"
	PathEvents        = "data/clean/events.parquet"
	PathContingency   = "data/clean/faers_norm.parquet"
	PathRelations     = "data/clean/relations.parquet"
	PathEventClusters = "data/clean/event_clusters.parquet"
	PathSignalsCSV    = "outputs/signals.csv"
)

// FileStore is the on-disk domain.ArtifactStore implementation: every
// artifact is a single file under BaseDir, written to a sibling temp file
// and atomically renamed into place so a reader never observes a partial
// write.
type FileStore struct {
	baseDir string
	log     *logrus.Logger
}

var _ domain.ArtifactStore = (*FileStore)(nil)

// NewFileStore builds a FileStore rooted at baseDir, creating it if absent.
func NewFileStore(baseDir string, logger *logrus.Logger) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("artifact: base_dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: creating base dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, log: logger}, nil
}

// Path resolves a logical artifact path to its absolute location.
func (s *FileStore) Path(relative string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(relative))
}

// Exists reports whether an artifact has already been published at path.
func (s *FileStore) Exists(relative string) (bool, error) {
	_, err := os.Stat(s.Path(relative))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("artifact: stat %s: %w", relative, err)
}

// WriteAtomic runs write against a temporary file alongside the final
// destination, then renames it into place only on success. On error or
// cancellation the temp file is removed and the destination path is left
// untouched; a reader either sees the fully-written prior artifact or the
// fully-written new one, never a partial file.
func (s *FileStore) WriteAtomic(ctx context.Context, relative string, write func(w domain.WriteSink) error) error {
	finalPath := s.Path(relative)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return fmt.Errorf("artifact: creating parent dir for %s: %w", relative, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(finalPath), ".tmp-"+filepath.Base(finalPath)+"-*")
	if err != nil {
		return fmt.Errorf("artifact: creating temp file for %s: %w", relative, err)
	}
	tmpPath := tmp.Name()

	discard := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if ctx.Err() != nil {
		discard()
		return fmt.Errorf("artifact: write %s cancelled before start: %w", relative, ctx.Err())
	}

	if err := write(tmp); err != nil {
		discard()
		return fmt.Errorf("artifact: writing %s: %w", relative, err)
	}

	if ctx.Err() != nil {
		discard()
		return fmt.Errorf("artifact: write %s cancelled before publish: %w", relative, ctx.Err())
	}

	if err := tmp.Sync(); err != nil {
		discard()
		return fmt.Errorf("artifact: syncing %s: %w", relative, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("artifact: closing %s: %w", relative, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("artifact: publishing %s: %w", relative, err)
	}

	s.log.WithFields(logrus.Fields{"path": relative}).Info("artifact published")
	return nil
}

package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// parquet-go's writer needs random-access file positioning for its footer,
// so it cannot go through the streaming domain.WriteSink used by
// FileStore.WriteAtomic. WriteParquetRows instead opens its own temp file at
// the destination's side and performs the same discard-on-error,
// rename-on-success sequence directly.
func WriteParquetRows[T any](ctx context.Context, s *FileStore, relative string, rows []T, cancel domain.CancellationToken) error {
	finalPath := s.Path(relative)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return fmt.Errorf("artifact: creating parent dir for %s: %w", relative, err)
	}

	tmpPath := filepath.Join(filepath.Dir(finalPath), ".tmp-"+filepath.Base(finalPath)+"-inprogress")

	fw, err := local.NewLocalFileWriter(tmpPath)
	if err != nil {
		return fmt.Errorf("artifact: opening parquet temp file for %s: %w", relative, err)
	}

	var zero T
	pw, err := writer.NewParquetWriter(fw, &zero, 4)
	if err != nil {
		fw.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("artifact: creating parquet writer for %s: %w", relative, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range rows {
		if cancel != nil && cancel.Cancelled() {
			fw.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("artifact: write %s cancelled: %w", relative, context.Canceled)
		}
		if err := pw.Write(rows[i]); err != nil {
			fw.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("artifact: writing row to %s: %w", relative, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("artifact: finalizing parquet footer for %s: %w", relative, err)
	}
	if err := fw.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("artifact: closing parquet temp file for %s: %w", relative, err)
	}

	if ctx.Err() != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("artifact: write %s cancelled before publish: %w", relative, ctx.Err())
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("artifact: publishing %s: %w", relative, err)
	}

	s.log.WithFields(logrus.Fields{"path": relative, "rows": len(rows)}).Info("parquet artifact published")
	return nil
}

// ReadParquetRows reads every row of the parquet artifact at relative back
// into T. A missing artifact is reported as an error; callers that treat a
// missing artifact as "empty" (e.g. missing literature) check Exists first.
func ReadParquetRows[T any](s *FileStore, relative string) ([]T, error) {
	path := s.Path(relative)

	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: opening %s: %w", relative, err)
	}
	defer fr.Close()

	var zero T
	pr, err := reader.NewParquetReader(fr, &zero, 4)
	if err != nil {
		return nil, fmt.Errorf("artifact: creating parquet reader for %s: %w", relative, err)
	}
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	rows := make([]T, n)
	if n == 0 {
		return rows, nil
	}
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("artifact: reading rows from %s: %w", relative, err)
	}
	return rows, nil
}

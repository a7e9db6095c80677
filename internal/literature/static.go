package literature

import (
	"context"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// StaticFetcher serves abstracts from an in-memory slice, paginated, as a
// BatchFetcher. It backs offline runs against a pre-fetched literature
// archive and exercises ResilientSource in tests without a network
// dependency.
type StaticFetcher struct {
	abstracts []domain.Abstract
	pageSize  int
}

// NewStaticFetcher constructs a StaticFetcher over abstracts, served
// pageSize at a time.
func NewStaticFetcher(abstracts []domain.Abstract, pageSize int) *StaticFetcher {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &StaticFetcher{abstracts: abstracts, pageSize: pageSize}
}

// FetchBatch implements BatchFetcher.
func (f *StaticFetcher) FetchBatch(_ context.Context, offset int) ([]domain.Abstract, bool, error) {
	if offset >= len(f.abstracts) {
		return nil, false, nil
	}
	end := offset + f.pageSize
	if end > len(f.abstracts) {
		end = len(f.abstracts)
	}
	return f.abstracts[offset:end], end < len(f.abstracts), nil
}

var _ BatchFetcher = (*StaticFetcher)(nil)

package literature

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(noopWriter{})
	return l
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestResilientSource_IteratesAllPages(t *testing.T) {
	// Arrange
	abstracts := []domain.Abstract{
		{PMID: "1", Text: "a"}, {PMID: "2", Text: "b"}, {PMID: "3", Text: "c"},
	}
	fetcher := NewStaticFetcher(abstracts, 2)
	src := NewResilientSource(fetcher, 0, testLogger())

	// Act
	var seen []string
	err := src.IterAbstracts(context.Background(), func(a domain.Abstract) error {
		seen = append(seen, a.PMID)
		return nil
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, seen)
}

func TestResilientSource_EmptySourceYieldsNoError(t *testing.T) {
	fetcher := NewStaticFetcher(nil, 10)
	src := NewResilientSource(fetcher, 0, testLogger())

	var count int
	err := src.IterAbstracts(context.Background(), func(domain.Abstract) error {
		count++
		return nil
	})

	require.NoError(t, err)
	assert.Zero(t, count)
}

type failingFetcher struct{ calls int }

func (f *failingFetcher) FetchBatch(context.Context, int) ([]domain.Abstract, bool, error) {
	f.calls++
	return nil, false, errors.New("upstream unavailable")
}

func TestResilientSource_FetchFailureYieldsNoErrorNotPipelineFailure(t *testing.T) {
	// Arrange: literature-source failure must not fail the pipeline.
	fetcher := &failingFetcher{}
	src := NewResilientSource(fetcher, 0, testLogger())

	// Act
	err := src.IterAbstracts(context.Background(), func(domain.Abstract) error {
		t.Fatal("fn should never be called")
		return nil
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
}

func TestResilientSource_CallbackErrorPropagates(t *testing.T) {
	abstracts := []domain.Abstract{{PMID: "1", Text: "a"}}
	fetcher := NewStaticFetcher(abstracts, 10)
	src := NewResilientSource(fetcher, 0, testLogger())

	boom := errors.New("boom")
	err := src.IterAbstracts(context.Background(), func(domain.Abstract) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}

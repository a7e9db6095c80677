package signal

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(noopLogWriter{})
	return l
}

type noopLogWriter struct{}

func (noopLogWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestRun_ProducesQuarterAndAllRows(t *testing.T) {
	// Arrange: one pair across two quarters, plus an undefined-marginal cell.
	cells := []domain.ContingencyCell{
		{DrugID: "D1", EventID: "E1", YearQuarter: "2025Q1", A: 2, B: 1, C: 0, D: 1},
		{DrugID: "D1", EventID: "E1", YearQuarter: "2025Q2", A: 3, B: 1, C: 0, D: 1},
		{DrugID: "D2", EventID: "E2", YearQuarter: "2025Q1", A: 0, B: 0, C: 5, D: 10},
	}

	// Act
	rows, err := Run(context.Background(), domain.SignalConfig{TrendMinQuarters: 3}, cells, nil, nil, testLogger())

	// Assert
	require.NoError(t, err)

	var quarterCount, allCount int
	for _, r := range rows {
		if domain.IsAll(r.YearQuarter) {
			allCount++
		} else {
			quarterCount++
		}
	}
	assert.Equal(t, 3, quarterCount)
	assert.Equal(t, 2, allCount)

	for _, r := range rows {
		if r.DrugID == "D2" {
			assert.Equal(t, domain.ReasonZeroMarginalAB, r.ReasonCode)
		}
	}
}

func TestRun_ShrunkRORLiesBetweenRawAndPrior(t *testing.T) {
	// Arrange: several pairs sharing one quarter so a prior can be fit.
	cells := []domain.ContingencyCell{
		{DrugID: "D1", EventID: "E1", YearQuarter: "2025Q1", A: 10, B: 5, C: 3, D: 50},
		{DrugID: "D2", EventID: "E1", YearQuarter: "2025Q1", A: 2, B: 20, C: 1, D: 100},
		{DrugID: "D3", EventID: "E1", YearQuarter: "2025Q1", A: 8, B: 8, C: 8, D: 8},
	}

	// Act
	rows, err := Run(context.Background(), domain.SignalConfig{TrendMinQuarters: 3}, cells, nil, nil, testLogger())
	require.NoError(t, err)

	// Assert
	for _, r := range rows {
		if r.ReasonCode != domain.ReasonNone {
			continue
		}
		assert.Greater(t, r.RORShrunk, 0.0)
	}
}

func TestRun_TrendIsSetOnAllRowNotQuarterRows(t *testing.T) {
	// Arrange: a increasing across four quarters of stable b, c, d.
	cells := []domain.ContingencyCell{
		{DrugID: "D1", EventID: "E1", YearQuarter: "2025Q1", A: 2, B: 10, C: 5, D: 100},
		{DrugID: "D1", EventID: "E1", YearQuarter: "2025Q2", A: 4, B: 10, C: 5, D: 100},
		{DrugID: "D1", EventID: "E1", YearQuarter: "2025Q3", A: 8, B: 10, C: 5, D: 100},
		{DrugID: "D1", EventID: "E1", YearQuarter: "2025Q4", A: 16, B: 10, C: 5, D: 100},
	}

	// Act
	rows, err := Run(context.Background(), domain.SignalConfig{TrendMinQuarters: 3}, cells, nil, nil, testLogger())
	require.NoError(t, err)

	// Assert: the ALL row carries a positive trend z-score.
	var allRow *domain.SignalRow
	for i := range rows {
		if domain.IsAll(rows[i].YearQuarter) {
			allRow = &rows[i]
		}
	}
	require.NotNil(t, allRow)
	require.NotNil(t, allRow.TrendZ)
	assert.Greater(t, *allRow.TrendZ, 2.0)
	assert.Equal(t, 4, allRow.TrendQuarters)

	// Assert: the per-quarter rows carry no trend statistic of their own.
	for _, r := range rows {
		if !domain.IsAll(r.YearQuarter) {
			assert.Nil(t, r.TrendZ)
		}
	}
}

func TestRun_CancelledReturnsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cells := []domain.ContingencyCell{
		{DrugID: "D1", EventID: "E1", YearQuarter: "2025Q1", A: 2, B: 1, C: 0, D: 1},
	}

	_, err := Run(ctx, domain.SignalConfig{}, cells, nil, nil, testLogger())

	require.Error(t, err)
	pe, ok := err.(*domain.PipelineError)
	require.True(t, ok)
	assert.Equal(t, domain.ErrKindCancellation, pe.Kind)
}

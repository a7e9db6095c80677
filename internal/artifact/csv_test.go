package artifact

import (
	"context"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

func TestWriteSignalsCSV_WritesHeaderAndRows(t *testing.T) {
	// Arrange
	s, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	z := 2.5
	signals := []domain.RankedSignal{
		{
			SignalRow: domain.SignalRow{
				DrugID: "D1", EventID: "E1", A: 10, ROR: 3.2, CILow: 1.1, CIHigh: 9.8,
				RORShrunk: 2.9, TrendZ: &z, TrendQuarters: 4,
			},
			LiteratureSupport: domain.LiteratureSupport{NMentions: 5},
			FinalScore:        1.23,
			Rank:              1,
		},
		{
			SignalRow: domain.SignalRow{DrugID: "D2", EventID: "E2", A: 3, ROR: 1.1, CILow: 0.5, CIHigh: 2.2},
			FinalScore: 0.5,
			Rank:       2,
		},
	}
	drugName := func(id string) string {
		if id == "D1" {
			return "Metformin"
		}
		return "Aspirin"
	}
	eventTerm := func(id string) string { return "event-" + id }

	// Act
	err = WriteSignalsCSV(context.Background(), s, signals, drugName, eventTerm)
	require.NoError(t, err)

	// Assert
	f, err := os.Open(s.Path(PathSignalsCSV))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, signalsCSVHeader, records[0])
	assert.Equal(t, "D1", records[1][1])
	assert.Equal(t, "Metformin", records[1][2])
	assert.Equal(t, "2.5", records[1][11])
	assert.Equal(t, "", records[2][11])
}

func TestWriteSignalsCSV_EmptyInputWritesHeaderOnly(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	err = WriteSignalsCSV(context.Background(), s, nil, func(string) string { return "" }, func(string) string { return "" })
	require.NoError(t, err)

	f, err := os.Open(s.Path(PathSignalsCSV))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, signalsCSVHeader, records[0])
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedup_KeepsHighestVersion(t *testing.T) {
	// Arrange
	reports := []RawReport{
		{ReportID: "R1", CaseID: "C1", Version: 1, ReceivedDate: "2025-01-01", Quarter: "2025Q1"},
		{ReportID: "R2", CaseID: "C1", Version: 2, ReceivedDate: "2025-02-01", Quarter: "2025Q1"},
	}

	// Act
	out := Dedup(reports)

	// Assert
	require.Len(t, out, 1)
	assert.Equal(t, "R2", out[0].ReportID)
}

func TestDedup_TieBreaksOnReceivedDateThenReportID(t *testing.T) {
	// Arrange: same version, same date -> lexicographically smallest report_id wins
	reports := []RawReport{
		{ReportID: "R2", CaseID: "C1", Version: 1, ReceivedDate: "2025-01-01", Quarter: "2025Q1"},
		{ReportID: "R1", CaseID: "C1", Version: 1, ReceivedDate: "2025-01-01", Quarter: "2025Q1"},
	}

	// Act
	out := Dedup(reports)

	// Assert
	require.Len(t, out, 1)
	assert.Equal(t, "R1", out[0].ReportID)
}

func TestDedup_DistinctCasesBothKept(t *testing.T) {
	// Arrange
	reports := []RawReport{
		{ReportID: "R1", CaseID: "C1", Version: 1, Quarter: "2025Q1"},
		{ReportID: "R2", CaseID: "C2", Version: 1, Quarter: "2025Q1"},
	}

	// Act
	out := Dedup(reports)

	// Assert
	assert.Len(t, out, 2)
}

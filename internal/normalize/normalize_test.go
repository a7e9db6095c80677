package normalize

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// identityResolver resolves every surface string to its canonicalized form,
// treated as already-matched -- enough to exercise Run end to end without a
// real synonym store.
type identityResolver struct{}

func (identityResolver) Resolve(_ context.Context, surface string) (string, bool, error) {
	return Canonicalize(surface), true, nil
}

func TestRun_TinySynthetic(t *testing.T) {
	// Arrange
	reports := []RawReport{
		{ReportID: "R1", CaseID: "C1", Version: 1, Quarter: "2025Q1",
			Drugs: []DrugMention{{Surface: "d1", Role: domain.RolePrimarySuspect}}, Events: []string{"e1"}},
		{ReportID: "R2", CaseID: "C2", Version: 1, Quarter: "2025Q1",
			Drugs: []DrugMention{{Surface: "d1", Role: domain.RolePrimarySuspect}}, Events: []string{"e1"}},
		{ReportID: "R3", CaseID: "C3", Version: 1, Quarter: "2025Q1",
			Drugs: []DrugMention{{Surface: "d1", Role: domain.RolePrimarySuspect}}, Events: []string{"e2"}},
		{ReportID: "R4", CaseID: "C4", Version: 1, Quarter: "2025Q1",
			Drugs: []DrugMention{{Surface: "d2", Role: domain.RolePrimarySuspect}}, Events: []string{"e2"}},
	}
	cfg := domain.NormalizeConfig{MinA: 1, MaxSkipRatio: 0.01}
	deps := Deps{DrugResolver: identityResolver{}, EventResolver: identityResolver{}}
	logger := logrus.New()
	logger.SetOutput(noopWriter{})

	// Act
	result, err := Run(context.Background(), cfg, reports, deps, logger)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Drugs, 2)
	require.Len(t, result.Events, 2)
	require.NotEmpty(t, result.Cells)
	require.Equal(t, int64(4), result.TotalRows)
	require.Equal(t, int64(0), result.SkippedRows)
}

// codedResolver resolves every distinct surface to a single shared canonical
// ID ("canon"), so multiple surfaces collapse onto one record, and reports an
// external code for that ID.
type codedResolver struct{}

func (codedResolver) Resolve(_ context.Context, _ string) (string, bool, error) {
	return "canon", true, nil
}

func (codedResolver) ExternalCode(id string) (string, bool) {
	if id == "canon" {
		return "RX999", true
	}
	return "", false
}

func TestRun_AccumulatesSynonymsAndExternalCode(t *testing.T) {
	// Arrange: two distinct drug surfaces and two distinct event surfaces,
	// both resolving to a single shared canonical id each.
	reports := []RawReport{
		{ReportID: "R1", CaseID: "C1", Quarter: "2025Q1",
			Drugs: []DrugMention{{Surface: "Tylenol", Role: domain.RolePrimarySuspect}}, Events: []string{"headache"}},
		{ReportID: "R2", CaseID: "C2", Quarter: "2025Q1",
			Drugs: []DrugMention{{Surface: "acetaminophen", Role: domain.RolePrimarySuspect}}, Events: []string{"head pain"}},
	}
	cfg := domain.NormalizeConfig{MinA: 1, MaxSkipRatio: 0.01}
	deps := Deps{DrugResolver: codedResolver{}, EventResolver: codedResolver{}}
	logger := logrus.New()
	logger.SetOutput(noopWriter{})

	// Act
	result, err := Run(context.Background(), cfg, reports, deps, logger)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Drugs, 1)
	require.Len(t, result.Events, 1)

	drug := result.Drugs[0]
	require.Equal(t, "RX999", drug.ExternalCode)
	require.Contains(t, drug.Synonyms, "acetaminophen")
	require.NotContains(t, drug.Synonyms, drug.PreferredName)

	event := result.Events[0]
	require.Contains(t, event.SurfaceForms, "head pain")
	require.NotContains(t, event.SurfaceForms, event.RepresentativeTerm)
}

func TestRun_SkipRatioExceeded(t *testing.T) {
	// Arrange: 2 malformed rows out of 2 total -> skip ratio 1.0 > budget
	reports := []RawReport{
		{ReportID: "", CaseID: "C1", Quarter: "2025Q1"},
		{ReportID: "", CaseID: "C2", Quarter: "2025Q1"},
	}
	cfg := domain.NormalizeConfig{MaxSkipRatio: 0.01}
	deps := Deps{DrugResolver: identityResolver{}, EventResolver: identityResolver{}}
	logger := logrus.New()
	logger.SetOutput(noopWriter{})

	// Act
	_, err := Run(context.Background(), cfg, reports, deps, logger)

	// Assert
	require.Error(t, err)
	pe, ok := err.(*domain.PipelineError)
	require.True(t, ok)
	require.Equal(t, domain.ErrKindDataShape, pe.Kind)
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_ContributesToDrugSide(t *testing.T) {
	// Arrange
	cases := []struct {
		role               Role
		includeConcomitant bool
		want               bool
	}{
		{RolePrimarySuspect, false, true},
		{RoleSecondarySuspect, false, true},
		{RoleInteracting, false, true},
		{RoleConcomitant, false, false},
		{RoleConcomitant, true, true},
	}

	for _, c := range cases {
		// Act
		got := c.role.ContributesToDrugSide(c.includeConcomitant)

		// Assert
		assert.Equal(t, c.want, got, "role=%s includeConcomitant=%v", c.role, c.includeConcomitant)
	}
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RolePrimarySuspect.IsValid())
	assert.False(t, Role("BOGUS").IsValid())
}

func TestPolarity_Weight(t *testing.T) {
	assert.Equal(t, 1.0, PolarityAsserted.Weight())
	assert.Equal(t, 0.5, PolarityUncertain.Weight())
	assert.Equal(t, 0.25, PolarityNegated.Weight())
}

func TestDrug_Validate(t *testing.T) {
	// Arrange
	valid := &Drug{ID: "drug:1", PreferredName: "aspirin"}
	missingID := &Drug{PreferredName: "aspirin"}

	// Act / Assert
	require.NoError(t, valid.Validate())
	require.Error(t, missingID.Validate())
}

func TestContingencyCell_Total(t *testing.T) {
	// Arrange
	c := &ContingencyCell{A: 2, B: 1, C: 0, D: 1}

	// Act
	total := c.Total()

	// Assert
	assert.Equal(t, int64(4), total)
	require.NoError(t, c.Validate())
}

func TestContingencyCell_Validate_NegativeRejected(t *testing.T) {
	// Arrange
	c := &ContingencyCell{A: -1}

	// Act
	err := c.Validate()

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeCell)
}

func TestLiteratureSupport_MeanConfidence(t *testing.T) {
	// Arrange
	withMentions := &LiteratureSupport{NMentions: 4, SumConfidence: 2.0}
	empty := &LiteratureSupport{}

	// Act / Assert
	assert.Equal(t, 0.5, withMentions.MeanConfidence())
	assert.Equal(t, 0.0, empty.MeanConfidence())
}

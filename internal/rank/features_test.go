package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatFeature_CapsSmallACont(t *testing.T) {
	// a=2 caps the multiplier at 0.2 regardless of how large RORShrunk is.
	f := StatFeature(100, 2)
	assert.InDelta(t, 0.2*4.60517, f, 1e-3)
}

func TestStatFeature_FloorsAtOne(t *testing.T) {
	f := StatFeature(0.5, 20)
	assert.Equal(t, 0.0, f)
}

func TestCIFeature_AboveThresholdIsOne(t *testing.T) {
	assert.Equal(t, 1.0, CIFeature(2.5))
}

func TestCIFeature_BelowThresholdPassesThrough(t *testing.T) {
	assert.Equal(t, 0.6, CIFeature(0.6))
}

func TestTrendFeature_NilIsZero(t *testing.T) {
	assert.Equal(t, 0.0, TrendFeature(nil))
}

func TestTrendFeature_NegativeClampedToZero(t *testing.T) {
	z := -1.5
	assert.Equal(t, 0.0, TrendFeature(&z))
}

func TestTrendFeature_PositivePassesThrough(t *testing.T) {
	z := 3.2
	assert.Equal(t, 3.2, TrendFeature(&z))
}

func TestLitFeature_RecentBonusApplied(t *testing.T) {
	without := LitFeature(10, 0.8, 0.4)
	with := LitFeature(10, 0.8, 0.6)
	assert.InDelta(t, without+0.5, with, 1e-9)
}

func TestClusterPenaltyFeature_Singleton(t *testing.T) {
	assert.Equal(t, 1.0, ClusterPenaltyFeature(1))
}

func TestClusterPenaltyFeature_ThreeMembers(t *testing.T) {
	assert.InDelta(t, 1.0/3.0, ClusterPenaltyFeature(3), 1e-9)
}

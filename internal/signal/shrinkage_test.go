package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitPrior_WeightedMean(t *testing.T) {
	// Arrange: two rows, equal variance -> simple mean of log(ROR)
	logRORs := []float64{math.Log(2.0), math.Log(8.0)}
	vars := []float64{1.0, 1.0}

	// Act
	prior := FitPrior(logRORs, vars)

	// Assert
	assert.InDelta(t, math.Log(4.0), prior.Mu, 1e-9)
	assert.Greater(t, prior.Sigma2, 0.0)
}

func TestFitPrior_EmptyInput(t *testing.T) {
	prior := FitPrior(nil, nil)
	assert.Equal(t, Prior{}, prior)
}

func TestShrink_PullsTowardPrior(t *testing.T) {
	// Arrange: a row far from the prior mean, with high variance (low
	// precision), should shrink substantially toward mu.
	prior := Prior{Mu: math.Log(1.0), Sigma2: 0.05}
	logROR := math.Log(50.0)
	varLogROR := 10.0

	// Act
	shrunk := Shrink(logROR, varLogROR, prior)

	// Assert: result lies strictly between the prior mean and the raw
	// estimate, closer to the prior given its much higher precision.
	assert.Less(t, shrunk, logROR)
	assert.Greater(t, shrunk, prior.Mu)
	assert.Less(t, shrunk-prior.Mu, (logROR-prior.Mu)/2)
}

func TestShrink_DegeneratePriorCollapsesToMu(t *testing.T) {
	prior := Prior{Mu: 1.23, Sigma2: 0}
	shrunk := Shrink(5.0, 0.1, prior)
	assert.Equal(t, 1.23, shrunk)
}

func TestRORShrunk_BetweenRawAndPriorMean(t *testing.T) {
	// Invariant: ROR_shrunk lies between ROR and exp(mu), inclusive.
	rows := []struct{ a, b, c, d int64 }{
		{10, 5, 3, 50},
		{2, 20, 1, 100},
		{8, 8, 8, 8},
	}

	var logRORs, vars, rawRORs []float64
	for _, r := range rows {
		st, ok := Compute(r.a, r.b, r.c, r.d)
		if !ok {
			continue
		}
		logRORs = append(logRORs, st.LogROR)
		vars = append(vars, st.VarLogROR)
		rawRORs = append(rawRORs, st.ROR)
	}

	prior := FitPrior(logRORs, vars)
	priorROR := math.Exp(prior.Mu)

	for i := range logRORs {
		shrunkROR := RORShrunk(logRORs[i], vars[i], prior)
		lo, hi := rawRORs[i], priorROR
		if lo > hi {
			lo, hi = hi, lo
		}
		assert.GreaterOrEqual(t, shrunkROR, lo-1e-9)
		assert.LessOrEqual(t, shrunkROR, hi+1e-9)
	}
}

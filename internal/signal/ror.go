// Package signal computes the Reporting Odds Ratio, its confidence interval,
// Bayesian shrinkage toward an empirical prior, and trend z-scores for each
// (drug, event) pair, per quarter and across the full observation window.
package signal

import "math"

// haldaneCorrection is added to every cell when any cell is zero.
const haldaneCorrection = 0.5

// Stats is the disproportionality statistic for one contingency cell:
// ROR and its 95% CI on the log scale, plus the variance of log(ROR) used
// downstream by shrinkage and trend.
type Stats struct {
	ROR      float64
	CILow    float64
	CIHigh   float64
	LogROR   float64
	VarLogROR float64
	Corrected bool
}

// Compute returns the ROR, 95% CI, and log-scale variance for a contingency
// cell (a,b,c,d), applying the Haldane-Anscombe correction when any cell is
// zero. ok is false when a+b=0 or c+d=0 (ROR undefined even after
// correction, since the correction alone cannot repair a structurally empty
// marginal).
func Compute(a, b, c, d int64) (Stats, bool) {
	if a+b == 0 || c+d == 0 {
		return Stats{}, false
	}

	fa, fb, fc, fd := float64(a), float64(b), float64(c), float64(d)
	corrected := a == 0 || b == 0 || c == 0 || d == 0
	if corrected {
		fa += haldaneCorrection
		fb += haldaneCorrection
		fc += haldaneCorrection
		fd += haldaneCorrection
	}

	ror := (fa * fd) / (fb * fc)
	logROR := math.Log(ror)
	varLogROR := 1/fa + 1/fb + 1/fc + 1/fd
	se := math.Sqrt(varLogROR)

	return Stats{
		ROR:       ror,
		LogROR:    logROR,
		VarLogROR: varLogROR,
		CILow:     math.Exp(logROR - 1.96*se),
		CIHigh:    math.Exp(logROR + 1.96*se),
		Corrected: corrected,
	}, true
}

// BelowThreshold reports whether (a, ciLow) fails the conventional
// disproportionality gate: ROR_CI_lower > 1 AND a >= 3. Rows failing it are
// still kept, just flagged.
func BelowThreshold(a int64, ciLow float64) bool {
	return !(ciLow > 1 && a >= 3)
}

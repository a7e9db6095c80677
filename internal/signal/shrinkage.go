package signal

import "math"

// Prior is the log-normal prior N(mu, sigma^2) fit across all rows of one
// aggregation, by method of moments weighted by 1/var(log ROR).
type Prior struct {
	Mu     float64
	Sigma2 float64
}

// FitPrior fits Prior from the per-row (logROR, varLogROR) pairs of every
// (drug,event) row in the aggregation.
func FitPrior(logRORs, varLogRORs []float64) Prior {
	if len(logRORs) == 0 {
		return Prior{}
	}

	var sumW, sumWX float64
	for i := range logRORs {
		w := 1 / varLogRORs[i]
		sumW += w
		sumWX += w * logRORs[i]
	}
	mu := sumWX / sumW

	var sumWSq float64
	for i := range logRORs {
		w := 1 / varLogRORs[i]
		dx := logRORs[i] - mu
		sumWSq += w * dx * dx
	}
	sigma2 := sumWSq / sumW

	return Prior{Mu: mu, Sigma2: sigma2}
}

// Shrink computes the shrunk posterior mean of log(ROR) for one row, given
// the fitted Prior, by precision-weighted combination:
//
//	log(ROR_shrunk) = (log(ROR)/var_i + mu/sigma^2) / (1/var_i + 1/sigma^2)
//
// When the prior is degenerate (sigma2 == 0, every row agreeing exactly),
// the posterior collapses entirely onto the prior mean.
func Shrink(logROR, varLogROR float64, prior Prior) float64 {
	if prior.Sigma2 <= 0 {
		return prior.Mu
	}
	numerator := logROR/varLogROR + prior.Mu/prior.Sigma2
	denominator := 1/varLogROR + 1/prior.Sigma2
	return numerator / denominator
}

// RORShrunk exponentiates Shrink's result back to the ROR scale.
func RORShrunk(logROR, varLogROR float64, prior Prior) float64 {
	return math.Exp(Shrink(logROR, varLogROR, prior))
}

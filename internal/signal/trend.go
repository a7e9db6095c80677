package signal

import "math"

// TrendResult is the outcome of the weighted-linear-regression trend test.
// Z is nil when fewer than the configured minimum number of quarters are
// available.
type TrendResult struct {
	Z        *float64
	Slope    float64
	Quarters int
}

// Trend computes a z-score for the slope of a weighted linear regression of
// log(ROR) against quarter index (0-based, in chronological order), weights
// 1/var_i. Fewer than minQuarters observations yields a nil Z with
// Quarters set to the observed count.
func Trend(logRORs, varLogRORs []float64, minQuarters int) TrendResult {
	n := len(logRORs)
	if n < minQuarters || n < 2 {
		return TrendResult{Quarters: n}
	}

	var s0, s1, s2, sy, sxy float64
	for i := 0; i < n; i++ {
		x := float64(i)
		w := 1 / varLogRORs[i]
		y := logRORs[i]
		s0 += w
		s1 += w * x
		s2 += w * x * x
		sy += w * y
		sxy += w * x * y
	}

	d := s0*s2 - s1*s1
	if d <= 0 {
		return TrendResult{Quarters: n}
	}

	beta := (s0*sxy - s1*sy) / d
	varBeta := s0 / d
	z := beta / math.Sqrt(varBeta)

	return TrendResult{Z: &z, Slope: beta, Quarters: n}
}

package rank

import (
	"sort"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// Fuse combines Features and RankWeights into the single final_score:
//
//	final_score = (w_stat*stat + w_trend*trend + w_lit*lit) * ci * cluster_penalty
func Fuse(f Features, w domain.RankWeights) float64 {
	weighted := w.Stat*f.Stat + w.Trend*f.Trend + w.Lit*f.Lit
	return weighted * f.CI * f.ClusterPenalty
}

// SortRanked orders signals by final_score descending, ties broken by
// (a desc, drug_id asc, event_id asc) for determinism, then assigns Rank
// 1-based in that order.
func SortRanked(signals []domain.RankedSignal) {
	sort.Slice(signals, func(i, j int) bool {
		a, b := signals[i], signals[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.A != b.A {
			return a.A > b.A
		}
		if a.SignalRow.DrugID != b.SignalRow.DrugID {
			return a.SignalRow.DrugID < b.SignalRow.DrugID
		}
		return a.SignalRow.EventID < b.SignalRow.EventID
	})
	for i := range signals {
		signals[i].Rank = i + 1
	}
}

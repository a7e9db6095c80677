package rank

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

const stageName = "rank"

// Run fuses the ALL-aggregation SignalRows with literature support and
// event cluster assignments into ordered RankedSignals. Missing literature
// or cluster data is treated as zero-valued, never an error; an empty
// signals input yields an empty output.
func Run(cfg domain.RankConfig, signals []domain.SignalRow, literatureByPair map[[2]string]domain.LiteratureSupport, clusters []domain.EventCluster, logger *logrus.Logger) []domain.RankedSignal {
	start := time.Now()

	eventToCluster := make(map[string]int, len(clusters))
	clusterMembers := make(map[int][]string, len(clusters))
	for _, c := range clusters {
		for _, eventID := range c.MemberEventIDs {
			eventToCluster[eventID] = c.ClusterID
		}
		clusterMembers[c.ClusterID] = c.MemberEventIDs
	}

	signalsByDrugEvent := make(map[[2]string]domain.SignalRow, len(signals))
	for _, s := range signals {
		if domain.IsAll(s.YearQuarter) {
			signalsByDrugEvent[[2]string{s.DrugID, s.EventID}] = s
		}
	}

	out := make([]domain.RankedSignal, 0, len(signals))
	for _, s := range signals {
		if !domain.IsAll(s.YearQuarter) {
			continue
		}

		lit := literatureByPair[[2]string{s.DrugID, s.EventID}]

		membersWithSignal := 1
		if clusterID, ok := eventToCluster[s.EventID]; ok {
			membersWithSignal = 0
			for _, member := range clusterMembers[clusterID] {
				if row, ok := signalsByDrugEvent[[2]string{s.DrugID, member}]; ok && row.IsDefined() {
					membersWithSignal++
				}
			}
			if membersWithSignal < 1 {
				membersWithSignal = 1
			}
		}

		features := Features{
			Stat:           StatFeature(s.RORShrunk, s.A),
			CI:             CIFeature(s.CILow),
			Trend:          TrendFeature(s.TrendZ),
			Lit:            LitFeature(lit.NMentions, lit.MeanConfidence(), lit.RecentFraction),
			ClusterPenalty: ClusterPenaltyFeature(membersWithSignal),
		}

		ranked := domain.RankedSignal{
			SignalRow:         s,
			LiteratureSupport: lit,
			ClusterID:         eventToCluster[s.EventID],
			ClusterPenalty:    features.ClusterPenalty,
			FinalScore:        Fuse(features, cfg.Weights),
		}
		out = append(out, ranked)
	}

	SortRanked(out)

	logger.WithFields(logrus.Fields{
		"rows":     len(out),
		"duration": time.Since(start),
	}).Info("rank stage complete")

	return out
}

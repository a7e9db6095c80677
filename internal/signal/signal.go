package signal

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

const stageName = "signal"

type pairKey struct{ drugID, eventID string }

// Run computes a SignalRow for every (drug, event) pair present in cells, at
// both per-quarter granularity and the summed ALL granularity: ROR, 95% CI,
// Bayesian-shrunk ROR, and a trend z-score across quarters. Rows whose
// arithmetic is undefined carry a ReasonCode instead of a panic or error.
func Run(ctx context.Context, cfg domain.SignalConfig, cells []domain.ContingencyCell, deps domain.ProgressObserver, cancel domain.CancellationToken, logger *logrus.Logger) ([]domain.SignalRow, error) {
	start := time.Now()
	if deps == nil {
		deps = domain.NoopProgressObserver{}
	}
	if cancel == nil {
		cancel = domain.ContextCancellationToken{Ctx: ctx}
	}

	byPair := make(map[pairKey][]domain.ContingencyCell)
	var order []pairKey
	for _, c := range cells {
		k := pairKey{c.DrugID, c.EventID}
		if _, seen := byPair[k]; !seen {
			order = append(order, k)
		}
		byPair[k] = append(byPair[k], c)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].drugID != order[j].drugID {
			return order[i].drugID < order[j].drugID
		}
		return order[i].eventID < order[j].eventID
	})

	quarterRows := make([]domain.SignalRow, 0, len(cells))
	allRows := make([]domain.SignalRow, 0, len(order))

	for i, k := range order {
		if cancel.Cancelled() {
			return nil, domain.NewPipelineError(domain.ErrKindCancellation, stageName, "cancelled during row computation", nil)
		}

		quarters := byPair[k]
		sort.Slice(quarters, func(i, j int) bool { return quarters[i].YearQuarter < quarters[j].YearQuarter })

		var sumA, sumB, sumC, sumD int64
		pairQuarterRows := make([]domain.SignalRow, 0, len(quarters))
		for _, c := range quarters {
			sumA += c.A
			sumB += c.B
			sumC += c.C
			sumD += c.D
			pairQuarterRows = append(pairQuarterRows, rowFromCell(c, c.YearQuarter))
		}
		quarterRows = append(quarterRows, pairQuarterRows...)

		allCell := domain.ContingencyCell{DrugID: k.drugID, EventID: k.eventID, YearQuarter: string(domain.AggregationAll), A: sumA, B: sumB, C: sumC, D: sumD}
		allRows = append(allRows, rowFromCell(allCell, string(domain.AggregationAll)))

		if (i+1)%1000 == 0 {
			deps.OnProgress(stageName, int64(i+1), int64(len(order)))
		}
	}
	deps.OnProgress(stageName, int64(len(order)), int64(len(order)))

	quarterPrior := fitPriorFromRows(quarterRows)
	allPrior := fitPriorFromRows(allRows)
	applyShrinkage(quarterRows, quarterPrior)
	applyShrinkage(allRows, allPrior)

	minQuarters := cfg.TrendMinQuarters
	if minQuarters == 0 {
		minQuarters = 3
	}
	applyTrend(order, quarterRows, allRows, minQuarters)

	out := make([]domain.SignalRow, 0, len(quarterRows)+len(allRows))
	out = append(out, quarterRows...)
	out = append(out, allRows...)

	logger.WithFields(logrus.Fields{
		"pairs":    len(order),
		"rows":     len(out),
		"duration": time.Since(start),
	}).Info("signal stage complete")

	return out, nil
}

func rowFromCell(c domain.ContingencyCell, yearQuarter string) domain.SignalRow {
	row := domain.SignalRow{
		DrugID: c.DrugID, EventID: c.EventID, YearQuarter: yearQuarter,
		A: c.A, B: c.B, C: c.C, D: c.D, NReports: c.Total(),
	}
	stats, ok := Compute(c.A, c.B, c.C, c.D)
	if !ok {
		if c.A+c.B == 0 {
			row.ReasonCode = domain.ReasonZeroMarginalAB
		} else {
			row.ReasonCode = domain.ReasonZeroMarginalCD
		}
		return row
	}
	row.ROR = stats.ROR
	row.CILow = stats.CILow
	row.CIHigh = stats.CIHigh
	row.BelowThreshold = BelowThreshold(c.A, stats.CILow)
	return row
}

func fitPriorFromRows(rows []domain.SignalRow) Prior {
	var logRORs, vars []float64
	for _, r := range rows {
		if r.ReasonCode != domain.ReasonNone {
			continue
		}
		st, ok := Compute(r.A, r.B, r.C, r.D)
		if !ok {
			continue
		}
		logRORs = append(logRORs, st.LogROR)
		vars = append(vars, st.VarLogROR)
	}
	return FitPrior(logRORs, vars)
}

func applyShrinkage(rows []domain.SignalRow, prior Prior) {
	for i := range rows {
		if rows[i].ReasonCode != domain.ReasonNone {
			continue
		}
		st, ok := Compute(rows[i].A, rows[i].B, rows[i].C, rows[i].D)
		if !ok {
			continue
		}
		rows[i].RORShrunk = RORShrunk(st.LogROR, st.VarLogROR, prior)
	}
}

// applyTrend computes each pair's trend z-score from its per-quarter log(ROR)
// sequence in quarterRows, then attaches the result to that pair's ALL row in
// allRows -- rank and the CSV output read only the ALL row, never the
// per-quarter rows, so the trend feature must live there.
func applyTrend(order []pairKey, quarterRows []domain.SignalRow, allRows []domain.SignalRow, minQuarters int) {
	quarterIdxByPair := make(map[pairKey][]int, len(order))
	for i, r := range quarterRows {
		k := pairKey{r.DrugID, r.EventID}
		quarterIdxByPair[k] = append(quarterIdxByPair[k], i)
	}
	allIdxByPair := make(map[pairKey]int, len(allRows))
	for i, r := range allRows {
		allIdxByPair[pairKey{r.DrugID, r.EventID}] = i
	}

	for _, k := range order {
		var logRORs, vars []float64
		for _, idx := range quarterIdxByPair[k] {
			r := quarterRows[idx]
			if r.ReasonCode != domain.ReasonNone {
				continue
			}
			st, ok := Compute(r.A, r.B, r.C, r.D)
			if !ok {
				continue
			}
			logRORs = append(logRORs, st.LogROR)
			vars = append(vars, st.VarLogROR)
		}

		result := Trend(logRORs, vars, minQuarters)
		allIdx, ok := allIdxByPair[k]
		if !ok || allRows[allIdx].ReasonCode != domain.ReasonNone {
			continue
		}
		allRows[allIdx].TrendZ = result.Z
		allRows[allIdx].TrendQuarters = result.Quarters
	}
}

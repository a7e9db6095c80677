package artifact

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

var signalsCSVHeader = []string{
	"rank", "drug_id", "drug_name", "event_id", "event_term",
	"a", "ror", "ci_low", "ci_high", "ror_shrunk",
	"n_quarters", "trend_z", "lit_mentions", "final_score",
}

// DrugNameLookup and EventTermLookup let WriteSignalsCSV resolve a readable
// name for each row's drug_id/event_id without coupling this package to the
// normalize stage's in-memory tables.
type DrugNameLookup func(drugID string) string
type EventTermLookup func(eventID string) string

// WriteSignalsCSV writes outputs/signals.csv: one row per RankedSignal, in
// the order given (callers pass an already-ranked, already-sorted slice).
// Uses encoding/csv directly since the artifact is itself specified as CSV,
// not parquet.
func WriteSignalsCSV(ctx context.Context, s *FileStore, signals []domain.RankedSignal, drugName DrugNameLookup, eventTerm EventTermLookup) error {
	return s.WriteAtomic(ctx, PathSignalsCSV, func(w domain.WriteSink) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(signalsCSVHeader); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		for _, r := range signals {
			trendZ := ""
			if r.TrendZ != nil {
				trendZ = strconv.FormatFloat(*r.TrendZ, 'f', -1, 64)
			}
			row := []string{
				strconv.Itoa(r.Rank),
				r.SignalRow.DrugID,
				drugName(r.SignalRow.DrugID),
				r.SignalRow.EventID,
				eventTerm(r.SignalRow.EventID),
				strconv.FormatInt(r.A, 10),
				strconv.FormatFloat(r.ROR, 'f', -1, 64),
				strconv.FormatFloat(r.CILow, 'f', -1, 64),
				strconv.FormatFloat(r.CIHigh, 'f', -1, 64),
				strconv.FormatFloat(r.RORShrunk, 'f', -1, 64),
				strconv.Itoa(r.TrendQuarters),
				trendZ,
				strconv.Itoa(r.NMentions),
				strconv.FormatFloat(r.FinalScore, 'f', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing row for %s/%s: %w", r.SignalRow.DrugID, r.SignalRow.EventID, err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

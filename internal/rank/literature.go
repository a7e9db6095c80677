package rank

import "github.com/pharmvigilance/signalengine/internal/domain"

// AggregateLiterature folds Extract's per-sentence RelationMentions into one
// domain.LiteratureSupport per (drug, event) pair. Confidence is weighted by
// polarity (negated/uncertain mentions count for less toward mean
// confidence); recency is measured against the most recent publication year
// present in the corpus rather than wall-clock time, so the aggregation
// stays reproducible across runs.
func AggregateLiterature(mentions []domain.RelationMention, recentYears int) map[[2]string]domain.LiteratureSupport {
	if len(mentions) == 0 {
		return nil
	}

	maxYear := 0
	for _, m := range mentions {
		if m.Year > maxYear {
			maxYear = m.Year
		}
	}
	cutoff := maxYear - recentYears + 1

	type acc struct {
		n       int
		sumConf float64
		recent  int
	}
	accs := make(map[[2]string]*acc)
	for _, m := range mentions {
		key := [2]string{m.DrugID, m.EventID}
		a, ok := accs[key]
		if !ok {
			a = &acc{}
			accs[key] = a
		}
		a.n++
		a.sumConf += m.Confidence * m.Polarity.Weight()
		if m.Year >= cutoff {
			a.recent++
		}
	}

	out := make(map[[2]string]domain.LiteratureSupport, len(accs))
	for key, a := range accs {
		out[key] = domain.LiteratureSupport{
			DrugID:         key[0],
			EventID:        key[1],
			NMentions:      a.n,
			SumConfidence:  a.sumConf,
			RecentFraction: float64(a.recent) / float64(a.n),
		}
	}
	return out
}

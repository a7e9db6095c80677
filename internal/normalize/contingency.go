package normalize

import (
	"sort"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

// canonReport is one deduplicated report reduced to the canonical drug/event
// IDs it carries, after the role filter has been applied.
type canonReport struct {
	Quarter string
	DrugIDs map[string]struct{}
	EventIDs map[string]struct{}
}

// Assemble builds the per-quarter 2x2 contingency cells for every (drug,
// event) pair observed together in at least one report. cfg controls
// sparsity pruning; the role filter is applied earlier, by FilterRole.
func Assemble(reports []canonReport, cfg domain.NormalizeConfig) []domain.ContingencyCell {
	byQuarter := make(map[string][]canonReport)
	for _, r := range reports {
		byQuarter[r.Quarter] = append(byQuarter[r.Quarter], r)
	}

	quarters := make([]string, 0, len(byQuarter))
	for q := range byQuarter {
		quarters = append(quarters, q)
	}
	sort.Strings(quarters)

	var cells []domain.ContingencyCell
	for _, q := range quarters {
		cells = append(cells, assembleQuarter(q, byQuarter[q], cfg)...)
	}
	return cells
}

func assembleQuarter(quarter string, reports []canonReport, cfg domain.NormalizeConfig) []domain.ContingencyCell {
	nQ := int64(len(reports))

	nDrug := make(map[string]int64)
	nEvent := make(map[string]int64)
	coOccur := make(map[[2]string]int64)

	for _, r := range reports {
		for d := range r.DrugIDs {
			nDrug[d]++
		}
		for e := range r.EventIDs {
			nEvent[e]++
		}
		for d := range r.DrugIDs {
			for e := range r.EventIDs {
				coOccur[[2]string{d, e}]++
			}
		}
	}

	pairs := make([][2]string, 0, len(coOccur))
	for pair := range coOccur {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	cells := make([]domain.ContingencyCell, 0, len(pairs))
	for _, pair := range pairs {
		d, e := pair[0], pair[1]
		a := coOccur[pair]
		if a < cfg.MinA && !cfg.Dense {
			continue
		}
		b := nDrug[d] - a
		c := nEvent[e] - a
		dCell := nQ - a - b - c
		cells = append(cells, domain.ContingencyCell{
			DrugID: d, EventID: e, YearQuarter: quarter,
			A: a, B: b, C: c, D: dCell,
		})
	}
	return cells
}

// FilterRole reduces a RawReport's drug mentions to the canonical drug IDs
// that contribute to the "drug present" side of the 2x2, given resolved
// canonical IDs.
func FilterRole(mentions []DrugMention, resolvedIDs []string, cfg domain.NormalizeConfig) map[string]struct{} {
	out := make(map[string]struct{})
	for i, m := range mentions {
		if m.Role.ContributesToDrugSide(cfg.IncludeConcomitant) {
			out[resolvedIDs[i]] = struct{}{}
		}
	}
	return out
}

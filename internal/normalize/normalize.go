package normalize

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

const stageName = "normalize"

// Result is Normalize's complete output: the canonical drug/event tables and
// the contingency table, ready for the artifact layer to publish.
type Result struct {
	Drugs       []domain.Drug
	Events      []domain.Event
	Cells       []domain.ContingencyCell
	SkippedRows int64
	TotalRows   int64
}

// Deps bundles the capability interfaces Normalize depends on.
type Deps struct {
	DrugResolver  domain.SynonymResolver
	EventResolver domain.SynonymResolver
	Progress      domain.ProgressObserver
	Cancel        domain.CancellationToken
}

// Run executes the Normalize stage end to end: dedup, canonicalize,
// role-filter, assemble contingency cells.
func Run(ctx context.Context, cfg domain.NormalizeConfig, rawReports []RawReport, deps Deps, logger *logrus.Logger) (*Result, error) {
	start := time.Now()
	if deps.Progress == nil {
		deps.Progress = domain.NoopProgressObserver{}
	}
	if deps.Cancel == nil {
		deps.Cancel = domain.ContextCancellationToken{Ctx: ctx}
	}

	deduped := Dedup(rawReports)

	drugIDs := make(map[string]domain.Drug)
	eventIDs := make(map[string]domain.Event)
	drugSynonyms := make(map[string]map[string]struct{})
	eventSurfaceForms := make(map[string]map[string]struct{})
	canonReports := make([]canonReport, 0, len(deduped))

	var skipped int64
	total := int64(len(deduped))

	for i, r := range deduped {
		if deps.Cancel.Cancelled() {
			return nil, domain.NewPipelineError(domain.ErrKindCancellation, stageName, "cancelled during canonicalization", nil)
		}

		if r.ReportID == "" || r.Quarter == "" {
			skipped++
			continue
		}

		resolvedDrugIDs := make([]string, len(r.Drugs))
		malformed := false
		for j, dm := range r.Drugs {
			if !dm.Role.IsValid() {
				malformed = true
				break
			}
			id, _, err := deps.DrugResolver.Resolve(ctx, dm.Surface)
			if err != nil {
				return nil, domain.NewPipelineError(domain.ErrKindResource, stageName, "drug synonym resolution failed", err)
			}
			resolvedDrugIDs[j] = id
			if _, ok := drugIDs[id]; !ok {
				drugIDs[id] = domain.Drug{ID: id, PreferredName: Canonicalize(dm.Surface)}
			}
			addSurface(drugSynonyms, id, dm.Surface)
		}
		if malformed {
			skipped++
			continue
		}

		drugSet := FilterRole(r.Drugs, resolvedDrugIDs, cfg)

		eventSet := make(map[string]struct{}, len(r.Events))
		for _, surface := range r.Events {
			id, _, err := deps.EventResolver.Resolve(ctx, surface)
			if err != nil {
				return nil, domain.NewPipelineError(domain.ErrKindResource, stageName, "event synonym resolution failed", err)
			}
			eventSet[id] = struct{}{}
			if _, ok := eventIDs[id]; !ok {
				eventIDs[id] = domain.Event{ID: id, RepresentativeTerm: Canonicalize(surface)}
			}
			addSurface(eventSurfaceForms, id, surface)
		}

		canonReports = append(canonReports, canonReport{
			Quarter:  r.Quarter,
			DrugIDs:  drugSet,
			EventIDs: eventSet,
		})

		if (i+1)%1000 == 0 {
			deps.Progress.OnProgress(stageName, int64(i+1), total)
		}
	}
	deps.Progress.OnProgress(stageName, total, total)

	if total > 0 {
		skipRatio := float64(skipped) / float64(total)
		if skipRatio > cfg.MaxSkipRatio {
			return nil, domain.NewPipelineError(domain.ErrKindDataShape, stageName,
				fmt.Sprintf("skip ratio %.4f exceeds budget %.4f", skipRatio, cfg.MaxSkipRatio), nil)
		}
	}

	cells := Assemble(canonReports, cfg)

	drugs := sortedDrugs(drugIDs)
	for i := range drugs {
		drugs[i].Synonyms = sortedSurfacesExcluding(drugSynonyms[drugs[i].ID], drugs[i].PreferredName)
		if ecr, ok := deps.DrugResolver.(domain.ExternalCodeResolver); ok {
			if code, ok := ecr.ExternalCode(drugs[i].ID); ok {
				drugs[i].ExternalCode = code
			}
		}
	}
	events := sortedEvents(eventIDs)
	for i := range events {
		events[i].SurfaceForms = sortedSurfacesExcluding(eventSurfaceForms[events[i].ID], events[i].RepresentativeTerm)
	}

	logger.WithFields(logrus.Fields{
		"total_rows":   total,
		"skipped_rows": skipped,
		"drugs":        len(drugIDs),
		"events":       len(eventIDs),
		"cells":        len(cells),
		"duration":     time.Since(start),
	}).Info("normalize stage complete")

	return &Result{
		Drugs:       drugs,
		Events:      events,
		Cells:       cells,
		SkippedRows: skipped,
		TotalRows:   total,
	}, nil
}

// addSurface records surface's canonicalized form as a distinct surface
// string observed for id, so the full set of resolving surfaces (beyond the
// one that minted the preferred name) survives onto the canonical record.
func addSurface(byID map[string]map[string]struct{}, id, surface string) {
	set, ok := byID[id]
	if !ok {
		set = make(map[string]struct{})
		byID[id] = set
	}
	set[Canonicalize(surface)] = struct{}{}
}

// sortedSurfacesExcluding returns the distinct surfaces in set, sorted, with
// the preferred/representative name itself omitted since it is already
// carried in its own field.
func sortedSurfacesExcluding(set map[string]struct{}, primary string) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		if s == primary {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func sortedDrugs(m map[string]domain.Drug) []domain.Drug {
	out := make([]domain.Drug, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedEvents(m map[string]domain.Event) []domain.Event {
	out := make([]domain.Event, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

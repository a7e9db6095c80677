package normalize

import "sort"

// Dedup collapses reports sharing (case_id, version) to the highest
// version, ties broken by latest received date then by lexicographic
// report_id. Input order is not relied upon; output
// order is the sorted (case_id) order for determinism downstream.
func Dedup(reports []RawReport) []RawReport {
	byCase := make(map[string][]RawReport, len(reports))
	for _, r := range reports {
		byCase[r.CaseID] = append(byCase[r.CaseID], r)
	}

	caseIDs := make([]string, 0, len(byCase))
	for id := range byCase {
		caseIDs = append(caseIDs, id)
	}
	sort.Strings(caseIDs)

	out := make([]RawReport, 0, len(caseIDs))
	for _, id := range caseIDs {
		versions := byCase[id]
		best := versions[0]
		for _, r := range versions[1:] {
			if betterVersion(r, best) {
				best = r
			}
		}
		out = append(out, best)
	}
	return out
}

// betterVersion reports whether candidate should replace incumbent under
// the (version desc, received_date desc, report_id asc) tie-break policy.
func betterVersion(candidate, incumbent RawReport) bool {
	if candidate.Version != incumbent.Version {
		return candidate.Version > incumbent.Version
	}
	if candidate.ReceivedDate != incumbent.ReceivedDate {
		return candidate.ReceivedDate > incumbent.ReceivedDate
	}
	return candidate.ReportID < incumbent.ReportID
}

package normalize

import "github.com/pharmvigilance/signalengine/internal/domain"

// DrugMention is one raw drug surface string on a report, with its role
// code.
type DrugMention struct {
	Surface string
	Role    domain.Role
}

// RawReport is one raw case-report row as consumed by Normalize, before
// canonicalization, dedup, or contingency assembly.
type RawReport struct {
	ReportID     string
	CaseID       string
	Version      int
	ReceivedDate string // ISO-8601 date string; compared lexicographically
	Quarter      string // e.g. "2025Q2"
	Drugs        []DrugMention
	Events       []string // reaction surface strings
}

package artifact

import "github.com/pharmvigilance/signalengine/internal/domain"

// The conversions below translate between the domain package's in-memory
// entities and this package's parquet row schemas. They exist only at the
// artifact boundary: every other package operates on domain types.

func DrugsToRows(drugs []domain.Drug) []DrugRow {
	rows := make([]DrugRow, len(drugs))
	for i, d := range drugs {
		rows[i] = DrugRow{DrugID: d.ID, PreferredName: d.PreferredName, Synonyms: d.Synonyms, ExternalCode: d.ExternalCode}
	}
	return rows
}

func RowsToDrugs(rows []DrugRow) []domain.Drug {
	drugs := make([]domain.Drug, len(rows))
	for i, r := range rows {
		drugs[i] = domain.Drug{ID: r.DrugID, PreferredName: r.PreferredName, Synonyms: r.Synonyms, ExternalCode: r.ExternalCode}
	}
	return drugs
}

func EventsToRows(events []domain.Event) []EventRow {
	rows := make([]EventRow, len(events))
	for i, e := range events {
		rows[i] = EventRow{EventID: e.ID, RepresentativeTerm: e.RepresentativeTerm, SurfaceForms: e.SurfaceForms}
	}
	return rows
}

func RowsToEvents(rows []EventRow) []domain.Event {
	events := make([]domain.Event, len(rows))
	for i, r := range rows {
		events[i] = domain.Event{ID: r.EventID, RepresentativeTerm: r.RepresentativeTerm, SurfaceForms: r.SurfaceForms}
	}
	return events
}

func CellsToRows(cells []domain.ContingencyCell) []ContingencyRow {
	rows := make([]ContingencyRow, len(cells))
	for i, c := range cells {
		rows[i] = ContingencyRow{DrugID: c.DrugID, EventID: c.EventID, YearQuarter: c.YearQuarter, A: c.A, B: c.B, C: c.C, D: c.D}
	}
	return rows
}

func RowsToCells(rows []ContingencyRow) []domain.ContingencyCell {
	cells := make([]domain.ContingencyCell, len(rows))
	for i, r := range rows {
		cells[i] = domain.ContingencyCell{DrugID: r.DrugID, EventID: r.EventID, YearQuarter: r.YearQuarter, A: r.A, B: r.B, C: r.C, D: r.D}
	}
	return cells
}

func MentionsToRows(mentions []domain.RelationMention) []RelationRow {
	rows := make([]RelationRow, len(mentions))
	for i, m := range mentions {
		rows[i] = RelationRow{
			PMID: m.PMID, SentenceID: m.SentenceID, DrugID: m.DrugID, EventID: m.EventID,
			Confidence: m.Confidence, Polarity: m.Polarity.String(),
		}
	}
	return rows
}

func RowsToMentions(rows []RelationRow) []domain.RelationMention {
	mentions := make([]domain.RelationMention, len(rows))
	for i, r := range rows {
		mentions[i] = domain.RelationMention{
			PMID: r.PMID, SentenceID: r.SentenceID, DrugID: r.DrugID, EventID: r.EventID,
			Confidence: r.Confidence, Polarity: domain.Polarity(r.Polarity),
		}
	}
	return mentions
}

func ClustersToRows(clusters []domain.EventCluster) []ClusterRow {
	var rows []ClusterRow
	for _, c := range clusters {
		for _, memberID := range c.MemberEventIDs {
			rows = append(rows, ClusterRow{
				EventID: memberID, ClusterID: int32(c.ClusterID),
				RepresentativeEventID: c.RepresentativeEventID, Cohesion: c.Cohesion,
			})
		}
	}
	return rows
}

func RowsToClusters(rows []ClusterRow) []domain.EventCluster {
	byCluster := make(map[int32]*domain.EventCluster)
	var order []int32
	for _, r := range rows {
		c, ok := byCluster[r.ClusterID]
		if !ok {
			c = &domain.EventCluster{ClusterID: int(r.ClusterID), RepresentativeEventID: r.RepresentativeEventID, Cohesion: r.Cohesion}
			byCluster[r.ClusterID] = c
			order = append(order, r.ClusterID)
		}
		c.MemberEventIDs = append(c.MemberEventIDs, r.EventID)
	}
	clusters := make([]domain.EventCluster, len(order))
	for i, id := range order {
		clusters[i] = *byCluster[id]
	}
	return clusters
}

package extract

import "github.com/pharmvigilance/signalengine/internal/domain"

// DrugDictionary builds a Dictionary from canonical drugs, keyed by each
// drug's preferred name and every synonym.
func DrugDictionary(drugs []domain.Drug) Dictionary {
	surfaces := make(map[string][]string, len(drugs))
	for _, d := range drugs {
		surfaces[d.ID] = append([]string{d.PreferredName}, d.Synonyms...)
	}
	return NewDictionary(surfaces)
}

// EventDictionary builds a Dictionary from canonical events, keyed by each
// event's representative term and every surface form.
func EventDictionary(events []domain.Event) Dictionary {
	surfaces := make(map[string][]string, len(events))
	for _, e := range events {
		surfaces[e.ID] = append([]string{e.RepresentativeTerm}, e.SurfaceForms...)
	}
	return NewDictionary(surfaces)
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

func TestDrugDictionary_IncludesPreferredNameAndSynonyms(t *testing.T) {
	drugs := []domain.Drug{
		{ID: "D1", PreferredName: "Metformin", Synonyms: []string{"Glucophage"}},
	}

	d := DrugDictionary(drugs)

	assert.Equal(t, "D1", d["metformin"])
	assert.Equal(t, "D1", d["glucophage"])
}

func TestEventDictionary_IncludesRepresentativeTermAndSurfaceForms(t *testing.T) {
	events := []domain.Event{
		{ID: "E1", RepresentativeTerm: "nausea", SurfaceForms: []string{"feeling sick"}},
	}

	d := EventDictionary(events)

	assert.Equal(t, "E1", d["nausea"])
	assert.Equal(t, "E1", d["feeling sick"])
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSpans_MatchesLongestPhrase(t *testing.T) {
	// Arrange: "acute kidney injury" should win over "kidney" alone.
	drugs := NewDictionary(map[string][]string{"D1": {"metformin"}})
	events := NewDictionary(map[string][]string{
		"E1": {"kidney"},
		"E2": {"acute kidney injury"},
	})
	tokens := tokenize("Patient on metformin developed acute kidney injury")

	// Act
	spans := FindSpans(tokens, drugs, events)

	// Assert
	require.Len(t, spans, 2)
	assert.Equal(t, "D1", spans[0].CanonicalID)
	assert.Equal(t, "E2", spans[1].CanonicalID)
	assert.Equal(t, "acute kidney injury", spans[1].Surface)
}

func TestFindSpans_NoMatches(t *testing.T) {
	drugs := NewDictionary(map[string][]string{"D1": {"metformin"}})
	events := NewDictionary(map[string][]string{"E1": {"nausea"}})
	tokens := tokenize("the patient felt fine")

	spans := FindSpans(tokens, drugs, events)

	assert.Empty(t, spans)
}

func TestNewDictionary_NormalizesCase(t *testing.T) {
	d := NewDictionary(map[string][]string{"D1": {"Metformin HCl"}})
	assert.Equal(t, "D1", d["metformin hcl"])
}

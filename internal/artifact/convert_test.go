package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

func TestDrugsToRows_RoundTrip(t *testing.T) {
	drugs := []domain.Drug{{ID: "D1", PreferredName: "Metformin", Synonyms: []string{"Glucophage"}, ExternalCode: "RX1"}}

	rows := DrugsToRows(drugs)
	back := RowsToDrugs(rows)

	assert.Equal(t, drugs, back)
}

func TestClustersToRows_ExpandsMembersThenRegroups(t *testing.T) {
	clusters := []domain.EventCluster{
		{ClusterID: 0, RepresentativeEventID: "E1", MemberEventIDs: []string{"E1", "E2"}, Cohesion: 0.9},
		{ClusterID: 1, RepresentativeEventID: "E3", MemberEventIDs: []string{"E3"}, Cohesion: 1.0},
	}

	rows := ClustersToRows(clusters)
	assert.Len(t, rows, 3)

	back := RowsToClusters(rows)
	assert.Equal(t, clusters, back)
}

func TestMentionsToRows_RoundTrip(t *testing.T) {
	mentions := []domain.RelationMention{
		{PMID: "1", SentenceID: "s1", DrugID: "D1", EventID: "E1", Confidence: 0.8, Polarity: domain.PolarityAsserted},
	}

	rows := MentionsToRows(mentions)
	back := RowsToMentions(rows)

	require.Len(t, back, 1)
	assert.Equal(t, mentions[0].DrugID, back[0].DrugID)
	assert.Equal(t, mentions[0].Polarity, back[0].Polarity)
}

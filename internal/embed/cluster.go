package embed

import (
	"math"
	"sort"
)

const (
	defaultMergeThreshold = 0.85
	defaultMinCohesion    = 0.7
)

// cosineSim returns the cosine similarity between two equal-length vectors.
func cosineSim(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// cluster is a working agglomerative cluster: a set of member indices into
// the input event/vector slices.
type cluster struct {
	members []int
}

// Cluster groups eventIDs (with matching vectors, by index) by average-
// linkage agglomerative clustering on cosine similarity, merging while the
// best-available merge similarity is at least mergeThreshold. Clusters
// whose final cohesion (mean pairwise intra-cluster cosine) falls below
// minCohesion are split back into singletons to guard against chained
// merges dragging in a long tail of weak members.
func Cluster(eventIDs []string, vectors [][]float64, mergeThreshold, minCohesion float64) []ClusterResult {
	if mergeThreshold <= 0 {
		mergeThreshold = defaultMergeThreshold
	}
	if minCohesion <= 0 {
		minCohesion = defaultMinCohesion
	}
	n := len(eventIDs)
	if n == 0 {
		return nil
	}

	clusters := make([]*cluster, n)
	for i := range clusters {
		clusters[i] = &cluster{members: []int{i}}
	}

	for {
		bestI, bestJ, bestSim := -1, -1, -1.0
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				sim := averageLinkage(clusters[i], clusters[j], vectors)
				if sim > bestSim || (sim == bestSim && betterTie(clusters, i, j, bestI, bestJ, eventIDs)) {
					bestSim, bestI, bestJ = sim, i, j
				}
			}
		}
		if bestI < 0 || bestSim < mergeThreshold {
			break
		}
		merged := &cluster{members: append(append([]int{}, clusters[bestI].members...), clusters[bestJ].members...)}
		next := make([]*cluster, 0, len(clusters)-1)
		for k, c := range clusters {
			if k != bestI && k != bestJ {
				next = append(next, c)
			}
		}
		next = append(next, merged)
		clusters = next
	}

	results := make([]ClusterResult, 0, len(clusters))
	nextClusterID := 0
	for _, c := range clusters {
		cohesion := intraClusterCohesion(c, vectors)
		if len(c.members) > 1 && cohesion < minCohesion {
			for _, m := range c.members {
				results = append(results, singleton(eventIDs[m]))
			}
			continue
		}
		results = append(results, buildResult(nextClusterID, c, eventIDs, cohesion))
		nextClusterID++
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].RepresentativeEventID < results[j].RepresentativeEventID
	})
	return results
}

// ClusterResult mirrors domain.EventCluster without a cluster ID; the caller
// numbers clusters by their position in Cluster's result.
type ClusterResult struct {
	RepresentativeEventID string
	MemberEventIDs        []string
	Cohesion               float64
}

func singleton(eventID string) ClusterResult {
	return ClusterResult{RepresentativeEventID: eventID, MemberEventIDs: []string{eventID}, Cohesion: 1.0}
}

func buildResult(_ int, c *cluster, eventIDs []string, cohesion float64) ClusterResult {
	members := make([]string, len(c.members))
	for i, m := range c.members {
		members[i] = eventIDs[m]
	}
	sort.Strings(members)
	return ClusterResult{RepresentativeEventID: members[0], MemberEventIDs: members, Cohesion: cohesion}
}

func averageLinkage(a, b *cluster, vectors [][]float64) float64 {
	var sum float64
	count := 0
	for _, i := range a.members {
		for _, j := range b.members {
			sum += cosineSim(vectors[i], vectors[j])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func intraClusterCohesion(c *cluster, vectors [][]float64) float64 {
	if len(c.members) < 2 {
		return 1.0
	}
	var sum float64
	count := 0
	for i := 0; i < len(c.members); i++ {
		for j := i + 1; j < len(c.members); j++ {
			sum += cosineSim(vectors[c.members[i]], vectors[c.members[j]])
			count++
		}
	}
	return sum / float64(count)
}

// betterTie breaks a similarity tie deterministically by preferring the
// pair whose lexicographically-smallest member event ID sorts earliest.
func betterTie(clusters []*cluster, i, j, bestI, bestJ int, eventIDs []string) bool {
	if bestI < 0 {
		return true
	}
	return minEventID(clusters[i], clusters[j], eventIDs) < minEventID(clusters[bestI], clusters[bestJ], eventIDs)
}

func minEventID(a, b *cluster, eventIDs []string) string {
	min := ""
	for _, c := range []*cluster{a, b} {
		for _, m := range c.members {
			if min == "" || eventIDs[m] < min {
				min = eventIDs[m]
			}
		}
	}
	return min
}

package relgraph

import "sort"

const maxLabelPropagationIterations = 100

// Clusters detects communities with synchronous label propagation over the
// adjacency projection, weighting each neighbor's vote by edge
// multiplicity. Singleton clusters are kept so the result partitions the
// node set. Members of each cluster are sorted; clusters are ordered by
// size descending, ties broken by first member.
func (g *Graph) Clusters() [][]string {
	if len(g.nodes) == 0 {
		return nil
	}

	nodes := g.Nodes()

	// Every node starts in its own community.
	communityMap := make(map[string]int, len(nodes))
	for i, id := range nodes {
		communityMap[id] = i
	}

	for iteration := 0; iteration < maxLabelPropagationIterations; iteration++ {
		noChange := true
		newCommunityMap := make(map[string]int, len(nodes))

		for _, id := range nodes {
			currentCommunity := communityMap[id]

			// Count community occurrences among neighbors, weighted by
			// how many records connect the pair. Self-loops do not vote.
			communityCandidates := make(map[int]int)
			for neighbor, count := range g.adj[id] {
				if neighbor == id {
					continue
				}
				communityCandidates[communityMap[neighbor]] += count
			}

			type communityScore struct {
				community int
				count     int
			}

			var scores []communityScore
			for community, count := range communityCandidates {
				scores = append(scores, communityScore{community: community, count: count})
			}

			// Sort by count descending, then community ID for tie-breaking.
			sort.Slice(scores, func(i, j int) bool {
				if scores[i].count != scores[j].count {
					return scores[i].count > scores[j].count
				}
				return scores[i].community > scores[j].community
			})

			newCommunity := currentCommunity
			if len(scores) > 0 {
				top := scores[0]
				if top.count > 1 {
					newCommunity = top.community
				} else if top.community > currentCommunity {
					newCommunity = top.community
				}
			}

			newCommunityMap[id] = newCommunity
			if newCommunity != currentCommunity {
				noChange = false
			}
		}

		communityMap = newCommunityMap
		if noChange {
			break
		}
	}

	clusterMap := make(map[int][]string)
	for _, id := range nodes {
		community := communityMap[id]
		clusterMap[community] = append(clusterMap[community], id)
	}

	clusters := make([][]string, 0, len(clusterMap))
	for _, cluster := range clusterMap {
		sort.Strings(cluster)
		clusters = append(clusters, cluster)
	}

	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i]) != len(clusters[j]) {
			return len(clusters[i]) > len(clusters[j])
		}
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}

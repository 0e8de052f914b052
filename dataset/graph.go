package dataset

import "sort"

// addToGroup records an endpoint ID under a grouping key. The inner map
// gives set semantics: an endpoint joins each group at most once.
func addToGroup(groups map[string]map[string]bool, key, endpointID string) {
	if groups[key] == nil {
		groups[key] = make(map[string]bool)
	}
	groups[key][endpointID] = true
}

// chainEdges emits the minimal edge set for every group of two or more
// endpoints: members are sorted lexicographically and connected in a chain
// (member[i] to member[i+1]), not a full clique. This bounds edge count to
// O(n) per group; consumers reconstruct full groups by following Key rather
// than by graph traversal. Groups of size one produce no edges.
//
// Group keys are processed in sorted order so edge sets are reproducible
// across runs.
func chainEdges(groups map[string]map[string]bool, edgeType EdgeType) []Edge {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	edges := make([]Edge, 0)
	for _, key := range keys {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		ids := make([]string, 0, len(members))
		for id := range members {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for i := 0; i+1 < len(ids); i++ {
			edges = append(edges, Edge{Source: ids[i], Target: ids[i+1], Type: edgeType, Key: key})
		}
	}
	return edges
}

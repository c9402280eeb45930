package decompose

import (
	"github.com/zxfpro/primalstep/internal/errors"
)

// ValidateAcyclic verifies the graph has no directed cycle. On failure it
// returns a CycleError whose Cycle field holds an actual cycle in dependency
// order, with the first id repeated at the end (reconstructed from the DFS
// parent chain, not just the back-edge pair).
//
// Depth-first traversal with an on-path marker; O(nodes + edges) time and
// O(nodes) space. Diamond-shaped reconvergence is not a cycle and passes.
func ValidateAcyclic(g *TaskGraph) error {
	visited := make(map[string]bool, g.NodeCount())
	onPath := make(map[string]bool, g.NodeCount())
	parent := make(map[string]string, g.NodeCount())

	var dfs func(id string) []string
	dfs = func(id string) []string {
		visited[id] = true
		onPath[id] = true

		for _, next := range g.Successors(id) {
			if !visited[next] {
				parent[next] = id
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			} else if onPath[next] {
				// Back edge found. Walk the parent chain from the
				// current node back to the re-entered one.
				cycle := []string{next}
				for current := id; current != next; current = parent[current] {
					cycle = append([]string{current}, cycle...)
				}
				return append([]string{next}, cycle...)
			}
		}

		onPath[id] = false
		return nil
	}

	for _, id := range g.Nodes() {
		if !visited[id] {
			if cycle := dfs(id); cycle != nil {
				return errors.NewCycleError(cycle)
			}
		}
	}

	return nil
}

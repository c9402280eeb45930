package decompose

import "sort"

// ExecutionOrder performs a topological sort over validated records and
// groups steps that can run in parallel: every step in a group depends only
// on steps in earlier groups. Ids within a group are sorted lexicographically
// for deterministic output.
//
// On cyclic input the unresolvable steps are simply absent from the result;
// callers that need a hard failure run ValidateAcyclic first.
func ExecutionOrder(records []StepRecord) [][]string {
	inDegree := make(map[string]int, len(records))
	for _, record := range records {
		inDegree[record.ID] = len(record.Dependencies)
	}

	var groups [][]string
	completed := make(map[string]bool, len(records))

	for len(completed) < len(records) {
		var current []string
		for _, record := range records {
			if !completed[record.ID] && inDegree[record.ID] == 0 {
				current = append(current, record.ID)
			}
		}

		if len(current) == 0 {
			// Remaining steps form a cycle.
			break
		}

		sort.Strings(current)
		groups = append(groups, current)

		for _, id := range current {
			completed[id] = true
			for _, record := range records {
				for _, dep := range record.Dependencies {
					if dep == id {
						inDegree[record.ID]--
					}
				}
			}
		}
	}

	return groups
}

package decompose

import "fmt"

// NodeAttrs holds the descriptive attributes attached to a graph node.
type NodeAttrs struct {
	Description  string
	Instructions []string
}

// TaskGraph is a directed graph of steps. Edges run from a prerequisite to
// its dependents: an edge u→v means u must happen before v. Node order is
// insertion order, so iteration is deterministic.
type TaskGraph struct {
	order []string
	nodes map[string]NodeAttrs
	succ  map[string][]string
	edges int
}

// NewTaskGraph returns an empty TaskGraph.
func NewTaskGraph() *TaskGraph {
	return &TaskGraph{
		nodes: make(map[string]NodeAttrs),
		succ:  make(map[string][]string),
	}
}

// AddNode inserts a node with its attributes. Duplicate ids are rejected.
func (g *TaskGraph) AddNode(id string, attrs NodeAttrs) error {
	if _, exists := g.nodes[id]; exists {
		return fmt.Errorf("node %q already exists", id)
	}
	g.nodes[id] = attrs
	g.order = append(g.order, id)
	return nil
}

// AddEdge inserts a directed edge from prerequisite from to dependent to.
// Both endpoints must already exist.
func (g *TaskGraph) AddEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("edge references unknown node %q", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("edge references unknown node %q", to)
	}
	g.succ[from] = append(g.succ[from], to)
	g.edges++
	return nil
}

// Nodes returns all node ids in insertion order.
func (g *TaskGraph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Attrs returns the attributes of a node.
func (g *TaskGraph) Attrs(id string) (NodeAttrs, bool) {
	attrs, ok := g.nodes[id]
	return attrs, ok
}

// Successors returns the dependents reachable from id by one edge, in
// insertion order.
func (g *TaskGraph) Successors(id string) []string {
	out := make([]string, len(g.succ[id]))
	copy(out, g.succ[id])
	return out
}

// Edges returns every directed edge as a [prerequisite, dependent] pair,
// ordered by prerequisite insertion order.
func (g *TaskGraph) Edges() [][2]string {
	out := make([][2]string, 0, g.edges)
	for _, from := range g.order {
		for _, to := range g.succ[from] {
			out = append(out, [2]string{from, to})
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *TaskGraph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *TaskGraph) EdgeCount() int { return g.edges }

// StepDetail mirrors a validated StepRecord for callers that want attribute
// access without graph traversal.
type StepDetail struct {
	Description  string   `json:"description"`
	Dependencies []string `json:"dependencies"`
	Instructions []string `json:"instructions"`
}

// StepDetails maps a step id to its descriptive attributes.
type StepDetails map[string]StepDetail

// AssembleGraph builds the dependency graph from validated records: one
// node per record, one edge per dependency entry oriented prerequisite →
// dependent.
//
// ParseSteps guarantees uniqueness and referential integrity, so any error
// here is an internal invariant violation, reported rather than silently
// ignored.
func AssembleGraph(records []StepRecord) (*TaskGraph, error) {
	g := NewTaskGraph()

	for _, record := range records {
		if err := g.AddNode(record.ID, NodeAttrs{
			Description:  record.Description,
			Instructions: record.Instructions,
		}); err != nil {
			return nil, fmt.Errorf("internal: unvalidated records reached assembly: %w", err)
		}
	}

	for _, record := range records {
		for _, dep := range record.Dependencies {
			if err := g.AddEdge(dep, record.ID); err != nil {
				return nil, fmt.Errorf("internal: unvalidated records reached assembly: %w", err)
			}
		}
	}

	return g, nil
}

// BuildStepDetails builds the id → attributes mapping from the same
// validated records the graph is assembled from.
func BuildStepDetails(records []StepRecord) StepDetails {
	details := make(StepDetails, len(records))
	for _, record := range records {
		details[record.ID] = StepDetail{
			Description:  record.Description,
			Dependencies: record.Dependencies,
			Instructions: record.Instructions,
		}
	}
	return details
}

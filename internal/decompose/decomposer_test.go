package decompose

import (
	"context"
	"strings"
	"testing"

	"github.com/zxfpro/primalstep/internal/errors"
	"github.com/zxfpro/primalstep/internal/llm"
	"github.com/zxfpro/primalstep/internal/logging"
)

// stubClient returns a fixed response or error and records the prompt it
// was given.
type stubClient struct {
	response string
	err      error
	prompt   string
}

func (s *stubClient) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestDecomposeHappyPath(t *testing.T) {
	client := &stubClient{response: `{
  "steps": [
    {"id": "a", "description": "A", "dependencies": []},
    {"id": "b", "description": "B", "dependencies": ["a"], "instructions": ["go build"]}
  ]
}`}
	d := NewDecomposer(client, logging.NopLogger())

	graph, details, err := d.Decompose(context.Background(), "ship the feature")
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if graph.NodeCount() != 2 || graph.EdgeCount() != 1 {
		t.Errorf("graph shape: nodes=%d edges=%d, want 2/1", graph.NodeCount(), graph.EdgeCount())
	}
	if succ := graph.Successors("a"); len(succ) != 1 || succ[0] != "b" {
		t.Errorf("expected edge a -> b, got successors %v", succ)
	}
	if details["b"].Instructions[0] != "go build" {
		t.Errorf("details not built from validated records: %+v", details["b"])
	}
	if !strings.Contains(client.prompt, "ship the feature") {
		t.Error("goal should be embedded in the prompt")
	}
}

func TestDecomposeGenerationFailure(t *testing.T) {
	cause := errors.New("rate limited")
	d := NewDecomposer(&stubClient{err: cause}, logging.NopLogger())

	graph, details, err := d.Decompose(context.Background(), "anything")
	if !errors.Is(err, errors.ErrGenerationFailed) {
		t.Fatalf("expected GenerationFailed, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("underlying cause should be preserved")
	}
	if graph != nil || details != nil {
		t.Error("no results on failure")
	}
}

func TestDecomposeErrorPropagation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		sentinel error
	}{
		{"malformed", "not json at all", errors.ErrMalformedResponse},
		{
			"schema violation",
			`{"steps": [{"id": "a", "description": "A", "dependencies": ["x"]}]}`,
			errors.ErrSchemaViolation,
		},
		{
			"cycle",
			`{"steps": [
  {"id": "a", "description": "A", "dependencies": ["b"]},
  {"id": "b", "description": "B", "dependencies": ["a"]}
]}`,
			errors.ErrCycleDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecomposer(&stubClient{response: tt.response}, logging.NopLogger())

			graph, details, err := d.Decompose(context.Background(), "goal")
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v, got %v", tt.sentinel, err)
			}
			if graph != nil || details != nil {
				t.Error("no results on failure")
			}
		})
	}
}

func TestDecomposeCycleNamesRealCycle(t *testing.T) {
	d := NewDecomposer(&stubClient{response: `{"steps": [
  {"id": "a", "description": "A", "dependencies": ["b"]},
  {"id": "b", "description": "B", "dependencies": ["a"]}
]}`}, logging.NopLogger())

	_, _, err := d.Decompose(context.Background(), "goal")

	var cycleErr *errors.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	ids := make(map[string]bool)
	for _, id := range cycleErr.Cycle {
		ids[id] = true
	}
	if !ids["a"] || !ids["b"] {
		t.Errorf("cycle %v should reference a and b", cycleErr.Cycle)
	}
}

func TestDecomposeWithMockClient(t *testing.T) {
	client := llm.NewMockClient(llm.MockOptions{})
	d := NewDecomposer(client, logging.NopLogger())

	graph, details, err := d.Decompose(context.Background(), "a simple task for testing")
	if err != nil {
		t.Fatalf("Decompose with mock failed: %v", err)
	}
	if graph.NodeCount() != 2 {
		t.Errorf("mock simple plan should have 2 steps, got %d", graph.NodeCount())
	}
	if _, ok := details["step1"]; !ok {
		t.Error("details should contain step1")
	}
}

func TestDecomposeConcurrentCallers(t *testing.T) {
	d := NewDecomposer(llm.NewMockClient(llm.MockOptions{}), logging.NopLogger())

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, _, err := d.Decompose(context.Background(), "concurrent goal")
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent Decompose failed: %v", err)
		}
	}
}

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Canned mock responses. The cycle response exists so the full
// cycle-detection path can be exercised end to end without a live model.
const (
	mockSimpleResponse = `{"steps": [
  {"id": "step1", "description": "First step", "dependencies": []},
  {"id": "step2", "description": "Second step", "dependencies": ["step1"]}
]}`

	mockCycleResponse = `{"steps": [
  {"id": "stepA", "description": "Step A", "dependencies": ["stepB"]},
  {"id": "stepB", "description": "Step B", "dependencies": ["stepA"]}
]}`

	mockDefaultResponse = `{"steps": [
  {"id": "default_step", "description": "Default mock response", "dependencies": [], "instructions": ["echo primalstep"]}
]}`
)

// MockOptions configures a MockClient.
type MockOptions struct {
	// Response, when non-empty, is returned verbatim for every prompt.
	Response string
	// Delay simulates model latency. Generate honors context cancellation
	// while waiting.
	Delay time.Duration
	// Err, when set, is returned by every Generate call.
	Err error
}

// MockClient is a Client for development and tests. Without a fixed
// Response it returns canned plans keyed on the prompt content: prompts
// mentioning a "simple task" get a two-step chain, prompts mentioning a
// "circular dependency" get a deliberate two-step cycle, and everything
// else gets a single default step.
type MockClient struct {
	opts MockOptions
}

// NewMockClient creates a MockClient with the given options.
func NewMockClient(opts MockOptions) *MockClient {
	return &MockClient{opts: opts}
}

// Generate implements Client.
func (c *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.opts.Delay > 0 {
		select {
		case <-time.After(c.opts.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if c.opts.Err != nil {
		return "", fmt.Errorf("mock llm error: %w", c.opts.Err)
	}

	if c.opts.Response != "" {
		return c.opts.Response, nil
	}

	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "simple task"):
		return mockSimpleResponse, nil
	case strings.Contains(lower, "circular dependency"):
		return mockCycleResponse, nil
	default:
		return mockDefaultResponse, nil
	}
}

package decompose

import (
	"context"

	"github.com/zxfpro/primalstep/internal/errors"
	"github.com/zxfpro/primalstep/internal/llm"
	"github.com/zxfpro/primalstep/internal/logging"
)

// Decomposer orchestrates the decomposition pipeline around an injected LLM
// capability. It holds no mutable state across calls, performs no retries
// and no caching, and is safe for concurrent use.
type Decomposer struct {
	client llm.Client
	logger *logging.Logger
}

// NewDecomposer creates a Decomposer using the given client. The logger is
// observability only; pass logging.NopLogger() to disable it.
func NewDecomposer(client llm.Client, logger *logging.Logger) *Decomposer {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Decomposer{
		client: client,
		logger: logger.WithComponent("decomposer"),
	}
}

// Decompose turns a goal into a validated dependency graph and a step
// details mapping.
//
// Capability failures surface as a GenerationError wrapping the underlying
// cause; MalformedError, SchemaError, and CycleError propagate unchanged
// from the parsing and validation stages. On any failure both results are
// nil; no partially valid graph is ever returned.
func (d *Decomposer) Decompose(ctx context.Context, goal string) (*TaskGraph, StepDetails, error) {
	log := d.logger.WithGoal(goal)
	log.Info("starting decomposition")

	prompt := BuildPrompt(goal)
	log.Debug("built prompt", "prompt_len", len(prompt))

	raw, err := d.client.Generate(ctx, prompt)
	if err != nil {
		log.Error("llm generation failed", "error", err)
		return nil, nil, errors.NewGenerationError(err)
	}
	log.Debug("received llm response", "response_len", len(raw))

	records, err := ParseSteps(raw)
	if err != nil {
		log.Warn("response rejected", "error", err)
		return nil, nil, err
	}

	graph, err := AssembleGraph(records)
	if err != nil {
		log.Error("graph assembly failed", "error", err)
		return nil, nil, err
	}

	if err := ValidateAcyclic(graph); err != nil {
		log.Warn("dependency cycle rejected", "error", err)
		return nil, nil, err
	}

	details := BuildStepDetails(records)

	log.Info("decomposition succeeded",
		"nodes", graph.NodeCount(),
		"edges", graph.EdgeCount())
	return graph, details, nil
}

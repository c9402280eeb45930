// Package decompose turns a natural-language goal into a validated
// dependency graph of executable steps.
//
// The pipeline is deterministic apart from the injected language-model
// capability:
//
//	goal → BuildPrompt → llm.Client.Generate → ParseSteps → AssembleGraph
//	     → ValidateAcyclic → (TaskGraph, StepDetails)
//
// Each stage fails fast. ParseSteps guarantees referential integrity
// (unique ids, resolvable dependencies, no self-references), AssembleGraph
// materializes one node per step and one prerequisite→dependent edge per
// dependency, and ValidateAcyclic rejects any directed cycle. No stage
// returns a partial result.
//
// The Decomposer holds no mutable state between calls, so a single instance
// may serve concurrent callers.
package decompose

// Package errors provides centralized error definitions for the PrimalStep
// decomposition pipeline. It defines one sentinel and one structured error
// type per failure category, plus classification helpers so adapters (CLI,
// HTTP) can map a failure to an exit code or status code without depending
// on error message text.
//
// # Error Categories
//
//   - GenerationError: the LLM capability could not produce a response
//   - MalformedError: the response is not syntactically valid JSON
//   - SchemaError: the response parses but violates the step schema
//   - CycleError: the dependency graph contains a directed cycle
//
// # Usage
//
// Checking errors:
//
//	// Check for a category
//	if errors.Is(err, errors.ErrSchemaViolation) { ... }
//
//	// Extract detail
//	var schemaErr *errors.SchemaError
//	if errors.As(err, &schemaErr) { ... }
//
//	// Use classification helpers
//	if errors.IsValidation(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors for the four failure categories. Structured errors below
// match these via errors.Is, so callers can branch on category without
// knowing the concrete type.
var (
	// ErrGenerationFailed indicates the LLM capability failed before any
	// response text was produced (network, auth, quota, client fault).
	ErrGenerationFailed = errors.New("llm generation failed")

	// ErrMalformedResponse indicates the capability output is not valid JSON.
	ErrMalformedResponse = errors.New("malformed llm response")

	// ErrSchemaViolation indicates the response parsed but violates the
	// step schema (field types, uniqueness, dependency references).
	ErrSchemaViolation = errors.New("response schema violation")

	// ErrCycleDetected indicates the step dependency graph is not acyclic.
	ErrCycleDetected = errors.New("dependency cycle detected")
)

// GenerationError wraps a failure from the LLM capability. The underlying
// cause is preserved for diagnostics but treated as opaque.
type GenerationError struct {
	Err error
}

// NewGenerationError wraps an LLM capability failure.
func NewGenerationError(err error) *GenerationError {
	return &GenerationError{Err: err}
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("llm generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error's category.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// MalformedError wraps a JSON syntax failure from decoding the response.
type MalformedError struct {
	Err error
}

// NewMalformedError wraps a JSON decode failure.
func NewMalformedError(err error) *MalformedError {
	return &MalformedError{Err: err}
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed llm response: %v", e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error's category.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// SchemaError describes a single schema violation in the parsed response.
// Index is the position of the offending step in the steps array (-1 when
// the violation is not tied to a specific entry), StepID and Field identify
// the offending step and field when known.
type SchemaError struct {
	Index   int
	StepID  string
	Field   string
	Message string
}

// NewSchemaError creates a SchemaError not tied to a specific step entry.
func NewSchemaError(message string) *SchemaError {
	return &SchemaError{Index: -1, Message: message}
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema violation")
	if e.Index >= 0 {
		fmt.Fprintf(&b, " at steps[%d]", e.Index)
	}
	if e.StepID != "" {
		fmt.Fprintf(&b, " (step %q)", e.StepID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Is reports whether target matches this error's category.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// CycleError reports a directed cycle in the dependency graph. Cycle holds
// the step ids along the cycle in dependency order, with the first id
// repeated at the end.
type CycleError struct {
	Cycle []string
}

// NewCycleError creates a CycleError for the given cycle path.
func NewCycleError(cycle []string) *CycleError {
	return &CycleError{Cycle: cycle}
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Is reports whether target matches this error's category.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}

// IsValidation reports whether err is a validation failure: the response was
// received from the capability but rejected by parsing, schema, or cycle
// checks. Adapters map these to "bad generation" responses (HTTP 400).
func IsValidation(err error) bool {
	return errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrSchemaViolation) ||
		errors.Is(err, ErrCycleDetected)
}

// IsGeneration reports whether err is a capability failure: no usable
// response was produced at all. Adapters map these to upstream-failure
// responses (HTTP 502).
func IsGeneration(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}

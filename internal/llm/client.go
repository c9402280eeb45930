// Package llm defines the language-model capability boundary for PrimalStep.
// The decomposition core only sees the Client interface; concrete clients
// (OpenAI-backed or mock) substitute freely without touching core control
// flow.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zxfpro/primalstep/internal/config"
)

// Client is the single-operation capability the decomposer consumes. Given a
// prompt it returns the model's raw text response or an implementation-
// defined error. Implementations must be safe for concurrent use.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrUnknownProvider is returned when the configured provider is unsupported.
var ErrUnknownProvider = fmt.Errorf("unknown llm provider")

// NewFromConfig builds a Client from configuration.
func NewFromConfig(cfg config.LLMConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg)
	case config.ProviderMock, "":
		return NewMockClient(MockOptions{
			Delay: time.Duration(cfg.MockDelayMs) * time.Millisecond,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

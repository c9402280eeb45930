package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "llm.provider")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidProviders returns the list of valid llm.provider values.
func ValidProviders() []string {
	return []string{ProviderOpenAI, ProviderMock}
}

// ValidLogLevels returns the list of valid logging.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateLLM()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateLLM() []ValidationError {
	var errors []ValidationError

	provider := strings.ToLower(c.LLM.Provider)
	if !slices.Contains(ValidProviders(), provider) {
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Value:   c.LLM.Provider,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProviders(), ", ")),
		})
	}

	if provider == ProviderOpenAI {
		if c.LLM.APIKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.api_key",
				Value:   "",
				Message: "required for the openai provider (set llm.api_key or OPENAI_API_KEY)",
			})
		}
		if c.LLM.Model == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.model",
				Value:   c.LLM.Model,
				Message: "must not be empty for the openai provider",
			})
		}
	}

	if c.LLM.MockDelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.mock_delay_ms",
			Value:   c.LLM.MockDelayMs,
			Message: "must not be negative",
		})
	}

	return errors
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Value:   c.Server.Port,
			Message: "must be between 1 and 65535",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must not be negative",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must not be negative",
		})
	}

	return errors
}

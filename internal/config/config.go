// Package config defines the PrimalStep configuration and its viper wiring.
// Configuration is resolved from (highest precedence first) flags bound by
// the CLI, PRIMALSTEP_* environment variables, a config.yaml file, and the
// defaults registered by SetDefaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete PrimalStep configuration.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LLMConfig selects and configures the language-model client.
type LLMConfig struct {
	// Provider selects the client implementation.
	// Options: "openai", "mock"
	Provider string `mapstructure:"provider"`
	// Model is the model name requested from the provider.
	Model string `mapstructure:"model"`
	// APIKey authenticates against the provider. Falls back to the
	// OPENAI_API_KEY environment variable when empty.
	APIKey string `mapstructure:"api_key"`
	// BaseURL overrides the provider endpoint, e.g. for proxies or
	// OpenAI-compatible gateways. Empty uses the provider default.
	BaseURL string `mapstructure:"base_url"`
	// MockDelayMs is the simulated latency of the mock provider.
	MockDelayMs int `mapstructure:"mock_delay_ms"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig controls the log sink.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Dir is the directory the log file is written to. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the log file size limit before rotation. Zero disables
	// rotation.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep.
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files.
	Compress bool `mapstructure:"compress"`
}

// Provider names accepted by llm.provider.
const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// DefaultPort is the HTTP server port. DevPort is used by `serve --env dev`
// so a dev server never collides with a production one on the same host.
const (
	DefaultPort = 8008
	DevPort     = 8108
)

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    ProviderMock,
			Model:       "gpt-4o",
			MockDelayMs: 100,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: DefaultPort,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Dir:        "logs",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers all default values with viper. Called before the
// config file is read so every key resolves even without a file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("llm.provider", defaults.LLM.Provider)
	viper.SetDefault("llm.model", defaults.LLM.Model)
	viper.SetDefault("llm.api_key", defaults.LLM.APIKey)
	viper.SetDefault("llm.base_url", defaults.LLM.BaseURL)
	viper.SetDefault("llm.mock_delay_ms", defaults.LLM.MockDelayMs)

	viper.SetDefault("server.host", defaults.Server.Host)
	viper.SetDefault("server.port", defaults.Server.Port)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load unmarshals the resolved viper state into a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "primalstep")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".primalstep"
	}
	return filepath.Join(home, ".config", "primalstep")
}

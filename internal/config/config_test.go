package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.LLM.Provider != ProviderMock {
		t.Errorf("default provider = %q, want %q", cfg.LLM.Provider, ProviderMock)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("default port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}
	if cfg.LLM.Provider != ProviderMock {
		t.Errorf("provider = %q, want %q", cfg.LLM.Provider, ProviderMock)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", cfg.LLM.Model)
	}
}

func TestLoadOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("server.port", 9000)
	viper.Set("logging.level", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
}

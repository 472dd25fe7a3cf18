package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Data.Format != "csv" {
		t.Errorf("expected format 'csv', got %q", cfg.Data.Format)
	}

	if cfg.Narrative.Provider != "groq" {
		t.Errorf("expected provider 'groq', got %q", cfg.Narrative.Provider)
	}

	if cfg.Narrative.Model != "llama-3.1-8b-instant" {
		t.Errorf("expected model 'llama-3.1-8b-instant', got %q", cfg.Narrative.Model)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
narrative:
  provider: openai
  api_key_env: OPENAI_API_KEY
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Narrative.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", cfg.Narrative.Provider)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Data.MatchesPath != "matches.csv" {
		t.Errorf("expected default matches_path, got %q", cfg.Data.MatchesPath)
	}
	if cfg.Narrative.MaxTokens != 180 {
		t.Errorf("expected default max_tokens 180, got %d", cfg.Narrative.MaxTokens)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Narrative.APIKeyEnv != "GROQ_API_KEY" {
		t.Errorf("expected api_key_env GROQ_API_KEY, got %q", cfg.Narrative.APIKeyEnv)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolveConfigPathExplicitMissing(t *testing.T) {
	if _, err := ResolveConfigPath("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing explicit path")
	}
}

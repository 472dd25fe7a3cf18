package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Data      Data      `yaml:"data"`
	Narrative Narrative `yaml:"narrative"`
	Server    Server    `yaml:"server"`
	Logging   Logging   `yaml:"logging"`
}

type Data struct {
	// Format selects the loader: "csv" or "sqlite".
	Format         string `yaml:"format"`
	MatchesPath    string `yaml:"matches_path"`
	DeliveriesPath string `yaml:"deliveries_path"`
	SQLitePath     string `yaml:"sqlite_path"`
}

type Narrative struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	OpenAIModel    string `yaml:"openai_model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for crease.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "crease")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/crease/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'crease init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Data: Data{
			Format:         "csv",
			MatchesPath:    "matches.csv",
			DeliveriesPath: "deliveries.csv",
		},
		Narrative: Narrative{
			Provider:       "groq",
			Model:          "llama-3.1-8b-instant",
			OpenAIModel:    "gpt-4o-mini",
			APIKeyEnv:      "GROQ_API_KEY",
			MaxTokens:      180,
			TimeoutSeconds: 30,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

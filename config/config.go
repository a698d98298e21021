package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the file finder.
type Config struct {
	Search    SearchConfig    `yaml:"search"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`
	UI        UIConfig        `yaml:"ui"`
}

// SearchConfig holds collection and ranking configuration.
type SearchConfig struct {
	Pattern     string `yaml:"pattern"`      // Default file pattern, e.g. "txt" or "*.md"
	PrefixChars int    `yaml:"prefix_chars"` // Characters of each file that get embedded
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "ollama", "openai", "jina", "deepseek", "mock"
	Model     string `yaml:"model"`       // e.g., "all-minilm"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`    // Overrides the provider's default endpoint
	Dimension int    `yaml:"dimension"`   // Only used by the mock provider
	BatchSize int    `yaml:"batch_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // "dev" or "prod"
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log destination for the interactive form
}

// UIConfig holds interactive form configuration.
type UIConfig struct {
	Title string `yaml:"title"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Pattern:     "txt",
			PrefixChars: 1000,
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "all-minilm",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 384,
			BatchSize: 64,
		},
		Logging: LoggingConfig{
			Env:   "dev",
			Level: "warn",
		},
		UI: UIConfig{
			Title: "Galaxy Search - Contextual File Finder",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for galaxy.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "galaxy.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".galaxy", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

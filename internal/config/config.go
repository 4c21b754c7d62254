// Package config loads Synapse settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned by RequireAPIKey when no Anthropic key is configured.
var ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY not set; export it or set llm.api_key")

type Config struct {
	Agent     AgentConfig     `yaml:"agent"`
	LLM       LLMConfig       `yaml:"llm"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Memory    MemoryConfig    `yaml:"memory"`
	Console   ConsoleConfig   `yaml:"console"`
}

type AgentConfig struct {
	Name string `yaml:"name"`
	// TokenBudget caps the estimated input tokens of each request window.
	TokenBudget int `yaml:"token_budget"`
	// MaxSteps bounds model round trips per scenario.
	MaxSteps int `yaml:"max_steps"`
	// Seed fixes simulated tool outcomes when non-zero. Zero leaves them random.
	Seed uint64 `yaml:"seed"`
}

type LLMConfig struct {
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
	File   string `yaml:"file"`
}

type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type MemoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type ConsoleConfig struct {
	Color    bool `yaml:"color"`
	Markdown bool `yaml:"markdown"`
	Width    int  `yaml:"width"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "Synapse",
			TokenBudget: 24000,
			MaxSteps:    15,
		},
		LLM: LLMConfig{
			Model:       "claude-3-7-sonnet-latest",
			Temperature: 0,
			MaxTokens:   1024,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Dir: ".synapse",
		},
		Memory: MemoryConfig{
			Enabled: true,
			Path:    filepath.Join(".synapse", "incidents.json"),
		},
		Console: ConsoleConfig{
			Color:    true,
			Markdown: true,
			Width:    100,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides applies environment variable overrides.
// Unparseable numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("SYNAPSE_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if n, ok := envInt("SYNAPSE_TOKEN_BUDGET"); ok {
		c.Agent.TokenBudget = n
	}
	if n, ok := envInt("SYNAPSE_MAX_STEPS"); ok {
		c.Agent.MaxSteps = n
	}
	if v := os.Getenv("SYNAPSE_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Agent.Seed = n
		}
	}
	if v := os.Getenv("SYNAPSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	switch os.Getenv("SYNAPSE_OBSERVE_JSON") {
	case "1":
		c.Telemetry.Enabled = true
	case "0":
		c.Telemetry.Enabled = false
	}
	if v := os.Getenv("SYNAPSE_ARTIFACTS_DIR"); v != "" {
		c.Telemetry.Dir = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.Console.Color = false
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate checks ranges. It does not require an API key.
func (c *Config) Validate() error {
	var errs []error
	if c.Agent.TokenBudget <= 0 {
		errs = append(errs, fmt.Errorf("agent.token_budget must be positive, got %d", c.Agent.TokenBudget))
	}
	if c.Agent.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("agent.max_steps must be positive, got %d", c.Agent.MaxSteps))
	}
	if c.LLM.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens must be positive, got %d", c.LLM.MaxTokens))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		errs = append(errs, fmt.Errorf("llm.temperature must be within [0,1], got %g", c.LLM.Temperature))
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		errs = append(errs, errors.New("llm.model must not be empty"))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// RequireAPIKey reports ErrMissingAPIKey for commands that reach the model.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

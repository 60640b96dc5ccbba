package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file looked up when --config is not given.
const DefaultConfigFile = "supportdesk.yaml"

// Config holds all supportdesk configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Completion gateway (Gemini)
	LLM LLMConfig `yaml:"llm"`

	// FAQ matching
	Matcher MatcherConfig `yaml:"matcher"`

	// Escalation policy
	Escalation EscalationConfig `yaml:"escalation"`

	// FAQ corpus source
	Knowledge KnowledgeConfig `yaml:"knowledge"`

	// Response pipeline
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Prometheus metrics
	Metrics MetricsConfig `yaml:"metrics"`
}

// MatcherConfig configures the FAQ matcher.
type MatcherConfig struct {
	// Minimum 0-100 score for a direct FAQ answer.
	Threshold int `yaml:"threshold"`

	// Minimum score for a FAQ to be passed to the model as related context.
	RelatedThreshold int `yaml:"related_threshold"`
}

// KnowledgeConfig selects where FAQ entries are loaded from.
type KnowledgeConfig struct {
	// Source: builtin, file, sqlite
	Source string `yaml:"source"`

	// Path to a .yaml/.yml/.json file, or a SQLite DSN when Source is sqlite.
	Path string `yaml:"path"`

	// Table holding question/answer/category columns (sqlite only).
	Table string `yaml:"table"`
}

// OrchestratorConfig configures the response pipeline.
type OrchestratorConfig struct {
	SystemInstruction string   `yaml:"system_instruction"`
	Greetings         []string `yaml:"greetings"`
	HistoryTurns      int      `yaml:"history_turns"`
}

// MetricsConfig configures the Prometheus endpoint exposed by the CLI.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Validation errors.
var (
	ErrInvalidThreshold = errors.New("matcher threshold must be within 0..100")
	ErrInvalidSource    = errors.New("unknown knowledge source")
	ErrInvalidMaxCalls  = errors.New("llm.max_calls must be at least 1")
	ErrUnknownStrategy  = errors.New("unknown invocation strategy")
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "supportdesk",
		Version: "0.3.0",

		LLM: DefaultLLMConfig(),

		Matcher: MatcherConfig{
			Threshold:        70,
			RelatedThreshold: 50,
		},

		Escalation: DefaultEscalationConfig(),

		Knowledge: KnowledgeConfig{
			Source: "builtin",
			Table:  "faqs",
		},

		Orchestrator: OrchestratorConfig{
			SystemInstruction: "You are a friendly, expert support assistant. Answer conversationally and concisely. " +
				"Ask clarification questions when helpful and offer follow-up help.",
			Greetings: []string{
				"hi", "hello", "hey", "hii", "hola", "yo", "hiya",
				"good morning", "good afternoon", "good evening",
			},
			HistoryTurns: 6,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},

		Metrics: MetricsConfig{
			Addr: ":9464",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults still honor the environment
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// GEMINI_API_KEY wins over the generic Google key
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}

	if model := os.Getenv("SUPPORTDESK_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if path := os.Getenv("SUPPORTDESK_KB_PATH"); path != "" {
		c.Knowledge.Path = path
		if c.Knowledge.Source == "" || c.Knowledge.Source == "builtin" {
			c.Knowledge.Source = "file"
		}
	}

	if level := os.Getenv("SUPPORTDESK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if raw := os.Getenv("SUPPORTDESK_MATCH_THRESHOLD"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			c.Matcher.Threshold = v
		}
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
// A missing API key is not an error: the gateway reports it as unconfigured.
func (c *Config) Validate() error {
	if c.Matcher.Threshold < 0 || c.Matcher.Threshold > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, c.Matcher.Threshold)
	}
	if c.Matcher.RelatedThreshold < 0 || c.Matcher.RelatedThreshold > 100 {
		return fmt.Errorf("%w: related_threshold %d", ErrInvalidThreshold, c.Matcher.RelatedThreshold)
	}

	switch strings.ToLower(c.Knowledge.Source) {
	case "", "builtin", "file", "sqlite":
	default:
		return fmt.Errorf("%w: %s (valid: builtin, file, sqlite)", ErrInvalidSource, c.Knowledge.Source)
	}

	return c.LLM.validate()
}

// GetAttemptTimeout returns the per-attempt gateway timeout as a duration.
func (c *Config) GetAttemptTimeout() time.Duration {
	return c.LLM.GetAttemptTimeout()
}

// GetStrategyBackoff returns the pause between two gateway attempts.
func (c *Config) GetStrategyBackoff() time.Duration {
	return c.LLM.GetStrategyBackoff()
}

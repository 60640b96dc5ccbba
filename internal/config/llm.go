package config

import (
	"fmt"
	"time"
)

// Invocation strategy names, in the order the gateway probes them by default.
const (
	StrategySDKGenerateContent  = "sdk_generate_content"
	StrategySDKChat             = "sdk_chat"
	StrategyRESTGenerateContent = "rest_generate_content"
	StrategyRESTGenerateText    = "rest_generate_text"
)

// KnownStrategies lists every strategy name the gateway can build.
var KnownStrategies = []string{
	StrategySDKGenerateContent,
	StrategySDKChat,
	StrategyRESTGenerateContent,
	StrategyRESTGenerateText,
}

// LLMConfig configures the completion gateway.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`

	// Timeout for a single remote call, e.g. "30s"
	AttemptTimeout string `yaml:"attempt_timeout"`

	// Upper bound on remote calls (model listing included) per completion
	MaxCalls int `yaml:"max_calls"`

	// Pause between attempts, e.g. "0s" or "250ms"
	StrategyBackoff string `yaml:"strategy_backoff"`

	// Probe order; names from KnownStrategies
	Strategies []string `yaml:"strategies"`

	// Substrings ranking discovered models, most preferred first
	PreferredModelKeywords []string `yaml:"preferred_model_keywords"`

	MaxOutputTokens int     `yaml:"max_output_tokens"`
	Temperature     float32 `yaml:"temperature"`
}

// DefaultLLMConfig returns sensible defaults for the Gemini API.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:           "gemini-2.5-flash",
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		AttemptTimeout:  "30s",
		MaxCalls:        4,
		StrategyBackoff: "0s",
		Strategies:      append([]string(nil), KnownStrategies...),
		PreferredModelKeywords: []string{
			"gemini", "chat-bison", "text-bison", "bison", "gpt", "llama",
		},
		MaxOutputTokens: 1024,
		Temperature:     0.4,
	}
}

// Configured reports whether a credential is present.
func (c LLMConfig) Configured() bool {
	return c.APIKey != ""
}

// GetAttemptTimeout returns the per-attempt timeout as a duration.
func (c LLMConfig) GetAttemptTimeout() time.Duration {
	d, err := time.ParseDuration(c.AttemptTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetStrategyBackoff returns the pause between attempts as a duration.
func (c LLMConfig) GetStrategyBackoff() time.Duration {
	d, err := time.ParseDuration(c.StrategyBackoff)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func (c LLMConfig) validate() error {
	if c.MaxCalls < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxCalls, c.MaxCalls)
	}
	for _, name := range c.Strategies {
		if !isKnownStrategy(name) {
			return fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
		}
	}
	return nil
}

func isKnownStrategy(name string) bool {
	for _, known := range KnownStrategies {
		if known == name {
			return true
		}
	}
	return false
}

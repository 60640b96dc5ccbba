package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_LLM(t *testing.T) {
	t.Run("GEMINI_API_KEY sets the credential", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gem-key")
		t.Setenv("GOOGLE_API_KEY", "")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gem-key", cfg.LLM.APIKey)
		assert.True(t, cfg.LLM.Configured())
	})

	t.Run("GOOGLE_API_KEY is a fallback", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "goog-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "goog-key", cfg.LLM.APIKey)
	})

	t.Run("Precedence: GEMINI overrides GOOGLE", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gem-key")
		t.Setenv("GOOGLE_API_KEY", "goog-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "gem-key", cfg.LLM.APIKey)
	})

	t.Run("Empty env keeps file value", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "")

		cfg := &Config{LLM: LLMConfig{APIKey: "from-file"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "from-file", cfg.LLM.APIKey)
	})

	t.Run("SUPPORTDESK_MODEL overrides model", func(t *testing.T) {
		t.Setenv("SUPPORTDESK_MODEL", "gemini-1.5-flash")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gemini-1.5-flash", cfg.LLM.Model)
	})
}

func TestEnvOverrides_Knowledge(t *testing.T) {
	t.Run("KB path switches builtin source to file", func(t *testing.T) {
		t.Setenv("SUPPORTDESK_KB_PATH", "/etc/supportdesk/faq.yaml")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "file", cfg.Knowledge.Source)
		assert.Equal(t, "/etc/supportdesk/faq.yaml", cfg.Knowledge.Path)
	})

	t.Run("KB path keeps sqlite source", func(t *testing.T) {
		t.Setenv("SUPPORTDESK_KB_PATH", "file:faq.db")

		cfg := DefaultConfig()
		cfg.Knowledge.Source = "sqlite"
		cfg.applyEnvOverrides()

		assert.Equal(t, "sqlite", cfg.Knowledge.Source)
		assert.Equal(t, "file:faq.db", cfg.Knowledge.Path)
	})
}

func TestEnvOverrides_Tuning(t *testing.T) {
	t.Setenv("SUPPORTDESK_LOG_LEVEL", "debug")
	t.Setenv("SUPPORTDESK_MATCH_THRESHOLD", "65")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 65, cfg.Matcher.Threshold)

	t.Run("invalid threshold is ignored", func(t *testing.T) {
		t.Setenv("SUPPORTDESK_MATCH_THRESHOLD", "high")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 70, cfg.Matcher.Threshold)
	})
}

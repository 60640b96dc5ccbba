package config

// EscalationConfig configures the escalation detector.
type EscalationConfig struct {
	// Phrases that hand the conversation to a human, checked in order
	Keywords []string `yaml:"keywords"`

	// Queries longer than this (runes) are escalated as complex
	MaxChars int `yaml:"max_chars"`

	// Queries with more words than this are escalated as complex
	MaxWords int `yaml:"max_words"`

	// Run the keyword/complexity check before FAQ lookup
	Precheck bool `yaml:"precheck"`
}

// DefaultEscalationConfig returns the default escalation policy.
func DefaultEscalationConfig() EscalationConfig {
	return EscalationConfig{
		Keywords: []string{
			"urgent", "critical", "emergency", "asap", "immediately",
			"broken", "not working", "error", "angry", "refund",
			"cancel", "legal", "lawsuit", "speak to", "human", "manager",
		},
		MaxChars: 600,
		MaxWords: 100,
	}
}

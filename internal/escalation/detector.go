// Package escalation decides when a conversation must be handed to a human.
package escalation

import (
	"strings"
	"unicode/utf8"

	"supportdesk/internal/config"
	"supportdesk/internal/logging"
	"supportdesk/internal/matcher"

	"go.uber.org/zap"
)

// Reasons reported in a Verdict. Keyword verdicts use KeywordPrefix + term.
const (
	ReasonAIUnavailable = "ai_unavailable"
	ReasonComplexQuery  = "complex_query"
	KeywordPrefix       = "keyword:"
)

// Verdict is the detector's decision. Reason is empty when not escalated.
type Verdict struct {
	Escalated bool
	Reason    string
}

// IsKeyword reports whether the verdict came from a keyword hit.
func (v Verdict) IsKeyword() bool {
	return strings.HasPrefix(v.Reason, KeywordPrefix)
}

// Keyword returns the matched term of a keyword verdict.
func (v Verdict) Keyword() string {
	if !v.IsKeyword() {
		return ""
	}
	return strings.TrimPrefix(v.Reason, KeywordPrefix)
}

type keyword struct {
	term       string
	normalized string
}

// Detector is a stateless classifier over keywords and query size.
// It is safe for concurrent use.
type Detector struct {
	keywords []keyword
	maxChars int
	maxWords int
	logger   *zap.Logger
}

// New builds a Detector. Zero limits fall back to the defaults and a nil
// keyword list uses the default keywords. An explicit empty list disables
// keyword escalation.
func New(cfg config.EscalationConfig) *Detector {
	def := config.DefaultEscalationConfig()
	terms := cfg.Keywords
	if terms == nil {
		terms = def.Keywords
	}

	d := &Detector{
		maxChars: cfg.MaxChars,
		maxWords: cfg.MaxWords,
		logger:   logging.Get(logging.CategoryEscalation),
	}
	if d.maxChars <= 0 {
		d.maxChars = def.MaxChars
	}
	if d.maxWords <= 0 {
		d.maxWords = def.MaxWords
	}

	for _, term := range terms {
		n := matcher.Normalize(term)
		if n == "" {
			continue
		}
		d.keywords = append(d.keywords, keyword{term: strings.TrimSpace(term), normalized: n})
	}
	return d
}

// ShouldEscalate classifies query. The first applicable rule wins:
// prior AI failure, then keywords in configured order, then size.
// Keywords match anywhere in the normalized query, so inflections such as
// "refunded" or "urgently" count.
func (d *Detector) ShouldEscalate(query string, priorFailure bool) Verdict {
	if priorFailure {
		return d.verdict(ReasonAIUnavailable)
	}

	normalized := matcher.Normalize(query)
	if normalized != "" {
		for _, kw := range d.keywords {
			if strings.Contains(normalized, kw.normalized) {
				return d.verdict(KeywordPrefix + kw.term)
			}
		}
	}

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) > d.maxChars || len(strings.Fields(trimmed)) > d.maxWords {
		return d.verdict(ReasonComplexQuery)
	}

	return Verdict{}
}

func (d *Detector) verdict(reason string) Verdict {
	d.logger.Debug("escalate", zap.String("reason", reason))
	return Verdict{Escalated: true, Reason: reason}
}

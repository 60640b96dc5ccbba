// Package matcher scores user queries against FAQ questions.
//
// Scoring is a token-set ratio over normalized text on a 0..100 scale. The
// matcher is pure: it holds only its thresholds and never mutates entries.
package matcher

import (
	"supportdesk/internal/config"
	"supportdesk/internal/knowledge"
	"supportdesk/internal/logging"

	"go.uber.org/zap"
)

// DefaultThreshold is the minimum score for a confident FAQ answer.
const DefaultThreshold = 70

// DefaultRelatedThreshold is the minimum score for a related FAQ hint.
const DefaultRelatedThreshold = 50

// MatchResult is the best scoring entry for a query.
type MatchResult struct {
	Entry knowledge.FAQEntry
	Index int
	Score int
}

// Matcher finds the FAQ entry closest to a query.
type Matcher struct {
	threshold        int
	relatedThreshold int
	logger           *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger overrides the matcher category logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Matcher from cfg. Out of range thresholds fall back to defaults.
func New(cfg config.MatcherConfig, opts ...Option) *Matcher {
	m := &Matcher{
		threshold:        cfg.Threshold,
		relatedThreshold: cfg.RelatedThreshold,
		logger:           logging.Get(logging.CategoryMatcher),
	}
	if m.threshold <= 0 || m.threshold > 100 {
		m.threshold = DefaultThreshold
	}
	if m.relatedThreshold <= 0 || m.relatedThreshold > m.threshold {
		m.relatedThreshold = min(DefaultRelatedThreshold, m.threshold)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the confident-match cutoff.
func (m *Matcher) Threshold() int { return m.threshold }

// RelatedThreshold returns the related-hint cutoff.
func (m *Matcher) RelatedThreshold() int { return m.relatedThreshold }

// Best returns the highest scoring entry regardless of threshold. The first
// entry in order wins ties. ok is false when the query or every question
// normalizes to nothing.
func (m *Matcher) Best(query string, entries []knowledge.FAQEntry) (MatchResult, bool) {
	q := Normalize(query)
	if q == "" {
		return MatchResult{}, false
	}

	best := MatchResult{Index: -1, Score: -1}
	for i, e := range entries {
		question := Normalize(e.Question)
		if question == "" {
			continue
		}
		score := TokenSetRatio(q, question)
		if score > best.Score {
			best = MatchResult{Entry: e, Index: i, Score: score}
		}
	}
	if best.Index < 0 {
		return MatchResult{}, false
	}
	return best, true
}

// Match returns the best entry if it reaches the threshold.
func (m *Matcher) Match(query string, entries []knowledge.FAQEntry) (MatchResult, bool) {
	best, ok := m.Best(query, entries)
	if !ok {
		m.logger.Debug("no candidates", zap.Int("entries", len(entries)))
		return MatchResult{}, false
	}
	if best.Score < m.threshold {
		m.logger.Debug("below threshold",
			zap.Int("score", best.Score),
			zap.Int("threshold", m.threshold),
			zap.Int("index", best.Index))
		return MatchResult{}, false
	}
	m.logger.Debug("matched",
		zap.Int("score", best.Score),
		zap.Int("index", best.Index),
		zap.String("question", best.Entry.Question))
	return best, true
}

// Related returns the best entry if it reaches the related threshold.
func (m *Matcher) Related(query string, entries []knowledge.FAQEntry) (MatchResult, bool) {
	best, ok := m.Best(query, entries)
	if !ok || best.Score < m.relatedThreshold {
		return MatchResult{}, false
	}
	return best, true
}

package matcher

import (
	"testing"

	"supportdesk/internal/config"
	"supportdesk/internal/knowledge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  How do I   reset my password?  ", "how do i reset my password"},
		{"HOW DO I RESET MY PASSWORD???", "how do i reset my password"},
		{"ＨＯＷ do I reset", "how do i reset"},
		{"What's\tthe\nweather", "what s the weather"},
		{"Straße", "strasse"},
		{"!!!", ""},
		{"Order #123", "order 123"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("abc", "abc"))
	assert.Equal(t, 75, Ratio("abcd", "abce"))
	assert.Equal(t, 62, Ratio("kitten", "sitting"))
	assert.Equal(t, 50, Ratio("ab", "ba"), "a swap costs a delete and an insert")
	assert.Equal(t, 73, Ratio("größe", "grösse"), "lengths count runes")
	assert.Equal(t, 0, Ratio("", "abc"))
	assert.Equal(t, 0, Ratio("", ""))
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "reset password", "reset password", 100},
		{"subset of question", "reset password", "how do i reset my password", 100},
		{"word order ignored", "order where", "where is my order", 100},
		{"duplicates ignored", "fuzzy was a bear", "fuzzy fuzzy was a bear", 100},
		{"partial overlap", "how long is shipping", "how long does shipping take", 92},
		{"empty side", "", "anything", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenSetRatio(tt.a, tt.b))
			assert.Equal(t, tt.want, TokenSetRatio(tt.b, tt.a), "score must be symmetric")
		})
	}
}

func TestMatchExactQuestionsAgainstDefaultCorpus(t *testing.T) {
	m := New(config.MatcherConfig{})
	entries := knowledge.Default().Entries()

	for i, e := range entries {
		got, ok := m.Match(e.Question, entries)
		require.True(t, ok, e.Question)
		assert.Equal(t, i, got.Index)
		assert.Equal(t, e.Answer, got.Entry.Answer)
		assert.GreaterOrEqual(t, got.Score, m.Threshold())
	}
}

func TestMatch(t *testing.T) {
	m := New(config.MatcherConfig{Threshold: 70})
	entries := knowledge.Default().Entries()

	tests := []struct {
		query     string
		wantOK    bool
		wantIndex int
		wantScore int
	}{
		{"reset password", true, 1, 100},
		{"HOW DO I RESET MY PASSWORD???", true, 1, 100},
		{"payment methods", true, 2, 100},
		{"how long is shipping", true, 3, 92},
		{"is data secure", true, 9, 100},
		{"What's the weather like on Mars?", false, 0, 0},
		{"I want a refund", false, 0, 0},
		{"hello", false, 0, 0},
		{"", false, 0, 0},
		{"?!", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := m.Match(tt.query, entries)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Equal(t, MatchResult{}, got)
				return
			}
			assert.Equal(t, tt.wantIndex, got.Index)
			assert.Equal(t, tt.wantScore, got.Score)
		})
	}
}

func TestMatchTieBreakPrefersFirstEntry(t *testing.T) {
	m := New(config.MatcherConfig{})
	entries := []knowledge.FAQEntry{
		{Question: "???", Answer: "skipped"},
		{Question: "Where is my order?", Answer: "first"},
		{Question: "where is my ORDER", Answer: "second"},
	}

	got, ok := m.Match("where is my order", entries)
	require.True(t, ok)
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, "first", got.Entry.Answer)
}

func TestMatchEmptyCorpus(t *testing.T) {
	m := New(config.MatcherConfig{})

	_, ok := m.Match("reset password", nil)
	assert.False(t, ok)

	_, ok = m.Best("reset password", []knowledge.FAQEntry{{Question: "  "}})
	assert.False(t, ok)
}

func TestBestAndRelated(t *testing.T) {
	m := New(config.MatcherConfig{Threshold: 70, RelatedThreshold: 50})
	entries := knowledge.Default().Entries()

	best, ok := m.Best("I want a refund", entries)
	require.True(t, ok)
	assert.Equal(t, 6, best.Index)
	assert.Equal(t, 63, best.Score)

	related, ok := m.Related("I want a refund", entries)
	require.True(t, ok)
	assert.Equal(t, "What is your refund policy?", related.Entry.Question)

	_, ok = m.Related("What's the weather like on Mars?", entries)
	assert.False(t, ok)
}

func TestNewAppliesDefaults(t *testing.T) {
	m := New(config.MatcherConfig{Threshold: 150, RelatedThreshold: -1})
	assert.Equal(t, DefaultThreshold, m.Threshold())
	assert.Equal(t, DefaultRelatedThreshold, m.RelatedThreshold())

	m = New(config.MatcherConfig{Threshold: 40})
	assert.Equal(t, 40, m.Threshold())
	assert.Equal(t, 40, m.RelatedThreshold())
}

func TestMatchLogsDecision(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := New(config.MatcherConfig{}, WithLogger(zap.New(core)))

	_, ok := m.Match("tell me about quantum physics", knowledge.Default().Entries())
	require.False(t, ok)

	entries := logs.FilterMessage("below threshold").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(41), entries[0].ContextMap()["score"])
}

package knowledge

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// SearchResult is a browse hit for an FAQ question.
type SearchResult struct {
	Entry FAQEntry
	Index int
	Score int
}

// questionSource adapts entries to fuzzy.Source over "category question".
type questionSource []FAQEntry

func (s questionSource) String(i int) string { return s[i].Category + " " + s[i].Question }
func (s questionSource) Len() int            { return len(s) }

// Search ranks entries whose category or question fuzzy-matches pattern.
// It is a browsing aid for operators; routing uses the matcher package.
// An empty pattern lists every entry in load order.
func (b *Base) Search(pattern string) []SearchResult {
	if b == nil {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		out := make([]SearchResult, len(b.entries))
		for i, e := range b.entries {
			out[i] = SearchResult{Entry: e, Index: i}
		}
		return out
	}

	matches := fuzzy.FindFrom(pattern, questionSource(b.entries))
	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchResult{
			Entry: b.entries[m.Index],
			Index: m.Index,
			Score: m.Score,
		})
	}
	return out
}

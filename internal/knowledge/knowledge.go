// Package knowledge holds the static FAQ corpus the support pipeline answers from.
//
// A Base is built once at startup and never mutated afterwards. Entries keep
// their load order, which the matcher relies on for deterministic tie-breaks.
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"supportdesk/internal/config"
	"supportdesk/internal/logging"
)

// DefaultCategory is assigned to entries loaded without a category.
const DefaultCategory = "General"

// FAQEntry is a single question/answer record.
type FAQEntry struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
	Category string `yaml:"category" json:"category"`
}

// Base is an immutable, ordered FAQ collection.
type Base struct {
	entries []FAQEntry
}

// New builds a Base from entries. Entries with an empty question or answer are
// dropped; a missing category becomes DefaultCategory. The input slice is copied.
func New(entries []FAQEntry) *Base {
	kept := make([]FAQEntry, 0, len(entries))
	for i, e := range entries {
		e.Question = strings.TrimSpace(e.Question)
		e.Answer = strings.TrimSpace(e.Answer)
		e.Category = strings.TrimSpace(e.Category)
		if e.Question == "" || e.Answer == "" {
			logging.KnowledgeWarn("skipping entry %d: empty question or answer", i)
			continue
		}
		if e.Category == "" {
			e.Category = DefaultCategory
		}
		kept = append(kept, e)
	}
	return &Base{entries: kept}
}

// Entries returns a copy of the entries in load order.
func (b *Base) Entries() []FAQEntry {
	if b == nil {
		return nil
	}
	out := make([]FAQEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries.
func (b *Base) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Categories returns the distinct categories in first-seen order.
func (b *Base) Categories() []string {
	if b == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, e := range b.entries {
		if seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		out = append(out, e.Category)
	}
	return out
}

// Open loads the Base described by cfg.
func Open(ctx context.Context, cfg config.KnowledgeConfig) (*Base, error) {
	switch strings.ToLower(cfg.Source) {
	case "", "builtin":
		return Default(), nil
	case "file":
		return LoadFile(cfg.Path)
	case "sqlite":
		return LoadSQLite(ctx, cfg.Path, cfg.Table)
	default:
		return nil, fmt.Errorf("unknown knowledge source: %s", cfg.Source)
	}
}

package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"supportdesk/internal/logging"

	"gopkg.in/yaml.v3"
)

// faqFile is the on-disk layout. A bare list of entries is accepted as well.
type faqFile struct {
	Entries []FAQEntry `yaml:"faqs" json:"faqs"`
}

// LoadFile reads FAQ entries from a YAML (.yaml, .yml) or JSON (.json) file.
func LoadFile(path string) (*Base, error) {
	if path == "" {
		return nil, fmt.Errorf("knowledge file path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	var entries []FAQEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entries, err = parseJSON(data)
	case ".yaml", ".yml":
		entries, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported knowledge file extension: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	base := New(entries)
	logging.Knowledge("loaded %d/%d entries from %s", base.Len(), len(entries), path)
	return base, nil
}

func parseYAML(data []byte) ([]FAQEntry, error) {
	var list []FAQEntry
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc faqFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

func parseJSON(data []byte) ([]FAQEntry, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []FAQEntry
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var doc faqFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

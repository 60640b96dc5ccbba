package gateway

import (
	"sort"
	"strings"
)

// DefaultPreferredModelKeywords ranks discovered models, strongest first.
var DefaultPreferredModelKeywords = []string{"gemini", "chat-bison", "text-bison", "bison", "gpt", "llama"}

// SelectModel picks a replacement for exclude from models. Candidates must
// advertise action. Each preferred keyword found in the name adds weight by
// its position in keywords, plus one point per advertised action. Ties keep
// listing order. The "models/" prefix is stripped from the result.
func SelectModel(models []ModelInfo, action, exclude string, keywords []string) (string, bool) {
	type candidate struct {
		name  string
		score int
	}

	exclude = trimModelPrefix(exclude)
	var candidates []candidate
	for _, m := range models {
		name := trimModelPrefix(m.Name)
		if name == "" || name == exclude || !m.Supports(action) {
			continue
		}
		lower := strings.ToLower(name)
		score := len(m.Actions)
		for i, kw := range keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				score += (len(keywords) - i) * 10
			}
		}
		candidates = append(candidates, candidate{name: name, score: score})
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates[0].name, true
}

func trimModelPrefix(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "models/")
}

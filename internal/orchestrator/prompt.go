package orchestrator

import (
	"fmt"
	"strings"

	"supportdesk/internal/gateway"
	"supportdesk/internal/matcher"
)

// buildRequest assembles the completion request for the AI fallback. The
// related FAQ, when present, is appended to the system instruction; only the
// last historyTurns turns of the conversation are forwarded.
func buildRequest(system, message string, conv Conversation, historyTurns int, related *matcher.MatchResult) gateway.Request {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(system))
	if related != nil {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Relevant FAQ context:\nFAQ: %s\nAnswer: %s", related.Entry.Question, related.Entry.Answer)
	}

	turns := conv.Turns
	if historyTurns <= 0 {
		turns = nil
	} else if len(turns) > historyTurns {
		turns = turns[len(turns)-historyTurns:]
	}
	history := make([]gateway.Turn, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		history = append(history, t)
	}

	return gateway.Request{
		System:  sb.String(),
		Prompt:  message,
		History: history,
	}
}

package main

import (
	"fmt"
	"io"
	"strings"

	"supportdesk/internal/orchestrator"
)

// formatResponse renders resp as plain text for non-interactive output.
func formatResponse(resp orchestrator.Response) string {
	var sb strings.Builder
	sb.WriteString(resp.Text)

	if resp.Supplement != "" {
		sb.WriteString("\n\n")
		sb.WriteString(resp.Supplement)
	}
	if resp.TicketID != "" {
		fmt.Fprintf(&sb, "\n\nTicket: %s", resp.TicketID)
	}
	if line := actionLine(resp.Actions); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	return sb.String()
}

// actionLine lists actions with the numbers that select them in chat.
func actionLine(actions []string) string {
	if len(actions) == 0 {
		return ""
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("[%d] %s", i+1, orchestrator.ActionLabel(a))
	}
	return "Quick actions: " + strings.Join(parts, "  ")
}

func printExchange(w io.Writer, ex exchange) {
	if ex.Notice != "" {
		fmt.Fprintln(w, ex.Notice)
		return
	}
	fmt.Fprintln(w, formatResponse(ex.Response))
}

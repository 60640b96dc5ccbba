package orchestrator

import "supportdesk/internal/gateway"

// Route records which pipeline stage produced a response.
type Route string

const (
	RouteEmpty      Route = "empty"
	RouteGreeting   Route = "greeting"
	RouteFAQ        Route = "faq"
	RouteAI         Route = "ai"
	RouteEscalation Route = "escalation"
)

// Quick action identifiers attached to responses.
const (
	ActionCheckFAQs      = "check_faqs"
	ActionReportIssue    = "report_issue"
	ActionTalkToHuman    = "talk_to_human"
	ActionContactSupport = "contact_support"
	ActionViewTicket     = "view_ticket"
)

var actionLabels = map[string]string{
	ActionCheckFAQs:      "Check FAQs",
	ActionReportIssue:    "Report an issue",
	ActionTalkToHuman:    "Talk to a human",
	ActionContactSupport: "Contact support",
	ActionViewTicket:     "View ticket",
}

// ActionLabel returns the display text for an action identifier.
func ActionLabel(action string) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return action
}

// Response is the outcome of handling one message. It is built fresh for
// every call and never retained.
type Response struct {
	Text      string
	Escalated bool
	Reason    string
	Actions   []string

	Route       Route
	TicketID    string
	Supplement  string
	Score       int
	FailureKind gateway.Kind
}

// Turn is one prior exchange of the conversation.
type Turn = gateway.Turn

// Conversation is caller-owned context for a message. Handle only reads it.
type Conversation struct {
	SessionID string
	Turns     []Turn
}

// Append returns a copy of c with the exchange added.
func (c Conversation) Append(user, assistant string) Conversation {
	turns := make([]Turn, 0, len(c.Turns)+2)
	turns = append(turns, c.Turns...)
	turns = append(turns, Turn{Role: "user", Text: user}, Turn{Role: "assistant", Text: assistant})
	return Conversation{SessionID: c.SessionID, Turns: turns}
}

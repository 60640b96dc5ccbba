package gateway

import (
	"context"
	"strings"
)

// Actions a model can advertise, as reported by the models listing.
const (
	ActionGenerateContent = "generateContent"
	ActionGenerateText    = "generateText"
)

// Turn is one prior exchange handed in by the caller.
type Turn struct {
	Role string // "user" or "assistant"
	Text string
}

// IsUser reports whether the turn came from the end user.
func (t Turn) IsUser() bool {
	return strings.EqualFold(t.Role, "user")
}

// Request is a single completion request.
type Request struct {
	System  string
	Prompt  string
	History []Turn
}

// Flatten renders the request as one prompt for strategies that cannot carry
// a system instruction or history separately.
func (r Request) Flatten() string {
	var sb strings.Builder
	if s := strings.TrimSpace(r.System); s != "" {
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}
	for _, t := range r.History {
		if t.IsUser() {
			sb.WriteString("User: ")
		} else {
			sb.WriteString("Assistant: ")
		}
		sb.WriteString(t.Text)
		sb.WriteString("\n")
	}
	if len(r.History) > 0 {
		sb.WriteString("User: ")
	}
	sb.WriteString(r.Prompt)
	return sb.String()
}

// Strategy is one way of invoking the provider. Invoke returns raw text or an
// error; the gateway classifies errors and trims text.
type Strategy interface {
	Name() string
	Action() string
	Invoke(ctx context.Context, model string, req Request) (string, error)
}

// ModelInfo describes a model returned by a listing.
type ModelInfo struct {
	Name    string
	Actions []string
}

// Supports reports whether the model advertises action.
func (m ModelInfo) Supports(action string) bool {
	for _, a := range m.Actions {
		if strings.EqualFold(a, action) {
			return true
		}
	}
	return false
}

// ModelLister enumerates models available to the credential.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"supportdesk/internal/orchestrator"

	"github.com/google/uuid"
)

// EndChatText closes a conversation on /end.
const EndChatText = "Thank you for chatting with us! If you have more questions later, just start a new chat. Have a great day!"

// handler is the part of the agent a chat session needs.
type handler interface {
	Handle(ctx context.Context, message string, conv orchestrator.Conversation) orchestrator.Response
}

// session owns the conversation on behalf of one interactive user.
// It is not safe for concurrent use.
type session struct {
	agent       handler
	conv        orchestrator.Conversation
	lastActions []string
	lastTicket  string
}

func newSession(agent handler) *session {
	return &session{
		agent: agent,
		conv:  orchestrator.Conversation{SessionID: uuid.NewString()},
	}
}

// exchange is what the UI renders for one input line.
type exchange struct {
	Input    string
	Response orchestrator.Response
	Notice   string
	Quit     bool
}

// submit resolves slash commands and numbered quick actions, then forwards
// the message to the agent. The conversation grows by one exchange per
// forwarded message.
func (s *session) submit(ctx context.Context, line string) exchange {
	line = strings.TrimSpace(line)

	switch strings.ToLower(line) {
	case "/quit", "/exit":
		return exchange{Quit: true}
	case "/new", "/restart":
		s.reset()
		return exchange{Notice: "Started a new chat (session " + s.conv.SessionID + ")."}
	case "/clear":
		s.conv.Turns = nil
		s.lastActions = nil
		return exchange{Notice: "History cleared."}
	case "/end":
		s.reset()
		return exchange{Notice: EndChatText}
	case "/ticket":
		return exchange{Notice: s.ticketNotice()}
	}

	if action, ok := s.action(line); ok {
		if action == orchestrator.ActionViewTicket {
			return exchange{Notice: s.ticketNotice()}
		}
		line = orchestrator.ActionLabel(action)
	}

	resp := s.agent.Handle(ctx, line, s.conv)
	if resp.Route != orchestrator.RouteEmpty {
		s.conv = s.conv.Append(line, resp.Text)
	}
	s.lastActions = resp.Actions
	if resp.TicketID != "" {
		s.lastTicket = resp.TicketID
	}
	return exchange{Input: line, Response: resp}
}

// action maps a 1-based quick action number to the last offered action.
func (s *session) action(line string) (string, bool) {
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(s.lastActions) {
		return "", false
	}
	return s.lastActions[n-1], true
}

func (s *session) reset() {
	s.conv = orchestrator.Conversation{SessionID: uuid.NewString()}
	s.lastActions = nil
	s.lastTicket = ""
}

func (s *session) ticketNotice() string {
	if s.lastTicket == "" {
		return "No ticket has been opened in this chat."
	}
	return fmt.Sprintf("Your ticket reference is %s.", s.lastTicket)
}

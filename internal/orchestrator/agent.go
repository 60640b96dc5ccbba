// Package orchestrator turns one user message into one Response by running
// the greeting check, FAQ lookup, AI fallback and escalation decision in order.
package orchestrator

import (
	"context"
	"strings"
	"time"

	"supportdesk/internal/config"
	"supportdesk/internal/escalation"
	"supportdesk/internal/gateway"
	"supportdesk/internal/knowledge"
	"supportdesk/internal/logging"
	"supportdesk/internal/matcher"
	"supportdesk/internal/metrics"

	"go.uber.org/zap"
)

// Canned texts.
const (
	EmptyMessageText = "Please type your question so I can help you."
	GreetingText     = "Hi there! I'm your support assistant. How can I help today?"
)

// Knowledge supplies FAQ entries in a stable order.
type Knowledge interface {
	Entries() []knowledge.FAQEntry
}

// Completer produces AI text or a *gateway.Failure.
type Completer interface {
	Generate(ctx context.Context, req gateway.Request) (string, error)
}

// Agent is the single entry point for message handling. It keeps no
// per-conversation state and is safe for concurrent use.
type Agent struct {
	kb           Knowledge
	matcher      *matcher.Matcher
	detector     *escalation.Detector
	completer    Completer
	system       string
	historyTurns int
	precheck     bool
	greetings    map[string]bool
	issueTicket  TicketIssuer
	recorder     metrics.Recorder
	logger       *zap.Logger
	now          func() time.Time
}

// Option customizes an Agent.
type Option func(*Agent)

// WithTicketIssuer overrides ticket id generation.
func WithTicketIssuer(issue TicketIssuer) Option {
	return func(a *Agent) { a.issueTicket = issue }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Agent) { a.recorder = r }
}

// WithLogger overrides the orchestrator category logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// WithClock overrides the clock used for latency measurements.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// New wires an Agent from its collaborators and cfg. cfg is copied.
func New(kb Knowledge, completer Completer, cfg *config.Config, opts ...Option) *Agent {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Agent{
		kb:           kb,
		matcher:      matcher.New(cfg.Matcher),
		detector:     escalation.New(cfg.Escalation),
		completer:    completer,
		system:       cfg.Orchestrator.SystemInstruction,
		historyTurns: cfg.Orchestrator.HistoryTurns,
		precheck:     cfg.Escalation.Precheck,
		greetings:    make(map[string]bool),
		issueTicket:  defaultIssuer,
		recorder:     metrics.Nop{},
		logger:       logging.Get(logging.CategoryOrchestrator),
		now:          time.Now,
	}

	greetings := cfg.Orchestrator.Greetings
	if greetings == nil {
		greetings = config.DefaultConfig().Orchestrator.Greetings
	}
	for _, g := range greetings {
		if n := matcher.Normalize(g); n != "" {
			a.greetings[n] = true
		}
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle routes message and returns the response. It never fails; provider
// problems surface as escalations.
func (a *Agent) Handle(ctx context.Context, message string, conv Conversation) Response {
	start := a.now()
	resp := a.route(ctx, strings.TrimSpace(message), conv)

	elapsed := a.now().Sub(start)
	a.recorder.Response(string(resp.Route), resp.Reason, elapsed)
	a.logger.Info("handled message",
		zap.String("session", conv.SessionID),
		zap.String("route", string(resp.Route)),
		zap.Bool("escalated", resp.Escalated),
		zap.String("reason", resp.Reason),
		zap.String("ticket", resp.TicketID),
		zap.Duration("elapsed", elapsed))
	return resp
}

func (a *Agent) route(ctx context.Context, message string, conv Conversation) Response {
	if message == "" {
		return Response{Text: EmptyMessageText, Route: RouteEmpty}
	}

	if a.isGreeting(message) {
		return Response{
			Text:    GreetingText,
			Route:   RouteGreeting,
			Actions: []string{ActionCheckFAQs, ActionReportIssue, ActionTalkToHuman},
		}
	}

	var entries []knowledge.FAQEntry
	if a.kb != nil {
		entries = a.kb.Entries()
	}

	if a.precheck {
		if v := a.detector.ShouldEscalate(message, false); v.Escalated {
			logging.OrchestratorDebug("precheck escalated: %s", v.Reason)
			return a.escalate(v)
		}
	}

	if m, ok := a.matcher.Match(message, entries); ok {
		logging.OrchestratorDebug("faq hit index=%d score=%d", m.Index, m.Score)
		return Response{
			Text:    m.Entry.Answer,
			Route:   RouteFAQ,
			Score:   m.Score,
			Actions: []string{ActionTalkToHuman},
		}
	}

	var related *matcher.MatchResult
	if m, ok := a.matcher.Related(message, entries); ok {
		related = &m
	}

	text, err := a.complete(ctx, message, conv, related)
	verdict := a.detector.ShouldEscalate(message, false)

	if err == nil {
		if verdict.Escalated {
			resp := a.escalate(verdict)
			resp.Supplement = text
			return resp
		}
		return Response{
			Text:    text,
			Route:   RouteAI,
			Actions: []string{ActionTalkToHuman},
		}
	}

	kind := gateway.KindUnknown
	if f, ok := gateway.AsFailure(err); ok {
		kind = f.Kind
	}
	logging.Orchestrator("AI fallback failed (%s), escalating", kind)

	if !verdict.Escalated {
		verdict = a.detector.ShouldEscalate(message, true)
	}
	resp := a.escalate(verdict)
	resp.FailureKind = kind
	if related != nil {
		resp.Supplement = relatedSupplement(related.Entry)
	}
	return resp
}

func (a *Agent) complete(ctx context.Context, message string, conv Conversation, related *matcher.MatchResult) (string, error) {
	if a.completer == nil {
		return "", &gateway.Failure{Kind: gateway.KindUnconfigured, Detail: "no completer"}
	}
	req := buildRequest(a.system, message, conv, a.historyTurns, related)
	return a.completer.Generate(ctx, req)
}

func (a *Agent) isGreeting(message string) bool {
	return a.greetings[matcher.Normalize(message)]
}

func (a *Agent) escalate(v escalation.Verdict) Response {
	return Response{
		Text:      escalationText(v),
		Escalated: true,
		Reason:    v.Reason,
		Route:     RouteEscalation,
		Actions:   []string{ActionContactSupport, ActionViewTicket},
		TicketID:  a.issueTicket(),
	}
}

func escalationText(v escalation.Verdict) string {
	const next = " A support agent will follow up; keep your ticket reference handy."
	switch {
	case v.Reason == escalation.ReasonAIUnavailable:
		return "Sorry, I can't generate a full answer right now, so I've passed your question to our support team." + next
	case v.Reason == escalation.ReasonComplexQuery:
		return "Your request needs a closer look than I can give it here, so I've passed it to our support team." + next
	case v.IsKeyword():
		return "I'm sorry you're running into this. I'm escalating your request to a human support agent." + next
	}
	return "I've passed your request to our support team." + next
}

func relatedSupplement(e knowledge.FAQEntry) string {
	return "It looks like this FAQ might help:\n\nQ: " + e.Question + "\nA: " + e.Answer
}

package main

import (
	"context"
	"fmt"
	"strings"

	"supportdesk/internal/orchestrator"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const chatHelp = "enter send · 1-5 quick action · /new /clear /end /ticket · esc quit"

// responseMsg carries a finished exchange back to Update.
type responseMsg struct {
	ex        exchange
	sessionID string
}

// chatModel is the interactive chat view. Messages are handled one at a time;
// input is ignored while a reply is pending.
type chatModel struct {
	ctx      context.Context
	sess     *session
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   styles
	renderer *glamour.TermRenderer

	sessionID string
	blocks    []string
	waiting   bool
	ready     bool
	width     int
}

func newChatModel(ctx context.Context, sess *session, renderer *glamour.TermRenderer) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := chatModel{
		ctx:      ctx,
		sess:     sess,
		input:    ti,
		spinner:  sp,
		styles:   defaultStyles(),
		renderer: renderer,
		width:    80,

		sessionID: sess.conv.SessionID,
	}
	m.blocks = append(m.blocks, m.styles.Notice.Render("Type your question below. Greetings, FAQs and anything else are welcome."))
	return m
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - 4
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = msg.Width - 4
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			line := m.input.Value()
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, m.send(line))
		}

	case responseMsg:
		m.waiting = false
		m.sessionID = msg.sessionID
		if msg.ex.Quit {
			return m, tea.Quit
		}
		m.blocks = append(m.blocks, m.renderExchange(msg.ex))
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m chatModel) send(line string) tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		ex := sess.submit(ctx, line)
		return responseMsg{ex: ex, sessionID: sess.conv.SessionID}
	}
}

func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.blocks, "\n"))
	m.viewport.GotoBottom()
}

func (m chatModel) View() string {
	header := m.styles.Header.Render("supportdesk") + m.styles.Muted.Render("session "+shortID(m.sessionID))

	body := strings.Join(m.blocks, "\n")
	if m.ready {
		body = m.viewport.View()
	}

	status := m.styles.Muted.Render(chatHelp)
	if m.waiting {
		status = m.spinner.View() + " " + m.styles.Muted.Render("thinking...")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.input.View(), status)
}

func (m chatModel) renderExchange(ex exchange) string {
	if ex.Notice != "" {
		return m.styles.Notice.Render(ex.Notice)
	}

	var sb strings.Builder
	sb.WriteString(m.styles.User.Render("You") + "\n")
	sb.WriteString(wrap(ex.Input, m.width) + "\n")
	sb.WriteString(m.renderResponse(ex.Response))
	return sb.String()
}

func (m chatModel) renderResponse(resp orchestrator.Response) string {
	var sb strings.Builder
	sb.WriteString(m.styles.Assistant.Render("Support") + "\n")

	if resp.Escalated {
		sb.WriteString(m.styles.Escalated.Render("Escalated: "+resp.Reason) + "\n")
	}
	if resp.Route == orchestrator.RouteAI {
		sb.WriteString(m.markdown(resp.Text))
	} else {
		sb.WriteString(wrap(resp.Text, m.width) + "\n")
	}
	if resp.Supplement != "" {
		sb.WriteString(m.styles.Muted.Render(wrap(resp.Supplement, m.width)) + "\n")
	}
	if resp.TicketID != "" {
		sb.WriteString(m.styles.Ticket.Render("Ticket: "+resp.TicketID) + "\n")
	}
	if line := actionLine(resp.Actions); line != "" {
		sb.WriteString(m.styles.Action.Render(line) + "\n")
	}
	return sb.String()
}

// markdown renders model output, falling back to plain text.
func (m chatModel) markdown(text string) string {
	if m.renderer == nil {
		return wrap(text, m.width) + "\n"
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return wrap(text, m.width) + "\n"
	}
	return out
}

func wrap(s string, width int) string {
	if width <= 4 {
		return s
	}
	return lipgloss.NewStyle().Width(width - 2).Render(s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// runTUI drives the chat view until the user quits or ctx ends.
func runTUI(ctx context.Context, sess *session) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		renderer = nil
	}

	p := tea.NewProgram(newChatModel(ctx, sess, renderer), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}

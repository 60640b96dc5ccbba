package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"supportdesk/internal/knowledge"
	"supportdesk/internal/orchestrator"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// echoAgent answers with the message and offers fixed actions.
type echoAgent struct {
	messages []string
	convs    []orchestrator.Conversation
	resp     orchestrator.Response
}

func (e *echoAgent) Handle(_ context.Context, message string, conv orchestrator.Conversation) orchestrator.Response {
	e.messages = append(e.messages, message)
	e.convs = append(e.convs, conv)
	resp := e.resp
	if resp.Text == "" {
		resp.Text = "echo: " + message
	}
	if resp.Route == "" {
		resp.Route = orchestrator.RouteAI
	}
	return resp
}

func TestSessionAppendsExchanges(t *testing.T) {
	agent := &echoAgent{}
	sess := newSession(agent)
	ctx := context.Background()

	sess.submit(ctx, "first")
	sess.submit(ctx, "  second  ")

	require.Len(t, agent.convs, 2)
	assert.Empty(t, agent.convs[0].Turns)
	assert.Equal(t, []orchestrator.Turn{
		{Role: "user", Text: "first"},
		{Role: "assistant", Text: "echo: first"},
	}, agent.convs[1].Turns)
	assert.Equal(t, "second", agent.messages[1])
	assert.Len(t, sess.conv.Turns, 4)
}

func TestSessionQuickActions(t *testing.T) {
	agent := &echoAgent{resp: orchestrator.Response{
		Text:     "escalated",
		Route:    orchestrator.RouteEscalation,
		Actions:  []string{orchestrator.ActionContactSupport, orchestrator.ActionViewTicket},
		TicketID: "TKT-20260101000000-ABCDEF01",
	}}
	sess := newSession(agent)
	ctx := context.Background()

	// No actions offered yet, so a number is an ordinary message.
	sess.submit(ctx, "1")
	assert.Equal(t, "1", agent.messages[0])

	ex := sess.submit(ctx, "1")
	assert.Equal(t, "Contact support", ex.Input)

	ex = sess.submit(ctx, "2")
	assert.Equal(t, "Your ticket reference is TKT-20260101000000-ABCDEF01.", ex.Notice)
	assert.Len(t, agent.messages, 2, "viewing the ticket stays local")

	ex = sess.submit(ctx, "7")
	assert.Equal(t, "7", ex.Input)
}

func TestSessionCommands(t *testing.T) {
	agent := &echoAgent{}
	sess := newSession(agent)
	ctx := context.Background()
	first := sess.conv.SessionID

	sess.submit(ctx, "hello")
	assert.Equal(t, "No ticket has been opened in this chat.", sess.submit(ctx, "/ticket").Notice)

	ex := sess.submit(ctx, "/clear")
	assert.Equal(t, "History cleared.", ex.Notice)
	assert.Empty(t, sess.conv.Turns)
	assert.Equal(t, first, sess.conv.SessionID)

	ex = sess.submit(ctx, "/new")
	assert.NotEqual(t, first, sess.conv.SessionID)
	assert.Contains(t, ex.Notice, sess.conv.SessionID)

	assert.Equal(t, EndChatText, sess.submit(ctx, "/end").Notice)
	assert.True(t, sess.submit(ctx, "/QUIT").Quit)
	assert.Len(t, agent.messages, 1)
}

func TestSessionSkipsEmptyMessagesInHistory(t *testing.T) {
	agent := &echoAgent{resp: orchestrator.Response{Text: "Please type", Route: orchestrator.RouteEmpty}}
	sess := newSession(agent)

	sess.submit(context.Background(), "   ")
	assert.Empty(t, sess.conv.Turns)
}

func TestFormatResponse(t *testing.T) {
	resp := orchestrator.Response{
		Text:       "I've passed your question on.",
		Escalated:  true,
		Supplement: "It looks like this FAQ might help",
		TicketID:   "TKT-1",
		Actions:    []string{orchestrator.ActionContactSupport, orchestrator.ActionViewTicket},
	}
	want := "I've passed your question on.\n\n" +
		"It looks like this FAQ might help\n\n" +
		"Ticket: TKT-1\n" +
		"Quick actions: [1] Contact support  [2] View ticket"
	assert.Equal(t, want, formatResponse(resp))

	assert.Equal(t, "plain", formatResponse(orchestrator.Response{Text: "plain"}))
}

func TestRunPlainChat(t *testing.T) {
	agent := &echoAgent{}
	sess := newSession(agent)
	var out bytes.Buffer

	in := strings.NewReader("hello there\n/ticket\n/quit\nnever sent\n")
	require.NoError(t, runPlainChat(context.Background(), in, &out, sess))

	assert.Equal(t, []string{"hello there"}, agent.messages)
	assert.Contains(t, out.String(), "echo: hello there")
	assert.Contains(t, out.String(), "No ticket has been opened")
}

func TestRunPlainChatStopsAtEOF(t *testing.T) {
	agent := &echoAgent{}
	var out bytes.Buffer

	require.NoError(t, runPlainChat(context.Background(), strings.NewReader("one\ntwo"), &out, newSession(agent)))
	assert.Equal(t, []string{"one", "two"}, agent.messages)
}

func TestChatModel(t *testing.T) {
	agent := &echoAgent{resp: orchestrator.Response{
		Text:      "Sorry, passing this on.",
		Escalated: true,
		Reason:    "keyword:urgent",
		Route:     orchestrator.RouteEscalation,
		TicketID:  "TKT-20260101000000-ABCDEF01",
		Actions:   []string{orchestrator.ActionContactSupport},
	}}
	m := newChatModel(context.Background(), newSession(agent), nil)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(chatModel)
	require.True(t, m.ready)

	m.input.SetValue("this is urgent")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(chatModel)
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)
	assert.Empty(t, m.input.Value())

	// Enter is ignored while a reply is pending.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	msg := m.send("this is urgent")()
	next, _ = m.Update(msg)
	m = next.(chatModel)
	assert.False(t, m.waiting)

	view := m.View()
	assert.Contains(t, view, "Escalated: keyword:urgent")
	assert.Contains(t, view, "TKT-20260101000000-ABCDEF01")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestSourceForPath(t *testing.T) {
	assert.Equal(t, "sqlite", sourceForPath("kb.db"))
	assert.Equal(t, "sqlite", sourceForPath("/tmp/KB.SQLite"))
	assert.Equal(t, "file", sourceForPath("faqs.yaml"))
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	kbPath, metricsAddr, verbose = "", "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--env-file", ""}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestFAQCommands(t *testing.T) {
	out := execute(t, "faq", "list", "--kb", "")
	assert.Contains(t, out, "What are your business hours?")
	assert.Contains(t, out, "Security")

	out = execute(t, "faq", "search", "password")
	assert.Contains(t, out, "How do I reset my password?")

	out = execute(t, "faq", "search", "zzzzqqq")
	assert.Contains(t, out, "No matching FAQ entries.")
}

func TestFAQExportAndLoad(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "kb.db")

	out := execute(t, "faq", "export", dsn, "--table", "faqs")
	assert.Contains(t, out, "Exported 10 entries")

	base, err := knowledge.LoadSQLite(context.Background(), dsn, "faqs")
	require.NoError(t, err)
	assert.Equal(t, 10, base.Len())

	out = execute(t, "faq", "list", "--kb", dsn)
	assert.Contains(t, out, "Is my data secure?")
}

func TestAskAnswersFromFAQ(t *testing.T) {
	out := execute(t, "ask", "--kb", "", "How", "do", "I", "reset", "my", "password?")
	assert.Contains(t, out, "Forgot Password")
	assert.Contains(t, out, "[1] Talk to a human")
}

func TestAskEscalatesWithoutKey(t *testing.T) {
	out := execute(t, "ask", "--kb", "", "tell me about quantum physics")
	assert.Contains(t, out, "Ticket: TKT-")
	assert.Contains(t, out, "[2] View ticket")
}

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "supportdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matcher:\n  threshold: 80\n"), 0644))

	configPath, kbPath, metricsAddr, verbose, envFile = path, "faqs.json", ":9999", true, ""
	t.Cleanup(func() {
		configPath, kbPath, metricsAddr, verbose, envFile = "", "", "", false, ".env"
	})

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 80, c.Matcher.Threshold)
	assert.Equal(t, "file", c.Knowledge.Source)
	assert.Equal(t, "faqs.json", c.Knowledge.Path)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, ":9999", c.Metrics.Addr)
	assert.Equal(t, "debug", c.Logging.Level)
}

func TestLoadConfigDotenv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("SUPPORTDESK_MODEL=gemini-from-dotenv\n"), 0644))

	t.Setenv("SUPPORTDESK_MODEL", "")
	require.NoError(t, os.Unsetenv("SUPPORTDESK_MODEL"))

	configPath, envFile = filepath.Join(dir, "missing.yaml"), env
	t.Cleanup(func() { configPath, envFile = "", ".env" })

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "gemini-from-dotenv", c.LLM.Model)
}

package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"supportdesk/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// fakeGemini serves just enough of the Generative Language API for the SDK.
type fakeGemini struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	missing  string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/models"):
		_, _ = io.WriteString(w, `{"models":[
			{"name":"models/text-bison-001","supportedGenerationMethods":["generateText"]},
			{"name":"models/gemini-2.0-flash","supportedGenerationMethods":["generateContent","countTokens"]}
		]}`)
	case f.missing != "" && strings.Contains(r.URL.Path, f.missing+":"):
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"models/`+f.missing+` is not found for API version v1beta","status":"NOT_FOUND"}}`)
	case strings.HasSuffix(r.URL.Path, ":generateContent"):
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"sdk says hi"}]},"finishReason":"STOP"}]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeGemini) snapshot() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...), append([]string(nil), f.bodies...)
}

func newSDKGateway(t *testing.T, srv *httptest.Server, model string, strategies ...string) *Gateway {
	t.Helper()
	cfg := config.DefaultLLMConfig()
	cfg.APIKey = "secret"
	cfg.Model = model
	cfg.BaseURL = srv.URL + "/v1beta"
	cfg.Strategies = strategies
	g := New(context.Background(), cfg, WithHTTPClient(srv.Client()))
	require.Equal(t, strategies, g.Strategies())
	return g
}

func TestSDKGenerateContent(t *testing.T) {
	fake := &fakeGemini{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	g := newSDKGateway(t, srv, "gemini-2.5-flash", config.StrategySDKGenerateContent)
	text, err := g.Generate(context.Background(), Request{
		System:  "Be brief.",
		Prompt:  "Where is my order?",
		History: []Turn{{Role: "user", Text: "hi"}, {Role: "assistant", Text: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "sdk says hi", text)

	requests, bodies := fake.snapshot()
	require.Len(t, requests, 1)
	assert.Equal(t, "POST /v1beta/models/gemini-2.5-flash:generateContent", requests[0])
	assert.Equal(t, "Be brief.", gjson.Get(bodies[0], "systemInstruction.parts.0.text").String())
	assert.Equal(t, int64(3), gjson.Get(bodies[0], "contents.#").Int())
}

func TestSDKChatDiscoversModel(t *testing.T) {
	fake := &fakeGemini{missing: "gemini-retired"}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	g := newSDKGateway(t, srv, "gemini-retired", config.StrategySDKChat)
	text, err := g.Complete(context.Background(), "hello?")
	require.NoError(t, err)
	assert.Equal(t, "sdk says hi", text)

	requests, _ := fake.snapshot()
	require.Len(t, requests, 3)
	assert.Equal(t, "POST /v1beta/models/gemini-retired:generateContent", requests[0])
	assert.True(t, strings.HasPrefix(requests[1], "GET /v1beta/models"))
	assert.Equal(t, "POST /v1beta/models/gemini-2.0-flash:generateContent", requests[2])
}

func TestSDKModels(t *testing.T) {
	fake := &fakeGemini{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	g := newSDKGateway(t, srv, "gemini-2.5-flash", config.StrategySDKGenerateContent)
	models, err := g.Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "text-bison-001", models[0].Name)
	assert.True(t, models[1].Supports(ActionGenerateContent))
}

func TestSDKHTTPOptions(t *testing.T) {
	tests := []struct {
		base        string
		wantBase    string
		wantVersion string
	}{
		{"http://127.0.0.1:8080/v1beta", "http://127.0.0.1:8080/", "v1beta"},
		{"https://proxy.example.com/gemini/v1/", "https://proxy.example.com/gemini/", "v1"},
		{"https://proxy.example.com", "https://proxy.example.com/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			opts := sdkHTTPOptions(tt.base)
			assert.Equal(t, tt.wantBase, opts.BaseURL)
			assert.Equal(t, tt.wantVersion, opts.APIVersion)
		})
	}
}

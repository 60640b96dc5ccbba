package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"supportdesk/internal/logging"

	"github.com/tidwall/gjson"
)

// restClient talks to the Generative Language REST API directly.
type restClient struct {
	baseURL         string
	apiKey          string
	httpClient      *http.Client
	maxOutputTokens int
	temperature     float32
}

func (c *restClient) endpoint(model, method string) string {
	return fmt.Sprintf("%s/models/%s:%s?key=%s",
		strings.TrimRight(c.baseURL, "/"), url.PathEscape(model), method, url.QueryEscape(c.apiKey))
}

func (c *restClient) do(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactKey(urlErr.URL)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	logging.APIDebug("%s %s -> %d (%d bytes)", method, redactKey(endpoint), resp.StatusCode, len(data))

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(data, "error.message").String()
		if msg == "" {
			msg = string(data)
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: summarize(msg)}
	}
	return data, nil
}

func redactKey(endpoint string) string {
	if i := strings.Index(endpoint, "key="); i >= 0 {
		return endpoint[:i] + "key=REDACTED"
	}
	return endpoint
}

// textPaths are tried in order against a successful response body.
var textPaths = []string{
	"candidates.0.content.parts.#.text",
	"candidates.0.output",
	"candidates.0.text",
	"text",
	"output",
}

// extractText pulls completion text out of any of the response shapes the
// generate endpoints have used.
func extractText(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range textPaths {
		res := gjson.GetBytes(body, path)
		if !res.Exists() {
			continue
		}
		var text string
		if res.IsArray() {
			var sb strings.Builder
			for _, part := range res.Array() {
				sb.WriteString(part.String())
			}
			text = sb.String()
		} else {
			text = res.String()
		}
		if strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

// restContent is the generateContent wire shape.
type restContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text string `json:"text"`
}

type restGenerateContentRequest struct {
	Contents          []restContent            `json:"contents"`
	SystemInstruction *restContent             `json:"systemInstruction,omitempty"`
	GenerationConfig  restGenerationConfigWire `json:"generationConfig"`
}

type restGenerationConfigWire struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// restGenerateContent calls models/{model}:generateContent.
type restGenerateContent struct {
	client *restClient
}

func (s *restGenerateContent) Name() string   { return "rest_generate_content" }
func (s *restGenerateContent) Action() string { return ActionGenerateContent }

func (s *restGenerateContent) Invoke(ctx context.Context, model string, req Request) (string, error) {
	body := restGenerateContentRequest{
		GenerationConfig: restGenerationConfigWire{
			Temperature:     s.client.temperature,
			MaxOutputTokens: s.client.maxOutputTokens,
		},
	}
	if sys := strings.TrimSpace(req.System); sys != "" {
		body.SystemInstruction = &restContent{Parts: []restPart{{Text: sys}}}
	}
	for _, t := range req.History {
		role := "model"
		if t.IsUser() {
			role = "user"
		}
		body.Contents = append(body.Contents, restContent{Role: role, Parts: []restPart{{Text: t.Text}}})
	}
	body.Contents = append(body.Contents, restContent{Role: "user", Parts: []restPart{{Text: req.Prompt}}})

	data, err := s.client.do(ctx, http.MethodPost, s.client.endpoint(model, "generateContent"), body)
	if err != nil {
		return "", err
	}
	return extractText(data), nil
}

// restGenerateText calls the legacy models/{model}:generateText method.
type restGenerateText struct {
	client *restClient
}

func (s *restGenerateText) Name() string   { return "rest_generate_text" }
func (s *restGenerateText) Action() string { return ActionGenerateText }

func (s *restGenerateText) Invoke(ctx context.Context, model string, req Request) (string, error) {
	body := map[string]any{
		"prompt":      map[string]string{"text": req.Flatten()},
		"temperature": s.client.temperature,
	}
	if s.client.maxOutputTokens > 0 {
		body["maxOutputTokens"] = s.client.maxOutputTokens
	}

	data, err := s.client.do(ctx, http.MethodPost, s.client.endpoint(model, "generateText"), body)
	if err != nil {
		return "", err
	}
	return extractText(data), nil
}

// restLister lists models via GET {base}/models, following page tokens.
type restLister struct {
	client *restClient
}

func (l *restLister) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	pageToken := ""
	for {
		endpoint := fmt.Sprintf("%s/models?key=%s&pageSize=100",
			strings.TrimRight(l.client.baseURL, "/"), url.QueryEscape(l.client.apiKey))
		if pageToken != "" {
			endpoint += "&pageToken=" + url.QueryEscape(pageToken)
		}

		data, err := l.client.do(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		gjson.GetBytes(data, "models").ForEach(func(_, m gjson.Result) bool {
			info := ModelInfo{Name: m.Get("name").String()}
			for _, a := range m.Get("supportedGenerationMethods").Array() {
				info.Actions = append(info.Actions, a.String())
			}
			models = append(models, info)
			return true
		})

		pageToken = gjson.GetBytes(data, "nextPageToken").String()
		if pageToken == "" {
			return models, nil
		}
	}
}

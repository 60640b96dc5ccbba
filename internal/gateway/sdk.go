package gateway

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// sdkClient wraps a genai client shared by the SDK strategies.
type sdkClient struct {
	client          *genai.Client
	maxOutputTokens int32
	temperature     float32
}

func (c *sdkClient) config(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if c.maxOutputTokens > 0 {
		cfg.MaxOutputTokens = c.maxOutputTokens
	}
	if s := strings.TrimSpace(system); s != "" {
		cfg.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}
	return cfg
}

func historyContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.Role(genai.RoleModel)
		if t.IsUser() {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}

// sdkGenerateContent calls Models.GenerateContent with the full history.
type sdkGenerateContent struct {
	sdk *sdkClient
}

func (s *sdkGenerateContent) Name() string   { return "sdk_generate_content" }
func (s *sdkGenerateContent) Action() string { return ActionGenerateContent }

func (s *sdkGenerateContent) Invoke(ctx context.Context, model string, req Request) (string, error) {
	contents := historyContents(req.History)
	contents = append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))

	resp, err := s.sdk.client.Models.GenerateContent(ctx, model, contents, s.sdk.config(req.System))
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// sdkChat opens a chat seeded with the history and sends the prompt.
type sdkChat struct {
	sdk *sdkClient
}

func (s *sdkChat) Name() string   { return "sdk_chat" }
func (s *sdkChat) Action() string { return ActionGenerateContent }

func (s *sdkChat) Invoke(ctx context.Context, model string, req Request) (string, error) {
	chat, err := s.sdk.client.Chats.Create(ctx, model, s.sdk.config(req.System), historyContents(req.History))
	if err != nil {
		return "", err
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Prompt})
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// sdkLister pages through Models.All.
type sdkLister struct {
	sdk *sdkClient
}

func (l *sdkLister) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	for m, err := range l.sdk.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		models = append(models, ModelInfo{Name: m.Name, Actions: m.SupportedActions})
	}
	return models, nil
}

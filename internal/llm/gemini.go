package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jislas1039-svg/higher-self/internal/config"
	"github.com/jislas1039-svg/higher-self/internal/shared"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiClient is a client for the Google Gemini API.
type geminiClient struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (Client, error) {
	return newGeminiClient(ctx, cfg.GeminiAPIKey, "")
}

func newGeminiClient(ctx context.Context, apiKey, baseURL string) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{client: client, defaultModel: defaultGeminiModel}, nil
}

// Generate sends the prompt, plus the optional attachment, to the model.
func (c *geminiClient) Generate(ctx context.Context, req Request) (Response, error) {
	name := req.Model
	if name == "" {
		name = c.defaultModel
	}

	parts := []*genai.Part{}
	if req.Attachment != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Attachment.Data, req.Attachment.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, name, contents, generateConfig(req))
	if err != nil {
		return Response{}, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Response{}, ErrNoContent
	}

	out := Response{Usage: shared.TokenUsage{Model: name}}
	if md := resp.UsageMetadata; md != nil {
		out.Usage.PromptTokens = int(md.PromptTokenCount)
		out.Usage.CompletionTokens = int(md.CandidatesTokenCount)
		out.Usage.TotalTokens = int(md.TotalTokenCount)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part == nil || part.Thought:
		case part.InlineData != nil:
			if strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				out.Images = append(out.Images, Image{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data})
			}
		default:
			text.WriteString(part.Text)
		}
	}
	out.Text = text.String()

	if req.WantImage && len(out.Images) == 0 {
		return out, ErrNoContent
	}
	return out, nil
}

// generateConfig maps a Request onto the SDK config. A negative budget
// leaves deliberation to the model; image models reject a thinking config.
func generateConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema.toGenai()
	}
	if req.WantImage {
		cfg.ResponseModalities = []string{string(genai.ModalityText), string(genai.ModalityImage)}
	}
	if req.ThinkingBudget >= 0 {
		budget := int32(req.ThinkingBudget)
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	}
	return cfg
}

// Close is a no-op; the SDK client holds no connections of its own.
func (c *geminiClient) Close() error { return nil }

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jislas1039-svg/higher-self/internal/config"
	"github.com/jislas1039-svg/higher-self/internal/shared"
)

const (
	groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"
	groqModel  = "llama-3.3-70b-versatile"
)

// groqClient is a client for the Groq API. It is text only.
type groqClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewGroqClient creates a new Groq API client.
func NewGroqClient(cfg *config.Config) Client {
	return newGroqClient(cfg.GroqAPIKey, groqAPIURL)
}

func newGroqClient(apiKey, url string) *groqClient {
	return &groqClient{
		apiKey: apiKey,
		url:    url,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Generate sends the prompt to the Groq model. Image input and output are
// not available on this provider.
func (c *groqClient) Generate(ctx context.Context, req Request) (Response, error) {
	if req.Attachment != nil || req.WantImage {
		return Response{}, ErrUnsupported
	}

	model := req.Model
	if model == "" || !isGroqModel(model) {
		model = groqModel
	}

	prompt := req.Prompt
	temperature := float32(0.1)
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	reqBody := map[string]interface{}{
		"model":       model,
		"temperature": temperature,
	}
	if req.Schema != nil {
		schemaJSON, err := json.Marshal(req.Schema.describe())
		if err != nil {
			return Response{}, fmt.Errorf("failed to marshal schema: %w", err)
		}
		prompt += "\n\nRespond only with a JSON value matching this JSON schema:\n" + string(schemaJSON)
		// json_object mode only ever returns an object.
		if req.Schema.Type == TypeObject {
			reqBody["response_format"] = map[string]string{"type": "json_object"}
		}
	}
	reqBody["messages"] = []map[string]string{
		{
			"role":    "user",
			"content": prompt,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return Response{}, fmt.Errorf("groq api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var groqResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&groqResp); err != nil {
		return Response{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(groqResp.Choices) == 0 || groqResp.Choices[0].Message.Content == "" {
		return Response{}, ErrNoContent
	}

	return Response{
		Text: groqResp.Choices[0].Message.Content,
		Usage: shared.TokenUsage{
			PromptTokens:     groqResp.Usage.PromptTokens,
			CompletionTokens: groqResp.Usage.CompletionTokens,
			TotalTokens:      groqResp.Usage.TotalTokens,
			Model:            model,
		},
	}, nil
}

func (c *groqClient) Close() error { return nil }

// isGroqModel filters out Gemini model names that leak in from per-kind
// overrides meant for the other provider.
func isGroqModel(name string) bool {
	return !strings.HasPrefix(name, "gemini-")
}

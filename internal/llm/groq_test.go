package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGroqClient_Generate(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"name\":\"x\"}"}}],"usage":{"prompt_tokens":11,"completion_tokens":7,"total_tokens":18}}`))
	}))
	defer srv.Close()

	c := newGroqClient("test-key", srv.URL)
	resp, err := c.Generate(context.Background(), Request{
		Model:  "gemini-2.5-flash",
		Prompt: "make one",
		Schema: Obj(map[string]*Schema{"name": Str()}),
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != `{"name":"x"}` {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if resp.Usage.PromptTokens != 11 || resp.Usage.CompletionTokens != 7 || resp.Usage.Model != groqModel {
		t.Errorf("unexpected usage %+v", resp.Usage)
	}
	if captured["model"] != groqModel {
		t.Errorf("gemini model name should fall back to the groq default, got %v", captured["model"])
	}
	if rf, ok := captured["response_format"].(map[string]any); !ok || rf["type"] != "json_object" {
		t.Errorf("expected json_object response format, got %v", captured["response_format"])
	}
	msgs := captured["messages"].([]any)
	content := msgs[0].(map[string]any)["content"].(string)
	if !strings.Contains(content, "make one") || !strings.Contains(content, `"required":["name"]`) {
		t.Errorf("prompt should carry the schema, got %q", content)
	}
}

func TestGroqClient_ArraySchemaSkipsJSONObjectMode(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[\"a\",\"b\"]"}}]}`))
	}))
	defer srv.Close()

	schema := Arr(Str())
	resp, err := newGroqClient("k", srv.URL).Generate(context.Background(), Request{Prompt: "list", Schema: schema})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, ok := captured["response_format"]; ok {
		t.Errorf("json_object mode cannot return an array, got %v", captured["response_format"])
	}
	if err := schema.ValidateJSON(resp.Text); err != nil {
		t.Errorf("array reply should validate: %v", err)
	}
}

func TestGroqClient_Errors(t *testing.T) {
	t.Run("Unsupported", func(t *testing.T) {
		c := newGroqClient("k", "http://127.0.0.1:0")
		_, err := c.Generate(context.Background(), Request{Prompt: "p", Attachment: &Attachment{MIMEType: "image/jpeg"}})
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("expected ErrUnsupported, got %v", err)
		}
		_, err = c.Generate(context.Background(), Request{Prompt: "p", WantImage: true})
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("expected ErrUnsupported, got %v", err)
		}
	})

	t.Run("HTTPStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := newGroqClient("k", srv.URL).Generate(context.Background(), Request{Prompt: "p"})
		if err == nil || !strings.Contains(err.Error(), "status=429") {
			t.Errorf("expected status error, got %v", err)
		}
	})

	t.Run("NoChoices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		_, err := newGroqClient("k", srv.URL).Generate(context.Background(), Request{Prompt: "p"})
		if !errors.Is(err, ErrNoContent) {
			t.Errorf("expected ErrNoContent, got %v", err)
		}
	})
}

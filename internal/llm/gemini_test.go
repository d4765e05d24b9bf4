package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// geminiServer answers generateContent with reply and keeps the last body.
func geminiServer(t *testing.T, reply string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("unexpected api key header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func thinkingConfig(body map[string]any) (map[string]any, bool) {
	gc, _ := body["generationConfig"].(map[string]any)
	tc, ok := gc["thinkingConfig"].(map[string]any)
	return tc, ok
}

func TestGeminiClient_Generate(t *testing.T) {
	reply := `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"name\":\"x\"}"}]}}],
		"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":4,"totalTokenCount":16}}`

	t.Run("ZeroBudgetIsSent", func(t *testing.T) {
		srv, captured := geminiServer(t, reply)
		c, err := newGeminiClient(context.Background(), "test-key", srv.URL+"/")
		if err != nil {
			t.Fatalf("newGeminiClient failed: %v", err)
		}

		resp, err := c.Generate(context.Background(), Request{
			Prompt:         "make one",
			Schema:         Obj(map[string]*Schema{"name": Str()}),
			ThinkingBudget: 0,
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if resp.Text != `{"name":"x"}` {
			t.Errorf("unexpected text %q", resp.Text)
		}
		if resp.Usage.PromptTokens != 12 || resp.Usage.CompletionTokens != 4 || resp.Usage.Model != defaultGeminiModel {
			t.Errorf("unexpected usage %+v", resp.Usage)
		}

		tc, ok := thinkingConfig(*captured)
		if !ok {
			t.Fatalf("expected a thinking config, got body %v", *captured)
		}
		if tc["thinkingBudget"] != float64(0) {
			t.Errorf("expected thinkingBudget 0, got %v", tc["thinkingBudget"])
		}
		gc := (*captured)["generationConfig"].(map[string]any)
		if gc["responseMimeType"] != "application/json" || gc["responseSchema"] == nil {
			t.Errorf("expected a JSON response contract, got %v", gc)
		}
	})

	t.Run("PositiveBudget", func(t *testing.T) {
		srv, captured := geminiServer(t, reply)
		c, err := newGeminiClient(context.Background(), "test-key", srv.URL+"/")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.Generate(context.Background(), Request{Model: "gemini-2.5-pro", Prompt: "p", ThinkingBudget: 2000}); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		tc, _ := thinkingConfig(*captured)
		if tc["thinkingBudget"] != float64(2000) {
			t.Errorf("expected thinkingBudget 2000, got %v", tc["thinkingBudget"])
		}
	})

	t.Run("NegativeBudgetOmitted", func(t *testing.T) {
		png := []byte{0x89, 'P', 'N', 'G'}
		imgReply := `{"candidates":[{"content":{"role":"model","parts":[
			{"text":"here"},{"inlineData":{"mimeType":"image/png","data":"` + base64.StdEncoding.EncodeToString(png) + `"}}]}}]}`
		srv, captured := geminiServer(t, imgReply)
		c, err := newGeminiClient(context.Background(), "test-key", srv.URL+"/")
		if err != nil {
			t.Fatal(err)
		}

		resp, err := c.Generate(context.Background(), Request{Prompt: "draw", WantImage: true, ThinkingBudget: -1})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(resp.Images) != 1 || resp.Images[0].MIMEType != "image/png" || string(resp.Images[0].Data) != string(png) {
			t.Errorf("unexpected images %+v", resp.Images)
		}
		if _, ok := thinkingConfig(*captured); ok {
			t.Errorf("image requests must not carry a thinking config")
		}
	})

	t.Run("MissingImage", func(t *testing.T) {
		srv, _ := geminiServer(t, reply)
		c, err := newGeminiClient(context.Background(), "test-key", srv.URL+"/")
		if err != nil {
			t.Fatal(err)
		}
		_, err = c.Generate(context.Background(), Request{Prompt: "draw", WantImage: true, ThinkingBudget: -1})
		if !errors.Is(err, ErrNoContent) {
			t.Errorf("expected ErrNoContent, got %v", err)
		}
	})
}

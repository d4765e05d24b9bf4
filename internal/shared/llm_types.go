package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// GenerationMeta holds operational metadata for one generative call.
type GenerationMeta struct {
	Kind    string
	Usage   TokenUsage
	Latency time.Duration
	// Outcome is "ok", "failed", "timeout" or "invalid".
	Outcome string
}

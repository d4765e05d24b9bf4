// Package generative turns domain requests into schema-constrained calls
// against the generative service. Every operation resolves to "nothing
// generated" on any failure; the cause is logged and recorded, never
// returned.
package generative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jislas1039-svg/higher-self/internal/llm"
	"github.com/jislas1039-svg/higher-self/internal/logger"
	"github.com/jislas1039-svg/higher-self/internal/shared"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

const (
	DefaultTimeout = 45 * time.Second

	// MaxIntimatePrompts caps the prompts kept from one calibration.
	MaxIntimatePrompts   = 5
	journalHistoryWindow = 3

	outcomeOK      = "ok"
	outcomeFailed  = "failed"
	outcomeTimeout = "timeout"
	outcomeInvalid = "invalid"
)

// Recorder receives one entry per generative call.
type Recorder interface {
	Record(meta shared.GenerationMeta) error
}

type Options struct {
	Tunings  Tunings
	Timeout  time.Duration
	Recorder Recorder
}

// Client is the generative content client.
type Client struct {
	gen      llm.Generator
	log      *logger.Logger
	tunings  Tunings
	timeout  time.Duration
	recorder Recorder
}

func New(gen llm.Generator, log *logger.Logger, opts Options) *Client {
	if opts.Tunings == nil {
		opts.Tunings = DefaultTunings()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		gen:      gen,
		log:      log.With("service", "GenerativeClient"),
		tunings:  opts.Tunings,
		timeout:  opts.Timeout,
		recorder: opts.Recorder,
	}
}

type planPromptData struct {
	wellness.UserProfile
	Goals []string
}

// GeneratePlan returns a fully populated plan or nil.
func (c *Client) GeneratePlan(ctx context.Context, profile wellness.UserProfile) *wellness.Plan {
	prompt, err := render("plan_prompt.md", planPromptData{UserProfile: profile, Goals: profile.GoalNames()})
	if err != nil {
		c.log.Error("failed to render plan prompt", "error", err)
		return nil
	}

	var plan wellness.Plan
	if !c.generateJSON(ctx, KindPlan, prompt, nil, planSchema(), &plan) {
		return nil
	}
	return &plan
}

// GenerateIntimatePrompts returns up to five prompts, or nil.
func (c *Client) GenerateIntimatePrompts(ctx context.Context, answers wellness.QuizAnswers) []string {
	prompt, err := render("intimate_prompts_prompt.md", answers)
	if err != nil {
		c.log.Error("failed to render intimate prompts prompt", "error", err)
		return nil
	}

	var raw struct {
		Prompts []string `json:"prompts"`
	}
	if !c.generateJSON(ctx, KindIntimatePrompts, prompt, nil, intimatePromptsSchema(), &raw) {
		return nil
	}

	out := make([]string, 0, MaxIntimatePrompts)
	for _, p := range raw.Prompts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
		if len(out) == MaxIntimatePrompts {
			break
		}
	}
	if len(out) == 0 {
		c.log.Warn("generation returned no usable prompts", "kind", KindIntimatePrompts)
		return nil
	}
	return out
}

type foodPromptData struct {
	Goals []string
}

// AnalyzeImage sends the photo with the user's goals and returns the
// analysis, or nil.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, mimeType string, goals []string) *wellness.FoodAnalysis {
	if len(image) == 0 {
		return nil
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	prompt, err := render("food_analysis_prompt.md", foodPromptData{Goals: goals})
	if err != nil {
		c.log.Error("failed to render food analysis prompt", "error", err)
		return nil
	}

	var analysis wellness.FoodAnalysis
	attachment := &llm.Attachment{MIMEType: mimeType, Data: image}
	if !c.generateJSON(ctx, KindFoodAnalysis, prompt, attachment, foodAnalysisSchema(), &analysis) {
		return nil
	}
	return &analysis
}

type graphicPromptData struct {
	Name        string
	Description string
}

// GenerateExerciseGraphic returns the first image of the response as a
// data URI. A response without an image part is a failure.
func (c *Client) GenerateExerciseGraphic(ctx context.Context, name, description string) (string, bool) {
	prompt, err := render("exercise_graphic_prompt.md", graphicPromptData{Name: name, Description: strings.TrimSuffix(description, ".")})
	if err != nil {
		c.log.Error("failed to render exercise graphic prompt", "error", err)
		return "", false
	}

	resp, ok := c.call(ctx, KindExerciseGraphic, llm.Request{Prompt: prompt, WantImage: true}, func(resp llm.Response) error {
		if len(resp.Images) == 0 {
			return llm.ErrNoContent
		}
		return nil
	})
	if !ok {
		return "", false
	}
	return resp.Images[0].DataURI(), true
}

type cravingPromptData struct {
	Craving      string
	Restrictions string
	Reference    string
}

// GenerateCravingAlternative returns a healthy take on the craving, or nil.
// reference is optional page text the craving points at.
func (c *Client) GenerateCravingAlternative(ctx context.Context, craving, restrictions, reference string) *wellness.CravingAlternative {
	if strings.TrimSpace(craving) == "" {
		return nil
	}
	prompt, err := render("craving_prompt.md", cravingPromptData{Craving: craving, Restrictions: restrictions, Reference: reference})
	if err != nil {
		c.log.Error("failed to render craving prompt", "error", err)
		return nil
	}

	var alt wellness.CravingAlternative
	if !c.generateJSON(ctx, KindCravingAlternative, prompt, nil, cravingSchema(), &alt) {
		return nil
	}
	return &alt
}

type journalPromptData struct {
	History []string
}

// GenerateJournalPrompt writes one new prompt from the last three
// reflections in history.
func (c *Client) GenerateJournalPrompt(ctx context.Context, history []string) (string, bool) {
	if len(history) > journalHistoryWindow {
		history = history[len(history)-journalHistoryWindow:]
	}
	prompt, err := render("journal_prompt_prompt.md", journalPromptData{History: history})
	if err != nil {
		c.log.Error("failed to render journal prompt", "error", err)
		return "", false
	}

	resp, ok := c.call(ctx, KindJournalPrompt, llm.Request{Prompt: prompt}, func(resp llm.Response) error {
		if strings.TrimSpace(resp.Text) == "" {
			return llm.ErrNoContent
		}
		return nil
	})
	if !ok {
		return "", false
	}
	return strings.TrimSpace(resp.Text), true
}

// generateJSON runs a schema-constrained call, validates the payload
// against the same schema and decodes it into dst.
func (c *Client) generateJSON(ctx context.Context, kind Kind, prompt string, attachment *llm.Attachment, schema *llm.Schema, dst any) bool {
	_, ok := c.call(ctx, kind, llm.Request{Prompt: prompt, Attachment: attachment, Schema: schema}, func(resp llm.Response) error {
		text := stripFences(resp.Text)
		if err := schema.ValidateJSON(text); err != nil {
			return fmt.Errorf("schema validation: %w", err)
		}
		if err := json.Unmarshal([]byte(text), dst); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		return nil
	})
	return ok
}

// call applies the per-kind tuning and the bounded timeout, checks the
// response with accept, then records the outcome. A response accept
// rejects counts as a failure.
func (c *Client) call(ctx context.Context, kind Kind, req llm.Request, accept func(llm.Response) error) (llm.Response, bool) {
	tuning := c.tunings.For(kind)
	req.Model = tuning.Model
	req.ThinkingBudget = tuning.ThinkingBudget

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.gen.Generate(callCtx, req)
	latency := time.Since(start)

	outcome := outcomeOK
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		outcome = outcomeTimeout
	default:
		outcome = outcomeFailed
	}
	if err == nil && accept != nil {
		if err = accept(resp); err != nil {
			outcome = outcomeInvalid
		}
	}

	usage := resp.Usage
	if usage.Model == "" {
		usage.Model = req.Model
	}
	c.record(shared.GenerationMeta{Kind: string(kind), Usage: usage, Latency: latency, Outcome: outcome})

	if err != nil {
		c.log.Warn("generation failed", "kind", kind, "outcome", outcome, "error", err)
		return llm.Response{}, false
	}
	c.log.Debug("generation finished", "kind", kind, "model", usage.Model, "latency", latency)
	return resp, true
}

func (c *Client) record(meta shared.GenerationMeta) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(meta); err != nil {
		c.log.Warn("failed to record generation metrics", "kind", meta.Kind, "error", err)
	}
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package generative

import (
	"context"
	"strings"
	"testing"

	"github.com/jislas1039-svg/higher-self/internal/config"
	"github.com/jislas1039-svg/higher-self/internal/llm"
	"github.com/jislas1039-svg/higher-self/internal/logger"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

// TestGeneratePlan_LiveEval performs a real call to check that the plan
// honors the profile, not just the schema.
// Run with: go test -v ./internal/generative -run LiveEval
func TestGeneratePlan_LiveEval(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping live eval in short mode")
	}

	ctx := context.Background()
	cfg, err := config.NewFromEnv()
	if err != nil || cfg.GeminiAPIKey == "" {
		t.Skip("Skipping: no Gemini API key in environment")
	}

	gen, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer gen.Close()

	c := New(gen, logger.NewNop(), Options{Tunings: TuningsFromConfig(cfg), Timeout: cfg.GenerationTimeout})

	profile := testProfile()
	profile.ExperienceLevel = wellness.ExperienceBeginner
	profile.Goals = []wellness.FitnessGoal{wellness.GoalLongDistanceRunning}
	profile.MedicalIssues = "Recovering from a left knee sprain"

	plan := c.GeneratePlan(ctx, profile)
	if plan == nil {
		t.Fatal("Plan generation failed")
	}

	// EVAL A: a full week.
	if len(plan.Schedule) != 7 {
		t.Errorf("QUALITY FAIL: expected 7 days, got %d", len(plan.Schedule))
	}

	// EVAL B: a running goal should produce running work.
	running := 0
	for _, ex := range plan.Exercises() {
		if ex.Category == wellness.CategoryRunning || ex.Category == wellness.CategoryCardio {
			running++
		}
	}
	if running == 0 {
		t.Errorf("QUALITY FAIL: no running or cardio exercise for a distance runner")
	}

	// EVAL C: dietary restrictions respected in meals.
	for _, meal := range plan.Meals {
		for _, ing := range meal.Ingredients {
			if strings.Contains(strings.ToLower(ing), "cheese") {
				t.Errorf("QUALITY FAIL: %q uses %q despite no dairy", meal.RecipeName, ing)
			}
		}
	}
}

// TestGenerateIntimatePrompts_LiveEval checks the thorough tier end to end.
func TestGenerateIntimatePrompts_LiveEval(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping live eval in short mode")
	}

	ctx := context.Background()
	cfg, err := config.NewFromEnv()
	if err != nil || cfg.GeminiAPIKey == "" {
		t.Skip("Skipping: no Gemini API key in environment")
	}
	gen, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer gen.Close()

	c := New(gen, logger.NewNop(), Options{Tunings: TuningsFromConfig(cfg), Timeout: cfg.GenerationTimeout})
	prompts := c.GenerateIntimatePrompts(ctx, wellness.QuizAnswers{
		Embarrassment:     "I freeze and replay it for days.",
		Friendships:       "I keep a small circle and avoid conflict.",
		Love:              "I want it but I'm scared of being seen.",
		FitnessMotivation: "To trust my body again.",
		Introversion:      "Introvert. I recharge alone with music.",
	})
	if len(prompts) == 0 {
		t.Fatal("No prompts generated")
	}
	for _, p := range prompts {
		if len(strings.Fields(p)) < 5 {
			t.Errorf("QUALITY FAIL: prompt too shallow: %q", p)
		}
	}
}

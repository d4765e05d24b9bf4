package generative

import (
	"github.com/jislas1039-svg/higher-self/internal/config"
)

// Kind names one generative operation.
type Kind string

const (
	KindPlan               Kind = "plan"
	KindIntimatePrompts    Kind = "intimate_prompts"
	KindFoodAnalysis       Kind = "food_analysis"
	KindExerciseGraphic    Kind = "exercise_graphic"
	KindCravingAlternative Kind = "craving_alternative"
	KindJournalPrompt      Kind = "journal_prompt"
)

// Tuning is the per-kind latency/quality trade-off.
type Tuning struct {
	Model string
	// ThinkingBudget is the deliberation budget in tokens; 0 means fastest.
	ThinkingBudget int
}

// ModelDefaultBudget sends no budget at all. Image models take no
// thinking config.
const ModelDefaultBudget = -1

type Tunings map[Kind]Tuning

const (
	fastModel     = "gemini-2.5-flash"
	thoroughModel = "gemini-2.5-pro"
	imageModel    = "gemini-2.5-flash-image"
)

// DefaultTunings keeps every kind on the fast tier except the intimate
// prompts, which run after an explicit quiz and can afford to think.
func DefaultTunings() Tunings {
	return Tunings{
		KindPlan:               {Model: fastModel, ThinkingBudget: 0},
		KindIntimatePrompts:    {Model: thoroughModel, ThinkingBudget: 2000},
		KindFoodAnalysis:       {Model: fastModel, ThinkingBudget: 0},
		KindExerciseGraphic:    {Model: imageModel, ThinkingBudget: ModelDefaultBudget},
		KindCravingAlternative: {Model: fastModel, ThinkingBudget: 0},
		KindJournalPrompt:      {Model: fastModel, ThinkingBudget: 0},
	}
}

// TuningsFromConfig applies the per-kind model overrides.
func TuningsFromConfig(cfg *config.Config) Tunings {
	t := DefaultTunings()
	override := func(k Kind, model string) {
		if model == "" {
			return
		}
		tu := t[k]
		tu.Model = model
		t[k] = tu
	}
	override(KindPlan, cfg.PlanModel)
	override(KindIntimatePrompts, cfg.PromptsModel)
	override(KindFoodAnalysis, cfg.VisionModel)
	override(KindExerciseGraphic, cfg.ImageModel)
	override(KindCravingAlternative, cfg.CravingModel)
	return t
}

func (t Tunings) For(k Kind) Tuning {
	if tu, ok := t[k]; ok {
		return tu
	}
	return Tuning{Model: fastModel}
}

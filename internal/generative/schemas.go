package generative

import (
	"github.com/jislas1039-svg/higher-self/internal/llm"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

func numericMacrosSchema() *llm.Schema {
	return llm.Obj(map[string]*llm.Schema{
		"calories": llm.Num(),
		"protein":  llm.Num(),
		"carbs":    llm.Num(),
		"fat":      llm.Num(),
	})
}

func categoryNames() []string {
	out := make([]string, 0, len(wellness.ExerciseCategories))
	for _, c := range wellness.ExerciseCategories {
		out = append(out, string(c))
	}
	return out
}

// planSchema requires every exercise field, evidence and article included,
// and every macro of every meal.
func planSchema() *llm.Schema {
	exercise := llm.Obj(map[string]*llm.Schema{
		"name":        llm.Str(),
		"reps":        llm.Str(),
		"description": llm.Str(),
		"category":    llm.Enum(categoryNames()...),
		"evidence":    llm.Str(),
		"articleLink": llm.Str(),
	})
	day := llm.Obj(map[string]*llm.Schema{
		"day":       llm.Str(),
		"focus":     llm.Str(),
		"isRest":    llm.Bool(),
		"exercises": llm.Arr(exercise),
	})
	meal := llm.Obj(map[string]*llm.Schema{
		"original":    llm.Str(),
		"alternative": llm.Str(),
		"recipeName":  llm.Str(),
		"ingredients": llm.Arr(llm.Str()),
		"macros":      numericMacrosSchema(),
	})
	return llm.Obj(map[string]*llm.Schema{
		"schedule":       llm.Arr(day),
		"meals":          llm.Arr(meal),
		"journalPrompts": llm.Arr(llm.Str()),
		"introduction":   llm.Str(),
	})
}

// intimatePromptsSchema wraps the list in an object; JSON-object response
// modes cannot return a bare array.
func intimatePromptsSchema() *llm.Schema {
	return llm.Obj(map[string]*llm.Schema{
		"prompts": llm.Arr(llm.Str()),
	})
}

func foodAnalysisSchema() *llm.Schema {
	return llm.Obj(map[string]*llm.Schema{
		"itemName": llm.Str(),
		"macros": llm.Obj(map[string]*llm.Schema{
			"calories": llm.Str(),
			"protein":  llm.Str(),
			"carbs":    llm.Str(),
			"fat":      llm.Str(),
		}),
		"rating":              llm.Enum(string(wellness.RatingGreen), string(wellness.RatingYellow), string(wellness.RatingRed)),
		"ingredientsAnalysis": llm.Arr(llm.Str()),
		"verdict":             llm.Str(),
	})
}

func cravingSchema() *llm.Schema {
	return llm.Obj(map[string]*llm.Schema{
		"recipeName":       llm.Str(),
		"philosophy":       llm.Str(),
		"basicIngredients": llm.Arr(llm.Str()),
		"extraAddOns":      llm.Arr(llm.Str()),
		"instructions":     llm.Str(),
		"macros":           numericMacrosSchema(),
	})
}

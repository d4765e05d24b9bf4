package wellness

import "slices"

type ExerciseCategory string

const (
	CategoryStrength    ExerciseCategory = "strength"
	CategoryMobility    ExerciseCategory = "mobility"
	CategoryPilates     ExerciseCategory = "pilates"
	CategoryCardio      ExerciseCategory = "cardio"
	CategoryRunning     ExerciseCategory = "running"
	CategoryFlexibility ExerciseCategory = "flexibility"
)

var ExerciseCategories = []ExerciseCategory{
	CategoryStrength, CategoryMobility, CategoryPilates,
	CategoryCardio, CategoryRunning, CategoryFlexibility,
}

type Exercise struct {
	Name        string           `json:"name"`
	Reps        string           `json:"reps"`
	Description string           `json:"description"`
	Category    ExerciseCategory `json:"category"`
	Evidence    string           `json:"evidence,omitempty"`
	ArticleLink string           `json:"articleLink,omitempty"`
}

type WorkoutDay struct {
	Day       string     `json:"day"`
	Focus     string     `json:"focus"`
	IsRest    bool       `json:"isRest"`
	Exercises []Exercise `json:"exercises"`
}

type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type MealRecommendation struct {
	Original    string   `json:"original"`
	Alternative string   `json:"alternative"`
	RecipeName  string   `json:"recipeName"`
	Ingredients []string `json:"ingredients"`
	Macros      Macros   `json:"macros"`
}

// Plan is the one-shot bundle generated when onboarding completes.
type Plan struct {
	Schedule       []WorkoutDay         `json:"schedule"`
	Meals          []MealRecommendation `json:"meals"`
	JournalPrompts []string             `json:"journalPrompts"`
	Introduction   string               `json:"introduction"`
}

// Exercises returns every exercise of the schedule in order.
func (p Plan) Exercises() []Exercise {
	var out []Exercise
	for _, d := range p.Schedule {
		out = append(out, d.Exercises...)
	}
	return out
}

// Clone copies p down to the exercise and ingredient lists.
func (p Plan) Clone() Plan {
	if p.Schedule != nil {
		schedule := make([]WorkoutDay, len(p.Schedule))
		for i, d := range p.Schedule {
			d.Exercises = slices.Clone(d.Exercises)
			schedule[i] = d
		}
		p.Schedule = schedule
	}
	if p.Meals != nil {
		meals := make([]MealRecommendation, len(p.Meals))
		for i, m := range p.Meals {
			m.Ingredients = slices.Clone(m.Ingredients)
			meals[i] = m
		}
		p.Meals = meals
	}
	p.JournalPrompts = slices.Clone(p.JournalPrompts)
	return p
}

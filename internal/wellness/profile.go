package wellness

import "slices"

// BodyType is the self-reported starting body composition.
type BodyType string

const (
	BodyTypeSkinnyFat   BodyType = "Skinny Fat"
	BodyTypeEctomorphic BodyType = "Ectomorphic (Lean/Skinny)"
	BodyTypeMesomorphic BodyType = "Mesomorphic (Athletic/Defined)"
	BodyTypeEndomorphic BodyType = "Endomorphic (Strong/Heavy)"
)

var BodyTypes = []BodyType{BodyTypeSkinnyFat, BodyTypeEctomorphic, BodyTypeMesomorphic, BodyTypeEndomorphic}

// ExperienceLevel calibrates plan intensity.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner (The Awakening)"
	ExperienceIntermediate ExperienceLevel = "Intermediate (The Shift)"
	ExperiencePro          ExperienceLevel = "Pro (The Master)"
)

var ExperienceLevels = []ExperienceLevel{ExperienceBeginner, ExperienceIntermediate, ExperiencePro}

type FitnessGoal string

const (
	GoalSlim                FitnessGoal = "Slim"
	GoalSlimThick           FitnessGoal = "Slim Thick"
	GoalToned               FitnessGoal = "Toned"
	GoalCalisthenics        FitnessGoal = "Calisthenics"
	GoalCardio              FitnessGoal = "Cardio"
	GoalFlexibility         FitnessGoal = "Flexibility"
	GoalMuscleHypertrophy   FitnessGoal = "Muscle Hypertrophy"
	GoalStrength            FitnessGoal = "Strength"
	GoalRunningSplits       FitnessGoal = "Running (Splits & Strides)"
	GoalLongDistanceRunning FitnessGoal = "Long Distance Running"
	GoalFlexibilitySplits   FitnessGoal = "Flexibility (Path to Splits)"
	GoalBulkingProtocol     FitnessGoal = "Bulking & Mass Gain"
)

var FitnessGoals = []FitnessGoal{
	GoalSlim, GoalSlimThick, GoalToned, GoalCalisthenics, GoalCardio, GoalFlexibility,
	GoalMuscleHypertrophy, GoalStrength, GoalRunningSplits, GoalLongDistanceRunning,
	GoalFlexibilitySplits, GoalBulkingProtocol,
}

var FocusAreas = []string{
	"Inner Thighs",
	"Outer Thighs",
	"Midsection/Abs",
	"Love Handles",
	"Chest/Pectorals",
	"Glutes",
	"Triceps/Arm Fat",
}

var Cuisines = []string{
	"Asian", "American", "Italian", "Mediterranean", "Mexican",
	"Indian", "French", "Middle Eastern", "Healthy Fusion",
}

const DefaultDailyStepGoal = 8000

// UserProfile is created once, when onboarding completes.
type UserProfile struct {
	Name                string          `json:"name"`
	Pronouns            string          `json:"pronouns"`
	Height              string          `json:"height"`
	CurrentWeight       string          `json:"currentWeight"`
	TargetWeight        string          `json:"targetWeight"`
	BodyType            BodyType        `json:"bodyType"`
	ExperienceLevel     ExperienceLevel `json:"experienceLevel"`
	Goals               []FitnessGoal   `json:"goals"`
	FatFocusAreas       []string        `json:"fatFocusAreas"`
	Cuisines            []string        `json:"cuisines"`
	FavoriteFoods       []string        `json:"favoriteFoods"`
	DietaryRestrictions string          `json:"dietaryRestrictions"`
	MedicalIssues       string          `json:"medicalIssues"`
	DailyStepGoal       int             `json:"dailyStepGoal"`
	HasOnboarded        bool            `json:"hasOnboarded"`
}

// NewDraftProfile returns the onboarding starting point.
func NewDraftProfile() UserProfile {
	return UserProfile{
		ExperienceLevel: ExperienceBeginner,
		Goals:           []FitnessGoal{},
		FatFocusAreas:   []string{},
		Cuisines:        []string{},
		FavoriteFoods:   []string{},
		DailyStepGoal:   DefaultDailyStepGoal,
	}
}

// GoalNames returns the goals as plain strings, in selection order.
func (p UserProfile) GoalNames() []string {
	out := make([]string, 0, len(p.Goals))
	for _, g := range p.Goals {
		out = append(out, string(g))
	}
	return out
}

// ToggleGoal adds the goal if absent and removes it otherwise.
func (p *UserProfile) ToggleGoal(g FitnessGoal) {
	for i, existing := range p.Goals {
		if existing == g {
			p.Goals = append(p.Goals[:i], p.Goals[i+1:]...)
			return
		}
	}
	p.Goals = append(p.Goals, g)
}

func (p *UserProfile) ToggleFocusArea(area string) {
	p.FatFocusAreas = toggle(p.FatFocusAreas, area)
}

func (p *UserProfile) ToggleCuisine(c string) {
	p.Cuisines = toggle(p.Cuisines, c)
}

func toggle(set []string, v string) []string {
	for i, existing := range set {
		if existing == v {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, v)
}

// Clone copies p, including its slices.
func (p UserProfile) Clone() UserProfile {
	p.Goals = slices.Clone(p.Goals)
	p.FatFocusAreas = slices.Clone(p.FatFocusAreas)
	p.Cuisines = slices.Clone(p.Cuisines)
	p.FavoriteFoods = slices.Clone(p.FavoriteFoods)
	return p
}

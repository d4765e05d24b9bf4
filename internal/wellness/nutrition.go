package wellness

type Rating string

const (
	RatingGreen  Rating = "green"
	RatingYellow Rating = "yellow"
	RatingRed    Rating = "red"
)

// FoodMacros are display strings as read off a label ("12g", "~250 kcal").
type FoodMacros struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

type FoodAnalysis struct {
	ItemName            string     `json:"itemName"`
	Macros              FoodMacros `json:"macros"`
	Rating              Rating     `json:"rating"`
	IngredientsAnalysis []string   `json:"ingredientsAnalysis"`
	Verdict             string     `json:"verdict"`
}

type CravingAlternative struct {
	RecipeName       string   `json:"recipeName"`
	Philosophy       string   `json:"philosophy"`
	BasicIngredients []string `json:"basicIngredients"`
	ExtraAddOns      []string `json:"extraAddOns"`
	Instructions     string   `json:"instructions"`
	Macros           Macros   `json:"macros"`
}

// FrequencyMode is a sine tone preset for the mindfulness player.
type FrequencyMode struct {
	Name        string
	Hz          float64
	Band        string
	Description string
}

var FrequencyModes = []FrequencyMode{
	{Name: "Pure Clarity", Hz: 432, Band: "Alpha", Description: "Enhances focus and mental organization."},
	{Name: "Deep Restoration", Hz: 174, Band: "Delta", Description: "Promotes physical healing and deep rest."},
	{Name: "Subconscious Cleanse", Hz: 528, Band: "Theta", Description: "Unlocks creative blocks and heals the inner self."},
}

// MeditationSessionMinutes is what one logged session contributes.
const MeditationSessionMinutes = 10

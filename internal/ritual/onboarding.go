package ritual

import (
	"errors"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

const OnboardingSteps = 8

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	oneOf := func(allowed []string) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return slices.Contains(allowed, fl.Field().String())
		}
	}
	_ = v.RegisterValidation("body_type", oneOf(stringsOf(wellness.BodyTypes)))
	_ = v.RegisterValidation("experience_level", oneOf(stringsOf(wellness.ExperienceLevels)))
	_ = v.RegisterValidation("fitness_goal", oneOf(stringsOf(wellness.FitnessGoals)))
	_ = v.RegisterValidation("focus_area", oneOf(wellness.FocusAreas))
	_ = v.RegisterValidation("cuisine", oneOf(wellness.Cuisines))
	return v
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

type identityStep struct {
	Name     string `validate:"required"`
	Pronouns string `validate:"required"`
}

type metricsStep struct {
	Height        string `validate:"required"`
	CurrentWeight string `validate:"required"`
	TargetWeight  string `validate:"required"`
}

type experienceStep struct {
	ExperienceLevel string `validate:"experience_level"`
}

type bodyStep struct {
	BodyType string `validate:"body_type"`
}

type goalsStep struct {
	Goals []string `validate:"min=1,dive,fitness_goal"`
}

type focusStep struct {
	FatFocusAreas []string `validate:"dive,focus_area"`
}

type palateStep struct {
	Cuisines []string `validate:"dive,cuisine"`
}

type stepGoalStep struct {
	DailyStepGoal int `validate:"gt=0"`
}

// FieldError names a field that blocks forward navigation.
type FieldError struct {
	Field string
	Rule  string
}

// Onboarding is the linear 8-step wizard. Nothing is persisted until the
// final step's plan arrives.
type Onboarding struct {
	Step       int
	Draft      wellness.UserProfile
	Generating bool
	Done       bool
}

func NewOnboarding() Onboarding {
	return Onboarding{Step: 1, Draft: wellness.NewDraftProfile()}
}

// Next validates the current step. On success it advances, or on the last
// step asks for the plan. On failure the state is unchanged.
func (o Onboarding) Next() (Onboarding, []Effect, []FieldError) {
	if o.Generating || o.Done {
		return o, nil, nil
	}
	if errs := validateStep(o.Step, o.Draft); len(errs) > 0 {
		return o, nil, errs
	}
	if o.Step < OnboardingSteps {
		o.Step++
		return o, nil, nil
	}
	o.Generating = true
	return o, []Effect{GeneratePlan{Profile: o.Draft}}, nil
}

// Back moves one step back without re-validating.
func (o Onboarding) Back() Onboarding {
	if o.Generating || o.Done || o.Step <= 1 {
		return o
	}
	o.Step--
	return o
}

// PlanReady receives the plan generation result. Without a plan the wizard
// stays on the last step so the user can retry.
func (o Onboarding) PlanReady(plan *wellness.Plan) (Onboarding, []Effect) {
	if !o.Generating {
		return o, nil
	}
	o.Generating = false
	if plan == nil {
		return o, []Effect{Notify{Notice: NoticePlanFailed}}
	}
	o.Done = true
	profile := o.Draft
	profile.HasOnboarded = true
	return o, []Effect{CompleteOnboarding{Profile: profile, Plan: *plan}}
}

func validateStep(step int, p wellness.UserProfile) []FieldError {
	var target any
	switch step {
	case 1:
		target = identityStep{Name: strings.TrimSpace(p.Name), Pronouns: strings.TrimSpace(p.Pronouns)}
	case 2:
		target = metricsStep{
			Height:        strings.TrimSpace(p.Height),
			CurrentWeight: strings.TrimSpace(p.CurrentWeight),
			TargetWeight:  strings.TrimSpace(p.TargetWeight),
		}
	case 3:
		target = experienceStep{ExperienceLevel: string(p.ExperienceLevel)}
	case 4:
		target = bodyStep{BodyType: string(p.BodyType)}
	case 5:
		target = goalsStep{Goals: p.GoalNames()}
	case 6:
		target = focusStep{FatFocusAreas: p.FatFocusAreas}
	case 7:
		target = palateStep{Cuisines: p.Cuisines}
	case 8:
		target = stepGoalStep{DailyStepGoal: p.DailyStepGoal}
	default:
		return []FieldError{{Field: "Step", Rule: "range"}}
	}

	err := validate.Struct(target)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "Step", Rule: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.StructField(), Rule: fe.Tag()})
	}
	return out
}

package ritual

import (
	"testing"

	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

func TestOnboarding_StepOneGating(t *testing.T) {
	o := NewOnboarding()

	o, effects, errs := o.Next()
	if o.Step != 1 || len(effects) != 0 {
		t.Fatalf("empty name must not advance, at step %d", o.Step)
	}
	if len(errs) != 2 {
		t.Errorf("expected name and pronouns errors, got %v", errs)
	}

	o.Draft.Name = "   "
	o.Draft.Pronouns = "they/them"
	if o, _, errs = o.Next(); o.Step != 1 || len(errs) != 1 || errs[0].Field != "Name" {
		t.Fatalf("blank name must not advance, got step %d errs %v", o.Step, errs)
	}

	o.Draft.Name = "Sam"
	o, _, errs = o.Next()
	if o.Step != 2 || len(errs) != 0 {
		t.Fatalf("expected step 2, got %d (%v)", o.Step, errs)
	}
}

func completeDraft() wellness.UserProfile {
	p := wellness.NewDraftProfile()
	p.Name = "Sam"
	p.Pronouns = "they/them"
	p.Height = "180cm"
	p.CurrentWeight = "80kg"
	p.TargetWeight = "75kg"
	p.BodyType = wellness.BodyTypeMesomorphic
	p.Goals = []wellness.FitnessGoal{wellness.GoalStrength}
	p.FatFocusAreas = []string{"Glutes"}
	p.Cuisines = []string{"Italian"}
	return p
}

func TestOnboarding_FullFlow(t *testing.T) {
	o := NewOnboarding()
	o.Draft = completeDraft()

	for step := 1; step < OnboardingSteps; step++ {
		var errs []FieldError
		o, _, errs = o.Next()
		if len(errs) != 0 {
			t.Fatalf("step %d rejected: %v", step, errs)
		}
	}
	if o.Step != OnboardingSteps {
		t.Fatalf("expected last step, got %d", o.Step)
	}

	o, effects, _ := o.Next()
	if !o.Generating || len(effects) != 1 {
		t.Fatalf("last step should request the plan, got %+v %v", o, effects)
	}
	gen, ok := effects[0].(GeneratePlan)
	if !ok || gen.Profile.Name != "Sam" || gen.Profile.DailyStepGoal != wellness.DefaultDailyStepGoal {
		t.Fatalf("unexpected effect %+v", effects[0])
	}

	// Input is blocked while generating.
	if o2, eff, _ := o.Next(); eff != nil || o2.Step != o.Step {
		t.Error("next while generating must be ignored")
	}

	t.Run("Failure", func(t *testing.T) {
		failed, effects := o.PlanReady(nil)
		if failed.Done || failed.Generating || failed.Step != OnboardingSteps {
			t.Errorf("failure must stay on the last step, got %+v", failed)
		}
		if countNotices(effects, NoticePlanFailed) != 1 {
			t.Errorf("expected failure notice, got %v", effects)
		}
		for _, e := range effects {
			if _, ok := e.(CompleteOnboarding); ok {
				t.Error("nothing may be persisted on failure")
			}
		}
	})

	t.Run("Success", func(t *testing.T) {
		plan := &wellness.Plan{JournalPrompts: []string{"p"}}
		done, effects := o.PlanReady(plan)
		if !done.Done {
			t.Error("expected done")
		}
		complete, ok := effects[0].(CompleteOnboarding)
		if !ok || !complete.Profile.HasOnboarded || complete.Plan.JournalPrompts[0] != "p" {
			t.Errorf("unexpected completion %+v", effects)
		}
	})
}

func TestOnboarding_StepValidation(t *testing.T) {
	tests := []struct {
		name   string
		step   int
		mutate func(p *wellness.UserProfile)
		field  string
	}{
		{"metrics missing target", 2, func(p *wellness.UserProfile) { p.TargetWeight = "" }, "TargetWeight"},
		{"unknown experience", 3, func(p *wellness.UserProfile) { p.ExperienceLevel = "Wizard" }, "ExperienceLevel"},
		{"no body type", 4, func(p *wellness.UserProfile) { p.BodyType = "" }, "BodyType"},
		{"no goals", 5, func(p *wellness.UserProfile) { p.Goals = nil }, "Goals"},
		{"unknown goal", 5, func(p *wellness.UserProfile) { p.Goals = []wellness.FitnessGoal{"Flying"} }, "Goals[0]"},
		{"unknown focus area", 6, func(p *wellness.UserProfile) { p.FatFocusAreas = []string{"Ears"} }, "FatFocusAreas[0]"},
		{"unknown cuisine", 7, func(p *wellness.UserProfile) { p.Cuisines = []string{"Martian"} }, "Cuisines[0]"},
		{"zero step goal", 8, func(p *wellness.UserProfile) { p.DailyStepGoal = 0 }, "DailyStepGoal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Onboarding{Step: tt.step, Draft: completeDraft()}
			tt.mutate(&o.Draft)
			next, effects, errs := o.Next()
			if next.Step != tt.step || len(effects) != 0 {
				t.Fatalf("expected to stay on step %d", tt.step)
			}
			if len(errs) != 1 || errs[0].Field != tt.field {
				t.Errorf("expected error on %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestOnboarding_OptionalSteps(t *testing.T) {
	o := Onboarding{Step: 6, Draft: completeDraft()}
	o.Draft.FatFocusAreas = nil
	o.Draft.Cuisines = nil

	o, _, errs := o.Next()
	if len(errs) != 0 || o.Step != 7 {
		t.Fatalf("focus areas are optional, got %v", errs)
	}
	o, _, errs = o.Next()
	if len(errs) != 0 || o.Step != 8 {
		t.Fatalf("palate is optional, got %v", errs)
	}
}

func TestOnboarding_BackIsUnrestricted(t *testing.T) {
	o := Onboarding{Step: 5, Draft: wellness.NewDraftProfile()}
	o = o.Back().Back().Back().Back().Back()
	if o.Step != 1 {
		t.Errorf("expected step 1, got %d", o.Step)
	}
}

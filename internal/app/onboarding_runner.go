package app

import (
	"context"
	"sync"

	"github.com/jislas1039-svg/higher-self/internal/ritual"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

// OnboardingRunner drives the wizard. The profile and plan are persisted
// together once the plan arrives, never before.
type OnboardingRunner struct {
	app *App

	mu     sync.Mutex
	wizard ritual.Onboarding
}

func (a *App) NewOnboardingRunner() *OnboardingRunner {
	return &OnboardingRunner{app: a, wizard: ritual.NewOnboarding()}
}

func (r *OnboardingRunner) State() ritual.Onboarding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wizard
}

// Edit changes the draft in place. Edits are ignored while the plan is
// being generated.
func (r *OnboardingRunner) Edit(fn func(p *wellness.UserProfile)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wizard.Generating || r.wizard.Done {
		return
	}
	fn(&r.wizard.Draft)
}

// Next validates the current step and advances. On the last step it blocks
// until the plan is generated and saved, or has failed.
func (r *OnboardingRunner) Next(ctx context.Context) []ritual.FieldError {
	r.mu.Lock()
	next, effects, errs := r.wizard.Next()
	r.wizard = next
	r.mu.Unlock()

	r.run(ctx, effects)
	return errs
}

func (r *OnboardingRunner) Back() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wizard = r.wizard.Back()
}

func (r *OnboardingRunner) run(ctx context.Context, effects []ritual.Effect) {
	for len(effects) > 0 {
		e := effects[0]
		effects = effects[1:]

		gen, ok := e.(ritual.GeneratePlan)
		if !ok {
			if !r.app.apply(ctx, e) {
				r.app.log.Warn("Unhandled onboarding effect", "effect", e)
			}
			continue
		}

		plan := r.app.content.GeneratePlan(ctx, gen.Profile)
		r.mu.Lock()
		var next []ritual.Effect
		r.wizard, next = r.wizard.PlanReady(plan)
		r.mu.Unlock()
		effects = append(effects, next...)
	}
}

package app

import (
	"context"
	"sync"

	"github.com/jislas1039-svg/higher-self/internal/ritual"
)

// JournalRunner drives the calibration quiz and prompt rotation. Prompts
// start from the plan; calibrated prompts live for the runner's lifetime.
type JournalRunner struct {
	app *App

	mu      sync.Mutex
	journal ritual.Journal
}

func (a *App) NewJournalRunner() *JournalRunner {
	var prompts []string
	if plan, ok := a.store.Plan(); ok {
		prompts = plan.JournalPrompts
	}
	return &JournalRunner{app: a, journal: ritual.NewJournal(prompts)}
}

func (r *JournalRunner) State() ritual.Journal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.journal
}

func (r *JournalRunner) StartQuiz() error {
	return r.transition(func(j ritual.Journal) (ritual.Journal, error) { return j.StartQuiz() })
}

func (r *JournalRunner) Open() error {
	return r.transition(func(j ritual.Journal) (ritual.Journal, error) { return j.Open() })
}

// Leave exits the quiz or journaling without saving.
func (r *JournalRunner) Leave() error {
	return r.transition(func(j ritual.Journal) (ritual.Journal, error) { return j.Close() })
}

// Answer records a quiz answer. The last answer blocks until calibration
// resolves, successfully or not.
func (r *JournalRunner) Answer(ctx context.Context, text string) error {
	r.mu.Lock()
	next, effects, err := r.journal.Answer(text)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.journal = next
	r.mu.Unlock()

	r.run(ctx, effects)
	return nil
}

// Submit saves the entry for the current prompt.
func (r *JournalRunner) Submit(ctx context.Context, content string) error {
	r.mu.Lock()
	next, effects, err := r.journal.Submit(content)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.journal = next
	r.mu.Unlock()

	r.run(ctx, effects)
	return nil
}

func (r *JournalRunner) transition(fn func(ritual.Journal) (ritual.Journal, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := fn(r.journal)
	if err != nil {
		return err
	}
	r.journal = next
	return nil
}

func (r *JournalRunner) run(ctx context.Context, effects []ritual.Effect) {
	for len(effects) > 0 {
		e := effects[0]
		effects = effects[1:]

		gen, ok := e.(ritual.GeneratePrompts)
		if !ok {
			if !r.app.apply(ctx, e) {
				r.app.log.Warn("Unhandled journal effect", "effect", e)
			}
			continue
		}

		prompts := r.app.content.GenerateIntimatePrompts(ctx, gen.Answers)
		r.mu.Lock()
		var next []ritual.Effect
		r.journal, next = r.journal.PromptsReady(prompts)
		r.mu.Unlock()
		effects = append(effects, next...)
	}
}

// Package app is the application context. It is built once at startup and
// owns every component the presentation layer talks to.
package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jislas1039-svg/higher-self/internal/clipper"
	"github.com/jislas1039-svg/higher-self/internal/config"
	"github.com/jislas1039-svg/higher-self/internal/device"
	"github.com/jislas1039-svg/higher-self/internal/imagecache"
	"github.com/jislas1039-svg/higher-self/internal/logger"
	"github.com/jislas1039-svg/higher-self/internal/progress"
	"github.com/jislas1039-svg/higher-self/internal/ritual"
	"github.com/jislas1039-svg/higher-self/internal/state"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

var (
	// ErrPlanUnavailable means the generative service produced no plan.
	ErrPlanUnavailable = errors.New("plan could not be generated")
	// ErrNothingGenerated means an on-demand generation came back empty.
	ErrNothingGenerated = errors.New("nothing generated")
)

// Content is the generative surface the app depends on.
type Content interface {
	GeneratePlan(ctx context.Context, profile wellness.UserProfile) *wellness.Plan
	GenerateIntimatePrompts(ctx context.Context, answers wellness.QuizAnswers) []string
	AnalyzeImage(ctx context.Context, image []byte, mimeType string, goals []string) *wellness.FoodAnalysis
	GenerateExerciseGraphic(ctx context.Context, name, description string) (string, bool)
	GenerateCravingAlternative(ctx context.Context, craving, restrictions, reference string) *wellness.CravingAlternative
	GenerateJournalPrompt(ctx context.Context, history []string) (string, bool)
}

// PageFetcher reduces a URL to readable text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*clipper.Page, error)
}

// TickerFunc starts a periodic ticker and returns its channel and stop func.
type TickerFunc func(every time.Duration) (<-chan time.Time, func())

func realTicker(every time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(every)
	return t.C, t.Stop
}

// Deps are the components New wires together. Config, Camera, Audio,
// Clipper, OnNotice, Now and Tickers are optional.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    *state.Store
	Content  Content
	Clipper  PageFetcher
	Camera   device.Camera
	Audio    device.Audio
	OnNotice func(ritual.Notice)
	Now      func() time.Time
	Tickers  TickerFunc
	Closers  []io.Closer
}

// App holds the application's dependencies.
type App struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *state.Store
	content  Content
	images   *imagecache.Cache
	clipper  PageFetcher
	camera   device.Camera
	audio    device.Audio
	onNotice func(ritual.Notice)
	now      func() time.Time
	tickers  TickerFunc
	closers  []io.Closer
}

// New creates and initializes a new App instance.
func New(deps Deps) *App {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{ImageCacheKeying: config.KeyingByName}
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	a := &App{
		cfg:      cfg,
		log:      log.With("service", "App"),
		store:    deps.Store,
		content:  deps.Content,
		clipper:  deps.Clipper,
		camera:   deps.Camera,
		audio:    deps.Audio,
		onNotice: deps.OnNotice,
		now:      deps.Now,
		tickers:  deps.Tickers,
		closers:  deps.Closers,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.tickers == nil {
		a.tickers = realTicker
	}
	a.images = imagecache.New(deps.Content, deps.Store, log, cfg.ImageCacheKeying)
	return a
}

// Close releases the backing resources in reverse order of acquisition.
// Runners must be closed by their owners first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.log.Sync()
	return errors.Join(errs...)
}

func (a *App) Config() *config.Config { return a.cfg }

func (a *App) Snapshot() state.Snapshot { return a.store.Snapshot() }

// Progress is today's completion percentage, or 0 before onboarding.
func (a *App) Progress() int {
	profile, ok := a.store.Profile()
	if !ok {
		return 0
	}
	return progress.Compute(a.store.Stats(), profile)
}

// CompleteOnboarding generates the plan for profile and persists both. It
// is the non-interactive counterpart of the onboarding wizard.
func (a *App) CompleteOnboarding(ctx context.Context, profile wellness.UserProfile) (wellness.Plan, error) {
	if p, ok := a.store.Profile(); ok && p.HasOnboarded {
		return wellness.Plan{}, state.ErrAlreadyOnboarded
	}
	plan := a.content.GeneratePlan(ctx, profile)
	if plan == nil {
		return wellness.Plan{}, ErrPlanUnavailable
	}
	if err := a.onboard(ctx, profile, *plan); err != nil {
		return wellness.Plan{}, err
	}
	a.log.Info("Onboarding complete", "name", profile.Name, "days", len(plan.Schedule))
	return *plan, nil
}

// onboard stores profile and plan and starts the activity clock, so the
// sedentary check has a baseline from the first day.
func (a *App) onboard(ctx context.Context, profile wellness.UserProfile, plan wellness.Plan) error {
	if err := a.store.CompleteOnboarding(ctx, profile, plan); err != nil {
		return err
	}
	a.store.UpdateStats(ctx, wellness.ActiveAt(a.now()))
	return nil
}

func (a *App) CompleteWorkout(ctx context.Context) wellness.DailyStats {
	done := true
	patch := wellness.ActiveAt(a.now())
	patch.WorkoutCompleted = &done
	return a.store.UpdateStats(ctx, patch)
}

// LogMeditation records one finished meditation session.
func (a *App) LogMeditation(ctx context.Context) wellness.DailyStats {
	return a.store.UpdateStats(ctx, wellness.StatsPatch{AddMeditation: wellness.MeditationSessionMinutes})
}

// RecordSteps takes a pedometer reading. The reading replaces the step
// count and counts as activity.
func (a *App) RecordSteps(ctx context.Context, steps int) wellness.DailyStats {
	if steps < 0 {
		steps = 0
	}
	patch := wellness.ActiveAt(a.now())
	patch.Steps = &steps
	return a.store.UpdateStats(ctx, patch)
}

func (a *App) ToggleTheme(ctx context.Context) wellness.Theme {
	return a.store.ToggleTheme(ctx)
}

// TransformCraving proposes a healthier version of craving. A craving that
// is a link is fetched first and passed along as the reference recipe.
func (a *App) TransformCraving(ctx context.Context, craving string) (*wellness.CravingAlternative, error) {
	craving = strings.TrimSpace(craving)
	if craving == "" {
		return nil, ErrNothingGenerated
	}

	var reference string
	if clipper.IsURL(craving) && a.clipper != nil {
		page, err := a.clipper.Fetch(ctx, craving)
		if err != nil {
			a.log.Warn("Failed to fetch craving link, using it verbatim", "url", craving, "error", err)
		} else {
			reference = page.Text
			if page.Title != "" {
				craving = page.Title
			}
		}
	}

	var restrictions string
	if p, ok := a.store.Profile(); ok {
		restrictions = p.DietaryRestrictions
	}

	alt := a.content.GenerateCravingAlternative(ctx, craving, restrictions, reference)
	if alt == nil {
		return nil, ErrNothingGenerated
	}
	return alt, nil
}

// ExpandExercise returns the exercise graphic, generating it on first use.
func (a *App) ExpandExercise(ctx context.Context, ex wellness.Exercise) (string, bool) {
	return a.images.Expand(ctx, ex)
}

// ExerciseGenerating reports whether a graphic for ex is in flight.
func (a *App) ExerciseGenerating(ex wellness.Exercise) bool {
	return a.images.Generating(ex)
}

// PrefetchDay warms the graphics of one workout day.
func (a *App) PrefetchDay(ctx context.Context, day int) (int, error) {
	plan, ok := a.store.Plan()
	if !ok || day < 0 || day >= len(plan.Schedule) {
		return 0, ErrPlanUnavailable
	}
	return a.images.Prefetch(ctx, plan.Schedule[day].Exercises, 0)
}

// NextJournalPrompt asks for a fresh prompt based on recent entries.
func (a *App) NextJournalPrompt(ctx context.Context) (string, error) {
	entries := a.store.Snapshot().Journal
	history := make([]string, 0, len(entries))
	for _, e := range entries {
		history = append(history, e.Content)
	}
	prompt, ok := a.content.GenerateJournalPrompt(ctx, history)
	if !ok {
		return "", ErrNothingGenerated
	}
	return prompt, nil
}

func (a *App) notify(n ritual.Notice) {
	a.log.Info("Notice", "notice", n)
	if a.onNotice != nil {
		a.onNotice(n)
	}
}

// apply performs the effects that only touch the store or the user. It
// reports false for effects owned by a runner.
func (a *App) apply(ctx context.Context, e ritual.Effect) bool {
	switch e := e.(type) {
	case ritual.AddSteps:
		a.store.UpdateStats(ctx, wellness.StatsPatch{AddSteps: e.Steps})
	case ritual.StampActivity:
		a.store.UpdateStats(ctx, wellness.ActiveAt(a.now()))
	case ritual.Notify:
		a.notify(e.Notice)
	case ritual.CompleteOnboarding:
		if err := a.onboard(ctx, e.Profile, e.Plan); err != nil {
			a.log.Warn("Onboarding not saved", "error", err)
		}
	case ritual.SaveJournalEntry:
		a.store.AppendJournal(ctx, wellness.NewJournalEntry(e.Prompt, e.Content, a.now()))
		done := true
		a.store.UpdateStats(ctx, wellness.StatsPatch{JournalCompleted: &done})
	default:
		return false
	}
	return true
}

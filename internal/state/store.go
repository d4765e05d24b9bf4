// Package state holds the persisted application records and owns their
// load, save and eviction policy.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jislas1039-svg/higher-self/internal/logger"
	"github.com/jislas1039-svg/higher-self/internal/progress"
	"github.com/jislas1039-svg/higher-self/internal/storage"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

// ErrAlreadyOnboarded is returned when a second profile/plan pair is offered.
var ErrAlreadyOnboarded = errors.New("profile already onboarded")

type Options struct {
	// DailyReset zeroes the counters when the local calendar day changes.
	DailyReset bool
	Now        func() time.Time
}

// Store is the single shared mutable resource. Every mutation runs a full
// save pass after the in-memory change.
type Store struct {
	mu      sync.Mutex
	backend storage.Backend
	log     *logger.Logger
	opts    Options

	profile *wellness.UserProfile
	plan    *wellness.Plan
	stats   wellness.DailyStats
	journal []wellness.JournalEntry
	theme   wellness.Theme
	images  map[string]string
}

// Snapshot is a copy of every record, safe to hand to a view.
type Snapshot struct {
	Profile *wellness.UserProfile
	Plan    *wellness.Plan
	Stats   wellness.DailyStats
	Journal []wellness.JournalEntry
	Theme   wellness.Theme
}

// Load reads every slot. It never fails: absent or corrupt slots fall back
// to their defaults.
func Load(ctx context.Context, backend storage.Backend, log *logger.Logger, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{
		backend: backend,
		log:     log.With("service", "StateStore"),
		opts:    opts,
		theme:   wellness.ThemeLight,
		images:  map[string]string{},
		journal: []wellness.JournalEntry{},
	}

	var profile wellness.UserProfile
	if s.decode(ctx, KeyProfile, &profile) {
		s.profile = &profile
	}
	var plan wellness.Plan
	if s.decode(ctx, KeyPlan, &plan) {
		s.plan = &plan
	}
	var stats wellness.DailyStats
	if s.decode(ctx, KeyStats, &stats) {
		s.stats = stats
	}
	var journal []wellness.JournalEntry
	if s.decode(ctx, KeyJournal, &journal) && journal != nil {
		s.journal = journal
	}
	var theme wellness.Theme
	if s.decode(ctx, KeyTheme, &theme) && theme.Valid() {
		s.theme = theme
	}
	var images map[string]string
	if s.decode(ctx, KeyImages, &images) && images != nil {
		s.images = images
	}

	s.rollDay()
	return s
}

// decode reports whether key held a parseable, non-null value.
func (s *Store) decode(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Warn("failed to read record, using default", "key", key, "error", err)
		return false
	}
	if !ok || raw == "" || raw == "null" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warn("corrupt record, using default", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Stats:   s.stats,
		Journal: append([]wellness.JournalEntry(nil), s.journal...),
		Theme:   s.theme,
	}
	if s.profile != nil {
		p := s.profile.Clone()
		snap.Profile = &p
	}
	if s.plan != nil {
		p := s.plan.Clone()
		snap.Plan = &p
	}
	return snap
}

func (s *Store) Profile() (wellness.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return wellness.UserProfile{}, false
	}
	return s.profile.Clone(), true
}

func (s *Store) Plan() (wellness.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return wellness.Plan{}, false
	}
	return s.plan.Clone(), true
}

func (s *Store) Stats() wellness.DailyStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Store) Theme() wellness.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Store) Image(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.images[key]
	return v, ok
}

// CompleteOnboarding stores the profile and the plan together, or neither.
func (s *Store) CompleteOnboarding(ctx context.Context, profile wellness.UserProfile, plan wellness.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile != nil && s.profile.HasOnboarded {
		return ErrAlreadyOnboarded
	}
	profile = profile.Clone()
	profile.HasOnboarded = true
	plan = plan.Clone()
	s.profile = &profile
	s.plan = &plan
	s.saveAll(ctx)
	return nil
}

// UpdateStats merges patch into the daily counters. Only the fields the
// patch names are touched.
func (s *Store) UpdateStats(ctx context.Context, patch wellness.StatsPatch) wellness.DailyStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollDay()
	s.stats = s.stats.Apply(patch)
	s.saveAll(ctx)
	return s.stats
}

func (s *Store) AppendJournal(ctx context.Context, entry wellness.JournalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, entry)
	s.saveAll(ctx)
}

func (s *Store) SetTheme(ctx context.Context, theme wellness.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !theme.Valid() {
		theme = wellness.ThemeLight
	}
	s.theme = theme
	s.saveAll(ctx)
}

func (s *Store) ToggleTheme(ctx context.Context) wellness.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = s.theme.Toggle()
	s.saveAll(ctx)
	return s.theme
}

// PutImage caches a generated image data URI.
func (s *Store) PutImage(ctx context.Context, key, dataURI string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[key] = dataURI
	s.saveAll(ctx)
}

// ResetDaily forces a day-boundary check. It is a no-op unless daily reset
// is enabled.
func (s *Store) ResetDaily(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rollDay() {
		return false
	}
	s.saveAll(ctx)
	return true
}

// rollDay zeroes the counters when the stored day is not today. The
// activity timestamp survives so the sedentary check keeps its baseline.
func (s *Store) rollDay() bool {
	if !s.opts.DailyReset {
		return false
	}
	today := wellness.DayKey(s.opts.Now())
	if s.stats.Day == today {
		return false
	}
	if s.stats.Day == "" {
		s.stats.Day = today
		return false
	}
	s.stats = wellness.DailyStats{
		LastActiveTimestamp: s.stats.LastActiveTimestamp,
		Day:                 today,
	}
	s.log.Info("daily stats reset", "day", today)
	return true
}

// saveAll recomputes derived progress and writes every held record.
// Callers must hold s.mu.
func (s *Store) saveAll(ctx context.Context) {
	if s.profile != nil {
		s.stats = progress.Apply(s.stats, *s.profile)
	}

	for _, key := range saveOrder {
		value, ok := s.recordFor(key)
		if !ok {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			s.log.Error("failed to encode record", "key", key, "error", err)
			continue
		}
		s.write(ctx, key, string(raw))
	}
}

func (s *Store) recordFor(key string) (any, bool) {
	switch key {
	case KeyProfile:
		return s.profile, s.profile != nil
	case KeyPlan:
		return s.plan, s.plan != nil
	case KeyStats:
		return s.stats, true
	case KeyJournal:
		return s.journal, true
	case KeyTheme:
		return s.theme, true
	case KeyImages:
		// An empty cache has no slot; eviction removes it.
		return s.images, len(s.images) > 0
	}
	return nil, false
}

// write persists one slot. Capacity exhaustion evicts the image cache and
// retries once; every other failure is logged and dropped.
func (s *Store) write(ctx context.Context, key, raw string) {
	err := s.backend.Set(ctx, key, raw)
	if err == nil {
		return
	}
	if !errors.Is(err, storage.ErrCapacityExceeded) {
		s.log.Warn("failed to persist record", "key", key, "error", err)
		return
	}

	s.evictImages(ctx)
	if key == KeyImages {
		return
	}
	if err := s.backend.Set(ctx, key, raw); err != nil {
		s.log.Warn("failed to persist record after eviction", "key", key, "error", err)
	}
}

func (s *Store) evictImages(ctx context.Context) {
	count := len(s.images)
	s.images = map[string]string{}
	if err := s.backend.Remove(ctx, KeyImages); err != nil {
		s.log.Warn("failed to evict image cache", "error", err)
		return
	}
	s.log.Warn("storage full, image cache evicted", "images", count)
}

// String is used in log lines.
func (s Snapshot) String() string {
	return fmt.Sprintf("onboarded=%t steps=%d progress=%.0f%% journal=%d theme=%s",
		s.Profile != nil && s.Profile.HasOnboarded, s.Stats.Steps, s.Stats.ProgressPercentage, len(s.Journal), s.Theme)
}

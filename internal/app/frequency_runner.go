package app

import (
	"context"
	"errors"
	"sync"

	"github.com/jislas1039-svg/higher-self/internal/device"
	"github.com/jislas1039-svg/higher-self/internal/ritual"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

var errNoAudio = errors.New("no audio output configured")

// FrequencyRunner owns the playing tone. Close always stops it.
type FrequencyRunner struct {
	app *App

	mu    sync.Mutex
	freq  ritual.Frequency
	voice device.ToneHandle
}

func (a *App) NewFrequencyRunner() *FrequencyRunner {
	return &FrequencyRunner{app: a}
}

// Active is the playing mode, if any.
func (r *FrequencyRunner) Active() (wellness.FrequencyMode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.freq.Active == nil {
		return wellness.FrequencyMode{}, false
	}
	return *r.freq.Active, true
}

func (r *FrequencyRunner) Play(mode wellness.FrequencyMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var effects []ritual.Effect
	r.freq, effects = r.freq.Play(mode)
	return r.run(effects)
}

func (r *FrequencyRunner) Toggle(mode wellness.FrequencyMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var effects []ritual.Effect
	r.freq, effects = r.freq.Toggle(mode)
	return r.run(effects)
}

func (r *FrequencyRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var effects []ritual.Effect
	r.freq, effects = r.freq.Stop()
	_ = r.run(effects)
}

// Close is the teardown path; the oscillator never outlives the runner.
func (r *FrequencyRunner) Close() {
	r.Stop()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.voice != nil {
		r.voice.FadeOutAndStop(ritual.ToneFadeOut)
		r.voice = nil
	}
}

// run executes effects; r.mu must be held. A tone that cannot be created
// leaves the player stopped.
func (r *FrequencyRunner) run(effects []ritual.Effect) error {
	for _, e := range effects {
		switch e := e.(type) {
		case ritual.StopTone:
			if r.voice != nil {
				r.voice.FadeOutAndStop(e.FadeOut)
				r.voice = nil
			}
		case ritual.StartTone:
			if r.app.audio == nil {
				r.freq = ritual.Frequency{}
				return errNoAudio
			}
			voice, err := r.app.audio.CreateTone(e.Mode.Hz)
			if err != nil {
				r.app.log.Warn("Failed to create tone", "hz", e.Mode.Hz, "error", err)
				r.freq = ritual.Frequency{}
				return err
			}
			voice.FadeIn(e.FadeIn, e.Gain)
			r.voice = voice
		default:
			if !r.app.apply(context.Background(), e) {
				r.app.log.Warn("Unhandled frequency effect", "effect", e)
			}
		}
	}
	return nil
}

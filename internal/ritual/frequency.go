package ritual

import (
	"time"

	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

const (
	ToneFadeIn  = 3 * time.Second
	ToneFadeOut = 1500 * time.Millisecond
	ToneGain    = 0.08
)

// Frequency is the tone player. At most one tone plays.
type Frequency struct {
	Active *wellness.FrequencyMode
}

// Play starts mode, stopping the previous tone first.
func (f Frequency) Play(mode wellness.FrequencyMode) (Frequency, []Effect) {
	var effects []Effect
	if f.Active != nil {
		effects = append(effects, StopTone{FadeOut: ToneFadeOut})
	}
	m := mode
	f.Active = &m
	return f, append(effects, StartTone{Mode: mode, FadeIn: ToneFadeIn, Gain: ToneGain})
}

// Stop fades out the active tone. It is also the teardown path.
func (f Frequency) Stop() (Frequency, []Effect) {
	if f.Active == nil {
		return f, nil
	}
	return Frequency{}, []Effect{StopTone{FadeOut: ToneFadeOut}}
}

// Toggle plays mode, or stops it when it is already playing.
func (f Frequency) Toggle(mode wellness.FrequencyMode) (Frequency, []Effect) {
	if f.Active != nil && f.Active.Hz == mode.Hz {
		return f.Stop()
	}
	return f.Play(mode)
}

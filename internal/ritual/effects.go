// Package ritual holds the interactive flows as pure state machines. Every
// transition returns the next state and the effects an executor must
// perform; results come back as further transitions.
package ritual

import (
	"errors"
	"time"

	"github.com/jislas1039-svg/higher-self/internal/device"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

// ErrInvalidTransition is returned for events the current state ignores.
var ErrInvalidTransition = errors.New("invalid transition")

// Effect is a side effect requested by a transition.
type Effect interface {
	isEffect()
}

type Ticker string

const (
	TickerSedentary Ticker = "sedentary"
	TickerWalk      Ticker = "walk"
)

type Notice string

const (
	NoticeSedentary      Notice = "sedentary_alert"
	NoticeWalkComplete   Notice = "walk_complete"
	NoticeCameraDenied   Notice = "camera_denied"
	NoticePlanFailed     Notice = "plan_failed"
	NoticeCalibrationOff Notice = "calibration_unavailable"
)

type StartTicker struct {
	Ticker Ticker
	Every  time.Duration
}

type StopTicker struct {
	Ticker Ticker
}

// AddSteps merges a step increment into the daily stats.
type AddSteps struct {
	Steps int
}

// StampActivity sets lastActiveTimestamp to now.
type StampActivity struct{}

type Notify struct {
	Notice Notice
}

type GeneratePlan struct {
	Profile wellness.UserProfile
}

// CompleteOnboarding persists the profile and plan together.
type CompleteOnboarding struct {
	Profile wellness.UserProfile
	Plan    wellness.Plan
}

type GeneratePrompts struct {
	Answers wellness.QuizAnswers
}

// SaveJournalEntry appends the entry and marks the journal task done.
type SaveJournalEntry struct {
	Prompt  string
	Content string
}

type AcquireCamera struct {
	Facing device.Facing
}

type CaptureFrame struct{}

type ReleaseCamera struct{}

type AnalyzeFrame struct {
	Image []byte
}

type StartTone struct {
	Mode   wellness.FrequencyMode
	FadeIn time.Duration
	Gain   float64
}

type StopTone struct {
	FadeOut time.Duration
}

func (StartTicker) isEffect()        {}
func (StopTicker) isEffect()         {}
func (AddSteps) isEffect()           {}
func (StampActivity) isEffect()      {}
func (Notify) isEffect()             {}
func (GeneratePlan) isEffect()       {}
func (CompleteOnboarding) isEffect() {}
func (GeneratePrompts) isEffect()    {}
func (SaveJournalEntry) isEffect()   {}
func (AcquireCamera) isEffect()      {}
func (CaptureFrame) isEffect()       {}
func (ReleaseCamera) isEffect()      {}
func (AnalyzeFrame) isEffect()       {}
func (StartTone) isEffect()          {}
func (StopTone) isEffect()           {}

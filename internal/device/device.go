// Package device declares the capture and audio hardware the rituals use.
package device

import (
	"context"
	"errors"
	"time"
)

// ErrAcquisition wraps any failure to obtain a capture device.
var ErrAcquisition = errors.New("capture device unavailable")

type Facing string

const (
	FacingEnvironment Facing = "environment"
	FacingUser        Facing = "user"
)

// VideoStream is an open capture session.
type VideoStream interface {
	ID() string
}

// Camera acquires and releases capture devices.
type Camera interface {
	Acquire(ctx context.Context, facing Facing) (VideoStream, error)
	Release(stream VideoStream)
	CaptureFrame(stream VideoStream) ([]byte, error)
}

// ToneHandle is one playing oscillator.
type ToneHandle interface {
	FadeIn(d time.Duration, gain float64)
	// FadeOutAndStop ramps the gain down, then stops and disconnects.
	FadeOutAndStop(d time.Duration)
}

// Audio creates sine tones.
type Audio interface {
	CreateTone(frequencyHz float64) (ToneHandle, error)
}

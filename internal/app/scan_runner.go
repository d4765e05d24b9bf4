package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jislas1039-svg/higher-self/internal/device"
	"github.com/jislas1039-svg/higher-self/internal/ritual"
)

var errNoCamera = errors.New("no camera configured")

// ScanRunner drives photo capture and food analysis. The camera is held
// only between acquisition and the captured frame.
type ScanRunner struct {
	app *App

	mu     sync.Mutex
	scan   ritual.Scan
	stream device.VideoStream
	// inFlight is set while CaptureFrame uses stream; a release requested
	// meanwhile is left to the capture path.
	inFlight *frameCapture
}

type frameCapture struct {
	releaseAfter bool
}

func (a *App) NewScanRunner() *ScanRunner {
	return &ScanRunner{app: a, scan: ritual.NewScan()}
}

func (r *ScanRunner) State() ritual.Scan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scan
}

// Open acquires the camera. It blocks until the device answers.
func (r *ScanRunner) Open(ctx context.Context) error {
	r.mu.Lock()
	next, effects, err := r.scan.Open()
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.scan = next
	r.mu.Unlock()

	r.run(ctx, effects)
	return nil
}

// Capture takes the frame, releases the camera and analyzes the frame.
// It blocks until the analysis resolves.
func (r *ScanRunner) Capture(ctx context.Context) error {
	r.mu.Lock()
	next, effects, err := r.scan.Capture()
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.scan = next
	r.mu.Unlock()

	r.run(ctx, effects)
	return nil
}

// Reset returns to Idle, closing the camera if it is open.
func (r *ScanRunner) Reset(ctx context.Context) {
	r.mu.Lock()
	var effects []ritual.Effect
	r.scan, effects = r.scan.Reset()
	r.mu.Unlock()

	r.run(ctx, effects)
}

// Close is Reset plus a final release of any stream still held. A frame
// capture in flight keeps its stream until the device call returns.
func (r *ScanRunner) Close() {
	r.Reset(context.Background())
	r.release()
}

// run executes effects in order, appending the effects they lead to.
// Device and network calls run without r.mu held.
func (r *ScanRunner) run(ctx context.Context, effects []ritual.Effect) {
	for len(effects) > 0 {
		e := effects[0]
		effects = append(effects[1:], r.perform(ctx, e)...)
	}
}

func (r *ScanRunner) perform(ctx context.Context, e ritual.Effect) []ritual.Effect {
	switch e := e.(type) {
	case ritual.AcquireCamera:
		stream, err := r.acquire(ctx, e.Facing)

		r.mu.Lock()
		if r.scan.State != ritual.ScanAcquiring {
			// Reset while acquiring.
			r.mu.Unlock()
			if stream != nil {
				r.app.camera.Release(stream)
			}
			return nil
		}
		var next []ritual.Effect
		r.scan, next = r.scan.CameraReady(err)
		if err == nil {
			r.stream = stream
		}
		r.mu.Unlock()
		return next

	case ritual.CaptureFrame:
		r.mu.Lock()
		stream := r.stream
		capture := &frameCapture{}
		if stream != nil {
			r.inFlight = capture
		}
		r.mu.Unlock()

		var frame []byte
		err := errNoCamera
		if stream != nil {
			frame, err = r.app.camera.CaptureFrame(stream)
		}
		if err != nil {
			r.app.log.Warn("Frame capture failed", "error", err)
		}

		r.mu.Lock()
		var stale device.VideoStream
		if capture.releaseAfter {
			// Reset or Close ran during the capture.
			stale = stream
		} else if r.inFlight == capture {
			r.inFlight = nil
		}
		var next []ritual.Effect
		r.scan, next = r.scan.FrameCaptured(frame, err)
		r.mu.Unlock()

		if stale != nil {
			r.app.camera.Release(stale)
		}
		return next

	case ritual.ReleaseCamera:
		r.release()
		return nil

	case ritual.AnalyzeFrame:
		var goals []string
		if p, ok := r.app.store.Profile(); ok {
			goals = p.GoalNames()
		}
		analysis := r.app.content.AnalyzeImage(ctx, e.Image, http.DetectContentType(e.Image), goals)

		r.mu.Lock()
		r.scan = r.scan.AnalysisReady(analysis)
		r.mu.Unlock()
		return nil

	default:
		if !r.app.apply(ctx, e) {
			r.app.log.Warn("Unhandled scan effect", "effect", e)
		}
		return nil
	}
}

func (r *ScanRunner) acquire(ctx context.Context, facing device.Facing) (device.VideoStream, error) {
	if r.app.camera == nil {
		return nil, fmt.Errorf("%w: %v", device.ErrAcquisition, errNoCamera)
	}
	stream, err := r.app.camera.Acquire(ctx, facing)
	if err != nil {
		r.app.log.Warn("Camera acquisition failed", "facing", facing, "error", err)
		return nil, fmt.Errorf("%w: %v", device.ErrAcquisition, err)
	}
	return stream, nil
}

func (r *ScanRunner) release() {
	r.mu.Lock()
	stream := r.stream
	r.stream = nil
	if r.inFlight != nil {
		r.inFlight.releaseAfter = true
		r.inFlight = nil
		stream = nil
	}
	r.mu.Unlock()
	if stream != nil {
		r.app.camera.Release(stream)
	}
}

package ritual

import (
	"github.com/jislas1039-svg/higher-self/internal/device"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

type ScanState string

const (
	ScanIdle         ScanState = "idle"
	ScanAcquiring    ScanState = "acquiring"
	ScanCameraActive ScanState = "camera_active"
	ScanAnalyzing    ScanState = "analyzing"
	ScanResult       ScanState = "result"
)

// ScanOutcome separates "the service answered" from "nothing came back".
type ScanOutcome string

const (
	OutcomeAnalyzed ScanOutcome = "analyzed"
	OutcomeNoData   ScanOutcome = "no_data"
)

// Scan is the photo capture and analysis flow. The camera is never held
// while analysis runs.
type Scan struct {
	State    ScanState
	Frame    []byte
	Analysis *wellness.FoodAnalysis
	Outcome  ScanOutcome
	Notice   Notice
}

func NewScan() Scan {
	return Scan{State: ScanIdle}
}

// Open asks for the rear camera.
func (s Scan) Open() (Scan, []Effect, error) {
	if s.State != ScanIdle && s.State != ScanResult {
		return s, nil, ErrInvalidTransition
	}
	return Scan{State: ScanAcquiring}, []Effect{AcquireCamera{Facing: device.FacingEnvironment}}, nil
}

// CameraReady receives the acquisition result. A failure surfaces a notice
// and returns to Idle.
func (s Scan) CameraReady(err error) (Scan, []Effect) {
	if s.State != ScanAcquiring {
		return s, nil
	}
	if err != nil {
		return Scan{State: ScanIdle, Notice: NoticeCameraDenied}, []Effect{Notify{Notice: NoticeCameraDenied}}
	}
	s.State = ScanCameraActive
	return s, nil
}

// Capture freezes one frame.
func (s Scan) Capture() (Scan, []Effect, error) {
	if s.State != ScanCameraActive {
		return s, nil, ErrInvalidTransition
	}
	return s, []Effect{CaptureFrame{}}, nil
}

// FrameCaptured releases the camera before analysis starts. A failed
// capture releases the camera too and returns to Idle.
func (s Scan) FrameCaptured(frame []byte, err error) (Scan, []Effect) {
	if s.State != ScanCameraActive {
		return s, nil
	}
	if err != nil || len(frame) == 0 {
		return NewScan(), []Effect{ReleaseCamera{}}
	}
	s.State = ScanAnalyzing
	s.Frame = frame
	return s, []Effect{ReleaseCamera{}, AnalyzeFrame{Image: frame}}
}

// AnalysisReady always lands in Result; Outcome says whether data came back.
func (s Scan) AnalysisReady(analysis *wellness.FoodAnalysis) Scan {
	if s.State != ScanAnalyzing {
		return s
	}
	s.State = ScanResult
	s.Analysis = analysis
	s.Outcome = OutcomeNoData
	if analysis != nil {
		s.Outcome = OutcomeAnalyzed
	}
	return s
}

// Reset discards the result, or closes an open camera. Results still in
// flight land on Idle, which ignores them.
func (s Scan) Reset() (Scan, []Effect) {
	if s.State == ScanCameraActive {
		return NewScan(), []Effect{ReleaseCamera{}}
	}
	return NewScan(), nil
}

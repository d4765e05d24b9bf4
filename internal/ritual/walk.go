package ritual

import (
	"time"
)

type WalkState string

const (
	WalkIdle       WalkState = "idle"
	WalkAlertShown WalkState = "alert_shown"
	WalkActive     WalkState = "walk_active"
)

const (
	SedentaryThreshold     = 60 * time.Minute
	SedentaryCheckInterval = 60 * time.Second
	WalkTickInterval       = time.Second

	// StepIntervalSeconds of walking grant StepsPerInterval steps.
	StepIntervalSeconds = 30
	StepsPerInterval    = 50

	// ProposedWalkMinutes is what the sedentary alert offers.
	ProposedWalkMinutes = 15
)

// Walk is the sedentary alert and walk timer.
type Walk struct {
	State     WalkState
	Remaining int
	Elapsed   int
}

func NewWalk() Walk {
	return Walk{State: WalkIdle}
}

// Check runs on the sedentary tick. It raises the alert once the user has
// been inactive past the threshold, unless a walk or an alert is already up.
func (w Walk) Check(now, lastActive time.Time) (Walk, []Effect) {
	if w.State != WalkIdle {
		return w, nil
	}
	// No activity recorded yet means no baseline, not a long idle.
	if lastActive.UnixMilli() <= 0 {
		return w, nil
	}
	if now.Sub(lastActive) <= SedentaryThreshold {
		return w, nil
	}
	w.State = WalkAlertShown
	return w, []Effect{Notify{Notice: NoticeSedentary}}
}

// Start begins a walk of the given length, from the alert or on demand.
// Activity is stamped immediately so the alert cannot re-trigger.
func (w Walk) Start(minutes int) (Walk, []Effect, error) {
	if w.State == WalkActive || minutes <= 0 {
		return w, nil, ErrInvalidTransition
	}
	w = Walk{State: WalkActive, Remaining: minutes * 60}
	return w, []Effect{
		StampActivity{},
		StartTicker{Ticker: TickerWalk, Every: WalkTickInterval},
	}, nil
}

// Dismiss closes the alert without walking.
func (w Walk) Dismiss() (Walk, []Effect, error) {
	if w.State != WalkAlertShown {
		return w, nil, ErrInvalidTransition
	}
	return NewWalk(), nil, nil
}

// Tick advances an active walk by one second.
func (w Walk) Tick() (Walk, []Effect) {
	if w.State != WalkActive {
		return w, nil
	}
	w.Remaining--
	w.Elapsed++

	var effects []Effect
	if w.Elapsed%StepIntervalSeconds == 0 {
		effects = append(effects, AddSteps{Steps: StepsPerInterval})
	}
	if w.Remaining <= 0 {
		effects = append(effects,
			StopTicker{Ticker: TickerWalk},
			StampActivity{},
			Notify{Notice: NoticeWalkComplete},
		)
		return NewWalk(), effects
	}
	return w, effects
}

// Cancel stops an active walk. Steps not yet earned are not granted.
func (w Walk) Cancel() (Walk, []Effect, error) {
	if w.State != WalkActive {
		return w, nil, ErrInvalidTransition
	}
	return NewWalk(), []Effect{StopTicker{Ticker: TickerWalk}}, nil
}

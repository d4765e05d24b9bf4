package app

import (
	"context"
	"sync"

	"github.com/jislas1039-svg/higher-self/internal/ritual"
)

// WalkRunner drives the sedentary check and the walk timer. Every ticker it
// starts is stopped on Close.
type WalkRunner struct {
	app *App

	mu      sync.Mutex
	walk    ritual.Walk
	tickers map[ritual.Ticker]context.CancelFunc
	wg      sync.WaitGroup
}

func (a *App) NewWalkRunner() *WalkRunner {
	return &WalkRunner{
		app:     a,
		walk:    ritual.NewWalk(),
		tickers: map[ritual.Ticker]context.CancelFunc{},
	}
}

func (r *WalkRunner) State() ritual.Walk {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.walk
}

// Watch starts the periodic sedentary check.
func (r *WalkRunner) Watch(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.run(ctx, []ritual.Effect{ritual.StartTicker{Ticker: ritual.TickerSedentary, Every: ritual.SedentaryCheckInterval}})
}

// Check compares the last activity with now and raises the alert if due.
func (r *WalkRunner) Check(ctx context.Context) {
	lastActive := r.app.store.Stats().LastActive()

	r.mu.Lock()
	defer r.mu.Unlock()
	var effects []ritual.Effect
	r.walk, effects = r.walk.Check(r.app.now(), lastActive)
	r.run(ctx, effects)
}

func (r *WalkRunner) Start(ctx context.Context, minutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, effects, err := r.walk.Start(minutes)
	if err != nil {
		return err
	}
	r.walk = next
	r.run(ctx, effects)
	return nil
}

func (r *WalkRunner) Dismiss(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, effects, err := r.walk.Dismiss()
	if err != nil {
		return err
	}
	r.walk = next
	r.run(ctx, effects)
	return nil
}

// Tick advances the walk by one second.
func (r *WalkRunner) Tick(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var effects []ritual.Effect
	r.walk, effects = r.walk.Tick()
	r.run(ctx, effects)
}

func (r *WalkRunner) Cancel(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, effects, err := r.walk.Cancel()
	if err != nil {
		return err
	}
	r.walk = next
	r.run(ctx, effects)
	return nil
}

// Close stops every ticker and waits for their goroutines. An active walk
// ends without further steps.
func (r *WalkRunner) Close() {
	r.mu.Lock()
	for name, stop := range r.tickers {
		stop()
		delete(r.tickers, name)
	}
	r.walk = ritual.NewWalk()
	r.mu.Unlock()
	r.wg.Wait()
}

// run executes effects; r.mu must be held.
func (r *WalkRunner) run(ctx context.Context, effects []ritual.Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case ritual.StartTicker:
			r.startTicker(e)
		case ritual.StopTicker:
			if stop, ok := r.tickers[e.Ticker]; ok {
				stop()
				delete(r.tickers, e.Ticker)
			}
		default:
			if !r.app.apply(ctx, e) {
				r.app.log.Warn("Unhandled walk effect", "effect", e)
			}
		}
	}
}

func (r *WalkRunner) startTicker(e ritual.StartTicker) {
	if _, running := r.tickers[e.Ticker]; running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.tickers[e.Ticker] = cancel
	c, stop := r.app.tickers(e.Every)
	// Effects of a tick outlive the ticker that produced them.
	opCtx := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c:
				if e.Ticker == ritual.TickerWalk {
					r.Tick(opCtx)
				} else {
					r.Check(opCtx)
				}
			}
		}
	}()
}

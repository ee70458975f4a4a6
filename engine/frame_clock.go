package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/scene-audio/constant"
	"github.com/lixenwraith/scene-audio/core"
	"github.com/lixenwraith/scene-audio/event"
)

// Ticker receives the real, unscaled frame delta once per frame
type Ticker interface {
	Tick(dt time.Duration)
}

// TickerFunc adapts a function to Ticker
type TickerFunc func(dt time.Duration)

func (f TickerFunc) Tick(dt time.Duration) { f(dt) }

// FrameClock drives the audio frame loop on a fixed interval
// Each frame: dispatch queued events, then tick every registered Ticker
//
// Delta is measured on the real time provider, never on game time, so fades
// complete while gameplay is paused. A single delta is capped at MaxFrameDelta
type FrameClock struct {
	mu       sync.Mutex
	provider TimeProvider
	router   *event.Router
	tickers  []Ticker
	interval time.Duration
	last     time.Time

	frames atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewFrameClock creates a frame clock; nil provider uses the monotonic clock,
// nil router skips event dispatch, interval <= 0 uses FrameInterval
func NewFrameClock(provider TimeProvider, router *event.Router, interval time.Duration) *FrameClock {
	if provider == nil {
		provider = NewMonotonicTimeProvider()
	}
	if interval <= 0 {
		interval = constant.FrameInterval
	}
	return &FrameClock{
		provider: provider,
		router:   router,
		interval: interval,
		last:     provider.Now(),
		stopChan: make(chan struct{}),
	}
}

// AddTicker registers a ticker, called in registration order
func (fc *FrameClock) AddTicker(t Ticker) {
	fc.mu.Lock()
	fc.tickers = append(fc.tickers, t)
	fc.mu.Unlock()
}

// Step runs one frame and returns the delta fed to tickers
func (fc *FrameClock) Step() time.Duration {
	fc.mu.Lock()
	now := fc.provider.Now()
	dt := now.Sub(fc.last)
	fc.last = now
	tickers := append([]Ticker(nil), fc.tickers...)
	fc.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	if dt > constant.MaxFrameDelta {
		dt = constant.MaxFrameDelta
	}

	if fc.router != nil {
		fc.router.DispatchAll()
	}
	for _, t := range tickers {
		t.Tick(dt)
	}
	fc.frames.Add(1)
	return dt
}

// Frames returns the number of completed frames
func (fc *FrameClock) Frames() uint64 {
	return fc.frames.Load()
}

// Interval returns the frame interval
func (fc *FrameClock) Interval() time.Duration {
	return fc.interval
}

// Start begins the frame loop
func (fc *FrameClock) Start() {
	if fc.running.CompareAndSwap(false, true) {
		fc.mu.Lock()
		fc.last = fc.provider.Now()
		fc.mu.Unlock()

		fc.wg.Add(1)
		core.Go(fc.loop)
	}
}

// Stop halts the frame loop and waits for the current frame to finish
func (fc *FrameClock) Stop() {
	fc.stopOnce.Do(func() {
		if fc.running.CompareAndSwap(true, false) {
			close(fc.stopChan)
			fc.wg.Wait()
		}
	})
}

// IsRunning reports whether the loop goroutine is active
func (fc *FrameClock) IsRunning() bool {
	return fc.running.Load()
}

func (fc *FrameClock) loop() {
	defer fc.wg.Done()

	ticker := time.NewTicker(fc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-fc.stopChan:
			return
		case <-ticker.C:
			fc.Step()
		}
	}
}

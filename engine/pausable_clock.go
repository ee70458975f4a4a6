package engine

import (
	"sync"
	"time"
)

// PausableClock is game time: real time minus every paused interval
// Fades never read it; they run on real frame deltas so they finish while paused
type PausableClock struct {
	mu        sync.RWMutex
	provider  TimeProvider
	epoch     time.Time     // Real time at construction
	pausedFor time.Duration // Closed pause intervals
	pausedAt  time.Time     // Start of the open pause interval
	paused    bool
}

// NewPausableClock starts a clock over provider; nil uses the monotonic clock
func NewPausableClock(provider TimeProvider) *PausableClock {
	if provider == nil {
		provider = NewMonotonicTimeProvider()
	}
	return &PausableClock{provider: provider, epoch: provider.Now()}
}

// Now returns game time, frozen while paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	at := pc.provider.Now()
	if pc.paused {
		at = pc.pausedAt
	}
	return at.Add(-pc.pausedFor)
}

// RealTime returns provider time, unaffected by pause
func (pc *PausableClock) RealTime() time.Time {
	return pc.provider.Now()
}

// Pause freezes game time; false when already paused
func (pc *PausableClock) Pause() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return false
	}
	pc.paused, pc.pausedAt = true, pc.provider.Now()
	return true
}

// Resume releases game time; false when not paused
func (pc *PausableClock) Resume() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return false
	}
	pc.pausedFor += pc.provider.Now().Sub(pc.pausedAt)
	pc.paused = false
	return true
}

// Toggle flips the pause state and reports whether the clock is now paused
func (pc *PausableClock) Toggle() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	now := pc.provider.Now()
	if !pc.paused {
		pc.paused, pc.pausedAt = true, now
		return true
	}
	pc.pausedFor += now.Sub(pc.pausedAt)
	pc.paused = false
	return false
}

func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPauseDuration sums closed pauses and the open one, if any
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	total := pc.pausedFor
	if pc.paused {
		total += pc.provider.Now().Sub(pc.pausedAt)
	}
	return total
}

// Elapsed returns game time since construction
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.RLock()
	epoch := pc.epoch
	pc.mu.RUnlock()
	return pc.Now().Sub(epoch)
}

package engine

import (
	"testing"
	"time"
)

func TestMonotonicTimeProvider(t *testing.T) {
	provider := NewMonotonicTimeProvider()

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	if !t2.After(t1) {
		t.Errorf("Expected t2 to be after t1, but got t1=%v, t2=%v", t1, t2)
	}
	if diff := t2.Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", diff)
	}
}

func TestMockTimeProvider(t *testing.T) {
	startTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(startTime)

	if now := mock.Now(); !now.Equal(startTime) {
		t.Errorf("Expected initial time to be %v, got %v", startTime, now)
	}

	newTime := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	mock.SetTime(newTime)
	if now := mock.Now(); !now.Equal(newTime) {
		t.Errorf("Expected time to be %v after SetTime, got %v", newTime, now)
	}

	mock.Advance(time.Hour)
	mock.Advance(30 * time.Minute)
	expected := newTime.Add(90 * time.Minute)
	if now := mock.Now(); !now.Equal(expected) {
		t.Errorf("Expected time to be %v after advances, got %v", expected, now)
	}
}

func TestPausableClock_FreezesGameTime(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	pc := NewPausableClock(mock)

	mock.Advance(time.Second)
	if got := pc.Now().Sub(start); got != time.Second {
		t.Fatalf("game elapsed = %v, want 1s", got)
	}

	if !pc.Pause() {
		t.Fatal("first Pause should succeed")
	}
	if pc.Pause() {
		t.Error("second Pause should report already paused")
	}

	mock.Advance(5 * time.Second)
	if got := pc.Now().Sub(start); got != time.Second {
		t.Errorf("game time advanced while paused: %v", got)
	}
	if got := pc.RealTime().Sub(start); got != 6*time.Second {
		t.Errorf("real time = %v, want 6s", got)
	}
	if got := pc.TotalPauseDuration(); got != 5*time.Second {
		t.Errorf("pause duration while paused = %v, want 5s", got)
	}

	if !pc.Resume() {
		t.Fatal("Resume should succeed")
	}
	mock.Advance(2 * time.Second)
	if got := pc.Now().Sub(start); got != 3*time.Second {
		t.Errorf("game elapsed after resume = %v, want 3s", got)
	}
	if got := pc.TotalPauseDuration(); got != 5*time.Second {
		t.Errorf("total pause = %v, want 5s", got)
	}
}

func TestPausableClock_Toggle(t *testing.T) {
	pc := NewPausableClock(NewMockTimeProvider(time.Unix(0, 0)))
	if !pc.Toggle() || !pc.IsPaused() {
		t.Error("Toggle from running should pause")
	}
	if pc.Toggle() || pc.IsPaused() {
		t.Error("Toggle from paused should resume")
	}
}

func TestPausableClock_Elapsed(t *testing.T) {
	mock := NewMockTimeProvider(time.Unix(100, 0))
	pc := NewPausableClock(mock)

	mock.Advance(2 * time.Second)
	pc.Pause()
	mock.Advance(time.Minute)
	if got := pc.Elapsed(); got != 2*time.Second {
		t.Errorf("Elapsed while paused = %v, want 2s", got)
	}
	pc.Resume()
	mock.Advance(time.Second)
	if got := pc.Elapsed(); got != 3*time.Second {
		t.Errorf("Elapsed = %v, want 3s", got)
	}
}

package audio

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/scene-audio/constant"
)

type writeLog struct {
	values []float64
}

func (w *writeLog) write(db float64) { w.values = append(w.values, db) }

func (w *writeLog) last() float64 { return w.values[len(w.values)-1] }

func musicFade(start, target float64, d time.Duration) FadeSpec {
	return FadeSpec{Channel: ChannelMusic, Stage: StageMain, StartDB: start, TargetDB: target, Duration: d}
}

func TestFadeScheduler_ZeroDurationCompletesImmediately(t *testing.T) {
	s := NewFadeScheduler()
	w := &writeLog{}
	done := 0

	for _, d := range []time.Duration{0, -time.Second} {
		task := s.Start(musicFade(-60, -6, d), w.write, func() { done++ })
		if task.Status() != FadeCompleted {
			t.Errorf("duration %v: status = %v, want completed", d, task.Status())
		}
		if w.last() != -6 {
			t.Errorf("duration %v: wrote %v, want target", d, w.last())
		}
		if task.Progress() != 1 {
			t.Errorf("duration %v: progress = %v", d, task.Progress())
		}
	}
	if done != 2 {
		t.Errorf("onDone calls = %d, want 2", done)
	}
	if s.Active() != 0 {
		t.Errorf("Active() = %d after synchronous completion", s.Active())
	}
}

func TestFadeScheduler_LinearInterpolation(t *testing.T) {
	s := NewFadeScheduler()
	w := &writeLog{}
	done := 0

	task := s.Start(musicFade(-60, 0, time.Second), w.write, func() { done++ })
	if task.Status() != FadeRunning {
		t.Fatalf("status = %v, want running", task.Status())
	}
	if task.ID == uuid.Nil {
		t.Error("task has no id")
	}
	if len(w.values) != 0 {
		t.Error("Start must not write before the first tick")
	}

	want := []float64{-45, -30, -15, 0}
	for i, exp := range want {
		s.Tick(250 * time.Millisecond)
		if !approx(w.values[i], exp) {
			t.Errorf("tick %d wrote %v, want %v", i, w.values[i], exp)
		}
	}

	if task.Status() != FadeCompleted {
		t.Errorf("status = %v, want completed", task.Status())
	}
	if w.last() != 0 {
		t.Errorf("final write %v is not the exact target", w.last())
	}
	if done != 1 {
		t.Errorf("onDone calls = %d, want 1", done)
	}

	s.Tick(250 * time.Millisecond)
	if len(w.values) != 4 || done != 1 {
		t.Error("completed task kept writing")
	}
}

func TestFadeScheduler_OvershootWritesExactTarget(t *testing.T) {
	s := NewFadeScheduler()
	w := &writeLog{}
	s.Start(musicFade(-60, -6.0206, 100*time.Millisecond), w.write, nil)

	s.Tick(70 * time.Millisecond)
	s.Tick(70 * time.Millisecond)
	if w.last() != -6.0206 {
		t.Errorf("overshoot wrote %v, want exact target", w.last())
	}
}

func TestFadeScheduler_SupersedeCancelsPrevious(t *testing.T) {
	s := NewFadeScheduler()
	a, b := &writeLog{}, &writeLog{}
	aDone := false

	first := s.Start(musicFade(-60, 0, time.Second), a.write, func() { aDone = true })
	s.Tick(100 * time.Millisecond)

	// Cancel and restart in the same frame: the new task's first write wins
	second := s.Start(musicFade(a.last(), -60, time.Second), b.write, nil)
	if first.Status() != FadeCancelled {
		t.Errorf("superseded status = %v, want cancelled", first.Status())
	}

	aWrites := len(a.values)
	stepFor(s, 2*time.Second, 100*time.Millisecond)

	if len(a.values) != aWrites {
		t.Errorf("cancelled task wrote %d more times", len(a.values)-aWrites)
	}
	if aDone {
		t.Error("onDone fired for a cancelled task")
	}
	if second.Status() != FadeCompleted || b.last() != -60 {
		t.Errorf("second task status %v last %v", second.Status(), b.last())
	}
	if s.Active() != 0 {
		t.Errorf("Active() = %d", s.Active())
	}
}

func TestFadeScheduler_CancelStopsWritesThisTick(t *testing.T) {
	s := NewFadeScheduler()
	w := &writeLog{}
	task := s.Start(musicFade(-60, 0, time.Second), w.write, nil)

	s.Cancel(task)
	s.Cancel(task) // no-op
	s.Cancel(nil)
	s.Tick(500 * time.Millisecond)

	if len(w.values) != 0 {
		t.Errorf("cancelled task wrote %v", w.values)
	}
	if task.Status() != FadeCancelled || !task.Status().Terminal() {
		t.Errorf("status = %v", task.Status())
	}
}

func TestFadeScheduler_ChannelsAndStagesIndependent(t *testing.T) {
	s := NewFadeScheduler()
	music, ambience, pause := &writeLog{}, &writeLog{}, &writeLog{}

	s.Start(musicFade(-60, 0, time.Second), music.write, nil)
	s.Start(FadeSpec{Channel: ChannelAmbience, Stage: StageMain, StartDB: 0, TargetDB: -60, Duration: 2 * time.Second}, ambience.write, nil)
	s.Start(FadeSpec{Channel: ChannelMusic, Stage: StagePause, StartDB: 0, TargetDB: -60, Duration: time.Second}, pause.write, nil)

	if s.Active() != 3 {
		t.Fatalf("Active() = %d, want 3", s.Active())
	}
	if s.Running(ChannelMusic, StagePause) == nil || s.Running(ChannelDiegetic, StageMain) != nil {
		t.Error("Running lookup mismatch")
	}

	stepFor(s, time.Second, 100*time.Millisecond)
	if music.last() != 0 || pause.last() != -60 {
		t.Errorf("1s fades: music %v pause %v", music.last(), pause.last())
	}
	if !approx(ambience.last(), -30) {
		t.Errorf("ambience halfway = %v, want -30", ambience.last())
	}
	if s.Active() != 1 {
		t.Errorf("Active() = %d, want only ambience", s.Active())
	}
}

func TestFadeScheduler_CallbackStartDefersToNextTick(t *testing.T) {
	s := NewFadeScheduler()
	out, in := &writeLog{}, &writeLog{}
	var follow *FadeTask

	s.Start(musicFade(0, -60, 100*time.Millisecond), out.write, func() {
		follow = s.Start(musicFade(-60, 0, 100*time.Millisecond), in.write, nil)
	})

	s.Tick(100 * time.Millisecond)
	if follow == nil {
		t.Fatal("completion callback did not run")
	}
	if follow.Elapsed != 0 || len(in.values) != 0 {
		t.Errorf("follow-up advanced in the tick that created it: elapsed %v", follow.Elapsed)
	}
	if s.Running(ChannelMusic, StageMain) != follow {
		t.Error("follow-up not registered as running")
	}

	s.Tick(50 * time.Millisecond)
	if !approx(in.last(), -30) {
		t.Errorf("follow-up first write = %v, want -30", in.last())
	}
}

func TestFadeScheduler_NegativeDeltaAndIdle(t *testing.T) {
	s := NewFadeScheduler()
	s.Tick(time.Second) // idle, no panic

	w := &writeLog{}
	task := s.Start(musicFade(-60, 0, time.Second), w.write, nil)
	s.Tick(-time.Second)
	if task.Elapsed != 0 || w.last() != constant.DecibelFloor {
		t.Errorf("negative delta advanced: elapsed %v wrote %v", task.Elapsed, w.values)
	}
}

func TestFadeScheduler_CancelAll(t *testing.T) {
	s := NewFadeScheduler()
	var tasks []*FadeTask
	for _, ch := range Channels() {
		tasks = append(tasks, s.Start(FadeSpec{Channel: ch, Duration: time.Second}, func(float64) {}, nil))
	}
	s.CancelAll()
	for _, task := range tasks {
		if task.Status() != FadeCancelled {
			t.Errorf("%s status = %v", task.Channel, task.Status())
		}
	}
	if s.Active() != 0 {
		t.Errorf("Active() = %d", s.Active())
	}
}

func TestFadeStatus_String(t *testing.T) {
	for status, want := range map[FadeStatus]string{
		FadeIdle:       "idle",
		FadeRunning:    "running",
		FadeCompleted:  "completed",
		FadeCancelled:  "cancelled",
		FadeStatus(42): "unknown",
	} {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}

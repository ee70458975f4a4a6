package audio

import (
	"time"

	"github.com/google/uuid"
)

// FadeStatus is the lifecycle state of a FadeTask
type FadeStatus uint8

const (
	FadeIdle FadeStatus = iota
	FadeRunning
	FadeCompleted
	FadeCancelled
)

func (s FadeStatus) String() string {
	switch s {
	case FadeIdle:
		return "idle"
	case FadeRunning:
		return "running"
	case FadeCompleted:
		return "completed"
	case FadeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further writes can happen
func (s FadeStatus) Terminal() bool {
	return s == FadeCompleted || s == FadeCancelled
}

// FadeSpec describes one interpolation of a channel stage level
type FadeSpec struct {
	Channel  Channel
	Stage    Stage
	StartDB  float64
	TargetDB float64
	Duration time.Duration
}

// FadeTask is a scheduled FadeSpec
// Owned by the FadeScheduler until it reaches a terminal status
type FadeTask struct {
	FadeSpec
	ID      uuid.UUID
	Elapsed time.Duration

	status FadeStatus
	write  func(db float64)
	onDone func()
}

// Status returns the current lifecycle state
func (t *FadeTask) Status() FadeStatus {
	return t.status
}

// Progress returns elapsed/duration clamped to [0, 1]
func (t *FadeTask) Progress() float64 {
	if t.Duration <= 0 || t.status == FadeCompleted {
		return 1
	}
	p := float64(t.Elapsed) / float64(t.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// advance moves the task forward by dt and writes the interpolated level
func (t *FadeTask) advance(dt time.Duration) {
	t.Elapsed += dt
	p := t.Progress()
	if p >= 1 {
		t.complete()
		return
	}
	t.write(lerp(t.StartDB, t.TargetDB, p))
}

// complete writes the exact target, then fires the completion callback
func (t *FadeTask) complete() {
	t.status = FadeCompleted
	t.write(t.TargetDB)
	if t.onDone != nil {
		t.onDone()
	}
}

type fadeKey struct {
	channel Channel
	stage   Stage
}

// FadeScheduler advances all running fades once per tick
// Not safe for concurrent use; the owner serializes Start, Cancel and Tick
//
// Invariants:
//   - At most one running task per (channel, stage); Start supersedes
//   - A cancelled task performs zero further writes
//   - Tasks started during a Tick (completion callbacks) first advance on the next Tick
type FadeScheduler struct {
	tasks   []*FadeTask
	running map[fadeKey]*FadeTask
}

// NewFadeScheduler creates an idle scheduler
func NewFadeScheduler() *FadeScheduler {
	return &FadeScheduler{
		tasks:   make([]*FadeTask, 0, int(channelCount)*int(stageCount)),
		running: make(map[fadeKey]*FadeTask),
	}
}

// Start schedules a fade, cancelling any running fade on the same channel stage
// write receives every level update; onDone fires only on completion, never on cancel
// Duration <= 0 completes synchronously with the target written
func (s *FadeScheduler) Start(spec FadeSpec, write func(db float64), onDone func()) *FadeTask {
	key := fadeKey{spec.Channel, spec.Stage}
	if prev, ok := s.running[key]; ok {
		s.Cancel(prev)
	}

	task := &FadeTask{
		FadeSpec: spec,
		ID:       uuid.New(),
		write:    write,
		onDone:   onDone,
	}

	if spec.Duration <= 0 {
		task.complete()
		return task
	}

	task.status = FadeRunning
	s.running[key] = task
	s.tasks = append(s.tasks, task)
	return task
}

// Cancel stops a running task synchronously; no-op for nil or terminal tasks
func (s *FadeScheduler) Cancel(task *FadeTask) {
	if task == nil || task.status != FadeRunning {
		return
	}
	task.status = FadeCancelled
	key := fadeKey{task.Channel, task.Stage}
	if s.running[key] == task {
		delete(s.running, key)
	}
}

// CancelAll cancels every running task
func (s *FadeScheduler) CancelAll() {
	for _, t := range s.tasks {
		s.Cancel(t)
	}
	s.compact()
}

// Tick advances every running task by the unscaled frame delta
func (s *FadeScheduler) Tick(dt time.Duration) {
	if len(s.tasks) == 0 {
		return
	}
	if dt < 0 {
		dt = 0
	}

	// Snapshot length: tasks appended by callbacks wait for the next tick
	n := len(s.tasks)
	for i := 0; i < n; i++ {
		t := s.tasks[i]
		if t.status != FadeRunning {
			continue
		}
		key := fadeKey{t.Channel, t.Stage}
		t.advance(dt)
		if t.status == FadeCompleted && s.running[key] == t {
			delete(s.running, key)
		}
	}

	s.compact()
}

// compact drops terminal tasks
func (s *FadeScheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.status == FadeRunning {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}

// Active returns the number of running tasks
func (s *FadeScheduler) Active() int {
	return len(s.running)
}

// Running returns the running task for a channel stage, nil if idle
func (s *FadeScheduler) Running(ch Channel, stage Stage) *FadeTask {
	return s.running[fadeKey{ch, stage}]
}

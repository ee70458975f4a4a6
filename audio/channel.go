package audio

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/scene-audio/constant"
)

// stageState holds one attenuation layer and its active fade
type stageState struct {
	level float64
	task  *FadeTask
}

// pendingSwap is a clip waiting for the crossfade fade-out to complete
type pendingSwap struct {
	clip     Clip
	linear   float64
	duration time.Duration
}

// ChannelController owns the clip and level state of one channel
// All mutation goes through the controller or the scheduler tick advancing its fades
type ChannelController struct {
	channel  Channel
	out      ChannelOutput
	resolver ClipResolver
	sched    *FadeScheduler
	warn     WarningFunc

	clip     ClipID
	stages   [stageCount]stageState
	pending  *pendingSwap
	stopping bool
}

// NewChannelController creates a silent controller with no clip
// The pause stage starts at unity, the main stage at DecibelFloor
func NewChannelController(ch Channel, out ChannelOutput, resolver ClipResolver, sched *FadeScheduler) *ChannelController {
	c := &ChannelController{
		channel:  ch,
		out:      out,
		resolver: resolver,
		sched:    sched,
	}
	c.stages[StageMain].level = constant.DecibelFloor
	c.stages[StagePause].level = constant.DecibelCeiling
	c.out.SetLevel(c.Level())
	return c
}

// SetWarningFunc installs the warning sink, nil restores log-only warnings
func (c *ChannelController) SetWarningFunc(fn WarningFunc) {
	c.warn = fn
}

// Channel returns the channel this controller drives
func (c *ChannelController) Channel() Channel {
	return c.channel
}

// FadeTo fades the main stage to targetLinear over d
// A non-empty clip different from the current one is swapped in immediately and
// silently; the level continues from its current value. An unresolvable clip
// rejects the whole request: no swap, no fade, warning emitted
func (c *ChannelController) FadeTo(clip ClipID, targetLinear float64, d time.Duration) error {
	var next Clip
	if clip != "" && clip != c.clip {
		resolved, err := c.resolve(clip)
		if err != nil {
			return err
		}
		next = resolved
	}

	c.supersede()
	if next != nil {
		c.swap(next)
	}
	c.startStage(StageMain, ToDecibels(targetLinear), d, nil)
	return nil
}

// CrossfadeTo fades the current clip out to silence over d, then swaps to clip
// and fades in to targetLinear over d. Sequential, never overlapping
// With nothing playing the swap happens immediately; with clip already
// playing only the level is restored
func (c *ChannelController) CrossfadeTo(clip ClipID, targetLinear float64, d time.Duration) error {
	if clip == "" || clip == c.clip {
		return c.FadeTo(clip, targetLinear, d)
	}

	next, err := c.resolve(clip)
	if err != nil {
		return err
	}

	c.supersede()
	if c.clip == "" {
		c.swap(next)
		c.startStage(StageMain, ToDecibels(targetLinear), d, nil)
		return nil
	}

	c.pending = &pendingSwap{clip: next, linear: targetLinear, duration: d}
	c.startStage(StageMain, constant.DecibelFloor, d, c.completeSwap)
	return nil
}

// completeSwap runs when the crossfade fade-out completes
func (c *ChannelController) completeSwap() {
	p := c.pending
	c.pending = nil
	if p == nil {
		return
	}
	c.swap(p.clip)
	c.startStage(StageMain, ToDecibels(p.linear), p.duration, nil)
}

// Retarget changes the main-stage target volume without touching the clip
// A pending crossfade keeps running and fades in to the new volume; a fade-out
// to stop is left alone
func (c *ChannelController) Retarget(targetLinear float64, d time.Duration) {
	if c.stopping {
		return
	}
	if c.pending != nil {
		c.pending.linear = targetLinear
		return
	}
	c.cancelStage(StageMain)
	c.startStage(StageMain, ToDecibels(targetLinear), d, nil)
}

// FadeOutAndStop fades to silence over d, then stops playback and clears the clip
func (c *ChannelController) FadeOutAndStop(d time.Duration) {
	c.supersede()
	if c.clip == "" {
		c.startStage(StageMain, constant.DecibelFloor, d, nil)
		return
	}
	c.stopping = true
	c.startStage(StageMain, constant.DecibelFloor, d, func() {
		c.stopping = false
		c.out.Stop()
		c.clip = ""
	})
}

// Stopping reports whether a fade-out to stop is in progress
func (c *ChannelController) Stopping() bool {
	return c.stopping
}

// FadeStageTo fades a non-main stage, e.g. the pause layer, independently of the main stage
func (c *ChannelController) FadeStageTo(stage Stage, targetLinear float64, d time.Duration) {
	if stage >= stageCount {
		return
	}
	if stage == StageMain {
		c.supersede()
	} else {
		c.cancelStage(stage)
	}
	c.startStage(stage, ToDecibels(targetLinear), d, nil)
}

// Cancel stops all fades on this channel and drops any pending crossfade
// Levels stay where the fades left them
func (c *ChannelController) Cancel() {
	c.pending = nil
	c.stopping = false
	for s := range c.stages {
		c.cancelStage(Stage(s))
	}
}

// Stop cancels all fades, stops playback and clears the clip
func (c *ChannelController) Stop() {
	c.Cancel()
	c.out.Stop()
	c.clip = ""
}

// Level returns the effective output level in dB
func (c *ChannelController) Level() float64 {
	var sum float64
	for _, st := range c.stages {
		sum += st.level
	}
	return clampDecibels(sum)
}

// StageLevel returns the level of a single stage in dB
func (c *ChannelController) StageLevel(stage Stage) float64 {
	if stage >= stageCount {
		return constant.DecibelFloor
	}
	return c.stages[stage].level
}

// Clip returns the clip currently playing, empty when stopped
func (c *ChannelController) Clip() ClipID {
	return c.clip
}

// TargetClip returns the pending crossfade clip if any, else the current clip
// Empty while the channel fades out to stop
func (c *ChannelController) TargetClip() ClipID {
	if c.stopping {
		return ""
	}
	if c.pending != nil {
		return c.pending.clip.ID()
	}
	return c.clip
}

// Fading reports whether the main stage has a running fade
func (c *ChannelController) Fading() bool {
	return c.runningTask(StageMain) != nil
}

// State returns a comparable snapshot
func (c *ChannelController) State() ChannelState {
	st := ChannelState{
		Channel:  c.channel,
		Clip:     c.clip,
		VolumeDB: c.Level(),
		MainDB:   c.stages[StageMain].level,
		PauseDB:  c.stages[StagePause].level,
	}
	if t := c.runningTask(StageMain); t != nil {
		st.ActiveFadeID = t.ID
	}
	if t := c.runningTask(StagePause); t != nil {
		st.PauseFadeID = t.ID
	}
	if c.pending != nil {
		st.PendingClip = c.pending.clip.ID()
	}
	return st
}

// ActiveFadeID returns the running main-stage fade handle, uuid.Nil when idle
func (c *ChannelController) ActiveFadeID() uuid.UUID {
	if t := c.runningTask(StageMain); t != nil {
		return t.ID
	}
	return uuid.Nil
}

func (c *ChannelController) runningTask(stage Stage) *FadeTask {
	t := c.stages[stage].task
	if t == nil || t.Status() != FadeRunning {
		return nil
	}
	return t
}

// supersede cancels the main-stage fade, any pending crossfade and any pending stop
func (c *ChannelController) supersede() {
	c.pending = nil
	c.stopping = false
	c.cancelStage(StageMain)
}

func (c *ChannelController) cancelStage(stage Stage) {
	st := &c.stages[stage]
	if st.task != nil {
		c.sched.Cancel(st.task)
		st.task = nil
	}
}

func (c *ChannelController) startStage(stage Stage, targetDB float64, d time.Duration, onDone func()) {
	spec := FadeSpec{
		Channel:  c.channel,
		Stage:    stage,
		StartDB:  c.stages[stage].level,
		TargetDB: clampDecibels(targetDB),
		Duration: d,
	}
	task := c.sched.Start(spec, func(db float64) { c.write(stage, db) }, onDone)
	// Synchronous completion may already have started a follow-up fade
	if task.Status() == FadeRunning || c.stages[stage].task == nil {
		c.stages[stage].task = task
	}
}

func (c *ChannelController) write(stage Stage, db float64) {
	c.stages[stage].level = clampDecibels(db)
	c.out.SetLevel(c.Level())
}

// swap replaces the playing clip without touching the level
func (c *ChannelController) swap(clip Clip) {
	c.clip = clip.ID()
	c.out.Play(clip)
}

// resolve looks up a clip, warning and wrapping ErrClipUnresolvable on failure
func (c *ChannelController) resolve(id ClipID) (Clip, error) {
	clip, err := c.resolver.Resolve(id)
	if err == nil && clip == nil {
		err = fmt.Errorf("resolver returned no clip")
	}
	if err != nil {
		err = fmt.Errorf("%w: %s channel clip %q: %v", ErrClipUnresolvable, c.channel, id, err)
		c.warnf("%v", err)
		return nil, err
	}
	return clip, nil
}

func (c *ChannelController) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[audio] WARN %s", msg)
	if c.warn != nil {
		c.warn(msg)
	}
}

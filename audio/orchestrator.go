package audio

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/scene-audio/constant"
	"github.com/lixenwraith/scene-audio/event"
	"github.com/lixenwraith/scene-audio/settings"
	"github.com/lixenwraith/scene-audio/status"
)

// Deps are the collaborators an Orchestrator drives
type Deps struct {
	Policy   *SceneAudioPolicy
	Resolver ClipResolver
	Outputs  map[Channel]ChannelOutput
	Volumes  *settings.VolumeStore
	OneShots *OneShotPlayer   // optional
	Events   *event.Router    // optional; subscribed on Init, unsubscribed on Shutdown
	Warn     WarningFunc      // optional
	Metrics  *status.Registry // optional; a private registry is used when nil
}

// orchestratorMetrics are cached registry pointers, written under the orchestrator lock
type orchestratorMetrics struct {
	scene       *status.AtomicString
	transitions *atomic.Int64
	fades       *atomic.Int64
	warnings    *atomic.Int64
	levels      [channelCount]*status.AtomicFloat
}

func newOrchestratorMetrics(reg *status.Registry) orchestratorMetrics {
	m := orchestratorMetrics{
		scene:       reg.Strings.Get("audio.scene"),
		transitions: reg.Ints.Get("audio.transitions"),
		fades:       reg.Ints.Get("audio.fades"),
		warnings:    reg.Ints.Get("audio.warnings"),
	}
	for _, ch := range Channels() {
		m.levels[ch] = reg.Floats.Get("audio." + ch.String() + ".db")
	}
	return m
}

// Orchestrator sequences channel transitions around scene changes
// Explicitly constructed and owned by the application root; Init subscribes,
// Shutdown unsubscribes. All methods are safe for concurrent use; fade work
// only happens inside Tick
type Orchestrator struct {
	mu sync.Mutex

	cfg      Config
	policy   *SceneAudioPolicy
	sched    *FadeScheduler
	channels [channelCount]*ChannelController
	volumes  *settings.VolumeStore
	oneShots *OneShotPlayer
	events   *event.Router
	warn     WarningFunc
	registry *status.Registry
	metrics  orchestratorMetrics

	initialized      bool
	sceneActive      bool // A profile has been applied at least once
	diegeticSilenced bool // Held at silence from TransitionBegin until a non-suppressing TransitionEnd
	currentScene     string
}

// NewOrchestrator wires controllers for every channel
func NewOrchestrator(cfg Config, deps Deps) (*Orchestrator, error) {
	if deps.Policy == nil {
		return nil, fmt.Errorf("%w: policy", ErrMissingDependency)
	}
	if deps.Resolver == nil {
		return nil, fmt.Errorf("%w: clip resolver", ErrMissingDependency)
	}
	if deps.Volumes == nil {
		return nil, fmt.Errorf("%w: volume store", ErrMissingDependency)
	}
	for _, ch := range Channels() {
		if deps.Outputs[ch] == nil {
			return nil, fmt.Errorf("%w: %s output", ErrMissingDependency, ch)
		}
	}
	for _, d := range []time.Duration{cfg.MusicFade, cfg.DiegeticFade, cfg.AmbienceFade, cfg.SettingsFade} {
		if d < 0 {
			return nil, ErrNegativeDuration
		}
	}

	reg := deps.Metrics
	if reg == nil {
		reg = status.NewRegistry()
	}

	o := &Orchestrator{
		cfg:      cfg,
		policy:   deps.Policy,
		sched:    NewFadeScheduler(),
		volumes:  deps.Volumes,
		oneShots: deps.OneShots,
		events:   deps.Events,
		warn:     deps.Warn,
		registry: reg,
		metrics:  newOrchestratorMetrics(reg),
	}
	for _, ch := range Channels() {
		ctrl := NewChannelController(ch, deps.Outputs[ch], deps.Resolver, o.sched)
		ctrl.SetWarningFunc(o.emitWarning)
		o.channels[ch] = ctrl
		o.metrics.levels[ch].Set(ctrl.Level())
	}
	if o.oneShots != nil {
		o.oneShots.SetWarningFunc(o.emitWarning)
	}
	return o, nil
}

// Init loads persisted volumes and subscribes to scene events
// A second call returns ErrAlreadyInitialized and changes nothing. Channels stay
// silent until the first resolved TransitionEnd
func (o *Orchestrator) Init() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		return ErrAlreadyInitialized
	}
	if err := o.volumes.Load(); err != nil {
		o.warnf("load volumes: %v (using defaults)", err)
	}
	if o.events != nil {
		o.events.Subscribe(o)
	}
	o.initialized = true
	log.Printf("[audio] orchestrator initialized")
	return nil
}

// Shutdown unsubscribes, cancels every fade, persists volumes and stops playback
// Returns ErrNotInitialized without side effects when not initialized
func (o *Orchestrator) Shutdown() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return ErrNotInitialized
	}
	if o.events != nil {
		o.events.Unsubscribe(o)
	}
	o.sched.CancelAll()
	for _, c := range o.channels {
		c.Stop()
	}

	var err error
	if saveErr := o.volumes.Save(); saveErr != nil {
		o.warnf("save volumes on shutdown: %v", saveErr)
		err = saveErr
	}
	o.initialized = false
	o.sceneActive = false
	log.Printf("[audio] orchestrator shut down")
	return err
}

// Tick advances all running fades by the unscaled frame delta
func (o *Orchestrator) Tick(dt time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sched.Tick(dt)
	o.publishMetrics()
}

// TransitionBegin fades diegetic sound out ahead of the scene swap
// Music and ambience are untouched
func (o *Orchestrator) TransitionBegin(sceneID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitionBegin(sceneID)
}

func (o *Orchestrator) transitionBegin(sceneID string) {
	log.Printf("[audio] transition begin: %s", sceneID)
	o.diegeticSilenced = true
	o.channel(ChannelDiegetic).Retarget(0, o.cfg.DiegeticFade)
}

// TransitionEnd applies the profile of sceneID
// Unknown scenes change nothing; the diegetic fade-out from TransitionBegin keeps running
func (o *Orchestrator) TransitionEnd(sceneID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitionEnd(sceneID)
}

func (o *Orchestrator) transitionEnd(sceneID string) {
	profile, ok := o.policy.Resolve(sceneID)
	if !ok {
		log.Printf("[audio] no audio profile for scene %q, leaving audio unchanged", sceneID)
		return
	}
	log.Printf("[audio] transition end: %s", sceneID)
	o.currentScene = sceneID
	o.sceneActive = true
	o.metrics.scene.Store(sceneID)
	o.metrics.transitions.Add(1)
	defer o.publishMetrics()

	// Diegetic: restore unless the scene suppresses it, lifting any mute left
	// over from the previous scene
	wasSilenced := o.diegeticSilenced
	o.diegeticSilenced = profile.SuppressDiegetic
	diegetic := o.channel(ChannelDiegetic)
	switch {
	case !profile.SuppressDiegetic:
		diegetic.Retarget(o.volume(ChannelDiegetic), o.cfg.DiegeticFade)
		if diegetic.StageLevel(StagePause) != constant.DecibelCeiling || diegetic.runningTask(StagePause) != nil {
			diegetic.FadeStageTo(StagePause, 1, o.cfg.DiegeticFade)
		}
	case !wasSilenced:
		// No TransitionBegin preceded this end
		diegetic.Retarget(0, o.cfg.DiegeticFade)
	}

	// Music: sequential crossfade when the target differs
	music := o.channel(ChannelMusic)
	if profile.MusicClip != "" && profile.MusicClip != music.TargetClip() {
		_ = music.CrossfadeTo(profile.MusicClip, o.volume(ChannelMusic), o.cfg.MusicFade)
	}

	// Ambience: immediate swap, no silence gap
	ambience := o.channel(ChannelAmbience)
	if profile.AmbienceClip != "" && profile.AmbienceClip != ambience.TargetClip() {
		_ = ambience.FadeTo(profile.AmbienceClip, o.volume(ChannelAmbience), o.cfg.AmbienceFade)
	}
}

// RequestSceneAudio runs TransitionBegin and TransitionEnd back to back
// For hosts that only report "scene loaded". Unknown scenes change nothing at all
func (o *Orchestrator) RequestSceneAudio(sceneID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.policy.Resolve(sceneID); !ok {
		log.Printf("[audio] no audio profile for scene %q, leaving audio unchanged", sceneID)
		return
	}
	o.transitionBegin(sceneID)
	o.transitionEnd(sceneID)
}

// SetChannelVolume stores a user volume and applies it over the settings fade
// Silenced channels (suppressed diegetic, stopped music, before the first scene)
// only record the value
func (o *Orchestrator) SetChannelVolume(ch Channel, linear float64) {
	if ch >= channelCount {
		o.warnf("set volume: unknown channel %d", ch)
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	v := o.volumes.Set(ch.String(), linear)
	log.Printf("[audio] %s volume set to: %.2f", ch, v)
	o.applyVolume(ch)
}

func (o *Orchestrator) applyVolume(ch Channel) {
	if !o.sceneActive {
		return
	}
	ctrl := o.channel(ch)
	switch ch {
	case ChannelDiegetic:
		if o.diegeticSilenced {
			return
		}
	default:
		if ctrl.TargetClip() == "" {
			return
		}
	}
	ctrl.Retarget(o.volume(ch), o.cfg.SettingsFade)
}

// ChannelVolume returns the stored linear volume of a channel
func (o *Orchestrator) ChannelVolume(ch Channel) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume(ch)
}

// SaveVolumes persists the current volumes
func (o *Orchestrator) SaveVolumes() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.volumes.Save(); err != nil {
		o.warnf("save volumes: %v", err)
		return err
	}
	return nil
}

// LoadVolumes reloads persisted volumes and applies them to audible channels
func (o *Orchestrator) LoadVolumes() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.volumes.Load(); err != nil {
		o.warnf("load volumes: %v", err)
		return err
	}
	for _, ch := range Channels() {
		o.applyVolume(ch)
	}
	return nil
}

// PlayOneShot fires a random clip of category through out
func (o *Orchestrator) PlayOneShot(category SoundCategory, out OneShotOutput, volume float64) error {
	if o.oneShots == nil {
		return o.warnErr(fmt.Errorf("%w: one-shot player", ErrMissingDependency))
	}
	return o.oneShots.Play(category, out, volume)
}

// PauseMusic fades the music pause layer to silence
func (o *Orchestrator) PauseMusic() {
	o.fadePause(ChannelMusic, 0, o.cfg.MusicFade)
}

// ResumeMusic fades the music pause layer back to unity
func (o *Orchestrator) ResumeMusic() {
	o.fadePause(ChannelMusic, 1, o.cfg.MusicFade)
}

// MuteDiegetic fades the diegetic pause layer to silence
func (o *Orchestrator) MuteDiegetic() {
	o.fadePause(ChannelDiegetic, 0, o.cfg.DiegeticFade)
}

// UnmuteDiegetic fades the diegetic pause layer back to unity
func (o *Orchestrator) UnmuteDiegetic() {
	o.fadePause(ChannelDiegetic, 1, o.cfg.DiegeticFade)
}

func (o *Orchestrator) fadePause(ch Channel, linear float64, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.channel(ch).FadeStageTo(StagePause, linear, d)
}

// StopMusic fades music out, then stops playback and clears the clip
func (o *Orchestrator) StopMusic() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.channel(ChannelMusic).FadeOutAndStop(o.cfg.MusicFade)
}

// State returns a snapshot of one channel
func (o *Orchestrator) State(ch Channel) ChannelState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.channel(ch).State()
}

// States returns snapshots of every channel in declaration order
func (o *Orchestrator) States() []ChannelState {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]ChannelState, 0, channelCount)
	for _, c := range o.channels {
		out = append(out, c.State())
	}
	return out
}

// ActiveFades returns the number of running fades across all channels
func (o *Orchestrator) ActiveFades() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sched.Active()
}

// Metrics returns the registry the orchestrator publishes to
func (o *Orchestrator) Metrics() *status.Registry {
	return o.registry
}

// CurrentScene returns the last scene whose profile was applied
func (o *Orchestrator) CurrentScene() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentScene
}

// EventTypes implements event.Handler
func (o *Orchestrator) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventTransitionBegin,
		event.EventTransitionEnd,
		event.EventSceneLoaded,
		event.EventGamePaused,
		event.EventGameResumed,
		event.EventVolumeChanged,
		event.EventSettingsConfirmed,
	}
}

// HandleEvent implements event.Handler
func (o *Orchestrator) HandleEvent(ev event.GameEvent) {
	switch ev.Type {
	case event.EventTransitionBegin:
		o.TransitionBegin(ev.SceneID())
	case event.EventTransitionEnd:
		o.TransitionEnd(ev.SceneID())
	case event.EventSceneLoaded:
		o.RequestSceneAudio(ev.SceneID())
	case event.EventGamePaused:
		o.PauseMusic()
		o.MuteDiegetic()
	case event.EventGameResumed:
		o.ResumeMusic()
		o.UnmuteDiegetic()
	case event.EventVolumeChanged:
		p, ok := ev.Payload.(*event.VolumePayload)
		if !ok || p == nil {
			o.warnf("volume event without payload")
			return
		}
		ch, ok := ParseChannel(p.Channel)
		if !ok {
			o.warnf("volume event for unknown channel %q", p.Channel)
			return
		}
		o.SetChannelVolume(ch, p.Linear)
	case event.EventSettingsConfirmed:
		_ = o.SaveVolumes()
	}
}

func (o *Orchestrator) channel(ch Channel) *ChannelController {
	return o.channels[ch]
}

func (o *Orchestrator) volume(ch Channel) float64 {
	return o.volumes.Get(ch.String())
}

// publishMetrics mirrors levels and fade count into the registry; caller holds mu
func (o *Orchestrator) publishMetrics() {
	o.metrics.fades.Store(int64(o.sched.Active()))
	for ch, c := range o.channels {
		o.metrics.levels[ch].Set(c.Level())
	}
}

// emitWarning counts and forwards a warning already logged by its source
func (o *Orchestrator) emitWarning(msg string) {
	o.metrics.warnings.Add(1)
	if o.warn != nil {
		o.warn(msg)
	}
}

func (o *Orchestrator) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[audio] WARN %s", msg)
	o.emitWarning(msg)
}

func (o *Orchestrator) warnErr(err error) error {
	o.warnf("%v", err)
	return err
}

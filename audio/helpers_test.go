package audio

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/scene-audio/event"
	"github.com/lixenwraith/scene-audio/settings"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

type testClip ClipID

func (c testClip) ID() ClipID { return ClipID(c) }

// recordingOutput captures every call a controller makes
type recordingOutput struct {
	plays    []ClipID
	stops    int
	levels   []float64
	oneShots []ClipID
	volumes  []float64
}

func (o *recordingOutput) Play(c Clip) { o.plays = append(o.plays, c.ID()) }
func (o *recordingOutput) Stop() { o.stops++ }
func (o *recordingOutput) SetLevel(db float64) { o.levels = append(o.levels, db) }
func (o *recordingOutput) level() float64 { return o.levels[len(o.levels)-1] }
func (o *recordingOutput) writesSince(n int) int { return len(o.levels) - n }

func (o *recordingOutput) PlayOneShot(c Clip, v float64) {
	o.oneShots = append(o.oneShots, c.ID())
	o.volumes = append(o.volumes, v)
}

// mapResolver resolves any id not listed as missing
type mapResolver struct {
	missing map[ClipID]bool
	calls   int
}

var errNoAsset = errors.New("asset not found")

func (r *mapResolver) Resolve(id ClipID) (Clip, error) {
	r.calls++
	if r.missing[id] {
		return nil, errNoAsset
	}
	return testClip(id), nil
}

func newResolver(missing ...ClipID) *mapResolver {
	r := &mapResolver{missing: make(map[ClipID]bool)}
	for _, id := range missing {
		r.missing[id] = true
	}
	return r
}

// warnings collects WarningFunc messages
type warnings struct {
	msgs []string
}

func (w *warnings) fn() WarningFunc {
	return func(msg string) { w.msgs = append(w.msgs, msg) }
}

// stepFor ticks sched in fixed frames until d has elapsed
func stepFor(sched *FadeScheduler, d, frame time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		sched.Tick(frame)
	}
}

// orchestratorFixture is a fully wired orchestrator over recording outputs
type orchestratorFixture struct {
	orch     *Orchestrator
	outs     map[Channel]*recordingOutput
	resolver *mapResolver
	backend  *settings.MemoryStore
	router   *event.Router
	warn     *warnings
	cfg      Config
}

func testConfig() Config {
	return Config{
		Enabled:      true,
		MusicFade:    time.Second,
		DiegeticFade: 500 * time.Millisecond,
		AmbienceFade: 2 * time.Second,
		SettingsFade: 0,
	}
}

func testProfiles() []SceneAudioProfile {
	return []SceneAudioProfile{
		{SceneID: "MainMenu", MusicClip: "menuTheme", SuppressDiegetic: true},
		{SceneID: "Level1", MusicClip: "levelTheme", AmbienceClip: "forestAmbience"},
		{SceneID: "Level2", MusicClip: "levelTheme", AmbienceClip: "spaceAmbience"},
		{SceneID: "Credits", MusicClip: "creditsTheme", SuppressDiegetic: true},
		{SceneID: "Broken", MusicClip: "bossTheme", AmbienceClip: "missingAmbience"},
		{SceneID: "Hangar", MusicClip: "levelTheme"},
	}
}

func newFixture(t *testing.T, missing ...ClipID) *orchestratorFixture {
	t.Helper()
	policy, err := NewSceneAudioPolicy(testProfiles())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}

	f := &orchestratorFixture{
		outs:     make(map[Channel]*recordingOutput),
		resolver: newResolver(missing...),
		backend: settings.NewMemoryStore(map[string]float64{
			"music":    0.6,
			"diegetic": 1.0,
			"ambience": 0.5,
		}),
		router: event.NewRouter(nil),
		warn:   &warnings{},
		cfg:    testConfig(),
	}
	outputs := make(map[Channel]ChannelOutput)
	for _, ch := range Channels() {
		out := &recordingOutput{}
		f.outs[ch] = out
		outputs[ch] = out
	}

	f.orch, err = NewOrchestrator(f.cfg, Deps{
		Policy:   policy,
		Resolver: f.resolver,
		Outputs:  outputs,
		Volumes:  settings.NewVolumeStore(f.backend, nil),
		OneShots: NewOneShotPlayer(map[SoundCategory][]ClipID{SoundAttack: {"swing"}}, f.resolver),
		Events:   f.router,
		Warn:     f.warn.fn(),
	})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	if err := f.orch.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return f
}

// settle ticks long enough for every configured fade, including a full crossfade, to finish
func (f *orchestratorFixture) settle() {
	total := 2*f.cfg.MusicFade + f.cfg.DiegeticFade + f.cfg.AmbienceFade
	for elapsed := time.Duration(0); elapsed <= total; elapsed += 16 * time.Millisecond {
		f.orch.Tick(16 * time.Millisecond)
	}
}

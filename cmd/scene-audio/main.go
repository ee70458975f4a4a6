package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/lixenwraith/scene-audio/asset"
	"github.com/lixenwraith/scene-audio/audio"
	"github.com/lixenwraith/scene-audio/constant"
	"github.com/lixenwraith/scene-audio/core"
	"github.com/lixenwraith/scene-audio/engine"
	"github.com/lixenwraith/scene-audio/event"
	"github.com/lixenwraith/scene-audio/playback"
	"github.com/lixenwraith/scene-audio/service"
	"github.com/lixenwraith/scene-audio/settings"
	"github.com/lixenwraith/scene-audio/status"
)

const (
	transitionDelay = 500 * time.Millisecond // Simulated scene load between begin and end
	volumeStep      = 0.1
	meterWidth      = 30
)

var (
	configFlag   = flag.String("config", "", "Scene audio TOML (default: built-in tone config)")
	settingsFlag = flag.String("settings", "", "Volume settings file (default: $"+constant.EnvSettingsPath+" or "+constant.DefaultSettingsPath+")")
	assetsFlag   = flag.String("assets", "", "Clip asset directory (default: $"+constant.EnvAssetDir+" or "+constant.DefaultAssetDir+")")
	debugFlag    = flag.Bool("debug", false, "Write logs to "+logDir+"/")
	muteFlag     = flag.Bool("mute", false, "Run without opening an audio device")
)

// Demo is the interactive scene audio console
type Demo struct {
	screen tcell.Screen

	orch    *audio.Orchestrator
	backend *playback.Backend
	policy  *audio.SceneAudioPolicy
	router  *event.Router
	clock   *engine.FrameClock
	game    *engine.PausableClock
	metrics *status.Registry

	mu          sync.Mutex
	lastWarning string
	warnedAt    time.Time
	nextScene   int
	showMetrics bool
}

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	demo, hub, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	demo.screen = screen
	core.SetCrashCleanup(screen.Fini)

	if err := hub.StartAll(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start services: %v\n", err)
		os.Exit(1)
	}

	demo.run()

	hub.StopAll()
	screen.Fini()
}

// build wires config, playback, orchestrator and frame clock into a service hub
func build() (*Demo, *service.Hub, error) {
	cfg := audio.LoadConfig()
	if *settingsFlag != "" {
		cfg.SettingsPath = *settingsFlag
	}
	if *assetsFlag != "" {
		cfg.AssetDir = *assetsFlag
	}

	var (
		doc *audio.SceneAudioConfig
		err error
	)
	if *configFlag == "" {
		doc, err = audio.LoadSceneAudioConfig([]byte(asset.DefaultSceneAudioConfig))
	} else {
		doc, err = audio.LoadSceneAudioConfigFile(*configFlag)
	}
	if err != nil {
		return nil, nil, err
	}
	doc.ApplyFades(cfg)

	policy, err := doc.Policy()
	if err != nil {
		return nil, nil, err
	}

	library := playback.NewLibrary(cfg.AssetDir, doc.Clips)
	backend := playback.NewBackend()
	router := event.NewRouter(nil)
	volumes := settings.NewVolumeStore(settings.NewFileStore(cfg.SettingsPath), map[string]float64{
		audio.ChannelMusic.String():    constant.DefaultMusicVolume,
		audio.ChannelDiegetic.String(): constant.DefaultDiegeticVolume,
		audio.ChannelAmbience.String(): constant.DefaultAmbienceVolume,
	})

	d := &Demo{
		backend: backend,
		policy:  policy,
		router:  router,
		game:    engine.NewPausableClock(nil),
		metrics: status.NewRegistry(),
	}

	orch, err := audio.NewOrchestrator(*cfg, audio.Deps{
		Policy:   policy,
		Resolver: library,
		Outputs:  backend.Outputs(),
		Volumes:  volumes,
		OneShots: audio.NewOneShotPlayer(doc.SoundSets(), library),
		Events:   router,
		Warn:     d.warn,
		Metrics:  d.metrics,
	})
	if err != nil {
		return nil, nil, err
	}
	d.orch = orch

	d.clock = engine.NewFrameClock(nil, router, constant.FrameInterval)
	d.clock.AddTicker(orch)

	hub := service.NewHub()
	for _, svc := range []service.Service{
		playback.NewService(backend, library),
		audio.NewService(orch),
		engine.NewClockService(d.clock),
	} {
		if err := hub.Register(svc); err != nil {
			return nil, nil, err
		}
	}
	muted := *muteFlag || !cfg.Enabled
	if err := hub.InitAll(map[string][]any{"playback": {muted}}); err != nil {
		return nil, nil, err
	}

	log.Printf("[demo] %d scenes, music fade %v, ambience fade %v", policy.Len(), cfg.MusicFade, cfg.AmbienceFade)
	return d, hub, nil
}

func (d *Demo) warn(msg string) {
	d.mu.Lock()
	d.lastWarning = msg
	d.warnedAt = time.Now()
	d.mu.Unlock()
}

// transition publishes begin now and end after the simulated load
func (d *Demo) transition(sceneID string) {
	d.router.Publish(event.NewSceneEvent(event.EventTransitionBegin, sceneID))
	time.AfterFunc(transitionDelay, func() {
		d.router.Publish(event.NewSceneEvent(event.EventTransitionEnd, sceneID))
	})
}

func (d *Demo) togglePause() {
	if d.game.Toggle() {
		d.router.Publish(event.NewEvent(event.EventGamePaused))
	} else {
		d.router.Publish(event.NewEvent(event.EventGameResumed))
	}
}

func (d *Demo) nudgeVolume(ch audio.Channel, delta float64) {
	v := settings.ClampLinear(d.orch.ChannelVolume(ch) + delta)
	d.router.Publish(event.NewVolumeEvent(ch.String(), v))
}

func (d *Demo) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}

		scenes := d.policy.SceneIDs()
		switch r := ev.Rune(); {
		case r >= '1' && r <= '9':
			if i := int(r - '1'); i < len(scenes) {
				d.transition(scenes[i])
			}
		case r == '0':
			d.transition("Unmapped")
		case r == 'l':
			if len(scenes) > 0 {
				d.router.Publish(event.NewSceneEvent(event.EventSceneLoaded, scenes[d.nextScene%len(scenes)]))
				d.nextScene++
			}
		case r == 'p':
			d.togglePause()
		case r == '+' || r == '=':
			d.nudgeVolume(audio.ChannelMusic, volumeStep)
		case r == '-':
			d.nudgeVolume(audio.ChannelMusic, -volumeStep)
		case r == ']':
			d.nudgeVolume(audio.ChannelAmbience, volumeStep)
		case r == '[':
			d.nudgeVolume(audio.ChannelAmbience, -volumeStep)
		case r == 'a':
			_ = d.orch.PlayOneShot(audio.SoundAttack, d.backend.Output(audio.ChannelDiegetic), 1.0)
		case r == 'f':
			_ = d.orch.PlayOneShot(audio.SoundFootstep, d.backend.Output(audio.ChannelDiegetic), 0.6)
		case r == 'b':
			_ = d.orch.PlayOneShot(audio.SoundButtonClick, d.backend.UI(), 1.0)
		case r == 's':
			d.router.Publish(event.NewEvent(event.EventSettingsConfirmed))
		case r == 'x':
			d.orch.StopMusic()
		case r == 'm':
			d.showMetrics = !d.showMetrics
		case r == 'q':
			return false
		}

	case *tcell.EventResize:
		d.screen.Sync()
	}
	return true
}

func (d *Demo) run() {
	ticker := time.NewTicker(constant.FrameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	for {
		select {
		case ev := <-eventChan:
			if !d.handleInput(ev) {
				return
			}
		case <-ticker.C:
			d.draw()
		}
	}
}

var (
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleMeter  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFading = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleWarn   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHelp   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (d *Demo) draw() {
	d.screen.Clear()
	y := 0

	mode := "speaker"
	if d.backend.IsSilent() {
		mode = "silent"
	}
	d.text(0, y, styleTitle, fmt.Sprintf("scene-audio  [%s]  frames %d", mode, d.clock.Frames()))
	y += 2

	scene := d.orch.CurrentScene()
	if scene == "" {
		scene = "(none)"
	}
	paused := ""
	if d.game.IsPaused() {
		paused = "  PAUSED"
	}
	d.text(0, y, styleLabel, fmt.Sprintf("scene %-10s game %8s  paused %6s  fades %d%s",
		scene,
		d.game.Elapsed().Round(100*time.Millisecond),
		d.game.TotalPauseDuration().Round(100*time.Millisecond),
		d.orch.ActiveFades(),
		paused,
	))
	y += 2

	for _, st := range d.orch.States() {
		d.drawChannel(y, st)
		y += 2
	}

	d.mu.Lock()
	warning, at := d.lastWarning, d.warnedAt
	d.mu.Unlock()
	if warning != "" && time.Since(at) < 5*time.Second {
		d.text(0, y, styleWarn, "WARN "+warning)
	}
	y += 2

	scenes := d.policy.SceneIDs()
	keys := make([]string, 0, len(scenes))
	for i, id := range scenes {
		if i >= 9 {
			break
		}
		keys = append(keys, fmt.Sprintf("%d %s", i+1, id))
	}
	d.text(0, y, styleHelp, strings.Join(keys, "  ")+"  0 unmapped  l scene-loaded")
	d.text(0, y+1, styleHelp, "p pause  +/- music  [/] ambience  a attack  f step  b click  x stop music  m metrics  s save  q quit")

	if d.showMetrics {
		d.metrics.Bools.Get("playback.silent").Store(d.backend.IsSilent())
		d.metrics.Ints.Get("clock.frames").Store(int64(d.clock.Frames()))
		y += 3
		for i, line := range d.metrics.Lines() {
			d.text(0, y+i, styleLabel, line)
		}
	}

	d.screen.Show()
}

func (d *Demo) drawChannel(y int, st audio.ChannelState) {
	style := styleMeter
	if st.ActiveFadeID != uuid.Nil || st.PauseFadeID != uuid.Nil {
		style = styleFading
	}

	clip := string(st.Clip)
	if clip == "" {
		clip = "-"
	}
	if st.PendingClip != "" {
		clip += " -> " + string(st.PendingClip)
	}

	filled := int((st.VolumeDB - constant.DecibelFloor) / (constant.DecibelCeiling - constant.DecibelFloor) * meterWidth)
	filled = max(0, min(meterWidth, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("·", meterWidth-filled)

	d.text(0, y, styleLabel, fmt.Sprintf("%-9s", st.Channel))
	d.text(10, y, style, bar)
	d.text(11+meterWidth, y, styleLabel, fmt.Sprintf("%6.1f dB  pause %5.1f  vol %.2f  %s",
		st.VolumeDB, st.PauseDB, d.orch.ChannelVolume(st.Channel), clip))
}

func (d *Demo) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		d.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

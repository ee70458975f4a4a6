package playback

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/scene-audio/audio"
	"github.com/lixenwraith/scene-audio/constant"
)

// Backend owns one bus per channel plus a UI bus, mixed into the speaker
// Without an audio device it runs silent: buses still track clips and levels
type Backend struct {
	mu       sync.Mutex
	channels map[audio.Channel]*ChannelOutput
	ui       *ChannelOutput
	master   *beep.Mixer

	running atomic.Bool
	silent  atomic.Bool
	speaker bool // speaker.Init succeeded
}

// NewBackend creates the buses; nothing reaches the speaker until Start
func NewBackend() *Backend {
	b := &Backend{
		channels: make(map[audio.Channel]*ChannelOutput),
		ui:       newChannelOutput("ui"),
		master:   &beep.Mixer{},
	}
	for _, ch := range audio.Channels() {
		out := newChannelOutput(ch.String())
		b.channels[ch] = out
		b.master.Add(out)
	}
	b.master.Add(b.ui)
	return b
}

// Start opens the speaker and begins streaming the master mix
// Muted or device failure switches to silent mode; neither is an error
func (b *Backend) Start(muted bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running.Load() {
		return nil
	}
	b.running.Store(true)

	if muted {
		b.silent.Store(true)
		log.Printf("[playback] muted, running silent")
		return nil
	}

	format := Format()
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(constant.AudioBufferDuration)); err != nil {
		b.silent.Store(true)
		log.Printf("[playback] no audio device, running silent: %v", err)
		return nil
	}
	b.speaker = true
	speaker.Play(b.master)
	log.Printf("[playback] speaker started at %d Hz", constant.AudioSampleRate)
	return nil
}

// Close stops every bus and releases the speaker
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running.CompareAndSwap(true, false) {
		return
	}
	for _, out := range b.channels {
		out.Stop()
	}
	b.ui.Stop()

	if b.speaker {
		speaker.Clear()
		speaker.Close()
		b.speaker = false
	}
}

// Outputs returns the channel buses as orchestrator outputs
func (b *Backend) Outputs() map[audio.Channel]audio.ChannelOutput {
	out := make(map[audio.Channel]audio.ChannelOutput, len(b.channels))
	for ch, o := range b.channels {
		out[ch] = o
	}
	return out
}

// Output returns the bus for a channel, nil for unknown channels
func (b *Backend) Output(ch audio.Channel) *ChannelOutput {
	return b.channels[ch]
}

// UI returns the bus for interface sounds, outside every channel fade
func (b *Backend) UI() *ChannelOutput {
	return b.ui
}

// Stream pulls one block of the master mix, used when no speaker drives it
func (b *Backend) Stream(samples [][2]float64) (int, bool) {
	return b.master.Stream(samples)
}

// IsRunning reports whether Start has been called without Close
func (b *Backend) IsRunning() bool {
	return b.running.Load()
}

// IsSilent reports whether no audio device is in use
func (b *Backend) IsSilent() bool {
	return b.silent.Load()
}

package playback

import (
	"log"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/scene-audio/audio"
	"github.com/lixenwraith/scene-audio/constant"
)

// loopSlot streams the current looping clip, silence when empty
// Never drains, so the channel stays in the master mixer for the whole session
type loopSlot struct {
	streamer beep.Streamer
}

func (s *loopSlot) Stream(samples [][2]float64) (int, bool) {
	if s.streamer == nil {
		clear(samples)
		return len(samples), true
	}
	n, ok := s.streamer.Stream(samples)
	if !ok {
		s.streamer = nil
		n = 0
	}
	clear(samples[n:])
	return len(samples), true
}

func (s *loopSlot) Err() error { return nil }

// ChannelOutput is one gain-controlled bus: a looping clip plus one-shots
// Implements audio.ChannelOutput and audio.OneShotOutput; safe for use from
// the frame loop while the speaker goroutine streams it
type ChannelOutput struct {
	mu      sync.Mutex
	name    string
	slot    *loopSlot
	mixer   *beep.Mixer
	gain    *effects.Volume
	level   float64
	playing audio.ClipID
}

func newChannelOutput(name string) *ChannelOutput {
	slot := &loopSlot{}
	mixer := &beep.Mixer{}
	mixer.Add(slot)
	o := &ChannelOutput{
		name:  name,
		slot:  slot,
		mixer: mixer,
		gain: &effects.Volume{
			Streamer: mixer,
			Base:     10,
		},
	}
	o.setLevel(constant.DecibelCeiling)
	return o
}

// Stream implements beep.Streamer
func (o *ChannelOutput) Stream(samples [][2]float64) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gain.Stream(samples)
}

// Err implements beep.Streamer
func (o *ChannelOutput) Err() error { return nil }

// Play swaps the looping clip, restarting from its beginning
func (o *ChannelOutput) Play(clip audio.Clip) {
	c, ok := clip.(*Clip)
	if !ok || c == nil {
		log.Printf("[playback] WARN %s: %v", o.name, ErrForeignClip)
		return
	}
	o.mu.Lock()
	o.slot.streamer = c.loop()
	o.playing = c.id
	o.mu.Unlock()
}

// Stop silences the loop; one-shots already playing finish
func (o *ChannelOutput) Stop() {
	o.mu.Lock()
	o.slot.streamer = nil
	o.playing = ""
	o.mu.Unlock()
}

// SetLevel sets bus gain in dB; DecibelFloor and below is silence
func (o *ChannelOutput) SetLevel(db float64) {
	o.mu.Lock()
	o.setLevel(db)
	o.mu.Unlock()
}

func (o *ChannelOutput) setLevel(db float64) {
	o.level = db
	o.gain.Volume = db / 20
	o.gain.Silent = db <= constant.DecibelFloor
}

// PlayOneShot mixes a single pass of clip at a linear volume, through the bus gain
func (o *ChannelOutput) PlayOneShot(clip audio.Clip, volume float64) {
	c, ok := clip.(*Clip)
	if !ok || c == nil {
		log.Printf("[playback] WARN %s one-shot: %v", o.name, ErrForeignClip)
		return
	}
	db := audio.ToDecibels(volume)
	s := &effects.Volume{
		Streamer: c.once(),
		Base:     10,
		Volume:   db / 20,
		Silent:   db <= constant.DecibelFloor,
	}
	o.mu.Lock()
	o.mixer.Add(s)
	o.mu.Unlock()
}

// Name returns the bus name
func (o *ChannelOutput) Name() string {
	return o.name
}

// Level returns the last applied level in dB
func (o *ChannelOutput) Level() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.level
}

// Playing returns the looping clip, empty when stopped
func (o *ChannelOutput) Playing() audio.ClipID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playing
}

// Voices returns the number of streamers in the bus mixer, loop slot included
func (o *ChannelOutput) Voices() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mixer.Len()
}

package playback

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/scene-audio/audio"
)

// Clip is a fully decoded clip held in memory at the backend format
// Every Play opens a fresh streamer over the shared buffer
type Clip struct {
	id  audio.ClipID
	buf *beep.Buffer
}

// ID implements audio.Clip
func (c *Clip) ID() audio.ClipID {
	return c.id
}

// Len returns the clip length in frames
func (c *Clip) Len() int {
	return c.buf.Len()
}

// Duration returns the clip length in time
func (c *Clip) Duration() time.Duration {
	return c.buf.Format().SampleRate.D(c.buf.Len())
}

// loop returns an endless streamer from the clip start
func (c *Clip) loop() beep.Streamer {
	return beep.Loop(-1, c.buf.Streamer(0, c.buf.Len()))
}

// once returns a single-pass streamer
func (c *Clip) once() beep.Streamer {
	return c.buf.Streamer(0, c.buf.Len())
}

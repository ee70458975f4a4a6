package playback

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/gopxl/beep"
)

// decodeAIFF reads a whole AIFF file into a streamer at its native rate
// beep has no AIFF decoder; go-audio reads interleaved ints which are normalized here
func decodeAIFF(data []byte) (beep.Streamer, beep.SampleRate, error) {
	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: not an aiff file", ErrUnsupportedFormat)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("%w: aiff without format", ErrUnsupportedFormat)
	}

	chunk := &goaudio.IntBuffer{
		Format: format,
		Data:   make([]int, 4096*format.NumChannels),
	}
	var pcm []int
	for {
		n, err := dec.PCMBuffer(chunk)
		pcm = append(pcm, chunk.Data[:n]...)
		if err != nil && err != io.EOF {
			return nil, 0, fmt.Errorf("decode aiff: %w", err)
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	return &intStreamer{
		data:     pcm,
		channels: format.NumChannels,
		scale:    fullScale(int(dec.BitDepth)),
	}, beep.SampleRate(format.SampleRate), nil
}

func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 128
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}

// intStreamer plays interleaved integer PCM as stereo floats
// Mono is duplicated to both sides; channels beyond two are dropped
type intStreamer struct {
	data     []int
	channels int
	scale    float64
	pos      int // frame index
}

func (s *intStreamer) Stream(samples [][2]float64) (int, bool) {
	frames := len(s.data) / s.channels
	if s.pos >= frames {
		return 0, false
	}
	n := 0
	for n < len(samples) && s.pos < frames {
		base := s.pos * s.channels
		left := float64(s.data[base]) / s.scale
		right := left
		if s.channels > 1 {
			right = float64(s.data[base+1]) / s.scale
		}
		samples[n] = [2]float64{left, right}
		n++
		s.pos++
	}
	return n, true
}

func (s *intStreamer) Err() error { return nil }

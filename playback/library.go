package playback

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/scene-audio/audio"
	"github.com/lixenwraith/scene-audio/constant"
)

// Library resolves clip ids to decoded clips, caching each clip after first load
// Ids map to files under the asset dir through the clip table; "tone:<hz>" ids
// are synthesized sine loops for running without assets
// Supported files: .wav, .mp3, .ogg (vorbis), .aif/.aiff
type Library struct {
	mu     sync.RWMutex
	dir    string
	paths  map[audio.ClipID]string
	cache  map[audio.ClipID]*Clip
	format beep.Format
}

// NewLibrary creates a library rooted at dir with an id -> relative path table
func NewLibrary(dir string, paths map[string]string) *Library {
	l := &Library{
		dir:    dir,
		paths:  make(map[audio.ClipID]string, len(paths)),
		cache:  make(map[audio.ClipID]*Clip),
		format: Format(),
	}
	for id, p := range paths {
		l.paths[audio.ClipID(id)] = p
	}
	return l
}

// Format returns the backend stream format
func Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(constant.AudioSampleRate),
		NumChannels: constant.AudioChannels,
		Precision:   constant.AudioPrecision,
	}
}

// Resolve implements audio.ClipResolver
func (l *Library) Resolve(id audio.ClipID) (audio.Clip, error) {
	return l.Load(id)
}

// Load returns the decoded clip for id, decoding on first use
func (l *Library) Load(id audio.ClipID) (*Clip, error) {
	l.mu.RLock()
	if c, ok := l.cache[id]; ok {
		l.mu.RUnlock()
		return c, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if c, ok := l.cache[id]; ok {
		return c, nil
	}

	var (
		buf *beep.Buffer
		err error
	)
	if hz, ok := strings.CutPrefix(string(id), constant.ToneClipPrefix); ok {
		buf, err = l.tone(hz)
	} else {
		path, known := l.paths[id]
		if !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownClip, id)
		}
		buf, err = l.decodeFile(l.Path(path))
	}
	if err != nil {
		return nil, err
	}

	c := &Clip{id: id, buf: buf}
	l.cache[id] = c
	log.Printf("[playback] loaded clip %s (%v)", id, c.Duration())
	return c, nil
}

// Preload decodes every mapped clip, returning the first failure
// Remaining clips are still attempted
func (l *Library) Preload() error {
	var first error
	for _, id := range l.IDs() {
		if _, err := l.Load(id); err != nil {
			log.Printf("[playback] WARN preload %s: %v", id, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// IDs returns every mapped clip id
func (l *Library) IDs() []audio.ClipID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]audio.ClipID, 0, len(l.paths))
	for id := range l.paths {
		ids = append(ids, id)
	}
	return ids
}

// Path resolves a clip table entry against the asset dir
func (l *Library) Path(rel string) string {
	if filepath.IsAbs(rel) || l.dir == "" {
		return rel
	}
	return filepath.Join(l.dir, rel)
}

// Cached returns the number of decoded clips held
func (l *Library) Cached() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

func (l *Library) decodeFile(path string) (*beep.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clip: %w", err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		s, format, err = wav.Decode(bytes.NewReader(data))
	case ".mp3":
		s, format, err = mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	case ".ogg":
		s, format, err = vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	case ".aif", ".aiff":
		pcm, rate, aerr := decodeAIFF(data)
		if aerr != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), aerr)
		}
		return l.buffer(pcm, rate)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer s.Close()

	return l.buffer(s, format.SampleRate)
}

func (l *Library) tone(raw string) (*beep.Buffer, error) {
	hz, err := strconv.ParseFloat(raw, 64)
	if err != nil || hz <= 0 || hz >= float64(l.format.SampleRate)/2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTone, raw)
	}
	sine, err := generators.SineTone(l.format.SampleRate, hz)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTone, err)
	}
	s := &effects.Gain{
		Streamer: beep.Take(l.format.SampleRate.N(constant.ToneClipDuration), sine),
		Gain:     constant.ToneGain,
	}
	return l.buffer(s, l.format.SampleRate)
}

// buffer drains s into a buffer at the library format, resampling if needed
func (l *Library) buffer(s beep.Streamer, rate beep.SampleRate) (*beep.Buffer, error) {
	if rate != l.format.SampleRate {
		s = beep.Resample(constant.ResampleQuality, rate, l.format.SampleRate, s)
	}
	buf := beep.NewBuffer(l.format)
	buf.Append(s)
	if buf.Len() == 0 {
		return nil, ErrEmptyClip
	}
	return buf, nil
}

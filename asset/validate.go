package asset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-audio/aiff"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"github.com/lixenwraith/scene-audio/audio"
	"github.com/lixenwraith/scene-audio/constant"
)

// ClipInfo is the header-level description of a clip file
// Duration is zero when the container does not report it
type ClipInfo struct {
	ID         audio.ClipID
	Path       string
	Format     string
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// Issue is one problem found while validating a config against its assets
// Warning issues do not fail validation
type Issue struct {
	ID      audio.ClipID
	Path    string
	Err     error
	Warning bool
}

func (i Issue) String() string {
	level := "ERROR"
	if i.Warning {
		level = "WARN"
	}
	if i.Path != "" {
		return fmt.Sprintf("%s %s (%s): %v", level, i.ID, i.Path, i.Err)
	}
	return fmt.Sprintf("%s %s: %v", level, i.ID, i.Err)
}

// Report is the outcome of ValidateSceneAudio
type Report struct {
	Clips  []ClipInfo
	Issues []Issue
}

// OK reports whether no error-level issue was found
func (r *Report) OK() bool {
	for _, i := range r.Issues {
		if !i.Warning {
			return false
		}
	}
	return true
}

// ProbeFile reads a clip header and reports its format
// Only headers are parsed; use playback.Library to fully decode
func ProbeFile(path string) (ClipInfo, error) {
	info := ClipInfo{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return info, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav":
		err = probeWAV(data, &info)
	case ".mp3":
		err = probeMP3(data, &info)
	case ".ogg":
		err = probeOgg(data, &info)
	case ".aif", ".aiff":
		err = probeAIFF(data, &info)
	default:
		return info, fmt.Errorf("%w: %q", ErrUnsupportedExt, ext)
	}
	if err != nil {
		return info, fmt.Errorf("%w: %w", ErrInvalidClipFile, err)
	}
	return info, nil
}

func probeWAV(data []byte, info *ClipInfo) error {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return errors.New("not a wav file")
	}
	dec.ReadInfo()
	info.Format = "wav"
	info.SampleRate = int(dec.SampleRate)
	info.Channels = int(dec.NumChans)
	if d, err := dec.Duration(); err == nil {
		info.Duration = d
	}
	return nil
}

func probeMP3(data []byte, info *ClipInfo) error {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return err
	}
	info.Format = "mp3"
	info.SampleRate = dec.SampleRate()
	info.Channels = 2 // go-mp3 always decodes to 16-bit stereo
	if dec.Length() > 0 && info.SampleRate > 0 {
		frames := dec.Length() / 4
		info.Duration = time.Duration(frames) * time.Second / time.Duration(info.SampleRate)
	}
	return nil
}

func probeOgg(data []byte, info *ClipInfo) error {
	r, err := oggvorbis.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	info.Format = "vorbis"
	info.SampleRate = r.SampleRate()
	info.Channels = r.Channels()
	if n := r.Length(); n > 0 && info.SampleRate > 0 {
		info.Duration = time.Duration(n) * time.Second / time.Duration(info.SampleRate)
	}
	return nil
}

func probeAIFF(data []byte, info *ClipInfo) error {
	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return errors.New("not an aiff file")
	}
	dec.ReadInfo()
	format := dec.Format()
	if format == nil {
		return errors.New("aiff without format")
	}
	info.Format = "aiff"
	info.SampleRate = format.SampleRate
	info.Channels = format.NumChannels
	return nil
}

// ValidateSceneAudio checks that every clip a config references is declared
// and that every declared file decodes. Tone clips need no file
func ValidateSceneAudio(doc *audio.SceneAudioConfig, dir string) *Report {
	report := &Report{}
	referenced := make(map[audio.ClipID]bool)

	check := func(id audio.ClipID) {
		if id == "" || referenced[id] {
			return
		}
		referenced[id] = true
		if strings.HasPrefix(string(id), constant.ToneClipPrefix) {
			return
		}
		if _, ok := doc.Clips[string(id)]; !ok {
			report.Issues = append(report.Issues, Issue{ID: id, Err: ErrUndeclaredClip})
		}
	}

	for _, scene := range doc.Scenes {
		check(scene.MusicClip)
		check(scene.AmbienceClip)
	}
	for _, name := range sortedKeys(doc.Sounds) {
		for _, id := range doc.Sounds[name] {
			check(id)
		}
	}

	for _, id := range sortedKeys(doc.Clips) {
		rel := doc.Clips[id]
		path := rel
		if !filepath.IsAbs(rel) && dir != "" {
			path = filepath.Join(dir, rel)
		}

		info, err := ProbeFile(path)
		info.ID = audio.ClipID(id)
		if err != nil {
			report.Issues = append(report.Issues, Issue{ID: info.ID, Path: path, Err: err})
			continue
		}
		report.Clips = append(report.Clips, info)

		if !referenced[info.ID] {
			report.Issues = append(report.Issues, Issue{ID: info.ID, Path: path, Err: ErrUnusedClip, Warning: true})
		}
	}
	return report
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

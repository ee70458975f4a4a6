package asset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/lixenwraith/scene-audio/audio"
)

func writeWAV(t *testing.T, path string, rate, channels, frames int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = (i % 200) * 100
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestDefaultSceneAudioConfig(t *testing.T) {
	doc, err := audio.LoadSceneAudioConfig([]byte(DefaultSceneAudioConfig))
	if err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	policy, err := doc.Policy()
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"MainMenu", "Level1", "Level2", "Credits"} {
		if _, ok := policy.Resolve(id); !ok {
			t.Errorf("scene %s missing", id)
		}
	}

	sets := doc.SoundSets()
	for _, name := range audio.SoundCategoryNames() {
		cat, _ := audio.ParseSoundCategory(name)
		if len(sets[cat]) == 0 {
			t.Errorf("category %s has no clips", name)
		}
	}

	report := ValidateSceneAudio(doc, t.TempDir())
	if !report.OK() || len(report.Issues) != 0 {
		t.Errorf("default config issues: %v", report.Issues)
	}
}

func TestProbeFile_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.wav")
	writeWAV(t, path, 44100, 2, 4410)

	info, err := ProbeFile(path)
	if err != nil {
		t.Fatalf("ProbeFile: %v", err)
	}
	if info.Format != "wav" || info.SampleRate != 44100 || info.Channels != 2 {
		t.Errorf("info = %+v", info)
	}
	if info.Duration < 99*time.Millisecond || info.Duration > 101*time.Millisecond {
		t.Errorf("Duration = %v, want ~100ms", info.Duration)
	}
}

func TestProbeFile_Errors(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "fake.wav")
	if err := os.WriteFile(fake, []byte("definitely not riff data"), 0644); err != nil {
		t.Fatal(err)
	}
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ProbeFile(fake); !errors.Is(err, ErrInvalidClipFile) {
		t.Errorf("fake wav error = %v, want ErrInvalidClipFile", err)
	}
	if _, err := ProbeFile(txt); !errors.Is(err, ErrUnsupportedExt) {
		t.Errorf("txt error = %v, want ErrUnsupportedExt", err)
	}
	if _, err := ProbeFile(filepath.Join(dir, "missing.ogg")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing error = %v, want not-exist", err)
	}
}

func TestValidateSceneAudio_Issues(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "ambience", "space.wav"), 22050, 1, 2205)
	writeWAV(t, filepath.Join(dir, "spare.wav"), 44100, 2, 100)

	doc, err := audio.LoadSceneAudioConfig([]byte(`
[[scenes]]
id = "Level2"
music = "theme"
ambience = "spaceAmbience"

[clips]
spaceAmbience = "ambience/space.wav"
spare = "spare.wav"
broken = "broken.mp3"

[sounds]
attack = ["tone:880", "sword"]
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	report := ValidateSceneAudio(doc, dir)
	if report.OK() {
		t.Fatal("report should fail")
	}

	got := make(map[audio.ClipID]error)
	for _, i := range report.Issues {
		got[i.ID] = i.Err
	}
	checks := map[audio.ClipID]error{
		"theme":  ErrUndeclaredClip,
		"sword":  ErrUndeclaredClip,
		"broken": os.ErrNotExist,
		"spare":  ErrUnusedClip,
	}
	for id, want := range checks {
		if !errors.Is(got[id], want) {
			t.Errorf("issue for %s = %v, want %v", id, got[id], want)
		}
	}
	if _, ok := got["spaceAmbience"]; ok {
		t.Error("valid declared clip reported as issue")
	}

	if len(report.Clips) != 2 {
		t.Fatalf("probed clips = %d, want 2", len(report.Clips))
	}
	if report.Clips[0].ID != "spaceAmbience" || report.Clips[0].Channels != 1 || report.Clips[0].SampleRate != 22050 {
		t.Errorf("spaceAmbience info = %+v", report.Clips[0])
	}
}

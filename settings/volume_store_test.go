package settings

import (
	"errors"
	"math"
	"path/filepath"
	"slices"
	"testing"
)

func TestVolumeStore_Defaults(t *testing.T) {
	vs := NewVolumeStore(nil, map[string]float64{"music": 0.7, "ambience": 2})

	if vs.Get("music") != 0.7 {
		t.Errorf("music = %v", vs.Get("music"))
	}
	if vs.Get("ambience") != 1 {
		t.Errorf("default not clamped: %v", vs.Get("ambience"))
	}
	if vs.Get("diegetic") != 1 {
		t.Errorf("unknown channel = %v, want 1", vs.Get("diegetic"))
	}
	if !slices.Equal(vs.Channels(), []string{"ambience", "music"}) {
		t.Errorf("Channels = %v", vs.Channels())
	}
}

func TestVolumeStore_SetClamps(t *testing.T) {
	vs := NewVolumeStore(nil, nil)
	tests := []struct {
		in, want float64
	}{
		{0.6, 0.6},
		{1.5, 1},
		{-0.2, 0},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		if got := vs.Set("music", tt.in); got != tt.want {
			t.Errorf("Set(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if vs.Get("music") != tt.want {
			t.Errorf("Get after Set(%v) = %v", tt.in, vs.Get("music"))
		}
	}
}

func TestVolumeStore_NoBackend(t *testing.T) {
	vs := NewVolumeStore(nil, nil)
	if err := vs.Load(); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Load err = %v", err)
	}
	if err := vs.Save(); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Save err = %v", err)
	}
}

func TestVolumeStore_LoadSanitizes(t *testing.T) {
	backend := NewMemoryStore(map[string]float64{
		"music":    math.NaN(),
		"diegetic": 3,
		"ambience": 0.4,
	})
	vs := NewVolumeStore(backend, map[string]float64{"music": 0.7})
	vs.Set("music", 0.2)

	if err := vs.Load(); err != nil {
		t.Fatal(err)
	}
	if vs.Get("music") != 0.7 {
		t.Errorf("NaN entry should fall back to default, got %v", vs.Get("music"))
	}
	if vs.Get("diegetic") != 1 || vs.Get("ambience") != 0.4 {
		t.Errorf("diegetic %v ambience %v", vs.Get("diegetic"), vs.Get("ambience"))
	}
}

func TestVolumeStore_PersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volumes.toml")

	vs := NewVolumeStore(NewFileStore(path), map[string]float64{"diegetic": 1})
	vs.Set("music", 0.6)
	if err := vs.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded := NewVolumeStore(NewFileStore(path), nil)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Get("music"); got != 0.6 {
		t.Errorf("music = %v, want 0.6", got)
	}
	if got := reloaded.Get("diegetic"); got != 1 {
		t.Errorf("default not persisted: %v", got)
	}

	snap := reloaded.Snapshot()
	snap["music"] = 0
	if reloaded.Get("music") != 0.6 {
		t.Error("Snapshot aliased internal state")
	}
}

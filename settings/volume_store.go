package settings

import (
	"log"
	"math"
	"sort"
	"sync"
)

// VolumeStore holds per-channel linear volumes in [0, 1]
// Values are always stored and persisted linear; decibel conversion belongs to playback
type VolumeStore struct {
	mu       sync.RWMutex
	store    Store
	defaults map[string]float64
	values   map[string]float64
}

// NewVolumeStore creates a store over backend with per-channel defaults
// Channels absent from both the backend and defaults read as 1.0
func NewVolumeStore(backend Store, defaults map[string]float64) *VolumeStore {
	vs := &VolumeStore{
		store:    backend,
		defaults: make(map[string]float64, len(defaults)),
		values:   make(map[string]float64, len(defaults)),
	}
	for k, v := range defaults {
		vs.defaults[k] = ClampLinear(v)
	}
	return vs
}

// Get returns the current linear volume of a channel
func (vs *VolumeStore) Get(channel string) float64 {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	if v, ok := vs.values[channel]; ok {
		return v
	}
	if v, ok := vs.defaults[channel]; ok {
		return v
	}
	return 1.0
}

// Set stores a clamped linear volume and returns the stored value
// Nothing is written to the backend until Save
func (vs *VolumeStore) Set(channel string, linear float64) float64 {
	v := ClampLinear(linear)
	vs.mu.Lock()
	vs.values[channel] = v
	vs.mu.Unlock()
	return v
}

// Load replaces in-memory values with the backend contents
// Out-of-range values are clamped, NaN entries fall back to defaults
func (vs *VolumeStore) Load() error {
	if vs.store == nil {
		return ErrStoreUnavailable
	}
	loaded, err := vs.store.Load()
	if err != nil {
		return err
	}

	values := make(map[string]float64, len(loaded))
	for k, v := range loaded {
		if math.IsNaN(v) {
			log.Printf("[settings] WARN volume %q is NaN, using default", k)
			continue
		}
		values[k] = ClampLinear(v)
	}

	vs.mu.Lock()
	vs.values = values
	vs.mu.Unlock()
	return nil
}

// Save writes every known channel, defaults included, to the backend
func (vs *VolumeStore) Save() error {
	if vs.store == nil {
		return ErrStoreUnavailable
	}
	return vs.store.Save(vs.Snapshot())
}

// Snapshot returns defaults overlaid with current values
func (vs *VolumeStore) Snapshot() map[string]float64 {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	out := make(map[string]float64, len(vs.defaults)+len(vs.values))
	for k, v := range vs.defaults {
		out[k] = v
	}
	for k, v := range vs.values {
		out[k] = v
	}
	return out
}

// Channels returns all known channel names, sorted
func (vs *VolumeStore) Channels() []string {
	snap := vs.Snapshot()
	names := make([]string, 0, len(snap))
	for k := range snap {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ClampLinear bounds v to [0, 1], NaN maps to 0
func ClampLinear(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

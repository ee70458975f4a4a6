package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Sentinel errors
var (
	ErrStoreUnavailable = errors.New("settings store unavailable")
)

// Store is the flat key-value persistence contract: whole-map reads and writes
type Store interface {
	Load() (map[string]float64, error)
	Save(values map[string]float64) error
}

// FileStore persists a flat TOML table of key = float
//
//	music = 0.6
//	diegetic = 1.0
//	ambience = 0.5
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path; the file is created on first Save
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the table; a missing file is an empty map, not an error
func (s *FileStore) Load() (map[string]float64, error) {
	values := make(map[string]float64)
	if _, err := toml.DecodeFile(s.path, &values); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("%w: decode %s: %w", ErrStoreUnavailable, s.path, err)
	}
	return values, nil
}

// Save writes the table atomically via temp file and rename
func (s *FileStore) Save(values map[string]float64) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".volumes-*.toml")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := toml.NewEncoder(tmp).Encode(values); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: encode: %w", ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// MemoryStore keeps values in process, for tests and headless runs
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]float64
	saves  int
}

// NewMemoryStore creates a store seeded with initial values
func NewMemoryStore(initial map[string]float64) *MemoryStore {
	m := &MemoryStore{values: make(map[string]float64, len(initial))}
	for k, v := range initial {
		m.values[k] = v
	}
	return m
}

func (m *MemoryStore) Load() (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) Save(values map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]float64, len(values))
	for k, v := range values {
		m.values[k] = v
	}
	m.saves++
	return nil
}

// Saves returns how many times Save was called
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

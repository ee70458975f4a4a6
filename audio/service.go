package audio

import (
	"errors"
	"sync/atomic"
)

// AudioService wraps the Orchestrator as a Service
// Init subscribes and loads volumes; Stop persists volumes and silences playback
type AudioService struct {
	orchestrator *Orchestrator
	stopped      atomic.Bool
}

// NewService creates a new audio service around an explicitly constructed orchestrator
func NewService(o *Orchestrator) *AudioService {
	return &AudioService{orchestrator: o}
}

// Name implements Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *AudioService) Dependencies() []string {
	return []string{"playback"}
}

// Init implements Service
func (s *AudioService) Init(args ...any) error {
	if s.orchestrator == nil {
		return ErrMissingDependency
	}
	s.stopped.Store(false)
	if err := s.orchestrator.Init(); err != nil && !errors.Is(err, ErrAlreadyInitialized) {
		return err
	}
	return nil
}

// Start implements Service
// Fades are driven by the clock service; nothing to launch here
func (s *AudioService) Start() error {
	return nil
}

// Stop implements Service
// Save failures are logged by the orchestrator and not propagated
func (s *AudioService) Stop() error {
	if s.orchestrator == nil || !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	_ = s.orchestrator.Shutdown()
	return nil
}

// Orchestrator returns the wrapped orchestrator
func (s *AudioService) Orchestrator() *Orchestrator {
	return s.orchestrator
}

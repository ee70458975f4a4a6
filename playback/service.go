package playback

import (
	"sync/atomic"
)

// PlaybackService wraps Backend as a Service
// Handles graceful degradation when no audio device is available
type PlaybackService struct {
	backend *Backend
	library *Library
	muted   atomic.Bool
}

// NewService creates a playback service over a backend and clip library
func NewService(backend *Backend, library *Library) *PlaybackService {
	return &PlaybackService{backend: backend, library: library}
}

// Name implements Service
func (s *PlaybackService) Name() string {
	return "playback"
}

// Dependencies implements Service
func (s *PlaybackService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: bool - mute state (true = silent backend, default = unmuted)
// Clip preload failures are logged; missing clips warn again when requested
func (s *PlaybackService) Init(args ...any) error {
	if len(args) > 0 {
		if muted, ok := args[0].(bool); ok {
			s.muted.Store(muted)
		}
	}
	if s.library != nil {
		_ = s.library.Preload()
	}
	return nil
}

// Start implements Service
func (s *PlaybackService) Start() error {
	return s.backend.Start(s.muted.Load())
}

// Stop implements Service
func (s *PlaybackService) Stop() error {
	s.backend.Close()
	return nil
}

// Backend returns the wrapped backend
func (s *PlaybackService) Backend() *Backend {
	return s.backend
}

// Library returns the clip library
func (s *PlaybackService) Library() *Library {
	return s.library
}

// IsDisabled returns true if no audio device is in use
func (s *PlaybackService) IsDisabled() bool {
	return s.backend.IsSilent()
}

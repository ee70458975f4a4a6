package engine

// ClockService wraps FrameClock as a Service
// Starts after the audio service so the first frame finds the orchestrator initialized
type ClockService struct {
	clock *FrameClock
}

// NewClockService creates a service around an already configured clock
func NewClockService(clock *FrameClock) *ClockService {
	return &ClockService{clock: clock}
}

// Name implements Service
func (s *ClockService) Name() string {
	return "clock"
}

// Dependencies implements Service
func (s *ClockService) Dependencies() []string {
	return []string{"audio"}
}

// Init implements Service
func (s *ClockService) Init(args ...any) error {
	return nil
}

// Start implements Service
func (s *ClockService) Start() error {
	s.clock.Start()
	return nil
}

// Stop implements Service
func (s *ClockService) Stop() error {
	s.clock.Stop()
	return nil
}

// Clock returns the wrapped frame clock
func (s *ClockService) Clock() *FrameClock {
	return s.clock
}

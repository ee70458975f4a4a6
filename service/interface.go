package service

// Service is a long-lived subsystem owned by the Hub
// In this program: the playback backend, the audio orchestrator and the frame clock
//
// The Hub drives every service through Init, then Start, then Stop.
// Init receives the args routed to the service name and runs after all
// dependencies initialized. Start runs once every Init succeeded. Stop
// may be called more than once and must tolerate it
type Service interface {
	// Name is the key other services list in Dependencies
	Name() string

	// Dependencies names services that must initialize and start first
	Dependencies() []string

	Init(args ...any) error
	Start() error
	Stop() error
}

package event

import (
	"time"
)

// EventType represents the type of scene/lifecycle event
type EventType int

const (
	// EventTransitionBegin signals a scene swap is about to start
	// Trigger: scene loader before unloading | Payload: *ScenePayload
	// Consumer: audio orchestrator (diegetic fade-out)
	EventTransitionBegin EventType = iota + 1

	// EventTransitionEnd signals the new scene is loaded
	// Trigger: scene loader after load | Payload: *ScenePayload
	// Consumer: audio orchestrator (profile resolution)
	EventTransitionEnd

	// EventSceneLoaded is the single-shot notification for hosts without a begin phase
	// Payload: *ScenePayload
	EventSceneLoaded

	// EventGamePaused signals the pause menu opened | Payload: nil
	EventGamePaused

	// EventGameResumed signals the pause menu closed | Payload: nil
	EventGameResumed

	// EventVolumeChanged carries a settings slider change | Payload: *VolumePayload
	EventVolumeChanged

	// EventSettingsConfirmed requests persisting volumes | Payload: nil
	EventSettingsConfirmed
)

var typeNames = map[EventType]string{
	EventTransitionBegin:   "TransitionBegin",
	EventTransitionEnd:     "TransitionEnd",
	EventSceneLoaded:       "SceneLoaded",
	EventGamePaused:        "GamePaused",
	EventGameResumed:       "GameResumed",
	EventVolumeChanged:     "VolumeChanged",
	EventSettingsConfirmed: "SettingsConfirmed",
}

func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// ScenePayload names the scene a transition targets
type ScenePayload struct {
	SceneID string
}

// VolumePayload is a linear [0, 1] volume for a channel name
type VolumePayload struct {
	Channel string
	Linear  float64
}

// GameEvent is a queued event
type GameEvent struct {
	Type      EventType
	Payload   any
	Frame     int64
	Timestamp time.Time
}

// SceneID extracts the scene id of a scene payload, empty when absent
func (e GameEvent) SceneID() string {
	if p, ok := e.Payload.(*ScenePayload); ok && p != nil {
		return p.SceneID
	}
	return ""
}

// NewSceneEvent builds a scene-carrying event stamped now
func NewSceneEvent(t EventType, sceneID string) GameEvent {
	return GameEvent{
		Type:      t,
		Payload:   &ScenePayload{SceneID: sceneID},
		Timestamp: time.Now(),
	}
}

// NewVolumeEvent builds a volume change event for a channel name
func NewVolumeEvent(channel string, linear float64) GameEvent {
	return GameEvent{
		Type:      EventVolumeChanged,
		Payload:   &VolumePayload{Channel: channel, Linear: linear},
		Timestamp: time.Now(),
	}
}

// NewEvent builds a payloadless event stamped now
func NewEvent(t EventType) GameEvent {
	return GameEvent{Type: t, Timestamp: time.Now()}
}

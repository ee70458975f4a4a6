package audio

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Channel identifies an independent audio category with its own clip and level
type Channel uint8

const (
	ChannelMusic    Channel = iota // Background music, crossfaded between scenes
	ChannelDiegetic                // In-world sound effects
	ChannelAmbience                // Looping environment bed
	channelCount
)

var channelNames = [channelCount]string{
	ChannelMusic:    "music",
	ChannelDiegetic: "diegetic",
	ChannelAmbience: "ambience",
}

// Channels lists every channel in declaration order
func Channels() []Channel {
	return []Channel{ChannelMusic, ChannelDiegetic, ChannelAmbience}
}

func (c Channel) String() string {
	if c >= channelCount {
		return "unknown"
	}
	return channelNames[c]
}

// ParseChannel maps a persisted channel name back to a Channel, case-insensitive
func ParseChannel(name string) (Channel, bool) {
	for i, n := range channelNames {
		if strings.EqualFold(n, name) {
			return Channel(i), true
		}
	}
	return 0, false
}

// Stage is an attenuation layer within a channel
// Effective channel level is the sum of all stage levels in dB, clamped
type Stage uint8

const (
	StageMain  Stage = iota // Scene-driven level
	StagePause              // Pause/mute layer, unity when not paused
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageMain:
		return "main"
	case StagePause:
		return "pause"
	default:
		return "unknown"
	}
}

// ClipID is an opaque clip handle, empty means "no clip"
type ClipID string

// Clip is a resolved, playable clip
type Clip interface {
	ID() ClipID
}

// ClipResolver turns clip handles into playable clips
// Resolve returns an error for missing or undecodable assets
type ClipResolver interface {
	Resolve(id ClipID) (Clip, error)
}

// ChannelOutput is the playback sink a ChannelController drives
// Play swaps the looping clip without touching the level
type ChannelOutput interface {
	Play(clip Clip)
	Stop()
	SetLevel(db float64)
}

// OneShotOutput plays fire-and-forget clips
type OneShotOutput interface {
	PlayOneShot(clip Clip, volume float64)
}

// WarningFunc receives warning-level diagnostics
type WarningFunc func(msg string)

// ChannelState is a snapshot of one channel
// Comparable with == so callers can detect any change
type ChannelState struct {
	Channel      Channel
	Clip         ClipID
	VolumeDB     float64   // Effective output level
	MainDB       float64   // Scene-driven stage level
	PauseDB      float64   // Pause stage level
	ActiveFadeID uuid.UUID // Running main-stage fade, uuid.Nil when idle
	PauseFadeID  uuid.UUID // Running pause-stage fade, uuid.Nil when idle
	PendingClip  ClipID    // Clip waiting for a crossfade fade-out to finish
}

// Sentinel errors
var (
	ErrClipUnresolvable   = errors.New("clip unresolvable")
	ErrUnknownCategory    = errors.New("sound category out of range")
	ErrEmptyCategory      = errors.New("sound category has no clips")
	ErrNilOutput          = errors.New("output is nil")
	ErrDuplicateScene     = errors.New("duplicate scene id")
	ErrEmptySceneID       = errors.New("empty scene id")
	ErrNegativeDuration   = errors.New("negative fade duration")
	ErrMissingDependency  = errors.New("missing dependency")
	ErrAlreadyInitialized = errors.New("orchestrator already initialized")
	ErrNotInitialized     = errors.New("orchestrator not initialized")
)

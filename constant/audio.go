package constant

import "time"

// Decibel range applied to every channel output
const (
	// DecibelFloor stands in for silence; never -Inf
	DecibelFloor = -60.0
	// DecibelCeiling is unity gain
	DecibelCeiling = 0.0

	// LinearEpsilon is the lowest linear volume fed to log10
	// 20*log10(1e-3) = -60, so the curve meets DecibelFloor without a step
	LinearEpsilon = 1e-3
)

// Fade timing
const (
	DefaultMusicFade    = time.Second
	DefaultDiegeticFade = time.Second
	DefaultAmbienceFade = time.Second

	// SettingsFade applies user volume changes; zero means immediate
	SettingsFade = 0 * time.Millisecond
)

// Default persisted linear volumes
const (
	DefaultMusicVolume    = 0.7
	DefaultDiegeticVolume = 1.0
	DefaultAmbienceVolume = 0.5
)

// Playback hardware settings
const (
	AudioSampleRate     = 44100
	AudioChannels       = 2
	AudioPrecision      = 2 // bytes per sample
	AudioBufferDuration = 100 * time.Millisecond

	// ResampleQuality is passed to beep.Resample for clips recorded at other rates
	ResampleQuality = 4

	// ToneClipDuration is the loop length of generated "tone:<hz>" placeholder clips
	ToneClipDuration = 2 * time.Second

	// ToneGain is the effects.Gain applied to generated tones (1+gain = 0.3 amplitude)
	ToneGain = -0.7

	// ToneClipPrefix marks clip ids that are synthesized instead of loaded
	ToneClipPrefix = "tone:"
)

// Frame loop
const (
	// FrameInterval drives the fade tick (~60 FPS)
	FrameInterval = 16 * time.Millisecond

	// MaxFrameDelta caps the real-time delta fed to a single tick
	MaxFrameDelta = 250 * time.Millisecond
)

// Event queue sizing, must be power of 2
const (
	EventQueueSize  = 256
	EventBufferMask = EventQueueSize - 1
)

// Environment variables read by audio.LoadConfig
const (
	EnvAudioEnabled   = "SCENE_AUDIO_ENABLED"
	EnvMusicFadeMs    = "SCENE_AUDIO_MUSIC_FADE_MS"
	EnvDiegeticFadeMs = "SCENE_AUDIO_DIEGETIC_FADE_MS"
	EnvAmbienceFadeMs = "SCENE_AUDIO_AMBIENCE_FADE_MS"
	EnvSettingsPath   = "SCENE_AUDIO_SETTINGS_PATH"
	EnvAssetDir       = "SCENE_AUDIO_ASSET_DIR"
)

// Default file locations
const (
	DefaultSettingsPath = "settings/volumes.toml"
	DefaultAssetDir     = "assets/audio"
)

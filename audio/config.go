package audio

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/scene-audio/constant"
)

// ErrInvalidConfig wraps every structural scene audio config failure
var ErrInvalidConfig = errors.New("invalid scene audio config")

// Config holds runtime fade timing and file locations
type Config struct {
	Enabled      bool
	MusicFade    time.Duration
	DiegeticFade time.Duration
	AmbienceFade time.Duration
	SettingsFade time.Duration
	SettingsPath string
	AssetDir     string
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MusicFade:    constant.DefaultMusicFade,
		DiegeticFade: constant.DefaultDiegeticFade,
		AmbienceFade: constant.DefaultAmbienceFade,
		SettingsFade: constant.SettingsFade,
		SettingsPath: constant.DefaultSettingsPath,
		AssetDir:     constant.DefaultAssetDir,
	}
}

// LoadConfig loads defaults overridden by environment variables
func LoadConfig() *Config {
	return ApplyEnv(DefaultConfig())
}

// ApplyEnv overrides cfg fields from environment variables
// Unparseable or negative values are ignored
func ApplyEnv(cfg *Config) *Config {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if enabled := os.Getenv(constant.EnvAudioEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	envFade(constant.EnvMusicFadeMs, &cfg.MusicFade)
	envFade(constant.EnvDiegeticFadeMs, &cfg.DiegeticFade)
	envFade(constant.EnvAmbienceFadeMs, &cfg.AmbienceFade)

	if path := os.Getenv(constant.EnvSettingsPath); path != "" {
		cfg.SettingsPath = path
	}
	if dir := os.Getenv(constant.EnvAssetDir); dir != "" {
		cfg.AssetDir = dir
	}

	return cfg
}

func envFade(key string, dst *time.Duration) {
	raw := os.Getenv(key)
	if raw == "" {
		return
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return
	}
	*dst = time.Duration(ms) * time.Millisecond
}

// Duration decodes TOML strings such as "750ms" or "1s"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// FadeDurations are the optional per-channel fade overrides of a config document
type FadeDurations struct {
	Music    *Duration `toml:"music"`
	Diegetic *Duration `toml:"diegetic"`
	Ambience *Duration `toml:"ambience"`
}

// SceneAudioConfig is the TOML document describing scenes, clips and sound categories
//
//	[fades]
//	music = "1s"
//
//	[[scenes]]
//	id = "Level2"
//	ambience = "spaceAmbience"
//
//	[clips]
//	spaceAmbience = "ambience/space.ogg"
//
//	[sounds]
//	jump = ["jump1", "jump2"]
type SceneAudioConfig struct {
	Fades  FadeDurations       `toml:"fades"`
	Scenes []SceneAudioProfile `toml:"scenes"`
	Clips  map[string]string   `toml:"clips"`
	Sounds map[string][]ClipID `toml:"sounds"`
}

// LoadSceneAudioConfig decodes and validates a scene audio document
// Unknown keys, empty or duplicate scene ids, negative fades and unknown sound
// categories fail fast
func LoadSceneAudioConfig(data []byte) (*SceneAudioConfig, error) {
	var doc SceneAudioConfig
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadSceneAudioConfigFile reads and decodes a scene audio document from disk
func LoadSceneAudioConfigFile(path string) (*SceneAudioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene audio config: %w", err)
	}
	return LoadSceneAudioConfig(data)
}

// Validate checks the structural rules enforced at load time
func (doc *SceneAudioConfig) Validate() error {
	if _, err := NewSceneAudioPolicy(doc.Scenes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for name, d := range map[string]*Duration{
		"music":    doc.Fades.Music,
		"diegetic": doc.Fades.Diegetic,
		"ambience": doc.Fades.Ambience,
	} {
		if d != nil && d.Duration < 0 {
			return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, ErrNegativeDuration, name)
		}
	}

	for name := range doc.Sounds {
		if _, ok := ParseSoundCategory(name); !ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, ErrUnknownCategory, name)
		}
	}
	return nil
}

// Policy builds the scene lookup table
func (doc *SceneAudioConfig) Policy() (*SceneAudioPolicy, error) {
	return NewSceneAudioPolicy(doc.Scenes)
}

// SoundSets maps parsed categories to their clip sets; unknown names are skipped
func (doc *SceneAudioConfig) SoundSets() map[SoundCategory][]ClipID {
	sets := make(map[SoundCategory][]ClipID, len(doc.Sounds))
	for name, clips := range doc.Sounds {
		if cat, ok := ParseSoundCategory(name); ok {
			sets[cat] = append([]ClipID(nil), clips...)
		}
	}
	return sets
}

// ApplyFades copies the document fade overrides into cfg
func (doc *SceneAudioConfig) ApplyFades(cfg *Config) {
	if doc.Fades.Music != nil {
		cfg.MusicFade = doc.Fades.Music.Duration
	}
	if doc.Fades.Diegetic != nil {
		cfg.DiegeticFade = doc.Fades.Diegetic.Duration
	}
	if doc.Fades.Ambience != nil {
		cfg.AmbienceFade = doc.Fades.Ambience.Duration
	}
}

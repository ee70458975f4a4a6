package audio

import (
	"fmt"
)

// SceneAudioProfile is the desired audio for one scene
// Empty clip ids mean "leave that channel unchanged"
type SceneAudioProfile struct {
	SceneID          string `toml:"id"`
	MusicClip        ClipID `toml:"music"`
	AmbienceClip     ClipID `toml:"ambience"`
	SuppressDiegetic bool   `toml:"suppress_diegetic"`
}

// SceneAudioPolicy is an immutable scene id -> profile table
type SceneAudioPolicy struct {
	profiles map[string]SceneAudioProfile
	order    []string
}

// NewSceneAudioPolicy builds the lookup table
// Empty or duplicate scene ids fail here, never during a transition
func NewSceneAudioPolicy(profiles []SceneAudioProfile) (*SceneAudioPolicy, error) {
	p := &SceneAudioPolicy{
		profiles: make(map[string]SceneAudioProfile, len(profiles)),
		order:    make([]string, 0, len(profiles)),
	}
	for i, prof := range profiles {
		if prof.SceneID == "" {
			return nil, fmt.Errorf("%w: profile %d", ErrEmptySceneID, i)
		}
		if _, exists := p.profiles[prof.SceneID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateScene, prof.SceneID)
		}
		p.profiles[prof.SceneID] = prof
		p.order = append(p.order, prof.SceneID)
	}
	return p, nil
}

// LoadSceneAudioPolicy decodes a TOML scene audio document and builds its policy
func LoadSceneAudioPolicy(data []byte) (*SceneAudioPolicy, error) {
	doc, err := LoadSceneAudioConfig(data)
	if err != nil {
		return nil, err
	}
	return doc.Policy()
}

// Resolve returns the profile for sceneID
// Absence is not an error: it means "leave current audio unchanged"
func (p *SceneAudioPolicy) Resolve(sceneID string) (SceneAudioProfile, bool) {
	if p == nil {
		return SceneAudioProfile{}, false
	}
	prof, ok := p.profiles[sceneID]
	return prof, ok
}

// SceneIDs returns all scene ids in declaration order
func (p *SceneAudioPolicy) SceneIDs() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of profiles
func (p *SceneAudioPolicy) Len() int {
	return len(p.profiles)
}

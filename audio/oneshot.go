package audio

import (
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
)

// SoundCategory groups interchangeable one-shot clips
type SoundCategory int

const (
	SoundButtonSelect SoundCategory = iota
	SoundButtonClick
	SoundButtonDenied
	SoundAttack
	SoundFootstep
	SoundOrbCollect
	SoundPlayerDeath
	SoundDash
	SoundJump
	SoundCategoryCount
)

var soundCategoryNames = [SoundCategoryCount]string{
	SoundButtonSelect: "button_select",
	SoundButtonClick:  "button_click",
	SoundButtonDenied: "button_denied",
	SoundAttack:       "attack",
	SoundFootstep:     "footstep",
	SoundOrbCollect:   "orb_collect",
	SoundPlayerDeath:  "player_death",
	SoundDash:         "dash",
	SoundJump:         "jump",
}

func (c SoundCategory) String() string {
	if c < 0 || c >= SoundCategoryCount {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return soundCategoryNames[c]
}

// ParseSoundCategory maps a config key to its category, case-insensitive
func ParseSoundCategory(name string) (SoundCategory, bool) {
	for i, n := range soundCategoryNames {
		if strings.EqualFold(n, name) {
			return SoundCategory(i), true
		}
	}
	return 0, false
}

// SoundCategoryNames returns every category config key in declaration order
func SoundCategoryNames() []string {
	out := make([]string, len(soundCategoryNames))
	copy(out, soundCategoryNames[:])
	return out
}

// OneShotPlayer picks a random clip from a category and fires it through an output
// Stateless pass-through: nothing here touches channel fades
type OneShotPlayer struct {
	sets     [SoundCategoryCount][]ClipID
	resolver ClipResolver
	warn     WarningFunc
	intN     func(n int) int
}

// NewOneShotPlayer creates a player over the given category clip sets
func NewOneShotPlayer(sets map[SoundCategory][]ClipID, resolver ClipResolver) *OneShotPlayer {
	p := &OneShotPlayer{
		resolver: resolver,
		intN:     rand.IntN,
	}
	for cat, clips := range sets {
		if cat < 0 || cat >= SoundCategoryCount {
			continue
		}
		p.sets[cat] = append([]ClipID(nil), clips...)
	}
	return p
}

// SetWarningFunc installs the warning sink
func (p *OneShotPlayer) SetWarningFunc(fn WarningFunc) {
	p.warn = fn
}

// SetRand replaces the uniform index source, for deterministic tests
func (p *OneShotPlayer) SetRand(r *rand.Rand) {
	if r == nil {
		p.intN = rand.IntN
		return
	}
	p.intN = r.IntN
}

// Play fires a uniformly chosen clip from category through out at volume [0, 1]
// Out-of-range category, empty set, nil output or unresolvable clip warn and no-op
func (p *OneShotPlayer) Play(category SoundCategory, out OneShotOutput, volume float64) error {
	if category < 0 || category >= SoundCategoryCount {
		return p.fail(fmt.Errorf("%w: %s (have %d categories)", ErrUnknownCategory, category, SoundCategoryCount))
	}
	if out == nil {
		return p.fail(fmt.Errorf("%w: sound %s", ErrNilOutput, category))
	}

	clips := p.sets[category]
	if len(clips) == 0 {
		return p.fail(fmt.Errorf("%w: %s", ErrEmptyCategory, category))
	}

	id := clips[p.intN(len(clips))]
	clip, err := p.resolver.Resolve(id)
	if err == nil && clip == nil {
		err = fmt.Errorf("resolver returned no clip")
	}
	if err != nil {
		return p.fail(fmt.Errorf("%w: sound %s clip %q: %v", ErrClipUnresolvable, category, id, err))
	}

	out.PlayOneShot(clip, clampLinear(volume))
	return nil
}

// Clips returns the clip set of a category
func (p *OneShotPlayer) Clips(category SoundCategory) []ClipID {
	if category < 0 || category >= SoundCategoryCount {
		return nil
	}
	return append([]ClipID(nil), p.sets[category]...)
}

func (p *OneShotPlayer) fail(err error) error {
	log.Printf("[audio] WARN %v", err)
	if p.warn != nil {
		p.warn(err.Error())
	}
	return err
}

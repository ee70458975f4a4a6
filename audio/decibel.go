package audio

import (
	"math"

	"github.com/lixenwraith/scene-audio/constant"
)

// ToDecibels converts a linear volume to decibels
// Input is clamped to [LinearEpsilon, 1] before log10; NaN and values at or
// below the epsilon map to DecibelFloor. Result is always finite
func ToDecibels(linear float64) float64 {
	if !(linear > constant.LinearEpsilon) {
		return constant.DecibelFloor
	}
	if linear >= 1 {
		return constant.DecibelCeiling
	}
	return clampDecibels(20 * math.Log10(linear))
}

// ToLinear converts decibels back to a linear volume in [0, 1]
// DecibelFloor and below map to 0
func ToLinear(db float64) float64 {
	if !(db > constant.DecibelFloor) {
		return 0
	}
	if db >= constant.DecibelCeiling {
		return 1
	}
	return math.Pow(10, db/20)
}

// clampDecibels bounds db to [DecibelFloor, DecibelCeiling]
func clampDecibels(db float64) float64 {
	if !(db > constant.DecibelFloor) {
		return constant.DecibelFloor
	}
	if db > constant.DecibelCeiling {
		return constant.DecibelCeiling
	}
	return db
}

// clampLinear bounds v to [0, 1], NaN maps to 0
func clampLinear(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp interpolates between a and b at t in [0, 1]
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

package common

import "math"

// TwoPi is one full turn in radians.
const TwoPi = 2 * math.Pi

// NormalizeAngle maps an arbitrary angle into the canonical range [0, 2*Pi).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a
}

// Clamp limits v to the inclusive range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

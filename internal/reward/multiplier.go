package reward

import "math"

// Default multiplier policy: the multiplier activates on day 3 and is
// capped at 5.
const (
	DefaultFirstDayMultiplier = 3
	DefaultMaxMultiplier      = 5
)

// MultiplierFunc computes the multiplier for a streak. hoursWorked is a
// documented extension point; the production caller currently supplies 0
// (deriving it from issue labels was attempted and shelved).
type MultiplierFunc func(streakLength int, hoursWorked float64) float64

// ComputeMultiplier maps a streak length and an hours-worked signal to a
// bounded multiplier. Pure and deterministic.
//
// The hours tier sets the base: >=80 hours 3, >=40 hours 2, >=20 hours 1.5,
// otherwise 1. The preliminary multiplier is
// max(1, streakLength - firstDayMultiplier + base), clamped to
// maxMultiplier.
func ComputeMultiplier(streakLength int, hoursWorked, firstDayMultiplier, maxMultiplier float64) float64 {
	base := 1.0
	switch {
	case hoursWorked >= 80:
		base = 3
	case hoursWorked >= 40:
		base = 2
	case hoursWorked >= 20:
		base = 1.5
	}

	preliminary := math.Max(1, float64(streakLength)-firstDayMultiplier+base)
	return math.Min(maxMultiplier, preliminary)
}

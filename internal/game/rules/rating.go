// Package rules holds the static rule tables for Star Mercs: unit rating
// tiers, order definitions, and the immutable Config bundle that sessions and
// resolvers receive explicitly. Nothing in this package is mutated after
// load, so one Config can back any number of parallel combats.
package rules

import "fmt"

// Rating is the ordinal skill tier of a unit.
// The zero value (RatingUnknown) is intentionally invalid.
type Rating int

const (
	RatingUnknown Rating = iota // zero value; intentionally invalid
	Green
	Trained
	Experienced
	Veteran
	Elite
)

// String returns the lowercase rating name.
func (r Rating) String() string {
	switch r {
	case Green:
		return "green"
	case Trained:
		return "trained"
	case Experienced:
		return "experienced"
	case Veteran:
		return "veteran"
	case Elite:
		return "elite"
	default:
		return "unknown"
	}
}

// ParseRating maps a rating name to its Rating.
//
// Postcondition: Returns (RatingUnknown, error) for unrecognized names.
func ParseRating(name string) (Rating, error) {
	for r := Green; r <= Elite; r++ {
		if r.String() == name {
			return r, nil
		}
	}
	return RatingUnknown, fmt.Errorf("rules: unknown rating %q", name)
}

// RatingStats is one row of the rating table.
type RatingStats struct {
	// Accuracy is the base hit threshold: an attack roll must meet or beat
	// it, so lower is better.
	Accuracy int
	// ReadinessMax is the size of the readiness pool for units of this tier.
	ReadinessMax int
	// SkillBonus is the flat bonus added to d10 skill checks.
	SkillBonus int
}

// ratingTable maps each tier to its stats. Green troops need a 7+ to hit and
// crack early; elites hit on 3+ and hold twice as long.
var ratingTable = map[Rating]RatingStats{
	Green:       {Accuracy: 7, ReadinessMax: 6, SkillBonus: 0},
	Trained:     {Accuracy: 6, ReadinessMax: 8, SkillBonus: 1},
	Experienced: {Accuracy: 5, ReadinessMax: 10, SkillBonus: 2},
	Veteran:     {Accuracy: 4, ReadinessMax: 12, SkillBonus: 3},
	Elite:       {Accuracy: 3, ReadinessMax: 14, SkillBonus: 4},
}

// Stats returns the table row for r.
//
// Precondition: r must be a valid Rating. Panics on RatingUnknown or
// out-of-range values.
func (r Rating) Stats() RatingStats {
	s, ok := ratingTable[r]
	if !ok {
		panic(fmt.Sprintf("rules: Stats called with invalid rating %d", int(r)))
	}
	return s
}

// Package morale implements the morale resolution engine: the d10 morale
// roll primitive, the consolidation-phase state machine that walks units
// through Normal, Breaking/Broken, and Surrendered, and the specialized
// assault-vs-defender resolution.
package morale

import (
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// isolationPenalty is subtracted from the morale total of a unit cut off
// from all friendly comms.
const isolationPenalty = 2

// Check is one evaluated morale roll.
type Check struct {
	Die   int
	Total int
	// Passed is true when Total beat the unit's readiness.
	Passed bool
	// AutoFail is true for a natural 1, which fails regardless of
	// modifiers.
	AutoFail bool
	// Rerolled is true when a Command re-roll replaced a failed first roll.
	Rerolled bool
}

// EvaluateRoll scores a single morale die. A natural 1 fails
// unconditionally; otherwise the total is the die minus damage taken this
// turn, minus 2 when isolated, and the check passes when the total exceeds
// the unit's current readiness.
//
// Precondition: die in [1, 10]; damageTaken >= 0; readiness >= 0.
func EvaluateRoll(die, damageTaken int, isolated bool, readiness int) Check {
	if die == 1 {
		return Check{Die: die, Total: die, AutoFail: true}
	}
	total := die - damageTaken
	if isolated {
		total -= isolationPenalty
	}
	return Check{Die: die, Total: total, Passed: total > readiness}
}

// Support is a unit's morale support situation, computed by the caller from
// positions and comms ranges.
type Support struct {
	// Isolated is true when no living friendly sits within comms range.
	Isolated bool
	// CommandReroll is true when an active Command friendly in comms range
	// grants one re-roll on a failed check.
	CommandReroll bool
}

// RollCheck rolls a morale check for u under the given support situation.
// On failure with a Command re-roll available, the check is rolled once more
// with the same modifiers and the passing outcome wins; a second failure
// stands.
//
// Precondition: u and src must be non-nil.
func RollCheck(u *unit.Unit, sup Support, src dice.Source) Check {
	c := EvaluateRoll(dice.RollD10(src), u.Round.DamageTaken, sup.Isolated, u.Readiness.Value)
	if c.Passed || !sup.CommandReroll {
		return c
	}
	second := EvaluateRoll(dice.RollD10(src), u.Round.DamageTaken, sup.Isolated, u.Readiness.Value)
	if second.Passed {
		second.Rerolled = true
		return second
	}
	return c
}

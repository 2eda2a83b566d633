package combat

import "github.com/Zycke/star-mercs/internal/game/unit"

// Hit thresholds are clamped so a natural 2 can always miss and a natural 10
// is never required beyond the critical rule.
const (
	MinThreshold = 2
	MaxThreshold = 10
)

// Accuracy is the derived hit threshold for one attack, with every
// contributing modifier broken out for display.
type Accuracy struct {
	// Base is the attacker's rating-derived threshold.
	Base int
	// Effective is the final clamped threshold the roll is compared against.
	Effective int
	// ReadinessMod is +1 when the attacker's readiness is at or below 70%.
	ReadinessMod int
	// EwarMod is the target's EWAR value (0 without a target).
	EwarMod int
	// AccurateMod is the weapon's accurate rating (subtracts, easier).
	AccurateMod int
	// InaccurateMod is the weapon's inaccurate rating (adds, harder).
	InaccurateMod int
	// DisorderedMod is -1 when the target is disordered (easier).
	DisorderedMod int
}

// CalculateAccuracy derives the effective hit threshold for weapon fired by
// attacker at target. target may be nil (threshold preview without a
// target): EWAR and disorder then contribute nothing.
//
// Precondition: weapon and attacker must be non-nil.
// Postcondition: MinThreshold <= Effective <= MaxThreshold.
func CalculateAccuracy(weapon *unit.Weapon, attacker, target *unit.Unit) Accuracy {
	acc := Accuracy{
		Base:          attacker.Rating.Stats().Accuracy,
		AccurateMod:   weapon.Accurate,
		InaccurateMod: weapon.Inaccurate,
		ReadinessMod:  attacker.ReadinessPenalty().Accuracy,
	}
	if target != nil {
		acc.EwarMod = target.EWAR
		if target.Round.Disordered {
			acc.DisorderedMod = -1
		}
	}

	eff := acc.Base - acc.AccurateMod + acc.InaccurateMod + acc.ReadinessMod + acc.EwarMod + acc.DisorderedMod
	if eff < MinThreshold {
		eff = MinThreshold
	}
	if eff > MaxThreshold {
		eff = MaxThreshold
	}
	acc.Effective = eff
	return acc
}

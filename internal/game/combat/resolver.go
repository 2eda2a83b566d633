package combat

import (
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// Outcome is the fully resolved result of one weapon firing at one target.
// It records the decision, the die, and both calculator breakdowns; it does
// not touch strength, readiness, or supply.
type Outcome struct {
	AttackerID string
	TargetID   string
	WeaponID   string

	Valid       bool
	Reason      string
	SoftVsHeavy bool

	// Roll is the d10 result; 0 when the attack was invalid (no die was
	// spent).
	Roll     int
	Accuracy Accuracy
	Hit      HitResult
	Damage   Damage
}

// ResolveAttack runs the full pipeline for one attack: validation, accuracy
// derivation, one die roll, hit determination, and damage calculation.
// Invalid attacks short-circuit with Roll == 0. Pure with respect to world
// state except for the single roll.
//
// Destroyed targets are not legal: the attack resolves invalid rather than
// erroring, matching the terminal-state-is-a-no-op policy.
//
// Precondition: weapon, attacker, target, and src must be non-nil.
func ResolveAttack(weapon *unit.Weapon, attacker, target *unit.Unit, src dice.Source) Outcome {
	out := Outcome{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		WeaponID:   weapon.ID,
	}

	if target.IsDestroyed() {
		out.Reason = "target is destroyed"
		return out
	}
	v := Validate(weapon, target)
	out.SoftVsHeavy = v.SoftVsHeavy
	if !v.Valid {
		out.Reason = v.Reason
		return out
	}
	out.Valid = true

	out.Accuracy = CalculateAccuracy(weapon, attacker, target)
	out.Roll = dice.RollD10(src)
	out.Hit = DetermineHitResult(out.Roll, out.Accuracy.Effective, v.SoftVsHeavy)
	if !out.Hit.Hit {
		return out
	}

	if v.SoftVsHeavy {
		out.Damage = Damage{
			Base:  SoftVsHeavyDamage,
			Final: SoftVsHeavyDamage,
		}
		return out
	}
	out.Damage = CalculateDamage(weapon, attacker, target, out.Hit.Type)
	return out
}

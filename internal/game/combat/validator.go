// Package combat implements the deterministic attack resolution pipeline:
// target validation, accuracy derivation, hit determination, damage
// calculation, batched volleys, and damage application. Everything here is
// pure with respect to world state except the single die roll per attack;
// mutation happens only in the apply/queue paths.
package combat

import (
	"github.com/Zycke/star-mercs/internal/game/trait"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// Validation is the result of a targeting legality check. Illegal attacks
// are structured results, never errors: the caller decides how to present
// the reason.
type Validation struct {
	Valid  bool
	Reason string
	// SoftVsHeavy flags the special soft-weapon-against-heavy-armor case:
	// the attack is permitted, but only a natural 10 hits and that hit
	// deals exactly 1 damage.
	SoftVsHeavy bool
}

// Validate enforces targeting legality for weapon against target.
// Rules, in order:
//  1. A Flying (non-Hover) target may only be engaged by anti-air weapons.
//  2. Anti-air weapons may only engage Flying targets.
//  3. Soft weapons against Heavy targets are permitted but flagged
//     SoftVsHeavy (natural-10-only, fixed 1 damage).
//
// Precondition: weapon and target must be non-nil.
// Postcondition: Returns Valid=false with a non-empty Reason, or Valid=true.
func Validate(weapon *unit.Weapon, target *unit.Unit) Validation {
	flying := target.Traits.HasActive(trait.Flying) && !target.Traits.HasActive(trait.Hover)
	if flying && weapon.AttackType != unit.AttackAntiAir {
		return Validation{Reason: "only anti-air weapons may target flying units"}
	}
	if weapon.AttackType == unit.AttackAntiAir && !target.Traits.HasActive(trait.Flying) {
		return Validation{Reason: "anti-air weapons may only target flying units"}
	}
	if weapon.AttackType == unit.AttackSoft && target.Traits.HasActive(trait.Heavy) {
		return Validation{Valid: true, SoftVsHeavy: true}
	}
	return Validation{Valid: true}
}

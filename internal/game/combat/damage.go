package combat

import (
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/trait"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// SoftVsHeavyDamage is the fixed damage of a natural-10 soft hit on a Heavy
// target, bypassing the normal damage pipeline.
const SoftVsHeavyDamage = 1

// Modifier is one labeled entry in the damage audit trail. The halving step
// is recorded as the (negative) delta it removed from the running total.
type Modifier struct {
	Label string
	Delta int
}

// Damage is the fully modified damage for one hit.
// Invariant: Final == Base + sum(Modifiers[].Delta), floored at 1.
type Damage struct {
	Base      int
	Final     int
	Modifiers []Modifier
}

// CalculateDamage derives the final damage for a hit of the given type. The
// modifier order is fixed for reproducible breakdowns; in particular the
// hard-vs-Infantry halving acts on the partially modified running total, not
// the base.
//
// Steps: crit/partial adjustment, attacker casualty penalty, attacker
// readiness penalty, assault given (+1 vs the declared target), assault
// taken (+1 when the target is assaulting), area vs Infantry (+1), hard vs
// Infantry (halve, floor), Armored[N] (-N), Entrenched (-1), Fortified (-2),
// disordered target (+1), then floor at 1.
//
// Precondition: weapon, attacker, and target must be non-nil; hitType must
// be a hitting tier (Partial, Hit, or CriticalHit).
// Postcondition: Final >= 1.
func CalculateDamage(weapon *unit.Weapon, attacker, target *unit.Unit, hitType HitType) Damage {
	d := Damage{Base: weapon.Damage}
	running := weapon.Damage

	add := func(label string, delta int) {
		if delta == 0 {
			return
		}
		d.Modifiers = append(d.Modifiers, Modifier{Label: label, Delta: delta})
		running += delta
	}

	switch hitType {
	case CriticalHit:
		add("critical hit", 1)
	case Partial:
		add("partial hit", -1)
	}

	add("casualties", -attacker.CasualtyPenalty())
	add("low readiness", attacker.ReadinessPenalty().Damage)

	if attacker.CurrentOrder == rules.OrderAssault && target.ID == attacker.Round.AssaultTargetID {
		add("assault", 1)
	}
	if target.CurrentOrder == rules.OrderAssault {
		add("target assaulting", 1)
	}

	if weapon.Area && target.Traits.HasActive(trait.Infantry) {
		add("area vs infantry", 1)
	}
	if weapon.AttackType == unit.AttackHard && target.Traits.HasActive(trait.Infantry) && running > 0 {
		add("hard vs infantry (halved)", running/2-running)
	}

	if n := target.Traits.ActiveValue(trait.Armored); n > 0 {
		add("armored", -n)
	}
	if target.Traits.HasActive(trait.Entrenched) {
		add("entrenched", -1)
	}
	if target.Traits.HasActive(trait.Fortified) {
		add("fortified", -2)
	}
	if target.Round.Disordered {
		add("target disordered", 1)
	}

	if running < 1 {
		add("minimum damage", 1-running)
	}
	d.Final = running
	return d
}

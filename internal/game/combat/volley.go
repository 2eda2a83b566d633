package combat

import (
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// TargetLookup resolves a weapon's assigned target to the live unit, or nil
// when that weapon cannot engage it (unknown ID, out of range, no line of
// sight). Resolution is per weapon so one blocked weapon never suppresses
// the rest of the volley. Supplied by the session's combatant registry.
type TargetLookup func(w *unit.Weapon) *unit.Unit

// VolleySummary is the combined result of one attacker's volley against one
// target: every outcome (including misses and invalid attempts), the summed
// hit damage, and the single readiness loss for the whole volley.
type VolleySummary struct {
	TargetID string
	Outcomes []Outcome
	// Damage is the summed damage of all hitting attacks.
	Damage int
	// ReadinessLoss is computed once from the combined damage, not per
	// weapon.
	ReadinessLoss int
	// Hits are the per-hit records for the consolidation report.
	Hits []unit.HitRecord
	// WeaponsFired counts the valid attacks rolled against this target.
	WeaponsFired int
}

// RollVolley resolves all of attacker's targeted weapons simultaneously:
// every attack is resolved before any damage is summed, then hit damage is
// grouped by target with one combined readiness loss per target. Nothing is
// applied or queued here; the caller feeds the summaries into the immediate
// or deferred damage path. A target destroyed by the combined volley never
// dodges part of it.
//
// Weapons whose lookup resolves to no engageable unit are skipped.
//
// Precondition: attacker and src must be non-nil; lookup must be non-nil.
// Postcondition: Summaries appear in first-weapon-fired order per target.
func RollVolley(attacker *unit.Unit, lookup TargetLookup, src dice.Source) []VolleySummary {
	// Phase 1: resolve everything without touching state.
	type resolved struct {
		weapon  *unit.Weapon
		target  *unit.Unit
		outcome Outcome
	}
	var attacks []resolved
	for _, w := range attacker.TargetedWeapons() {
		target := lookup(w)
		if target == nil {
			continue
		}
		attacks = append(attacks, resolved{
			weapon:  w,
			target:  target,
			outcome: ResolveAttack(w, attacker, target, src),
		})
	}

	// Phase 2: group by target and combine.
	var order []string
	byTarget := make(map[string]*VolleySummary)
	targets := make(map[string]*unit.Unit)
	for _, a := range attacks {
		s, ok := byTarget[a.target.ID]
		if !ok {
			s = &VolleySummary{TargetID: a.target.ID}
			byTarget[a.target.ID] = s
			targets[a.target.ID] = a.target
			order = append(order, a.target.ID)
		}
		s.Outcomes = append(s.Outcomes, a.outcome)
		if a.outcome.Valid {
			s.WeaponsFired++
		}
		if a.outcome.Valid && a.outcome.Hit.Hit {
			s.Damage += a.outcome.Damage.Final
			s.Hits = append(s.Hits, unit.HitRecord{
				AttackerID: attacker.ID,
				WeaponName: a.weapon.Name,
				HitType:    a.outcome.Hit.Type.String(),
				Damage:     a.outcome.Damage.Final,
			})
		}
	}

	// One readiness loss per target per volley, from the combined damage.
	out := make([]VolleySummary, 0, len(order))
	for _, id := range order {
		s := byTarget[id]
		if s.Damage > 0 {
			s.ReadinessLoss = ReadinessLossFor(s.Damage, targets[id].Strength.Max)
		}
		out = append(out, *s)
	}
	return out
}

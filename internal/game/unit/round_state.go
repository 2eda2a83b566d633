package unit

import "github.com/Zycke/star-mercs/internal/game/hexgrid"

// HitRecord is one resolved hit queued against a unit, kept for the
// consolidation summary.
type HitRecord struct {
	AttackerID string
	WeaponName string
	HitType    string
	Damage     int
}

// PendingDamage accumulates deferred damage between resolution and the
// consolidation drain. It only carries data between those two points and is
// always cleared after application.
type PendingDamage struct {
	Strength      int
	ReadinessLoss int
	Hits          []HitRecord
}

// IsEmpty reports whether nothing is queued.
func (p PendingDamage) IsEmpty() bool {
	return p.Strength == 0 && p.ReadinessLoss == 0 && len(p.Hits) == 0
}

// Add merges one hit into the accumulator.
//
// Precondition: strength >= 0; readinessLoss >= 0.
func (p *PendingDamage) Add(strength, readinessLoss int, hits ...HitRecord) {
	p.Strength += strength
	p.ReadinessLoss += readinessLoss
	p.Hits = append(p.Hits, hits...)
}

// RoundState holds the per-round ephemeral flags owned by the phase machine.
type RoundState struct {
	MovementUsed    bool
	MoveDestination *hexgrid.Coord
	// WeaponsFired counts weapons fired this round; each adds 1 to supply
	// consumption at consolidation.
	WeaponsFired int
	// Disordered units are easier to hit, take extra damage, and lose 1
	// extra readiness at consolidation. Set by a failed withdraw test.
	Disordered bool
	// AssaultTargetID is the declared assault target; empty when none.
	AssaultTargetID string
	// DamageTaken is the strength damage applied this round; drives the
	// morale recover-if-undamaged rule.
	DamageTaken int
	// Pending is the deferred damage accumulator.
	Pending PendingDamage
}

// ResetRound clears all round-scoped state and the unit's current order.
// Called by the phase machine when leaving consolidation.
//
// Postcondition: u.Round is the zero value and u.CurrentOrder is empty.
func (u *Unit) ResetRound() {
	u.Round = RoundState{}
	u.CurrentOrder = ""
}

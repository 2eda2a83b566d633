package unit

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/trait"
)

// MoraleState is a unit's morale status. Surrendered is terminal.
type MoraleState int

const (
	MoraleNormal MoraleState = iota
	MoraleBreaking
	MoraleBroken
	MoraleSurrendered
)

// String returns the lowercase morale state name.
func (m MoraleState) String() string {
	switch m {
	case MoraleNormal:
		return "normal"
	case MoraleBreaking:
		return "breaking"
	case MoraleBroken:
		return "broken"
	case MoraleSurrendered:
		return "surrendered"
	default:
		return "unknown"
	}
}

// Impaired reports whether the state restricts order selection
// (Breaking or Broken).
func (m MoraleState) Impaired() bool {
	return m == MoraleBreaking || m == MoraleBroken
}

// ReadinessPenalty holds the derived combat penalties from a depleted
// readiness pool.
type ReadinessPenalty struct {
	// Accuracy is added to the unit's hit threshold (1 when ratio <= 0.70).
	Accuracy int
	// Damage is added to outgoing damage (-1 when ratio <= 0.40).
	Damage int
}

// Unit is one combatant. Authored attributes persist across rounds; the
// Round field holds per-round ephemeral state owned by the phase machine.
type Unit struct {
	ID   string
	Name string
	// Team is the faction identifier; units share morale support only with
	// their own team.
	Team string

	Rating    rules.Rating
	Strength  Pool
	Readiness Pool
	Supply    SupplyState

	Sensors   int
	Signature int
	// EWAR raises opponents' effective hit threshold against this unit.
	EWAR int
	// Comms is the radius in hexes for morale support and isolation checks.
	Comms int

	Traits  *trait.Set
	Weapons []*Weapon

	// CurrentOrder is the ID of the order selected this round; empty when
	// unset. Cleared at the round boundary.
	CurrentOrder string

	Morale MoraleState

	// Round holds the per-round ephemeral flags, reset at consolidation.
	Round RoundState
}

// New creates a unit with a fresh UUID, a full strength pool of the given
// size, and a readiness pool sized from the rating table.
//
// Precondition: rating must be valid; strengthMax >= 1.
func New(name, team string, rating rules.Rating, strengthMax int) *Unit {
	return &Unit{
		ID:        uuid.NewString(),
		Name:      name,
		Team:      team,
		Rating:    rating,
		Strength:  NewPool(strengthMax),
		Readiness: NewPool(rating.Stats().ReadinessMax),
		Traits:    trait.NewSet(),
	}
}

// IsDestroyed reports whether the unit is out of play: strength exhausted or
// surrendered (surrender forces strength to 0).
//
// Postcondition: Returns true iff Strength.Value <= 0.
func (u *Unit) IsDestroyed() bool {
	return u.Strength.IsEmpty()
}

// StrengthRatio returns current/max strength in [0, 1].
func (u *Unit) StrengthRatio() float64 { return u.Strength.Ratio() }

// ReadinessRatio returns current/max readiness in [0, 1].
func (u *Unit) ReadinessRatio() float64 { return u.Readiness.Ratio() }

// CasualtyPenalty is the accuracy-and-damage drag from losses:
// floor((1 - strengthRatio) * 5). Computed in integer arithmetic so the
// thresholds are exact.
//
// Postcondition: Returns a value in [0, 5].
func (u *Unit) CasualtyPenalty() int {
	if u.Strength.Max <= 0 {
		return 0
	}
	return (u.Strength.Max - u.Strength.Value) * 5 / u.Strength.Max
}

// ReadinessPenalty derives the combat penalties from the readiness pool.
// The ratio comparisons use integer arithmetic so a pool at exactly 70% or
// 40% triggers the penalty.
func (u *Unit) ReadinessPenalty() ReadinessPenalty {
	var p ReadinessPenalty
	if u.Readiness.Max <= 0 {
		return p
	}
	if u.Readiness.Value*100 <= u.Readiness.Max*70 {
		p.Accuracy = 1
	}
	if u.Readiness.Value*100 <= u.Readiness.Max*40 {
		p.Damage = -1
	}
	return p
}

// Surrender forces the unit out of play: morale goes terminal and strength
// drops to zero. Idempotent.
//
// Postcondition: Morale == MoraleSurrendered; IsDestroyed() is true.
func (u *Unit) Surrender() {
	u.Morale = MoraleSurrendered
	u.Strength.Value = 0
}

// WeaponByID returns the mounted weapon with the given ID.
//
// Postcondition: Returns (nil, error) when no such weapon is mounted.
func (u *Unit) WeaponByID(id string) (*Weapon, error) {
	for _, w := range u.Weapons {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, fmt.Errorf("unit %s: no weapon %q", u.Name, id)
}

// TargetedWeapons returns the weapons with an assigned target, in mount
// order.
func (u *Unit) TargetedWeapons() []*Weapon {
	var out []*Weapon
	for _, w := range u.Weapons {
		if w.HasTarget() {
			out = append(out, w)
		}
	}
	return out
}

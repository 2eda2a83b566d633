package unit

import "fmt"

// AttackType classifies a weapon's warhead against target armor classes.
// The zero value (AttackUnknown) is intentionally invalid.
type AttackType int

const (
	AttackUnknown AttackType = iota // zero value; intentionally invalid
	AttackSoft                      // anti-personnel; near-useless against Heavy armor
	AttackHard                      // anti-armor; halved against Infantry
	AttackAntiAir                   // the only type that can engage Flying units
)

// String returns the wire name of the attack type.
func (a AttackType) String() string {
	switch a {
	case AttackSoft:
		return "soft"
	case AttackHard:
		return "hard"
	case AttackAntiAir:
		return "antiAir"
	default:
		return "unknown"
	}
}

// ParseAttackType maps a wire name to its AttackType.
//
// Postcondition: Returns (AttackUnknown, error) for unrecognized names.
func ParseAttackType(s string) (AttackType, error) {
	switch s {
	case "soft":
		return AttackSoft, nil
	case "hard":
		return AttackHard, nil
	case "antiAir":
		return AttackAntiAir, nil
	default:
		return AttackUnknown, fmt.Errorf("unit: unknown attack type %q", s)
	}
}

// Weapon is one weapon system mounted on a unit. Accuracy is not stored
// here: the hit threshold derives from the firing unit's rating, with the
// Accurate/Inaccurate values shifting it per weapon.
type Weapon struct {
	ID   string
	Name string
	// AttackType gates which targets the weapon may legally engage.
	AttackType AttackType
	// Damage is the base damage before situational modifiers.
	Damage int
	// Range is the maximum engagement distance in hexes.
	Range int
	// Indirect weapons may fire without line of sight.
	Indirect bool
	// Area weapons deal +1 damage to Infantry.
	Area bool
	// Accurate lowers the hit threshold by its value (easier to hit).
	Accurate int
	// Inaccurate raises the hit threshold by its value (harder to hit).
	Inaccurate int
	// TargetID is the assigned persistent target for planned simultaneous
	// fire; empty when unassigned.
	TargetID string
}

// HasTarget reports whether the weapon has an assigned target.
func (w *Weapon) HasTarget() bool { return w.TargetID != "" }

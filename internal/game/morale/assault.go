package morale

import (
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// assaultReadinessLoss is the readiness cost of losing (or drawing badly)
// an assault morale contest.
const assaultReadinessLoss = 2

// AssaultResult is the outcome of one assault-vs-defender morale contest.
type AssaultResult struct {
	AttackerID string
	DefenderID string
	Attacker   Check
	Defender   Check
	Events     []Event
}

// ResolveAssault rolls the assault morale contest between attacker and
// defender. Comms isolation does not apply in this mode (the units are
// locked together); the damage-taken modifier still does, and no Command
// re-rolls are granted.
//
// Outcome matrix:
//   - both pass: stalemate, no change.
//   - attacker fails, defender passes: attacker Breaking, -2 readiness.
//   - attacker passes, defender fails: defender -2 readiness, then Broken
//     when canRetreat (an adjacent unoccupied hex exists) or Surrendered
//     when cornered.
//   - both fail: both Breaking, both -2 readiness.
//
// Precondition: attacker, defender, and src must be non-nil; neither unit
// may be destroyed.
func ResolveAssault(attacker, defender *unit.Unit, canRetreat bool, src dice.Source) AssaultResult {
	res := AssaultResult{
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
		Attacker:   RollCheck(attacker, Support{}, src),
		Defender:   RollCheck(defender, Support{}, src),
	}

	switch {
	case res.Attacker.Passed && res.Defender.Passed:
		res.Events = append(res.Events, Event{
			UnitID: attacker.ID, Kind: EventStalemate,
			From: attacker.Morale, To: attacker.Morale, Check: res.Attacker,
		})

	case !res.Attacker.Passed && res.Defender.Passed:
		res.Events = append(res.Events, breakOff(attacker, res.Attacker))

	case res.Attacker.Passed && !res.Defender.Passed:
		defender.Readiness.Damage(assaultReadinessLoss)
		from := defender.Morale
		if canRetreat {
			defender.Morale = unit.MoraleBroken
			res.Events = append(res.Events, Event{
				UnitID: defender.ID, Kind: EventBroken,
				From: from, To: unit.MoraleBroken, Check: res.Defender,
			})
		} else {
			defender.Surrender()
			res.Events = append(res.Events, Event{
				UnitID: defender.ID, Kind: EventSurrender,
				From: from, To: unit.MoraleSurrendered, Check: res.Defender,
			})
		}

	default: // both fail
		res.Events = append(res.Events,
			breakOff(attacker, res.Attacker),
			breakOff(defender, res.Defender),
		)
	}
	return res
}

// breakOff pushes a unit to Breaking with the assault readiness loss.
func breakOff(u *unit.Unit, c Check) Event {
	u.Readiness.Damage(assaultReadinessLoss)
	from := u.Morale
	u.Morale = unit.MoraleBreaking
	return Event{UnitID: u.ID, Kind: EventBreaking, From: from, To: unit.MoraleBreaking, Check: c}
}

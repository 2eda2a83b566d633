package morale

import (
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// moraleCheckThreshold is the readiness value at or above which a Normal
// unit skips its consolidation morale check.
const moraleCheckThreshold = 10

// EventKind classifies a morale engine event.
type EventKind string

const (
	EventHeld      EventKind = "held"        // check passed, no change
	EventRecovered EventKind = "recovered"   // Breaking/Broken back to Normal
	EventBreaking  EventKind = "breaking"    // Normal failed its check
	EventBroken    EventKind = "broken"      // assault defender forced to retreat
	EventSurrender EventKind = "surrendered" // removed from play
	EventStalemate EventKind = "stalemate"   // assault with no winner
)

// Event records one morale engine decision for the consolidation report.
type Event struct {
	UnitID string
	Kind   EventKind
	From   unit.MoraleState
	To     unit.MoraleState
	// Check is the roll behind the decision; zero-valued when no roll was
	// made (automatic recovery).
	Check Check
}

// SupportFunc computes a unit's Support from the session's positions.
type SupportFunc func(u *unit.Unit) Support

// RunConsolidationChecks evaluates the per-unit morale state machine once
// for each unit, in the given order. Destroyed and surrendered units are
// skipped, as are units under the assault order (resolved separately by
// ResolveAssault).
//
// Transitions:
//   - Breaking/Broken with no damage this turn: recover to Normal, no roll.
//   - Breaking/Broken with damage: roll; pass recovers, fail surrenders.
//   - Normal with readiness below 10: roll; fail goes to Breaking.
//   - Normal with readiness 10 or more: no check.
//
// Precondition: supportFor and src must be non-nil.
// Postcondition: Returns one Event per evaluated unit, in input order.
func RunConsolidationChecks(units []*unit.Unit, supportFor SupportFunc, src dice.Source) []Event {
	var events []Event
	for _, u := range units {
		if u.IsDestroyed() || u.Morale == unit.MoraleSurrendered {
			continue
		}
		if u.CurrentOrder == rules.OrderAssault {
			continue
		}

		switch {
		case u.Morale.Impaired():
			if u.Round.DamageTaken == 0 {
				from := u.Morale
				u.Morale = unit.MoraleNormal
				events = append(events, Event{
					UnitID: u.ID, Kind: EventRecovered,
					From: from, To: unit.MoraleNormal,
				})
				continue
			}
			c := RollCheck(u, supportFor(u), src)
			from := u.Morale
			if c.Passed {
				u.Morale = unit.MoraleNormal
				events = append(events, Event{
					UnitID: u.ID, Kind: EventRecovered,
					From: from, To: unit.MoraleNormal, Check: c,
				})
			} else {
				u.Surrender()
				events = append(events, Event{
					UnitID: u.ID, Kind: EventSurrender,
					From: from, To: unit.MoraleSurrendered, Check: c,
				})
			}

		case u.Readiness.Value < moraleCheckThreshold:
			c := RollCheck(u, supportFor(u), src)
			if c.Passed {
				events = append(events, Event{
					UnitID: u.ID, Kind: EventHeld,
					From: unit.MoraleNormal, To: unit.MoraleNormal, Check: c,
				})
			} else {
				u.Morale = unit.MoraleBreaking
				events = append(events, Event{
					UnitID: u.ID, Kind: EventBreaking,
					From: unit.MoraleNormal, To: unit.MoraleBreaking, Check: c,
				})
			}
		}
	}
	return events
}

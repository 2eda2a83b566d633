// Package session owns the round and phase clock for one combat encounter:
// the combatant registry, the hex position map, per-phase action permissions,
// and the consolidation pipeline that drains deferred damage, charges order
// costs and supply, and runs morale and assault resolution at the phase
// boundary.
package session

import "fmt"

// Phase is one of the four round phases.
type Phase int

const (
	PhasePreparation Phase = iota
	PhaseOrders
	PhaseTactical
	PhaseConsolidation

	phaseCount = 4
)

// String returns the wire name of the phase.
func (p Phase) String() string {
	switch p {
	case PhasePreparation:
		return "preparation"
	case PhaseOrders:
		return "orders"
	case PhaseTactical:
		return "tactical"
	case PhaseConsolidation:
		return "consolidation"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ParsePhase maps a wire name back to a Phase.
//
// Postcondition: Returns an error for any name that is not one of the four
// phase names.
func ParsePhase(name string) (Phase, error) {
	for p := PhasePreparation; p < phaseCount; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

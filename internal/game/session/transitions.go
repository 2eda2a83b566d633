package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Zycke/star-mercs/internal/game/combat"
	"github.com/Zycke/star-mercs/internal/game/morale"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/trait"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// DamageReport is the consolidation summary for one unit's drained damage.
type DamageReport struct {
	Application combat.Application
	Hits        []unit.HitRecord
}

// NextPhase advances the phase clock one step. Entering tactical runs the
// withdraw morale tests; entering consolidation runs the full consolidation
// pipeline; leaving consolidation performs the round-boundary reset and
// increments the round.
//
// Postcondition: Returns the new phase. After four calls from preparation
// the session is back at preparation of the next round.
func (s *Session) NextPhase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhasePreparation:
		s.phase = PhaseOrders
	case PhaseOrders:
		s.phase = PhaseTactical
		s.runWithdrawTestsLocked()
	case PhaseTactical:
		s.phase = PhaseConsolidation
		s.runConsolidationLocked()
	case PhaseConsolidation:
		s.runCleanupLocked()
		s.round++
		s.phase = PhasePreparation
	}

	s.log.Info("phase change",
		zap.Int("round", s.round),
		zap.Stringer("phase", s.phase),
	)
	s.notifyLocked(Event{
		Kind:    EventPhase,
		Message: fmt.Sprintf("round %d, %s phase", s.round, s.phase),
	})
	return s.phase
}

// PreviousPhase steps the clock back one phase without running or unwinding
// any pipeline. It exists as a host correction affordance; damage, costs,
// and morale results already applied stay applied.
//
// Postcondition: Returns the new phase. At round 1 preparation this is a
// no-op; stepping back from preparation otherwise re-enters the previous
// round's consolidation.
func (s *Session) PreviousPhase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhasePreparation {
		if s.round == 1 {
			return s.phase
		}
		s.round--
		s.phase = PhaseConsolidation
	} else {
		s.phase--
	}
	s.notifyLocked(Event{
		Kind:    EventPhase,
		Message: fmt.Sprintf("round %d, %s phase", s.round, s.phase),
	})
	return s.phase
}

// runWithdrawTestsLocked runs the morale test every withdrawing unit takes
// when the tactical phase opens. Failure marks the unit disordered for the
// rest of the round.
func (s *Session) runWithdrawTestsLocked() {
	for _, id := range s.roster {
		u := s.units[id]
		if u.IsDestroyed() || u.CurrentOrder != rules.OrderWithdraw {
			continue
		}
		c := morale.RollCheck(u, s.supportForLocked(u), s.src)
		if !c.Passed {
			u.Round.Disordered = true
		}
		s.notifyLocked(Event{
			Kind:    EventWithdraw,
			UnitID:  id,
			Message: fmt.Sprintf("%s withdraw test: passed=%v", u.Name, c.Passed),
			Data:    c,
		})
	}
}

// runConsolidationLocked executes the consolidation pipeline in its fixed
// order: drain deferred damage, charge order readiness costs, penalize
// disordered units, consume supply, run morale checks, resolve assaults.
// All damage lands before any morale check so the recover-if-undamaged rule
// sees final per-round totals.
func (s *Session) runConsolidationLocked() {
	for _, id := range s.roster {
		u := s.units[id]
		if u.Round.Pending.IsEmpty() {
			continue
		}
		hits := append([]unit.HitRecord(nil), u.Round.Pending.Hits...)
		app := combat.DrainPending(u)
		s.notifyLocked(Event{
			Kind:    EventDamage,
			UnitID:  id,
			Message: fmt.Sprintf("%s takes %d hits: strength %d, readiness %d", u.Name, len(hits), app.NewStrength, app.NewReadiness),
			Data:    DamageReport{Application: app, Hits: hits},
		})
	}

	for _, id := range s.roster {
		u := s.units[id]
		if u.IsDestroyed() {
			continue
		}
		def, hasOrder := s.rules.Orders.Get(u.CurrentOrder)
		if hasOrder && def.ReadinessCost != 0 {
			u.Readiness.Adjust(def.ReadinessCost)
		}
		if u.Round.Disordered {
			u.Readiness.Damage(1)
		}
		mult := 1.0
		if hasOrder {
			mult = def.SupplyMultiplier()
		}
		cost := int(float64(u.Supply.Usage)*mult) + u.Round.WeaponsFired
		if cost > 0 {
			u.Supply.Consume(cost)
		}
	}

	for _, ev := range morale.RunConsolidationChecks(s.unitsLocked(), s.supportForLocked, s.src) {
		s.notifyLocked(Event{
			Kind:    EventMorale,
			UnitID:  ev.UnitID,
			Message: string(ev.Kind),
			Data:    ev,
		})
	}

	for _, id := range s.roster {
		u := s.units[id]
		if u.IsDestroyed() || u.CurrentOrder != rules.OrderAssault || u.Round.AssaultTargetID == "" {
			continue
		}
		defender, ok := s.units[u.Round.AssaultTargetID]
		if !ok || defender.IsDestroyed() {
			continue
		}
		res := morale.ResolveAssault(u, defender, s.canRetreatLocked(defender), s.src)
		for _, ev := range res.Events {
			s.notifyLocked(Event{
				Kind:    EventAssault,
				UnitID:  ev.UnitID,
				Message: string(ev.Kind),
				Data:    res,
			})
		}
	}
}

// runCleanupLocked is the round-boundary reset: every unit's round flags and
// current order are cleared.
func (s *Session) runCleanupLocked() {
	for _, id := range s.roster {
		s.units[id].ResetRound()
	}
}

// supportForLocked computes a unit's morale support from the position map.
// A placed unit is isolated when no living friendly sits within the larger
// of the two comms ranges; an active Command friendly in range grants the
// re-roll. Unplaced units are neither isolated nor supported.
func (s *Session) supportForLocked(u *unit.Unit) morale.Support {
	pos, placed := s.position[u.ID]
	if !placed {
		return morale.Support{}
	}

	sup := morale.Support{Isolated: true}
	for _, id := range s.roster {
		f := s.units[id]
		if f.ID == u.ID || f.Team != u.Team || f.IsDestroyed() {
			continue
		}
		fpos, ok := s.position[f.ID]
		if !ok {
			continue
		}
		reach := max(u.Comms, f.Comms)
		if reach <= 0 || s.geo.Distance(pos, fpos) > reach {
			continue
		}
		sup.Isolated = false
		if f.Traits.HasActive(trait.Command) {
			sup.CommandReroll = true
		}
	}
	return sup
}

// canRetreatLocked reports whether the defender has an adjacent hex free of
// living units to break off into. Unplaced defenders can always retreat.
func (s *Session) canRetreatLocked(defender *unit.Unit) bool {
	pos, placed := s.position[defender.ID]
	if !placed {
		return true
	}
	for _, n := range s.geo.Neighbors(pos) {
		if _, blocked := s.hexBlockedLocked(n, defender.ID); !blocked {
			return true
		}
	}
	return false
}

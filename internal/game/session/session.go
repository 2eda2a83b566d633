package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Zycke/star-mercs/internal/game/combat"
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/hexgrid"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// Session is the live state of one combat encounter: the phase clock, the
// combatant registry, and the hex position map. All combat logic runs
// synchronously inside the caller's goroutine; the mutex only guards the
// external API surface so a web host can drive the session from handler
// goroutines.
type Session struct {
	mu sync.Mutex

	log      *zap.Logger
	rules    *rules.Config
	geo      hexgrid.Geometry
	src      dice.Source
	notifier Notifier

	units    map[string]*unit.Unit
	roster   []string // unit IDs in join order, for deterministic passes
	position map[string]hexgrid.Coord
	occupied map[hexgrid.Coord]string

	round int
	phase Phase
}

// New creates a Session at round 1, preparation phase.
//
// Precondition: cfg, geo, src, and logger must be non-nil. notifier may be
// nil, in which case events are discarded.
func New(cfg *rules.Config, geo hexgrid.Geometry, src dice.Source, logger *zap.Logger, notifier Notifier) *Session {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Session{
		log:      logger,
		rules:    cfg,
		geo:      geo,
		src:      src,
		notifier: notifier,
		units:    make(map[string]*unit.Unit),
		position: make(map[string]hexgrid.Coord),
		occupied: make(map[hexgrid.Coord]string),
		round:    1,
		phase:    PhasePreparation,
	}
}

// Round returns the current round number, starting at 1.
func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// AddUnit registers a combatant.
//
// Precondition: u must be non-nil with a non-empty ID.
// Postcondition: Returns an error if the ID is already registered.
func (s *Session) AddUnit(u *unit.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.units[u.ID]; exists {
		return fmt.Errorf("unit %q already registered", u.ID)
	}
	s.units[u.ID] = u
	s.roster = append(s.roster, u.ID)
	return nil
}

// RemoveUnit removes a combatant and frees its hex.
//
// Postcondition: Returns an error if the ID is not registered.
func (s *Session) RemoveUnit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.units[id]; !exists {
		return fmt.Errorf("unit %q not found", id)
	}
	if pos, ok := s.position[id]; ok {
		delete(s.occupied, pos)
		delete(s.position, id)
	}
	delete(s.units, id)
	for i, rid := range s.roster {
		if rid == id {
			s.roster = append(s.roster[:i], s.roster[i+1:]...)
			break
		}
	}
	return nil
}

// Unit returns the combatant with the given ID.
//
// Postcondition: Returns (unit, true) if found, or (nil, false) otherwise.
func (s *Session) Unit(id string) (*unit.Unit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[id]
	return u, ok
}

// Units returns all combatants in join order.
func (s *Session) Units() []*unit.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unitsLocked()
}

func (s *Session) unitsLocked() []*unit.Unit {
	out := make([]*unit.Unit, 0, len(s.roster))
	for _, id := range s.roster {
		out = append(out, s.units[id])
	}
	return out
}

// PlaceUnit puts a combatant on a hex, vacating its previous hex.
//
// Postcondition: Returns an error if the unit is unknown or the hex is
// held by another living unit.
func (s *Session) PlaceUnit(id string, at hexgrid.Coord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeLocked(id, at)
}

func (s *Session) placeLocked(id string, at hexgrid.Coord) error {
	if _, exists := s.units[id]; !exists {
		return fmt.Errorf("unit %q not found", id)
	}
	if holder, blocked := s.hexBlockedLocked(at, id); blocked {
		return fmt.Errorf("hex %v is occupied by %q", at, holder)
	}
	if old, ok := s.position[id]; ok {
		delete(s.occupied, old)
	}
	s.position[id] = at
	s.occupied[at] = id
	return nil
}

// hexBlockedLocked reports whether the hex is held by a living unit other
// than self. A hex counts as occupied only while its holder is alive; wrecks
// keep their map entry but never block.
func (s *Session) hexBlockedLocked(at hexgrid.Coord, self string) (string, bool) {
	holder, taken := s.occupied[at]
	if !taken || holder == self {
		return "", false
	}
	if u, ok := s.units[holder]; ok && u.IsDestroyed() {
		return "", false
	}
	return holder, true
}

// PositionOf returns the combatant's hex.
//
// Postcondition: Returns (coord, true) if placed, or (zero, false) otherwise.
func (s *Session) PositionOf(id string) (hexgrid.Coord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.position[id]
	return pos, ok
}

// CanMove reports whether the unit may move in the current phase. Movement
// is order-gated during tactical and free during consolidation; a unit that
// has already moved this round may not move again.
func (s *Session) CanMove(u *unit.Unit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canMoveLocked(u)
}

func (s *Session) canMoveLocked(u *unit.Unit) bool {
	if u.IsDestroyed() || u.Round.MovementUsed {
		return false
	}
	switch s.phase {
	case PhaseTactical:
		def, ok := s.rules.Orders.Get(u.CurrentOrder)
		return ok && def.AllowsMovement
	case PhaseConsolidation:
		return true
	default:
		return false
	}
}

// CanAttack reports whether the unit may attack in the current phase.
// Attacks are legal only during tactical and only under an order that
// allows them.
func (s *Session) CanAttack(u *unit.Unit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAttackLocked(u)
}

func (s *Session) canAttackLocked(u *unit.Unit) bool {
	if u.IsDestroyed() || s.phase != PhaseTactical {
		return false
	}
	def, ok := s.rules.Orders.Get(u.CurrentOrder)
	return ok && def.AllowsAttack
}

// SetOrder assigns an order to a unit during the orders phase. An order may
// be set at most once per round and must pass the eligibility rules for the
// unit's traits and morale state.
//
// Postcondition: Returns an error outside the orders phase, for an unknown
// unit, when an order is already set this round, or when the unit is not
// eligible for the order.
func (s *Session) SetOrder(unitID, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseOrders {
		return fmt.Errorf("orders may only be set during the orders phase, not %s", s.phase)
	}
	u, ok := s.units[unitID]
	if !ok {
		return fmt.Errorf("unit %q not found", unitID)
	}
	if u.IsDestroyed() {
		return fmt.Errorf("unit %q is out of play", unitID)
	}
	if u.CurrentOrder != "" {
		return fmt.Errorf("unit %q already has order %q this round", unitID, u.CurrentOrder)
	}
	if ok, reason := s.rules.Orders.Eligible(orderID, u.Traits, u.Morale.Impaired()); !ok {
		return fmt.Errorf("unit %q cannot take order %q: %s", unitID, orderID, reason)
	}

	u.CurrentOrder = orderID
	s.notifyLocked(Event{
		Kind:    EventOrder,
		UnitID:  unitID,
		Message: fmt.Sprintf("%s takes order %s", u.Name, orderID),
		Data:    orderID,
	})
	return nil
}

// DeclareAssault marks targetID as the unit's assault target for this round.
//
// Precondition: The unit must hold the assault order.
// Postcondition: Returns an error for unknown IDs, a missing assault order,
// or a target that is out of play.
func (s *Session) DeclareAssault(unitID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[unitID]
	if !ok {
		return fmt.Errorf("unit %q not found", unitID)
	}
	if u.CurrentOrder != rules.OrderAssault {
		return fmt.Errorf("unit %q has order %q, assault requires the assault order", unitID, u.CurrentOrder)
	}
	target, ok := s.units[targetID]
	if !ok {
		return fmt.Errorf("target %q not found", targetID)
	}
	if target.IsDestroyed() {
		return fmt.Errorf("target %q is out of play", targetID)
	}
	u.Round.AssaultTargetID = targetID
	return nil
}

// MoveUnit moves a combatant to a new hex, consuming its movement for the
// round.
//
// Postcondition: Returns an error when movement is not permitted in the
// current phase or the destination is occupied.
func (s *Session) MoveUnit(id string, to hexgrid.Coord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[id]
	if !ok {
		return fmt.Errorf("unit %q not found", id)
	}
	if !s.canMoveLocked(u) {
		return fmt.Errorf("unit %q may not move during %s", id, s.phase)
	}
	if err := s.placeLocked(id, to); err != nil {
		return err
	}
	u.Round.MovementUsed = true
	dest := to
	u.Round.MoveDestination = &dest
	return nil
}

// AttackUnit resolves a single weapon attack against its assigned target and
// queues the damage for consolidation. Range and line of sight are checked
// against the position map; unplaced units skip the geometry gates.
//
// Postcondition: Returns an error when the attacker may not attack this
// phase, the weapon or target is unknown, the target is out of range, or a
// direct-fire weapon has no line of sight. A validation failure (illegal
// target type) is not an error: it comes back as an invalid Outcome.
func (s *Session) AttackUnit(attackerID, weaponID string) (combat.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attacker, ok := s.units[attackerID]
	if !ok {
		return combat.Outcome{}, fmt.Errorf("unit %q not found", attackerID)
	}
	if !s.canAttackLocked(attacker) {
		return combat.Outcome{}, fmt.Errorf("unit %q may not attack during %s", attackerID, s.phase)
	}
	weapon, err := attacker.WeaponByID(weaponID)
	if err != nil {
		return combat.Outcome{}, err
	}
	if !weapon.HasTarget() {
		return combat.Outcome{}, fmt.Errorf("weapon %q has no target assigned", weaponID)
	}
	target, ok := s.units[weapon.TargetID]
	if !ok {
		return combat.Outcome{}, fmt.Errorf("target %q not found", weapon.TargetID)
	}
	if err := s.checkGeometryLocked(attacker, weapon, target); err != nil {
		return combat.Outcome{}, err
	}

	out := combat.ResolveAttack(weapon, attacker, target, s.src)
	if out.Valid {
		attacker.Round.WeaponsFired++
		if out.Hit.Hit && out.Damage.Final > 0 {
			loss := combat.ReadinessLossFor(out.Damage.Final, target.Strength.Max)
			combat.QueueDamage(target, out.Damage.Final, loss, unit.HitRecord{
				AttackerID: attacker.ID,
				WeaponName: weapon.Name,
				HitType:    out.Hit.Type.String(),
				Damage:     out.Damage.Final,
			})
		}
	}
	s.notifyLocked(Event{
		Kind:   EventAttack,
		UnitID: attackerID,
		Data:   out,
	})
	return out, nil
}

// RollAllAttacks resolves every targeted weapon of the attacker as one
// simultaneous volley and queues the combined damage per target.
//
// Postcondition: Returns an error when the attacker is unknown or may not
// attack this phase. Targets out of range or line of sight are skipped, not
// errors.
func (s *Session) RollAllAttacks(attackerID string) ([]combat.VolleySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attacker, ok := s.units[attackerID]
	if !ok {
		return nil, fmt.Errorf("unit %q not found", attackerID)
	}
	if !s.canAttackLocked(attacker) {
		return nil, fmt.Errorf("unit %q may not attack during %s", attackerID, s.phase)
	}

	lookup := func(w *unit.Weapon) *unit.Unit {
		target, ok := s.units[w.TargetID]
		if !ok {
			return nil
		}
		if s.checkGeometryLocked(attacker, w, target) != nil {
			return nil
		}
		return target
	}

	summaries := combat.RollVolley(attacker, lookup, s.src)
	for _, sum := range summaries {
		attacker.Round.WeaponsFired += sum.WeaponsFired
		if sum.Damage > 0 {
			target := s.units[sum.TargetID]
			combat.QueueDamage(target, sum.Damage, sum.ReadinessLoss, sum.Hits...)
		}
		s.notifyLocked(Event{
			Kind:   EventVolley,
			UnitID: attackerID,
			Data:   sum,
		})
	}
	return summaries, nil
}

// SkillCheck rolls a rating-modified d10 check for the unit.
func (s *Session) SkillCheck(unitID string) (combat.CheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[unitID]
	if !ok {
		return combat.CheckResult{}, fmt.Errorf("unit %q not found", unitID)
	}
	return combat.SkillCheck(u, s.src), nil
}

// OpposedCheck rolls an opposed skill contest between two units.
func (s *Session) OpposedCheck(aID, bID string) (combat.OpposedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.units[aID]
	if !ok {
		return combat.OpposedResult{}, fmt.Errorf("unit %q not found", aID)
	}
	b, ok := s.units[bID]
	if !ok {
		return combat.OpposedResult{}, fmt.Errorf("unit %q not found", bID)
	}
	return combat.OpposedCheck(a, b, s.src), nil
}

// checkGeometryLocked gates an attack on weapon range and, for direct-fire
// weapons, line of sight. Units without a map position skip both gates so
// the session stays usable without a battle map.
func (s *Session) checkGeometryLocked(attacker *unit.Unit, weapon *unit.Weapon, target *unit.Unit) error {
	from, okA := s.position[attacker.ID]
	to, okB := s.position[target.ID]
	if !okA || !okB {
		return nil
	}
	if d := s.geo.Distance(from, to); weapon.Range > 0 && d > weapon.Range {
		return fmt.Errorf("target %q is at range %d, weapon %q reaches %d", target.ID, d, weapon.ID, weapon.Range)
	}
	if !weapon.Indirect && !s.geo.LineOfSight(from, to) {
		return fmt.Errorf("no line of sight from %q to %q", attacker.ID, target.ID)
	}
	return nil
}

func (s *Session) notifyLocked(e Event) {
	e.Round = s.round
	e.Phase = s.phase.String()
	s.notifier.Notify(e)
}

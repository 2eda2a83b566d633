// Package unit defines the combatant data model: durability and readiness
// pools, supply, traits, weapons, morale status, and the per-round ephemeral
// state the phase machine resets at consolidation.
package unit

// Pool is a clamped resource pool (strength, readiness).
// Invariant: 0 <= Value <= Max at all times.
type Pool struct {
	Value int
	Max   int
}

// NewPool creates a full pool of the given size.
//
// Precondition: max >= 0.
func NewPool(max int) Pool {
	return Pool{Value: max, Max: max}
}

// Damage reduces Value by amount, flooring at zero, and returns the amount
// actually removed.
//
// Precondition: amount >= 0.
// Postcondition: Value >= 0.
func (p *Pool) Damage(amount int) int {
	if amount > p.Value {
		amount = p.Value
	}
	p.Value -= amount
	return amount
}

// Restore increases Value by amount, capping at Max, and returns the amount
// actually recovered.
//
// Precondition: amount >= 0.
// Postcondition: Value <= Max.
func (p *Pool) Restore(amount int) int {
	if p.Value+amount > p.Max {
		amount = p.Max - p.Value
	}
	p.Value += amount
	return amount
}

// Adjust applies a signed delta: negative damages, positive restores.
// Returns the signed amount actually applied.
//
// Postcondition: 0 <= Value <= Max.
func (p *Pool) Adjust(delta int) int {
	if delta < 0 {
		return -p.Damage(-delta)
	}
	return p.Restore(delta)
}

// Ratio returns Value/Max, or 0 for an empty pool definition.
//
// Postcondition: Returns a value in [0, 1].
func (p Pool) Ratio() float64 {
	if p.Max <= 0 {
		return 0
	}
	return float64(p.Value) / float64(p.Max)
}

// IsEmpty reports whether the pool is exhausted.
func (p Pool) IsEmpty() bool { return p.Value <= 0 }

// SupplyState tracks a unit's consumable supply.
// Invariant: 0 <= Value <= Capacity; Usage >= 0.
type SupplyState struct {
	Value    int
	Capacity int
	// Usage is the base supply consumed per round before order multipliers
	// and weapon fire surcharges.
	Usage int
}

// Consume removes amount supply, flooring at zero, and returns the amount
// actually consumed.
//
// Precondition: amount >= 0.
// Postcondition: Value >= 0.
func (s *SupplyState) Consume(amount int) int {
	if amount > s.Value {
		amount = s.Value
	}
	s.Value -= amount
	return amount
}

// Resupply adds amount, capping at Capacity.
//
// Precondition: amount >= 0.
// Postcondition: Value <= Capacity.
func (s *SupplyState) Resupply(amount int) {
	s.Value += amount
	if s.Value > s.Capacity {
		s.Value = s.Capacity
	}
}

// IsExhausted reports whether the unit is out of supply. Exhausted units
// roll skill checks twice and keep the worse result.
func (s SupplyState) IsExhausted() bool { return s.Value <= 0 }

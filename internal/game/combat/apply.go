package combat

import "github.com/Zycke/star-mercs/internal/game/unit"

// Application is the result of applying damage to a unit's pools.
type Application struct {
	NewStrength   int
	NewReadiness  int
	ReadinessLost int
	// Destroyed is true when strength reached zero.
	Destroyed bool
	// Routed is true when readiness reached zero on a still-living unit.
	// This is a derived, non-terminal status distinct from the morale
	// engine's Broken state.
	Routed bool
}

// ReadinessLossFor returns the readiness cost of taking damage: 2 when the
// hit exceeds a quarter of the unit's maximum strength, else 1. Integer
// arithmetic keeps the 25% threshold exact.
//
// Precondition: damage >= 1; strengthMax >= 1.
func ReadinessLossFor(damage, strengthMax int) int {
	if damage*4 > strengthMax {
		return 2
	}
	return 1
}

// ApplyDamage immediately applies damage to u, deriving the readiness loss
// from the 25%-of-max-strength rule. Destroyed units take nothing (no-op
// application with current pool values).
//
// Precondition: u must be non-nil; damage >= 0.
// Postcondition: NewStrength >= 0 and NewReadiness >= 0.
func ApplyDamage(u *unit.Unit, damage int) Application {
	if damage <= 0 || u.IsDestroyed() {
		return Application{NewStrength: u.Strength.Value, NewReadiness: u.Readiness.Value}
	}
	return ApplyDamageWith(u, damage, ReadinessLossFor(damage, u.Strength.Max))
}

// ApplyDamageWith immediately applies damage with an explicit readiness
// loss, used by the batched volley path where the loss is computed once per
// combined volley rather than per weapon.
//
// Precondition: u must be non-nil; damage >= 0; readinessLoss >= 0.
// Postcondition: NewStrength >= 0 and NewReadiness >= 0.
func ApplyDamageWith(u *unit.Unit, damage, readinessLoss int) Application {
	if u.IsDestroyed() {
		return Application{NewStrength: u.Strength.Value, NewReadiness: u.Readiness.Value}
	}
	u.Strength.Damage(damage)
	lost := u.Readiness.Damage(readinessLoss)
	u.Round.DamageTaken += damage

	app := Application{
		NewStrength:   u.Strength.Value,
		NewReadiness:  u.Readiness.Value,
		ReadinessLost: lost,
	}
	app.Destroyed = u.Strength.IsEmpty()
	app.Routed = !app.Destroyed && u.Readiness.IsEmpty()
	return app
}

// QueueDamage defers damage into u's pending accumulator for batch
// application at consolidation. Used whenever a session round is active so
// all attacks in a phase resolve against a consistent pre-phase state.
//
// Precondition: u must be non-nil; damage >= 0; readinessLoss >= 0.
// Postcondition: The accumulator grows by exactly the given amounts;
// u's pools are untouched.
func QueueDamage(u *unit.Unit, damage, readinessLoss int, hits ...unit.HitRecord) {
	if u.IsDestroyed() {
		return
	}
	u.Round.Pending.Add(damage, readinessLoss, hits...)
}

// DrainPending applies u's accumulated pending damage and clears the
// accumulator.
//
// Postcondition: u.Round.Pending is empty.
func DrainPending(u *unit.Unit) Application {
	p := u.Round.Pending
	u.Round.Pending = unit.PendingDamage{}
	if p.IsEmpty() {
		return Application{NewStrength: u.Strength.Value, NewReadiness: u.Readiness.Value}
	}
	return ApplyDamageWith(u, p.Strength, p.ReadinessLoss)
}

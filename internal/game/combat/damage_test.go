package combat_test

import (
	"testing"

	"github.com/Zycke/star-mercs/internal/game/combat"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/trait"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

func sumDeltas(d combat.Damage) int {
	total := d.Base
	for _, m := range d.Modifiers {
		total += m.Delta
	}
	return total
}

// TestCalculateDamage_Tiers: critical +1, partial -1, plain unchanged.
func TestCalculateDamage_Tiers(t *testing.T) {
	attacker := makeUnit("a", rules.Trained, 10)
	target := makeUnit("t", rules.Trained, 10)
	w := &unit.Weapon{ID: "w", AttackType: unit.AttackHard, Damage: 3}

	if d := combat.CalculateDamage(w, attacker, target, combat.Hit); d.Final != 3 {
		t.Errorf("plain hit: %d, want 3", d.Final)
	}
	if d := combat.CalculateDamage(w, attacker, target, combat.CriticalHit); d.Final != 4 {
		t.Errorf("critical: %d, want 4", d.Final)
	}
	if d := combat.CalculateDamage(w, attacker, target, combat.Partial); d.Final != 2 {
		t.Errorf("partial: %d, want 2", d.Final)
	}
}

// TestCalculateDamage_AttackerPenalties: casualties and low readiness drag
// damage down.
func TestCalculateDamage_AttackerPenalties(t *testing.T) {
	attacker := makeUnit("a", rules.Trained, 10)
	attacker.Strength.Value = 5 // casualty penalty 2
	target := makeUnit("t", rules.Trained, 10)
	w := &unit.Weapon{ID: "w", AttackType: unit.AttackHard, Damage: 5}

	d := combat.CalculateDamage(w, attacker, target, combat.Hit)
	if d.Final != 3 {
		t.Fatalf("casualty penalty: %d, want 3", d.Final)
	}

	attacker.Readiness.Value = 3 // 3/8 <= 40%: damage -1 (and accuracy, unused here)
	d = combat.CalculateDamage(w, attacker, target, combat.Hit)
	if d.Final != 2 {
		t.Fatalf("casualty + readiness: %d, want 2", d.Final)
	}
}

// TestCalculateDamage_AssaultBonuses: +1 against the declared assault
// target, +1 against an assaulting target.
func TestCalculateDamage_AssaultBonuses(t *testing.T) {
	attacker := makeUnit("a", rules.Trained, 10)
	target := makeUnit("t", rules.Trained, 10)
	w := &unit.Weapon{ID: "w", AttackType: unit.AttackHard, Damage: 3}

	attacker.CurrentOrder = rules.OrderAssault
	attacker.Round.AssaultTargetID = target.ID
	if d := combat.CalculateDamage(w, attacker, target, combat.Hit); d.Final != 4 {
		t.Errorf("assault given: %d, want 4", d.Final)
	}

	// Declared against someone else: no bonus.
	attacker.Round.AssaultTargetID = "other"
	if d := combat.CalculateDamage(w, attacker, target, combat.Hit); d.Final != 3 {
		t.Errorf("assault on other target: %d, want 3", d.Final)
	}
	attacker.CurrentOrder = ""
	attacker.Round.AssaultTargetID = ""

	target.CurrentOrder = rules.OrderAssault
	if d := combat.CalculateDamage(w, attacker, target, combat.Hit); d.Final != 4 {
		t.Errorf("target assaulting: %d, want 4", d.Final)
	}
}

// TestCalculateDamage_HalvingActsOnRunningTotal: the hard-vs-Infantry halve
// applies to the partially modified total, not the base.
func TestCalculateDamage_HalvingActsOnRunningTotal(t *testing.T) {
	attacker := makeUnit("a", rules.Trained, 10)
	infantry := makeUnit("t", rules.Trained, 10, active(trait.Infantry))
	w := &unit.Weapon{ID: "w", AttackType: unit.AttackHard, Damage: 5, Area: true}

	// critical +1 -> 6, area vs infantry +1 -> 7, halved -> 3.
	d := combat.CalculateDamage(w, attacker, infantry, combat.CriticalHit)
	if d.Final != 3 {
		t.Fatalf("halving: %d, want 3 (floor(7/2))", d.Final)
	}
	if got := sumDeltas(d); got != d.Final {
		t.Fatalf("audit trail sums to %d, final is %d", got, d.Final)
	}
}

// TestCalculateDamage_TargetProtection: armored, entrenched, and fortified
// stack, and damage floors at 1.
func TestCalculateDamage_TargetProtection(t *testing.T) {
	attacker := makeUnit("a", rules.Trained, 10)
	target := makeUnit("t", rules.Trained, 10,
		trait.Trait{ID: trait.Armored, Value: 2, Active: true},
		active(trait.Entrenched),
		active(trait.Fortified),
	)
	w := &unit.Weapon{ID: "w", AttackType: unit.AttackHard, Damage: 4}

	// 4 - 2 - 1 - 2 = -1, floored to 1.
	d := combat.CalculateDamage(w, attacker, target, combat.Hit)
	if d.Final != 1 {
		t.Fatalf("protection stack: %d, want 1", d.Final)
	}
	if got := sumDeltas(d); got != d.Final {
		t.Fatalf("audit trail sums to %d, final is %d", got, d.Final)
	}

	// Inactive armor contributes nothing: 4 - 1 - 2 = 1.
	if err := target.Traits.SetActive(trait.Armored, false); err != nil {
		t.Fatal(err)
	}
	d = combat.CalculateDamage(w, attacker, target, combat.Hit)
	for _, m := range d.Modifiers {
		if m.Label == "armored" {
			t.Fatal("inactive armored trait must not appear in the breakdown")
		}
	}
}

// TestCalculateDamage_DisorderedTarget: +1 damage against disordered units.
func TestCalculateDamage_DisorderedTarget(t *testing.T) {
	attacker := makeUnit("a", rules.Trained, 10)
	target := makeUnit("t", rules.Trained, 10)
	target.Round.Disordered = true
	w := &unit.Weapon{ID: "w", AttackType: unit.AttackHard, Damage: 3}

	if d := combat.CalculateDamage(w, attacker, target, combat.Hit); d.Final != 4 {
		t.Fatalf("disordered: %d, want 4", d.Final)
	}
}

// TestCalculateDamage_AreaVsInfantry: +1 only when both sides of the pairing
// hold.
func TestCalculateDamage_AreaVsInfantry(t *testing.T) {
	attacker := makeUnit("a", rules.Trained, 10)
	infantry := makeUnit("t", rules.Trained, 10, active(trait.Infantry))
	vehicle := makeUnit("v", rules.Trained, 10)

	area := &unit.Weapon{ID: "w", AttackType: unit.AttackSoft, Damage: 3, Area: true}
	if d := combat.CalculateDamage(area, attacker, infantry, combat.Hit); d.Final != 4 {
		t.Errorf("area vs infantry: %d, want 4", d.Final)
	}
	if d := combat.CalculateDamage(area, attacker, vehicle, combat.Hit); d.Final != 3 {
		t.Errorf("area vs vehicle: %d, want 3", d.Final)
	}
}

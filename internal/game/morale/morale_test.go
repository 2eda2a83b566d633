package morale_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/Zycke/star-mercs/internal/game/morale"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// fixedSrc is a deterministic Source: a d10 reads val+1.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// seqSrc returns canned draws in order, repeating the last one.
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(_ int) int {
	v := s.vals[s.i]
	if s.i < len(s.vals)-1 {
		s.i++
	}
	return v
}

func makeUnit(readiness int) *unit.Unit {
	u := unit.New("u", "red", rules.Experienced, 10) // readiness max 10
	u.Readiness.Value = readiness
	return u
}

// TestEvaluateRoll covers modifiers, pass boundary, and the natural-1
// auto-fail.
func TestEvaluateRoll(t *testing.T) {
	// Natural 1 fails regardless of how easy the check is.
	c := morale.EvaluateRoll(1, 0, false, 0)
	if c.Passed || !c.AutoFail || c.Total != 1 {
		t.Fatalf("natural 1: got %+v, want unconditional failure", c)
	}

	// total = die - damage - isolation; passes only when total > readiness.
	c = morale.EvaluateRoll(8, 2, true, 3) // 8-2-2 = 4 > 3
	if !c.Passed || c.Total != 4 {
		t.Fatalf("got %+v, want pass with total 4", c)
	}
	c = morale.EvaluateRoll(8, 2, true, 4) // 4 > 4 is false
	if c.Passed {
		t.Fatalf("total equal to readiness must fail, got %+v", c)
	}
	c = morale.EvaluateRoll(10, 0, false, 9) // 10 > 9
	if !c.Passed {
		t.Fatalf("got %+v, want pass", c)
	}
}

// TestEvaluateRoll_AutoFail_Property: a natural 1 fails for any modifier
// combination.
func TestEvaluateRoll_AutoFail_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dmg := rapid.IntRange(0, 10).Draw(rt, "damage")
		iso := rapid.Bool().Draw(rt, "isolated")
		ready := rapid.IntRange(0, 14).Draw(rt, "readiness")
		c := morale.EvaluateRoll(1, dmg, iso, ready)
		if c.Passed || !c.AutoFail {
			rt.Fatalf("natural 1 passed: %+v", c)
		}
	})
}

// TestRollCheck_CommandReroll: one re-roll on failure, better passed outcome
// wins; a second failure stands on the first roll.
func TestRollCheck_CommandReroll(t *testing.T) {
	u := makeUnit(5)

	// First die 3 (fail), re-roll die 9 (pass).
	c := morale.RollCheck(u, morale.Support{CommandReroll: true}, &seqSrc{vals: []int{2, 8}})
	if !c.Passed || !c.Rerolled || c.Die != 9 {
		t.Fatalf("got %+v, want re-rolled pass on die 9", c)
	}

	// Both fail: the first roll's result stands.
	c = morale.RollCheck(u, morale.Support{CommandReroll: true}, &seqSrc{vals: []int{2, 3}})
	if c.Passed || c.Rerolled || c.Die != 3 {
		t.Fatalf("got %+v, want the original failure", c)
	}

	// Pass on the first roll: no re-roll consumed.
	c = morale.RollCheck(u, morale.Support{CommandReroll: true}, &seqSrc{vals: []int{9, 0}})
	if !c.Passed || c.Rerolled {
		t.Fatalf("got %+v, want first-roll pass", c)
	}

	// No re-roll without Command support.
	c = morale.RollCheck(u, morale.Support{}, &seqSrc{vals: []int{2, 8}})
	if c.Passed {
		t.Fatalf("got %+v, want failure without re-roll", c)
	}
}

func noSupport(_ *unit.Unit) morale.Support { return morale.Support{} }

// TestConsolidation_RecoverWithoutDamage: a Breaking unit that took no
// damage recovers automatically, no roll.
func TestConsolidation_RecoverWithoutDamage(t *testing.T) {
	u := makeUnit(5)
	u.Morale = unit.MoraleBreaking

	events := morale.RunConsolidationChecks([]*unit.Unit{u}, noSupport, fixedSrc{val: 0})
	if u.Morale != unit.MoraleNormal {
		t.Fatalf("morale=%v, want normal", u.Morale)
	}
	if len(events) != 1 || events[0].Kind != morale.EventRecovered {
		t.Fatalf("events=%+v, want one recovery", events)
	}
	if events[0].Check.Die != 0 {
		t.Fatal("automatic recovery must not roll")
	}
}

// TestConsolidation_BreakingFailsSurrenders: a damaged Breaking unit that
// fails its roll surrenders and leaves play.
func TestConsolidation_BreakingFailsSurrenders(t *testing.T) {
	u := makeUnit(5)
	u.Morale = unit.MoraleBreaking
	u.Round.DamageTaken = 3

	// die 4 - 3 damage = 1, not > 5: fail.
	events := morale.RunConsolidationChecks([]*unit.Unit{u}, noSupport, fixedSrc{val: 3})
	if u.Morale != unit.MoraleSurrendered || !u.IsDestroyed() {
		t.Fatalf("morale=%v destroyed=%v, want surrendered and destroyed", u.Morale, u.IsDestroyed())
	}
	if len(events) != 1 || events[0].Kind != morale.EventSurrender {
		t.Fatalf("events=%+v, want one surrender", events)
	}
}

// TestConsolidation_BreakingPassesRecovers: a damaged Breaking unit that
// passes recovers.
func TestConsolidation_BreakingPassesRecovers(t *testing.T) {
	u := makeUnit(3)
	u.Morale = unit.MoraleBroken
	u.Round.DamageTaken = 1

	// die 9 - 1 = 8 > 3: pass.
	events := morale.RunConsolidationChecks([]*unit.Unit{u}, noSupport, fixedSrc{val: 8})
	if u.Morale != unit.MoraleNormal {
		t.Fatalf("morale=%v, want normal", u.Morale)
	}
	if len(events) != 1 || events[0].Kind != morale.EventRecovered {
		t.Fatalf("events=%+v, want one recovery", events)
	}
}

// TestConsolidation_NormalLowReadiness: readiness below 10 forces a check;
// failure goes to Breaking.
func TestConsolidation_NormalLowReadiness(t *testing.T) {
	u := makeUnit(8)

	// die 5 = 5, not > 8: fail.
	events := morale.RunConsolidationChecks([]*unit.Unit{u}, noSupport, fixedSrc{val: 4})
	if u.Morale != unit.MoraleBreaking {
		t.Fatalf("morale=%v, want breaking", u.Morale)
	}
	if len(events) != 1 || events[0].Kind != morale.EventBreaking {
		t.Fatalf("events=%+v, want one breaking", events)
	}
}

// TestConsolidation_NormalFullReadiness: readiness at 10+ skips the check
// entirely.
func TestConsolidation_NormalFullReadiness(t *testing.T) {
	u := makeUnit(10)
	events := morale.RunConsolidationChecks([]*unit.Unit{u}, noSupport, fixedSrc{val: 0})
	if u.Morale != unit.MoraleNormal || len(events) != 0 {
		t.Fatalf("morale=%v events=%d, want untouched", u.Morale, len(events))
	}
}

// TestConsolidation_SkipsAssaultAndDead: destroyed, surrendered, and
// assaulting units are not evaluated.
func TestConsolidation_SkipsAssaultAndDead(t *testing.T) {
	dead := makeUnit(2)
	dead.Strength.Value = 0
	assaulting := makeUnit(2)
	assaulting.CurrentOrder = rules.OrderAssault
	surrendered := makeUnit(2)
	surrendered.Surrender()

	events := morale.RunConsolidationChecks(
		[]*unit.Unit{dead, assaulting, surrendered}, noSupport, fixedSrc{val: 0})
	if len(events) != 0 {
		t.Fatalf("events=%+v, want none", events)
	}
	if assaulting.Morale != unit.MoraleNormal {
		t.Fatal("assaulting unit must be left to ResolveAssault")
	}
}

// TestResolveAssault covers all four cells of the outcome matrix.
func TestResolveAssault(t *testing.T) {
	// Both pass: stalemate.
	a, d := makeUnit(3), makeUnit(3)
	res := morale.ResolveAssault(a, d, true, fixedSrc{val: 8}) // die 9 > 3 both
	if len(res.Events) != 1 || res.Events[0].Kind != morale.EventStalemate {
		t.Fatalf("events=%+v, want stalemate", res.Events)
	}
	if a.Morale != unit.MoraleNormal || d.Morale != unit.MoraleNormal {
		t.Fatal("stalemate must not change state")
	}

	// Attacker fails, defender passes: attacker breaks, -2 readiness.
	a, d = makeUnit(5), makeUnit(3)
	res = morale.ResolveAssault(a, d, true, &seqSrc{vals: []int{3, 8}}) // 4 vs 9
	if a.Morale != unit.MoraleBreaking || a.Readiness.Value != 3 {
		t.Fatalf("attacker morale=%v readiness=%d, want breaking at 3", a.Morale, a.Readiness.Value)
	}
	if d.Morale != unit.MoraleNormal || d.Readiness.Value != 3 {
		t.Fatal("defender must be untouched")
	}

	// Attacker passes, defender fails with retreat room: defender broken,
	// -2 readiness.
	a, d = makeUnit(3), makeUnit(5)
	res = morale.ResolveAssault(a, d, true, &seqSrc{vals: []int{8, 3}}) // 9 vs 4
	if d.Morale != unit.MoraleBroken || d.Readiness.Value != 3 {
		t.Fatalf("defender morale=%v readiness=%d, want broken at 3", d.Morale, d.Readiness.Value)
	}
	if len(res.Events) != 1 || res.Events[0].Kind != morale.EventBroken {
		t.Fatalf("events=%+v, want broken", res.Events)
	}

	// Attacker passes, defender fails cornered: defender surrenders.
	a, d = makeUnit(3), makeUnit(5)
	res = morale.ResolveAssault(a, d, false, &seqSrc{vals: []int{8, 3}})
	if d.Morale != unit.MoraleSurrendered || !d.IsDestroyed() {
		t.Fatalf("cornered defender morale=%v, want surrendered", d.Morale)
	}
	if len(res.Events) != 1 || res.Events[0].Kind != morale.EventSurrender {
		t.Fatalf("events=%+v, want surrender", res.Events)
	}

	// Both fail: both break, both -2.
	a, d = makeUnit(9), makeUnit(9)
	res = morale.ResolveAssault(a, d, true, fixedSrc{val: 4}) // die 5, not > 9
	if a.Morale != unit.MoraleBreaking || d.Morale != unit.MoraleBreaking {
		t.Fatalf("morale %v/%v, want both breaking", a.Morale, d.Morale)
	}
	if a.Readiness.Value != 7 || d.Readiness.Value != 7 {
		t.Fatalf("readiness %d/%d, want both 7", a.Readiness.Value, d.Readiness.Value)
	}
	if len(res.Events) != 2 {
		t.Fatalf("events=%d, want 2", len(res.Events))
	}
}

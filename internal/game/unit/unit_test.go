package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Zycke/star-mercs/internal/game/hexgrid"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// TestPool_Clamping: Damage floors at 0, Restore caps at Max.
func TestPool_Clamping(t *testing.T) {
	p := unit.NewPool(10)
	assert.Equal(t, 4, p.Damage(4))
	assert.Equal(t, 6, p.Value)

	assert.Equal(t, 6, p.Damage(20), "only 6 left to remove")
	assert.Equal(t, 0, p.Value)

	assert.Equal(t, 10, p.Restore(15), "capped at max")
	assert.Equal(t, 10, p.Value)
}

// TestPool_Clamping_Property: pools never leave [0, Max] under any sequence
// of signed adjustments.
func TestPool_Clamping_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := unit.NewPool(rapid.IntRange(1, 30).Draw(rt, "max"))
		deltas := rapid.SliceOf(rapid.IntRange(-50, 50)).Draw(rt, "deltas")
		for _, d := range deltas {
			p.Adjust(d)
			assert.GreaterOrEqual(rt, p.Value, 0)
			assert.LessOrEqual(rt, p.Value, p.Max)
		}
	})
}

// TestSupply_Clamping: Consume floors at 0, Resupply caps at Capacity.
func TestSupply_Clamping(t *testing.T) {
	s := unit.SupplyState{Value: 5, Capacity: 8, Usage: 2}
	assert.Equal(t, 5, s.Consume(9))
	assert.True(t, s.IsExhausted())
	s.Resupply(20)
	assert.Equal(t, 8, s.Value)
}

// TestNew_ReadinessFromRating: readiness pool size comes from the rating table.
func TestNew_ReadinessFromRating(t *testing.T) {
	u := unit.New("1st Lancers", "red", rules.Veteran, 10)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, 12, u.Readiness.Max)
	assert.Equal(t, 12, u.Readiness.Value)
	assert.Equal(t, 10, u.Strength.Value)
	assert.False(t, u.IsDestroyed())
}

// TestCasualtyPenalty follows floor((1-ratio)*5).
func TestCasualtyPenalty(t *testing.T) {
	u := unit.New("u", "red", rules.Trained, 10)
	cases := []struct {
		strength int
		want     int
	}{
		{10, 0}, {9, 0}, {8, 1}, {6, 2}, {5, 2}, {4, 3}, {2, 4}, {1, 4},
	}
	for _, tc := range cases {
		u.Strength.Value = tc.strength
		assert.Equal(t, tc.want, u.CasualtyPenalty(), "strength %d", tc.strength)
	}
}

// TestReadinessPenalty covers both thresholds.
func TestReadinessPenalty(t *testing.T) {
	u := unit.New("u", "red", rules.Experienced, 10) // readiness max 10

	u.Readiness.Value = 10
	assert.Equal(t, unit.ReadinessPenalty{}, u.ReadinessPenalty())

	u.Readiness.Value = 7 // ratio 0.70: at the accuracy threshold
	assert.Equal(t, unit.ReadinessPenalty{Accuracy: 1}, u.ReadinessPenalty())

	u.Readiness.Value = 4 // ratio 0.40: both penalties
	assert.Equal(t, unit.ReadinessPenalty{Accuracy: 1, Damage: -1}, u.ReadinessPenalty())

	u.Readiness.Value = 0
	assert.Equal(t, unit.ReadinessPenalty{Accuracy: 1, Damage: -1}, u.ReadinessPenalty())
}

// TestSurrender_Terminal: surrender zeroes strength and destroys the unit.
func TestSurrender_Terminal(t *testing.T) {
	u := unit.New("u", "red", rules.Green, 8)
	u.Surrender()
	assert.Equal(t, unit.MoraleSurrendered, u.Morale)
	assert.True(t, u.IsDestroyed())
	assert.Equal(t, 0, u.Strength.Value)

	u.Surrender() // idempotent
	assert.Equal(t, unit.MoraleSurrendered, u.Morale)
}

// TestMoraleState_Impaired: only Breaking and Broken restrict orders.
func TestMoraleState_Impaired(t *testing.T) {
	assert.False(t, unit.MoraleNormal.Impaired())
	assert.True(t, unit.MoraleBreaking.Impaired())
	assert.True(t, unit.MoraleBroken.Impaired())
	assert.False(t, unit.MoraleSurrendered.Impaired())
}

// TestWeaponLookup covers WeaponByID and TargetedWeapons.
func TestWeaponLookup(t *testing.T) {
	u := unit.New("u", "red", rules.Trained, 10)
	u.Weapons = []*unit.Weapon{
		{ID: "w1", Name: "Autocannon", AttackType: unit.AttackHard, Damage: 3, Range: 6},
		{ID: "w2", Name: "MG", AttackType: unit.AttackSoft, Damage: 2, Range: 4, TargetID: "t1"},
	}

	w, err := u.WeaponByID("w2")
	require.NoError(t, err)
	assert.Equal(t, "MG", w.Name)

	_, err = u.WeaponByID("w9")
	assert.Error(t, err)

	targeted := u.TargetedWeapons()
	require.Len(t, targeted, 1)
	assert.Equal(t, "w2", targeted[0].ID)
}

// TestParseAttackType round-trips the wire names.
func TestParseAttackType(t *testing.T) {
	for _, at := range []unit.AttackType{unit.AttackSoft, unit.AttackHard, unit.AttackAntiAir} {
		parsed, err := unit.ParseAttackType(at.String())
		require.NoError(t, err)
		assert.Equal(t, at, parsed)
	}
	_, err := unit.ParseAttackType("psychic")
	assert.Error(t, err)
}

// TestResetRound clears every round-scoped flag and the current order.
func TestResetRound(t *testing.T) {
	u := unit.New("u", "red", rules.Trained, 10)
	dest := hexgrid.Coord{Col: 2, Row: 3}
	u.CurrentOrder = rules.OrderAssault
	u.Round.MovementUsed = true
	u.Round.MoveDestination = &dest
	u.Round.WeaponsFired = 2
	u.Round.Disordered = true
	u.Round.AssaultTargetID = "enemy"
	u.Round.DamageTaken = 3
	u.Round.Pending.Add(4, 2, unit.HitRecord{AttackerID: "a", Damage: 4})

	u.ResetRound()

	assert.Equal(t, unit.RoundState{}, u.Round)
	assert.Empty(t, u.CurrentOrder)
	assert.True(t, u.Round.Pending.IsEmpty())
}

package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/Zycke/star-mercs/internal/game/dice"
)

// seqSrc returns canned values in order, repeating the last one.
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

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(10) is in [0, 10).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

// TestRollD10_Range verifies RollD10 stays in [1,10] for the crypto source.
func TestRollD10_Range(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := dice.RollD10(src)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 10)
	}
}

// TestRollD10_Offset verifies the die value is the source draw plus one.
func TestRollD10_Offset(t *testing.T) {
	src := &seqSrc{vals: []int{0, 9, 4}}
	assert.Equal(t, 1, dice.RollD10(src))
	assert.Equal(t, 10, dice.RollD10(src))
	assert.Equal(t, 5, dice.RollD10(src))
}

// TestRollD10KeepWorse verifies the lower of the two draws is kept.
func TestRollD10KeepWorse(t *testing.T) {
	src := &seqSrc{vals: []int{7, 2}}
	assert.Equal(t, 3, dice.RollD10KeepWorse(src), "second draw is worse")

	src = &seqSrc{vals: []int{1, 9}}
	assert.Equal(t, 2, dice.RollD10KeepWorse(src), "first draw is worse")
}

// TestRollD10KeepWorse_Property: the result never exceeds either individual draw.
func TestRollD10KeepWorse_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(0, 9).Draw(rt, "a")
		b := rapid.IntRange(0, 9).Draw(rt, "b")
		src := &seqSrc{vals: []int{a, b}}
		v := dice.RollD10KeepWorse(src)
		assert.LessOrEqual(rt, v, a+1)
		assert.LessOrEqual(rt, v, b+1)
		assert.GreaterOrEqual(rt, v, 1)
	})
}

// TestRoller_RollD10 verifies the logged roller passes through the source value.
func TestRoller_RollD10(t *testing.T) {
	src := &seqSrc{vals: []int{6}}
	roller := dice.NewLoggedRoller(src, zaptest.NewLogger(t))
	assert.Equal(t, 7, roller.RollD10("attack"))
}

package combat

import (
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/unit"
)

// CriticalMargin is the opposed-check difference at which a win becomes
// critical.
const CriticalMargin = 10

// CheckResult is one d10 skill check: the die and the rating-modified total.
type CheckResult struct {
	Roll  int
	Total int
}

// SkillCheck rolls a d10 + the unit's rating skill bonus. A unit with
// exhausted supply rolls twice and keeps the worse die.
//
// Precondition: u and src must be non-nil; u.Rating must be valid.
func SkillCheck(u *unit.Unit, src dice.Source) CheckResult {
	var die int
	if u.Supply.IsExhausted() {
		die = dice.RollD10KeepWorse(src)
	} else {
		die = dice.RollD10(src)
	}
	return CheckResult{Roll: die, Total: die + u.Rating.Stats().SkillBonus}
}

// OpposedResult is the outcome of an opposed skill contest.
type OpposedResult struct {
	// WinnerID is the winning unit's ID, or empty on a tie.
	WinnerID string
	// IsCritical is true when the totals differ by CriticalMargin or more.
	IsCritical bool
	// Difference is the absolute gap between the totals.
	Difference int
	A, B       CheckResult
}

// OpposedCheck rolls a skill check for each side and compares totals. Ties
// have no winner and are never critical.
//
// Precondition: a, b, and src must be non-nil.
func OpposedCheck(a, b *unit.Unit, src dice.Source) OpposedResult {
	ra := SkillCheck(a, src)
	rb := SkillCheck(b, src)

	res := OpposedResult{A: ra, B: rb}
	switch {
	case ra.Total > rb.Total:
		res.WinnerID = a.ID
		res.Difference = ra.Total - rb.Total
	case rb.Total > ra.Total:
		res.WinnerID = b.ID
		res.Difference = rb.Total - ra.Total
	}
	res.IsCritical = res.Difference >= CriticalMargin
	return res
}

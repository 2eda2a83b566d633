package dice

// Sides is the number of faces on the game die. Star Mercs resolves every
// attack, skill check, and morale test on a single d10.
const Sides = 10

// RollD10 rolls one ten-sided die using src.
//
// Precondition: src must be non-nil.
// Postcondition: Returns an int in [1, 10].
func RollD10(src Source) int {
	return src.Intn(Sides) + 1
}

// RollD10KeepWorse rolls two d10 and returns the lower result. Used for
// degraded checks (a unit at zero supply rolls twice and keeps the worse).
//
// Precondition: src must be non-nil.
// Postcondition: Returns an int in [1, 10].
func RollD10KeepWorse(src Source) int {
	a := RollD10(src)
	b := RollD10(src)
	if b < a {
		return b
	}
	return a
}

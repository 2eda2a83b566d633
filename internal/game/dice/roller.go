package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with the die value and a reason tag,
// giving a full audit trail of every random decision in a combat.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// RollD10 rolls one d10 and logs the result at debug level.
// reason tags the roll in the log ("attack", "morale", "skill", ...).
//
// Postcondition: Returns an int in [1, 10]; the roll is logged.
func (r *Roller) RollD10(reason string) int {
	die := RollD10(r.src)
	r.logger.Debug("dice roll",
		zap.String("reason", reason),
		zap.Int("die", die),
	)
	return die
}

// Intn satisfies Source, so a Roller can stand in anywhere a Source is
// expected while still logging nothing for raw draws.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

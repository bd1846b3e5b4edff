package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged d6 rolls.
// Every roll is logged at debug level with the face rolled and a running count,
// which makes a seeded duel auditable roll by roll.
type Roller struct {
	src    Source
	logger *zap.Logger
	rolls  int
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// D6 rolls one die and logs the face.
//
// Postcondition: Returns a value in [1, 6]; Rolls() is incremented by one.
func (r *Roller) D6() int {
	face := RollD6(r.src)
	r.rolls++
	r.logger.Debug("dice roll",
		zap.Int("sides", D6Sides),
		zap.Int("face", face),
		zap.Int("seq", r.rolls),
	)
	return face
}

// Rolls returns how many dice this Roller has produced.
func (r *Roller) Rolls() int { return r.rolls }

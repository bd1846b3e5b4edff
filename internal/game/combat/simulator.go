package combat

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Summary tallies many independent duels between the same two combatants.
type Summary struct {
	AName      string
	BName      string
	Iterations int
	WinsA      int
	WinsB      int
	Draws      int
	// KillingBlows counts duels decided by an unsaved killing blow.
	KillingBlows int
	// MeanRounds is the average number of rounds fought per duel.
	MeanRounds float64
}

// WinRateA returns the fraction of duels won by A.
func (s Summary) WinRateA() float64 { return ratio(s.WinsA, s.Iterations) }

// WinRateB returns the fraction of duels won by B.
func (s Summary) WinRateB() float64 { return ratio(s.WinsB, s.Iterations) }

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Simulator runs repeated duels from the same starting combatants.
type Simulator struct {
	weapons WeaponLookup
	dice    Dice
	logger  *zap.Logger
}

// NewSimulator returns a Simulator drawing every duel from one dice stream.
//
// Precondition: weapons and d must not be nil. A nil logger disables logging.
func NewSimulator(weapons WeaponLookup, d Dice, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{weapons: weapons, dice: d, logger: logger}
}

// Run plays iterations duels of at most rounds rounds each. Every duel starts from
// fresh copies of a and b, which are never modified.
//
// Postcondition: WinsA+WinsB+Draws == Iterations.
func (s *Simulator) Run(a, b *Combatant, rounds, iterations int) Summary {
	sum := Summary{AName: a.Name, BName: b.Name}
	duelLogger := s.logger
	if s.logger.Core().Enabled(zapcore.InfoLevel) {
		duelLogger = s.logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}
	totalRounds := 0
	for i := 0; i < iterations; i++ {
		res := NewSession(a.Fresh(), b.Fresh(), s.weapons, s.dice, duelLogger).Run(rounds)
		sum.Iterations++
		totalRounds += res.RoundsFought
		switch {
		case res.Draw:
			sum.Draws++
		case res.WinnerID == a.ID:
			sum.WinsA++
		default:
			sum.WinsB++
		}
		if res.KillingBlow {
			sum.KillingBlows++
		}
	}
	sum.MeanRounds = ratio(totalRounds, sum.Iterations)
	s.logger.Info("simulation finished",
		zap.String("a", sum.AName),
		zap.String("b", sum.BName),
		zap.Int("iterations", sum.Iterations),
		zap.Int("wins_a", sum.WinsA),
		zap.Int("wins_b", sum.WinsB),
		zap.Int("draws", sum.Draws),
	)
	return sum
}

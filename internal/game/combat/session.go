package combat

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result is the final state of a duel.
type Result struct {
	SessionID string
	// WinnerID is "" on a draw.
	WinnerID   string
	WinnerName string
	Draw       bool
	// Defeat is true when the duel ended because a combatant ran out of wounds.
	Defeat bool
	// KillingBlow is true when the defeat came from an unsaved killing blow.
	KillingBlow  bool
	RoundsFought int
	Rounds       []RoundReport
	// RemainingWounds maps combatant ID to wounds left at the end.
	RemainingWounds map[string]int
}

// Session drives a duel between two combatants for a bounded number of rounds.
type Session struct {
	ID      string
	A       *Combatant
	B       *Combatant
	weapons WeaponLookup
	dice    Dice
	logger  *zap.Logger
}

// NewSession creates a session between a and b.
//
// Precondition: a, b, weapons and d must not be nil. A nil logger disables logging.
// Postcondition: the session has a fresh ID; a and b are not modified.
func NewSession(a, b *Combatant, weapons WeaponLookup, d Dice, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		ID:      id,
		A:       a,
		B:       b,
		weapons: weapons,
		dice:    d,
		logger:  logger.With(zap.String("session", id)),
	}
}

// Run plays up to rounds rounds. The duel ends as soon as an applied attack leaves
// a combatant without wounds. If both fall in the same simultaneous exchange the
// duel is drawn. If the budget runs out, the combatant with strictly more wounds
// remaining wins and equal wounds is a draw.
//
// Postcondition: both combatants have their weapon stats reset.
func (s *Session) Run(rounds int) Result {
	res := Result{SessionID: s.ID}
	s.logger.Info("duel started",
		zap.String("a", s.A.Name),
		zap.String("b", s.B.Name),
		zap.Int("rounds", rounds),
	)

	for n := 1; n <= rounds; n++ {
		firstRound := n == 1
		s.applyWeapon(s.A, firstRound)
		s.applyWeapon(s.B, firstRound)

		report := ResolveRound(n, s.A, s.B, s.dice)
		s.A.ResetWeaponStats()
		s.B.ResetWeaponStats()

		res.Rounds = append(res.Rounds, report)
		res.RoundsFought = n
		s.logRound(report)

		if s.A.IsDefeated() || s.B.IsDefeated() {
			res.Defeat = true
			for _, o := range report.Outcomes {
				if o.Slain {
					res.KillingBlow = true
				}
			}
			break
		}
	}

	s.decide(&res)
	return res
}

func (s *Session) applyWeapon(c *Combatant, firstRound bool) {
	if err := c.ApplyWeaponStats(s.weapons, firstRound); err != nil {
		s.logger.Warn("weapon lookup failed", zap.String("combatant", c.Name), zap.Error(err))
	}
}

func (s *Session) decide(res *Result) {
	a, b := s.A, s.B
	res.RemainingWounds = map[string]int{a.ID: a.CurrentWounds, b.ID: b.CurrentWounds}
	var winner *Combatant
	switch {
	case a.IsDefeated() && b.IsDefeated():
	case b.IsDefeated():
		winner = a
	case a.IsDefeated():
		winner = b
	case a.CurrentWounds > b.CurrentWounds:
		winner = a
	case b.CurrentWounds > a.CurrentWounds:
		winner = b
	}
	if winner == nil {
		res.Draw = true
		s.logger.Info("duel drawn", zap.Int("rounds_fought", res.RoundsFought))
		return
	}
	res.WinnerID = winner.ID
	res.WinnerName = winner.Name
	s.logger.Info("duel won",
		zap.String("winner", winner.Name),
		zap.Int("rounds_fought", res.RoundsFought),
		zap.Bool("killing_blow", res.KillingBlow),
	)
}

func (s *Session) logRound(r RoundReport) {
	s.logger.Debug("round resolved",
		zap.Int("round", r.Number),
		zap.Stringer("order", r.Order),
	)
	for _, o := range r.Outcomes {
		s.logger.Debug("attack resolved",
			zap.Int("round", r.Number),
			zap.String("attacker", o.AttackerName),
			zap.String("defender", o.DefenderName),
			zap.Int("attacks", o.Attacks),
			zap.Int("hits", o.Hits),
			zap.Int("wounds", o.Wounds),
			zap.Int("killing_blows", o.KillingBlows),
			zap.Int("armor_saves", o.ArmorSaves),
			zap.Int("ward_saves", o.WardSaves),
			zap.Int("regen_saves", o.RegenSaves),
			zap.Bool("slain", o.Slain),
			zap.Int("final_wounds", o.FinalWounds),
		)
	}
}

package combat

import "github.com/cory-johannsen/skirmish/internal/game/rules"

// StrikeOrder is the resolved order of blows within one round.
type StrikeOrder int

const (
	// Simultaneous means both attacks are computed before either is applied.
	Simultaneous StrikeOrder = iota
	// FirstStrikesFirst means the first combatant passed to DetermineStrikeOrder attacks first.
	FirstStrikesFirst
	// SecondStrikesFirst means the second combatant attacks first.
	SecondStrikesFirst
)

// String returns a human-readable label.
func (o StrikeOrder) String() string {
	switch o {
	case Simultaneous:
		return "simultaneous"
	case FirstStrikesFirst:
		return "first"
	case SecondStrikesFirst:
		return "second"
	default:
		return "unknown"
	}
}

// DetermineStrikeOrder decides who strikes first between a and b, in precedence:
// both Strike First or both Strike Last compare Initiative; otherwise a lone Strike
// First goes first; otherwise a lone Strike Last goes second; otherwise Initiative
// decides. Carrying both Strike First and Strike Last counts as neither. Equal
// Initiative is Simultaneous.
//
// Precondition: weapon stats are applied to both combatants for this round.
func DetermineStrikeOrder(a, b *Combatant) StrikeOrder {
	aFirst, aLast := strikeRules(a)
	bFirst, bLast := strikeRules(b)
	switch {
	case aFirst && bFirst, aLast && bLast:
		return byInitiative(a, b)
	case aFirst != bFirst:
		if aFirst {
			return FirstStrikesFirst
		}
		return SecondStrikesFirst
	case aLast != bLast:
		if aLast {
			return SecondStrikesFirst
		}
		return FirstStrikesFirst
	default:
		return byInitiative(a, b)
	}
}

func strikeRules(c *Combatant) (first, last bool) {
	active := c.ActiveRules()
	f, l := active.Has(rules.StrikeFirst), active.Has(rules.StrikeLast)
	return f && !l, l && !f
}

func byInitiative(a, b *Combatant) StrikeOrder {
	switch {
	case a.Initiative > b.Initiative:
		return FirstStrikesFirst
	case b.Initiative > a.Initiative:
		return SecondStrikesFirst
	default:
		return Simultaneous
	}
}

// ApplyElvenInitiative grants an elf +1 Initiative for the first round, capped at MaxInitiative.
func ApplyElvenInitiative(c *Combatant) {
	if IsElf(c.Race) && c.Initiative < MaxInitiative {
		c.Initiative++
	}
}

// RoundReport records one round of a duel.
type RoundReport struct {
	Number int
	Order  StrikeOrder
	// Outcomes lists attacks in the order they were resolved.
	Outcomes []AttackOutcome
}

// ResolveRound plays one round between a and b and applies the results.
//
// In the first round elves gain Initiative before the order is decided. Sequential
// rounds stop as soon as the first attack defeats its target. Simultaneous rounds
// compute both attacks before applying either.
//
// Precondition: weapon stats are applied to both combatants for this round.
// Postcondition: wounds are applied to the combatants in place.
func ResolveRound(number int, a, b *Combatant, d Dice) RoundReport {
	firstRound := number == 1
	if firstRound {
		ApplyElvenInitiative(a)
		ApplyElvenInitiative(b)
	}
	report := RoundReport{Number: number, Order: DetermineStrikeOrder(a, b)}

	if report.Order == Simultaneous {
		toB := ResolveAttack(a, b, firstRound, d)
		toA := ResolveAttack(b, a, firstRound, d)
		b.ApplyOutcome(toB)
		a.ApplyOutcome(toA)
		report.Outcomes = append(report.Outcomes, toB, toA)
		return report
	}

	first, second := a, b
	if report.Order == SecondStrikesFirst {
		first, second = b, a
	}
	o := ResolveAttack(first, second, firstRound, d)
	second.ApplyOutcome(o)
	report.Outcomes = append(report.Outcomes, o)
	if second.IsDefeated() {
		return report
	}
	o = ResolveAttack(second, first, firstRound, d)
	first.ApplyOutcome(o)
	report.Outcomes = append(report.Outcomes, o)
	return report
}

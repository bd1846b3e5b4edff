package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func printProfiles(w io.Writer, profiles []*character.Profile) {
	for _, p := range profiles {
		fmt.Fprintf(w, "%s / %s (%s): weapons [%s], armor [%s]\n",
			p.Faction, p.Name, p.Race,
			strings.Join(p.Options.Weapons, ", "), strings.Join(p.Options.Armor, ", "))
	}
}

func printResult(w io.Writer, a, b *combat.Combatant, res combat.Result) {
	fmt.Fprintf(w, "%s (%s) vs %s (%s)\n", a.Name, a.Weapon, b.Name, b.Weapon)
	for _, r := range res.Rounds {
		fmt.Fprintf(w, "Round %d, strike order: %s\n", r.Number, orderLabel(r.Order, a, b))
		for _, o := range r.Outcomes {
			fmt.Fprintf(w, "  %s -> %s: %d attacks, %d hits, %d wounds, saves %d armor / %d ward / %d regen",
				o.AttackerName, o.DefenderName, o.Attacks, o.Hits, o.Wounds, o.ArmorSaves, o.WardSaves, o.RegenSaves)
			if o.KillingBlows > 0 {
				fmt.Fprintf(w, ", %d killing blows (%d saved)", o.KillingBlows, o.KillingBlowsNeutralized)
			}
			if o.Slain {
				fmt.Fprintf(w, ", SLAIN\n")
				continue
			}
			fmt.Fprintf(w, ", %d unsaved\n", o.FinalWounds)
		}
	}
	switch {
	case res.Draw:
		fmt.Fprintf(w, "Draw after %d rounds\n", res.RoundsFought)
	case res.KillingBlow:
		fmt.Fprintf(w, "%s wins by killing blow in round %d\n", res.WinnerName, res.RoundsFought)
	default:
		fmt.Fprintf(w, "%s wins after %d rounds\n", res.WinnerName, res.RoundsFought)
	}
	fmt.Fprintf(w, "Wounds left: %s %d, %s %d\n", a.Name, res.RemainingWounds[a.ID], b.Name, res.RemainingWounds[b.ID])
}

func orderLabel(o combat.StrikeOrder, a, b *combat.Combatant) string {
	switch o {
	case combat.FirstStrikesFirst:
		return a.Name + " first"
	case combat.SecondStrikesFirst:
		return b.Name + " first"
	default:
		return "simultaneous"
	}
}

func printSummary(w io.Writer, s combat.Summary) {
	fmt.Fprintf(w, "%d duels: %s %d (%.1f%%), %s %d (%.1f%%), draws %d\n",
		s.Iterations, s.AName, s.WinsA, 100*s.WinRateA(), s.BName, s.WinsB, 100*s.WinRateB(), s.Draws)
	fmt.Fprintf(w, "Killing blow finishes: %d, mean rounds: %.2f\n", s.KillingBlows, s.MeanRounds)
}

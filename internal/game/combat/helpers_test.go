package combat_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// scriptedDice returns faces in order and panics when a test consumes more than it scripted.
type scriptedDice struct {
	faces []int
	next  int
}

func script(faces ...int) *scriptedDice { return &scriptedDice{faces: faces} }

func (s *scriptedDice) D6() int {
	if s.next >= len(s.faces) {
		panic(fmt.Sprintf("scripted dice exhausted after %d rolls", len(s.faces)))
	}
	f := s.faces[s.next]
	s.next++
	return f
}

func (s *scriptedDice) used() int { return s.next }

// constDice always shows the same face.
type constDice int

func (d constDice) D6() int { return int(d) }

func intPtr(n int) *int { return &n }

func catalog(t testing.TB) *inventory.Registry {
	t.Helper()
	reg := inventory.NewRegistry()
	defs := []*inventory.WeaponDef{
		{ID: inventory.HandWeaponID, Name: "Hand Weapon", Aliases: []string{"HW"}},
		{ID: "great_weapon", Name: "Great Weapon", StrengthBonus: intPtr(2), ArmorPiercing: -2,
			Rules: rules.NewSet(rules.Flag(rules.StrikeLast), rules.Bane(1), rules.Flag(rules.RequiresTwoHands))},
		{ID: "lance", Name: "Lance", StrengthBonus: intPtr(2), ArmorPiercing: 2,
			Rules: rules.NewSet(rules.Flag(rules.FirstRoundOnly), rules.Bane(1))},
		{ID: "flail", Name: "Flail", StrengthBonus: intPtr(2), ArmorPiercing: -2,
			Rules: rules.NewSet(rules.Flag(rules.FirstRoundStrength))},
		{ID: "two_hand_weapons", Name: "Two Hand Weapons",
			Rules: rules.NewSet(rules.Attacks(1), rules.Flag(rules.RequiresTwoHands))},
		{ID: "whip", Name: "Whip", Rules: rules.NewSet(rules.Flag(rules.StrikeFirst))},
		{ID: "runeblade", Name: "Runeblade", StrengthBonus: intPtr(1), Rules: rules.NewSet(rules.Flag(rules.Magic))},
		{ID: "torch", Name: "Torch", Rules: rules.NewSet(rules.Flag(rules.FlamingAttacks))},
	}
	for _, d := range defs {
		require.NoError(t, reg.RegisterWeapon(d))
	}
	return reg
}

// fighter builds a human armed with a hand weapon and no armor.
func fighter(name string, ws, s, t, i, w, a int, rs ...rules.Rule) *combat.Combatant {
	c := combat.NewCombatant(name, "Human", combat.Stats{
		WeaponSkill: ws, Strength: s, Toughness: t, Initiative: i, Wounds: w, Attacks: a,
	}, inventory.HandWeaponID)
	c.Rules = rules.NewSet(rs...)
	return c
}

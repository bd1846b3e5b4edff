package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// WS6 against WS6 needs 4+; faces 6, 3, 5 score two hits.
func TestRollToHit_EqualSkillScoresOnFourPlus(t *testing.T) {
	att := fighter("Att", 6, 4, 3, 5, 2, 3)
	def := fighter("Def", 6, 4, 3, 5, 2, 1)
	d := script(6, 3, 5)
	assert.Equal(t, 4, combat.ToHitTarget(6, 6))
	assert.Equal(t, 2, combat.RollToHit(att, def, true, d))
	assert.Equal(t, 3, d.used())
}

func TestRollToHit_RerollHits1(t *testing.T) {
	def := fighter("Def", 4, 4, 3, 5, 2, 1)

	plain := fighter("Plain", 4, 4, 3, 5, 2, 1)
	assert.Equal(t, 0, combat.RollToHit(plain, def, false, script(1)))

	lucky := fighter("Lucky", 4, 4, 3, 5, 2, 1, rules.Flag(rules.RerollHits1))
	d := script(1, 4)
	assert.Equal(t, 1, combat.RollToHit(lucky, def, false, d))
	assert.Equal(t, 2, d.used())

	// The reroll is not itself rerolled.
	assert.Equal(t, 0, combat.RollToHit(lucky, def, false, script(1, 1)))
}

func TestRollToHit_IthilmarOnlyWithHandWeapon(t *testing.T) {
	reg := catalog(t)
	def := fighter("Def", 4, 4, 3, 5, 2, 1)

	elf := fighter("Elf", 4, 4, 3, 5, 2, 1, rules.Flag(rules.IthilmarWeapons))
	require.NoError(t, elf.ApplyWeaponStats(reg, true))
	assert.Equal(t, 1, combat.RollToHit(elf, def, true, script(1, 4)))

	elf.Weapon = "great_weapon"
	require.NoError(t, elf.ApplyWeaponStats(reg, true))
	assert.Equal(t, 0, combat.RollToHit(elf, def, true, script(1)))
}

func TestRollToHit_HatredFirstRoundOnly(t *testing.T) {
	att := fighter("Att", 4, 4, 3, 5, 2, 1, rules.HatredOf("orc"))
	orc := fighter("Grukk", 4, 4, 3, 5, 2, 1)
	orc.Race = "Orcs"

	d := script(2, 5)
	assert.Equal(t, 1, combat.RollToHit(att, orc, true, d))
	assert.Equal(t, 2, d.used())

	assert.Equal(t, 0, combat.RollToHit(att, orc, false, script(2)))

	elf := fighter("Malus", 4, 4, 3, 5, 2, 1)
	elf.Race = "Dark Elf"
	assert.Equal(t, 0, combat.RollToHit(att, elf, true, script(2)))
}

func TestRollToHit_HatredRerollIsSubjectToOnesReroll(t *testing.T) {
	att := fighter("Att", 4, 4, 3, 5, 2, 1, rules.HatredOf(rules.HatredAll), rules.Flag(rules.RerollHits1))
	def := fighter("Def", 4, 4, 3, 5, 2, 1)
	d := script(2, 1, 4)
	assert.Equal(t, 1, combat.RollToHit(att, def, true, d))
	assert.Equal(t, 3, d.used())
}

func TestRollToHit_ExtraAttacksAndFrenzy(t *testing.T) {
	reg := catalog(t)
	att := fighter("Att", 4, 4, 3, 5, 2, 2, rules.Flag(rules.Frenzy))
	att.Weapon = "two_hand_weapons"
	require.NoError(t, att.ApplyWeaponStats(reg, true))
	assert.Equal(t, 4, att.EffectiveAttacks())
	def := fighter("Def", 4, 4, 3, 5, 2, 1)
	d := script(6, 6, 6, 6)
	assert.Equal(t, 4, combat.RollToHit(att, def, true, d))
}

// S4 against T8 cannot wound and rolls no dice.
func TestRollToWound_TooWeakRollsNothing(t *testing.T) {
	att := fighter("Att", 4, 4, 3, 5, 2, 1, rules.KillingBlowOn(6))
	def := fighter("Def", 4, 4, 8, 5, 2, 1)
	rapid.Check(t, func(rt *rapid.T) {
		hits := rapid.IntRange(0, 20).Draw(rt, "hits")
		wr := combat.RollToWound(att, def, hits, script())
		assert.Equal(rt, 0, wr.Wounds)
		assert.Empty(rt, wr.Faces)
		assert.Equal(rt, 0, wr.KillingBlows)
	})
}

func TestRollToWound_EtherealNeedsMagic(t *testing.T) {
	reg := catalog(t)
	ghost := fighter("Ghost", 4, 4, 3, 5, 2, 1, rules.Flag(rules.Ethereal))
	att := fighter("Att", 4, 4, 3, 5, 2, 1)

	wr := combat.RollToWound(att, ghost, 3, script())
	assert.Equal(t, combat.WoundRoll{}, wr)

	att.Weapon = "runeblade"
	require.NoError(t, att.ApplyWeaponStats(reg, true))
	// Runeblade raises S4 to S5: wounds T3 on a 2.
	wr = combat.RollToWound(att, ghost, 2, script(3, 1))
	assert.Equal(t, 1, wr.Wounds)
	assert.Equal(t, []int{3}, wr.Faces)
}

func TestRollToWound_KillingBlowDivertsFromWounds(t *testing.T) {
	att := fighter("Att", 4, 4, 3, 5, 2, 1, rules.KillingBlowOn(6))
	def := fighter("Def", 4, 4, 3, 5, 2, 1)
	wr := combat.RollToWound(att, def, 3, script(6, 5, 2))
	assert.Equal(t, 1, wr.KillingBlows)
	assert.Equal(t, 6, wr.KillingBlowThreshold)
	assert.Equal(t, 1, wr.Wounds)
	assert.Equal(t, []int{5}, wr.Faces)

	lower := fighter("Lower", 4, 4, 3, 5, 2, 1, rules.KillingBlowOn(5))
	wr = combat.RollToWound(lower, def, 1, script(5))
	assert.Equal(t, 1, wr.KillingBlows)
	assert.Equal(t, 0, wr.Wounds)
}

func TestRollToWound_KillingBlowOnlyOnItsFace(t *testing.T) {
	def := fighter("Def", 4, 4, 3, 5, 2, 1)

	five := fighter("Five", 4, 4, 3, 5, 2, 1, rules.KillingBlowOn(5))
	wr := combat.RollToWound(five, def, 2, script(5, 6))
	assert.Equal(t, 1, wr.KillingBlows)
	assert.Equal(t, 5, wr.KillingBlowThreshold)
	assert.Equal(t, 1, wr.Wounds)
	assert.Equal(t, []int{6}, wr.Faces, "a 6 is an ordinary wound under KB(5)")

	both := fighter("Both", 4, 4, 3, 5, 2, 1, rules.KillingBlowOn(5), rules.KillingBlowOn(6))
	wr = combat.RollToWound(both, def, 3, script(5, 6, 4))
	assert.Equal(t, 2, wr.KillingBlows)
	assert.Equal(t, []int{4}, wr.Faces)
}

func TestRollArmorSave_NoArmorRollsNothing(t *testing.T) {
	att := fighter("Att", 4, 4, 3, 5, 2, 1)
	def := fighter("Def", 4, 4, 3, 5, 2, 1)
	assert.Equal(t, 0, combat.RollArmorSave(att, def, 3, []int{3, 4, 5}, script()))
}

func TestRollArmorSave_UnsaveableWoundSkipsRoll(t *testing.T) {
	att := fighter("Att", 4, 4, 3, 5, 2, 1, rules.Bane(1))
	att.ArmourPiercing = -2
	def := fighter("Def", 4, 4, 3, 5, 2, 1)
	def.ArmorSave = 5
	def.Shield = true

	// 5 - 1 shield + 2 AP = 6 on a 3; a 6 adds Armour Bane for 7: no roll.
	d := script(6)
	assert.Equal(t, 1, combat.RollArmorSave(att, def, 2, []int{3, 6}, d))
	assert.Equal(t, 1, d.used())
}

func TestArmorSaveTarget_Property_NeverBelowTwo(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		att := fighter("Att", 4, 4, 3, 5, 2, 1, rules.Bane(rapid.IntRange(1, 3).Draw(rt, "bane")))
		att.ArmourPiercing = rapid.IntRange(-3, 3).Draw(rt, "ap")
		def := fighter("Def", 4, 4, 3, 5, 2, 1)
		def.ArmorSave = rapid.IntRange(2, 6).Draw(rt, "save")
		def.Shield = rapid.Bool().Draw(rt, "shield")
		def.Rules = rules.NewSet(rules.Hardening(rapid.IntRange(1, 4).Draw(rt, "ah")))
		if rapid.Bool().Draw(rt, "improve") {
			def.Rules = def.Rules.With(rules.Flag(rules.ImproveArmor1InCombat))
		}
		face := rapid.IntRange(1, 6).Draw(rt, "face")
		target, _ := combat.ArmorSaveTarget(att, def, face)
		assert.GreaterOrEqual(rt, target, 2)
	})
}

func TestArmorSaveTarget_Property_ArmourBaneRaisesTargetOnSix(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		att := fighter("Att", 4, 4, 3, 5, 2, 1, rules.Bane(rapid.IntRange(1, 3).Draw(rt, "bane")))
		att.ArmourPiercing = rapid.IntRange(-3, 0).Draw(rt, "ap")
		def := fighter("Def", 4, 4, 3, 5, 2, 1)
		def.ArmorSave = rapid.IntRange(3, 6).Draw(rt, "save")
		other := rapid.IntRange(1, 5).Draw(rt, "face")

		plain, _ := combat.ArmorSaveTarget(att, def, other)
		banned, _ := combat.ArmorSaveTarget(att, def, 6)
		assert.Greater(rt, banned, plain)
	})
}

func TestArmorSaveTarget_HardeningStacks(t *testing.T) {
	att := fighter("Att", 4, 4, 3, 5, 2, 1)
	def := fighter("Def", 4, 4, 3, 5, 2, 1, rules.Hardening(1), rules.Flag(rules.ImproveArmor1InCombat))
	def.ArmorSave = 6
	def.Shield = true
	target, ok := combat.ArmorSaveTarget(att, def, 4)
	assert.True(t, ok)
	assert.Equal(t, 3, target)
}

func TestArmorSaveTarget_BaneFromCharacterAndWeaponAddsUp(t *testing.T) {
	reg := catalog(t)
	att := fighter("Att", 4, 4, 3, 5, 2, 1, rules.Bane(1))
	att.Weapon = "great_weapon"
	require.NoError(t, att.ApplyWeaponStats(reg, false))
	assert.Equal(t, 2, att.ActiveRules().Sum(rules.ArmorBane))

	def := fighter("Def", 4, 4, 3, 5, 2, 1)
	def.ArmorSave = 3

	// 3 + 2 AP = 5; a 6 adds AB1 twice for 7: no save.
	target, ok := combat.ArmorSaveTarget(att, def, 5)
	assert.True(t, ok)
	assert.Equal(t, 5, target)
	target, ok = combat.ArmorSaveTarget(att, def, 6)
	assert.False(t, ok)
	assert.Equal(t, 7, target)
}

func TestArmorSaveTarget_HardeningFromTwoSourcesAddsUp(t *testing.T) {
	att := fighter("Att", 4, 4, 3, 5, 2, 1)
	def := fighter("Def", 4, 4, 3, 5, 2, 1, rules.Hardening(1))
	def.Rules = def.Rules.Union(rules.NewSet(rules.Hardening(1)))
	def.ArmorSave = 5
	assert.Equal(t, 2, def.Rules.Sum(rules.ArmorHardening))
	target, ok := combat.ArmorSaveTarget(att, def, 4)
	assert.True(t, ok)
	assert.Equal(t, 3, target)
}

// A warded killing blow is neutralized and never enters the wound pipeline.
func TestResolveAttack_KillingBlowWarded(t *testing.T) {
	att := fighter("Att", 5, 4, 3, 5, 2, 1, rules.KillingBlowOn(6))
	def := fighter("Def", 5, 4, 3, 5, 2, 1, rules.WardSave(6))
	d := script(6, 6, 6)
	o := combat.ResolveAttack(att, def, true, d)
	assert.Equal(t, 3, d.used())
	assert.Equal(t, 1, o.KillingBlows)
	assert.Equal(t, 1, o.KillingBlowsNeutralized)
	assert.False(t, o.Slain)
	assert.Equal(t, 0, o.Wounds)
	assert.Equal(t, 0, o.WardSaves)
	assert.Equal(t, 0, o.FinalWounds)
}

func TestResolveAttack_KillingBlowRegenerated(t *testing.T) {
	att := fighter("Att", 5, 4, 3, 5, 2, 1, rules.KillingBlowOn(6))
	def := fighter("Def", 5, 4, 3, 5, 2, 1, rules.WardSave(6), rules.Regeneration(4))
	o := combat.ResolveAttack(att, def, true, script(6, 6, 3, 4))
	assert.Equal(t, 1, o.KillingBlowsNeutralized)
	assert.False(t, o.Slain)
}

func TestResolveAttack_UnsavedKillingBlowSlays(t *testing.T) {
	att := fighter("Att", 5, 4, 3, 5, 2, 2, rules.KillingBlowOn(6))
	def := fighter("Def", 5, 4, 3, 5, 3, 1, rules.WardSave(6))
	// Hits 6, 6; wounds 6 (killing blow), 4; ward on the killing blow fails.
	o := combat.ResolveAttack(att, def, true, script(6, 6, 6, 4, 2))
	assert.True(t, o.Slain)
	def.ApplyOutcome(o)
	assert.Equal(t, 0, def.CurrentWounds)
	assert.True(t, def.IsDefeated())
}

func TestResolveAttack_WardThenRegen(t *testing.T) {
	att := fighter("Att", 5, 4, 3, 5, 2, 2)
	def := fighter("Def", 5, 4, 3, 5, 3, 1, rules.WardSave(5), rules.Regeneration(4))
	// hits 6,6; wounds 4,4; ward 5,1; regen on the survivor 2.
	d := script(6, 6, 4, 4, 5, 1, 2)
	o := combat.ResolveAttack(att, def, true, d)
	assert.Equal(t, 7, d.used())
	assert.Equal(t, 2, o.Wounds)
	assert.Equal(t, 1, o.WardSaves)
	assert.Equal(t, 0, o.RegenSaves)
	assert.Equal(t, 1, o.FinalWounds)
	assert.Equal(t, 3, def.CurrentWounds, "ResolveAttack must not apply the outcome")
}

func TestResolveAttack_FlamingBlocksRegenOnFlammable(t *testing.T) {
	reg := catalog(t)
	att := fighter("Att", 5, 4, 3, 5, 2, 1)
	att.Weapon = "torch"
	require.NoError(t, att.ApplyWeaponStats(reg, true))
	def := fighter("Troll", 5, 4, 3, 5, 3, 1, rules.Regeneration(4), rules.Flag(rules.Flammable))

	d := script(6, 6)
	o := combat.ResolveAttack(att, def, true, d)
	assert.True(t, o.Flaming)
	assert.Equal(t, 2, d.used())
	assert.Equal(t, 1, o.FinalWounds)

	_, ok := combat.RegenTarget(def, false)
	assert.True(t, ok)
}

func TestWardTarget_FlamingWardOnlyAgainstFlames(t *testing.T) {
	def := fighter("Priest", 5, 4, 3, 5, 3, 1, rules.FlamingWardSave(5), rules.WardSave(6))
	w, ok := combat.WardTarget(def, false)
	assert.True(t, ok)
	assert.Equal(t, 6, w)
	w, ok = combat.WardTarget(def, true)
	assert.True(t, ok)
	assert.Equal(t, 5, w)

	only := fighter("Acolyte", 5, 4, 3, 5, 3, 1, rules.FlamingWardSave(5))
	_, ok = combat.WardTarget(only, false)
	assert.False(t, ok)
}

func TestApplyOutcome_FloorsAtZero(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(1, 10).Draw(rt, "wounds")
		c := fighter("X", 4, 4, 3, 5, w, 1)
		c.ApplyOutcome(combat.AttackOutcome{FinalWounds: rapid.IntRange(0, 20).Draw(rt, "final")})
		assert.GreaterOrEqual(rt, c.CurrentWounds, 0)
	})
}

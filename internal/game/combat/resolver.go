package combat

import "github.com/cory-johannsen/skirmish/internal/game/rules"

// Dice yields one d6 face per call.
// *dice.Roller satisfies it; tests substitute scripted faces.
type Dice interface {
	D6() int
}

// WoundRoll is the result of rolling to wound.
type WoundRoll struct {
	// Wounds counts successful wound rolls that go through armor saves.
	Wounds int
	// Faces holds the die face of each entry in Wounds, in roll order.
	Faces []int
	// KillingBlows counts successful wound rolls diverted into killing blows.
	KillingBlows int
	// KillingBlowThreshold is the lowest face that triggers a killing blow; 0 without the rule.
	KillingBlowThreshold int
}

// AttackOutcome records one attacker's full attack against one defender.
// It is computed by ResolveAttack and applied by Combatant.ApplyOutcome.
type AttackOutcome struct {
	AttackerID   string
	AttackerName string
	DefenderID   string
	DefenderName string

	Attacks int
	Hits    int
	Wounds  int
	Faces   []int

	KillingBlows            int
	KillingBlowThreshold    int
	KillingBlowsNeutralized int

	Flaming bool
	Magical bool

	ArmorSaves int
	WardSaves  int
	RegenSaves int

	// Slain is true when an unsaved killing blow ends the defender outright.
	Slain bool
	// FinalWounds is the number of wounds the defender loses; ignored when Slain.
	FinalWounds int
}

// RollToHit rolls every attack and returns the number of hits.
//
// A natural 1 is rerolled once when the attacker has Reroll Hits 1, or has
// Ithilmar Weapons and fights with the hand weapon. In the first round a Hatred
// rule matching the defender rerolls each failed roll once more; that reroll is
// itself subject to the 1s reroll.
//
// Precondition: weapon stats are applied to attacker for this round.
// Postcondition: 0 <= result <= attacker.EffectiveAttacks().
func RollToHit(attacker, defender *Combatant, firstRound bool, d Dice) int {
	target := ToHitTarget(attacker.Base.WeaponSkill, defender.Base.WeaponSkill)
	active := attacker.ActiveRules()
	rerollOnes := active.Has(rules.RerollHits1) ||
		(active.Has(rules.IthilmarWeapons) && attacker.WieldingHandWeapon())
	hatred := firstRound && active.HatredMatches(defender.Race, defender.Name)

	roll := func() int {
		face := d.D6()
		if face == 1 && rerollOnes {
			face = d.D6()
		}
		return face
	}

	hits := 0
	for i := 0; i < attacker.EffectiveAttacks(); i++ {
		face := roll()
		if face < target && hatred {
			face = roll()
		}
		if face >= target {
			hits++
		}
	}
	return hits
}

// RollToWound rolls one die per hit against the Strength/Toughness chart.
//
// An Ethereal defender cannot be wounded by a non-magical attack, and a chart
// cell with no value cannot be wounded at all; both return a zero WoundRoll
// without consuming dice. With Killing Blow, each success showing exactly a
// Killing Blow face (6 unless the rule names another) becomes a killing blow
// instead of an ordinary wound.
//
// Postcondition: Wounds == len(Faces); Wounds+KillingBlows <= hits.
func RollToWound(attacker, defender *Combatant, hits int, d Dice) WoundRoll {
	active := attacker.ActiveRules()
	if defender.ActiveRules().Has(rules.Ethereal) && !active.Has(rules.Magic) {
		return WoundRoll{}
	}
	target, ok := ToWoundTarget(attacker.Strength, defender.Base.Toughness)
	if !ok {
		return WoundRoll{}
	}

	var wr WoundRoll
	if kb, has := active.Lowest(rules.KillingBlow); has {
		wr.KillingBlowThreshold = kb
	}
	for i := 0; i < hits; i++ {
		face := d.D6()
		if face < target {
			continue
		}
		if killingBlowFace(active, face) {
			wr.KillingBlows++
			continue
		}
		wr.Wounds++
		wr.Faces = append(wr.Faces, face)
	}
	return wr
}

// BaseArmorSave returns the defender's armor save target before armor piercing:
// the armor value, less one for a shield, less each Armour Hardening point, less
// one for Improve Armor 1 in Combat.
//
// Postcondition: ok is false iff the defender wears no armor.
func BaseArmorSave(defender *Combatant) (target int, ok bool) {
	if defender.ArmorSave == 0 {
		return 0, false
	}
	active := defender.ActiveRules()
	target = defender.ArmorSave
	if defender.Shield {
		target--
	}
	target -= active.Sum(rules.ArmorHardening)
	if active.Has(rules.ImproveArmor1InCombat) {
		target--
	}
	return target, true
}

// ArmorSaveTarget returns the save target against one wound whose to-wound roll
// showed face. Armor piercing counts by magnitude; Armour Bane adds to it on a 6.
// The target never drops below 2.
//
// Postcondition: ok is false iff no save is possible (no armor or target above 6).
func ArmorSaveTarget(attacker, defender *Combatant, face int) (target int, ok bool) {
	base, has := BaseArmorSave(defender)
	if !has {
		return 0, false
	}
	target = base + abs(attacker.ArmourPiercing)
	if face == 6 {
		target += attacker.ActiveRules().Sum(rules.ArmorBane)
	}
	if target < 2 {
		target = 2
	}
	return target, target <= 6
}

// RollArmorSave rolls one armor save per wound and returns how many were saved.
// Wounds without a possible save consume no dice. A missing face counts as 0.
//
// Postcondition: 0 <= result <= wounds.
func RollArmorSave(attacker, defender *Combatant, wounds int, faces []int, d Dice) int {
	saved := 0
	for i := 0; i < wounds; i++ {
		face := 0
		if i < len(faces) {
			face = faces[i]
		}
		target, ok := ArmorSaveTarget(attacker, defender, face)
		if !ok {
			continue
		}
		if d.D6() >= target {
			saved++
		}
	}
	return saved
}

// WardTarget returns the defender's best ward save. Flaming-only wards count only
// against flaming attacks.
func WardTarget(defender *Combatant, flaming bool) (target int, ok bool) {
	active := defender.ActiveRules()
	target, ok = active.Lowest(rules.Ward)
	if !flaming {
		return target, ok
	}
	if fw, has := active.Lowest(rules.FlamingWard); has && (!ok || fw < target) {
		return fw, true
	}
	return target, ok
}

// RegenTarget returns the defender's best regeneration save. A Flammable defender
// cannot regenerate flaming wounds.
func RegenTarget(defender *Combatant, flaming bool) (target int, ok bool) {
	active := defender.ActiveRules()
	if flaming && active.Has(rules.Flammable) {
		return 0, false
	}
	return active.Lowest(rules.Regen)
}

// ResolveAttack runs attacker's full attack against defender and returns the
// outcome without applying it.
//
// Dice are consumed in a fixed order: hits with their rerolls, wounds, armor
// saves, killing blow ward then regeneration, ward saves, regeneration saves.
//
// Precondition: weapon stats are applied to both combatants for this round.
// Postcondition: neither combatant is modified.
func ResolveAttack(attacker, defender *Combatant, firstRound bool, d Dice) AttackOutcome {
	active := attacker.ActiveRules()
	o := AttackOutcome{
		AttackerID:   attacker.ID,
		AttackerName: attacker.Name,
		DefenderID:   defender.ID,
		DefenderName: defender.Name,
		Attacks:      attacker.EffectiveAttacks(),
		Flaming:      active.Has(rules.FlamingAttacks),
		Magical:      active.Has(rules.Magic),
	}

	o.Hits = RollToHit(attacker, defender, firstRound, d)
	wr := RollToWound(attacker, defender, o.Hits, d)
	o.Wounds = wr.Wounds
	o.Faces = wr.Faces
	o.KillingBlows = wr.KillingBlows
	o.KillingBlowThreshold = wr.KillingBlowThreshold

	o.ArmorSaves = RollArmorSave(attacker, defender, wr.Wounds, wr.Faces, d)

	ward, hasWard := WardTarget(defender, o.Flaming)
	regen, hasRegen := RegenTarget(defender, o.Flaming)

	for i := 0; i < wr.KillingBlows; i++ {
		if hasWard && d.D6() >= ward {
			o.KillingBlowsNeutralized++
			continue
		}
		if hasRegen && d.D6() >= regen {
			o.KillingBlowsNeutralized++
			continue
		}
		o.Slain = true
		return o
	}

	remaining := wr.Wounds - o.ArmorSaves
	if hasWard {
		o.WardSaves = saveEach(remaining, ward, d)
		remaining -= o.WardSaves
	}
	if hasRegen {
		o.RegenSaves = saveEach(remaining, regen, d)
		remaining -= o.RegenSaves
	}
	o.FinalWounds = remaining
	return o
}

// killingBlowFace reports whether any Killing Blow rule names face.
func killingBlowFace(active rules.Set, face int) bool {
	for _, r := range active.Of(rules.KillingBlow) {
		if r.Value == face {
			return true
		}
	}
	return false
}

// saveEach rolls n saves against target and returns the successes.
func saveEach(n, target int, d Dice) int {
	saved := 0
	for i := 0; i < n; i++ {
		if d.D6() >= target {
			saved++
		}
	}
	return saved
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

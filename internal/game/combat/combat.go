// Package combat implements melee duel resolution: the per-attack dice pipeline,
// the per-round strike order, and the multi-round combat session.
package combat

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Stats is a combatant's profile line.
type Stats struct {
	Movement       int `yaml:"movement"`
	WeaponSkill    int `yaml:"weapon_skill"`
	BallisticSkill int `yaml:"ballistic_skill"`
	Strength       int `yaml:"strength"`
	Toughness      int `yaml:"toughness"`
	Initiative     int `yaml:"initiative"`
	Wounds         int `yaml:"wounds"`
	Attacks        int `yaml:"attacks"`
	Leadership     int `yaml:"leadership"`
}

// Combatant represents one participant in a duel.
//
// Base and the equipment fields are the baseline and never change during a
// session. Strength, ArmourPiercing, Initiative and CurrentWeapon are transient:
// they are rebuilt from the baseline by ApplyWeaponStats every round and restored
// by ResetWeaponStats.
type Combatant struct {
	ID   string
	Name string
	Race string
	Base Stats

	// Weapon is the catalog ID of the chosen weapon.
	Weapon string
	// Armor is the catalog ID of the worn armor, or "" for none.
	Armor string
	// ArmorSave is the armor's save target before modifiers; 0 means no armor.
	ArmorSave int
	Shield    bool
	// Rules holds character-level rules only; weapon rules are never copied here.
	Rules rules.Set

	Strength       int
	ArmourPiercing int
	Initiative     int
	CurrentWeapon  string

	CurrentWounds int

	equipped *inventory.WeaponDef
}

// NewCombatant returns a combatant at full wounds carrying weapon, with a fresh ID.
//
// Postcondition: transient stats equal the baseline; CurrentWounds == base.Wounds.
func NewCombatant(name, race string, base Stats, weapon string) *Combatant {
	c := &Combatant{
		ID:     uuid.NewString(),
		Name:   name,
		Race:   race,
		Base:   base,
		Weapon: weapon,
	}
	c.ResetWeaponStats()
	c.CurrentWounds = base.Wounds
	return c
}

// Fresh returns a copy of c at full wounds with transient stats reset. The copy
// keeps c's ID and shares no mutable state with it.
func (c *Combatant) Fresh() *Combatant {
	cp := *c
	cp.Rules = append(rules.Set(nil), c.Rules...)
	cp.ResetWeaponStats()
	cp.CurrentWounds = c.Base.Wounds
	return &cp
}

// IsDefeated reports whether the combatant has no wounds left.
func (c *Combatant) IsDefeated() bool { return c.CurrentWounds <= 0 }

// ApplyOutcome subtracts the unsaved wounds of o from the combatant.
// An unsaved killing blow reduces the combatant to 0 outright.
//
// Postcondition: CurrentWounds >= 0.
func (c *Combatant) ApplyOutcome(o AttackOutcome) {
	if o.Slain {
		c.CurrentWounds = 0
		return
	}
	c.CurrentWounds -= o.FinalWounds
	if c.CurrentWounds < 0 {
		c.CurrentWounds = 0
	}
}

// IsElf reports whether race names a High Elf or Dark Elf race or one of their synonyms.
func IsElf(race string) bool {
	switch inventory.LookupKey(race) {
	case "highelf", "highelves", "asur", "darkelf", "darkelves", "druchii":
		return true
	}
	return false
}

package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// Initiative values forced by Strike First and Strike Last.
const (
	StrikeFirstInitiative = 10
	StrikeLastInitiative  = 1
	MaxInitiative         = 10
)

// WeaponLookup resolves a weapon name to its catalog entry.
// *inventory.Registry satisfies it.
type WeaponLookup interface {
	Weapon(name string) (*inventory.WeaponDef, error)
}

// ResetWeaponStats restores the transient stats and the carried weapon to the baseline.
//
// Postcondition: Strength, Initiative and CurrentWeapon equal their baseline values
// and ArmourPiercing is 0.
func (c *Combatant) ResetWeaponStats() {
	c.Strength = c.Base.Strength
	c.ArmourPiercing = 0
	c.Initiative = c.Base.Initiative
	c.CurrentWeapon = c.Weapon
	c.equipped = nil
}

// ApplyWeaponStats rebuilds the transient stats for a round from the baseline and
// the equipped weapon.
//
// A First Round Only weapon outside round one is swapped for the hand weapon, which
// is then applied once; the swap is not repeated. A weapon the catalog does not know
// grants no bonus and the returned error says so; the combatant is still usable.
//
// Precondition: weapons must not be nil.
// Postcondition: calling it twice with the same firstRound yields identical transient stats.
func (c *Combatant) ApplyWeaponStats(weapons WeaponLookup, firstRound bool) error {
	c.ResetWeaponStats()

	def, err := weapons.Weapon(c.CurrentWeapon)
	if err == nil && !firstRound && def.Has(rules.FirstRoundOnly) {
		c.CurrentWeapon = inventory.HandWeaponID
		def, err = weapons.Weapon(c.CurrentWeapon)
	}

	var lookupErr error
	if err != nil {
		lookupErr = fmt.Errorf("combatant %q: weapon %q grants no bonus: %w", c.Name, c.CurrentWeapon, err)
	} else {
		c.equipped = def
		c.CurrentWeapon = def.ID
		c.Strength += def.Bonus()
		c.ArmourPiercing += def.ArmorPiercing
		if firstRound && def.Has(rules.FirstRoundStrength) {
			c.Strength += def.Bonus()
		}
	}

	active := c.ActiveRules()
	first, last := active.Has(rules.StrikeFirst), active.Has(rules.StrikeLast)
	switch {
	case first && !last:
		c.Initiative = StrikeFirstInitiative
	case last && !first:
		c.Initiative = StrikeLastInitiative
	}
	return lookupErr
}

// EquippedWeapon returns the weapon applied this round, or nil outside a round or
// when the weapon is unknown.
func (c *Combatant) EquippedWeapon() *inventory.WeaponDef { return c.equipped }

// WieldingHandWeapon reports whether the combatant fights with the basic hand weapon this round.
func (c *Combatant) WieldingHandWeapon() bool {
	return c.CurrentWeapon == inventory.HandWeaponID
}

// ActiveRules returns the character rules merged with the equipped weapon's rules.
// Stacking rules present on both add up. Neither source is modified.
func (c *Combatant) ActiveRules() rules.Set {
	if c.equipped == nil {
		return c.Rules
	}
	return c.Rules.Union(c.equipped.Rules)
}

// EffectiveAttacks returns the number of attacks made this round: the profile
// value, plus every extra-attack rule, plus one for Frenzy.
func (c *Combatant) EffectiveAttacks() int {
	active := c.ActiveRules()
	n := c.Base.Attacks + active.Sum(rules.ExtraAttacks)
	if active.Has(rules.Frenzy) {
		n++
	}
	return n
}

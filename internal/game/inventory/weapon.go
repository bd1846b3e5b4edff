// Package inventory provides the weapon and armor catalogs consulted when a
// combatant is built and when its weapon is applied each round.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// HandWeaponID is the catalog ID of the basic hand weapon. Weapons that only work
// in the first round fall back to it afterwards.
const HandWeaponID = "hand_weapon"

// WeaponDef defines the static properties of a melee weapon loaded from YAML.
//
// Invariant: immutable after LoadWeapons returns.
type WeaponDef struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	// StrengthBonus is nil when the weapon grants no strength bonus.
	StrengthBonus *int `yaml:"strength_bonus"`
	// ArmorPiercing is signed in the catalog; only its magnitude affects saves.
	ArmorPiercing int      `yaml:"armor_piercing"`
	RuleNames     []string `yaml:"rules"`

	// Rules holds RuleNames parsed at load time.
	Rules rules.Set `yaml:"-"`
}

// Bonus returns the strength bonus, or 0 when the weapon grants none.
func (w *WeaponDef) Bonus() int {
	if w.StrengthBonus == nil {
		return 0
	}
	return *w.StrengthBonus
}

// Has reports whether the weapon carries a rule of kind k.
func (w *WeaponDef) Has(k rules.Kind) bool {
	return w.Rules.Has(k)
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if w.StrengthBonus != nil && *w.StrengthBonus < 0 {
		errs = append(errs, errors.New("StrengthBonus must be >= 0"))
	}
	if w.ArmorPiercing < -6 || w.ArmorPiercing > 6 {
		errs = append(errs, errors.New("ArmorPiercing must be within -6..6"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// ParseRules parses RuleNames into Rules. Malformed rule strings are dropped and
// returned as warnings.
//
// Postcondition: w.Rules holds every well-formed rule from RuleNames.
func (w *WeaponDef) ParseRules() []error {
	set, warnings := rules.ParseSet(w.RuleNames)
	w.Rules = set
	for i, err := range warnings {
		warnings[i] = fmt.Errorf("weapon %q: %w", w.ID, err)
	}
	return warnings
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, parses its rules, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error;
// warnings lists every rule string that was dropped.
func LoadWeapons(dir string) (weapons []*WeaponDef, warnings []error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		var w WeaponDef
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		warnings = append(warnings, w.ParseRules()...)
		weapons = append(weapons, &w)
	}
	return weapons, warnings, nil
}

// Package character builds duel-ready combatants from faction profiles, elven
// honors and per-request overrides.
package character

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// NoArmor requests that a combatant wear no armor, overriding the profile default.
const NoArmor = "none"

// Options lists the equipment a profile may choose from.
type Options struct {
	Weapons []string `yaml:"weapons"`
	Armor   []string `yaml:"armor"`
	Shield  bool     `yaml:"shield"`
	Items   []string `yaml:"items"`
}

// AllowsWeapon reports whether name matches one of the weapon options.
func (o Options) AllowsWeapon(name string) bool { return containsName(o.Weapons, name) }

// AllowsArmor reports whether name matches one of the armor options.
func (o Options) AllowsArmor(name string) bool { return containsName(o.Armor, name) }

// Profile is a named faction preset loaded from YAML.
//
// Invariant: immutable after LoadProfiles returns.
type Profile struct {
	Faction string       `yaml:"faction"`
	Name    string       `yaml:"name"`
	Aliases []string     `yaml:"aliases"`
	Race    string       `yaml:"race"`
	Stats   combat.Stats `yaml:"stats"`
	Weapon  string       `yaml:"weapon"`
	// Armor is the default armor, or "" for none.
	Armor     string   `yaml:"armor"`
	Shield    bool     `yaml:"shield"`
	RuleNames []string `yaml:"rules"`
	Options   Options  `yaml:"options"`

	Rules rules.Set `yaml:"-"`
}

// Validate checks that the Profile satisfies its invariants.
//
// Precondition: p is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (p *Profile) Validate() error {
	var errs []error
	if p.Faction == "" {
		errs = append(errs, errors.New("faction must not be empty"))
	}
	if p.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if p.Race == "" {
		errs = append(errs, errors.New("race must not be empty"))
	}
	if p.Weapon == "" {
		errs = append(errs, errors.New("weapon must not be empty"))
	}
	if err := validateStats(p.Stats); err != nil {
		errs = append(errs, err)
	}
	if p.Weapon != "" && !p.Options.AllowsWeapon(p.Weapon) {
		errs = append(errs, fmt.Errorf("default weapon %q is not among the weapon options", p.Weapon))
	}
	if p.Armor != "" && !p.Options.AllowsArmor(p.Armor) {
		errs = append(errs, fmt.Errorf("default armor %q is not among the armor options", p.Armor))
	}
	if p.Shield && !p.Options.Shield {
		errs = append(errs, errors.New("default shield is not allowed by the options"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("profile validation failed: %v", errs)
	}
	return nil
}

// Honor is an elven honor: stat modifiers, extra rules and extra equipment options
// available to High Elf characters.
type Honor struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Aliases   []string       `yaml:"aliases"`
	StatMods  map[string]int `yaml:"stat_mods"`
	RuleNames []string       `yaml:"rules"`
	Weapons   []string       `yaml:"weapons"`
	Armor     []string       `yaml:"armor"`

	Rules rules.Set `yaml:"-"`
}

// Validate checks that the Honor satisfies its invariants.
func (h *Honor) Validate() error {
	var errs []error
	if h.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if h.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	for _, stat := range sortedKeys(h.StatMods) {
		if !isStat(stat) {
			errs = append(errs, fmt.Errorf("unknown stat %q", stat))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("honor validation failed: %v", errs)
	}
	return nil
}

// LoadProfiles reads all .yaml files in dir and parses each as a Profile.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed profiles (may be empty slice) or a non-nil error;
// warnings lists every rule string that was dropped.
func LoadProfiles(dir string) (profiles []*Profile, warnings []error, err error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	profiles = make([]*Profile, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var p Profile
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, nil, fmt.Errorf("parsing profile file %s: %w", path, err)
		}
		if err := p.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid profile in %s: %w", path, err)
		}
		set, ws := rules.ParseSet(p.RuleNames)
		p.Rules = set
		for _, w := range ws {
			warnings = append(warnings, fmt.Errorf("profile %q: %w", p.Name, w))
		}
		profiles = append(profiles, &p)
	}
	return profiles, warnings, nil
}

// LoadHonors reads all .yaml files in dir and parses each as an Honor.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed honors (may be empty slice) or a non-nil error;
// warnings lists every rule string that was dropped.
func LoadHonors(dir string) (honors []*Honor, warnings []error, err error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	honors = make([]*Honor, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var h Honor
		if err := yaml.Unmarshal(data, &h); err != nil {
			return nil, nil, fmt.Errorf("parsing honor file %s: %w", path, err)
		}
		if err := h.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid honor in %s: %w", path, err)
		}
		set, ws := rules.ParseSet(h.RuleNames)
		h.Rules = set
		for _, w := range ws {
			warnings = append(warnings, fmt.Errorf("honor %q: %w", h.ID, w))
		}
		honors = append(honors, &h)
	}
	return honors, warnings, nil
}

// IsHighElf reports whether race names the High Elves or one of their synonyms.
func IsHighElf(race string) bool {
	switch inventory.LookupKey(race) {
	case "highelf", "highelves", "asur":
		return true
	}
	return false
}

// statFields maps the YAML stat names onto the fields of a stat line.
var statFields = map[string]func(*combat.Stats) *int{
	"movement":        func(s *combat.Stats) *int { return &s.Movement },
	"weapon_skill":    func(s *combat.Stats) *int { return &s.WeaponSkill },
	"ballistic_skill": func(s *combat.Stats) *int { return &s.BallisticSkill },
	"strength":        func(s *combat.Stats) *int { return &s.Strength },
	"toughness":       func(s *combat.Stats) *int { return &s.Toughness },
	"initiative":      func(s *combat.Stats) *int { return &s.Initiative },
	"wounds":          func(s *combat.Stats) *int { return &s.Wounds },
	"attacks":         func(s *combat.Stats) *int { return &s.Attacks },
	"leadership":      func(s *combat.Stats) *int { return &s.Leadership },
}

func isStat(name string) bool {
	_, ok := statFields[name]
	return ok
}

// validateStats checks that every stat lies within 0..10 and that Wounds is positive.
func validateStats(s combat.Stats) error {
	var errs []error
	for _, name := range sortedKeys(statFields) {
		v := *statFields[name](&s)
		if v < 0 || v > 10 {
			errs = append(errs, fmt.Errorf("%s %d out of range 0-10", name, v))
		}
	}
	if s.Wounds < 1 {
		errs = append(errs, errors.New("wounds must be >= 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("stats: %v", errs)
	}
	return nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if inventory.SameName(n, name) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

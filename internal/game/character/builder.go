package character

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// ConfigurationError reports an invalid combatant request: an unknown profile or
// honor, a disallowed equipment choice, or a stat out of range.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
	// Err is the underlying catalog error, if any.
	Err error
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("character: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("character: %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns the underlying catalog error.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Request describes a combatant built from a faction profile. Zero-valued fields
// keep the profile's defaults.
type Request struct {
	// Name defaults to the profile name.
	Name    string
	Faction string
	Profile string
	Race    string
	// Stats replaces individual stats, keyed by their YAML name ("weapon_skill").
	Stats  map[string]int
	Weapon string
	// Armor replaces the default armor; NoArmor removes it.
	Armor  string
	Shield *bool
	// Rules are added to the profile's rules.
	Rules  []string
	Honors []string
}

// CustomRequest describes a combatant built without a profile.
type CustomRequest struct {
	Name   string
	Race   string
	Stats  combat.Stats
	Weapon string
	// Armor is "" or NoArmor for none.
	Armor  string
	Shield bool
	Rules  []string
	Honors []string
}

// Builder turns requests into combatants using the weapon and armor catalogs and
// the loaded profiles and honors.
type Builder struct {
	registry *inventory.Registry
	profiles map[string]map[string]*Profile
	honors   map[string]*Honor
}

// NewBuilder indexes profiles by faction and name and honors by ID and name.
//
// Precondition: registry must not be nil.
// Postcondition: returns an error if two profiles or two honors share a name.
func NewBuilder(registry *inventory.Registry, profiles []*Profile, honors []*Honor) (*Builder, error) {
	b := &Builder{
		registry: registry,
		profiles: make(map[string]map[string]*Profile),
		honors:   make(map[string]*Honor),
	}
	for _, p := range profiles {
		fk := inventory.LookupKey(p.Faction)
		if b.profiles[fk] == nil {
			b.profiles[fk] = make(map[string]*Profile)
		}
		for _, n := range append([]string{p.Name}, p.Aliases...) {
			k := inventory.LookupKey(n)
			if prev, taken := b.profiles[fk][k]; taken && prev != p {
				return nil, fmt.Errorf("character: NewBuilder: %s profile name %q already belongs to %q", p.Faction, n, prev.Name)
			}
			b.profiles[fk][k] = p
		}
	}
	for _, h := range honors {
		for _, n := range append([]string{h.ID, h.Name}, h.Aliases...) {
			k := inventory.LookupKey(n)
			if prev, taken := b.honors[k]; taken && prev != h {
				return nil, fmt.Errorf("character: NewBuilder: honor name %q already belongs to %q", n, prev.ID)
			}
			b.honors[k] = h
		}
	}
	return b, nil
}

// LoadBuilder loads profiles and honors from their directories and indexes them.
//
// Precondition: both directories are readable.
// Postcondition: warnings lists every rule string dropped from profiles and honors.
func LoadBuilder(registry *inventory.Registry, profilesDir, honorsDir string) (*Builder, []error, error) {
	profiles, warnings, err := LoadProfiles(profilesDir)
	if err != nil {
		return nil, nil, err
	}
	honors, hw, err := LoadHonors(honorsDir)
	if err != nil {
		return nil, nil, err
	}
	b, err := NewBuilder(registry, profiles, honors)
	if err != nil {
		return nil, nil, err
	}
	return b, append(warnings, hw...), nil
}

// Profile resolves a faction and profile name to its Profile.
func (b *Builder) Profile(faction, name string) (*Profile, error) {
	byName, ok := b.profiles[inventory.LookupKey(faction)]
	if !ok {
		return nil, &ConfigurationError{Field: "faction", Value: faction, Reason: "unknown faction"}
	}
	p, ok := byName[inventory.LookupKey(name)]
	if !ok {
		return nil, &ConfigurationError{Field: "profile", Value: name, Reason: "unknown " + faction + " profile"}
	}
	return p, nil
}

// Profiles returns every profile sorted by faction then name.
func (b *Builder) Profiles() []*Profile {
	seen := make(map[*Profile]bool)
	var out []*Profile
	for _, byName := range b.profiles {
		for _, p := range byName {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Faction != out[j].Faction {
			return out[i].Faction < out[j].Faction
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Honor resolves an honor by ID, name or alias.
func (b *Builder) Honor(name string) (*Honor, error) {
	h, ok := b.honors[inventory.LookupKey(name)]
	if !ok {
		return nil, &ConfigurationError{Field: "honor", Value: name, Reason: "unknown honor"}
	}
	return h, nil
}

// Build creates a combatant from a faction profile.
//
// Honors are applied before equipment is validated, so a weapon granted by an
// honor may be chosen in the same request.
//
// Precondition: req.Faction and req.Profile name a loaded profile.
// Postcondition: on success the combatant is at full wounds, carries the canonical
// catalog IDs of its weapon and armor, and has a fresh ID; warnings lists every
// request rule string that was dropped. Errors are *ConfigurationError.
func (b *Builder) Build(req Request) (*combat.Combatant, []error, error) {
	p, err := b.Profile(req.Faction, req.Profile)
	if err != nil {
		return nil, nil, err
	}

	stats := p.Stats
	for _, field := range sortedKeys(req.Stats) {
		ptr, ok := statFields[field]
		if !ok {
			return nil, nil, &ConfigurationError{Field: "stats", Value: field, Reason: "unknown stat"}
		}
		*ptr(&stats) = req.Stats[field]
	}

	race := p.Race
	if req.Race != "" {
		race = req.Race
	}
	weapon := p.Weapon
	if req.Weapon != "" {
		weapon = req.Weapon
	}
	armor := p.Armor
	switch {
	case inventory.SameName(req.Armor, NoArmor):
		armor = ""
	case req.Armor != "":
		armor = req.Armor
	}
	shield := p.Shield
	if req.Shield != nil {
		shield = *req.Shield
	}

	set, warnings := rules.ParseSet(req.Rules)
	set = p.Rules.Union(set)

	opts := Options{
		Weapons: append([]string(nil), p.Options.Weapons...),
		Armor:   append([]string(nil), p.Options.Armor...),
		Shield:  p.Options.Shield,
	}
	stats, set, opts, err = b.applyHonors(race, req.Honors, stats, set, opts)
	if err != nil {
		return nil, nil, err
	}

	if !b.allowsWeapon(opts, weapon) {
		return nil, nil, &ConfigurationError{Field: "weapon", Value: weapon, Reason: "not an option for " + p.Name}
	}
	if armor != "" && !b.allowsArmor(opts, armor) {
		return nil, nil, &ConfigurationError{Field: "armor", Value: armor, Reason: "not an option for " + p.Name}
	}
	if shield && !opts.Shield {
		return nil, nil, &ConfigurationError{Field: "shield", Reason: p.Name + " cannot use a shield"}
	}

	name := req.Name
	if name == "" {
		name = p.Name
	}
	c, err := b.assemble(name, race, stats, weapon, armor, shield, set)
	if err != nil {
		return nil, nil, err
	}
	return c, warnings, nil
}

// BuildCustom creates a combatant from an explicit stat line with no profile.
// Only catalog membership, stat ranges and the two-handed weapon and shield
// restriction are checked.
//
// Postcondition: as for Build.
func (b *Builder) BuildCustom(req CustomRequest) (*combat.Combatant, []error, error) {
	set, warnings := rules.ParseSet(req.Rules)
	weapon := req.Weapon
	if weapon == "" {
		weapon = inventory.HandWeaponID
	}
	armor := req.Armor
	if inventory.SameName(armor, NoArmor) {
		armor = ""
	}
	stats, set, _, err := b.applyHonors(req.Race, req.Honors, req.Stats, set, Options{})
	if err != nil {
		return nil, nil, err
	}
	c, err := b.assemble(req.Name, req.Race, stats, weapon, armor, req.Shield, set)
	if err != nil {
		return nil, nil, err
	}
	return c, warnings, nil
}

// applyHonors adds each honor's stat modifiers, rules and equipment options.
// Returns a *ConfigurationError for an unknown honor or a race that is not High Elf.
func (b *Builder) applyHonors(race string, names []string, stats combat.Stats, set rules.Set, opts Options) (combat.Stats, rules.Set, Options, error) {
	if len(names) == 0 {
		return stats, set, opts, nil
	}
	if !IsHighElf(race) {
		return stats, set, opts, &ConfigurationError{Field: "honors", Value: race, Reason: "honors are only available to High Elves"}
	}
	applied := make(map[*Honor]bool)
	for _, n := range names {
		h, err := b.Honor(n)
		if err != nil {
			return stats, set, opts, err
		}
		if applied[h] {
			continue
		}
		applied[h] = true
		for _, field := range sortedKeys(h.StatMods) {
			*statFields[field](&stats) += h.StatMods[field]
		}
		set = set.Union(h.Rules)
		opts.Weapons = append(opts.Weapons, h.Weapons...)
		opts.Armor = append(opts.Armor, h.Armor...)
	}
	return stats, set, opts, nil
}

// allowsWeapon reports whether name is one of the weapon options, either by
// spelling or by resolving to the same catalog entry ("GW" for "Great Weapon").
func (b *Builder) allowsWeapon(opts Options, name string) bool {
	if opts.AllowsWeapon(name) {
		return true
	}
	want, err := b.registry.Weapon(name)
	if err != nil {
		return false
	}
	for _, o := range opts.Weapons {
		if w, err := b.registry.Weapon(o); err == nil && w.ID == want.ID {
			return true
		}
	}
	return false
}

// allowsArmor is the armor counterpart of allowsWeapon.
func (b *Builder) allowsArmor(opts Options, name string) bool {
	if opts.AllowsArmor(name) {
		return true
	}
	want, err := b.registry.Armor(name)
	if err != nil {
		return false
	}
	for _, o := range opts.Armor {
		if a, err := b.registry.Armor(o); err == nil && a.ID == want.ID {
			return true
		}
	}
	return false
}

// assemble resolves equipment against the catalogs and creates the combatant.
func (b *Builder) assemble(name, race string, stats combat.Stats, weapon, armor string, shield bool, set rules.Set) (*combat.Combatant, error) {
	if name == "" {
		return nil, &ConfigurationError{Field: "name", Reason: "must not be empty"}
	}
	if err := validateStats(stats); err != nil {
		return nil, &ConfigurationError{Field: "stats", Reason: err.Error()}
	}
	w, err := b.registry.Weapon(weapon)
	if err != nil {
		return nil, &ConfigurationError{Field: "weapon", Value: weapon, Reason: "not in the weapon catalog", Err: err}
	}
	if shield && w.Has(rules.RequiresTwoHands) {
		return nil, &ConfigurationError{Field: "shield", Value: w.Name, Reason: "weapon requires two hands and cannot be used with a shield"}
	}

	c := combat.NewCombatant(name, race, stats, w.ID)
	c.Shield = shield
	c.Rules = set
	if armor != "" {
		a, err := b.registry.Armor(armor)
		if err != nil {
			return nil, &ConfigurationError{Field: "armor", Value: armor, Reason: "not in the armor catalog", Err: err}
		}
		c.Armor = a.ID
		c.ArmorSave = a.Save
	}
	return c, nil
}

package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrUnknownWeapon is returned when a weapon name resolves to no catalog entry.
var ErrUnknownWeapon = errors.New("unknown weapon")

// ErrUnknownArmor is returned when an armor name resolves to no catalog entry.
var ErrUnknownArmor = errors.New("unknown armor")

// Registry holds all loaded weapon and armor definitions indexed by ID and alias.
//
// Lookups ignore case, spacing and punctuation, so "Great Weapon", "GW",
// "great_weapon" and "GreatWeapon" all resolve to the same entry.
type Registry struct {
	weapons     map[string]*WeaponDef
	armors      map[string]*ArmorDef
	weaponIndex map[string]string
	armorIndex  map[string]string
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons:     make(map[string]*WeaponDef),
		armors:      make(map[string]*ArmorDef),
		weaponIndex: make(map[string]string),
		armorIndex:  make(map[string]string),
	}
}

// LoadRegistry loads the weapon and armor catalogs from their directories.
//
// Precondition: both directories are readable.
// Postcondition: on success every loaded def is registered; warnings lists dropped rule strings.
func LoadRegistry(weaponsDir, armorDir string) (*Registry, []error, error) {
	weapons, warnings, err := LoadWeapons(weaponsDir)
	if err != nil {
		return nil, nil, err
	}
	armors, err := LoadArmors(armorDir)
	if err != nil {
		return nil, nil, err
	}
	reg := NewRegistry()
	for _, w := range weapons {
		if err := reg.RegisterWeapon(w); err != nil {
			return nil, nil, err
		}
	}
	for _, a := range armors {
		if err := reg.RegisterArmor(a); err != nil {
			return nil, nil, err
		}
	}
	return reg, warnings, nil
}

// RegisterWeapon adds w to the registry under its ID, name and aliases.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID or any of its
// names is already registered to another weapon.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	keys, err := claimKeys(r.weaponIndex, w.ID, append([]string{w.ID, w.Name}, w.Aliases...))
	if err != nil {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: %w", err)
	}
	for _, k := range keys {
		r.weaponIndex[k] = w.ID
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterArmor adds a to the registry under its ID, name and aliases.
//
// Precondition:  a must not be nil.
// Postcondition: Armor(a.ID) returns a; returns error if a.ID or any of its
// names is already registered to another armor.
func (r *Registry) RegisterArmor(a *ArmorDef) error {
	if _, exists := r.armors[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterArmor: armor ID %q already registered", a.ID)
	}
	keys, err := claimKeys(r.armorIndex, a.ID, append([]string{a.ID, a.Name}, a.Aliases...))
	if err != nil {
		return fmt.Errorf("inventory: Registry.RegisterArmor: %w", err)
	}
	for _, k := range keys {
		r.armorIndex[k] = a.ID
	}
	r.armors[a.ID] = a
	return nil
}

// Weapon resolves name (an ID, display name or alias) to its WeaponDef.
//
// Postcondition: the error wraps ErrUnknownWeapon iff no entry matches.
func (r *Registry) Weapon(name string) (*WeaponDef, error) {
	if id, ok := r.weaponIndex[LookupKey(name)]; ok {
		return r.weapons[id], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, name)
}

// Armor resolves name (an ID, display name or alias) to its ArmorDef.
//
// Postcondition: the error wraps ErrUnknownArmor iff no entry matches.
func (r *Registry) Armor(name string) (*ArmorDef, error) {
	if id, ok := r.armorIndex[LookupKey(name)]; ok {
		return r.armors[id], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownArmor, name)
}

// AllWeapons returns all registered WeaponDefs sorted by ID.
//
// Postcondition: len(result) == number of registered weapons.
func (r *Registry) AllWeapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(r.weapons))
	for _, w := range r.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllArmors returns all registered ArmorDefs sorted by ID.
func (r *Registry) AllArmors() []*ArmorDef {
	out := make([]*ArmorDef, 0, len(r.armors))
	for _, a := range r.armors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LookupKey folds a catalog name into its lookup form: lower case, letters and
// digits only.
func LookupKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// SameName reports whether a and b resolve to the same lookup key.
func SameName(a, b string) bool {
	return LookupKey(a) == LookupKey(b)
}

func claimKeys(index map[string]string, id string, names []string) ([]string, error) {
	var keys []string
	seen := make(map[string]bool)
	for _, n := range names {
		k := LookupKey(n)
		if k == "" || seen[k] {
			continue
		}
		if owner, taken := index[k]; taken && owner != id {
			return nil, fmt.Errorf("name %q of %q already belongs to %q", n, id, owner)
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys, nil
}

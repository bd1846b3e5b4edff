package rules

import (
	"sort"
	"strings"
)

// Set is an ordered collection of rules. Duplicates collapse, except for kinds
// that stack (see Kind.Stacks) when sets from separate sources are merged.
//
// Sets are values: With and Union return new slices and never write through to
// their receiver or argument, so merging a weapon's rules into a character's rules
// cannot leak into either catalog entry.
type Set []Rule

// NewSet builds a Set from rs, dropping duplicates.
func NewSet(rs ...Rule) Set {
	var s Set
	for _, r := range rs {
		s = s.With(r)
	}
	return s
}

// Has reports whether the set contains at least one rule of kind k.
func (s Set) Has(k Kind) bool {
	for _, r := range s {
		if r.Kind == k {
			return true
		}
	}
	return false
}

// Contains reports whether r is already present.
func (s Set) Contains(r Rule) bool {
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}

// Of returns every rule of kind k in set order.
func (s Set) Of(k Kind) []Rule {
	var out []Rule
	for _, r := range s {
		if r.Kind == k {
			out = append(out, r)
		}
	}
	return out
}

// Lowest returns the smallest Value among rules of kind k.
//
// Postcondition: ok is false iff no rule of kind k exists.
func (s Set) Lowest(k Kind) (value int, ok bool) {
	for _, r := range s {
		if r.Kind != k {
			continue
		}
		if !ok || r.Value < value {
			value, ok = r.Value, true
		}
	}
	return value, ok
}

// Sum returns the total Value of all rules of kind k (0 if none).
func (s Set) Sum(k Kind) int {
	total := 0
	for _, r := range s {
		if r.Kind == k {
			total += r.Value
		}
	}
	return total
}

// With returns a new Set containing s plus r. s is not modified.
func (s Set) With(r Rule) Set {
	out := make(Set, len(s), len(s)+1)
	copy(out, s)
	if s.Contains(r) {
		return out
	}
	return append(out, r)
}

// Union returns a new Set holding every rule of s followed by every rule of other
// not already present. Rules whose kind stacks are always appended, so an AB1 on
// the character and an AB1 on the weapon sum to 2. Neither input is modified.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s), len(s)+len(other))
	copy(out, s)
	for _, r := range other {
		if r.Kind.Stacks() || !out.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// HatredMatches reports whether any Hatred rule in s applies to an enemy with the
// given race and name. "all" matches everyone; any other target matches as a
// case-insensitive substring of the race or the name.
func (s Set) HatredMatches(race, name string) bool {
	race = strings.ToLower(race)
	name = strings.ToLower(name)
	for _, r := range s.Of(Hatred) {
		if r.Target == HatredAll {
			return true
		}
		if r.Target == "" {
			continue
		}
		if strings.Contains(race, r.Target) || strings.Contains(name, r.Target) {
			return true
		}
	}
	return false
}

// Strings renders every rule in canonical spelling, sorted.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, r.String())
	}
	sort.Strings(out)
	return out
}

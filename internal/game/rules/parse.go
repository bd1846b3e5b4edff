package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ParseError reports a rule string that looks like a parameterized rule but whose
// parameter is missing or invalid. The rule is treated as absent.
type ParseError struct {
	Raw    string
	Reason string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("rules: cannot parse %q: %s", e.Raw, e.Reason)
}

// flagNames maps a compacted, lower-cased spelling to a flag Kind.
var flagNames = map[string]Kind{
	"strikefirst":           StrikeFirst,
	"alwaysstrikesfirst":    StrikeFirst,
	"strikelast":            StrikeLast,
	"alwaysstrikeslast":     StrikeLast,
	"frenzy":                Frenzy,
	"ethereal":              Ethereal,
	"magic":                 Magic,
	"magical":               Magic,
	"magicalattacks":        Magic,
	"flamingattacks":        FlamingAttacks,
	"flaming":               FlamingAttacks,
	"ithilmarweapons":       IthilmarWeapons,
	"rerollhits1":           RerollHits1,
	"requirestwohands":      RequiresTwoHands,
	"improvearmor1incombat": ImproveArmor1InCombat,
	"firstroundonly":        FirstRoundOnly,
	"1stroundstrengthonly":  FirstRoundStrength,
	"firstroundstrength":    FirstRoundStrength,
	"flammable":             Flammable,
}

// namedWard matches ward sources spelled as "<Name> (6+ Ward)" or
// "<Name> (5+ Ward vs Flaming)".
var namedWard = regexp.MustCompile(`(?i)^(.*?)\s*\(\s*(\d+)\+?\s*ward(\s+vs\.?\s+flaming)?\s*\)$`)

// hatredPattern matches "Hatred", "Hatred (all)", "Hatred (Orcs)".
var hatredPattern = regexp.MustCompile(`(?i)^hatred\s*(?:\((.*)\))?$`)

// extraAttacksPattern matches "+1A", "+2 A".
var extraAttacksPattern = regexp.MustCompile(`(?i)^\+\s*(\S*?)\s*a$`)

// prefixRule describes a rule family spelled as a keyword followed by a number.
type prefixRule struct {
	prefix string // compacted spelling
	fold   bool   // case-insensitive prefix match
	kind   Kind
	def    int // value when the suffix is empty; 0 = suffix required
	min    int
	max    int
}

// Longer prefixes come first so "Regeneration" wins over "Regen".
var prefixRules = []prefixRule{
	{prefix: "regeneration", fold: true, kind: Regen, min: 2, max: 6},
	{prefix: "regen", fold: true, kind: Regen, min: 2, max: 6},
	{prefix: "killingblow", fold: true, kind: KillingBlow, def: DefaultKillingBlow, min: 2, max: 6},
	{prefix: "armourbane", fold: true, kind: ArmorBane, min: 1, max: 6},
	{prefix: "armorbane", fold: true, kind: ArmorBane, min: 1, max: 6},
	{prefix: "armourhardening", fold: true, kind: ArmorHardening, min: 1, max: 6},
	{prefix: "armorhardening", fold: true, kind: ArmorHardening, min: 1, max: 6},
	{prefix: "ward", fold: true, kind: Ward, min: 2, max: 6},
	{prefix: "AB", kind: ArmorBane, min: 1, max: 6},
	{prefix: "AH", kind: ArmorHardening, min: 1, max: 6},
}

// Parse converts one catalog rule string into a Rule.
//
// Unrecognized names become Descriptive rules. A string that starts like a
// parameterized rule but carries a bad parameter ("Ward", "WardX", "AB0") yields a
// *ParseError.
//
// Postcondition: err != nil iff the returned Rule must be discarded.
func Parse(raw string) (Rule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Rule{}, &ParseError{Raw: raw, Reason: "empty rule"}
	}
	compact := compactSpelling(s)

	if k, ok := flagNames[strings.ToLower(compact)]; ok {
		return Flag(k), nil
	}

	if m := namedWard.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 2 || n > 6 {
			return Rule{}, &ParseError{Raw: raw, Reason: "ward value must be 2-6"}
		}
		kind := Ward
		if m[3] != "" {
			kind = FlamingWard
		}
		r := Rule{Kind: kind, Value: n}
		if strings.TrimSpace(m[1]) != "" {
			r.Name = s
		}
		return r, nil
	}

	if m := hatredPattern.FindStringSubmatch(s); m != nil {
		target := strings.TrimSpace(m[1])
		if target == "" {
			target = HatredAll
		}
		return HatredOf(target), nil
	}

	if m := extraAttacksPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return Rule{}, &ParseError{Raw: raw, Reason: "extra attacks must be a positive integer"}
		}
		return Attacks(n), nil
	}

	for _, pr := range prefixRules {
		suffix, ok := cutPrefix(compact, pr.prefix, pr.fold)
		if !ok {
			continue
		}
		// A lower-case continuation means a different word ("Wardancer").
		if suffix != "" && unicode.IsLower(rune(suffix[0])) {
			break
		}
		return parseValue(raw, suffix, pr)
	}

	return Rule{Kind: Descriptive, Name: s}, nil
}

// MustParse parses raw and panics on error. Useful for package-level fixtures.
//
// Precondition: raw must be a valid rule string.
func MustParse(raw string) Rule {
	r, err := Parse(raw)
	if err != nil {
		panic(err.Error())
	}
	return r
}

// ParseSet parses every string in raws. Malformed entries are dropped from the Set
// and returned as warnings; parsing continues past them.
//
// Postcondition: len(set)+len(warnings) == number of non-duplicate inputs.
func ParseSet(raws []string) (Set, []error) {
	var (
		set      Set
		warnings []error
	)
	for _, raw := range raws {
		r, err := Parse(raw)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		set = set.With(r)
	}
	return set, warnings
}

func parseValue(raw, suffix string, pr prefixRule) (Rule, error) {
	suffix = strings.TrimSuffix(strings.TrimPrefix(suffix, "("), ")")
	suffix = strings.TrimSuffix(suffix, "+")
	if suffix == "" {
		if pr.def == 0 {
			return Rule{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("%s requires a numeric value", pr.kind)}
		}
		return Rule{Kind: pr.kind, Value: pr.def}, nil
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return Rule{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("%s value %q is not a number", pr.kind, suffix)}
	}
	if n < pr.min || n > pr.max {
		return Rule{}, &ParseError{Raw: raw, Reason: fmt.Sprintf("%s value %d out of range %d-%d", pr.kind, n, pr.min, pr.max)}
	}
	return Rule{Kind: pr.kind, Value: n}, nil
}

func cutPrefix(s, prefix string, fold bool) (string, bool) {
	if len(s) < len(prefix) {
		return "", false
	}
	head := s[:len(prefix)]
	if fold {
		if !strings.EqualFold(head, prefix) {
			return "", false
		}
	} else if head != prefix {
		return "", false
	}
	return s[len(prefix):], true
}

// compactSpelling removes whitespace, hyphens and underscores.
func compactSpelling(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalizeTarget(target string) string {
	return strings.ToLower(strings.TrimSpace(target))
}

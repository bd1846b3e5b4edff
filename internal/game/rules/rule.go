// Package rules defines the special-rule vocabulary shared by combatants and weapons.
//
// Rules arrive from catalog data as display strings ("Strike First", "Ward6",
// "Hatred (Orcs)"). They are parsed exactly once, at load time, into typed Rule
// values; the combat engine never inspects rule strings.
package rules

import "fmt"

// Kind identifies a special rule.
// The zero value (KindUnknown) is intentionally invalid.
type Kind int

const (
	KindUnknown Kind = iota

	// Flags.
	StrikeFirst
	StrikeLast
	Frenzy
	Ethereal
	Magic
	FlamingAttacks
	IthilmarWeapons
	RerollHits1
	RequiresTwoHands
	ImproveArmor1InCombat
	FirstRoundOnly
	FirstRoundStrength
	Flammable

	// Parameterized rules.
	Ward
	FlamingWard
	Regen
	KillingBlow
	ArmorBane
	ArmorHardening
	Hatred
	ExtraAttacks

	// Descriptive rules carry no combat mechanics; only their name is kept.
	Descriptive
)

// DefaultKillingBlow is the wound face that triggers a Killing Blow when the rule
// carries no explicit value.
const DefaultKillingBlow = 6

// HatredAll is the Hatred target that matches every enemy.
const HatredAll = "all"

var kindNames = map[Kind]string{
	StrikeFirst:           "Strike First",
	StrikeLast:            "Strike Last",
	Frenzy:                "Frenzy",
	Ethereal:              "Ethereal",
	Magic:                 "Magic",
	FlamingAttacks:        "Flaming Attacks",
	IthilmarWeapons:       "Ithilmar Weapons",
	RerollHits1:           "Reroll Hits 1",
	RequiresTwoHands:      "Requires Two Hands",
	ImproveArmor1InCombat: "Improve Armor 1 in Combat",
	FirstRoundOnly:        "First Round Only",
	FirstRoundStrength:    "1st round strength only",
	Flammable:             "Flammable",
	Ward:                  "Ward",
	FlamingWard:           "Ward vs Flaming",
	Regen:                 "Regeneration",
	KillingBlow:           "Killing Blow",
	ArmorBane:             "Armour Bane",
	ArmorHardening:        "Armour Hardening",
	Hatred:                "Hatred",
	ExtraAttacks:          "Extra Attacks",
	Descriptive:           "Descriptive",
}

// String returns the display name of the Kind.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// IsFlag reports whether the Kind carries no parameter.
func (k Kind) IsFlag() bool {
	return k >= StrikeFirst && k <= Flammable
}

// Rule is one parsed special-rule instance.
//
// Value is meaningful for Ward, FlamingWard, Regen, KillingBlow, ArmorBane,
// ArmorHardening and ExtraAttacks. Target is meaningful for Hatred only and is
// stored lower-cased. Name preserves the source spelling for named sources such as
// "Dragon Armour (6+ Ward)" and for Descriptive rules.
type Rule struct {
	Kind   Kind
	Value  int
	Target string
	Name   string
}

// Stacks reports whether rules of kind k add up across sources instead of
// collapsing when identical: Armor Bane, Armor Hardening and extra attacks.
func (k Kind) Stacks() bool {
	switch k {
	case ArmorBane, ArmorHardening, ExtraAttacks:
		return true
	}
	return false
}

// Flag returns a parameterless Rule of kind k.
func Flag(k Kind) Rule { return Rule{Kind: k} }

// WardSave returns a Ward rule saving on n+.
func WardSave(n int) Rule { return Rule{Kind: Ward, Value: n} }

// FlamingWardSave returns a ward that only applies against flaming attacks.
func FlamingWardSave(n int) Rule { return Rule{Kind: FlamingWard, Value: n} }

// Regeneration returns a Regen rule saving on n+.
func Regeneration(n int) Rule { return Rule{Kind: Regen, Value: n} }

// KillingBlowOn returns a KillingBlow rule triggering on a wound face of exactly n.
func KillingBlowOn(n int) Rule { return Rule{Kind: KillingBlow, Value: n} }

// Bane returns an ArmorBane rule worth n extra AP on wound rolls of 6.
func Bane(n int) Rule { return Rule{Kind: ArmorBane, Value: n} }

// Hardening returns an ArmorHardening rule improving the armor save by n.
func Hardening(n int) Rule { return Rule{Kind: ArmorHardening, Value: n} }

// HatredOf returns a Hatred rule against target ("all" or a race/name fragment).
func HatredOf(target string) Rule { return Rule{Kind: Hatred, Target: normalizeTarget(target)} }

// Attacks returns an ExtraAttacks rule granting n more attacks.
func Attacks(n int) Rule { return Rule{Kind: ExtraAttacks, Value: n} }

// String renders the rule in the canonical catalog spelling.
func (r Rule) String() string {
	if r.Name != "" {
		return r.Name
	}
	switch r.Kind {
	case Ward:
		return fmt.Sprintf("Ward%d", r.Value)
	case FlamingWard:
		return fmt.Sprintf("(%d+ Ward vs Flaming)", r.Value)
	case Regen:
		return fmt.Sprintf("Regen%d", r.Value)
	case KillingBlow:
		return fmt.Sprintf("KillingBlow%d", r.Value)
	case ArmorBane:
		return fmt.Sprintf("AB%d", r.Value)
	case ArmorHardening:
		return fmt.Sprintf("AH%d", r.Value)
	case Hatred:
		return fmt.Sprintf("Hatred (%s)", r.Target)
	case ExtraAttacks:
		return fmt.Sprintf("+%dA", r.Value)
	default:
		return r.Kind.String()
	}
}

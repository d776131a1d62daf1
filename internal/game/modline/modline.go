// Package modline parses the free-text effect lines carried by catalog content
// ("+2 armor", "add_edge: Brave", "rifts_cyber_armor 4") into tagged modifiers.
// Lines are parsed once when an entity is built and applied on every calculation pass.
package modline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

// Kind tags the variant held by a Modifier.
type Kind int

const (
	// KindDerived adjusts a derived stat accumulator ("+2 armor").
	KindDerived Kind = iota + 1
	// KindTrait raises an attribute or skill by die steps ("+1 agility").
	KindTrait
	// KindTraitBonus adds a flat roll bonus to a trait ("+2 notice bonus").
	KindTraitBonus
	// KindTraitMax raises a trait's maximum die ("+1 strength_max").
	KindTraitMax
	// KindDirective is a keyword with arguments ("add_edge: Brave", "linguist").
	KindDirective
)

func (k Kind) String() string {
	switch k {
	case KindDerived:
		return "derived"
	case KindTrait:
		return "trait"
	case KindTraitBonus:
		return "trait_bonus"
	case KindTraitMax:
		return "trait_max"
	case KindDirective:
		return "directive"
	}
	return "unknown"
}

// Derived stat keys accepted by KindDerived modifiers.
const (
	Pace              = "pace"
	Armor             = "armor"
	HeavyArmor        = "heavy_armor"
	Toughness         = "toughness"
	Parry             = "parry"
	Reach             = "reach"
	Size              = "size"
	Wealth            = "wealth"
	Strain            = "strain"
	Sanity            = "sanity"
	Charisma          = "charisma"
	PowerPoints       = "power_points"
	Powers            = "powers"
	AttributePoints   = "attribute_points"
	SkillPoints       = "skill_points"
	ModSlots          = "mod_slots"
	ArmorInterference = "armor_interference"
)

var derivedKeys = map[string]struct{}{
	Pace: {}, Armor: {}, HeavyArmor: {}, Toughness: {}, Parry: {}, Reach: {}, Size: {},
	Wealth: {}, Strain: {}, Sanity: {}, Charisma: {}, PowerPoints: {}, Powers: {},
	AttributePoints: {}, SkillPoints: {}, ModSlots: {}, ArmorInterference: {},
}

// IsDerivedKey reports whether key names a derived stat accumulator.
func IsDerivedKey(key string) bool {
	_, ok := derivedKeys[key]
	return ok
}

// Directive keywords with built-in handlers.
const (
	AddEdge             = "add_edge"
	AddHindrance        = "add_hindrance"
	AddSkill            = "add_skill"
	SkillMin            = "skill_min"
	LinkSkill           = "link_skill"
	SetAttribute        = "set_attribute"
	AddPower            = "add_power"
	PowerList           = "power_list"
	PowerListAppend     = "power_list_append"
	MegaPower           = "mega_power"
	InnateAttack        = "innate_attack"
	AddArcaneBackground = "add_arcane_background"
	RiftsCyberArmor     = "rifts_cyber_armor"
	Linguist            = "linguist"
)

// preCalcDirectives must land before skill and attribute finalization.
var preCalcDirectives = map[string]struct{}{
	AddSkill: {}, SkillMin: {}, LinkSkill: {}, SetAttribute: {}, AddArcaneBackground: {},
}

// Placeholders resolved from the owning entity's selections at apply time.
const (
	SelectedAttribute = "[selected_attribute]"
	SelectedSkill     = "[selected_skill]"
	SelectedTrait     = "[selected_trait]"
	SelectedEdge      = "[selected_edge]"
)

// Modifier is one parsed effect line.
type Modifier struct {
	Kind Kind
	// Target is the derived key, trait name, or directive keyword, normalized.
	Target string
	Amount int
	// Args holds directive arguments split on commas.
	Args []string
	Raw  string
}

// PreCalc reports whether the modifier belongs to the first edge pass.
func (m Modifier) PreCalc() bool {
	switch m.Kind {
	case KindTrait, KindTraitMax:
		return true
	case KindDirective:
		_, ok := preCalcDirectives[m.Target]
		return ok
	}
	return false
}

// HasPlaceholder reports whether the target or any argument is a [selected_*] placeholder.
func (m Modifier) HasPlaceholder() bool {
	if isPlaceholder(m.Target) {
		return true
	}
	for _, a := range m.Args {
		if strings.Contains(a, "[selected_") {
			return true
		}
	}
	return false
}

// Resolve substitutes placeholders using lookup. Placeholders lookup cannot satisfy are
// left in place; ok reports whether every placeholder was resolved.
func (m Modifier) Resolve(lookup func(placeholder string) string) (Modifier, bool) {
	ok := true
	out := m
	if isPlaceholder(m.Target) {
		if v := lookup(m.Target); v != "" {
			out.Target = catalog.NormalizeName(v)
		} else {
			ok = false
		}
	}
	if len(m.Args) > 0 {
		out.Args = make([]string, len(m.Args))
		for i, a := range m.Args {
			out.Args[i] = a
			for _, p := range []string{SelectedAttribute, SelectedSkill, SelectedTrait, SelectedEdge} {
				if !strings.Contains(a, p) {
					continue
				}
				v := lookup(p)
				if v == "" {
					ok = false
					continue
				}
				out.Args[i] = strings.ReplaceAll(out.Args[i], p, v)
			}
		}
	}
	return out, ok
}

// Arg returns the i-th argument or "".
func (m Modifier) Arg(i int) string {
	if i < 0 || i >= len(m.Args) {
		return ""
	}
	return m.Args[i]
}

func isPlaceholder(s string) bool {
	return strings.HasPrefix(s, "[selected_") && strings.HasSuffix(s, "]")
}

// Parse converts a single effect line into a Modifier.
//
// Precondition: line may be any string.
// Postcondition: Returns a Modifier with Raw == line, or an error for empty or malformed lines.
func Parse(line string) (Modifier, error) {
	raw := line
	s := strings.TrimSpace(line)
	if s == "" {
		return Modifier{}, errors.New("modline: empty effect line")
	}

	if s[0] == '+' || s[0] == '-' {
		return parseNumeric(raw, s)
	}

	if keyword, args, found := strings.Cut(s, ":"); found {
		kw := normalizeKeyword(keyword)
		if kw == "" {
			return Modifier{}, fmt.Errorf("modline: missing keyword in %q", raw)
		}
		return Modifier{Kind: KindDirective, Target: kw, Args: splitArgs(args), Raw: raw}, nil
	}

	fields := strings.Fields(s)
	m := Modifier{Kind: KindDirective, Target: normalizeKeyword(fields[0]), Raw: raw}
	if len(fields) > 1 {
		m.Args = splitArgs(strings.Join(fields[1:], " "))
	}
	return m, nil
}

func parseNumeric(raw, s string) (Modifier, error) {
	end := 1
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	amount, err := strconv.Atoi(s[:end])
	if err != nil {
		return Modifier{}, fmt.Errorf("modline: invalid amount in %q: %w", raw, err)
	}
	rest := strings.TrimSpace(s[end:])
	if rest == "" {
		return Modifier{}, fmt.Errorf("modline: missing target in %q", raw)
	}

	if isPlaceholder(rest) {
		return Modifier{Kind: KindTrait, Target: rest, Amount: amount, Raw: raw}, nil
	}
	target := catalog.NormalizeName(rest)
	if t, ok := strings.CutSuffix(target, " bonus"); ok {
		return Modifier{Kind: KindTraitBonus, Target: t, Amount: amount, Raw: raw}, nil
	}
	if t, ok := strings.CutSuffix(target, "_max"); ok {
		return Modifier{Kind: KindTraitMax, Target: t, Amount: amount, Raw: raw}, nil
	}
	key := strings.ReplaceAll(target, " ", "_")
	if IsDerivedKey(key) {
		return Modifier{Kind: KindDerived, Target: key, Amount: amount, Raw: raw}, nil
	}
	return Modifier{Kind: KindTrait, Target: target, Amount: amount, Raw: raw}, nil
}

// ParseAll parses every line, skipping (and reporting) the malformed ones.
func ParseAll(lines []string) ([]Modifier, []error) {
	mods := make([]Modifier, 0, len(lines))
	var errs []error
	for _, l := range lines {
		m, err := Parse(l)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		mods = append(mods, m)
	}
	return mods, errs
}

func normalizeKeyword(s string) string {
	return strings.ReplaceAll(catalog.NormalizeName(s), " ", "_")
}

func splitArgs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

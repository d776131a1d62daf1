package character

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// Choices are the creation-time picks a new character is built from.
// Names are matched against the catalog case-insensitively.
type Choices struct {
	Name       string
	Setting    string
	Race       string
	Attributes map[string]string
	Skills     map[string]string
	Edges      []string
	Hindrances []string
}

// applyAttributeChoices assigns each attribute die, reporting unknown names and bad labels.
func applyAttributeChoices(c *Character, picks map[string]string) error {
	var errs []error
	for _, name := range sortedKeys(picks) {
		die, err := dice.ParseDie(picks[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("attribute %s: %w", name, err))
			continue
		}
		if !c.AssignAttribute(name, die) {
			errs = append(errs, fmt.Errorf("attribute %q is unknown or below d4", name))
		}
	}
	return errors.Join(errs...)
}

// applySkillChoices assigns each skill die.
func applySkillChoices(c *Character, picks map[string]string) error {
	var errs []error
	for _, name := range sortedKeys(picks) {
		die, err := dice.ParseDie(picks[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("skill %s: %w", name, err))
			continue
		}
		if !c.AssignSkill(name, die) {
			errs = append(errs, fmt.Errorf("skill %q is unknown", name))
		}
	}
	return errors.Join(errs...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Build constructs and calculates a new Character from creation choices.
// Unlike Calc, Build rejects choices that name nothing in the catalog, since
// they come straight from the user.
//
// Precondition: cat must be non-nil; choices.Name must be non-empty.
// Postcondition: Returns a calculated Character, or a non-nil error listing every bad choice.
func Build(cat *catalog.Catalog, choices Choices, opts ...Option) (*Character, error) {
	if cat == nil {
		return nil, errors.New("catalog must not be nil")
	}
	if choices.Name == "" {
		return nil, errors.New("character name must not be empty")
	}

	c := New(cat, opts...)
	c.Name = choices.Name

	var errs []error
	if choices.Setting != "" {
		s, ok := cat.SettingByName(choices.Setting)
		if !ok {
			errs = append(errs, fmt.Errorf("setting %q not found", choices.Setting))
		} else {
			c.SettingID = s.ID
			c.setting = newSetting(s, c.ExtraRules)
		}
	}
	if choices.Race != "" {
		r, ok := cat.RaceByName(choices.Race, c.books())
		if !ok {
			errs = append(errs, fmt.Errorf("race %q not found", choices.Race))
		} else {
			c.RaceID = r.ID
		}
	}
	if err := applyAttributeChoices(c, choices.Attributes); err != nil {
		errs = append(errs, err)
	}
	if err := applySkillChoices(c, choices.Skills); err != nil {
		errs = append(errs, err)
	}
	for _, e := range choices.Edges {
		name, specify := c.splitEdgeName(e)
		def, ok := c.lookupEdgeDef(0, name, nil)
		if !ok {
			errs = append(errs, fmt.Errorf("edge %q not found", e))
			continue
		}
		c.Edges = append(c.Edges, &Edge{ID: def.ID, Name: def.Name, Specify: specify, grantedAB: -1})
	}
	for _, h := range choices.Hindrances {
		name, paren := splitParens(h)
		def, ok := c.lookupHindranceDef(0, name, nil)
		if !ok {
			errs = append(errs, fmt.Errorf("hindrance %q not found", h))
			continue
		}
		major := catalog.NamesMatch(paren, catalog.SeverityMajor)
		if major || catalog.NamesMatch(paren, catalog.SeverityMinor) {
			paren = ""
		}
		c.Hindrances = append(c.Hindrances, &Hindrance{ID: def.ID, Name: def.Name, Specify: paren, Major: major})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	c.Recalc()
	return c, nil
}

// AttributeAbbrev returns the short display label for an attribute.
func AttributeAbbrev(name string) string {
	abbrevs := map[string]string{
		Agility:  "AGI",
		Smarts:   "SMA",
		Spirit:   "SPI",
		Strength: "STR",
		Vigor:    "VIG",
	}
	if a, ok := abbrevs[catalog.NormalizeName(name)]; ok {
		return a
	}
	return fmt.Sprintf("<%s>", name)
}

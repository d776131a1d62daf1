// Package catalog provides the read-only game content catalog: books, races,
// edges, hindrances, powers, arcane backgrounds, frameworks, settings, and
// purchasable equipment, loaded from YAML.
package catalog

import (
	"errors"
	"fmt"
)

// Definition is implemented by every catalog entry.
type Definition interface {
	Def() *Common
}

// Common holds the fields shared by every catalog entry.
type Common struct {
	ID      int      `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	BookID  int      `yaml:"book_id" json:"book_id,omitempty"`
	Summary string   `yaml:"summary" json:"summary,omitempty"`
	Effects []string `yaml:"effects" json:"effects,omitempty"`
}

// Def returns the shared fields of the entry.
func (c *Common) Def() *Common { return c }

func (c *Common) validate() []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.ID < 0 {
		errs = append(errs, fmt.Errorf("id must be >= 0, got %d", c.ID))
	}
	return errs
}

// Book is a published source of content.
type Book struct {
	ID    int    `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Short string `yaml:"short" json:"short,omitempty"`
	Core  bool   `yaml:"core" json:"core,omitempty"`
	// Registered marks books available to registered accounts; see LoadOptions.RegisteredOnly.
	Registered bool `yaml:"registered" json:"registered,omitempty"`
}

// Validate reports an error if the Book is missing required fields.
func (b *Book) Validate() error {
	if b.ID <= 0 {
		return fmt.Errorf("book %q: id must be > 0", b.Name)
	}
	if b.Name == "" {
		return fmt.Errorf("book %d: name must not be empty", b.ID)
	}
	return nil
}

// SkillDef defines a skill and its linked attribute.
type SkillDef struct {
	Common    `yaml:",inline"`
	Attribute string `yaml:"attribute" json:"attribute"`
	Core      bool   `yaml:"core" json:"core,omitempty"`
	Knowledge bool   `yaml:"knowledge" json:"knowledge,omitempty"`
	Language  bool   `yaml:"language" json:"language,omitempty"`
}

// Validate checks that the SkillDef names a linked attribute.
func (s *SkillDef) Validate() error {
	errs := s.validate()
	if s.Attribute == "" {
		errs = append(errs, errors.New("attribute must not be empty"))
	}
	return joinErrors("skill", errs)
}

// RaceAbility is one racial ability with its effect lines.
type RaceAbility struct {
	Name     string   `yaml:"name" json:"name"`
	Summary  string   `yaml:"summary" json:"summary,omitempty"`
	Effects  []string `yaml:"effects" json:"effects,omitempty"`
	Positive bool     `yaml:"positive" json:"positive,omitempty"`
}

// RaceDef defines a playable race.
type RaceDef struct {
	Common    `yaml:",inline"`
	Abilities []RaceAbility `yaml:"abilities" json:"abilities,omitempty"`
}

// Validate checks the race and each of its abilities.
func (r *RaceDef) Validate() error {
	errs := r.validate()
	for i, a := range r.Abilities {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("abilities[%d].name must not be empty", i))
		}
	}
	return joinErrors("race", errs)
}

// EdgeDef defines an edge.
type EdgeDef struct {
	Common           `yaml:",inline"`
	Rank             int      `yaml:"rank" json:"rank,omitempty"`
	Requirements     []string `yaml:"requirements" json:"requirements,omitempty"`
	ArcaneBackground string   `yaml:"arcane_background" json:"arcane_background,omitempty"`
	SpecifyRequired  bool     `yaml:"specify_required" json:"specify_required,omitempty"`
	Multiple         bool     `yaml:"multiple" json:"multiple,omitempty"`
	Group            string   `yaml:"group" json:"group,omitempty"`
}

// Validate checks the rank range.
func (e *EdgeDef) Validate() error {
	errs := e.validate()
	if e.Rank < 0 {
		errs = append(errs, errors.New("rank must be >= 0"))
	}
	return joinErrors("edge", errs)
}

// Hindrance severities.
const (
	SeverityMinor  = "minor"
	SeverityMajor  = "major"
	SeverityEither = "either"
)

// HindranceDef defines a hindrance.
type HindranceDef struct {
	Common          `yaml:",inline"`
	Severity        string `yaml:"severity" json:"severity"`
	SpecifyRequired bool   `yaml:"specify_required" json:"specify_required,omitempty"`
}

// Validate checks the severity value.
func (h *HindranceDef) Validate() error {
	errs := h.validate()
	switch h.Severity {
	case SeverityMinor, SeverityMajor, SeverityEither:
	default:
		errs = append(errs, fmt.Errorf("severity %q must be minor, major, or either", h.Severity))
	}
	return joinErrors("hindrance", errs)
}

// Limitation is a selectable power modifier from a power's limitation table.
type Limitation struct {
	Name     string `yaml:"name" json:"name"`
	Modifier int    `yaml:"modifier" json:"modifier"`
}

// PowerDef defines an arcane power.
type PowerDef struct {
	Common            `yaml:",inline"`
	Rank              int          `yaml:"rank" json:"rank,omitempty"`
	PowerPoints       int          `yaml:"power_points" json:"power_points"`
	Range             string       `yaml:"range" json:"range,omitempty"`
	Duration          string       `yaml:"duration" json:"duration,omitempty"`
	Trappings         string       `yaml:"trappings" json:"trappings,omitempty"`
	MegaCost          int          `yaml:"mega_cost" json:"mega_cost,omitempty"`
	AspectLimitations []Limitation `yaml:"aspect_limitations" json:"aspect_limitations,omitempty"`
	RangeLimitations  []Limitation `yaml:"range_limitations" json:"range_limitations,omitempty"`
}

// Validate checks the power point cost.
func (p *PowerDef) Validate() error {
	errs := p.validate()
	if p.PowerPoints < 0 {
		errs = append(errs, errors.New("power_points must be >= 0"))
	}
	return joinErrors("power", errs)
}

// ArcaneBackgroundDef defines an arcane background.
type ArcaneBackgroundDef struct {
	Common              `yaml:",inline"`
	ArcaneSkill         string   `yaml:"arcane_skill" json:"arcane_skill,omitempty"`
	SkillAttribute      string   `yaml:"skill_attribute" json:"skill_attribute,omitempty"`
	StartingPowers      int      `yaml:"starting_powers" json:"starting_powers"`
	StartingPowerPoints int      `yaml:"starting_power_points" json:"starting_power_points"`
	PowerList           []string `yaml:"power_list" json:"power_list,omitempty"`
	PowersCostPoints    bool     `yaml:"powers_cost_points" json:"powers_cost_points,omitempty"`
}

// Validate checks the starting pools.
func (a *ArcaneBackgroundDef) Validate() error {
	errs := a.validate()
	if a.StartingPowers < 0 {
		errs = append(errs, errors.New("starting_powers must be >= 0"))
	}
	if a.StartingPowerPoints < 0 {
		errs = append(errs, errors.New("starting_power_points must be >= 0"))
	}
	if a.ArcaneSkill != "" && a.SkillAttribute == "" {
		errs = append(errs, errors.New("skill_attribute is required with arcane_skill"))
	}
	return joinErrors("arcane background", errs)
}

// FrameworkDef defines a character framework (archetype package) or monster framework.
type FrameworkDef struct {
	Common     `yaml:",inline"`
	Monster    bool     `yaml:"monster" json:"monster,omitempty"`
	Edges      []string `yaml:"edges" json:"edges,omitempty"`
	Hindrances []string `yaml:"hindrances" json:"hindrances,omitempty"`
	Gear       []string `yaml:"gear" json:"gear,omitempty"`
	Cyberware  []string `yaml:"cyberware" json:"cyberware,omitempty"`
	// BaseStrain replaces the default full-conversion strain pool when > 0.
	BaseStrain int `yaml:"base_strain" json:"base_strain,omitempty"`
}

// Validate checks the framework.
func (f *FrameworkDef) Validate() error {
	errs := f.validate()
	if f.BaseStrain < 0 {
		errs = append(errs, errors.New("base_strain must be >= 0"))
	}
	return joinErrors("framework", errs)
}

func joinErrors(kind string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s validation failed: %v", kind, errs)
}

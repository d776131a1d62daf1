package catalog

import (
	"errors"
	"fmt"

	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// Location identifies a body location covered by armor.
type Location string

const (
	LocationHead  Location = "head"
	LocationFace  Location = "face"
	LocationTorso Location = "torso"
	LocationArms  Location = "arms"
	LocationLegs  Location = "legs"
)

// Locations lists every body location in display order.
var Locations = []Location{LocationHead, LocationFace, LocationTorso, LocationArms, LocationLegs}

var validLocations = map[Location]struct{}{
	LocationHead:  {},
	LocationFace:  {},
	LocationTorso: {},
	LocationArms:  {},
	LocationLegs:  {},
}

// Armor weight tiers used by the armor interference rule.
const (
	TierLight  = "light"
	TierMedium = "medium"
	TierHeavy  = "heavy"
)

// GearDef defines the static properties of a purchasable item.
type GearDef struct {
	Common `yaml:",inline"`
	Cost   int     `yaml:"cost" json:"cost"`
	Weight float64 `yaml:"weight" json:"weight,omitempty"`
	// Max limits how many may be owned; 0 means unlimited.
	Max int `yaml:"max" json:"max,omitempty"`
}

func (g *GearDef) validate() []error {
	errs := g.Common.validate()
	if g.Cost < 0 {
		errs = append(errs, errors.New("cost must be >= 0"))
	}
	if g.Weight < 0 {
		errs = append(errs, errors.New("weight must be >= 0"))
	}
	if g.Max < 0 {
		errs = append(errs, errors.New("max must be >= 0"))
	}
	return errs
}

// Validate reports an error if the GearDef is malformed.
func (g *GearDef) Validate() error {
	return joinErrors("gear", g.validate())
}

// WeaponDef defines a weapon.
type WeaponDef struct {
	GearDef     `yaml:",inline"`
	Damage      string `yaml:"damage" json:"damage"`
	AP          int    `yaml:"ap" json:"ap,omitempty"`
	Range       string `yaml:"range" json:"range,omitempty"`
	ROF         int    `yaml:"rof" json:"rof,omitempty"`
	MinStrength string `yaml:"min_strength" json:"min_strength,omitempty"`
	Parry       int    `yaml:"parry" json:"parry,omitempty"`
	Reach       int    `yaml:"reach" json:"reach,omitempty"`
	Shots       int    `yaml:"shots" json:"shots,omitempty"`
	TwoHanded   bool   `yaml:"two_handed" json:"two_handed,omitempty"`
}

// IsMelee reports whether the weapon has no range band.
func (w *WeaponDef) IsMelee() bool {
	return w.Range == ""
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	errs := w.GearDef.validate()
	if w.Damage == "" {
		errs = append(errs, errors.New("damage must not be empty"))
	}
	if w.MinStrength != "" {
		if _, err := dice.ParseDie(w.MinStrength); err != nil {
			errs = append(errs, fmt.Errorf("min_strength: %w", err))
		}
	}
	if w.ROF < 0 || w.Shots < 0 {
		errs = append(errs, errors.New("rof and shots must be >= 0"))
	}
	return joinErrors("weapon", errs)
}

// ArmorDef defines a piece of armor or a shield.
type ArmorDef struct {
	GearDef     `yaml:",inline"`
	Armor       int        `yaml:"armor" json:"armor"`
	Heavy       bool       `yaml:"heavy" json:"heavy,omitempty"`
	MinStrength string     `yaml:"min_strength" json:"min_strength,omitempty"`
	Covers      []Location `yaml:"covers" json:"covers,omitempty"`
	Stackable   bool       `yaml:"stackable" json:"stackable,omitempty"`
	Shield      bool       `yaml:"shield" json:"shield,omitempty"`
	Parry       int        `yaml:"parry" json:"parry,omitempty"`
	CoverBonus  int        `yaml:"cover_bonus" json:"cover_bonus,omitempty"`
	Tier        string     `yaml:"tier" json:"tier,omitempty"`
}

// Validate reports an error if the ArmorDef is missing required fields or contains illegal values.
// Precondition: def is non-nil.
// Postcondition: Returns nil iff the def is well-formed.
func (a *ArmorDef) Validate() error {
	errs := a.GearDef.validate()
	if a.Armor < 0 {
		errs = append(errs, errors.New("armor must be >= 0"))
	}
	for _, loc := range a.Covers {
		if _, ok := validLocations[loc]; !ok {
			errs = append(errs, fmt.Errorf("location %q is not a valid armor location", loc))
		}
	}
	if !a.Shield && a.Armor > 0 && len(a.Covers) == 0 {
		errs = append(errs, errors.New("covers must list at least one location"))
	}
	switch a.Tier {
	case "", TierLight, TierMedium, TierHeavy:
	default:
		errs = append(errs, fmt.Errorf("tier %q must be light, medium, or heavy", a.Tier))
	}
	if a.MinStrength != "" {
		if _, err := dice.ParseDie(a.MinStrength); err != nil {
			errs = append(errs, fmt.Errorf("min_strength: %w", err))
		}
	}
	return joinErrors("armor", errs)
}

// VehicleDef defines a vehicle.
type VehicleDef struct {
	GearDef   `yaml:",inline"`
	Size      int  `yaml:"size" json:"size,omitempty"`
	Handling  int  `yaml:"handling" json:"handling,omitempty"`
	TopSpeed  int  `yaml:"top_speed" json:"top_speed,omitempty"`
	Toughness int  `yaml:"toughness" json:"toughness"`
	Armor     int  `yaml:"armor" json:"armor,omitempty"`
	Crew      int  `yaml:"crew" json:"crew,omitempty"`
	Heavy     bool `yaml:"heavy" json:"heavy,omitempty"`
}

// Validate checks the vehicle.
func (v *VehicleDef) Validate() error {
	errs := v.GearDef.validate()
	if v.Toughness < 0 || v.Armor < 0 {
		errs = append(errs, errors.New("toughness and armor must be >= 0"))
	}
	return joinErrors("vehicle", errs)
}

// CyberwareDef defines a cybernetic implant.
type CyberwareDef struct {
	GearDef       `yaml:",inline"`
	Strain        int  `yaml:"strain" json:"strain"`
	MaxRanks      int  `yaml:"max_ranks" json:"max_ranks,omitempty"`
	CostTimesRank bool `yaml:"cost_times_rank" json:"cost_times_rank,omitempty"`
	ZeroStrain    bool `yaml:"zero_strain" json:"zero_strain,omitempty"`
}

// Validate checks the cyberware.
func (c *CyberwareDef) Validate() error {
	errs := c.GearDef.validate()
	if c.MaxRanks < 0 {
		errs = append(errs, errors.New("max_ranks must be >= 0"))
	}
	return joinErrors("cyberware", errs)
}

// RobotModDef defines a robot modification.
type RobotModDef struct {
	GearDef `yaml:",inline"`
	Mods    int `yaml:"mods" json:"mods"`
}

// Validate checks the robot mod.
func (r *RobotModDef) Validate() error {
	errs := r.GearDef.validate()
	if r.Mods < 0 {
		errs = append(errs, errors.New("mods must be >= 0"))
	}
	return joinErrors("robot mod", errs)
}

// TattooDef defines a Rifts magic tattoo.
type TattooDef struct {
	GearDef `yaml:",inline"`
	Kind    string `yaml:"kind" json:"kind,omitempty"`
}

// Validate checks the tattoo.
func (t *TattooDef) Validate() error {
	return joinErrors("tattoo", t.GearDef.validate())
}

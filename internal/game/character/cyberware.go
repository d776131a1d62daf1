package character

import (
	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

// IZ3 cyberware grades.
const (
	GradeGutterware = "gutterware"
	GradeStreetware = "streetware"
	GradeCustomware = "customware"
	GradeMilware    = "milware"
)

// IZ3 cyberware trappings.
const (
	TrappingBiotech   = "biotech"
	TrappingChemtech  = "chemtech"
	TrappingCybertech = "cybertech"
	TrappingGenetech  = "genetech"
	TrappingNanotech  = "nanotech"
)

// DefaultBorgStrain is the full-conversion strain pool when the framework sets none.
const DefaultBorgStrain = 20

// grade holds a cost multiplier in quarters and a strain modifier.
type grade struct {
	quarters int
	strain   int
}

var grades = map[string]grade{
	GradeGutterware: {quarters: 1, strain: 1},
	GradeStreetware: {quarters: 4, strain: 0},
	GradeCustomware: {quarters: 16, strain: -1},
	GradeMilware:    {quarters: 32, strain: -2},
}

// trappingBases is the base cost per point of strain.
var trappingBases = map[string]int{
	TrappingBiotech:   800,
	TrappingChemtech:  400,
	TrappingCybertech: 600,
	TrappingGenetech:  1000,
	TrappingNanotech:  1200,
}

// Cyberware is a cybernetic implant. Grade and Trapping only matter under the iz3_cyberware rule.
type Cyberware struct {
	Item
	Custom   *catalog.CyberwareDef `json:"custom,omitempty"`
	Ranks    int                   `json:"ranks,omitempty"`
	Grade    string                `json:"grade,omitempty"`
	Trapping string                `json:"trapping,omitempty"`

	def catalog.CyberwareDef
}

func (cw *Cyberware) kind() ItemKind { return KindCyberware }
func (cw *Cyberware) gearDef() *catalog.GearDef { return &cw.def.GearDef }

// Def returns the bound definition.
func (cw *Cyberware) Def() *catalog.CyberwareDef { return &cw.def }

func (cw *Cyberware) ranks() int {
	if cw.Ranks < 1 {
		return 1
	}
	return cw.Ranks
}

func (cw *Cyberware) rankMultiplier() int {
	if cw.def.CostTimesRank {
		return cw.ranks()
	}
	return 1
}

func (cw *Cyberware) grade(ctx Context) grade {
	if !ctx.SettingIsEnabled(catalog.RuleIZ3Cyberware) {
		return grades[GradeStreetware]
	}
	if g, ok := grades[catalog.NormalizeName(cw.Grade)]; ok {
		return g
	}
	return grades[GradeStreetware]
}

func (cw *Cyberware) trappingBase(ctx Context) int {
	if !ctx.SettingIsEnabled(catalog.RuleIZ3Cyberware) {
		return 0
	}
	return trappingBases[catalog.NormalizeName(cw.Trapping)]
}

// Strain is the strain of one unit: per-rank strain plus the grade modifier.
// It floors at 1 unless the implant allows zero strain.
func (cw *Cyberware) Strain(ctx Context) int {
	s := cw.def.Strain*cw.ranks() + cw.grade(ctx).strain
	if !cw.def.ZeroStrain && s < 1 {
		return 1
	}
	return s
}

// TotalStrain is Strain times quantity.
func (cw *Cyberware) TotalStrain(ctx Context) int {
	return cw.Strain(ctx) * cw.Qty()
}

// Cost is the price of one unit: the graded buy cost plus the trapping base
// for the unit's graded strain.
func (cw *Cyberware) Cost(ctx Context) int {
	g := cw.grade(ctx)
	return cw.def.Cost*cw.rankMultiplier()*g.quarters/4 + cw.trappingBase(ctx)*cw.Strain(ctx)
}

// TotalBuyCost is the price of the whole purchase: the trapping base for the
// listed strain plus the graded buy cost of every unit.
//
// Postcondition: equals def.Cost*Qty*rankMultiplier without the iz3_cyberware rule.
func (cw *Cyberware) TotalBuyCost(ctx Context) int {
	g := cw.grade(ctx)
	return cw.trappingBase(ctx)*cw.def.Strain + cw.def.Cost*cw.Qty()*cw.rankMultiplier()*g.quarters/4
}

// TotalCost satisfies purchase.
func (cw *Cyberware) TotalCost(ctx Context) int { return cw.TotalBuyCost(ctx) }

// Strain totals the strain borne from cyberware. Under full_conversion_borg only
// purchased implants draw on the pool; framework implants are part of the body.
func (c *Character) Strain() int {
	borg := c.SettingIsEnabled(catalog.RuleFullConversionBorg)
	total := 0
	for _, cw := range c.Cyberware {
		if cw.def.Name != "" {
			total += cw.TotalStrain(c)
		}
	}
	if !borg {
		for _, cw := range c.frameworkCyber {
			total += cw.TotalStrain(c)
		}
	}
	return total
}

// MaxStrain is the strain the character can bear: half the sum of the Spirit and
// Vigor die sides in additive mode, or the borg pool under full_conversion_borg.
// Either way the strain bonus is added.
func (c *Character) MaxStrain() int {
	if c.SettingIsEnabled(catalog.RuleFullConversionBorg) {
		pool := c.baseStrain()
		if pool == 0 {
			pool = DefaultBorgStrain
		}
		return pool + c.derived.Strain
	}
	spirit := c.Attributes.Get(Spirit).Current().Sides()
	vigor := c.Attributes.Get(Vigor).Current().Sides()
	return (spirit+vigor)/2 + c.derived.Strain
}

package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/dice"
	"github.com/Savaged-us/core-sub000/internal/game/requirement"
)

// Severity orders validation messages; the character's ValidLevel is the maximum.
type Severity int

const (
	NoMessage Severity = iota
	Information
	Warning
	Error
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case Information:
		return "information"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "none"
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ValidationMessage is one rules finding. GoURL optionally points the UI at the page that fixes it.
type ValidationMessage struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	GoURL    string   `json:"go_url,omitempty"`
}

// Validation page anchors used in GoURL.
const (
	urlTraits     = "/traits"
	urlEdges      = "/edges"
	urlHindrances = "/hindrances"
	urlPowers     = "/powers"
	urlGear       = "/gear"
	urlAdvances   = "/advances"
)

// ValidationMessages returns the findings of the last Calc.
func (c *Character) ValidationMessages() []ValidationMessage { return c.validation }

// ValidLevel returns the highest severity among the last Calc's findings.
func (c *Character) ValidLevel() Severity { return c.validLevel }

func (c *Character) report(sev Severity, url, format string, args ...any) {
	c.validation = append(c.validation, ValidationMessage{
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
		GoURL:    url,
	})
	if sev > c.validLevel {
		c.validLevel = sev
	}
}

// validate walks the resolved aggregate and records findings. It does not modify derived stats.
func (c *Character) validate() {
	c.validation = nil
	c.validLevel = NoMessage

	c.validateTraits()
	c.validateEdges()
	c.validateHindrances()
	c.validateArcane()
	c.validateEquipment()
	c.validateAdvancements()
}

func (c *Character) validateTraits() {
	if used, avail := c.AttributePointsUsed(), c.AttributePointsAvailable(); used > avail {
		c.report(Error, urlTraits, "%d attribute points spent, only %d available", used, avail)
	}
	if used, avail := c.SkillPointsUsed(), c.SkillPointsAvailable(); used > avail {
		c.report(Error, urlTraits, "%d skill points spent, only %d available", used, avail)
	}
	c.Attributes.each(func(name string, a *Attribute) {
		if !a.hasHard && a.Current() > a.Max() {
			c.report(Error, urlTraits, "%s %s is above its maximum %s", name, a.Current(), a.Max())
		}
	})
	for _, s := range c.Skills {
		if v := dice.Die(s.base() + s.Assigned + s.boost + s.advanceBoost + s.superBoost); v > s.Max() {
			c.report(Error, urlTraits, "%s %s is above its maximum %s", s.Name, v, s.Max())
		}
	}
}

// requirementContext snapshots the character for requirement lines, counting only
// edges taken at or before rank and leaving out skip.
func (c *Character) requirementContext(rank int, skip *Edge) requirement.Context {
	ctx := requirement.Context{
		Rank:         rank,
		WildCard:     c.WildCard,
		Attributes:   make(map[string]dice.Die, len(AttributeNames)),
		Skills:       make(map[string]dice.Die, len(c.Skills)),
		SettingRules: c.setting.Rules(),
	}
	for _, n := range AttributeNames {
		ctx.Attributes[n] = c.AttributeCurrent(n)
	}
	for _, s := range c.Skills {
		ctx.Skills[s.Name] = s.Value()
	}
	for _, e := range c.allEdges() {
		if e == skip || e.def == nil || e.rank > rank {
			continue
		}
		ctx.Edges = append(ctx.Edges, e.baseName())
	}
	for _, h := range c.allHindrances() {
		if h.def != nil && !h.removed {
			ctx.Hindrances = append(ctx.Hindrances, h.baseName())
		}
	}
	for _, ab := range c.ArcaneBackgrounds {
		if ab != nil && ab.active {
			ctx.ArcaneBackgrounds = append(ctx.ArcaneBackgrounds, ab.DisplayName())
		}
	}
	return ctx
}

func (c *Character) validateEdges() {
	charRank := c.Rank()
	for _, e := range c.allEdges() {
		if e.def == nil {
			continue
		}
		if e.def.SpecifyRequired && e.Specify == "" {
			c.report(Warning, urlEdges, "%s needs a specification", e.DisplayName())
		}
		// Granted edges ignore requirements; advance edges are checked at the rank they were taken.
		if e.addedFrom != "" && !e.fromAdvance {
			continue
		}
		rank := charRank
		if e.fromAdvance {
			rank = e.rank
		}
		if e.def.Rank > rank {
			c.report(Error, urlEdges, "%s requires %s rank", e.DisplayName(), RankName(e.def.Rank))
		}
		if len(e.def.Requirements) == 0 || c.eng.reqs == nil {
			continue
		}
		unmet, errs := c.eng.reqs.Unmet(e.def.Requirements, c.requirementContext(rank, e))
		for _, line := range unmet {
			c.report(Error, urlEdges, "%s requires %s", e.DisplayName(), line)
		}
		for _, err := range errs {
			c.logger().Warn("requirement not evaluated", zap.String("edge", e.DisplayName()), zap.Error(err))
			c.report(Warning, urlEdges, "%s has a requirement that could not be checked: %v", e.DisplayName(), err)
		}
	}
}

func (c *Character) validateHindrances() {
	if pts := c.HindrancePoints(); pts > MaxHindrancePoints {
		c.report(Warning, urlHindrances, "%d hindrance points taken, the maximum is %d", pts, MaxHindrancePoints)
	}
	for _, h := range c.allHindrances() {
		if h.def != nil && h.def.SpecifyRequired && h.Specify == "" {
			c.report(Warning, urlHindrances, "%s needs a specification", h.DisplayName())
		}
	}
}

func (c *Character) validateArcane() {
	rank := c.Rank()
	for _, ab := range c.ArcaneBackgrounds {
		if ab == nil || !ab.active || ab.def == nil {
			continue
		}
		name := ab.DisplayName()
		if pp := ab.PowerPoints(); pp < 0 {
			c.report(Error, urlPowers, "%s is %d power points over its pool", name, -pp)
		}
		if left := ab.PowerSlotsLeft(); left < 0 {
			c.report(Error, urlPowers, "%s has %d more powers than it allows", name, -left)
		}
		for _, p := range ab.Powers() {
			if p.def == nil {
				continue
			}
			if p.addedFrom == "" && !ab.AllowsPower(p.def.Name) {
				c.report(Warning, urlPowers, "%s is not on the %s power list", p.DisplayName(), name)
			}
			if p.def.Rank > rank {
				c.report(Error, urlPowers, "%s requires %s rank", p.DisplayName(), RankName(p.def.Rank))
			}
		}
	}
}

func (c *Character) validateEquipment() {
	for _, kind := range []ItemKind{KindGear, KindWeapon, KindArmor, KindVehicle, KindCyberware, KindRobotMod, KindTattoo} {
		for _, s := range c.UniquePurchased(kind) {
			if s.Max > 0 && s.Quantity > s.Max {
				c.report(Error, urlGear, "%s: %d owned, at most %d allowed", s.Name, s.Quantity, s.Max)
			}
		}
	}
	for _, w := range c.Weapons {
		if w.def.Name != "" && !w.MeetsMinStrength(c) {
			c.report(Information, urlGear, "%s needs Strength %s", w.Name, w.def.MinStrength)
		}
	}
	for _, a := range c.Armor {
		if a.Equipped && a.def.Name != "" && !a.MeetsMinStrength(c) {
			c.report(Information, urlGear, "%s needs Strength %s", a.Name, a.def.MinStrength)
		}
	}
	for _, cw := range c.Cyberware {
		if cw.def.MaxRanks > 0 && cw.ranks() > cw.def.MaxRanks {
			c.report(Error, urlGear, "%s has %d ranks, at most %d allowed", cw.Name, cw.ranks(), cw.def.MaxRanks)
		}
	}
	if len(c.Cyberware) > 0 || len(c.frameworkCyber) > 0 {
		if strain, limit := c.Strain(), c.MaxStrain(); strain > limit {
			c.report(Error, urlGear, "cyberware strain %d exceeds the maximum of %d", strain, limit)
		}
	}
	if used, slots := c.ModSlotsUsed(), c.ModSlots(); used > slots {
		c.report(Error, urlGear, "robot mods use %d slots, only %d available", used, slots)
	}
	if w := c.Wealth(); w < 0 {
		c.report(Warning, urlGear, "purchases exceed funds by %d", -w)
	}
	if c.armor.heavyMismatch {
		c.report(Warning, urlGear, "worn armor that is not %s is ignored over heavy natural armor", c.heavyLabel()[1:])
	}
	if c.interference > 0 {
		c.report(Information, urlGear, "worn armor imposes a -%d penalty to Agility and Agility skills", c.interference)
	}
	if load := c.CarriedWeight(); load > float64(c.LoadLimit()) {
		c.report(Information, urlGear, "carrying %.1f lbs exceeds the load limit of %d", load, c.LoadLimit())
	}
}

func (c *Character) validateAdvancements() {
	for i, adv := range c.unlockedAdvancements() {
		if adv == nil {
			continue
		}
		for _, p := range adv.problems {
			c.report(Error, urlAdvances, "Advance #%d: %s", i+1, p)
		}
	}
	if c.AdvanceCount > len(c.Advancements) {
		c.report(Information, urlAdvances, "%d advances unlocked, %d chosen", c.AdvanceCount, len(c.Advancements))
	}
}

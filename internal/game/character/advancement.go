package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// AdvancementType tags what an advance buys.
type AdvancementType string

const (
	AdvanceEmpty                AdvancementType = ""
	AdvanceAttribute            AdvancementType = "attribute"
	AdvanceEdge                 AdvancementType = "edge"
	AdvanceNewSkill             AdvancementType = "new_skill"
	AdvanceRaiseSkillAbove      AdvancementType = "raise_skill_above"
	AdvanceRaiseSkillsBelow     AdvancementType = "raise_skills_below"
	AdvanceLowerHindrance       AdvancementType = "swade_lower_hindrance"
	AdvanceRemoveMajorHindrance AdvancementType = "swade_remove_major_hindrance"
	AdvanceSkillSpecializations AdvancementType = "add_skill_specializations"
)

// MaxAdvancementTargets bounds the free-text parameters of one advance.
const MaxAdvancementTargets = 10

// Rank numbers.
const (
	RankNovice = iota
	RankSeasoned
	RankVeteran
	RankHeroic
	RankLegendary
)

var rankNames = []string{"Novice", "Seasoned", "Veteran", "Heroic", "Legendary"}

// RankForAdvance returns the rank at which advance index i is taken.
// Four advances per rank through Heroic, then two per Legendary tier.
func RankForAdvance(i int) int {
	if i < 0 {
		return RankNovice
	}
	if i < 15 {
		return (i + 1) / 4
	}
	return (i-15)/2 + RankLegendary
}

// LegendaryTier returns the Legendary tier of advance index i, or 0 below Legendary.
func LegendaryTier(i int) int {
	if i < 15 {
		return 0
	}
	return (i-15)/2 + 1
}

// RankName returns the display name of rank; every rank past Heroic is Legendary.
func RankName(rank int) string {
	if rank < 0 {
		rank = 0
	}
	if rank >= RankLegendary {
		return rankNames[RankLegendary]
	}
	return rankNames[rank]
}

// Advancement is one advance slot.
type Advancement struct {
	Type    AdvancementType `json:"type"`
	Targets []string        `json:"targets,omitempty"`

	state    applyState
	skills   map[string]dice.Die
	attrs    map[string]dice.Die
	edge     *Edge
	problems []string
}

// Target returns the i-th parameter, or "".
func (a *Advancement) Target(i int) string {
	if i < 0 || i >= len(a.Targets) {
		return ""
	}
	return a.Targets[i]
}

// RequiresTwoSlots reports whether the advance also consumes the slot before it.
func (a *Advancement) RequiresTwoSlots() bool {
	return a.Type == AdvanceRemoveMajorHindrance
}

// Problems returns the rule violations found when the advance was applied.
func (a *Advancement) Problems() []string { return a.problems }

func (a *Advancement) reset() {
	a.state = unapplied
	a.skills, a.attrs = nil, nil
	a.edge = nil
	a.problems = nil
}

func (a *Advancement) problem(format string, args ...any) {
	a.problems = append(a.problems, fmt.Sprintf(format, args...))
}

// Describe renders the advance for display, e.g. "Edge: Quick".
func (a *Advancement) Describe() string {
	switch a.Type {
	case AdvanceEmpty:
		return ""
	case AdvanceAttribute:
		return "Raise attribute: " + a.Target(0)
	case AdvanceEdge:
		return "Edge: " + a.Target(0)
	case AdvanceNewSkill:
		return joinTargets("New skills: ", a.Targets)
	case AdvanceRaiseSkillAbove:
		return "Raise skill: " + a.Target(0)
	case AdvanceRaiseSkillsBelow:
		return joinTargets("Raise skills: ", a.Targets)
	case AdvanceLowerHindrance:
		return "Lower hindrance: " + a.Target(0)
	case AdvanceRemoveMajorHindrance:
		return "Remove major hindrance: " + a.Target(0)
	case AdvanceSkillSpecializations:
		if len(a.Targets) > 1 {
			return joinTargets(a.Target(0)+" specializations: ", a.Targets[1:])
		}
		return a.Target(0) + " specializations"
	}
	return string(a.Type)
}

func joinTargets(prefix string, targets []string) string {
	out := prefix
	n := 0
	for _, t := range targets {
		if t == "" {
			continue
		}
		if n > 0 {
			out += ", "
		}
		out += t
		n++
	}
	return out
}

// Rank returns the rank the character has reached: the rank of the last unlocked advance.
func (c *Character) Rank() int {
	if c.AdvanceCount <= 0 {
		return RankNovice
	}
	return RankForAdvance(c.AdvanceCount - 1)
}

// unlockedAdvancements returns the advances Calc applies.
func (c *Character) unlockedAdvancements() []*Advancement {
	n := c.AdvanceCount
	if n > len(c.Advancements) {
		n = len(c.Advancements)
	}
	if n < 0 {
		n = 0
	}
	return c.Advancements[:n]
}

// applyHindranceBuyOffs applies hindrance buy-off advances before hindrance
// effects run, so bought-off hindrances do not apply.
func (c *Character) applyHindranceBuyOffs() {
	for i, adv := range c.unlockedAdvancements() {
		if adv == nil || adv.state != unapplied {
			continue
		}
		switch adv.Type {
		case AdvanceLowerHindrance:
			if !c.RemoveOrLowerHindrance(adv.Target(0)) {
				adv.problem("no hindrance named %q to lower", adv.Target(0))
			}
		case AdvanceRemoveMajorHindrance:
			c.checkTwoSlots(i, adv)
			if !c.removeMajorHindrance(adv.Target(0)) {
				adv.problem("no major hindrance named %q to remove", adv.Target(0))
			}
		default:
			continue
		}
		adv.state = applied
	}
}

func (c *Character) removeMajorHindrance(name string) bool {
	for _, h := range c.allHindrances() {
		if h.removed || !catalog.NamesMatch(h.baseName(), name) {
			continue
		}
		if h.def == nil {
			c.bindHindrance(h)
		}
		if !h.IsMajor() {
			return false
		}
		return c.removeHindrance(name)
	}
	return false
}

// checkTwoSlots records a problem unless the slot before i exists and is empty.
func (c *Character) checkTwoSlots(i int, adv *Advancement) {
	if i == 0 {
		adv.problem("%s needs the advance before it, and this is the first advance", adv.Type)
		return
	}
	if prev := c.Advancements[i-1]; prev != nil && prev.Type != AdvanceEmpty {
		adv.problem("%s needs the advance before it to be left empty", adv.Type)
	}
}

// snapshot records skill and attribute dice before the advance applies, so
// later advances cannot retroactively invalidate it.
func (c *Character) snapshot(adv *Advancement) {
	adv.skills = make(map[string]dice.Die, len(c.Skills))
	for _, s := range c.Skills {
		adv.skills[catalog.NormalizeName(s.Name)] = s.Value()
	}
	adv.attrs = make(map[string]dice.Die, len(AttributeNames))
	for _, n := range AttributeNames {
		adv.attrs[n] = c.AttributeCurrent(n)
	}
}

func (c *Character) snapshotSkill(adv *Advancement, s *Skill) (dice.Die, dice.Die) {
	v := adv.skills[catalog.NormalizeName(s.Name)]
	linked, ok := adv.attrs[s.attribute]
	if !ok {
		linked = dice.D12
	}
	return v, linked
}

// applyAdvancements applies every unlocked advance that has not applied yet, in order.
func (c *Character) applyAdvancements() {
	attrRaises := make(map[int]int)
	for i, adv := range c.unlockedAdvancements() {
		if adv == nil {
			continue
		}
		rank := RankForAdvance(i)
		if adv.Type == AdvanceAttribute {
			attrRaises[rank]++
			if attrRaises[rank] > 1 && adv.state == unapplied {
				adv.problem("only one attribute may be raised per rank (%s)", RankName(rank))
			}
		}
		if adv.state != unapplied {
			continue
		}
		if len(adv.Targets) > MaxAdvancementTargets {
			adv.problem("at most %d targets, got %d", MaxAdvancementTargets, len(adv.Targets))
		}
		c.snapshot(adv)
		c.applyAdvancement(i, rank, adv)
		adv.state = applied
	}
}

func (c *Character) applyAdvancement(i, rank int, adv *Advancement) {
	label := fmt.Sprintf("Advance #%d", i+1)
	switch adv.Type {
	case AdvanceEmpty:
	case AdvanceAttribute:
		a := c.Attributes.Get(adv.Target(0))
		if a == nil {
			adv.problem("unknown attribute %q", adv.Target(0))
			return
		}
		a.advances++
		if a.Current() > a.Max() {
			adv.problem("%s is already at its maximum", adv.Target(0))
		}
	case AdvanceEdge:
		name, specify := c.splitEdgeName(adv.Target(0))
		e := c.addEdgeByName(name, specify, label, rank)
		if e == nil {
			adv.problem("unknown edge %q", adv.Target(0))
			return
		}
		if e.addedFrom != label {
			adv.problem("already has edge %q", e.DisplayName())
			return
		}
		e.fromAdvance = true
		e.rank = rank
		adv.edge = e
	case AdvanceNewSkill:
		n := 0
		for _, name := range adv.Targets {
			if name == "" {
				continue
			}
			s := c.ensureSkill(name, label)
			if s == nil {
				adv.problem("unknown skill %q", name)
				continue
			}
			s.advanceBoost++
			n++
		}
		if n == 0 {
			adv.problem("no skill chosen")
		}
	case AdvanceRaiseSkillAbove:
		s := c.Skill(adv.Target(0))
		if s == nil {
			adv.problem("unknown skill %q", adv.Target(0))
			return
		}
		if v, linked := c.snapshotSkill(adv, s); v < linked {
			adv.problem("%s (%s) is below its attribute (%s); raise two skills instead", s.Name, v, linked)
		}
		s.advanceBoost++
	case AdvanceRaiseSkillsBelow:
		n := 0
		for _, name := range adv.Targets {
			if name == "" {
				continue
			}
			if n == 2 {
				adv.problem("at most two skills may be raised")
				break
			}
			s := c.Skill(name)
			if s == nil {
				adv.problem("unknown skill %q", name)
				continue
			}
			if v, linked := c.snapshotSkill(adv, s); v >= linked {
				adv.problem("%s (%s) is not below its attribute (%s)", s.Name, v, linked)
			}
			s.advanceBoost++
			n++
		}
	case AdvanceLowerHindrance, AdvanceRemoveMajorHindrance:
		// applied before hindrance effects by applyHindranceBuyOffs
	case AdvanceSkillSpecializations:
		s := c.ensureSkill(adv.Target(0), label)
		if s == nil {
			adv.problem("unknown skill %q", adv.Target(0))
			return
		}
		for _, name := range adv.Targets[1:] {
			if name != "" {
				s.advSpecialties = append(s.advSpecialties, &Specialty{Name: name, Assigned: int(dice.D4), fromAdvance: true})
			}
		}
	default:
		c.logger().Warn("unknown advancement type",
			zap.String("type", string(adv.Type)),
			zap.Int("advance", i+1),
		)
		adv.problem("unknown advancement type %q", adv.Type)
	}
}

// AdvanceEntry is one advance as shown to renderers.
type AdvanceEntry struct {
	Number        int
	Rank          int
	RankName      string
	LegendaryTier int
	Type          AdvancementType
	Description   string
	Problems      []string
}

// Advances lists every unlocked advance with its rank and problems.
func (c *Character) Advances() []AdvanceEntry {
	var out []AdvanceEntry
	for i, adv := range c.unlockedAdvancements() {
		if adv == nil {
			continue
		}
		rank := RankForAdvance(i)
		out = append(out, AdvanceEntry{
			Number:        i + 1,
			Rank:          rank,
			RankName:      RankName(rank),
			LegendaryTier: LegendaryTier(i),
			Type:          adv.Type,
			Description:   adv.Describe(),
			Problems:      adv.Problems(),
		})
	}
	return out
}

package character

import (
	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// BaseSkillPoints is the creation budget before bonuses.
const BaseSkillPoints = 12

// DefaultNativeLanguage names the implicit native specialty when the setting does not.
const DefaultNativeLanguage = "Native Language"

// Specialty is one knowledge area or language under a skill.
type Specialty struct {
	Name string `json:"name"`
	// Assigned is the die ordinal bought with skill points (1 = d4).
	Assigned int `json:"assigned"`

	boost       int
	free        dice.Die
	native      bool
	fromAdvance bool
}

// Value returns the specialty die.
func (s *Specialty) Value() dice.Die {
	v := dice.Die(s.Assigned + s.boost)
	if v < s.free {
		v = s.free
	}
	return v
}

// Native reports whether this is the implicit native language.
func (s *Specialty) Native() bool { return s.native }

// Skill is one skill row. Name, Assigned, and Specialties are authored; the rest is derived.
type Skill struct {
	Name string `json:"name"`
	// Assigned is the number of steps bought with skill points.
	Assigned    int          `json:"assigned,omitempty"`
	Specialties []*Specialty `json:"specialties,omitempty"`

	def       *catalog.SkillDef
	attribute string
	core      bool
	knowledge bool
	language  bool

	boost        int
	bonus        int
	advanceBoost int
	superBoost   int
	min          dice.Die
	maxBoost     int

	// transient rows were created by effects this pass and are dropped on reset.
	transient      bool
	addedFrom      string
	native         *Specialty
	nativeAt       int
	advSpecialties []*Specialty
}

func (s *Skill) base() int {
	if s.core {
		return 1
	}
	return 0
}

// Value returns the skill die clamped to its minimum and maximum.
func (s *Skill) Value() dice.Die {
	v := dice.Die(s.base() + s.Assigned + s.boost + s.advanceBoost + s.superBoost)
	if v < s.min {
		v = s.min
	}
	if m := s.Max(); v > m {
		v = m
	}
	return v
}

// Max returns the highest die the skill may reach.
func (s *Skill) Max() dice.Die { return dice.D12.Raise(s.maxBoost) }

// Bonus returns the flat roll bonus.
func (s *Skill) Bonus() int { return s.bonus }

// LinkedAttribute returns the governing attribute name.
func (s *Skill) LinkedAttribute() string { return s.attribute }

// IsCore reports whether the skill starts at d4 for free.
func (s *Skill) IsCore() bool { return s.core }

func (s *Skill) reset() {
	s.def = nil
	s.attribute, s.core, s.knowledge, s.language = "", false, false, false
	s.boost, s.bonus, s.advanceBoost, s.superBoost, s.maxBoost = 0, 0, 0, 0, 0
	s.min = dice.Untrained
	s.addedFrom = ""
	s.native, s.nativeAt = nil, 0
	s.advSpecialties = nil
	for _, sp := range s.Specialties {
		sp.boost, sp.free = 0, 0
	}
}

// AllSpecialties returns authored and advance specialties with the native
// language inserted at its index unless hideNative is set.
func (s *Skill) AllSpecialties(hideNative bool) []*Specialty {
	out := make([]*Specialty, 0, len(s.Specialties)+len(s.advSpecialties)+1)
	out = append(out, s.Specialties...)
	out = append(out, s.advSpecialties...)
	if s.native == nil || hideNative {
		return out
	}
	return insertAt(out, s.native, s.nativeAt)
}

// Specialties returns the named skill's specialties as the setting shows them:
// the native language is left out when the setting hides it. It returns nil
// when the character lacks the skill.
func (c *Character) Specialties(skill string) []*Specialty {
	s := c.Skill(skill)
	if s == nil {
		return nil
	}
	return s.AllSpecialties(c.SettingIsEnabled(catalog.RuleHideNativeLanguage))
}

func insertAt(list []*Specialty, sp *Specialty, idx int) []*Specialty {
	if idx < 0 || idx > len(list) {
		idx = len(list)
	}
	list = append(list, nil)
	copy(list[idx+1:], list[idx:])
	list[idx] = sp
	return list
}

// Skill returns the skill row named name, or nil.
func (c *Character) Skill(name string) *Skill {
	want := catalog.NormalizeName(name)
	for _, s := range c.Skills {
		if catalog.NormalizeName(s.Name) == want {
			return s
		}
	}
	return nil
}

// SkillValue returns the named skill's die, or Untrained if the character lacks it.
func (c *Character) SkillValue(name string) dice.Die {
	if s := c.Skill(name); s != nil {
		return s.Value()
	}
	return dice.Untrained
}

func (c *Character) bindSkill(s *Skill) {
	def, ok := c.cat().Skill(s.Name)
	if !ok {
		return
	}
	d := *def
	s.def = &d
	s.Name = d.Name
	s.attribute = catalog.NormalizeName(d.Attribute)
	s.core = d.Core
	s.knowledge = d.Knowledge
	s.language = d.Language
}

// ensureSkill returns the row for name, creating a transient row from the catalog when missing.
func (c *Character) ensureSkill(name, from string) *Skill {
	if s := c.Skill(name); s != nil {
		return s
	}
	if _, ok := c.cat().Skill(name); !ok {
		c.logger().Warn("unknown skill",
			zap.String("skill", name),
			zap.String("from", from),
		)
		return nil
	}
	s := &Skill{Name: name, transient: true, addedFrom: from}
	s.reset()
	s.addedFrom = from
	c.bindSkill(s)
	c.Skills = append(c.Skills, s)
	return s
}

// AssignSkill sets the die bought for the named skill with skill points.
//
// Precondition: the skill must exist in the catalog.
// Postcondition: returns false when the skill is unknown or die is below the skill's free base.
func (c *Character) AssignSkill(name string, die dice.Die) bool {
	s := c.ensureSkill(name, "")
	if s == nil {
		return false
	}
	if s.def == nil {
		c.bindSkill(s)
	}
	steps := int(die) - s.base()
	if steps < 0 {
		return false
	}
	s.Assigned = steps
	s.transient = false
	s.addedFrom = ""
	return true
}

// AddSpecialty adds a knowledge or language specialty at die under the named skill.
func (c *Character) AddSpecialty(skill, name string, die dice.Die) bool {
	s := c.ensureSkill(skill, "")
	if s == nil || name == "" {
		return false
	}
	s.transient = false
	for _, sp := range s.Specialties {
		if catalog.NamesMatch(sp.Name, name) {
			sp.Assigned = int(die)
			return true
		}
	}
	s.Specialties = append(s.Specialties, &Specialty{Name: name, Assigned: int(die)})
	return true
}

// switchAttribute re-links skill to attr. With onlyIfHigher the link changes only
// when attr's current die is at least the current linked attribute's die.
func (c *Character) switchAttribute(skill, attr string, onlyIfHigher bool) bool {
	s := c.Skill(skill)
	if s == nil || !IsAttribute(attr) {
		return false
	}
	attr = catalog.NormalizeName(attr)
	if onlyIfHigher && s.attribute != "" && c.AttributeCurrent(attr) < c.AttributeCurrent(s.attribute) {
		return false
	}
	s.attribute = attr
	return true
}

func (c *Character) languageSkill() *Skill {
	for _, s := range c.Skills {
		if s.language {
			return s
		}
	}
	for _, def := range c.cat().Skills(c.books()) {
		if def.Language {
			return c.ensureSkill(def.Name, "Languages")
		}
	}
	return nil
}

// resolveSkills grants the native language and linguist minimums, then totals point usage.
func (c *Character) resolveSkills() {
	if c.calcLanguages && c.SettingIsEnabled(catalog.RuleLanguages) {
		if ls := c.languageSkill(); ls != nil {
			name := c.setting.NativeLanguage()
			ls.native = &Specialty{Name: name, native: true, free: dice.D8}
			ls.nativeAt = c.setting.NativeLanguageIndex()
		}
	}
	if c.linguist {
		if ls := c.languageSkill(); ls != nil {
			n := c.AttributeCurrent(Smarts).Sides() / 2
			for _, sp := range ls.Specialties {
				if n == 0 {
					break
				}
				if sp.free < dice.D6 {
					sp.free = dice.D6
				}
				n--
			}
		}
	}

	used := 0
	for _, s := range c.Skills {
		used += c.skillCost(s)
	}
	c.skillPointsUsed = used
}

// skillCost prices the assigned steps of s and its specialties: 1 per step up to
// the linked attribute, 2 above it. Steps covered by a minimum or free die cost nothing.
func (c *Character) skillCost(s *Skill) int {
	linked := c.AttributeCurrent(s.attribute)
	if s.attribute == "" {
		linked = dice.D12
	}
	total := 0

	start := dice.Die(s.base() + s.boost)
	for j := 0; j < s.Assigned; j++ {
		to := start.Raise(j + 1)
		if to <= s.min {
			continue
		}
		total += stepCost(to, linked)
	}

	for _, sp := range s.Specialties {
		begin := dice.Die(sp.boost)
		for j := 0; j < sp.Assigned; j++ {
			to := begin.Raise(j + 1)
			if to <= sp.free {
				continue
			}
			total += stepCost(to, linked)
		}
	}
	return total
}

func stepCost(to, linked dice.Die) int {
	if to <= linked {
		return 1
	}
	return 2
}

// SkillPointsAvailable is the creation budget for skills.
func (c *Character) SkillPointsAvailable() int {
	return BaseSkillPoints + c.derived.SkillPoints
}

// SkillPointsUsed is the number of skill points spent in the last Calc.
func (c *Character) SkillPointsUsed() int {
	return c.skillPointsUsed
}

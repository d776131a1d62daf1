package character

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
	"github.com/Savaged-us/core-sub000/internal/game/modline"
	"github.com/Savaged-us/core-sub000/internal/scripting"
)

// effectSource describes who is applying a batch of modifiers.
type effectSource struct {
	label string
	sel   Selection
	// abIndex routes power_points and powers to one arcane background; -1 means the first active one.
	abIndex int
	// super sends trait steps to the super-power column of skills.
	super bool
}

func source(label string) effectSource {
	return effectSource{label: label, abIndex: -1}
}

func (s Selection) lookup(placeholder string) string {
	switch placeholder {
	case modline.SelectedAttribute:
		return s.Attribute
	case modline.SelectedSkill:
		return s.Skill
	case modline.SelectedTrait:
		if s.Trait != "" {
			return s.Trait
		}
		if s.Skill != "" {
			return s.Skill
		}
		return s.Attribute
	case modline.SelectedEdge:
		return s.Edge
	}
	return ""
}

// passKind selects which modifiers of a batch apply.
type passKind int

const (
	passAll passKind = iota
	passPre
	passFull
)

func (p passKind) includes(m modline.Modifier) bool {
	switch p {
	case passPre:
		return m.PreCalc()
	case passFull:
		return !m.PreCalc()
	}
	return true
}

// parseEffects parses effect lines, logging and skipping malformed ones.
func (c *Character) parseEffects(label string, lines []string) []modline.Modifier {
	mods, errs := modline.ParseAll(lines)
	for _, err := range errs {
		c.logger().Warn("malformed effect line",
			zap.String("source", label),
			zap.Error(err),
		)
	}
	return mods
}

// applyEffects applies every modifier of mods that belongs to pass.
func (c *Character) applyEffects(src effectSource, mods []modline.Modifier, pass passKind) {
	for _, m := range mods {
		if !pass.includes(m) {
			continue
		}
		if m.HasPlaceholder() {
			r, ok := m.Resolve(src.sel.lookup)
			if !ok {
				c.logger().Warn("effect placeholder has no selection",
					zap.String("source", src.label),
					zap.String("effect", m.Raw),
				)
				continue
			}
			m = r
		}
		c.applyModifier(src, m)
	}
}

func (c *Character) applyModifier(src effectSource, m modline.Modifier) {
	switch m.Kind {
	case modline.KindDerived:
		if m.Target == modline.PowerPoints || m.Target == modline.Powers {
			if ab := c.abForEffect(src.abIndex); ab != nil {
				ab.addBonus(m.Target, m.Amount)
				return
			}
		}
		c.derived.Add(m.Target, m.Amount)
	case modline.KindTrait:
		if !c.boostTrait(m.Target, m.Amount, src) {
			c.warnUnknown("trait", m.Target, src.label)
		}
	case modline.KindTraitBonus:
		if c.addAttributeBonus(m.Target, m.Amount) {
			return
		}
		if s := c.ensureSkill(m.Target, src.label); s != nil {
			s.bonus += m.Amount
		}
	case modline.KindTraitMax:
		if a := c.Attributes.Get(m.Target); a != nil {
			a.maxBoost += m.Amount
			return
		}
		if s := c.ensureSkill(m.Target, src.label); s != nil {
			s.maxBoost += m.Amount
		}
	case modline.KindDirective:
		if !c.applyDirective(src, m) && !c.runScripted(src, m) {
			c.logger().Warn("unhandled effect directive",
				zap.String("directive", m.Target),
				zap.String("source", src.label),
				zap.String("effect", m.Raw),
			)
		}
	}
}

func (c *Character) boostTrait(name string, steps int, src effectSource) bool {
	if c.boostAttribute(name, steps) {
		return true
	}
	s := c.ensureSkill(name, src.label)
	if s == nil {
		return false
	}
	if src.super {
		s.superBoost += steps
	} else {
		s.boost += steps
	}
	return true
}

func (c *Character) warnUnknown(kind, name, from string) {
	c.logger().Warn("reference not found",
		zap.String("kind", kind),
		zap.String("name", name),
		zap.String("from", from),
	)
}

// applyDirective runs the built-in handler for m and reports whether one exists.
func (c *Character) applyDirective(src effectSource, m modline.Modifier) bool {
	switch m.Target {
	case modline.AddEdge:
		for _, arg := range m.Args {
			name, specify := c.splitEdgeName(arg)
			c.addEdgeByName(name, specify, src.label, -1)
		}
	case modline.AddHindrance:
		for _, arg := range m.Args {
			name, paren := splitParens(arg)
			major, specify := false, paren
			switch catalog.NormalizeName(paren) {
			case catalog.SeverityMajor:
				major, specify = true, ""
			case catalog.SeverityMinor:
				specify = ""
			}
			c.addHindranceByName(name, major, specify, src.label)
		}
	case modline.AddSkill, modline.SkillMin:
		for _, arg := range m.Args {
			name, die, ok := splitTrailingDie(arg)
			if !ok {
				name, die = arg, dice.D4
			}
			s := c.ensureSkill(name, src.label)
			if s == nil {
				continue
			}
			if die > s.min {
				s.min = die
			}
		}
	case modline.LinkSkill:
		skill, attr, found := strings.Cut(catalog.NormalizeName(m.Arg(0)), " to ")
		if !found {
			c.warnUnknown("link_skill", m.Raw, src.label)
			return true
		}
		onlyIfHigher := catalog.NormalizeName(m.Arg(1)) == "if higher"
		if !c.switchAttribute(strings.TrimSpace(skill), strings.TrimSpace(attr), onlyIfHigher) && !onlyIfHigher {
			c.warnUnknown("link_skill", m.Raw, src.label)
		}
	case modline.SetAttribute:
		name, die, ok := splitTrailingDie(m.Arg(0))
		if !ok || !c.setAttributeHard(name, die) {
			c.warnUnknown("attribute", m.Arg(0), src.label)
		}
	case modline.AddPower:
		for _, arg := range m.Args {
			c.addPower(src.abIndex, arg, src.label)
		}
	case modline.PowerList:
		c.setPowerList(src.abIndex, m.Args, false)
	case modline.PowerListAppend:
		c.setPowerList(src.abIndex, m.Args, true)
	case modline.MegaPower:
		for _, arg := range m.Args {
			c.setMegaPower(src.abIndex, arg)
		}
	case modline.InnateAttack:
		if m.Arg(0) == "" {
			c.warnUnknown("innate_attack", m.Raw, src.label)
			return true
		}
		c.innateAttacks = append(c.innateAttacks, InnateAttack{Name: m.Arg(0), Damage: m.Arg(1), From: src.label})
	case modline.AddArcaneBackground:
		for _, arg := range m.Args {
			c.grantArcaneBackground(arg, src.label)
		}
	case modline.RiftsCyberArmor:
		n, err := strconv.Atoi(strings.TrimSpace(m.Arg(0)))
		if err != nil {
			c.warnUnknown("rifts_cyber_armor", m.Raw, src.label)
			return true
		}
		c.cyberArmor += n
	case modline.Linguist:
		c.linguist = true
	default:
		return false
	}
	return true
}

// runScripted offers m to the Lua directive_<name> function when scripting is configured.
func (c *Character) runScripted(src effectSource, m modline.Modifier) bool {
	if c.eng.scripts == nil {
		return false
	}
	api := scripting.DirectiveAPI{
		Source: src.label,
		AddDerived: func(key string, n int) bool {
			return c.derived.Add(key, n)
		},
		BoostTrait: func(name string, steps int) bool {
			return c.boostTrait(name, steps, src)
		},
		AddEdge: func(name string) bool {
			return c.addEdgeByName(name, "", src.label, -1) != nil
		},
		HasEdge: func(name string) bool {
			return c.HasEdge(name, -1, -1)
		},
		SettingEnabled: c.SettingIsEnabled,
		TraitDie: func(name string) int {
			if a := c.Attributes.Get(name); a != nil {
				return int(a.Current())
			}
			return int(c.SkillValue(name))
		},
	}
	return c.eng.scripts.RunDirective(m.Target, m.Args, api)
}

// splitParens splits "Name (text)" into "Name" and "text".
func splitParens(s string) (string, string) {
	s = strings.TrimSpace(s)
	open := strings.LastIndex(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return s, ""
	}
	return strings.TrimSpace(s[:open]), strings.TrimSpace(s[open+1 : len(s)-1])
}

// splitTrailingDie splits "Spellcasting d6" into the name and the die.
func splitTrailingDie(s string) (string, dice.Die, bool) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, " ")
	if i < 0 {
		return s, 0, false
	}
	die, err := dice.ParseDie(s[i+1:])
	if err != nil {
		return s, 0, false
	}
	return strings.TrimSpace(s[:i]), die, true
}

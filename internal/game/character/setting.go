package character

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

// settingEdgeIndexPrefix identifies a setting's custom edge by position.
const settingEdgeIndexPrefix = "setting-edge-index-"

// Setting is the resolved campaign setting: a private copy of the definition
// plus the set of enabled rule tags.
type Setting struct {
	def     catalog.SettingDef
	enabled map[string]bool
}

func newSetting(def *catalog.SettingDef, extraRules []string) *Setting {
	s := &Setting{enabled: make(map[string]bool)}
	if def != nil {
		s.def = *def
		for _, r := range def.Rules {
			s.enabled[catalog.NormalizeName(r)] = true
		}
	}
	for _, r := range extraRules {
		s.enabled[catalog.NormalizeName(r)] = true
	}
	return s
}

// Name returns the setting name, or "" for the default setting.
func (s *Setting) Name() string { return s.def.Name }

// Books returns the book filter; empty allows every book.
func (s *Setting) Books() catalog.BookFilter { return catalog.BookFilter(s.def.Books) }

// IsEnabled reports whether a rule tag is active.
func (s *Setting) IsEnabled(tag string) bool {
	return s.enabled[catalog.NormalizeName(tag)]
}

// Rules returns the enabled rule tags in sorted order.
func (s *Setting) Rules() []string {
	out := make([]string, 0, len(s.enabled))
	for r := range s.enabled {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// NativeLanguage returns the name of the implicit native language.
func (s *Setting) NativeLanguage() string {
	if s.def.NativeLanguage != "" {
		return s.def.NativeLanguage
	}
	return DefaultNativeLanguage
}

// NativeLanguageIndex is the position of the native language among specialties.
func (s *Setting) NativeLanguageIndex() int { return s.def.NativeLanguageIndex }

// StartingFunds returns the setting's funds, or 0 when it does not set them.
func (s *Setting) StartingFunds() int { return s.def.StartingFunds }

func (s *Setting) customEdge(name string) (*catalog.EdgeDef, bool) {
	if rest, ok := strings.CutPrefix(strings.TrimSpace(name), settingEdgeIndexPrefix); ok {
		i, err := strconv.Atoi(rest)
		if err != nil || i < 0 || i >= len(s.def.CustomEdges) {
			return nil, false
		}
		return &s.def.CustomEdges[i], true
	}
	for i := range s.def.CustomEdges {
		if catalog.NamesMatch(s.def.CustomEdges[i].Name, name) {
			return &s.def.CustomEdges[i], true
		}
	}
	return nil, false
}

func (s *Setting) customHindrance(name string) (*catalog.HindranceDef, bool) {
	for i := range s.def.CustomHindrances {
		if catalog.NamesMatch(s.def.CustomHindrances[i].Name, name) {
			return &s.def.CustomHindrances[i], true
		}
	}
	return nil, false
}

func (s *Setting) customArcaneBackground(name string) (*catalog.ArcaneBackgroundDef, bool) {
	for i := range s.def.CustomArcaneBackgrounds {
		if catalog.NamesMatch(s.def.CustomArcaneBackgrounds[i].Name, name) {
			return &s.def.CustomArcaneBackgrounds[i], true
		}
	}
	return nil, false
}

// SettingEdgeRef returns the positional name of the setting's i-th custom edge,
// used by advancements to store house-rule edges.
func SettingEdgeRef(i int) string {
	return fmt.Sprintf("%s%d", settingEdgeIndexPrefix, i)
}

// resolveSetting selects the setting, applies enabled rule effects, and binds skills
// against the setting's books.
func (c *Character) resolveSetting() {
	def := c.settingOverride
	if def == nil && c.SettingID != 0 {
		d, ok := c.cat().Setting(c.SettingID)
		if !ok {
			c.logger().Warn("unknown setting", zap.Int("setting_id", c.SettingID))
		} else {
			def = d
		}
	}
	c.setting = newSetting(def, c.ExtraRules)

	for _, s := range c.Skills {
		c.bindSkill(s)
	}
	for _, def := range c.cat().Skills(c.books()) {
		if def.Core {
			c.ensureSkill(def.Name, "Core")
		}
	}

	for _, rule := range c.setting.def.RuleEffects {
		if !c.setting.IsEnabled(rule.Tag) {
			continue
		}
		label := "Setting Rule: " + rule.Tag
		c.applyEffects(source(label), c.parseEffects(label, rule.Effects), passAll)
	}
}

// StartingFunds returns the funds the character begins with.
func (c *Character) StartingFunds() int {
	if c.StartFunds > 0 {
		return c.StartFunds
	}
	if f := c.setting.StartingFunds(); f > 0 {
		return f
	}
	return c.eng.startingFunds
}

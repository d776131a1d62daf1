package character

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// The types below are plain data for renderers; they carry no markup.

// ArmorRow is one worn or carried armor piece.
type ArmorRow struct {
	Name       string
	Quantity   int
	Armor      int
	Heavy      bool
	Shield     bool
	Parry      int
	CoverBonus int
	Covers     string
	MinStr     string
	Equipped   bool
	Weight     float64
}

// WeaponRow is one weapon or innate attack with damage rendered for the current strength.
type WeaponRow struct {
	Name     string
	Quantity int
	Damage   string
	AP       int
	Range    string
	ROF      int
	Shots    int
	Parry    int
	Reach    int
	MinStr   string
	Innate   bool
	Equipped bool
	Weight   float64
	From     string
}

// GearRow is one gear line, framework gear included.
type GearRow struct {
	Name          string
	Quantity      int
	Weight        float64
	Cost          int
	For           string
	FromFramework bool
}

// SpecialAbility is one racial or framework ability.
type SpecialAbility struct {
	Name     string
	Summary  string
	From     string
	Positive bool
}

// EdgeData describes one edge for display.
type EdgeData struct {
	Name      string
	Summary   string
	AddedFrom string
	Rank      string
	Custom    bool
}

// HindranceData describes one hindrance for display.
type HindranceData struct {
	Name      string
	Summary   string
	Major     bool
	Removed   bool
	Lowered   bool
	AddedFrom string
}

// PowerData describes one power under its arcane background.
type PowerData struct {
	ArcaneBackground string
	Name             string
	Trappings        string
	PowerPoints      int
	Range            string
	Duration         string
	Summary          string
	Mega             bool
	Innate           bool
	AddedFrom        string
}

// ArmorList returns every purchased armor piece in purchase order.
func (c *Character) ArmorList() []ArmorRow {
	var out []ArmorRow
	for _, a := range c.Armor {
		if a.def.Name == "" {
			continue
		}
		covers := make([]string, 0, len(a.def.Covers))
		for _, loc := range a.def.Covers {
			covers = append(covers, string(loc))
		}
		out = append(out, ArmorRow{
			Name:       a.Name,
			Quantity:   a.Qty(),
			Armor:      a.def.Armor,
			Heavy:      a.def.Heavy,
			Shield:     a.def.Shield,
			Parry:      a.def.Parry,
			CoverBonus: a.def.CoverBonus,
			Covers:     strings.Join(covers, ", "),
			MinStr:     a.def.MinStrength,
			Equipped:   a.Equipped,
			Weight:     a.def.Weight * float64(a.Qty()),
		})
	}
	return out
}

// WeaponList returns innate attacks first, then purchased weapons.
func (c *Character) WeaponList() []WeaponRow {
	str := c.AttributeCurrent(Strength)
	out := make([]WeaponRow, 0, len(c.innateAttacks)+len(c.Weapons))
	for _, ia := range c.innateAttacks {
		out = append(out, WeaponRow{
			Name:     ia.Name,
			Quantity: 1,
			Damage:   dice.FormatDamage(ia.Damage, str),
			Innate:   true,
			Equipped: true,
			From:     ia.From,
		})
	}
	for _, w := range c.Weapons {
		if w.def.Name == "" {
			continue
		}
		out = append(out, WeaponRow{
			Name:     w.Name,
			Quantity: w.Qty(),
			Damage:   dice.FormatDamage(w.def.Damage, str),
			AP:       w.def.AP,
			Range:    w.def.Range,
			ROF:      w.def.ROF,
			Shots:    w.def.Shots,
			Parry:    w.def.Parry,
			Reach:    w.def.Reach + c.derived.Reach,
			MinStr:   w.def.MinStrength,
			Equipped: w.Equipped,
			Weight:   w.def.Weight * float64(w.Qty()),
		})
	}
	return out
}

// GearList returns framework gear followed by purchased gear.
func (c *Character) GearList() []GearRow {
	out := make([]GearRow, 0, len(c.frameworkGear)+len(c.Gear))
	for _, g := range c.frameworkGear {
		out = append(out, GearRow{Name: g.Name, Quantity: g.Qty(), Weight: g.def.Weight * float64(g.Qty()), FromFramework: true})
	}
	for _, g := range c.Gear {
		if g.def.Name == "" {
			continue
		}
		out = append(out, GearRow{
			Name:     g.Name,
			Quantity: g.Qty(),
			Weight:   g.def.Weight * float64(g.Qty()),
			Cost:     g.TotalCost(c),
			For:      g.LinkedWeaponName(c),
		})
	}
	return out
}

// SpecialAbilities lists racial abilities, then framework summaries, then cyberware.
func (c *Character) SpecialAbilities() []SpecialAbility {
	var out []SpecialAbility
	if c.race != nil {
		for _, ab := range c.race.Abilities {
			out = append(out, SpecialAbility{Name: ab.Name, Summary: ab.Summary, From: c.race.Name, Positive: ab.Positive})
		}
	}
	for _, fw := range []*catalog.FrameworkDef{c.framework, c.monster} {
		if fw != nil && fw.Summary != "" {
			out = append(out, SpecialAbility{Name: fw.Name, Summary: fw.Summary, From: "Framework", Positive: true})
		}
	}
	for _, cw := range append(append([]*Cyberware(nil), c.frameworkCyber...), c.Cyberware...) {
		if cw.def.Name == "" {
			continue
		}
		name := cw.Name
		if cw.ranks() > 1 {
			name += " " + strconv.Itoa(cw.ranks())
		}
		out = append(out, SpecialAbility{
			Name:     name,
			Summary:  fmt.Sprintf("%s (strain %d)", cw.def.Summary, cw.TotalStrain(c)),
			From:     string(KindCyberware),
			Positive: true,
		})
	}
	return out
}

// EdgesData lists selected edges, then granted ones.
func (c *Character) EdgesData() []EdgeData {
	var out []EdgeData
	for _, e := range c.allEdges() {
		if e.def == nil {
			continue
		}
		out = append(out, EdgeData{
			Name:      e.DisplayName(),
			Summary:   e.def.Summary,
			AddedFrom: e.addedFrom,
			Rank:      RankName(e.rank),
			Custom:    e.Custom != nil,
		})
	}
	return out
}

// HindrancesData lists every hindrance, bought-off ones included and flagged.
func (c *Character) HindrancesData() []HindranceData {
	var out []HindranceData
	for _, h := range c.allHindrances() {
		if h.def == nil {
			continue
		}
		out = append(out, HindranceData{
			Name:      h.DisplayName(),
			Summary:   h.def.Summary,
			Major:     h.IsMajor(),
			Removed:   h.removed,
			Lowered:   h.lowered,
			AddedFrom: h.addedFrom,
		})
	}
	return out
}

// PowersData lists the powers of every active arcane background.
func (c *Character) PowersData() []PowerData {
	var out []PowerData
	for _, ab := range c.ArcaneBackgrounds {
		if ab == nil || !ab.active {
			continue
		}
		for _, p := range ab.Powers() {
			if p.def == nil {
				continue
			}
			trappings := p.Trappings
			if trappings == "" {
				trappings = p.def.Trappings
			}
			out = append(out, PowerData{
				ArcaneBackground: ab.DisplayName(),
				Name:             p.DisplayName(),
				Trappings:        trappings,
				PowerPoints:      p.Cost(),
				Range:            p.def.Range,
				Duration:         p.def.Duration,
				Summary:          p.def.Summary,
				Mega:             p.IsMega(),
				Innate:           p.Innate,
				AddedFrom:        p.addedFrom,
			})
		}
	}
	return out
}

// InnateAttacks returns the natural weapons granted in the last Calc.
func (c *Character) InnateAttacks() []InnateAttack { return c.innateAttacks }

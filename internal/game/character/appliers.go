package character

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

// frameworkNamespace seeds deterministic instance ids for framework-granted items.
var frameworkNamespace = uuid.MustParse("6f1c2a0e-51b5-4c59-9d3a-2a8f0f6b7c11")

func copyRace(def *catalog.RaceDef) *catalog.RaceDef {
	d := *def
	d.Abilities = append([]catalog.RaceAbility(nil), def.Abilities...)
	d.Effects = append([]string(nil), def.Effects...)
	return &d
}

// resolveRace applies the race's own effects and each racial ability.
func (c *Character) resolveRace() {
	c.race = nil
	var def *catalog.RaceDef
	switch {
	case c.CustomRace != nil:
		def = c.CustomRace
	case c.RaceID != 0:
		d, ok := c.cat().Race(c.RaceID)
		if !ok {
			c.logger().Warn("unknown race", zap.Int("race_id", c.RaceID))
			return
		}
		def = d
	default:
		return
	}
	c.race = copyRace(def)

	label := "Race: " + c.race.Name
	c.applyEffects(source(label), c.parseEffects(label, c.race.Effects), passAll)
	for _, ab := range c.race.Abilities {
		src := source(fmt.Sprintf("%s (%s)", label, ab.Name))
		src.sel = c.RaceSelections[ab.Name]
		c.applyEffects(src, c.parseEffects(src.label, ab.Effects), passAll)
	}
}

// Race returns the resolved race, or nil.
func (c *Character) Race() *catalog.RaceDef { return c.race }

func (c *Character) lookupFramework(id int) *catalog.FrameworkDef {
	if id == 0 {
		return nil
	}
	def, ok := c.cat().Framework(id)
	if !ok {
		c.logger().Warn("unknown framework", zap.Int("framework_id", id))
		return nil
	}
	d := *def
	return &d
}

// resolveFrameworks applies the character framework and the monster framework:
// their effects, granted edges and hindrances, and free gear and cyberware.
func (c *Character) resolveFrameworks() {
	c.framework = c.lookupFramework(c.FrameworkID)
	c.monster = c.lookupFramework(c.MonsterFrameworkID)

	for _, fw := range []*catalog.FrameworkDef{c.framework, c.monster} {
		if fw == nil {
			continue
		}
		label := "Framework: " + fw.Name
		c.applyEffects(source(label), c.parseEffects(label, fw.Effects), passAll)

		for _, e := range fw.Edges {
			name, specify := c.splitEdgeName(e)
			c.addEdgeByName(name, specify, label, -1)
		}
		for _, h := range fw.Hindrances {
			name, paren := splitParens(h)
			major := catalog.NamesMatch(paren, catalog.SeverityMajor)
			if major || catalog.NamesMatch(paren, catalog.SeverityMinor) {
				paren = ""
			}
			c.addHindranceByName(name, major, paren, label)
		}
		for i, name := range fw.Gear {
			def, ok := c.cat().GearByName(name, c.books())
			if !ok {
				c.warnUnknown("gear", name, label)
				continue
			}
			g := &Gear{Item: frameworkItem(label, name, i, def.ID)}
			g.def = *def
			c.frameworkGear = append(c.frameworkGear, g)
		}
		for i, name := range fw.Cyberware {
			def, ok := c.cat().CyberwareByName(name, c.books())
			if !ok {
				c.warnUnknown("cyberware", name, label)
				continue
			}
			cw := &Cyberware{Item: frameworkItem(label, name, i, def.ID), Ranks: 1}
			cw.def = *def
			c.frameworkCyber = append(c.frameworkCyber, cw)
		}
	}
}

func frameworkItem(label, name string, i, id int) Item {
	return Item{
		UUID:          uuid.NewSHA1(frameworkNamespace, []byte(fmt.Sprintf("%s/%d/%s", label, i, name))),
		ID:            id,
		Name:          name,
		Quantity:      1,
		fromFramework: true,
	}
}

// Framework returns the resolved character framework, or nil.
func (c *Character) Framework() *catalog.FrameworkDef { return c.framework }

// baseStrain returns the framework's full-conversion strain pool, or 0 when it sets none.
func (c *Character) baseStrain() int {
	for _, fw := range []*catalog.FrameworkDef{c.framework, c.monster} {
		if fw != nil && fw.BaseStrain > 0 {
			return fw.BaseStrain
		}
	}
	return 0
}

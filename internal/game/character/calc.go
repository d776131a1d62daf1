package character

import (
	"go.uber.org/zap"
)

// Calc recomputes every derived statistic from the authored state and the catalog.
// Each call starts from a full reset, so calling it twice in a row yields the same
// result. Unknown references are logged and skipped; Calc never fails.
//
// With saveAddedEdges the names of granted edges are stored in SavedAddedEdges.
// With calcLanguages the native language specialty is granted under the languages rule.
func (c *Character) Calc(saveAddedEdges, calcLanguages bool) {
	c.reset()
	c.calcLanguages = calcLanguages

	c.resolveSetting()
	c.resolveRace()
	c.resolveFrameworks()
	c.resolveAttributes()

	c.bindArcaneBackgrounds()
	c.applyHindranceBuyOffs()
	c.resolveEdges()
	c.resolveArcaneBackgrounds()

	c.resolveEquipment()

	c.applyAdvancements()
	c.resolveEdges()
	c.resolveArcaneBackgrounds()

	c.finalize(saveAddedEdges)
	c.validate()

	c.logger().Debug("character calculated",
		zap.String("name", c.Name),
		zap.Int("edges", len(c.allEdges())),
		zap.Int("advances", len(c.unlockedAdvancements())),
		zap.Stringer("valid_level", c.validLevel),
	)
}

// reset clears everything a pass derives. Authored fields are left alone; rows and
// items created by effects are dropped.
func (c *Character) reset() {
	c.derived = Derived{}
	c.race, c.framework, c.monster = nil, nil, nil

	c.Attributes.each(func(_ string, a *Attribute) { a.reset() })

	kept := c.Skills[:0]
	for _, s := range c.Skills {
		if s.transient {
			continue
		}
		s.reset()
		kept = append(kept, s)
	}
	for i := len(kept); i < len(c.Skills); i++ {
		c.Skills[i] = nil
	}
	c.Skills = kept

	for _, e := range c.Edges {
		e.reset()
	}
	c.addedEdges = nil
	for _, h := range c.Hindrances {
		h.reset()
	}
	c.addedHindrances = nil

	for _, ab := range c.ArcaneBackgrounds {
		if ab != nil {
			ab.reset()
		}
	}
	for _, adv := range c.Advancements {
		if adv != nil {
			adv.reset()
		}
	}
	c.resetEquipment()

	c.innateAttacks = nil
	c.cyberArmor = 0
	c.linguist = false
	c.armor.reset()
	c.interference = 0
	c.attributePointsUsed, c.skillPointsUsed = 0, 0
	c.validation, c.validLevel = nil, NoMessage
}

// finalize drops lapsed grants, settles skills, and stacks armor once every
// contribution has landed.
func (c *Character) finalize(saveAddedEdges bool) {
	c.dropInactiveGranted()
	c.shareDerivedPowerBonuses()
	c.resolveSkills()
	c.aggregateArmor()
	c.applyArmorInterference()

	if saveAddedEdges {
		c.SavedAddedEdges = c.SavedAddedEdges[:0]
		for _, e := range c.addedEdges {
			if e.def != nil {
				c.SavedAddedEdges = append(c.SavedAddedEdges, e.DisplayName())
			}
		}
	}
}

// Wealth is starting funds plus wealth bonuses less the cost of every purchase.
// Framework-granted items are free.
func (c *Character) Wealth() int {
	return c.StartingFunds() + c.derived.Wealth - c.SpentFunds()
}

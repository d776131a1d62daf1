package character

import (
	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// Attribute names.
const (
	Agility  = "agility"
	Smarts   = "smarts"
	Spirit   = "spirit"
	Strength = "strength"
	Vigor    = "vigor"
)

// AttributeNames lists the five attributes in display order.
var AttributeNames = []string{Agility, Smarts, Spirit, Strength, Vigor}

// BaseAttributePoints is the creation budget before bonuses.
const BaseAttributePoints = 5

// Attribute is one core trait. Assigned is authored; everything else is derived per pass.
type Attribute struct {
	// Assigned is the number of die steps bought above d4 with attribute points.
	Assigned int `json:"assigned"`

	advances int
	boost    int
	bonus    int
	maxBoost int
	hard     dice.Die
	hasHard  bool
}

// Current returns the die after assignment, advances, and boosts, or the hard
// override when one is set.
func (a *Attribute) Current() dice.Die {
	if a.hasHard {
		return a.hard
	}
	return dice.D4.Raise(a.Assigned + a.advances + a.boost)
}

// Bonus returns the flat roll bonus.
func (a *Attribute) Bonus() int { return a.bonus }

// Max returns the highest die reachable with points and advances.
func (a *Attribute) Max() dice.Die {
	return dice.D12.Raise(a.maxBoost)
}

func (a *Attribute) reset() {
	a.advances, a.boost, a.bonus, a.maxBoost = 0, 0, 0, 0
	a.hard, a.hasHard = 0, false
}

// Attributes holds the five core traits.
type Attributes struct {
	Agility  Attribute `json:"agility"`
	Smarts   Attribute `json:"smarts"`
	Spirit   Attribute `json:"spirit"`
	Strength Attribute `json:"strength"`
	Vigor    Attribute `json:"vigor"`
}

// Get returns the attribute named name (any case), or nil.
func (a *Attributes) Get(name string) *Attribute {
	switch catalog.NormalizeName(name) {
	case Agility:
		return &a.Agility
	case Smarts:
		return &a.Smarts
	case Spirit:
		return &a.Spirit
	case Strength:
		return &a.Strength
	case Vigor:
		return &a.Vigor
	}
	return nil
}

func (a *Attributes) each(fn func(name string, attr *Attribute)) {
	for _, n := range AttributeNames {
		fn(n, a.Get(n))
	}
}

// IsAttribute reports whether name is one of the five attributes.
func IsAttribute(name string) bool {
	var a Attributes
	return a.Get(name) != nil
}

// CostToRaise returns the point cost of raising a trait one step from the given die:
// 1 from d4 or below, 2 from d6 and up.
func CostToRaise(from dice.Die) int {
	if from <= dice.D4 {
		return 1
	}
	return 2
}

// attributePointsCost returns the points spent by assigned steps above d4.
func attributePointsCost(assigned int) int {
	total := 0
	for i := 0; i < assigned; i++ {
		total += CostToRaise(dice.D4.Raise(i))
	}
	return total
}

// AttributeCurrent returns the current die of the named attribute, or Untrained for unknown names.
func (c *Character) AttributeCurrent(name string) dice.Die {
	a := c.Attributes.Get(name)
	if a == nil {
		return dice.Untrained
	}
	return a.Current()
}

// AssignAttribute sets the die bought for name with attribute points.
//
// Precondition: die must be d4 or higher.
// Postcondition: returns false for unknown attributes or dice below d4.
func (c *Character) AssignAttribute(name string, die dice.Die) bool {
	a := c.Attributes.Get(name)
	if a == nil || die < dice.D4 {
		return false
	}
	a.Assigned = int(die - dice.D4)
	return true
}

func (c *Character) boostAttribute(name string, steps int) bool {
	a := c.Attributes.Get(name)
	if a == nil {
		return false
	}
	a.boost += steps
	return true
}

func (c *Character) addAttributeBonus(name string, n int) bool {
	a := c.Attributes.Get(name)
	if a == nil {
		return false
	}
	a.bonus += n
	return true
}

func (c *Character) setAttributeHard(name string, die dice.Die) bool {
	a := c.Attributes.Get(name)
	if a == nil {
		return false
	}
	a.hard, a.hasHard = die, true
	return true
}

// AttributePointsAvailable is the creation budget for attributes.
func (c *Character) AttributePointsAvailable() int {
	return BaseAttributePoints + c.derived.AttributePoints
}

// AttributePointsUsed is the number of attribute points spent in the last Calc.
func (c *Character) AttributePointsUsed() int {
	return c.attributePointsUsed
}

// resolveAttributes totals point usage once boosts from race and framework have landed.
func (c *Character) resolveAttributes() {
	used := 0
	c.Attributes.each(func(_ string, a *Attribute) {
		used += attributePointsCost(a.Assigned)
	})
	c.attributePointsUsed = used
}

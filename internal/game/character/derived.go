package character

import "github.com/Savaged-us/core-sub000/internal/game/modline"

// Derived accumulates "+N <key>" contributions for one calculation pass.
// It is zeroed at the start of every Calc.
type Derived struct {
	Pace              int
	Armor             int
	HeavyArmor        int
	Toughness         int
	Parry             int
	Reach             int
	Size              int
	Wealth            int
	Strain            int
	Sanity            int
	Charisma          int
	PowerPoints       int
	Powers            int
	AttributePoints   int
	SkillPoints       int
	ModSlots          int
	ArmorInterference int
}

func (d *Derived) field(key string) *int {
	switch key {
	case modline.Pace:
		return &d.Pace
	case modline.Armor:
		return &d.Armor
	case modline.HeavyArmor:
		return &d.HeavyArmor
	case modline.Toughness:
		return &d.Toughness
	case modline.Parry:
		return &d.Parry
	case modline.Reach:
		return &d.Reach
	case modline.Size:
		return &d.Size
	case modline.Wealth:
		return &d.Wealth
	case modline.Strain:
		return &d.Strain
	case modline.Sanity:
		return &d.Sanity
	case modline.Charisma:
		return &d.Charisma
	case modline.PowerPoints:
		return &d.PowerPoints
	case modline.Powers:
		return &d.Powers
	case modline.AttributePoints:
		return &d.AttributePoints
	case modline.SkillPoints:
		return &d.SkillPoints
	case modline.ModSlots:
		return &d.ModSlots
	case modline.ArmorInterference:
		return &d.ArmorInterference
	}
	return nil
}

// Add increments the accumulator for key and reports whether key is known.
func (d *Derived) Add(key string, n int) bool {
	f := d.field(key)
	if f == nil {
		return false
	}
	*f += n
	return true
}

// Get returns the accumulator for key, or 0 for unknown keys.
func (d Derived) Get(key string) int {
	f := d.field(key)
	if f == nil {
		return 0
	}
	return *f
}

// Derived returns the accumulators of the last Calc.
func (c *Character) Derived() Derived {
	return c.derived
}

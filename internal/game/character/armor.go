package character

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// cyberArmorLocations are the locations covered by Rifts cyber-armor.
var cyberArmorLocations = []catalog.Location{catalog.LocationTorso, catalog.LocationArms, catalog.LocationLegs}

var tierRank = map[string]int{
	catalog.TierLight:  1,
	catalog.TierMedium: 2,
	catalog.TierHeavy:  3,
}

// armorEntry is one contribution to a body location.
type armorEntry struct {
	from      string
	value     int
	heavy     bool
	stackable bool
}

// LocationArmor is the stacked armor at one body location.
type LocationArmor struct {
	Location catalog.Location
	Armor    int
	Heavy    bool
}

type armorState struct {
	entries       map[catalog.Location][]armorEntry
	locations     map[catalog.Location]LocationArmor
	heavyMismatch bool
}

func (s *armorState) reset() {
	s.entries = make(map[catalog.Location][]armorEntry)
	s.locations = make(map[catalog.Location]LocationArmor)
	s.heavyMismatch = false
}

func (s *armorState) add(loc catalog.Location, e armorEntry) {
	if s.entries == nil {
		s.entries = make(map[catalog.Location][]armorEntry)
	}
	s.entries[loc] = append(s.entries[loc], e)
}

// stackArmor combines the entries at one location.
//
// SWADE stacking counts the highest non-stackable entry, half (floored) of the
// second highest, and every stackable entry. Deluxe stacking drops the half.
// The result is heavy when any counted entry is heavy.
func stackArmor(entries []armorEntry, deluxe bool) (int, bool) {
	sorted := append([]armorEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].value > sorted[j].value })

	total, heavy, counted := 0, false, 0
	for _, e := range sorted {
		if e.stackable {
			total += e.value
			heavy = heavy || e.heavy
			continue
		}
		switch {
		case counted == 0:
			total += e.value
			heavy = heavy || e.heavy
		case counted == 1 && !deluxe:
			total += e.value / 2
			heavy = heavy || e.heavy
		}
		counted++
	}
	return total, heavy
}

// aggregateArmor collects natural, cyber, and worn armor per location and stacks it.
// When natural armor is heavy, worn armor that is not heavy is suppressed.
func (c *Character) aggregateArmor() {
	c.armor.reset()
	mdc := c.SettingIsEnabled(catalog.RuleRiftsMDC)
	naturalHeavy := c.derived.HeavyArmor > 0

	for _, loc := range catalog.Locations {
		if c.derived.Armor != 0 {
			c.armor.add(loc, armorEntry{from: "natural", value: c.derived.Armor, stackable: true})
		}
		if c.derived.HeavyArmor != 0 {
			c.armor.add(loc, armorEntry{from: "natural", value: c.derived.HeavyArmor, heavy: true, stackable: true})
		}
	}
	if c.cyberArmor > 0 {
		for _, loc := range cyberArmorLocations {
			c.armor.add(loc, armorEntry{from: "cyber-armor", value: c.cyberArmor, heavy: mdc})
		}
	}
	for _, a := range c.Armor {
		if !a.Equipped || a.def.Name == "" || a.def.Shield {
			continue
		}
		if naturalHeavy && !a.def.Heavy {
			c.armor.heavyMismatch = true
			c.logger().Debug("armor suppressed by heavy natural armor", zap.String("armor", a.Name))
			continue
		}
		for _, loc := range a.def.Covers {
			c.armor.add(loc, armorEntry{from: a.Name, value: a.def.Armor, heavy: a.def.Heavy, stackable: a.def.Stackable})
		}
	}

	deluxe := c.SettingIsEnabled(catalog.RuleDeluxeArmorStacking)
	for _, loc := range catalog.Locations {
		value, heavy := stackArmor(c.armor.entries[loc], deluxe)
		c.armor.locations[loc] = LocationArmor{Location: loc, Armor: value, Heavy: heavy}
	}
}

// ArmorAt returns the stacked armor at loc.
func (c *Character) ArmorAt(loc catalog.Location) LocationArmor {
	if la, ok := c.armor.locations[loc]; ok {
		return la
	}
	return LocationArmor{Location: loc}
}

// BaseToughness is 2 + half Vigor + size + toughness bonuses, before armor.
func (c *Character) BaseToughness() int {
	return 2 + c.AttributeCurrent(Vigor).Half() + c.derived.Size + c.derived.Toughness
}

// Toughness is base toughness plus torso armor.
func (c *Character) Toughness() int {
	return c.BaseToughness() + c.ArmorAt(catalog.LocationTorso).Armor
}

func (c *Character) heavyLabel() string {
	if c.SettingIsEnabled(catalog.RuleRiftsMDC) {
		return " M.D.C."
	}
	return " Heavy"
}

// toughnessLabel renders "total (armor)" with a heavy suffix, or just the base with no armor.
func (c *Character) toughnessLabel(la LocationArmor) string {
	base := c.BaseToughness()
	if la.Armor == 0 {
		return fmt.Sprintf("%d", base)
	}
	label := fmt.Sprintf("%d (%d)", base+la.Armor, la.Armor)
	if la.Heavy {
		label += c.heavyLabel()
	}
	return label
}

// LocationToughness is the toughness label at one body location.
type LocationToughness struct {
	Location catalog.Location
	Armor    int
	Heavy    bool
	Label    string
}

// ToughnessReport is the toughness and armor summary used by renderers.
type ToughnessReport struct {
	Base      int
	Toughness int
	Armor     int
	Heavy     bool
	Label     string
	Locations []LocationToughness
}

// ToughnessAndArmor summarizes toughness overall (torso) and per location.
func (c *Character) ToughnessAndArmor() ToughnessReport {
	torso := c.ArmorAt(catalog.LocationTorso)
	r := ToughnessReport{
		Base:      c.BaseToughness(),
		Toughness: c.Toughness(),
		Armor:     torso.Armor,
		Heavy:     torso.Heavy,
		Label:     c.toughnessLabel(torso),
	}
	for _, loc := range catalog.Locations {
		la := c.ArmorAt(loc)
		r.Locations = append(r.Locations, LocationToughness{
			Location: loc,
			Armor:    la.Armor,
			Heavy:    la.Heavy,
			Label:    c.toughnessLabel(la),
		})
	}
	return r
}

// Parry is 2 + half Fighting + parry bonuses + equipped weapon and shield parry.
func (c *Character) Parry() int {
	parry := 2 + c.derived.Parry
	if f := c.SkillValue("Fighting"); f > dice.Untrained {
		parry += f.Half()
	}
	for _, w := range c.Weapons {
		if w.Equipped && w.def.Name != "" {
			parry += w.def.Parry
		}
	}
	for _, a := range c.Armor {
		if a.Equipped && a.def.Shield {
			parry += a.def.Parry
		}
	}
	return parry
}

// Pace is 6 + pace bonuses.
func (c *Character) Pace() int { return 6 + c.derived.Pace }

// LoadLimit is 20 times the Strength ordinal.
func (c *Character) LoadLimit() int { return 20 * int(c.AttributeCurrent(Strength)) }

// wornTier returns the heaviest tier among equipped body armor.
func (c *Character) wornTier() int {
	tier := 0
	for _, a := range c.Armor {
		if a.Equipped && !a.def.Shield {
			if t := tierRank[a.def.Tier]; t > tier {
				tier = t
			}
		}
	}
	return tier
}

// applyArmorInterference penalizes Agility and Agility-linked skills by the worn
// armor tier less any interference mitigation, under pathfinder_armor_interference.
func (c *Character) applyArmorInterference() {
	c.interference = 0
	if !c.SettingIsEnabled(catalog.RulePathfinderArmorInterference) {
		return
	}
	penalty := c.wornTier() - c.derived.ArmorInterference
	if penalty <= 0 {
		return
	}
	c.interference = penalty
	c.addAttributeBonus(Agility, -penalty)
	for _, s := range c.Skills {
		if s.attribute == Agility {
			s.bonus -= penalty
		}
	}
}

// ArmorInterference returns the penalty applied by worn armor in the last Calc.
func (c *Character) ArmorInterference() int { return c.interference }

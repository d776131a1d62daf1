package character_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/character"
)

// Catalog ids used across the character tests.
const (
	edgeAlertness   = 1
	edgeBrawny      = 2
	edgeMagic       = 3
	edgePowerPoints = 4
	edgeQuick       = 5
	edgeLevelHeaded = 6

	armorJacket  = 1
	armorPlate   = 2
	armorPadding = 3
	armorKevlar  = 4
	armorPowered = 5
	armorShield  = 6

	gearRope    = 1
	gearAmulet  = 2
	gearCharm   = 3
	weaponSword = 1
	weaponRifle = 2

	cyberPlating = 1
	cyberFilter  = 2
	cyberGhost   = 3

	settingRifts      = 1
	settingDeluxe     = 2
	settingIZ3        = 3
	settingPathfinder = 4

	raceAndroid = 1
)

func addAll[T any](t *testing.T, add func(T) error, defs ...T) {
	t.Helper()
	for _, d := range defs {
		require.NoError(t, add(d))
	}
}

// newTestCatalog returns a small catalog covering every content kind the tests touch.
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.New()
	require.NoError(t, cat.AddBook(&catalog.Book{ID: 1, Name: "Core Rules", Core: true}))

	skill := func(id int, name, attr string, core bool) *catalog.SkillDef {
		return &catalog.SkillDef{Common: catalog.Common{ID: id, Name: name, BookID: 1}, Attribute: attr, Core: core}
	}
	addAll(t, cat.AddSkill,
		skill(1, "Athletics", "Agility", true),
		skill(2, "Common Knowledge", "Smarts", true),
		skill(3, "Notice", "Smarts", true),
		skill(4, "Persuasion", "Spirit", true),
		skill(5, "Stealth", "Agility", true),
		skill(6, "Fighting", "Agility", false),
		skill(7, "Shooting", "Agility", false),
		skill(8, "Spellcasting", "Smarts", false),
		skill(9, "Faith", "Spirit", false),
		&catalog.SkillDef{Common: catalog.Common{ID: 10, Name: "Language", BookID: 1}, Attribute: "Smarts", Language: true},
	)

	addAll(t, cat.AddEdge,
		&catalog.EdgeDef{Common: catalog.Common{ID: edgeAlertness, Name: "Alertness", BookID: 1, Effects: []string{"+2 Notice bonus"}}},
		&catalog.EdgeDef{Common: catalog.Common{ID: edgeBrawny, Name: "Brawny", BookID: 1, Effects: []string{"+1 size"}},
			Requirements: []string{"Strength d6, Vigor d6"}},
		&catalog.EdgeDef{Common: catalog.Common{ID: edgeMagic, Name: "Arcane Background (Magic)", BookID: 1},
			ArcaneBackground: "Magic"},
		&catalog.EdgeDef{Common: catalog.Common{ID: edgePowerPoints, Name: "Power Points", BookID: 1, Effects: []string{"+5 power_points"}},
			Requirements: []string{"Arcane Background"}, Multiple: true},
		&catalog.EdgeDef{Common: catalog.Common{ID: edgeQuick, Name: "Quick", BookID: 1}, Requirements: []string{"Agility d8"}},
		&catalog.EdgeDef{Common: catalog.Common{ID: edgeLevelHeaded, Name: "Level Headed", BookID: 1}, Rank: character.RankSeasoned},
	)

	addAll(t, cat.AddHindrance,
		&catalog.HindranceDef{Common: catalog.Common{ID: 1, Name: "Clueless", BookID: 1, Effects: []string{"-1 Common Knowledge bonus"}}, Severity: catalog.SeverityMinor},
		&catalog.HindranceDef{Common: catalog.Common{ID: 2, Name: "Bad Eyes", BookID: 1}, Severity: catalog.SeverityEither},
		&catalog.HindranceDef{Common: catalog.Common{ID: 3, Name: "Loyal", BookID: 1}, Severity: catalog.SeverityMinor},
		&catalog.HindranceDef{Common: catalog.Common{ID: 4, Name: "Wanted", BookID: 1}, Severity: catalog.SeverityEither},
		&catalog.HindranceDef{Common: catalog.Common{ID: 5, Name: "Arrogant", BookID: 1}, Severity: catalog.SeverityMajor},
		&catalog.HindranceDef{Common: catalog.Common{ID: 6, Name: "Quirk", BookID: 1}, Severity: catalog.SeverityMinor, SpecifyRequired: true},
	)

	addAll(t, cat.AddPower,
		&catalog.PowerDef{Common: catalog.Common{ID: 1, Name: "Bolt", BookID: 1}, PowerPoints: 1, Range: "Smarts", Duration: "Instant"},
		&catalog.PowerDef{Common: catalog.Common{ID: 2, Name: "Boost/Lower Trait", BookID: 1}, PowerPoints: 2},
		&catalog.PowerDef{Common: catalog.Common{ID: 3, Name: "Strength/Smarts", BookID: 1}, PowerPoints: 2},
		&catalog.PowerDef{Common: catalog.Common{ID: 4, Name: "Blast", BookID: 1}, PowerPoints: 3, Rank: character.RankSeasoned},
		&catalog.PowerDef{Common: catalog.Common{ID: 5, Name: "Healing", BookID: 1}, PowerPoints: 3},
	)

	addAll(t, cat.AddArcaneBackground,
		&catalog.ArcaneBackgroundDef{Common: catalog.Common{ID: 1, Name: "Magic", BookID: 1},
			ArcaneSkill: "Spellcasting", SkillAttribute: "Smarts", StartingPowers: 3, StartingPowerPoints: 10},
		&catalog.ArcaneBackgroundDef{Common: catalog.Common{ID: 2, Name: "Miracles", BookID: 1},
			ArcaneSkill: "Faith", SkillAttribute: "Spirit", StartingPowers: 2, StartingPowerPoints: 4,
			PowerList: []string{"Healing", "Boost/Lower Trait"}, PowersCostPoints: true},
	)

	addAll(t, cat.AddRace,
		&catalog.RaceDef{Common: catalog.Common{ID: raceAndroid, Name: "Android", BookID: 1}, Abilities: []catalog.RaceAbility{
			{Name: "Construct", Summary: "Tough frame.", Effects: []string{"+1 toughness"}, Positive: true},
			{Name: "Sensors", Summary: "Always alert.", Effects: []string{"add_edge: Alertness"}, Positive: true},
			{Name: "Slam", Summary: "Built-in ram.", Effects: []string{"innate_attack: Slam, Str+d6"}, Positive: true},
		}},
	)

	gear := func(id int, name string, cost int, effects ...string) *catalog.GearDef {
		return &catalog.GearDef{Common: catalog.Common{ID: id, Name: name, BookID: 1, Effects: effects}, Cost: cost, Weight: 1}
	}
	addAll(t, cat.AddGear,
		gear(gearRope, "Rope", 10),
		gear(gearAmulet, "Amulet", 50, "+2 armor"),
		&catalog.GearDef{Common: catalog.Common{ID: gearCharm, Name: "Lucky Charm", BookID: 1}, Cost: 5, Max: 1},
	)
	addAll(t, cat.AddWeapon,
		&catalog.WeaponDef{GearDef: catalog.GearDef{Common: catalog.Common{ID: weaponSword, Name: "Long Sword", BookID: 1}, Cost: 300, Weight: 3},
			Damage: "Str+d8", Parry: 1, MinStrength: "d8"},
		&catalog.WeaponDef{GearDef: catalog.GearDef{Common: catalog.Common{ID: weaponRifle, Name: "Rifle", BookID: 1}, Cost: 400, Weight: 8},
			Damage: "2d8", AP: 2, Range: "24/48/96", ROF: 1, Shots: 8},
	)

	armor := func(id int, name string, value int, stackable bool, covers ...catalog.Location) *catalog.ArmorDef {
		return &catalog.ArmorDef{GearDef: catalog.GearDef{Common: catalog.Common{ID: id, Name: name, BookID: 1}, Cost: 10},
			Armor: value, Stackable: stackable, Covers: covers}
	}
	powered := armor(armorPowered, "Powered Armor", 6, false, catalog.LocationTorso, catalog.LocationArms, catalog.LocationLegs)
	powered.Heavy = true
	plate := armor(armorPlate, "Plate Corselet", 4, false, catalog.LocationTorso)
	plate.Tier = catalog.TierHeavy
	addAll(t, cat.AddArmor,
		armor(armorJacket, "Leather Jacket", 2, false, catalog.LocationTorso, catalog.LocationArms),
		plate,
		armor(armorPadding, "Padding", 2, true, catalog.LocationTorso),
		armor(armorKevlar, "Kevlar Layer", 4, true, catalog.LocationTorso),
		powered,
		&catalog.ArmorDef{GearDef: catalog.GearDef{Common: catalog.Common{ID: armorShield, Name: "Medium Shield", BookID: 1}, Cost: 50},
			Shield: true, Parry: 2},
	)

	addAll(t, cat.AddCyberware,
		&catalog.CyberwareDef{GearDef: catalog.GearDef{Common: catalog.Common{ID: cyberPlating, Name: "Dermal Plating", BookID: 1, Effects: []string{"+1 armor"}}, Cost: 100},
			Strain: 2, MaxRanks: 3, CostTimesRank: true},
		&catalog.CyberwareDef{GearDef: catalog.GearDef{Common: catalog.Common{ID: cyberFilter, Name: "Nano Filter", BookID: 1}, Cost: 20}},
		&catalog.CyberwareDef{GearDef: catalog.GearDef{Common: catalog.Common{ID: cyberGhost, Name: "Ghost Chip", BookID: 1}, Cost: 20}, ZeroStrain: true},
	)

	addAll(t, cat.AddSetting,
		&catalog.SettingDef{ID: settingRifts, Name: "Rifts", Rules: []string{catalog.RuleRiftsMDC}},
		&catalog.SettingDef{ID: settingDeluxe, Name: "Deluxe", Rules: []string{catalog.RuleDeluxeArmorStacking}},
		&catalog.SettingDef{ID: settingIZ3, Name: "Interface Zero", Rules: []string{catalog.RuleIZ3Cyberware}},
		&catalog.SettingDef{ID: settingPathfinder, Name: "Pathfinder", Rules: []string{catalog.RulePathfinderArmorInterference}},
	)
	return cat
}

// newCharacter returns an empty character bound to a fresh test catalog.
func newCharacter(t *testing.T, opts ...character.Option) *character.Character {
	t.Helper()
	c := character.New(newTestCatalog(t), opts...)
	c.Name = "Tester"
	return c
}

// observed returns a logger option whose warnings are captured.
func observed() (character.Option, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return character.WithLogger(zap.New(core)), logs
}

func messagesAt(c *character.Character, sev character.Severity) []string {
	var out []string
	for _, m := range c.ValidationMessages() {
		if m.Severity == sev {
			out = append(out, m.Message)
		}
	}
	return out
}

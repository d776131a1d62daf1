package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Savaged-us/core-sub000/internal/game/character"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// snapshot captures the derived statistics a renderer would show.
type snapshot struct {
	Toughness  character.ToughnessReport
	Parry      int
	Pace       int
	Wealth     int
	Strain     int
	Skills     map[string]dice.Die
	Edges      []character.EdgeData
	Hindrances []character.HindranceData
	Powers     []character.PowerData
	Messages   []character.ValidationMessage
	Level      character.Severity
}

func takeSnapshot(c *character.Character) snapshot {
	s := snapshot{
		Toughness:  c.ToughnessAndArmor(),
		Parry:      c.Parry(),
		Pace:       c.Pace(),
		Wealth:     c.Wealth(),
		Strain:     c.Strain(),
		Skills:     make(map[string]dice.Die),
		Edges:      c.EdgesData(),
		Hindrances: c.HindrancesData(),
		Powers:     c.PowersData(),
		Messages:   c.ValidationMessages(),
		Level:      c.ValidLevel(),
	}
	for _, sk := range c.Skills {
		s.Skills[sk.Name] = sk.Value()
	}
	return s
}

func richCharacter(t *testing.T) *character.Character {
	t.Helper()
	c := newCharacter(t)
	c.RaceID = raceAndroid
	require.True(t, c.AssignAttribute(character.Vigor, dice.D8))
	require.True(t, c.AssignAttribute(character.Strength, dice.D6))
	require.True(t, c.AssignSkill("Fighting", dice.D6))
	c.Edges = append(c.Edges,
		&character.Edge{ID: edgeBrawny},
		&character.Edge{ID: edgeMagic},
		&character.Edge{ID: edgePowerPoints},
	)
	c.Hindrances = append(c.Hindrances, &character.Hindrance{Name: "Clueless"}, &character.Hindrance{Name: "Bad Eyes", Major: true})
	require.NotNil(t, c.PurchaseWeapon(weaponSword, nil, 1))
	require.NotNil(t, c.PurchaseArmor(armorJacket, nil, 1))
	require.NotNil(t, c.PurchaseGear(gearAmulet, nil, 1))
	require.NotNil(t, c.PurchaseCyberware(cyberPlating, nil, 1, 1))
	c.Recalc()
	ab := c.ArcaneBackgrounds[0]
	require.NotNil(t, ab)
	ab.SelectedPowers = append(ab.SelectedPowers, &character.Power{Name: "Bolt"}, &character.Power{Name: "Boost Trait"})
	c.AdvanceCount = 2
	c.Advancements = []*character.Advancement{
		{Type: character.AdvanceAttribute, Targets: []string{character.Agility}},
		{Type: character.AdvanceLowerHindrance, Targets: []string{"Bad Eyes"}},
	}
	return c
}

func TestCalc_IsIdempotent(t *testing.T) {
	c := richCharacter(t)
	c.Calc(false, false)
	first := takeSnapshot(c)
	c.Calc(false, false)
	second := takeSnapshot(c)
	assert.Equal(t, first, second)
}

func TestCalc_RemovingSourceRestoresStats(t *testing.T) {
	c := newCharacter(t)
	c.Recalc()
	before := c.Toughness()

	amulet := c.PurchaseGear(gearAmulet, nil, 1)
	require.NotNil(t, amulet)
	c.Recalc()
	assert.Equal(t, before+2, c.Toughness())

	require.True(t, c.RemovePurchase(amulet.UUID))
	c.Recalc()
	assert.Equal(t, before, c.Toughness())

	c.Edges = append(c.Edges, &character.Edge{Name: "Brawny"})
	c.Recalc()
	assert.Equal(t, before+1, c.Toughness())
	c.Edges = nil
	c.Recalc()
	assert.Equal(t, before, c.Toughness())
}

func TestCalc_DropsTransientSkillsWithTheirSource(t *testing.T) {
	c := newCharacter(t)
	c.Edges = append(c.Edges, &character.Edge{ID: edgeMagic})
	c.Recalc()
	require.NotNil(t, c.Skill("Spellcasting"))
	assert.Equal(t, character.Smarts, c.Skill("Spellcasting").LinkedAttribute())

	c.Edges = nil
	c.Recalc()
	assert.Nil(t, c.Skill("Spellcasting"))
	assert.Empty(t, c.ActiveArcaneBackgrounds())
}

func TestCalc_CoreSkillsStartAtD4(t *testing.T) {
	c := newCharacter(t)
	c.Recalc()
	for _, name := range []string{"Athletics", "Common Knowledge", "Notice", "Persuasion", "Stealth"} {
		assert.Equal(t, dice.D4, c.SkillValue(name), name)
	}
	assert.Equal(t, dice.Untrained, c.SkillValue("Fighting"))
	assert.Equal(t, 0, c.SkillPointsUsed())
}

func TestCalc_EmptyCharacterIsValid(t *testing.T) {
	c := newCharacter(t)
	c.Recalc()
	assert.Empty(t, c.ValidationMessages())
	assert.Equal(t, character.NoMessage, c.ValidLevel())
	assert.Equal(t, 4, c.Toughness())
	assert.Equal(t, 2, c.Parry())
	assert.Equal(t, 6, c.Pace())
	assert.Equal(t, character.DefaultStartingFunds, c.Wealth())
}

func TestCalc_RaceAbilitiesApply(t *testing.T) {
	c := newCharacter(t)
	c.RaceID = raceAndroid
	c.Recalc()

	assert.Equal(t, 5, c.Toughness())
	require.Len(t, c.AddedEdges(), 1)
	assert.Equal(t, "Alertness", c.AddedEdges()[0].DisplayName())
	assert.Equal(t, 2, c.Skill("Notice").Bonus())

	attacks := c.WeaponList()
	require.NotEmpty(t, attacks)
	assert.True(t, attacks[0].Innate)
	assert.Equal(t, "Slam", attacks[0].Name)
	assert.Equal(t, "d4+d6", attacks[0].Damage)
	assert.Len(t, c.SpecialAbilities(), 3)
}

func TestCalc_SavesAddedEdgesOnRequest(t *testing.T) {
	c := newCharacter(t)
	c.RaceID = raceAndroid
	c.Calc(false, false)
	assert.Empty(t, c.SavedAddedEdges)
	c.Calc(true, false)
	assert.Equal(t, []string{"Alertness"}, c.SavedAddedEdges)
}

func TestCalc_ParryCountsFightingWeaponAndShield(t *testing.T) {
	c := newCharacter(t)
	require.True(t, c.AssignSkill("Fighting", dice.D8))
	w := c.PurchaseWeapon(weaponSword, nil, 1)
	require.NotNil(t, w)
	w.Equipped = true
	require.NotNil(t, c.PurchaseArmor(armorShield, nil, 1))
	c.Recalc()
	assert.Equal(t, 2+4+1+2, c.Parry())
}

func TestCalc_WeaponBelowMinStrengthIsReported(t *testing.T) {
	c := newCharacter(t)
	require.NotNil(t, c.PurchaseWeapon(weaponSword, nil, 1))
	c.Recalc()
	assert.Contains(t, messagesAt(c, character.Information), "Long Sword needs Strength d8")
}

func TestCalc_WealthDeductsPurchases(t *testing.T) {
	c := newCharacter(t)
	require.NotNil(t, c.PurchaseGear(gearRope, nil, 3))
	require.NotNil(t, c.PurchaseWeapon(weaponRifle, nil, 1))
	c.Recalc()
	assert.Equal(t, character.DefaultStartingFunds-30-400, c.Wealth())
	assert.Equal(t, character.NoMessage, c.ValidLevel())

	require.NotNil(t, c.PurchaseWeapon(weaponRifle, nil, 1))
	c.Recalc()
	assert.Equal(t, -330, c.Wealth())
	assert.Equal(t, character.Warning, c.ValidLevel())
}

func TestCalc_MaxQuantityIsEnforced(t *testing.T) {
	c := newCharacter(t)
	require.NotNil(t, c.PurchaseGear(gearCharm, nil, 2))
	c.Recalc()
	assert.Equal(t, character.Error, c.ValidLevel())
}

func TestCalc_UnknownPurchaseIsRejected(t *testing.T) {
	opt, logs := observed()
	c := newCharacter(t, opt)
	assert.Nil(t, c.PurchaseGear(999, nil, 1))
	assert.Empty(t, c.Gear)
	assert.NotZero(t, logs.Len())
}

func TestCalc_AttributePointsOverspentIsAnError(t *testing.T) {
	c := newCharacter(t)
	require.True(t, c.AssignAttribute(character.Agility, dice.D12))
	require.True(t, c.AssignAttribute(character.Vigor, dice.D8))
	c.Recalc()
	assert.Greater(t, c.AttributePointsUsed(), c.AttributePointsAvailable())
	assert.Equal(t, character.Error, c.ValidLevel())
}

func TestCalc_EdgeRequirementsAreChecked(t *testing.T) {
	c := newCharacter(t)
	c.Edges = append(c.Edges, &character.Edge{ID: edgeQuick}, &character.Edge{ID: edgeLevelHeaded})
	c.Recalc()
	errs := messagesAt(c, character.Error)
	assert.Contains(t, errs, "Quick requires Agility d8")
	assert.Contains(t, errs, "Level Headed requires Seasoned rank")

	require.True(t, c.AssignAttribute(character.Agility, dice.D8))
	c.AdvanceCount = 4
	c.Recalc()
	errs = messagesAt(c, character.Error)
	assert.NotContains(t, errs, "Quick requires Agility d8")
	assert.NotContains(t, errs, "Level Headed requires Seasoned rank")
}

func TestCalc_SpecifyRequiredHindranceWarns(t *testing.T) {
	c := newCharacter(t)
	c.Hindrances = append(c.Hindrances, &character.Hindrance{Name: "Quirk"})
	c.Recalc()
	assert.Contains(t, messagesAt(c, character.Warning), "Quirk needs a specification")

	c.Hindrances[0].Specify = "Whistles"
	c.Recalc()
	assert.Empty(t, messagesAt(c, character.Warning))
}

func TestCalc_TooManyHindrancePointsWarns(t *testing.T) {
	c := newCharacter(t)
	c.Hindrances = append(c.Hindrances,
		&character.Hindrance{Name: "Arrogant"},
		&character.Hindrance{Name: "Bad Eyes", Major: true},
		&character.Hindrance{Name: "Loyal"},
	)
	c.Recalc()
	assert.Equal(t, 5, c.HindrancePoints())
	assert.Equal(t, character.Warning, c.ValidLevel())
}

// Property: Calc is idempotent for any point allocation.
func TestCalc_IdempotentForAnyAllocation(t *testing.T) {
	cat := newTestCatalog(t)
	rapid.Check(t, func(rt *rapid.T) {
		c := character.New(cat)
		for _, name := range character.AttributeNames {
			die := dice.Die(rapid.IntRange(int(dice.D4), int(dice.D12)).Draw(rt, name))
			c.AssignAttribute(name, die)
		}
		for _, name := range []string{"Fighting", "Notice", "Shooting"} {
			c.AssignSkill(name, dice.Die(rapid.IntRange(int(dice.D4), int(dice.D12)).Draw(rt, name)))
		}
		if rapid.Bool().Draw(rt, "brawny") {
			c.Edges = append(c.Edges, &character.Edge{ID: edgeBrawny})
		}
		c.AdvanceCount = rapid.IntRange(0, 20).Draw(rt, "advances")

		c.Calc(false, false)
		first := takeSnapshot(c)
		c.Calc(false, false)
		if second := takeSnapshot(c); !assert.ObjectsAreEqual(first, second) {
			rt.Fatalf("second Calc differs:\n%+v\n%+v", first, second)
		}
	})
}

// Property: skill points used never counts the free core d4.
func TestCalc_CoreSkillCostStartsAboveD4(t *testing.T) {
	cat := newTestCatalog(t)
	rapid.Check(t, func(rt *rapid.T) {
		c := character.New(cat)
		c.AssignAttribute(character.Smarts, dice.D12)
		die := dice.Die(rapid.IntRange(int(dice.D4), int(dice.D12)).Draw(rt, "notice"))
		c.AssignSkill("Notice", die)
		c.Recalc()
		if want := int(die - dice.D4); c.SkillPointsUsed() != want {
			rt.Fatalf("Notice %s cost %d, want %d", die, c.SkillPointsUsed(), want)
		}
	})
}

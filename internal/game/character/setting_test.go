package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/character"
)

const settingHouse = 20

// houseRulesCatalog adds a setting whose custom edges shadow and extend the catalog's.
func houseRulesCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := newTestCatalog(t)
	require.NoError(t, cat.AddSetting(&catalog.SettingDef{
		ID:            settingHouse,
		Name:          "House Rules",
		StartingFunds: 800,
		CustomEdges: []catalog.EdgeDef{
			{Common: catalog.Common{Name: "Alertness", Effects: []string{"+4 Notice bonus"}}},
			{Common: catalog.Common{Name: "Iron Jaw", Effects: []string{"+1 toughness"}}},
		},
	}))
	return cat
}

func houseCharacter(t *testing.T) *character.Character {
	t.Helper()
	c := character.New(houseRulesCatalog(t))
	c.Name = "Local"
	c.SettingID = settingHouse
	return c
}

func TestSettingEdgeRef(t *testing.T) {
	assert.Equal(t, "setting-edge-index-0", character.SettingEdgeRef(0))
	assert.Equal(t, "setting-edge-index-12", character.SettingEdgeRef(12))
}

func TestSetting_CustomEdgeShadowsCatalogByName(t *testing.T) {
	c := houseCharacter(t)
	c.Edges = append(c.Edges, &character.Edge{Name: "Alertness"})
	c.Recalc()
	assert.Equal(t, 4, c.Skill("Notice").Bonus())

	c = houseCharacter(t)
	c.Edges = append(c.Edges, &character.Edge{ID: edgeAlertness})
	c.Recalc()
	assert.Equal(t, 2, c.Skill("Notice").Bonus())

	c = newCharacter(t)
	c.Edges = append(c.Edges, &character.Edge{Name: "Alertness"})
	c.Recalc()
	assert.Equal(t, 2, c.Skill("Notice").Bonus())
}

func TestSetting_AdvanceTakesSettingEdge(t *testing.T) {
	c := houseCharacter(t)
	c.AdvanceCount = 1
	c.Advancements = []*character.Advancement{{Type: character.AdvanceEdge, Targets: []string{"Alertness"}}}
	c.Recalc()
	assert.Equal(t, 4, c.Skill("Notice").Bonus())
	assert.Empty(t, messagesAt(c, character.Error))
}

func TestSetting_AdvanceByEdgeRef(t *testing.T) {
	c := houseCharacter(t)
	c.Recalc()
	base := c.Toughness()

	c.AdvanceCount = 1
	c.Advancements = []*character.Advancement{{Type: character.AdvanceEdge, Targets: []string{character.SettingEdgeRef(1)}}}
	c.Recalc()

	require.Len(t, c.AddedEdges(), 1)
	assert.Equal(t, "Iron Jaw", c.AddedEdges()[0].DisplayName())
	assert.True(t, c.HasEdge("Iron Jaw", -1, -1))
	assert.Equal(t, base+1, c.Toughness())
	assert.Empty(t, messagesAt(c, character.Error))
}

func TestSetting_EdgeRefOutOfRange(t *testing.T) {
	c := houseCharacter(t)
	c.AdvanceCount = 1
	ref := character.SettingEdgeRef(5)
	c.Advancements = []*character.Advancement{{Type: character.AdvanceEdge, Targets: []string{ref}}}
	c.Recalc()
	assert.Empty(t, c.AddedEdges())
	assert.Contains(t, messagesAt(c, character.Error), `Advance #1: unknown edge "`+ref+`"`)
}

func TestSetting_ImportOverrideReplacesCatalogSetting(t *testing.T) {
	src := houseCharacter(t)
	src.SettingID = settingRifts
	data, err := src.ExportObj()
	require.NoError(t, err)

	plain := character.New(houseRulesCatalog(t))
	require.NoError(t, plain.ImportObj(data, nil, false))
	require.NotNil(t, plain.Setting())
	assert.Equal(t, "Rifts", plain.Setting().Name())
	assert.True(t, plain.SettingIsEnabled(catalog.RuleRiftsMDC))

	override := &catalog.SettingDef{Name: "Homebrew", Rules: []string{catalog.RuleDeluxeArmorStacking}, StartingFunds: 250}
	c := character.New(houseRulesCatalog(t))
	require.NoError(t, c.ImportObj(data, override, false))
	assert.Equal(t, "Homebrew", c.Setting().Name())
	assert.False(t, c.SettingIsEnabled(catalog.RuleRiftsMDC))
	assert.True(t, c.SettingIsEnabled(catalog.RuleDeluxeArmorStacking))
	assert.Equal(t, 250, c.StartingFunds())
	assert.Equal(t, settingRifts, c.SettingID)

	c.Recalc()
	assert.Equal(t, "Homebrew", c.Setting().Name())
}

func TestSetting_StartingFundsPrecedence(t *testing.T) {
	c := houseCharacter(t)
	c.Recalc()
	assert.Equal(t, 800, c.StartingFunds())

	c.StartFunds = 1000
	c.Recalc()
	assert.Equal(t, 1000, c.StartingFunds())

	c = newCharacter(t)
	c.Recalc()
	assert.Equal(t, character.DefaultStartingFunds, c.StartingFunds())
}

func TestSetting_ExtraRulesAddToSettingRules(t *testing.T) {
	c := houseCharacter(t)
	c.ExtraRules = []string{catalog.RuleLanguages}
	c.Recalc()
	assert.True(t, c.SettingIsEnabled(catalog.RuleLanguages))
	assert.Contains(t, c.Setting().Rules(), catalog.RuleLanguages)
	assert.Equal(t, "House Rules", c.Setting().Name())
}

package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Savaged-us/core-sub000/internal/game/character"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

func TestBuild_AppliesChoices(t *testing.T) {
	c, err := character.Build(newTestCatalog(t), character.Choices{
		Name:       "Kara",
		Setting:    "deluxe",
		Race:       "android",
		Attributes: map[string]string{"Agility": "d8", "smarts": "d6"},
		Skills:     map[string]string{"Fighting": "d6", "Notice": "d6"},
		Edges:      []string{"Arcane Background (Magic)"},
		Hindrances: []string{"Bad Eyes (Major)", "Quirk (whistles)"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Kara", c.Name)
	assert.Equal(t, "Deluxe", c.Setting().Name())
	require.NotNil(t, c.Race())
	assert.Equal(t, "Android", c.Race().Name)
	assert.Equal(t, dice.D8, c.AttributeCurrent(character.Agility))
	assert.Equal(t, dice.D6, c.AttributeCurrent(character.Smarts))
	assert.Equal(t, dice.D6, c.SkillValue("Fighting"))
	assert.Equal(t, dice.D6, c.SkillValue("Notice"))
	require.Len(t, c.ArcaneBackgrounds, 1)
	assert.Equal(t, "Magic", c.ArcaneBackgrounds[0].DisplayName())

	require.Len(t, c.Hindrances, 2)
	assert.True(t, c.Hindrances[0].Major)
	assert.Empty(t, c.Hindrances[0].Specify)
	assert.False(t, c.Hindrances[1].Major)
	assert.Equal(t, "whistles", c.Hindrances[1].Specify)
	assert.NotContains(t, messagesAt(c, character.Warning), "Quirk needs a specification")
}

func TestBuild_ReportsEveryBadChoice(t *testing.T) {
	_, err := character.Build(newTestCatalog(t), character.Choices{
		Name:       "Kara",
		Setting:    "Atlantis",
		Race:       "Dragon",
		Attributes: map[string]string{"Agility": "x8", "Luck": "d6"},
		Skills:     map[string]string{"Juggling": "d6"},
		Edges:      []string{"Flying"},
		Hindrances: []string{"Cursed"},
	})
	require.Error(t, err)
	for _, want := range []string{
		`setting "Atlantis" not found`,
		`race "Dragon" not found`,
		"attribute Agility",
		`attribute "Luck" is unknown or below d4`,
		`skill "Juggling" is unknown`,
		`edge "Flying" not found`,
		`hindrance "Cursed" not found`,
	} {
		assert.ErrorContains(t, err, want)
	}
}

func TestBuild_RejectsMissingInputs(t *testing.T) {
	_, err := character.Build(nil, character.Choices{Name: "Kara"})
	assert.Error(t, err)

	_, err = character.Build(newTestCatalog(t), character.Choices{})
	assert.ErrorContains(t, err, "name must not be empty")
}

func TestBuild_EdgeWithSpecification(t *testing.T) {
	c, err := character.Build(newTestCatalog(t), character.Choices{
		Name:  "Kara",
		Edges: []string{"Alertness (keen ears)"},
	})
	require.NoError(t, err)
	require.Len(t, c.Edges, 1)
	assert.Equal(t, "Alertness", c.Edges[0].Name)
	assert.Equal(t, "keen ears", c.Edges[0].Specify)
}

func TestAttributeAbbrev(t *testing.T) {
	assert.Equal(t, "AGI", character.AttributeAbbrev("Agility"))
	assert.Equal(t, "SMA", character.AttributeAbbrev("smarts"))
	assert.Equal(t, "SPI", character.AttributeAbbrev(character.Spirit))
	assert.Equal(t, "STR", character.AttributeAbbrev("STRENGTH"))
	assert.Equal(t, "VIG", character.AttributeAbbrev("Vigor"))
	assert.Equal(t, "<Luck>", character.AttributeAbbrev("Luck"))
}

// Property: every valid attribute pick is reflected in the built character.
func TestProperty_BuildHonorsAttributePicks(t *testing.T) {
	cat := newTestCatalog(t)
	attrs := []string{character.Agility, character.Smarts, character.Spirit, character.Strength, character.Vigor}
	rapid.Check(t, func(rt *rapid.T) {
		picks := map[string]dice.Die{}
		labels := map[string]string{}
		for _, a := range attrs {
			d := dice.Die(rapid.IntRange(int(dice.D4), int(dice.D12)).Draw(rt, a))
			picks[a] = d
			labels[a] = d.String()
		}
		c, err := character.Build(cat, character.Choices{Name: "Prop", Attributes: labels})
		if err != nil {
			rt.Fatalf("build: %v", err)
		}
		for a, want := range picks {
			if got := c.AttributeCurrent(a); got != want {
				rt.Fatalf("%s: got %s, want %s", a, got, want)
			}
		}
	})
}

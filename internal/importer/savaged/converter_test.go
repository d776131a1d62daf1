package savaged_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/importer/savaged"
)

func TestConvert_Basic(t *testing.T) {
	exp := &savaged.Export{
		Books: []savaged.ExportBook{{ID: 1, Name: " Core Rules ", ShortName: "SWADE", Core: true, AccessRegistered: true}},
		Skills: []savaged.ExportSkill{
			{ID: 1, Name: "Spellcasting", BookID: 1, Attribute: "Smarts"},
		},
		Edges: []savaged.ExportEdge{{
			ID: 7, Name: "Quick", BookID: 1,
			Requirements:           savaged.Lines{"Agility d8"},
			MinimumRank:            1,
			CanBeTakenMoreThanOnce: true,
			Category:               "Background",
		}},
		Hindrances: []savaged.ExportHindrance{
			{ID: 1, Name: "Bad Eyes", BookID: 1, MinorOrMajor: true},
			{ID: 2, Name: "Blind", BookID: 1, Major: true},
			{ID: 3, Name: "Quirk", BookID: 1, NeedsSpecify: true},
		},
		ArcaneBackgrounds: []savaged.ExportArcaneBackground{{
			ID: 1, Name: "Magic", BookID: 1, ArcaneSkill: "Spellcasting",
			StartingPowers: 3, StartingPowerPoints: 10, PowerList: savaged.Lines{"Bolt"},
		}},
	}

	b, warnings := savaged.Convert(exp)
	assert.Empty(t, warnings)

	require.Len(t, b.Books, 1)
	assert.Equal(t, &catalog.Book{ID: 1, Name: "Core Rules", Short: "SWADE", Core: true, Registered: true}, b.Books[0])

	require.Len(t, b.Skills, 1)
	assert.Equal(t, "smarts", b.Skills[0].Attribute)

	require.Len(t, b.Edges, 1)
	e := b.Edges[0]
	assert.Equal(t, 1, e.Rank)
	assert.Equal(t, []string{"Agility d8"}, e.Requirements)
	assert.True(t, e.Multiple)
	assert.Equal(t, "Background", e.Group)

	require.Len(t, b.Hindrances, 3)
	assert.Equal(t, catalog.SeverityEither, b.Hindrances[0].Severity)
	assert.Equal(t, catalog.SeverityMajor, b.Hindrances[1].Severity)
	assert.Equal(t, catalog.SeverityMinor, b.Hindrances[2].Severity)
	assert.True(t, b.Hindrances[2].SpecifyRequired)

	require.Len(t, b.ArcaneBackgrounds, 1)
	assert.Equal(t, "smarts", b.ArcaneBackgrounds[0].SkillAttribute, "attribute resolved from the skill export")
	assert.Equal(t, []string{"Bolt"}, b.ArcaneBackgrounds[0].PowerList)
}

func TestConvert_SkipsAndAdjustsWithWarnings(t *testing.T) {
	exp := &savaged.Export{
		Books: []savaged.ExportBook{
			{ID: 1, Name: "Core Rules"},
			{ID: 1, Name: "Copy"},
			{ID: 0, Name: "No ID"},
		},
		Skills: []savaged.ExportSkill{
			{ID: 1, Name: "Lore", BookID: 1},
		},
		Edges: []savaged.ExportEdge{
			{ID: 1, Name: "  ", BookID: 1},
			{ID: 2, Name: "Brave", BookID: 1, MinimumRank: -1},
			{ID: 2, Name: "Brave Again", BookID: 1},
			{ID: 3, Name: "Fan Edge", BookID: 42},
		},
		Powers: []savaged.ExportPower{
			{ID: 1, Name: "Bolt", BookID: 1, PowerPoints: -2},
		},
		ArcaneBackgrounds: []savaged.ExportArcaneBackground{
			{ID: 1, Name: "Weird Science", BookID: 1, ArcaneSkill: "Weird Science"},
		},
	}

	b, warnings := savaged.Convert(exp)
	assert.Len(t, b.Books, 1)
	assert.Empty(t, b.Skills)
	require.Len(t, b.Edges, 2)
	assert.Equal(t, "Brave", b.Edges[0].Name)
	assert.Equal(t, 0, b.Edges[0].Rank)
	assert.Equal(t, 42, b.Edges[1].BookID)
	require.Len(t, b.Powers, 1)
	assert.Equal(t, 0, b.Powers[0].PowerPoints)
	assert.Empty(t, b.ArcaneBackgrounds)

	assert.ElementsMatch(t, []string{
		`book "Copy": duplicate id 1; skipping`,
		`book "No ID": id must be > 0, got 0; skipping`,
		`skill "Lore": no linked attribute; skipping`,
		`edge 1: blank name; skipping`,
		`edge "Brave": negative minimum_rank -1; using 0`,
		`edge "Brave Again": duplicate id 2; skipping`,
		`edge "Fan Edge": unknown book_id 42; filed as unsorted`,
		`power "Bolt": negative power_points -2; using 0`,
		`arcane background "Weird Science": arcane skill "Weird Science" has no known attribute; skipping`,
	}, warnings)
}

func TestConvert_RaceAbilities(t *testing.T) {
	b, warnings := savaged.Convert(&savaged.Export{
		Races: []savaged.ExportRace{{
			ID: 1, Name: "Android",
			Abilities: []savaged.ExportRaceAbility{
				{Name: "Construct", Effects: savaged.Lines{"+2 toughness"}, Positive: true},
				{Name: ""},
			},
		}},
	})
	require.Len(t, b.Races, 1)
	require.Len(t, b.Races[0].Abilities, 1)
	assert.Equal(t, "Construct", b.Races[0].Abilities[0].Name)
	assert.Equal(t, []string{"+2 toughness"}, b.Races[0].Abilities[0].Effects)
	assert.Equal(t, []string{`race "Android": ability with blank name; skipping`}, warnings)
}

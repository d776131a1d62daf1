package requirement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Savaged-us/core-sub000/internal/game/dice"
	"github.com/Savaged-us/core-sub000/internal/game/requirement"
)

func veteranFighter() requirement.Context {
	return requirement.Context{
		Rank:     2,
		WildCard: true,
		Attributes: map[string]dice.Die{
			"Agility": dice.D8, "Smarts": dice.D6, "Spirit": dice.D6, "Strength": dice.D10, "Vigor": dice.D8,
		},
		Skills:            map[string]dice.Die{"Fighting": dice.D10, "Common Knowledge": dice.D4},
		Edges:             []string{"Brawny", "Block"},
		Hindrances:        []string{"Clueless"},
		ArcaneBackgrounds: []string{"Magic"},
		SettingRules:      []string{"deluxe_armor_stacking"},
	}
}

func TestTranslate(t *testing.T) {
	cases := map[string]string{
		"":                  "true",
		"Seasoned":          "rank >= 1",
		"Wild Card":         "wild_card",
		"Edge: Block":       `"block" in edges`,
		"Hindrance: Mean":   `"mean" in hindrances`,
		"not Brave":         `!("brave" in edges)`,
		"expr: rank > 3":    "rank > 3",
		"Arcane Background": "size(arcane_backgrounds) > 0",
	}
	for line, want := range cases {
		got, err := requirement.Translate(line)
		require.NoError(t, err, line)
		assert.Equal(t, want, got, line)
	}
}

func TestTranslate_BadDie(t *testing.T) {
	_, err := requirement.Translate("Fighting d7+")
	assert.Error(t, err)
}

func TestEvaluator_Met(t *testing.T) {
	ev, err := requirement.NewEvaluator()
	require.NoError(t, err)
	ctx := veteranFighter()

	cases := []struct {
		line string
		want bool
	}{
		{"Novice", true},
		{"Heroic", false},
		{"Seasoned, Fighting d8+", true},
		{"Seasoned, Fighting d12+", false},
		{"Strength d10+, Vigor d6+", true},
		{"Shooting d6+", false},
		{"Brave or Brawny", true},
		{"Brave or Berserk", false},
		{"Arcane Background (Magic)", true},
		{"Arcane Background (Miracles)", false},
		{"Hindrance: Clueless", true},
		{"not Hindrance: Clueless", false},
		{"Wild Card, Edge: Block", true},
		{"Setting: deluxe_armor_stacking", true},
		{`expr: skills["fighting"] > attributes["agility"]`, true},
	}
	for _, tc := range cases {
		got, err := ev.Met(tc.line, ctx)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}
}

func TestEvaluator_CachesPrograms(t *testing.T) {
	ev, err := requirement.NewEvaluator()
	require.NoError(t, err)
	ctx := veteranFighter()
	for i := 0; i < 3; i++ {
		_, err := ev.Met("Seasoned, Fighting d8+", ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, ev.CachedPrograms())
}

func TestEvaluator_Errors(t *testing.T) {
	ev, err := requirement.NewEvaluator()
	require.NoError(t, err)
	_, err = ev.Met("expr: rank +", veteranFighter())
	assert.Error(t, err)
	_, err = ev.Met("expr: rank", veteranFighter())
	assert.Error(t, err, "non-bool result")
}

func TestEvaluator_Unmet(t *testing.T) {
	ev, err := requirement.NewEvaluator()
	require.NoError(t, err)
	unmet, errs := ev.Unmet([]string{"Novice", "Legendary", "expr: ("}, veteranFighter())
	assert.Equal(t, []string{"Legendary"}, unmet)
	assert.Len(t, errs, 1)
}

// Property: a trait requirement holds exactly when the trait die is at least the required die.
func TestEvaluator_TraitThreshold_Property(t *testing.T) {
	ev, err := requirement.NewEvaluator()
	require.NoError(t, err)
	rapid.Check(t, func(rt *rapid.T) {
		have := dice.Die(rapid.IntRange(0, 8).Draw(rt, "have"))
		need := dice.Die(rapid.IntRange(1, 7).Draw(rt, "need"))
		ctx := requirement.Context{Skills: map[string]dice.Die{"Notice": have}}
		got, err := ev.Met("Notice "+need.String()+"+", ctx)
		if err != nil {
			rt.Fatalf("Met: %v", err)
		}
		if got != (have >= need) {
			rt.Fatalf("have %s need %s: got %v", have, need, got)
		}
	})
}

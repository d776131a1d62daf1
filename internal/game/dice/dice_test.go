package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

func TestDie_Labels(t *testing.T) {
	cases := map[dice.Die]string{
		dice.Untrained: "d4-2",
		dice.D4:        "d4",
		dice.D6:        "d6",
		dice.D8:        "d8",
		dice.D10:       "d10",
		dice.D12:       "d12",
		dice.D12 + 2:   "d12+2",
	}
	for d, label := range cases {
		assert.Equal(t, label, d.String())
		parsed, err := dice.ParseDie(label)
		require.NoError(t, err, label)
		assert.Equal(t, d, parsed, label)
	}
}

func TestDie_Half(t *testing.T) {
	assert.Equal(t, 2, dice.D4.Half())
	assert.Equal(t, 3, dice.D6.Half())
	assert.Equal(t, 6, dice.D12.Half())
	assert.Equal(t, 6, (dice.D12 + 1).Half())
	assert.Equal(t, 7, (dice.D12 + 2).Half())
}

func TestParseDie_AcceptsRequirementSuffix(t *testing.T) {
	d, err := dice.ParseDie("D8+")
	require.NoError(t, err)
	assert.Equal(t, dice.D8, d)
}

func TestParseDie_Rejects(t *testing.T) {
	for _, bad := range []string{"", "8", "d7", "d20", "d8+1", "dx"} {
		_, err := dice.ParseDie(bad)
		assert.Error(t, err, bad)
	}
}

func TestDie_RaiseNeverBelowUntrained(t *testing.T) {
	assert.Equal(t, dice.Untrained, dice.D4.Raise(-5))
	assert.Equal(t, dice.D8, dice.D4.Raise(2))
}

func TestParse_Expression(t *testing.T) {
	e, err := dice.Parse("2d6+1")
	require.NoError(t, err)
	assert.Equal(t, 2, e.Count)
	assert.Equal(t, 6, e.Sides)
	assert.Equal(t, 1, e.Modifier)
	assert.Equal(t, "2d6+1", e.String())

	_, err = dice.Parse("2x6")
	assert.Error(t, err)
}

func TestFormatDamage(t *testing.T) {
	assert.Equal(t, "d8+d6", dice.FormatDamage("Str+d6", dice.D8))
	assert.Equal(t, "2d6", dice.FormatDamage("2D6", dice.D8))
	assert.Equal(t, "d12+1+d4", dice.FormatDamage("Str + d4", dice.D12+1))
	assert.Equal(t, "", dice.FormatDamage("", dice.D8))
}

// Property: every ordinal from d4 upward survives a label round trip.
func TestDie_RoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := dice.Die(rapid.IntRange(0, 12).Draw(rt, "die"))
		parsed, err := dice.ParseDie(d.String())
		if err != nil {
			rt.Fatalf("ParseDie(%q): %v", d.String(), err)
		}
		if parsed != d {
			rt.Fatalf("round trip %d -> %q -> %d", d, d.String(), parsed)
		}
	})
}

package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/character"
	"github.com/Savaged-us/core-sub000/internal/scripting"
)

// fakeRunner handles a single scripted directive by adding its first argument to pace.
type fakeRunner struct {
	name  string
	calls []string
}

func (f *fakeRunner) RunDirective(name string, args []string, api scripting.DirectiveAPI) bool {
	f.calls = append(f.calls, api.Source)
	if name != f.name {
		return false
	}
	return api.AddDerived("pace", len(args))
}

func customEdge(name string, effects ...string) *character.Edge {
	return &character.Edge{Name: name, Custom: &catalog.EdgeDef{
		Common: catalog.Common{Name: name, Effects: effects},
	}}
}

func TestEffects_UnknownEdgeIsLoggedAndSkipped(t *testing.T) {
	opt, logs := observed()
	c := newCharacter(t, opt)
	c.Edges = append(c.Edges, &character.Edge{Name: "Nonexistent"})
	c.Recalc()

	entries := logs.FilterMessage("reference not found").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "edge", entries[0].ContextMap()["kind"])
	assert.Equal(t, "Nonexistent", entries[0].ContextMap()["name"])
	assert.Empty(t, c.EdgesData())
}

func TestEffects_UnhandledDirectiveWarns(t *testing.T) {
	opt, logs := observed()
	c := newCharacter(t, opt)
	c.Edges = append(c.Edges, customEdge("Fleet", "blessing: 1, 2"))
	c.Recalc()

	entries := logs.FilterMessage("unhandled effect directive").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "blessing", entries[0].ContextMap()["directive"])
	assert.Equal(t, "Edge: Fleet", entries[0].ContextMap()["source"])
	assert.Equal(t, 6, c.Pace())
}

func TestEffects_ScriptedDirectiveFallback(t *testing.T) {
	runner := &fakeRunner{name: "blessing"}
	opt, logs := observed()
	c := newCharacter(t, opt, character.WithScripts(runner))
	c.Edges = append(c.Edges, customEdge("Fleet", "blessing: 1, 2"))
	c.Recalc()

	assert.Equal(t, 8, c.Pace())
	assert.Equal(t, []string{"Edge: Fleet"}, runner.calls)
	assert.Zero(t, logs.FilterMessage("unhandled effect directive").Len())

	c.Recalc()
	assert.Equal(t, 8, c.Pace())
}

func TestEffects_BuiltinDirectivesNeverReachScripts(t *testing.T) {
	runner := &fakeRunner{name: "add_edge"}
	c := newCharacter(t, character.WithScripts(runner))
	c.Edges = append(c.Edges, customEdge("Sharp", "add_edge: Alertness"))
	c.Recalc()

	assert.Empty(t, runner.calls)
	require.Len(t, c.AddedEdges(), 1)
	assert.Equal(t, "Edge: Sharp", c.AddedEdges()[0].AddedFrom())
}

func TestEffects_NumericModifiers(t *testing.T) {
	c := newCharacter(t)
	c.Edges = append(c.Edges, customEdge("Hardy", "+1 toughness", "+2 pace", "+1 notice", "+1 vigor"))
	c.Recalc()

	assert.Equal(t, 6, c.Toughness())
	assert.Equal(t, 8, c.Pace())
	assert.Equal(t, "d6", c.SkillValue("Notice").String())
	assert.Equal(t, "d6", c.AttributeCurrent(character.Vigor).String())
}

func TestEffects_UnknownTraitIsLogged(t *testing.T) {
	opt, logs := observed()
	c := newCharacter(t, opt)
	c.Edges = append(c.Edges, customEdge("Odd", "+1 juggling"))
	c.Recalc()

	entries := logs.FilterMessage("reference not found").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "trait", entries[0].ContextMap()["kind"])
}

func TestEffects_AddEdgeResolvesWholeNameFirst(t *testing.T) {
	c := newCharacter(t)
	c.Edges = append(c.Edges, customEdge("Gifted", "add_edge: Arcane Background (Magic)"))
	c.Recalc()

	assert.True(t, c.HasEdge("Arcane Background (Magic)", -1, -1))
	assert.Len(t, c.ActiveArcaneBackgrounds(), 1)
	require.NotNil(t, c.Skill("Spellcasting"))
	assert.Empty(t, messagesAt(c, character.Error))
}

func TestEffects_AddEdgeSplitsSpecifyText(t *testing.T) {
	c := newCharacter(t)
	c.Edges = append(c.Edges, customEdge("Watchful", "add_edge: Alertness (Night)"))
	c.Recalc()

	require.Len(t, c.AddedEdges(), 1)
	e := c.AddedEdges()[0]
	assert.Equal(t, "Alertness (Night)", e.DisplayName())
	assert.Equal(t, 2, c.Skill("Notice").Bonus())
}

func TestEffects_FrameworkGrantsParenthesizedEdge(t *testing.T) {
	cat := newTestCatalog(t)
	require.NoError(t, cat.AddFramework(&catalog.FrameworkDef{
		Common: catalog.Common{ID: 1, Name: "Hedge Wizard", BookID: 1},
		Edges:  []string{"Arcane Background (Magic)"},
	}))
	c := character.New(cat)
	c.FrameworkID = 1
	c.Recalc()

	assert.True(t, c.HasEdge("Arcane Background (Magic)", -1, -1))
	assert.Len(t, c.ActiveArcaneBackgrounds(), 1)
	s := c.Skill("Spellcasting")
	require.NotNil(t, s)
	assert.Equal(t, character.Smarts, s.LinkedAttribute())
}

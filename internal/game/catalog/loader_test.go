package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

func writeContent(t *testing.T, root, kind, name, body string) {
	t.Helper()
	dir := filepath.Join(root, kind)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDirectory_MultiDocument(t *testing.T) {
	root := t.TempDir()
	writeContent(t, root, "books", "books.yaml", `
id: 1
name: Core Rules
core: true
registered: true
---
id: 2
name: Fantasy Companion
`)
	writeContent(t, root, "edges", "combat.yaml", `
id: 10
name: Block
book_id: 1
rank: 1
requirements: ["Seasoned, Fighting d8+"]
effects: ["+1 parry"]
---
id: 11
name: Brawny
book_id: 2
effects: ["+1 toughness"]
`)
	writeContent(t, root, "armor", "armor.yml", `
id: 100
name: Leather Jacket
book_id: 1
cost: 20
weight: 5
armor: 1
covers: [torso, arms]
`)

	cat, err := catalog.LoadDirectory(root, catalog.LoadOptions{})
	require.NoError(t, err)

	counts := cat.Counts()
	assert.Equal(t, 2, counts["books"])
	assert.Equal(t, 2, counts["edges"])
	assert.Equal(t, 1, counts["armor"])

	block, ok := cat.EdgeByName("  block ", nil)
	require.True(t, ok)
	assert.Equal(t, 10, block.ID)
	assert.Equal(t, []string{"+1 parry"}, block.Effects)

	armor, ok := cat.Armor(100)
	require.True(t, ok)
	assert.Equal(t, []catalog.Location{catalog.LocationTorso, catalog.LocationArms}, armor.Covers)
}

func TestLoadDirectory_RegisteredOnly(t *testing.T) {
	root := t.TempDir()
	writeContent(t, root, "books", "books.yaml", `
id: 1
name: Core Rules
registered: true
---
id: 2
name: Premium
`)
	writeContent(t, root, "hindrances", "h.yaml", `
id: 1
name: Clueless
book_id: 1
severity: minor
---
id: 2
name: Cursed
book_id: 2
severity: major
`)
	cat, err := catalog.LoadDirectory(root, catalog.LoadOptions{RegisteredOnly: true})
	require.NoError(t, err)
	_, ok := cat.HindranceByName("Clueless", nil)
	assert.True(t, ok)
	_, ok = cat.HindranceByName("Cursed", nil)
	assert.False(t, ok)
}

func TestLoadDirectory_UnknownFieldRejected(t *testing.T) {
	root := t.TempDir()
	writeContent(t, root, "gear", "g.yaml", `
id: 1
name: Rope
cost: 10
colour: red
`)
	_, err := catalog.LoadDirectory(root, catalog.LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "g.yaml")
}

func TestLoadDirectory_InvalidDefinition(t *testing.T) {
	root := t.TempDir()
	writeContent(t, root, "hindrances", "h.yaml", `
id: 1
name: Odd
severity: huge
`)
	_, err := catalog.LoadDirectory(root, catalog.LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Odd")
}

func TestLoadDirectory_DuplicateID(t *testing.T) {
	root := t.TempDir()
	writeContent(t, root, "powers", "p.yaml", `
id: 5
name: Bolt
power_points: 1
---
id: 5
name: Blast
power_points: 2
`)
	_, err := catalog.LoadDirectory(root, catalog.LoadOptions{})
	require.Error(t, err)
}

func TestLoadDirectory_MissingRoot(t *testing.T) {
	_, err := catalog.LoadDirectory(filepath.Join(t.TempDir(), "nope"), catalog.LoadOptions{})
	require.Error(t, err)
}

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

func TestLoadDirectory_SampleContent(t *testing.T) {
	cat, err := catalog.LoadDirectory(filepath.Join(repoRoot(t), "content"), catalog.LoadOptions{RegisteredOnly: true})
	require.NoError(t, err)

	counts := cat.Counts()
	assert.Equal(t, 1, counts["books"])
	assert.NotZero(t, counts["skills"])
	assert.NotZero(t, counts["edges"])

	ab, ok := cat.ArcaneBackgroundByName("miracles", nil)
	require.True(t, ok)
	assert.Contains(t, ab.PowerList, "Healing")

	deluxe, ok := cat.SettingByName("Deluxe")
	require.True(t, ok)
	assert.Equal(t, []string{catalog.RuleDeluxeArmorStacking}, deluxe.Rules)
}

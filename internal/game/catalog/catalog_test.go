package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

func TestCatalog_NameLookupRespectsBooks(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.AddEdge(&catalog.EdgeDef{Common: catalog.Common{ID: 1, Name: "Alertness", BookID: 1}}))
	require.NoError(t, cat.AddEdge(&catalog.EdgeDef{Common: catalog.Common{ID: 2, Name: "Alertness", BookID: 2}}))

	e, ok := cat.EdgeByName("ALERTNESS", catalog.BookFilter{2})
	require.True(t, ok)
	assert.Equal(t, 2, e.ID)

	_, ok = cat.EdgeByName("Alertness", catalog.BookFilter{3})
	assert.False(t, ok)

	assert.Len(t, cat.Edges(catalog.BookFilter{1}), 1)
	assert.Len(t, cat.Edges(nil), 2)
}

func TestCatalog_DuplicateIDRejected(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.AddGear(&catalog.GearDef{Common: catalog.Common{ID: 7, Name: "Rope"}}))
	assert.Error(t, cat.AddGear(&catalog.GearDef{Common: catalog.Common{ID: 7, Name: "Torch"}}))
	// Custom entries carry ID 0 and never collide.
	require.NoError(t, cat.AddGear(&catalog.GearDef{Common: catalog.Common{Name: "A"}}))
	require.NoError(t, cat.AddGear(&catalog.GearDef{Common: catalog.Common{Name: "B"}}))
}

func TestBookFilter_Allows(t *testing.T) {
	assert.True(t, catalog.BookFilter(nil).Allows(9))
	assert.True(t, catalog.BookFilter{1}.Allows(0))
	assert.True(t, catalog.BookFilter{1, 2}.Allows(2))
	assert.False(t, catalog.BookFilter{1}.Allows(2))
}

func TestArmorDef_Validate(t *testing.T) {
	good := &catalog.ArmorDef{
		GearDef: catalog.GearDef{Common: catalog.Common{ID: 1, Name: "Plate"}},
		Armor:   4, Covers: []catalog.Location{catalog.LocationTorso}, Tier: catalog.TierHeavy,
		MinStrength: "d10",
	}
	assert.NoError(t, good.Validate())

	bad := *good
	bad.Covers = []catalog.Location{"tail"}
	assert.Error(t, bad.Validate())

	bad = *good
	bad.MinStrength = "d7"
	assert.Error(t, bad.Validate())
}

func TestWeaponDef_Validate(t *testing.T) {
	w := &catalog.WeaponDef{GearDef: catalog.GearDef{Common: catalog.Common{ID: 1, Name: "Sword"}}}
	assert.Error(t, w.Validate(), "damage is required")
	w.Damage = "Str+d8"
	assert.NoError(t, w.Validate())
	assert.True(t, w.IsMelee())
}

// Property: NormalizeName is idempotent and case-insensitive.
func TestNormalizeName_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringMatching(`[A-Za-z ]{0,20}`).Draw(rt, "name")
		n := catalog.NormalizeName(s)
		if catalog.NormalizeName(n) != n {
			rt.Fatalf("not idempotent: %q -> %q", s, n)
		}
		if !catalog.NamesMatch(s, s+" ") {
			rt.Fatalf("trailing space changed identity of %q", s)
		}
	})
}

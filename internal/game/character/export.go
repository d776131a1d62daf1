package character

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
)

// ExportObj encodes the authored state as indented JSON. Derived state is not
// written; skill rows created by effects are left out.
func (c *Character) ExportObj() ([]byte, error) {
	cp := *c
	cp.Skills = make([]*Skill, 0, len(c.Skills))
	for _, s := range c.Skills {
		if !s.transient {
			cp.Skills = append(cp.Skills, s)
		}
	}
	data, err := json.MarshalIndent(&cp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("character: exporting %q: %w", c.Name, err)
	}
	return data, nil
}

// ImportObj replaces the aggregate with the decoded document. settingOverride, when
// non-nil, replaces the catalog setting named by the document. Unless skipCalc is
// set, Calc runs with the engine's default flags.
//
// Postcondition: on error the aggregate is empty and LastImportError holds the error.
func (c *Character) ImportObj(data []byte, settingOverride *catalog.SettingDef, skipCalc bool) error {
	eng := c.eng
	fresh := newWithEngine(eng)
	if err := json.Unmarshal(data, fresh); err != nil {
		err = fmt.Errorf("character: importing: %w", err)
		eng.logger.Warn("character import failed", zap.Error(err))
		*c = *newWithEngine(eng)
		c.LastImportError = err
		return err
	}
	fresh.settingOverride = settingOverride
	fresh.dropNullEntries()
	fresh.ensureUUIDs()
	*c = *fresh
	if !skipCalc {
		c.Recalc()
	}
	return nil
}

// dropNullEntries removes null list entries a document may carry. Arcane
// background and advancement slots stay sparse.
func (c *Character) dropNullEntries() {
	log := c.eng.logger
	c.Skills = compact(log, "skills", c.Skills)
	for _, s := range c.Skills {
		s.Specialties = compact(log, "skills.specialties", s.Specialties)
	}
	c.Edges = compact(log, "edges", c.Edges)
	c.Hindrances = compact(log, "hindrances", c.Hindrances)
	for _, ab := range c.ArcaneBackgrounds {
		if ab == nil {
			continue
		}
		ab.SelectedPowers = compact(log, "arcane_backgrounds.selected_powers", ab.SelectedPowers)
		ab.CustomPowers = compact(log, "arcane_backgrounds.custom_powers", ab.CustomPowers)
	}
	c.Gear = compact(log, "gear", c.Gear)
	c.Weapons = compact(log, "weapons", c.Weapons)
	c.Armor = compact(log, "armor", c.Armor)
	c.Vehicles = compact(log, "vehicles", c.Vehicles)
	c.Cyberware = compact(log, "cyberware", c.Cyberware)
	c.RobotMods = compact(log, "robot_mods", c.RobotMods)
	c.Tattoos = compact(log, "tattoos", c.Tattoos)
}

func compact[T any](log *zap.Logger, list string, in []*T) []*T {
	out := in[:0]
	for i, v := range in {
		if v == nil {
			log.Warn("dropping null entry", zap.String("list", list), zap.Int("index", i))
			continue
		}
		out = append(out, v)
	}
	return out
}

// ensureUUIDs gives documents written without instance ids fresh ones.
func (c *Character) ensureUUIDs() {
	each := func(it *Item) {
		if it.UUID == uuid.Nil {
			it.UUID = uuid.New()
		}
	}
	for _, g := range c.Gear {
		each(&g.Item)
	}
	for _, w := range c.Weapons {
		each(&w.Item)
	}
	for _, a := range c.Armor {
		each(&a.Item)
	}
	for _, v := range c.Vehicles {
		each(&v.Item)
	}
	for _, cw := range c.Cyberware {
		each(&cw.Item)
	}
	for _, r := range c.RobotMods {
		each(&r.Item)
	}
	for _, t := range c.Tattoos {
		each(&t.Item)
	}
}

// Recalc runs Calc with the flags set by WithCalcFlags.
func (c *Character) Recalc() {
	c.Calc(c.eng.saveAddedEdges, c.eng.calcLanguages)
}

// ExportSchema returns the JSON schema of the document ExportObj writes.
func ExportSchema() *jsonschema.Schema {
	uuidType := reflect.TypeOf(uuid.UUID{})
	r := &jsonschema.Reflector{
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == uuidType {
				return &jsonschema.Schema{Type: "string", Format: "uuid"}
			}
			return nil
		},
	}
	s := r.Reflect(&Character{})
	s.Title = "Character"
	s.Description = "Authored character state as written by ExportObj."
	return s
}

package savaged

import (
	"fmt"
	"strings"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/importer"
)

// Export holds the parsed export files of one source directory.
type Export struct {
	Books             []ExportBook
	Skills            []ExportSkill
	Races             []ExportRace
	Edges             []ExportEdge
	Hindrances        []ExportHindrance
	Powers            []ExportPower
	ArcaneBackgrounds []ExportArcaneBackground
}

// admitter filters one kind of export entry: blank names and repeated non-zero
// ids are dropped, unknown books are reported but kept.
type admitter struct {
	kind     string
	books    map[int]bool
	seen     map[int]bool
	warnings *[]string
}

func (a *admitter) warn(format string, args ...any) {
	*a.warnings = append(*a.warnings, fmt.Sprintf(a.kind+" "+format, args...))
}

func (a *admitter) admit(id int, rawName string, bookID int) (string, bool) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		a.warn("%d: blank name; skipping", id)
		return "", false
	}
	if id != 0 {
		if a.seen[id] {
			a.warn("%q: duplicate id %d; skipping", name, id)
			return "", false
		}
		a.seen[id] = true
	}
	if bookID != 0 && !a.books[bookID] {
		a.warn("%q: unknown book_id %d; filed as %s", name, bookID, importer.UnsortedStem)
	}
	return name, true
}

// clamp returns v, or 0 with a warning when v is negative.
func (a *admitter) clamp(name, field string, v int) int {
	if v < 0 {
		a.warn("%q: negative %s %d; using 0", name, field, v)
		return 0
	}
	return v
}

// Convert transforms parsed export files into a Bundle.
//
// Precondition: exp must be non-nil.
// Postcondition: returns a non-nil Bundle and a (possibly empty) slice of
// warnings for every entry that was skipped or adjusted.
func Convert(exp *Export) (*importer.Bundle, []string) {
	var warnings []string
	b := &importer.Bundle{}

	books := make(map[int]bool, len(exp.Books))
	for _, eb := range exp.Books {
		name := strings.TrimSpace(eb.Name)
		switch {
		case eb.ID <= 0:
			warnings = append(warnings, fmt.Sprintf("book %q: id must be > 0, got %d; skipping", name, eb.ID))
			continue
		case name == "":
			warnings = append(warnings, fmt.Sprintf("book %d: blank name; skipping", eb.ID))
			continue
		case books[eb.ID]:
			warnings = append(warnings, fmt.Sprintf("book %q: duplicate id %d; skipping", name, eb.ID))
			continue
		}
		books[eb.ID] = true
		b.Books = append(b.Books, &catalog.Book{
			ID:         eb.ID,
			Name:       name,
			Short:      strings.TrimSpace(eb.ShortName),
			Core:       eb.Core,
			Registered: eb.AccessRegistered,
		})
	}

	newAdmitter := func(kind string) *admitter {
		return &admitter{kind: kind, books: books, seen: map[int]bool{}, warnings: &warnings}
	}

	skillAttr := make(map[string]string, len(exp.Skills))
	a := newAdmitter("skill")
	for _, es := range exp.Skills {
		name, ok := a.admit(es.ID, es.Name, es.BookID)
		if !ok {
			continue
		}
		attr := strings.ToLower(strings.TrimSpace(es.Attribute))
		if attr == "" {
			a.warn("%q: no linked attribute; skipping", name)
			continue
		}
		skillAttr[catalog.NormalizeName(name)] = attr
		b.Skills = append(b.Skills, &catalog.SkillDef{
			Common:    common(es.ID, name, es.BookID, es.Summary, nil),
			Attribute: attr,
			Core:      es.BaseSkill,
			Knowledge: es.IsKnowledge,
			Language:  es.Language,
		})
	}

	a = newAdmitter("race")
	for _, er := range exp.Races {
		name, ok := a.admit(er.ID, er.Name, er.BookID)
		if !ok {
			continue
		}
		race := &catalog.RaceDef{Common: common(er.ID, name, er.BookID, er.Summary, er.Effects)}
		for _, ab := range er.Abilities {
			abName := strings.TrimSpace(ab.Name)
			if abName == "" {
				a.warn("%q: ability with blank name; skipping", name)
				continue
			}
			race.Abilities = append(race.Abilities, catalog.RaceAbility{
				Name:     abName,
				Summary:  strings.TrimSpace(ab.Summary),
				Effects:  ab.Effects,
				Positive: ab.Positive,
			})
		}
		b.Races = append(b.Races, race)
	}

	a = newAdmitter("edge")
	for _, ee := range exp.Edges {
		name, ok := a.admit(ee.ID, ee.Name, ee.BookID)
		if !ok {
			continue
		}
		b.Edges = append(b.Edges, &catalog.EdgeDef{
			Common:           common(ee.ID, name, ee.BookID, ee.Summary, ee.Effects),
			Rank:             a.clamp(name, "minimum_rank", ee.MinimumRank),
			Requirements:     ee.Requirements,
			ArcaneBackground: strings.TrimSpace(ee.ArcaneBackground),
			SpecifyRequired:  ee.NeedsSpecify,
			Multiple:         ee.CanBeTakenMoreThanOnce,
			Group:            strings.TrimSpace(ee.Category),
		})
	}

	a = newAdmitter("hindrance")
	for _, eh := range exp.Hindrances {
		name, ok := a.admit(eh.ID, eh.Name, eh.BookID)
		if !ok {
			continue
		}
		b.Hindrances = append(b.Hindrances, &catalog.HindranceDef{
			Common:          common(eh.ID, name, eh.BookID, eh.Summary, eh.Effects),
			Severity:        severity(eh),
			SpecifyRequired: eh.NeedsSpecify,
		})
	}

	a = newAdmitter("power")
	for _, ep := range exp.Powers {
		name, ok := a.admit(ep.ID, ep.Name, ep.BookID)
		if !ok {
			continue
		}
		b.Powers = append(b.Powers, &catalog.PowerDef{
			Common:      common(ep.ID, name, ep.BookID, ep.Summary, ep.Effects),
			Rank:        a.clamp(name, "rank", ep.Rank),
			PowerPoints: a.clamp(name, "power_points", ep.PowerPoints),
			Range:       strings.TrimSpace(ep.Range),
			Duration:    strings.TrimSpace(ep.Duration),
			Trappings:   strings.TrimSpace(ep.Trappings),
		})
	}

	a = newAdmitter("arcane background")
	for _, eab := range exp.ArcaneBackgrounds {
		name, ok := a.admit(eab.ID, eab.Name, eab.BookID)
		if !ok {
			continue
		}
		skill := strings.TrimSpace(eab.ArcaneSkill)
		attr := strings.ToLower(strings.TrimSpace(eab.ArcaneSkillAttribute))
		if skill != "" && attr == "" {
			attr = skillAttr[catalog.NormalizeName(skill)]
			if attr == "" {
				a.warn("%q: arcane skill %q has no known attribute; skipping", name, skill)
				continue
			}
		}
		b.ArcaneBackgrounds = append(b.ArcaneBackgrounds, &catalog.ArcaneBackgroundDef{
			Common:              common(eab.ID, name, eab.BookID, eab.Summary, eab.Effects),
			ArcaneSkill:         skill,
			SkillAttribute:      attr,
			StartingPowers:      a.clamp(name, "starting_powers", eab.StartingPowers),
			StartingPowerPoints: a.clamp(name, "starting_power_points", eab.StartingPowerPoints),
			PowerList:           eab.PowerList,
			PowersCostPoints:    eab.PowersCostPoints,
		})
	}

	return b, warnings
}

func common(id int, name string, bookID int, summary string, effects Lines) catalog.Common {
	return catalog.Common{
		ID:      id,
		Name:    name,
		BookID:  bookID,
		Summary: strings.TrimSpace(summary),
		Effects: effects,
	}
}

func severity(h ExportHindrance) string {
	switch {
	case h.MinorOrMajor:
		return catalog.SeverityEither
	case h.Major:
		return catalog.SeverityMajor
	default:
		return catalog.SeverityMinor
	}
}

// Package savaged imports the per-kind JSON book exports published by the
// character builder site into the catalog content tree.
package savaged

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Lines is a text-list field. Exports carry it either as a JSON array of strings
// or as one newline-separated string; both decode to trimmed, non-blank lines.
type Lines []string

// UnmarshalJSON accepts a string array, a single string, or null.
func (l *Lines) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = cleanLines(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a string or a list of strings, got %s", data)
	}
	*l = cleanLines(strings.Split(s, "\n"))
	return nil
}

func cleanLines(in []string) Lines {
	var out Lines
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ExportBook is one entry of books.json.
type ExportBook struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	ShortName        string `json:"short_name"`
	Core             bool   `json:"core"`
	AccessRegistered bool   `json:"access_registered"`
}

// ExportSkill is one entry of skills.json. Attribute is capitalised in exports ("Agility").
type ExportSkill struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	BookID      int    `json:"book_id"`
	Summary     string `json:"summary"`
	Attribute   string `json:"attribute"`
	BaseSkill   bool   `json:"base_skill"`
	IsKnowledge bool   `json:"is_knowledge"`
	Language    bool   `json:"language"`
}

// ExportRaceAbility is one racial ability of an ExportRace.
type ExportRaceAbility struct {
	Name     string `json:"name"`
	Summary  string `json:"summary"`
	Effects  Lines  `json:"effects"`
	Positive bool   `json:"positive"`
}

// ExportRace is one entry of races.json.
type ExportRace struct {
	ID        int                 `json:"id"`
	Name      string              `json:"name"`
	BookID    int                 `json:"book_id"`
	Summary   string              `json:"summary"`
	Effects   Lines               `json:"effects"`
	Abilities []ExportRaceAbility `json:"abilities"`
}

// ExportEdge is one entry of edges.json.
type ExportEdge struct {
	ID                     int    `json:"id"`
	Name                   string `json:"name"`
	BookID                 int    `json:"book_id"`
	Summary                string `json:"summary"`
	Effects                Lines  `json:"effects"`
	Requirements           Lines  `json:"requirements"`
	MinimumRank            int    `json:"minimum_rank"`
	ArcaneBackground       string `json:"arcane_background"`
	NeedsSpecify           bool   `json:"needs_specify"`
	CanBeTakenMoreThanOnce bool   `json:"can_be_taken_more_than_once"`
	Category               string `json:"category"`
}

// ExportHindrance is one entry of hindrances.json.
type ExportHindrance struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	BookID       int    `json:"book_id"`
	Summary      string `json:"summary"`
	Effects      Lines  `json:"effects"`
	Major        bool   `json:"major"`
	MinorOrMajor bool   `json:"minor_or_major"`
	NeedsSpecify bool   `json:"needs_specify"`
}

// ExportPower is one entry of powers.json.
type ExportPower struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	BookID      int    `json:"book_id"`
	Summary     string `json:"summary"`
	Effects     Lines  `json:"effects"`
	Rank        int    `json:"rank"`
	PowerPoints int    `json:"power_points"`
	Range       string `json:"range"`
	Duration    string `json:"duration"`
	Trappings   string `json:"trappings"`
}

// ExportArcaneBackground is one entry of arcane_backgrounds.json.
type ExportArcaneBackground struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	BookID               int    `json:"book_id"`
	Summary              string `json:"summary"`
	Effects              Lines  `json:"effects"`
	ArcaneSkill          string `json:"arcane_skill"`
	ArcaneSkillAttribute string `json:"arcane_skill_attribute"`
	StartingPowers       int    `json:"starting_powers"`
	StartingPowerPoints  int    `json:"starting_power_points"`
	PowerList            Lines  `json:"power_list"`
	PowersCostPoints     bool   `json:"powers_cost_points"`
}

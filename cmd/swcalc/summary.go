package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Savaged-us/core-sub000/internal/game/character"
)

// summary is the printable result of a calculation.
type summary struct {
	Name       string                        `json:"name"`
	Race       string                        `json:"race,omitempty"`
	Setting    string                        `json:"setting,omitempty"`
	Rank       string                        `json:"rank"`
	Attributes []trait                       `json:"attributes"`
	Skills     []trait                       `json:"skills"`
	Pace       int                           `json:"pace"`
	Parry      int                           `json:"parry"`
	Toughness  string                        `json:"toughness"`
	Wealth     int                           `json:"wealth"`
	Strain     string                        `json:"strain"`
	Edges      []string                      `json:"edges"`
	Hindrances []string                      `json:"hindrances"`
	Powers     []string                      `json:"powers"`
	Messages   []character.ValidationMessage `json:"messages"`
	Valid      string                        `json:"valid_level"`
}

type trait struct {
	Name        string  `json:"name"`
	Die         string  `json:"die"`
	Specialties []trait `json:"specialties,omitempty"`
}

func summarize(c *character.Character) summary {
	s := summary{
		Name:      c.Name,
		Rank:      character.RankName(c.Rank()),
		Pace:      c.Pace(),
		Parry:     c.Parry(),
		Toughness: c.ToughnessAndArmor().Label,
		Wealth:    c.Wealth(),
		Strain:    fmt.Sprintf("%d/%d", c.Strain(), c.MaxStrain()),
		Messages:  c.ValidationMessages(),
		Valid:     c.ValidLevel().String(),
	}
	if r := c.Race(); r != nil {
		s.Race = r.Name
	}
	if st := c.Setting(); st != nil {
		s.Setting = st.Name()
	}
	for _, name := range character.AttributeNames {
		s.Attributes = append(s.Attributes, trait{Name: character.AttributeAbbrev(name), Die: c.AttributeCurrent(name).String()})
	}
	for _, sk := range c.Skills {
		die := sk.Value().String()
		if b := sk.Bonus(); b != 0 {
			die = fmt.Sprintf("%s%+d", die, b)
		}
		row := trait{Name: sk.Name, Die: die}
		for _, sp := range c.Specialties(sk.Name) {
			row.Specialties = append(row.Specialties, trait{Name: sp.Name, Die: sp.Value().String()})
		}
		s.Skills = append(s.Skills, row)
	}
	for _, e := range c.EdgesData() {
		s.Edges = append(s.Edges, e.Name)
	}
	for _, h := range c.HindrancesData() {
		if h.Removed {
			continue
		}
		label := h.Name + " (minor)"
		if h.Major {
			label = h.Name + " (major)"
		}
		s.Hindrances = append(s.Hindrances, label)
	}
	for _, p := range c.PowersData() {
		s.Powers = append(s.Powers, fmt.Sprintf("%s [%s, %d PP]", p.Name, p.ArcaneBackground, p.PowerPoints))
	}
	return s
}

func (s summary) write(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", s.Name)
	if s.Race != "" {
		fmt.Fprintf(tw, "Race\t%s\n", s.Race)
	}
	if s.Setting != "" {
		fmt.Fprintf(tw, "Setting\t%s\n", s.Setting)
	}
	fmt.Fprintf(tw, "Rank\t%s\n", s.Rank)
	for _, a := range s.Attributes {
		fmt.Fprintf(tw, "%s\t%s\n", a.Name, a.Die)
	}
	fmt.Fprintf(tw, "Pace\t%d\n", s.Pace)
	fmt.Fprintf(tw, "Parry\t%d\n", s.Parry)
	fmt.Fprintf(tw, "Toughness\t%s\n", s.Toughness)
	fmt.Fprintf(tw, "Wealth\t%d\n", s.Wealth)
	fmt.Fprintf(tw, "Strain\t%s\n", s.Strain)

	skills := make([]string, 0, len(s.Skills))
	for _, sk := range s.Skills {
		label := sk.Name + " " + sk.Die
		if len(sk.Specialties) > 0 {
			specs := make([]string, 0, len(sk.Specialties))
			for _, sp := range sk.Specialties {
				specs = append(specs, sp.Name+" "+sp.Die)
			}
			label += " (" + strings.Join(specs, ", ") + ")"
		}
		skills = append(skills, label)
	}
	fmt.Fprintf(tw, "Skills\t%s\n", joinOrDash(skills))
	fmt.Fprintf(tw, "Edges\t%s\n", joinOrDash(s.Edges))
	fmt.Fprintf(tw, "Hindrances\t%s\n", joinOrDash(s.Hindrances))
	fmt.Fprintf(tw, "Powers\t%s\n", joinOrDash(s.Powers))
	for _, m := range s.Messages {
		fmt.Fprintf(tw, "%s\t%s\n", m.Severity, m.Message)
	}
	return tw.Flush()
}

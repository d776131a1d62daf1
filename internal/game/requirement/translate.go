// Package requirement evaluates edge and power requirement lines
// ("Seasoned, Fighting d8+, Brave or Brawny") against a character snapshot.
// Lines are translated to CEL once and the compiled programs are cached.
package requirement

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// Rank names accepted in requirement lines, in order.
var rankNames = map[string]int{
	"novice":    0,
	"seasoned":  1,
	"veteran":   2,
	"heroic":    3,
	"legendary": 4,
}

// RawPrefix marks a line holding a raw CEL expression.
const RawPrefix = "expr:"

var traitRE = regexp.MustCompile(`^(.+?)\s+(d\d+(?:\+\d+)?)\+?$`)

// Translate converts one requirement line into a CEL boolean expression.
//
// Precondition: line may be any string.
// Postcondition: Returns "true" for an empty line; returns an error when an item cannot be read.
func Translate(line string) (string, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return "true", nil
	}
	if raw, ok := cutPrefixFold(s, RawPrefix); ok {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return "", fmt.Errorf("requirement: empty expression in %q", line)
		}
		return raw, nil
	}

	var clauses []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		c, err := translateAlternatives(item)
		if err != nil {
			return "", fmt.Errorf("requirement: %q: %w", line, err)
		}
		clauses = append(clauses, c)
	}
	if len(clauses) == 0 {
		return "true", nil
	}
	return strings.Join(clauses, " && "), nil
}

func translateAlternatives(item string) (string, error) {
	parts := splitFold(item, " or ")
	if len(parts) == 1 {
		return translateItem(parts[0])
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		c, err := translateItem(p)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	return "(" + strings.Join(out, " || ") + ")", nil
}

func translateItem(item string) (string, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return "", fmt.Errorf("empty alternative")
	}
	if rest, ok := cutPrefixFold(item, "not "); ok {
		c, err := translateItem(rest)
		if err != nil {
			return "", err
		}
		return "!(" + c + ")", nil
	}

	name := catalog.NormalizeName(item)
	if r, ok := rankNames[name]; ok {
		return fmt.Sprintf("rank >= %d", r), nil
	}
	if name == "wild card" {
		return "wild_card", nil
	}
	if name == "arcane background" {
		return "size(arcane_backgrounds) > 0", nil
	}
	if rest, ok := strings.CutPrefix(name, "arcane background"); ok {
		ab := strings.Trim(strings.TrimSpace(rest), "()")
		ab = strings.TrimSpace(ab)
		if ab == "" || strings.EqualFold(ab, "any") {
			return "size(arcane_backgrounds) > 0", nil
		}
		return quote(ab) + " in arcane_backgrounds", nil
	}
	if rest, ok := strings.CutPrefix(name, "edge:"); ok {
		return quote(strings.TrimSpace(rest)) + " in edges", nil
	}
	if rest, ok := strings.CutPrefix(name, "hindrance:"); ok {
		return quote(strings.TrimSpace(rest)) + " in hindrances", nil
	}
	if rest, ok := strings.CutPrefix(name, "setting:"); ok {
		return quote(strings.TrimSpace(rest)) + " in setting_rules", nil
	}

	if m := traitRE.FindStringSubmatch(name); m != nil {
		if _, err := dice.ParseDie(m[2]); err != nil {
			return "", err
		}
		trait := quote(m[1])
		return fmt.Sprintf("(%s in attributes ? attributes[%s] : (%s in skills ? skills[%s] : 0)) >= die(%s)",
			trait, trait, trait, trait, quote(m[2])), nil
	}

	return quote(name) + " in edges", nil
}

func quote(s string) string {
	return strconv.Quote(s)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// splitFold splits s on sep ignoring case.
func splitFold(s, sep string) []string {
	lower := strings.ToLower(s)
	var out []string
	for {
		i := strings.Index(lower, sep)
		if i < 0 {
			return append(out, s)
		}
		out = append(out, s[:i])
		s = s[i+len(sep):]
		lower = lower[i+len(sep):]
	}
}

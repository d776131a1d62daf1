// Package dice provides the trait die ordinal used by every attribute and skill
// calculation, plus parsing of the dice expressions found in weapon damage lines.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Die is an ordinal trait die: 0 = untrained (d4-2), 1 = d4, 2 = d6, 3 = d8,
// 4 = d10, 5 = d12, and every step past d12 is a flat +1 (6 = d12+1, 7 = d12+2).
//
// All trait math is done on the ordinal, never on the label.
type Die int

const (
	Untrained Die = iota
	D4
	D6
	D8
	D10
	D12
)

// Sides returns the number of faces of the die, capped at 12.
//
// Postcondition: Returns 4 for Untrained so half-die math still has a base.
func (d Die) Sides() int {
	switch {
	case d <= D4:
		return 4
	case d >= D12:
		return 12
	default:
		return int(d)*2 + 2
	}
}

// Plus returns the flat bonus above d12 (d12+2 -> 2), or the untrained penalty as a negative.
func (d Die) Plus() int {
	if d > D12 {
		return int(d - D12)
	}
	if d <= Untrained {
		return -2
	}
	return 0
}

// Half returns half the die type plus half of any flat bonus above d12, the value
// used by Parry and Toughness.
func (d Die) Half() int {
	if d > D12 {
		return 6 + d.Plus()/2
	}
	return d.Sides() / 2
}

// String renders the die label, e.g. "d8" or "d12+2".
func (d Die) String() string {
	switch {
	case d <= Untrained:
		return "d4-2"
	case d > D12:
		return fmt.Sprintf("d12+%d", d.Plus())
	default:
		return "d" + strconv.Itoa(d.Sides())
	}
}

// Raise returns the die moved by steps, never below Untrained.
func (d Die) Raise(steps int) Die {
	n := d + Die(steps)
	if n < Untrained {
		return Untrained
	}
	return n
}

// ParseDie converts a die label ("d6", "D12+1", "d4-2") into its ordinal.
//
// Precondition: label must be non-empty.
// Postcondition: Returns the ordinal or a descriptive error.
func ParseDie(label string) (Die, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.TrimSuffix(s, "+")
	if s == "" {
		return 0, fmt.Errorf("dice: empty die label")
	}
	if s == "d4-2" {
		return Untrained, nil
	}
	if !strings.HasPrefix(s, "d") {
		return 0, fmt.Errorf("dice: die label %q must start with 'd'", label)
	}
	rest := s[1:]
	plus := 0
	if idx := strings.Index(rest, "+"); idx >= 0 {
		p, err := strconv.Atoi(rest[idx+1:])
		if err != nil {
			return 0, fmt.Errorf("dice: invalid bonus in %q: %w", label, err)
		}
		plus = p
		rest = rest[:idx]
	}
	sides, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("dice: invalid die sides in %q: %w", label, err)
	}
	if sides < 4 || sides > 12 || sides%2 != 0 {
		return 0, fmt.Errorf("dice: unsupported die d%d in %q", sides, label)
	}
	if plus > 0 && sides != 12 {
		return 0, fmt.Errorf("dice: only d12 may carry a bonus, got %q", label)
	}
	return Die((sides-2)/2) + Die(plus), nil
}

// MustParseDie is ParseDie for constant labels; it panics on malformed input.
func MustParseDie(label string) Die {
	d, err := ParseDie(label)
	if err != nil {
		panic(err)
	}
	return d
}

// FormatDamage renders a weapon damage line with "Str" replaced by the wielder's
// strength die label. Terms that are neither "Str" nor valid dice are kept verbatim.
//
// Example: FormatDamage("Str+d6", D8) == "d8+d6".
func FormatDamage(damage string, strength Die) string {
	if damage == "" {
		return ""
	}
	terms := strings.Split(strings.ReplaceAll(damage, " ", ""), "+")
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if strings.EqualFold(term, "str") {
			out = append(out, strength.String())
			continue
		}
		if expr, err := Parse(term); err == nil {
			out = append(out, expr.String())
			continue
		}
		out = append(out, term)
	}
	return strings.Join(out, "+")
}

package requirement

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// Context is the character snapshot a requirement line is evaluated against.
// Names are normalized with catalog.NormalizeName; trait values are die ordinals.
type Context struct {
	Rank              int
	WildCard          bool
	Attributes        map[string]dice.Die
	Skills            map[string]dice.Die
	Edges             []string
	Hindrances        []string
	ArcaneBackgrounds []string
	SettingRules      []string
}

func (c Context) activation() map[string]any {
	return map[string]any{
		"rank":               int64(c.Rank),
		"wild_card":          c.WildCard,
		"attributes":         dieMap(c.Attributes),
		"skills":             dieMap(c.Skills),
		"edges":              normalized(c.Edges),
		"hindrances":         normalized(c.Hindrances),
		"arcane_backgrounds": normalized(c.ArcaneBackgrounds),
		"setting_rules":      normalized(c.SettingRules),
	}
}

func dieMap(in map[string]dice.Die) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[catalog.NormalizeName(k)] = int64(v)
	}
	return out
}

func normalized(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, catalog.NormalizeName(s))
	}
	return out
}

// Evaluator compiles requirement lines to CEL programs and evaluates them.
//
// Evaluator is safe for concurrent use.
type Evaluator struct {
	env *cel.Env

	mu    sync.Mutex
	cache map[string]cel.Program
}

// NewEvaluator builds the CEL environment with the requirement variables and
// the die("d8") helper.
//
// Postcondition: Returns a ready Evaluator or the environment construction error.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("rank", cel.IntType),
		cel.Variable("wild_card", cel.BoolType),
		cel.Variable("attributes", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("skills", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("edges", cel.ListType(cel.StringType)),
		cel.Variable("hindrances", cel.ListType(cel.StringType)),
		cel.Variable("arcane_backgrounds", cel.ListType(cel.StringType)),
		cel.Variable("setting_rules", cel.ListType(cel.StringType)),

		cel.Function("die",
			cel.Overload("die_string",
				[]*cel.Type{cel.StringType},
				cel.IntType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					s, ok := arg.Value().(string)
					if !ok {
						return types.NewErr("die: expected string argument")
					}
					d, err := dice.ParseDie(s)
					if err != nil {
						return types.NewErr("%s", err.Error())
					}
					return types.Int(d)
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("requirement: building CEL environment: %w", err)
	}
	return &Evaluator{env: env, cache: make(map[string]cel.Program)}, nil
}

// Compile translates and compiles line, reusing a cached program when one exists.
//
// Precondition: line may be any string.
// Postcondition: Returns the program and its CEL source, or a translation/compile error.
func (e *Evaluator) Compile(line string) (cel.Program, string, error) {
	src, err := Translate(line)
	if err != nil {
		return nil, "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if prg, ok := e.cache[src]; ok {
		return prg, src, nil
	}
	ast, iss := e.env.Compile(src)
	if iss.Err() != nil {
		return nil, src, fmt.Errorf("requirement: compiling %q: %w", src, iss.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, src, fmt.Errorf("requirement: planning %q: %w", src, err)
	}
	e.cache[src] = prg
	return prg, src, nil
}

// Met reports whether line holds for ctx.
//
// Precondition: none.
// Postcondition: Returns an error for lines that cannot be compiled or do not evaluate to a bool.
func (e *Evaluator) Met(line string, ctx Context) (bool, error) {
	prg, src, err := e.Compile(line)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(ctx.activation())
	if err != nil {
		return false, fmt.Errorf("requirement: evaluating %q: %w", src, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("requirement: %q evaluated to %T, want bool", src, out.Value())
	}
	return b, nil
}

// Unmet returns the lines that do not hold for ctx and the errors for lines that could not be evaluated.
func (e *Evaluator) Unmet(lines []string, ctx Context) (unmet []string, errs []error) {
	for _, l := range lines {
		ok, err := e.Met(l, ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			unmet = append(unmet, l)
		}
	}
	return unmet, errs
}

// CachedPrograms reports how many compiled programs are cached.
func (e *Evaluator) CachedPrograms() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}

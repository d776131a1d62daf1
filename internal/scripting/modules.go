package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/dice"
)

// RegisterModules registers the engine.log and engine.dice Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", diceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	mod := L.NewTable()
	for name, logf := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			logf(L.CheckString(1), zap.String("component", "lua"))
			return 0
		}))
	}
	return mod
}

// diceModule exposes die label helpers:
//
//	engine.dice.parse("d8")        -> 3, or nil for a bad label
//	engine.dice.label(3)           -> "d8"
//	engine.dice.raise("d6", 1)     -> "d8"
//	engine.dice.damage("Str+d6", "d8") -> "d8+d6"
func diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "parse", L.NewFunction(func(L *lua.LState) int {
		d, err := dice.ParseDie(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(d))
		return 1
	}))
	L.SetField(mod, "label", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(dice.Die(L.CheckInt(1)).String()))
		return 1
	}))
	L.SetField(mod, "raise", L.NewFunction(func(L *lua.LState) int {
		d, err := dice.ParseDie(L.CheckString(1))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		L.Push(lua.LString(d.Raise(L.OptInt(2, 1)).String()))
		return 1
	}))
	L.SetField(mod, "damage", L.NewFunction(func(L *lua.LState) int {
		str, err := dice.ParseDie(L.OptString(2, "d4"))
		if err != nil {
			L.ArgError(2, err.Error())
			return 0
		}
		L.Push(lua.LString(dice.FormatDamage(L.CheckString(1), str)))
		return 1
	}))
	return mod
}

// characterTable builds the second argument of a directive call. Every
// function is a no-op returning false (or 0) when api leaves it nil.
func characterTable(L *lua.LState, api DirectiveAPI) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "source", lua.LString(api.Source))

	boolFn := func(name string, call func(L *lua.LState) bool) {
		L.SetField(t, name, L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LBool(call(L)))
			return 1
		}))
	}
	boolFn("add_derived", func(L *lua.LState) bool {
		return api.AddDerived != nil && api.AddDerived(L.CheckString(1), L.OptInt(2, 1))
	})
	boolFn("boost_trait", func(L *lua.LState) bool {
		return api.BoostTrait != nil && api.BoostTrait(L.CheckString(1), L.OptInt(2, 1))
	})
	boolFn("add_edge", func(L *lua.LState) bool {
		return api.AddEdge != nil && api.AddEdge(L.CheckString(1))
	})
	boolFn("has_edge", func(L *lua.LState) bool {
		return api.HasEdge != nil && api.HasEdge(L.CheckString(1))
	})
	boolFn("setting_enabled", func(L *lua.LState) bool {
		return api.SettingEnabled != nil && api.SettingEnabled(L.CheckString(1))
	})
	L.SetField(t, "trait_die", L.NewFunction(func(L *lua.LState) int {
		n := 0
		if api.TraitDie != nil {
			n = api.TraitDie(L.CheckString(1))
		}
		L.Push(lua.LNumber(n))
		return 1
	}))
	return t
}

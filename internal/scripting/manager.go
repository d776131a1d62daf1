package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// DirectivePrefix is prepended to a directive keyword to form the Lua global
// that handles it: "blessing: 2" is dispatched to directive_blessing.
const DirectivePrefix = "directive_"

// DirectiveAPI is the view of the character under calculation handed to a
// directive script. Nil callbacks behave as if the operation failed.
type DirectiveAPI struct {
	// Source labels the entity whose effect line is running, e.g. "Edge: Brave".
	Source string

	AddDerived     func(key string, n int) bool
	BoostTrait     func(name string, steps int) bool
	AddEdge        func(name string) bool
	HasEdge        func(name string) bool
	SettingEnabled func(tag string) bool
	// TraitDie returns the die ordinal of an attribute or skill, 0 when untrained.
	TraitDie func(name string) int
}

// Manager owns one sandboxed LState holding every loaded directive script.
//
// Manager is safe for concurrent RunDirective calls; the LState is
// single-threaded so calls are serialized.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	limit  int
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager; RunDirective declines every directive until Load succeeds.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting: NewManager requires a non-nil logger")
	}
	return &Manager{logger: logger}
}

// Load creates a fresh sandboxed VM, registers the engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order. A previously
// loaded VM is replaced only when every file loads.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: instLimit bounds each file load and each directive run; 0 uses DefaultInstructionLimit.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	if scriptDir == "" {
		return errors.New("scripting: script dir must not be empty")
	}
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L, release := NewSandboxedState(instLimit)
	release()
	m.RegisterModules(L)

	for _, path := range luaFiles {
		done := withBudget(L, instLimit)
		err := L.DoFile(path)
		done()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		m.state.Close()
	}
	m.state = L
	m.limit = instLimit
	m.mu.Unlock()

	m.logger.Debug("scripting: directive scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Handles reports whether a loaded script defines a handler for the directive.
func (m *Manager) Handles(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handler(name) != nil
}

func (m *Manager) handler(name string) *lua.LFunction {
	if m.state == nil {
		return nil
	}
	fn, _ := m.state.GetGlobal(DirectivePrefix + name).(*lua.LFunction)
	return fn
}

// RunDirective calls directive_<name>(args, character) where args is an array
// of the directive's arguments and character exposes api. The directive is
// handled unless the function returns false.
//
// Lua runtime errors, including an exhausted instruction budget, are logged
// at Warn level and reported as unhandled; they never propagate.
//
// Postcondition: Returns false when no handler is defined.
func (m *Manager) RunDirective(name string, args []string, api DirectiveAPI) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn := m.handler(name)
	if fn == nil {
		return false
	}
	L := m.state

	argTable := L.NewTable()
	for _, a := range args {
		argTable.Append(lua.LString(a))
	}

	done := withBudget(L, m.limit)
	err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, argTable, characterTable(L, api))
	done()
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("directive", name),
			zap.String("source", api.Source),
			zap.Error(err),
		)
		return false
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret != lua.LFalse
}

// Close releases the VM. Subsequent RunDirective calls decline every directive.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

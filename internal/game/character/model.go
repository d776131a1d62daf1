// Package character defines the character aggregate and the calculation pipeline
// that derives every statistic from the player's choices and the content catalog.
package character

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
	"github.com/Savaged-us/core-sub000/internal/game/requirement"
	"github.com/Savaged-us/core-sub000/internal/scripting"
)

// DefaultStartingFunds is used when neither the setting nor the engine options set funds.
const DefaultStartingFunds = 500

// DirectiveRunner executes effect directives that have no built-in handler.
// *scripting.Manager satisfies it.
type DirectiveRunner interface {
	RunDirective(name string, args []string, api scripting.DirectiveAPI) bool
}

// Context is the read-only view of the aggregate handed to purchased items
// while they compute costs, strain, and armor.
type Context interface {
	Setting() *Setting
	SettingIsEnabled(tag string) bool
	FindPurchasedWeapon(id uuid.UUID) (*Weapon, bool)
	AttributeCurrent(name string) dice.Die
}

// engine holds the collaborators shared by every aggregate built from the same options.
type engine struct {
	cat           *catalog.Catalog
	logger        *zap.Logger
	scripts       DirectiveRunner
	reqs          *requirement.Evaluator
	startingFunds int

	saveAddedEdges bool
	calcLanguages  bool
}

// Option configures a Character at construction.
type Option func(*engine)

// WithLogger routes reference-not-found and guard diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithScripts enables the scripted fallback for unknown directives.
func WithScripts(r DirectiveRunner) Option {
	return func(e *engine) { e.scripts = r }
}

// WithRequirementEvaluator shares a compiled-program cache between aggregates.
func WithRequirementEvaluator(ev *requirement.Evaluator) Option {
	return func(e *engine) {
		if ev != nil {
			e.reqs = ev
		}
	}
}

// WithStartingFunds overrides DefaultStartingFunds for settings that do not set funds.
func WithStartingFunds(n int) Option {
	return func(e *engine) {
		if n > 0 {
			e.startingFunds = n
		}
	}
}

// WithCalcFlags sets the flags Recalc and ImportObj pass to Calc.
func WithCalcFlags(saveAddedEdges, calcLanguages bool) Option {
	return func(e *engine) {
		e.saveAddedEdges = saveAddedEdges
		e.calcLanguages = calcLanguages
	}
}

// Selection holds the choices an entity's [selected_*] placeholders resolve to.
type Selection struct {
	Attribute string `json:"attribute,omitempty"`
	Skill     string `json:"skill,omitempty"`
	Trait     string `json:"trait,omitempty"`
	Edge      string `json:"edge,omitempty"`
}

// IsZero reports whether nothing is selected.
func (s Selection) IsZero() bool {
	return s == Selection{}
}

// applyState is the one-shot guard carried by everything that applies effects.
type applyState int

const (
	unapplied applyState = iota
	preApplied
	applied
)

// Character is the mutable aggregate. Exported fields are the player's authored
// state and round-trip through ExportObj/ImportObj; unexported fields are derived
// and rebuilt on every Calc.
//
// A Character is not safe for concurrent use.
type Character struct {
	Name     string `json:"name"`
	WildCard bool   `json:"wild_card"`

	SettingID  int      `json:"setting_id,omitempty"`
	ExtraRules []string `json:"extra_rules,omitempty"`

	RaceID         int                  `json:"race_id,omitempty"`
	CustomRace     *catalog.RaceDef     `json:"custom_race,omitempty"`
	RaceSelections map[string]Selection `json:"race_selections,omitempty"`

	FrameworkID        int `json:"framework_id,omitempty"`
	MonsterFrameworkID int `json:"monster_framework_id,omitempty"`

	Attributes Attributes `json:"attributes"`
	Skills     []*Skill   `json:"skills,omitempty"`

	Edges      []*Edge      `json:"edges,omitempty"`
	Hindrances []*Hindrance `json:"hindrances,omitempty"`
	// ArcaneBackgrounds is sparse: nil slots are reserved but unfilled.
	ArcaneBackgrounds []*ArcaneBackground `json:"arcane_backgrounds,omitempty"`

	Gear       []*Gear      `json:"gear,omitempty"`
	Weapons    []*Weapon    `json:"weapons,omitempty"`
	Armor      []*Armor     `json:"armor,omitempty"`
	Vehicles   []*Vehicle   `json:"vehicles,omitempty"`
	Cyberware  []*Cyberware `json:"cyberware,omitempty"`
	RobotMods  []*RobotMod  `json:"robot_mods,omitempty"`
	Tattoos    []*Tattoo    `json:"tattoos,omitempty"`
	StartFunds int          `json:"starting_funds,omitempty"`

	Advancements []*Advancement `json:"advancements,omitempty"`
	// AdvanceCount is the number of unlocked advancements applied by Calc.
	AdvanceCount int `json:"advance_count"`

	// SavedAddedEdges snapshots granted edges when Calc is asked to save them.
	SavedAddedEdges []string `json:"added_edges,omitempty"`

	// LastImportError holds the error from the most recent failed ImportObj.
	LastImportError error `json:"-"`

	eng *engine

	setting         *Setting
	settingOverride *catalog.SettingDef
	race            *catalog.RaceDef
	framework       *catalog.FrameworkDef
	monster         *catalog.FrameworkDef

	derived         Derived
	addedEdges      []*Edge
	addedHindrances []*Hindrance
	innateAttacks   []InnateAttack
	frameworkGear   []*Gear
	frameworkCyber  []*Cyberware
	cyberArmor      int
	linguist        bool
	calcLanguages   bool

	armor        armorState
	interference int

	attributePointsUsed int
	skillPointsUsed     int

	validation []ValidationMessage
	validLevel Severity
}

// New returns an empty Character bound to cat.
//
// Precondition: cat must be non-nil.
// Postcondition: Returns a Character with all five attributes at d4 and no selections.
func New(cat *catalog.Catalog, opts ...Option) *Character {
	eng := &engine{cat: cat, logger: zap.NewNop(), startingFunds: DefaultStartingFunds}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.reqs == nil {
		ev, err := requirement.NewEvaluator()
		if err != nil {
			eng.logger.Error("requirement evaluator unavailable", zap.Error(err))
		}
		eng.reqs = ev
	}
	return newWithEngine(eng)
}

func newWithEngine(eng *engine) *Character {
	return &Character{
		WildCard: true,
		eng:      eng,
		setting:  newSetting(nil, nil),
	}
}

func (c *Character) logger() *zap.Logger { return c.eng.logger }

func (c *Character) cat() *catalog.Catalog { return c.eng.cat }

// books returns the active setting's book filter.
func (c *Character) books() catalog.BookFilter {
	if c.setting == nil {
		return nil
	}
	return c.setting.Books()
}

// Setting returns the resolved setting of the last Calc.
func (c *Character) Setting() *Setting {
	return c.setting
}

// SettingIsEnabled reports whether the rule tag is active for this character.
func (c *Character) SettingIsEnabled(tag string) bool {
	return c.setting != nil && c.setting.IsEnabled(tag)
}

// FindPurchasedWeapon returns the purchased weapon with the given instance id.
func (c *Character) FindPurchasedWeapon(id uuid.UUID) (*Weapon, bool) {
	for _, w := range c.Weapons {
		if w.UUID == id {
			return w, true
		}
	}
	return nil, false
}

var _ Context = (*Character)(nil)

// InnateAttack is a natural weapon granted by an effect.
type InnateAttack struct {
	Name   string
	Damage string
	From   string
}

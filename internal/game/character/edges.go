package character

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/modline"
)

// maxEdgeRounds bounds recursive edge grants (an edge adding an edge adding an edge...).
const maxEdgeRounds = 8

// Edge is a selected, granted, or custom edge.
type Edge struct {
	ID        int       `json:"id,omitempty"`
	Name      string    `json:"name"`
	Specify   string    `json:"specify,omitempty"`
	Selection Selection `json:"selection"`
	// ABIndex routes power_points and powers effects to one arcane background slot.
	ABIndex int              `json:"ab_index,omitempty"`
	Custom  *catalog.EdgeDef `json:"custom,omitempty"`

	def         *catalog.EdgeDef
	mods        []modline.Modifier
	state       applyState
	addedFrom   string
	rank        int
	fromAdvance bool
	grantedAB   int
}

// Def returns the bound definition, or nil if the edge could not be resolved.
func (e *Edge) Def() *catalog.EdgeDef { return e.def }

// AddedFrom names the source that granted the edge; "" for selected edges.
func (e *Edge) AddedFrom() string { return e.addedFrom }

// Rank is the rank at which the edge was taken.
func (e *Edge) Rank() int { return e.rank }

// DisplayName returns the resolved name with its specification, e.g. "Scholar (History)".
func (e *Edge) DisplayName() string {
	name := e.Name
	if e.def != nil {
		name = e.def.Name
	}
	if e.Specify != "" {
		return name + " (" + e.Specify + ")"
	}
	return name
}

func (e *Edge) baseName() string {
	if e.def != nil {
		return e.def.Name
	}
	return e.Name
}

func (e *Edge) reset() {
	e.def, e.mods = nil, nil
	e.state = unapplied
	e.grantedAB = -1
	if !e.fromAdvance && e.addedFrom == "" {
		e.rank = 0
	}
}

// lookupEdgeDef resolves an edge by custom definition, then setting house rules,
// then the catalog by id, then the catalog by name within the setting's books.
func (c *Character) lookupEdgeDef(id int, name string, custom *catalog.EdgeDef) (*catalog.EdgeDef, bool) {
	if custom != nil {
		return custom, true
	}
	if name != "" {
		if d, ok := c.setting.customEdge(name); ok {
			return d, true
		}
	}
	if id != 0 {
		if d, ok := c.cat().Edge(id); ok {
			return d, true
		}
	}
	if name == "" {
		return nil, false
	}
	return c.cat().EdgeByName(name, c.books())
}

func (c *Character) bindEdge(e *Edge) bool {
	def, ok := c.lookupEdgeDef(e.ID, e.Name, e.Custom)
	if !ok {
		c.warnUnknown("edge", e.Name, e.addedFrom)
		return false
	}
	d := *def
	e.def = &d
	if e.Name == "" {
		e.Name = d.Name
	}
	e.mods = c.parseEffects("Edge: "+d.Name, d.Effects)
	return true
}

func (c *Character) allEdges() []*Edge {
	out := make([]*Edge, 0, len(c.Edges)+len(c.addedEdges))
	out = append(out, c.Edges...)
	return append(out, c.addedEdges...)
}

// AddedEdges returns the edges granted by other effects during the last Calc.
func (c *Character) AddedEdges() []*Edge { return c.addedEdges }

// splitEdgeName separates an edge reference into the edge name and its specify
// text. Names that resolve whole, such as "Arcane Background (Magic)", are kept
// intact; otherwise a trailing parenthetical is the specify text.
func (c *Character) splitEdgeName(ref string) (name, specify string) {
	ref = strings.TrimSpace(ref)
	if _, ok := c.lookupEdgeDef(0, ref, nil); ok {
		return ref, ""
	}
	return splitParens(ref)
}

// addEdgeByName grants an edge. Non-multiple edges the character already has are
// not granted twice; the existing edge is returned instead.
func (c *Character) addEdgeByName(name, specify, from string, rank int) *Edge {
	if name == "" {
		return nil
	}
	def, ok := c.lookupEdgeDef(0, name, nil)
	if !ok {
		c.warnUnknown("edge", name, from)
		return nil
	}
	if !def.Multiple {
		for _, e := range c.allEdges() {
			if catalog.NamesMatch(e.baseName(), def.Name) && catalog.NamesMatch(e.Specify, specify) {
				return e
			}
		}
	}
	e := &Edge{Name: name, Specify: specify, addedFrom: from, grantedAB: -1}
	if rank > 0 {
		e.rank = rank
	}
	c.bindEdge(e)
	c.addedEdges = append(c.addedEdges, e)
	return e
}

// HasEdge reports whether the character has the named edge. atRank >= 0 only counts
// edges taken at or before that rank; abIndex >= 0 only counts edges tied to that
// arcane background slot.
func (c *Character) HasEdge(name string, atRank, abIndex int) bool {
	for _, e := range c.allEdges() {
		if !catalog.NamesMatch(e.baseName(), name) && !catalog.NamesMatch(e.DisplayName(), name) {
			continue
		}
		if atRank >= 0 && e.rank > atRank {
			continue
		}
		if abIndex >= 0 && e.abSlot() != abIndex {
			continue
		}
		return true
	}
	return false
}

func (e *Edge) abSlot() int {
	if e.grantedAB >= 0 {
		return e.grantedAB
	}
	return e.ABIndex
}

func (c *Character) edgeSource(e *Edge) effectSource {
	return effectSource{label: "Edge: " + e.DisplayName(), sel: e.Selection, abIndex: e.abSlot()}
}

func (c *Character) applyEdgePre(e *Edge) {
	if e.state != unapplied {
		c.logger().Warn("edge already applied", zap.String("edge", e.DisplayName()))
		return
	}
	if e.def == nil && !c.bindEdge(e) {
		e.state = applied
		return
	}
	if e.def.ArcaneBackground != "" {
		e.grantedAB = c.grantArcaneBackground(e.def.ArcaneBackground, "Edge: "+e.DisplayName())
	}
	c.applyEffects(c.edgeSource(e), e.mods, passPre)
	e.state = preApplied
}

func (c *Character) applyEdgeFull(e *Edge) {
	if e.state != preApplied {
		c.logger().Warn("edge not ready for full pass", zap.String("edge", e.DisplayName()))
		return
	}
	c.applyEffects(c.edgeSource(e), e.mods, passFull)
	e.state = applied
}

// resolveEdges runs the pre-calc and full passes over every edge and hindrance that has
// not finished applying, repeating while effects keep granting new ones.
func (c *Character) resolveEdges() {
	for round := 0; round < maxEdgeRounds; round++ {
		progressed := false
		for _, e := range c.allEdges() {
			if e.state == unapplied {
				c.applyEdgePre(e)
				progressed = true
			}
		}
		for _, h := range c.allHindrances() {
			if h.state == unapplied {
				c.applyHindrancePre(h)
				progressed = true
			}
		}
		for _, e := range c.allEdges() {
			if e.state == preApplied {
				c.applyEdgeFull(e)
			}
		}
		for _, h := range c.allHindrances() {
			if h.state == preApplied {
				c.applyHindranceFull(h)
			}
		}
		if !progressed {
			return
		}
	}
	c.logger().Warn("edge grants did not settle", zap.Int("rounds", maxEdgeRounds))
}

// Hindrance is a selected, granted, or custom hindrance.
type Hindrance struct {
	ID        int                   `json:"id,omitempty"`
	Name      string                `json:"name"`
	Specify   string                `json:"specify,omitempty"`
	Major     bool                  `json:"major,omitempty"`
	Selection Selection             `json:"selection"`
	Custom    *catalog.HindranceDef `json:"custom,omitempty"`

	def       *catalog.HindranceDef
	mods      []modline.Modifier
	state     applyState
	addedFrom string
	major     bool
	removed   bool
	lowered   bool
}

// Def returns the bound definition, or nil.
func (h *Hindrance) Def() *catalog.HindranceDef { return h.def }

// AddedFrom names the source that granted the hindrance; "" for selected ones.
func (h *Hindrance) AddedFrom() string { return h.addedFrom }

// IsMajor reports the effective severity after any buy-off lowering.
func (h *Hindrance) IsMajor() bool { return h.major && !h.lowered }

// Removed reports whether the hindrance was bought off.
func (h *Hindrance) Removed() bool { return h.removed }

// Lowered reports whether a major hindrance was bought down to minor.
func (h *Hindrance) Lowered() bool { return h.lowered }

// DisplayName returns the resolved name with its specification.
func (h *Hindrance) DisplayName() string {
	name := h.Name
	if h.def != nil {
		name = h.def.Name
	}
	if h.Specify != "" {
		return name + " (" + h.Specify + ")"
	}
	return name
}

func (h *Hindrance) baseName() string {
	if h.def != nil {
		return h.def.Name
	}
	return h.Name
}

func (h *Hindrance) reset() {
	h.def, h.mods = nil, nil
	h.state = unapplied
	h.major, h.removed, h.lowered = false, false, false
}

func (c *Character) lookupHindranceDef(id int, name string, custom *catalog.HindranceDef) (*catalog.HindranceDef, bool) {
	if custom != nil {
		return custom, true
	}
	if name != "" {
		if d, ok := c.setting.customHindrance(name); ok {
			return d, true
		}
	}
	if id != 0 {
		if d, ok := c.cat().Hindrance(id); ok {
			return d, true
		}
	}
	if name == "" {
		return nil, false
	}
	return c.cat().HindranceByName(name, c.books())
}

func (c *Character) bindHindrance(h *Hindrance) bool {
	def, ok := c.lookupHindranceDef(h.ID, h.Name, h.Custom)
	if !ok {
		c.warnUnknown("hindrance", h.Name, h.addedFrom)
		return false
	}
	d := *def
	h.def = &d
	if h.Name == "" {
		h.Name = d.Name
	}
	switch d.Severity {
	case catalog.SeverityMajor:
		h.major = true
	case catalog.SeverityMinor:
		h.major = false
	default:
		h.major = h.Major
	}
	h.mods = c.parseEffects("Hindrance: "+d.Name, d.Effects)
	return true
}

func (c *Character) allHindrances() []*Hindrance {
	out := make([]*Hindrance, 0, len(c.Hindrances)+len(c.addedHindrances))
	out = append(out, c.Hindrances...)
	return append(out, c.addedHindrances...)
}

func (c *Character) addHindranceByName(name string, major bool, specify, from string) *Hindrance {
	if name == "" {
		return nil
	}
	for _, h := range c.allHindrances() {
		if catalog.NamesMatch(h.baseName(), name) && catalog.NamesMatch(h.Specify, specify) {
			return h
		}
	}
	h := &Hindrance{Name: name, Major: major, Specify: specify, addedFrom: from}
	if !c.bindHindrance(h) {
		return nil
	}
	c.addedHindrances = append(c.addedHindrances, h)
	return h
}

func (c *Character) hindranceSource(h *Hindrance) effectSource {
	src := source("Hindrance: " + h.DisplayName())
	src.sel = h.Selection
	return src
}

func (c *Character) applyHindrancePre(h *Hindrance) {
	if h.state != unapplied {
		c.logger().Warn("hindrance already applied", zap.String("hindrance", h.DisplayName()))
		return
	}
	if h.def == nil && !c.bindHindrance(h) {
		h.state = applied
		return
	}
	if !h.removed {
		c.applyEffects(c.hindranceSource(h), h.mods, passPre)
	}
	h.state = preApplied
}

func (c *Character) applyHindranceFull(h *Hindrance) {
	if h.state != preApplied {
		c.logger().Warn("hindrance not ready for full pass", zap.String("hindrance", h.DisplayName()))
		return
	}
	if !h.removed {
		c.applyEffects(c.hindranceSource(h), h.mods, passFull)
	}
	h.state = applied
}

// RemoveOrLowerHindrance buys off the first active hindrance named name: a major one
// is lowered to minor, a minor one is marked removed. Entries are flagged, never deleted.
// The flags last only until the next Calc, which rebuilds buy-offs from Advancements;
// record an AdvanceLowerHindrance or AdvanceRemoveMajorHindrance advance to keep one.
//
// Postcondition: returns false when no active hindrance matches.
func (c *Character) RemoveOrLowerHindrance(name string) bool {
	for _, h := range c.allHindrances() {
		if h.removed || !catalog.NamesMatch(h.baseName(), name) && !catalog.NamesMatch(h.DisplayName(), name) {
			continue
		}
		if h.def == nil {
			c.bindHindrance(h)
		}
		if h.IsMajor() {
			h.lowered = true
		} else {
			h.removed = true
		}
		return true
	}
	c.warnUnknown("hindrance", name, "buy-off")
	return false
}

// removeHindrance marks the first active hindrance named name as removed regardless of severity.
func (c *Character) removeHindrance(name string) bool {
	for _, h := range c.allHindrances() {
		if h.removed || !catalog.NamesMatch(h.baseName(), name) && !catalog.NamesMatch(h.DisplayName(), name) {
			continue
		}
		h.removed = true
		return true
	}
	c.warnUnknown("hindrance", name, "buy-off")
	return false
}

// AllHindranceNames returns display names of every hindrance, skipping bought-off ones when skipRemoved.
func (c *Character) AllHindranceNames(skipRemoved bool) []string {
	var out []string
	for _, h := range c.allHindrances() {
		if skipRemoved && h.removed {
			continue
		}
		out = append(out, h.DisplayName())
	}
	return out
}

// MaxHindrancePoints is the most hindrance points that may be taken.
const MaxHindrancePoints = 4

// HindrancePoints totals selected hindrances at their chosen severity: 2 per major,
// 1 per minor. Granted hindrances are not counted; later buy-offs do not refund points.
func (c *Character) HindrancePoints() int {
	total := 0
	for _, h := range c.Hindrances {
		if h.def == nil {
			continue
		}
		if h.major {
			total += 2
		} else {
			total++
		}
	}
	return total
}

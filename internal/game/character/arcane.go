package character

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/modline"
)

// Power is one power known through an arcane background.
type Power struct {
	ID               int               `json:"id,omitempty"`
	Name             string            `json:"name"`
	Trappings        string            `json:"trappings,omitempty"`
	Mega             bool              `json:"mega,omitempty"`
	LimitationAspect string            `json:"limitation_aspect,omitempty"`
	LimitationRange  string            `json:"limitation_range,omitempty"`
	// Innate powers do not use a power slot.
	Innate bool              `json:"innate,omitempty"`
	Custom *catalog.PowerDef `json:"custom,omitempty"`

	def            *catalog.PowerDef
	mods           []modline.Modifier
	state          applyState
	addedFrom      string
	megaFromEffect bool
}

// Def returns the bound definition, or nil.
func (p *Power) Def() *catalog.PowerDef { return p.def }

// IsMega reports whether the power is taken as a mega power.
func (p *Power) IsMega() bool { return p.Mega || p.megaFromEffect }

// AddedFrom names the effect that granted the power; "" for selected ones.
func (p *Power) AddedFrom() string { return p.addedFrom }

// DisplayName returns the resolved power name.
func (p *Power) DisplayName() string {
	if p.def != nil {
		return p.def.Name
	}
	return p.Name
}

// Cost returns the power point cost including limitation modifiers and the mega surcharge.
func (p *Power) Cost() int {
	if p.def == nil {
		return 0
	}
	cost := p.def.PowerPoints
	cost += limitationModifier(p.def.AspectLimitations, p.LimitationAspect)
	cost += limitationModifier(p.def.RangeLimitations, p.LimitationRange)
	if p.IsMega() {
		cost += p.def.MegaCost
	}
	if cost < 0 {
		return 0
	}
	return cost
}

func limitationModifier(table []catalog.Limitation, name string) int {
	if name == "" {
		return 0
	}
	for _, l := range table {
		if catalog.NamesMatch(l.Name, name) {
			return l.Modifier
		}
	}
	return 0
}

func (p *Power) reset() {
	p.def, p.mods = nil, nil
	p.state = unapplied
	p.megaFromEffect = false
}

// powerAliases splits a combined power name into the names it answers to.
// "Strength/Smarts" answers to both; "Boost/Lower Trait" answers to
// "Boost", "Lower Trait", and "Boost Trait".
func powerAliases(name string) []string {
	n := catalog.NormalizeName(name)
	parts := strings.Split(n, "/")
	if len(parts) == 1 {
		return []string{n}
	}
	out := make([]string, 0, len(parts)*2)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) < 2 {
		return out
	}
	last := out[len(out)-1]
	if i := strings.Index(last, " "); i > 0 {
		suffix := last[i:]
		for _, p := range out[:len(out)-1] {
			if !strings.Contains(p, " ") {
				out = append(out, p+suffix)
			}
		}
	}
	return out
}

// PowerNameMatches reports whether two power names refer to the same power,
// treating each "/"-separated alias as a name of its own.
func PowerNameMatches(a, b string) bool {
	if catalog.NamesMatch(a, b) {
		return true
	}
	for _, x := range powerAliases(a) {
		for _, y := range powerAliases(b) {
			if x == y {
				return true
			}
		}
	}
	return false
}

// ArcaneBackground is one arcane background slot with its powers.
type ArcaneBackground struct {
	ID             int                          `json:"id,omitempty"`
	Name           string                       `json:"name"`
	Custom         *catalog.ArcaneBackgroundDef `json:"custom,omitempty"`
	SelectedPowers []*Power                     `json:"selected_powers,omitempty"`
	CustomPowers   []*Power                     `json:"custom_powers,omitempty"`
	// GrantedBy names the edge or effect that grants the background; "" when selected directly.
	GrantedBy string `json:"granted_by,omitempty"`

	def          *catalog.ArcaneBackgroundDef
	mods         []modline.Modifier
	state        applyState
	active       bool
	addedPowers  []*Power
	powerList    []string
	bonusPP      int
	bonusPowers  int
	sharedPP     int
	sharedPowers int
}

// Def returns the bound definition, or nil.
func (ab *ArcaneBackground) Def() *catalog.ArcaneBackgroundDef { return ab.def }

// Active reports whether the background applied in the last Calc.
func (ab *ArcaneBackground) Active() bool { return ab.active }

// DisplayName returns the resolved name.
func (ab *ArcaneBackground) DisplayName() string {
	if ab.def != nil {
		return ab.def.Name
	}
	return ab.Name
}

// AddedPowers returns powers granted by effects during the last Calc.
func (ab *ArcaneBackground) AddedPowers() []*Power { return ab.addedPowers }

// Powers returns selected, granted, and custom powers in that order.
func (ab *ArcaneBackground) Powers() []*Power {
	out := make([]*Power, 0, len(ab.SelectedPowers)+len(ab.addedPowers)+len(ab.CustomPowers))
	out = append(out, ab.SelectedPowers...)
	out = append(out, ab.addedPowers...)
	return append(out, ab.CustomPowers...)
}

// StartingPowerCount is the number of power slots the background provides.
func (ab *ArcaneBackground) StartingPowerCount() int {
	n := ab.bonusPowers + ab.sharedPowers
	if ab.def != nil {
		n += ab.def.StartingPowers
	}
	return n
}

// PowersUsed counts selected and granted powers that occupy a slot.
func (ab *ArcaneBackground) PowersUsed() int {
	n := 0
	for _, p := range ab.SelectedPowers {
		if !p.Innate {
			n++
		}
	}
	for _, p := range ab.addedPowers {
		if !p.Innate {
			n++
		}
	}
	return n
}

// PowerSlotsLeft may be negative; over-allocation is reported by validation.
func (ab *ArcaneBackground) PowerSlotsLeft() int {
	return ab.StartingPowerCount() - ab.PowersUsed()
}

// MaxPowerPoints is the pool before any point-bought powers.
func (ab *ArcaneBackground) MaxPowerPoints() int {
	n := ab.bonusPP + ab.sharedPP
	if ab.def != nil {
		n += ab.def.StartingPowerPoints
	}
	return n
}

// PowerPoints is the remaining pool; point-bought powers are deducted when the
// background's powers cost points. It may be negative.
func (ab *ArcaneBackground) PowerPoints() int {
	pp := ab.MaxPowerPoints()
	if ab.def == nil || !ab.def.PowersCostPoints {
		return pp
	}
	for _, p := range ab.Powers() {
		if !p.Innate {
			pp -= p.Cost()
		}
	}
	return pp
}

// AllowsPower reports whether name is on the background's power list; an empty list allows all.
func (ab *ArcaneBackground) AllowsPower(name string) bool {
	if len(ab.powerList) == 0 {
		return true
	}
	for _, allowed := range ab.powerList {
		if PowerNameMatches(allowed, name) {
			return true
		}
	}
	return false
}

// PowerList returns the allowed-power whitelist.
func (ab *ArcaneBackground) PowerList() []string { return ab.powerList }

func (ab *ArcaneBackground) addBonus(key string, n int) {
	switch key {
	case modline.PowerPoints:
		ab.bonusPP += n
	case modline.Powers:
		ab.bonusPowers += n
	}
}

func (ab *ArcaneBackground) findPower(name string) *Power {
	for _, p := range ab.Powers() {
		if PowerNameMatches(p.DisplayName(), name) || PowerNameMatches(p.Name, name) {
			return p
		}
	}
	return nil
}

func (ab *ArcaneBackground) reset() {
	ab.def, ab.mods = nil, nil
	ab.state = unapplied
	ab.active = ab.GrantedBy == ""
	ab.addedPowers = nil
	ab.powerList = nil
	ab.bonusPP, ab.bonusPowers, ab.sharedPP, ab.sharedPowers = 0, 0, 0, 0
	for _, p := range ab.SelectedPowers {
		p.reset()
	}
	for _, p := range ab.CustomPowers {
		p.reset()
	}
}

func (c *Character) lookupArcaneDef(id int, name string, custom *catalog.ArcaneBackgroundDef) (*catalog.ArcaneBackgroundDef, bool) {
	if custom != nil {
		return custom, true
	}
	if name != "" {
		if d, ok := c.setting.customArcaneBackground(name); ok {
			return d, true
		}
	}
	if id != 0 {
		if d, ok := c.cat().ArcaneBackground(id); ok {
			return d, true
		}
	}
	if name == "" {
		return nil, false
	}
	return c.cat().ArcaneBackgroundByName(name, c.books())
}

func (c *Character) bindArcaneBackground(ab *ArcaneBackground) bool {
	def, ok := c.lookupArcaneDef(ab.ID, ab.Name, ab.Custom)
	if !ok {
		c.warnUnknown("arcane background", ab.Name, ab.GrantedBy)
		return false
	}
	d := *def
	ab.def = &d
	if ab.Name == "" {
		ab.Name = d.Name
	}
	ab.mods = c.parseEffects("Arcane Background: "+d.Name, d.Effects)
	ab.powerList = append([]string(nil), d.PowerList...)
	return true
}

// bindArcaneBackgrounds binds every slot so edge effects can adjust power lists and pools.
func (c *Character) bindArcaneBackgrounds() {
	for _, ab := range c.ArcaneBackgrounds {
		if ab != nil && ab.def == nil {
			c.bindArcaneBackground(ab)
		}
	}
}

// abForEffect returns slot idx when it is filled and active, otherwise the first active slot.
func (c *Character) abForEffect(idx int) *ArcaneBackground {
	if idx >= 0 && idx < len(c.ArcaneBackgrounds) {
		if ab := c.ArcaneBackgrounds[idx]; ab != nil && ab.active {
			return ab
		}
	}
	for _, ab := range c.ArcaneBackgrounds {
		if ab != nil && ab.active {
			return ab
		}
	}
	return nil
}

// grantArcaneBackground attaches a background granted by from, reusing an existing slot
// of the same name or filling the first empty slot. It returns the slot index, or -1.
func (c *Character) grantArcaneBackground(name, from string) int {
	for i, ab := range c.ArcaneBackgrounds {
		if ab == nil {
			continue
		}
		if catalog.NamesMatch(ab.DisplayName(), name) || catalog.NamesMatch(ab.Name, name) {
			if !ab.active {
				ab.active = true
				ab.GrantedBy = from
			}
			if ab.def == nil {
				c.bindArcaneBackground(ab)
			}
			return i
		}
	}
	ab := &ArcaneBackground{Name: name, GrantedBy: from, active: true}
	if !c.bindArcaneBackground(ab) {
		return -1
	}
	for i, slot := range c.ArcaneBackgrounds {
		if slot == nil {
			c.ArcaneBackgrounds[i] = ab
			return i
		}
	}
	c.ArcaneBackgrounds = append(c.ArcaneBackgrounds, ab)
	return len(c.ArcaneBackgrounds) - 1
}

// findPowerDef looks a power up by name or alias within the setting's books.
func (c *Character) findPowerDef(name string) (*catalog.PowerDef, bool) {
	for _, p := range c.cat().Powers(c.books()) {
		if PowerNameMatches(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

func (c *Character) bindPower(p *Power) bool {
	var def *catalog.PowerDef
	switch {
	case p.Custom != nil:
		def = p.Custom
	case p.ID != 0:
		if d, ok := c.cat().Power(p.ID); ok {
			def = d
		}
	}
	if def == nil {
		d, ok := c.findPowerDef(p.Name)
		if !ok {
			c.warnUnknown("power", p.Name, p.addedFrom)
			return false
		}
		def = d
	}
	d := *def
	p.def = &d
	p.mods = c.parseEffects("Power: "+d.Name, d.Effects)
	return true
}

func (c *Character) addPower(abIdx int, name, from string) {
	ab := c.abForEffect(abIdx)
	if ab == nil {
		c.warnUnknown("arcane background for power", name, from)
		return
	}
	if ab.findPower(name) != nil {
		return
	}
	p := &Power{Name: name, addedFrom: from}
	if !c.bindPower(p) {
		return
	}
	ab.addedPowers = append(ab.addedPowers, p)
}

func (c *Character) setPowerList(abIdx int, names []string, appendMode bool) {
	ab := c.abForEffect(abIdx)
	if ab == nil {
		c.logger().Warn("power list without arcane background", zap.Strings("powers", names))
		return
	}
	if !appendMode {
		ab.powerList = nil
	}
	ab.powerList = append(ab.powerList, names...)
}

func (c *Character) setMegaPower(abIdx int, name string) {
	ab := c.abForEffect(abIdx)
	if ab == nil {
		c.warnUnknown("arcane background for mega power", name, "")
		return
	}
	p := ab.findPower(name)
	if p == nil {
		c.warnUnknown("mega power", name, ab.DisplayName())
		return
	}
	p.megaFromEffect = true
}

// trimArcaneSlots drops trailing empty slots.
func (c *Character) trimArcaneSlots() {
	n := len(c.ArcaneBackgrounds)
	for n > 0 && c.ArcaneBackgrounds[n-1] == nil {
		n--
	}
	c.ArcaneBackgrounds = c.ArcaneBackgrounds[:n]
}

// resolveArcaneBackgrounds applies every active background that has not applied yet:
// its effects, its arcane skill link, and each of its powers.
func (c *Character) resolveArcaneBackgrounds() {
	c.trimArcaneSlots()
	for i, ab := range c.ArcaneBackgrounds {
		if ab == nil || !ab.active || ab.state != unapplied {
			continue
		}
		if ab.def == nil && !c.bindArcaneBackground(ab) {
			ab.state = applied
			continue
		}
		label := "Arcane Background: " + ab.DisplayName()
		src := source(label)
		src.abIndex = i
		c.applyEffects(src, ab.mods, passAll)

		if ab.def.ArcaneSkill != "" {
			if s := c.ensureSkill(ab.def.ArcaneSkill, label); s != nil && ab.def.SkillAttribute != "" {
				s.attribute = catalog.NormalizeName(ab.def.SkillAttribute)
			}
		}
		for _, p := range ab.Powers() {
			if p.state != unapplied {
				continue
			}
			if p.def == nil && !c.bindPower(p) {
				p.state = applied
				continue
			}
			psrc := effectSource{label: "Power: " + p.DisplayName(), abIndex: i, super: true}
			c.applyEffects(psrc, p.mods, passAll)
			p.state = applied
		}
		ab.state = applied
	}
	c.shareDerivedPowerBonuses()
}

// shareDerivedPowerBonuses hands unrouted power_points and powers bonuses to the first active background.
func (c *Character) shareDerivedPowerBonuses() {
	first := true
	for _, ab := range c.ArcaneBackgrounds {
		if ab == nil || !ab.active {
			continue
		}
		if first {
			ab.sharedPP, ab.sharedPowers = c.derived.PowerPoints, c.derived.Powers
			first = false
			continue
		}
		ab.sharedPP, ab.sharedPowers = 0, 0
	}
}

// dropInactiveGranted removes granted backgrounds whose grant no longer applies.
func (c *Character) dropInactiveGranted() {
	for i, ab := range c.ArcaneBackgrounds {
		if ab != nil && ab.GrantedBy != "" && !ab.active {
			c.logger().Debug("dropping inactive granted arcane background",
				zap.String("arcane_background", ab.DisplayName()),
				zap.String("granted_by", ab.GrantedBy),
			)
			c.ArcaneBackgrounds[i] = nil
		}
	}
	c.trimArcaneSlots()
}

// ActiveArcaneBackgrounds returns the filled, active slots with their indexes.
func (c *Character) ActiveArcaneBackgrounds() map[int]*ArcaneBackground {
	out := make(map[int]*ArcaneBackground)
	for i, ab := range c.ArcaneBackgrounds {
		if ab != nil && ab.active {
			out[i] = ab
		}
	}
	return out
}

package character

import (
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/Savaged-us/core-sub000/internal/game/catalog"
	"github.com/Savaged-us/core-sub000/internal/game/dice"
	"github.com/Savaged-us/core-sub000/internal/game/modline"
)

// ItemKind names a purchasable category.
type ItemKind string

const (
	KindGear      ItemKind = "gear"
	KindWeapon    ItemKind = "weapon"
	KindArmor     ItemKind = "armor"
	KindVehicle   ItemKind = "vehicle"
	KindCyberware ItemKind = "cyberware"
	KindRobotMod  ItemKind = "robot mod"
	KindTattoo    ItemKind = "tattoo"
)

// Item carries the fields every purchase shares.
type Item struct {
	UUID      uuid.UUID `json:"uuid"`
	ID        int       `json:"id,omitempty"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Selection Selection `json:"selection"`

	fromFramework bool
	state         applyState
	mods          []modline.Modifier
}

// Qty returns the quantity, treating anything below 1 as 1.
func (it *Item) Qty() int {
	if it.Quantity < 1 {
		return 1
	}
	return it.Quantity
}

// FromFramework reports whether the item was granted free by a framework.
func (it *Item) FromFramework() bool { return it.fromFramework }

func (it *Item) item() *Item { return it }

func (it *Item) reset() {
	it.state = unapplied
	it.mods = nil
}

func newItem(id int, name string, qty int) Item {
	if qty < 1 {
		qty = 1
	}
	return Item{UUID: uuid.New(), ID: id, Name: name, Quantity: qty}
}

// purchase is the view the wealth, weight, and limit calculations take of every item.
type purchase interface {
	item() *Item
	kind() ItemKind
	gearDef() *catalog.GearDef
	TotalCost(ctx Context) int
}

type defPtr[D any] interface {
	*D
	Def() *catalog.Common
}

// bindItem resolves an item's definition from its custom copy or the catalog and
// parses its effects. Unknown items are logged and skipped.
func bindItem[D any, P defPtr[D]](c *Character, kind ItemKind, it *Item, custom P, get func(int) (P, bool)) (D, bool) {
	var def P
	switch {
	case custom != nil:
		def = custom
	case it.ID != 0:
		if d, ok := get(it.ID); ok {
			def = d
		}
	}
	if def == nil {
		var zero D
		c.warnUnknown(string(kind), it.Name, "purchase")
		return zero, false
	}
	cm := def.Def()
	if it.Name == "" {
		it.Name = cm.Name
	}
	it.mods = c.parseEffects(string(kind)+": "+cm.Name, cm.Effects)
	return *def, true
}

// pick returns the custom definition for id 0 and the catalog entry otherwise.
func pick[D any](id int, custom *D, get func(int) (*D, bool)) (*D, bool) {
	if id == 0 {
		return custom, custom != nil
	}
	return get(id)
}

func (c *Character) applyItem(kind ItemKind, it *Item) {
	if it.state != unapplied {
		c.logger().Warn("item already applied")
		return
	}
	src := source(string(kind) + ": " + it.Name)
	src.sel = it.Selection
	c.applyEffects(src, it.mods, passAll)
	it.state = applied
}

// Gear is a general purchase.
type Gear struct {
	Item
	Custom   *catalog.GearDef `json:"custom,omitempty"`
	Equipped bool             `json:"equipped,omitempty"`
	// LinkedWeapon ties ammunition and accessories to a purchased weapon.
	LinkedWeapon uuid.UUID `json:"linked_weapon"`

	def catalog.GearDef
}

func (g *Gear) kind() ItemKind { return KindGear }
func (g *Gear) gearDef() *catalog.GearDef { return &g.def }
func (g *Gear) TotalCost(ctx Context) int { return g.def.Cost * g.Qty() }
func (g *Gear) Def() *catalog.GearDef { return &g.def }

// LinkedWeaponName returns the name of the weapon the gear belongs to, or "".
func (g *Gear) LinkedWeaponName(ctx Context) string {
	if g.LinkedWeapon == uuid.Nil {
		return ""
	}
	if w, ok := ctx.FindPurchasedWeapon(g.LinkedWeapon); ok {
		return w.Name
	}
	return ""
}

// Weapon is a purchased weapon.
type Weapon struct {
	Item
	Custom   *catalog.WeaponDef `json:"custom,omitempty"`
	Equipped bool               `json:"equipped,omitempty"`

	def catalog.WeaponDef
}

func (w *Weapon) kind() ItemKind { return KindWeapon }
func (w *Weapon) gearDef() *catalog.GearDef { return &w.def.GearDef }
func (w *Weapon) TotalCost(ctx Context) int { return w.def.Cost * w.Qty() }
func (w *Weapon) Def() *catalog.WeaponDef { return &w.def }

// MeetsMinStrength reports whether the wielder's strength reaches the weapon's minimum.
func (w *Weapon) MeetsMinStrength(ctx Context) bool {
	return meetsMinStrength(ctx, w.def.MinStrength)
}

// Armor is a purchased armor piece or shield.
type Armor struct {
	Item
	Custom   *catalog.ArmorDef `json:"custom,omitempty"`
	Equipped bool              `json:"equipped,omitempty"`

	def catalog.ArmorDef
}

func (a *Armor) kind() ItemKind { return KindArmor }
func (a *Armor) gearDef() *catalog.GearDef { return &a.def.GearDef }
func (a *Armor) TotalCost(ctx Context) int { return a.def.Cost * a.Qty() }
func (a *Armor) Def() *catalog.ArmorDef { return &a.def }

// MeetsMinStrength reports whether the wearer's strength reaches the armor's minimum.
func (a *Armor) MeetsMinStrength(ctx Context) bool {
	return meetsMinStrength(ctx, a.def.MinStrength)
}

// IsHeavy reports whether the armor counts as heavy armor (M.D.C. under rifts_mdc).
func (a *Armor) IsHeavy() bool { return a.def.Heavy }

// Vehicle is a purchased vehicle.
type Vehicle struct {
	Item
	Custom *catalog.VehicleDef `json:"custom,omitempty"`

	def catalog.VehicleDef
}

func (v *Vehicle) kind() ItemKind { return KindVehicle }
func (v *Vehicle) gearDef() *catalog.GearDef { return &v.def.GearDef }
func (v *Vehicle) TotalCost(ctx Context) int { return v.def.Cost * v.Qty() }
func (v *Vehicle) Def() *catalog.VehicleDef { return &v.def }

// RobotMod is a purchased robot modification.
type RobotMod struct {
	Item
	Custom *catalog.RobotModDef `json:"custom,omitempty"`

	def catalog.RobotModDef
}

func (r *RobotMod) kind() ItemKind { return KindRobotMod }
func (r *RobotMod) gearDef() *catalog.GearDef { return &r.def.GearDef }
func (r *RobotMod) TotalCost(ctx Context) int { return r.def.Cost * r.Qty() }
func (r *RobotMod) Def() *catalog.RobotModDef { return &r.def }

// Slots is the number of mod slots the purchase occupies.
func (r *RobotMod) Slots() int { return r.def.Mods * r.Qty() }

// Tattoo is a Rifts magic tattoo.
type Tattoo struct {
	Item
	Custom *catalog.TattooDef `json:"custom,omitempty"`

	def catalog.TattooDef
}

func (t *Tattoo) kind() ItemKind { return KindTattoo }
func (t *Tattoo) gearDef() *catalog.GearDef { return &t.def.GearDef }
func (t *Tattoo) TotalCost(ctx Context) int { return t.def.Cost * t.Qty() }
func (t *Tattoo) Def() *catalog.TattooDef { return &t.def }

func meetsMinStrength(ctx Context, minDie string) bool {
	if minDie == "" {
		return true
	}
	need, err := dice.ParseDie(minDie)
	if err != nil {
		return true
	}
	return ctx.AttributeCurrent(Strength) >= need
}

// PurchaseGear buys gear by catalog id, or a custom item when id is 0.
// It returns nil when the id is unknown.
func (c *Character) PurchaseGear(id int, custom *catalog.GearDef, qty int) *Gear {
	def, ok := pick(id, custom, c.cat().Gear)
	if !ok {
		c.warnUnknown(string(KindGear), strconv.Itoa(id), "purchase")
		return nil
	}
	g := &Gear{Item: newItem(id, def.Name, qty)}
	if id == 0 {
		g.Custom = custom
	}
	c.Gear = append(c.Gear, g)
	return g
}

// PurchaseWeapon buys a weapon by catalog id, or a custom weapon when id is 0.
func (c *Character) PurchaseWeapon(id int, custom *catalog.WeaponDef, qty int) *Weapon {
	def, ok := pick(id, custom, c.cat().Weapon)
	if !ok {
		c.warnUnknown(string(KindWeapon), strconv.Itoa(id), "purchase")
		return nil
	}
	w := &Weapon{Item: newItem(id, def.Name, qty)}
	if id == 0 {
		w.Custom = custom
	}
	c.Weapons = append(c.Weapons, w)
	return w
}

// PurchaseArmor buys armor by catalog id, or custom armor when id is 0. New armor is equipped.
func (c *Character) PurchaseArmor(id int, custom *catalog.ArmorDef, qty int) *Armor {
	def, ok := pick(id, custom, c.cat().Armor)
	if !ok {
		c.warnUnknown(string(KindArmor), strconv.Itoa(id), "purchase")
		return nil
	}
	a := &Armor{Item: newItem(id, def.Name, qty), Equipped: true}
	if id == 0 {
		a.Custom = custom
	}
	c.Armor = append(c.Armor, a)
	return a
}

// PurchaseVehicle buys a vehicle by catalog id, or a custom vehicle when id is 0.
func (c *Character) PurchaseVehicle(id int, custom *catalog.VehicleDef, qty int) *Vehicle {
	def, ok := pick(id, custom, c.cat().Vehicle)
	if !ok {
		c.warnUnknown(string(KindVehicle), strconv.Itoa(id), "purchase")
		return nil
	}
	v := &Vehicle{Item: newItem(id, def.Name, qty)}
	if id == 0 {
		v.Custom = custom
	}
	c.Vehicles = append(c.Vehicles, v)
	return v
}

// PurchaseCyberware buys cyberware by catalog id, or custom cyberware when id is 0.
func (c *Character) PurchaseCyberware(id int, custom *catalog.CyberwareDef, qty, ranks int) *Cyberware {
	def, ok := pick(id, custom, c.cat().Cyberware)
	if !ok {
		c.warnUnknown(string(KindCyberware), strconv.Itoa(id), "purchase")
		return nil
	}
	if ranks < 1 {
		ranks = 1
	}
	cw := &Cyberware{Item: newItem(id, def.Name, qty), Ranks: ranks}
	if id == 0 {
		cw.Custom = custom
	}
	c.Cyberware = append(c.Cyberware, cw)
	return cw
}

// PurchaseRobotMod buys a robot mod by catalog id, or a custom mod when id is 0.
func (c *Character) PurchaseRobotMod(id int, custom *catalog.RobotModDef, qty int) *RobotMod {
	def, ok := pick(id, custom, c.cat().RobotMod)
	if !ok {
		c.warnUnknown(string(KindRobotMod), strconv.Itoa(id), "purchase")
		return nil
	}
	r := &RobotMod{Item: newItem(id, def.Name, qty)}
	if id == 0 {
		r.Custom = custom
	}
	c.RobotMods = append(c.RobotMods, r)
	return r
}

// PurchaseTattoo buys a tattoo by catalog id, or a custom tattoo when id is 0.
func (c *Character) PurchaseTattoo(id int, custom *catalog.TattooDef, qty int) *Tattoo {
	def, ok := pick(id, custom, c.cat().Tattoo)
	if !ok {
		c.warnUnknown(string(KindTattoo), strconv.Itoa(id), "purchase")
		return nil
	}
	t := &Tattoo{Item: newItem(id, def.Name, qty)}
	if id == 0 {
		t.Custom = custom
	}
	c.Tattoos = append(c.Tattoos, t)
	return t
}

// RemovePurchase removes the purchase with the given instance id from whichever list holds it.
func (c *Character) RemovePurchase(id uuid.UUID) bool {
	return removeByUUID(&c.Gear, id) ||
		removeByUUID(&c.Weapons, id) ||
		removeByUUID(&c.Armor, id) ||
		removeByUUID(&c.Vehicles, id) ||
		removeByUUID(&c.Cyberware, id) ||
		removeByUUID(&c.RobotMods, id) ||
		removeByUUID(&c.Tattoos, id)
}

func removeByUUID[T interface{ item() *Item }](list *[]T, id uuid.UUID) bool {
	for i, x := range *list {
		if x.item().UUID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// purchases returns every bound purchase, user-bought and framework-granted.
func (c *Character) purchases() []purchase {
	var out []purchase
	add := func(p purchase) {
		if p.gearDef().Name != "" {
			out = append(out, p)
		}
	}
	for _, g := range c.Gear {
		add(g)
	}
	for _, g := range c.frameworkGear {
		add(g)
	}
	for _, w := range c.Weapons {
		add(w)
	}
	for _, a := range c.Armor {
		add(a)
	}
	for _, v := range c.Vehicles {
		add(v)
	}
	for _, cw := range c.Cyberware {
		add(cw)
	}
	for _, cw := range c.frameworkCyber {
		add(cw)
	}
	for _, r := range c.RobotMods {
		add(r)
	}
	for _, t := range c.Tattoos {
		add(t)
	}
	return out
}

// ItemSummary is one row of a unique-by-name purchase view.
type ItemSummary struct {
	Kind      ItemKind
	Name      string
	Quantity  int
	TotalCost int
	Weight    float64
	// Max is the definition's ownership limit; 0 means unlimited.
	Max int
}

// UniquePurchased merges purchases of kind by name, summing quantity, cost, and weight.
func (c *Character) UniquePurchased(kind ItemKind) []ItemSummary {
	index := make(map[string]int)
	var out []ItemSummary
	for _, p := range c.purchases() {
		if p.kind() != kind {
			continue
		}
		it := p.item()
		key := catalog.NormalizeName(it.Name)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, ItemSummary{Kind: kind, Name: it.Name, Max: p.gearDef().Max})
		}
		out[i].Quantity += it.Qty()
		out[i].Weight += p.gearDef().Weight * float64(it.Qty())
		if !it.fromFramework {
			out[i].TotalCost += p.TotalCost(c)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// SpentFunds totals the cost of every non-framework purchase.
func (c *Character) SpentFunds() int {
	total := 0
	for _, p := range c.purchases() {
		if !p.item().fromFramework {
			total += p.TotalCost(c)
		}
	}
	return total
}

// CarriedWeight totals item weight, excluding vehicles.
func (c *Character) CarriedWeight() float64 {
	total := 0.0
	for _, p := range c.purchases() {
		if p.kind() == KindVehicle {
			continue
		}
		total += p.gearDef().Weight * float64(p.item().Qty())
	}
	return total
}

// resolveEquipment binds and applies every purchase in category order:
// gear, weapons, armor, vehicles, cyberware, robot mods, tattoos.
func (c *Character) resolveEquipment() {
	for _, g := range c.Gear {
		if d, ok := bindItem(c, KindGear, &g.Item, g.Custom, c.cat().Gear); ok {
			g.def = d
			c.applyItem(KindGear, &g.Item)
		}
	}
	for _, g := range c.frameworkGear {
		g.mods = c.parseEffects(string(KindGear)+": "+g.Name, g.def.Effects)
		c.applyItem(KindGear, &g.Item)
	}
	for _, w := range c.Weapons {
		if d, ok := bindItem(c, KindWeapon, &w.Item, w.Custom, c.cat().Weapon); ok {
			w.def = d
			c.applyItem(KindWeapon, &w.Item)
		}
	}
	for _, a := range c.Armor {
		if d, ok := bindItem(c, KindArmor, &a.Item, a.Custom, c.cat().Armor); ok {
			a.def = d
			if a.Equipped {
				c.applyItem(KindArmor, &a.Item)
			}
		}
	}
	for _, v := range c.Vehicles {
		if d, ok := bindItem(c, KindVehicle, &v.Item, v.Custom, c.cat().Vehicle); ok {
			v.def = d
		}
	}
	for _, cw := range c.Cyberware {
		if d, ok := bindItem(c, KindCyberware, &cw.Item, cw.Custom, c.cat().Cyberware); ok {
			cw.def = d
			c.applyItem(KindCyberware, &cw.Item)
		}
	}
	for _, cw := range c.frameworkCyber {
		cw.mods = c.parseEffects(string(KindCyberware)+": "+cw.Name, cw.def.Effects)
		c.applyItem(KindCyberware, &cw.Item)
	}
	for _, r := range c.RobotMods {
		if d, ok := bindItem(c, KindRobotMod, &r.Item, r.Custom, c.cat().RobotMod); ok {
			r.def = d
			c.applyItem(KindRobotMod, &r.Item)
		}
	}
	for _, t := range c.Tattoos {
		if d, ok := bindItem(c, KindTattoo, &t.Item, t.Custom, c.cat().Tattoo); ok {
			t.def = d
			c.applyItem(KindTattoo, &t.Item)
		}
	}
	c.aggregateArmor()
}

// resetEquipment clears per-pass item state; definitions are rebound on the next pass.
func (c *Character) resetEquipment() {
	for _, g := range c.Gear {
		g.reset()
		g.def = catalog.GearDef{}
	}
	for _, w := range c.Weapons {
		w.reset()
		w.def = catalog.WeaponDef{}
	}
	for _, a := range c.Armor {
		a.reset()
		a.def = catalog.ArmorDef{}
	}
	for _, v := range c.Vehicles {
		v.reset()
		v.def = catalog.VehicleDef{}
	}
	for _, cw := range c.Cyberware {
		cw.reset()
		cw.def = catalog.CyberwareDef{}
	}
	for _, r := range c.RobotMods {
		r.reset()
		r.def = catalog.RobotModDef{}
	}
	for _, t := range c.Tattoos {
		t.reset()
		t.def = catalog.TattooDef{}
	}
	c.frameworkGear, c.frameworkCyber = nil, nil
}

// ModSlotsUsed totals the slots taken by robot mods.
func (c *Character) ModSlotsUsed() int {
	n := 0
	for _, r := range c.RobotMods {
		n += r.Slots()
	}
	return n
}

// ModSlots is the robot mod capacity.
func (c *Character) ModSlots() int { return c.derived.ModSlots }

package catalog

import "fmt"

// collection indexes one kind of definition by ID while preserving load order.
type collection[T Definition] struct {
	kind  string
	byID  map[int]T
	order []T
}

func newCollection[T Definition](kind string) *collection[T] {
	return &collection[T]{kind: kind, byID: make(map[int]T)}
}

// add registers d. IDs of 0 are allowed repeatedly; any other duplicate ID is an error.
func (c *collection[T]) add(d T) error {
	id := d.Def().ID
	if id != 0 {
		if _, exists := c.byID[id]; exists {
			return fmt.Errorf("catalog: %s ID %d already registered", c.kind, id)
		}
		c.byID[id] = d
	}
	c.order = append(c.order, d)
	return nil
}

func (c *collection[T]) get(id int) (T, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// byName returns the first entry whose name matches and whose book passes the filter.
func (c *collection[T]) byName(name string, books BookFilter) (T, bool) {
	want := NormalizeName(name)
	for _, d := range c.order {
		def := d.Def()
		if NormalizeName(def.Name) == want && books.Allows(def.BookID) {
			return d, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) all(books BookFilter) []T {
	out := make([]T, 0, len(c.order))
	for _, d := range c.order {
		if books.Allows(d.Def().BookID) {
			out = append(out, d)
		}
	}
	return out
}

// Catalog is the read-only content registry. After loading it must not be mutated;
// it is safe for concurrent reads.
type Catalog struct {
	books map[int]*Book

	skills            *collection[*SkillDef]
	races             *collection[*RaceDef]
	edges             *collection[*EdgeDef]
	hindrances        *collection[*HindranceDef]
	powers            *collection[*PowerDef]
	arcaneBackgrounds *collection[*ArcaneBackgroundDef]
	frameworks        *collection[*FrameworkDef]
	settings          *collection[*SettingDef]
	gear              *collection[*GearDef]
	weapons           *collection[*WeaponDef]
	armor             *collection[*ArmorDef]
	vehicles          *collection[*VehicleDef]
	cyberware         *collection[*CyberwareDef]
	robotMods         *collection[*RobotModDef]
	tattoos           *collection[*TattooDef]
}

// New returns an empty Catalog.
//
// Postcondition: all internal indexes are initialised.
func New() *Catalog {
	return &Catalog{
		books:             make(map[int]*Book),
		skills:            newCollection[*SkillDef]("skill"),
		races:             newCollection[*RaceDef]("race"),
		edges:             newCollection[*EdgeDef]("edge"),
		hindrances:        newCollection[*HindranceDef]("hindrance"),
		powers:            newCollection[*PowerDef]("power"),
		arcaneBackgrounds: newCollection[*ArcaneBackgroundDef]("arcane background"),
		frameworks:        newCollection[*FrameworkDef]("framework"),
		settings:          newCollection[*SettingDef]("setting"),
		gear:              newCollection[*GearDef]("gear"),
		weapons:           newCollection[*WeaponDef]("weapon"),
		armor:             newCollection[*ArmorDef]("armor"),
		vehicles:          newCollection[*VehicleDef]("vehicle"),
		cyberware:         newCollection[*CyberwareDef]("cyberware"),
		robotMods:         newCollection[*RobotModDef]("robot mod"),
		tattoos:           newCollection[*TattooDef]("tattoo"),
	}
}

// AddBook registers b.
//
// Precondition: b must not be nil.
// Postcondition: Book(b.ID) returns b; returns error if b.ID already registered.
func (c *Catalog) AddBook(b *Book) error {
	if _, exists := c.books[b.ID]; exists {
		return fmt.Errorf("catalog: book ID %d already registered", b.ID)
	}
	c.books[b.ID] = b
	return nil
}

// Book returns the Book for id, or (nil, false) if not found.
func (c *Catalog) Book(id int) (*Book, bool) {
	b, ok := c.books[id]
	return b, ok
}

// The Add* methods register a definition; a duplicate non-zero ID is an error.

func (c *Catalog) AddSkill(d *SkillDef) error                       { return c.skills.add(d) }
func (c *Catalog) AddRace(d *RaceDef) error                         { return c.races.add(d) }
func (c *Catalog) AddEdge(d *EdgeDef) error                         { return c.edges.add(d) }
func (c *Catalog) AddHindrance(d *HindranceDef) error               { return c.hindrances.add(d) }
func (c *Catalog) AddPower(d *PowerDef) error                       { return c.powers.add(d) }
func (c *Catalog) AddArcaneBackground(d *ArcaneBackgroundDef) error { return c.arcaneBackgrounds.add(d) }
func (c *Catalog) AddFramework(d *FrameworkDef) error               { return c.frameworks.add(d) }
func (c *Catalog) AddSetting(d *SettingDef) error                   { return c.settings.add(d) }
func (c *Catalog) AddGear(d *GearDef) error                         { return c.gear.add(d) }
func (c *Catalog) AddWeapon(d *WeaponDef) error                     { return c.weapons.add(d) }
func (c *Catalog) AddArmor(d *ArmorDef) error                       { return c.armor.add(d) }
func (c *Catalog) AddVehicle(d *VehicleDef) error                   { return c.vehicles.add(d) }
func (c *Catalog) AddCyberware(d *CyberwareDef) error               { return c.cyberware.add(d) }
func (c *Catalog) AddRobotMod(d *RobotModDef) error                 { return c.robotMods.add(d) }
func (c *Catalog) AddTattoo(d *TattooDef) error                     { return c.tattoos.add(d) }

// Skills returns every skill definition allowed by books.
func (c *Catalog) Skills(books BookFilter) []*SkillDef { return c.skills.all(books) }

// Skill looks a skill up by name.
func (c *Catalog) Skill(name string) (*SkillDef, bool) { return c.skills.byName(name, nil) }

func (c *Catalog) Race(id int) (*RaceDef, bool) { return c.races.get(id) }
func (c *Catalog) RaceByName(name string, books BookFilter) (*RaceDef, bool) {
	return c.races.byName(name, books)
}

func (c *Catalog) Edge(id int) (*EdgeDef, bool) { return c.edges.get(id) }
func (c *Catalog) EdgeByName(name string, books BookFilter) (*EdgeDef, bool) {
	return c.edges.byName(name, books)
}
func (c *Catalog) Edges(books BookFilter) []*EdgeDef { return c.edges.all(books) }

func (c *Catalog) Hindrance(id int) (*HindranceDef, bool) { return c.hindrances.get(id) }
func (c *Catalog) HindranceByName(name string, books BookFilter) (*HindranceDef, bool) {
	return c.hindrances.byName(name, books)
}

func (c *Catalog) Power(id int) (*PowerDef, bool) { return c.powers.get(id) }

// Powers returns every power definition allowed by books, in load order.
func (c *Catalog) Powers(books BookFilter) []*PowerDef { return c.powers.all(books) }

func (c *Catalog) ArcaneBackground(id int) (*ArcaneBackgroundDef, bool) {
	return c.arcaneBackgrounds.get(id)
}
func (c *Catalog) ArcaneBackgroundByName(name string, books BookFilter) (*ArcaneBackgroundDef, bool) {
	return c.arcaneBackgrounds.byName(name, books)
}

func (c *Catalog) Framework(id int) (*FrameworkDef, bool) { return c.frameworks.get(id) }

func (c *Catalog) Setting(id int) (*SettingDef, bool) { return c.settings.get(id) }
func (c *Catalog) SettingByName(name string) (*SettingDef, bool) {
	return c.settings.byName(name, nil)
}

func (c *Catalog) Gear(id int) (*GearDef, bool) { return c.gear.get(id) }
func (c *Catalog) GearByName(name string, books BookFilter) (*GearDef, bool) {
	return c.gear.byName(name, books)
}
func (c *Catalog) Weapon(id int) (*WeaponDef, bool)       { return c.weapons.get(id) }
func (c *Catalog) Armor(id int) (*ArmorDef, bool)         { return c.armor.get(id) }
func (c *Catalog) Vehicle(id int) (*VehicleDef, bool)     { return c.vehicles.get(id) }
func (c *Catalog) Cyberware(id int) (*CyberwareDef, bool) { return c.cyberware.get(id) }
func (c *Catalog) CyberwareByName(name string, books BookFilter) (*CyberwareDef, bool) {
	return c.cyberware.byName(name, books)
}
func (c *Catalog) RobotMod(id int) (*RobotModDef, bool) { return c.robotMods.get(id) }
func (c *Catalog) Tattoo(id int) (*TattooDef, bool)     { return c.tattoos.get(id) }

// Counts reports how many definitions of each kind are registered, keyed by kind name.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"books":              len(c.books),
		"skills":             len(c.skills.order),
		"races":              len(c.races.order),
		"edges":              len(c.edges.order),
		"hindrances":         len(c.hindrances.order),
		"powers":             len(c.powers.order),
		"arcane_backgrounds": len(c.arcaneBackgrounds.order),
		"frameworks":         len(c.frameworks.order),
		"settings":           len(c.settings.order),
		"gear":               len(c.gear.order),
		"weapons":            len(c.weapons.order),
		"armor":              len(c.armor.order),
		"vehicles":           len(c.vehicles.order),
		"cyberware":          len(c.cyberware.order),
		"robot_mods":         len(c.robotMods.order),
		"tattoos":            len(c.tattoos.order),
	}
}

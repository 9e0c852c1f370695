// Package catalog holds the static table of placeable equipment and wall items.
package catalog

import (
	"slices"
	"sync/atomic"
)

// Category groups catalog entries in pickers and reports.
type Category string

// Known categories, in display order.
const (
	CategoryRacking   Category = "racking"
	CategoryDoors     Category = "doors"
	CategoryZones     Category = "zones"
	CategoryEquipment Category = "equipment"
	CategoryPallets   Category = "pallets"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryRacking, CategoryDoors, CategoryZones, CategoryEquipment, CategoryPallets}

// Kind discriminates floor equipment from wall-mounted items.
type Kind string

const (
	KindFloor Kind = "floor"
	KindWall  Kind = "wall"
)

// OpeningType is the kind of wall opening a wall item produces.
type OpeningType string

const (
	OpeningDoor   OpeningType = "door"
	OpeningWindow OpeningType = "window"
)

// DefaultDoorHeight is used for wall items that do not declare a mount height.
const DefaultDoorHeight = 7.0

// WallSpec is present only on KindWall entries.
type WallSpec struct {
	Opening     OpeningType `json:"opening"`
	MountHeight float64     `json:"mountHeight,omitempty"`
}

// Entry is one catalog template. Exactly one of the variants applies, chosen
// by Kind; Wall is non-nil iff Kind == KindWall.
type Entry struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Category Category  `json:"category"`
	Kind     Kind      `json:"kind"`
	W        float64   `json:"w"`
	H        float64   `json:"h"`
	Color    string    `json:"color"`
	Pallets  int       `json:"pallets"`
	Wall     *WallSpec `json:"wall,omitempty"`
}

// IsWall reports whether the entry attaches to a wall instead of the floor.
func (e Entry) IsWall() bool { return e.Kind == KindWall && e.Wall != nil }

// DoorHeight returns the opening height for wall items.
func (e Entry) DoorHeight() float64 {
	if e.Wall == nil || e.Wall.MountHeight <= 0 {
		return DefaultDoorHeight
	}
	return e.Wall.MountHeight
}

// Source resolves catalog entries by id. Editor sessions depend on this
// rather than on a concrete table.
type Source interface {
	Lookup(id string) (Entry, bool)
}

// Catalog is an immutable, ordered set of entries.
type Catalog struct {
	entries []Entry
	byID    map[string]int
}

// New builds a catalog from entries. Later duplicates of an id win.
func New(entries []Entry) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(entries))}
	for _, e := range entries {
		if i, ok := c.byID[e.ID]; ok {
			c.entries[i] = e
			continue
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// Lookup returns the entry with the given id.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns all entries in table order.
func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

// ByCategory returns the entries of one category in table order.
func (c *Catalog) ByCategory(cat Category) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Store is a swappable catalog used while the catalog file is hot reloaded.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns a Store serving c.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current returns the catalog currently served.
func (s *Store) Current() *Catalog { return s.current.Load() }

// Swap replaces the served catalog.
func (s *Store) Swap(c *Catalog) { s.current.Store(c) }

// Lookup implements Source against the current catalog.
func (s *Store) Lookup(id string) (Entry, bool) {
	return s.Current().Lookup(id)
}

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// record is the on-disk shape of an entry. It mirrors the loose record the
// table is authored in; Parse turns it into the tagged Entry.
type record struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	W          float64 `yaml:"w" json:"w"`
	H          float64 `yaml:"h" json:"h"`
	Color      string  `yaml:"color" json:"color"`
	Pallets    int     `yaml:"pallets" json:"pallets"`
	WallItem   bool    `yaml:"wall_item" json:"wall_item"`
	DoorHeight float64 `yaml:"door_height" json:"door_height"`
	Opening    string  `yaml:"opening" json:"opening"`
}

func (r *record) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.W, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.H, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.Color, validation.Required, validation.Match(colorRe)),
		validation.Field(&r.Pallets, validation.Min(0)),
		validation.Field(&r.DoorHeight, validation.Min(0.0)),
		validation.Field(&r.Opening, validation.In("", string(OpeningDoor), string(OpeningWindow))),
	)
}

type document struct {
	Categories map[Category][]record `yaml:"categories"`
}

// Parse decodes a YAML catalog table. Categories are read in display order;
// unknown categories are rejected.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	for cat := range doc.Categories {
		if err := validation.Validate(string(cat), validation.In(categoryNames()...)); err != nil {
			return nil, fmt.Errorf("catalog: category %q: %w", cat, err)
		}
	}

	var entries []Entry
	for _, cat := range Categories {
		for i := range doc.Categories[cat] {
			r := &doc.Categories[cat][i]
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("catalog: %s[%d]: %w", cat, i, err)
			}
			entries = append(entries, r.entry(cat))
		}
	}
	if len(entries) == 0 {
		return nil, errors.New("catalog: no entries")
	}
	return New(entries), nil
}

func (r *record) entry(cat Category) Entry {
	e := Entry{
		ID:       r.ID,
		Name:     r.Name,
		Category: cat,
		Kind:     KindFloor,
		W:        r.W,
		H:        r.H,
		Color:    r.Color,
		Pallets:  r.Pallets,
	}
	if r.WallItem {
		opening := OpeningType(r.Opening)
		if opening == "" {
			opening = OpeningDoor
		}
		e.Kind = KindWall
		e.Wall = &WallSpec{Opening: opening, MountHeight: r.DoorHeight}
	}
	return e
}

func categoryNames() []any {
	out := make([]any, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}

// Default returns the built-in catalog table.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in table: %v", err))
	}
	return c
}

// LoadFile reads a catalog table from path. An empty path yields Default().
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

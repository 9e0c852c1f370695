package outline

import (
	"fmt"
	"slices"
	"sort"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
)

// Template names.
const (
	TemplateRectangle = "rectangle"
	TemplateL         = "l-shape"
	TemplateU         = "u-shape"
	TemplateT         = "t-shape"
)

type v = floorplan.Vertex

// All presets share one winding (clockwise on a y-down screen).
var templates = map[string][]floorplan.Vertex{
	TemplateRectangle: {v{X: 0, Y: 0}, v{X: 40, Y: 0}, v{X: 40, Y: 25}, v{X: 0, Y: 25}},
	TemplateL: {
		v{X: 0, Y: 0}, v{X: 40, Y: 0}, v{X: 40, Y: 15},
		v{X: 20, Y: 15}, v{X: 20, Y: 30}, v{X: 0, Y: 30},
	},
	TemplateU: {
		v{X: 0, Y: 0}, v{X: 12, Y: 0}, v{X: 12, Y: 20}, v{X: 28, Y: 20},
		v{X: 28, Y: 0}, v{X: 40, Y: 0}, v{X: 40, Y: 30}, v{X: 0, Y: 30},
	},
	TemplateT: {
		v{X: 0, Y: 0}, v{X: 40, Y: 0}, v{X: 40, Y: 12}, v{X: 26, Y: 12},
		v{X: 26, Y: 32}, v{X: 14, Y: 32}, v{X: 14, Y: 12}, v{X: 0, Y: 12},
	},
}

// Template returns a copy of the named preset.
func Template(name string) ([]floorplan.Vertex, bool) {
	t, ok := templates[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(t), true
}

// DefaultOutline is the rectangle preset used for new plans.
func DefaultOutline() []floorplan.Vertex {
	t, _ := Template(TemplateRectangle)
	return t
}

// TemplateNames lists the presets in lexical order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ApplyTemplate replaces the outline with the named preset.
func (e *Editor) ApplyTemplate(name string) error {
	t, ok := Template(name)
	if !ok {
		return fmt.Errorf("outline: %w: unknown template %q", apperr.ErrInvalidInput, name)
	}
	e.vertices = t
	return nil
}

// Package export turns a plan scene into files: images, 3D meshes, GeoJSON
// and a metrics report. The plan core works in feet; conversion to metric
// units happens here and nowhere else.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render/raster"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render/scene3d"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render/svgview"
)

// Default canvas size for 2D formats.
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
)

// Options tune the registry.
type Options struct {
	Width, Height int
	// Title labels the report and the STL solid.
	Title string
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Formats returns every export format, keyed by name.
func Formats(o Options) map[string]render.Format {
	w, h := o.size()
	return map[string]render.Format{
		"svg":     {Name: "svg", ContentType: "image/svg+xml", Ext: ".svg", Renderer: svgview.New(w, h)},
		"png":     {Name: "png", ContentType: "image/png", Ext: ".png", Renderer: raster.New(w, h)},
		"scene":   {Name: "scene", ContentType: "application/json", Ext: ".scene.json", Renderer: scene3d.JSON{}},
		"stl":     {Name: "stl", ContentType: "model/stl", Ext: ".stl", Renderer: scene3d.STL{Name: o.Title}},
		"geojson": {Name: "geojson", ContentType: "application/geo+json", Ext: ".geojson", Renderer: GeoJSON{}},
		"report":  {Name: "report", ContentType: "text/markdown; charset=utf-8", Ext: ".md", Renderer: Report{Title: o.Title}},
	}
}

// Names lists the format names in lexical order.
func Names() []string {
	fs := Formats(Options{})
	out := make([]string, 0, len(fs))
	for name := range fs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the named format.
func Lookup(name string, o Options) (render.Format, error) {
	f, ok := Formats(o)[name]
	if !ok {
		return render.Format{}, fmt.Errorf("export: format %q: %w", name, apperr.ErrNotFound)
	}
	return f, nil
}

// Write renders scene in the named format, fitting 2D output to the canvas.
func Write(w io.Writer, name string, scene render.Scene, o Options) (render.Format, error) {
	f, err := Lookup(name, o)
	if err != nil {
		return render.Format{}, err
	}
	width, height := o.size()
	if err := f.Renderer.Render(w, scene, render.FitView(scene, width, height)); err != nil {
		return f, fmt.Errorf("export: %s: %w", name, err)
	}
	return f, nil
}

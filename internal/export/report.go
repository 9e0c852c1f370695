package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/viewport"
)

// Report writes a markdown summary of the plan metrics and equipment.
type Report struct {
	Title string
}

func (r Report) title() string {
	if r.Title == "" {
		return "Warehouse layout"
	}
	return r.Title
}

type itemGroup struct {
	name    string
	count   int
	pallets int
	area    float64
}

func groupItems(items []floorplan.PlacedItem) []itemGroup {
	idx := map[string]int{}
	var out []itemGroup
	for _, it := range items {
		i, ok := idx[it.ID]
		if !ok {
			i = len(out)
			idx[it.ID] = i
			out = append(out, itemGroup{name: it.Name})
		}
		out[i].count++
		out[i].pallets += it.Pallets
		out[i].area += it.W * it.H
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].count != out[b].count {
			return out[a].count > out[b].count
		}
		return out[a].name < out[b].name
	})
	return out
}

func area(sqft float64) string {
	return fmt.Sprintf("%s sq ft (%s m²)",
		humanize.CommafWithDigits(sqft, 1),
		humanize.CommafWithDigits(sqft*SquareFeetToSquareMeters, 1))
}

// Render implements render.Renderer. The view is ignored.
func (r Report) Render(w io.Writer, scene render.Scene, _ viewport.Transform) error {
	m := scene.Metrics
	st := scene.State
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n\n", r.title())
	fmt.Fprintln(bw, "| Metric | Value |")
	fmt.Fprintln(bw, "| --- | --- |")
	fmt.Fprintf(bw, "| Total area | %s |\n", area(m.TotalArea))
	fmt.Fprintf(bw, "| Equipment area | %s |\n", area(m.EquipmentArea))
	fmt.Fprintf(bw, "| Utilization | %.1f%% |\n", m.Utilization)
	fmt.Fprintf(bw, "| Pallet capacity | %s |\n", humanize.Comma(int64(m.PalletCapacity)))
	fmt.Fprintf(bw, "| Items | %s |\n", humanize.Comma(int64(m.ItemCount)))
	fmt.Fprintf(bw, "| Doors | %d |\n", m.DoorCount)
	fmt.Fprintf(bw, "| Windows | %d |\n", m.WindowCount)
	fmt.Fprintf(bw, "| Wall height | %s ft |\n", humanize.Ftoa(st.WallHeight))
	fmt.Fprintf(bw, "| Outline corners | %d |\n", len(st.Vertices))

	if groups := groupItems(st.Items); len(groups) > 0 {
		fmt.Fprintln(bw, "\n## Equipment")
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "| Item | Count | Pallets | Area |")
		fmt.Fprintln(bw, "| --- | --- | --- | --- |")
		for _, g := range groups {
			fmt.Fprintf(bw, "| %s | %d | %s | %s sq ft |\n",
				g.name, g.count, humanize.Comma(int64(g.pallets)), humanize.CommafWithDigits(g.area, 1))
		}
	}

	if len(scene.StaleOpenings) > 0 {
		fmt.Fprintln(bw, "\n## Warnings")
		fmt.Fprintln(bw)
		for _, id := range scene.StaleOpenings {
			fmt.Fprintf(bw, "- opening %s sits on a wall that has changed since it was placed\n", id)
		}
	}
	return bw.Flush()
}

var _ render.Renderer = Report{}

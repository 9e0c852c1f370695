// Package tui is a terminal front-end for the plan editor: a braille
// rendering of the plan, a catalog picker and a command line.
package tui

import (
	"context"
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planservice"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
)

type focus int

const (
	focusCanvas focus = iota
	focusCatalog
	focusCommand
)

const sidebarWidth = 32

// Catalog exposes the current catalog table. *catalog.Store implements it.
type Catalog interface {
	Current() *catalog.Catalog
}

type entryItem struct{ e catalog.Entry }

func (i entryItem) Title() string { return i.e.Name }
func (i entryItem) Description() string {
	if i.e.IsWall() {
		return fmt.Sprintf("%s · %.0f ft wide", i.e.Category, i.e.W)
	}
	return fmt.Sprintf("%s · %gx%g ft · %d pallets", i.e.Category, i.e.W, i.e.H, i.e.Pallets)
}
func (i entryItem) FilterValue() string { return i.e.Name + " " + string(i.e.Category) }

type saveDoneMsg struct {
	revision string
	err      error
}

// Model is the bubbletea model for one plan.
type Model struct {
	ctx    context.Context
	svc    *planservice.Service
	planID string

	width  int
	height int

	focus       focus
	catalog     list.Model
	input       textinput.Model
	helpVisible bool

	cursor geometry.Point
	// grab is the cursor offset from the moving item's corner.
	grab geometry.Point
	zoom float64
	pan  geometry.Point

	plan      planservice.PlanView
	scene     render.Scene
	status    string
	statusErr bool
	saving    bool
}

// New opens planID through svc.
func New(ctx context.Context, svc *planservice.Service, cat Catalog, planID string) (Model, error) {
	m := Model{
		ctx:         ctx,
		svc:         svc,
		planID:      planID,
		helpVisible: true,
		zoom:        1,
		status:      "ready",
	}

	var items []list.Item
	for _, c := range catalog.Categories {
		for _, e := range cat.Current().ByCategory(c) {
			items = append(items, entryItem{e})
		}
	}
	d := list.NewDefaultDelegate()
	m.catalog = list.New(items, d, sidebarWidth-2, 20)
	m.catalog.Title = "Catalog"
	m.catalog.SetShowHelp(false)
	m.catalog.SetShowStatusBar(false)
	m.catalog.SetFilteringEnabled(true)

	m.input = textinput.New()
	m.input.Prompt = ": "
	m.input.Placeholder = "indent 0 · bump 2 · resize 1 30 · template l-shape · height 24 · save"
	m.input.CharLimit = 80

	if err := m.refresh(); err != nil {
		return Model{}, err
	}
	b := geometry.Bounds(m.plan.State.Vertices)
	m.cursor = b.Center()
	return m, nil
}

func (m *Model) refresh() error {
	v, err := m.svc.View(m.ctx, m.planID)
	if err != nil {
		return err
	}
	sc, err := m.svc.Scene(m.ctx, m.planID)
	if err != nil {
		return err
	}
	m.plan, m.scene = v, sc
	return nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) saveCmd() tea.Cmd {
	ctx, svc, id := m.ctx, m.svc, m.planID
	return func() tea.Msg {
		res, err := svc.Save(ctx, id, true)
		return saveDoneMsg{revision: res.Document.Revision, err: err}
	}
}

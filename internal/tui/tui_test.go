package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/editor"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/persistence"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planservice"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/testutil"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	adapter := persistence.NewAdapter(persistence.NewMemory())
	saver := persistence.NewSaver(adapter, time.Second, nil)
	t.Cleanup(saver.Close)

	cat := catalog.NewStore(catalog.Default())
	svc := planservice.NewService(cat, adapter, saver, planservice.WithIDGenerator(testutil.IDs("id")))
	m, err := New(context.Background(), svc, cat, "plan-1")
	require.NoError(t, err)
	return m
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestBrailleDots(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setDot(0, 0)
	b.setDot(1, 3)
	b.setDot(-1, 0)
	b.setDot(10, 10)
	assert.Equal(t, uint8(0x01|0x80), b.m[0][0])
	assert.Equal(t, []string{"⢁ "}, b.lines())
}

func TestBrailleLineCoversEndpoints(t *testing.T) {
	b := newBrailleBuf(4, 1)
	b.line(0, 0, 7, 0)
	for x := 0; x < 4; x++ {
		assert.Equal(t, uint8(0x01|0x08), b.m[0][x], "cell %d", x)
	}
}

func TestCursorStartsAtOutlineCenter(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 20.0, m.cursor.X)
	assert.Equal(t, 12.5, m.cursor.Y)
}

func TestCommandIndent(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.runCommand("indent 0")
	m = next.(Model)
	assert.False(t, m.statusErr, m.status)
	assert.Len(t, m.plan.State.Vertices, 8)

	next, _ = m.runCommand("undo")
	m = next.(Model)
	assert.Len(t, m.plan.State.Vertices, 4)
}

func TestCommandUsageAndUnknown(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.runCommand("resize one")
	m = next.(Model)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "usage: resize")

	next, _ = m.runCommand("explode")
	m = next.(Model)
	assert.Equal(t, "unknown command: explode", m.status)
}

func TestBlockedDeleteVertexShowsNotice(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.runCommand("delvertex 0")
	m = next.(Model)
	require.False(t, m.statusErr, m.status)
	require.Len(t, m.plan.State.Vertices, 3)

	next, _ = m.runCommand("delvertex 0")
	m = next.(Model)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "at least 3")
	assert.Len(t, m.plan.State.Vertices, 3)
	assert.Empty(t, m.plan.Notice)
}

func TestPlaceFromCatalog(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusCatalog, m.focus)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, focusCanvas, m.focus)
	require.Equal(t, editor.ModeDraggingEntry.String(), m.plan.Mode)
	require.NotNil(t, m.scene.Drag)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "placed", m.status)
	require.Len(t, m.plan.State.Items, 1)
	it := m.plan.State.Items[0]
	assert.Equal(t, "selective-rack", it.ID)
	assert.Equal(t, 20.0, it.X)
	assert.Equal(t, 12.5, it.Y)
	assert.Equal(t, 6, m.plan.Metrics.PalletCapacity)
}

func TestEscCancelsCatalogDrag(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, editor.ModeIdle.String(), m.plan.Mode)
	assert.Empty(t, m.plan.State.Items)
}

func TestDeleteKeyRespectsCommandFocus(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.plan.State.Items, 1)
	require.NotEmpty(t, m.plan.Selected)

	m = send(m, runes(":"))
	require.Equal(t, focusCommand, m.focus)
	m = send(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Len(t, m.plan.State.Items, 1)

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, focusCanvas, m.focus)
	m = send(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Empty(t, m.plan.State.Items)
	assert.Equal(t, "delete", m.status)
}

func TestMoveItemWithCursor(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.plan.State.Items, 1)

	m = send(m, runes("m"))
	require.Equal(t, editor.ModeMovingItem.String(), m.plan.Mode)
	m = send(m, tea.KeyMsg{Type: tea.KeyShiftLeft}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "moved", m.status)
	assert.Equal(t, 15.0, m.plan.State.Items[0].X)
}

func TestEscPutsMovedItemBack(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.plan.State.Items, 1)

	m = send(m, runes("m"), tea.KeyMsg{Type: tea.KeyShiftLeft}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, editor.ModeIdle.String(), m.plan.Mode)
	assert.Equal(t, 20.0, m.plan.State.Items[0].X)
	assert.Equal(t, 12.5, m.plan.State.Items[0].Y)
}

func TestViewRendersAfterResize(t *testing.T) {
	m := newTestModel(t)
	assert.Empty(t, m.View())

	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	assert.Contains(t, out, "warehouse layout")
	assert.Contains(t, out, "plan-1")
	assert.Contains(t, out, "1,000 sq ft")
	assert.True(t, strings.ContainsFunc(out, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }), "expected braille output")
}

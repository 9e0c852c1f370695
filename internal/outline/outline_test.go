package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"
)

func rectangle(t *testing.T) *Editor {
	t.Helper()
	e, err := New(DefaultOutline())
	require.NoError(t, err)
	return e
}

func TestNewRejectsShortOutline(t *testing.T) {
	_, err := New([]floorplan.Vertex{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestMoveVertex(t *testing.T) {
	e := rectangle(t)
	require.NoError(t, e.MoveVertex(2, floorplan.Vertex{X: 50, Y: 30}))
	assert.Equal(t, floorplan.Vertex{X: 50, Y: 30}, e.Vertices()[2])
	assert.ErrorIs(t, e.MoveVertex(4, floorplan.Vertex{}), apperr.ErrInvalidInput)
}

func TestVerticesReturnsCopy(t *testing.T) {
	e := rectangle(t)
	vs := e.Vertices()
	vs[0].X = 99
	assert.Equal(t, 0.0, e.Vertices()[0].X)
}

func TestInsertVertexOnEdge(t *testing.T) {
	e := rectangle(t)
	require.NoError(t, e.InsertVertexOnEdge(0, floorplan.Vertex{X: 20, Y: 0}))
	assert.Equal(t, 5, e.Len())
	assert.Equal(t, floorplan.Vertex{X: 20, Y: 0}, e.Vertices()[1])

	require.NoError(t, e.InsertVertexOnEdge(4, floorplan.Vertex{X: 0, Y: 10}))
	assert.Equal(t, floorplan.Vertex{X: 0, Y: 10}, e.Vertices()[5], "closing edge appends")
	assert.InDelta(t, 1000.0, geometry.PolygonArea(e.Vertices()), 1e-9)
}

func TestDeleteVertexKeepsThree(t *testing.T) {
	e := rectangle(t)
	require.NoError(t, e.DeleteVertex(3))
	assert.Equal(t, 3, e.Len())

	before := e.Vertices()
	err := e.DeleteVertex(0)
	assert.ErrorIs(t, err, apperr.ErrBlocked)
	assert.Equal(t, before, e.Vertices())
}

func TestResizeEdgeMovesSecondEndpoint(t *testing.T) {
	e := rectangle(t)
	require.NoError(t, e.ResizeEdge(0, 30))
	vs := e.Vertices()
	assert.Equal(t, floorplan.Vertex{X: 0, Y: 0}, vs[0])
	assert.InDelta(t, 30.0, vs[1].X, 1e-9)
	assert.InDelta(t, 0.0, vs[1].Y, 1e-9)
	assert.Equal(t, floorplan.Vertex{X: 40, Y: 25}, vs[2], "rest of the outline untouched")

	require.NoError(t, e.ResizeEdge(3, 50))
	assert.InDelta(t, -25.0, e.Vertices()[0].Y, 1e-9, "closing edge moves vertex 0")
}

func TestResizeEdgeRejectsDegenerate(t *testing.T) {
	e := rectangle(t)
	assert.ErrorIs(t, e.ResizeEdge(0, 0), apperr.ErrInvalidInput)
	require.NoError(t, e.MoveVertex(1, floorplan.Vertex{X: 0, Y: 0}))
	assert.ErrorIs(t, e.ResizeEdge(0, 10), apperr.ErrBlocked)
}

func TestAddIndentOnShortEdgeRefused(t *testing.T) {
	e, err := New([]floorplan.Vertex{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 25}, {X: 0, Y: 25}})
	require.NoError(t, err)

	err = e.AddIndent(0)
	assert.ErrorIs(t, err, apperr.ErrBlocked)
	assert.Equal(t, 4, e.Len())

	assert.ErrorIs(t, e.AddBump(0), apperr.ErrBlocked)
	assert.Equal(t, 4, e.Len())
}

func TestAddIndentAndBump(t *testing.T) {
	e := rectangle(t)
	require.NoError(t, e.AddIndent(0))
	require.Equal(t, 8, e.Len())
	vs := e.Vertices()
	assert.Equal(t, []floorplan.Vertex{
		{X: 0, Y: 0}, {X: 16, Y: 0}, {X: 16, Y: 4}, {X: 24, Y: 4}, {X: 24, Y: 0}, {X: 40, Y: 0},
		{X: 40, Y: 25}, {X: 0, Y: 25},
	}, vs)
	assert.InDelta(t, 1000.0-32, geometry.PolygonArea(vs), 1e-9)

	e = rectangle(t)
	require.NoError(t, e.AddBump(2))
	assert.InDelta(t, 1000.0+32, geometry.PolygonArea(e.Vertices()), 1e-9)
}

func TestIndentHalfWidthScalesOnShortEdges(t *testing.T) {
	e, err := New([]floorplan.Vertex{{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 25}, {X: 0, Y: 25}})
	require.NoError(t, err)
	require.NoError(t, e.AddIndent(0))
	vs := e.Vertices()
	assert.InDelta(t, 3.0, vs[1].X, 1e-9)
	assert.InDelta(t, 9.0, vs[4].X, 1e-9)
}

func TestIndentIsInwardForEitherWinding(t *testing.T) {
	for _, outline := range [][]floorplan.Vertex{DefaultOutline(), geometry.Reverse(DefaultOutline())} {
		e, err := New(outline)
		require.NoError(t, err)
		require.NoError(t, e.AddIndent(1))
		assert.InDelta(t, 968.0, geometry.PolygonArea(e.Vertices()), 1e-9)

		e, _ = New(outline)
		require.NoError(t, e.AddBump(1))
		assert.InDelta(t, 1032.0, geometry.PolygonArea(e.Vertices()), 1e-9)
	}
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, []string{TemplateL, TemplateRectangle, TemplateT, TemplateU}, TemplateNames())
	for _, name := range TemplateNames() {
		vs, ok := Template(name)
		require.True(t, ok, name)
		assert.Positive(t, geometry.SignedArea(vs), "%s winding", name)
	}

	e := rectangle(t)
	require.NoError(t, e.ApplyTemplate(TemplateL))
	assert.InDelta(t, 900.0, geometry.PolygonArea(e.Vertices()), 1e-9)
	assert.ErrorIs(t, e.ApplyTemplate("hexagon"), apperr.ErrInvalidInput)
}

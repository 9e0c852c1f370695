// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the plan editor as tools for LLM integration via stdio.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/editor"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/export"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/outline"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planservice"
)

const (
	catalogURI = "warehouse://catalog"
	rulesURI   = "warehouse://layout-rules"
)

// Catalog exposes the current catalog table. *catalog.Store implements it.
type Catalog interface {
	Current() *catalog.Catalog
}

// Server wraps the MCP server with plan editing tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *planservice.Service
	catalog Catalog
	tools   map[string]server.ToolHandlerFunc
}

func (s *Server) addTool(tool mcp.Tool, h server.ToolHandlerFunc) {
	s.tools[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

func planArg() mcp.ToolOption {
	return mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan identifier (letters, digits, - and _)"))
}

func itemArg() mcp.ToolOption {
	return mcp.WithString("instance_id", mcp.Required(), mcp.Description("Instance id of a placed item"))
}

func edgeArg() mcp.ToolOption {
	return mcp.WithNumber("edge", mcp.Required(), mcp.Description("Outline edge index; edge i runs from corner i to corner i+1"))
}

// New creates a new MCP server with all editor tools registered.
func New(svc *planservice.Service, cat Catalog, version string) *Server {
	s := &Server{svc: svc, catalog: cat, tools: make(map[string]server.ToolHandlerFunc)}

	s.mcp = server.NewMCPServer(
		"Warehouse Layout",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.addTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List the catalog entries that can be placed, grouped by category."),
	), s.listCatalog)

	s.addTool(mcp.NewTool("list_plans",
		mcp.WithDescription("List saved plans with their area and pallet capacity."),
	), s.listPlans)

	s.addTool(mcp.NewTool("get_plan",
		mcp.WithDescription("Read a plan: outline, items, openings, metrics and stale openings. "+
			"A plan that was never saved starts from the default template."),
		planArg(),
	), s.getPlan)

	s.addTool(mcp.NewTool("get_layout_rules",
		mcp.WithDescription("Returns the units, coordinate system and placement rules. "+
			"Call this before editing a plan."),
	), s.getLayoutRules)

	s.addTool(mcp.NewTool("place_item",
		mcp.WithDescription("Place a catalog entry with its top-left corner at (x, y). "+
			"Doors and windows snap to the nearest wall."),
		planArg(),
		mcp.WithString("entry_id", mcp.Required(), mcp.Description("Catalog entry id from list_catalog")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("X in feet")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Y in feet")),
	), s.placeItem)

	s.addTool(mcp.NewTool("move_item",
		mcp.WithDescription("Move a placed item to (x, y) without validation."),
		planArg(), itemArg(),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("X in feet")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Y in feet")),
	), s.moveItem)

	s.addTool(mcp.NewTool("rotate_item",
		mcp.WithDescription("Rotate a placed item a quarter turn."),
		planArg(), itemArg(),
	), s.itemOp(func(sess *editor.Session, id string) error { return sess.Rotate(id) }))

	s.addTool(mcp.NewTool("duplicate_item",
		mcp.WithDescription("Copy a placed item 2 ft down and to the right."),
		planArg(), itemArg(),
	), s.itemOp(func(sess *editor.Session, id string) error {
		_, err := sess.Duplicate(id)
		return err
	}))

	s.addTool(mcp.NewTool("delete_item",
		mcp.WithDescription("Remove a placed item."),
		planArg(), itemArg(),
	), s.itemOp(func(sess *editor.Session, id string) error { return sess.DeleteItem(id) }))

	s.addTool(mcp.NewTool("delete_opening",
		mcp.WithDescription("Remove a door or window."),
		planArg(),
		mcp.WithString("opening_id", mcp.Required(), mcp.Description("Opening id")),
	), s.deleteOpening)

	s.addTool(mcp.NewTool("move_vertex",
		mcp.WithDescription("Move an outline corner."),
		planArg(),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Corner index")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("X in feet")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Y in feet")),
	), s.moveVertex)

	s.addTool(mcp.NewTool("insert_vertex",
		mcp.WithDescription("Split an edge by inserting a corner after its start."),
		planArg(), edgeArg(),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("X in feet")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Y in feet")),
	), s.insertVertex)

	s.addTool(mcp.NewTool("delete_vertex",
		mcp.WithDescription("Remove an outline corner. An outline keeps at least 3 corners."),
		planArg(),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Corner index")),
	), s.deleteVertex)

	s.addTool(mcp.NewTool("resize_edge",
		mcp.WithDescription("Change an edge's length by moving its end corner along the edge."),
		planArg(), edgeArg(),
		mcp.WithNumber("length", mcp.Required(), mcp.Description("New length in feet")),
	), s.resizeEdge)

	s.addTool(mcp.NewTool("add_indent",
		mcp.WithDescription("Notch the middle of an edge into the building."),
		planArg(), edgeArg(),
	), s.edgeOp(func(sess *editor.Session, e int) error { return sess.AddIndent(e) }))

	s.addTool(mcp.NewTool("add_bump",
		mcp.WithDescription("Push the middle of an edge out of the building."),
		planArg(), edgeArg(),
	), s.edgeOp(func(sess *editor.Session, e int) error { return sess.AddBump(e) }))

	s.addTool(mcp.NewTool("apply_template",
		mcp.WithDescription("Replace the outline with a predefined shape."),
		planArg(),
		mcp.WithString("name", mcp.Required(), mcp.Enum(outline.TemplateNames()...), mcp.Description("Template name")),
	), s.applyTemplate)

	s.addTool(mcp.NewTool("set_wall_height",
		mcp.WithDescription("Set the wall height used by 3D exports."),
		planArg(),
		mcp.WithNumber("height", mcp.Required(), mcp.Description("Height in feet")),
	), s.setWallHeight)

	s.addTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last outline or item edit."),
		planArg(),
	), s.historyOp(func(sess *editor.Session) (bool, error) { return sess.Undo() }))

	s.addTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone edit."),
		planArg(),
	), s.historyOp(func(sess *editor.Session) (bool, error) { return sess.Redo() }))

	s.addTool(mcp.NewTool("save_plan",
		mcp.WithDescription("Save the plan and wait for the write to finish."),
		planArg(),
	), s.savePlan)

	s.addTool(mcp.NewTool("render_plan",
		mcp.WithDescription("Export the plan. png returns an image; the other formats return text."),
		planArg(),
		mcp.WithString("format", mcp.Required(), mcp.Enum(export.Names()...), mcp.Description("Export format")),
	), s.renderPlan)

	s.mcp.AddResource(
		mcp.NewResource(catalogURI, "Equipment Catalog",
			mcp.WithResourceDescription("Placeable racking, doors, zones, equipment and pallets."),
			mcp.WithMIMEType("application/json"),
		),
		s.readCatalogResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(rulesURI, "Layout Rules",
			mcp.WithResourceDescription("Units, coordinates and placement rules for plan edits."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRulesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

// edit applies fn and reports the plan. Refused edits come back as tool
// errors carrying the notice.
func (s *Server) edit(ctx context.Context, req mcp.CallToolRequest, fn func(*editor.Session) error) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	view, err := s.svc.Apply(ctx, id, fn)
	if err != nil {
		if (errors.Is(err, apperr.ErrBlocked) || errors.Is(err, apperr.ErrBusy)) && view.Notice != "" {
			return mcp.NewToolResultError(view.Notice), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(view), nil
}

func (s *Server) catalogGroups() map[catalog.Category][]catalog.Entry {
	cur := s.catalog.Current()
	out := make(map[catalog.Category][]catalog.Entry)
	for _, c := range catalog.Categories {
		if es := cur.ByCategory(c); len(es) > 0 {
			out[c] = es
		}
	}
	return out
}

func (s *Server) listCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.catalogGroups()), nil
}

func (s *Server) listPlans(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := s.svc.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(plans) == 0 {
		return mcp.NewToolResultText("no saved plans"), nil
	}
	return jsonResult(plans), nil
}

func (s *Server) getPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	view, err := s.svc.View(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(view), nil
}

func (s *Server) getLayoutRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LayoutRules), nil
}

func (s *Server) placeItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entryID, err := req.RequireString("entry_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := req.RequireFloat("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := req.RequireFloat("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var placed editor.Placement
	res, err := s.edit(ctx, req, func(sess *editor.Session) error {
		if err := sess.BeginDrag(entryID); err != nil {
			return err
		}
		if _, err := sess.UpdateDrag(x, y); err != nil {
			sess.CancelDrag()
			return err
		}
		var ok bool
		placed, ok = sess.CommitDrag()
		if !ok {
			return errRefusedDrop
		}
		return nil
	})
	if err != nil || res.IsError {
		return res, err
	}
	return jsonResult(placed), nil
}

var errRefusedDrop = errors.New("the item does not fit there: it must stay inside the outline without overlapping other items, and doors and windows must be near a wall")

func (s *Server) moveItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("instance_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := req.RequireFloat("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := req.RequireFloat("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(ctx, req, func(sess *editor.Session) error { return sess.Move(id, x, y) })
}

func (s *Server) itemOp(fn func(*editor.Session, string) error) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("instance_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return s.edit(ctx, req, func(sess *editor.Session) error { return fn(sess, id) })
	}
}

func (s *Server) edgeOp(fn func(*editor.Session, int) error) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		e, err := req.RequireInt("edge")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return s.edit(ctx, req, func(sess *editor.Session) error { return fn(sess, e) })
	}
}

func (s *Server) historyOp(fn func(*editor.Session) (bool, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.edit(ctx, req, func(sess *editor.Session) error {
			_, err := fn(sess)
			return err
		})
	}
}

func (s *Server) deleteOpening(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("opening_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(ctx, req, func(sess *editor.Session) error { return sess.DeleteOpening(id) })
}

func pointArgs(req mcp.CallToolRequest) (floorplan.Vertex, error) {
	x, err := req.RequireFloat("x")
	if err != nil {
		return floorplan.Vertex{}, err
	}
	y, err := req.RequireFloat("y")
	if err != nil {
		return floorplan.Vertex{}, err
	}
	return floorplan.Vertex{X: x, Y: y}, nil
}

func (s *Server) moveVertex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	i, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := pointArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(ctx, req, func(sess *editor.Session) error { return sess.MoveVertex(i, p) })
}

func (s *Server) insertVertex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, err := req.RequireInt("edge")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := pointArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(ctx, req, func(sess *editor.Session) error { return sess.InsertVertex(e, p) })
}

func (s *Server) deleteVertex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	i, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(ctx, req, func(sess *editor.Session) error { return sess.DeleteVertex(i) })
}

func (s *Server) resizeEdge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, err := req.RequireInt("edge")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	l, err := req.RequireFloat("length")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(ctx, req, func(sess *editor.Session) error { return sess.ResizeEdge(e, l) })
}

func (s *Server) applyTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(ctx, req, func(sess *editor.Session) error { return sess.ApplyTemplate(name) })
}

func (s *Server) setWallHeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, err := req.RequireFloat("height")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.edit(ctx, req, func(sess *editor.Session) error { return sess.SetWallHeight(h) })
}

func (s *Server) savePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Save(ctx, id, true)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved %s revision %s", id, res.Document.Revision)), nil
}

func (s *Server) renderPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scene, err := s.svc.Scene(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	f, err := export.Write(&buf, name, scene, export.Options{Title: id})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.HasPrefix(f.ContentType, "image/png") {
		return mcp.NewToolResultImage(id+f.Ext, base64.StdEncoding.EncodeToString(buf.Bytes()), f.ContentType), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) readCatalogResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.MarshalIndent(s.catalogGroups(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      catalogURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func (s *Server) readRulesResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      rulesURI,
			MIMEType: "text/markdown",
			Text:     LayoutRules,
		},
	}, nil
}

package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/persistence"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/planservice"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	adapter := testutil.FileAdapter(t)
	saver := persistence.NewSaver(adapter, time.Second, nil)
	t.Cleanup(saver.Close)

	cat := catalog.NewStore(catalog.Default())
	svc := planservice.NewService(cat, adapter, saver, planservice.WithIDGenerator(testutil.IDs("id")))
	return New(svc, cat, "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	handler, ok := srv.tools[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func planOf(t *testing.T, r *mcp.CallToolResult) planservice.PlanView {
	t.Helper()
	if r.IsError {
		t.Fatalf("tool error: %s", resultText(r))
	}
	var v planservice.PlanView
	if err := json.Unmarshal([]byte(resultText(r)), &v); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	return v
}

func TestPlaceAndSave(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "place_item", map[string]interface{}{
		"plan_id": "dock-a", "entry_id": "selective-rack", "x": 2.0, "y": 2.0,
	})
	if r.IsError || !strings.Contains(resultText(r), `"instanceId": "id-1"`) {
		t.Fatalf("place = %s", resultText(r))
	}

	v := planOf(t, callTool(t, srv, "get_plan", map[string]interface{}{"plan_id": "dock-a"}))
	if v.Metrics.PalletCapacity != 6 || len(v.State.Items) != 1 {
		t.Errorf("plan metrics = %+v", v.Metrics)
	}

	r = callTool(t, srv, "save_plan", map[string]interface{}{"plan_id": "dock-a"})
	if r.IsError || !strings.HasPrefix(resultText(r), "saved dock-a revision ") {
		t.Errorf("save = %s", resultText(r))
	}
	r = callTool(t, srv, "list_plans", map[string]interface{}{})
	if !strings.Contains(resultText(r), `"planId": "dock-a"`) {
		t.Errorf("list = %s", resultText(r))
	}
}

func TestPlaceOutsideIsRefused(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "place_item", map[string]interface{}{
		"plan_id": "p", "entry_id": "selective-rack", "x": 36.0, "y": 2.0,
	})
	if !r.IsError || !strings.Contains(resultText(r), "does not fit") {
		t.Errorf("place = %s", resultText(r))
	}
	v := planOf(t, callTool(t, srv, "get_plan", map[string]interface{}{"plan_id": "p"}))
	if v.Mode != "idle" || len(v.State.Items) != 0 {
		t.Errorf("plan after refused drop = %+v", v)
	}
}

func TestBlockedEditReportsNotice(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "delete_vertex", map[string]interface{}{"plan_id": "p", "index": 0.0})
	r := callTool(t, srv, "delete_vertex", map[string]interface{}{"plan_id": "p", "index": 0.0})
	if !r.IsError || !strings.Contains(resultText(r), "at least 3") {
		t.Errorf("delete = %s", resultText(r))
	}
}

func TestEdgeToolsAndUndo(t *testing.T) {
	srv := testServer(t)
	v := planOf(t, callTool(t, srv, "add_indent", map[string]interface{}{"plan_id": "p", "edge": 0.0}))
	if len(v.State.Vertices) != 8 || v.Metrics.TotalArea >= 1000 {
		t.Fatalf("after indent vertices = %d area = %v", len(v.State.Vertices), v.Metrics.TotalArea)
	}
	v = planOf(t, callTool(t, srv, "undo", map[string]interface{}{"plan_id": "p"}))
	if len(v.State.Vertices) != 4 || !v.CanRedo {
		t.Errorf("after undo = %+v", v.State.Vertices)
	}
	v = planOf(t, callTool(t, srv, "resize_edge", map[string]interface{}{"plan_id": "p", "edge": 1.0, "length": 30.0}))
	if v.Metrics.TotalArea != 1100 {
		t.Errorf("area after resize = %v, want 1100", v.Metrics.TotalArea)
	}
}

func TestRenderPlan(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "render_plan", map[string]interface{}{"plan_id": "p", "format": "report"})
	if r.IsError || !strings.Contains(resultText(r), "Total area") {
		t.Errorf("report = %s", resultText(r))
	}
	r = callTool(t, srv, "render_plan", map[string]interface{}{"plan_id": "p", "format": "png"})
	if r.IsError || len(r.Content) < 2 {
		t.Fatalf("png result = %+v", r)
	}
	if img, ok := r.Content[1].(mcp.ImageContent); !ok || img.MIMEType != "image/png" || img.Data == "" {
		t.Errorf("png content = %#v", r.Content[1])
	}
	r = callTool(t, srv, "render_plan", map[string]interface{}{"plan_id": "p", "format": "dwg"})
	if !r.IsError {
		t.Error("unknown format accepted")
	}
}

func TestMissingArguments(t *testing.T) {
	srv := testServer(t)
	if r := callTool(t, srv, "rotate_item", map[string]interface{}{"plan_id": "p"}); !r.IsError {
		t.Error("rotate without instance_id accepted")
	}
	if r := callTool(t, srv, "rotate_item", map[string]interface{}{"plan_id": "p", "instance_id": "nope"}); !r.IsError {
		t.Error("rotate of unknown item accepted")
	}
}

func TestCatalogResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readCatalogResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, "selective-rack") || !strings.Contains(text, "dock-door") {
		t.Errorf("catalog resource missing entries")
	}
	if r := callTool(t, srv, "get_layout_rules", nil); resultText(r) != LayoutRules {
		t.Error("layout rules mismatch")
	}
}

func TestOutlineEditsLeaveItemsWhereTheyAre(t *testing.T) {
	srv := testServer(t)
	placeItem := callTool(t, srv, "place_item", map[string]interface{}{
		"plan_id": "p", "entry_id": "selective-rack", "x": 30.0, "y": 18.0,
	})
	if placeItem.IsError {
		t.Fatalf("place = %s", resultText(placeItem))
	}

	v := planOf(t, callTool(t, srv, "move_vertex", map[string]interface{}{
		"plan_id": "p", "index": 2.0, "x": 20.0, "y": 10.0,
	}))
	if v.Notice != "" {
		t.Errorf("notice = %q, want none", v.Notice)
	}
	if len(v.State.Items) != 1 || v.State.Items[0].X != 30 {
		t.Errorf("items = %+v", v.State.Items)
	}
	if !strings.Contains(LayoutRules, "Outline edits never look at placed items") {
		t.Error("layout rules do not describe outline edits")
	}
}

func TestNoticeOnlyOnTheRefusedEdit(t *testing.T) {
	srv := testServer(t)
	for i := 0; i < 2; i++ {
		callTool(t, srv, "delete_vertex", map[string]interface{}{"plan_id": "p", "index": 0.0})
	}
	v := planOf(t, callTool(t, srv, "undo", map[string]interface{}{"plan_id": "p"}))
	if v.Notice != "" {
		t.Errorf("notice after undo = %q, want none", v.Notice)
	}
	if len(v.State.Vertices) != 4 {
		t.Errorf("vertices = %d, want 4", len(v.State.Vertices))
	}
}

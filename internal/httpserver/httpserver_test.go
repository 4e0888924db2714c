package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/tallman/dashboard-tools/internal/config"
	"github.com/tallman/dashboard-tools/internal/server"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "por.db")
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := dbh.Exec(`CREATE TABLE rentals (id INTEGER PRIMARY KEY, amount REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for i := 1; i <= 20; i++ {
		if _, err := dbh.Exec(`INSERT INTO rentals VALUES (?, ?)`, i, float64(i)*2); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := dbh.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	old := os.Getenv(config.EnvPORPath)
	os.Setenv(config.EnvPORPath, path)
	t.Cleanup(func() { os.Setenv(config.EnvPORPath, old) })

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	gw := server.NewGateway(cfg)
	t.Cleanup(func() { gw.Close() })
	return New(gw)
}

func postTool(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/call_tool", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, out
}

func TestCallTool_executeSQL(t *testing.T) {
	h := newTestHandler(t)
	rec, out := postTool(t, h,
		`{"name": "execute_sql", "arguments": {"connection_id": "por", "sql_query": "SELECT id FROM rentals ORDER BY id", "limit": 5}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if out["success"] != true {
		t.Fatalf("expected success: %v", out)
	}
	// The dashboard reads these fields from the body root.
	if out["row_count"] != float64(5) || out["limited"] != true {
		t.Errorf("unexpected body: %v", out)
	}
	if len(out["columns"].([]any)) != 1 || len(out["data"].([]any)) != 5 {
		t.Errorf("unexpected columns/data: %v", out)
	}
	if !strings.Contains(out["query"].(string), "SELECT id FROM rentals") {
		t.Errorf("query not echoed: %v", out["query"])
	}
}

func TestCallTool_rejectsWrites(t *testing.T) {
	h := newTestHandler(t)
	rec, out := postTool(t, h,
		`{"name": "execute_sql", "arguments": {"connection_id": "por", "sql_query": "DROP TABLE rentals"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("tool errors must be 200, got %d", rec.Code)
	}
	if out["success"] != false || out["error"] == "" {
		t.Errorf("expected success=false with error, got %v", out)
	}
}

func TestCallTool_readTableColumn(t *testing.T) {
	h := newTestHandler(t)
	rec, out := postTool(t, h,
		`{"name": "read_table_column", "arguments": {"connection_id": "por", "table_name": "rentals", "column_name": "amount", "where_clause": "id <= 3"}}`)
	if rec.Code != http.StatusOK || out["success"] != true {
		t.Fatalf("unexpected response %d: %v", rec.Code, out)
	}
	if out["table"] != "rentals" || out["column"] != "amount" || out["row_count"] != float64(3) {
		t.Errorf("unexpected body: %v", out)
	}
	if data := out["data"].([]any); len(data) != 3 || data[0] != float64(2) {
		t.Errorf("unexpected data: %v", out["data"])
	}
}

func TestCallTool_dataDictionary(t *testing.T) {
	h := newTestHandler(t)
	rec, out := postTool(t, h,
		`{"name": "get_data_dictionary", "arguments": {"connection_id": "por", "table_pattern": "rent%"}}`)
	if rec.Code != http.StatusOK || out["success"] != true {
		t.Fatalf("unexpected response %d: %v", rec.Code, out)
	}
	if out["table_count"] != float64(1) {
		t.Errorf("unexpected table_count: %v", out)
	}
	tables := out["tables"].(map[string]any)
	if cols := tables["rentals"].([]any); len(cols) != 2 {
		t.Errorf("expected 2 rentals columns, got %v", cols)
	}
}

func TestCallTool_unknownTool(t *testing.T) {
	h := newTestHandler(t)
	rec, out := postTool(t, h, `{"name": "drop_everything", "arguments": {}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown tool must be 200, got %d", rec.Code)
	}
	if out["success"] != false || !strings.Contains(out["error"].(string), "unknown tool") {
		t.Errorf("unexpected response: %v", out)
	}
}

func TestCallTool_defaultConnection(t *testing.T) {
	// A request without connection_id targets the p21 default. The test
	// config has no p21 connection, so this surfaces as a tool error, not
	// a validation error about a missing field.
	h := newTestHandler(t)
	rec, out := postTool(t, h,
		`{"name": "execute_sql", "arguments": {"sql_query": "SELECT 1"}}`)
	if rec.Code != http.StatusOK || out["success"] != false {
		t.Fatalf("unexpected response %d: %v", rec.Code, out)
	}
	if !strings.Contains(out["error"].(string), "p21") {
		t.Errorf("expected the p21 default to be attempted: %v", out)
	}
}

func TestCallTool_malformedBody(t *testing.T) {
	h := newTestHandler(t)
	rec, out := postTool(t, h, `{"name": "execute_sql", "arguments"`)
	if rec.Code != http.StatusOK || out["success"] != false {
		t.Errorf("malformed body: %d %v", rec.Code, out)
	}
}

func TestCallTool_corsAndOptions(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodOptions, "/call_tool", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("OPTIONS status %d, want 200", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
}

func TestCallTool_otherPaths404(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
}

func TestCallTool_getNotAllowed(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/call_tool", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if out["success"] != false {
		t.Errorf("GET should fail as a tool error: %v", out)
	}
}

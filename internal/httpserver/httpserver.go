// Package httpserver exposes the SQL gateway tools over a single HTTP
// endpoint for dashboard frontends that cannot speak MCP.
package httpserver

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/tallman/dashboard-tools/internal/server"
)

// Handler serves POST /call_tool over a gateway.
type Handler struct {
	gw *server.Gateway
}

// New returns the HTTP handler for the gateway.
func New(gw *server.Gateway) *Handler {
	return &Handler{gw: gw}
}

// callRequest is the envelope posted by the dashboard:
// {"name": "...", "arguments": {...}}.
type callRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type executeSQLArgs struct {
	ConnectionID string `json:"connection_id"`
	SQLQuery     string `json:"sql_query"`
	Limit        int    `json:"limit"`
}

type readColumnArgs struct {
	ConnectionID string `json:"connection_id"`
	TableName    string `json:"table_name"`
	ColumnName   string `json:"column_name"`
	WhereClause  string `json:"where_clause"`
	Limit        int    `json:"limit"`
}

type dataDictionaryArgs struct {
	ConnectionID string `json:"connection_id"`
	TablePattern string `json:"table_pattern"`
}

// defaultConnection keeps the wire protocol compatible with the previous
// single-database servers, whose requests carried no connection field.
const defaultConnection = "p21"

func orDefault(id string) string {
	if id == "" {
		return defaultConnection
	}
	return id
}

// ServeHTTP implements http.Handler. Tool failures are ordinary 200
// responses with success=false; only a handler panic produces a 500.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("call_tool panic: %v", rec)
			writeJSON(w, http.StatusInternalServerError,
				map[string]any{"success": false, "error": "internal server error"})
		}
	}()

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.URL.Path != "/call_tool" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed: use POST")
		return
	}

	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid JSON body: "+err.Error())
		return
	}

	ctx := r.Context()
	switch req.Name {
	case "execute_sql":
		var args executeSQLArgs
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			writeError(w, "invalid arguments: "+err.Error())
			return
		}
		res, err := h.gw.ExecuteSQL(ctx, orDefault(args.ConnectionID), args.SQLQuery, args.Limit)
		if err != nil {
			writeError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"row_count": res.RowCount,
			"columns":   res.Columns,
			"data":      res.Rows,
			"query":     args.SQLQuery,
			"limited":   res.Limited,
		})

	case "read_table_column":
		var args readColumnArgs
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			writeError(w, "invalid arguments: "+err.Error())
			return
		}
		res, err := h.gw.ReadTableColumn(ctx, orDefault(args.ConnectionID), args.TableName, args.ColumnName, args.WhereClause, args.Limit)
		if err != nil {
			writeError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
			server.ReadTableColumnOutput
		}{true, server.NewReadTableColumnOutput(args.TableName, args.ColumnName, args.WhereClause, res)})

	case "get_data_dictionary":
		var args dataDictionaryArgs
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			writeError(w, "invalid arguments: "+err.Error())
			return
		}
		cols, err := h.gw.GetDataDictionary(ctx, orDefault(args.ConnectionID), args.TablePattern)
		if err != nil {
			writeError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
			server.DataDictionaryOutput
		}{true, server.NewDataDictionaryOutput(cols)})

	default:
		writeError(w, "unknown tool: "+req.Name)
	}
}

func writeError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

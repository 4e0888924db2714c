// Package server builds the MCP server over the read-only SQL gateway and
// registers its tools.
package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tallman/dashboard-tools/internal/config"
	"github.com/tallman/dashboard-tools/internal/db"
)

const (
	ServerName    = "dashboard-sql-gateway"
	ServerVersion = "1.0.0"
)

// New returns an MCP server with all gateway tools registered. gw may be
// nil (only ping works without a gateway); pass a configured gateway for
// the database tools.
func New(gw *Gateway) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "ping",
		Description: "Simple health check. Returns pong.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, PingOutput, error) {
		return nil, PingOutput{Message: "pong"}, nil
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_connections",
		Description: "List configured database connection IDs and their types. No credentials in response.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, ListConnectionsOutput, error) {
		out := ListConnectionsOutput{}
		if gw != nil {
			out.Connections = gw.ListConnections()
		}
		return nil, out, nil
	})

	if gw == nil {
		return s
	}

	mcp.AddTool(s, &mcp.Tool{
		Name:        "execute_sql",
		Description: "Run a read-only SQL query (SELECT only). Rejects INSERT/UPDATE/DELETE/DDL. Results are capped; a truncated result carries limited=true.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ExecuteSQLInput) (*mcp.CallToolResult, ExecuteSQLOutput, error) {
		res, err := gw.ExecuteSQL(ctx, in.ConnectionID, in.SQLQuery, in.Limit)
		if err != nil {
			return nil, ExecuteSQLOutput{}, err
		}
		return nil, ExecuteSQLOutput{
			Columns:  res.Columns,
			Rows:     res.Rows,
			RowCount: res.RowCount,
			Limited:  res.Limited,
			Query:    in.SQLQuery,
		}, nil
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "read_table_column",
		Description: "Read a single column from a table, optionally filtered by a WHERE clause.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ReadTableColumnInput) (*mcp.CallToolResult, ReadTableColumnOutput, error) {
		res, err := gw.ReadTableColumn(ctx, in.ConnectionID, in.TableName, in.ColumnName, in.WhereClause, in.Limit)
		if err != nil {
			return nil, ReadTableColumnOutput{}, err
		}
		return nil, NewReadTableColumnOutput(in.TableName, in.ColumnName, in.WhereClause, res), nil
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_data_dictionary",
		Description: "Column metadata (table, column, type, nullable) for tables matching a SQL LIKE pattern. Empty pattern matches all tables.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in DataDictionaryInput) (*mcp.CallToolResult, DataDictionaryOutput, error) {
		cols, err := gw.GetDataDictionary(ctx, in.ConnectionID, in.TablePattern)
		if err != nil {
			return nil, DataDictionaryOutput{}, err
		}
		return nil, NewDataDictionaryOutput(cols), nil
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_tables",
		Description: "List base table names in a connection.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ListTablesInput) (*mcp.CallToolResult, ListTablesOutput, error) {
		tables, err := gw.ListTables(ctx, in.ConnectionID)
		if err != nil {
			return nil, ListTablesOutput{}, err
		}
		return nil, ListTablesOutput{Tables: tables, Count: len(tables)}, nil
	})

	return s
}

// PingOutput is the structured result of the ping tool.
type PingOutput struct {
	Message string `json:"message"`
}

// ListConnectionsOutput is the result of list_connections.
type ListConnectionsOutput struct {
	Connections []config.ConnectionInfo `json:"connections"`
}

// ExecuteSQLInput is the input for execute_sql.
type ExecuteSQLInput struct {
	ConnectionID string `json:"connection_id"`
	SQLQuery     string `json:"sql_query"`
	Limit        int    `json:"limit,omitempty"`
}

// ExecuteSQLOutput is the result of execute_sql.
type ExecuteSQLOutput struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	Limited  bool             `json:"limited"`
	Query    string           `json:"query"`
}

// ReadTableColumnOutput is the result of read_table_column.
type ReadTableColumnOutput struct {
	Table    string `json:"table"`
	Column   string `json:"column"`
	RowCount int    `json:"row_count"`
	Data     []any  `json:"data"`
	Query    string `json:"query"`
}

// NewReadTableColumnOutput shapes a single-column result for the wire:
// rows flatten to a bare value list and the effective query is echoed.
func NewReadTableColumnOutput(table, column, where string, res *db.QueryResult) ReadTableColumnOutput {
	data := make([]any, 0, res.RowCount)
	for _, row := range res.Rows {
		data = append(data, row[res.Columns[0]])
	}
	query := "SELECT " + column + " FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	return ReadTableColumnOutput{
		Table:    table,
		Column:   column,
		RowCount: res.RowCount,
		Data:     data,
		Query:    query,
	}
}

// ReadTableColumnInput is the input for read_table_column.
type ReadTableColumnInput struct {
	ConnectionID string `json:"connection_id"`
	TableName    string `json:"table_name"`
	ColumnName   string `json:"column_name"`
	WhereClause  string `json:"where_clause,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// DataDictionaryInput is the input for get_data_dictionary.
type DataDictionaryInput struct {
	ConnectionID string `json:"connection_id"`
	TablePattern string `json:"table_pattern,omitempty"`
}

// DataDictionaryOutput is the result of get_data_dictionary, grouped by
// table name.
type DataDictionaryOutput struct {
	TableCount int                        `json:"table_count"`
	Tables     map[string][]db.ColumnInfo `json:"tables"`
}

// NewDataDictionaryOutput groups flat column metadata by table name.
func NewDataDictionaryOutput(cols []db.ColumnInfo) DataDictionaryOutput {
	tables := make(map[string][]db.ColumnInfo)
	for _, c := range cols {
		tables[c.Table] = append(tables[c.Table], c)
	}
	return DataDictionaryOutput{TableCount: len(tables), Tables: tables}
}

// ListTablesInput is the input for list_tables.
type ListTablesInput struct {
	ConnectionID string `json:"connection_id"`
}

// ListTablesOutput is the result of list_tables.
type ListTablesOutput struct {
	Tables []string `json:"tables"`
	Count  int      `json:"count"`
}

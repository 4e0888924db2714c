package server

import (
	"context"
	"fmt"

	"github.com/tallman/dashboard-tools/internal/config"
	"github.com/tallman/dashboard-tools/internal/db"
)

// Default row caps applied when the caller does not ask for a specific
// limit. Free-form queries get a generous cap; single-column reads a tight
// one.
const (
	DefaultQueryLimit  = 1000
	DefaultColumnLimit = 100
)

// Gateway implements the read-only tool operations shared by the MCP and
// HTTP surfaces. All database access funnels through here so both surfaces
// apply the same validation and the same stale-connection recovery.
type Gateway struct {
	cfg *config.Config
	mgr *db.Manager
}

// NewGateway returns a gateway over the configured connections.
func NewGateway(cfg *config.Config) *Gateway {
	return &Gateway{cfg: cfg, mgr: db.NewManager(cfg)}
}

// Close releases all cached database connections.
func (g *Gateway) Close() error {
	return g.mgr.Close()
}

// ListConnections returns the configured connection IDs and types, never
// credentials.
func (g *Gateway) ListConnections() []config.ConnectionInfo {
	return g.cfg.ConnectionInfos()
}

// driver returns a live driver for the connection. A cached driver that no
// longer answers a ping is discarded and dialed fresh, so a dropped ERP
// session heals on the next tool call.
func (g *Gateway) driver(ctx context.Context, connectionID string) (db.Driver, error) {
	d, err := g.mgr.Driver(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(ctx); err != nil {
		g.mgr.Invalidate(connectionID)
		return g.mgr.Driver(ctx, connectionID)
	}
	return d, nil
}

// ExecuteSQL validates the statement as a plain SELECT and runs it against
// the named connection with the given row cap (DefaultQueryLimit when <= 0).
func (g *Gateway) ExecuteSQL(ctx context.Context, connectionID, sqlQuery string, limit int) (*db.QueryResult, error) {
	if connectionID == "" {
		return nil, fmt.Errorf("connection_id is required")
	}
	if sqlQuery == "" {
		return nil, fmt.Errorf("sql_query is required")
	}
	if err := ValidateSelectOnly(sqlQuery); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	d, err := g.driver(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return d.Query(ctx, sqlQuery, limit)
}

// ReadTableColumn selects one column from a table, optionally filtered. The
// filter clause goes through the same read-only validation as a full query.
func (g *Gateway) ReadTableColumn(ctx context.Context, connectionID, table, column, where string, limit int) (*db.QueryResult, error) {
	if connectionID == "" {
		return nil, fmt.Errorf("connection_id is required")
	}
	if table == "" {
		return nil, fmt.Errorf("table_name is required")
	}
	if column == "" {
		return nil, fmt.Errorf("column_name is required")
	}
	if where != "" {
		if err := ValidateSelectOnly("SELECT 1 WHERE " + where); err != nil {
			return nil, fmt.Errorf("where_clause: %w", err)
		}
	}
	if limit <= 0 {
		limit = DefaultColumnLimit
	}
	d, err := g.driver(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return d.ReadColumn(ctx, table, column, where, limit)
}

// GetDataDictionary returns column metadata for tables matching the SQL
// LIKE pattern (all tables when empty).
func (g *Gateway) GetDataDictionary(ctx context.Context, connectionID, pattern string) ([]db.ColumnInfo, error) {
	if connectionID == "" {
		return nil, fmt.Errorf("connection_id is required")
	}
	d, err := g.driver(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return d.DataDictionary(ctx, pattern)
}

// ListTables returns all base table names in the connection.
func (g *Gateway) ListTables(ctx context.Context, connectionID string) ([]string, error) {
	if connectionID == "" {
		return nil, fmt.Errorf("connection_id is required")
	}
	d, err := g.driver(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return d.ListTables(ctx)
}

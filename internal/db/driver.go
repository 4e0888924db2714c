// Package db provides the read-only database driver abstraction and
// connection management for the dashboard gateway. Backends cover the
// SQL Server order system, the file-backed rental database, and the
// Postgres/MySQL mirrors used in staging.
package db

import (
	"context"
	"database/sql"
)

// Driver is the read-only interface exposed to gateway tools. The gateway
// never writes; there are deliberately no insert or update operations.
type Driver interface {
	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error
	// ListTables returns all base table names.
	ListTables(ctx context.Context) ([]string, error)
	// DataDictionary returns column metadata for every table whose name
	// matches the SQL LIKE pattern. An empty pattern matches all tables.
	DataDictionary(ctx context.Context, pattern string) ([]ColumnInfo, error)
	// Query runs a SELECT statement (caller must validate it is read-only)
	// and returns at most limit rows. limit <= 0 means no cap.
	Query(ctx context.Context, query string, limit int) (*QueryResult, error)
	// ReadColumn selects a single column from a table, optionally filtered
	// by a raw WHERE clause (caller must validate it).
	ReadColumn(ctx context.Context, table, column, where string, limit int) (*QueryResult, error)
	// Close releases the connection. Caller should call once when done.
	Close() error
}

// ColumnInfo describes one column in the data dictionary.
type ColumnInfo struct {
	Table    string `json:"table"`
	Name     string `json:"column"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// QueryResult is the JSON-ready result of a read-only query. Rows hold
// converted values only (see convertValue); Limited reports whether the
// result filled the row cap, so callers know more rows may exist.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	Limited  bool             `json:"limited"`
}

// scanRows drains up to limit rows from a database/sql result set into a
// QueryResult. A result that fills the cap is marked Limited and the rest
// of the set is discarded.
func scanRows(rows *sql.Rows, limit int) (*QueryResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &QueryResult{Columns: cols, Rows: []map[string]any{}}
	scan := make([]any, len(cols))
	for i := range scan {
		scan[i] = new(any)
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(cols))
		for i, c := range cols {
			m[c] = convertValue(*(scan[i].(*any)))
		}
		res.Rows = append(res.Rows, m)
		if limit > 0 && len(res.Rows) == limit {
			res.Limited = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	res.RowCount = len(res.Rows)
	return res, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteDriver implements Driver for SQLite using modernc.org/sqlite (pure
// Go, no CGO). This is the backend for the file-based rental database.
type SQLiteDriver struct {
	db *sql.DB
}

// NewSQLiteDriver opens a SQLite database at the given path (or URI such
// as "file:path?mode=ro").
func NewSQLiteDriver(ctx context.Context, uri string) (*SQLiteDriver, error) {
	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(maxPoolConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return &SQLiteDriver{db: db}, nil
}

// Ping implements Driver.
func (d *SQLiteDriver) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// ListTables implements Driver.
func (d *SQLiteDriver) ListTables(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DataDictionary implements Driver. SQLite has no information schema, so
// tables are matched against sqlite_master and described via table_info.
func (d *SQLiteDriver) DataDictionary(ctx context.Context, pattern string) ([]ColumnInfo, error) {
	if pattern == "" {
		pattern = "%"
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name LIKE ?1 ORDER BY name`,
		pattern)
	if err != nil {
		return nil, err
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var cols []ColumnInfo
	for _, table := range tables {
		tcols, err := d.tableColumns(ctx, table)
		if err != nil {
			return nil, err
		}
		cols = append(cols, tcols...)
	}
	return cols, nil
}

func (d *SQLiteDriver) tableColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	// table_info returns: cid, name, type, notnull, dflt_value, pk
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLiteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var cid int
		var name, colType string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, ColumnInfo{
			Table:    table,
			Name:     name,
			Type:     colType,
			Nullable: notnull == 0,
		})
	}
	return cols, rows.Err()
}

// Query implements Driver.
func (d *SQLiteDriver) Query(ctx context.Context, query string, limit int) (*QueryResult, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows, limit)
}

// ReadColumn implements Driver.
func (d *SQLiteDriver) ReadColumn(ctx context.Context, table, column, where string, limit int) (*QueryResult, error) {
	query := fmt.Sprintf("SELECT %s FROM %s",
		quoteSQLiteIdentifier(column), quoteSQLiteIdentifier(table))
	if where != "" {
		query += " WHERE " + where
	}
	return d.Query(ctx, query, limit)
}

var sqliteIdentReplacer = strings.NewReplacer(`"`, `""`)

func quoteSQLiteIdentifier(name string) string {
	return `"` + sqliteIdentReplacer.Replace(name) + `"`
}

// Close implements Driver.
func (d *SQLiteDriver) Close() error {
	return d.db.Close()
}

var _ Driver = (*SQLiteDriver)(nil)

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresDriver implements Driver for PostgreSQL using pgx. Used for the
// staging mirror of the order database.
type PostgresDriver struct {
	conn *pgx.Conn
}

// NewPostgresDriver connects to PostgreSQL using the given URI.
func NewPostgresDriver(ctx context.Context, uri string) (*PostgresDriver, error) {
	conn, err := pgx.Connect(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	return &PostgresDriver{conn: conn}, nil
}

// Ping implements Driver.
func (d *PostgresDriver) Ping(ctx context.Context) error {
	return d.conn.Ping(ctx)
}

// ListTables implements Driver.
func (d *PostgresDriver) ListTables(ctx context.Context) ([]string, error) {
	rows, err := d.conn.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		 ORDER BY table_name`)
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

// DataDictionary implements Driver.
func (d *PostgresDriver) DataDictionary(ctx context.Context, pattern string) ([]ColumnInfo, error) {
	if pattern == "" {
		pattern = "%"
	}
	rows, err := d.conn.Query(ctx, `
		SELECT c.table_name, c.column_name, c.data_type, c.is_nullable = 'YES'
		FROM information_schema.columns c
		WHERE c.table_schema = 'public' AND c.table_name LIKE $1
		ORDER BY c.table_name, c.ordinal_position`,
		pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		if err := rows.Scan(&c.Table, &c.Name, &c.Type, &c.Nullable); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// Query implements Driver.
func (d *PostgresDriver) Query(ctx context.Context, query string, limit int) (*QueryResult, error) {
	rows, err := d.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgxRowsToResult(rows, limit)
}

func pgxRowsToResult(rows pgx.Rows, limit int) (*QueryResult, error) {
	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = string(f.Name)
		if cols[i] == "" {
			cols[i] = fmt.Sprintf("column_%d", i+1)
		}
	}
	res := &QueryResult{Columns: cols, Rows: []map[string]any{}}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, len(cols))
		for i, c := range cols {
			m[c] = convertValue(vals[i])
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

// ReadColumn implements Driver.
func (d *PostgresDriver) ReadColumn(ctx context.Context, table, column, where string, limit int) (*QueryResult, error) {
	query := fmt.Sprintf("SELECT %s FROM %s",
		pgx.Identifier{column}.Sanitize(), pgx.Identifier{table}.Sanitize())
	if where != "" {
		query += " WHERE " + where
	}
	return d.Query(ctx, query, limit)
}

// Close implements Driver.
func (d *PostgresDriver) Close() error {
	return d.conn.Close(context.Background())
}

var _ Driver = (*PostgresDriver)(nil)

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDriver implements Driver for MySQL using go-sql-driver/mysql. Used
// for the staging mirror of the web-orders database.
type MySQLDriver struct {
	db *sql.DB
}

// NewMySQLDriver connects to MySQL using the given DSN
// (e.g. "user:password@tcp(localhost:3306)/dbname").
func NewMySQLDriver(ctx context.Context, dsn string) (*MySQLDriver, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	db.SetMaxOpenConns(maxPoolConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return &MySQLDriver{db: db}, nil
}

// Ping implements Driver.
func (d *MySQLDriver) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// ListTables implements Driver. Uses the current database from the DSN.
func (d *MySQLDriver) ListTables(ctx context.Context) ([]string, error) {
	query := `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME`
	rows, err := d.db.QueryContext(ctx, query)
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
func (d *MySQLDriver) DataDictionary(ctx context.Context, pattern string) ([]ColumnInfo, error) {
	if pattern == "" {
		pattern = "%"
	}
	query := `
	SELECT c.TABLE_NAME, c.COLUMN_NAME, c.DATA_TYPE,
	       CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END
	FROM INFORMATION_SCHEMA.COLUMNS c
	WHERE c.TABLE_SCHEMA = DATABASE() AND c.TABLE_NAME LIKE ?
	ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`
	rows, err := d.db.QueryContext(ctx, query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		var nullable int
		if err := rows.Scan(&c.Table, &c.Name, &c.Type, &nullable); err != nil {
			return nil, err
		}
		c.Nullable = nullable == 1
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// Query implements Driver.
func (d *MySQLDriver) Query(ctx context.Context, query string, limit int) (*QueryResult, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows, limit)
}

// ReadColumn implements Driver.
func (d *MySQLDriver) ReadColumn(ctx context.Context, table, column, where string, limit int) (*QueryResult, error) {
	query := fmt.Sprintf("SELECT %s FROM %s",
		quoteMySQLIdentifier(column), quoteMySQLIdentifier(table))
	if where != "" {
		query += " WHERE " + where
	}
	return d.Query(ctx, query, limit)
}

var mysqlIdentReplacer = strings.NewReplacer("`", "``")

func quoteMySQLIdentifier(name string) string {
	return "`" + mysqlIdentReplacer.Replace(name) + "`"
}

// Close implements Driver.
func (d *MySQLDriver) Close() error {
	return d.db.Close()
}

var _ Driver = (*MySQLDriver)(nil)

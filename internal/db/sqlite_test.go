package db

import (
	"context"
	"fmt"
	"testing"
)

func newTestSQLiteDriver(t *testing.T) *SQLiteDriver {
	t.Helper()
	d, err := NewSQLiteDriver(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDriver: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	_, err = d.db.Exec(`CREATE TABLE rentals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_no TEXT NOT NULL,
		amount REAL,
		opened TEXT
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	for i := 1; i <= 100; i++ {
		_, err = d.db.Exec(`INSERT INTO rentals (contract_no, amount, opened) VALUES (?, ?, ?)`,
			fmt.Sprintf("C-%03d", i), float64(i)*10.5, "2024-07-01")
		if err != nil {
			t.Fatalf("insert row %d: %v", i, err)
		}
	}
	return d
}

func TestSQLite_Ping(t *testing.T) {
	d := newTestSQLiteDriver(t)
	if err := d.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestSQLite_ListTables(t *testing.T) {
	d := newTestSQLiteDriver(t)
	tables, err := d.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	found := false
	for _, name := range tables {
		if name == "rentals" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'rentals' in tables, got %v", tables)
	}
}

func TestSQLite_DataDictionary(t *testing.T) {
	d := newTestSQLiteDriver(t)
	cols, err := d.DataDictionary(context.Background(), "rent%")
	if err != nil {
		t.Fatalf("DataDictionary: %v", err)
	}
	if len(cols) != 4 {
		t.Fatalf("expected 4 columns, got %d: %v", len(cols), cols)
	}
	if cols[0].Table != "rentals" || cols[0].Name != "id" {
		t.Errorf("unexpected first column: %+v", cols[0])
	}
	if cols[1].Name != "contract_no" || cols[1].Nullable {
		t.Errorf("contract_no should be NOT NULL: %+v", cols[1])
	}

	// Pattern that matches nothing.
	none, err := d.DataDictionary(context.Background(), "zzz%")
	if err != nil {
		t.Fatalf("DataDictionary: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no columns, got %v", none)
	}
}

func TestSQLite_Query_limit(t *testing.T) {
	d := newTestSQLiteDriver(t)
	ctx := context.Background()

	// Cap below the row count: truncated and flagged.
	res, err := d.Query(ctx, "SELECT id, contract_no FROM rentals ORDER BY id", 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.RowCount != 5 || len(res.Rows) != 5 {
		t.Errorf("row count %d, want 5", res.RowCount)
	}
	if !res.Limited {
		t.Error("expected limited result")
	}

	// Cap exactly at the row count: flagged, since more rows may exist.
	res, err = d.Query(ctx, "SELECT id FROM rentals", 100)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.RowCount != 100 || !res.Limited {
		t.Errorf("got %d rows limited=%v, want 100 limited", res.RowCount, res.Limited)
	}

	// Cap above the row count: complete and unflagged.
	res, err = d.Query(ctx, "SELECT id FROM rentals", 200)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.RowCount != 100 || res.Limited {
		t.Errorf("got %d rows limited=%v, want 100 rows unlimited", res.RowCount, res.Limited)
	}

	// No cap.
	res, err = d.Query(ctx, "SELECT id FROM rentals", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.RowCount != 100 || res.Limited {
		t.Errorf("uncapped query: got %d rows limited=%v", res.RowCount, res.Limited)
	}
}

func TestSQLite_Query_values(t *testing.T) {
	d := newTestSQLiteDriver(t)
	res, err := d.Query(context.Background(),
		"SELECT id, contract_no, amount FROM rentals WHERE id = 1", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.RowCount != 1 {
		t.Fatalf("expected 1 row, got %d", res.RowCount)
	}
	row := res.Rows[0]
	if row["id"] != int64(1) {
		t.Errorf("id = %v (%T), want int64(1)", row["id"], row["id"])
	}
	if row["contract_no"] != "C-001" {
		t.Errorf("contract_no = %v", row["contract_no"])
	}
	if row["amount"] != 10.5 {
		t.Errorf("amount = %v (%T), want 10.5", row["amount"], row["amount"])
	}
}

func TestSQLite_Query_badSQL(t *testing.T) {
	d := newTestSQLiteDriver(t)
	if _, err := d.Query(context.Background(), "SELECT nope FROM missing", 10); err == nil {
		t.Error("expected error for bad SQL")
	}
}

func TestSQLite_ReadColumn(t *testing.T) {
	d := newTestSQLiteDriver(t)
	ctx := context.Background()

	res, err := d.ReadColumn(ctx, "rentals", "contract_no", "", 3)
	if err != nil {
		t.Fatalf("ReadColumn: %v", err)
	}
	if res.RowCount != 3 || !res.Limited {
		t.Errorf("got %d rows limited=%v, want 3 limited", res.RowCount, res.Limited)
	}
	if len(res.Columns) != 1 || res.Columns[0] != "contract_no" {
		t.Errorf("columns = %v", res.Columns)
	}

	res, err = d.ReadColumn(ctx, "rentals", "amount", "id <= 2", 0)
	if err != nil {
		t.Fatalf("ReadColumn with filter: %v", err)
	}
	if res.RowCount != 2 {
		t.Errorf("filtered read: got %d rows, want 2", res.RowCount)
	}
}

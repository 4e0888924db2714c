// Package patch implements the narrow corrective passes applied to saved
// metric catalogs: each pass selects records by a small predicate (ID
// parity, a substring of variableName, the offset encoded in filterValue),
// rewrites exactly the declared target fields by template substitution, and
// reports how many records changed. Record order and every other field are
// left untouched.
package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tallman/dashboard-tools/internal/catalog"
)

// monthOffsetRe extracts the months-back offset a record encodes in its
// filterValue (e.g. "current_month-11" -> 11). The number is optional in
// rentalOffsetRe because some hand-edited records carry a bare
// "current_month" for the current month.
var (
	monthOffsetRe  = regexp.MustCompile(`current_month-(\d+)`)
	rentalOffsetRe = regexp.MustCompile(`current_month-?(\d+)?`)
)

// monthStart renders the first-of-month expression at a calendar offset.
func monthStart(off int) string {
	return fmt.Sprintf(
		"DATEFROMPARTS(YEAR(DATEADD(month,%d,GETDATE())), MONTH(DATEADD(month,%d,GETDATE())), 1)",
		off, off)
}

func newCustomersSQL(back int) string {
	return fmt.Sprintf(
		"SELECT COUNT(DISTINCT customer_uid) AS new_customers_m%d FROM customer WHERE date_acct_opened IS NOT NULL AND date_acct_opened >= %s AND date_acct_opened < %s;",
		back, monthStart(-back), monthStart(1-back))
}

func prospectsSQL(back int) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) AS prospects FROM customer AS c WHERE CAST(c.date_acct_opened AS date) >= %s AND CAST(c.date_acct_opened AS date) < %s AND NOT EXISTS (SELECT 1 FROM oe_hdr AS h WHERE h.customer_id = c.customer_id);",
		monthStart(-back), monthStart(1-back))
}

// CustomerMetrics recomputes the customer-metrics SQL from each record's
// encoded month offset. Records whose variableName contains "New Customers"
// get the new-customers query; records containing "Retained" or "Prospects"
// are renamed to the Prospects series and get the prospects query. Returns
// the number of records changed.
func CustomerMetrics(records []catalog.MetricRecord) int {
	changed := 0
	for i := range records {
		rec := &records[i]
		m := monthOffsetRe.FindStringSubmatch(rec.FilterValue)
		if m == nil {
			continue
		}
		back, _ := strconv.Atoi(m[1])

		switch {
		case strings.Contains(rec.VariableName, "New Customers"):
			if sql := newCustomersSQL(back); rec.ProductionSQL != sql {
				rec.ProductionSQL = sql
				changed++
			}
		case strings.Contains(rec.VariableName, "Retained"),
			strings.Contains(rec.VariableName, "Prospects"):
			mutated := false
			if strings.Contains(rec.VariableName, "Retained") {
				rec.VariableName = strings.ReplaceAll(rec.VariableName,
					"Customer Retained Customers", "Prospects")
				rec.DataPoint = "prospects"
				rec.ValueColumn = "prospects"
				mutated = true
			}
			if sql := prospectsSQL(back); rec.ProductionSQL != sql {
				rec.ProductionSQL = sql
				mutated = true
			}
			if mutated {
				changed++
			}
		}
	}
	return changed
}

func rentalValueSQL(alias string, start, end int) string {
	return fmt.Sprintf(
		"SELECT SUM(il.extended_price) AS RentalValue_Month%s FROM oe_hdr oh JOIN invoice_line il ON il.order_no = oh.order_no JOIN invoice_hdr ih ON ih.invoice_no = il.invoice_no WHERE oh.rental_billing_flag = 'U' AND ih.invoice_date >= DATEFROMPARTS( YEAR(DATEADD(month, %d, GETDATE())), MONTH(DATEADD(month, %d, GETDATE())), 1 ) AND ih.invoice_date < DATEFROMPARTS( YEAR(DATEADD(month, %d, GETDATE())), MONTH(DATEADD(month, %d, GETDATE())), 1 );",
		alias, start, start, end, end)
}

func rentalCountSQL(month, start, end int) string {
	return fmt.Sprintf(
		"SELECT COUNT(DISTINCT oh.order_no) AS NewRentalCount_Month%d FROM oe_hdr oh WHERE oh.rental_billing_flag = 'U' AND oh.order_date >= DATEFROMPARTS( YEAR(DATEADD(month, %d, GETDATE())), MONTH(DATEADD(month, %d, GETDATE())), 1 ) AND oh.order_date < DATEFROMPARTS( YEAR(DATEADD(month, %d, GETDATE())), MONTH(DATEADD(month, %d, GETDATE())), 1 );",
		month, start, start, end, end)
}

// RentalSQL rewrites the rental-value query on every odd-ID record using
// the offset parsed from filterValue. A bare "current_month" means the
// current month: offset 0 and an empty alias suffix. Even-ID records and
// records without an offset tag are untouched.
func RentalSQL(records []catalog.MetricRecord) int {
	changed := 0
	for i := range records {
		rec := &records[i]
		if rec.ID%2 != 1 {
			continue
		}
		m := rentalOffsetRe.FindStringSubmatch(rec.FilterValue)
		if m == nil {
			continue
		}
		back := 0
		alias := ""
		if m[1] != "" {
			back, _ = strconv.Atoi(m[1])
			alias = m[1]
		}
		sql := rentalValueSQL(alias, -back, -back+1)
		if rec.ProductionSQL != sql {
			rec.ProductionSQL = sql
			changed++
		}
	}
	return changed
}

// FirstTwelve normalizes IDs 1-12 of the historical rental file to the
// single-line templates used by the rest of the file: two records per
// month, months 11 back through 6 back, odd IDs the rental-value join and
// even IDs the rental count.
func FirstTwelve(records []catalog.MetricRecord) int {
	changed := 0
	for i := range records {
		rec := &records[i]
		if rec.ID < 1 || rec.ID > 12 {
			continue
		}
		month := 11 - (rec.ID-1)/2
		var sql string
		if rec.ID%2 == 1 {
			sql = rentalValueSQL(strconv.Itoa(month), -month, -month+1)
		} else {
			sql = rentalCountSQL(month, -month, -month+1)
		}
		if rec.ProductionSQL != sql {
			rec.ProductionSQL = sql
			changed++
		}
	}
	return changed
}

// EnsureProdValue adds an explicit-null prodValue to every record that does
// not carry the field, so production mode starts from null until live
// query results populate it. Records that already have prodValue (null or
// numeric) are untouched.
func EnsureProdValue(records []catalog.MetricRecord) int {
	changed := 0
	for i := range records {
		if !records[i].ProdValue.Present {
			records[i].ProdValue = catalog.Null()
			changed++
		}
	}
	return changed
}

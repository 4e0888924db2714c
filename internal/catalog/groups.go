package catalog

import (
	"fmt"
	"strings"
)

const (
	serverP21 = "P21"
	// All generated records carry the same audit stamp; the dashboard
	// renderer treats it as informational only.
	generatedStamp = "2024-08-01T00:00:00.000Z"
)

// GroupRange declares one chart group: its contiguous ID range and whether
// the generator preserves hand-edited existing records in that range.
type GroupRange struct {
	Name     string
	StartID  int
	EndID    int
	Preserve bool
}

// Count returns the number of records the group must contain.
func (g GroupRange) Count() int { return g.EndID - g.StartID + 1 }

// Groups is the full chart-group taxonomy in catalog order. ID ranges are
// contiguous and non-overlapping, covering exactly 1..174.
var Groups = []GroupRange{
	{Name: "AR Aging", StartID: 1, EndID: 5, Preserve: true},
	{Name: "Accounts", StartID: 6, EndID: 41, Preserve: true},
	{Name: "Web Orders", StartID: 42, EndID: 65, Preserve: true},
	{Name: "Inventory", StartID: 66, EndID: 73, Preserve: true},
	{Name: "POR Overview", StartID: 74, EndID: 97},
	{Name: "Daily Orders", StartID: 98, EndID: 104},
	{Name: "Historical Data", StartID: 105, EndID: 140},
	{Name: "Customer Metrics", StartID: 141, EndID: 164},
	{Name: "Key Metrics", StartID: 165, EndID: 171, Preserve: true},
	{Name: "Site Distribution", StartID: 172, EndID: 174, Preserve: true},
}

// GroupByName returns the range declaration for a chart group.
func GroupByName(name string) (GroupRange, bool) {
	for _, g := range Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupRange{}, false
}

// monthWindow renders the standard month-bucket predicate for a date column
// at the given calendar offset (0 = current month, -11 = eleven months ago).
func monthWindow(col string, off int) string {
	return fmt.Sprintf(
		"%s >= DATEFROMPARTS(YEAR(DATEADD(month,%d,GETDATE())), MONTH(DATEADD(month,%d,GETDATE())), 1) AND %s < DATEADD(month, 1, DATEFROMPARTS(YEAR(DATEADD(month,%d,GETDATE())), MONTH(DATEADD(month,%d,GETDATE())), 1))",
		col, off, off, col, off, off)
}

// filterMonth encodes a month index (0 = oldest of the trailing twelve)
// as the filterValue offset tag.
func filterMonth(m int) string {
	return fmt.Sprintf("current_month-%d", 11-m)
}

// Synthesize derives the record for an ID from its group's axis pattern.
// Returns a descriptive error for an unknown group or an ID outside the
// group's declared range.
func Synthesize(id int, group string) (MetricRecord, error) {
	g, ok := GroupByName(group)
	if !ok {
		return MetricRecord{}, fmt.Errorf("catalog: unknown chart group %q", group)
	}
	if id < g.StartID || id > g.EndID {
		return MetricRecord{}, fmt.Errorf("catalog: id %d outside range %d-%d for group %q",
			id, g.StartID, g.EndID, group)
	}
	idx := id - g.StartID

	switch group {
	case "AR Aging":
		return arAgingRecord(id, idx), nil
	case "Accounts":
		return accountsRecord(id, idx/3, idx%3), nil
	case "Web Orders":
		return webOrdersRecord(id, idx/2, idx%2), nil
	case "Inventory":
		return inventoryRecord(id, idx), nil
	case "POR Overview":
		return porOverviewRecord(id, idx/2, idx%2), nil
	case "Daily Orders":
		return dailyOrdersRecord(id, idx), nil
	case "Historical Data":
		return historicalRecord(id, idx/3, idx%3), nil
	case "Customer Metrics":
		return customerMetricsRecord(id, idx/2, idx%2), nil
	case "Key Metrics":
		return keyMetricsRecord(id, idx), nil
	case "Site Distribution":
		return siteDistributionRecord(id, idx), nil
	}
	return MetricRecord{}, fmt.Errorf("catalog: no axis pattern for group %q", group)
}

var (
	agingBrackets = []string{"1-30", "31-60", "61-90", "90+", "Current"}
	agingOffsets  = []int{-11, -8, -5, -2, 0}
	agingValues   = []float64{60000, 35000, 15000, 5000, 140000}
	agingColumns  = []string{"amount_30", "amount_60", "amount_90", "amount_over", "current_balance"}
)

func arAgingRecord(id, idx int) MetricRecord {
	bracket := agingBrackets[idx]
	variable := fmt.Sprintf("AR Aging Amount Due %s Days", bracket)
	filterValue := bracket + " Days"
	if bracket == "Current" {
		variable = "AR Aging Amount Due Current"
		filterValue = "Current"
	}
	off := agingOffsets[idx]
	return MetricRecord{
		ID:           id,
		ChartGroup:   "AR Aging",
		VariableName: variable,
		DataPoint:    bracket,
		ServerName:   serverP21,
		TableName:    "balances",
		ProductionSQL: fmt.Sprintf(
			"SELECT SUM(cumulative_balance) AS result FROM balances WHERE year_for_period = CAST(YEAR(DATEADD(month, %d, GETDATE())) AS decimal(9,0)) AND period = CAST(MONTH(DATEADD(month, %d, GETDATE())) AS decimal(9,0));",
			off, off),
		Value:           agingValues[idx],
		CalculationType: "Totalize receivables within the specified temporal bracket.",
		LastUpdated:     generatedStamp,
		ValueColumn:     agingColumns[idx],
		FilterColumn:    "age_bracket",
		FilterValue:     filterValue,
	}
}

var accountVars = []string{"payable", "receivable", "overdue"}

func accountsRecord(id, month, varIdx int) MetricRecord {
	name := accountVars[varIdx]
	off := 11 - month // months back from the current month
	var sqlExpr, table string
	var value float64
	switch name {
	case "payable":
		sqlExpr = fmt.Sprintf(
			"SELECT SUM(total_amount) AS result FROM p21_view_soa_get_gl_daily_summaries WHERE account_type = 'Liability' AND year_for_period = YEAR(DATEADD(month, -%d, GETDATE())) AND period = MONTH(DATEADD(month, -%d, GETDATE()));",
			off, off)
		table = "gl"
		value = float64(1200 + month*100)
	case "receivable":
		sqlExpr = fmt.Sprintf(
			"SELECT SUM(b.cumulative_balance) AS result FROM balances b JOIN chart_of_accts a ON a.account_no = b.account_no WHERE (a.account_no LIKE '11%%' OR a.account_type LIKE '%%AR%%') AND b.year_for_period = YEAR(DATEADD(month, -%d, GETDATE())) AND b.period = MONTH(DATEADD(month, -%d, GETDATE()));",
			off, off)
		table = "balances"
		value = float64(58000 + month*1000)
	default: // overdue
		sqlExpr = fmt.Sprintf(
			"SELECT b.year_for_period, b.period, SUM(b.cumulative_balance) AS ar_ending_balance FROM balances b JOIN chart_of_accts a ON a.account_no = b.account_no WHERE (a.account_no LIKE '11%%' OR a.account_type LIKE '%%AR%%') AND b.year_for_period = YEAR(DATEADD(month, -%d, GETDATE())) AND b.period = MONTH(DATEADD(month, -%d, GETDATE())) GROUP BY b.year_for_period, b.period;",
			off, off)
		table = "balances"
		value = float64(max(6000, 8500-month*100))
	}
	return MetricRecord{
		ID:              id,
		ChartGroup:      "Accounts",
		VariableName:    "Accounts " + titleWord(name),
		DataPoint:       name,
		ServerName:      serverP21,
		TableName:       table,
		ProductionSQL:   sqlExpr,
		Value:           value,
		CalculationType: fmt.Sprintf("Totalize %s for the appropriate calendar month.", name),
		LastUpdated:     generatedStamp,
		ValueColumn:     name,
		FilterColumn:    "month",
		FilterValue:     filterMonth(month),
	}
}

var webOrderVars = []string{"count", "amount"}

func webOrdersRecord(id, month, varIdx int) MetricRecord {
	name := webOrderVars[varIdx]
	agg, verb := "COUNT(*)", "Count"
	value := float64(150 + month*10)
	if name == "amount" {
		agg, verb = "SUM(total_amount)", "Sum"
		value = float64(12000 + month*500)
	}
	sqlExpr := fmt.Sprintf(
		"SELECT %s AS result FROM oe_hdr AS h WHERE %s AND ( LTRIM(RTRIM(COALESCE(h.web_shopper_id, N''))) <> N'' OR LTRIM(RTRIM(COALESCE(h.web_shopper_email,N''))) <> N'' OR LTRIM(RTRIM(COALESCE(h.web_reference_no, N''))) <> N'' );",
		agg, monthWindow("h.order_date", month-11))
	return MetricRecord{
		ID:              id,
		ChartGroup:      "Web Orders",
		VariableName:    "Web Orders " + titleWord(name),
		DataPoint:       name,
		ServerName:      serverP21,
		TableName:       "oe_hdr",
		ProductionSQL:   sqlExpr,
		Value:           value,
		CalculationType: fmt.Sprintf("%s web orders for the appropriate calendar month.", verb),
		LastUpdated:     generatedStamp,
		ValueColumn:     name,
		FilterColumn:    "month",
		FilterValue:     filterMonth(month),
	}
}

var (
	inventoryCategories = []string{"Electronics", "Automotive", "Tools", "Hardware", "Office Supplies", "Safety Equipment", "Industrial", "Miscellaneous"}
	inventoryClassIDs   = []string{"ELECTRONICS", "AUTOMOTIVE", "TOOLS", "HARDWARE", "OFFICE", "SAFETY", "INDUSTRIAL", "MISC"}
	inventoryValues     = []float64{250000, 180000, 95000, 120000, 45000, 75000, 320000, 65000}
)

func inventoryRecord(id, idx int) MetricRecord {
	category := inventoryCategories[idx]
	return MetricRecord{
		ID:           id,
		ChartGroup:   "Inventory",
		VariableName: "Inventory Value " + category,
		DataPoint:    strings.ReplaceAll(strings.ToLower(category), " ", "_"),
		ServerName:   serverP21,
		TableName:    "inventory_mast",
		ProductionSQL: fmt.Sprintf(
			"SELECT SUM(qty_on_hand * avg_cost) AS result FROM inventory_mast WHERE inv_mast_uid IN (SELECT inv_mast_uid FROM item WHERE item_class_id = '%s') AND date_created <= DATEADD(month, -11, GETDATE());",
			inventoryClassIDs[idx]),
		Value:           inventoryValues[idx],
		CalculationType: "Calculate inventory value by category for the appropriate calendar month.",
		LastUpdated:     generatedStamp,
		ValueColumn:     "value",
		FilterColumn:    "category",
		FilterValue:     category,
	}
}

var porVars = []string{"orders", "revenue"}

func porOverviewRecord(id, month, varIdx int) MetricRecord {
	name := porVars[varIdx]
	agg, verb, table, dateCol := "COUNT(*)", "Count", "oe_hdr", "order_date"
	value := float64(450 + month*20)
	if name == "revenue" {
		agg, verb, table, dateCol = "SUM(total_amount)", "Sum", "invoice_hdr", "invoice_date"
		value = float64(85000 + month*2000)
	}
	sqlExpr := fmt.Sprintf("SELECT %s AS result FROM %s WHERE %s;",
		agg, table, monthWindow(dateCol, month-11))
	return MetricRecord{
		ID:              id,
		ChartGroup:      "POR Overview",
		VariableName:    "POR " + titleWord(name),
		DataPoint:       name,
		ServerName:      serverP21,
		TableName:       table,
		ProductionSQL:   sqlExpr,
		Value:           value,
		CalculationType: fmt.Sprintf("%s POR data for the appropriate calendar month.", verb),
		LastUpdated:     generatedStamp,
		ValueColumn:     name,
		FilterColumn:    "month",
		FilterValue:     filterMonth(month),
	}
}

func dailyOrdersRecord(id, day int) MetricRecord {
	back := 6 - day // days back from today
	return MetricRecord{
		ID:           id,
		ChartGroup:   "Daily Orders",
		VariableName: fmt.Sprintf("Daily Orders Day %d", day+1),
		DataPoint:    fmt.Sprintf("day_%d", day+1),
		ServerName:   serverP21,
		TableName:    "oe_hdr",
		ProductionSQL: fmt.Sprintf(
			"SELECT COUNT(*) AS result FROM oe_hdr WHERE order_date = DATEADD(day, -%d, CAST(GETDATE() AS DATE));",
			back),
		Value:           float64(45 + day*5),
		CalculationType: "Count daily orders for specific day.",
		LastUpdated:     generatedStamp,
		ValueColumn:     "orders",
		FilterColumn:    "day",
		FilterValue:     fmt.Sprintf("day-%d", back),
	}
}

var historicalVars = []string{"sales", "orders", "customers"}

func historicalRecord(id, month, varIdx int) MetricRecord {
	name := historicalVars[varIdx]
	off := month - 11
	var sqlExpr, table string
	var value float64
	switch name {
	case "sales":
		table = "invoice_hdr"
		sqlExpr = fmt.Sprintf("SELECT SUM(total_amount) AS result FROM invoice_hdr WHERE %s;",
			monthWindow("invoice_date", off))
		value = float64(75000 + month*3000)
	case "orders":
		table = "oe_hdr"
		sqlExpr = fmt.Sprintf("SELECT COUNT(*) AS result FROM oe_hdr WHERE %s;",
			monthWindow("order_date", off))
		value = float64(850 + month*50)
	default: // customers
		table = "customer"
		sqlExpr = fmt.Sprintf("SELECT COUNT(DISTINCT customer_id) AS result FROM oe_hdr WHERE %s;",
			monthWindow("order_date", off))
		value = float64(125 + month*8)
	}
	return MetricRecord{
		ID:              id,
		ChartGroup:      "Historical Data",
		VariableName:    "Historical " + titleWord(name),
		DataPoint:       name,
		ServerName:      serverP21,
		TableName:       table,
		ProductionSQL:   sqlExpr,
		Value:           value,
		CalculationType: fmt.Sprintf("Historical %s data for the appropriate calendar month.", name),
		LastUpdated:     generatedStamp,
		ValueColumn:     name,
		FilterColumn:    "month",
		FilterValue:     filterMonth(month),
	}
}

var customerVars = []string{"new_customers", "retained_customers"}

func customerMetricsRecord(id, month, varIdx int) MetricRecord {
	name := customerVars[varIdx]
	off := month - 11
	var sqlExpr string
	var value float64
	if name == "new_customers" {
		sqlExpr = fmt.Sprintf("SELECT COUNT(*) AS result FROM customer WHERE %s;",
			monthWindow("date_created", off))
		value = float64(25 + month*2)
	} else {
		sqlExpr = fmt.Sprintf(
			"SELECT COUNT(DISTINCT c.customer_id) AS result FROM customer c JOIN oe_hdr o ON c.customer_id = o.customer_id WHERE %s AND c.date_created < DATEFROMPARTS(YEAR(DATEADD(month,%d,GETDATE())), MONTH(DATEADD(month,%d,GETDATE())), 1);",
			monthWindow("o.order_date", off), off, off)
		value = float64(95 + month*5)
	}
	return MetricRecord{
		ID:              id,
		ChartGroup:      "Customer Metrics",
		VariableName:    "Customer " + titleWords(strings.ReplaceAll(name, "_", " ")),
		DataPoint:       name,
		ServerName:      serverP21,
		TableName:       "customer",
		ProductionSQL:   sqlExpr,
		Value:           value,
		CalculationType: "Customer metrics for the appropriate calendar month.",
		LastUpdated:     generatedStamp,
		ValueColumn:     name,
		FilterColumn:    "month",
		FilterValue:     filterMonth(month),
	}
}

// keyMetrics are fixed, non-templated definitions carried over from the
// original hand-built catalog.
var keyMetrics = []struct {
	Variable  string
	DataPoint string
	SQL       string
	Value     float64
}{
	{"Total Sales YTD", "Total Orders", "SELECT COUNT(order_no) AS result FROM oe_hdr;", 12540},
	{"Total Orders YTD", "Open Orders (/day)", "SELECT COUNT(order_no) AS result FROM oe_hdr WHERE status = 'open' AND CAST(order_date AS DATE) = CAST(GETDATE() AS DATE);", 85},
	{"Average Order Value", "All Open Orders", "SELECT COUNT(order_no) AS result FROM oe_hdr WHERE status = 'open';", 1250},
	{"Gross Profit Margin", "Daily Revenue", "SELECT SUM(total_amount) AS result FROM invoice_hdr WHERE CAST(invoice_date AS DATE) = CAST(GETDATE() AS DATE);", 415230},
	{"Customer Acquisition Rate", "Open Invoices", "SELECT SUM(total_amount) AS result FROM invoice_hdr WHERE status = 'open';", 2350000},
	{"Inventory Turnover", "Orders Backloged", "SELECT COUNT(DISTINCT order_no) AS result FROM oe_line WHERE status = 'backordered';", 310},
	{"Customer Retention Rate", "Total Sales (Monthly)", "SELECT SUM(total_amount) AS result FROM invoice_hdr WHERE invoice_date >= DATEADD(month, DATEDIFF(month, 0, GETDATE()), 0) AND invoice_date < DATEADD(month, DATEDIFF(month, 0, GETDATE()) + 1, 0);", 8345000},
}

func keyMetricsRecord(id, idx int) MetricRecord {
	m := keyMetrics[idx]
	table := "invoice_hdr"
	if strings.Contains(strings.ToLower(m.SQL), "order") {
		table = "oe_hdr"
	}
	valueColumn := "total_amount"
	if strings.Contains(m.SQL, "order_no") {
		valueColumn = "order_no"
	}
	return MetricRecord{
		ID:              id,
		ChartGroup:      "Key Metrics",
		VariableName:    m.Variable,
		DataPoint:       m.DataPoint,
		ServerName:      serverP21,
		TableName:       table,
		ProductionSQL:   m.SQL,
		Value:           m.Value,
		CalculationType: "Key business metrics calculation.",
		LastUpdated:     generatedStamp,
		ValueColumn:     valueColumn,
	}
}

var siteLocations = []string{"Columbus", "Addison", "City"}

func siteDistributionRecord(id, idx int) MetricRecord {
	location := siteLocations[idx]
	return MetricRecord{
		ID:           id,
		ChartGroup:   "Site Distribution",
		VariableName: "Site Distribution " + location,
		DataPoint:    location,
		ServerName:   serverP21,
		TableName:    "branch",
		ProductionSQL: fmt.Sprintf(
			"SELECT COUNT(*) as result FROM branch WHERE location_name = '%s';", location),
		Value:           1,
		CalculationType: "Totalize revenue from the specified geographical locus.",
		LastUpdated:     generatedStamp,
		ValueColumn:     "sales",
		FilterColumn:    "site_name",
		FilterValue:     location,
	}
}

// titleWord uppercases the first letter of a single lowercase word.
func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// titleWords title-cases each space-separated word.
func titleWords(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		parts[i] = titleWord(p)
	}
	return strings.Join(parts, " ")
}

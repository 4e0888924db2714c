// Package catalog defines the dashboard metric catalog: the record type,
// the chart-group taxonomy, and the deterministic bulk generator that
// produces the full 174-entry catalog from the group axis definitions.
package catalog

import (
	"encoding/json"
	"fmt"
)

// MetricRecord is one catalog entry: a named, parameterized measurement
// with a live SQL definition and a static demo value. Field order matches
// the on-disk JSON layout produced by the generator.
type MetricRecord struct {
	ID              int           `json:"id"`
	ChartGroup      string        `json:"chartGroup"`
	VariableName    string        `json:"variableName"`
	DataPoint       string        `json:"dataPoint"`
	ServerName      string        `json:"serverName"`
	TableName       string        `json:"tableName"`
	ProductionSQL   string        `json:"productionSqlExpression"`
	Value           float64       `json:"value"`
	CalculationType string        `json:"calculationType"`
	LastUpdated     string        `json:"lastUpdated"`
	ValueColumn     string        `json:"valueColumn"`
	FilterColumn    string        `json:"filterColumn,omitempty"`
	FilterValue     string        `json:"filterValue,omitempty"`
	ProdValue       NullableFloat `json:"prodValue,omitzero"`
}

// NullableFloat is a tri-state numeric field: absent from JSON entirely,
// present as an explicit null, or present with a value. Demo and production
// modes are distinguished by whether prodValue is null, so the distinction
// between "absent" and "null" must survive a load/save round trip.
type NullableFloat struct {
	Present bool
	Valid   bool
	Value   float64
}

// Null returns a present-but-null value, as written by the prodValue
// backfill pass.
func Null() NullableFloat {
	return NullableFloat{Present: true}
}

// Float returns a present numeric value, as stored by live query execution.
func Float(v float64) NullableFloat {
	return NullableFloat{Present: true, Valid: true, Value: v}
}

// IsZero reports whether the field should be omitted when marshaling.
func (n NullableFloat) IsZero() bool { return !n.Present }

func (n NullableFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	n.Present = true
	if string(data) == "null" {
		n.Valid = false
		n.Value = 0
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return fmt.Errorf("prodValue: %w", err)
	}
	n.Valid = true
	return nil
}

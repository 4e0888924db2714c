package db

import (
	"testing"
	"time"
)

func TestConvertValue(t *testing.T) {
	ts := time.Date(2024, 8, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", int(7), int64(7)},
		{"int32", int32(-3), int64(-3)},
		{"int64", int64(41), int64(41)},
		{"uint8", uint8(255), int64(255)},
		{"float32", float32(2.5), float64(2.5)},
		{"float64", 1250000.5, 1250000.5},
		{"time", ts, "2024-08-01T12:30:00Z"},
		{"bytes", []byte("order_no"), "order_no"},
		{"string", "ABC", "ABC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertValue(tt.in); got != tt.want {
				t.Errorf("convertValue(%v) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestConvertValue_fallback(t *testing.T) {
	type custom struct{ A int }
	got := convertValue(custom{A: 1})
	if _, ok := got.(string); !ok {
		t.Errorf("fallback should stringify, got %T", got)
	}
}

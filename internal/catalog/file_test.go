package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoad_roundTrip(t *testing.T) {
	records, err := Generate(nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dashboard-data.json")
	if err := Save(path, records); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("loaded %d records, want %d", len(loaded), len(records))
	}
	resaved, err := Marshal(loaded)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	original, _ := os.ReadFile(path)
	if !bytes.Equal(original, resaved) {
		t.Error("load/save round trip changed the file")
	}
}

func TestLoad_malformed(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"truncated.json", `[{"id": 1,`},
		{"object.json", `{"id": 1}`},
		{"empty.json", ``},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if err == nil {
			t.Errorf("Load(%s): expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("Load(%s): error should carry the path, got %v", tt.name, err)
		}
	}
}

func TestLoadExisting_missingFile(t *testing.T) {
	existing, err := LoadExisting(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(existing) != 0 {
		t.Errorf("expected empty overrides, got %d", len(existing))
	}
}

func TestProdValue_triState(t *testing.T) {
	rec, err := Synthesize(1, "AR Aging")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	// Absent: key must not appear at all.
	data, err := Marshal([]MetricRecord{rec})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "prodValue") {
		t.Error("absent prodValue must not be serialized")
	}

	// Explicit null.
	rec.ProdValue = Null()
	data, err = Marshal([]MetricRecord{rec})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"prodValue": null`) {
		t.Errorf("patched record must serialize prodValue as null:\n%s", data)
	}

	// Populated by a live execution.
	rec.ProdValue = Float(61234.5)
	data, err = Marshal([]MetricRecord{rec})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"prodValue": 61234.5`) {
		t.Errorf("live value not serialized:\n%s", data)
	}

	// Null survives a round trip as null, not as absent.
	rec.ProdValue = Null()
	path := filepath.Join(t.TempDir(), "one.json")
	if err := Save(path, []MetricRecord{rec}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := loaded[0].ProdValue
	if !pv.Present || pv.Valid {
		t.Errorf("null prodValue did not survive round trip: %+v", pv)
	}
}

func TestMarshal_noHTMLEscaping(t *testing.T) {
	records, err := Generate(nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := Marshal(records)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// SQL comparison operators must be written literally, not unicode-escaped.
	if strings.Contains(string(data), "u003c") {
		t.Error("SQL text was HTML-escaped")
	}
	if !strings.Contains(string(data), "invoice_date <") {
		t.Error("expected literal < in SQL text")
	}
}

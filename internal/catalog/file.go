package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Load reads a catalog file: a JSON array of metric records. A malformed
// file is an error carrying the path; regeneration must never silently
// truncate a catalog it failed to parse.
func Load(path string) ([]MetricRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	var records []MetricRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return records, nil
}

// LoadExisting reads a catalog file into an ID-keyed map for override
// preservation. A missing file is not an error: generation starts empty.
func LoadExisting(path string) (map[int]MetricRecord, error) {
	records, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[int]MetricRecord{}, nil
		}
		return nil, err
	}
	existing := make(map[int]MetricRecord, len(records))
	for _, rec := range records {
		existing[rec.ID] = rec
	}
	return existing, nil
}

// Save writes the catalog as an indented JSON array, rewriting the whole
// file in one pass. Layout matches the dashboard renderer's expectations:
// 4-space indent, trailing newline.
func Save(path string, records []MetricRecord) error {
	data, err := Marshal(records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("catalog %s: %w", path, err)
	}
	return nil
}

// Marshal renders records in the on-disk catalog layout.
func Marshal(records []MetricRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("catalog marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// Package catalog reads, inspects, and writes the vehicle catalog document.
package catalog

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"os"
)

// Catalog maps record keys (e.g. "car1") to records.
type Catalog map[string]Record

// Record is one catalog entry. The document carries no fixed schema;
// fields beyond the recognized reference fields pass through untouched.
type Record map[string]any

// Load reads the catalog document at path.
func Load(path string) (Catalog, error) {
	file, err := os.Open(path) //#nosec G304 -- Catalog path from user input is expected
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	var c Catalog
	if err := json.UnmarshalRead(file, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if c == nil {
		c = Catalog{}
	}

	return c, nil
}

// Save writes the catalog document to path. The document is written to a
// temp file in the same directory and renamed over the target, so a failed
// write never clobbers the existing document. Output is indented with keys
// in sorted order, keeping reruns diffable.
func (c Catalog) Save(path string) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath) //#nosec G304 -- Catalog path from user input is expected
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	defer os.Remove(tmpPath) // Clean up on failure

	if err := json.MarshalWrite(file, c, jsontext.WithIndent("  "), json.Deterministic(true)); err != nil {
		file.Close()
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close temp catalog: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}

	return nil
}

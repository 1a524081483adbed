package criteria

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_criteria.json
var defaultCatalog []byte

// Parse decodes a JSON or YAML catalog and validates it.
func Parse(data []byte) (Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalog{}, fmt.Errorf("parse criteria catalog: %w", err)
	}
	if err := Validate(doc); err != nil {
		return Catalog{}, err
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("decode criteria catalog: %w", err)
	}
	return cat, nil
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read criteria catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() Catalog {
	cat, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded criteria catalog: %v", err))
	}
	return cat
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

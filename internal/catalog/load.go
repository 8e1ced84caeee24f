package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// file is the on-disk shape of a catalog:
//
//	entries:
//	  - {code: 1A, label: Government consumption, column: Government consumption}
//	  - {code: 5Civ, label: Tax compliance, column: 74, expect: Tax compliance}
type file struct {
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Load reads a catalog from a JSON or YAML file (by extension). An empty
// path returns Default().
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open catalog: %w", err)
	}

	var f file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return New(f.Entries...)
}

// Package config defines the canonical, file-serializable configuration model
// for the efwetl pipeline. Pipelines are decoded from JSON or YAML files and
// passed through the program as plain values.
//
// Example (trimmed):
//
//	{
//	  "job": "efw_2024",
//	  "sources": {
//	    "metrics": { "kind": "file", "file": { "path": "csvsample.csv" },
//	                 "parser": { "kind": "csv", "options": { "skip_rows": 4 } } },
//	    "areas":   { "kind": "file", "file": { "path": "areas.csv" },
//	                 "parser": { "kind": "csv" } }
//	  },
//	  "catalog": { "path": "" },
//	  "export":  { "path": "transformed_data.csv", "include_discrete": true },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "efw.db", "auto_create_schema": true } }
//	}
package config

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Pipeline describes one reshape-and-load run. It is the top-level object
// decoded from a pipeline file.
type Pipeline struct {
	// Job labels the run in logs and metrics.
	Job string `json:"job" yaml:"job"`

	// Sources names the two wide inputs.
	Sources Sources `json:"sources" yaml:"sources"`

	// Merge configures the left join of the areas table onto the metrics table.
	Merge Merge `json:"merge" yaml:"merge"`

	// Columns names the base descriptive columns of the merged wide table.
	Columns BaseColumns `json:"columns" yaml:"columns"`

	// Language is stamped on every long record (e.g. "English").
	Language string `json:"language" yaml:"language"`

	// Catalog selects the metric catalog. An empty path uses the built-in one.
	Catalog Catalog `json:"catalog" yaml:"catalog"`

	// Export configures the long-format CSV output. An empty path disables it.
	Export Export `json:"export" yaml:"export"`

	// Storage describes where the dimensional model is loaded.
	Storage Storage       `json:"storage" yaml:"storage"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// Sources holds the primary (metrics) and secondary (areas) wide sources.
type Sources struct {
	Metrics Source `json:"metrics" yaml:"metrics"`
	Areas   Source `json:"areas" yaml:"areas"`
}

// Source identifies one input. Current kind: "file".
type Source struct {
	Kind   string     `json:"kind" yaml:"kind"`
	File   SourceFile `json:"file" yaml:"file"`
	Parser Parser     `json:"parser" yaml:"parser"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path" yaml:"path"`
}

// Parser selects how to parse the raw source into a wide table.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind" yaml:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV: skip_rows (int), comma (string), trim_space (bool),
	// normalize_unicode (bool).
	Options Options `json:"options" yaml:"options"`
}

// JoinKeys names the composite (country code, year) key of one table.
type JoinKeys struct {
	Country string `json:"country" yaml:"country"`
	Year    string `json:"year" yaml:"year"`
}

// Merge configures the wide-table left join.
type Merge struct {
	Primary   JoinKeys `json:"primary" yaml:"primary"`
	Secondary JoinKeys `json:"secondary" yaml:"secondary"`

	// Columns is the whitelist of secondary columns attached to each row.
	Columns []string `json:"columns" yaml:"columns"`
}

// BaseColumns maps the descriptive fields of a long record onto header names
// of the merged wide table. Region, Subregion, and State are optional
// enrichment columns; they are carried through when present.
type BaseColumns struct {
	Year         string `json:"year" yaml:"year"`
	CountryCode2 string `json:"country_code2" yaml:"country_code2"`
	CountryCode3 string `json:"country_code3" yaml:"country_code3"`
	CountryName  string `json:"country_name" yaml:"country_name"`
	SummaryIndex string `json:"summary_index" yaml:"summary_index"`
	Rank         string `json:"rank" yaml:"rank"`
	Quartile     string `json:"quartile" yaml:"quartile"`
	Region       string `json:"region" yaml:"region"`
	Subregion    string `json:"subregion" yaml:"subregion"`
	State        string `json:"state" yaml:"state"`
}

// Catalog points at an external catalog file (JSON or YAML).
type Catalog struct {
	Path string `json:"path" yaml:"path"`
}

// Export configures the long-format CSV writer.
type Export struct {
	Path string `json:"path" yaml:"path"`

	// IncludeDiscrete appends the 2-decimal rounded value column.
	IncludeDiscrete bool `json:"include_discrete" yaml:"include_discrete"`

	// HeadPath, when set, receives the first HeadRows records as a sample.
	HeadPath string `json:"head_path" yaml:"head_path"`
	HeadRows int    `json:"head_rows" yaml:"head_rows"`
}

// Storage selects the sink used to persist the dimensional model.
type Storage struct {
	// Kind selects the backend: "postgres", "mssql", "mysql", "sqlite", or
	// "none" to stop after the export.
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the dimensional store.
type DBConfig struct {
	// DSN is the backend connection string.
	DSN string `json:"dsn" yaml:"dsn"`

	// AutoCreateSchema creates the dimension and fact tables when absent.
	AutoCreateSchema bool `json:"auto_create_schema" yaml:"auto_create_schema"`

	// LockName identifies the exclusive load lock. Loads sharing a name never
	// interleave. Defaults to "efw_load".
	LockName string `json:"lock_name" yaml:"lock_name"`
}

// RuntimeConfig controls concurrency.
type RuntimeConfig struct {
	// ReshapeWorkers bounds the catalog entries reshaped in parallel.
	ReshapeWorkers int `json:"reshape_workers" yaml:"reshape_workers"`

	// LockTimeoutSeconds bounds the wait for the exclusive load lock.
	LockTimeoutSeconds int `json:"lock_timeout_seconds" yaml:"lock_timeout_seconds"`
}

// Default column names of the Economic Freedom of the World export.
const (
	DefaultLanguage = "English"
	DefaultLockName = "efw_load"
)

// DefaultAreaColumns is the merge whitelist: the five area scores.
var DefaultAreaColumns = []string{"Area 1", "Area 2", "Area 3", "Area 4", "Area 5"}

// WithDefaults returns a copy of p with empty fields filled in with the
// Economic Freedom of the World layout.
func (p Pipeline) WithDefaults() Pipeline {
	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	def(&p.Job, "efw_etl")
	def(&p.Language, DefaultLanguage)

	def(&p.Sources.Metrics.Kind, "file")
	def(&p.Sources.Metrics.Parser.Kind, "csv")
	def(&p.Sources.Areas.Kind, "file")
	def(&p.Sources.Areas.Parser.Kind, "csv")
	if p.Sources.Metrics.Parser.Options == nil {
		p.Sources.Metrics.Parser.Options = Options{}
	}
	if p.Sources.Areas.Parser.Options == nil {
		p.Sources.Areas.Parser.Options = Options{}
	}

	def(&p.Merge.Primary.Country, "ISO Code 3")
	def(&p.Merge.Primary.Year, "Year")
	def(&p.Merge.Secondary.Country, "ISO_Code")
	def(&p.Merge.Secondary.Year, "Year")
	if len(p.Merge.Columns) == 0 {
		p.Merge.Columns = append([]string(nil), DefaultAreaColumns...)
	}

	def(&p.Columns.Year, "Year")
	def(&p.Columns.CountryCode2, "ISO Code 2")
	def(&p.Columns.CountryCode3, "ISO Code 3")
	def(&p.Columns.CountryName, "Countries")
	def(&p.Columns.SummaryIndex, " Economic Freedom Summary Index")
	def(&p.Columns.Rank, "Rank")
	def(&p.Columns.Quartile, "Quartile")
	def(&p.Columns.Region, "World Bank Region")

	def(&p.Storage.Kind, "none")
	def(&p.Storage.DB.LockName, DefaultLockName)

	if p.Export.HeadPath != "" && p.Export.HeadRows == 0 {
		p.Export.HeadRows = 1000
	}
	return p
}

// Options is a small helper to fetch typed values from arbitrary decoded
// maps. It performs only minimal type coercion and returns provided defaults
// when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64
// and YAML integers as int; both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON makes a missing or null "options" object decode to a
// non-nil, empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON.
func (o *Options) UnmarshalYAML(value *yaml.Node) error {
	tmp := map[string]any{}
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

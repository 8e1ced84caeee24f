package storage

// Table and column names of the dimensional schema. Every dimension has an
// integer id assigned by Load and a unique natural key.
const (
	TableLanguage  = "efw_language"
	TableRegion    = "efw_region"
	TableCountry   = "efw_country"
	TableYear      = "efw_year"
	TableArea      = "efw_area"
	TableIndicator = "efw_indicator"
	TableFact      = "efw_fact"

	TableRegionLabel    = "efw_region_label"
	TableCountryLabel   = "efw_country_label"
	TableIndicatorLabel = "efw_indicator_label"
)

// dimension describes how Load finds and inserts rows of one table.
type dimension struct {
	table      string
	naturalKey string
	columns    []string // insert columns, id first
}

var (
	dimLanguage  = dimension{TableLanguage, "name", []string{"id", "name"}}
	dimRegion    = dimension{TableRegion, "name", []string{"id", "name"}}
	dimArea      = dimension{TableArea, "name", []string{"id", "number", "name"}}
	dimYear      = dimension{TableYear, "year", []string{"id", "year"}}
	dimCountry   = dimension{TableCountry, "iso3", []string{"id", "iso3", "iso2", "name", "subregion", "region_id", "language_id"}}
	dimIndicator = dimension{TableIndicator, "code", []string{"id", "code", "label", "area_id"}}

	factColumns = []string{"id", "indicator_id", "year_id", "country_id", "value", "value_discrete"}
)

// labelTable describes a per-language label table keyed by
// (language_id, entity column).
type labelTable struct {
	table  string
	entity string
}

func (l labelTable) columns() []string { return []string{"language_id", l.entity, "label"} }

var (
	labelRegion    = labelTable{TableRegionLabel, "region_id"}
	labelCountry   = labelTable{TableCountryLabel, "country_id"}
	labelIndicator = labelTable{TableIndicatorLabel, "indicator_id"}
)

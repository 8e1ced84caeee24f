package reshape

// Record is one long-format observation: a single indicator value for one
// country in one year, carrying the descriptive columns of its wide row.
type Record struct {
	Year         int
	CountryCode2 string
	CountryCode3 string
	CountryName  string
	Region       string
	Subregion    string
	Language     string
	State        string

	// Nil when the wide row had no value.
	SummaryIndex *float64
	Rank         *float64
	Quartile     *float64

	IndicatorCode  string
	IndicatorLabel string

	// Value is the continuous figure as read. Discrete is Value rounded to
	// two decimals half-to-even; both derive from the same source number.
	Value    float64
	Discrete float64
}

// Key is the (year, country, indicator) triple identifying an observation.
type Key struct {
	Year          int
	CountryCode3  string
	IndicatorCode string
}

// Key returns r's identifying triple.
func (r Record) Key() Key {
	return Key{Year: r.Year, CountryCode3: r.CountryCode3, IndicatorCode: r.IndicatorCode}
}

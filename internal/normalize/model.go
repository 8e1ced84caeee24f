// Package normalize turns long-format records into a dimensional model:
// six dimensions (language, region, country, year, area, indicator), one
// fact table keyed by (year, country, indicator), and per-language labels
// of regions, countries, and indicators.
//
// Keys assigned here are local to one Build call. The storage loader maps
// them onto the keys already present in the target store.
package normalize

import (
	"log"

	"efwetl/internal/reshape"
)

type Language struct {
	Key  int
	Name string
}

type Region struct {
	Key  int
	Name string
}

// Country is keyed by ISO3. RegionKey and LanguageKey are zero when the
// first record seen for the country carried no label.
type Country struct {
	Key         int
	ISO3        string
	ISO2        string
	Name        string
	Subregion   string
	RegionKey   int
	LanguageKey int
}

type Year struct {
	Key   int
	Value int
}

type AreaRow struct {
	Key int
	Area
}

type Indicator struct {
	Key     int
	Code    string
	Label   string
	AreaKey int
}

type Fact struct {
	Key          int
	IndicatorKey int
	YearKey      int
	CountryKey   int
	Value        float64
	Discrete     float64
}

// Label is the text of one region, country, or indicator in one language.
// EntityKey is the local key of the labeled row.
type Label struct {
	LanguageKey int
	EntityKey   int
	Text        string
}

// Model is the dimensional form of one record set. Every slice is in
// first-seen order and Key equals index+1.
type Model struct {
	Languages  []Language
	Regions    []Region
	Countries  []Country
	Years      []Year
	Areas      []AreaRow
	Indicators []Indicator
	Facts      []Fact

	RegionLabels    []Label
	CountryLabels   []Label
	IndicatorLabels []Label
}

// Stats counts what Build kept and skipped.
type Stats struct {
	Records           int
	Facts             int
	SkippedMissingKey int
	DuplicateFacts    int
}

const maxLoggedSkips = 10

// Build assigns surrogate keys in encounter order and emits one fact per
// distinct (year, country, indicator). Later records repeating a triple are
// counted and ignored. Records with a language also label their region,
// country, and indicator in that language; the first text seen wins. A record without an ISO3 code or indicator code is
// skipped with a warning.
func Build(recs []reshape.Record) (Model, Stats) {
	var (
		m  Model
		st = Stats{Records: len(recs)}

		languages  = map[string]int{}
		regions    = map[string]int{}
		countries  = map[string]int{}
		years      = map[int]int{}
		areaKeys   = map[string]int{}
		indicators = map[string]int{}
		facts      = map[reshape.Key]struct{}{}

		regionLabels    = map[[2]int]struct{}{}
		countryLabels   = map[[2]int]struct{}{}
		indicatorLabels = map[[2]int]struct{}{}
	)

	for i, r := range recs {
		if r.CountryCode3 == "" || r.IndicatorCode == "" {
			if st.SkippedMissingKey < maxLoggedSkips {
				log.Printf("normalize: warning: record %d (year=%d country=%q indicator=%q) has no natural key; skipped",
					i, r.Year, r.CountryCode3, r.IndicatorCode)
			}
			st.SkippedMissingKey++
			continue
		}

		lk := 0
		if r.Language != "" {
			lk = keyFor(languages, r.Language, func(k int) {
				m.Languages = append(m.Languages, Language{Key: k, Name: r.Language})
			})
		}
		rk := 0
		if r.Region != "" {
			rk = keyFor(regions, r.Region, func(k int) {
				m.Regions = append(m.Regions, Region{Key: k, Name: r.Region})
			})
		}
		ck := keyFor(countries, r.CountryCode3, func(k int) {
			m.Countries = append(m.Countries, Country{
				Key: k, ISO3: r.CountryCode3, ISO2: r.CountryCode2, Name: r.CountryName,
				Subregion: r.Subregion, RegionKey: rk, LanguageKey: lk,
			})
		})
		yk := keyFor(years, r.Year, func(k int) {
			m.Years = append(m.Years, Year{Key: k, Value: r.Year})
		})
		ik := keyFor(indicators, r.IndicatorCode, func(k int) {
			a := AreaFor(r.IndicatorCode)
			ak := keyFor(areaKeys, a.Name, func(k int) {
				m.Areas = append(m.Areas, AreaRow{Key: k, Area: a})
			})
			m.Indicators = append(m.Indicators, Indicator{Key: k, Code: r.IndicatorCode, Label: r.IndicatorLabel, AreaKey: ak})
		})

		if lk != 0 {
			m.RegionLabels = addLabel(m.RegionLabels, regionLabels, lk, rk, r.Region)
			m.CountryLabels = addLabel(m.CountryLabels, countryLabels, lk, ck, r.CountryName)
			m.IndicatorLabels = addLabel(m.IndicatorLabels, indicatorLabels, lk, ik, r.IndicatorLabel)
		}

		if _, dup := facts[r.Key()]; dup {
			st.DuplicateFacts++
			continue
		}
		facts[r.Key()] = struct{}{}
		m.Facts = append(m.Facts, Fact{
			Key: len(m.Facts) + 1, IndicatorKey: ik, YearKey: yk, CountryKey: ck,
			Value: r.Value, Discrete: r.Discrete,
		})
	}
	if st.SkippedMissingKey > maxLoggedSkips {
		log.Printf("normalize: warning: %d records without natural key skipped (first %d logged)", st.SkippedMissingKey, maxLoggedSkips)
	}
	st.Facts = len(m.Facts)
	return m, st
}

// keyFor returns the key of nk, allocating the next one and calling add on
// first sight.
func keyFor[K comparable](seen map[K]int, nk K, add func(key int)) int {
	if k, ok := seen[nk]; ok {
		return k
	}
	k := len(seen) + 1
	seen[nk] = k
	add(k)
	return k
}

// addLabel appends text for (language, entity) unless either key is unset,
// text is empty, or the pair already has a label.
func addLabel(labels []Label, seen map[[2]int]struct{}, lk, ek int, text string) []Label {
	if ek == 0 || text == "" {
		return labels
	}
	k := [2]int{lk, ek}
	if _, ok := seen[k]; ok {
		return labels
	}
	seen[k] = struct{}{}
	return append(labels, Label{LanguageKey: lk, EntityKey: ek, Text: text})
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"efwetl/internal/reshape"
)

func TestAreaFor(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"1A":    "Size of Government",
		"1Dii":  "Size of Government",
		"Area2": "Legal System & Property Rights",
		"3C":    "Sound Money",
		"4Aiii": "Freedom to Trade Internationally",
		"5Civ":  "Regulation",
		"25":    "Legal System & Property Rights",
		"52":    "Legal System & Property Rights",
		"N":     "Economic Freedom Summary Index",
		"":      "Economic Freedom Summary Index",
		"6X":    "Economic Freedom Summary Index",
	}
	for code, want := range cases {
		require.Equal(t, want, AreaFor(code).Name, "code %q", code)
	}
}

// Every code containing a digit 1-5 lands in a numbered area; every other
// code lands in the summary pseudo-area.
func TestAreaFor_Total(t *testing.T) {
	t.Parallel()

	for c := 0; c < 128; c++ {
		for _, code := range []string{string(rune(c)), "X" + string(rune(c)) + "i"} {
			a := AreaFor(code)
			hasDigit := c >= '1' && c <= '5'
			if hasDigit {
				require.Equal(t, c-'0', a.Number, "code %q", code)
			} else {
				require.Equal(t, SummaryArea, a, "code %q", code)
			}
		}
	}
	require.Len(t, Areas(), 5)
}

func rec(year int, iso3, name, region, code, label string, v float64) reshape.Record {
	return reshape.Record{
		Year: year, CountryCode3: iso3, CountryCode2: iso3[:min(2, len(iso3))], CountryName: name,
		Region: region, Language: "English", IndicatorCode: code, IndicatorLabel: label,
		Value: v, Discrete: reshape.RoundHalfEven(v, 2),
	}
}

func TestBuild_FirstSeenKeys(t *testing.T) {
	t.Parallel()

	recs := []reshape.Record{
		rec(2023, "USA", "United States", "North America", "1A", "Government consumption", 6.4),
		rec(2023, "CAN", "Canada", "North America", "1A", "Government consumption", 5.8),
		rec(2024, "USA", "United States", "North America", "4A", "Tariffs", 8.0),
		rec(2024, "MEX", "Mexico", "Latin America & Caribbean", "N", "Rank", 70),
		rec(2024, "USA", "United States", "North America", "1A", "Government consumption", 6.5),
	}
	m, st := Build(recs)

	require.Equal(t, Stats{Records: 5, Facts: 5}, st)
	require.Equal(t, []Language{{1, "English"}}, m.Languages)
	require.Equal(t, []Region{{1, "North America"}, {2, "Latin America & Caribbean"}}, m.Regions)
	require.Equal(t, []Year{{1, 2023}, {2, 2024}}, m.Years)

	require.Len(t, m.Countries, 3)
	require.Equal(t, "USA", m.Countries[0].ISO3)
	require.Equal(t, "CAN", m.Countries[1].ISO3)
	require.Equal(t, 2, m.Countries[2].RegionKey)
	require.Equal(t, 1, m.Countries[2].LanguageKey)

	require.Equal(t, []AreaRow{
		{1, Area{1, "Size of Government"}},
		{2, Area{4, "Freedom to Trade Internationally"}},
		{3, SummaryArea},
	}, m.Areas)
	require.Equal(t, []Indicator{
		{Key: 1, Code: "1A", Label: "Government consumption", AreaKey: 1},
		{Key: 2, Code: "4A", Label: "Tariffs", AreaKey: 2},
		{Key: 3, Code: "N", Label: "Rank", AreaKey: 3},
	}, m.Indicators)

	last := m.Facts[4]
	require.Equal(t, Fact{Key: 5, IndicatorKey: 1, YearKey: 2, CountryKey: 1, Value: 6.5, Discrete: 6.5}, last)
}

func TestBuild_DuplicatesAndMissingKeys(t *testing.T) {
	t.Parallel()

	recs := []reshape.Record{
		rec(2024, "USA", "United States", "", "N", "Economic Freedom Summary Index", 8.1),
		rec(2024, "USA", "United States", "", "N", "Rank", 5),
		rec(2024, "", "Nowhere", "", "1A", "Government consumption", 1),
		{Year: 2024, CountryCode3: "USA", IndicatorCode: ""},
	}
	m, st := Build(recs)

	require.Equal(t, Stats{Records: 4, Facts: 1, SkippedMissingKey: 2, DuplicateFacts: 1}, st)
	require.Len(t, m.Facts, 1)
	require.Equal(t, 8.1, m.Facts[0].Value, "first record of a repeated triple wins")
	require.Equal(t, "Economic Freedom Summary Index", m.Indicators[0].Label, "first label wins")
	require.Empty(t, m.Regions)
	require.Zero(t, m.Countries[0].RegionKey)
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	m, st := Build(nil)
	require.Empty(t, m.Facts)
	require.Zero(t, st.Records)
}

func TestBuild_LanguageLabels(t *testing.T) {
	t.Parallel()

	spanish := rec(2023, "USA", "Estados Unidos", "North America", "1A", "Consumo del gobierno", 6.4)
	spanish.Language = "Spanish"
	noLang := rec(2023, "CAN", "Canada", "North America", "1A", "Government consumption", 5.8)
	noLang.Language = ""

	m, _ := Build([]reshape.Record{
		rec(2023, "USA", "United States", "North America", "1A", "Government consumption", 6.4),
		rec(2024, "USA", "USA (renamed)", "North America", "1A", "Gov. consumption", 6.5),
		spanish,
		noLang,
		rec(2023, "MEX", "Mexico", "", "4A", "Tariffs", 7),
	})

	require.Equal(t, []Language{{1, "English"}, {2, "Spanish"}}, m.Languages)
	require.Equal(t, []Label{
		{LanguageKey: 1, EntityKey: 1, Text: "North America"},
		{LanguageKey: 2, EntityKey: 1, Text: "North America"},
	}, m.RegionLabels, "a country without a region gets no region label")
	require.Equal(t, []Label{
		{LanguageKey: 1, EntityKey: 1, Text: "United States"},
		{LanguageKey: 2, EntityKey: 1, Text: "Estados Unidos"},
		{LanguageKey: 1, EntityKey: 3, Text: "Mexico"},
	}, m.CountryLabels, "first text per language wins; records without a language add none")
	require.Equal(t, []Label{
		{LanguageKey: 1, EntityKey: 1, Text: "Government consumption"},
		{LanguageKey: 2, EntityKey: 1, Text: "Consumo del gobierno"},
		{LanguageKey: 1, EntityKey: 2, Text: "Tariffs"},
	}, m.IndicatorLabels)
}

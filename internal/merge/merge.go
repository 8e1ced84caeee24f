// Package merge left-joins the areas table onto the metrics table on the
// composite key (country code, year).
package merge

import (
	"fmt"
	"log"
	"strings"

	"efwetl/internal/config"
	"efwetl/internal/errs"
	"efwetl/internal/table"
)

// Spec names the join keys of both tables and the whitelist of secondary
// columns to attach.
type Spec struct {
	PrimaryCountry   string
	PrimaryYear      string
	SecondaryCountry string
	SecondaryYear    string
	Columns          []string
}

// SpecFrom maps the merge section of a pipeline onto a Spec.
func SpecFrom(m config.Merge) Spec {
	return Spec{
		PrimaryCountry:   m.Primary.Country,
		PrimaryYear:      m.Primary.Year,
		SecondaryCountry: m.Secondary.Country,
		SecondaryYear:    m.Secondary.Year,
		Columns:          append([]string(nil), m.Columns...),
	}
}

// Stats summarizes one join.
type Stats struct {
	Rows          int // primary rows, all kept
	Matched       int
	Unmatched     int
	UnknownYear   int // primary rows whose year did not coerce
	DuplicateKeys int // secondary rows ignored because their key repeated
}

type key struct {
	country string
	year    float64
}

// LeftJoin returns a new table holding every row of primary, in order, with
// the year column coerced to float64 (nil when not numeric) and spec.Columns
// appended from the first secondary row sharing its (country, year) key.
// Unmatched rows carry nil in the appended columns.
//
// Secondary headers are trimmed before any lookup. A missing key or
// whitelist column in either table is reported as *errs.SchemaDriftError.
func LeftJoin(primary, secondary table.Table, spec Spec) (table.Table, Stats, error) {
	var st Stats
	secondary = secondary.WithColumns(strings.TrimSpace)

	pc, err := need(primary, spec.PrimaryCountry)
	if err != nil {
		return table.Table{}, st, err
	}
	py, err := need(primary, spec.PrimaryYear)
	if err != nil {
		return table.Table{}, st, err
	}
	sc, err := need(secondary, strings.TrimSpace(spec.SecondaryCountry))
	if err != nil {
		return table.Table{}, st, err
	}
	sy, err := need(secondary, strings.TrimSpace(spec.SecondaryYear))
	if err != nil {
		return table.Table{}, st, err
	}

	pick := make([]int, len(spec.Columns))
	for i, c := range spec.Columns {
		name := strings.TrimSpace(c)
		if j, ok := primary.Index(name); ok {
			return table.Table{}, st, &errs.ConfigError{
				Msg: fmt.Sprintf("merge column %q already present in %s at position %d", name, primary.Name(), j),
			}
		}
		if pick[i], err = need(secondary, name); err != nil {
			return table.Table{}, st, err
		}
	}

	lookup := make(map[key]int, secondary.Len())
	for r := 0; r < secondary.Len(); r++ {
		k, ok := keyOf(secondary, r, sc, sy)
		if !ok {
			continue
		}
		if _, dup := lookup[k]; dup {
			st.DuplicateKeys++
			continue
		}
		lookup[k] = r
	}
	if st.DuplicateKeys > 0 {
		log.Printf("merge: warning: %s has %d duplicate (%s, %s) keys; first occurrence kept",
			secondary.Name(), st.DuplicateKeys, spec.SecondaryCountry, spec.SecondaryYear)
	}

	cols := primary.Columns()
	for _, c := range spec.Columns {
		cols = append(cols, strings.TrimSpace(c))
	}

	rows := make([][]any, primary.Len())
	for r := 0; r < primary.Len(); r++ {
		row := append(primary.Row(r), make([]any, len(pick))...)
		if y, ok := table.Float(row[py]); ok {
			row[py] = y
		} else {
			row[py] = nil
			st.UnknownYear++
		}

		if k, ok := keyOf(primary, r, pc, py); ok {
			if sr, hit := lookup[k]; hit {
				for i, j := range pick {
					row[primary.Width()+i] = secondary.Cell(sr, j)
				}
				st.Matched++
				rows[r] = row
				continue
			}
		}
		st.Unmatched++
		rows[r] = row
	}
	st.Rows = len(rows)

	return table.New(primary.Name(), cols, rows), st, nil
}

func need(t table.Table, col string) (int, error) {
	i, ok := t.Index(col)
	if !ok {
		return -1, &errs.SchemaDriftError{Table: t.Name(), Column: col}
	}
	return i, nil
}

// keyOf builds the join key for row r. Rows without a country code or a
// numeric year never participate in the join.
func keyOf(t table.Table, r, countryCol, yearCol int) (key, bool) {
	c := table.Text(t.Cell(r, countryCol))
	y, ok := table.Float(t.Cell(r, yearCol))
	if c == "" || !ok {
		return key{}, false
	}
	return key{country: c, year: y}, true
}

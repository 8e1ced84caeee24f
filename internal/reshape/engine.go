// Package reshape turns a merged wide table into long-format records, one
// per (wide row, catalog entry) pair.
package reshape

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"efwetl/internal/catalog"
	"efwetl/internal/config"
	"efwetl/internal/errs"
	"efwetl/internal/table"
)

// Columns names the descriptive columns copied onto every record. Region,
// Subregion, and State are optional: when empty or absent from the table
// the record field stays empty.
type Columns struct {
	Year         string
	CountryCode2 string
	CountryCode3 string
	CountryName  string
	SummaryIndex string
	Rank         string
	Quartile     string
	Region       string
	Subregion    string
	State        string
}

// ColumnsFrom maps the pipeline's column section onto Columns.
func ColumnsFrom(c config.BaseColumns) Columns { return Columns(c) }

// Engine applies a catalog to a wide table. The zero value is not usable;
// Columns must name the required base columns.
type Engine struct {
	Columns  Columns
	Language string

	// Workers bounds the catalog entries processed concurrently. Zero means
	// GOMAXPROCS. Output order does not depend on it.
	Workers int

	Verbose bool
}

// Stats counts what Transform kept and dropped.
type Stats struct {
	Entries      int
	Rows         int // wide rows
	Candidates   int // rows x entries
	DroppedYear  int
	DroppedValue int
	Emitted      int
}

// base is the descriptive part of a record, built once per wide row.
type base struct {
	ok     bool
	record Record
}

type baseIndex struct {
	year, iso2, iso3, name, summary, rank, quartile int
	region, subregion, state                        int // -1 when absent
}

// Transform reshapes t against cat.
//
// Every catalog entry is bound to a column before any row is read, so an
// unresolvable entry fails the whole call with a *errs.ConfigError naming
// its code. A required base column missing from t is a
// *errs.SchemaDriftError. Rows without a numeric year or value are dropped
// and counted. The result is sorted by (year, country name, indicator code)
// with ties kept in catalog order.
func (e Engine) Transform(ctx context.Context, t table.Table, cat catalog.Catalog) ([]Record, Stats, error) {
	st := Stats{Entries: cat.Len(), Rows: t.Len(), Candidates: cat.Len() * t.Len()}

	bind, err := cat.Bind(t.Columns())
	if err != nil {
		return nil, st, err
	}
	idx, err := e.resolveBase(t)
	if err != nil {
		return nil, st, err
	}
	bases := e.buildBases(t, idx)

	type part struct {
		recs         []Record
		droppedYear  int
		droppedValue int
	}
	parts := make([]part, bind.Len())

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < bind.Len(); i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, col := bind.Entry(i), bind.Column(i)
			p := part{recs: make([]Record, 0, len(bases))}
			for r, b := range bases {
				if !b.ok {
					p.droppedYear++
					continue
				}
				v, ok := table.Float(t.Cell(r, col))
				if !ok {
					p.droppedValue++
					continue
				}
				rec := b.record
				rec.IndicatorCode = entry.Code
				rec.IndicatorLabel = entry.Label
				rec.Value = v
				rec.Discrete = RoundHalfEven(v, DiscretePlaces)
				p.recs = append(p.recs, rec)
			}
			parts[i] = p
			if e.Verbose {
				log.Printf("reshape: entry=%s column=%q kept=%d dropped_value=%d", entry.Code, bind.Header(i), len(p.recs), p.droppedValue)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, st, fmt.Errorf("reshape: %w", err)
	}

	n := 0
	for _, p := range parts {
		n += len(p.recs)
	}
	out := make([]Record, 0, n)
	for _, p := range parts {
		out = append(out, p.recs...)
		st.DroppedYear += p.droppedYear
		st.DroppedValue += p.droppedValue
	}
	SortRecords(out)
	st.Emitted = len(out)
	return out, st, nil
}

// SortRecords orders records by year, then country name, then indicator
// code, comparing strings byte-wise. The sort is stable.
func SortRecords(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := &recs[i], &recs[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.CountryName != b.CountryName {
			return a.CountryName < b.CountryName
		}
		return a.IndicatorCode < b.IndicatorCode
	})
}

func (e Engine) resolveBase(t table.Table) (baseIndex, error) {
	need := func(col string) (int, error) {
		if i, ok := t.Index(col); ok && col != "" {
			return i, nil
		}
		return -1, &errs.SchemaDriftError{Table: t.Name(), Column: col}
	}
	opt := func(col string) int {
		if col == "" {
			return -1
		}
		if i, ok := t.Index(col); ok {
			return i
		}
		return -1
	}

	var (
		idx baseIndex
		err error
	)
	for _, f := range []struct {
		dst *int
		col string
	}{
		{&idx.year, e.Columns.Year},
		{&idx.iso2, e.Columns.CountryCode2},
		{&idx.iso3, e.Columns.CountryCode3},
		{&idx.name, e.Columns.CountryName},
		{&idx.summary, e.Columns.SummaryIndex},
		{&idx.rank, e.Columns.Rank},
		{&idx.quartile, e.Columns.Quartile},
	} {
		if *f.dst, err = need(f.col); err != nil {
			return baseIndex{}, err
		}
	}
	idx.region = opt(e.Columns.Region)
	idx.subregion = opt(e.Columns.Subregion)
	idx.state = opt(e.Columns.State)
	return idx, nil
}

func (e Engine) buildBases(t table.Table, idx baseIndex) []base {
	text := func(r, c int) string {
		if c < 0 {
			return ""
		}
		return table.Text(t.Cell(r, c))
	}
	out := make([]base, t.Len())
	for r := range out {
		y, ok := table.Float(t.Cell(r, idx.year))
		if !ok {
			continue
		}
		out[r] = base{ok: true, record: Record{
			Year:         int(y),
			CountryCode2: text(r, idx.iso2),
			CountryCode3: text(r, idx.iso3),
			CountryName:  text(r, idx.name),
			Region:       text(r, idx.region),
			Subregion:    text(r, idx.subregion),
			Language:     e.Language,
			State:        text(r, idx.state),
			SummaryIndex: table.FloatPtr(t.Cell(r, idx.summary)),
			Rank:         table.FloatPtr(t.Cell(r, idx.rank)),
			Quartile:     table.FloatPtr(t.Cell(r, idx.quartile)),
		}}
	}
	return out
}

// Package csv reads wide-format CSV exports (one row per country-year) into
// immutable table.Table values. It handles the quirks of spreadsheet
// exports: a preamble of banner lines above the header, a UTF-8 BOM on the
// first header cell, ragged trailing columns, and mixed Unicode
// normalization forms in country names.
package csv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"

	"efwetl/internal/config"
	"efwetl/internal/table"
)

// Options configures the wide reader. All fields are optional.
type Options struct {
	// SkipRows drops this many physical lines before the header row.
	SkipRows int

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from data cells. Header cells
	// are never trimmed here; callers decide whether whitespace in header
	// names is significant.
	TrimSpace bool

	// NormalizeUnicode rewrites text cells to NFC so that visually identical
	// country names compare equal.
	NormalizeUnicode bool

	// MaxLoggedSkips caps per-row skip logs. Zero means 20.
	MaxLoggedSkips int
}

// OptionsFrom maps a parser options bag onto Options.
//
// Recognized keys: skip_rows (int), comma (string), trim_space (bool,
// default true), normalize_unicode (bool, default true).
func OptionsFrom(o config.Options) Options {
	return Options{
		SkipRows:         o.Int("skip_rows", 0),
		Comma:            o.Rune("comma", ','),
		TrimSpace:        o.Bool("trim_space", true),
		NormalizeUnicode: o.Bool("normalize_unicode", true),
	}
}

// ReadWide parses r into a Table named name. It returns the table and the
// number of data rows skipped because they had more fields than the header.
// Rows with fewer fields are padded with nil cells.
func ReadWide(r io.Reader, name string, opt Options) (table.Table, int, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	for i := 0; i < opt.SkipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return table.Table{}, 0, fmt.Errorf("%s: input ended inside %d-line preamble", name, opt.SkipRows)
			}
			return table.Table{}, 0, fmt.Errorf("%s: skip preamble: %w", name, err)
		}
	}

	cr := csv.NewReader(br)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return table.Table{}, 0, fmt.Errorf("%s: read csv header: %w", name, err)
	}
	header = StripHeaderBOM(append([]string(nil), header...))

	limit := opt.MaxLoggedSkips
	if limit <= 0 {
		limit = 20
	}

	var (
		rows    [][]any
		skipped int
	)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < limit {
				log.Printf("csv: %s: skipping row %d: %v", name, line, err)
			}
			skipped++
			continue
		}
		if len(rec) > len(header) && !blankTail(rec[len(header):]) {
			if skipped < limit {
				log.Printf("csv: %s: skipping row %d: incorrect number of fields (expected %d, got %d)", name, line, len(header), len(rec))
			}
			skipped++
			continue
		}
		if isBlank(rec) {
			continue
		}

		row := make([]any, len(header))
		for i := 0; i < len(header) && i < len(rec); i++ {
			val := rec[i]
			if opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			if opt.NormalizeUnicode && !norm.NFC.IsNormalString(val) {
				val = norm.NFC.String(val)
			}
			row[i] = emptyToNil(val)
		}
		rows = append(rows, row)
	}

	return table.New(name, header, rows), skipped, nil
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func blankTail(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isBlank(rec []string) bool { return blankTail(rec) }

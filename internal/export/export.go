// Package export writes long-format records as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zeebo/xxh3"

	"efwetl/internal/normalize"
	"efwetl/internal/reshape"
)

// Options controls the CSV layout.
type Options struct {
	// IncludeDiscrete appends the "Value - Discrete" column.
	IncludeDiscrete bool

	// Limit caps the number of data rows written. Zero writes all.
	Limit int
}

// Result describes one written file.
type Result struct {
	Rows int
	// Fingerprint is the xxh3 hash of the bytes written; identical inputs
	// produce identical fingerprints.
	Fingerprint uint64
}

var baseHeader = []string{
	"Year", "ISO Code 2", "ISO Code 3", "Countries", "Region", "Subregion",
	"Language", "State", "Economic Freedom Summary Index", "Rank", "Quartile",
	"Area", "Indicator Code", "Indicator", "Value - Continuous",
}

// Header returns the column order of the export.
func Header(includeDiscrete bool) []string {
	h := append([]string(nil), baseHeader...)
	if includeDiscrete {
		h = append(h, "Value - Discrete")
	}
	return h
}

// Write encodes recs to w in the given order.
func Write(w io.Writer, recs []reshape.Record, opt Options) (Result, error) {
	h := xxh3.New()
	cw := csv.NewWriter(io.MultiWriter(w, h))
	if err := cw.Write(Header(opt.IncludeDiscrete)); err != nil {
		return Result{}, err
	}

	n := len(recs)
	if opt.Limit > 0 && opt.Limit < n {
		n = opt.Limit
	}
	row := make([]string, 0, len(baseHeader)+1)
	for _, r := range recs[:n] {
		row = append(row[:0],
			strconv.Itoa(r.Year),
			r.CountryCode2,
			r.CountryCode3,
			r.CountryName,
			r.Region,
			r.Subregion,
			r.Language,
			r.State,
			optFloat(r.SummaryIndex),
			optFloat(r.Rank),
			optFloat(r.Quartile),
			normalize.AreaFor(r.IndicatorCode).Name,
			r.IndicatorCode,
			r.IndicatorLabel,
			formatFloat(r.Value),
		)
		if opt.IncludeDiscrete {
			row = append(row, strconv.FormatFloat(r.Discrete, 'f', reshape.DiscretePlaces, 64))
		}
		if err := cw.Write(row); err != nil {
			return Result{}, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return Result{}, err
	}
	return Result{Rows: n, Fingerprint: h.Sum64()}, nil
}

// WriteFile writes recs to path through a temporary file in the same
// directory, renamed into place once complete.
func WriteFile(path string, recs []reshape.Record, opt Options) (Result, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("export: create dir %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return Result{}, fmt.Errorf("export: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	res, err := Write(f, recs, opt)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Result{}, fmt.Errorf("export %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return Result{}, fmt.Errorf("export: %w", err)
	}
	return res, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// Package catalog holds the ordered, declarative list of indicators the
// reshape stage extracts from a wide table, and resolves each entry to
// exactly one column.
//
// A Catalog is an immutable value. Build it once (Default, Load, or New)
// and share it; Bind validates it against a concrete header row and returns
// the explicit column index map used by the reshape stage.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"efwetl/internal/errs"
)

// Entry describes one indicator. Codes are not required to be unique: a
// later entry may re-derive the same code from a different column.
type Entry struct {
	Code   string    `json:"code" yaml:"code"`
	Label  string    `json:"label" yaml:"label"`
	Column ColumnRef `json:"column" yaml:"column"`

	// Expect, when set, is the header name the resolved column must carry.
	// It guards positional and letter references against upstream column
	// reordering.
	Expect string `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Resolve locates e's column in headers and checks Expect.
func (e Entry) Resolve(headers []string) (int, error) {
	i, err := Resolve(e.Column, headers)
	if err != nil {
		var ce *errs.ConfigError
		if errors.As(err, &ce) {
			ce.Code = e.Code
		}
		return -1, err
	}
	if e.Expect != "" && strings.TrimSpace(headers[i]) != strings.TrimSpace(e.Expect) {
		return -1, errs.Configf(e.Code, "%s resolved to column %q, expected %q", e.Column, headers[i], e.Expect)
	}
	return i, nil
}

// Catalog is an ordered, immutable sequence of entries.
type Catalog struct {
	entries []Entry
}

// New validates entries and returns a Catalog holding a private copy.
func New(entries ...Entry) (Catalog, error) {
	if len(entries) == 0 {
		return Catalog{}, &errs.ConfigError{Msg: "catalog has no entries"}
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Code) == "" {
			return Catalog{}, &errs.ConfigError{Msg: fmt.Sprintf("catalog entry %d has an empty code", i)}
		}
		switch e.Column.Kind {
		case ByName:
			if e.Column.Name == "" {
				return Catalog{}, errs.Configf(e.Code, "empty column name")
			}
		case ByLetter, ByPosition:
		default:
			return Catalog{}, errs.Configf(e.Code, "missing column reference")
		}
	}
	return Catalog{entries: append([]Entry(nil), entries...)}, nil
}

// MustNew is New that panics; for package-level catalogs built from literals.
func MustNew(entries ...Entry) Catalog {
	c, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len is the number of entries.
func (c Catalog) Len() int { return len(c.entries) }

// Entry returns the i-th entry.
func (c Catalog) Entry(i int) Entry { return c.entries[i] }

// Entries returns a copy of the entry list.
func (c Catalog) Entries() []Entry { return append([]Entry(nil), c.entries...) }

// DuplicateCodes lists codes that occur more than once, in first-seen order.
func (c Catalog) DuplicateCodes() []string {
	seen := make(map[string]int, len(c.entries))
	var dups []string
	for _, e := range c.entries {
		seen[e.Code]++
		if seen[e.Code] == 2 {
			dups = append(dups, e.Code)
		}
	}
	return dups
}

// Binding is a catalog validated against one header row: entry i reads
// column Column(i).
type Binding struct {
	catalog Catalog
	columns []int
	headers []string
}

// Bind resolves every entry against headers. The first failing entry is
// returned as a *errs.ConfigError naming its code.
func (c Catalog) Bind(headers []string) (Binding, error) {
	cols := make([]int, len(c.entries))
	for i, e := range c.entries {
		j, err := e.Resolve(headers)
		if err != nil {
			return Binding{}, err
		}
		cols[i] = j
	}
	return Binding{catalog: c, columns: cols, headers: append([]string(nil), headers...)}, nil
}

// Len is the number of bound entries.
func (b Binding) Len() int { return len(b.columns) }

// Entry returns the i-th entry.
func (b Binding) Entry(i int) Entry { return b.catalog.entries[i] }

// Column returns the column index bound to entry i.
func (b Binding) Column(i int) int { return b.columns[i] }

// Header returns the header name bound to entry i.
func (b Binding) Header(i int) string { return b.headers[b.columns[i]] }

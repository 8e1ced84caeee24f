package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"efwetl/internal/errs"
	"efwetl/internal/normalize"
)

// LoadOptions configures Load.
type LoadOptions struct {
	// LockName names the backend lock; loads sharing it never interleave.
	LockName string

	// ProcessKey identifies the store for the in-process lock, typically
	// kind and DSN. Empty falls back to LockName.
	ProcessKey string

	// LockTimeout bounds the wait for the backend lock. Zero waits as long
	// as the backend allows.
	LockTimeout time.Duration

	Verbose bool
}

// TableStats counts rows of one table touched by a load.
type TableStats struct {
	Inserted int
	Existing int
}

// LoadStats reports a load per table.
type LoadStats struct {
	Languages  TableStats
	Regions    TableStats
	Countries  TableStats
	Years      TableStats
	Areas      TableStats
	Indicators TableStats
	Facts      TableStats

	RegionLabels    TableStats
	CountryLabels   TableStats
	IndicatorLabels TableStats
}

// Inserted is the total number of new rows.
func (s LoadStats) Inserted() int {
	return s.Languages.Inserted + s.Regions.Inserted + s.Countries.Inserted + s.Years.Inserted +
		s.Areas.Inserted + s.Indicators.Inserted + s.Facts.Inserted +
		s.RegionLabels.Inserted + s.CountryLabels.Inserted + s.IndicatorLabels.Inserted
}

// Load writes m into repo in one transaction.
//
// The transaction first takes the store's exclusive load lock. Each
// dimension row is looked up by its natural key; stored rows keep their id
// and new rows get ids after the table's current maximum in model order.
// Facts are inserted only when their (year, country, indicator) triple is
// absent, and labels only when their (language, entity) pair is, so loading
// the same model again changes nothing.
//
// Any failure rolls the transaction back and is returned as
// *errs.LoadIntegrityError; the load can be retried from the same model.
func Load(ctx context.Context, repo Repository, m normalize.Model, opt LoadOptions) (LoadStats, error) {
	var st LoadStats
	if opt.LockName == "" {
		opt.LockName = "efw_load"
	}
	key := opt.ProcessKey
	if key == "" {
		key = opt.LockName
	}

	release, err := acquireProcess(ctx, key)
	if err != nil {
		return st, &errs.LoadIntegrityError{Stage: "acquire process lock", Err: err}
	}
	defer release()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return st, &errs.LoadIntegrityError{Stage: "begin", Err: err}
	}
	l := &loader{tx: tx, d: repo.Dialect(), verbose: opt.Verbose}

	fail := func(stage string, err error) (LoadStats, error) {
		// Rollback gets its own context so a canceled load still releases
		// the transaction and the backend lock.
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if rbErr := tx.Rollback(rbCtx); rbErr != nil {
			log.Printf("load: rollback after %s failed: %v", stage, rbErr)
		}
		return LoadStats{}, &errs.LoadIntegrityError{Stage: stage, Err: err}
	}

	if err := tx.Lock(ctx, opt.LockName, opt.LockTimeout); err != nil {
		return fail("lock "+opt.LockName, err)
	}

	langIDs, err := l.dimension(ctx, dimLanguage, len(m.Languages), &st.Languages, func(i int) (any, []any) {
		r := m.Languages[i]
		return r.Name, []any{r.Name}
	})
	if err != nil {
		return fail("load "+TableLanguage, err)
	}
	regionIDs, err := l.dimension(ctx, dimRegion, len(m.Regions), &st.Regions, func(i int) (any, []any) {
		r := m.Regions[i]
		return r.Name, []any{r.Name}
	})
	if err != nil {
		return fail("load "+TableRegion, err)
	}
	areaIDs, err := l.dimension(ctx, dimArea, len(m.Areas), &st.Areas, func(i int) (any, []any) {
		r := m.Areas[i]
		return r.Name, []any{r.Number, r.Name}
	})
	if err != nil {
		return fail("load "+TableArea, err)
	}
	yearIDs, err := l.dimension(ctx, dimYear, len(m.Years), &st.Years, func(i int) (any, []any) {
		r := m.Years[i]
		return r.Value, []any{r.Value}
	})
	if err != nil {
		return fail("load "+TableYear, err)
	}
	countryIDs, err := l.dimension(ctx, dimCountry, len(m.Countries), &st.Countries, func(i int) (any, []any) {
		r := m.Countries[i]
		return r.ISO3, []any{r.ISO3, r.ISO2, r.Name, nullString(r.Subregion), ref(regionIDs, r.RegionKey), ref(langIDs, r.LanguageKey)}
	})
	if err != nil {
		return fail("load "+TableCountry, err)
	}
	indicatorIDs, err := l.dimension(ctx, dimIndicator, len(m.Indicators), &st.Indicators, func(i int) (any, []any) {
		r := m.Indicators[i]
		return r.Code, []any{r.Code, r.Label, ref(areaIDs, r.AreaKey)}
	})
	if err != nil {
		return fail("load "+TableIndicator, err)
	}

	for _, lb := range []struct {
		lt     labelTable
		labels []normalize.Label
		ids    []int64
		st     *TableStats
	}{
		{labelRegion, m.RegionLabels, regionIDs, &st.RegionLabels},
		{labelCountry, m.CountryLabels, countryIDs, &st.CountryLabels},
		{labelIndicator, m.IndicatorLabels, indicatorIDs, &st.IndicatorLabels},
	} {
		if err := l.labels(ctx, lb.lt, lb.labels, langIDs, lb.ids, lb.st); err != nil {
			return fail("load "+lb.lt.table, err)
		}
	}

	if err := l.facts(ctx, m.Facts, yearIDs, countryIDs, indicatorIDs, &st.Facts); err != nil {
		return fail("load "+TableFact, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fail("commit", err)
	}
	return st, nil
}

type loader struct {
	tx      Tx
	d       Dialect
	verbose bool
}

// dimension maps n model rows (local key i+1) onto stored ids. row returns
// the natural key and the non-id insert values of row i.
func (l *loader) dimension(ctx context.Context, dim dimension, n int, st *TableStats, row func(i int) (any, []any)) ([]int64, error) {
	ids := make([]int64, n+1) // index = local key
	if n == 0 {
		return ids, nil
	}
	next, err := l.maxID(ctx, dim.table)
	if err != nil {
		return nil, err
	}

	lookup := fmt.Sprintf("SELECT id FROM %s WHERE %s = %s", dim.table, dim.naturalKey, l.d.Placeholder(1))
	var pending [][]any
	for i := 0; i < n; i++ {
		nk, vals := row(i)
		got, err := l.tx.QueryInts(ctx, lookup, nk)
		if err != nil {
			return nil, fmt.Errorf("lookup %s %v: %w", dim.table, nk, err)
		}
		if len(got) > 0 {
			ids[i+1] = got[0][0]
			st.Existing++
			continue
		}
		next++
		ids[i+1] = next
		pending = append(pending, append([]any{next}, vals...))
	}
	if _, err := insertBatches(ctx, l.tx, l.d, dim.table, dim.columns, pending, l.verbose); err != nil {
		return nil, err
	}
	st.Inserted = len(pending)
	return ids, nil
}

type triple struct{ year, country, indicator int64 }

func (l *loader) facts(ctx context.Context, facts []normalize.Fact, yearIDs, countryIDs, indicatorIDs []int64, st *TableStats) error {
	if len(facts) == 0 {
		return nil
	}
	existing, err := l.tx.QueryInts(ctx, fmt.Sprintf("SELECT year_id, country_id, indicator_id FROM %s", TableFact))
	if err != nil {
		return fmt.Errorf("scan %s: %w", TableFact, err)
	}
	seen := make(map[triple]struct{}, len(existing)+len(facts))
	for _, r := range existing {
		seen[triple{r[0], r[1], r[2]}] = struct{}{}
	}

	next, err := l.maxID(ctx, TableFact)
	if err != nil {
		return err
	}
	var pending [][]any
	for _, f := range facts {
		k := triple{yearIDs[f.YearKey], countryIDs[f.CountryKey], indicatorIDs[f.IndicatorKey]}
		if _, ok := seen[k]; ok {
			st.Existing++
			continue
		}
		seen[k] = struct{}{}
		next++
		pending = append(pending, []any{next, k.indicator, k.year, k.country, f.Value, f.Discrete})
	}
	n, err := insertBatches(ctx, l.tx, l.d, TableFact, factColumns, pending, l.verbose)
	if err != nil {
		return err
	}
	st.Inserted = int(n)
	return nil
}

// labels inserts the labels whose (language, entity) pair is not stored
// yet. Stored labels are never rewritten.
func (l *loader) labels(ctx context.Context, lt labelTable, labels []normalize.Label, langIDs, entityIDs []int64, st *TableStats) error {
	if len(labels) == 0 {
		return nil
	}
	existing, err := l.tx.QueryInts(ctx, fmt.Sprintf("SELECT language_id, %s FROM %s", lt.entity, lt.table))
	if err != nil {
		return fmt.Errorf("scan %s: %w", lt.table, err)
	}
	seen := make(map[[2]int64]struct{}, len(existing)+len(labels))
	for _, r := range existing {
		seen[[2]int64{r[0], r[1]}] = struct{}{}
	}

	var pending [][]any
	for _, lb := range labels {
		k := [2]int64{langIDs[lb.LanguageKey], entityIDs[lb.EntityKey]}
		if _, ok := seen[k]; ok {
			st.Existing++
			continue
		}
		seen[k] = struct{}{}
		pending = append(pending, []any{k[0], k[1], lb.Text})
	}
	n, err := insertBatches(ctx, l.tx, l.d, lt.table, lt.columns(), pending, l.verbose)
	if err != nil {
		return err
	}
	st.Inserted = int(n)
	return nil
}

func (l *loader) maxID(ctx context.Context, table string) (int64, error) {
	rows, err := l.tx.QueryInts(ctx, fmt.Sprintf("SELECT COALESCE(MAX(id), 0) FROM %s", table))
	if err != nil {
		return 0, fmt.Errorf("max id of %s: %w", table, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return rows[0][0], nil
}

// ref maps a local key onto its stored id; local key 0 is NULL.
func ref(ids []int64, local int) any {
	if local <= 0 || local >= len(ids) {
		return nil
	}
	return ids[local]
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"efwetl/internal/catalog"
	"efwetl/internal/config"
	"efwetl/internal/datasource"
	"efwetl/internal/errs"
	"efwetl/internal/export"
	"efwetl/internal/merge"
	"efwetl/internal/metrics"
	"efwetl/internal/normalize"
	csvparser "efwetl/internal/parser/csv"
	"efwetl/internal/reshape"
	"efwetl/internal/storage"
	"efwetl/internal/table"
)

// Function variables used to introduce test seams.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	openSourceFn = openSource
)

// runOptions are the CLI switches that are not part of the pipeline file.
type runOptions struct {
	RunID    string
	Verbose  bool
	SkipLoad bool
}

// runtimeConfig holds concurrency settings resolved from the pipeline and
// EFW_* environment overrides.
type runtimeConfig struct {
	reshapeWorkers int
	lockTimeout    time.Duration
}

func newRuntimeConfig(p config.Pipeline) runtimeConfig {
	return runtimeConfig{
		reshapeWorkers: pickInt(p.Runtime.ReshapeWorkers, getenvInt("EFW_RESHAPE_WORKERS", runtime.GOMAXPROCS(0))),
		lockTimeout:    time.Duration(pickInt(p.Runtime.LockTimeoutSeconds, getenvInt("EFW_LOCK_TIMEOUT_SECONDS", 0))) * time.Second,
	}
}

// runResult collects the per-stage statistics of one run.
type runResult struct {
	MetricsSkipped int // primary rows dropped by the reader
	AreasSkipped   int
	Merge          merge.Stats
	Reshape        reshape.Stats
	Export         export.Result
	Head           export.Result
	Normalize      normalize.Stats
	Load           storage.LoadStats
	Loaded         bool
}

// run executes one pipeline. Every stage consumes the immutable output of
// the previous one; only the load touches shared state.
func run(ctx context.Context, p config.Pipeline, opt runOptions) (runResult, error) {
	var res runResult
	rt := newRuntimeConfig(p)
	tag := "run=" + opt.RunID

	step := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		metrics.RecordStep(p.Job, name, err, time.Since(start))
		if opt.Verbose {
			log.Printf("%s: step=%s took=%s err=%v", tag, name, time.Since(start).Truncate(time.Millisecond), err)
		}
		return err
	}

	// 1) Read both wide tables concurrently.
	var primary, secondary table.Table
	err := step("read", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			primary, res.MetricsSkipped, err = readTable(gctx, "metrics", p.Sources.Metrics)
			return err
		})
		g.Go(func() error {
			var err error
			secondary, res.AreasSkipped, err = readTable(gctx, "areas", p.Sources.Areas)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return res, err
	}
	metrics.RecordRows(p.Job, "rows_read", int64(primary.Len()+secondary.Len()))
	metrics.RecordRows(p.Job, "rows_skipped", int64(res.MetricsSkipped+res.AreasSkipped))

	// 2) Attach area scores to each metrics row.
	var merged table.Table
	if err := step("merge", func() error {
		var err error
		merged, res.Merge, err = merge.LeftJoin(primary, secondary, merge.SpecFrom(p.Merge))
		return err
	}); err != nil {
		return res, err
	}
	metrics.RecordRows(p.Job, "unmatched_join", int64(res.Merge.Unmatched))

	// 3) Wide → long.
	var recs []reshape.Record
	if err := step("reshape", func() error {
		cat, err := catalog.Load(p.Catalog.Path)
		if err != nil {
			return err
		}
		eng := reshape.Engine{
			Columns:  reshape.ColumnsFrom(p.Columns),
			Language: p.Language,
			Workers:  rt.reshapeWorkers,
			Verbose:  opt.Verbose,
		}
		recs, res.Reshape, err = eng.Transform(ctx, merged, cat)
		return err
	}); err != nil {
		return res, err
	}
	metrics.RecordRows(p.Job, "records_emitted", int64(res.Reshape.Emitted))
	metrics.RecordRows(p.Job, "dropped_year", int64(res.Reshape.DroppedYear))
	metrics.RecordRows(p.Job, "dropped_value", int64(res.Reshape.DroppedValue))

	// 4) Long-format CSV and the optional head sample.
	if p.Export.Path != "" || p.Export.HeadPath != "" {
		if err := step("export", func() error {
			var err error
			if p.Export.Path != "" {
				res.Export, err = export.WriteFile(p.Export.Path, recs, export.Options{IncludeDiscrete: p.Export.IncludeDiscrete})
				if err != nil {
					return err
				}
			}
			if p.Export.HeadPath != "" {
				res.Head, err = export.WriteFile(p.Export.HeadPath, recs, export.Options{
					IncludeDiscrete: p.Export.IncludeDiscrete,
					Limit:           p.Export.HeadRows,
				})
			}
			return err
		}); err != nil {
			return res, err
		}
	}

	// 5) Dimensional model.
	var model normalize.Model
	if err := step("normalize", func() error {
		model, res.Normalize = normalize.Build(recs)
		if len(recs) > 0 && res.Normalize.Facts == 0 {
			return &errs.ConfigError{Msg: fmt.Sprintf(
				"none of %d records has a country code (%q) and indicator code", len(recs), p.Columns.CountryCode3)}
		}
		return nil
	}); err != nil {
		return res, err
	}

	// 6) Load.
	if p.Storage.Kind != "none" && !opt.SkipLoad {
		if err := step("load", func() error {
			var err error
			res.Load, err = load(ctx, p, rt, model, opt.Verbose)
			return err
		}); err != nil {
			return res, err
		}
		res.Loaded = true
		recordLoaded(p.Job, res.Load)
	}

	logSummary(tag, p, res)
	return res, nil
}

// readTable opens one source and parses it as a wide CSV.
func readTable(ctx context.Context, name string, s config.Source) (table.Table, int, error) {
	rc, err := openSourceFn(ctx, s)
	if err != nil {
		return table.Table{}, 0, err
	}
	defer rc.Close()
	t, skipped, err := csvparser.ReadWide(rc, name, csvparser.OptionsFrom(s.Parser.Options))
	if err != nil {
		return table.Table{}, 0, fmt.Errorf("read %s: %w", name, err)
	}
	return t, skipped, nil
}

func openSource(ctx context.Context, s config.Source) (io.ReadCloser, error) {
	src, err := datasource.FromConfig(s)
	if err != nil {
		return nil, err
	}
	return src.Open(ctx)
}

func load(ctx context.Context, p config.Pipeline, rt runtimeConfig, m normalize.Model, verbose bool) (storage.LoadStats, error) {
	repo, err := newRepositoryFn(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN})
	if err != nil {
		return storage.LoadStats{}, fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	if p.Storage.DB.AutoCreateSchema {
		if err := storage.EnsureSchema(ctx, p.Storage.Kind, repo); err != nil {
			return storage.LoadStats{}, fmt.Errorf("apply DDL: %w", err)
		}
	}
	return storage.Load(ctx, repo, m, storage.LoadOptions{
		LockName:    p.Storage.DB.LockName,
		ProcessKey:  p.Storage.Kind + "|" + p.Storage.DB.DSN,
		LockTimeout: rt.lockTimeout,
		Verbose:     verbose,
	})
}

func recordLoaded(job string, st storage.LoadStats) {
	for _, t := range []struct {
		table string
		n     int
	}{
		{storage.TableLanguage, st.Languages.Inserted},
		{storage.TableRegion, st.Regions.Inserted},
		{storage.TableArea, st.Areas.Inserted},
		{storage.TableYear, st.Years.Inserted},
		{storage.TableCountry, st.Countries.Inserted},
		{storage.TableIndicator, st.Indicators.Inserted},
		{storage.TableFact, st.Facts.Inserted},
		{storage.TableRegionLabel, st.RegionLabels.Inserted},
		{storage.TableCountryLabel, st.CountryLabels.Inserted},
		{storage.TableIndicatorLabel, st.IndicatorLabels.Inserted},
	} {
		metrics.RecordLoaded(job, t.table, t.n)
	}
}

func logSummary(tag string, p config.Pipeline, res runResult) {
	c := func(n int) string { return humanize.Comma(int64(n)) }

	log.Printf("%s: merge: rows=%s matched=%s unmatched=%s duplicate_keys=%s",
		tag, c(res.Merge.Rows), c(res.Merge.Matched), c(res.Merge.Unmatched), c(res.Merge.DuplicateKeys))
	log.Printf("%s: reshape: entries=%d candidates=%s emitted=%s dropped_year=%s dropped_value=%s",
		tag, res.Reshape.Entries, c(res.Reshape.Candidates), c(res.Reshape.Emitted),
		c(res.Reshape.DroppedYear), c(res.Reshape.DroppedValue))
	if p.Export.Path != "" {
		log.Printf("%s: export: path=%s rows=%s fingerprint=%016x", tag, p.Export.Path, c(res.Export.Rows), res.Export.Fingerprint)
	}
	log.Printf("%s: normalize: facts=%s skipped_missing_key=%s duplicate_facts=%s",
		tag, c(res.Normalize.Facts), c(res.Normalize.SkippedMissingKey), c(res.Normalize.DuplicateFacts))
	if res.Loaded {
		log.Printf("%s: load: kind=%s inserted=%s facts_inserted=%s facts_existing=%s",
			tag, p.Storage.Kind, c(res.Load.Inserted()), c(res.Load.Facts.Inserted), c(res.Load.Facts.Existing))
	}
}

// getenvInt reads an integer env var, falling back to def.
func getenvInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// pickInt chooses the first positive value 'a', otherwise returns 'b'.
func pickInt(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}

package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "sources.areas.file.path"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is of SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate p. Callers typically apply WithDefaults first.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource("sources.metrics", p.Sources.Metrics)...)
	issues = append(issues, validateSource("sources.areas", p.Sources.Areas)...)
	issues = append(issues, validateMerge(p.Merge)...)
	issues = append(issues, validateColumns(p.Columns)...)
	issues = append(issues, validateExport(p.Export)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateRuntime(p.Runtime)...)

	return issues
}

func validateSource(path string, s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  "source kind must not be empty",
		})
	}
	if s.Kind != "file" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  fmt.Sprintf("unsupported source kind %q", s.Kind),
		})
	} else if strings.TrimSpace(s.File.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".file.path",
			Message:  "file source requires a non-empty path",
		})
	}

	if s.Parser.Kind != "csv" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".parser.kind",
			Message:  fmt.Sprintf("unsupported parser kind %q", s.Parser.Kind),
		})
	}
	if n := s.Parser.Options.Int("skip_rows", 0); n < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".parser.options.skip_rows",
			Message:  "skip_rows must not be negative",
		})
	}
	return issues
}

func validateMerge(m Merge) []Issue {
	var issues []Issue
	for _, k := range []struct{ path, v string }{
		{"merge.primary.country", m.Primary.Country},
		{"merge.primary.year", m.Primary.Year},
		{"merge.secondary.country", m.Secondary.Country},
		{"merge.secondary.year", m.Secondary.Year},
	} {
		if strings.TrimSpace(k.v) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: k.path, Message: "join key column must not be empty"})
		}
	}
	if len(m.Columns) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "merge.columns",
			Message:  "no secondary columns whitelisted; the merge only validates keys",
		})
	}
	seen := map[string]struct{}{}
	for i, c := range m.Columns {
		if _, dup := seen[c]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("merge.columns[%d]", i),
				Message:  fmt.Sprintf("column %q listed twice", c),
			})
		}
		seen[c] = struct{}{}
	}
	return issues
}

func validateColumns(c BaseColumns) []Issue {
	var issues []Issue
	for _, k := range []struct{ path, v string }{
		{"columns.year", c.Year},
		{"columns.country_code2", c.CountryCode2},
		{"columns.country_code3", c.CountryCode3},
		{"columns.country_name", c.CountryName},
		{"columns.summary_index", c.SummaryIndex},
		{"columns.rank", c.Rank},
		{"columns.quartile", c.Quartile},
	} {
		if k.v == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: k.path, Message: "base column must not be empty"})
		}
	}
	return issues
}

func validateExport(e Export) []Issue {
	var issues []Issue
	if e.HeadRows < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "export.head_rows",
			Message:  "head_rows must not be negative",
		})
	}
	if e.HeadPath != "" && e.HeadPath == e.Path {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "export.head_path",
			Message:  "head_path must differ from path",
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	switch s.Kind {
	case "none":
		return nil
	case "postgres", "mysql", "mssql", "sqlite":
	case "":
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(s.DB.LockName) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.lock_name",
			Message:  "lock_name must not be empty",
		})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue
	if r.ReshapeWorkers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.reshape_workers",
			Message:  "reshape_workers must not be negative",
		})
	}
	if r.LockTimeoutSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.lock_timeout_seconds",
			Message:  "lock_timeout_seconds must not be negative",
		})
	}
	return issues
}

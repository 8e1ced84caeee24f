package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func validPipeline() Pipeline {
	return Pipeline{
		Job: "efw",
		Sources: Sources{
			Metrics: Source{File: SourceFile{Path: "m.csv"}},
			Areas:   Source{File: SourceFile{Path: "a.csv"}},
		},
		Storage: Storage{Kind: "postgres", DB: DBConfig{DSN: "postgres://u@localhost/efw"}},
	}.WithDefaults()
}

func TestValidatePipeline_ValidMinimal(t *testing.T) {
	t.Parallel()

	if issues := ValidatePipeline(validPipeline()); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidatePipeline_Findings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(p *Pipeline)
		sev    IssueSeverity
		path   string
		substr string
	}{
		{"empty job", func(p *Pipeline) { p.Job = " " }, SeverityError, "job", "must not be empty"},
		{"missing areas path", func(p *Pipeline) { p.Sources.Areas.File.Path = "" }, SeverityError, "sources.areas.file.path", "non-empty path"},
		{"unsupported source", func(p *Pipeline) { p.Sources.Metrics.Kind = "http" }, SeverityError, "sources.metrics.kind", "unsupported"},
		{"unsupported parser", func(p *Pipeline) { p.Sources.Metrics.Parser.Kind = "xlsx" }, SeverityError, "sources.metrics.parser.kind", "unsupported"},
		{"negative skip rows", func(p *Pipeline) { p.Sources.Metrics.Parser.Options = Options{"skip_rows": float64(-1)} }, SeverityError, "sources.metrics.parser.options.skip_rows", "negative"},
		{"empty join key", func(p *Pipeline) { p.Merge.Secondary.Year = "" }, SeverityError, "merge.secondary.year", "must not be empty"},
		{"duplicate whitelist", func(p *Pipeline) { p.Merge.Columns = []string{"Area 1", "Area 1"} }, SeverityError, "merge.columns[1]", "twice"},
		{"empty base column", func(p *Pipeline) { p.Columns.Rank = "" }, SeverityError, "columns.rank", "must not be empty"},
		{"head path collides", func(p *Pipeline) { p.Export.Path, p.Export.HeadPath = "x.csv", "x.csv" }, SeverityError, "export.head_path", "differ"},
		{"missing dsn", func(p *Pipeline) { p.Storage.DB.DSN = "" }, SeverityError, "storage.db.dsn", "must not be empty"},
		{"unknown storage", func(p *Pipeline) { p.Storage.Kind = "oracle" }, SeverityWarning, "storage.kind", "unknown storage kind"},
		{"negative workers", func(p *Pipeline) { p.Runtime.ReshapeWorkers = -2 }, SeverityError, "runtime.reshape_workers", "negative"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			p := validPipeline()
			c.mutate(&p)
			issues := ValidatePipeline(p)
			if !hasIssue(t, issues, c.sev, c.path, c.substr) {
				t.Fatalf("missing %s at %s (%q); got %+v", c.sev, c.path, c.substr, issues)
			}
		})
	}
}

func TestValidatePipeline_NoneStorageSkipsDSN(t *testing.T) {
	t.Parallel()

	p := validPipeline()
	p.Storage = Storage{Kind: "none"}
	if issues := ValidatePipeline(p); HasErrors(issues) {
		t.Fatalf("none storage should not need a DSN: %+v", issues)
	}
}

func TestIssue_Error(t *testing.T) {
	t.Parallel()

	got := Issue{Severity: SeverityError, Path: "job", Message: "empty"}.Error()
	if got != "error at job: empty" {
		t.Fatalf("Error() = %q", got)
	}
}

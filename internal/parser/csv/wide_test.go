package csv

import (
	"strings"
	"testing"

	"efwetl/internal/config"
)

func TestReadWide_SkipsPreambleAndPads(t *testing.T) {
	t.Parallel()

	input := "Economic Freedom of the World,,\n" +
		"2024 Annual Report,,\n" +
		",,\n" +
		"Exported,,\n" +
		"\uFEFFYear,ISO Code 3, Economic Freedom Summary Index,Countries\n" +
		"2024,USA, 8.1 ,United States\n" +
		"2023,CAN\n" +
		"2022,MEX,6.9,Mexico,extra\n" +
		",,,\n"

	tb, skipped, err := ReadWide(strings.NewReader(input), "metrics", Options{SkipRows: 4, TrimSpace: true})
	if err != nil {
		t.Fatalf("ReadWide: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if got := tb.Columns(); got[0] != "Year" || got[2] != " Economic Freedom Summary Index" {
		t.Fatalf("header = %q (BOM must be stripped, inner spaces kept)", got)
	}
	if tb.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tb.Len())
	}
	if got := tb.Cell(0, 2); got != "8.1" {
		t.Fatalf("trimmed cell = %#v, want 8.1", got)
	}
	if tb.Cell(1, 2) != nil || tb.Cell(1, 3) != nil {
		t.Fatalf("short row not padded with nil: %v", tb.Row(1))
	}
}

func TestReadWide_TrailingBlankColumnsAccepted(t *testing.T) {
	t.Parallel()

	input := "ISO_Code,Year,Area 1\nUSA,2024,7.5,,\n"
	tb, skipped, err := ReadWide(strings.NewReader(input), "areas", Options{TrimSpace: true})
	if err != nil {
		t.Fatalf("ReadWide: %v", err)
	}
	if skipped != 0 || tb.Len() != 1 {
		t.Fatalf("skipped=%d rows=%d, want 0 and 1", skipped, tb.Len())
	}
}

func TestReadWide_NormalizesUnicode(t *testing.T) {
	t.Parallel()

	decomposed := "Co\u0302te d'Ivoire" // o + combining circumflex
	input := "Countries\n" + decomposed + "\n"

	tb, _, err := ReadWide(strings.NewReader(input), "metrics", Options{NormalizeUnicode: true})
	if err != nil {
		t.Fatalf("ReadWide: %v", err)
	}
	if got := tb.Cell(0, 0); got != "C\u00f4te d'Ivoire" {
		t.Fatalf("cell = %q, want NFC form", got)
	}
}

func TestReadWide_PreambleLongerThanInput(t *testing.T) {
	t.Parallel()

	_, _, err := ReadWide(strings.NewReader("only one line\n"), "metrics", Options{SkipRows: 4})
	if err == nil || !strings.Contains(err.Error(), "preamble") {
		t.Fatalf("want preamble error, got %v", err)
	}
}

func TestOptionsFrom(t *testing.T) {
	t.Parallel()

	o := OptionsFrom(config.Options{"skip_rows": float64(4), "comma": ";"})
	if o.SkipRows != 4 || o.Comma != ';' || !o.TrimSpace || !o.NormalizeUnicode {
		t.Fatalf("unexpected options %+v", o)
	}
}

func TestStripHeaderBOM(t *testing.T) {
	t.Parallel()

	h := StripHeaderBOM([]string{"\uFEFFYear", "ISO"})
	if h[0] != "Year" {
		t.Fatalf("BOM not stripped: %q", h[0])
	}
	if got := StripHeaderBOM(nil); got != nil {
		t.Fatalf("nil input should stay nil")
	}
}

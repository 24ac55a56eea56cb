package main

import (
	"strings"
	"testing"

	"headerlint/internal/observ"
)

func TestFormatReport(t *testing.T) {
	report := &observ.Report{
		TotalMS: 3.5,
		Phases: []observ.PhaseReport{
			{Name: "load", DurationMS: 1.2},
			{Name: "validate", DurationMS: 2.3},
		},
	}
	got := formatReport(report)
	want := "total 3.5 ms, load 1.2 ms, validate 2.3 ms"
	if got != want {
		t.Fatalf("formatReport = %q, want %q", got, want)
	}
}

func TestPrintFixTimingsNilSafe(t *testing.T) {
	var b strings.Builder
	printFixTimings(&b, nil)
	if b.Len() != 0 {
		t.Fatalf("unexpected output: %q", b.String())
	}
	printFixTimings(nil, &observ.Report{TotalMS: 1})
}

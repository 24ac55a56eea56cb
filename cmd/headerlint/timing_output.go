package main

import (
	"fmt"
	"io"
	"path/filepath"

	"headerlint/internal/driver"
	"headerlint/internal/observ"
	"headerlint/internal/source"
)

// printOutcomeTimings prints per-file phase durations collected during a
// directory check. Single-file runs carry their timings as an info
// diagnostic inside the bag instead.
func printOutcomeTimings(out io.Writer, fs *source.FileSet, outcomes []driver.Outcome) {
	if out == nil {
		return
	}
	for i := range outcomes {
		oc := &outcomes[i]
		if oc.Timing == nil {
			continue
		}
		_, _ = fmt.Fprintf(out, "%s: %s\n", relativeName(fs, oc.Path), formatReport(oc.Timing))
	}
}

// printFixTimings prints the check/apply/recheck durations of a fix run.
func printFixTimings(out io.Writer, report *observ.Report) {
	if out == nil || report == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s\n", formatReport(report))
}

func formatReport(report *observ.Report) string {
	s := fmt.Sprintf("total %.1f ms", report.TotalMS)
	for _, phase := range report.Phases {
		s += fmt.Sprintf(", %s %.1f ms", phase.Name, phase.DurationMS)
	}
	return s
}

func relativeName(fs *source.FileSet, path string) string {
	if fs == nil {
		return path
	}
	rel, err := filepath.Rel(fs.BaseDir(), path)
	if err != nil {
		return path
	}
	return rel
}

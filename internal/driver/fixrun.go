package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"headerlint/internal/config"
	"headerlint/internal/diag"
	"headerlint/internal/fix"
	"headerlint/internal/header"
	"headerlint/internal/observ"
	"headerlint/internal/source"
)

// FixResult is the outcome of a fix run: what the engine applied plus the
// verdicts of the re-validation that follows it.
type FixResult struct {
	// Result is the engine's apply report.
	Result *fix.ApplyResult
	// Outcomes are the per-file verdicts of the diagnose pass.
	Outcomes []Outcome
	// Remaining counts files still failing after the applied edits.
	Remaining int
	// Rechecked counts files re-validated because the engine changed them.
	Rechecked int
	// Timing covers the check, apply and recheck phases when timings are on.
	Timing *observ.Report
}

// FixPath запускает проверку, применяет правки и перепроверяет изменённые
// файлы. ErrNoFixes отдаётся вызывающему вместе с заполненным результатом:
// «нечего чинить» не сбой, а ответ.
func FixPath(ctx context.Context, path string, cfg *config.Config, spec *header.Spec, applyOpts fix.ApplyOptions, opts Options) (*source.FileSet, *FixResult, error) {
	timer := fixTimer(opts)

	checkIdx := beginPhase(timer, "check")
	fileSet, outcomes, err := CheckPath(ctx, path, cfg, spec, opts)
	checkNote := ""
	if timer != nil {
		checkNote = fmt.Sprintf("files=%d", len(outcomes))
	}
	endPhase(timer, checkIdx, checkNote)
	if err != nil {
		return fileSet, nil, err
	}

	return applyAndRecheck(fileSet, outcomes, spec, applyOpts, timer)
}

// FixFiles ведёт себя как FixPath, но работает по заранее отобранному списку
// файлов, например по содержимому git-индекса.
func FixFiles(ctx context.Context, baseDir string, files []string, spec *header.Spec, applyOpts fix.ApplyOptions, opts Options) (*source.FileSet, *FixResult, error) {
	timer := fixTimer(opts)

	checkIdx := beginPhase(timer, "check")
	fileSet, outcomes, err := CheckFiles(ctx, baseDir, files, spec, opts)
	checkNote := ""
	if timer != nil {
		checkNote = fmt.Sprintf("files=%d", len(outcomes))
	}
	endPhase(timer, checkIdx, checkNote)
	if err != nil {
		return fileSet, nil, err
	}

	return applyAndRecheck(fileSet, outcomes, spec, applyOpts, timer)
}

// applyAndRecheck скармливает собранные диагностики движку правок, затем
// перечитывает изменённые файлы и проверяет их заново.
func applyAndRecheck(fileSet *source.FileSet, outcomes []Outcome, spec *header.Spec, applyOpts fix.ApplyOptions, timer *observ.Timer) (*source.FileSet, *FixResult, error) {
	result := &FixResult{Outcomes: outcomes}

	diagnostics := make([]*diag.Diagnostic, 0, len(outcomes))
	flagged := make(map[string]bool)
	for _, out := range outcomes {
		if out.Bag == nil {
			continue
		}
		out.Bag.Sort()
		diagnostics = append(diagnostics, out.Bag.Items()...)
		if out.Bag.HasErrors() {
			flagged[filepath.Clean(out.Path)] = true
		}
	}

	applyIdx := beginPhase(timer, "apply")
	res, applyErr := fix.Apply(fileSet, diagnostics, applyOpts)
	result.Result = res
	applyNote := ""
	if timer != nil && res != nil {
		applyNote = fmt.Sprintf("applied=%d skipped=%d", len(res.Applied), len(res.Skipped))
	}
	endPhase(timer, applyIdx, applyNote)

	if applyErr != nil && !errors.Is(applyErr, fix.ErrNoFixes) {
		finishFixTimings(result, timer)
		return fileSet, result, applyErr
	}

	// Перепроверяем изменённые файлы; при dry-run диск не трогали, так что
	// перечитывать нечего.
	recheckIdx := beginPhase(timer, "recheck")
	if applyErr == nil && !applyOpts.DryRun && res != nil {
		for _, change := range res.FileChanges {
			p := change.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(fileSet.BaseDir(), p)
			}
			id, loadErr := fileSet.Load(p)
			if loadErr != nil {
				endPhase(timer, recheckIdx, "")
				finishFixTimings(result, timer)
				return fileSet, result, fmt.Errorf("recheck %s: %w", change.Path, loadErr)
			}
			result.Rechecked++
			if header.Validate(fileSet.Get(id), spec) == nil {
				delete(flagged, filepath.Clean(p))
			}
		}
	}
	recheckNote := ""
	if timer != nil {
		recheckNote = fmt.Sprintf("files=%d", result.Rechecked)
	}
	endPhase(timer, recheckIdx, recheckNote)

	result.Remaining = len(flagged)
	finishFixTimings(result, timer)
	return fileSet, result, applyErr
}

func fixTimer(opts Options) *observ.Timer {
	if !opts.EnableTimings {
		return nil
	}
	return observ.NewTimer()
}

func beginPhase(timer *observ.Timer, name string) int {
	if timer == nil {
		return -1
	}
	return timer.Begin(name)
}

func endPhase(timer *observ.Timer, idx int, note string) {
	if timer == nil || idx < 0 {
		return
	}
	timer.End(idx, note)
}

func finishFixTimings(result *FixResult, timer *observ.Timer) {
	if timer == nil {
		return
	}
	report := timer.Report()
	result.Timing = &report
}

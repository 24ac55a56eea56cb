package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"headerlint/internal/config"
	"headerlint/internal/driver"
	"headerlint/internal/fix"
	"headerlint/internal/gitutil"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file|directory>",
	Short: "Rewrite files so they carry the configured header",
	Long:  "Run the header check, surface available fixes, and apply them according to the chosen strategy.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

var (
	fixApplyAll   bool
	fixApplyOnce  bool
	fixTargetID   string
	fixDryRun     bool
	fixStagedOnly bool
)

func init() {
	flags := fixCmd.Flags()
	flags.BoolVar(&fixApplyAll, "all", false, "apply every safe fix (default)")
	flags.BoolVar(&fixApplyOnce, "once", false, "apply only the first available fix")
	flags.StringVar(&fixTargetID, "id", "", "apply only the fix with this id")
	flags.BoolVar(&fixDryRun, "dry-run", false, "compute and report edits without touching the disk")
	flags.BoolVar(&fixStagedOnly, "staged-only", false, "restrict the run to files staged in git")
}

func runFix(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	if fixTargetID != "" && (fixApplyAll || fixApplyOnce) {
		return fmt.Errorf("--id does not combine with --all or --once")
	}
	if fixApplyAll && fixApplyOnce {
		return fmt.Errorf("cannot use --all together with --once")
	}

	// Без флагов чиним как --all: смысл команды в том, чтобы привести
	// дерево в порядок разом.
	mode := fix.ApplyModeAll
	switch {
	case fixTargetID != "":
		mode = fix.ApplyModeID
	case fixApplyOnce:
		mode = fix.ApplyModeOnce
	}
	applyOpts := fix.ApplyOptions{Mode: mode, TargetID: fixTargetID, DryRun: fixDryRun}

	root, err := readRootOpts(cmd)
	if err != nil {
		return err
	}
	cfg, spec, err := resolveConfig(cmd, targetPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(targetPath); err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	opts := driver.Options{
		MaxDiagnostics: root.maxDiagnostics,
		EnableTimings:  root.timings,
	}

	var (
		result   *driver.FixResult
		applyErr error
	)
	if fixStagedOnly {
		files, listErr := stagedTargets(targetPath, cfg)
		if listErr != nil {
			return fmt.Errorf("fix: %w", listErr)
		}
		_, result, applyErr = driver.FixFiles(cmd.Context(), targetPath, files, spec, applyOpts, opts)
	} else {
		_, result, applyErr = driver.FixPath(cmd.Context(), targetPath, cfg, spec, applyOpts, opts)
	}
	if result == nil {
		return fmt.Errorf("fix: %w", applyErr)
	}

	if fixDryRun {
		fmt.Fprintln(os.Stdout, "Dry run: reporting fixes without writing files.")
	}
	if err := printApplyResult(os.Stdout, result.Result, applyErr); err != nil {
		return err
	}
	if !root.quiet && result.Rechecked > 0 {
		fmt.Fprintf(os.Stdout, "Rechecked %d file(s), %d still failing.\n", result.Rechecked, result.Remaining)
	}
	if root.timings {
		printFixTimings(os.Stdout, result.Timing)
	}
	return nil
}

// stagedTargets возвращает файлы из git-индекса, попадающие под настройки
// проверки и лежащие внутри целевого пути.
func stagedTargets(targetPath string, cfg *config.Config) ([]string, error) {
	staged, err := gitutil.StagedPaths(discoverStart(targetPath))
	if err != nil {
		return nil, err
	}
	files := driver.FilterPaths(staged, cfg)

	abs, err := filepath.Abs(targetPath)
	if err != nil {
		return nil, err
	}
	prefix := abs + string(filepath.Separator)
	kept := make([]string, 0, len(files))
	for _, f := range files {
		if f == abs || strings.HasPrefix(f, prefix) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// printApplyResult печатает сводку fix-прогона. ErrNoFixes при пустом
// результате считается штатным исходом, а не ошибкой.
func printApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "%d fix(es) applied:\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(no location)"
			}
			fmt.Fprintf(out, "  %s [%s] %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
		}
	}
	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	switch {
	case applyErr == nil:
		if len(res.Applied) == 0 {
			fmt.Fprintln(out, "No fixes applied.")
		}
		return nil
	case errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0:
		fmt.Fprintln(out, "No fixes to apply.")
		return nil
	default:
		return applyErr
	}
}

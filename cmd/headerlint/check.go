package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"headerlint/internal/diag"
	"headerlint/internal/diagfmt"
	"headerlint/internal/driver"
	"headerlint/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|directory>",
	Short: "Check files for the configured license header",
	Long:  `Check that every matched file opens with the configured license header and report each deviation with its exact position`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

// init registers CLI flags for the check command used by runCheck.
// It configures output format, concurrency, cache usage, note/suggestion
// inclusion, and whether to emit absolute file paths.
func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().Int("jobs", 0, "parallel workers (0 = number of CPUs)")
	checkCmd.Flags().Bool("no-cache", false, "skip the persistent result cache")
	checkCmd.Flags().Bool("with-notes", false, "show notes attached to diagnostics")
	checkCmd.Flags().Bool("suggest", false, "show available fixes for each finding")
	checkCmd.Flags().Bool("preview", false, "preview fixed content without modifying files")
	checkCmd.Flags().Bool("fullpath", false, "print absolute file paths")
	checkCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
}

// runCheck executes the "check" command: it parses command flags, checks the
// provided path (single file or directory) against the configured header,
// renders the results in the chosen output format, and exits with a non-zero
// status when any file deviates.
func runCheck(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	// Читаем флаги команды
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}

	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}

	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}

	root, err := readRootOpts(cmd)
	if err != nil {
		return err
	}

	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("invalid --format value %q (expected pretty, short, json or sarif)", format)
	}

	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	cfg, spec, err := resolveConfig(cmd, targetPath)
	if err != nil {
		return err
	}

	opts := driver.Options{
		MaxDiagnostics: root.maxDiagnostics,
		Jobs:           jobs,
		NoCache:        noCache,
		EnableTimings:  root.timings,
	}

	st, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var (
		fileSet  *source.FileSet
		outcomes []driver.Outcome
	)
	if st.IsDir() && shouldUseTUI(mode, format) {
		fileSet, outcomes, err = runCheckWithUI(cmd.Context(), "headerlint check", targetPath, cfg, spec, opts)
	} else {
		fileSet, outcomes, err = driver.CheckPath(cmd.Context(), targetPath, cfg, spec, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	flagged := 0
	for i := range outcomes {
		if outcomes[i].Bag != nil && outcomes[i].Bag.HasErrors() {
			flagged++
		}
	}

	useColor := root.color == "on" || (root.color == "auto" && isTerminal(os.Stdout))
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := suggest || preview

	prettyOpts := diagfmt.PrettyOpts{
		Color:       useColor,
		Context:     2,
		PathMode:    pathMode,
		ShowNotes:   withNotes,
		ShowFixes:   showFixes,
		ShowPreview: preview,
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     withNotes,
		IncludeFixes:     showFixes,
		IncludePreviews:  preview,
	}

	if st.IsDir() {
		err = renderCheckDir(fileSet, outcomes, format, fullPath, prettyOpts, jsonOpts, withNotes)
	} else {
		err = renderCheckFile(fileSet, outcomes, format, prettyOpts, jsonOpts, withNotes)
	}
	if err != nil {
		return err
	}

	if format == "pretty" && !root.quiet {
		_, _ = fmt.Fprintf(os.Stdout, "%d file(s) checked, %d with issues\n", len(outcomes), flagged)
	}
	if root.timings && st.IsDir() {
		printOutcomeTimings(os.Stdout, fileSet, outcomes)
	}

	if flagged > 0 {
		// Suppress cobra usage output on findings
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // пустая ошибка даёт ненулевой код выхода, находки уже напечатаны
	}
	return nil
}

func renderCheckFile(fs *source.FileSet, outcomes []driver.Outcome, format string, prettyOpts diagfmt.PrettyOpts, jsonOpts diagfmt.JSONOpts, withNotes bool) error {
	if len(outcomes) == 0 {
		return nil
	}
	bag := outcomes[0].Bag

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, bag, fs, prettyOpts)
	case "short":
		output := diag.FormatShortDiagnostics(bag, fs, withNotes)
		if output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, fs, jsonOpts); err != nil {
			return fmt.Errorf("rendering diagnostics: %w", err)
		}
	case "sarif":
		if err := diagfmt.Sarif(os.Stdout, bag, fs, sarifMeta()); err != nil {
			return fmt.Errorf("rendering diagnostics: %w", err)
		}
	}
	return nil
}

func renderCheckDir(fs *source.FileSet, outcomes []driver.Outcome, format string, fullPath bool, prettyOpts diagfmt.PrettyOpts, jsonOpts diagfmt.JSONOpts, withNotes bool) error {
	switch format {
	case "pretty":
		// чистые файлы не печатаем: при сотнях файлов от пустых секций нет
		// никакой пользы
		printed := 0
		for i := range outcomes {
			oc := &outcomes[i]
			if oc.Bag == nil || oc.Bag.Len() == 0 {
				continue
			}
			if printed > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", displayOutcomePath(fs, oc, fullPath))
			diagfmt.Pretty(os.Stdout, oc.Bag, fs, prettyOpts)
			printed++
		}
	case "short":
		allDiagnostics := make([]*diag.Diagnostic, 0, len(outcomes))
		for i := range outcomes {
			if outcomes[i].Bag == nil {
				continue
			}
			allDiagnostics = append(allDiagnostics, outcomes[i].Bag.Items()...)
		}
		output := diag.FormatGoldenDiagnostics(allDiagnostics, fs, withNotes)
		if output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		output := make(map[string]diagfmt.DiagnosticsOutput, len(outcomes))
		for i := range outcomes {
			oc := &outcomes[i]
			data, buildErr := diagfmt.BuildDiagnosticsOutput(oc.Bag, fs, jsonOpts)
			if buildErr != nil {
				return fmt.Errorf("building json output: %w", buildErr)
			}
			output[displayOutcomePath(fs, oc, fullPath)] = data
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("encoding json output: %w", err)
		}
	case "sarif":
		// SARIF-потребители ждут один лог на запуск, поэтому склеиваем
		// все вердикты в общий bag
		union := diag.NewBag(0)
		for i := range outcomes {
			if outcomes[i].Bag == nil {
				continue
			}
			union.Merge(outcomes[i].Bag)
		}
		union.Sort()
		if err := diagfmt.Sarif(os.Stdout, union, fs, sarifMeta()); err != nil {
			return fmt.Errorf("rendering diagnostics: %w", err)
		}
	}
	return nil
}

func displayOutcomePath(fs *source.FileSet, oc *driver.Outcome, fullPath bool) string {
	if fullPath {
		if abs, err := source.AbsolutePath(oc.Path); err == nil {
			return abs
		}
		return oc.Path
	}
	return relativeName(fs, oc.Path)
}

func sarifMeta() diagfmt.SarifRunMeta {
	return diagfmt.SarifRunMeta{
		ToolName:    "headerlint",
		ToolVersion: "0.1.0",
	}
}

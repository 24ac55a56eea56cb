package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"headerlint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "headerlint",
	Short: "License header linter and fixer",
	Long:  `headerlint checks that source files open with the configured license header and rewrites the ones that do not`,
}

func main() {
	// версию подхватывает автоматический флаг --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// флаги, общие для всех подкоманд
	rootCmd.PersistentFlags().String("config", "", "config file to use instead of discovering one upward")
	rootCmd.PersistentFlags().String("color", "auto", "when to colorize output: auto, on or off")
	rootCmd.PersistentFlags().Bool("quiet", false, "print findings and errors only")
	rootCmd.PersistentFlags().Bool("timings", false, "report per-phase timings")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "cap on diagnostics kept per file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a real terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

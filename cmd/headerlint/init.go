package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a starter headerlint config",
	Long: `Create a starter headerlint.toml in the given directory (or the current
one). The generated file carries a literal one-line header plus commented-out
examples of the pattern and template knobs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit writes a headerlint.toml into the target directory (creating the
// directory when needed) and refuses to overwrite an existing one.
func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	target, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := ensureDir(target); err != nil {
		return err
	}

	configPath := filepath.Join(target, "headerlint.toml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists: %s", configPath)
	}
	if err := os.WriteFile(configPath, []byte(buildStarterConfig()), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Initialized headerlint config in %s\n", displayDir(target))
	fmt.Fprintf(os.Stdout, "  - headerlint.toml\n")
	return nil
}

// ensureDir создаёт каталог при необходимости и отвергает путь, занятый
// обычным файлом.
func ensureDir(path string) error {
	st, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", path, err)
		}
		return nil
	case err != nil:
		return err
	case !st.IsDir():
		return fmt.Errorf("%s: not a directory", path)
	}
	return nil
}

// displayDir prefers the path relative to the working directory.
func displayDir(target string) string {
	wd, err := os.Getwd()
	if err != nil {
		return target
	}
	rel, err := filepath.Rel(wd, target)
	if err != nil {
		return target
	}
	return rel
}

// buildStarterConfig returns the generated headerlint.toml content. The
// literal header line carries the current year so a fresh project starts
// compliant instead of instantly outdated.
func buildStarterConfig() string {
	return fmt.Sprintf(`# headerlint configuration

[header]
comment = "block" # "block" for /* ... */, "line" for // ...
lines = [
    "Copyright %d, My Company",
]
trailing = 1 # line breaks required after the header
eol = "unix" # "unix", "windows" or "os"

# Pattern rules replace "lines" when the header text varies; a template
# makes a pattern rule fixable:
#
# [[header.rules]]
# pattern = 'Copyright \d{4}, My Company'
# template = "Copyright %d, My Company"

[check]
extensions = ["js", "jsx", "ts", "tsx"]
exclude = ["node_modules", ".git", "dist"]
`, time.Now().Year(), time.Now().Year())
}

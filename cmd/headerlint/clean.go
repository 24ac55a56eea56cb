package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"headerlint/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the on-disk result cache",
	Long:  "Remove the cached per-file verdicts kept under the user cache directory.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	dir, err := driver.DropResultCache()
	if err != nil {
		return fmt.Errorf("failed to remove result cache: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "removed %s\n", dir)
	return nil
}

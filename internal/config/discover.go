package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Discover walks up from startDir and returns the first config file found.
// Within one directory the candidates are tried in configNames order, so
// headerlint.toml wins over the hidden variants.
func Discover(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		found, err := probeDir(dir)
		if found != "" || err != nil {
			return found, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s: %w", startDir, ErrNoConfig)
		}
		dir = parent
	}
}

// probeDir проверяет кандидатов одной директории в порядке configNames.
func probeDir(dir string) (string, error) {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
	}
	return "", nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"headerlint/internal/config"
	"headerlint/internal/header"
)

// resolveConfig loads the configuration for a command run: the explicit
// --config path when given, otherwise the nearest config discovered upward
// from the target. Возвращает сразу и скомпилированную спецификацию:
// команды, которым нужен конфиг, без неё всё равно не работают.
func resolveConfig(cmd *cobra.Command, targetPath string) (*config.Config, *header.Spec, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	configPath := explicit
	if configPath == "" {
		configPath, err = config.Discover(discoverStart(targetPath))
		if err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	spec, err := cfg.Spec()
	if err != nil {
		return nil, nil, err
	}
	return cfg, spec, nil
}

// discoverStart выбирает стартовый каталог поиска конфигурации: каталог
// самого файла либо целевая директория как есть.
func discoverStart(targetPath string) string {
	if st, err := os.Stat(targetPath); err == nil && !st.IsDir() {
		return filepath.Dir(targetPath)
	}
	return targetPath
}

// rootOpts are the values of the root command's persistent flags, shared
// by every subcommand.
type rootOpts struct {
	maxDiagnostics int
	timings        bool
	quiet          bool
	color          string
}

func readRootOpts(cmd *cobra.Command) (rootOpts, error) {
	pf := cmd.Root().PersistentFlags()
	var (
		opts rootOpts
		err  error
	)
	if opts.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return opts, err
	}
	if opts.timings, err = pf.GetBool("timings"); err != nil {
		return opts, err
	}
	if opts.quiet, err = pf.GetBool("quiet"); err != nil {
		return opts, err
	}
	if opts.color, err = pf.GetString("color"); err != nil {
		return opts, err
	}
	return opts, nil
}

package main

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"headerlint/internal/config"
	"headerlint/internal/driver"
	"headerlint/internal/header"
	"headerlint/internal/source"
	"headerlint/internal/ui"
)

type checkOutcome struct {
	fileSet  *source.FileSet
	outcomes []driver.Outcome
	err      error
}

// runCheckWithUI runs a directory check behind the bubbletea progress model.
// The check itself runs in a goroutine feeding the events channel; closing
// the channel tells the model the run is over.
func runCheckWithUI(ctx context.Context, title, dir string, cfg *config.Config, spec *header.Spec, opts driver.Options) (*source.FileSet, []driver.Outcome, error) {
	files, err := driver.ListFiles(dir, cfg)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fileSet, outcomes, err := driver.CheckFiles(ctx, dir, files, spec, optsCopy)
		outcomeCh <- checkOutcome{fileSet: fileSet, outcomes: outcomes, err: err}
		close(events)
	}()

	// Имена в модели должны совпадать с именами в событиях, а те приходят
	// относительными к корню обхода.
	names := make([]string, len(files))
	for i, path := range files {
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		names[i] = rel
	}

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.outcomes, uiErr
	}
	return outcome.fileSet, outcome.outcomes, outcome.err
}

package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"splice/internal/driver"
	"splice/internal/pipeline"
	"splice/internal/ui"
)

type expandOutcome struct {
	result *driver.DirResult
	err    error
}

// runWithUI runs run in the background while a progress view consumes its
// events. Quitting the view cancels the run.
func runWithUI(ctx context.Context, title string, files []string, opts driver.Options,
	run func(context.Context, driver.Options) (*driver.DirResult, error),
) (*driver.DirResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan expandOutcome, 1)
	go func() {
		o := opts
		o.Progress = pipeline.ChannelSink{Ch: events}
		res, err := run(ctx, o)
		outcomeCh <- expandOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if model.Interrupted() {
		cancel()
	}
	// воркеры не должны блокироваться на полном канале после выхода UI
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

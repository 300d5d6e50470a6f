// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/dvcli/internal/progress"
)

// eventBufferSize is the number of progress events queued for the TUI.
const eventBufferSize = 256

// RunFunc runs a batch, reporting its progress to reporter.
type RunFunc func(ctx context.Context, reporter progress.Reporter) error

// Runner manages the TUI application and progress event integration.
type Runner struct {
	model    *Model
	program  *tea.Program
	reporter *progress.ChannelReporter
	mutex    sync.Mutex
}

// NewRunner creates a new TUI runner. By default the TUI uses the alternate screen.
func NewRunner(ctx context.Context, title string, opts ...tea.ProgramOption) *Runner {
	model := NewModel(title)

	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}

	program := tea.NewProgram(model, append(opts, tea.WithContext(ctx))...)
	reporter := progress.NewChannelReporter(ctx, eventBufferSize)

	reporter.Listen(progress.ListenerFunc(func(event progress.Event) {
		program.Send(ProgressEventMsg{Event: event})
	}))

	return &Runner{
		model:    model,
		program:  program,
		reporter: reporter,
	}
}

// Reporter returns the progress reporter for this TUI runner.
func (r *Runner) Reporter() progress.Reporter {
	return r.reporter
}

// Quit asks the TUI to exit.
func (r *Runner) Quit() {
	r.program.Quit()
}

// Run starts the TUI and runs fn with progress reporting.
// When the batch returns, the TUI stays open until the user quits it.
// When the user quits first, the batch context is cancelled and Run waits for fn to return.
func (r *Runner) Run(ctx context.Context, fn RunFunc) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runDone := make(chan error, 1)

	go func() {
		defer close(runDone)
		runDone <- fn(runCtx, r.reporter)
	}()

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	var runErr, tuiErr error

	select {
	case runErr = <-runDone:
		r.program.Send(BatchDoneMsg{Err: runErr})

		tuiErr = <-tuiDone

	case tuiErr = <-tuiDone:
		cancel()

		runErr = <-runDone
	}

	r.reporter.Close()

	if errors.Is(tuiErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		tuiErr = nil
	}

	return errors.Join(runErr, tuiErr)
}

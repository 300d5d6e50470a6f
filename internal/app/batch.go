// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package app

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
	"github.com/matt-FFFFFF/dvcli/internal/progress"
	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
	"github.com/matt-FFFFFF/dvcli/internal/tui"
)

// BatchFunc runs one batch with the given processor options.
type BatchFunc func(ctx context.Context, opts runbatch.Options) error

// Batch runs fn with its outcomes written to standard error.
// With the interactive view enabled, logs and outcomes are buffered while the view
// is shown and written out once it closes.
func (e *Env) Batch(ctx context.Context, title string, fn BatchFunc) error {
	if !e.TUI {
		return fn(ctx, runbatch.Options{Output: e.ErrOutput()})
	}

	logs := new(bytes.Buffer)
	outcomes := new(bytes.Buffer)

	tuiCtx := ctxlog.New(ctx, ctxlog.NewPretty(logs, false))
	runner := tui.NewRunner(tuiCtx, title, e.TUIOptions...)

	err := runner.Run(tuiCtx, func(ctx context.Context, reporter progress.Reporter) error {
		return fn(ctx, runbatch.Options{Output: outcomes, Progress: reporter})
	})

	_, _ = logs.WriteTo(e.Output())
	_, _ = outcomes.WriteTo(e.ErrOutput())

	return err
}

// Process applies action to every item with the console reporter, pausing delay between items.
func Process[I, R any](ctx context.Context, env *Env, title string, items *runbatch.Items[I], action runbatch.Action[I, R], delay time.Duration) error {
	return env.Batch(ctx, title, func(ctx context.Context, opts runbatch.Options) error {
		opts.Delay = delay

		p, err := runbatch.NewProcessor(items, action, nil, opts)
		if err != nil {
			return errors.Join(err, items.Close())
		}

		return p.Process(ctx)
	})
}

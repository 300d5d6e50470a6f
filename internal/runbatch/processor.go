// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
	"github.com/matt-FFFFFF/dvcli/internal/progress"
)

// DefaultDelay is the pause between two items when none is configured.
const DefaultDelay = 1000 * time.Millisecond

var (
	// ErrNilItems is returned when a processor is constructed without items.
	ErrNilItems = errors.New("items must not be nil")
	// ErrNilAction is returned when a processor is constructed without an action.
	ErrNilAction = errors.New("action must not be nil")
	// ErrNegativeDelay is returned when the delay is below zero.
	ErrNegativeDelay = errors.New("delay must not be negative")
	// ErrProcessorUsed is returned when Process is called more than once.
	ErrProcessorUsed = errors.New("processor has already run")
	// ErrItemSource is returned when the item source fails while being advanced.
	ErrItemSource = errors.New("item source failed")
	// ErrCloseItems is returned when the resource behind the items cannot be released.
	ErrCloseItems = errors.New("closing items")
)

// sleep blocks for d or until ctx is done. It is a variable so tests can observe delays.
var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Options configures a Processor beyond its required items and action.
type Options struct {
	Delay    time.Duration     // Pause between two consecutive items. Zero disables it.
	Progress progress.Reporter // Receives live progress events. Nil disables them.
	Output   io.Writer         // Destination of the console reporter. Standard error when nil.
}

// DefaultOptions returns options with the default delay.
func DefaultOptions() Options {
	return Options{Delay: DefaultDelay}
}

// Processor applies an action to every item of a sequence, one item at a time.
// A processor runs once.
type Processor[I, R any] struct {
	items    *Items[I]
	action   Action[I, R]
	reporter Reporter[I, R]
	delay    time.Duration
	progress progress.Reporter
	used     bool
}

// NewProcessor validates its arguments and returns a processor ready to run.
// If reporter is nil, outcomes are written by a ConsoleReporter to opts.Output.
func NewProcessor[I, R any](items *Items[I], action Action[I, R], reporter Reporter[I, R], opts Options) (*Processor[I, R], error) {
	if items == nil {
		return nil, ErrNilItems
	}

	if action == nil {
		return nil, ErrNilAction
	}

	if opts.Delay < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeDelay, opts.Delay)
	}

	if reporter == nil {
		reporter = NewConsoleReporter[I, R](opts.Output)
	}

	if opts.Progress == nil {
		opts.Progress = progress.NewNullReporter()
	}

	return &Processor[I, R]{
		items:    items,
		action:   action,
		reporter: reporter,
		delay:    opts.Delay,
		progress: opts.Progress,
	}, nil
}

// Process runs the action over every item in order and reports each outcome.
// Failures of the action are reported and never returned. An error from the
// item source ends the run and is returned. The items are always closed.
func (p *Processor[I, R]) Process(ctx context.Context) (err error) {
	if p.used {
		return ErrProcessorUsed
	}

	p.used = true

	defer func() {
		if cerr := p.items.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%w: %w", ErrCloseItems, cerr))
		}
	}()

	logger := ctxlog.Logger(ctx)

	total, known := p.items.Len()
	if !known {
		total = UnknownCount
	}

	totalStr := "?"
	if known {
		totalStr = strconv.Itoa(total)
	}

	if known {
		logger.Info(fmt.Sprintf("Starting batch processing of %d items", total))
	} else {
		logger.Info("Starting batch processing of ?")
	}

	p.emit(progress.EventBatchStarted, 0, total, "", nil)

	processed := 0

	for item, srcErr := range p.items.All() {
		if srcErr != nil {
			p.emit(progress.EventBatchAborted, processed, total, item.Label, srcErr)
			return fmt.Errorf("%w: %w", ErrItemSource, srcErr)
		}

		processed++

		if processed > 1 && p.delay > 0 {
			p.pause(ctx, processed, total)
		}

		msg := fmt.Sprintf("Processing item %d of %s: %s", processed, totalStr, item.Label)
		logger.Info(msg)
		p.emit(progress.EventItemStarted, processed, total, item.Label, nil)

		p.call(ctx, processed, total, item)
	}

	logger.Info(fmt.Sprintf("Finished batch processing of %d items", processed))
	p.emit(progress.EventBatchFinished, processed, total, "", nil)

	return nil
}

func (p *Processor[I, R]) call(ctx context.Context, index, total int, item Item[I]) {
	result, err := run(ctx, p.action, item.Value)
	if err != nil {
		var pe *PanicError
		if errors.As(err, &pe) {
			ctxlog.Error(ctx, "action panicked", "label", item.Label, "panic", pe.Error())
		}

		p.reporter.ReportFailure(item.Label, item.Value, NewItemError(err))
		p.emit(progress.EventItemFailed, index, total, item.Label, err)

		return
	}

	p.reporter.ReportSuccess(item.Label, item.Value, result)
	p.emit(progress.EventItemSucceeded, index, total, item.Label, nil)
}

// pause waits for the configured delay. A cancelled context cuts the wait short
// but the run carries on with the next item.
func (p *Processor[I, R]) pause(ctx context.Context, index, total int) {
	ctxlog.Debug(ctx, fmt.Sprintf("Sleeping for %d ms", p.delay.Milliseconds()))
	p.emit(progress.EventDelay, index, total, "", nil)

	if err := sleep(ctx, p.delay); err != nil {
		ctxlog.Error(ctx, "Sleep interrupted", "error", err)
	}
}

func (p *Processor[I, R]) emit(t progress.EventType, index, total int, label string, err error) {
	p.progress.Report(progress.Event{
		Type:      t,
		Index:     index,
		Total:     total,
		Label:     label,
		Timestamp: time.Now(),
		Err:       err,
	})
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker stops a batch gracefully when the process is asked to terminate.
// By default it listens for SIGINT and SIGTERM.
//
// The first signal cancels the batch context, so the item in flight completes and the rest fail fast.
// The second signal terminates the process.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

// Start relays the given signals, or SIGINT and SIGTERM when none are given, to Watch.
// The returned function stops signal delivery and waits for the watcher to exit.
func Start(ctx context.Context, cancel context.CancelFunc, sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = termSignals
	}

	ch := make(chan os.Signal, 1)

	ctxlog.Debug(ctx, "signalbroker", "detail", "relaying signals", "signals", sigs)
	signal.Notify(ch, sigs...)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, ch, cancel)
	}()

	var once sync.Once

	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(ch)
			wg.Wait()
		})
	}
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
)

// ForcedExitCode is the exit code used when a second signal terminates the process.
const ForcedExitCode = 130

var exit = os.Exit

// Watch monitors the signal channel until it is closed.
// The first signal cancels the context: the item in flight finishes and the remaining items fail fast.
// The second signal terminates the process.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	received := false

	for sig := range sigCh {
		if received {
			ctxlog.Error(ctx, "watchdog", "detail", "received second signal, forcefully terminating", "signal", sig.String())
			exit(ForcedExitCode)

			return
		}

		ctxlog.Warn(ctx, "watchdog", "detail", "received signal, stopping the batch; send again to terminate", "signal", sig.String())
		cancel()

		received = true
	}
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the dataverse command-line interface (CLI).
package main

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/dvcli/internal/app"
	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
	"github.com/matt-FFFFFF/dvcli/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	stopSignals := signalbroker.Start(ctx, cancel)

	env := &app.Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	code := run(ctx, newRootCmd(env), os.Args)

	stopSignals()
	cancel()
	os.Exit(code)
}

// run runs the command and returns the exit code.
// A batch in which some items failed still exits with 0, the failures are in the report.
func run(ctx context.Context, cmd *cli.Command, args []string) int {
	err := cmd.Run(ctx, args)

	if ctx.Err() != nil {
		ctxlog.Error(ctx, "command terminated due to cancellation", "error", ctx.Err())
		return 1
	}

	if err != nil {
		ctxlog.Error(ctx, "command execution failed", "error", err)

		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) && exitErr.ExitCode() != 0 {
			return exitErr.ExitCode()
		}

		return 1
	}

	ctxlog.Debug(ctx, "command completed successfully")

	return 0
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdutil

import (
	"context"
	"errors"
	"time"

	"github.com/matt-FFFFFF/dvcli/internal/app"
	"github.com/matt-FFFFFF/dvcli/internal/dataverse"
	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
	"github.com/matt-FFFFFF/dvcli/internal/target"
	"github.com/urfave/cli/v3"
)

const (
	// TargetArg is the name of the positional target argument.
	TargetArg = "target"
	// DelayFlag is the name of the flag setting the pause between items, in milliseconds.
	DelayFlag = "delay"
	// DefaultDelayMillis is the default pause between items.
	DefaultDelayMillis = 1000
)

// Bound is an API handle together with the parameters of one call on it.
type Bound[H, P any] struct {
	Handle H
	Params P
}

// TargetArgument returns the positional target argument.
// Every command gets its own instance because arguments keep their parsed value.
func TargetArgument() cli.Argument {
	return &cli.StringArg{
		Name:      TargetArg,
		UsageText: "[TARGET]",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

// TargetUsage describes the target expression in command help.
const TargetUsage = `TARGET is an identifier, a file with one identifier per line (or several
separated by whitespace), or '-' to read identifiers from standard input.`

// DelayFlagWithDefault returns the --delay flag with the given default in milliseconds.
func DelayFlagWithDefault(millis int) cli.Flag {
	return &cli.IntFlag{
		Name:    DelayFlag,
		Aliases: []string{"d"},
		Usage:   "Pause in milliseconds between two consecutive items",
		Value:   millis,
	}
}

// Delay returns the value of the --delay flag.
func Delay(cmd *cli.Command) time.Duration {
	return time.Duration(cmd.Int(DelayFlag)) * time.Millisecond
}

// Targets resolves the target argument of cmd, falling back to defaultTarget.
func Targets(env *app.Env, cmd *cli.Command, defaultTarget string) (*runbatch.Items[string], error) {
	return env.Resolver().Resolve(target.Parse(cmd.StringArg(TargetArg)), defaultTarget)
}

// Session returns the environment and the API client of a command.
func Session(ctx context.Context) (*app.Env, *dataverse.Client, error) {
	env, err := app.FromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	client, err := env.Client(ctx)
	if err != nil {
		return nil, nil, err
	}

	return env, client, nil
}

// Each resolves the targets of cmd, turns every identifier into a handle and applies call to it.
func Each[H, R any](
	ctx context.Context,
	cmd *cli.Command,
	defaultTarget string,
	handle func(*dataverse.Client, string) H,
	call runbatch.Action[H, R],
) error {
	env, client, err := Session(ctx)
	if err != nil {
		return err
	}

	ids, err := Targets(env, cmd, defaultTarget)
	if err != nil {
		return err
	}

	handles := runbatch.Map(ids, func(item runbatch.Item[string]) (H, error) {
		return handle(client, item.Value), nil
	})

	return app.Process(ctx, env, cmd.FullName(), handles, call, Delay(cmd))
}

// EachBound applies call to every target of cmd together with the same parameters.
func EachBound[H, P, R any](
	ctx context.Context,
	cmd *cli.Command,
	defaultTarget string,
	handle func(*dataverse.Client, string) H,
	params P,
	call runbatch.Action[Bound[H, P], R],
) error {
	return Each(ctx, cmd, defaultTarget, func(c *dataverse.Client, id string) Bound[H, P] {
		return Bound[H, P]{Handle: handle(c, id), Params: params}
	}, call)
}

// FromParams applies call to every row of a parameter file. The label of a row names its target.
func FromParams[H, P, R any](
	ctx context.Context,
	cmd *cli.Command,
	rows func(env *app.Env) (*runbatch.Items[P], error),
	handle func(*dataverse.Client, string) H,
	call runbatch.Action[Bound[H, P], R],
) error {
	env, client, err := Session(ctx)
	if err != nil {
		return err
	}

	src, err := rows(env)
	if err != nil {
		return err
	}

	bound := runbatch.Map(src, func(item runbatch.Item[P]) (Bound[H, P], error) {
		return Bound[H, P]{Handle: handle(client, item.Label), Params: item.Value}, nil
	})

	return app.Process(ctx, env, cmd.FullName(), bound, call, Delay(cmd))
}

// ErrExclusiveInputs is returned when a command is given both, or neither, of its two input forms.
var ErrExclusiveInputs = errors.New("exactly one form of input must be given")

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package notification contains the database maintenance command for user notifications.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/matt-FFFFFF/dvcli/cmd/dataverse/cmdutil"
	"github.com/matt-FFFFFF/dvcli/internal/app"
	"github.com/matt-FFFFFF/dvcli/internal/notification"
	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	keepArg      = "keep"
	userFlag     = "user"
	allUsersFlag = "all-users"
)

// ErrKeepSyntax is returned when the number of notifications to keep is not an integer.
var ErrKeepSyntax = errors.New("number of records to keep must be an integer")

// NewCommand returns the truncate-notifications command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "truncate-notifications",
		Usage: "Remove old notifications, keeping the newest KEEP of every user",
		Description: `Connects to the Dataverse database and deletes, for one user or for every user
with more than KEEP notifications, all notifications except the KEEP most recent ones.`,
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      keepArg,
				UsageText: "KEEP",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  userFlag,
				Usage: "Database id of the user whose notifications are truncated",
			},
			&cli.BoolFlag{
				Name:  allUsersFlag,
				Usage: "Truncate the notifications of every user with more than KEEP notifications",
			},
			cmdutil.DelayFlagWithDefault(int(notification.DefaultDelay.Milliseconds())),
		},
		Action: truncate,
	}
}

func truncate(ctx context.Context, cmd *cli.Command) error {
	keep, err := strconv.Atoi(cmd.StringArg(keepArg))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrKeepSyntax, cmd.StringArg(keepArg))
	}

	opts := notification.Options{
		AllUsers: cmd.Bool(allUsersFlag),
		Keep:     keep,
		Delay:    cmdutil.Delay(cmd),
	}

	if cmd.IsSet(userFlag) {
		if opts.AllUsers {
			return fmt.Errorf("%w: --%s or --%s", cmdutil.ErrExclusiveInputs, userFlag, allUsersFlag)
		}

		id := cmd.Int(userFlag)
		opts.UserID = &id
	}

	if !opts.AllUsers && opts.UserID == nil {
		return notification.ErrNoUsers
	}

	if err := notification.ValidateKeep(keep); err != nil {
		return err
	}

	env, err := app.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := env.Database(ctx)
	if err != nil {
		return err
	}

	return env.Batch(ctx, cmd.FullName(), func(ctx context.Context, runOpts runbatch.Options) error {
		return notification.Run(ctx, db, opts, nil, runOpts)
	})
}

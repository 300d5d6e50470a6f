// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/dvcli"
	"github.com/matt-FFFFFF/dvcli/cmd/dataverse/collection"
	"github.com/matt-FFFFFF/dvcli/cmd/dataverse/configcmd"
	"github.com/matt-FFFFFF/dvcli/cmd/dataverse/dataset"
	"github.com/matt-FFFFFF/dvcli/cmd/dataverse/notification"
	"github.com/matt-FFFFFF/dvcli/internal/app"
	"github.com/matt-FFFFFF/dvcli/internal/config"
	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	configFlag    = "config"
	apiURLFlag    = "api-url"
	apiKeyFlag    = "api-key"
	tuiFlag       = "tui"
	logFormatFlag = "log-format"

	logFormatText = "text"
	logFormatJSON = "json"
)

// ErrLogFormat is returned for an unknown --log-format value.
var ErrLogFormat = errors.New("log format must be text or json")

// newRootCmd returns the root command. Before completes env from the global flags
// and stores it in the context of the subcommands.
func newRootCmd(env *app.Env) *cli.Command {
	return &cli.Command{
		Name:  "dataverse",
		Usage: "Administer a Dataverse installation in batch",
		Description: `dataverse runs administrative operations on collections, datasets and the
Dataverse database. Every operation can be applied to a single target, a list of targets in
a file or targets read from standard input. Each target is processed in turn with a pause in
between, and the result of every target is reported on standard error.

Settings are read from a YAML or HCL file. Its location may be any go-getter source,
see https://github.com/hashicorp/go-getter.`,
		Version:   fmt.Sprintf("%s (commit: %s)", dvcli.Version, dvcli.Commit),
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		Writer:                env.Output(),
		ErrWriter:             env.ErrOutput(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      configFlag,
				Aliases:   []string{"c"},
				Usage:     "Settings file (.yml, .yaml or .hcl), a local path or a go-getter URL",
				Value:     config.DefaultPath(),
				TakesFile: true,
				Sources:   cli.EnvVars("DATAVERSE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    apiURLFlag,
				Usage:   "Base URL of the Dataverse installation, overrides api.base_url",
				Sources: cli.EnvVars("DATAVERSE_API_URL"),
			},
			&cli.StringFlag{
				Name:    apiKeyFlag,
				Usage:   "API token, overrides api.api_key",
				Sources: cli.EnvVars("DATAVERSE_API_KEY"),
			},
			&cli.BoolFlag{
				Name:    tuiFlag,
				Aliases: []string{"t", "interactive"},
				Usage:   "Show an interactive view of the batch progress",
			},
			&cli.StringFlag{
				Name:  logFormatFlag,
				Usage: "Log format, text or json",
				Value: logFormatText,
			},
		},
		Commands: []*cli.Command{
			collection.NewCommand(),
			dataset.NewCommand(),
			notification.NewCommand(),
			configcmd.NewCommand(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			switch cmd.String(logFormatFlag) {
			case logFormatText:
			case logFormatJSON:
				ctx = ctxlog.New(ctx, ctxlog.NewJSON(env.Output()))
			default:
				return ctx, fmt.Errorf("%w: %q", ErrLogFormat, cmd.String(logFormatFlag))
			}

			env.ConfigPath = cmd.String(configFlag)
			env.ConfigOptional = !cmd.IsSet(configFlag)
			env.APIURL = cmd.String(apiURLFlag)
			env.APIKey = cmd.String(apiKeyFlag)
			env.TUI = cmd.Bool(tuiFlag)

			return app.WithEnv(ctx, env), nil
		},
		// Exit codes are decided by main.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

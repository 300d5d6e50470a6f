// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package configcmd provides the config command for inspecting the settings file.
package configcmd

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/dvcli/internal/app"
	"github.com/matt-FFFFFF/dvcli/internal/config"
	"github.com/urfave/cli/v3"
)

const formatFlag = "format"

// NewCommand returns the config command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Get info on the settings file",
		Commands: []*cli.Command{
			{
				Name:        "show",
				Usage:       "Print the settings in effect, with secrets masked",
				Description: "The settings are read from the file given by --config, flag overrides applied.",
				Flags:       []cli.Flag{formatFlagDef()},
				Action:      show,
			},
			{
				Name:        "example",
				Usage:       "Print an example settings file",
				Description: "Save the output as config.yml, or as config.hcl with --format hcl.",
				Flags:       []cli.Flag{formatFlagDef()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return write(ctx, config.Example(), cmd.String(formatFlag))
				},
			},
		},
	}
}

func formatFlagDef() cli.Flag {
	return &cli.StringFlag{
		Name:        formatFlag,
		Aliases:     []string{"f"},
		Usage:       "Output format: yaml or hcl",
		DefaultText: config.FormatYAML,
		Value:       config.FormatYAML,
	}
}

func show(ctx context.Context, cmd *cli.Command) error {
	env, err := app.FromContext(ctx)
	if err != nil {
		return err
	}

	cfg, err := env.Config(ctx)
	if err != nil {
		return err
	}

	effective := cfg.Redacted()

	if env.APIURL != "" {
		effective.API.BaseURL = env.APIURL
	}

	if env.APIKey != "" {
		effective.API.APIKey = config.Mask
	}

	return write(ctx, &effective, cmd.String(formatFlag))
}

func write(ctx context.Context, cfg *config.Config, format string) error {
	env, err := app.FromContext(ctx)
	if err != nil {
		return err
	}

	out, err := config.Encode(cfg, format)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprint(env.Output(), string(out)); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	return nil
}

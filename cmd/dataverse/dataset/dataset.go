// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dataset contains the commands acting on datasets.
package dataset

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/dvcli/cmd/dataverse/cmdutil"
	"github.com/matt-FFFFFF/dvcli/internal/app"
	"github.com/matt-FFFFFF/dvcli/internal/dataverse"
	"github.com/matt-FFFFFF/dvcli/internal/params"
	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	majorFlag             = "major"
	minorFlag             = "minor"
	skipAssureIndexedFlag = "skip-assure-indexed"
	versionFlag           = "version"
	fieldValueFlag        = "field-value"
	parametersFileFlag    = "parameters-file"
)

// DeleteMetadataResult is reported for every dataset whose metadata was deleted.
const DeleteMetadataResult = "Delete metadata"

// Datasets have no default target.
const noDefault = ""

type fields = []dataverse.MetadataField

func dataset(c *dataverse.Client, id string) *dataverse.DatasetAPI {
	return c.Dataset(id)
}

// NewCommand returns the dataset command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "dataset",
		Usage: "Manage datasets",
		Description: `Each subcommand acts on one or more datasets. A numeric identifier is a database id,
anything else is a persistent identifier such as doi:10.5072/FK2/ABCDEF.

` + cmdutil.TargetUsage,
		Commands: []*cli.Command{
			publishCmd(),
			simple("delete-draft", "Delete the draft version of a dataset", func(ctx context.Context, d *dataverse.DatasetAPI) (*dataverse.Response, error) {
				return d.DeleteDraft(ctx)
			}),
			versionCmd("get-version", "Get the metadata of a dataset version", func(ctx context.Context, d *dataverse.DatasetAPI, v string) (*dataverse.Response, error) {
				return d.GetVersion(ctx, v)
			}),
			simple("get-latest-version", "Get the metadata of the latest version of a dataset", func(ctx context.Context, d *dataverse.DatasetAPI) (*dataverse.Response, error) {
				return d.GetLatestVersion(ctx)
			}),
			versionCmd("get-files", "List the file metadata of a dataset version", func(ctx context.Context, d *dataverse.DatasetAPI, v string) (*dataverse.Response, error) {
				return d.GetFiles(ctx, v)
			}),
			validateFilesCmd(),
			cmdutil.RoleAssignmentCommand("dataset", noDefault, func(c *dataverse.Client, id string) cmdutil.RoleHolder {
				return c.Dataset(id)
			}),
			deleteMetadataCmd(),
		},
	}
}

// simple returns a command that makes one call per dataset.
func simple(name, usage string, fn runbatch.Action[*dataverse.DatasetAPI, *dataverse.Response]) *cli.Command {
	return &cli.Command{
		Name:        name,
		Usage:       usage,
		Description: cmdutil.TargetUsage,
		Arguments:   []cli.Argument{cmdutil.TargetArgument()},
		Flags:       []cli.Flag{cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdutil.Each(ctx, cmd, noDefault, dataset, fn)
		},
	}
}

func publishCmd() *cli.Command {
	return &cli.Command{
		Name:        "publish",
		Usage:       "Publish the draft version of a dataset",
		Description: cmdutil.TargetUsage,
		Arguments:   []cli.Argument{cmdutil.TargetArgument()},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  majorFlag,
				Usage: "Publish a new major version",
			},
			&cli.BoolFlag{
				Name:  minorFlag,
				Usage: "Publish a new minor version (default)",
			},
			&cli.BoolFlag{
				Name:  skipAssureIndexedFlag,
				Usage: "Do not make sure the dataset is indexed before publishing",
			},
			cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool(majorFlag) && cmd.Bool(minorFlag) {
				return fmt.Errorf("%w: --%s or --%s", cmdutil.ErrExclusiveInputs, majorFlag, minorFlag)
			}

			updateType := dataverse.UpdateMinor
			if cmd.Bool(majorFlag) {
				updateType = dataverse.UpdateMajor
			}

			skip := cmd.Bool(skipAssureIndexedFlag)

			return cmdutil.Each(ctx, cmd, noDefault, dataset, func(ctx context.Context, d *dataverse.DatasetAPI) (*dataverse.Response, error) {
				return d.Publish(ctx, updateType, skip)
			})
		},
	}
}

func versionCmd(name, usage string, fn func(context.Context, *dataverse.DatasetAPI, string) (*dataverse.Response, error)) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Description: `VERSION is a version number such as 1.0, or one of ` +
			dataverse.VersionDraft + `, ` + dataverse.VersionLatest + ` and ` + dataverse.VersionLatestPublished + `.

` + cmdutil.TargetUsage,
		Arguments: []cli.Argument{cmdutil.TargetArgument()},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     versionFlag,
				Usage:    "Version to retrieve",
				Required: true,
				OnlyOnce: true,
			},
			cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			version := cmd.String(versionFlag)

			return cmdutil.Each(ctx, cmd, noDefault, dataset, func(ctx context.Context, d *dataverse.DatasetAPI) (*dataverse.Response, error) {
				return fn(ctx, d, version)
			})
		},
	}
}

func validateFilesCmd() *cli.Command {
	return &cli.Command{
		Name:        "validate-files",
		Usage:       "Validate the fixity checksums of the files in a dataset",
		Description: cmdutil.TargetUsage,
		Arguments:   []cli.Argument{cmdutil.TargetArgument()},
		Flags:       []cli.Flag{cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// The admin endpoint takes the identifier as given.
			admin := func(c *dataverse.Client, id string) cmdutil.Bound[*dataverse.AdminAPI, string] {
				return cmdutil.Bound[*dataverse.AdminAPI, string]{Handle: c.Admin(), Params: id}
			}

			return cmdutil.Each(ctx, cmd, noDefault, admin, func(ctx context.Context, b cmdutil.Bound[*dataverse.AdminAPI, string]) (*dataverse.Response, error) {
				return b.Handle.ValidateDatasetFiles(ctx, b.Params)
			})
		},
	}
}

func deleteMetadataCmd() *cli.Command {
	return &cli.Command{
		Name:  "delete-metadata",
		Usage: "Delete metadata field values from a dataset",
		Description: `The values to delete are given with --field-value or in a parameters file.
Field values given together that belong to one compound field are deleted as one compound value.
A field name ending in '*' is a field with multiple values; 'parent.child' is a subfield.
The parameters file has a header row naming the fields and a column PID naming the dataset.
The dataset is in draft state after the operation.

` + cmdutil.TargetUsage,
		Arguments: []cli.Argument{cmdutil.TargetArgument()},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    fieldValueFlag,
				Aliases: []string{"f"},
				Usage:   "Field name and value to delete, as name=value. Repeat for more fields",
			},
			&cli.StringFlag{
				Name:      parametersFileFlag,
				Aliases:   []string{"p"},
				Usage:     "CSV file with a PID column and one column per field",
				TakesFile: true,
				OnlyOnce:  true,
			},
			cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis),
		},
		Action: deleteMetadata,
	}
}

func deleteMetadata(ctx context.Context, cmd *cli.Command) error {
	del := func(ctx context.Context, b cmdutil.Bound[*dataverse.DatasetAPI, fields]) (string, error) {
		if _, err := b.Handle.DeleteMetadata(ctx, dataverse.FieldList{Fields: b.Params}); err != nil {
			return "", err
		}

		return DeleteMetadataResult, nil
	}

	values, file := cmd.StringSlice(fieldValueFlag), cmd.String(parametersFileFlag)

	switch {
	case len(values) > 0 && file != "", len(values) == 0 && file == "":
		return fmt.Errorf("%w: --%s or --%s", cmdutil.ErrExclusiveInputs, fieldValueFlag, parametersFileFlag)

	case file != "":
		return cmdutil.FromParams(ctx, cmd, func(env *app.Env) (*runbatch.Items[fields], error) {
			return env.Params().FieldValues(file)
		}, dataset, del)
	}

	fv, err := params.ParseFieldValues(values)
	if err != nil {
		return err
	}

	return cmdutil.EachBound(ctx, cmd, noDefault, dataset, fv, del)
}

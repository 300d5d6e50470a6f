// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package collection contains the commands acting on Dataverse collections.
package collection

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

// DefaultTarget is the collection acted on when no target is given.
const DefaultTarget = "root"

const (
	datasetFlag        = "dataset"
	mdkeysFlag         = "mdkeys"
	persistentIDFlag   = "persistent-id"
	autoPublishFlag    = "auto-publish"
	isRootFlag         = "is-root"
	roleFlag           = "role"
	assigneeFlag       = "assignee"
	parametersFileFlag = "parameters-file"
)

type call = runbatch.Action[*dataverse.CollectionAPI, *dataverse.Response]

func collection(c *dataverse.Client, alias string) *dataverse.CollectionAPI {
	return c.Collection(alias)
}

// NewCommand returns the collection command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "collection",
		Usage: "Manage Dataverse collections",
		Description: `Each subcommand acts on one or more collections, identified by their alias.
When no target is given the root collection is used.

` + cmdutil.TargetUsage,
		Commands: []*cli.Command{
			createDatasetCmd(),
			importDatasetCmd(),
			simple("publish", "Publish a collection", func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.Publish(ctx)
			}),
			simple("delete", "Delete a collection", func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.Delete(ctx)
			}),
			simple("view", "View the metadata of a collection", func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.View(ctx)
			}),
			simple("get-contents", "List the datasets and collections in a collection", func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.Contents(ctx)
			}),
			simple("get-storage-size", "Get the storage size of a collection", func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.StorageSize(ctx)
			}),
			simple("list-roles", "List the roles defined in a collection", func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.ListRoles(ctx)
			}),
			simple("list-metadata-blocks", "List the metadata blocks of a collection", func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.ListMetadataBlocks(ctx)
			}),
			simple("is-metadata-blocks-root", "Tell whether a collection defines its own metadata blocks", func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.IsMetadataBlocksRoot(ctx)
			}),
			setMetadataBlocksRootCmd(),
			assignRoleCmd(),
			cmdutil.RoleAssignmentCommand("collection", DefaultTarget, func(c *dataverse.Client, alias string) cmdutil.RoleHolder {
				return c.Collection(alias)
			}),
		},
	}
}

// simple returns a command that makes one call per collection.
func simple(name, usage string, fn call) *cli.Command {
	return &cli.Command{
		Name:        name,
		Usage:       usage,
		Description: cmdutil.TargetUsage,
		Arguments:   []cli.Argument{cmdutil.TargetArgument()},
		Flags:       []cli.Flag{cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdutil.Each(ctx, cmd, DefaultTarget, collection, fn)
		},
	}
}

func mdkeysFlagDef() cli.Flag {
	return &cli.StringMapFlag{
		Name:    mdkeysFlag,
		Aliases: []string{"m"},
		Usage:   "Metadata block name and the key that unlocks it, as block=key. Repeat for more blocks",
	}
}

func createDatasetCmd() *cli.Command {
	return &cli.Command{
		Name:        "create-dataset",
		Usage:       "Create a dataset in a collection",
		Description: cmdutil.TargetUsage,
		Arguments:   []cli.Argument{cmdutil.TargetArgument()},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      datasetFlag,
				Usage:     "JSON file with the dataset description",
				TakesFile: true,
				Required:  true,
				OnlyOnce:  true,
			},
			mdkeysFlagDef(),
			cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, _, err := cmdutil.Session(ctx)
			if err != nil {
				return err
			}

			dataset, err := env.ReadFile(cmd.String(datasetFlag))
			if err != nil {
				return fmt.Errorf("reading dataset file: %w", err)
			}

			keys := cmd.StringMap(mdkeysFlag)

			return cmdutil.Each(ctx, cmd, DefaultTarget, collection, func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.CreateDataset(ctx, dataset, keys)
			})
		},
	}
}

func importDatasetCmd() *cli.Command {
	return &cli.Command{
		Name:        "import-dataset",
		Usage:       "Import a dataset with an existing persistent identifier into a collection",
		Description: cmdutil.TargetUsage,
		Arguments:   []cli.Argument{cmdutil.TargetArgument()},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     datasetFlag,
				Usage:    "JSON string defining the dataset to import",
				Required: true,
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     persistentIDFlag,
				Aliases:  []string{"p"},
				Usage:    "Existing persistent identifier (PID) of the dataset",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:    autoPublishFlag,
				Aliases: []string{"a"},
				Usage:   "Publish the dataset immediately",
			},
			mdkeysFlagDef(),
			cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dataset := []byte(cmd.String(datasetFlag))
			pid := cmd.String(persistentIDFlag)
			autoPublish := cmd.Bool(autoPublishFlag)
			keys := cmd.StringMap(mdkeysFlag)

			return cmdutil.Each(ctx, cmd, DefaultTarget, collection, func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.ImportDataset(ctx, dataset, pid, autoPublish, keys)
			})
		},
	}
}

func setMetadataBlocksRootCmd() *cli.Command {
	return &cli.Command{
		Name:        "set-metadata-blocks-root",
		Usage:       "Make a collection define its own metadata blocks, or inherit them from its parent",
		Description: cmdutil.TargetUsage,
		Arguments:   []cli.Argument{cmdutil.TargetArgument()},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     isRootFlag,
				Usage:    "Whether the collection is a metadata blocks root",
				Required: true,
			},
			cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			isRoot := cmd.Bool(isRootFlag)

			return cmdutil.Each(ctx, cmd, DefaultTarget, collection, func(ctx context.Context, c *dataverse.CollectionAPI) (*dataverse.Response, error) {
				return c.SetMetadataBlocksRoot(ctx, isRoot)
			})
		},
	}
}

func assignRoleCmd() *cli.Command {
	return &cli.Command{
		Name:  "assign-role",
		Usage: "Assign a role to a user in a collection",
		Description: `Either --role and --assignee are applied to every target,
or --parameters-file gives one assignment per row in the columns PID, ASSIGNEE and ROLE.

` + cmdutil.TargetUsage,
		Arguments: []cli.Argument{cmdutil.TargetArgument()},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     roleFlag,
				Usage:    "Alias of the role to assign",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:     assigneeFlag,
				Usage:    "Identifier of the user to assign the role to, e.g. @user",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:      parametersFileFlag,
				Aliases:   []string{"f"},
				Usage:     "CSV file with the columns PID, ASSIGNEE and ROLE, after a header row",
				TakesFile: true,
				OnlyOnce:  true,
			},
			cmdutil.DelayFlagWithDefault(cmdutil.DefaultDelayMillis),
		},
		Action: assignRole,
	}
}

func assignRole(ctx context.Context, cmd *cli.Command) error {
	assign := func(ctx context.Context, b cmdutil.Bound[*dataverse.CollectionAPI, dataverse.RoleAssignment]) (*dataverse.Response, error) {
		return b.Handle.AssignRole(ctx, b.Params)
	}

	role, assignee, file := cmd.String(roleFlag), cmd.String(assigneeFlag), cmd.String(parametersFileFlag)

	if file != "" {
		if role != "" || assignee != "" {
			return fmt.Errorf("%w: --%s and --%s, or --%s", cmdutil.ErrExclusiveInputs, roleFlag, assigneeFlag, parametersFileFlag)
		}

		return cmdutil.FromParams(ctx, cmd, func(env *app.Env) (*runbatch.Items[dataverse.RoleAssignment], error) {
			return env.Params().RoleAssignments(file)
		}, collection, assign)
	}

	ra, err := params.NewAssignment(assignee, role)
	if err != nil {
		return err
	}

	return cmdutil.EachBound(ctx, cmd, DefaultTarget, collection, ra, assign)
}

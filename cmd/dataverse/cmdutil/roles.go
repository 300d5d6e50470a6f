// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/dvcli/internal/app"
	"github.com/matt-FFFFFF/dvcli/internal/dataverse"
	"github.com/matt-FFFFFF/dvcli/internal/params"
	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	// AssignmentFlag is the name of the flag giving a role assignment as assignee=role.
	AssignmentFlag = "assignment"
	// ParameterFileFlag is the name of the flag giving a PID,ASSIGNEE,ROLE file.
	ParameterFileFlag = "parameter-file"
)

// ErrAssignmentNotFound is returned when there is no assignment to remove.
var ErrAssignmentNotFound = errors.New("Role assignment not found.") //nolint:staticcheck

// RoleHolder is an object roles can be assigned on: a collection or a dataset.
type RoleHolder interface {
	ListRoleAssignments(ctx context.Context) (*dataverse.Response, error)
	RoleAssignments(ctx context.Context) ([]dataverse.RoleAssignmentReadOnly, error)
	AssignRole(ctx context.Context, ra dataverse.RoleAssignment) (*dataverse.Response, error)
	DeleteRoleAssignment(ctx context.Context, id int64) (*dataverse.Response, error)
}

// RoleAssignmentCommand returns the role-assignment command with its list, add and remove subcommands.
func RoleAssignmentCommand(noun, defaultTarget string, handle func(*dataverse.Client, string) RoleHolder) *cli.Command {
	return &cli.Command{
		Name:  "role-assignment",
		Usage: fmt.Sprintf("Manage role assignments on a %s", noun),
		Commands: []*cli.Command{
			{
				Name:        "list",
				Usage:       fmt.Sprintf("List the role assignments of a %s", noun),
				Description: TargetUsage,
				Arguments:   []cli.Argument{TargetArgument()},
				Flags:       []cli.Flag{DelayFlagWithDefault(DefaultDelayMillis)},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return Each(ctx, cmd, defaultTarget, handle, func(ctx context.Context, h RoleHolder) (*dataverse.Response, error) {
						return h.ListRoleAssignments(ctx)
					})
				},
			},
			{
				Name:        "add",
				Usage:       fmt.Sprintf("Assign a role on a %s", noun),
				Description: TargetUsage,
				Arguments:   []cli.Argument{TargetArgument()},
				Flags:       assignmentFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withAssignments(ctx, cmd, defaultTarget, handle, func(ctx context.Context, b Bound[RoleHolder, dataverse.RoleAssignment]) (*dataverse.Response, error) {
						return b.Handle.AssignRole(ctx, b.Params)
					})
				},
			},
			{
				Name:        "remove",
				Usage:       fmt.Sprintf("Remove a role assignment from a %s", noun),
				Description: TargetUsage,
				Arguments:   []cli.Argument{TargetArgument()},
				Flags:       assignmentFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withAssignments(ctx, cmd, defaultTarget, handle, RemoveAssignment)
				},
			},
		},
	}
}

// RemoveAssignment deletes the existing assignment matching the assignee and role alias.
func RemoveAssignment(ctx context.Context, b Bound[RoleHolder, dataverse.RoleAssignment]) (*dataverse.Response, error) {
	existing, err := b.Handle.RoleAssignments(ctx)
	if err != nil {
		return nil, err
	}

	for _, ra := range existing {
		if ra.RoleAlias == b.Params.Role && ra.Assignee == b.Params.Assignee {
			return b.Handle.DeleteRoleAssignment(ctx, ra.ID)
		}
	}

	return nil, ErrAssignmentNotFound
}

func assignmentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     AssignmentFlag,
			Aliases:  []string{"a"},
			Usage:    "Role assignment as assignee=role, e.g. @dataverseAdmin=contributor",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      ParameterFileFlag,
			Aliases:   []string{"f"},
			Usage:     "CSV file with the columns PID, ASSIGNEE and ROLE, after a header row",
			TakesFile: true,
			OnlyOnce:  true,
		},
		DelayFlagWithDefault(DefaultDelayMillis),
	}
}

func withAssignments(
	ctx context.Context,
	cmd *cli.Command,
	defaultTarget string,
	handle func(*dataverse.Client, string) RoleHolder,
	call runbatch.Action[Bound[RoleHolder, dataverse.RoleAssignment], *dataverse.Response],
) error {
	assignment, file := cmd.String(AssignmentFlag), cmd.String(ParameterFileFlag)

	switch {
	case assignment != "" && file != "", assignment == "" && file == "":
		return fmt.Errorf("%w: --%s or --%s", ErrExclusiveInputs, AssignmentFlag, ParameterFileFlag)

	case file != "":
		return FromParams(ctx, cmd, func(env *app.Env) (*runbatch.Items[dataverse.RoleAssignment], error) {
			return env.Params().RoleAssignments(file)
		}, handle, call)
	}

	ra, err := params.ParseAssignment(assignment)
	if err != nil {
		return err
	}

	return EachBound(ctx, cmd, defaultTarget, handle, ra, call)
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package params

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/dvcli/internal/dataverse"
)

// ErrAssignmentSyntax is returned when a role assignment is not written as assignee=role.
var ErrAssignmentSyntax = errors.New("role assignment must be written as assignee=role, e.g. @dataverseAdmin=contributor")

// ParseAssignment parses an assignee=role pair such as "@dataverseAdmin=contributor".
func ParseAssignment(s string) (dataverse.RoleAssignment, error) {
	assignee, role, ok := strings.Cut(s, "=")
	if !ok || assignee == "" || role == "" {
		return dataverse.RoleAssignment{}, fmt.Errorf("%w: %q", ErrAssignmentSyntax, s)
	}

	return dataverse.RoleAssignment{Assignee: assignee, Role: role}, nil
}

// NewAssignment returns the assignment of role to assignee. Both must be given.
func NewAssignment(assignee, role string) (dataverse.RoleAssignment, error) {
	if assignee == "" || role == "" {
		return dataverse.RoleAssignment{}, fmt.Errorf("%w: assignee %q, role %q", ErrAssignmentSyntax, assignee, role)
	}

	return dataverse.RoleAssignment{Assignee: assignee, Role: role}, nil
}

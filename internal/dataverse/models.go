// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dataverse

// RoleAssignment grants a role to an assignee, e.g. "@dataverseAdmin" as "contributor".
type RoleAssignment struct {
	Assignee string `json:"assignee"`
	Role     string `json:"role"`
}

// RoleAssignmentReadOnly is an existing role assignment as listed by the server.
type RoleAssignmentReadOnly struct {
	ID        int64  `json:"id"`
	Assignee  string `json:"assignee"`
	RoleID    int64  `json:"roleId"`
	RoleName  string `json:"_roleName,omitempty"`
	RoleAlias string `json:"_roleAlias"`
	DefinedOn int64  `json:"definitionPointId"`
}

// Type classes of metadata fields.
const (
	TypeClassPrimitive = "primitive"
	TypeClassCompound  = "compound"
)

// MetadataField is the value of one metadata field.
// A primitive field holds a string, or a []string when it is multiple.
// A compound field holds a map of subfields, or a slice of such maps when it is multiple.
type MetadataField struct {
	TypeName  string `json:"typeName"`
	Multiple  bool   `json:"multiple"`
	TypeClass string `json:"typeClass"`
	Value     any    `json:"value"`
}

// FieldList is the request body of the metadata edit and delete calls.
type FieldList struct {
	Fields []MetadataField `json:"fields"`
}

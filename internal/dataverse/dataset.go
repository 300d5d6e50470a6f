// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dataverse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// UpdateType selects the version number bumped when a dataset is published.
type UpdateType string

const (
	// UpdateMinor publishes a minor version. It is the default.
	UpdateMinor UpdateType = "minor"
	// UpdateMajor publishes a major version.
	UpdateMajor UpdateType = "major"
)

// Special version identifiers.
const (
	VersionDraft           = ":draft"
	VersionLatest          = ":latest"
	VersionLatestPublished = ":latest-published"
)

// DatasetAPI addresses one dataset.
type DatasetAPI struct {
	client       *Client
	id           string
	isPersistent bool
}

func newDatasetAPI(c *Client, id string) *DatasetAPI {
	_, err := strconv.ParseInt(id, 10, 64)

	return &DatasetAPI{
		client:       c,
		id:           id,
		isPersistent: err != nil,
	}
}

// ID returns the identifier the API was created for.
func (d *DatasetAPI) ID() string {
	return d.id
}

// IsPersistentID reports whether the dataset is addressed by persistent identifier.
func (d *DatasetAPI) IsPersistentID() bool {
	return d.isPersistent
}

// String implements the Stringer interface.
func (d *DatasetAPI) String() string {
	return fmt.Sprintf("DatasetAPI(id=%s, persistent=%t)", d.id, d.isPersistent)
}

// target returns the path of the dataset and the query selecting it.
func (d *DatasetAPI) target(elem ...string) (string, url.Values) {
	query := url.Values{}
	p := "/api/datasets/"

	if d.isPersistent {
		p += ":persistentId"

		query.Set("persistentId", d.id)
	} else {
		p += d.id
	}

	for _, e := range elem {
		p += "/" + e
	}

	return p, query
}

func (d *DatasetAPI) call(ctx context.Context, method string, body []byte, extra url.Values, elem ...string) (*Response, error) {
	p, query := d.target(elem...)
	for k, vs := range extra {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	return d.client.do(ctx, request{method: method, path: p, query: query, body: body})
}

// Publish publishes the latest draft of the dataset.
// Unless skipAssureIndexed is set, the server first makes sure the dataset is indexed.
func (d *DatasetAPI) Publish(ctx context.Context, updateType UpdateType, skipAssureIndexed bool) (*Response, error) {
	if updateType == "" {
		updateType = UpdateMinor
	}

	extra := url.Values{}
	extra.Set("type", string(updateType))
	extra.Set("assureIsIndexed", strconv.FormatBool(!skipAssureIndexed))

	return d.call(ctx, http.MethodPost, nil, extra, "actions", ":publish")
}

// DeleteDraft deletes the draft version of the dataset.
func (d *DatasetAPI) DeleteDraft(ctx context.Context) (*Response, error) {
	return d.call(ctx, http.MethodDelete, nil, nil, "versions", VersionDraft)
}

// GetVersion returns the given version of the dataset.
func (d *DatasetAPI) GetVersion(ctx context.Context, version string) (*Response, error) {
	if version == "" {
		version = VersionLatest
	}

	return d.call(ctx, http.MethodGet, nil, nil, "versions", version)
}

// GetLatestVersion returns the latest version of the dataset, draft or published.
func (d *DatasetAPI) GetLatestVersion(ctx context.Context) (*Response, error) {
	return d.GetVersion(ctx, VersionLatest)
}

// GetFiles lists the files in the given version of the dataset.
func (d *DatasetAPI) GetFiles(ctx context.Context, version string) (*Response, error) {
	if version == "" {
		version = VersionLatest
	}

	return d.call(ctx, http.MethodGet, nil, nil, "versions", version, "files")
}

// ListRoleAssignments lists the role assignments on the dataset.
func (d *DatasetAPI) ListRoleAssignments(ctx context.Context) (*Response, error) {
	return d.call(ctx, http.MethodGet, nil, nil, "assignments")
}

// RoleAssignments returns the role assignments on the dataset, decoded.
func (d *DatasetAPI) RoleAssignments(ctx context.Context) ([]RoleAssignmentReadOnly, error) {
	return decodeAssignments(d.ListRoleAssignments(ctx))
}

// AssignRole creates a role assignment on the dataset.
func (d *DatasetAPI) AssignRole(ctx context.Context, ra RoleAssignment) (*Response, error) {
	body, err := json.Marshal(ra)
	if err != nil {
		return nil, err
	}

	return d.call(ctx, http.MethodPost, body, nil, "assignments")
}

// DeleteRoleAssignment removes the role assignment with the given id.
func (d *DatasetAPI) DeleteRoleAssignment(ctx context.Context, id int64) (*Response, error) {
	return d.call(ctx, http.MethodDelete, nil, nil, "assignments", strconv.FormatInt(id, 10))
}

// DeleteMetadata removes the given field values from the draft of the dataset,
// creating a draft if there is none.
func (d *DatasetAPI) DeleteMetadata(ctx context.Context, fields FieldList) (*Response, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	return d.call(ctx, http.MethodPut, body, nil, "deleteMetadata")
}

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

// CollectionAPI addresses one collection (a "dataverse" in the native API).
type CollectionAPI struct {
	client *Client
	alias  string
}

// Alias returns the alias or database id the API was created for.
func (a *CollectionAPI) Alias() string {
	return a.alias
}

// String implements the Stringer interface.
func (a *CollectionAPI) String() string {
	return fmt.Sprintf("CollectionAPI(alias=%s)", a.alias)
}

func (a *CollectionAPI) path(elem ...string) string {
	p := "/api/dataverses/" + url.PathEscape(a.alias)
	for _, e := range elem {
		p += "/" + e
	}

	return p
}

func (a *CollectionAPI) get(ctx context.Context, elem ...string) (*Response, error) {
	return a.client.do(ctx, request{method: http.MethodGet, path: a.path(elem...)})
}

// View returns the collection.
func (a *CollectionAPI) View(ctx context.Context) (*Response, error) {
	return a.get(ctx)
}

// Delete deletes the collection. Only empty, unpublished collections can be deleted.
func (a *CollectionAPI) Delete(ctx context.Context) (*Response, error) {
	return a.client.do(ctx, request{method: http.MethodDelete, path: a.path()})
}

// Publish publishes the collection.
func (a *CollectionAPI) Publish(ctx context.Context) (*Response, error) {
	return a.client.do(ctx, request{method: http.MethodPost, path: a.path("actions", ":publish")})
}

// Contents lists the datasets and collections directly in the collection.
func (a *CollectionAPI) Contents(ctx context.Context) (*Response, error) {
	return a.get(ctx, "contents")
}

// StorageSize returns the total size of the files stored in the collection.
func (a *CollectionAPI) StorageSize(ctx context.Context) (*Response, error) {
	return a.get(ctx, "storagesize")
}

// ListRoles lists the roles defined in the collection.
func (a *CollectionAPI) ListRoles(ctx context.Context) (*Response, error) {
	return a.get(ctx, "roles")
}

// ListMetadataBlocks lists the metadata blocks enabled for the collection.
func (a *CollectionAPI) ListMetadataBlocks(ctx context.Context) (*Response, error) {
	return a.get(ctx, "metadatablocks")
}

// IsMetadataBlocksRoot reports whether the collection defines its own metadata blocks.
func (a *CollectionAPI) IsMetadataBlocksRoot(ctx context.Context) (*Response, error) {
	return a.get(ctx, "metadatablocks", ":isRoot")
}

// SetMetadataBlocksRoot sets whether the collection defines its own metadata blocks.
func (a *CollectionAPI) SetMetadataBlocksRoot(ctx context.Context, isRoot bool) (*Response, error) {
	return a.client.do(ctx, request{
		method: http.MethodPost,
		path:   a.path("metadatablocks", ":isRoot"),
		body:   []byte(strconv.FormatBool(isRoot)),
	})
}

// ListRoleAssignments lists the role assignments on the collection.
func (a *CollectionAPI) ListRoleAssignments(ctx context.Context) (*Response, error) {
	return a.get(ctx, "assignments")
}

// RoleAssignments returns the role assignments on the collection, decoded.
func (a *CollectionAPI) RoleAssignments(ctx context.Context) ([]RoleAssignmentReadOnly, error) {
	return decodeAssignments(a.ListRoleAssignments(ctx))
}

// AssignRole creates a role assignment on the collection.
func (a *CollectionAPI) AssignRole(ctx context.Context, ra RoleAssignment) (*Response, error) {
	body, err := json.Marshal(ra)
	if err != nil {
		return nil, err
	}

	return a.client.do(ctx, request{method: http.MethodPost, path: a.path("assignments"), body: body})
}

// DeleteRoleAssignment removes the role assignment with the given id.
func (a *CollectionAPI) DeleteRoleAssignment(ctx context.Context, id int64) (*Response, error) {
	return a.client.do(ctx, request{
		method: http.MethodDelete,
		path:   a.path("assignments", strconv.FormatInt(id, 10)),
	})
}

// CreateDataset creates a dataset in the collection from its JSON representation.
// metadataKeys maps metadata block names to the keys that unlock them.
func (a *CollectionAPI) CreateDataset(ctx context.Context, datasetJSON []byte, metadataKeys map[string]string) (*Response, error) {
	return a.client.do(ctx, request{
		method:  http.MethodPost,
		path:    a.path("datasets"),
		body:    datasetJSON,
		headers: metadataKeyHeaders(metadataKeys),
	})
}

// ImportDataset imports a dataset with an existing persistent identifier into the collection.
func (a *CollectionAPI) ImportDataset(ctx context.Context, datasetJSON []byte, pid string, autoPublish bool, metadataKeys map[string]string) (*Response, error) {
	query := url.Values{}
	if pid != "" {
		query.Set("pid", pid)
	}

	release := "no"
	if autoPublish {
		release = "yes"
	}

	query.Set("release", release)

	return a.client.do(ctx, request{
		method:  http.MethodPost,
		path:    a.path("datasets", ":import"),
		query:   query,
		body:    datasetJSON,
		headers: metadataKeyHeaders(metadataKeys),
	})
}

func metadataKeyHeaders(keys map[string]string) map[string]string {
	if len(keys) == 0 {
		return nil
	}

	headers := make(map[string]string, len(keys))
	for block, key := range keys {
		headers[MetadataKeyHeaderPrefix+block] = key
	}

	return headers
}

func decodeAssignments(resp *Response, err error) ([]RoleAssignmentReadOnly, error) {
	if err != nil {
		return nil, err
	}

	var out []RoleAssignmentReadOnly
	if err := resp.Data(&out); err != nil {
		return nil, err
	}

	return out, nil
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dataverse

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// AdminAPI exposes the admin endpoints used by this tool.
type AdminAPI struct {
	client *Client
}

// ValidateDatasetFiles recalculates and checks the checksums of the files of a dataset.
// id is a database id or a persistent identifier.
func (a *AdminAPI) ValidateDatasetFiles(ctx context.Context, id string) (*Response, error) {
	query := url.Values{}
	p := "/api/admin/validate/dataset/files/"

	if _, err := strconv.ParseInt(id, 10, 64); err == nil {
		p += id
	} else {
		p += ":persistentId"

		query.Set("persistentId", id)
	}

	if a.client.unblockKey != "" {
		query.Set("unblock-key", a.client.unblockKey)
	}

	return a.client.do(ctx, request{method: http.MethodPost, path: p, query: query})
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dataverse is a small client for the native and admin HTTP APIs of a Dataverse
// content repository. Each call returns the raw response envelope so that commands can
// print exactly what the server sent.
//
// Collections are addressed by alias or database id. Datasets are addressed by database id
// when the identifier is numeric, and by persistent identifier otherwise.
package dataverse

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package database is a thin wrapper over a connection to the Dataverse PostgreSQL database.
//
// Query results are returned as rows of strings, optionally headed by the column names,
// which is all the maintenance commands need.
package database

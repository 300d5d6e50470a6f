// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package app holds the dependencies shared by the commands: settings, the API client,
// the database, the input and output streams and the filesystem.
// Commands find the Env in their context and build only what they use.
package app

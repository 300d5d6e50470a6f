// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdutil contains the argument, flags and batch wiring shared by the subcommands.
package cmdutil

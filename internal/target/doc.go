// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package target turns the positional target argument of a command into an ordered,
// lazily read sequence of identifiers.
//
// The argument is one of:
//
//   - a literal identifier, e.g. doi:10.5072/FK2/ABCDEF or 42
//   - "-", read identifiers from standard input
//   - the path of an existing regular file of whitespace or newline separated identifiers
//   - nothing, in which case the command's default identifier is used
//
// A literal is only treated as a file if something exists at that path.
package target

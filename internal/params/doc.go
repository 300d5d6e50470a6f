// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package params parses the command parameters that go beyond a plain target list:
// metadata field values, role assignments and the CSV parameter files that carry them per target.
//
// Field names follow a small grammar. A trailing asterisk marks a repeatable field and a dotted
// name addresses a subfield of a compound field:
//
//	title=My title
//	keyword*=physics
//	author*.authorName=Jane Doe
//	author*.authorAffiliation=Example University
//
// Subfields of the same parent are merged into one compound value.
package params

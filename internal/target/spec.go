// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package target

import "fmt"

const (
	// DefaultPlaceholder stands for an omitted target argument.
	DefaultPlaceholder = "__DEFAULT_TARGET_PLACEHOLDER__"
	// StdinMarker selects standard input as the source of identifiers.
	StdinMarker = "-"
)

// Kind distinguishes the forms a target expression can take.
type Kind int

const (
	// KindLiteral is an identifier, or the path of a file of identifiers if one exists there.
	KindLiteral Kind = iota
	// KindStdin reads identifiers from standard input.
	KindStdin
	// KindFile reads identifiers from a file that must exist.
	KindFile
	// KindDefault yields the command's default identifier.
	KindDefault
)

// String implements the Stringer interface for Kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindStdin:
		return "stdin"
	case KindFile:
		return "file"
	case KindDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Spec is a parsed target expression. It is immutable once created.
type Spec struct {
	kind  Kind
	value string
}

// Parse interprets a raw target argument. An empty argument selects the default.
func Parse(arg string) Spec {
	switch arg {
	case "", DefaultPlaceholder:
		return Default()
	case StdinMarker:
		return Stdin()
	default:
		return Literal(arg)
	}
}

// Literal returns a spec for a literal value.
func Literal(v string) Spec {
	return Spec{kind: KindLiteral, value: v}
}

// File returns a spec that reads identifiers from path.
func File(path string) Spec {
	return Spec{kind: KindFile, value: path}
}

// Stdin returns a spec that reads identifiers from standard input.
func Stdin() Spec {
	return Spec{kind: KindStdin}
}

// Default returns a spec that yields the command's default identifier.
func Default() Spec {
	return Spec{kind: KindDefault}
}

// Kind returns the form of the expression.
func (s Spec) Kind() Kind {
	return s.kind
}

// Value returns the literal or path, empty for the other kinds.
func (s Spec) Value() string {
	return s.value
}

// String implements the Stringer interface for Spec.
func (s Spec) String() string {
	switch s.kind {
	case KindLiteral, KindFile:
		return fmt.Sprintf("%s(%s)", s.kind, s.value)
	default:
		return s.kind.String()
	}
}

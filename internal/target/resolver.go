// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package target

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"os"
	"strings"

	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
	"github.com/spf13/afero"
)

var (
	// ErrNoDefault is returned when the target is omitted and the command has no default.
	ErrNoDefault = errors.New("no target specified and the command has no default target")
	// ErrResolve is returned when the source of identifiers cannot be opened or read.
	ErrResolve = errors.New("cannot resolve target")
)

// NotRegularFileError is returned when a target path exists but is not a regular file.
type NotRegularFileError struct {
	Path string
}

// Error implements the error interface.
func (e *NotRegularFileError) Error() string {
	return e.Path + " is not a regular file"
}

// Category implements runbatch.Categorizer.
func (e *NotRegularFileError) Category() string {
	return "IOException"
}

// Resolver resolves target expressions against a filesystem and standard input.
type Resolver struct {
	fs    afero.Fs
	stdin io.Reader
}

// NewResolver creates a resolver. A nil fs selects FsFactory, a nil stdin selects os.Stdin.
func NewResolver(fs afero.Fs, stdin io.Reader) *Resolver {
	if fs == nil {
		fs = FsFactory()
	}

	if stdin == nil {
		stdin = os.Stdin
	}

	return &Resolver{fs: fs, stdin: stdin}
}

// Resolve turns spec into identifiers, each labeled with itself.
// Errors that can be detected before the first identifier is read are returned here.
// Read errors on a stream surface as source errors while the items are consumed.
func (r *Resolver) Resolve(spec Spec, defaultValue string) (*runbatch.Items[string], error) {
	switch spec.Kind() {
	case KindDefault:
		if defaultValue == "" {
			return nil, ErrNoDefault
		}

		return runbatch.FromSlice([]runbatch.Item[string]{ident(defaultValue)}), nil

	case KindStdin:
		return runbatch.FromSeq(scanIdentifiers(r.stdin, true), nil), nil

	case KindFile:
		return r.openFile(spec.Value())

	case KindLiteral:
		if _, err := r.fs.Stat(spec.Value()); err == nil {
			return r.openFile(spec.Value())
		}

		ids := splitLine(spec.Value(), true)
		items := make([]runbatch.Item[string], 0, len(ids))

		for _, id := range ids {
			items = append(items, ident(id))
		}

		return runbatch.FromSlice(items), nil
	}

	return nil, fmt.Errorf("%w: unknown target kind %s", ErrResolve, spec.Kind())
}

func (r *Resolver) openFile(path string) (*runbatch.Items[string], error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}

	if !info.Mode().IsRegular() {
		return nil, &NotRegularFileError{Path: path}
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}

	return runbatch.FromSeq(scanIdentifiers(f, false), f.Close), nil
}

// scanIdentifiers reads r line by line. A line without tokens yields a single
// empty identifier when keepEmpty is set, and nothing otherwise.
func scanIdentifiers(r io.Reader, keepEmpty bool) iter.Seq2[runbatch.Item[string], error] {
	return func(yield func(runbatch.Item[string], error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, initialLineBuffer), math.MaxInt)

		for scanner.Scan() {
			for _, id := range splitLine(scanner.Text(), keepEmpty) {
				if !yield(ident(id), nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			yield(runbatch.Item[string]{}, fmt.Errorf("%w: %w", ErrResolve, err))
		}
	}
}

// initialLineBuffer is the starting size of the line buffer. It grows to fit longer lines.
const initialLineBuffer = 64 * 1024

// isSeparator reports whether c separates identifiers. Only ASCII whitespace does,
// so a non-breaking space stays inside an identifier.
func isSeparator(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func splitLine(line string, keepEmpty bool) []string {
	fields := strings.FieldsFunc(line, isSeparator)
	if len(fields) == 0 && keepEmpty {
		return []string{""}
	}

	return fields
}

func ident(id string) runbatch.Item[string] {
	return runbatch.Item[string]{Label: id, Value: id}
}

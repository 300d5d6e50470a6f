// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package params

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/dvcli/internal/dataverse"
	"github.com/matt-FFFFFF/dvcli/internal/runbatch"
	"github.com/spf13/afero"
)

// PIDColumn is the column holding the target of each row.
const PIDColumn = "PID"

// The columns of a role assignment file, in order.
var assignmentColumns = []string{PIDColumn, "ASSIGNEE", "ROLE"}

var (
	// ErrOpenParams is returned when a parameters file cannot be opened.
	ErrOpenParams = errors.New("cannot open parameters file")
	// ErrReadParams is returned when a parameters file cannot be read or parsed.
	ErrReadParams = errors.New("cannot read parameters file")
	// ErrNoPIDColumn is returned when the header of a parameters file has no PID column.
	ErrNoPIDColumn = errors.New("parameters file has no PID column")
	// ErrMissingPID is yielded for a row without a PID.
	ErrMissingPID = errors.New("PID is missing in the parameters file")
)

// Reader opens parameter files.
type Reader struct {
	fs afero.Fs
}

// NewReader returns a Reader on fs. A nil fs means the filesystem from FsFactory.
func NewReader(fs afero.Fs) *Reader {
	if fs == nil {
		fs = FsFactory()
	}

	return &Reader{fs: fs}
}

// RoleAssignments streams the rows of a role assignment file, labeled with their PID.
// The first row is a header and is skipped. Columns are read by position: PID, ASSIGNEE, ROLE.
func (r *Reader) RoleAssignments(path string) (*runbatch.Items[dataverse.RoleAssignment], error) {
	cr, f, err := r.open(path)
	if err != nil {
		return nil, err
	}

	seq := func(yield func(runbatch.Item[dataverse.RoleAssignment], error) bool) {
		if _, err := cr.Read(); err != nil {
			if !errors.Is(err, io.EOF) {
				yield(runbatch.Item[dataverse.RoleAssignment]{}, readError(path, err))
			}

			return
		}

		for rec, err := range records(cr) {
			if err != nil {
				yield(runbatch.Item[dataverse.RoleAssignment]{}, readError(path, err))
				return
			}

			if len(rec) < len(assignmentColumns) {
				yield(runbatch.Item[dataverse.RoleAssignment]{}, readError(path,
					fmt.Errorf("row has %d columns, want %s", len(rec), strings.Join(assignmentColumns, ","))))

				return
			}

			item := runbatch.Item[dataverse.RoleAssignment]{
				Label: rec[0],
				Value: dataverse.RoleAssignment{Assignee: rec[1], Role: rec[2]},
			}

			if !yield(item, nil) {
				return
			}
		}
	}

	return runbatch.FromSeq(seq, f.Close), nil
}

// FieldValues streams the rows of a field values file, labeled with their PID.
// The header names the fields, see FieldsFromMap. A row without a PID ends the stream with ErrMissingPID.
func (r *Reader) FieldValues(path string) (*runbatch.Items[[]dataverse.MetadataField], error) {
	cr, f, err := r.open(path)
	if err != nil {
		return nil, err
	}

	header, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, readError(path, err)
	}

	pidIdx := slices.Index(header, PIDColumn)
	if err == nil && pidIdx < 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoPIDColumn, path)
	}

	seq := func(yield func(runbatch.Item[[]dataverse.MetadataField], error) bool) {
		if header == nil {
			return
		}

		for rec, err := range records(cr) {
			if err != nil {
				yield(runbatch.Item[[]dataverse.MetadataField]{}, readError(path, err))
				return
			}

			pid := rec[pidIdx]
			if strings.TrimSpace(pid) == "" {
				yield(runbatch.Item[[]dataverse.MetadataField]{}, ErrMissingPID)
				return
			}

			kv := make(map[string]string, len(header)-1)

			for i, name := range header {
				if i != pidIdx {
					kv[name] = rec[i]
				}
			}

			fields, err := FieldsFromMap(kv)
			if err != nil {
				yield(runbatch.Item[[]dataverse.MetadataField]{Label: pid}, err)
				return
			}

			if !yield(runbatch.Item[[]dataverse.MetadataField]{Label: pid, Value: fields}, nil) {
				return
			}
		}
	}

	return runbatch.FromSeq(seq, f.Close), nil
}

func (r *Reader) open(path string) (*csv.Reader, afero.File, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, nil, errors.Join(ErrOpenParams, err)
	}

	return csv.NewReader(f), f, nil
}

// records yields the remaining records of cr until EOF.
func records(cr *csv.Reader) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		for {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

func readError(path string, err error) error {
	return fmt.Errorf("%w %s: %w", ErrReadParams, path, err)
}

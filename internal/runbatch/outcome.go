// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// Action is the operation applied to a single item.
// Any error it returns, or any panic it raises, fails that item only.
type Action[I, R any] func(ctx context.Context, item I) (R, error)

// Categorizer is implemented by errors that name their own category for reports.
type Categorizer interface {
	Category() string
}

// ItemError describes the failure of one item for display: the category of the error and its message.
type ItemError struct {
	Category string
	Message  string
	Err      error
}

// NewItemError wraps err for reporting.
func NewItemError(err error) *ItemError {
	return &ItemError{
		Category: CategoryOf(err),
		Message:  err.Error(),
		Err:      err,
	}
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return e.Category + ": " + e.Message
}

// Unwrap returns the underlying error.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// PanicError is the error recorded when an action panics.
type PanicError struct {
	v any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	switch x := e.v.(type) {
	case string:
		return "action panic: " + x
	case error:
		return "action panic: " + x.Error()
	default:
		return fmt.Sprintf("action panic: %v", x)
	}
}

// Category implements Categorizer.
func (e *PanicError) Category() string {
	return "Panic"
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.v.(error); ok {
		return err
	}

	return nil
}

// CategoryOf returns the display category of err.
// The first Categorizer found in the chain wins. Cancellation is reported as "Cancelled".
// Otherwise plain wrappers from the errors and fmt packages are looked through
// and the name of the first concrete error type is used.
func CategoryOf(err error) string {
	if err == nil {
		return ""
	}

	var c Categorizer
	if errors.As(err, &c) {
		return c.Category()
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "Cancelled"
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		if name := typeName(e); name != "" {
			return name
		}
	}

	return "Error"
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.PkgPath() {
	case "errors", "fmt":
		return ""
	}

	return t.Name()
}

// Outcome records what happened to one item.
// Exactly one of Result and Err is meaningful: Err is nil on success.
type Outcome[I, R any] struct {
	Index  int
	Label  string
	Item   I
	Result R
	Err    *ItemError
}

// Succeeded reports whether the action returned without error.
func (o Outcome[I, R]) Succeeded() bool {
	return o.Err == nil
}

// run calls action with the failure boundary in place.
func run[I, R any](ctx context.Context, action Action[I, R], item I) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{v: r}
		}
	}()

	return action(ctx, item)
}

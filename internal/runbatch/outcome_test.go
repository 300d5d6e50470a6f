// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "categorizer", err: &runtimeException{msg: "x"}, want: "RuntimeException"},
		{name: "wrapped categorizer", err: fmt.Errorf("publish: %w", &runtimeException{msg: "x"}), want: "RuntimeException"},
		{name: "plain error", err: errors.New("x"), want: "Error"},
		{name: "cancelled", err: fmt.Errorf("get: %w", context.Canceled), want: "Cancelled"},
		{name: "deadline", err: context.DeadlineExceeded, want: "Cancelled"},
		{name: "typed error behind fmt wrapper", err: fmt.Errorf("open: %w", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}), want: "PathError"},
		{name: "panic", err: &PanicError{v: "boom"}, want: "Panic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryOf(tt.err))
		})
	}
}

func TestNewItemError(t *testing.T) {
	cause := &runtimeException{msg: "test"}
	ie := NewItemError(cause)

	assert.Equal(t, "RuntimeException", ie.Category)
	assert.Equal(t, "test", ie.Message)
	assert.Equal(t, "RuntimeException: test", ie.Error())
	assert.ErrorIs(t, ie, cause)
}

func TestPanicError(t *testing.T) {
	inner := errors.New("inner")

	tests := []struct {
		name string
		v    any
		want string
	}{
		{name: "string", v: "boom", want: "action panic: boom"},
		{name: "error", v: inner, want: "action panic: inner"},
		{name: "other", v: 42, want: "action panic: 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, (&PanicError{v: tt.v}).Error())
		})
	}

	assert.ErrorIs(t, &PanicError{v: inner}, inner)
	assert.NoError(t, (&PanicError{v: "x"}).Unwrap())
}

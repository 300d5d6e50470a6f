// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrettyHandler(t *testing.T) {
	handler := NewPrettyHandler(nil)
	require.NotNil(t, handler)
	assert.NotNil(t, handler.h)
	assert.NotNil(t, handler.b)
	assert.NotNil(t, handler.m)
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.colour)
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name    string
		level   slog.Level
		options *slog.HandlerOptions
		want    bool
	}{
		{
			name:    "debug level with debug handler",
			level:   slog.LevelDebug,
			options: &slog.HandlerOptions{Level: slog.LevelDebug},
			want:    true,
		},
		{
			name:    "debug level with info handler",
			level:   slog.LevelDebug,
			options: &slog.HandlerOptions{Level: slog.LevelInfo},
			want:    false,
		},
		{
			name:    "error level with warn handler",
			level:   slog.LevelError,
			options: &slog.HandlerOptions{Level: slog.LevelWarn},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPrettyHandler(tt.options)
			assert.Equal(t, tt.want, handler.Enabled(context.Background(), tt.level))
		})
	}
}

func TestLevelStyle(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  lipgloss.Style
	}{
		{level: slog.LevelDebug - 4, want: levelStyles[0].style},
		{level: slog.LevelDebug, want: levelStyles[0].style},
		{level: slog.LevelInfo, want: levelStyles[1].style},
		{level: slog.LevelInfo + 2, want: levelStyles[2].style},
		{level: slog.LevelWarn, want: levelStyles[3].style},
		{level: slog.LevelError, want: levelStyles[4].style},
		{level: slog.LevelError + 4, want: fatalStyle},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, levelStyle(tt.level))
		})
	}
}

func TestPrettyHandler_Handle_SuppressedFields(t *testing.T) {
	var buf bytes.Buffer

	handler := NewPrettyHandler(&slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}

			return a
		},
	}, WithDestinationWriter(&buf))

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "Finished batch processing of 2 items", 0)
	require.NoError(t, handler.Handle(context.Background(), record))

	assert.Equal(t, "Finished batch processing of 2 items\n", buf.String())
}

func TestPrettyHandler_DerivedHandlersShareState(t *testing.T) {
	handler := NewPrettyHandler(&slog.HandlerOptions{}, WithOutputEmptyAttrs(), WithColour())

	for name, derived := range map[string]slog.Handler{
		"attrs": handler.WithAttrs([]slog.Attr{slog.String("command", "publish")}),
		"group": handler.WithGroup("batch"),
	} {
		t.Run(name, func(t *testing.T) {
			ph, ok := derived.(*PrettyHandler)
			require.True(t, ok)
			assert.Same(t, handler.b, ph.b)
			assert.Same(t, handler.m, ph.m)
			assert.True(t, ph.colour)
			assert.True(t, ph.outputEmptyAttrs)
		})
	}
}

func TestPrettyHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		level          slog.Level
		message        string
		attrs          []any
		options        []Option
		expectInOutput []string
	}{
		{
			name:           "progress line",
			level:          slog.LevelInfo,
			message:        "Processing item 2 of ?: root",
			expectInOutput: []string{"INFO:", "Processing item 2 of ?: root"},
		},
		{
			name:           "debug message with attributes",
			level:          slog.LevelDebug,
			message:        "Sleeping for 1000 ms",
			attrs:          []any{"item", 2},
			expectInOutput: []string{"DEBUG:", "Sleeping for 1000 ms", `"item"`, "2"},
		},
		{
			name:           "error message",
			level:          slog.LevelError,
			message:        "Sleep interrupted",
			expectInOutput: []string{"ERROR:", "Sleep interrupted"},
		},
		{
			name:           "empty attrs output enabled",
			level:          slog.LevelInfo,
			message:        "test message",
			options:        []Option{WithOutputEmptyAttrs()},
			expectInOutput: []string{"INFO:", "test message", "{}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			opts := append([]Option{WithDestinationWriter(&buf)}, tt.options...)
			handler := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, opts...)

			record := slog.NewRecord(time.Now(), tt.level, tt.message, 0)
			record.Add(tt.attrs...)

			require.NoError(t, handler.Handle(context.Background(), record))

			output := buf.String()
			for _, expected := range tt.expectInOutput {
				assert.Contains(t, output, expected)
			}

			assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
		})
	}
}

func TestPrettyHandler_Handle_WithReplaceAttr(t *testing.T) {
	var buf bytes.Buffer

	replaceAttr := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}

		if a.Key == "api_key" {
			return slog.String("api_key", "[REDACTED]")
		}

		return a
	}

	handler := NewPrettyHandler(&slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: replaceAttr,
	}, WithDestinationWriter(&buf))

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "connecting", 0)
	record.Add("api_key", "secret-token", "base_url", "https://demo.example")

	require.NoError(t, handler.Handle(context.Background(), record))

	output := buf.String()
	assert.Contains(t, output, "[REDACTED]")
	assert.NotContains(t, output, "secret-token")
	assert.Contains(t, output, "https://demo.example")
}

func TestPrettyHandler_WriteError(t *testing.T) {
	handler := NewPrettyHandler(nil, WithDestinationWriter(failingWriter{}))

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "test", 0)
	err := handler.Handle(context.Background(), record)
	assert.ErrorIs(t, err, ErrIoWrite)
}

func TestPrettyHandler_computeAttrs_Error(t *testing.T) {
	handler := &PrettyHandler{
		h: &failingHandler{},
		b: &bytes.Buffer{},
		m: &sync.Mutex{},
	}

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "test", 0)
	_, err := handler.computeAttrs(context.Background(), record)
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("handler failure")
}

func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h failingHandler) WithGroup(string) slog.Handler { return h }

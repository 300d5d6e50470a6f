// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("nil logger selects the default", func(t *testing.T) {
		ctx := New(context.Background(), nil)
		assert.Same(t, DefaultLogger, Logger(ctx))
	})

	t.Run("custom logger is carried in the context", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		ctx := New(context.Background(), logger)
		assert.Same(t, logger, Logger(ctx))
	})
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{
			name: "context without logger",
			ctx:  context.Background(),
		},
		{
			name: "context with nil logger value",
			ctx:  context.WithValue(context.Background(), loggerKey{}, nil),
		},
		{
			name: "context with wrong type value",
			ctx:  context.WithValue(context.Background(), loggerKey{}, "not a logger"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, DefaultLogger, Logger(tt.ctx))
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx := New(context.Background(), logger)

	tests := []struct {
		name     string
		logFunc  func(context.Context, string, ...any)
		message  string
		expected string
	}{
		{name: "info", logFunc: Info, message: "test info message", expected: "level=INFO"},
		{name: "debug", logFunc: Debug, message: "test debug message", expected: "level=DEBUG"},
		{name: "warn", logFunc: Warn, message: "test warning message", expected: "level=WARN"},
		{name: "error", logFunc: Error, message: "test error message", expected: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc(ctx, tt.message, "key", "value")

			output := buf.String()
			assert.Contains(t, output, tt.expected)
			assert.Contains(t, output, tt.message)
			assert.Contains(t, output, "key=value")
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "WARN", want: slog.LevelWarn},
		{in: " ERROR ", want: slog.LevelError},
		{in: "INVALID", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestLevelEnvVar(t *testing.T) {
	name := LevelEnvVar()
	assert.Regexp(t, `^[A-Z0-9_.\-]+_LOG_LEVEL$`, name)
}

func TestNewJSON(t *testing.T) {
	originalLevel := LevelVar.Level()
	defer LevelVar.Set(originalLevel)

	LevelVar.Set(slog.LevelDebug)

	var buf bytes.Buffer

	logger := NewJSON(&buf)
	logger.Info("Processing item 1 of 2: doi:10.5072/abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "Processing item 1 of 2: doi:10.5072/abc", line["msg"])
}

func TestNewPretty_FollowsSharedLevel(t *testing.T) {
	originalLevel := LevelVar.Level()
	defer LevelVar.Set(originalLevel)

	var buf bytes.Buffer

	logger := NewPretty(&buf, false)

	LevelVar.Set(slog.LevelWarn)
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	LevelVar.Set(slog.LevelInfo)
	logger.Info("shown")
	assert.Contains(t, buf.String(), "INFO: shown")
}

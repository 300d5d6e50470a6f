// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	// ErrMarshalAttribute is returned when an error occurs while marshaling an attribute.
	ErrMarshalAttribute = errors.New("error when marshaling attribute")
	// ErrIoWrite is returned when an error occurs while writing to the output.
	ErrIoWrite = errors.New("error when writing to output")
)

const (
	// TimeFormat is the format used for timestamps in log messages.
	TimeFormat = "[15:04:05.000]"
)

var (
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// levelStyles maps the highest level of each band to its colour; anything above the last band is fatal.
var levelStyles = []struct {
	upTo  slog.Level
	style lipgloss.Style
}{
	{upTo: slog.LevelDebug, style: lipgloss.NewStyle().Foreground(lipgloss.Color("7"))},
	{upTo: slog.LevelInfo, style: lipgloss.NewStyle().Foreground(lipgloss.Color("6"))},
	{upTo: slog.LevelWarn - 1, style: lipgloss.NewStyle().Foreground(lipgloss.Color("4"))},
	{upTo: slog.LevelError - 1, style: lipgloss.NewStyle().Foreground(lipgloss.Color("3"))},
	{upTo: slog.LevelError + 1, style: lipgloss.NewStyle().Foreground(lipgloss.Color("1"))},
}

var fatalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))

func levelStyle(level slog.Level) lipgloss.Style {
	for _, band := range levelStyles {
		if level <= band.upTo {
			return band.style
		}
	}

	return fatalStyle
}

// PrettyHandler is a custom slog handler that formats log messages to the console in a pretty way.
type PrettyHandler struct {
	h                slog.Handler
	r                func([]string, slog.Attr) slog.Attr
	b                *bytes.Buffer
	m                *sync.Mutex
	writer           io.Writer
	colour           bool
	outputEmptyAttrs bool
}

// Enabled checks if the handler is enabled for the given level.
func (h *PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

// WithAttrs creates a new handler with the given attributes.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.clone(h.h.WithAttrs(attrs))
}

// WithGroup creates a new handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return h.clone(h.h.WithGroup(name))
}

func (h *PrettyHandler) clone(inner slog.Handler) *PrettyHandler {
	return &PrettyHandler{
		h:                inner,
		b:                h.b,
		r:                h.r,
		m:                h.m,
		writer:           h.writer,
		colour:           h.colour,
		outputEmptyAttrs: h.outputEmptyAttrs,
	}
}

func (h *PrettyHandler) paint(s string, style lipgloss.Style) string {
	if !h.colour {
		return s
	}

	return style.Render(s)
}

func (h *PrettyHandler) computeAttrs(
	ctx context.Context,
	r slog.Record,
) (map[string]any, error) {
	h.m.Lock()
	defer func() {
		h.b.Reset()
		h.m.Unlock()
	}()

	if err := h.h.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}

	var attrs map[string]any

	err := json.Unmarshal(h.b.Bytes(), &attrs)
	if err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}

	return attrs, nil
}

// field passes a built-in attribute through ReplaceAttr.
// It returns false when ReplaceAttr removed the attribute.
func (h *PrettyHandler) field(key string, value slog.Value) (string, bool) {
	attr := slog.Attr{Key: key, Value: value}
	if h.r != nil {
		attr = h.r(nil, attr)
	}

	if attr.Equal(slog.Attr{}) {
		return "", false
	}

	return attr.Value.String(), true
}

func (h *PrettyHandler) formatAttrs(attrs map[string]any) ([]byte, error) {
	formatter := colorjson.NewFormatter()
	formatter.Indent = 2
	formatter.DisabledColor = !h.colour

	out, err := formatter.Marshal(attrs)
	if err != nil {
		return nil, errors.Join(ErrMarshalAttribute, err)
	}

	return out, nil
}

// Handle implements the slog.Handler interface for PrettyHandler.
// A line reads: timestamp, level, message, then the remaining attributes as JSON.
func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	parts := make([]string, 0, 4)

	if ts, ok := h.field(slog.TimeKey, slog.StringValue(r.Time.Format(TimeFormat))); ok {
		parts = append(parts, h.paint(ts, timeStyle))
	}

	if level, ok := h.field(slog.LevelKey, slog.AnyValue(r.Level)); ok {
		parts = append(parts, h.paint(level+":", levelStyle(r.Level)))
	}

	if msg, ok := h.field(slog.MessageKey, slog.StringValue(r.Message)); ok {
		parts = append(parts, h.paint(msg, messageStyle))
	}

	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return err
	}

	if h.outputEmptyAttrs || len(attrs) > 0 {
		formatted, err := h.formatAttrs(attrs)
		if err != nil {
			return err
		}

		parts = append(parts, string(formatted))
	}

	if _, err := io.WriteString(h.writer, strings.Join(parts, " ")+"\n"); err != nil {
		return errors.Join(ErrIoWrite, err)
	}

	return nil
}

func suppressDefaults(next func([]string, slog.Attr) slog.Attr,
) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey ||
			a.Key == slog.LevelKey ||
			a.Key == slog.MessageKey {
			return slog.Attr{}
		}

		if next == nil {
			return a
		}

		return next(groups, a)
	}
}

// NewPrettyHandler creates a new PrettyHandler with the given options.
func NewPrettyHandler(handlerOptions *slog.HandlerOptions, options ...Option) *PrettyHandler {
	if handlerOptions == nil {
		handlerOptions = &slog.HandlerOptions{}
	}

	buf := &bytes.Buffer{}
	handler := &PrettyHandler{
		b: buf,
		h: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       handlerOptions.Level,
			AddSource:   handlerOptions.AddSource,
			ReplaceAttr: suppressDefaults(handlerOptions.ReplaceAttr),
		}),
		r: handlerOptions.ReplaceAttr,
		m:      &sync.Mutex{},
		writer: os.Stdout,
	}

	for _, opt := range options {
		opt(handler)
	}

	return handler
}

// Option implements a functional options pattern for PrettyHandler.
type Option func(h *PrettyHandler)

// WithDestinationWriter sets the destination writer for the PrettyHandler.
func WithDestinationWriter(writer io.Writer) Option {
	return func(h *PrettyHandler) {
		h.writer = writer
	}
}

// WithColour enables color output for the PrettyHandler.
func WithColour() Option {
	return func(h *PrettyHandler) {
		h.colour = true
	}
}

// WithAutoColour enables automatic color output for the PrettyHandler.
func WithAutoColour() Option {
	return func(h *PrettyHandler) {
		_, noColour := os.LookupEnv("NO_COLOR")
		h.colour = !noColour && term.IsTerminal(int(os.Stdout.Fd()))
	}
}

// WithOutputEmptyAttrs enables output of empty attributes for the PrettyHandler.
func WithOutputEmptyAttrs() Option {
	return func(h *PrettyHandler) {
		h.outputEmptyAttrs = true
	}
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/matt-FFFFFF/dvcli/internal/ctxlog"
)

// recordingHandler keeps the messages of every log record it receives.
type recordingHandler struct {
	mu       *sync.Mutex
	messages *[]string
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	*h.messages = append(*h.messages, r.Message)

	return nil
}

func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h recordingHandler) WithGroup(string) slog.Handler { return h }

// logContext returns a context whose logger records messages, and a function returning them.
func logContext(parent context.Context) (context.Context, func() []string) {
	var (
		mu       sync.Mutex
		messages []string
	)

	ctx := ctxlog.New(parent, slog.New(recordingHandler{mu: &mu, messages: &messages}))

	return ctx, func() []string {
		mu.Lock()
		defer mu.Unlock()

		out := make([]string, len(messages))
		copy(out, messages)

		return out
	}
}

// runtimeException is an error that reports a fixed category.
type runtimeException struct {
	msg string
}

func (e *runtimeException) Error() string { return e.msg }

func (e *runtimeException) Category() string { return "RuntimeException" }

func labeled(labels ...string) []Item[string] {
	items := make([]Item[string], 0, len(labels))
	for _, l := range labels {
		items = append(items, Item[string]{Label: l, Value: l})
	}

	return items
}

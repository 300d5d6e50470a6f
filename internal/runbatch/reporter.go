// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reporter receives the outcome of every processed item, in processing order.
// Implementations must not panic.
type Reporter[I, R any] interface {
	ReportSuccess(label string, item I, result R)
	ReportFailure(label string, item I, err *ItemError)
}

var _ Reporter[any, any] = (*ConsoleReporter[any, any])(nil)

// ConsoleReporter writes one line per outcome, by default to standard error.
type ConsoleReporter[I, R any] struct {
	w     io.Writer
	mutex sync.Mutex
}

// NewConsoleReporter creates a console reporter writing to w.
// If w is nil, standard error is used.
func NewConsoleReporter[I, R any](w io.Writer) *ConsoleReporter[I, R] {
	if w == nil {
		w = os.Stderr
	}

	return &ConsoleReporter[I, R]{w: w}
}

// ReportSuccess writes "{label}: OK. {result}".
func (c *ConsoleReporter[I, R]) ReportSuccess(label string, _ I, result R) {
	c.write(fmt.Sprintf("%s: OK. %v\n", label, result))
}

// ReportFailure writes "{label}: FAILED: Exception type = {category}, message = {message}".
func (c *ConsoleReporter[I, R]) ReportFailure(label string, _ I, err *ItemError) {
	c.write(fmt.Sprintf("%s: FAILED: Exception type = %s, message = %s\n", label, err.Category, err.Message))
}

func (c *ConsoleReporter[I, R]) write(line string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, _ = io.WriteString(c.w, line)

	if f, ok := c.w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}

var _ Reporter[any, any] = (*Collector[any, any])(nil)

// Collector keeps every outcome in memory.
type Collector[I, R any] struct {
	outcomes []Outcome[I, R]
	mutex    sync.RWMutex
}

// NewCollector creates an empty collector.
func NewCollector[I, R any]() *Collector[I, R] {
	return &Collector[I, R]{}
}

// ReportSuccess implements Reporter.
func (c *Collector[I, R]) ReportSuccess(label string, item I, result R) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.outcomes = append(c.outcomes, Outcome[I, R]{
		Index:  len(c.outcomes) + 1,
		Label:  label,
		Item:   item,
		Result: result,
	})
}

// ReportFailure implements Reporter.
func (c *Collector[I, R]) ReportFailure(label string, item I, err *ItemError) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.outcomes = append(c.outcomes, Outcome[I, R]{
		Index: len(c.outcomes) + 1,
		Label: label,
		Item:  item,
		Err:   err,
	})
}

// Outcomes returns a copy of the outcomes collected so far.
func (c *Collector[I, R]) Outcomes() []Outcome[I, R] {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	out := make([]Outcome[I, R], len(c.outcomes))
	copy(out, c.outcomes)

	return out
}

// Failures returns the number of failed outcomes.
func (c *Collector[I, R]) Failures() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	n := 0

	for _, o := range c.outcomes {
		if !o.Succeeded() {
			n++
		}
	}

	return n
}

// Tee forwards every outcome to each of the given reporters, in order.
func Tee[I, R any](reporters ...Reporter[I, R]) Reporter[I, R] {
	return tee[I, R](reporters)
}

type tee[I, R any] []Reporter[I, R]

func (t tee[I, R]) ReportSuccess(label string, item I, result R) {
	for _, r := range t {
		r.ReportSuccess(label, item, result)
	}
}

func (t tee[I, R]) ReportFailure(label string, item I, err *ItemError) {
	for _, r := range t {
		r.ReportFailure(label, item, err)
	}
}

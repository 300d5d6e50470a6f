// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event is a real-time update from a batch run.
type Event struct {
	Type      EventType // What happened
	Index     int       // 1-based item position, 0 for batch-level events
	Total     int       // Number of items, or -1 when unknown
	Label     string    // Item label, empty for batch-level events
	Message   string    // Human-readable status message
	Timestamp time.Time // When the event occurred
	Err       error     // Set for EventItemFailed and EventAborted
}

// TotalKnown reports whether the number of items is known.
func (e Event) TotalKnown() bool {
	return e.Total >= 0
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventBatchStarted indicates the batch has begun.
	EventBatchStarted EventType = iota
	// EventItemStarted indicates the action is about to be invoked for an item.
	EventItemStarted
	// EventItemSucceeded indicates the action returned a result.
	EventItemSucceeded
	// EventItemFailed indicates the action failed for an item.
	EventItemFailed
	// EventDelay indicates the processor is pausing before the next item.
	EventDelay
	// EventBatchFinished indicates every item has been processed.
	EventBatchFinished
	// EventBatchAborted indicates the item source failed and the run ended early.
	EventBatchAborted
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventBatchStarted:
		return "batch-started"
	case EventItemStarted:
		return "item-started"
	case EventItemSucceeded:
		return "item-succeeded"
	case EventItemFailed:
		return "item-failed"
	case EventDelay:
		return "delay"
	case EventBatchFinished:
		return "batch-finished"
	case EventBatchAborted:
		return "batch-aborted"
	default:
		return "unknown"
	}
}

// Transient reports whether the event only describes work in flight.
// Reporters may drop transient events under load.
func (et EventType) Transient() bool {
	return et == EventItemStarted || et == EventDelay
}

// Reporter is the interface for sending progress events.
type Reporter interface {
	// Report sends a progress event. Implementations should be non-blocking.
	Report(event Event)
	// Close signals that no more events will be sent and cleans up resources.
	Close()
}

// Listener receives progress events.
type Listener interface {
	// OnEvent is called for each event, in order, from a single goroutine.
	OnEvent(event Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(event Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(event Event) {
	f(event)
}

// NullReporter is a no-op implementation of Reporter.
type NullReporter struct{}

// Report implements Reporter.Report by doing nothing.
func (nr *NullReporter) Report(Event) {}

// Close implements Reporter.Close by doing nothing.
func (nr *NullReporter) Close() {}

// NewNullReporter creates a new NullReporter.
func NewNullReporter() Reporter {
	return &NullReporter{}
}

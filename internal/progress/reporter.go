// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"
)

var _ Reporter = (*ChannelReporter)(nil)

// ChannelReporter queues batch events on a buffered channel and hands them to a single Listener.
// Transient events are dropped when the queue is full. Every other event waits for room
// until the reporter is closed, so item outcomes and the end of the batch always reach the listener.
type ChannelReporter struct {
	queue chan Event
	done  chan struct{}
	stop  func() bool
	once  sync.Once
	wg    sync.WaitGroup
}

// NewChannelReporter creates a ChannelReporter that queues up to size events.
// The reporter closes itself when ctx is cancelled.
func NewChannelReporter(ctx context.Context, size int) *ChannelReporter {
	cr := &ChannelReporter{
		queue: make(chan Event, size),
		done:  make(chan struct{}),
	}
	cr.stop = context.AfterFunc(ctx, cr.shutdown)

	return cr
}

// Report implements Reporter.Report.
func (cr *ChannelReporter) Report(event Event) {
	select {
	case <-cr.done:
		return
	default:
	}

	if event.Type.Transient() {
		select {
		case cr.queue <- event:
		default:
		}

		return
	}

	select {
	case cr.queue <- event:
	case <-cr.done:
	}
}

// Close implements Reporter.Close.
// It stops accepting events and waits for the listener to receive everything already queued.
func (cr *ChannelReporter) Close() {
	cr.stop()
	cr.shutdown()
	cr.wg.Wait()
}

func (cr *ChannelReporter) shutdown() {
	cr.once.Do(func() {
		close(cr.done)
	})
}

// Listen forwards queued events to listener, in order, from a single goroutine.
// Call it before the first Report. Close waits for the goroutine to exit.
func (cr *ChannelReporter) Listen(listener Listener) {
	cr.wg.Add(1)

	go func() {
		defer cr.wg.Done()

		for {
			select {
			case event := <-cr.queue:
				listener.OnEvent(event)
			case <-cr.done:
				cr.drain(listener)
				return
			}
		}
	}()
}

func (cr *ChannelReporter) drain(listener Listener) {
	for {
		select {
		case event := <-cr.queue:
			listener.OnEvent(event)
		default:
			return
		}
	}
}

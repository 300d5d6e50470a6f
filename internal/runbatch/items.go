// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrItemsConsumed is yielded when a sequence of items is iterated a second time.
var ErrItemsConsumed = errors.New("items have already been consumed")

// UnknownCount is the length reported by sources that cannot know it ahead of time.
const UnknownCount = -1

// Item pairs a label with the value the action is applied to.
// The label is what appears in reports.
type Item[T any] struct {
	Label string
	Value T
}

// Items is a finite, single-pass sequence of labeled items with an optional known length.
// Any resource backing the sequence is released by Close.
type Items[T any] struct {
	seq      iter.Seq2[Item[T], error]
	count    int
	closer   func() error
	consumed bool
	closed   bool
}

// FromSlice returns items backed by a slice. The length is known.
func FromSlice[T any](items []Item[T]) *Items[T] {
	items = slices.Clone(items)

	return &Items[T]{
		count: len(items),
		seq: func(yield func(Item[T], error) bool) {
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
		},
	}
}

// FromSeq returns items backed by a lazily evaluated sequence of unknown length.
// A non-nil error yielded by seq is fatal to the run consuming it.
// closer may be nil.
func FromSeq[T any](seq iter.Seq2[Item[T], error], closer func() error) *Items[T] {
	return &Items[T]{
		seq:    seq,
		count:  UnknownCount,
		closer: closer,
	}
}

// Len returns the number of items and whether that number is known.
func (s *Items[T]) Len() (int, bool) {
	return s.count, s.count != UnknownCount
}

// All returns the sequence. It may be ranged over once.
func (s *Items[T]) All() iter.Seq2[Item[T], error] {
	return func(yield func(Item[T], error) bool) {
		if s.consumed {
			yield(Item[T]{}, ErrItemsConsumed)
			return
		}

		s.consumed = true
		s.seq(yield)
	}
}

// Close releases the resource backing the sequence. It is safe to call more than once.
func (s *Items[T]) Close() error {
	if s.closed || s.closer == nil {
		s.closed = true
		return nil
	}

	s.closed = true

	return s.closer()
}

// Map pairs every item of src with the value returned by lookup, keeping the label.
// The returned items own src: closing them closes src.
// A lookup error is yielded as a source error, which ends the run at that item.
func Map[T, U any](src *Items[T], lookup func(Item[T]) (U, error)) *Items[U] {
	return &Items[U]{
		count:  src.count,
		closer: src.Close,
		seq: func(yield func(Item[U], error) bool) {
			for item, err := range src.All() {
				if err != nil {
					yield(Item[U]{Label: item.Label}, err)
					return
				}

				v, err := lookup(item)
				if err != nil {
					yield(Item[U]{Label: item.Label}, fmt.Errorf("%s: %w", item.Label, err))
					return
				}

				if !yield(Item[U]{Label: item.Label, Value: v}, nil) {
					return
				}
			}
		},
	}
}

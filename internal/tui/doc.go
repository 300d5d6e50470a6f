// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a real-time Terminal User Interface (TUI) for following a batch run.
// It shows a progress bar when the number of items is known, or a spinner when it is not,
// and a scrolling list of the items with their status, duration and error.
//
// The TUI is fed by the progress event system, so the batch processor does not know
// whether it is being watched on a terminal or logged to the console.
package tui

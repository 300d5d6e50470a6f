// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs one action over a sequence of labeled items, one item at a time.
//
// Items are produced by a single-pass source that may or may not know its length up front.
// The processor pauses between items, isolates the failure of each item so the run carries on,
// and hands every outcome to a Reporter. An error raised by the source itself ends the run.
package runbatch

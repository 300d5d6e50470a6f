// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress carries batch progress events from the processor to live views
// such as the terminal UI. Reporting progress is optional: the processor works with
// the NullReporter, and the console reporter does not depend on these events.
package progress

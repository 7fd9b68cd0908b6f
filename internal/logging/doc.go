// SPDX-License-Identifier: EPL-2.0

// Package logging builds the slog loggers used by the library, the storage
// backends and the command line tool.
//
// Two formats are available: a compact console layout for terminals and a
// JSON layout for log collectors. Components tag their lines through
// NewComponentLogger; tests and wiring code that cannot fail use NewNop.
package logging

// SPDX-License-Identifier: EPL-2.0

// Package sqlitebackend keeps track, release and artist records in a
// SQLite database using the pure Go modernc.org/sqlite driver.
//
// Titles are stored alongside their case-folded form so queries filter and
// order in SQL with the same semantics as storage.TrackQuery. Schema changes
// bump schemaVersion; an older database is rejected with ErrSchemaMismatch.
package sqlitebackend

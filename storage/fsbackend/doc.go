// SPDX-License-Identifier: EPL-2.0

// Package fsbackend stores a library in a plain directory:
//
//	<root>/library.json   track, release and artist records
//	<root>/audio/<id>.wav encoded audio blobs
//	<root>/art/<id>       cover art
//
// The records are loaded in full by Init and rewritten atomically after
// every structured write, under an advisory lock on <root>/library.lock so
// that two processes sharing a root do not interleave their writes.
package fsbackend

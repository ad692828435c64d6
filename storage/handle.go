// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage provides the narrow snapshot handle the engine uses to
// persist and recover snowstate.State across restarts. The backing store
// is selected by the storage_location configuration field: "memory" for a
// process-local snapshot, "disk+<path>" for a JSON file.
package storage

import "github.com/luxfi/snowball/snowstate"

// Handle reads and writes a single State snapshot. Implementations must be
// safe for concurrent use, though in practice the engine only ever calls
// from its own loop goroutine.
type Handle interface {
	// Read returns the persisted State, or (nil, nil) if none exists yet.
	Read() (*snowstate.State, error)
	// Write persists st, replacing any previous snapshot.
	Write(st *snowstate.State) error
}

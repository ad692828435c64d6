// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"sync"

	"github.com/luxfi/snowball/snowstate"
)

// MemoryHandle keeps the snapshot in process memory only; it is the
// default ("memory" storage_location) and is what the engine tests use.
type MemoryHandle struct {
	mu  sync.Mutex
	st  *snowstate.State
}

// NewMemoryHandle returns an empty MemoryHandle.
func NewMemoryHandle() *MemoryHandle {
	return &MemoryHandle{}
}

func (h *MemoryHandle) Read() (*snowstate.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.st, nil
}

func (h *MemoryHandle) Write(st *snowstate.State) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.st = st
	return nil
}

var _ Handle = (*MemoryHandle)(nil)

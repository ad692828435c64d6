// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snowstate

import (
	"time"

	"github.com/luxfi/snowball/wireproto"
)

// Measurements tracks how long each block took to decide. An entry starts
// as a start timestamp (recorded on BlockNew) and becomes an elapsed
// duration once the block is decided; the two maps keep those states
// apart.
type Measurements struct {
	NMessagesSent int

	startedAt   map[string]time.Time
	elapsed     map[string]time.Duration
	lastElapsed time.Duration
	hasLast     bool
}

// NewMeasurements returns an empty Measurements.
func NewMeasurements() Measurements {
	return Measurements{
		startedAt: make(map[string]time.Time),
		elapsed:   make(map[string]time.Duration),
	}
}

// RecordStart records now as the start time for blockID.
func (m *Measurements) RecordStart(blockID wireproto.BlockID, now time.Time) {
	if m.startedAt == nil {
		m.startedAt = make(map[string]time.Time)
	}
	m.startedAt[blockID.String()] = now
}

// RecordElapsed converts a pending start-time entry into an elapsed
// duration measured against now. It is a no-op if blockID has no recorded
// start time.
func (m *Measurements) RecordElapsed(blockID wireproto.BlockID, now time.Time) {
	key := blockID.String()
	start, ok := m.startedAt[key]
	if !ok {
		return
	}
	if m.elapsed == nil {
		m.elapsed = make(map[string]time.Duration)
	}
	d := now.Sub(start)
	m.elapsed[key] = d
	m.lastElapsed = d
	m.hasLast = true
	delete(m.startedAt, key)
}

// TakeLastElapsed returns the most recently recorded decision duration and
// clears it, so callers (the engine's metrics observer) see each decision
// exactly once.
func (m *Measurements) TakeLastElapsed() (time.Duration, bool) {
	if !m.hasLast {
		return 0, false
	}
	m.hasLast = false
	return m.lastElapsed, true
}

// Elapsed returns the recorded decision duration for blockID, if any.
func (m *Measurements) Elapsed(blockID wireproto.BlockID) (time.Duration, bool) {
	d, ok := m.elapsed[blockID.String()]
	return d, ok
}

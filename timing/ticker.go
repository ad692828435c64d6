// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package timing provides the periodic-callback ticker, countdown timeout,
// and exponential-backoff retry helper the engine loop and node use to pace
// their work without blocking on real wall-clock sleeps in tests.
package timing

import "time"

// Clock abstracts time.Now so tests can drive the ticker and timeout
// deterministically instead of sleeping in real time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Ticker invokes a callback no more often than once per period.
type Ticker struct {
	clock  Clock
	last   time.Time
	period time.Duration
}

// NewTicker constructs a Ticker that fires at most once every period,
// starting from clock.Now().
func NewTicker(clock Clock, period time.Duration) *Ticker {
	return &Ticker{
		clock:  clock,
		last:   clock.Now(),
		period: period,
	}
}

// Tick invokes callback if period has elapsed since the last firing, and
// resets the internal clock.
func (t *Ticker) Tick(callback func()) {
	now := t.clock.Now()
	if now.Sub(t.last) >= t.period {
		callback()
		t.last = now
	}
}

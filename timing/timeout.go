// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timing

import "time"

// TimeoutState is one of the three states a Timeout can be in.
type TimeoutState int

const (
	// Inactive means the timeout has never been started, or was stopped.
	Inactive TimeoutState = iota
	// Active means the timeout is counting down.
	Active
	// Expired means the timeout fired and has not been restarted since.
	Expired
)

func (s TimeoutState) String() string {
	switch s {
	case Inactive:
		return "Inactive"
	case Active:
		return "Active"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// Timeout is a three-state countdown: Inactive, Active, Expired. Once
// Expired, CheckExpired keeps returning true until Start is called again.
type Timeout struct {
	clock    Clock
	state    TimeoutState
	duration time.Duration
	start    time.Time
}

// NewTimeout creates an Inactive Timeout with the given duration.
func NewTimeout(clock Clock, duration time.Duration) *Timeout {
	return &Timeout{
		clock:    clock,
		state:    Inactive,
		duration: duration,
		start:    clock.Now(),
	}
}

// Start transitions the timeout to Active and resets the countdown.
func (t *Timeout) Start() {
	t.state = Active
	t.start = t.clock.Now()
}

// Stop transitions the timeout to Inactive.
func (t *Timeout) Stop() {
	t.state = Inactive
}

// CheckExpired transitions Active to Expired once duration has elapsed,
// and reports whether the timeout is (now or already) Expired. It is
// idempotent once Expired.
func (t *Timeout) CheckExpired() bool {
	if t.state == Active && t.clock.Now().Sub(t.start) > t.duration {
		t.state = Expired
	}
	return t.state == Expired
}

// State returns the current TimeoutState.
func (t *Timeout) State() TimeoutState {
	return t.state
}

// IsActive reports whether the timeout is currently counting down.
func (t *Timeout) IsActive() bool {
	return t.state == Active
}

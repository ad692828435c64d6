// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"time"

	"github.com/luxfi/snowball/wireproto"
)

// Byzantine holds the fault-injection parameters used by the test harness.
// It is only active when Enabled is true, and then only for orders present
// in the relevant index set.
type Byzantine struct {
	Enabled bool

	ChurnIdx         map[int]struct{}
	MaxChurnTimeout  time.Duration
	HangIdx          map[int]struct{}
	SleepIdx         map[int]struct{}
	MaxSleepDelay    time.Duration
	DuplicateIdx     map[int]struct{}
	SpuriousIdx      map[int]struct{}
	WrongDecisionIdx map[int]struct{}
}

// Has reports whether order is present in idx.
func Has(idx map[int]struct{}, order int) bool {
	_, ok := idx[order]
	return ok
}

// Params is the typed, validated configuration a Snowball node runs with.
type Params struct {
	Members []wireproto.PeerID

	Alfa int
	Beta int
	K    int

	BlockPublishingDelay time.Duration
	HangTimeout          time.Duration
	UpdateRecvTimeout    time.Duration
	ExponentialRetryBase time.Duration
	ExponentialRetryMax  time.Duration

	StorageLocation string

	Byzantine Byzantine

	// ResampleOnNoMajority selects how a no-majority round ends: true
	// draws a fresh sample and starts a new round immediately; false
	// resamples only when a majority is seen but confidence is still
	// below Beta. With false, a no-majority round sends no new requests
	// and leaves the waiting map empty, so no further polling happens for
	// that block.
	ResampleOnNoMajority bool
}

// Defaults returns the baseline configuration that Load merges on-chain
// settings into. Members, Alfa, Beta, and K have no defaults; they must
// come from the settings store.
func Defaults() Params {
	return Params{
		BlockPublishingDelay: 5000 * time.Millisecond,
		HangTimeout:          3000 * time.Millisecond,
		UpdateRecvTimeout:    10 * time.Millisecond,
		ExponentialRetryBase: 100 * time.Millisecond,
		ExponentialRetryMax:  60 * time.Second,
		StorageLocation:      "memory",
		Byzantine: Byzantine{
			MaxChurnTimeout: 20 * time.Second,
			MaxSleepDelay:   6 * time.Second,
		},
		ResampleOnNoMajority: true,
	}
}

// Validate enforces the parameter invariants at config-load time. Zero
// values for alfa, beta, or k are always invalid rather than silently
// accepted defaults.
func (p Params) Validate() error {
	if p.K < 1 {
		return ErrKNotPositive
	}
	if p.Beta < 1 {
		return ErrBetaNotPositive
	}
	if p.Alfa < 1 || p.Alfa > p.K {
		return ErrAlfaOutOfRange
	}
	if p.K > len(p.Members) {
		return ErrKExceedsMembers
	}
	seen := make(map[string]struct{}, len(p.Members))
	for _, m := range p.Members {
		key := m.String()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

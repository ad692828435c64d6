// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads and validates a Snowball node's configuration from
// the on-chain settings store, via the validator service's GetSettings
// capability.
package config

import "errors"

// Error variables for parameter validation. Every one of these is fatal:
// the node cannot safely participate in consensus without a valid
// configuration.
var (
	ErrMembersRequired = errors.New("sawtooth.consensus.algorithm.members is required")
	ErrAlfaRequired    = errors.New("sawtooth.consensus.algorithm.alfa is required")
	ErrBetaRequired    = errors.New("sawtooth.consensus.algorithm.beta is required")
	ErrKRequired       = errors.New("sawtooth.consensus.algorithm.k is required")

	ErrKNotPositive     = errors.New("k must be >= 1")
	ErrBetaNotPositive  = errors.New("beta must be >= 1")
	ErrAlfaOutOfRange   = errors.New("alfa must satisfy 1 <= alfa <= k")
	ErrKExceedsMembers  = errors.New("k must be <= len(members)")
	ErrDuplicateMember  = errors.New("members list contains a duplicate peer id")
)

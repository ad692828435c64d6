// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validator declares the narrow capability set the Snowball core
// consumes from the host validator process. Everything else about the
// validator (transaction execution, block production rules, networking
// transport, on-chain settings storage) is out of scope for this module;
// only these interfaces matter.
package validator

import (
	"context"
	"errors"

	"github.com/luxfi/snowball/wireproto"
)

// ErrBlockNotReady is returned by SummarizeBlock/FinalizeBlock when the
// validator has not finished assembling the block yet; callers retry.
var ErrBlockNotReady = errors.New("block not ready")

// Block is the subset of block data the core reads.
type Block struct {
	BlockID    wireproto.BlockID
	BlockNum   uint64
	PreviousID wireproto.BlockID
}

// Service is the capability set the core consumes from the validator
// process. The validator is assumed thread-safe from the engine's
// perspective; the engine only calls it from its single loop goroutine.
type Service interface {
	// InitializeBlock begins assembling a new block atop previous, or atop
	// the current chain head if previous is nil.
	InitializeBlock(ctx context.Context, previous wireproto.BlockID) error

	// SummarizeBlock returns the block summary bytes, or ErrBlockNotReady.
	SummarizeBlock(ctx context.Context) ([]byte, error)

	// FinalizeBlock finalizes the block in progress with the given
	// consensus data, returning its id, or ErrBlockNotReady.
	FinalizeBlock(ctx context.Context, consensusData []byte) (wireproto.BlockID, error)

	// CancelBlock abandons the block currently being assembled.
	CancelBlock(ctx context.Context) error

	// CheckBlocks requests asynchronous validity checking for the given
	// blocks; results arrive later as BlockValid/BlockInvalid updates.
	CheckBlocks(ctx context.Context, ids []wireproto.BlockID) error

	// CommitBlock accepts id as the new chain head.
	CommitBlock(ctx context.Context, id wireproto.BlockID) error

	// FailBlock rejects id.
	FailBlock(ctx context.Context, id wireproto.BlockID) error

	// GetChainHead returns the current chain head block.
	GetChainHead(ctx context.Context) (Block, error)

	// GetSettings fetches the string value of each requested on-chain
	// settings key, at the state rooted at block atBlock. Keys with no
	// configured value are omitted from the result.
	GetSettings(ctx context.Context, atBlock wireproto.BlockID, keys []string) (map[string]string, error)

	// Broadcast sends a message of the given type to every known peer.
	Broadcast(ctx context.Context, messageType string, payload []byte) error

	// SendTo sends a message of the given type to a single peer.
	SendTo(ctx context.Context, peer wireproto.PeerID, messageType string, payload []byte) error
}

// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package snownode implements the decision state machine: block intake,
// peer sampling, request/response handling, confidence update, commit/fail
// dispatch, unresponsive-peer recovery, and Byzantine fault injection. It
// is the largest component of the consensus core; the engine package only
// drives it.
package snownode

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/snowball/config"
	"github.com/luxfi/snowball/snowstate"
	"github.com/luxfi/snowball/timing"
	"github.com/luxfi/snowball/validator"
	"github.com/luxfi/snowball/wireproto"
)

// Node holds the collaborators needed to run the decision state machine
// against a given State: the validator capability surface, a logger, a
// source of randomness for sampling, and a clock for request timeouts and
// decision-time measurements. Node itself carries no consensus data; all of that lives in the
// State it is handed on every call.
type Node struct {
	service validator.Service
	log     log.Logger
	rng     *rand.Rand
	clock   timing.Clock
	params  config.Params

	blockQueue []validator.Block

	notReadyToSummarize bool
	notReadyToFinalize  bool

	fatal error
}

// Err returns the first unrecoverable validator failure (a commit, fail,
// or send that errored); the engine loop terminates when it is non-nil.
func (n *Node) Err() error {
	return n.fatal
}

// setFatal records the first unrecoverable failure; later ones are only
// logged.
func (n *Node) setFatal(err error) {
	if n.fatal == nil {
		n.fatal = err
	}
}

// NewNode constructs a Node and performs the startup sequence: it plants
// chainHead and then, when this node is the designated proposer (order 0),
// kicks off block assembly.
func NewNode(ctx context.Context, svc validator.Service, logger log.Logger, rng *rand.Rand, clock timing.Clock, params config.Params, chainHead validator.Block, st *snowstate.State) *Node {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	n := &Node{
		service: svc,
		log:     logger,
		rng:     rng,
		clock:   clock,
		params:  params,
	}

	st.ChainHead = chainHead.BlockID

	if st.Order == 0 {
		if err := svc.InitializeBlock(ctx, nil); err != nil {
			n.log.Error("couldn't initialize block on startup", "err", err)
		}
	}

	return n
}

// CancelBlock abandons the block currently being assembled.
func (n *Node) CancelBlock(ctx context.Context) {
	n.log.Debug("canceling block")
	if err := n.service.CancelBlock(ctx); err != nil {
		n.log.Error("failed to cancel block", "err", err)
	}
}

// finalizeBlock retries SummarizeBlock then FinalizeBlock until the
// validator stops reporting ErrBlockNotReady, logging the wait only once
// per stall.
func (n *Node) finalizeBlock(ctx context.Context) (wireproto.BlockID, error) {
	n.log.Debug("finalizing block")

	summary, err := n.service.SummarizeBlock(ctx)
	for errors.Is(err, validator.ErrBlockNotReady) {
		if !n.notReadyToSummarize {
			n.notReadyToSummarize = true
			n.log.Debug("block not ready to summarize")
		}
		time.Sleep(time.Second)
		summary, err = n.service.SummarizeBlock(ctx)
	}
	n.notReadyToSummarize = false
	if err != nil {
		return nil, fmt.Errorf("summarize block: %w", err)
	}

	consensusData := buildConsensusData(summary)

	blockID, err := n.service.FinalizeBlock(ctx, consensusData)
	for errors.Is(err, validator.ErrBlockNotReady) {
		if !n.notReadyToFinalize {
			n.notReadyToFinalize = true
			n.log.Debug("block not ready to finalize")
		}
		time.Sleep(time.Second)
		blockID, err = n.service.FinalizeBlock(ctx, consensusData)
	}
	n.notReadyToFinalize = false
	if err != nil {
		return nil, fmt.Errorf("finalize block: %w", err)
	}

	n.log.Debug("block has been finalized successfully", "block_id", wireproto.BlockIDStringer{ID: blockID})
	return blockID, nil
}

// buildConsensusData derives the consensus-tag bytes carried on the
// finalized block from its summary: the literal ASCII bytes "Snowball"
// concatenated with the summary.
func buildConsensusData(summary []byte) []byte {
	return append([]byte("Snowball"), summary...)
}

// TryPublish is invoked by the engine ticker at every block_publishing_delay.
// It is a no-op unless this node is Idle and the designated proposer.
func (n *Node) TryPublish(ctx context.Context, st *snowstate.State) {
	if st.Phase != snowstate.Idle {
		return
	}
	if st.Order != 0 {
		return
	}

	if _, err := n.finalizeBlock(ctx); err != nil {
		n.log.Error("failed to publish block", "err", err)
	}
}

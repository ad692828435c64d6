// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snownode

import (
	"context"
	"fmt"
	"time"

	"github.com/luxfi/snowball/config"
	"github.com/luxfi/snowball/snowstate"
	"github.com/luxfi/snowball/validator"
	"github.com/luxfi/snowball/wireproto"
)

// sendPeerNotification sends a message carrying vote=0; used for request
// and unavailable, where the vote field is unused.
func (n *Node) sendPeerNotification(ctx context.Context, peer wireproto.PeerID, messageType wireproto.MessageType, seqNum uint64, st *snowstate.State) {
	n.sendPeerMessage(ctx, peer, messageType, 0, seqNum, st)
}

// sendPeerMessage is the single outbound-send primitive. Every Byzantine
// fault injection happens here, never scattered across callers.
func (n *Node) sendPeerMessage(ctx context.Context, peer wireproto.PeerID, messageType wireproto.MessageType, vote uint8, seqNum uint64, st *snowstate.State) {
	bz := st.Byzantine

	if bz.Enabled && config.Has(bz.HangIdx, st.Order) {
		n.log.Debug("byzantine process is hung, suppressing send", "order", st.Order, "message_type", messageType)
		return
	}

	if bz.Enabled && config.Has(bz.WrongDecisionIdx, st.Order) {
		vote = 0
		n.log.Debug("byzantine process setting wrong decision", "order", st.Order)
	}

	if bz.Enabled && config.Has(bz.SpuriousIdx, st.Order) {
		seqNum = n.rng.Uint64()
		n.log.Debug("byzantine process setting spurious message", "order", st.Order, "seq_num", seqNum)
	}

	if bz.Enabled && config.Has(bz.SleepIdx, st.Order) {
		n.log.Debug("byzantine process sleeping before send", "order", st.Order, "delay", bz.MaxSleepDelay)
		time.Sleep(bz.MaxSleepDelay)
	}

	reps := 1
	if bz.Enabled && config.Has(bz.DuplicateIdx, st.Order) {
		reps = 2
		n.log.Debug("byzantine process duplicating message", "order", st.Order, "reps", reps)
	}

	msg := wireproto.NewMessage(messageType, seqNum, vote)
	encoded, err := msg.Encode()
	if err != nil {
		n.log.Error("failed to encode outbound message", "err", err)
		return
	}

	for i := 0; i < reps; i++ {
		n.log.Debug("sending message", "message_type", messageType, "peer", wireproto.PeerIDStringer{ID: peer})
		if err := n.service.SendTo(ctx, peer, messageType.String(), encoded); err != nil {
			n.log.Error("failed to send message", "err", err, "peer", wireproto.PeerIDStringer{ID: peer})
			n.setFatal(fmt.Errorf("send %s to %s: %w", messageType, peer, err))
			return
		}
		st.Measurements.NMessagesSent++
	}
}

// prepareAndForwardPeerRequests resets response_buffer and sends a
// request to every member index in sample, adding each to the
// waiting-response map with a fresh hang_timeout.
func (n *Node) prepareAndForwardPeerRequests(ctx context.Context, sample map[int]struct{}, st *snowstate.State) {
	n.log.Debug("preparing new peer notifications")
	st.ResponseBuffer = [2]int{}

	for index := range sample {
		peer := st.MemberIDs[index]
		n.sendPeerNotification(ctx, peer, wireproto.TypeRequest, st.SeqNum, st)
		st.AddWaiting(peer, n.clock, n.params.HangTimeout)
	}
}

// OnBlockNew enqueues block and records its start timestamp; it is the
// only producer for the FIFO queue HandleQueue drains.
func (n *Node) OnBlockNew(block validator.Block, st *snowstate.State, now time.Time) {
	n.log.Info("got BlockNew", "state", st.String(), "block_num", block.BlockNum, "block_id", wireproto.BlockIDStringer{ID: block.BlockID})
	n.blockQueue = append(n.blockQueue, block)
	st.Measurements.RecordStart(block.BlockID, now)
}

// HandleQueue peeks the head of the FIFO block queue, discarding stale
// blocks and skipping the one already in flight, then kicks off a new
// decision round for whatever remains.
func (n *Node) HandleQueue(ctx context.Context, st *snowstate.State) {
	if len(n.blockQueue) == 0 {
		return
	}
	block := n.blockQueue[0]

	if block.BlockID.Equal(st.DecisionBlock) {
		return
	}

	n.log.Debug("current queued blocks", "order", st.Order, "count", len(n.blockQueue))

	chainHead, err := n.service.GetChainHead(ctx)
	if err != nil {
		n.log.Error("unable to get chain head", "err", err)
		return
	}

	if block.BlockNum < chainHead.BlockNum {
		if err := n.service.FailBlock(ctx, block.BlockID); err != nil {
			n.log.Error("couldn't fail block", "err", err)
		}
		n.log.Warn("received block older than current sequence number",
			"block_num", block.BlockNum, "block_id", wireproto.BlockIDStringer{ID: block.BlockID}, "seq_num", st.SeqNum)
		n.blockQueue = n.blockQueue[1:]
		return
	}

	if err := n.service.CheckBlocks(ctx, []wireproto.BlockID{block.BlockID}); err != nil {
		n.log.Error("failed to check block", "err", err)
		return
	}

	n.handleBlockNew(ctx, block.BlockID, st)
}

// handleBlockNew begins a new decision round for blockID: the sequence
// number advances, the initial preference is OK, a fresh sample of k peers
// is polled, and the node starts listening for their votes.
func (n *Node) handleBlockNew(ctx context.Context, blockID wireproto.BlockID, st *snowstate.State) {
	st.DecisionBlock = blockID
	st.SeqNum++

	st.DecisionMap[st.SeqNum] = snowstate.OK
	st.LastColor = snowstate.OK
	st.ConfidenceCounter = 0
	st.DecisionArray = [2]int{}

	sample := n.selectNodeSample(st, st.K)
	n.prepareAndForwardPeerRequests(ctx, sample, st)

	st.AdvancePhase()
}

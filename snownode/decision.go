// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snownode

import (
	"context"
	"fmt"

	"github.com/luxfi/snowball/config"
	"github.com/luxfi/snowball/snowstate"
	"github.com/luxfi/snowball/wireproto"
)

// OnPeerMessage dispatches an inbound peer message to the request,
// response, or unavailable handler. It reports true when the message was
// acted on (a request answered with a vote, a response counted, an
// unavailable replaced with a fresh request) and false otherwise, including
// a request for a later sequence number, which is answered with unavailable.
func (n *Node) OnPeerMessage(ctx context.Context, messageType wireproto.MessageType, sender wireproto.PeerID, payload wireproto.Message, st *snowstate.State) bool {
	n.log.Debug("got peer message", "message_type", messageType)

	if st.SeqNum != payload.SeqNum {
		n.log.Warn("received message for mismatched seq_num", "order", st.Order, "got", payload.SeqNum, "want", st.SeqNum)
	}

	switch messageType {
	case wireproto.TypeRequest:
		return n.onRequest(ctx, sender, payload, st)
	case wireproto.TypeResponse:
		return n.onResponse(ctx, sender, payload, st)
	case wireproto.TypeUnavailable:
		return n.onUnavailable(ctx, sender, st)
	default:
		return true
	}
}

func (n *Node) onRequest(ctx context.Context, sender wireproto.PeerID, payload wireproto.Message, st *snowstate.State) bool {
	if payload.SeqNum > st.SeqNum {
		n.sendPeerNotification(ctx, sender, wireproto.TypeUnavailable, payload.SeqNum, st)
		return false
	}

	color, ok := st.DecisionMap[payload.SeqNum]
	if !ok {
		n.log.Error("unable to find seq_num in decision map", "order", st.Order, "seq_num", payload.SeqNum)
		return false
	}

	n.sendPeerMessage(ctx, sender, wireproto.TypeResponse, uint8(color.Index()), st.SeqNum, st)
	return true
}

func (n *Node) onResponse(ctx context.Context, sender wireproto.PeerID, payload wireproto.Message, st *snowstate.State) bool {
	if st.Phase != snowstate.Listening {
		n.log.Warn("received response while not listening", "order", st.Order, "state", st.String())
		return false
	}
	if !st.IsWaiting(sender) {
		n.log.Warn("received unwaited message", "order", st.Order, "sender", wireproto.PeerIDStringer{ID: sender})
		return false
	}
	st.RemoveWaiting(sender)

	if payload.Vote != 0 && payload.Vote != 1 {
		n.log.Error("received invalid vote", "order", st.Order, "vote", payload.Vote, "sender", wireproto.PeerIDStringer{ID: sender})
		return false
	}
	st.ResponseBuffer[payload.Vote]++

	if st.ResponseBuffer[0]+st.ResponseBuffer[1] == st.K {
		n.log.Info("received all messages for this round", "order", st.Order, "response_buffer", st.ResponseBuffer)
		n.onValuesReady(ctx, st)
	}
	return true
}

func (n *Node) onUnavailable(ctx context.Context, sender wireproto.PeerID, st *snowstate.State) bool {
	if st.Phase != snowstate.Listening {
		n.log.Warn("received unavailable while not listening", "order", st.Order, "state", st.String())
		return false
	}
	if !st.IsWaiting(sender) {
		n.log.Warn("received unwaited message", "order", st.Order, "sender", wireproto.PeerIDStringer{ID: sender})
		return false
	}
	var peer wireproto.PeerID
	if len(st.WaitingResponseMap) < len(st.MemberIDs)-1 {
		// Another member is free: draw it while sender is still waited
		// upon, so the replacement is never sender itself.
		peer = n.drawExtraPeer(st)
		st.RemoveWaiting(sender)
	} else {
		st.RemoveWaiting(sender)
		peer = n.drawExtraPeer(st)
	}
	n.log.Info("sending additional peer notification", "peer", wireproto.PeerIDStringer{ID: peer})
	n.sendPeerNotification(ctx, peer, wireproto.TypeRequest, st.SeqNum, st)
	return true
}

// drawExtraPeer samples exactly one member index not already waited upon,
// adds it to the waiting-response map, and returns its peer id. It is the
// shared helper between onUnavailable and HandleUnresponsivePeers.
func (n *Node) drawExtraPeer(st *snowstate.State) wireproto.PeerID {
	before := len(st.WaitingResponseMap)
	var peer wireproto.PeerID
	for len(st.WaitingResponseMap) < before+1 {
		for index := range n.selectNodeSample(st, 1) {
			peer = st.MemberIDs[index]
			st.AddWaiting(peer, n.clock, n.params.HangTimeout)
		}
	}
	return peer
}

// onValuesReady is the core Snowball step: for each color index, check
// whether it reached the majority threshold, update confidence, and
// either settle the round (Finishing) or resample (Listening).
func (n *Node) onValuesReady(ctx context.Context, st *snowstate.State) {
	n.log.Info("processing on values ready", "order", st.Order)

	majority := false
	for i := 0; i <= 1; i++ {
		colorI := snowstate.ColorFromIndex(i)
		n.log.Debug("checking color", "response_buffer", st.ResponseBuffer, "index", i, "alfa", st.Alfa)

		if st.ResponseBuffer[i] < st.Alfa {
			continue
		}
		majority = true
		st.DecisionArray[i]++

		current := st.DecisionMap[st.SeqNum]
		if st.DecisionArray[i] > st.DecisionArray[current.Index()] {
			st.DecisionMap[st.SeqNum] = colorI
		}

		if colorI != st.LastColor {
			st.LastColor = colorI
			st.ConfidenceCounter = 1
		} else {
			st.ConfidenceCounter++
		}

		if st.ConfidenceCounter >= st.Beta {
			st.AdvancePhase()
			n.handleDecision(ctx, st)
		} else {
			sample := n.selectNodeSample(st, st.K)
			n.prepareAndForwardPeerRequests(ctx, sample, st)
		}
	}

	if !majority {
		st.ConfidenceCounter = 0
		if n.params.ResampleOnNoMajority {
			sample := n.selectNodeSample(st, st.K)
			n.prepareAndForwardPeerRequests(ctx, sample, st)
		}
	}
}

// handleDecision commits or fails the decided block, records the decision
// measurement, pops the block queue, and (if this is the proposer)
// initializes the next block.
func (n *Node) handleDecision(ctx context.Context, st *snowstate.State) {
	decision := st.DecisionMap[st.SeqNum]
	n.log.Info("deciding", "order", st.Order, "decision", decision, "seq_num", st.SeqNum)

	if decision == snowstate.OK {
		if err := n.service.CommitBlock(ctx, st.DecisionBlock); err != nil {
			n.log.Error("failed to commit block", "err", err)
			n.setFatal(fmt.Errorf("commit block: %w", err))
		}
		st.ChainHead = st.DecisionBlock
	} else {
		if err := n.service.FailBlock(ctx, st.DecisionBlock); err != nil {
			n.log.Error("failed to fail block", "err", err)
			n.setFatal(fmt.Errorf("fail block: %w", err))
		}
	}

	st.Measurements.RecordElapsed(st.DecisionBlock, n.clock.Now())

	st.ClearWaiting()
	st.ResponseBuffer = [2]int{}

	if len(n.blockQueue) > 0 {
		n.blockQueue = n.blockQueue[1:]
	}

	if st.Order == 0 {
		if err := n.service.InitializeBlock(ctx, nil); err != nil {
			n.log.Error("couldn't initialize block", "err", err)
		}
	}

	st.AdvancePhase()
}

// HandleUnresponsivePeers removes every expired waiting-map entry and
// draws a fresh replacement sample for each, unless this node is a hung
// Byzantine node (which ignores unresponsive peers entirely).
func (n *Node) HandleUnresponsivePeers(ctx context.Context, st *snowstate.State) {
	if st.Byzantine.Enabled && config.Has(st.Byzantine.HangIdx, st.Order) {
		return
	}

	var expired []wireproto.PeerID
	for _, peer := range st.WaitingPeers() {
		entry := st.WaitingResponseMap[peer.String()]
		if entry.Timeout.CheckExpired() {
			n.log.Warn("expired timeout without a response", "peer", wireproto.PeerIDStringer{ID: peer})
			expired = append(expired, peer)
		}
	}

	for _, peer := range expired {
		st.RemoveWaiting(peer)
	}

	for range expired {
		peer := n.drawExtraPeer(st)
		n.sendPeerNotification(ctx, peer, wireproto.TypeRequest, st.SeqNum, st)
	}
}

// OnPeerConnected appends a newly connected peer to the member list (if
// not already present) and recomputes this node's order.
func (n *Node) OnPeerConnected(peer wireproto.PeerID, st *snowstate.State) {
	n.log.Info("got PeerConnected", "peer", wireproto.PeerIDStringer{ID: peer})
	if st.OrderIndex(peer) >= 0 {
		return
	}
	st.MemberIDs = append(st.MemberIDs, peer)
	st.RecomputeOrder()
}

// OnPeerDisconnected removes a peer from the member list and recomputes
// this node's order.
func (n *Node) OnPeerDisconnected(peer wireproto.PeerID, st *snowstate.State) {
	n.log.Info("got PeerDisconnected", "peer", wireproto.PeerIDStringer{ID: peer})
	index := st.OrderIndex(peer)
	if index < 0 {
		return
	}
	st.MemberIDs = append(st.MemberIDs[:index], st.MemberIDs[index+1:]...)
	st.RecomputeOrder()
}

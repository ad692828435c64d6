// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snowstate

import (
	"fmt"
	"time"

	"github.com/luxfi/snowball/config"
	"github.com/luxfi/snowball/timing"
	"github.com/luxfi/snowball/wireproto"
)

// WaitingEntry pairs a pending request's peer with its per-request
// hang_timeout, owned exclusively by the waiting-response map.
type WaitingEntry struct {
	Timeout *timing.Timeout
}

// State is the per-node algorithm state: the single struct owned
// exclusively by one node's engine-loop goroutine. It is never shared or
// locked; the single-threaded cooperative scheduling model is what makes
// that safe.
type State struct {
	ID    wireproto.PeerID
	Order int

	SeqNum uint64
	Alfa   int
	Beta   int
	K      int

	DecisionMap map[uint64]Color

	LastColor         Color
	ConfidenceCounter int

	ResponseBuffer [2]int
	DecisionArray  [2]int

	WaitingResponseMap map[string]*WaitingEntry
	waitingPeers       map[string]wireproto.PeerID // preserves the PeerID bytes behind each hex key

	MemberIDs []wireproto.PeerID

	ChainHead      wireproto.BlockID
	DecisionBlock  wireproto.BlockID
	Phase          Phase

	Byzantine config.Byzantine

	Measurements Measurements
}

// New constructs the initial state for a Snowball node: order is derived
// from id's position in members, the sequence number starts one past the
// current chain head's block number, and the decision map seeds a single
// Undecided entry at seq 0.
func New(id wireproto.PeerID, chainHeadBlockNum uint64, params config.Params) *State {
	order := wireproto.IndexOf(params.Members, id)

	decisionMap := map[uint64]Color{0: Undecided}

	return &State{
		ID:                 id,
		Order:              order,
		SeqNum:             chainHeadBlockNum + 1,
		Alfa:               params.Alfa,
		Beta:               params.Beta,
		K:                  params.K,
		DecisionMap:        decisionMap,
		LastColor:          Undecided,
		WaitingResponseMap: make(map[string]*WaitingEntry),
		waitingPeers:       make(map[string]wireproto.PeerID),
		MemberIDs:          append([]wireproto.PeerID(nil), params.Members...),
		Phase:              Idle,
		Byzantine:          params.Byzantine,
		Measurements:       NewMeasurements(),
	}
}

// ApplyParams overlays the freshly loaded algorithm parameters onto a
// State recovered from a snapshot. Membership is kept from the snapshot
// (it evolves with peer connects/disconnects), but the thresholds and
// Byzantine test configuration always follow the current settings, and
// Order is recomputed in case the member list moved underneath us.
func (s *State) ApplyParams(params config.Params) {
	s.Alfa = params.Alfa
	s.Beta = params.Beta
	s.K = params.K
	s.Byzantine = params.Byzantine
	s.RecomputeOrder()
}

// AdvancePhase moves the phase one step forward in the Idle -> Listening ->
// Finishing -> Idle cycle.
func (s *State) AdvancePhase() {
	s.Phase = s.Phase.Next()
}

// OrderIndex returns the position of id within MemberIDs, or -1 if id is
// not a member.
func (s *State) OrderIndex(id wireproto.PeerID) int {
	return wireproto.IndexOf(s.MemberIDs, id)
}

// RecomputeOrder refreshes Order from the current MemberIDs. It must be
// called after every membership change; Order is never cached across
// update handlers.
func (s *State) RecomputeOrder() {
	s.Order = s.OrderIndex(s.ID)
}

// AddWaiting adds peer to the waiting-response map with a fresh, started
// timeout of the given duration.
func (s *State) AddWaiting(peer wireproto.PeerID, clock timing.Clock, duration time.Duration) {
	if s.WaitingResponseMap == nil {
		s.WaitingResponseMap = make(map[string]*WaitingEntry)
	}
	if s.waitingPeers == nil {
		s.waitingPeers = make(map[string]wireproto.PeerID)
	}
	to := timing.NewTimeout(clock, duration)
	to.Start()
	key := peer.String()
	s.WaitingResponseMap[key] = &WaitingEntry{Timeout: to}
	s.waitingPeers[key] = peer
}

// ClearWaiting drops every outstanding request, abandoning their timers.
func (s *State) ClearWaiting() {
	s.WaitingResponseMap = make(map[string]*WaitingEntry)
	s.waitingPeers = make(map[string]wireproto.PeerID)
}

// RemoveWaiting removes peer from the waiting-response map, if present.
func (s *State) RemoveWaiting(peer wireproto.PeerID) {
	key := peer.String()
	delete(s.WaitingResponseMap, key)
	delete(s.waitingPeers, key)
}

// IsWaiting reports whether peer currently has an outstanding request.
func (s *State) IsWaiting(peer wireproto.PeerID) bool {
	_, ok := s.WaitingResponseMap[peer.String()]
	return ok
}

// WaitingPeers returns the peers currently in the waiting-response map, in
// no particular order.
func (s *State) WaitingPeers() []wireproto.PeerID {
	out := make([]wireproto.PeerID, 0, len(s.waitingPeers))
	for _, p := range s.waitingPeers {
		out = append(out, p)
	}
	return out
}

func (s *State) String() string {
	return fmt.Sprintf(
		"(order %d, %s, seq %d, chain head: %s, waiting: %d, response_buffer: %v)",
		s.Order, s.Phase, s.SeqNum, s.ChainHead, len(s.WaitingResponseMap), s.ResponseBuffer,
	)
}

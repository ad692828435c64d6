// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snowstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/snowball/config"
	"github.com/luxfi/snowball/timing"
	"github.com/luxfi/snowball/wireproto"
)

func testMembers(n int) []wireproto.PeerID {
	out := make([]wireproto.PeerID, n)
	for i := range out {
		out[i] = wireproto.PeerID{byte(i + 1)}
	}
	return out
}

func testParams(members []wireproto.PeerID) config.Params {
	p := config.Defaults()
	p.Members = members
	p.K = 3
	p.Alfa = 2
	p.Beta = 2
	return p
}

func TestNewAssignsOrderFromMembers(t *testing.T) {
	members := testMembers(5)
	s := New(members[2], 0, testParams(members))

	require.Equal(t, 2, s.Order)
	require.Equal(t, Idle, s.Phase)
	require.Equal(t, Undecided, s.LastColor)
	require.Equal(t, uint64(1), s.SeqNum)
	require.NoError(t, s.AssertInvariants())
}

func TestNewNonMemberGetsNegativeOrder(t *testing.T) {
	members := testMembers(3)
	s := New(wireproto.PeerID{99}, 0, testParams(members))
	require.Equal(t, -1, s.Order)
}

func TestAdvancePhaseCycles(t *testing.T) {
	s := New(testMembers(3)[0], 0, testParams(testMembers(3)))
	require.Equal(t, Idle, s.Phase)
	s.AdvancePhase()
	require.Equal(t, Listening, s.Phase)
	s.AdvancePhase()
	require.Equal(t, Finishing, s.Phase)
	s.AdvancePhase()
	require.Equal(t, Idle, s.Phase)
}

func TestAddAndRemoveWaiting(t *testing.T) {
	members := testMembers(3)
	s := New(members[0], 0, testParams(members))
	clock := timing.SystemClock{}

	s.AddWaiting(members[1], clock, time.Second)
	require.True(t, s.IsWaiting(members[1]))
	require.Len(t, s.WaitingPeers(), 1)

	s.RemoveWaiting(members[1])
	require.False(t, s.IsWaiting(members[1]))
	require.Empty(t, s.WaitingPeers())
}

func TestAssertInvariantsCatchesResponseBufferOverflow(t *testing.T) {
	members := testMembers(3)
	s := New(members[0], 0, testParams(members))
	s.ResponseBuffer = [2]int{s.K, 1}

	require.ErrorContains(t, s.AssertInvariants(), "response_buffer")
}

func TestAssertInvariantsCatchesWaitingWhileIdle(t *testing.T) {
	members := testMembers(3)
	s := New(members[0], 0, testParams(members))
	s.Phase = Idle
	s.AddWaiting(members[1], timing.SystemClock{}, time.Second)

	require.ErrorContains(t, s.AssertInvariants(), "Idle")
}

func TestAssertInvariantsCatchesStaleOrder(t *testing.T) {
	members := testMembers(3)
	s := New(members[0], 0, testParams(members))
	s.Order = 2

	require.ErrorContains(t, s.AssertInvariants(), "order")
}

func TestRecomputeOrderAfterMembershipChange(t *testing.T) {
	members := testMembers(3)
	s := New(members[2], 0, testParams(members))
	require.Equal(t, 2, s.Order)

	s.MemberIDs = append([]wireproto.PeerID{members[2]}, members[:2]...)
	s.RecomputeOrder()
	require.Equal(t, 0, s.Order)
}

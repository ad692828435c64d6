// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/log"
	"github.com/luxfi/snowball/storage"
	"github.com/luxfi/snowball/validator"
	"github.com/luxfi/snowball/validator/validatortest"
	"github.com/luxfi/snowball/wireproto"
)

func testMembers(n int) []wireproto.PeerID {
	out := make([]wireproto.PeerID, n)
	for i := range out {
		out[i] = wireproto.PeerID{byte(i + 1)}
	}
	return out
}

// newTestEngine starts an Engine for member index `self` out of `n`
// members with the given alfa/beta/k, running as P0's view unless self
// overridden, and returns it along with the FakeService backing it and the
// update channel used to drive it.
func newTestEngine(t *testing.T, self, n, alfa, beta, k int) (*Engine, *validatortest.FakeService, chan validator.Update) {
	t.Helper()
	members := testMembers(n)
	chainHead := validator.Block{BlockID: wireproto.BlockID{0x00}, BlockNum: 0}

	svc := validatortest.NewFakeService(chainHead)
	svc.Settings = map[string]string{
		"sawtooth.consensus.algorithm.alfa": fmt.Sprintf("%d", alfa),
		"sawtooth.consensus.algorithm.beta": fmt.Sprintf("%d", beta),
		"sawtooth.consensus.algorithm.k":    fmt.Sprintf("%d", k),
	}
	membersJSON := "["
	for i, m := range members {
		if i > 0 {
			membersJSON += ","
		}
		membersJSON += `"` + m.String() + `"`
	}
	membersJSON += "]"
	svc.Settings["sawtooth.consensus.algorithm.members"] = membersJSON

	startup := validator.StartupState{
		ChainHead:   chainHead,
		LocalPeerID: members[self],
	}

	e, err := New(context.Background(), svc, log.NewNoOpLogger(), prometheus.NewRegistry(), storage.NewMemoryHandle(), startup)
	require.NoError(t, err)

	updates := make(chan validator.Update, 16)
	return e, svc, updates
}

func runEngine(e *Engine, updates chan validator.Update) (cancel func(), done chan error) {
	ctx, cancelFn := context.WithCancel(context.Background())
	done = make(chan error, 1)
	go func() { done <- e.Run(ctx, updates) }()
	return cancelFn, done
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.FailNow(t, "condition not met before timeout")
}

// TestFastUnanimousAccept drives a full decision end to end: every
// sampled peer votes OK twice in a row, driving confidence to beta and
// committing the block.
func TestFastUnanimousAccept(t *testing.T) {
	e, svc, updates := newTestEngine(t, 0, 5, 3, 2, 3)
	cancel, done := runEngine(e, updates)
	defer cancel()

	block := validator.Block{BlockID: wireproto.BlockID{0xAA}, BlockNum: 1}
	updates <- validator.Update{Kind: validator.BlockNew, Block: block}

	waitFor(t, time.Second, func() bool { return len(svc.SentSnapshot()) >= 3 })

	for round := 0; round < 2; round++ {
		sent := svc.SentSnapshot()
		sample := sent[len(sent)-3:]
		firstReq, err := wireproto.Decode(sample[0].Payload)
		require.NoError(t, err)
		seqNum := firstReq.SeqNum
		for _, req := range sample {
			resp := wireproto.NewMessage(wireproto.TypeResponse, seqNum, 1)
			updates <- validator.Update{Kind: validator.PeerMessage, Peer: req.Peer, MessageType: "response", Payload: encodeMust(resp)}
		}
		if round == 0 {
			waitFor(t, time.Second, func() bool { return len(svc.SentSnapshot()) >= 6 })
		}
	}

	waitFor(t, time.Second, func() bool { return len(svc.CommittedSnapshot()) == 1 })
	committed := svc.CommittedSnapshot()
	require.Equal(t, block.BlockID.String(), committed[0].String())

	updates <- validator.Update{Kind: validator.Shutdown}
	require.NoError(t, <-done)
}

// TestOldBlockIsDropped delivers a BlockNew older than the current chain
// head; it must be failed and dropped without a phase change.
func TestOldBlockIsDropped(t *testing.T) {
	e, svc, updates := newTestEngine(t, 0, 5, 3, 2, 3)
	svc.ChainHead = validator.Block{BlockID: wireproto.BlockID{0xFF}, BlockNum: 10}
	cancel, done := runEngine(e, updates)
	defer cancel()

	block := validator.Block{BlockID: wireproto.BlockID{0x07}, BlockNum: 7}
	updates <- validator.Update{Kind: validator.BlockNew, Block: block}

	waitFor(t, time.Second, func() bool { return len(svc.FailedSnapshot()) == 1 })
	failed := svc.FailedSnapshot()
	require.Equal(t, block.BlockID.String(), failed[0].String())

	updates <- validator.Update{Kind: validator.Shutdown}
	require.NoError(t, <-done)
}

// TestByzantineChurnTerminatesRun configures this node as a churn-test
// member; Run must terminate on its own once the random churn delay
// elapses, without a Shutdown update.
func TestByzantineChurnTerminatesRun(t *testing.T) {
	members := testMembers(5)
	chainHead := validator.Block{BlockID: wireproto.BlockID{0x00}, BlockNum: 0}

	svc := validatortest.NewFakeService(chainHead)
	membersJSON := "["
	for i, m := range members {
		if i > 0 {
			membersJSON += ","
		}
		membersJSON += `"` + m.String() + `"`
	}
	membersJSON += "]"
	svc.Settings = map[string]string{
		"sawtooth.consensus.algorithm.members":           membersJSON,
		"sawtooth.consensus.algorithm.alfa":              "3",
		"sawtooth.consensus.algorithm.beta":              "2",
		"sawtooth.consensus.algorithm.k":                 "3",
		"sawtooth.byzantine.enabled":                     "true",
		"sawtooth.byzantine.parameter.churn_idx":         "[0]",
		"sawtooth.byzantine.parameter.max_churn_timeout": "5",
	}

	startup := validator.StartupState{ChainHead: chainHead, LocalPeerID: members[0]}
	e, err := New(context.Background(), svc, log.NewNoOpLogger(), prometheus.NewRegistry(), storage.NewMemoryHandle(), startup)
	require.NoError(t, err)

	updates := make(chan validator.Update, 1)
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background(), updates) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "engine did not churn out")
	}
}

func encodeMust(msg wireproto.Message) []byte {
	data, err := msg.Encode()
	if err != nil {
		panic(err)
	}
	return data
}

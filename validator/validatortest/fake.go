// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validatortest provides an in-memory validator.Service double for
// driving node- and engine-level tests without a real host process.
package validatortest

import (
	"context"
	"sync"

	"github.com/luxfi/snowball/validator"
	"github.com/luxfi/snowball/wireproto"
)

// SentMessage records one outbound peer message for assertions.
type SentMessage struct {
	Peer        wireproto.PeerID
	MessageType string
	Payload     []byte
	Broadcast   bool
}

// FakeService is a scriptable, goroutine-safe validator.Service double.
type FakeService struct {
	mu sync.Mutex

	ChainHead validator.Block
	Settings  map[string]string

	// SummarizeNotReadyCount and FinalizeNotReadyCount make
	// SummarizeBlock and FinalizeBlock return ErrBlockNotReady that many
	// times before succeeding.
	SummarizeNotReadyCount int
	FinalizeNotReadyCount  int
	summarizeCalls         int
	finalizeCalls          int

	SummaryBytes []byte
	NextBlockID  wireproto.BlockID

	// SendToErr and CommitErr, when set, are returned by SendTo and
	// CommitBlock to script unrecoverable validator failures.
	SendToErr error
	CommitErr error

	Sent      []SentMessage
	Committed []wireproto.BlockID
	Failed    []wireproto.BlockID
	Checked   [][]wireproto.BlockID
	Canceled  int
	Initialized []wireproto.BlockID // nil entries represent InitializeBlock(nil)
}

// NewFakeService constructs a FakeService with an empty settings map.
func NewFakeService(chainHead validator.Block) *FakeService {
	return &FakeService{
		ChainHead: chainHead,
		Settings:  map[string]string{},
	}
}

func (f *FakeService) InitializeBlock(_ context.Context, previous wireproto.BlockID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Initialized = append(f.Initialized, previous)
	return nil
}

func (f *FakeService) SummarizeBlock(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summarizeCalls++
	if f.summarizeCalls <= f.SummarizeNotReadyCount {
		return nil, validator.ErrBlockNotReady
	}
	return f.SummaryBytes, nil
}

func (f *FakeService) FinalizeBlock(_ context.Context, _ []byte) (wireproto.BlockID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finalizeCalls++
	if f.finalizeCalls <= f.FinalizeNotReadyCount {
		return nil, validator.ErrBlockNotReady
	}
	return f.NextBlockID, nil
}

func (f *FakeService) CancelBlock(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Canceled++
	return nil
}

func (f *FakeService) CheckBlocks(_ context.Context, ids []wireproto.BlockID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Checked = append(f.Checked, ids)
	return nil
}

func (f *FakeService) CommitBlock(_ context.Context, id wireproto.BlockID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CommitErr != nil {
		return f.CommitErr
	}
	f.Committed = append(f.Committed, id)
	f.ChainHead = validator.Block{BlockID: id, BlockNum: f.ChainHead.BlockNum + 1, PreviousID: f.ChainHead.BlockID}
	return nil
}

func (f *FakeService) FailBlock(_ context.Context, id wireproto.BlockID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Failed = append(f.Failed, id)
	return nil
}

func (f *FakeService) GetChainHead(context.Context) (validator.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ChainHead, nil
}

func (f *FakeService) GetSettings(_ context.Context, _ wireproto.BlockID, keys []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := f.Settings[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (f *FakeService) Broadcast(_ context.Context, messageType string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, SentMessage{MessageType: messageType, Payload: payload, Broadcast: true})
	return nil
}

func (f *FakeService) SendTo(_ context.Context, peer wireproto.PeerID, messageType string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendToErr != nil {
		return f.SendToErr
	}
	f.Sent = append(f.Sent, SentMessage{Peer: peer, MessageType: messageType, Payload: payload})
	return nil
}

// SentTo returns the messages sent directly to peer, in order.
func (f *FakeService) SentTo(peer wireproto.PeerID) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMessage
	for _, m := range f.Sent {
		if m.Peer.Equal(peer) {
			out = append(out, m)
		}
	}
	return out
}

// SentSnapshot returns a copy of the outbound messages recorded so far, safe
// to call concurrently with the engine/node goroutine under test.
func (f *FakeService) SentSnapshot() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentMessage, len(f.Sent))
	copy(out, f.Sent)
	return out
}

// CommittedSnapshot returns a copy of the committed block ids recorded so
// far, safe to call concurrently with the engine/node goroutine under test.
func (f *FakeService) CommittedSnapshot() []wireproto.BlockID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]wireproto.BlockID, len(f.Committed))
	copy(out, f.Committed)
	return out
}

// FailedSnapshot returns a copy of the failed block ids recorded so far,
// safe to call concurrently with the engine/node goroutine under test.
func (f *FakeService) FailedSnapshot() []wireproto.BlockID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]wireproto.BlockID, len(f.Failed))
	copy(out, f.Failed)
	return out
}

var _ validator.Service = (*FakeService)(nil)

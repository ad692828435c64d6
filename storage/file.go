// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/luxfi/snowball/snowstate"
	"github.com/luxfi/snowball/wireproto"
)

// snapshot is the on-disk shape of a State. Waiting-response timers are
// inherently tied to one process's clock and are never persisted: a node
// recovering from disk always comes back with an empty waiting map and
// Phase forced to Idle, re-requesting the in-flight round from scratch.
// This is a deliberate simplification, not a faithful point-in-time
// restore of Listening/Finishing phases.
type snapshot struct {
	ID                wireproto.PeerID     `json:"id"`
	Order             int                  `json:"order"`
	SeqNum            uint64               `json:"seq_num"`
	Alfa              int                  `json:"alfa"`
	Beta              int                  `json:"beta"`
	K                 int                  `json:"k"`
	DecisionMap       map[uint64]int       `json:"decision_map"`
	LastColor         int                  `json:"last_color"`
	ConfidenceCounter int                  `json:"confidence_counter"`
	MemberIDs         []wireproto.PeerID   `json:"member_ids"`
	ChainHead         wireproto.BlockID    `json:"chain_head"`
	DecisionBlock     wireproto.BlockID    `json:"decision_block"`
}

func toSnapshot(st *snowstate.State) snapshot {
	decisionMap := make(map[uint64]int, len(st.DecisionMap))
	for k, v := range st.DecisionMap {
		decisionMap[k] = int(v)
	}
	return snapshot{
		ID:                st.ID,
		Order:             st.Order,
		SeqNum:            st.SeqNum,
		Alfa:              st.Alfa,
		Beta:              st.Beta,
		K:                 st.K,
		DecisionMap:       decisionMap,
		LastColor:         int(st.LastColor),
		ConfidenceCounter: st.ConfidenceCounter,
		MemberIDs:         st.MemberIDs,
		ChainHead:         st.ChainHead,
		DecisionBlock:     st.DecisionBlock,
	}
}

func (s snapshot) toState() *snowstate.State {
	decisionMap := make(map[uint64]snowstate.Color, len(s.DecisionMap))
	for k, v := range s.DecisionMap {
		decisionMap[k] = snowstate.Color(v)
	}
	st := &snowstate.State{
		ID:                 s.ID,
		Order:              s.Order,
		SeqNum:             s.SeqNum,
		Alfa:               s.Alfa,
		Beta:               s.Beta,
		K:                  s.K,
		DecisionMap:        decisionMap,
		LastColor:          snowstate.Color(s.LastColor),
		ConfidenceCounter:  s.ConfidenceCounter,
		WaitingResponseMap: make(map[string]*snowstate.WaitingEntry),
		MemberIDs:          s.MemberIDs,
		ChainHead:          s.ChainHead,
		DecisionBlock:      s.DecisionBlock,
		Phase:              snowstate.Idle,
		Measurements:       snowstate.NewMeasurements(),
	}
	return st
}

// FileHandle persists a State snapshot as JSON at a fixed path
// ("disk+<path>" storage_location).
type FileHandle struct {
	mu   sync.Mutex
	path string
}

// NewFileHandle returns a FileHandle backed by path.
func NewFileHandle(path string) *FileHandle {
	return &FileHandle{path: path}
}

func (h *FileHandle) Read() (*snowstate.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode state snapshot: %w", err)
	}
	return snap.toState(), nil
}

func (h *FileHandle) Write(st *snowstate.State) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.MarshalIndent(toSnapshot(st), "", "  ")
	if err != nil {
		return fmt.Errorf("encode state snapshot: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0o600); err != nil {
		return fmt.Errorf("write state snapshot: %w", err)
	}
	return nil
}

var _ Handle = (*FileHandle)(nil)

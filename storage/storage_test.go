// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/snowball/config"
	"github.com/luxfi/snowball/snowstate"
	"github.com/luxfi/snowball/timing"
	"github.com/luxfi/snowball/wireproto"
)

func testState() *snowstate.State {
	members := []wireproto.PeerID{{1}, {2}, {3}}
	params := config.Defaults()
	params.Members = members
	params.K = 2
	params.Alfa = 2
	params.Beta = 1
	return snowstate.New(members[0], 5, params)
}

func TestMemoryHandleRoundTrip(t *testing.T) {
	h := NewMemoryHandle()

	got, err := h.Read()
	require.NoError(t, err)
	require.Nil(t, got)

	st := testState()
	require.NoError(t, h.Write(st))

	got, err = h.Read()
	require.NoError(t, err)
	require.Same(t, st, got)
}

func TestFromLocation(t *testing.T) {
	h, err := FromLocation("memory")
	require.NoError(t, err)
	require.IsType(t, &MemoryHandle{}, h)

	path := filepath.Join(t.TempDir(), "state.json")
	h, err = FromLocation("disk+" + path)
	require.NoError(t, err)
	require.IsType(t, &FileHandle{}, h)

	_, err = FromLocation("disk+")
	require.Error(t, err)

	_, err = FromLocation("s3://bucket")
	require.Error(t, err)
}

func TestRestoredStateAcceptsNewWaitingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	h := NewFileHandle(path)
	require.NoError(t, h.Write(testState()))

	loaded, err := h.Read()
	require.NoError(t, err)

	peer := wireproto.PeerID{2}
	loaded.AddWaiting(peer, timing.SystemClock{}, time.Second)
	require.True(t, loaded.IsWaiting(peer))
	require.Len(t, loaded.WaitingPeers(), 1)
}

func TestFileHandleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	h := NewFileHandle(path)

	got, err := h.Read()
	require.NoError(t, err)
	require.Nil(t, got)

	st := testState()
	st.SeqNum = 42
	require.NoError(t, h.Write(st))

	loaded, err := h.Read()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, st.SeqNum, loaded.SeqNum)
	require.Equal(t, st.ID.String(), loaded.ID.String())
	require.Equal(t, st.ChainHead.String(), loaded.ChainHead.String())
	require.Equal(t, snowstate.Idle, loaded.Phase)
	require.Empty(t, loaded.WaitingResponseMap)
}

// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wireproto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrip(t *testing.T) {
	original := NewMessage(TypeResponse, 42, 1)

	encoded, err := original.Encode()
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	require.Equal(t, original.MessageType, decoded.MessageType)
	require.Equal(t, original.SeqNum, decoded.SeqNum)
	require.Equal(t, original.Vote, decoded.Vote)
	require.Equal(t, original.Nonce, decoded.Nonce)
}

func TestMessageNoncesAreFresh(t *testing.T) {
	a := NewMessage(TypeRequest, 1, 0)
	b := NewMessage(TypeRequest, 1, 0)
	require.NotEqual(t, a.Nonce, b.Nonce)
}

func TestMessageTypeValid(t *testing.T) {
	require.True(t, TypeRequest.Valid())
	require.True(t, TypeResponse.Valid())
	require.True(t, TypeUnavailable.Valid())
	require.False(t, MessageType("bogus").Valid())
}

func TestPeerIDJSONRoundTrip(t *testing.T) {
	id := PeerID{0xde, 0xad, 0xbe, 0xef}
	data, err := id.MarshalJSON()
	require.NoError(t, err)

	var decoded PeerID
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.True(t, id.Equal(decoded))
}

func TestIndexOf(t *testing.T) {
	members := []PeerID{{1}, {2}, {3}}
	require.Equal(t, 1, IndexOf(members, PeerID{2}))
	require.Equal(t, -1, IndexOf(members, PeerID{9}))
}

// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wireproto defines the opaque identifiers and the peer-message
// wire format exchanged between Snowball nodes.
package wireproto

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// PeerID is an opaque peer identifier, typically 32-64 bytes of public-key
// material. Unlike the fixed-size github.com/luxfi/ids.NodeID, this is a
// variable-length byte string, matching how the validator service hands
// peer identities to the core.
type PeerID []byte

// BlockID is an opaque block identifier.
type BlockID []byte

// Equal reports whether two PeerIDs carry the same bytes.
func (p PeerID) Equal(other PeerID) bool {
	return bytes.Equal(p, other)
}

// String renders the PeerID as a lowercase hex string.
func (p PeerID) String() string {
	return hex.EncodeToString(p)
}

// MarshalJSON encodes the PeerID as a hex string.
func (p PeerID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(p) + `"`), nil
}

// UnmarshalJSON decodes a hex-string-encoded PeerID.
func (p *PeerID) UnmarshalJSON(data []byte) error {
	decoded, err := unmarshalHexString(data)
	if err != nil {
		return fmt.Errorf("peer id: %w", err)
	}
	*p = decoded
	return nil
}

// Equal reports whether two BlockIDs carry the same bytes.
func (b BlockID) Equal(other BlockID) bool {
	return bytes.Equal(b, other)
}

// String renders the BlockID as a lowercase hex string.
func (b BlockID) String() string {
	return hex.EncodeToString(b)
}

// MarshalJSON encodes the BlockID as a hex string.
func (b BlockID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(b) + `"`), nil
}

// UnmarshalJSON decodes a hex-string-encoded BlockID.
func (b *BlockID) UnmarshalJSON(data []byte) error {
	decoded, err := unmarshalHexString(data)
	if err != nil {
		return fmt.Errorf("block id: %w", err)
	}
	*b = decoded
	return nil
}

func unmarshalHexString(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return nil, fmt.Errorf("expected a JSON string, got %q", data)
	}
	return hex.DecodeString(string(data[1 : len(data)-1]))
}

// IndexOf returns the position of id within members, or -1 if id is not a
// member. Equality is by value, not by slice identity.
func IndexOf(members []PeerID, id PeerID) int {
	for i, m := range members {
		if m.Equal(id) {
			return i
		}
	}
	return -1
}

// PeerIDStringer adapts a PeerID for zap.Stringer-style structured logging
// without forcing every call site to call .String() explicitly.
type PeerIDStringer struct{ ID PeerID }

func (s PeerIDStringer) String() string { return s.ID.String() }

// BlockIDStringer is the BlockID analogue of PeerIDStringer.
type BlockIDStringer struct{ ID BlockID }

func (s BlockIDStringer) String() string { return s.ID.String() }

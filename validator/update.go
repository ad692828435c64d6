// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import "github.com/luxfi/snowball/wireproto"

// UpdateKind tags the variant carried by an Update.
type UpdateKind int

const (
	PeerConnected UpdateKind = iota
	PeerDisconnected
	PeerMessage
	BlockNew
	BlockValid
	BlockInvalid
	BlockCommit
	Shutdown
)

func (k UpdateKind) String() string {
	switch k {
	case PeerConnected:
		return "PeerConnected"
	case PeerDisconnected:
		return "PeerDisconnected"
	case PeerMessage:
		return "PeerMessage"
	case BlockNew:
		return "BlockNew"
	case BlockValid:
		return "BlockValid"
	case BlockInvalid:
		return "BlockInvalid"
	case BlockCommit:
		return "BlockCommit"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// PeerInfo describes a connected peer.
type PeerInfo struct {
	PeerID wireproto.PeerID
}

// Update is the tagged union of events the validator delivers to the
// engine. Only the fields relevant to Kind are populated.
type Update struct {
	Kind UpdateKind

	// PeerConnected / PeerDisconnected / PeerMessage
	Peer wireproto.PeerID

	// PeerMessage
	MessageType string
	Payload     []byte

	// BlockNew
	Block Block

	// BlockValid / BlockInvalid / BlockCommit
	BlockID wireproto.BlockID
}

// StartupState is handed to the engine once, at startup.
type StartupState struct {
	ChainHead      Block
	Peers          []PeerInfo
	LocalPeerID    wireproto.PeerID
}

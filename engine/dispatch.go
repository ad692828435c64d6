// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"time"

	"github.com/luxfi/snowball/validator"
	"github.com/luxfi/snowball/wireproto"
)

// dispatch routes one validator.Update to the matching Node handler. It
// returns false only for Shutdown, which breaks the engine loop; every
// other handling error is logged at the call site and swallowed.
func (e *Engine) dispatch(ctx context.Context, u validator.Update) bool {
	switch u.Kind {
	case validator.BlockNew:
		e.node.OnBlockNew(u.Block, e.state, time.Now())

	case validator.BlockValid:
		e.log.Info("got BlockValid", "block_id", wireproto.BlockIDStringer{ID: u.BlockID})

	case validator.BlockInvalid:
		e.log.Info("got BlockInvalid", "block_id", wireproto.BlockIDStringer{ID: u.BlockID})

	case validator.BlockCommit:
		e.log.Info("got BlockCommit", "block_id", wireproto.BlockIDStringer{ID: u.BlockID})

	case validator.PeerConnected:
		e.node.OnPeerConnected(u.Peer, e.state)

	case validator.PeerDisconnected:
		e.node.OnPeerDisconnected(u.Peer, e.state)

	case validator.PeerMessage:
		e.dispatchPeerMessage(ctx, u)

	case validator.Shutdown:
		e.log.Info("received shutdown; stopping snowball")
		return false
	}

	return true
}

func (e *Engine) dispatchPeerMessage(ctx context.Context, u validator.Update) {
	msg, err := wireproto.Decode(u.Payload)
	if err != nil {
		e.log.Error("failed to decode peer message payload", "err", err)
		return
	}

	messageType := wireproto.MessageType(u.MessageType)
	if !messageType.Valid() {
		e.log.Error("received unknown message type", "message_type", u.MessageType)
		return
	}

	e.node.OnPeerMessage(ctx, messageType, u.Peer, msg, e.state)
}

// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wireproto

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
)

// MessageType identifies the kind of peer message exchanged during a
// Snowball polling round.
type MessageType string

const (
	// TypeRequest is a poll from a sampler.
	TypeRequest MessageType = "request"
	// TypeResponse is an answer from a sampled peer.
	TypeResponse MessageType = "response"
	// TypeUnavailable is sent by a peer that has not begun the requested
	// sequence number yet.
	TypeUnavailable MessageType = "unavailable"
)

// String returns the transport-level type tag for m.
func (m MessageType) String() string {
	switch m {
	case TypeRequest:
		return "request"
	case TypeResponse:
		return "response"
	case TypeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the three known message types.
func (m MessageType) Valid() bool {
	switch m {
	case TypeRequest, TypeResponse, TypeUnavailable:
		return true
	default:
		return false
	}
}

// Message is the wire payload exchanged between Snowball peers. It is
// encoded as JSON text; MessageType duplicates the transport-level type tag
// and must match it.
type Message struct {
	MessageType MessageType `json:"message_type"`
	SeqNum      uint64      `json:"seq_num"`
	Vote        uint8       `json:"vote"`
	Nonce       []byte      `json:"nonce"`
}

// NewMessage builds a Message with a freshly generated nonce, so that two
// messages with otherwise identical content are never byte-identical on the
// wire (defeats transport-level replay dedup).
func NewMessage(messageType MessageType, seqNum uint64, vote uint8) Message {
	nonce := make([]byte, 16)
	_, _ = rand.Read(nonce) // crypto/rand.Read never returns an error on any supported platform
	return Message{
		MessageType: messageType,
		SeqNum:      seqNum,
		Vote:        vote,
		Nonce:       nonce,
	}
}

// Encode renders m as its UTF-8 JSON wire form.
func (m Message) Encode() ([]byte, error) {
	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return encoded, nil
}

// Decode parses the JSON wire form of a Message.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}

package p2p

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/wire"
)

// MessageType identifies a peer-to-peer envelope.
type MessageType string

// The message types understood by the gossip protocol. Unknown types are
// ignored so newer nodes can extend the protocol.
const (
	MessageTypeVersion MessageType = "version"
	MessageTypeBlock   MessageType = "block"
	MessageTypeTx      MessageType = "tx"
)

// Message is the envelope every peer-to-peer exchange is framed in: a type
// tag plus a type-specific payload. Envelopes are newline-delimited JSON on
// the wire; the block and transaction bodies inside them use the wire
// package's encoding.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// VersionPayload is exchanged when peers first connect.
type VersionPayload struct {
	Version string `json:"version"`
	Height  uint64 `json:"height"`
}

// BlockPayload relays a block to a peer.
type BlockPayload struct {
	Block *wire.MsgBlock `json:"block"`
}

// TxPayload relays a standalone transaction to a peer.
type TxPayload struct {
	Transaction *wire.MsgTx `json:"transaction"`
}

// NewMessage creates an envelope of the given type around the given payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s payload", msgType)
	}
	return &Message{Type: msgType, Payload: raw}, nil
}

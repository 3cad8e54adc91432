// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"strconv"
	"strings"

	"github.com/mathieufitzgerald/matchain/util/hashes"
)

// BlockHeader defines information about a block and is used in the matchain
// block (MsgBlock) message.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version uint32 `json:"version"`

	// Hash of the previous block in the chain.
	PrevBlock hashes.Hash `json:"prevBlock"`

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot hashes.Hash `json:"merkleRoot"`

	// Time the block was created, in seconds since the Unix epoch.
	Timestamp uint64 `json:"timestamp"`

	// Difficulty target for the block. Recorded in the serialization for
	// forward compatibility; the proof-of-work predicate does not interpret
	// it.
	Bits uint32 `json:"bits"`

	// Nonce used to generate the block.
	Nonce uint64 `json:"nonce"`
}

// serializeForHash renders the header in the canonical textual form the block
// id commits to: version, previous block hash, merkle root, timestamp,
// difficulty bits and nonce, with unsigned integers as decimal digits and
// digests as 64-character lowercase hex. The layout is part of the wire
// contract and must be reproduced bit-for-bit for independent implementations
// to agree on block ids.
func (h *BlockHeader) serializeForHash() []byte {
	var buf strings.Builder
	buf.WriteString(strconv.FormatUint(uint64(h.Version), 10))
	buf.WriteString(h.PrevBlock.String())
	buf.WriteString(h.MerkleRoot.String())
	buf.WriteString(strconv.FormatUint(h.Timestamp, 10))
	buf.WriteString(strconv.FormatUint(uint64(h.Bits), 10))
	buf.WriteString(strconv.FormatUint(h.Nonce, 10))
	return []byte(buf.String())
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() hashes.Hash {
	return hashes.HashData(h.serializeForHash())
}

// NewBlockHeader returns a new BlockHeader using the provided version,
// previous block hash, merkle root hash, difficulty bits, and nonce used to
// generate the block with defaults for the remaining fields.
func NewBlockHeader(version uint32, prevBlock, merkleRoot *hashes.Hash,
	timestamp uint64, bits uint32, nonce uint64) *BlockHeader {

	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevBlock,
		MerkleRoot: *merkleRoot,
		Timestamp:  timestamp,
		Bits:       bits,
		Nonce:      nonce,
	}
}

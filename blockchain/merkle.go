// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/mathieufitzgerald/matchain/util/hashes"
	"github.com/mathieufitzgerald/matchain/wire"
)

// hashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation. The concatenation is of
// the 64-character hex renderings, not the raw bytes, to match the canonical
// on-wire identity.
func hashMerkleBranches(left, right *hashes.Hash) hashes.Hash {
	return hashes.HashData([]byte(left.String() + right.String()))
}

// BuildMerkleRoot reduces the ordered transaction ids of a block to the
// single merkle root digest the block header commits to.
//
// The reduction follows the Bitcoin convention: a level with an odd number of
// nodes duplicates its last node, adjacent nodes are paired strictly
// left-then-right, and the reduction terminates when a level holds a single
// node. An empty transaction list produces the all-zero digest.
func BuildMerkleRoot(txIDs []hashes.TxID) hashes.Hash {
	if len(txIDs) == 0 {
		return hashes.ZeroHash
	}

	level := make([]hashes.Hash, len(txIDs))
	for i, txID := range txIDs {
		level[i] = hashes.Hash(txID)
	}

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		nextLevel := make([]hashes.Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			nextLevel = append(nextLevel, hashMerkleBranches(&level[i], &level[i+1]))
		}
		level = nextLevel
	}

	return level[0]
}

// BuildBlockMerkleRoot computes the merkle root over the given block's
// transaction ids and assigns it to the block header.
func BuildBlockMerkleRoot(block *wire.MsgBlock) {
	block.Header.MerkleRoot = BuildMerkleRoot(block.TxIDs())
}

// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/mathieufitzgerald/matchain/blockchain"
	"github.com/mathieufitzgerald/matchain/util/hashes"
	"github.com/mathieufitzgerald/matchain/wire"
)

// CoinbaseFlags is carried in the authenticator of the coinbase input of
// generated blocks and is used to identify blocks generated via matchain.
const CoinbaseFlags = "/matchain/"

// BlkTmplGenerator provides a type that can be used to generate block
// templates based on the current chain tip. Templates are built on top of
// the current tip and adhere to the consensus rules with the exception of
// satisfying the proof-of-work requirement.
type BlkTmplGenerator struct {
	chain *blockchain.BlockChain
}

// NewBlkTmplGenerator returns a new block template generator that builds
// templates on the given chain.
func NewBlkTmplGenerator(chain *blockchain.BlockChain) *BlkTmplGenerator {
	return &BlkTmplGenerator{chain: chain}
}

// NewBlockTemplate returns a new block template that is ready to be solved:
// it extends the current tip, carries a single coinbase paying the next
// subsidy to the given recipient commitment, and has its merkle root filled
// in. The caller searches the header nonce for a proof-of-work solution.
func (g *BlkTmplGenerator) NewBlockTemplate(payTo hashes.Hash) *wire.MsgBlock {
	block := g.chain.BuildCandidateBlock(payTo, []byte(CoinbaseFlags))
	blockchain.BuildBlockMerkleRoot(block)

	log.Debugf("Created new block template extending %s (%d transaction(s))",
		block.Header.PrevBlock, len(block.Transactions))
	return block
}

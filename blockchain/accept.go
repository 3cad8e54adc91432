// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/wire"
)

// maybeAcceptBlock runs the full acceptance protocol on the passed block and,
// when every check passes, applies it: spent outputs are removed from the
// unspent set, created outputs are inserted, and the block is appended to the
// chain. Validation completes in full before the first mutation, so a
// rejected block leaves no trace.
//
// This function MUST be called with the chain lock held.
func (b *BlockChain) maybeAcceptBlock(block *wire.MsgBlock) error {
	// The block must extend the current tip. There is no side storage for
	// blocks off the best chain: a block racing against another for the
	// same parent, or one extending a fork, fails here.
	tipHash := b.tipHash()
	if block.Header.PrevBlock != tipHash {
		return errors.Wrapf(ErrStaleParent,
			"block %s extends %s which is not the current tip %s",
			block.BlockHash(), block.Header.PrevBlock, tipHash)
	}

	if !CheckProofOfWork(&block.Header) {
		return errors.Wrapf(ErrInvalidPoW, "block id %s does not satisfy the required "+
			"%q prefix", block.BlockHash(), powHexPrefix)
	}

	if err := checkBlockSanity(block); err != nil {
		return err
	}

	spentInBlock, totalFees, err := b.checkConnectBlock(block)
	if err != nil {
		return err
	}

	// Creating an outpoint that is already unspent would corrupt the set.
	// Transaction ids commit to their contents, so this cannot happen for
	// honest chains; it is checked before any mutation all the same.
	for _, tx := range block.Transactions {
		txID := tx.TxID()
		for i := range tx.TxOut {
			outpoint := *wire.NewOutpoint(&txID, uint32(i))
			if _, spent := spentInBlock[outpoint]; spent {
				continue
			}
			if _, ok := b.utxoSet.Get(outpoint); ok {
				return errors.Wrapf(ErrDuplicateUTXO,
					"block %s creates outpoint %s which is already unspent",
					block.BlockHash(), outpoint)
			}
		}
	}

	// All checks passed: apply the block.
	for outpoint := range spentInBlock {
		if err := b.utxoSet.remove(outpoint); err != nil {
			return err
		}
	}
	for _, tx := range block.Transactions {
		txID := tx.TxID()
		for i, txOut := range tx.TxOut {
			outpoint := *wire.NewOutpoint(&txID, uint32(i))
			if err := b.utxoSet.add(outpoint, NewUTXOEntry(txOut)); err != nil {
				return err
			}
		}
	}
	b.blocks = append(b.blocks, block)

	log.Debugf("Block %s connected at height %d with %d transaction(s) and %d in fees",
		block.BlockHash(), len(b.blocks)-1, len(block.Transactions), totalFees)
	return nil
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/btcsuite/btcutil"

	"github.com/mathieufitzgerald/matchain/wire"
)

// ProcessBlock is the main workhorse for handling insertion of new blocks
// into the block chain, whether they come from a miner or from a peer. The
// whole of validation and application runs while the chain lock is held, so
// two blocks racing for the same parent serialize and the loser fails with
// ErrStaleParent.
//
// Every returned error is a RuleError; the chain is unchanged on any of
// them, and none is fatal to the caller.
func (b *BlockChain) ProcessBlock(block *wire.MsgBlock) error {
	b.chainLock.Lock()
	err := b.maybeAcceptBlock(block)
	height := uint64(len(b.blocks) - 1)
	b.chainLock.Unlock()
	if err != nil {
		return err
	}

	var coinbaseValue uint64
	for _, txOut := range block.Transactions[0].TxOut {
		coinbaseValue += txOut.Amount
	}
	log.Infof("Accepted block %s at height %d, coinbase pays %v coins",
		block.BlockHash(), height, btcutil.Amount(coinbaseValue).ToBTC())

	b.notifyBlockAccepted(block)
	return nil
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/wire"
)

// powHexPrefix is the required prefix of a block id's hex rendering: four
// zero hex characters, i.e. sixteen leading zero bits. The header's Bits
// field is carried in the serialization but does not vary this threshold.
const powHexPrefix = "0000"

// CheckProofOfWork returns whether the block id derived from the given
// header satisfies the proof-of-work predicate.
func CheckProofOfWork(header *wire.BlockHeader) bool {
	return strings.HasPrefix(header.BlockHash().String(), powHexPrefix)
}

// checkBlockSanity performs the context-free checks on a block: it must
// carry at least one transaction, the first transaction must be a
// well-formed coinbase, every other transaction must have at least one input
// and one output, and the header's merkle root must be reproducible from the
// transaction ids.
func checkBlockSanity(block *wire.MsgBlock) error {
	if len(block.Transactions) == 0 {
		return errors.Wrapf(ErrNoTransactions, "block %s has no transactions", block.BlockHash())
	}

	if !wire.IsCoinbaseTx(block.Transactions[0]) {
		return errors.Wrapf(ErrFirstTxNotCoinbase,
			"first transaction in block %s is not a well-formed coinbase", block.BlockHash())
	}

	for i, tx := range block.Transactions[1:] {
		if len(tx.TxIn) == 0 || len(tx.TxOut) == 0 {
			return errors.Wrapf(ErrBadTxStructure,
				"transaction %d in block %s has no inputs or no outputs", i+1, block.BlockHash())
		}
	}

	merkleRoot := BuildMerkleRoot(block.TxIDs())
	if merkleRoot != block.Header.MerkleRoot {
		return errors.Wrapf(ErrBadMerkleRoot,
			"block merkle root is invalid - header indicates %s, but calculated value is %s",
			block.Header.MerkleRoot, merkleRoot)
	}

	return nil
}

// checkConnectBlock validates the block's transactions against the current
// unspent-output set without mutating it. On success it returns the set of
// outpoints the block spends and the total fees it collects.
//
// For every non-coinbase transaction, each input must resolve to an unspent
// output, no output may be spent twice within the block, and the output total
// must not exceed the input total. The per-transaction input surplus is the
// fee. The coinbase may claim at most the block subsidy plus the collected
// fees.
func (b *BlockChain) checkConnectBlock(block *wire.MsgBlock) (map[wire.Outpoint]struct{}, uint64, error) {
	spentInBlock := make(map[wire.Outpoint]struct{})
	var totalFees uint64

	for _, tx := range block.Transactions[1:] {
		var totalIn, totalOut uint64
		for _, txIn := range tx.TxIn {
			outpoint := txIn.PreviousOutpoint
			if _, spent := spentInBlock[outpoint]; spent {
				return nil, 0, errors.Wrapf(ErrDoubleSpendInBlock,
					"output %s is spent more than once in block %s", outpoint, block.BlockHash())
			}
			entry, ok := b.utxoSet.Get(outpoint)
			if !ok {
				return nil, 0, errors.Wrapf(ErrMissingTxOut,
					"output %s referenced from transaction %s either does not exist or has "+
						"already been spent", outpoint, tx.TxID())
			}
			if err := b.authChecker(txIn, entry); err != nil {
				return nil, 0, errors.Wrapf(ErrBadAuthenticator,
					"authenticator for output %s was rejected: %s", outpoint, err)
			}
			spentInBlock[outpoint] = struct{}{}
			totalIn += entry.Amount()
		}
		for _, txOut := range tx.TxOut {
			totalOut += txOut.Amount
		}
		if totalOut > totalIn {
			return nil, 0, errors.Wrapf(ErrSpendTooHigh,
				"transaction %s spends %d which exceeds its input total %d",
				tx.TxID(), totalOut, totalIn)
		}
		totalFees += totalIn - totalOut
	}

	var coinbaseValue uint64
	for _, txOut := range block.Transactions[0].TxOut {
		coinbaseValue += txOut.Amount
	}
	expectedMax := b.CalcBlockSubsidy(uint64(len(b.blocks))) + totalFees
	if coinbaseValue > expectedMax {
		return nil, 0, errors.Wrapf(ErrBadCoinbaseValue,
			"coinbase transaction for block %s pays %d which is more than the expected "+
				"maximum of %d", block.BlockHash(), coinbaseValue, expectedMax)
	}

	return spentInBlock, totalFees, nil
}

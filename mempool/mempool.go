// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/blockchain"
	"github.com/mathieufitzgerald/matchain/util/hashes"
	"github.com/mathieufitzgerald/matchain/wire"
)

// These constants identify mempool rule violations.
var (
	// ErrCoinbaseTx indicates an attempt to relay a standalone coinbase
	// transaction. Coinbases are only valid inside a block.
	ErrCoinbaseTx = errors.New("transaction is an individual coinbase")

	// ErrDuplicateTx indicates the pool already holds the transaction.
	ErrDuplicateTx = errors.New("transaction is already in the pool")

	// ErrMissingInput indicates an input references an output that is
	// neither unspent nor known to the pool.
	ErrMissingInput = errors.New("transaction references a missing or spent output")

	// ErrSpendTooHigh indicates the transaction's outputs exceed its
	// inputs.
	ErrSpendTooHigh = errors.New("transaction spends more than its input total")
)

// Config is a descriptor containing the memory pool configuration.
type Config struct {
	// Chain is the chain instance transactions are validated against.
	Chain *blockchain.BlockChain
}

// TxPool is used as a source of transactions that have been validated
// against the current unspent-output view and are waiting to be mined into
// blocks. The candidate-assembly path does not consume it yet; it holds
// relayed transactions so they survive until a block template path exists
// and so relay decisions have a duplicate filter.
type TxPool struct {
	mtx  sync.RWMutex
	cfg  Config
	pool map[hashes.TxID]*wire.MsgTx
}

// New returns a new memory pool for validating and storing standalone
// transactions until they are mined into a block.
func New(cfg *Config) *TxPool {
	mp := &TxPool{
		cfg:  *cfg,
		pool: make(map[hashes.TxID]*wire.MsgTx),
	}
	// Transactions mined into an accepted block, and any that became
	// double spends of one, are evicted.
	cfg.Chain.SubscribeBlockAccepted(mp.handleConnectedBlock)
	return mp
}

// Count returns the number of transactions in the pool.
func (mp *TxPool) Count() int {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	return len(mp.pool)
}

// HaveTransaction returns whether the passed transaction id exists in the
// pool.
func (mp *TxPool) HaveTransaction(txID *hashes.TxID) bool {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()
	_, ok := mp.pool[*txID]
	return ok
}

// ProcessTransaction validates the passed transaction against the current
// unspent-output view and adds it to the pool on success. The authenticator
// is not checked here; it is only enforced by the chain's configured checker
// at block connect time.
func (mp *TxPool) ProcessTransaction(tx *wire.MsgTx) error {
	txID := tx.TxID()

	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	if wire.IsCoinbaseTx(tx) {
		return errors.WithStack(ErrCoinbaseTx)
	}
	if _, ok := mp.pool[txID]; ok {
		return errors.Wrapf(ErrDuplicateTx, "transaction %s", txID)
	}

	var totalIn, totalOut uint64
	for _, txIn := range tx.TxIn {
		entry, ok := mp.cfg.Chain.UTXOEntry(txIn.PreviousOutpoint)
		if !ok {
			return errors.Wrapf(ErrMissingInput, "output %s", txIn.PreviousOutpoint)
		}
		totalIn += entry.Amount()
	}
	for _, txOut := range tx.TxOut {
		totalOut += txOut.Amount
	}
	if totalOut > totalIn {
		return errors.Wrapf(ErrSpendTooHigh, "transaction %s spends %d with input total %d",
			txID, totalOut, totalIn)
	}

	mp.pool[txID] = tx
	log.Debugf("Accepted transaction %s to the pool (pool size: %d)", txID, len(mp.pool))
	return nil
}

// handleConnectedBlock removes transactions that were mined into the passed
// block, and any pooled transaction that spends an output the block spent.
func (mp *TxPool) handleConnectedBlock(block *wire.MsgBlock) {
	spent := make(map[wire.Outpoint]struct{})
	for _, tx := range block.Transactions[1:] {
		for _, txIn := range tx.TxIn {
			spent[txIn.PreviousOutpoint] = struct{}{}
		}
	}

	mp.mtx.Lock()
	defer mp.mtx.Unlock()
	for _, tx := range block.Transactions {
		delete(mp.pool, tx.TxID())
	}
	for txID, tx := range mp.pool {
		for _, txIn := range tx.TxIn {
			if _, ok := spent[txIn.PreviousOutpoint]; ok {
				delete(mp.pool, txID)
				break
			}
		}
	}
}

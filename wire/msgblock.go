// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/mathieufitzgerald/matchain/util/hashes"
)

// BlockVersion is the current latest supported block version.
const BlockVersion = 1

// MsgBlock implements the Message interface and represents a matchain block
// message. It is used to deliver block and transaction information between
// peers. The first transaction is required to be the coinbase.
type MsgBlock struct {
	Header       BlockHeader `json:"header"`
	Transactions []*MsgTx    `json:"transactions"`
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() hashes.Hash {
	return msg.Header.BlockHash()
}

// TxIDs returns a slice of ids of all of transactions in this block.
func (msg *MsgBlock) TxIDs() []hashes.TxID {
	txIDs := make([]hashes.TxID, 0, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		txIDs = append(txIDs, tx.TxID())
	}
	return txIDs
}

// NewMsgBlock returns a new matchain block message with the given header and
// no transactions.
func NewMsgBlock(blockHeader *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header: *blockHeader,
	}
}

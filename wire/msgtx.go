// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mathieufitzgerald/matchain/util/hashes"
)

const (
	// TxVersion is the current latest supported transaction version.
	TxVersion = 1
)

// Outpoint defines a matchain data type that is used to track previous
// transaction outputs.
type Outpoint struct {
	TxID  hashes.TxID `json:"txid"`
	Index uint32      `json:"index"`
}

// NewOutpoint returns a new matchain transaction outpoint point with the
// provided transaction id and index.
func NewOutpoint(txID *hashes.TxID, index uint32) *Outpoint {
	return &Outpoint{
		TxID:  *txID,
		Index: index,
	}
}

// String returns the outpoint in the human-readable form "txid:index".
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Index)
}

// TxIn defines a matchain transaction input. It references a previous
// transaction output and carries an opaque authenticator in place of a
// signature script. The ledger does not interpret the authenticator; coinbase
// inputs use it for the coinbase message.
type TxIn struct {
	PreviousOutpoint Outpoint `json:"previousOutpoint"`
	Authenticator    []byte   `json:"authenticator"`
}

// NewTxIn returns a new matchain transaction input with the provided previous
// outpoint and authenticator.
func NewTxIn(prevOut *Outpoint, authenticator []byte) *TxIn {
	return &TxIn{
		PreviousOutpoint: *prevOut,
		Authenticator:    authenticator,
	}
}

// TxOut defines a matchain transaction output. The amount is denominated in
// the smallest indivisible unit; the recipient commitment stands in for a
// public-key hash.
type TxOut struct {
	Amount    uint64      `json:"amount"`
	Recipient hashes.Hash `json:"recipient"`
}

// NewTxOut returns a new matchain transaction output with the provided
// amount and recipient commitment.
func NewTxOut(amount uint64, recipient hashes.Hash) *TxOut {
	return &TxOut{
		Amount:    amount,
		Recipient: recipient,
	}
}

// MsgTx represents a matchain tx message. It is used to relay transactions between peers and to carry the
// transactions committed to by a block.
type MsgTx struct {
	Version  uint32   `json:"version"`
	LockTime uint32   `json:"lockTime"`
	TxIn     []*TxIn  `json:"txIn"`
	TxOut    []*TxOut `json:"txOut"`
}

// AddTxIn adds a transaction input to the message.
func (tx *MsgTx) AddTxIn(ti *TxIn) {
	tx.TxIn = append(tx.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (tx *MsgTx) AddTxOut(to *TxOut) {
	tx.TxOut = append(tx.TxOut, to)
}

// serializeForID renders the transaction in the canonical textual form the
// transaction id commits to: version, lock time, then every input's previous
// transaction id, previous output index and authenticator, then every
// output's amount and recipient commitment. Unsigned integers are rendered as
// decimal digits, digests as 64-character lowercase hex, and authenticators
// verbatim. The layout is part of the wire contract and must be reproduced
// bit-for-bit for independent implementations to agree on ids.
func (tx *MsgTx) serializeForID() []byte {
	var buf strings.Builder
	buf.WriteString(strconv.FormatUint(uint64(tx.Version), 10))
	buf.WriteString(strconv.FormatUint(uint64(tx.LockTime), 10))
	for _, txIn := range tx.TxIn {
		buf.WriteString(txIn.PreviousOutpoint.TxID.String())
		buf.WriteString(strconv.FormatUint(uint64(txIn.PreviousOutpoint.Index), 10))
		buf.Write(txIn.Authenticator)
	}
	for _, txOut := range tx.TxOut {
		buf.WriteString(strconv.FormatUint(txOut.Amount, 10))
		buf.WriteString(txOut.Recipient.String())
	}
	return []byte(buf.String())
}

// TxID generates the id for the transaction: the digest of its canonical
// serialization. The id depends only on field values, so two transactions
// with equal fields share an id.
func (tx *MsgTx) TxID() hashes.TxID {
	return hashes.TxID(hashes.HashData(tx.serializeForID()))
}

// IsCoinbaseTx determines whether or not a transaction is a coinbase. A
// coinbase is a special transaction created by miners that has exactly one
// input, whose previous outpoint references the null transaction id at index
// zero. The authenticator of that input carries the coinbase message.
func IsCoinbaseTx(tx *MsgTx) bool {
	if len(tx.TxIn) != 1 {
		return false
	}
	prevOut := &tx.TxIn[0].PreviousOutpoint
	return prevOut.Index == 0 && prevOut.TxID == hashes.ZeroTxID
}

// NewMsgTx returns a new matchain tx message with the given version and no
// inputs or outputs.
func NewMsgTx(version uint32) *MsgTx {
	return &MsgTx{Version: version}
}

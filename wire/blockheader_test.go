// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"testing"

	"github.com/mathieufitzgerald/matchain/util/hashes"
)

// TestBlockHashVector checks the block id against an externally computed
// digest of the canonical header serialization.
func TestBlockHashVector(t *testing.T) {
	merkleRoot, err := hashes.NewHashFromStr(
		"4140bf0e8569ed03ec838871ff2f190e9b3ea86bc083d7e9901049f75f00e855")
	if err != nil {
		t.Fatal(err)
	}

	header := NewBlockHeader(1, &hashes.ZeroHash, merkleRoot, 1700000000, 0x1f00ffff, 0)
	want := "9d93aabcceb33b9f8d22732895528d0afeb1077ec55128522ae28729ac384de9"
	if got := header.BlockHash().String(); got != want {
		t.Errorf("BlockHash returned %s, want %s", got, want)
	}
}

// TestBlockHashCommitsToEveryField flips each header field and ensures the
// block id changes.
func TestBlockHashCommitsToEveryField(t *testing.T) {
	merkleRoot := hashes.HashData([]byte("merkle"))
	prevBlock := hashes.HashData([]byte("prev"))
	base := NewBlockHeader(1, &prevBlock, &merkleRoot, 1700000000, 0x1f00ffff, 7)
	baseHash := base.BlockHash()

	mutations := []struct {
		name   string
		mutate func(h *BlockHeader)
	}{
		{name: "version", mutate: func(h *BlockHeader) { h.Version = 2 }},
		{name: "prev block", mutate: func(h *BlockHeader) { h.PrevBlock = hashes.ZeroHash }},
		{name: "merkle root", mutate: func(h *BlockHeader) { h.MerkleRoot = hashes.ZeroHash }},
		{name: "timestamp", mutate: func(h *BlockHeader) { h.Timestamp++ }},
		{name: "bits", mutate: func(h *BlockHeader) { h.Bits++ }},
		{name: "nonce", mutate: func(h *BlockHeader) { h.Nonce++ }},
	}

	for _, mutation := range mutations {
		header := *base
		mutation.mutate(&header)
		if header.BlockHash() == baseHash {
			t.Errorf("%s: mutation did not change the block hash", mutation.name)
		}
	}
}

func TestMsgBlockTxIDs(t *testing.T) {
	recipient := hashes.HashData([]byte("erin"))

	coinbase := NewMsgTx(TxVersion)
	coinbase.AddTxIn(NewTxIn(NewOutpoint(&hashes.ZeroTxID, 0), []byte("message")))
	coinbase.AddTxOut(NewTxOut(5000000000, recipient))

	header := NewBlockHeader(BlockVersion, &hashes.ZeroHash, &hashes.ZeroHash, 1700000000, 0x1f00ffff, 0)
	block := NewMsgBlock(header)
	block.AddTransaction(coinbase)

	txIDs := block.TxIDs()
	if len(txIDs) != 1 {
		t.Fatalf("TxIDs returned %d ids, want 1", len(txIDs))
	}
	if txIDs[0] != coinbase.TxID() {
		t.Errorf("TxIDs returned %s, want %s", txIDs[0], coinbase.TxID())
	}
}

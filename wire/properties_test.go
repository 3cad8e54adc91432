package wire

import (
	"encoding/json"
	"testing"

	"pgregory.net/rapid"

	"github.com/mathieufitzgerald/matchain/util/hashes"
)

func drawHash(t *rapid.T, label string) hashes.Hash {
	var hash hashes.Hash
	raw := rapid.SliceOfN(rapid.Byte(), hashes.HashSize, hashes.HashSize).Draw(t, label)
	if err := hash.SetBytes(raw); err != nil {
		panic(err)
	}
	return hash
}

func drawTx(t *rapid.T) *MsgTx {
	tx := NewMsgTx(rapid.Uint32().Draw(t, "version"))
	tx.LockTime = rapid.Uint32().Draw(t, "lockTime")

	numIn := rapid.IntRange(0, 4).Draw(t, "numIn")
	for i := 0; i < numIn; i++ {
		prevTxID := hashes.TxID(drawHash(t, "prevTxID"))
		tx.AddTxIn(NewTxIn(
			NewOutpoint(&prevTxID, rapid.Uint32().Draw(t, "prevIndex")),
			rapid.SliceOfN(rapid.Byte(), 0, 16).Draw(t, "authenticator"),
		))
	}
	numOut := rapid.IntRange(0, 4).Draw(t, "numOut")
	for i := 0; i < numOut; i++ {
		tx.AddTxOut(NewTxOut(rapid.Uint64().Draw(t, "amount"), drawHash(t, "recipient")))
	}
	return tx
}

// TestTxIDSurvivesWireRoundTrip ensures the transaction id is preserved by
// the gossip encoding: a transaction decoded from its own encoding carries
// the same id.
func TestTxIDSurvivesWireRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tx := drawTx(t)

		encoded, err := json.Marshal(tx)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		var decoded MsgTx
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		if decoded.TxID() != tx.TxID() {
			t.Fatalf("tx id changed across encoding: %s != %s", decoded.TxID(), tx.TxID())
		}
	})
}

// TestBlockHashSurvivesWireRoundTrip does the same for whole blocks.
func TestBlockHashSurvivesWireRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prevBlock := drawHash(t, "prevBlock")
		merkleRoot := drawHash(t, "merkleRoot")
		header := NewBlockHeader(
			rapid.Uint32().Draw(t, "version"),
			&prevBlock,
			&merkleRoot,
			rapid.Uint64().Draw(t, "timestamp"),
			rapid.Uint32().Draw(t, "bits"),
			rapid.Uint64().Draw(t, "nonce"),
		)
		block := NewMsgBlock(header)
		numTxs := rapid.IntRange(1, 3).Draw(t, "numTxs")
		for i := 0; i < numTxs; i++ {
			block.AddTransaction(drawTx(t))
		}

		encoded, err := json.Marshal(block)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		var decoded MsgBlock
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		if decoded.BlockHash() != block.BlockHash() {
			t.Fatalf("block hash changed across encoding: %s != %s",
				decoded.BlockHash(), block.BlockHash())
		}
		if len(decoded.Transactions) != len(block.Transactions) {
			t.Fatalf("transaction count changed across encoding: %d != %d",
				len(decoded.Transactions), len(block.Transactions))
		}
	})
}

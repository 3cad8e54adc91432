package blockchain

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/util/hashes"
	"github.com/mathieufitzgerald/matchain/wire"
)

func testOutpoint(preimage string, index uint32) wire.Outpoint {
	txID := hashes.TxID(hashes.HashData([]byte(preimage)))
	return *wire.NewOutpoint(&txID, index)
}

func TestUTXOSetAddGetRemove(t *testing.T) {
	set := NewUTXOSet()
	outpoint := testOutpoint("tx", 0)
	entry := NewUTXOEntry(wire.NewTxOut(1000, hashes.HashData([]byte("alice"))))

	if _, ok := set.Get(outpoint); ok {
		t.Fatal("empty set reported an entry")
	}
	if err := set.add(outpoint, entry); err != nil {
		t.Fatalf("add: unexpected error: %+v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("set has %d entries, want 1", set.Len())
	}

	got, ok := set.Get(outpoint)
	if !ok {
		t.Fatal("added entry not found")
	}
	if got.Amount() != 1000 || got.Recipient() != hashes.HashData([]byte("alice")) {
		t.Errorf("entry is (%d, %s), want (1000, digest of alice)", got.Amount(), got.Recipient())
	}

	if err := set.remove(outpoint); err != nil {
		t.Fatalf("remove: unexpected error: %+v", err)
	}
	if set.Len() != 0 {
		t.Errorf("set has %d entries after remove, want 0", set.Len())
	}
}

func TestUTXOSetDuplicateAdd(t *testing.T) {
	set := NewUTXOSet()
	outpoint := testOutpoint("tx", 0)
	entry := NewUTXOEntry(wire.NewTxOut(1000, hashes.HashData([]byte("alice"))))

	if err := set.add(outpoint, entry); err != nil {
		t.Fatalf("add: unexpected error: %+v", err)
	}
	err := set.add(outpoint, entry)
	if !errors.Is(err, ErrDuplicateUTXO) {
		t.Fatalf("second add returned %v, want ErrDuplicateUTXO", err)
	}
}

func TestUTXOSetMissingRemove(t *testing.T) {
	set := NewUTXOSet()
	err := set.remove(testOutpoint("tx", 0))
	if !errors.Is(err, ErrMissingUTXO) {
		t.Fatalf("remove returned %v, want ErrMissingUTXO", err)
	}
}

func TestUTXOSetForEach(t *testing.T) {
	set := NewUTXOSet()
	recipient := hashes.HashData([]byte("alice"))
	for i := uint32(0); i < 5; i++ {
		outpoint := testOutpoint("tx", i)
		if err := set.add(outpoint, NewUTXOEntry(wire.NewTxOut(uint64(i)+1, recipient))); err != nil {
			t.Fatalf("add: unexpected error: %+v", err)
		}
	}

	var total uint64
	set.ForEach(func(_ wire.Outpoint, entry *UTXOEntry) bool {
		total += entry.Amount()
		return true
	})
	if total != 1+2+3+4+5 {
		t.Errorf("ForEach summed %d, want 15", total)
	}

	var visited int
	set.ForEach(func(_ wire.Outpoint, _ *UTXOEntry) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("ForEach visited %d entries after returning false, want 1", visited)
	}
}

package blockchain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/util/hashes"
	"github.com/mathieufitzgerald/matchain/wire"
)

// UTXOEntry houses details about an individual unspent transaction output,
// such as its amount and the recipient commitment that locks it.
type UTXOEntry struct {
	amount    uint64
	recipient hashes.Hash
}

// Amount returns the amount of the output, in base units.
func (entry *UTXOEntry) Amount() uint64 {
	return entry.amount
}

// Recipient returns the recipient commitment of the output.
func (entry *UTXOEntry) Recipient() hashes.Hash {
	return entry.recipient
}

// NewUTXOEntry returns a new UTXOEntry built from the given output.
func NewUTXOEntry(txOut *wire.TxOut) *UTXOEntry {
	return &UTXOEntry{
		amount:    txOut.Amount,
		recipient: txOut.Recipient,
	}
}

// utxoCollection represents a set of UTXOs indexed by their outpoints.
type utxoCollection map[wire.Outpoint]*UTXOEntry

func (uc utxoCollection) String() string {
	utxoStrings := make([]string, len(uc))

	i := 0
	for outpoint, utxoEntry := range uc {
		utxoStrings[i] = fmt.Sprintf("(%s, %d) => %d", outpoint.TxID, outpoint.Index, utxoEntry.amount)
		i++
	}

	// Sort strings for determinism.
	sort.Strings(utxoStrings)

	return fmt.Sprintf("[ %s ]", strings.Join(utxoStrings, ", "))
}

// get returns the entry represented by the provided outpoint, and a boolean
// value indicating if said entry is in the collection or not.
func (uc utxoCollection) get(outpoint wire.Outpoint) (*UTXOEntry, bool) {
	entry, ok := uc[outpoint]
	return entry, ok
}

// contains returns a boolean value indicating whether an outpoint is in the
// collection.
func (uc utxoCollection) contains(outpoint wire.Outpoint) bool {
	_, ok := uc[outpoint]
	return ok
}

// UTXOSet is the authoritative set of unspent transaction outputs. It is
// owned exclusively by the BlockChain: all mutation happens on the block
// connect path under the chain lock.
type UTXOSet struct {
	utxos utxoCollection
}

// NewUTXOSet returns a new, empty UTXOSet.
func NewUTXOSet() *UTXOSet {
	return &UTXOSet{utxos: utxoCollection{}}
}

// Get returns the entry for the provided outpoint, and a boolean value
// indicating whether the output exists in the set, i.e. has been created by
// an accepted transaction and has not yet been spent.
func (us *UTXOSet) Get(outpoint wire.Outpoint) (*UTXOEntry, bool) {
	return us.utxos.get(outpoint)
}

// add adds a new UTXO entry to the set. Adding an outpoint that is already
// present is a rule error: it cannot occur under correct use because
// transaction ids commit to their contents.
func (us *UTXOSet) add(outpoint wire.Outpoint, entry *UTXOEntry) error {
	if us.utxos.contains(outpoint) {
		return errors.Wrapf(ErrDuplicateUTXO, "outpoint %s is already unspent", outpoint)
	}
	us.utxos[outpoint] = entry
	return nil
}

// remove removes the UTXO entry for the given outpoint. Removing an outpoint
// that is not present is a rule error.
func (us *UTXOSet) remove(outpoint wire.Outpoint) error {
	if !us.utxos.contains(outpoint) {
		return errors.Wrapf(ErrMissingUTXO, "outpoint %s is not unspent", outpoint)
	}
	delete(us.utxos, outpoint)
	return nil
}

// Len returns the number of unspent outputs in the set.
func (us *UTXOSet) Len() int {
	return len(us.utxos)
}

// ForEach calls the given function for every unspent output in the set, in
// unspecified order, until the function returns false. It is intended for
// wallet-side balance queries; callers that require a consistent view must
// hold the chain lock via the BlockChain accessors.
func (us *UTXOSet) ForEach(f func(outpoint wire.Outpoint, entry *UTXOEntry) bool) {
	for outpoint, entry := range us.utxos {
		if !f(outpoint, entry) {
			return
		}
	}
}

func (us *UTXOSet) String() string {
	return us.utxos.String()
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/chaincfg"
	"github.com/mathieufitzgerald/matchain/util"
	"github.com/mathieufitzgerald/matchain/util/hashes"
	"github.com/mathieufitzgerald/matchain/wire"
)

// genesisRecipientPreimage is the literal whose digest receives the genesis
// coinbase output.
const genesisRecipientPreimage = "genesis-pubkey"

// maxHalvings is the number of subsidy halvings after which the block subsidy
// is permanently zero.
const maxHalvings = 64

// AuthChecker validates an input's authenticator against the unspent output
// it spends. The default checker accepts everything: the authenticator is an
// opaque placeholder for a signature, carried but not interpreted. A real
// verifier can be plugged in without altering the acceptance protocol.
type AuthChecker func(txIn *wire.TxIn, entry *UTXOEntry) error

// BlockAcceptedListener is fired, without the chain lock held, for every
// block accepted to the chain except genesis.
type BlockAcceptedListener func(block *wire.MsgBlock)

// Config is a descriptor which specifies the blockchain instance
// configuration.
type Config struct {
	// Params identifies the network parameters the chain is associated
	// with. This field is required.
	Params *chaincfg.Params

	// TimeSource defines the time source to use for new block headers.
	// The caller can leave this nil, in which case the system clock is
	// used.
	TimeSource TimeSource

	// AuthChecker defines the checker applied to every non-coinbase input's
	// authenticator. The caller can leave this nil, in which case every
	// authenticator is accepted.
	AuthChecker AuthChecker
}

// BlockChain provides functions for working with the matchain block chain:
// accepting new blocks to the single best chain, assembling candidate blocks
// for miners, and answering queries against the unspent-output set. It is the
// only owner of the chain and the UTXO set; every mutation happens on the
// block connect path while the chain lock is held, so concurrent miner and
// network submissions serialize and at most one of two blocks racing for the
// same parent is accepted.
type BlockChain struct {
	// chainLock protects the chain and the UTXO set below. It is
	// deliberately a plain mutex rather than a reader-writer lock: block
	// cadence is low and readers need the fully settled post-block state.
	chainLock sync.Mutex
	blocks    []*wire.MsgBlock
	utxoSet   *UTXOSet

	params      *chaincfg.Params
	timeSource  TimeSource
	authChecker AuthChecker

	listenerLock           sync.Mutex
	blockAcceptedListeners []BlockAcceptedListener
}

// New returns a BlockChain instance using the provided configuration details
// with the genesis block already connected.
func New(config *Config) (*BlockChain, error) {
	if config.Params == nil {
		return nil, errors.New("blockchain.New chain parameters nil")
	}
	timeSource := config.TimeSource
	if timeSource == nil {
		timeSource = NewSystemTimeSource()
	}
	authChecker := config.AuthChecker
	if authChecker == nil {
		authChecker = func(_ *wire.TxIn, _ *UTXOEntry) error { return nil }
	}

	b := &BlockChain{
		params:      config.Params,
		timeSource:  timeSource,
		authChecker: authChecker,
		utxoSet:     NewUTXOSet(),
	}

	// The genesis block is accepted unconditionally: it does not need to
	// satisfy the proof-of-work predicate.
	genesis := b.createGenesisBlock()
	coinbase := genesis.Transactions[0]
	coinbaseTxID := coinbase.TxID()
	for i, txOut := range coinbase.TxOut {
		outpoint := *wire.NewOutpoint(&coinbaseTxID, uint32(i))
		if err := b.utxoSet.add(outpoint, NewUTXOEntry(txOut)); err != nil {
			return nil, err
		}
	}
	b.blocks = append(b.blocks, genesis)

	log.Infof("Chain initialized with genesis block %s", genesis.BlockHash())
	return b, nil
}

// createGenesisBlock assembles the height-0 block: a single coinbase whose
// input authenticator carries the configured genesis message and whose sole
// output pays the initial subsidy to the digest of the genesis recipient
// literal.
func (b *BlockChain) createGenesisBlock() *wire.MsgBlock {
	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.AddTxIn(wire.NewTxIn(
		wire.NewOutpoint(&hashes.ZeroTxID, 0),
		[]byte(b.params.GenesisMessage),
	))
	coinbase.AddTxOut(wire.NewTxOut(
		b.params.BlockReward*util.SatoshiPerCoin,
		hashes.HashData([]byte(genesisRecipientPreimage)),
	))

	header := wire.NewBlockHeader(wire.BlockVersion, &hashes.ZeroHash, &hashes.ZeroHash,
		uint64(b.timeSource.Now().Unix()), b.params.DifficultyBits, 0)
	block := wire.NewMsgBlock(header)
	block.AddTransaction(coinbase)
	BuildBlockMerkleRoot(block)
	return block
}

// Params returns the network parameters the chain was configured with.
func (b *BlockChain) Params() *chaincfg.Params {
	return b.params
}

// TipHash returns the hash of the block at the tip of the chain.
func (b *BlockChain) TipHash() hashes.Hash {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()
	return b.tipHash()
}

func (b *BlockChain) tip() *wire.MsgBlock {
	return b.blocks[len(b.blocks)-1]
}

func (b *BlockChain) tipHash() hashes.Hash {
	return b.tip().BlockHash()
}

// Height returns the height of the block at the tip of the chain.
func (b *BlockChain) Height() uint64 {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()
	return uint64(len(b.blocks) - 1)
}

// BlockCount returns the number of blocks in the chain, genesis included.
func (b *BlockChain) BlockCount() uint64 {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()
	return uint64(len(b.blocks))
}

// BlockByHeight returns the block at the given height, or nil when the height
// is past the tip.
func (b *BlockChain) BlockByHeight(height uint64) *wire.MsgBlock {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()
	if height >= uint64(len(b.blocks)) {
		return nil
	}
	return b.blocks[height]
}

// Blocks returns a snapshot of the chain from genesis to the tip. The
// returned slice is a copy; the blocks it points to are shared and must not
// be mutated.
func (b *BlockChain) Blocks() []*wire.MsgBlock {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()
	snapshot := make([]*wire.MsgBlock, len(b.blocks))
	copy(snapshot, b.blocks)
	return snapshot
}

// UTXOEntry returns the unspent-output entry for the given outpoint and
// whether it exists.
func (b *BlockChain) UTXOEntry(outpoint wire.Outpoint) (*UTXOEntry, bool) {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()
	return b.utxoSet.Get(outpoint)
}

// UTXOSetSize returns the number of entries in the unspent-output set.
func (b *BlockChain) UTXOSetSize() int {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()
	return b.utxoSet.Len()
}

// Balance sums the unspent outputs locked to the given recipient commitment.
func (b *BlockChain) Balance(recipient hashes.Hash) uint64 {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()
	var balance uint64
	b.utxoSet.ForEach(func(_ wire.Outpoint, entry *UTXOEntry) bool {
		if entry.Recipient() == recipient {
			balance += entry.Amount()
		}
		return true
	})
	return balance
}

// CalcBlockSubsidy returns the subsidy amount, in base units, a block at the
// provided height should have. This is mainly used for determining how much
// the coinbase for newly generated blocks awards as well as validating the
// coinbase for blocks has the expected value.
//
// The subsidy is halved every BlockHalvingInterval blocks. After 64 halvings
// the shift would exhaust a 64-bit amount, so the subsidy is clamped to zero.
func (b *BlockChain) CalcBlockSubsidy(height uint64) uint64 {
	halvings := height / b.params.BlockHalvingInterval
	if halvings >= maxHalvings {
		return 0
	}
	return (b.params.BlockReward >> halvings) * util.SatoshiPerCoin
}

// BuildCandidateBlock assembles a new block extending the current tip, with a
// single coinbase transaction paying the next subsidy to the given recipient
// commitment. The merkle root is left to the caller, which is expected to
// fill it in with BuildBlockMerkleRoot and search the header nonce for a
// solution.
//
// Fee-bearing transactions are not attached: there is no mempool feeding the
// candidate path yet, so fees are always zero. The fee accounting on the
// validation path is kept regardless.
func (b *BlockChain) BuildCandidateBlock(payTo hashes.Hash, coinbaseMessage []byte) *wire.MsgBlock {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.AddTxIn(wire.NewTxIn(wire.NewOutpoint(&hashes.ZeroTxID, 0), coinbaseMessage))
	coinbase.AddTxOut(wire.NewTxOut(b.CalcBlockSubsidy(uint64(len(b.blocks))+1), payTo))

	tipHash := b.tipHash()
	header := wire.NewBlockHeader(wire.BlockVersion, &tipHash, &hashes.ZeroHash,
		uint64(b.timeSource.Now().Unix()), b.params.DifficultyBits, 0)
	block := wire.NewMsgBlock(header)
	block.AddTransaction(coinbase)
	return block
}

// SubscribeBlockAccepted registers the given listener to be called for every
// block accepted to the chain. Listeners are invoked without the chain lock
// held.
func (b *BlockChain) SubscribeBlockAccepted(listener BlockAcceptedListener) {
	b.listenerLock.Lock()
	defer b.listenerLock.Unlock()
	b.blockAcceptedListeners = append(b.blockAcceptedListeners, listener)
}

func (b *BlockChain) notifyBlockAccepted(block *wire.MsgBlock) {
	b.listenerLock.Lock()
	listeners := make([]BlockAcceptedListener, len(b.blockAcceptedListeners))
	copy(listeners, b.blockAcceptedListeners)
	b.listenerLock.Unlock()
	for _, listener := range listeners {
		listener(block)
	}
}

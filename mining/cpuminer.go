// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mathieufitzgerald/matchain/blockchain"
	"github.com/mathieufitzgerald/matchain/util/hashes"
	"github.com/mathieufitzgerald/matchain/wire"
)

// templateCooldown is how long the miner idles between candidates so it does
// not rebuild templates in a hot loop.
const templateCooldown = time.Second

// Config is a descriptor containing the CPU miner configuration.
type Config struct {
	// BlockTemplateGenerator identifies the instance to use in order to
	// generate block templates that the miner will attempt to solve.
	BlockTemplateGenerator *BlkTmplGenerator

	// Chain is the chain instance solved blocks are submitted to.
	Chain *blockchain.BlockChain

	// MiningCommitment is the recipient commitment coinbase outputs of
	// solved blocks pay to.
	MiningCommitment hashes.Hash
}

// CPUMiner provides facilities for solving blocks using the CPU in a
// concurrency-safe manner. It consists of a single worker goroutine which
// generates block templates and attempts to solve them while detecting when
// it is performing stale work. Stop is cooperative: the worker observes the
// quit channel between candidates and at every nonce step.
type CPUMiner struct {
	sync.Mutex
	cfg     Config
	started bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

// New returns a new instance of a CPU miner for the provided configuration.
// Use Start to begin the mining process.
func New(cfg *Config) *CPUMiner {
	return &CPUMiner{cfg: *cfg}
}

// Start begins the CPU mining process. Calling this function when the CPU
// miner has already been started will have no effect.
func (m *CPUMiner) Start() {
	m.Lock()
	defer m.Unlock()

	if m.started {
		return
	}
	m.quit = make(chan struct{})
	m.wg.Add(1)
	go m.miningWorker()
	m.started = true

	log.Infof("CPU miner started, paying to %s", m.cfg.MiningCommitment)
}

// Stop gracefully stops the mining process. Calling this function when the
// CPU miner has not already been started will have no effect. This function
// blocks until the worker has finished.
func (m *CPUMiner) Stop() {
	m.Lock()
	defer m.Unlock()

	if !m.started {
		return
	}
	close(m.quit)
	m.wg.Wait()
	m.started = false

	log.Infof("CPU miner stopped")
}

// IsMining returns whether the CPU miner has been started and is currently
// mining.
func (m *CPUMiner) IsMining() bool {
	m.Lock()
	defer m.Unlock()
	return m.started
}

// miningWorker is the main goroutine of the miner. It requests a template,
// searches its nonce space, submits solutions and starts over. A submission
// rejected with ErrStaleParent simply means a peer block won the race; the
// worker moves on to the next template.
func (m *CPUMiner) miningWorker() {
	defer m.wg.Done()

out:
	for {
		select {
		case <-m.quit:
			break out
		default:
		}

		template := m.cfg.BlockTemplateGenerator.NewBlockTemplate(m.cfg.MiningCommitment)
		if m.solveBlock(template) {
			m.submitBlock(template)
		}

		select {
		case <-m.quit:
			break out
		case <-time.After(templateCooldown):
		}
	}
}

// solveBlock attempts to find a nonce which makes the passed block header
// satisfy the proof-of-work predicate. It returns true when a solution was
// found and false when the miner was stopped mid-search.
func (m *CPUMiner) solveBlock(block *wire.MsgBlock) bool {
	for {
		select {
		case <-m.quit:
			return false
		default:
		}

		if blockchain.CheckProofOfWork(&block.Header) {
			return true
		}
		block.Header.Nonce++
	}
}

// submitBlock submits the passed block to the chain.
func (m *CPUMiner) submitBlock(block *wire.MsgBlock) {
	err := m.cfg.Chain.ProcessBlock(block)
	if err != nil {
		var ruleErr blockchain.RuleError
		if !errors.As(err, &ruleErr) {
			log.Errorf("Unexpected error while processing block submitted via CPU miner: %+v", err)
			return
		}
		// Losing a race against a block relayed from a peer is the
		// expected rejection here.
		log.Warnf("Block submitted via CPU miner rejected: %v", err)
		return
	}

	log.Infof("Block submitted via CPU miner accepted (hash %s)", block.BlockHash())
}

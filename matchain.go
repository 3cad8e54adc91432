package main

import (
	"sync/atomic"

	"github.com/mathieufitzgerald/matchain/blockchain"
	"github.com/mathieufitzgerald/matchain/config"
	"github.com/mathieufitzgerald/matchain/mempool"
	"github.com/mathieufitzgerald/matchain/mining"
	"github.com/mathieufitzgerald/matchain/p2p"
	"github.com/mathieufitzgerald/matchain/util/panics"
)

// matchain is a wrapper for all the matchain services.
type matchain struct {
	cfg       *config.Config
	chain     *blockchain.BlockChain
	txPool    *mempool.TxPool
	p2pServer *p2p.Server
	cpuMiner  *mining.CPUMiner

	started, shutdown int32
}

// newMatchain returns a new matchain instance with its ledger initialized
// and all services wired but not yet started.
func newMatchain(cfg *config.Config) (*matchain, error) {
	chain, err := blockchain.New(&blockchain.Config{
		Params: cfg.NetParams(),
	})
	if err != nil {
		return nil, err
	}

	txPool := mempool.New(&mempool.Config{Chain: chain})
	p2pServer := p2p.NewServer(cfg, chain, txPool)

	var cpuMiner *mining.CPUMiner
	if cfg.Miner {
		cpuMiner = mining.New(&mining.Config{
			BlockTemplateGenerator: mining.NewBlkTmplGenerator(chain),
			Chain:                  chain,
			MiningCommitment:       cfg.MiningCommitment,
		})
	}

	return &matchain{
		cfg:       cfg,
		chain:     chain,
		txPool:    txPool,
		p2pServer: p2pServer,
		cpuMiner:  cpuMiner,
	}, nil
}

// start launches all the matchain services.
func (s *matchain) start() {
	// Already started?
	if atomic.AddInt32(&s.started, 1) != 1 {
		return
	}

	if s.cfg.Seed {
		log.Infof("Starting as a seed node")
	}

	err := s.p2pServer.Start()
	if err != nil {
		panics.Exit(log, "Error starting the p2p server: "+err.Error())
	}

	if s.cpuMiner != nil {
		s.cpuMiner.Start()
	}
}

// stop gracefully shuts down all the matchain services.
func (s *matchain) stop() {
	// Make sure this only happens once.
	if atomic.AddInt32(&s.shutdown, 1) != 1 {
		log.Infof("Matchain is already in the process of shutting down")
		return
	}

	if s.cpuMiner != nil {
		s.cpuMiner.Stop()
	}
	s.p2pServer.Stop()
}

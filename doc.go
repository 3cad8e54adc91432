// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Matchain is a minimal proof-of-work full node.

It maintains a single best chain of blocks carrying UTXO-model transactions,
relays blocks and transactions between peers over TCP, and can optionally run
a CPU mining driver. Chain and unspent-output state are kept in memory; there
is no persistence across restarts and no chain reorganization.

Usage:

	matchain [--seed] [--miner] [--wallet] [options]

With no mode flag the process runs as a full node. --seed runs the same full
node acting as a bootstrap peer, --miner additionally starts the CPU miner,
and --wallet defers to the external wallet application.
*/
package main

// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import "time"

// Params defines a matchain network by its parameters. These parameters may be
// used by applications to differentiate networks as well as address and key
// formats.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort uint16

	// BlockReward is the initial block subsidy in whole coins.
	BlockReward uint64

	// BlockHalvingInterval is the number of blocks between subsidy halvings.
	BlockHalvingInterval uint64

	// TargetTimePerBlock is the desired amount of time between blocks. It is
	// advisory: the difficulty is static, so it is not enforced.
	TargetTimePerBlock time.Duration

	// GenesisMessage is embedded in the genesis coinbase authenticator.
	GenesisMessage string

	// DifficultyBits is the compact difficulty recorded in every block
	// header. It is carried in the header serialization but the proof-of-work
	// predicate does not currently interpret it.
	DifficultyBits uint32
}

// MainNetParams defines the network parameters for the main matchain network.
var MainNetParams = Params{
	Name:                 "mainnet",
	DefaultPort:          8333,
	BlockReward:          50,
	BlockHalvingInterval: 210000,
	TargetTimePerBlock:   time.Second * 600,
	GenesisMessage:       "Hello from Genesis!",
	DifficultyBits:       0x1f00ffff,
}

// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

const (
	// SatoshiPerCoin is the number of base units ("satoshi") in one whole
	// coin.
	SatoshiPerCoin = 100000000
)

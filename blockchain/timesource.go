// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "time"

// TimeSource provides the current time for new block headers. It exists so
// tests can pin block timestamps.
type TimeSource interface {
	// Now returns the current time.
	Now() time.Time
}

// systemTimeSource provides the wall clock.
type systemTimeSource struct{}

func (systemTimeSource) Now() time.Time {
	return time.Now()
}

// NewSystemTimeSource returns a TimeSource backed by the system wall clock.
func NewSystemTimeSource() TimeSource {
	return systemTimeSource{}
}

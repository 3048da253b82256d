// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

// Policy houses the non-consensus configuration knobs that govern
// whether the pool admits and retains an otherwise-valid transaction,
// mirroring the shape of the teacher's mempool.Policy. Neither Pool nor
// the acceptance pipelines in this package read any of these fields:
// Insert and Accept admit a transaction whatever its version, its fee
// rate or the pool's size.
type Policy struct {
	// MaxTxVersion is the highest transaction version accepted.
	MaxTxVersion int32

	// MaxPoolSize is the number of entries above which the pool is due
	// for eviction (spec §3.4 lifecycle). Pool itself does not enforce
	// it.
	MaxPoolSize int

	// MaxOrphanAge bounds how long an entry may sit in the pool without
	// being mined before it becomes eligible for age-based eviction
	// (spec §3.4 lifecycle, cause (b)); this repository does not run
	// the eviction sweep itself, it only exposes the knob a caller's
	// scheduler consults.
	MaxOrphanAge int64

	// MinRelayFeeRate is the minimum fee, in satoshi per byte, a
	// transaction must pay to be admitted.
	MinRelayFeeRate uint64
}

// DefaultPolicy mirrors conservative defaults in the style of the
// teacher's mempool defaults (DefaultMinRelayTxFee and friends).
var DefaultPolicy = Policy{
	MaxTxVersion:    2,
	MaxPoolSize:     100000,
	MaxOrphanAge:    int64(15 * 60),
	MinRelayFeeRate: 1,
}

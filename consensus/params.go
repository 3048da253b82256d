// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package consensus supplies the chain-wide parameters the mempool and
// acceptor pipeline treat as externally given: block size/sigop caps,
// coinbase maturity, subsidy schedule, and the deployment flags that
// gate premature-witness and CSV/segwit checks. Selecting these values
// for a live network is out of scope for this repository; Params is the
// seam a caller plugs a real network's parameters into.
package consensus

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// CoinbaseMaturity is the number of blocks that must pass before a
// coinbase output becomes spendable. Fixed by spec, not a per-network
// tunable.
const CoinbaseMaturity = 100

// ForkID identifies a chain fork for the purposes of the acceptor's
// replay-protection hook (spec.md §4.4.1 ReplayProtection). The reference
// behavior treats every fork as a no-op; see DESIGN.md for the rationale.
type ForkID int

// Known fork identifiers.
const (
	ForkNone ForkID = iota
)

// DeploymentFlags reports which soft-fork deployments are active at a
// given height/time, as consulted by the acceptor when building
// script.VerificationFlags and when deciding whether witness data is
// premature.
type DeploymentFlags struct {
	SegwitActive bool
	CSVActive    bool
}

// Params defines a network's consensus parameters. Only the fields this
// core actually consults are modeled; a production caller's Params would
// carry considerably more (genesis block, DNS seeds, checkpoints, ...).
type Params struct {
	Name string

	Fork ForkID

	// SubsidyReductionInterval is the number of blocks between subsidy
	// halvings.
	SubsidyReductionInterval uint32

	// BaseSubsidy is the block reward, in satoshi, before any halving.
	BaseSubsidy uint64

	// BaseMaxBlockSize is the maximum serialized block size in bytes.
	// Exposed through MaxBlockSize so callers with height-dependent
	// policy (e.g. a size-limit activation height) can override it.
	BaseMaxBlockSize uint32
}

// MainNetParams are representative parameters for a Bitcoin-like main
// network. Values mirror the historical Bitcoin constants the teacher's
// dagconfig.MainNetParams used for its own equivalents.
var MainNetParams = Params{
	Name:                     "mainnet",
	Fork:                     ForkNone,
	SubsidyReductionInterval: 210000,
	BaseSubsidy:              50 * 1e8,
	BaseMaxBlockSize:         1000000,
}

// MaxBlockSize returns the maximum serialized block size, in bytes, that
// is valid at the given height. Height-dependent in the general case
// (e.g. a block-size-increase activation); this reference implementation
// is constant across heights.
func (p *Params) MaxBlockSize(height uint32) uint32 {
	return p.BaseMaxBlockSize
}

// MaxBlockSigops returns the maximum number of signature operations
// permitted in a block of the given size at the given height. Follows
// the conventional one-sigop-per-50-bytes budget.
func (p *Params) MaxBlockSigops(height uint32, blockSize uint32) uint32 {
	return blockSize / 50
}

// BlockSubsidy returns the block reward, in satoshi, for a block mined at
// the given height.
func (p *Params) BlockSubsidy(height uint32) uint64 {
	halvings := height / p.SubsidyReductionInterval
	if halvings >= 64 {
		return 0
	}
	return p.BaseSubsidy >> halvings
}

// NullOutpointHash is the all-zero hash half of the null (coinbase)
// outpoint sentinel (spec.md §6.6).
var NullOutpointHash chainhash.Hash

// NullOutpointIndex is the 0xFFFFFFFF index half of the null (coinbase)
// outpoint sentinel.
const NullOutpointIndex = 0xFFFFFFFF

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/btcsuite/btcd/wire"
	"github.com/btcforge/txcore/chainview"
)

// Spender is consulted by DuplexView.IsSpent; both the pool output
// provider and chainview.StorageProvider implement it.
type Spender interface {
	IsSpent(outpoint wire.OutPoint) bool
}

// DuplexView overlays a primary view (the current block in progress, or
// the pool) over a secondary, authoritative chain view (spec §4.3). It
// implements chainview.OutputProvider so it can stand in anywhere a
// single output resolver is expected.
type DuplexView struct {
	Primary   chainview.OutputProvider
	Secondary chainview.OutputProvider

	// PrimarySpent and SecondarySpent back IsSpent; typically the same
	// concrete values as Primary/Secondary when those also implement
	// Spender (e.g. PoolOutputProvider, chainview.StorageProvider).
	PrimarySpent   Spender
	SecondarySpent Spender

	// BoundTxIndex, when non-negative, restricts Output's Secondary
	// lookup to transactions ordered strictly before it within the
	// same block, preserving in-block topological ordering during
	// block-level acceptance (spec §4.3).
	BoundTxIndex int
}

// NewDuplexView builds a duplex view with BoundTxIndex defaulted to -1
// (unbounded), the setting appropriate outside of block-level
// acceptance.
func NewDuplexView(primary, secondary chainview.OutputProvider) *DuplexView {
	return &DuplexView{
		Primary:      primary,
		Secondary:    secondary,
		BoundTxIndex: -1,
	}
}

// Output queries Primary first, falling back to Secondary on a miss.
func (d *DuplexView) Output(outpoint wire.OutPoint) (*wire.TxOut, bool) {
	if out, ok := d.Primary.Output(outpoint); ok {
		return out, true
	}
	if boundedSecondary, ok := d.Secondary.(interface {
		TransactionOutput(wire.OutPoint, int) (*wire.TxOut, bool)
	}); ok {
		return boundedSecondary.TransactionOutput(outpoint, d.BoundTxIndex)
	}
	return d.Secondary.Output(outpoint)
}

// IsSpent reports outpoint as spent if either the primary or the
// secondary view considers it so.
func (d *DuplexView) IsSpent(outpoint wire.OutPoint) bool {
	if d.PrimarySpent != nil && d.PrimarySpent.IsSpent(outpoint) {
		return true
	}
	if d.SecondarySpent != nil && d.SecondarySpent.IsSpent(outpoint) {
		return true
	}
	return false
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import "github.com/btcsuite/btcd/wire"

// PoolOutputProvider answers output(outpoint) queries against a pool: it
// consults the entry whose hash matches outpoint.Hash and returns its
// output at outpoint.Index, but only if that outpoint has not itself
// been claimed (spent) by some other pool entry (spec §4.3).
type PoolOutputProvider struct {
	Pool *Pool
}

// Output implements chainview.OutputProvider.
func (p PoolOutputProvider) Output(outpoint wire.OutPoint) (*wire.TxOut, bool) {
	p.Pool.mtx.RLock()
	defer p.Pool.mtx.RUnlock()

	if _, spent := p.Pool.hashedOutpoints[outpoint]; spent {
		return nil, false
	}

	entry, ok := p.Pool.byHash[outpoint.Hash]
	if !ok {
		return nil, false
	}
	txOut := entry.Tx.MsgTx().TxOut
	if int(outpoint.Index) >= len(txOut) {
		return nil, false
	}
	return txOut[outpoint.Index], true
}

// IsSpent reports whether outpoint has been claimed as an input by some
// pool entry.
func (p PoolOutputProvider) IsSpent(outpoint wire.OutPoint) bool {
	p.Pool.mtx.RLock()
	defer p.Pool.mtx.RUnlock()
	_, spent := p.Pool.hashedOutpoints[outpoint]
	return spent
}

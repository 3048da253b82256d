// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/btcforge/txcore/chainview"
	"github.com/btcforge/txcore/consensus"
)

// Config wires a Pool's acceptance pipeline to its collaborators: the
// storage provider and consensus parameters, mirroring the shape of the
// teacher's mempool.Config. Policy is carried alongside but is not read
// by NewAcceptanceContext.
type Config struct {
	Policy Policy
	Chain  chainview.StorageProvider
	Params *consensus.Params
}

// NewAcceptanceContext builds the AcceptanceContext used to run either
// pipeline at the pool's current state: Primary is the pool output
// provider, Secondary is the chain storage provider, deployment is used
// as given, and SigopLimit is the per-block sigop budget at height.
func (cfg Config) NewAcceptanceContext(pool *Pool, height uint32, deployment consensus.DeploymentFlags, level VerificationLevel) *AcceptanceContext {
	views := NewDuplexView(PoolOutputProvider{Pool: pool}, outputProviderAdapter{cfg.Chain})
	views.PrimarySpent = PoolOutputProvider{Pool: pool}
	views.SecondarySpent = cfg.Chain

	return &AcceptanceContext{
		Views:      views,
		Chain:      cfg.Chain,
		Height:     height,
		Params:     cfg.Params,
		Deployment: deployment,
		Level:      level,
		SigopLimit: sigopLimitFor(cfg.Params, height),
	}
}

func sigopLimitFor(params *consensus.Params, height uint32) int64 {
	if params == nil {
		return 0
	}
	return int64(params.MaxBlockSigops(height, params.MaxBlockSize(height)))
}

// outputProviderAdapter narrows a chainview.StorageProvider down to
// chainview.OutputProvider for use as a DuplexView's Secondary, using an
// unbounded lookup (bound_tx_index = -1).
type outputProviderAdapter struct {
	chain chainview.StorageProvider
}

func (a outputProviderAdapter) Output(outpoint wire.OutPoint) (*wire.TxOut, bool) {
	return a.chain.TransactionOutput(outpoint, -1)
}

// TransactionOutput forwards to the wrapped chain, preserving the
// bound_tx_index parameter DuplexView.Output looks for via a type
// assertion before falling back to the unbounded Output above.
func (a outputProviderAdapter) TransactionOutput(outpoint wire.OutPoint, boundTxIndex int) (*wire.TxOut, bool) {
	return a.chain.TransactionOutput(outpoint, boundTxIndex)
}

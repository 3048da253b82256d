// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainview defines the storage-provider contract the mempool
// and acceptor consult for confirmed-chain state (spec.md §6.1). Actual
// on-disk persistence is out of scope for this repository; this package
// only shapes the interface and the lightweight value types (UTXOEntry,
// TransactionMeta) a concrete storage provider returns.
package chainview

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// TransactionMeta describes what the storage provider knows about a
// confirmed transaction, independent of which of its outputs are being
// asked about.
type TransactionMeta struct {
	Height       uint32
	IsCoinbase   bool
	OutputsSpent []bool
}

// BestBlockInfo identifies the chain tip.
type BestBlockInfo struct {
	Hash   chainhash.Hash
	Number uint32
}

// StorageProvider is the external collaborator offering transaction and
// UTXO lookups against confirmed chain state (spec.md §6.1). A full node
// implements it against its on-disk block/UTXO index; this repository
// consumes it only through this interface.
type StorageProvider interface {
	// TransactionMeta returns metadata for a confirmed transaction, or
	// ok=false if the hash is unknown to the chain.
	TransactionMeta(txHash *chainhash.Hash) (meta TransactionMeta, ok bool)

	// TransactionOutput resolves a single output of a confirmed
	// transaction. boundTxIndex, when non-negative, restricts the
	// lookup to transactions ordered strictly before it within the
	// same block, preserving in-block topological ordering during
	// block-level acceptance (spec.md §4.3).
	TransactionOutput(outpoint wire.OutPoint, boundTxIndex int) (out *wire.TxOut, ok bool)

	// IsSpent reports whether outpoint has already been spent by a
	// confirmed transaction.
	IsSpent(outpoint wire.OutPoint) bool

	// BestBlock returns the current chain tip.
	BestBlock() BestBlockInfo

	// TransactionsWithOutputAddress returns outpoints of confirmed
	// outputs paying to scriptHash. Used by wallet-adjacent callers,
	// not by the acceptance pipeline itself.
	TransactionsWithOutputAddress(scriptHash []byte) []wire.OutPoint
}

// OutputProvider is the narrower contract the fee calculator and the
// pool/duplex output providers actually need: resolve a single output by
// outpoint (spec.md §4.1, §4.3).
type OutputProvider interface {
	Output(outpoint wire.OutPoint) (out *wire.TxOut, ok bool)
}

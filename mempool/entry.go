// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"container/list"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Entry houses a transaction accepted into the pool along with the
// bookkeeping the pool keeps alongside it: its own fee and size, and the
// rolled-up fee/size of its package (itself plus every in-pool descendant).
// Entries are owned by the pool; an arena keyed by hash backs the three
// ordering indices, which hold only keys (hash plus sort key), never
// copies of the transaction itself (design note, §9).
type Entry struct {
	Tx            *btcutil.Tx
	Hash          chainhash.Hash
	SizeBytes     int64
	SigopCount    int64
	Fee           uint64
	FeeRate       uint64
	TimeInserted  time.Time

	// AncestorSet and DescendantSet are transitively closed over the
	// in-pool reference graph (invariant 2, spec §3.3).
	AncestorSet   map[chainhash.Hash]struct{}
	DescendantSet map[chainhash.Hash]struct{}

	// PackageFee and PackageSize roll up this entry plus every hash in
	// DescendantSet; PackageFeeRate is PackageFee/PackageSize.
	PackageFee     uint64
	PackageSize    int64
	PackageFeeRate uint64

	// timestampElem backs removal from the ByTimestamp index in O(1).
	timestampElem *list.Element

	// feeRateIndex is the position of this entry in the ByFeeRate heap,
	// maintained by that index so repositioning after a package update
	// costs O(log n) instead of a linear scan.
	feeRateIndex int
}

func newEntry(tx *btcutil.Tx, fee uint64, sizeBytes, sigopCount int64, now time.Time) *Entry {
	feeRate := uint64(0)
	if sizeBytes > 0 {
		feeRate = fee / uint64(sizeBytes)
	}
	e := &Entry{
		Tx:            tx,
		Hash:          *tx.Hash(),
		SizeBytes:     sizeBytes,
		SigopCount:    sigopCount,
		Fee:           fee,
		FeeRate:       feeRate,
		TimeInserted:  now,
		AncestorSet:   make(map[chainhash.Hash]struct{}),
		DescendantSet: make(map[chainhash.Hash]struct{}),
	}
	e.PackageFee = fee
	e.PackageSize = sizeBytes
	e.packageRecalc()
	return e
}

func (e *Entry) packageRecalc() {
	if e.PackageSize > 0 {
		e.PackageFeeRate = e.PackageFee / uint64(e.PackageSize)
	} else {
		e.PackageFeeRate = 0
	}
}

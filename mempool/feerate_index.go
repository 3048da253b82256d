// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import "container/heap"

// feeRateIndex orders pool entries by descending package fee rate,
// tie-broken by ascending hash (spec §3.2: "ByFeeRate (descending
// package-fee-rate, tie-broken by ascending hash)"). It is a
// container/heap.Interface implementation in the style of
// mining.txPriorityQueue, extended with a position recorded on each
// Entry so that a package-fee update can reposition a single entry with
// heap.Fix in O(log n) instead of a linear rescan of the whole index.
type feeRateIndex struct {
	entries []*Entry
}

func newFeeRateIndex() *feeRateIndex {
	fi := &feeRateIndex{}
	heap.Init(fi)
	return fi
}

func (fi *feeRateIndex) Len() int { return len(fi.entries) }

func (fi *feeRateIndex) Less(i, j int) bool {
	a, b := fi.entries[i], fi.entries[j]
	if a.PackageFeeRate != b.PackageFeeRate {
		return a.PackageFeeRate > b.PackageFeeRate
	}
	return lessHash(a.Hash, b.Hash)
}

func (fi *feeRateIndex) Swap(i, j int) {
	fi.entries[i], fi.entries[j] = fi.entries[j], fi.entries[i]
	fi.entries[i].feeRateIndex = i
	fi.entries[j].feeRateIndex = j
}

func (fi *feeRateIndex) Push(x interface{}) {
	e := x.(*Entry)
	e.feeRateIndex = len(fi.entries)
	fi.entries = append(fi.entries, e)
}

func (fi *feeRateIndex) Pop() interface{} {
	old := fi.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	fi.entries = old[:n-1]
	e.feeRateIndex = -1
	return e
}

func (fi *feeRateIndex) insert(e *Entry) {
	heap.Push(fi, e)
}

func (fi *feeRateIndex) remove(e *Entry) {
	if e.feeRateIndex < 0 || e.feeRateIndex >= len(fi.entries) || fi.entries[e.feeRateIndex] != e {
		return
	}
	heap.Remove(fi, e.feeRateIndex)
}

// reposition re-establishes the heap property for e after its fee rate
// has changed in place (e.g. a package fee rollup).
func (fi *feeRateIndex) reposition(e *Entry) {
	if e.feeRateIndex < 0 || e.feeRateIndex >= len(fi.entries) {
		return
	}
	heap.Fix(fi, e.feeRateIndex)
}

// lessHash provides the ascending-hash tie-break shared by the ordering
// indices.
func lessHash(a, b [32]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

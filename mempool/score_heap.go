// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

// packageScoreHeap is a container/heap.Interface ordering ready entries
// by descending package fee rate, preferring entries with more
// descendants on a tie, then ascending hash. It backs the
// ByTransactionScore selection in packageOrderedLocked; unlike
// feeRateIndex it is rebuilt per call rather than kept live, so it does
// not need a position field on Entry.
type packageScoreHeap []*Entry

func (h packageScoreHeap) Len() int { return len(h) }

func (h packageScoreHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.PackageFeeRate != b.PackageFeeRate {
		return a.PackageFeeRate > b.PackageFeeRate
	}
	if len(a.DescendantSet) != len(b.DescendantSet) {
		return len(a.DescendantSet) > len(b.DescendantSet)
	}
	return lessHash(a.Hash, b.Hash)
}

func (h packageScoreHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *packageScoreHeap) Push(x interface{}) {
	*h = append(*h, x.(*Entry))
}

func (h *packageScoreHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool implements the in-process store of unconfirmed
// transactions (spec.md §4.2), the fee calculator (§4.1), the
// pool-backed and duplex output providers (§4.3), and the transaction
// acceptance verdict pipeline (§4.4).
package mempool

import (
	"container/heap"
	"container/list"
	"sort"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// OrderingStrategy selects the iteration order used by Iter and
// DrainAsVec (spec §4.2).
type OrderingStrategy int

const (
	// ByTimestamp iterates in ascending insertion order.
	ByTimestamp OrderingStrategy = iota

	// ByFeeRate iterates by descending package fee rate, tie-broken by
	// ascending hash (spec §3.2).
	ByFeeRate

	// ByTransactionScore iterates by package fee rate, descending, with
	// parents always preceding their in-pool descendants.
	ByTransactionScore
)

// Information summarizes the pool's current contents (spec §6.4), plus a
// coarse histogram of each entry's own fee rate: bucket i
// counts entries whose fee rate falls in [FeeRateBuckets[i],
// FeeRateBuckets[i+1]) (or [FeeRateBuckets[last], +inf) for the final
// bucket).
type Information struct {
	Count     int
	TotalSize int64
	TotalFee  uint64

	FeeRateHistogram []int
}

// FeeRateBuckets are the histogram boundaries (satoshi per byte) used by
// Information's FeeRateHistogram.
var FeeRateBuckets = []uint64{0, 1, 2, 5, 10, 20, 50, 100}

// Pool is the memory pool store described by spec.md §4.2: an arena of
// Entry values keyed by hash, a hashed-outpoint index for O(1)
// double-spend detection, a parent/child reference graph, and three
// parallel ordering indices. It is guarded by a reader/writer lock:
// every read-only accessor takes the read lock, insert/remove take the
// write lock (§5).
type Pool struct {
	mtx sync.RWMutex

	byHash          map[chainhash.Hash]*Entry
	byTimestamp     *list.List
	byFeeRate       *feeRateIndex
	hashedOutpoints map[wire.OutPoint]chainhash.Hash
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{
		byHash:          make(map[chainhash.Hash]*Entry),
		byTimestamp:     list.New(),
		byFeeRate:       newFeeRateIndex(),
		hashedOutpoints: make(map[wire.OutPoint]chainhash.Hash),
	}
}

// DoubleSpendVerdict is the result of CheckDoubleSpend.
type DoubleSpendVerdict int

const (
	// NoDoubleSpend means none of tx's inputs conflict with a pool entry.
	NoDoubleSpend DoubleSpendVerdict = iota

	// DoubleSpendFinal means at least one conflicting entry has the
	// contested input marked final (sequence == 0xFFFFFFFF).
	DoubleSpendFinal

	// NonFinalDoubleSpend means every conflicting entry has the
	// contested input marked replaceable (sequence != 0xFFFFFFFF).
	NonFinalDoubleSpend
)

// CheckDoubleSpend classifies tx against the pool's current outpoint
// claims without mutating anything (spec §4.2 "replacement rule").
func (p *Pool) CheckDoubleSpend(tx *wire.MsgTx) (DoubleSpendVerdict, []chainhash.Hash) {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	return p.checkDoubleSpendLocked(tx)
}

func (p *Pool) checkDoubleSpendLocked(tx *wire.MsgTx) (DoubleSpendVerdict, []chainhash.Hash) {
	seen := make(map[chainhash.Hash]struct{})
	var conflicts []chainhash.Hash
	allNonFinal := true

	for _, txIn := range tx.TxIn {
		conflictHash, claimed := p.hashedOutpoints[txIn.PreviousOutPoint]
		if !claimed {
			continue
		}
		if _, already := seen[conflictHash]; !already {
			seen[conflictHash] = struct{}{}
			conflicts = append(conflicts, conflictHash)
		}

		conflictEntry := p.byHash[conflictHash]
		if conflictEntry == nil {
			continue
		}
		if conflictingInputIsFinal(conflictEntry.Tx.MsgTx(), txIn.PreviousOutPoint) {
			allNonFinal = false
		}
	}

	if len(conflicts) == 0 {
		return NoDoubleSpend, nil
	}
	if allNonFinal {
		return NonFinalDoubleSpend, conflicts
	}
	return DoubleSpendFinal, conflicts
}

func conflictingInputIsFinal(tx *wire.MsgTx, prevOut wire.OutPoint) bool {
	for _, txIn := range tx.TxIn {
		if txIn.PreviousOutPoint == prevOut {
			return txIn.Sequence == wire.MaxTxInSequenceNum
		}
	}
	return true
}

// Insert adds tx to the pool as a new Entry with the supplied fee, size
// and sigop count (already computed by the acceptor), wiring the
// ancestor/descendant graph and all three ordering indices (spec §4.2
// "Insertion algorithm"). It returns a RuleError carrying ErrDoubleSpend
// or ErrNonFinalDoubleSpend if tx's inputs conflict with an existing
// entry; the caller decides whether to replace via RemoveByHash then
// Insert.
func (p *Pool) Insert(tx *btcutil.Tx, fee uint64, sizeBytes, sigopCount int64) (*Entry, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	msgTx := tx.MsgTx()
	verdict, conflicts := p.checkDoubleSpendLocked(msgTx)
	switch verdict {
	case NonFinalDoubleSpend:
		return nil, conflictRuleError(ErrNonFinalDoubleSpend, conflicts)
	case DoubleSpendFinal:
		return nil, conflictRuleError(ErrDoubleSpend, conflicts)
	}

	entry := p.insertLocked(tx, fee, sizeBytes, sigopCount)
	log.Debugf("Accepted transaction %s (pool size %d, fee rate %d)",
		entry.Hash, len(p.byHash), entry.FeeRate)
	return entry, nil
}

// insertLocked wires a freshly built Entry into the ancestor/descendant
// graph and all three ordering indices. Callers must already hold the
// write lock and must already have resolved any double-spend conflict
// (by rejecting it, as Insert does, or by removing it first, as
// ReplaceConflicting does).
func (p *Pool) insertLocked(tx *btcutil.Tx, fee uint64, sizeBytes, sigopCount int64) *Entry {
	msgTx := tx.MsgTx()
	entry := newEntry(tx, fee, sizeBytes, sigopCount, time.Now())

	ancestors := make(map[chainhash.Hash]struct{})
	for _, txIn := range msgTx.TxIn {
		parentHash := txIn.PreviousOutPoint.Hash
		parent, ok := p.byHash[parentHash]
		if !ok {
			continue
		}
		ancestors[parentHash] = struct{}{}
		for a := range parent.AncestorSet {
			ancestors[a] = struct{}{}
		}
	}
	entry.AncestorSet = ancestors

	p.byHash[entry.Hash] = entry
	entry.timestampElem = p.byTimestamp.PushBack(entry)
	p.byFeeRate.insert(entry)

	for ancestorHash := range ancestors {
		ancestor, ok := p.byHash[ancestorHash]
		if !ok {
			continue
		}
		ancestor.DescendantSet[entry.Hash] = struct{}{}
		ancestor.PackageFee += fee
		ancestor.PackageSize += sizeBytes
		ancestor.packageRecalc()
		p.byFeeRate.reposition(ancestor)
	}

	for _, txIn := range msgTx.TxIn {
		p.hashedOutpoints[txIn.PreviousOutPoint] = entry.Hash
	}

	return entry
}

// RemoveByHash removes the entry identified by hash and every entry in
// its descendant set, in child-before-ancestor order, subtracting the
// removed fee/size from every remaining ancestor's package rollup (spec
// §4.2 "Removal algorithm"). It returns the removed root entry, or nil
// if hash was not present.
func (p *Pool) RemoveByHash(hash chainhash.Hash) *Entry {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.removeByHashLocked(hash)
}

func (p *Pool) removeByHashLocked(hash chainhash.Hash) *Entry {
	root, ok := p.byHash[hash]
	if !ok {
		return nil
	}

	victims := p.topologicalVictimsLocked(root)

	for _, victim := range victims {
		for ancestorHash := range victim.AncestorSet {
			if _, removedAlready := victimsContain(victims, ancestorHash); removedAlready {
				continue
			}
			ancestor, ok := p.byHash[ancestorHash]
			if !ok {
				continue
			}
			delete(ancestor.DescendantSet, victim.Hash)
			ancestor.PackageFee -= victim.Fee
			ancestor.PackageSize -= victim.SizeBytes
			ancestor.packageRecalc()
			p.byFeeRate.reposition(ancestor)
		}

		delete(p.byHash, victim.Hash)
		p.byTimestamp.Remove(victim.timestampElem)
		p.byFeeRate.remove(victim)

		for _, txIn := range victim.Tx.MsgTx().TxIn {
			if claimant, ok := p.hashedOutpoints[txIn.PreviousOutPoint]; ok && claimant == victim.Hash {
				delete(p.hashedOutpoints, txIn.PreviousOutPoint)
			}
		}
	}

	return root
}

func victimsContain(victims []*Entry, hash chainhash.Hash) (*Entry, bool) {
	for _, v := range victims {
		if v.Hash == hash {
			return v, true
		}
	}
	return nil, false
}

// topologicalVictimsLocked returns root's descendant closure with
// children strictly preceding their ancestors, so that by the time an
// entry is processed for removal every one of its own descendants has
// already been unwound.
func (p *Pool) topologicalVictimsLocked(root *Entry) []*Entry {
	order := make([]*Entry, 0, len(root.DescendantSet)+1)
	visited := make(map[chainhash.Hash]struct{})

	var visit func(e *Entry)
	visit = func(e *Entry) {
		if _, ok := visited[e.Hash]; ok {
			return
		}
		visited[e.Hash] = struct{}{}
		for descHash := range e.DescendantSet {
			if desc, ok := p.byHash[descHash]; ok {
				visit(desc)
			}
		}
		order = append(order, e)
	}
	visit(root)
	return order
}

// ReplaceConflicting performs the replace sequence spec.md §4.2 leaves to
// the caller ("remove_by_hash then insert") atomically under one
// write-lock acquisition: every entry CheckDoubleSpend would report as a
// conflict is removed (along with its descendants), then tx is inserted.
// Callers still decide whether replacement is warranted at all — this
// only composes the two already-safe primitives, it does not itself
// apply a replace-by-fee policy (e.g. requiring a higher absolute fee).
func (p *Pool) ReplaceConflicting(tx *btcutil.Tx, fee uint64, sizeBytes, sigopCount int64) (*Entry, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	msgTx := tx.MsgTx()
	_, conflicts := p.checkDoubleSpendLocked(msgTx)
	for _, conflictHash := range conflicts {
		p.removeByHashLocked(conflictHash)
	}

	entry := p.insertLocked(tx, fee, sizeBytes, sigopCount)
	log.Debugf("Replaced conflicting transaction(s) with %s (pool size %d, fee rate %d)",
		entry.Hash, len(p.byHash), entry.FeeRate)

	return entry, nil
}

// RemoveByPrevout removes whichever entry claims outpoint, and its
// descendants, if any.
func (p *Pool) RemoveByPrevout(outpoint wire.OutPoint) *Entry {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	hash, ok := p.hashedOutpoints[outpoint]
	if !ok {
		return nil
	}
	return p.removeByHashLocked(hash)
}

// ReadByHash returns the entry for hash, if present.
func (p *Pool) ReadByHash(hash chainhash.Hash) (*Entry, bool) {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	e, ok := p.byHash[hash]
	return e, ok
}

// HaveTransaction reports whether hash is currently in the pool.
func (p *Pool) HaveTransaction(hash chainhash.Hash) bool {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	_, ok := p.byHash[hash]
	return ok
}

// Information returns pool-wide counters (spec §6.4).
func (p *Pool) Information() Information {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	info := Information{
		Count:            len(p.byHash),
		FeeRateHistogram: make([]int, len(FeeRateBuckets)),
	}
	for _, e := range p.byHash {
		info.TotalSize += e.SizeBytes
		info.TotalFee += e.Fee
		info.FeeRateHistogram[feeRateBucket(e.FeeRate)]++
	}
	return info
}

// feeRateBucket returns the index into FeeRateBuckets that feeRate falls
// into, per Information's FeeRateHistogram convention.
func feeRateBucket(feeRate uint64) int {
	bucket := 0
	for i, boundary := range FeeRateBuckets {
		if feeRate >= boundary {
			bucket = i
		}
	}
	return bucket
}

// Iter returns every entry in the pool ordered by strategy. The
// returned slice is a snapshot; mutating the pool afterwards does not
// affect it.
func (p *Pool) Iter(strategy OrderingStrategy) []*Entry {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	return p.orderedLocked(strategy)
}

// DrainAsVec returns up to limit entries ordered by strategy. For
// ByTransactionScore and ByTimestamp the result is a topologically valid
// prefix: a parent is never preceded by a child. ByFeeRate is a plain
// sort by package fee rate and does not reorder for ancestry, so a child
// can precede its parent. limit <= 0 means no limit.
func (p *Pool) DrainAsVec(limit int, strategy OrderingStrategy) []*Entry {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	if strategy == ByTransactionScore {
		return p.packageOrderedLocked(limit)
	}

	ordered := p.orderedLocked(strategy)
	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}
	return ordered
}

// packageOrderedLocked implements ByTransactionScore: a greedy
// best-package-first selection that only ever makes an entry a
// candidate once every one of its in-pool ancestors has already been
// selected, so the result is topologically valid by construction
// rather than by sorting package_fee_rate and hoping ancestors land
// first (spec §4.2, invariant 6).
func (p *Pool) packageOrderedLocked(limit int) []*Entry {
	included := make(map[chainhash.Hash]struct{}, len(p.byHash))
	queued := make(map[chainhash.Hash]struct{}, len(p.byHash))

	isReady := func(e *Entry) bool {
		for a := range e.AncestorSet {
			if _, ok := p.byHash[a]; !ok {
				continue
			}
			if _, ok := included[a]; !ok {
				return false
			}
		}
		return true
	}

	ready := make(packageScoreHeap, 0, len(p.byHash))
	for _, e := range p.byHash {
		if isReady(e) {
			ready = append(ready, e)
			queued[e.Hash] = struct{}{}
		}
	}
	heap.Init(&ready)

	result := make([]*Entry, 0, len(p.byHash))
	for ready.Len() > 0 {
		if limit > 0 && len(result) >= limit {
			break
		}
		e := heap.Pop(&ready).(*Entry)
		result = append(result, e)
		included[e.Hash] = struct{}{}

		for descHash := range e.DescendantSet {
			if _, already := queued[descHash]; already {
				continue
			}
			desc, ok := p.byHash[descHash]
			if !ok {
				continue
			}
			if isReady(desc) {
				heap.Push(&ready, desc)
				queued[descHash] = struct{}{}
			}
		}
	}
	return result
}

func (p *Pool) orderedLocked(strategy OrderingStrategy) []*Entry {
	switch strategy {
	case ByTimestamp:
		entries := make([]*Entry, 0, p.byTimestamp.Len())
		for el := p.byTimestamp.Front(); el != nil; el = el.Next() {
			entries = append(entries, el.Value.(*Entry))
		}
		return entries
	case ByFeeRate:
		entries := append([]*Entry(nil), p.byFeeRate.entries...)
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].PackageFeeRate != entries[j].PackageFeeRate {
				return entries[i].PackageFeeRate > entries[j].PackageFeeRate
			}
			return lessHash(entries[i].Hash, entries[j].Hash)
		})
		return entries
	case ByTransactionScore:
		return p.packageOrderedLocked(0)
	default:
		return nil
	}
}

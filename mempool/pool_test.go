// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
)

func TestInsertAndReadByHash(t *testing.T) {
	h := newPoolHarness()
	op := h.spendableOutput(100000)
	tx := spendTx([]wire.OutPoint{op}, 90000)

	entry, err := h.pool.Insert(tx, TransactionFee(h, tx.MsgTx()), int64(tx.MsgTx().SerializeSize()), 0)
	if err != nil {
		t.Fatalf("Insert: unexpected error: %v", err)
	}

	got, ok := h.pool.ReadByHash(entry.Hash)
	if !ok {
		t.Fatalf("ReadByHash: entry not found after insert")
	}
	if got != entry {
		t.Fatalf("ReadByHash: got %s, want %s", spew.Sdump(got), spew.Sdump(entry))
	}
	if !h.pool.HaveTransaction(entry.Hash) {
		t.Fatalf("HaveTransaction: expected true")
	}
}

func TestDoubleSpendFinalRejected(t *testing.T) {
	h := newPoolHarness()
	op := h.spendableOutput(100000)

	tx1 := spendTx([]wire.OutPoint{op}, 90000)
	if _, err := h.pool.Insert(tx1, TransactionFee(h, tx1.MsgTx()), int64(tx1.MsgTx().SerializeSize()), 0); err != nil {
		t.Fatalf("Insert tx1: unexpected error: %v", err)
	}

	tx2 := spendTx([]wire.OutPoint{op}, 80000)
	_, err := h.pool.Insert(tx2, TransactionFee(h, tx2.MsgTx()), int64(tx2.MsgTx().SerializeSize()), 0)
	if err == nil {
		t.Fatalf("Insert tx2: expected double-spend rejection, got nil error")
	}
	if !IsErrorCode(err, ErrDoubleSpend) {
		t.Fatalf("Insert tx2: expected ErrDoubleSpend, got %v", err)
	}
}

func TestNonFinalDoubleSpendClassification(t *testing.T) {
	h := newPoolHarness()
	op := h.spendableOutput(100000)

	tx1 := spendTxWithSequence([]wire.OutPoint{op}, 90000, 0)
	if _, err := h.pool.Insert(tx1, TransactionFee(h, tx1.MsgTx()), int64(tx1.MsgTx().SerializeSize()), 0); err != nil {
		t.Fatalf("Insert tx1: unexpected error: %v", err)
	}

	tx2 := spendTxWithSequence([]wire.OutPoint{op}, 95000, 0)
	verdict, conflicts := h.pool.CheckDoubleSpend(tx2.MsgTx())
	if verdict != NonFinalDoubleSpend {
		t.Fatalf("CheckDoubleSpend: got verdict %v, want NonFinalDoubleSpend", verdict)
	}
	if len(conflicts) != 1 || conflicts[0] != *tx1.Hash() {
		t.Fatalf("CheckDoubleSpend: unexpected conflicts %v", conflicts)
	}

	_, err := h.pool.Insert(tx2, TransactionFee(h, tx2.MsgTx()), int64(tx2.MsgTx().SerializeSize()), 0)
	if !IsErrorCode(err, ErrNonFinalDoubleSpend) {
		t.Fatalf("Insert tx2: expected ErrNonFinalDoubleSpend, got %v", err)
	}
}

func TestReplaceConflicting(t *testing.T) {
	h := newPoolHarness()
	op := h.spendableOutput(100000)

	tx1 := spendTxWithSequence([]wire.OutPoint{op}, 90000, 0)
	if _, err := h.pool.Insert(tx1, TransactionFee(h, tx1.MsgTx()), int64(tx1.MsgTx().SerializeSize()), 0); err != nil {
		t.Fatalf("Insert tx1: unexpected error: %v", err)
	}

	tx2 := spendTxWithSequence([]wire.OutPoint{op}, 95000, 0)
	entry, err := h.pool.ReplaceConflicting(tx2, TransactionFee(h, tx2.MsgTx()), int64(tx2.MsgTx().SerializeSize()), 0)
	if err != nil {
		t.Fatalf("ReplaceConflicting: unexpected error: %v", err)
	}
	if entry.Hash != *tx2.Hash() {
		t.Fatalf("ReplaceConflicting: returned entry for wrong tx")
	}
	if h.pool.HaveTransaction(*tx1.Hash()) {
		t.Fatalf("ReplaceConflicting: tx1 should have been evicted")
	}
	if !h.pool.HaveTransaction(*tx2.Hash()) {
		t.Fatalf("ReplaceConflicting: tx2 should be present")
	}
}

func TestPackageRollupAndRemoval(t *testing.T) {
	h := newPoolHarness()
	op := h.spendableOutput(1000000)

	parent := spendTx([]wire.OutPoint{op}, 999900) // fee 100, size ~ whatever SerializeSize is
	parentEntry, err := h.pool.Insert(parent, TransactionFee(h, parent.MsgTx()), int64(parent.MsgTx().SerializeSize()), 0)
	if err != nil {
		t.Fatalf("Insert parent: unexpected error: %v", err)
	}

	childOp := h.registerOutput(parent, 0, 999900)
	child := spendTx([]wire.OutPoint{childOp}, 999000) // fee 900
	childEntry, err := h.pool.Insert(child, TransactionFee(h, child.MsgTx()), int64(child.MsgTx().SerializeSize()), 0)
	if err != nil {
		t.Fatalf("Insert child: unexpected error: %v", err)
	}

	if _, ok := childEntry.AncestorSet[parentEntry.Hash]; !ok {
		t.Fatalf("child's AncestorSet missing parent")
	}
	if _, ok := parentEntry.DescendantSet[childEntry.Hash]; !ok {
		t.Fatalf("parent's DescendantSet missing child")
	}

	wantPackageFee := parentEntry.Fee + childEntry.Fee
	if parentEntry.PackageFee != wantPackageFee {
		t.Fatalf("parent PackageFee = %d, want %d", parentEntry.PackageFee, wantPackageFee)
	}

	removed := h.pool.RemoveByHash(parentEntry.Hash)
	if removed == nil || removed.Hash != parentEntry.Hash {
		t.Fatalf("RemoveByHash: unexpected result")
	}
	if h.pool.HaveTransaction(childEntry.Hash) {
		t.Fatalf("RemoveByHash: child should have been removed along with its ancestor")
	}
	if h.pool.HaveTransaction(parentEntry.Hash) {
		t.Fatalf("RemoveByHash: parent should have been removed")
	}
}

func TestDrainAsVecByTransactionScoreRespectsTopology(t *testing.T) {
	h := newPoolHarness()
	op := h.spendableOutput(1000000)

	// Parent has a low individual fee rate; child rolls up a much
	// higher package fee rate. A naive flat sort by package fee rate
	// would place child first and then (in a single forward pass that
	// never revisits a skipped entry) drop it permanently, since its
	// ancestor would not yet be admitted.
	parent := spendTx([]wire.OutPoint{op}, 999990) // fee 10
	parentEntry, err := h.pool.Insert(parent, TransactionFee(h, parent.MsgTx()), int64(parent.MsgTx().SerializeSize()), 0)
	if err != nil {
		t.Fatalf("Insert parent: unexpected error: %v", err)
	}

	childOp := h.registerOutput(parent, 0, 999990)
	child := spendTx([]wire.OutPoint{childOp}, 899990) // fee 100000
	childEntry, err := h.pool.Insert(child, TransactionFee(h, child.MsgTx()), int64(child.MsgTx().SerializeSize()), 0)
	if err != nil {
		t.Fatalf("Insert child: unexpected error: %v", err)
	}

	if childEntry.PackageFeeRate <= parentEntry.FeeRate {
		t.Fatalf("test setup invalid: expected child's package fee rate to exceed parent's own fee rate")
	}

	ordered := h.pool.DrainAsVec(0, ByTransactionScore)
	if len(ordered) != 2 {
		t.Fatalf("DrainAsVec: got %d entries, want 2 (parent must not be dropped)", len(ordered))
	}
	if ordered[0].Hash != parentEntry.Hash {
		t.Fatalf("DrainAsVec: parent must precede child despite lower individual fee rate")
	}
	if ordered[1].Hash != childEntry.Hash {
		t.Fatalf("DrainAsVec: child must follow its parent")
	}
}

func TestIterByFeeRateOrdering(t *testing.T) {
	h := newPoolHarness()

	op1 := h.spendableOutput(100000)
	tx1 := spendTx([]wire.OutPoint{op1}, 99000) // fee 1000, higher fee rate
	if _, err := h.pool.Insert(tx1, TransactionFee(h, tx1.MsgTx()), int64(tx1.MsgTx().SerializeSize()), 0); err != nil {
		t.Fatalf("Insert tx1: %v", err)
	}

	op2 := h.spendableOutput(100000)
	tx2 := spendTx([]wire.OutPoint{op2}, 99900) // fee 100, lower fee rate
	if _, err := h.pool.Insert(tx2, TransactionFee(h, tx2.MsgTx()), int64(tx2.MsgTx().SerializeSize()), 0); err != nil {
		t.Fatalf("Insert tx2: %v", err)
	}

	ordered := h.pool.Iter(ByFeeRate)
	if len(ordered) != 2 {
		t.Fatalf("Iter: got %d entries, want 2", len(ordered))
	}
	if ordered[0].Hash != *tx1.Hash() {
		t.Fatalf("Iter(ByFeeRate): expected higher fee-rate tx first")
	}
}

func TestInformationTotals(t *testing.T) {
	h := newPoolHarness()
	op := h.spendableOutput(100000)
	tx := spendTx([]wire.OutPoint{op}, 90000)
	fee := TransactionFee(h, tx.MsgTx())
	size := int64(tx.MsgTx().SerializeSize())
	if _, err := h.pool.Insert(tx, fee, size, 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	info := h.pool.Information()
	if info.Count != 1 {
		t.Fatalf("Information.Count = %d, want 1", info.Count)
	}
	if info.TotalFee != fee {
		t.Fatalf("Information.TotalFee = %d, want %d", info.TotalFee, fee)
	}
	if info.TotalSize != size {
		t.Fatalf("Information.TotalSize = %d, want %d", info.TotalSize, size)
	}
	if len(info.FeeRateHistogram) != len(FeeRateBuckets) {
		t.Fatalf("Information.FeeRateHistogram length = %d, want %d", len(info.FeeRateHistogram), len(FeeRateBuckets))
	}
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"container/heap"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

func newTestEntry(feeRate uint64, nonce byte) *Entry {
	msg := wire.NewMsgTx(wire.TxVersion)
	msg.AddTxOut(&wire.TxOut{Value: 1, PkScript: []byte{nonce}})
	tx := btcutil.NewTx(msg)
	e := newEntry(tx, feeRate, 1, 0, time.Now())
	e.FeeRate = feeRate
	return e
}

func TestFeeRateIndexOrdersDescending(t *testing.T) {
	fi := newFeeRateIndex()
	low := newTestEntry(10, 1)
	high := newTestEntry(1000, 2)
	mid := newTestEntry(100, 3)

	fi.insert(low)
	fi.insert(high)
	fi.insert(mid)

	first := heap.Pop(fi).(*Entry)
	second := heap.Pop(fi).(*Entry)
	third := heap.Pop(fi).(*Entry)

	if first != high || second != mid || third != low {
		t.Fatalf("feeRateIndex did not pop in descending fee-rate order")
	}
}

func TestFeeRateIndexRepositionAfterFeeChange(t *testing.T) {
	fi := newFeeRateIndex()
	a := newTestEntry(10, 1)
	b := newTestEntry(20, 2)
	fi.insert(a)
	fi.insert(b)

	a.PackageFee = 1000
	a.packageRecalc()
	fi.reposition(a)

	top := heap.Pop(fi).(*Entry)
	if top != a {
		t.Fatalf("reposition did not restore heap property after fee-rate increase")
	}
}

func TestFeeRateIndexRemove(t *testing.T) {
	fi := newFeeRateIndex()
	a := newTestEntry(10, 1)
	b := newTestEntry(20, 2)
	fi.insert(a)
	fi.insert(b)

	fi.remove(a)
	if fi.Len() != 1 {
		t.Fatalf("Len after remove = %d, want 1", fi.Len())
	}
	if fi.entries[0] != b {
		t.Fatalf("remaining entry after remove is not b")
	}
}

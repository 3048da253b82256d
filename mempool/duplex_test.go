// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"github.com/btcforge/txcore/chainview"
)

func TestDuplexViewPrimaryBeforeSecondary(t *testing.T) {
	chain := chainview.NewMockChain()
	pool := New()
	primary := PoolOutputProvider{Pool: pool}

	confirmed := wire.NewMsgTx(wire.TxVersion)
	confirmed.AddTxOut(&wire.TxOut{Value: 5000, PkScript: []byte{0x51}})
	chain.AddConfirmed(confirmed, 10, false)
	confirmedOp := wire.OutPoint{Hash: confirmed.TxHash(), Index: 0}

	pending := wire.NewMsgTx(wire.TxVersion)
	pending.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{}, Sequence: wire.MaxTxInSequenceNum})
	pending.AddTxOut(&wire.TxOut{Value: 9000, PkScript: []byte{0x51}})
	pendingTx := btcutil.NewTx(pending)
	if _, err := pool.Insert(pendingTx, 1000, int64(pending.SerializeSize()), 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	pendingOp := wire.OutPoint{Hash: pendingTx.MsgTx().TxHash(), Index: 0}

	views := NewDuplexView(primary, chain)
	views.PrimarySpent = primary
	views.SecondarySpent = chain

	if out, ok := views.Output(confirmedOp); !ok || out.Value != 5000 {
		t.Fatalf("Output(confirmedOp) = %v, %v; want 5000, true", out, ok)
	}
	if out, ok := views.Output(pendingOp); !ok || out.Value != 9000 {
		t.Fatalf("Output(pendingOp) = %v, %v; want 9000, true", out, ok)
	}

	chain.MarkSpent(confirmedOp)
	if !views.IsSpent(confirmedOp) {
		t.Fatalf("IsSpent: expected confirmedOp spent via Secondary")
	}
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainview

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

func TestCountSigOpsPlainOutputs(t *testing.T) {
	msg := wire.NewMsgTx(wire.TxVersion)
	msg.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{}, SignatureScript: []byte{}})

	pkScript, err := txscript.NewScriptBuilder().AddOp(txscript.OP_CHECKSIG).Script()
	if err != nil {
		t.Fatalf("building script: %v", err)
	}
	msg.AddTxOut(&wire.TxOut{Value: 1000, PkScript: pkScript})

	got := CountSigOps(btcutil.NewTx(msg))
	if got != 1 {
		t.Fatalf("CountSigOps = %d, want 1", got)
	}
}

func TestCountP2SHSigOpsSkipsCoinbase(t *testing.T) {
	msg := wire.NewMsgTx(wire.TxVersion)
	msg.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{}})

	mock := NewMockChain()
	got, err := CountP2SHSigOps(btcutil.NewTx(msg), true, mock)
	if err != nil {
		t.Fatalf("CountP2SHSigOps: unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("CountP2SHSigOps(coinbase) = %d, want 0", got)
	}
}

func TestCountP2SHSigOpsNonP2SHPrevOutContributesZero(t *testing.T) {
	mock := NewMockChain()
	funding := wire.NewMsgTx(wire.TxVersion)
	pkScript, err := txscript.NewScriptBuilder().AddOp(txscript.OP_TRUE).Script()
	if err != nil {
		t.Fatalf("building script: %v", err)
	}
	funding.AddTxOut(&wire.TxOut{Value: 1000, PkScript: pkScript})
	mock.AddConfirmed(funding, 1, false)

	spender := wire.NewMsgTx(wire.TxVersion)
	spender.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Hash: funding.TxHash(), Index: 0}})

	got, err := CountP2SHSigOps(btcutil.NewTx(spender), false, mock)
	if err != nil {
		t.Fatalf("CountP2SHSigOps: unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("CountP2SHSigOps(non-P2SH prevout) = %d, want 0", got)
	}
}

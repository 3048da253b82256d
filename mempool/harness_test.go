// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// poolHarness builds synthetic spendable outputs and transactions for
// pool tests, in the spirit of the teacher's poolHarness in the old
// mempool_test.go: a small in-memory fake standing in for a real UTXO
// set, so transactions can be strung together without touching a real
// chain or running script evaluation.
type poolHarness struct {
	pool    *Pool
	nonce   uint32
	outputs map[wire.OutPoint]*wire.TxOut
}

func newPoolHarness() *poolHarness {
	return &poolHarness{
		pool:    New(),
		outputs: make(map[wire.OutPoint]*wire.TxOut),
	}
}

// spendableOutput is a funding output created out of thin air, not tied
// to any real transaction; used as the first input of a test chain.
func (h *poolHarness) spendableOutput(value int64) wire.OutPoint {
	h.nonce++
	var hash chainhash.Hash
	hash[0] = byte(h.nonce)
	hash[1] = byte(h.nonce >> 8)
	op := wire.OutPoint{Hash: hash, Index: 0}
	h.outputs[op] = &wire.TxOut{Value: value, PkScript: []byte{0x51}}
	return op
}

// Output implements chainview.OutputProvider for harness-created funding
// outputs, so checkOverspent/checkMissingInputs-style logic (and
// TransactionFee) can resolve them the same way a real chain would.
func (h *poolHarness) Output(outpoint wire.OutPoint) (*wire.TxOut, bool) {
	out, ok := h.outputs[outpoint]
	return out, ok
}

// spendTx builds a transaction spending each of ins, paying value to a
// single dummy output, with a final sequence (MaxTxInSequenceNum) on
// every input; spendTxWithSequence sets another sequence.
func spendTx(ins []wire.OutPoint, value int64) *btcutil.Tx {
	return spendTxWithSequence(ins, value, wire.MaxTxInSequenceNum)
}

func spendTxWithSequence(ins []wire.OutPoint, value int64, sequence uint32) *btcutil.Tx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for _, in := range ins {
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: in,
			SignatureScript:  []byte{},
			Sequence:         sequence,
		})
	}
	tx.AddTxOut(&wire.TxOut{Value: value, PkScript: []byte{0x51}})
	return btcutil.NewTx(tx)
}

// registerOutput records tx's single output as spendable under
// h.outputs, so a later transaction can spend it the same way a
// genuinely-chained transaction would.
func (h *poolHarness) registerOutput(tx *btcutil.Tx, index uint32, value int64) wire.OutPoint {
	op := wire.OutPoint{Hash: *tx.Hash(), Index: index}
	h.outputs[op] = &wire.TxOut{Value: value, PkScript: []byte{0x51}}
	return op
}

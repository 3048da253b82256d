// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainview

import "github.com/btcsuite/btcd/wire"

// UTXOEntry houses details about an individual unspent transaction
// output: whether it was produced by a coinbase, the height of the block
// that confirmed it, its public key script, and its value. Adapted from
// the teacher's blockdag.UTXOEntry, trading its DAG blue-score field for
// a plain block height since this spec targets a linear chain.
type UTXOEntry struct {
	amount       uint64
	scriptPubKey []byte
	blockHeight  uint32
	isCoinbase   bool
}

// NewUTXOEntry builds a UTXOEntry from a transaction output.
func NewUTXOEntry(txOut *wire.TxOut, isCoinbase bool, blockHeight uint32) *UTXOEntry {
	return &UTXOEntry{
		amount:       uint64(txOut.Value),
		scriptPubKey: txOut.PkScript,
		blockHeight:  blockHeight,
		isCoinbase:   isCoinbase,
	}
}

// IsCoinbase returns whether the output was produced by a coinbase
// transaction.
func (e *UTXOEntry) IsCoinbase() bool { return e.isCoinbase }

// BlockHeight returns the height of the block that confirmed this
// output.
func (e *UTXOEntry) BlockHeight() uint32 { return e.blockHeight }

// Amount returns the value of the output, in satoshi.
func (e *UTXOEntry) Amount() uint64 { return e.amount }

// ScriptPubKey returns the output's public key script.
func (e *UTXOEntry) ScriptPubKey() []byte { return e.scriptPubKey }

// ToTxOut reconstructs the wire.TxOut this entry was built from.
func (e *UTXOEntry) ToTxOut() *wire.TxOut {
	return &wire.TxOut{Value: int64(e.amount), PkScript: e.scriptPubKey}
}

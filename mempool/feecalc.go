// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/btcsuite/btcd/wire"
	"github.com/btcforge/txcore/chainview"
)

// TransactionFee returns the absolute fee paid by tx: the sum of its
// input amounts minus the sum of its output values, resolving inputs
// against resolver. By the time this is called the transaction has
// already passed acceptance, so a previous output resolver miss
// contributes zero rather than failing the calculation (§4.1); the
// caller guarantees inputs exist once a transaction has been accepted.
func TransactionFee(resolver chainview.OutputProvider, tx *wire.MsgTx) uint64 {
	var inputTotal, outputTotal uint64
	for _, txIn := range tx.TxIn {
		prevOut, ok := resolver.Output(txIn.PreviousOutPoint)
		if !ok {
			continue
		}
		inputTotal += uint64(prevOut.Value)
	}
	for _, txOut := range tx.TxOut {
		outputTotal += uint64(txOut.Value)
	}
	if outputTotal > inputTotal {
		return 0
	}
	return inputTotal - outputTotal
}

// TransactionFeeRate returns the fee per serialized byte of tx, using the
// actual serialized size (witness included).
func TransactionFeeRate(resolver chainview.OutputProvider, tx *wire.MsgTx) uint64 {
	size := int64(tx.SerializeSize())
	if size <= 0 {
		return 0
	}
	return TransactionFee(resolver, tx) / uint64(size)
}

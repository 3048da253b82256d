// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainview

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
)

// CountSigOps returns the number of signature operations for all
// transaction inputs and outputs, without doing any further parsing of
// pay-to-script-hash scripts. Ported from blockdag.CountSigOps.
func CountSigOps(tx *btcutil.Tx) int {
	msgTx := tx.MsgTx()

	totalSigOps := 0
	for _, txIn := range msgTx.TxIn {
		totalSigOps += txscript.GetSigOpCount(txIn.SignatureScript)
	}
	for _, txOut := range msgTx.TxOut {
		totalSigOps += txscript.GetSigOpCount(txOut.PkScript)
	}
	return totalSigOps
}

// CountP2SHSigOps returns the number of signature operations for all
// pay-to-script-hash inputs, resolving each input's previous output
// against provider. Coinbase transactions have no standard inputs and
// contribute zero. Ported from blockdag.CountP2SHSigOps, trading the
// DAG-shaped UTXOSet argument for the narrower OutputProvider this
// repository threads through the acceptance pipeline.
func CountP2SHSigOps(tx *btcutil.Tx, isCoinbase bool, provider OutputProvider) (int, error) {
	if isCoinbase {
		return 0, nil
	}

	msgTx := tx.MsgTx()
	totalSigOps := 0
	for _, txIn := range msgTx.TxIn {
		prevOut, ok := provider.Output(txIn.PreviousOutPoint)
		if !ok {
			continue
		}
		if !txscript.IsPayToScriptHash(prevOut.PkScript) {
			continue
		}
		totalSigOps += txscript.GetPreciseSigOpCount(txIn.SignatureScript, prevOut.PkScript, true)
	}
	return totalSigOps, nil
}

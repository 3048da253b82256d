// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// TxscriptEvaluator is the production Evaluator, backed by the real
// txscript engine. It is the one place in this repository that
// translates our own VerificationFlags/SignatureVersion vocabulary into
// the interpreter's, so the acceptor package never has to.
type TxscriptEvaluator struct {
	// Tx is the transaction the checker's input belongs to. The engine
	// needs the whole transaction to compute sighashes for other
	// inputs' amounts under segwit v0.
	Tx *wire.MsgTx

	// PrevOutFetcher resolves the outputs spent by Tx's inputs, needed
	// by the engine to compute segwit v0 sighashes.
	PrevOutFetcher txscript.PrevOutputFetcher
}

// VerifyScript implements Evaluator.
func (e *TxscriptEvaluator) VerifyScript(
	sigScript []byte,
	pubKeyScript []byte,
	witness [][]byte,
	flags VerificationFlags,
	checker SignatureChecker,
	sigVersion SignatureVersion,
) error {
	txCopy := e.Tx.Copy()
	idx := checker.InputIndex()
	if idx < 0 || idx >= len(txCopy.TxIn) {
		return errors.Errorf("script: input index %d out of range", idx)
	}
	txCopy.TxIn[idx].SignatureScript = sigScript
	txCopy.TxIn[idx].Witness = witness

	engineFlags := toEngineFlags(flags)

	var sigCache *txscript.SigCache
	var hashCache *txscript.TxSigHashes
	if e.PrevOutFetcher != nil {
		hashCache = txscript.NewTxSigHashes(txCopy, e.PrevOutFetcher)
	}

	vm, err := txscript.NewEngine(pubKeyScript, txCopy, idx, engineFlags,
		sigCache, hashCache, int64(checker.InputAmount()), e.PrevOutFetcher)
	if err != nil {
		return err
	}
	return vm.Execute()
}

// toEngineFlags maps our deployment-derived VerificationFlags onto
// txscript.ScriptFlags, matching the construction in the teacher's
// blockdag/validate.go (txscript.ScriptBip16 when p2sh, etc.).
func toEngineFlags(flags VerificationFlags) txscript.ScriptFlags {
	var f txscript.ScriptFlags
	if flags.P2SH {
		f |= txscript.ScriptBip16
	}
	if flags.DERSignatures {
		f |= txscript.ScriptVerifyDERSignatures
	}
	if flags.LockTime {
		f |= txscript.ScriptVerifyCheckLockTimeVerify
	}
	if flags.CheckSequence {
		f |= txscript.ScriptVerifyCheckSequenceVerify
	}
	if flags.Witness {
		f |= txscript.ScriptVerifyWitness
	}
	if flags.NullDummy {
		f |= txscript.ScriptStrictMultiSig
	}
	if flags.StrictEncoding {
		f |= txscript.ScriptVerifyStrictEncoding
	}
	return f
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/btcforge/txcore/chainview"
	"github.com/btcforge/txcore/consensus"
	"github.com/btcforge/txcore/script"
)

// VerificationLevel controls how much of ScriptEval actually runs, in
// the style of the verification-level knobs a full node exposes for
// already-trusted or header-only paths.
type VerificationLevel int

const (
	// VerificationFull evaluates every input script.
	VerificationFull VerificationLevel = iota

	// VerificationHeader skips ScriptEval entirely.
	VerificationHeader

	// VerificationNone skips ScriptEval entirely, same as
	// VerificationHeader; kept distinct because callers reach for the
	// two names in different contexts (spec §4.4.1).
	VerificationNone
)

// ReplayProtectionFunc is the hook reserved for forks that require
// OP_RETURN-prefix replay-protection magic (spec §9 open question). The
// zero value of AcceptanceContext leaves it nil, which
// checkReplayProtection treats as an always-pass identity check.
type ReplayProtectionFunc func(tx *wire.MsgTx) error

// AcceptanceContext carries everything a check needs: the duplex view
// over pool/chain outputs, the confirmed-chain storage provider (for
// coinbase maturity lookups), the height and time the transaction is
// being considered at, consensus parameters, deployment flags, and the
// verification level (spec §4.4).
type AcceptanceContext struct {
	Views *DuplexView
	Chain chainview.StorageProvider

	Height uint32
	Time   time.Time

	Params     *consensus.Params
	Deployment consensus.DeploymentFlags
	Level      VerificationLevel

	// Evaluator is the script evaluator wired for this transaction
	// (e.g. a script.TxscriptEvaluator built with this tx and a
	// PrevOutFetcher over Views). Left nil, ScriptEval is skipped,
	// matching VerificationHeader/VerificationNone.
	Evaluator script.Evaluator

	// SigopLimit bounds total transaction sigops for the pool-acceptance
	// pipeline's SigopsCap check (spec §4.4.1); unused by
	// chain-acceptance, which budgets sigops per block instead.
	SigopLimit int64

	ReplayProtection ReplayProtectionFunc
}

type acceptanceCheck func(tx *btcutil.Tx, ctx *AcceptanceContext) error

// ChainAcceptancePipeline is the check sequence applied when a
// transaction is being considered for inclusion via a connecting block
// (spec §4.4: premature_witness → missing_inputs → maturity →
// overspent → double_spent → replay_protection → script_eval).
var ChainAcceptancePipeline = []acceptanceCheck{
	checkPrematureWitness,
	checkMissingInputs,
	checkMaturity,
	checkOverspent,
	checkDoubleSpent,
	checkReplayProtection,
	checkScriptEval,
}

// PoolAcceptancePipeline is the check sequence applied at mempool
// admission time (spec §4.4: missing_inputs → maturity → overspent →
// sigops_cap → double_spent → replay_protection → script_eval). It
// omits checkPrematureWitness, which only applies to chain acceptance.
var PoolAcceptancePipeline = []acceptanceCheck{
	checkMissingInputs,
	checkMaturity,
	checkOverspent,
	checkSigopsCap,
	checkDoubleSpent,
	checkReplayProtection,
	checkScriptEval,
}

// NewBlockAcceptanceContext builds the AcceptanceContext used by the
// chain-acceptance pipeline while validating a candidate block: primary
// is the set of outputs produced earlier in the same block (or the pool,
// for a still-unconfirmed ancestor), chain is the confirmed-chain
// storage provider, and boundTxIndex restricts chain lookups to
// transactions ordered strictly before the one being checked, preserving
// in-block topological order (spec §4.3). primary is queried without a
// bound, so it holds only outputs the checked transaction may spend.
func NewBlockAcceptanceContext(primary chainview.OutputProvider, chain chainview.StorageProvider, boundTxIndex int) *AcceptanceContext {
	chainAsOutputProvider := boundOutputProvider{chain: chain, boundTxIndex: boundTxIndex}
	views := NewDuplexView(primary, chainAsOutputProvider)
	views.BoundTxIndex = boundTxIndex
	if spender, ok := primary.(Spender); ok {
		views.PrimarySpent = spender
	}
	views.SecondarySpent = chain

	return &AcceptanceContext{
		Views: views,
		Chain: chain,
	}
}

// boundOutputProvider adapts a chainview.StorageProvider into a
// chainview.OutputProvider fixed at one bound_tx_index, for use as a
// DuplexView's Secondary during block-level acceptance.
type boundOutputProvider struct {
	chain        chainview.StorageProvider
	boundTxIndex int
}

func (b boundOutputProvider) Output(outpoint wire.OutPoint) (*wire.TxOut, bool) {
	return b.chain.TransactionOutput(outpoint, b.boundTxIndex)
}

func (b boundOutputProvider) TransactionOutput(outpoint wire.OutPoint, boundTxIndex int) (*wire.TxOut, bool) {
	return b.chain.TransactionOutput(outpoint, boundTxIndex)
}

// Accept runs pipeline against tx under ctx, short-circuiting on the
// first failing check (spec §4.4: "Checks are logically independent; no
// partial state survives a failing verdict").
func Accept(pipeline []acceptanceCheck, tx *btcutil.Tx, ctx *AcceptanceContext) error {
	for _, check := range pipeline {
		if err := check(tx, ctx); err != nil {
			return err
		}
	}
	return nil
}

func isCoinbase(tx *wire.MsgTx) bool {
	return len(tx.TxIn) == 1 && tx.TxIn[0].PreviousOutPoint.Hash == consensus.NullOutpointHash &&
		tx.TxIn[0].PreviousOutPoint.Index == consensus.NullOutpointIndex
}

func hasWitness(tx *wire.MsgTx) bool {
	for _, txIn := range tx.TxIn {
		if len(txIn.Witness) > 0 {
			return true
		}
	}
	return false
}

// checkPrematureWitness fails if tx carries witness data before segwit
// activation (spec §4.4.1).
func checkPrematureWitness(tx *btcutil.Tx, ctx *AcceptanceContext) error {
	if !ctx.Deployment.SegwitActive && hasWitness(tx.MsgTx()) {
		return ruleError(ErrPrematureWitness)
	}
	return nil
}

// checkMissingInputs fails with Input(index) at the first non-null
// previous output the duplex view cannot resolve.
func checkMissingInputs(tx *btcutil.Tx, ctx *AcceptanceContext) error {
	msgTx := tx.MsgTx()
	if isCoinbase(msgTx) {
		return nil
	}
	for i, txIn := range msgTx.TxIn {
		if _, ok := ctx.Views.Output(txIn.PreviousOutPoint); !ok {
			return inputRuleError(ErrInput, i)
		}
	}
	return nil
}

// checkMaturity fails if any input spends a coinbase still within
// COINBASE_MATURITY of ctx.Height. Inputs whose previous transaction is
// unknown to the chain (i.e. a pool-only ancestor) cannot be coinbase
// (pool invariant 6) and are skipped here.
func checkMaturity(tx *btcutil.Tx, ctx *AcceptanceContext) error {
	if isCoinbase(tx.MsgTx()) || ctx.Chain == nil {
		return nil
	}
	for _, txIn := range tx.MsgTx().TxIn {
		meta, ok := ctx.Chain.TransactionMeta(&txIn.PreviousOutPoint.Hash)
		if !ok || !meta.IsCoinbase {
			continue
		}
		if ctx.Height < meta.Height+consensus.CoinbaseMaturity {
			return ruleError(ErrMaturity)
		}
	}
	return nil
}

// checkOverspent fails if tx's outputs exceed the resolvable value of
// its inputs. Coinbase transactions are exempt (spec §4.4.1).
func checkOverspent(tx *btcutil.Tx, ctx *AcceptanceContext) error {
	msgTx := tx.MsgTx()
	if isCoinbase(msgTx) {
		return nil
	}

	var available uint64
	for _, txIn := range msgTx.TxIn {
		if out, ok := ctx.Views.Output(txIn.PreviousOutPoint); ok {
			available += uint64(out.Value)
		}
	}
	var spends uint64
	for _, txOut := range msgTx.TxOut {
		spends += uint64(txOut.Value)
	}
	if spends > available {
		return ruleError(ErrOverspend)
	}
	return nil
}

// checkSigopsCap fails if tx's total sigop count, including P2SH
// expansion, exceeds the per-block sigop budget at ctx.Height (spec
// §4.4.1; mempool-only, since block acceptance budgets per block).
func checkSigopsCap(tx *btcutil.Tx, ctx *AcceptanceContext) error {
	limit := ctx.SigopLimit
	if limit <= 0 && ctx.Params != nil {
		limit = int64(ctx.Params.MaxBlockSigops(ctx.Height, ctx.Params.MaxBlockSize(ctx.Height)))
	}

	total := int64(chainview.CountSigOps(tx))
	p2sh, err := chainview.CountP2SHSigOps(tx, isCoinbase(tx.MsgTx()), ctx.Views)
	if err != nil {
		return err
	}
	total += int64(p2sh)

	if total > limit {
		return ruleError(ErrMaxSigops)
	}
	return nil
}

// checkDoubleSpent fails UsingSpentOutput if any input's previous
// output is already marked spent by the duplex view.
func checkDoubleSpent(tx *btcutil.Tx, ctx *AcceptanceContext) error {
	msgTx := tx.MsgTx()
	if isCoinbase(msgTx) {
		return nil
	}
	for i, txIn := range msgTx.TxIn {
		if ctx.Views.IsSpent(txIn.PreviousOutPoint) {
			return hashRuleError(ErrUsingSpentOutput, i, txIn.PreviousOutPoint.Hash)
		}
	}
	return nil
}

// checkReplayProtection defers to ctx.ReplayProtection when set,
// otherwise passes unconditionally (spec §9: "a no-op" until an
// implementer wires a specific fork's rule).
func checkReplayProtection(tx *btcutil.Tx, ctx *AcceptanceContext) error {
	if ctx.ReplayProtection == nil {
		return nil
	}
	return ctx.ReplayProtection(tx.MsgTx())
}

// checkScriptEval evaluates every input script under the
// deployment-derived VerificationFlags (spec §4.4.1). Skipped for
// coinbase transactions, when ctx.Level requests only header/no
// verification, or when no Evaluator is wired.
func checkScriptEval(tx *btcutil.Tx, ctx *AcceptanceContext) error {
	msgTx := tx.MsgTx()
	if isCoinbase(msgTx) {
		return nil
	}
	if ctx.Level == VerificationHeader || ctx.Level == VerificationNone {
		return nil
	}
	if ctx.Evaluator == nil {
		return nil
	}

	flags := script.VerificationFlags{
		P2SH:          true,
		LockTime:      true,
		DERSignatures: true,
		CheckSequence: ctx.Deployment.CSVActive,
		Witness:       ctx.Deployment.SegwitActive,
		NullDummy:     ctx.Deployment.SegwitActive,
		StrictEncoding: false,
	}

	for i, txIn := range msgTx.TxIn {
		prevOut, ok := ctx.Views.Output(txIn.PreviousOutPoint)
		if !ok {
			return hashRuleError(ErrUnknownReference, i, txIn.PreviousOutPoint.Hash)
		}

		checker := script.BasicSignatureChecker{Index: i, Amount: uint64(prevOut.Value)}
		err := ctx.Evaluator.VerifyScript(
			txIn.SignatureScript,
			prevOut.PkScript,
			txIn.Witness,
			flags,
			checker,
			script.SignatureVersionBase,
		)
		if err != nil {
			return signatureRuleError(i, err)
		}
	}
	return nil
}

// prevOutFetcherAdapter adapts a DuplexView into a txscript.PrevOutputFetcher
// so a script.TxscriptEvaluator can be built for a given transaction.
type prevOutFetcherAdapter struct {
	views *DuplexView
}

// NewPrevOutFetcher returns a txscript.PrevOutputFetcher backed by views,
// for constructing a script.TxscriptEvaluator ahead of checkScriptEval.
func NewPrevOutFetcher(views *DuplexView) txscript.PrevOutputFetcher {
	return prevOutFetcherAdapter{views: views}
}

func (a prevOutFetcherAdapter) FetchPrevOutput(op wire.OutPoint) *wire.TxOut {
	out, _ := a.views.Output(op)
	return out
}

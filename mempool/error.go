// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// ErrorCode identifies a kind of acceptance or pool failure, mirroring
// the taxonomy consumed by callers deciding how to respond to a rejected
// transaction (log it, relay a reject message, consider replacement).
type ErrorCode int

const (
	// ErrInput means a previous output referenced by an input could not
	// be resolved through the duplex view.
	ErrInput ErrorCode = iota

	// ErrMaturity means an input spends a coinbase before COINBASE_MATURITY.
	ErrMaturity

	// ErrOverspend means a transaction's outputs exceed its inputs.
	ErrOverspend

	// ErrMaxSigops means the transaction's sigop count exceeds the
	// mempool's per-transaction cap.
	ErrMaxSigops

	// ErrUsingSpentOutput means an input spends an output already marked
	// spent by the duplex view.
	ErrUsingSpentOutput

	// ErrUnknownReference means script evaluation could not resolve a
	// previous output that MissingInputs had already passed.
	ErrUnknownReference

	// ErrSignature means script evaluation rejected an input.
	ErrSignature

	// ErrPrematureWitness means the transaction carries witness data
	// before the segwit deployment is active.
	ErrPrematureWitness

	// ErrDoubleSpend means an input conflicts with one or more pool
	// entries whose corresponding input is final.
	ErrDoubleSpend

	// ErrNonFinalDoubleSpend means an input conflicts with one or more
	// pool entries, every one of which has its corresponding input
	// marked replaceable.
	ErrNonFinalDoubleSpend
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInput:               "Input",
	ErrMaturity:            "Maturity",
	ErrOverspend:           "Overspend",
	ErrMaxSigops:           "MaxSigops",
	ErrUsingSpentOutput:    "UsingSpentOutput",
	ErrUnknownReference:    "UnknownReference",
	ErrSignature:           "Signature",
	ErrPrematureWitness:    "PrematureWitness",
	ErrDoubleSpend:         "DoubleSpend",
	ErrNonFinalDoubleSpend: "NonFinalDoubleSpend",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies an acceptance-pipeline or pool-invariant failure.
// It carries whichever of Index/Hash/Conflicts/Cause apply to ErrorCode
// so a caller can report it without type-switching on a string.
type RuleError struct {
	ErrorCode ErrorCode
	Index     int
	Hash      chainhash.Hash
	Conflicts []chainhash.Hash
	Cause     error
}

func (e RuleError) Error() string {
	switch e.ErrorCode {
	case ErrInput:
		return fmt.Sprintf("missing previous output at input %d", e.Index)
	case ErrMaturity:
		return "transaction spends an immature coinbase"
	case ErrOverspend:
		return "transaction outputs exceed inputs"
	case ErrMaxSigops:
		return "transaction sigop count exceeds the pool cap"
	case ErrUsingSpentOutput:
		return fmt.Sprintf("input %d spends %s which is already spent", e.Index, e.Hash)
	case ErrUnknownReference:
		return fmt.Sprintf("script evaluation cannot resolve previous output %s", e.Hash)
	case ErrSignature:
		return fmt.Sprintf("signature check failed at input %d: %s", e.Index, e.Cause)
	case ErrPrematureWitness:
		return "transaction carries witness data before segwit activation"
	case ErrDoubleSpend:
		return fmt.Sprintf("conflicts with %d final pool entries", len(e.Conflicts))
	case ErrNonFinalDoubleSpend:
		return fmt.Sprintf("conflicts with %d replaceable pool entries", len(e.Conflicts))
	default:
		return fmt.Sprintf("rule error: %s", e.ErrorCode)
	}
}

// Unwrap exposes Cause so errors.Is/errors.As can see through a
// RuleError to an underlying script evaluator error.
func (e RuleError) Unwrap() error {
	return e.Cause
}

func ruleError(code ErrorCode) error {
	return errors.WithStack(RuleError{ErrorCode: code})
}

func inputRuleError(code ErrorCode, index int) error {
	return errors.WithStack(RuleError{ErrorCode: code, Index: index})
}

func hashRuleError(code ErrorCode, index int, hash chainhash.Hash) error {
	return errors.WithStack(RuleError{ErrorCode: code, Index: index, Hash: hash})
}

func conflictRuleError(code ErrorCode, conflicts []chainhash.Hash) error {
	return errors.WithStack(RuleError{ErrorCode: code, Conflicts: conflicts})
}

func signatureRuleError(index int, cause error) error {
	return errors.WithStack(RuleError{ErrorCode: ErrSignature, Index: index, Cause: cause})
}

// IsErrorCode reports whether err is a RuleError (at any wrap depth)
// carrying the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var ruleErr RuleError
	if !errors.As(err, &ruleErr) {
		return false
	}
	return ruleErr.ErrorCode == code
}

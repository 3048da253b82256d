// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package script defines the contract the acceptor uses to evaluate an
// input's script_sig/script_pubkey/witness tuple (spec.md §4.4.1
// ScriptEval, §6.2). The core never reaches into interpreter internals —
// it only depends on Evaluator, SignatureChecker, and VerificationFlags,
// all defined here. txscript_evaluator.go supplies the one production
// implementation, backed by the real txscript engine.
package script

// VerificationFlags mirrors txscript.ScriptFlags' bitmask shape
// (txscript/engine.go's ScriptFlags) but names only the flags the
// acceptor derives from deployment state (spec.md §4.4.1 step 3),
// keeping this package's public surface independent of the interpreter's
// own flag set.
type VerificationFlags struct {
	P2SH           bool
	LockTime       bool
	DERSignatures  bool
	CheckSequence  bool
	Witness        bool
	NullDummy      bool
	StrictEncoding bool
}

// SignatureVersion distinguishes the pre-segwit and segwit v0 signature
// hash algorithms a SignatureChecker must use.
type SignatureVersion int

// Supported signature hash algorithms.
const (
	SignatureVersionBase SignatureVersion = iota
	SignatureVersionWitnessV0
)

// SignatureChecker is bound to one transaction and one input index; it
// supplies whatever signature-hash material the evaluator needs without
// the evaluator needing to know about wire.MsgTx itself.
type SignatureChecker interface {
	// InputIndex is the index within the transaction this checker was
	// constructed for.
	InputIndex() int

	// InputAmount is the value, in satoshi, of the output this input
	// spends. Unused by legacy (non-segwit) signing, required for
	// segwit v0 (design note in spec.md §9).
	InputAmount() uint64
}

// Error is the opaque error type an Evaluator returns on script failure.
// The acceptor wraps it as the Cause of a mempool.RuleError with code
// ErrSignature without inspecting its
// contents, per spec.md's "script evaluator kept as an opaque capability"
// design note (§9).
type Error interface {
	error
}

// Evaluator verifies one input's script_sig/script_pubkey/witness tuple.
// verify_script in spec.md §6.2.
type Evaluator interface {
	VerifyScript(
		sigScript []byte,
		pubKeyScript []byte,
		witness [][]byte,
		flags VerificationFlags,
		checker SignatureChecker,
		sigVersion SignatureVersion,
	) error
}

// BasicSignatureChecker is the SignatureChecker the acceptor's script
// evaluation binds to each input: the input's index and the value of the
// output it spends.
type BasicSignatureChecker struct {
	Index  int
	Amount uint64
}

// InputIndex implements SignatureChecker.
func (c BasicSignatureChecker) InputIndex() int { return c.Index }

// InputAmount implements SignatureChecker.
func (c BasicSignatureChecker) InputAmount() uint64 { return c.Amount }

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mining implements the block assembler (spec.md §4.5): given a
// mempool snapshot and a coinbase recipient, it selects transactions by
// fee-rate/package score, respecting size, sigop and dependency
// constraints, and emits a BlockTemplate.
package mining

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/btcforge/txcore/chainview"
	"github.com/btcforge/txcore/consensus"
	"github.com/btcforge/txcore/mempool"
)

// blockHeaderOverhead is the max number of bytes it takes to serialize
// a block header plus the max possible transaction-count varint.
const blockHeaderOverhead = wire.MaxBlockHeaderPayload + wire.MaxVarIntPayload

// CoinbaseFlags is appended to the coinbase script of every generated
// block, in the style of the teacher's CoinbaseFlags.
const CoinbaseFlags = "/txcore/"

// BlockTemplate houses a block that has yet to be solved, along with
// the bookkeeping spec.md §4.5/§6.5 requires alongside it.
type BlockTemplate struct {
	Header *wire.BlockHeader

	// Transactions holds the coinbase at index 0 followed by every
	// admitted pool entry's transaction, in the order they were
	// admitted.
	Transactions []*btcutil.Tx

	// Fees mirrors Transactions: index 0 (the coinbase) holds the
	// negative of the sum of every other entry's fee, matching the
	// teacher's BlockTemplate.Fees convention.
	Fees []int64

	// SigOpCounts mirrors Transactions: per-transaction sigop counts.
	SigOpCounts []int64

	// CoinbaseValue is the coinbase output's total value:
	// block_subsidy(height) + Σ fees (spec §4.5 step 1).
	CoinbaseValue uint64

	TotalSize   int64
	TotalSigops int64
	Height      uint32
}

// Generator builds block templates from a pool snapshot, a storage
// provider (for the tip and for resolving inputs not claimed by the
// pool itself), and consensus parameters.
type Generator struct {
	Pool   *mempool.Pool
	Chain  chainview.StorageProvider
	Params *consensus.Params
}

// NewBlockTemplate assembles a candidate block paying height's subsidy
// plus collected fees to payToAddress. now is the block's timestamp and
// bits is the current target, both supplied by the caller since
// proof-of-work search and difficulty retargeting are out of scope
// (spec.md §1 Non-goals).
func (g *Generator) NewBlockTemplate(payToAddress btcutil.Address, height uint32, now time.Time, bits uint32) (*BlockTemplate, error) {
	best := g.Chain.BestBlock()

	entries := g.Pool.DrainAsVec(0, mempool.ByTransactionScore)

	// First pass: decide admission and accumulate fees, so the coinbase
	// output can be constructed before the transaction list is final.
	primary := mempool.PoolOutputProvider{Pool: g.Pool}
	maxBlockSize := int64(g.Params.MaxBlockSize(height))
	maxSigops := int64(g.Params.MaxBlockSigops(height, uint32(maxBlockSize)))

	type admitted struct {
		entry  *mempool.Entry
		fee    uint64
		sigops int64
	}
	var admittedList []admitted
	included := make(map[chainhash.Hash]struct{}, len(entries))

	runningSize := int64(blockHeaderOverhead)
	runningSigops := int64(0)
	var totalFees uint64

	for _, e := range entries {
		allAncestorsIncluded := true
		for a := range e.AncestorSet {
			if _, ok := included[a]; !ok {
				allAncestorsIncluded = false
				break
			}
		}
		if !allAncestorsIncluded {
			continue
		}

		sigops, err := chainview.CountP2SHSigOps(e.Tx, false, primary)
		if err != nil {
			log.Tracef("Skipping tx %s due to error counting P2SH sigops: %s", e.Hash, err)
			continue
		}
		sigops += chainview.CountSigOps(e.Tx)

		if runningSize+e.SizeBytes > maxBlockSize {
			log.Tracef("Skipping tx %s because it would exceed the max block size", e.Hash)
			continue
		}
		if runningSigops+int64(sigops) > maxSigops {
			log.Tracef("Skipping tx %s because it would exceed the max block sigops", e.Hash)
			continue
		}

		runningSize += e.SizeBytes
		runningSigops += int64(sigops)
		totalFees += e.Fee
		included[e.Hash] = struct{}{}
		admittedList = append(admittedList, admitted{entry: e, fee: e.Fee, sigops: int64(sigops)})
	}

	subsidy := g.Params.BlockSubsidy(height)
	coinbaseTx, err := newCoinbaseTransaction(payToAddress, height, subsidy+totalFees)
	if err != nil {
		return nil, err
	}
	numCoinbaseSigOps := int64(chainview.CountSigOps(coinbaseTx))

	txs := make([]*btcutil.Tx, 0, len(admittedList)+1)
	fees := make([]int64, 0, len(admittedList)+1)
	sigopCounts := make([]int64, 0, len(admittedList)+1)

	txs = append(txs, coinbaseTx)
	fees = append(fees, -int64(totalFees))
	sigopCounts = append(sigopCounts, numCoinbaseSigOps)

	for _, a := range admittedList {
		txs = append(txs, a.entry.Tx)
		fees = append(fees, int64(a.fee))
		sigopCounts = append(sigopCounts, a.sigops)
	}

	merkle := WitnessMerkleRoot(txs)

	header := &wire.BlockHeader{
		Version:    1,
		PrevBlock:  best.Hash,
		MerkleRoot: *merkle,
		Timestamp:  now,
		Bits:       bits,
	}

	log.Debugf("Created new block template (%d transactions, %d in fees, %d signature operations, %d bytes, target timestamp %s)",
		len(txs), totalFees, runningSigops+numCoinbaseSigOps, runningSize+int64(coinbaseTx.MsgTx().SerializeSize()), now)

	return &BlockTemplate{
		Header:        header,
		Transactions:  txs,
		Fees:          fees,
		SigOpCounts:   sigopCounts,
		CoinbaseValue: subsidy + totalFees,
		TotalSize:     runningSize + int64(coinbaseTx.MsgTx().SerializeSize()),
		TotalSigops:   runningSigops + numCoinbaseSigOps,
		Height:        height,
	}, nil
}

// newCoinbaseTransaction builds the single-input, single-output
// coinbase spec.md §4.5 step 1 describes: a null input with an
// arbitrary script pushing height, and one output paying value to
// payToAddress via a P2PKH script.
func newCoinbaseTransaction(payToAddress btcutil.Address, height uint32, value uint64) (*btcutil.Tx, error) {
	pkScript, err := txscript.PayToAddrScript(payToAddress)
	if err != nil {
		return nil, err
	}

	sigScript, err := txscript.NewScriptBuilder().
		AddInt64(int64(height)).
		AddData([]byte(CoinbaseFlags)).
		Script()
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{
			Hash:  consensus.NullOutpointHash,
			Index: consensus.NullOutpointIndex,
		},
		SignatureScript: sigScript,
		Sequence:        wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{
		Value:    int64(value),
		PkScript: pkScript,
	})

	return btcutil.NewTx(tx), nil
}

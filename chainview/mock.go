// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainview

import (
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// MockChain is a minimal, in-memory StorageProvider used by tests in
// place of an on-disk full node, in the spirit of the teacher's fakeDAG
// test harness (mempool/mempool_test.go).
type MockChain struct {
	mtx sync.RWMutex

	height uint32
	best   chainhash.Hash

	meta    map[chainhash.Hash]TransactionMeta
	outputs map[wire.OutPoint]*UTXOEntry
	spent   map[wire.OutPoint]bool
}

// NewMockChain returns an empty MockChain.
func NewMockChain() *MockChain {
	return &MockChain{
		meta:    make(map[chainhash.Hash]TransactionMeta),
		outputs: make(map[wire.OutPoint]*UTXOEntry),
		spent:   make(map[wire.OutPoint]bool),
	}
}

// SetHeight records the current chain height, used for BestBlock and for
// coinbase-maturity comparisons by callers.
func (m *MockChain) SetHeight(height uint32, hash chainhash.Hash) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.height = height
	m.best = hash
}

// AddConfirmed records a confirmed transaction's outputs at the given
// height, as if a block had just been connected.
func (m *MockChain) AddConfirmed(tx *wire.MsgTx, height uint32, isCoinbase bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	txHash := tx.TxHash()
	m.meta[txHash] = TransactionMeta{
		Height:       height,
		IsCoinbase:   isCoinbase,
		OutputsSpent: make([]bool, len(tx.TxOut)),
	}
	for i, out := range tx.TxOut {
		op := wire.OutPoint{Hash: txHash, Index: uint32(i)}
		m.outputs[op] = NewUTXOEntry(out, isCoinbase, height)
	}
}

// MarkSpent marks outpoint as consumed by a confirmed transaction.
func (m *MockChain) MarkSpent(outpoint wire.OutPoint) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.spent[outpoint] = true
}

// TransactionMeta implements StorageProvider.
func (m *MockChain) TransactionMeta(txHash *chainhash.Hash) (TransactionMeta, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	meta, ok := m.meta[*txHash]
	return meta, ok
}

// TransactionOutput implements StorageProvider. boundTxIndex is unused by
// the mock: it has no notion of in-block transaction ordering since it
// only ever models already-confirmed state.
func (m *MockChain) TransactionOutput(outpoint wire.OutPoint, boundTxIndex int) (*wire.TxOut, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	entry, ok := m.outputs[outpoint]
	if !ok {
		return nil, false
	}
	return entry.ToTxOut(), true
}

// Output implements OutputProvider.
func (m *MockChain) Output(outpoint wire.OutPoint) (*wire.TxOut, bool) {
	return m.TransactionOutput(outpoint, -1)
}

// IsSpent implements StorageProvider.
func (m *MockChain) IsSpent(outpoint wire.OutPoint) bool {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.spent[outpoint]
}

// BestBlock implements StorageProvider.
func (m *MockChain) BestBlock() BestBlockInfo {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return BestBlockInfo{Hash: m.best, Number: m.height}
}

// TransactionsWithOutputAddress implements StorageProvider. Not
// exercised by the acceptance pipeline; returns nil.
func (m *MockChain) TransactionsWithOutputAddress(scriptHash []byte) []wire.OutPoint {
	return nil
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// nextPowerOfTwo returns the next highest power of two from n, or n
// itself if it is already a power of two. A helper for building the
// merkle tree's linear array representation.
func nextPowerOfTwo(n int) int {
	if n&(n-1) == 0 {
		return n
	}
	exponent := 0
	for 1<<uint(exponent) < n {
		exponent++
	}
	return 1 << uint(exponent)
}

func hashMerkleBranches(left, right *chainhash.Hash) *chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])
	newHash := chainhash.DoubleHashH(buf[:])
	return &newHash
}

// merkleRoot builds a merkle tree over hashes, laid out as the linear
// array representation used throughout Bitcoin-derived clients, and
// returns its root.
func merkleRoot(hashes []*chainhash.Hash) *chainhash.Hash {
	if len(hashes) == 0 {
		var zero chainhash.Hash
		return &zero
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	nextPoT := nextPowerOfTwo(len(hashes))
	arraySize := nextPoT*2 - 1
	merkles := make([]*chainhash.Hash, arraySize)
	copy(merkles, hashes)

	offset := nextPoT
	for i := 0; i < arraySize-1; i += 2 {
		switch {
		case merkles[i] == nil:
			merkles[offset] = nil
		case merkles[i+1] == nil:
			merkles[offset] = hashMerkleBranches(merkles[i], merkles[i])
		default:
			merkles[offset] = hashMerkleBranches(merkles[i], merkles[i+1])
		}
		offset++
	}

	return merkles[len(merkles)-1]
}

// WitnessMerkleRoot computes the merkle root over the witness-ID hash
// of each transaction (the coinbase contributes the all-zero hash, per
// the segwit commitment convention), matching the
// merkle-root-binds-the-transaction-set role spec.md's GLOSSARY assigns
// it.
func WitnessMerkleRoot(txs []*btcutil.Tx) *chainhash.Hash {
	hashes := make([]*chainhash.Hash, len(txs))
	for i, tx := range txs {
		if i == 0 {
			var zero chainhash.Hash
			hashes[i] = &zero
			continue
		}
		wid := tx.MsgTx().WitnessHash()
		hashes[i] = &wid
	}
	return merkleRoot(hashes)
}

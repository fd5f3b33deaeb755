// Copyright 2026 The starcoin-core Authors
// This file is part of the starcoin-core library.
//
// The starcoin-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The starcoin-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the starcoin-core library. If not, see <http://www.gnu.org/licenses/>.

package accumulator

import (
	"fmt"
	"sync"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/starerr"
	"github.com/starcoinorg/starcoin-core/storage"
)

// Accumulator is a Merkle mountain range: an append-only log of leaf hashes
// whose root can be recomputed in O(log n) per append and whose historical
// shape (the frozen subtree roots) is enough to resume appending without
// replaying every prior leaf.
//
// Append only mutates in-memory state; Flush persists the nodes created
// since the last Flush through writer, mirroring the trait's separate
// append/flush operations and letting a caller (OpenedBlock, a block
// commit) batch the accumulator's writes atomically with the rest of a
// block's state changes.
type Accumulator struct {
	mu sync.Mutex

	store *storage.CachedAccess[NodeIndex, common.Hash]

	numLeaves uint64
	numNodes  uint64
	peaks     []NodeIndex
	root      common.Hash

	pending map[NodeIndex]common.Hash
}

// New opens an Accumulator over db under the given column family, starting
// empty (genesis state: zero leaves, zero root).
func New(db storage.KeyValueStore, cf string) (*Accumulator, error) {
	store, err := storage.NewCachedAccess[NodeIndex, common.Hash](db, nodeSchema{cf: cf}, NodeCacheSize)
	if err != nil {
		return nil, err
	}
	return &Accumulator{store: store, root: common.ZeroHash, pending: make(map[NodeIndex]common.Hash)}, nil
}

// NewWithInfo reopens an Accumulator at a previously persisted shape, the Go
// counterpart of MerkleAccumulator::new_with_info.
func NewWithInfo(db storage.KeyValueStore, cf string, info types.AccumulatorInfo) (*Accumulator, error) {
	a, err := New(db, cf)
	if err != nil {
		return nil, err
	}
	a.numLeaves = info.NumLeaves
	a.numNodes = info.NumNodes
	a.root = info.AccumulatorRoot
	a.peaks = peaksFromFrozenRoots(info.NumLeaves)
	return a, nil
}

// peaksFromFrozenRoots reconstructs the expected (level, pos) for every
// frozen subtree implied by numLeaves's binary representation, largest
// (leftmost) first — the same order Append naturally produces.
func peaksFromFrozenRoots(numLeaves uint64) []NodeIndex {
	var peaks []NodeIndex
	if numLeaves == 0 {
		return peaks
	}
	var consumed uint64
	for level := MaxProofDepth; level >= 0; level-- {
		size := uint64(1) << uint(level)
		if numLeaves&size != 0 {
			startLeaf := consumed
			peaks = append(peaks, NodeIndex{Level: uint8(level), Pos: startLeaf / size})
			consumed += size
		}
		if level == 0 {
			break
		}
	}
	return peaks
}

func (a *Accumulator) readNode(idx NodeIndex) (common.Hash, error) {
	if h, ok := a.pending[idx]; ok {
		return h, nil
	}
	return a.store.Read(idx)
}

func (a *Accumulator) hasNode(idx NodeIndex) (bool, error) {
	if _, ok := a.pending[idx]; ok {
		return true, nil
	}
	return a.store.Has(idx)
}

// Append adds new leaf hashes to the log and returns the resulting root.
func (a *Accumulator) Append(leaves []common.Hash) (common.Hash, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, leafHash := range leaves {
		if a.numLeaves >= MaxLeaves {
			return common.ZeroHash, fmt.Errorf("accumulator: leaf count exceeds MaxLeaves: %w", starerr.NewInvariantViolation("accumulator.Append", "leaf count overflow"))
		}
		cur := leafNodeIndex(a.numLeaves)
		a.pending[cur] = leafHash
		a.numNodes++
		curHash := leafHash

		for len(a.peaks) > 0 && a.peaks[len(a.peaks)-1].Level == cur.Level {
			leftIdx := a.peaks[len(a.peaks)-1]
			leftHash, err := a.readNode(leftIdx)
			if err != nil {
				return common.ZeroHash, err
			}
			a.peaks = a.peaks[:len(a.peaks)-1]

			parentIdx := parentOf(leftIdx)
			combined := common.Keccak256Hash(leftHash.Bytes(), curHash.Bytes())
			a.pending[parentIdx] = combined
			a.numNodes++

			cur = parentIdx
			curHash = combined
		}
		a.peaks = append(a.peaks, cur)
		a.numLeaves++
	}

	root, err := a.bagPeaks()
	if err != nil {
		return common.ZeroHash, err
	}
	a.root = root
	return root, nil
}

func (a *Accumulator) bagPeaks() (common.Hash, error) {
	if len(a.peaks) == 0 {
		return common.ZeroHash, nil
	}
	hashes := make([]common.Hash, len(a.peaks))
	for i, p := range a.peaks {
		h, err := a.readNode(p)
		if err != nil {
			return common.ZeroHash, err
		}
		hashes[i] = h
	}
	return bagPeakHashes(hashes), nil
}

// bagPeakHashes folds the peak hashes (ordered largest/leftmost first) into
// a single root, combining from the most recent (rightmost) peak leftward:
// root = H(peaks[0], H(peaks[1], H(..., peaks[n-1]))).
func bagPeakHashes(hashes []common.Hash) common.Hash {
	acc := hashes[len(hashes)-1]
	for i := len(hashes) - 2; i >= 0; i-- {
		acc = common.Keccak256Hash(hashes[i].Bytes(), acc.Bytes())
	}
	return acc
}

// Flush persists every node created since the last Flush through writer.
func (a *Accumulator) Flush(writer storage.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.pending) == 0 {
		return nil
	}
	items := make([]storage.KV[NodeIndex, common.Hash], 0, len(a.pending))
	for idx, h := range a.pending {
		items = append(items, storage.KV[NodeIndex, common.Hash]{Key: idx, Value: h})
	}
	if err := a.store.WriteMany(writer, items); err != nil {
		return err
	}
	a.pending = make(map[NodeIndex]common.Hash)
	return nil
}

// GetLeaf returns the leaf hash at leafIndex, or starerr.ErrKeyNotFound.
func (a *Accumulator) GetLeaf(leafIndex uint64) (common.Hash, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if leafIndex >= a.numLeaves {
		return common.ZeroHash, starerr.ErrKeyNotFound
	}
	return a.readNode(leafNodeIndex(leafIndex))
}

// GetLeaves batch-reads up to maxSize leaves starting at startIndex, walking
// backward (toward index 0) when reverse is set.
func (a *Accumulator) GetLeaves(startIndex uint64, reverse bool, maxSize uint64) ([]common.Hash, error) {
	a.mu.Lock()
	numLeaves := a.numLeaves
	a.mu.Unlock()

	var indices []uint64
	if reverse {
		end := startIndex + 1
		if end > numLeaves {
			end = numLeaves
		}
		begin := uint64(0)
		if end > maxSize {
			begin = end - maxSize
		}
		for i := end; i > begin; i-- {
			indices = append(indices, i-1)
		}
	} else {
		end := startIndex + maxSize
		if end > numLeaves {
			end = numLeaves
		}
		for i := startIndex; i < end; i++ {
			indices = append(indices, i)
		}
	}

	out := make([]common.Hash, 0, len(indices))
	for _, idx := range indices {
		h, err := a.GetLeaf(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// GetNodeByPosition returns the node hash at a packed NodeIndex position.
func (a *Accumulator) GetNodeByPosition(position uint64) (common.Hash, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := UnpackPosition(position)
	ok, err := a.hasNode(idx)
	if err != nil {
		return common.ZeroHash, err
	}
	if !ok {
		return common.ZeroHash, starerr.ErrKeyNotFound
	}
	return a.readNode(idx)
}

// RootHash returns the current root.
func (a *Accumulator) RootHash() common.Hash {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.root
}

// NumLeaves returns the current leaf count.
func (a *Accumulator) NumLeaves() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.numLeaves
}

// NumNodes returns the total node count (leaves plus internal nodes) ever
// created.
func (a *Accumulator) NumNodes() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.numNodes
}

// GetFrozenSubtreeRoots returns the current peak hashes, largest (leftmost)
// first.
func (a *Accumulator) GetFrozenSubtreeRoots() ([]common.Hash, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]common.Hash, len(a.peaks))
	for i, p := range a.peaks {
		h, err := a.readNode(p)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

// GetInfo snapshots the accumulator's externally-visible shape.
func (a *Accumulator) GetInfo() (types.AccumulatorInfo, error) {
	frozen, err := a.GetFrozenSubtreeRoots()
	if err != nil {
		return types.AccumulatorInfo{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return types.AccumulatorInfo{
		AccumulatorRoot: a.root,
		FrozenSubtrees:  frozen,
		NumLeaves:       a.numLeaves,
		NumNodes:        a.numNodes,
	}, nil
}

// Fork creates a new Accumulator sharing the same underlying node store
// (nodes are content-addressed and never mutated, so sharing storage is
// safe) but pinned to info's shape, the Go counterpart of
// MerkleAccumulator::fork. A nil info forks at the current shape.
func (a *Accumulator) Fork(info *types.AccumulatorInfo) (*Accumulator, error) {
	var snap types.AccumulatorInfo
	if info != nil {
		snap = *info
	} else {
		var err error
		snap, err = a.GetInfo()
		if err != nil {
			return nil, err
		}
	}
	forked := &Accumulator{
		store:     a.store,
		numLeaves: snap.NumLeaves,
		numNodes:  snap.NumNodes,
		root:      snap.AccumulatorRoot,
		peaks:     peaksFromFrozenRoots(snap.NumLeaves),
		pending:   make(map[NodeIndex]common.Hash),
	}
	return forked, nil
}

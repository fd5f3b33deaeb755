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

package dag

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/holiman/bloomfilter/v2"
	"github.com/holiman/uint256"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/reachability"
	"github.com/starcoinorg/starcoin-core/starerr"
	"github.com/starcoinorg/starcoin-core/storage"
)

// presentFilterElements/presentFilterFP size the HasBlock membership-hint
// bloom filter: sized for a large chain, tuned for a low false-positive
// rate since a false positive only costs one extra disk lookup, while a
// false negative would be a correctness bug (never happens: Contains is
// used only to short-circuit true negatives, every positive still falls
// through to the authoritative CachedAccess.Has check below).
const (
	presentFilterElements = 4_000_000
	presentFilterFP       = 0.001
)

func hashFilterKey(h common.Hash) uint64 {
	return binary.LittleEndian.Uint64(h[:8])
}

// BlockDAG is the single-writer, many-reader block DAG described by spec.md
// §4.4: header/relations/block-info storage plus the reachability index
// (C3) that answers ancestry queries.
type BlockDAG struct {
	mu sync.Mutex

	params Params

	headers    *storage.CachedAccess[common.Hash, *types.Header]
	blockInfos *storage.CachedAccess[common.Hash, *types.BlockInfo]
	relations  *storage.CachedAccess[common.Hash, *relations]
	tips       *storage.CachedAccess[tipsKey, common.HashSlice]
	bodies     *storage.CachedAccess[common.Hash, *types.Body]

	// present is a membership-hint bloom filter over every inserted block
	// hash, letting HasBlock -- sync's hottest query, run once per parent
	// per received block -- reject a definitely-absent hash without a
	// cache/disk round trip; a positive still falls through to headers.Has.
	present *bloomfilter.Filter

	reach *reachability.ReachabilityIndex
}

// New opens a BlockDAG over db. Call Init once before any insertion to seed
// the reachability index's Origin node.
func New(db storage.KeyValueStore, params Params) (*BlockDAG, error) {
	headers, err := storage.NewCachedAccess[common.Hash, *types.Header](db, headerSchema{}, DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	blockInfos, err := storage.NewCachedAccess[common.Hash, *types.BlockInfo](db, blockInfoSchema{}, DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	rels, err := storage.NewCachedAccess[common.Hash, *relations](db, relationsSchema{}, DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	tips, err := storage.NewCachedAccess[tipsKey, common.HashSlice](db, tipsSchema{}, 1)
	if err != nil {
		return nil, err
	}
	bodies, err := storage.NewCachedAccess[common.Hash, *types.Body](db, bodySchema{}, DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	reach, err := reachability.New(db, reachability.DefaultNodeCacheSize)
	if err != nil {
		return nil, err
	}
	present, err := bloomfilter.NewOptimal(presentFilterElements, presentFilterFP)
	if err != nil {
		return nil, fmt.Errorf("dag: building present-block filter: %w", err)
	}
	existing, err := headers.SeekIterator(nil, 0, false)
	if err != nil {
		return nil, fmt.Errorf("dag: scanning headers to seed present-block filter: %w", err)
	}
	for _, row := range existing {
		present.Add(hashFilterKey(row.Value.Id()))
	}
	return &BlockDAG{
		params:     params,
		headers:    headers,
		blockInfos: blockInfos,
		relations:  rels,
		tips:       tips,
		bodies:     bodies,
		present:    present,
		reach:      reach,
	}, nil
}

// Init seeds the reachability index. Idempotent; safe on every startup.
func (d *BlockDAG) Init(writer storage.Writer) error {
	return d.reach.Init(writer)
}

// InsertGenesis records header and its body as the DAG's single root block,
// parented at the reachability index's Origin sentinel. Must be called
// exactly once, after Init, before any InsertBlock call.
func (d *BlockDAG) InsertGenesis(writer storage.Writer, header *types.Header, body *types.Body) (*types.BlockInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	hash := header.Id()
	if err := d.reach.AddTreeBlock(writer, hash, common.Origin, reachability.DefaultReindexDepth, reachability.DefaultReindexSlack); err != nil {
		return nil, err
	}

	diff := header.Difficulty
	if diff == nil {
		diff = uint256.NewInt(0)
	}
	info := &types.BlockInfo{
		BlockHash:       hash,
		TotalDifficulty: new(uint256.Int).Set(diff),
		BlueScore:       0,
	}

	if err := d.headers.Write(writer, hash, header); err != nil {
		return nil, err
	}
	if err := d.blockInfos.Write(writer, hash, info); err != nil {
		return nil, err
	}
	if err := d.bodies.Write(writer, hash, body); err != nil {
		return nil, err
	}
	rel := &relations{SelectedParent: common.Origin}
	if err := d.relations.Write(writer, hash, rel); err != nil {
		return nil, err
	}
	if err := d.tips.Write(writer, tipsSingleton, common.HashSlice{hash}); err != nil {
		return nil, err
	}
	d.present.Add(hashFilterKey(hash))

	return info, nil
}

// InsertBlock runs the insertion pipeline of spec.md §4.4 for a validated
// block with header, body, and parents: selected-parent choice by GHOSTDAG
// blue score, reachability wiring, and atomic persistence of
// header/info/body/relations through writer. body is eligible for deletion
// by a later GeneratePruningPoint/PruneBodies call once this block falls
// below the pruning point; header and reachability state are retained
// regardless.
func (d *BlockDAG) InsertBlock(writer storage.Writer, header *types.Header, body *types.Body, parents []common.Hash) (*types.BlockInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(parents) == 0 {
		return nil, starerr.NewInvariantViolation("dag.InsertBlock", "non-genesis block must name at least one parent")
	}

	hash := header.Id()

	parentInfos := make(map[common.Hash]*types.BlockInfo, len(parents))
	for _, p := range parents {
		info, err := d.blockInfos.Read(p)
		if err != nil {
			if errors.Is(err, starerr.ErrKeyNotFound) {
				return nil, fmt.Errorf("dag: parent %s: %w", p, starerr.ErrParentNotFound)
			}
			return nil, err
		}
		parentInfos[p] = info
	}

	selectedParent := parents[0]
	for _, p := range parents[1:] {
		if isLess(parentInfos[selectedParent], selectedParent, parentInfos[p], p) {
			selectedParent = p
		}
	}

	mergeSet, err := d.computeMergeSet(selectedParent, parents)
	if err != nil {
		return nil, err
	}
	ordered, _, err := d.orderMergeSet(mergeSet)
	if err != nil {
		return nil, err
	}

	var blues []common.Hash
	for _, c := range ordered {
		blue, err := d.isBlueCandidate(c, blues, d.params.K)
		if err != nil {
			return nil, err
		}
		if blue {
			blues = append(blues, c)
		}
	}

	selectedParentInfo := parentInfos[selectedParent]
	diff := header.Difficulty
	if diff == nil {
		diff = uint256.NewInt(0)
	}
	td := new(uint256.Int).Add(selectedParentInfo.TotalDifficulty, diff)

	info := &types.BlockInfo{
		BlockHash:       hash,
		TotalDifficulty: td,
		BlueScore:       selectedParentInfo.BlueScore + uint64(len(blues)) + 1,
	}

	if err := d.reach.AddTreeBlock(writer, hash, selectedParent, reachability.DefaultReindexDepth, reachability.DefaultReindexSlack); err != nil {
		return nil, err
	}
	for _, p := range parents {
		if p == selectedParent {
			continue
		}
		if err := d.reach.InsertFutureCoveringSetEntry(writer, p, hash); err != nil {
			return nil, err
		}
	}

	if err := d.headers.Write(writer, hash, header); err != nil {
		return nil, err
	}
	if err := d.blockInfos.Write(writer, hash, info); err != nil {
		return nil, err
	}
	if err := d.bodies.Write(writer, hash, body); err != nil {
		return nil, err
	}
	rel := &relations{Parents: append([]common.Hash(nil), parents...), SelectedParent: selectedParent}
	if err := d.relations.Write(writer, hash, rel); err != nil {
		return nil, err
	}
	for _, p := range parents {
		prel, err := d.relations.Read(p)
		if err != nil {
			return nil, err
		}
		prel.Children = append(prel.Children, hash)
		if err := d.relations.Write(writer, p, prel); err != nil {
			return nil, err
		}
	}

	if err := d.updateTips(writer, parents, hash); err != nil {
		return nil, err
	}
	d.present.Add(hashFilterKey(hash))

	return info, nil
}

func (d *BlockDAG) updateTips(writer storage.Writer, parents []common.Hash, newHash common.Hash) error {
	current, err := d.tips.Read(tipsSingleton)
	if err != nil {
		if !errors.Is(err, starerr.ErrKeyNotFound) {
			return err
		}
		current = nil
	}
	parentSet := make(map[common.Hash]bool, len(parents))
	for _, p := range parents {
		parentSet[p] = true
	}
	next := make(common.HashSlice, 0, len(current)+1)
	for _, t := range current {
		if !parentSet[t] {
			next = append(next, t)
		}
	}
	next = append(next, newHash)
	return d.tips.Write(writer, tipsSingleton, next)
}

// Tips returns the current set of blocks with no known children.
func (d *BlockDAG) Tips() ([]common.Hash, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tips, err := d.tips.Read(tipsSingleton)
	if err != nil {
		return nil, err
	}
	return append([]common.Hash(nil), tips...), nil
}

// SelectedTip returns the current tip with the highest blue score, tied
// broken by hash exactly as kaspad's blockNode.less.
func (d *BlockDAG) SelectedTip() (common.Hash, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tips, err := d.tips.Read(tipsSingleton)
	if err != nil {
		return common.Hash{}, err
	}
	if len(tips) == 0 {
		return common.Hash{}, starerr.NewInvariantViolation("dag.SelectedTip", "no tips recorded")
	}
	best := tips[0]
	bestInfo, err := d.blockInfos.Read(best)
	if err != nil {
		return common.Hash{}, err
	}
	for _, t := range tips[1:] {
		info, err := d.blockInfos.Read(t)
		if err != nil {
			return common.Hash{}, err
		}
		if isLess(bestInfo, best, info, t) {
			best, bestInfo = t, info
		}
	}
	return best, nil
}

// GetHeader returns the stored header for hash.
func (d *BlockDAG) GetHeader(hash common.Hash) (*types.Header, error) {
	return d.headers.Read(hash)
}

// GetBlockInfo returns the stored GHOSTDAG summary for hash.
func (d *BlockDAG) GetBlockInfo(hash common.Hash) (*types.BlockInfo, error) {
	return d.blockInfos.Read(hash)
}

// GetBody returns hash's stored body, or starerr.ErrKeyNotFound if hash has
// been pruned (spec.md §8 Scenario 6: header retrieval still succeeds,
// body retrieval returns None) or was never inserted.
func (d *BlockDAG) GetBody(hash common.Hash) (*types.Body, error) {
	return d.bodies.Read(hash)
}

// HasBlock reports whether hash has already been inserted. The bloom
// filter rejects a definitely-absent hash without touching the cache or
// disk; a positive (true or false-positive) falls through to the
// authoritative CachedAccess check.
func (d *BlockDAG) HasBlock(hash common.Hash) (bool, error) {
	if !d.present.Contains(hashFilterKey(hash)) {
		return false, nil
	}
	return d.headers.Has(hash)
}

// IsChainAncestor reports whether a is a's selected-parent-tree ancestor of b.
func (d *BlockDAG) IsChainAncestor(a, b common.Hash) (bool, error) {
	return d.reach.IsChainAncestor(a, b)
}

// IsDagAncestor reports whether a is a DAG ancestor of b (tree ancestry, or
// reachable via a future-covering-set entry).
func (d *BlockDAG) IsDagAncestor(a, b common.Hash) (bool, error) {
	return d.reach.IsDagAncestor(a, b)
}

// isLess mirrors kaspad's blockNode.less: a is "less than" b if a has the
// lower blue score, or equal blue score and a lexicographically smaller
// hash (so on a tie the larger hash wins selected-parent/tip precedence).
func isLess(aInfo *types.BlockInfo, a common.Hash, bInfo *types.BlockInfo, b common.Hash) bool {
	if aInfo.BlueScore != bInfo.BlueScore {
		return aInfo.BlueScore < bInfo.BlueScore
	}
	return a.Less(b)
}

func (d *BlockDAG) orderMergeSet(mergeSet []common.Hash) ([]common.Hash, map[common.Hash]*types.BlockInfo, error) {
	infos := make(map[common.Hash]*types.BlockInfo, len(mergeSet))
	for _, h := range mergeSet {
		info, err := d.blockInfos.Read(h)
		if err != nil {
			return nil, nil, err
		}
		infos[h] = info
	}
	ordered := append([]common.Hash(nil), mergeSet...)
	sort.Slice(ordered, func(i, j int) bool {
		return isLess(infos[ordered[i]], ordered[i], infos[ordered[j]], ordered[j])
	})
	return ordered, infos, nil
}

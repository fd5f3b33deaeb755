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
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage"
)

// GeneratePruningPoint computes the pruning point for tip per spec.md §4.4:
// the deepest selected-parent-chain ancestor of tip at blue-score distance at
// least pruningDepth, required to additionally sit pruningFinality deeper as
// the stability margin (the extra distance past which a reorg is assumed
// unable to re-root the chain, mirroring original_source's
// pruning_point_service.rs epoch-driven (pruning_depth, pruning_finality)
// pair). Returns common.Origin if tip is not yet deep enough for any block
// but the genesis to qualify.
func (d *BlockDAG) GeneratePruningPoint(tip common.Hash, pruningDepth, pruningFinality uint64) (common.Hash, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tipInfo, err := d.blockInfos.Read(tip)
	if err != nil {
		return common.Hash{}, err
	}

	distance := pruningDepth + pruningFinality
	if tipInfo.BlueScore < distance {
		return common.Origin, nil
	}
	targetScore := tipInfo.BlueScore - distance

	return d.selectedAncestorByBlueScore(tip, targetScore)
}

// PruneBodies deletes the body of every selected-parent-chain ancestor
// strictly below pruningPoint, per spec.md §4.4: "bodies of blocks not
// reachable from the pruning point MAY be deleted; headers and
// reachability nodes are retained." Headers, block-info, and reachability
// state for those ancestors are untouched -- only the bodyCF entry is
// removed -- and pruningPoint's own body is kept, since pruningPoint
// itself remains reachable. Returns the number of bodies deleted.
func (d *BlockDAG) PruneBodies(writer storage.Writer, pruningPoint common.Hash) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pruningPoint == common.Origin {
		return 0, nil
	}

	rel, err := d.relations.Read(pruningPoint)
	if err != nil {
		return 0, err
	}

	deleted := 0
	current := rel.SelectedParent
	for current != common.Origin {
		has, err := d.bodies.Has(current)
		if err != nil {
			return deleted, err
		}
		if has {
			if err := d.bodies.Delete(writer, current); err != nil {
				return deleted, err
			}
			deleted++
		}
		rel, err := d.relations.Read(current)
		if err != nil {
			return deleted, err
		}
		current = rel.SelectedParent
	}
	return deleted, nil
}

// selectedAncestorByBlueScore walks tip's selected-parent chain backward
// until it reaches the first ancestor whose blue score is at most
// targetScore, mirroring kaspad's blockNode.SelectedAncestor.
func (d *BlockDAG) selectedAncestorByBlueScore(tip common.Hash, targetScore uint64) (common.Hash, error) {
	current := tip
	for {
		info, err := d.blockInfos.Read(current)
		if err != nil {
			return common.Hash{}, err
		}
		if info.BlueScore <= targetScore {
			return current, nil
		}
		rel, err := d.relations.Read(current)
		if err != nil {
			return common.Hash{}, err
		}
		if rel.SelectedParent == common.Origin {
			return current, nil
		}
		current = rel.SelectedParent
	}
}

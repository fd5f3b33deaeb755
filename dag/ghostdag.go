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

import "github.com/starcoinorg/starcoin-core/common"

// computeMergeSet walks back from every parent other than selectedParent,
// collecting blocks that are in the new block's past but not already in
// selectedParent's past (i.e. past(B) \ past(selectedParent), the GHOSTDAG
// merge set). The walk stops at any block already reachable from
// selectedParent (IsDagAncestor(x, selectedParent)) and at Origin.
func (d *BlockDAG) computeMergeSet(selectedParent common.Hash, parents []common.Hash) ([]common.Hash, error) {
	visited := map[common.Hash]bool{selectedParent: true}
	var mergeSet []common.Hash
	queue := make([]common.Hash, 0, len(parents))
	for _, p := range parents {
		if p != selectedParent && !visited[p] {
			visited[p] = true
			queue = append(queue, p)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == common.Origin {
			continue
		}
		isInSelectedParentPast, err := d.reach.IsDagAncestor(cur, selectedParent)
		if err != nil {
			return nil, err
		}
		if isInSelectedParentPast {
			continue
		}

		mergeSet = append(mergeSet, cur)

		rel, err := d.relations.Read(cur)
		if err != nil {
			return nil, err
		}
		for _, pp := range rel.Parents {
			if !visited[pp] {
				visited[pp] = true
				queue = append(queue, pp)
			}
		}
	}

	return mergeSet, nil
}

// isBlueCandidate reports whether candidate may join the blue set given the
// blues already chosen earlier in this same merge (processed in blue-score
// order): candidate's anticone, restricted to chosenBlues, must have size at
// most K. This recomputes the check per insertion via reachability ancestor
// queries rather than kaspad's amortized per-block bluesAnticoneSizes
// bookkeeping (not present anywhere in the retrieval pack); see DESIGN.md.
func (d *BlockDAG) isBlueCandidate(candidate common.Hash, chosenBlues []common.Hash, k uint64) (bool, error) {
	var anticoneSize uint64
	for _, b := range chosenBlues {
		related, err := d.isDagRelated(b, candidate)
		if err != nil {
			return false, err
		}
		if !related {
			anticoneSize++
			if anticoneSize > k {
				return false, nil
			}
		}
	}
	return true, nil
}

// isDagRelated reports whether a and b are ancestor-related in either
// direction (the complement of being in each other's anticone).
func (d *BlockDAG) isDagRelated(a, b common.Hash) (bool, error) {
	if a == b {
		return true, nil
	}
	ok, err := d.reach.IsDagAncestor(a, b)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return d.reach.IsDagAncestor(b, a)
}

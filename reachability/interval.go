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

// Package reachability implements the interval-labelled tree reachability
// index (component C3): O(1) chain-ancestor queries via interval
// containment, capacity-triggered reindexing, and reindex-root advancement
// along the selected-parent chain. It is grounded on
// original_source/flexidag/dag/src/reachability/tree.rs, which defines
// add_tree_block, find_common_tree_ancestor, find_next_reindex_root and
// try_advancing_reindex_root; the sibling reindex.rs (ReindexOperationContext)
// was not present in the retrieval pack, so the bottom-up size count / top-down
// proportional re-allocation in reindex.go is this package's own
// implementation of the behavior tree.rs describes (subtree capacity
// proportional to subtree size plus reindex_slack headroom), expressed in the
// idiom of kaspad's blockNode-family Go code in other_examples.
package reachability

import "github.com/starcoinorg/starcoin-core/common"

// Interval is a half-open range [Start, End) labelling one node's subtree
// capacity, spec.md §4.3's [2]uint64 interval.
type Interval struct {
	Start uint64
	End   uint64
}

// Size reports how many discrete slots the interval spans.
func (iv Interval) Size() uint64 { return iv.End - iv.Start }

// IsEmpty reports a zero-width interval (no capacity to allocate a child).
func (iv Interval) IsEmpty() bool { return iv.Start == iv.End }

// Contains reports whether other is wholly inside iv — the containment test
// behind is_chain_ancestor.
func (iv Interval) Contains(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

// SplitHalf splits iv into two adjacent halves, the initial single-child
// allocation used by add_tree_block when remaining capacity exists. The
// first half rounds up on an odd width so that an interval of size 1 is
// handed entirely to the first half (the new child) and the second half
// (what remains for the next child) becomes genuinely empty — otherwise a
// remaining interval of width 1 would split into an empty first half and an
// unchanged width-1 remainder forever, and capacity exhaustion would never
// be observed.
func (iv Interval) SplitHalf() (Interval, Interval) {
	mid := iv.Start + iv.Size()/2 + iv.Size()%2
	return Interval{iv.Start, mid}, Interval{mid, iv.End}
}

// SplitExponential splits iv into len(sizes) consecutive sub-intervals sized
// proportionally to sizes (subtree node counts), each rounded up to at least
// 1 slot, used by the reindex walk to re-allocate children under a
// capacity-expanded parent interval.
func SplitExponential(iv Interval, sizes []uint64) []Interval {
	if len(sizes) == 0 {
		return nil
	}
	var total uint64
	for _, s := range sizes {
		total += s
	}
	capacity := iv.Size()
	out := make([]Interval, len(sizes))
	cursor := iv.Start
	for i, s := range sizes {
		var width uint64
		if total == 0 {
			width = capacity / uint64(len(sizes))
		} else {
			width = s*(capacity/total) + s*(capacity%total)/total
		}
		if width == 0 {
			width = 1
		}
		end := cursor + width
		if i == len(sizes)-1 || end > iv.End {
			end = iv.End
		}
		out[i] = Interval{cursor, end}
		cursor = end
	}
	return out
}

// node is the persisted reachability record for one block, spec.md §4.3's
// ReachabilityNode: interval, tree parent/children, height on the tree, and
// the future covering set used to resolve is_dag_ancestor for non-chain
// pairs.
type node struct {
	Interval          Interval
	Remaining         Interval // unallocated slice of Interval, handed to the next child
	Parent            common.Hash
	Children          []common.Hash
	Height            uint64
	FutureCoveringSet []common.Hash // sorted by Interval.Start, for binary search
}

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

package reachability

import (
	"sort"

	"github.com/starcoinorg/starcoin-core/storage"

	"github.com/starcoinorg/starcoin-core/common"
)

// IsDagAncestor reports whether a is a DAG ancestor of b: true immediately
// if a is a chain ancestor; otherwise a binary search over a's future
// covering set looks for an entry whose interval contains b's, per spec.md
// §4.3.3. O(log n) once past the O(1) chain-ancestor check.
func (idx *ReachabilityIndex) IsDagAncestor(a, b common.Hash) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if ok, err := idx.isChainAncestor(a, b); err != nil {
		return false, err
	} else if ok {
		return true, nil
	}

	an, err := idx.getNode(a)
	if err != nil {
		return false, err
	}
	bn, err := idx.getNode(b)
	if err != nil {
		return false, err
	}
	if len(an.FutureCoveringSet) == 0 {
		return false, nil
	}

	// an.FutureCoveringSet is kept sorted by each entry's Interval.Start;
	// find the last entry whose Start does not exceed b's, then check
	// containment (intervals in the set are pairwise disjoint subtree
	// ranges, so at most one candidate can contain b).
	entries := make([]Interval, len(an.FutureCoveringSet))
	for i, h := range an.FutureCoveringSet {
		n, err := idx.getNode(h)
		if err != nil {
			return false, err
		}
		entries[i] = n.Interval
	}
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Start > bn.Interval.Start })
	if i == 0 {
		return false, nil
	}
	return entries[i-1].Contains(bn.Interval), nil
}

// InsertFutureCoveringSetEntry records that entry's subtree lies in of's DAG
// future, keeping of's future covering set sorted by interval start. Called
// by the BlockDAG (C4) whenever it discovers a non-tree-ancestor pair that
// must resolve as a DAG ancestor for later is_dag_ancestor queries.
func (idx *ReachabilityIndex) InsertFutureCoveringSetEntry(writer storage.Writer, of, entry common.Hash) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	n, err := idx.getNode(of)
	if err != nil {
		return err
	}
	entryNode, err := idx.getNode(entry)
	if err != nil {
		return err
	}

	intervals := make([]Interval, len(n.FutureCoveringSet))
	for i, h := range n.FutureCoveringSet {
		hn, err := idx.getNode(h)
		if err != nil {
			return err
		}
		intervals[i] = hn.Interval
	}
	pos := sort.Search(len(intervals), func(i int) bool { return intervals[i].Start >= entryNode.Interval.Start })

	n.FutureCoveringSet = append(n.FutureCoveringSet, common.Hash{})
	copy(n.FutureCoveringSet[pos+1:], n.FutureCoveringSet[pos:])
	n.FutureCoveringSet[pos] = entry

	return idx.writeNode(writer, of, n)
}

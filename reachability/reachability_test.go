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
	"testing"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage/memorydb"
)

func h(b byte) common.Hash {
	var hh common.Hash
	hh[common.HashLength-1] = b
	return hh
}

func newTestIndex(t *testing.T) (*ReachabilityIndex, *memorydb.Database) {
	t.Helper()
	db := memorydb.New()
	idx, err := New(db, DefaultNodeCacheSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := idx.Init(db); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return idx, db
}

func TestIntervalSplitHalf(t *testing.T) {
	iv := Interval{Start: 0, End: 10}
	left, right := iv.SplitHalf()
	if left.Start != 0 || left.End != 5 || right.Start != 5 || right.End != 10 {
		t.Fatalf("SplitHalf = (%v, %v)", left, right)
	}
}

func TestIntervalContains(t *testing.T) {
	outer := Interval{Start: 0, End: 100}
	inner := Interval{Start: 10, End: 20}
	if !outer.Contains(inner) {
		t.Error("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Error("inner should not contain outer")
	}
}

func TestAddTreeBlockSimpleChain(t *testing.T) {
	idx, db := newTestIndex(t)
	a, b, c := h(1), h(2), h(3)

	if err := idx.AddTreeBlock(db, a, common.Origin, DefaultReindexDepth, DefaultReindexSlack); err != nil {
		t.Fatalf("AddTreeBlock a: %v", err)
	}
	if err := idx.AddTreeBlock(db, b, a, DefaultReindexDepth, DefaultReindexSlack); err != nil {
		t.Fatalf("AddTreeBlock b: %v", err)
	}
	if err := idx.AddTreeBlock(db, c, b, DefaultReindexDepth, DefaultReindexSlack); err != nil {
		t.Fatalf("AddTreeBlock c: %v", err)
	}

	for _, pair := range [][2]common.Hash{{a, b}, {a, c}, {b, c}, {common.Origin, c}} {
		ok, err := idx.IsChainAncestor(pair[0], pair[1])
		if err != nil {
			t.Fatalf("IsChainAncestor: %v", err)
		}
		if !ok {
			t.Errorf("expected %v to be a chain ancestor of %v", pair[0], pair[1])
		}
	}

	ok, err := idx.IsChainAncestor(c, a)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("c should not be an ancestor of a")
	}
}

func TestAddTreeBlockSiblingsHaveDisjointIntervals(t *testing.T) {
	idx, db := newTestIndex(t)
	parent := h(1)
	if err := idx.AddTreeBlock(db, parent, common.Origin, DefaultReindexDepth, DefaultReindexSlack); err != nil {
		t.Fatal(err)
	}

	var children []common.Hash
	for i := byte(2); i < 40; i++ {
		c := h(i)
		if err := idx.AddTreeBlock(db, c, parent, DefaultReindexDepth, DefaultReindexSlack); err != nil {
			t.Fatalf("AddTreeBlock sibling %d: %v", i, err)
		}
		children = append(children, c)
	}

	intervals := make([]Interval, len(children))
	for i, c := range children {
		iv, err := idx.GetInterval(c)
		if err != nil {
			t.Fatal(err)
		}
		intervals[i] = iv
		if iv.IsEmpty() {
			t.Errorf("sibling %d got an empty interval", i)
		}
	}
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			a, b := intervals[i], intervals[j]
			overlap := a.Start < b.End && b.Start < a.End
			if overlap {
				t.Errorf("siblings %d and %d have overlapping intervals %v / %v", i, j, a, b)
			}
		}
	}
}

func TestAddTreeBlockUnknownParent(t *testing.T) {
	idx, db := newTestIndex(t)
	if err := idx.AddTreeBlock(db, h(9), h(8), DefaultReindexDepth, DefaultReindexSlack); err == nil {
		t.Fatal("expected an error for an unknown parent")
	}
}

func TestReindexTriggeredAfterManySiblings(t *testing.T) {
	idx, db := newTestIndex(t)
	parent := h(200)
	if err := idx.AddTreeBlock(db, parent, common.Origin, DefaultReindexDepth, DefaultReindexSlack); err != nil {
		t.Fatal(err)
	}
	// parent's first allocation from Origin is a power-of-two-sized
	// interval; halving it on every single-child append exhausts it to
	// exactly zero after the 64th sibling, so the 65th forces a reindex.
	// Every sibling, including the one that triggers it, must come out with
	// a non-empty interval.
	for i := byte(0); i < 65; i++ {
		c := common.BytesToHash([]byte{1, i})
		if err := idx.AddTreeBlock(db, c, parent, DefaultReindexDepth, DefaultReindexSlack); err != nil {
			t.Fatalf("AddTreeBlock child %d: %v", i, err)
		}
		iv, err := idx.GetInterval(c)
		if err != nil {
			t.Fatal(err)
		}
		if iv.IsEmpty() {
			t.Errorf("child %d has an empty interval after insertion", i)
		}
	}
}

func TestIsDagAncestorViaFutureCoveringSet(t *testing.T) {
	idx, db := newTestIndex(t)
	a, bBlock, c := h(1), h(2), h(3)
	if err := idx.AddTreeBlock(db, a, common.Origin, DefaultReindexDepth, DefaultReindexSlack); err != nil {
		t.Fatal(err)
	}
	if err := idx.AddTreeBlock(db, bBlock, common.Origin, DefaultReindexDepth, DefaultReindexSlack); err != nil {
		t.Fatal(err)
	}
	if err := idx.AddTreeBlock(db, c, bBlock, DefaultReindexDepth, DefaultReindexSlack); err != nil {
		t.Fatal(err)
	}

	// a and bBlock are siblings under Origin: neither is a chain ancestor of
	// the other. Simulate C4 discovering that c (a descendant of bBlock) is
	// in a's DAG future by recording it in a's future covering set.
	if err := idx.InsertFutureCoveringSetEntry(db, a, c); err != nil {
		t.Fatal(err)
	}

	ok, err := idx.IsDagAncestor(a, c)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected a to be a DAG ancestor of c via its future covering set")
	}

	ok, err = idx.IsDagAncestor(a, bBlock)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("a should not be a DAG ancestor of its sibling bBlock")
	}
}

func TestTryAdvancingReindexRootNoOpWhenHintIsRoot(t *testing.T) {
	idx, db := newTestIndex(t)
	if err := idx.TryAdvancingReindexRoot(db, common.Origin, DefaultReindexDepth, DefaultReindexSlack); err != nil {
		t.Fatal(err)
	}
	root, err := idx.GetReindexRoot()
	if err != nil {
		t.Fatal(err)
	}
	if root != common.Origin {
		t.Errorf("reindex root = %v, want Origin", root)
	}
}

func TestTryAdvancingReindexRootFollowsChain(t *testing.T) {
	idx, db := newTestIndex(t)
	current := common.Origin
	var chain []common.Hash
	for i := byte(1); i <= 10; i++ {
		c := h(i)
		if err := idx.AddTreeBlock(db, c, current, DefaultReindexDepth, DefaultReindexSlack); err != nil {
			t.Fatal(err)
		}
		chain = append(chain, c)
		current = c
	}
	tip := chain[len(chain)-1]

	if err := idx.TryAdvancingReindexRoot(db, tip, 3, 1); err != nil {
		t.Fatal(err)
	}
	root, err := idx.GetReindexRoot()
	if err != nil {
		t.Fatal(err)
	}
	isAncestor, err := idx.IsChainAncestor(root, tip)
	if err != nil {
		t.Fatal(err)
	}
	if !isAncestor {
		t.Errorf("advanced reindex root %v is not a chain ancestor of tip", root)
	}
}

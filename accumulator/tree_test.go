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
	"errors"
	"testing"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/starerr"
	"github.com/starcoinorg/starcoin-core/storage/memorydb"
)

func leaf(b byte) common.Hash {
	var h common.Hash
	h[common.HashLength-1] = b
	return h
}

func newTestAccumulator(t *testing.T) *Accumulator {
	t.Helper()
	db := memorydb.New()
	a, err := New(db, "test_acc")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestAppendSingleLeafRootIsLeaf(t *testing.T) {
	a := newTestAccumulator(t)
	l0 := leaf(1)
	root, err := a.Append([]common.Hash{l0})
	if err != nil {
		t.Fatal(err)
	}
	if root != l0 {
		t.Errorf("single-leaf root = %v, want leaf hash %v", root, l0)
	}
	if a.NumLeaves() != 1 {
		t.Errorf("NumLeaves = %d, want 1", a.NumLeaves())
	}
}

func TestAppendTwoLeavesMerges(t *testing.T) {
	a := newTestAccumulator(t)
	l0, l1 := leaf(1), leaf(2)
	root, err := a.Append([]common.Hash{l0, l1})
	if err != nil {
		t.Fatal(err)
	}
	want := common.Keccak256Hash(l0.Bytes(), l1.Bytes())
	if root != want {
		t.Errorf("two-leaf root = %v, want %v", root, want)
	}
	peaks, err := a.GetFrozenSubtreeRoots()
	if err != nil {
		t.Fatal(err)
	}
	if len(peaks) != 1 || peaks[0] != want {
		t.Errorf("peaks = %v, want single peak %v", peaks, want)
	}
}

func TestAppendThreeLeavesTwoPeaks(t *testing.T) {
	a := newTestAccumulator(t)
	l0, l1, l2 := leaf(1), leaf(2), leaf(3)
	if _, err := a.Append([]common.Hash{l0, l1, l2}); err != nil {
		t.Fatal(err)
	}
	peaks, err := a.GetFrozenSubtreeRoots()
	if err != nil {
		t.Fatal(err)
	}
	if len(peaks) != 2 {
		t.Fatalf("expected 2 peaks for 3 leaves (0b11), got %d", len(peaks))
	}
	merged01 := common.Keccak256Hash(l0.Bytes(), l1.Bytes())
	if peaks[0] != merged01 {
		t.Errorf("first peak = %v, want %v", peaks[0], merged01)
	}
	if peaks[1] != l2 {
		t.Errorf("second peak = %v, want leaf %v", peaks[1], l2)
	}
	root := a.RootHash()
	want := common.Keccak256Hash(merged01.Bytes(), l2.Bytes())
	if root != want {
		t.Errorf("root = %v, want %v", root, want)
	}
}

func TestGetLeafRoundTrip(t *testing.T) {
	a := newTestAccumulator(t)
	leaves := []common.Hash{leaf(1), leaf(2), leaf(3), leaf(4), leaf(5)}
	if _, err := a.Append(leaves); err != nil {
		t.Fatal(err)
	}
	for i, want := range leaves {
		got, err := a.GetLeaf(uint64(i))
		if err != nil {
			t.Fatalf("GetLeaf(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("GetLeaf(%d) = %v, want %v", i, got, want)
		}
	}
	if _, err := a.GetLeaf(uint64(len(leaves))); !errors.Is(err, starerr.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound past the end, got %v", err)
	}
}

func TestGetLeavesForwardAndReverse(t *testing.T) {
	a := newTestAccumulator(t)
	leaves := []common.Hash{leaf(1), leaf(2), leaf(3), leaf(4)}
	if _, err := a.Append(leaves); err != nil {
		t.Fatal(err)
	}

	fwd, err := a.GetLeaves(1, false, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(fwd) != 2 || fwd[0] != leaves[1] || fwd[1] != leaves[2] {
		t.Errorf("forward GetLeaves = %v, want [%v %v]", fwd, leaves[1], leaves[2])
	}

	rev, err := a.GetLeaves(2, true, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rev) != 2 || rev[0] != leaves[2] || rev[1] != leaves[1] {
		t.Errorf("reverse GetLeaves = %v, want [%v %v]", rev, leaves[2], leaves[1])
	}
}

func TestProofVerifiesForEveryLeaf(t *testing.T) {
	a := newTestAccumulator(t)
	var leaves []common.Hash
	for i := byte(1); i <= 7; i++ {
		leaves = append(leaves, leaf(i))
	}
	root, err := a.Append(leaves)
	if err != nil {
		t.Fatal(err)
	}
	for i, l := range leaves {
		proof, err := a.GetProof(uint64(i))
		if err != nil {
			t.Fatalf("GetProof(%d): %v", i, err)
		}
		if !Verify(l, proof, root) {
			t.Errorf("Verify failed for leaf %d", i)
		}
	}
}

func TestProofRejectsWrongLeaf(t *testing.T) {
	a := newTestAccumulator(t)
	leaves := []common.Hash{leaf(1), leaf(2), leaf(3), leaf(4)}
	root, err := a.Append(leaves)
	if err != nil {
		t.Fatal(err)
	}
	proof, err := a.GetProof(0)
	if err != nil {
		t.Fatal(err)
	}
	if Verify(leaf(99), proof, root) {
		t.Error("Verify unexpectedly succeeded for a substituted leaf")
	}
}

func TestFlushPersistsAcrossReopen(t *testing.T) {
	db := memorydb.New()
	a, err := New(db, "test_acc")
	if err != nil {
		t.Fatal(err)
	}
	leaves := []common.Hash{leaf(1), leaf(2), leaf(3)}
	root, err := a.Append(leaves)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Flush(db); err != nil {
		t.Fatal(err)
	}

	info, err := a.GetInfo()
	if err != nil {
		t.Fatal(err)
	}
	reopened, err := NewWithInfo(db, "test_acc", info)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.RootHash() != root {
		t.Errorf("reopened root = %v, want %v", reopened.RootHash(), root)
	}
	proof, err := reopened.GetProof(2)
	if err != nil {
		t.Fatal(err)
	}
	if !Verify(leaves[2], proof, root) {
		t.Error("proof from reopened accumulator failed to verify")
	}
}

func TestForkSharesStorageAtPinnedShape(t *testing.T) {
	db := memorydb.New()
	a, err := New(db, "test_acc")
	if err != nil {
		t.Fatal(err)
	}
	firstRoot, err := a.Append([]common.Hash{leaf(1), leaf(2)})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Flush(db); err != nil {
		t.Fatal(err)
	}
	info, err := a.GetInfo()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Append([]common.Hash{leaf(3)}); err != nil {
		t.Fatal(err)
	}
	if err := a.Flush(db); err != nil {
		t.Fatal(err)
	}
	if a.RootHash() == firstRoot {
		t.Fatal("root should have changed after appending a third leaf")
	}

	forked, err := a.Fork(&info)
	if err != nil {
		t.Fatal(err)
	}
	if forked.RootHash() != firstRoot {
		t.Errorf("forked root = %v, want pinned root %v", forked.RootHash(), firstRoot)
	}
	if forked.NumLeaves() != 2 {
		t.Errorf("forked NumLeaves = %d, want 2", forked.NumLeaves())
	}
}

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

package state

import (
	"bytes"
	"testing"

	"github.com/starcoinorg/starcoin-core/storage/memorydb"
)

func newTestTree(t *testing.T) (*Tree, *memorydb.Database) {
	t.Helper()
	db := memorydb.New()
	tr, err := New(db, "test-state-tree")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr, db
}

func TestGetMissingKeyNotFound(t *testing.T) {
	tr, _ := newTestTree(t)
	_, ok, err := tr.Get([]byte("nope"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected missing key to be absent")
	}
}

func TestSetCommitGetRoundtrip(t *testing.T) {
	tr, db := newTestTree(t)
	tr.Set([]byte("alice"), []byte("100"))
	tr.Set([]byte("bob"), []byte("42"))

	root, err := tr.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if root == emptyHash[depth] {
		t.Fatal("root should change after a non-empty commit")
	}
	if err := tr.Flush(db); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	v, ok, err := tr.Get([]byte("alice"))
	if err != nil || !ok {
		t.Fatalf("Get(alice) = %v, %v, %v", v, ok, err)
	}
	if !bytes.Equal(v, []byte("100")) {
		t.Errorf("Get(alice) = %q, want %q", v, "100")
	}

	v, ok, err = tr.Get([]byte("bob"))
	if err != nil || !ok || !bytes.Equal(v, []byte("42")) {
		t.Fatalf("Get(bob) = %v, %v, %v", v, ok, err)
	}
}

func TestCommitIdempotentOnUnchangedTree(t *testing.T) {
	tr, db := newTestTree(t)
	tr.Set([]byte("k"), []byte("v"))
	root1, err := tr.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(db); err != nil {
		t.Fatal(err)
	}
	root2, err := tr.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if root1 != root2 {
		t.Errorf("Commit on an unchanged tree changed root: %v -> %v", root1, root2)
	}
}

func TestRemoveDeletesKey(t *testing.T) {
	tr, db := newTestTree(t)
	tr.Set([]byte("k"), []byte("v"))
	if _, err := tr.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(db); err != nil {
		t.Fatal(err)
	}

	tr.Remove([]byte("k"))
	root, err := tr.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(db); err != nil {
		t.Fatal(err)
	}
	if root != emptyHash[depth] {
		t.Errorf("root after removing the only key = %v, want the empty-tree sentinel", root)
	}
	_, ok, err := tr.Get([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected k to be gone after Remove+Commit")
	}
}

func TestApplyWriteSet(t *testing.T) {
	tr, db := newTestTree(t)
	tr.Set([]byte("stale"), []byte("x"))
	if _, err := tr.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(db); err != nil {
		t.Fatal(err)
	}

	tr.ApplyWriteSet(WriteSet{
		{Key: []byte("fresh"), Op: OpPut, Value: []byte("y")},
		{Key: []byte("stale"), Op: OpDelete},
	})
	if _, err := tr.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(db); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := tr.Get([]byte("stale")); ok {
		t.Error("expected stale to be removed")
	}
	v, ok, err := tr.Get([]byte("fresh"))
	if err != nil || !ok || !bytes.Equal(v, []byte("y")) {
		t.Fatalf("Get(fresh) = %v, %v, %v", v, ok, err)
	}
}

func TestForkAtHistoricalRoot(t *testing.T) {
	tr, db := newTestTree(t)
	tr.Set([]byte("k"), []byte("v1"))
	rootA, err := tr.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(db); err != nil {
		t.Fatal(err)
	}

	tr.Set([]byte("k"), []byte("v2"))
	if _, err := tr.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(db); err != nil {
		t.Fatal(err)
	}

	fork, err := tr.ForkAt(db, "test-state-tree", rootA)
	if err != nil {
		t.Fatalf("ForkAt: %v", err)
	}
	v, ok, err := fork.Get([]byte("k"))
	if err != nil || !ok || !bytes.Equal(v, []byte("v1")) {
		t.Fatalf("fork.Get(k) = %v, %v, %v, want v1", v, ok, err)
	}

	v, ok, err = tr.Get([]byte("k"))
	if err != nil || !ok || !bytes.Equal(v, []byte("v2")) {
		t.Fatalf("tr.Get(k) = %v, %v, %v, want v2", v, ok, err)
	}
}

func TestGetAtMatchesForkAt(t *testing.T) {
	tr, db := newTestTree(t)
	tr.Set([]byte("k"), []byte("v1"))
	rootA, err := tr.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(db); err != nil {
		t.Fatal(err)
	}

	tr.Set([]byte("k"), []byte("v2"))
	if _, err := tr.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Flush(db); err != nil {
		t.Fatal(err)
	}

	v, ok, err := tr.GetAt(rootA, []byte("k"))
	if err != nil || !ok || !bytes.Equal(v, []byte("v1")) {
		t.Fatalf("GetAt(rootA, k) = %v, %v, %v, want v1", v, ok, err)
	}
}

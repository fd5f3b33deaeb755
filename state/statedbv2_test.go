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

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage/memorydb"
)

func TestStateDBV2CommitWritesMultiState(t *testing.T) {
	db := memorydb.New()
	v2, err := NewV2(db, common.Hash{}, common.Hash{})
	if err != nil {
		t.Fatalf("NewV2: %v", err)
	}

	v2.VM1.Set([]byte("vm1-key"), []byte("vm1-val"))
	v2.VM2.Set([]byte("vm2-key"), []byte("vm2-val"))

	finalRoot, err := v2.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if finalRoot != v2.VM2.RootHash() {
		t.Errorf("final root = %v, want vm2 root %v", finalRoot, v2.VM2.RootHash())
	}
	if err := v2.Flush(db); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	ms, ok, err := v2.ReadMultiState()
	if err != nil {
		t.Fatalf("ReadMultiState: %v", err)
	}
	if !ok {
		t.Fatal("expected MultiState blob to be present after Commit")
	}
	if ms.StateRoot1 == (common.Hash{}) {
		t.Error("MultiState.StateRoot1 should reflect vm1's committed root, not the zero hash")
	}

	v, ok, err := v2.VM1.Get([]byte("vm1-key"))
	if err != nil || !ok || !bytes.Equal(v, []byte("vm1-val")) {
		t.Fatalf("vm1.Get(vm1-key) = %v, %v, %v", v, ok, err)
	}
	v, ok, err = v2.VM2.Get([]byte("vm2-key"))
	if err != nil || !ok || !bytes.Equal(v, []byte("vm2-val")) {
		t.Fatalf("vm2.Get(vm2-key) = %v, %v, %v", v, ok, err)
	}
}

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

package leveldbstore

import (
	"errors"
	"testing"

	"github.com/starcoinorg/starcoin-core/starerr"
)

func TestOpenPutGetDelete(t *testing.T) {
	db, err := Open(t.TempDir(), 4, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	v, err := db.Get([]byte("a"))
	if err != nil || string(v) != "1" {
		t.Fatalf("Get: %v, %q", err, v)
	}
	if err := db.Delete([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Get([]byte("a")); !errors.Is(err, starerr.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestPrefixIteration(t *testing.T) {
	db, err := Open(t.TempDir(), 4, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for _, k := range []string{"cf:a", "cf:b", "other:z"} {
		if err := db.Put([]byte(k), []byte("v")); err != nil {
			t.Fatal(err)
		}
	}
	it := db.NewIterator([]byte("cf:"), nil)
	defer it.Release()
	var n int
	for it.Next() {
		n++
	}
	if err := it.Error(); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows under cf: prefix, got %d", n)
	}
}

func TestBatchWrite(t *testing.T) {
	db, err := Open(t.TempDir(), 4, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	b := db.NewBatch()
	b.Put([]byte("x"), []byte("1"))
	b.Put([]byte("y"), []byte("2"))
	if err := b.Write(); err != nil {
		t.Fatal(err)
	}
	if v, err := db.Get([]byte("x")); err != nil || string(v) != "1" {
		t.Fatalf("x: %v, %q", err, v)
	}
}

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

package memorydb

import (
	"errors"
	"testing"

	"github.com/starcoinorg/starcoin-core/starerr"
)

func TestPutGetHasDelete(t *testing.T) {
	db := New()
	defer db.Close()

	ok, err := db.Has([]byte("a"))
	if err != nil || ok {
		t.Fatalf("Has on empty db: %v, %v", err, ok)
	}

	if err := db.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	ok, err = db.Has([]byte("a"))
	if err != nil || !ok {
		t.Fatalf("Has after Put: %v, %v", err, ok)
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

func TestGetMissingKey(t *testing.T) {
	db := New()
	defer db.Close()
	if _, err := db.Get([]byte("missing")); !errors.Is(err, starerr.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestIteratorOrderedPrefixScan(t *testing.T) {
	db := New()
	defer db.Close()
	for _, kv := range []struct{ k, v string }{
		{"cf:b", "2"}, {"cf:a", "1"}, {"cf:c", "3"}, {"other:a", "x"},
	} {
		if err := db.Put([]byte(kv.k), []byte(kv.v)); err != nil {
			t.Fatal(err)
		}
	}

	it := db.NewIterator([]byte("cf:"), nil)
	defer it.Release()
	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	if err := it.Error(); err != nil {
		t.Fatal(err)
	}
	want := []string{"cf:a", "cf:b", "cf:c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBatchAtomicWrite(t *testing.T) {
	db := New()
	defer db.Close()
	db.Put([]byte("keep"), []byte("1"))

	b := db.NewBatch()
	b.Put([]byte("x"), []byte("1"))
	b.Put([]byte("y"), []byte("2"))
	b.Delete([]byte("keep"))
	if err := b.Write(); err != nil {
		t.Fatal(err)
	}

	if _, err := db.Get([]byte("keep")); !errors.Is(err, starerr.ErrKeyNotFound) {
		t.Errorf("expected keep deleted, got err=%v", err)
	}
	if v, err := db.Get([]byte("x")); err != nil || string(v) != "1" {
		t.Errorf("x: %v, %q", err, v)
	}
}

func TestClosedDatabaseErrors(t *testing.T) {
	db := New()
	db.Close()
	if _, err := db.Has([]byte("a")); err == nil {
		t.Error("expected error on closed db")
	}
	if err := db.Put([]byte("a"), []byte("1")); err == nil {
		t.Error("expected error on closed db Put")
	}
}

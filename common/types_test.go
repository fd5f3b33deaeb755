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

package common

import (
	"sort"
	"testing"
)

func TestBytesToHash(t *testing.T) {
	h := BytesToHash([]byte{5})
	var want Hash
	want[HashLength-1] = 5
	if h != want {
		t.Errorf("got %x, want %x", h, want)
	}
}

func TestBytesToHashTruncatesFromLeft(t *testing.T) {
	long := make([]byte, HashLength+4)
	long[len(long)-1] = 0xff
	h := BytesToHash(long)
	var want Hash
	want[HashLength-1] = 0xff
	if h != want {
		t.Errorf("got %x, want %x", h, want)
	}
}

func TestHexToHashRoundTrip(t *testing.T) {
	h := BytesToHash([]byte{1, 2, 3})
	h2, err := HexToHash(h.String())
	if err != nil {
		t.Fatal(err)
	}
	if h != h2 {
		t.Errorf("round trip mismatch: %x != %x", h, h2)
	}
}

func TestHexToHashRejectsWrongLength(t *testing.T) {
	if _, err := HexToHash("0x0102"); err == nil {
		t.Error("expected error for short hash hex")
	}
}

func TestHashIsZero(t *testing.T) {
	if !ZeroHash.IsZero() {
		t.Error("ZeroHash.IsZero() should be true")
	}
	if BytesToHash([]byte{1}).IsZero() {
		t.Error("non-zero hash reported as zero")
	}
}

func TestHashLess(t *testing.T) {
	a := BytesToHash([]byte{1})
	b := BytesToHash([]byte{2})
	if !a.Less(b) || b.Less(a) {
		t.Error("Less ordering incorrect")
	}
	if a.Less(a) {
		t.Error("a hash must not be Less than itself")
	}
}

func TestHashSliceSortable(t *testing.T) {
	s := HashSlice{BytesToHash([]byte{3}), BytesToHash([]byte{1}), BytesToHash([]byte{2})}
	sort.Sort(s)
	for i := 0; i < len(s)-1; i++ {
		if !s[i].Less(s[i+1]) {
			t.Errorf("not sorted at index %d", i)
		}
	}
}

func TestBytesToAddress(t *testing.T) {
	a := BytesToAddress([]byte{0xaa, 0xbb})
	var want Address
	want[AddressLength-2] = 0xaa
	want[AddressLength-1] = 0xbb
	if a != want {
		t.Errorf("got %x, want %x", a, want)
	}
}

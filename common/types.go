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

// Package common holds the small set of value types shared by every other
// package in this repository: the opaque 32-byte Hash identifier and the
// 16-byte account Address.
package common

import (
	"encoding/hex"
	"fmt"
)

// HashLength is the expected length of a Hash, in bytes.
const HashLength = 32

// AddressLength is the expected length of an Address, in bytes. Starcoin
// account addresses are 16 bytes, matching a Move AccountAddress.
const AddressLength = 16

// Hash is a fixed 32-byte opaque identifier. Equality is byte-wise.
type Hash [HashLength]byte

// ZeroHash is the zero-valued hash, used as a placeholder for "no value yet".
var ZeroHash = Hash{}

// Origin is the sentinel hash representing "no parent" in the reachability
// tree and the DAG. It is distinct from ZeroHash only by convention: nothing
// in this codebase ever hashes real content to the all-zero value, so ORIGIN
// and the zero hash share a representation.
var Origin = Hash{}

// BytesToHash sets the last HashLength bytes of b (left-padded with zeroes)
// into a new Hash. Bytes beyond HashLength are truncated from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Bytes returns the byte slice representation of h.
func (h Hash) Bytes() []byte { return h[:] }

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool { return h == ZeroHash }

// String returns the 0x-prefixed hex encoding of h.
func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// Less provides a total order over hashes, used for GHOSTDAG tie-breaking.
func (h Hash) Less(other Hash) bool {
	for i := range h {
		if h[i] != other[i] {
			return h[i] < other[i]
		}
	}
	return false
}

// HexToHash decodes a 0x-prefixed or bare hex string into a Hash.
func HexToHash(s string) (Hash, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("common: invalid hash hex %q: %w", s, err)
	}
	if len(b) != HashLength {
		return Hash{}, fmt.Errorf("common: invalid hash length %d, want %d", len(b), HashLength)
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// Address is a 16-byte account address.
type Address [AddressLength]byte

// String returns the 0x-prefixed hex encoding of a.
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// BytesToAddress left-pads (or truncates from the left) b into an Address.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HashSlice is a convenience type used throughout the DAG/reachability code
// for sorted hash sets keyed on Hash.Less.
type HashSlice []Hash

func (s HashSlice) Len() int           { return len(s) }
func (s HashSlice) Less(i, j int) bool { return s[i].Less(s[j]) }
func (s HashSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

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

package storage

// Schema binds a column-family name, a key codec, and a value codec, per
// spec.md §4.1. goleveldb has no native column families, so a CF is realized
// as a fixed key prefix over the single flat keyspace.
type Schema[K any, V any] interface {
	// CF returns the column-family name, used verbatim as the key prefix.
	CF() string
	// EncodeKey renders a typed key to bytes (without the CF prefix).
	EncodeKey(key K) []byte
	// EncodeValue renders a typed value to bytes.
	EncodeValue(value V) []byte
	// DecodeValue parses bytes back into a typed value.
	DecodeValue(b []byte) (V, error)
}

func prefixedKey(cf string, encodedKey []byte) []byte {
	out := make([]byte, 0, len(cf)+1+len(encodedKey))
	out = append(out, []byte(cf)...)
	out = append(out, ':')
	out = append(out, encodedKey...)
	return out
}

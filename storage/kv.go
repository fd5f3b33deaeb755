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

// Package storage implements the typed, cached column-family key/value
// abstraction (component C1) described in spec.md §4.1: a Schema binds a
// column-family name to a key and value codec, CachedAccess layers a bounded
// LRU over a raw KeyValueStore, and Batch gives atomic multi-key writes. The
// raw store is pluggable (see storage/memorydb and storage/leveldbstore);
// callers only ever talk to a CachedAccess.
package storage

import "io"

// KeyValueReader wraps the read side of a raw key/value store. A CF is
// modeled as a key prefix over one flat keyspace, matching how goleveldb
// (an LSM with no native column families) is used in practice.
type KeyValueReader interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter wraps the write side of a raw key/value store.
type KeyValueWriter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Iterator walks a range of keys in ascending order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Iteratee exposes prefix/range iteration.
type Iteratee interface {
	NewIterator(prefix, start []byte) Iterator
}

// Batcher creates write batches.
type Batcher interface {
	NewBatch() Batch
}

// KeyValueStore is the full contract a concrete LSM binding must satisfy.
type KeyValueStore interface {
	KeyValueReader
	KeyValueWriter
	Iteratee
	Batcher
	io.Closer
}

// Batch accumulates writes for atomic application. Writer in spec.md §4.1 is
// either a Batch or the KeyValueStore itself used directly.
type Batch interface {
	KeyValueWriter
	ValueSize() int
	Write() error
	Reset()
}

// Writer is the union accepted by CachedAccess.Write: either a Batch being
// built up for later atomic commit, or a KeyValueWriter applied immediately.
type Writer interface {
	KeyValueWriter
}

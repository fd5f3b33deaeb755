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

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// CachedAccess is a Schema-typed, LRU-cached view over a raw KeyValueStore.
// It is the concrete realization of spec.md §4.1's CachedDbAccess<S>.
//
// Caching rule (spec.md §4.1): every read that misses the cache and hits disk
// populates the cache; every write updates the cache eagerly; delete removes
// from cache before removing from disk; WriteManyWithoutCache bulk-loads
// without polluting the cache and empties the cache on completion, since
// those writes bypass the normal per-key cache update path and could
// otherwise leave stale cached reads in front of fresher disk state.
type CachedAccess[K comparable, V any] struct {
	db     KeyValueStore
	schema Schema[K, V]
	cache  *lru.Cache
}

// NewCachedAccess builds a CachedAccess over db using schema, with an LRU of
// the given size (entries, not bytes — matching the teacher's hashicorp/
// golang-lru sizing convention).
func NewCachedAccess[K comparable, V any](db KeyValueStore, schema Schema[K, V], cacheSize int) (*CachedAccess[K, V], error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	c, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("storage: creating cache for %s: %w", schema.CF(), err)
	}
	return &CachedAccess[K, V]{db: db, schema: schema, cache: c}, nil
}

func (a *CachedAccess[K, V]) key(k K) []byte {
	return prefixedKey(a.schema.CF(), a.schema.EncodeKey(k))
}

// Has reports whether key exists, consulting the cache first.
func (a *CachedAccess[K, V]) Has(k K) (bool, error) {
	if _, ok := a.cache.Get(k); ok {
		return true, nil
	}
	return a.db.Has(a.key(k))
}

// Read fetches the value for k, returning starerr.ErrKeyNotFound if absent.
// A disk hit populates the cache.
func (a *CachedAccess[K, V]) Read(k K) (V, error) {
	if v, ok := a.cache.Get(k); ok {
		return v.(V), nil
	}
	raw, err := a.db.Get(a.key(k))
	if err != nil {
		var zero V
		return zero, err
	}
	v, err := a.schema.DecodeValue(raw)
	if err != nil {
		var zero V
		return zero, fmt.Errorf("storage: decoding %s value: %w", a.schema.CF(), err)
	}
	a.cache.Add(k, v)
	return v, nil
}

// Write stores k=v through writer (a Batch being accumulated, or the store
// itself for an immediate write), updating the cache eagerly.
func (a *CachedAccess[K, V]) Write(writer Writer, k K, v V) error {
	if err := writer.Put(a.key(k), a.schema.EncodeValue(v)); err != nil {
		return err
	}
	a.cache.Add(k, v)
	return nil
}

// KV is a single key/value pair, used by the WriteMany family.
type KV[K comparable, V any] struct {
	Key   K
	Value V
}

// WriteMany writes a sequence of pairs through writer, updating the cache
// for each.
func (a *CachedAccess[K, V]) WriteMany(writer Writer, items []KV[K, V]) error {
	for _, item := range items {
		if err := a.Write(writer, item.Key, item.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteManyWithoutCache bulk-loads pairs through writer without touching the
// cache per key, then empties the cache entirely on completion (spec.md
// §4.1: "MUST empty the cache on completion, because disk writes bypass
// per-key cache updates and prior reads may now be invalidated").
func (a *CachedAccess[K, V]) WriteManyWithoutCache(writer Writer, items []KV[K, V]) error {
	for _, item := range items {
		if err := writer.Put(a.key(item.Key), a.schema.EncodeValue(item.Value)); err != nil {
			return err
		}
	}
	a.cache.Purge()
	return nil
}

// Delete removes k, evicting the cache entry before removing it from disk.
func (a *CachedAccess[K, V]) Delete(writer Writer, k K) error {
	a.cache.Remove(k)
	return writer.Delete(a.key(k))
}

// DeleteAll removes every key currently in the CF, by scanning disk (the
// cache alone cannot enumerate a CF's full keyset) and evicting the whole
// cache afterward.
func (a *CachedAccess[K, V]) DeleteAll(writer Writer) error {
	prefix := []byte(a.schema.CF() + ":")
	it := a.db.NewIterator(prefix, nil)
	defer it.Release()
	for it.Next() {
		if err := writer.Delete(it.Key()); err != nil {
			return err
		}
	}
	if err := it.Error(); err != nil {
		return err
	}
	a.cache.Purge()
	return nil
}

// SeekResult is a single decoded row from SeekIterator.
type SeekResult[K comparable, V any] struct {
	Key   []byte
	Value V
}

// SeekIterator performs a prefix scan starting at seekFrom (relative to the
// CF's own keyspace), returning up to limit decoded rows. skipFirst drops
// the row exactly matching seekFrom, useful for "resume after" pagination.
func (a *CachedAccess[K, V]) SeekIterator(seekFrom []byte, limit int, skipFirst bool) ([]SeekResult[K, V], error) {
	prefix := []byte(a.schema.CF() + ":")
	it := a.db.NewIterator(prefix, seekFrom)
	defer it.Release()

	var out []SeekResult[K, V]
	first := true
	for it.Next() {
		if skipFirst && first {
			first = false
			continue
		}
		first = false
		v, err := a.schema.DecodeValue(it.Value())
		if err != nil {
			return nil, fmt.Errorf("storage: decoding %s row: %w", a.schema.CF(), err)
		}
		key := append([]byte{}, it.Key()...)
		out = append(out, SeekResult[K, V]{Key: key, Value: v})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

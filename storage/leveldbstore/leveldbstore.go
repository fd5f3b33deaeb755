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

// Package leveldbstore adapts github.com/syndtr/goleveldb to storage.KeyValueStore.
// goleveldb is the concrete LSM engine assumed by spec.md §1 ("the concrete
// LSM engine... provide[s] atomic batched writes and prefix iteration") and
// is the engine the teacher's own go.mod carries (github.com/syndtr/goleveldb).
package leveldbstore

import (
	"github.com/starcoinorg/starcoin-core/starerr"
	"github.com/starcoinorg/starcoin-core/storage"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Database wraps a goleveldb handle.
type Database struct {
	db *leveldb.DB
}

// Open opens (creating if absent) a LevelDB database at path.
func Open(path string, cacheSizeMB, handles int) (*Database, error) {
	options := &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cacheSizeMB * opt.MiB,
		WriteBuffer:            cacheSizeMB * opt.MiB / 2,
	}
	db, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func (d *Database) Has(key []byte) (bool, error) { return d.db.Has(key, nil) }

func (d *Database) Get(key []byte) ([]byte, error) {
	v, err := d.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, starerr.ErrKeyNotFound
	}
	return v, err
}

func (d *Database) Put(key, value []byte) error { return d.db.Put(key, value, nil) }
func (d *Database) Delete(key []byte) error     { return d.db.Delete(key, nil) }
func (d *Database) Close() error                { return d.db.Close() }

func (d *Database) NewBatch() storage.Batch {
	return &batch{db: d.db, b: new(leveldb.Batch)}
}

func (d *Database) NewIterator(prefix, start []byte) storage.Iterator {
	rng := util.BytesPrefix(prefix)
	if len(start) > 0 {
		rng.Start = append(append([]byte{}, prefix...), start...)
	}
	return &iterator{iter: d.db.NewIterator(rng, nil)}
}

type iterator struct {
	iter interface {
		Next() bool
		Key() []byte
		Value() []byte
		Release()
		Error() error
	}
}

func (it *iterator) Next() bool     { return it.iter.Next() }
func (it *iterator) Key() []byte    { return it.iter.Key() }
func (it *iterator) Value() []byte  { return it.iter.Value() }
func (it *iterator) Release()       { it.iter.Release() }
func (it *iterator) Error() error   { return it.iter.Error() }

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error { b.b.Put(key, value); return nil }
func (b *batch) Delete(key []byte) error     { b.b.Delete(key); return nil }
func (b *batch) ValueSize() int              { return b.b.Len() }
func (b *batch) Write() error                { return b.db.Write(b.b, nil) }
func (b *batch) Reset()                      { b.b.Reset() }

// IsNotFound reports whether err is goleveldb's not-found sentinel, useful
// for callers that receive a raw error from a read not routed through Get.
func IsNotFound(err error) bool { return err == leveldb.ErrNotFound }

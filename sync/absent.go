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

package sync

import (
	"fmt"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/storage"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

// absentBlockCF is the `sync-absent-block` CF named in spec.md §6's CF
// table, backing BlockExecute's persisted BFS queue of blocks it has
// received but cannot yet insert because one or more DAG parents are
// missing.
const absentBlockCF = "sync-absent-block"

// absentCacheSize bounds the in-memory LRU fronting the absent-block CF;
// this is a bounded backlog of recently-received-but-unlinkable blocks, not
// a hot read path, so a modest size suffices.
const absentCacheSize = 1024

// DagSyncBlock pairs a received block with the parent hashes it is still
// waiting on, the value type of the `sync-absent-block` CF.
type DagSyncBlock struct {
	Block          *types.Block
	MissingParents []common.Hash
}

func (s *DagSyncBlock) MarshalBCS(e *codec.Encoder) {
	s.Block.MarshalBCS(e)
	e.WriteUvarint(uint64(len(s.MissingParents)))
	for _, p := range s.MissingParents {
		e.WriteFixed(p[:])
	}
}

func (s *DagSyncBlock) UnmarshalBCS(d *codec.Decoder) error {
	s.Block = new(types.Block)
	if err := s.Block.UnmarshalBCS(d); err != nil {
		return err
	}
	n, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	s.MissingParents = make([]common.Hash, n)
	for i := range s.MissingParents {
		b, err := d.ReadFixed(common.HashLength)
		if err != nil {
			return err
		}
		s.MissingParents[i] = common.BytesToHash(b)
	}
	return nil
}

type absentSchema struct{}

func (absentSchema) CF() string                      { return absentBlockCF }
func (absentSchema) EncodeKey(h common.Hash) []byte  { return h.Bytes() }
func (absentSchema) EncodeValue(v *DagSyncBlock) []byte { return codec.Encode(v) }
func (absentSchema) DecodeValue(b []byte) (*DagSyncBlock, error) {
	v := new(DagSyncBlock)
	if err := codec.Decode(b, v); err != nil {
		return nil, err
	}
	return v, nil
}

// SyncAbsentBlockStore is the persisted queue SPEC_FULL.md §4.8 names:
// received blocks keyed by their own hash, retained until every parent they
// name has been inserted into the DAG.
type SyncAbsentBlockStore struct {
	db    storage.KeyValueStore
	store *storage.CachedAccess[common.Hash, *DagSyncBlock]
}

// NewSyncAbsentBlockStore opens the `sync-absent-block` CF over db.
func NewSyncAbsentBlockStore(db storage.KeyValueStore) (*SyncAbsentBlockStore, error) {
	store, err := storage.NewCachedAccess[common.Hash, *DagSyncBlock](db, absentSchema{}, absentCacheSize)
	if err != nil {
		return nil, fmt.Errorf("sync: opening absent-block store: %w", err)
	}
	return &SyncAbsentBlockStore{db: db, store: store}, nil
}

// Put persists block keyed by its own hash, recording missingParents.
func (s *SyncAbsentBlockStore) Put(block *types.Block, missingParents []common.Hash) error {
	return s.store.Write(s.db, block.Id(), &DagSyncBlock{Block: block, MissingParents: missingParents})
}

// Delete removes hash from the queue, e.g. once it has been inserted.
func (s *SyncAbsentBlockStore) Delete(hash common.Hash) error {
	return s.store.Delete(s.db, hash)
}

// DrainReady scans every entry currently queued and, for each whose parents
// are all now present in dag, removes it from the store and returns its
// block for insertion. This realizes spec.md §4.8's "recursive BFS of
// parents_hash": newly-inserted blocks may unblock queued children, and
// those children's own children in turn, across repeated DrainReady calls
// until a pass makes no further progress.
func (s *SyncAbsentBlockStore) DrainReady(dag BlockInserter) ([]*types.Block, error) {
	rows, err := s.store.SeekIterator(nil, 0, false)
	if err != nil {
		return nil, err
	}

	var ready []*types.Block
	for _, row := range rows {
		entry := row.Value
		missing, err := missingParents(dag, entry.MissingParents)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			continue
		}
		if err := s.Delete(entry.Block.Id()); err != nil {
			return nil, err
		}
		ready = append(ready, entry.Block)
	}
	return ready, nil
}

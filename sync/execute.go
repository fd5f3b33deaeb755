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
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/storage"
)

// BlockInserter is the subset of dag.BlockDAG that BlockExecute drives: a
// block whose parents are all already present can be inserted; HasBlock
// tells BlockExecute which parents are still missing.
type BlockInserter interface {
	InsertBlock(writer storage.Writer, header *types.Header, body *types.Body, parents []common.Hash) (*types.BlockInfo, error)
	HasBlock(hash common.Hash) (bool, error)
}

// BlockExecute implements spec.md §4.8 stage 4: feed blocks into dag in
// topological order. A block whose parents are not all present yet is
// queued in absent instead of inserted; every time a pass makes progress,
// absent is re-scanned for blocks that are now unblocked (DrainReady),
// repeating until a pass inserts nothing further. Any blocks still blocked
// at that point remain queued in absent for a future BlockExecute call
// (e.g. once a parent arrives via a different sync task or direct push).
func BlockExecute(writer storage.Writer, dag BlockInserter, absent *SyncAbsentBlockStore, blocks []*types.Block) error {
	pending := append([]*types.Block(nil), blocks...)

	for len(pending) > 0 {
		var next []*types.Block
		progressed := false

		for _, block := range pending {
			missing, err := missingParents(dag, block.Header.ParentsHash)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				if err := absent.Put(block, missing); err != nil {
					return err
				}
				continue
			}
			if _, err := dag.InsertBlock(writer, block.Header, block.Body, block.Header.ParentsHash); err != nil {
				return err
			}
			progressed = true
		}

		if !progressed {
			return nil
		}

		drained, err := absent.DrainReady(dag)
		if err != nil {
			return err
		}
		next = append(next, drained...)
		pending = next
	}
	return nil
}

func missingParents(dag BlockInserter, parents []common.Hash) ([]common.Hash, error) {
	var missing []common.Hash
	for _, p := range parents {
		has, err := dag.HasBlock(p)
		if err != nil {
			return nil, err
		}
		if !has {
			missing = append(missing, p)
		}
	}
	return missing, nil
}

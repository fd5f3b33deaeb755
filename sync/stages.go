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
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/starcoinorg/starcoin-core/accumulator"
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/starerr"
)

// blockFetchConcurrency bounds how many in-flight batched RPCs AccumulatorSync
// and BlockFetch run at once, per spec.md §4.8's "bounded concurrency".
const blockFetchConcurrency = 4

// FindAncestor implements spec.md §4.8 stage 1: probe peer at a
// reverse-geometric (stride-doubling) distance behind localHead until an id
// is recognized by localHas, yielding the (height, hash) common ancestor.
func FindAncestor(ctx context.Context, handle *TaskHandle, peer PeerClient, localHead uint64, localHas func(common.Hash) (uint64, bool)) (height uint64, hash common.Hash, err error) {
	stride := uint64(1)
	probe := localHead

	for {
		var ids []common.Hash
		rerr := retry(handle, func() error {
			var e error
			ids, e = peer.GetBlockIds(ctx, probe, true, 1)
			return e
		})
		if rerr != nil {
			return 0, common.Hash{}, rerr
		}
		if len(ids) == 1 {
			if h, ok := localHas(ids[0]); ok {
				return h, ids[0], nil
			}
		}
		if probe == 0 {
			return 0, common.Hash{}, fmt.Errorf("sync: %w: no common ancestor found with peer %s", starerr.ErrVerificationFailed, peer.ID())
		}
		if stride >= probe {
			probe = 0
		} else {
			probe -= stride
		}
		stride *= 2
	}
}

// AccumulatorSync implements spec.md §4.8 stage 2: from fork's current leaf
// count up to targetNumLeaves, batched-fetch leaf hashes and append them to
// fork (a block-accumulator forked at the ancestor, per
// accumulator.Accumulator.Fork), then verify the final root matches target.
func AccumulatorSync(ctx context.Context, handle *TaskHandle, peer PeerClient, fork *accumulator.Accumulator, targetNumLeaves uint64, targetRoot common.Hash) error {
	for from := fork.NumLeaves(); from < targetNumLeaves; {
		if handle != nil && handle.Cancelled() {
			return starerr.ErrTaskCancelled
		}
		count := targetNumLeaves - from
		if count > MaxBlockRequestSize {
			count = MaxBlockRequestSize
		}
		var ids []common.Hash
		err := retry(handle, func() error {
			var e error
			ids, e = peer.GetBlockIds(ctx, from, false, count)
			return e
		})
		if err != nil {
			return err
		}
		if uint64(len(ids)) != count {
			return fmt.Errorf("sync: %w: peer returned %d leaf ids, wanted %d", starerr.ErrVerificationFailed, len(ids), count)
		}
		if _, err := fork.Append(ids); err != nil {
			return err
		}
		from += count
	}
	if fork.RootHash() != targetRoot {
		return fmt.Errorf("sync: %w: accumulator root after sync does not match target", starerr.ErrVerificationFailed)
	}
	return nil
}

// BlockFetch implements spec.md §4.8 stage 3: for each leaf hash, fetch the
// full block, batched at MaxBlockRequestSize per request with bounded
// concurrency across batches.
func BlockFetch(ctx context.Context, handle *TaskHandle, peer PeerClient, leafHashes []common.Hash) ([]*types.Block, error) {
	blocks := make([]*types.Block, len(leafHashes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(blockFetchConcurrency)

	for start := 0; start < len(leafHashes); start += MaxBlockRequestSize {
		start := start
		end := start + MaxBlockRequestSize
		if end > len(leafHashes) {
			end = len(leafHashes)
		}
		batch := leafHashes[start:end]

		g.Go(func() error {
			var got []*types.Block
			err := retry(handle, func() error {
				var e error
				got, e = peer.GetBlocks(gctx, batch)
				return e
			})
			if err != nil {
				return err
			}
			if len(got) != len(batch) {
				return fmt.Errorf("sync: %w: peer returned %d blocks for %d ids", starerr.ErrVerificationFailed, len(got), len(batch))
			}
			for i, b := range got {
				if b == nil {
					return fmt.Errorf("sync: %w: peer has no block for a requested id", starerr.ErrVerificationFailed)
				}
				blocks[start+i] = b
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

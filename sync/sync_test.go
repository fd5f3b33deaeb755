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
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/starcoinorg/starcoin-core/accumulator"
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/dag"
	"github.com/starcoinorg/starcoin-core/starerr"
	"github.com/starcoinorg/starcoin-core/storage/memorydb"
)

// fakePeer is a deterministic in-memory PeerClient stub: a flat ordered
// chain of block ids, with fetchable headers/bodies/blocks by id.
type fakePeer struct {
	id     PeerID
	chain  []common.Hash // chain[0] is genesis
	blocks map[common.Hash]*types.Block

	failUntil int // GetBlocks calls fail (transient) until this count
	calls     int
}

func (p *fakePeer) ID() PeerID { return p.id }

func (p *fakePeer) GetBlockIds(ctx context.Context, start uint64, reverse bool, max uint64) ([]common.Hash, error) {
	var out []common.Hash
	if reverse {
		for i := int64(start); i >= 0 && uint64(len(out)) < max; i-- {
			if i >= int64(len(p.chain)) {
				continue
			}
			out = append(out, p.chain[i])
		}
		return out, nil
	}
	for i := start; i < uint64(len(p.chain)) && uint64(len(out)) < max; i++ {
		out = append(out, p.chain[i])
	}
	return out, nil
}

func (p *fakePeer) GetHeaders(ctx context.Context, ids []common.Hash) ([]*types.Header, error) {
	out := make([]*types.Header, len(ids))
	for i, id := range ids {
		if b, ok := p.blocks[id]; ok {
			out[i] = b.Header
		}
	}
	return out, nil
}

func (p *fakePeer) GetBodies(ctx context.Context, ids []common.Hash) ([]*types.Body, error) {
	out := make([]*types.Body, len(ids))
	for i, id := range ids {
		if b, ok := p.blocks[id]; ok {
			out[i] = b.Body
		}
	}
	return out, nil
}

func (p *fakePeer) GetBlocks(ctx context.Context, ids []common.Hash) ([]*types.Block, error) {
	p.calls++
	if p.calls <= p.failUntil {
		return nil, errors.New("simulated transient network error")
	}
	out := make([]*types.Block, len(ids))
	for i, id := range ids {
		out[i] = p.blocks[id]
	}
	return out, nil
}

func testHeader(parents []common.Hash, number, nonce uint64) *types.Header {
	return &types.Header{
		ParentsHash: parents,
		Number:      number,
		Nonce:       nonce,
		Difficulty:  uint256.NewInt(10),
	}
}

// buildFakeChain constructs a linear chain of n blocks atop genesis and a
// fakePeer serving it.
func buildFakeChain(n int) (*fakePeer, []common.Hash) {
	genesis := &types.Block{Header: testHeader(nil, 0, 0), Body: &types.Body{}}
	chain := []common.Hash{genesis.Id()}
	blocks := map[common.Hash]*types.Block{genesis.Id(): genesis}

	parent := genesis.Id()
	for i := 1; i <= n; i++ {
		h := testHeader([]common.Hash{parent}, uint64(i), uint64(i))
		b := &types.Block{Header: h, Body: &types.Body{}}
		chain = append(chain, b.Id())
		blocks[b.Id()] = b
		parent = b.Id()
	}
	return &fakePeer{id: "peer-1", chain: chain, blocks: blocks}, chain
}

func TestFindAncestorLocatesKnownTail(t *testing.T) {
	peer, chain := buildFakeChain(10)
	local := map[common.Hash]uint64{chain[3]: 3}
	localHas := func(h common.Hash) (uint64, bool) {
		height, ok := local[h]
		return height, ok
	}

	height, hash, err := FindAncestor(context.Background(), nil, peer, uint64(len(chain)-1), localHas)
	if err != nil {
		t.Fatalf("FindAncestor: %v", err)
	}
	if height != 3 || hash != chain[3] {
		t.Fatalf("FindAncestor = (%d, %v), want (3, %v)", height, hash, chain[3])
	}
}

func TestFindAncestorFailsWhenNoOverlap(t *testing.T) {
	peer, _ := buildFakeChain(5)
	localHas := func(common.Hash) (uint64, bool) { return 0, false }

	_, _, err := FindAncestor(context.Background(), nil, peer, 5, localHas)
	if !errors.Is(err, starerr.ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestAccumulatorSyncAppendsAndVerifiesRoot(t *testing.T) {
	// Build the "remote" target accumulator directly.
	targetDB := memorydb.New()
	target, err := accumulator.New(targetDB, "target")
	if err != nil {
		t.Fatalf("accumulator.New: %v", err)
	}
	leaves := []common.Hash{
		common.Keccak256Hash([]byte("a")),
		common.Keccak256Hash([]byte("b")),
		common.Keccak256Hash([]byte("c")),
		common.Keccak256Hash([]byte("d")),
	}
	if _, err := target.Append(leaves); err != nil {
		t.Fatalf("Append: %v", err)
	}

	peer := &fakePeer{id: "peer-1", chain: leaves}

	localDB := memorydb.New()
	fork, err := accumulator.New(localDB, "fork")
	if err != nil {
		t.Fatalf("accumulator.New: %v", err)
	}

	if err := AccumulatorSync(context.Background(), nil, peer, fork, target.NumLeaves(), target.RootHash()); err != nil {
		t.Fatalf("AccumulatorSync: %v", err)
	}
	if fork.RootHash() != target.RootHash() {
		t.Fatalf("fork root %v != target root %v", fork.RootHash(), target.RootHash())
	}
}

func TestAccumulatorSyncFailsOnRootMismatch(t *testing.T) {
	peer := &fakePeer{id: "peer-1", chain: []common.Hash{common.Keccak256Hash([]byte("x"))}}
	db := memorydb.New()
	fork, err := accumulator.New(db, "fork")
	if err != nil {
		t.Fatalf("accumulator.New: %v", err)
	}
	err = AccumulatorSync(context.Background(), nil, peer, fork, 1, common.Keccak256Hash([]byte("wrong-root")))
	if !errors.Is(err, starerr.ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestBlockFetchRetriesTransientErrorsThenSucceeds(t *testing.T) {
	peer, chain := buildFakeChain(3)
	peer.failUntil = 2 // first 2 calls fail, 3rd succeeds

	blocks, err := BlockFetch(context.Background(), NewTaskHandle(), peer, chain[1:])
	if err != nil {
		t.Fatalf("BlockFetch: %v", err)
	}
	if len(blocks) != len(chain)-1 {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(chain)-1)
	}
	for i, b := range blocks {
		if b == nil {
			t.Fatalf("block %d is nil", i)
		}
	}
}

func TestBlockFetchFailsOnMissingBlock(t *testing.T) {
	peer, _ := buildFakeChain(2)
	missing := common.Keccak256Hash([]byte("does-not-exist"))

	_, err := BlockFetch(context.Background(), nil, peer, []common.Hash{missing})
	if !errors.Is(err, starerr.ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func newTestDAGForExecute(t *testing.T) (*dag.BlockDAG, *memorydb.Database, *types.Header) {
	t.Helper()
	db := memorydb.New()
	d, err := dag.New(db, dag.DefaultParams)
	if err != nil {
		t.Fatalf("dag.New: %v", err)
	}
	if err := d.Init(db); err != nil {
		t.Fatalf("Init: %v", err)
	}
	genesis := testHeader(nil, 0, 0)
	if _, err := d.InsertGenesis(db, genesis, &types.Body{}); err != nil {
		t.Fatalf("InsertGenesis: %v", err)
	}
	return d, db, genesis
}

func TestBlockExecuteInsertsSimpleChainInOrder(t *testing.T) {
	d, db, genesis := newTestDAGForExecute(t)
	absent, err := NewSyncAbsentBlockStore(db)
	if err != nil {
		t.Fatalf("NewSyncAbsentBlockStore: %v", err)
	}

	h1 := testHeader([]common.Hash{genesis.Id()}, 1, 1)
	h2 := testHeader([]common.Hash{h1.Id()}, 2, 2)
	blocks := []*types.Block{
		{Header: h1, Body: &types.Body{}},
		{Header: h2, Body: &types.Body{}},
	}

	if err := BlockExecute(db, d, absent, blocks); err != nil {
		t.Fatalf("BlockExecute: %v", err)
	}
	if has, _ := d.HasBlock(h2.Id()); !has {
		t.Fatal("expected h2 to be inserted")
	}
}

func TestBlockExecuteQueuesAndDrainsOutOfOrderBlocks(t *testing.T) {
	d, db, genesis := newTestDAGForExecute(t)
	absent, err := NewSyncAbsentBlockStore(db)
	if err != nil {
		t.Fatalf("NewSyncAbsentBlockStore: %v", err)
	}

	h1 := testHeader([]common.Hash{genesis.Id()}, 1, 1)
	h2 := testHeader([]common.Hash{h1.Id()}, 2, 2)
	h3 := testHeader([]common.Hash{h2.Id()}, 3, 3)

	// Feed in reverse order: h3 and h2 must queue into the absent store
	// until h1 arrives and unblocks the chain.
	blocks := []*types.Block{
		{Header: h3, Body: &types.Body{}},
		{Header: h2, Body: &types.Body{}},
		{Header: h1, Body: &types.Body{}},
	}

	if err := BlockExecute(db, d, absent, blocks); err != nil {
		t.Fatalf("BlockExecute: %v", err)
	}
	for _, h := range []*types.Header{h1, h2, h3} {
		if has, _ := d.HasBlock(h.Id()); !has {
			t.Errorf("expected %v to be inserted", h.Id())
		}
	}
}

func TestBlockExecuteLeavesUnresolvableBlockQueued(t *testing.T) {
	d, db, _ := newTestDAGForExecute(t)
	absent, err := NewSyncAbsentBlockStore(db)
	if err != nil {
		t.Fatalf("NewSyncAbsentBlockStore: %v", err)
	}

	orphanParent := common.Keccak256Hash([]byte("never-arrives"))
	orphan := testHeader([]common.Hash{orphanParent}, 99, 99)
	blocks := []*types.Block{{Header: orphan, Body: &types.Body{}}}

	if err := BlockExecute(db, d, absent, blocks); err != nil {
		t.Fatalf("BlockExecute: %v", err)
	}
	if has, _ := d.HasBlock(orphan.Id()); has {
		t.Fatal("orphan block should not have been inserted")
	}
	got, err := absent.store.Read(orphan.Id())
	if err != nil {
		t.Fatalf("expected orphan to remain queued in absent store: %v", err)
	}
	if len(got.MissingParents) != 1 || got.MissingParents[0] != orphanParent {
		t.Errorf("unexpected MissingParents: %+v", got.MissingParents)
	}
}

func TestTaskHandleCancelStopsRetry(t *testing.T) {
	handle := NewTaskHandle()
	handle.Cancel()
	if !handle.Cancelled() {
		t.Fatal("expected Cancelled() true after Cancel()")
	}

	attempts := 0
	err := retry(handle, func() error {
		attempts++
		return errors.New("would retry forever")
	})
	if !errors.Is(err, starerr.ErrTaskCancelled) {
		t.Fatalf("expected ErrTaskCancelled, got %v", err)
	}
	if attempts != 0 {
		t.Fatalf("expected 0 attempts once cancelled, got %d", attempts)
	}
}

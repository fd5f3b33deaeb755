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

package service

import (
	"fmt"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/dag"
	"github.com/starcoinorg/starcoin-core/log"
	"github.com/starcoinorg/starcoin-core/storage"
)

// ChainService wraps a dag.BlockDAG as a named registry service: the DAG
// itself has no notion of "started"/"stopped" or of answering a named
// request, so this is the glue spec.md §4.9 describes between a
// collaborator (C4) and the registry.
type ChainService struct {
	db  storage.KeyValueStore
	dag *dag.BlockDAG
}

// NewChainServiceFactory returns a ServiceFactory that opens a BlockDAG
// over db with params, usable as-is in Registry.Register.
func NewChainServiceFactory(db storage.KeyValueStore, params dag.Params) ServiceFactory {
	return func(*Context) (Service, error) {
		d, err := dag.New(db, params)
		if err != nil {
			return nil, fmt.Errorf("service: opening chain dag: %w", err)
		}
		return &ChainService{db: db, dag: d}, nil
	}
}

// Started runs BlockDAG.Init, laying down the tip/selected-tip sentinels a
// freshly-opened store needs before any InsertGenesis/InsertBlock call.
func (c *ChainService) Started(ctx *Context) error {
	if err := c.dag.Init(c.db); err != nil {
		return fmt.Errorf("chain: init: %w", err)
	}
	log.Info("chain service started")
	return nil
}

// Stopped is a no-op: the underlying KeyValueStore outlives this service
// and is closed by whoever opened it, not by ChainService.
func (c *ChainService) Stopped(*Context) {
	log.Info("chain service stopped")
}

// TipsRequest asks for the DAG's current tip set.
type TipsRequest struct{}

// SelectedTipRequest asks for the DAG's currently selected (heaviest) tip.
type SelectedTipRequest struct{}

// InsertGenesisRequest asks the chain service to insert the genesis header
// and body.
type InsertGenesisRequest struct {
	Header *types.Header
	Body   *types.Body
}

// InsertBlockRequest asks the chain service to insert header and body with
// the given parents, returning the resulting BlockInfo.
type InsertBlockRequest struct {
	Header  *types.Header
	Body    *types.Body
	Parents []common.Hash
}

// PruneBodiesRequest asks the chain service to delete the bodies of every
// selected-parent-chain ancestor of pruningPoint, per spec.md §4.4.
type PruneBodiesRequest struct {
	PruningPoint common.Hash
}

// HandleRequest answers TipsRequest, SelectedTipRequest,
// InsertGenesisRequest, InsertBlockRequest, and PruneBodiesRequest; any
// other message type is an error, matching spec.md §4.9's per-service
// closed request/response enum.
func (c *ChainService) HandleRequest(ctx *Context, msg interface{}) (interface{}, error) {
	switch req := msg.(type) {
	case TipsRequest:
		return c.dag.Tips()
	case SelectedTipRequest:
		return c.dag.SelectedTip()
	case InsertGenesisRequest:
		return c.dag.InsertGenesis(c.db, req.Header, req.Body)
	case InsertBlockRequest:
		return c.dag.InsertBlock(c.db, req.Header, req.Body, req.Parents)
	case PruneBodiesRequest:
		return c.dag.PruneBodies(c.db, req.PruningPoint)
	default:
		return nil, fmt.Errorf("chain: unsupported request %T", msg)
	}
}

// DAG exposes the wrapped BlockDAG for collaborators that need direct
// access (e.g. the sync pipeline's BlockInserter), bypassing the mailbox --
// callers doing this accept responsibility for not racing Request calls
// against their own direct use, same as any other non-service collaborator.
func (c *ChainService) DAG() *dag.BlockDAG { return c.dag }

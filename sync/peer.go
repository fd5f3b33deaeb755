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

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
)

// PeerID identifies a remote peer for sync purposes.
type PeerID string

// PeerClient is the RPC surface spec.md §6 names that the sync stages call
// against a single peer. Every method is request/response and BCS-encoded
// on the wire; the transport itself is an external collaborator this
// package assumes, not implements.
type PeerClient interface {
	ID() PeerID

	// GetBlockIds returns up to max block ids starting at start, walking
	// backward (reverse=true, used by FindAncestor's probe) or forward
	// (reverse=false, used by AccumulatorSync's batched leaf fetch).
	GetBlockIds(ctx context.Context, start uint64, reverse bool, max uint64) ([]common.Hash, error)
	GetHeaders(ctx context.Context, ids []common.Hash) ([]*types.Header, error)
	GetBodies(ctx context.Context, ids []common.Hash) ([]*types.Body, error)
	// GetBlocks returns one *types.Block per id, nil for any id the peer
	// does not have.
	GetBlocks(ctx context.Context, ids []common.Hash) ([]*types.Block, error)
}

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
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/dag"
	"github.com/starcoinorg/starcoin-core/storage/memorydb"
)

func TestChainServiceStartInsertAndQueryTips(t *testing.T) {
	db := memorydb.New()
	r := NewRegistry()
	require.NoError(t, r.Register("chain", NewChainServiceFactory(db, dag.DefaultParams)))
	require.NoError(t, r.Start(context.Background(), "chain"))

	genesis := &types.Header{Difficulty: uint256.NewInt(10)}
	infoRaw, err := r.Request("chain", InsertGenesisRequest{Header: genesis, Body: &types.Body{}})
	require.NoError(t, err)
	require.NotNil(t, infoRaw)

	genesisID := genesis.Id()
	child := &types.Header{
		ParentsHash: []common.Hash{genesisID},
		Difficulty:  uint256.NewInt(10),
		Number:      1,
		Nonce:       1,
	}
	_, err = r.Request("chain", InsertBlockRequest{Header: child, Body: &types.Body{}, Parents: []common.Hash{genesisID}})
	require.NoError(t, err)

	tipsRaw, err := r.Request("chain", TipsRequest{})
	require.NoError(t, err)
	tips, ok := tipsRaw.([]common.Hash)
	require.True(t, ok)
	require.Equal(t, []common.Hash{child.Id()}, tips)

	selectedRaw, err := r.Request("chain", SelectedTipRequest{})
	require.NoError(t, err)
	require.Equal(t, child.Id(), selectedRaw.(common.Hash))

	_, err = r.Request("chain", "not-a-known-request")
	require.Error(t, err)

	require.NoError(t, r.Stop("chain"))
}

func TestChainServicePruneBodiesRequest(t *testing.T) {
	db := memorydb.New()
	r := NewRegistry()
	require.NoError(t, r.Register("chain", NewChainServiceFactory(db, dag.DefaultParams)))
	require.NoError(t, r.Start(context.Background(), "chain"))

	genesis := &types.Header{Difficulty: uint256.NewInt(10)}
	_, err := r.Request("chain", InsertGenesisRequest{Header: genesis, Body: &types.Body{}})
	require.NoError(t, err)

	genesisID := genesis.Id()
	child := &types.Header{
		ParentsHash: []common.Hash{genesisID},
		Difficulty:  uint256.NewInt(10),
		Number:      1,
		Nonce:       1,
	}
	_, err = r.Request("chain", InsertBlockRequest{Header: child, Body: &types.Body{}, Parents: []common.Hash{genesisID}})
	require.NoError(t, err)

	deletedRaw, err := r.Request("chain", PruneBodiesRequest{PruningPoint: child.Id()})
	require.NoError(t, err)
	require.Equal(t, 1, deletedRaw.(int))

	require.NoError(t, r.Stop("chain"))
}

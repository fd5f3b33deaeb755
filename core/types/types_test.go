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

package types

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

func h(b byte) common.Hash {
	var out common.Hash
	out[common.HashLength-1] = b
	return out
}

func sampleHeader() *Header {
	return &Header{
		ParentHash:           h(1),
		ParentsHash:          []common.Hash{h(1), h(2)},
		Timestamp:            123456,
		Number:               7,
		Author:               common.BytesToAddress([]byte{0xaa}),
		StateRoot:            h(3),
		TxnAccumulatorRoot:   h(4),
		BlockAccumulatorRoot: h(5),
		Difficulty:           uint256.NewInt(1000),
		BodyHash:             h(6),
		ChainId:              1,
		Nonce:                42,
		PruningPoint:         common.ZeroHash,
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	hd := sampleHeader()
	var out Header
	require.NoError(t, codec.Decode(codec.Encode(hd), &out))
	require.Equal(t, hd.ParentHash, out.ParentHash)
	require.Equal(t, hd.ParentsHash, out.ParentsHash)
	require.Equal(t, hd.Number, out.Number)
	require.Equal(t, hd.Author, out.Author)
	require.True(t, hd.Difficulty.Eq(out.Difficulty))
	require.Equal(t, hd.Id(), out.Id())
}

func TestHeaderIsGenesis(t *testing.T) {
	hd := sampleHeader()
	require.False(t, hd.IsGenesis())
	hd.ParentsHash = nil
	require.True(t, hd.IsGenesis())
}

func TestBlockRoundTrip(t *testing.T) {
	b := &Block{
		Header: sampleHeader(),
		Body: &Body{
			Transactions: []*SignedUserTransaction{{Raw: []byte("txn-1")}, {Raw: []byte("txn-2")}},
		},
	}
	var out Block
	require.NoError(t, codec.Decode(codec.Encode(b), &out))
	require.Equal(t, b.Id(), out.Id())
	require.Len(t, out.Body.Transactions, 2)
	require.Equal(t, b.Body.Transactions[0].Hash(), out.Body.Transactions[0].Hash())
}

func TestTransactionInfoRoundTrip(t *testing.T) {
	ti := &TransactionInfo{
		TransactionHash: h(7),
		StateRootHash:   h(8),
		EventRootHash:   h(9),
		GasUsed:         5000,
		Status:          StatusKeep,
	}
	var out TransactionInfo
	require.NoError(t, codec.Decode(codec.Encode(ti), &out))
	require.Equal(t, ti.Id(), out.Id())
	require.Equal(t, "keep", out.Status.String())
}

func TestBlockInfoRoundTrip(t *testing.T) {
	bi := &BlockInfo{
		BlockHash:       h(10),
		TotalDifficulty: uint256.NewInt(99999),
		BlueScore:       3,
		BlockAccumulatorInfo: AccumulatorInfo{
			AccumulatorRoot: h(11),
			FrozenSubtrees:  []common.Hash{h(12)},
			NumLeaves:       10,
			NumNodes:        19,
		},
	}
	var out BlockInfo
	require.NoError(t, codec.Decode(codec.Encode(bi), &out))
	require.Equal(t, bi.BlockHash, out.BlockHash)
	require.True(t, bi.TotalDifficulty.Eq(out.TotalDifficulty))
	require.Equal(t, bi.BlockAccumulatorInfo.NumLeaves, out.BlockAccumulatorInfo.NumLeaves)
}

func TestEpochInfoInEpoch(t *testing.T) {
	ei := &EpochInfo{Number: 1, StartNumber: 100, EndNumber: 200, BlockTimeTarget: 5000, MaxUncleCount: 2}
	require.True(t, ei.InEpoch(100))
	require.True(t, ei.InEpoch(199))
	require.False(t, ei.InEpoch(200))
	require.False(t, ei.InEpoch(99))

	var out EpochInfo
	require.NoError(t, codec.Decode(codec.Encode(ei), &out))
	require.Equal(t, *ei, out)
}

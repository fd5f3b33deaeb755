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
	"github.com/holiman/uint256"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

// BlockInfo is the per-block summary kept alongside a Header: cumulative
// chain work (for fork-choice), the current block accumulator root/size
// known after this block, and the GHOSTDAG blue score supplementing the
// distilled spec's chain-work-only fork choice (SPEC_FULL.md §3).
type BlockInfo struct {
	BlockHash            common.Hash
	TotalDifficulty      *uint256.Int
	BlueScore            uint64
	BlockAccumulatorInfo AccumulatorInfo
	TxnAccumulatorInfo   AccumulatorInfo
}

// AccumulatorInfo snapshots an accumulator's externally-visible shape:
// current root, total leaf count, and the per-level frozen subtree roots
// needed to resume appends without replaying history.
type AccumulatorInfo struct {
	AccumulatorRoot common.Hash
	FrozenSubtrees  []common.Hash
	NumLeaves       uint64
	NumNodes        uint64
}

func (a *AccumulatorInfo) MarshalBCS(e *codec.Encoder) {
	e.WriteFixed(a.AccumulatorRoot[:])
	e.WriteUvarint(uint64(len(a.FrozenSubtrees)))
	for _, h := range a.FrozenSubtrees {
		e.WriteFixed(h[:])
	}
	e.WriteU64(a.NumLeaves)
	e.WriteU64(a.NumNodes)
}

func (a *AccumulatorInfo) UnmarshalBCS(d *codec.Decoder) error {
	var err error
	if fixedHash(d, &a.AccumulatorRoot, &err); err != nil {
		return err
	}
	n, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	a.FrozenSubtrees = make([]common.Hash, n)
	for i := range a.FrozenSubtrees {
		if fixedHash(d, &a.FrozenSubtrees[i], &err); err != nil {
			return err
		}
	}
	if a.NumLeaves, err = d.ReadU64(); err != nil {
		return err
	}
	if a.NumNodes, err = d.ReadU64(); err != nil {
		return err
	}
	return nil
}

func (bi *BlockInfo) MarshalBCS(e *codec.Encoder) {
	e.WriteFixed(bi.BlockHash[:])
	td := bi.TotalDifficulty
	if td == nil {
		td = uint256.NewInt(0)
	}
	b := td.Bytes32()
	e.WriteFixed(b[:])
	e.WriteU64(bi.BlueScore)
	bi.BlockAccumulatorInfo.MarshalBCS(e)
	bi.TxnAccumulatorInfo.MarshalBCS(e)
}

func (bi *BlockInfo) UnmarshalBCS(d *codec.Decoder) error {
	var err error
	if fixedHash(d, &bi.BlockHash, &err); err != nil {
		return err
	}
	tb, err := d.ReadFixed(32)
	if err != nil {
		return err
	}
	bi.TotalDifficulty = new(uint256.Int).SetBytes32(tb)
	if bi.BlueScore, err = d.ReadU64(); err != nil {
		return err
	}
	if err := bi.BlockAccumulatorInfo.UnmarshalBCS(d); err != nil {
		return err
	}
	return bi.TxnAccumulatorInfo.UnmarshalBCS(d)
}

// EpochInfo tracks the reward/difficulty-adjustment epoch a block falls in:
// its start/end block numbers and the target block time used by the
// difficulty retargeting algorithm.
type EpochInfo struct {
	Number           uint64
	StartNumber      uint64
	EndNumber        uint64
	BlockTimeTarget  uint64
	MaxUncleCount    uint64
}

func (ei *EpochInfo) MarshalBCS(e *codec.Encoder) {
	e.WriteU64(ei.Number)
	e.WriteU64(ei.StartNumber)
	e.WriteU64(ei.EndNumber)
	e.WriteU64(ei.BlockTimeTarget)
	e.WriteU64(ei.MaxUncleCount)
}

func (ei *EpochInfo) UnmarshalBCS(d *codec.Decoder) error {
	var err error
	if ei.Number, err = d.ReadU64(); err != nil {
		return err
	}
	if ei.StartNumber, err = d.ReadU64(); err != nil {
		return err
	}
	if ei.EndNumber, err = d.ReadU64(); err != nil {
		return err
	}
	if ei.BlockTimeTarget, err = d.ReadU64(); err != nil {
		return err
	}
	if ei.MaxUncleCount, err = d.ReadU64(); err != nil {
		return err
	}
	return nil
}

// InEpoch reports whether blockNumber falls within [StartNumber, EndNumber).
func (ei *EpochInfo) InEpoch(blockNumber uint64) bool {
	return blockNumber >= ei.StartNumber && blockNumber < ei.EndNumber
}

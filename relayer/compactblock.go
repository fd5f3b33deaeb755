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

package relayer

import (
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

// PrefilledTxn is a full transaction embedded in a CompactBlock at a known
// position, because the encoder's own mempool did not hold it.
type PrefilledTxn struct {
	Index uint32
	Txn   *types.SignedUserTransaction
}

func (p *PrefilledTxn) MarshalBCS(e *codec.Encoder) {
	e.WriteU32(p.Index)
	p.Txn.MarshalBCS(e)
}

func (p *PrefilledTxn) UnmarshalBCS(d *codec.Decoder) error {
	idx, err := d.ReadU32()
	if err != nil {
		return err
	}
	p.Index = idx
	p.Txn = new(types.SignedUserTransaction)
	return p.Txn.UnmarshalBCS(d)
}

// CompactBlock is the wire encoding of a block body for relay, per
// spec.md §4.7: a header, one short id per transaction (in order), and the
// full bytes of any transaction the sender's own mempool did not already
// hold.
type CompactBlock struct {
	Header        *types.Header
	ShortIds      []ShortID
	PrefilledTxns []PrefilledTxn
}

func (cb *CompactBlock) MarshalBCS(e *codec.Encoder) {
	cb.Header.MarshalBCS(e)
	e.WriteUvarint(uint64(len(cb.ShortIds)))
	for _, s := range cb.ShortIds {
		e.WriteU64(uint64(s))
	}
	e.WriteUvarint(uint64(len(cb.PrefilledTxns)))
	for i := range cb.PrefilledTxns {
		cb.PrefilledTxns[i].MarshalBCS(e)
	}
}

func (cb *CompactBlock) UnmarshalBCS(d *codec.Decoder) error {
	cb.Header = new(types.Header)
	if err := cb.Header.UnmarshalBCS(d); err != nil {
		return err
	}
	n, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	cb.ShortIds = make([]ShortID, n)
	for i := range cb.ShortIds {
		v, err := d.ReadU64()
		if err != nil {
			return err
		}
		cb.ShortIds[i] = ShortID(v)
	}
	n, err = d.ReadUvarint()
	if err != nil {
		return err
	}
	cb.PrefilledTxns = make([]PrefilledTxn, n)
	for i := range cb.PrefilledTxns {
		if err := cb.PrefilledTxns[i].UnmarshalBCS(d); err != nil {
			return err
		}
	}
	return nil
}

// MissingTxns is returned by Decode when one or more of a CompactBlock's
// transactions could neither be matched against the local mempool nor were
// prefilled, per spec.md §4.7's decode contract. The receiver is expected to
// request these indices' full transactions from the sender as a follow-up.
type MissingTxns struct {
	Indices []int
}

// CompactBlockMessage is the `/starcoin/block/1` wire protocol payload
// (spec.md §6): a compact block plus the sending peer's claimed BlockInfo
// for the same block, so the receiver can validate fork-choice weight
// before committing to a full reconstruction.
type CompactBlockMessage struct {
	CompactBlock *CompactBlock
	BlockInfo    *types.BlockInfo
}

func (m *CompactBlockMessage) MarshalBCS(e *codec.Encoder) {
	m.CompactBlock.MarshalBCS(e)
	m.BlockInfo.MarshalBCS(e)
}

func (m *CompactBlockMessage) UnmarshalBCS(d *codec.Decoder) error {
	m.CompactBlock = new(CompactBlock)
	if err := m.CompactBlock.UnmarshalBCS(d); err != nil {
		return err
	}
	m.BlockInfo = new(types.BlockInfo)
	return m.BlockInfo.UnmarshalBCS(d)
}

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
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

// SignedUserTransaction is an opaque, already-signed transaction envelope.
// This repository treats transaction internals (the Move VM payload, the
// signature scheme) as out of scope; only the raw bytes needed for
// execution dispatch and hashing are kept.
type SignedUserTransaction struct {
	Raw []byte
}

func (t *SignedUserTransaction) Hash() common.Hash { return common.Keccak256Hash(t.Raw) }

func (t *SignedUserTransaction) MarshalBCS(e *codec.Encoder) { e.WriteBytes(t.Raw) }

func (t *SignedUserTransaction) UnmarshalBCS(d *codec.Decoder) error {
	raw, err := d.ReadBytes()
	if err != nil {
		return err
	}
	t.Raw = raw
	return nil
}

// Body holds the transaction list and uncle headers that hash into
// Header.BodyHash.
type Body struct {
	Transactions []*SignedUserTransaction
	Uncles       []*Header
}

func (b *Body) MarshalBCS(e *codec.Encoder) {
	e.WriteUvarint(uint64(len(b.Transactions)))
	for _, t := range b.Transactions {
		t.MarshalBCS(e)
	}
	e.WriteUvarint(uint64(len(b.Uncles)))
	for _, u := range b.Uncles {
		u.MarshalBCS(e)
	}
}

func (b *Body) UnmarshalBCS(d *codec.Decoder) error {
	n, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	b.Transactions = make([]*SignedUserTransaction, n)
	for i := range b.Transactions {
		txn := new(SignedUserTransaction)
		if err := txn.UnmarshalBCS(d); err != nil {
			return err
		}
		b.Transactions[i] = txn
	}
	n, err = d.ReadUvarint()
	if err != nil {
		return err
	}
	b.Uncles = make([]*Header, n)
	for i := range b.Uncles {
		h := new(Header)
		if err := h.UnmarshalBCS(d); err != nil {
			return err
		}
		b.Uncles[i] = h
	}
	return nil
}

// Block pairs a Header with its Body. Block.Id() == Header.Id().
type Block struct {
	Header *Header
	Body   *Body
}

func (b *Block) Id() common.Hash { return b.Header.Id() }

func (b *Block) MarshalBCS(e *codec.Encoder) {
	b.Header.MarshalBCS(e)
	b.Body.MarshalBCS(e)
}

func (b *Block) UnmarshalBCS(d *codec.Decoder) error {
	b.Header = new(Header)
	if err := b.Header.UnmarshalBCS(d); err != nil {
		return err
	}
	b.Body = new(Body)
	return b.Body.UnmarshalBCS(d)
}

// BlockMetadata is the synthetic, non-signed "block metadata transaction"
// OpenedBlock prepends to every block's execution, carrying the author,
// timestamp, uncles and parent gas used that the Move VM's epoch/reward
// logic needs but that no user ever signs.
type BlockMetadata struct {
	ParentHash    common.Hash
	Timestamp     uint64
	Author        common.Address
	ParentGasUsed uint64
	Number        uint64
	ChainId       ChainId
	ParentsHash   []common.Hash
	// RedBlocks is the count of this block's GHOSTDAG red (excluded)
	// merge-set members, passed to OpenedBlock.initialize per spec.md §4.6
	// so the Move epoch/reward logic can account for work done by blocks
	// that did not make the blue set.
	RedBlocks uint64
}

func (m *BlockMetadata) MarshalBCS(e *codec.Encoder) {
	e.WriteFixed(m.ParentHash[:])
	e.WriteU64(m.Timestamp)
	e.WriteFixed(m.Author[:])
	e.WriteU64(m.ParentGasUsed)
	e.WriteU64(m.Number)
	e.WriteByte(byte(m.ChainId))
	e.WriteUvarint(uint64(len(m.ParentsHash)))
	for _, p := range m.ParentsHash {
		e.WriteFixed(p[:])
	}
	e.WriteU64(m.RedBlocks)
}

// Id hashes the metadata itself, used as the block-metadata pseudo-txn's
// identity when it is appended to the transaction-info accumulator.
func (m *BlockMetadata) Id() common.Hash {
	return common.Keccak256Hash(codec.Encode(m))
}

func (m *BlockMetadata) UnmarshalBCS(d *codec.Decoder) error {
	var err error
	if fixedHash(d, &m.ParentHash, &err); err != nil {
		return err
	}
	if m.Timestamp, err = d.ReadU64(); err != nil {
		return err
	}
	ab, err := d.ReadFixed(common.AddressLength)
	if err != nil {
		return err
	}
	m.Author = common.BytesToAddress(ab)
	if m.ParentGasUsed, err = d.ReadU64(); err != nil {
		return err
	}
	if m.Number, err = d.ReadU64(); err != nil {
		return err
	}
	cid, err := d.ReadByte()
	if err != nil {
		return err
	}
	m.ChainId = ChainId(cid)
	n, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	m.ParentsHash = make([]common.Hash, n)
	for i := range m.ParentsHash {
		if fixedHash(d, &m.ParentsHash[i], &err); err != nil {
			return err
		}
	}
	if m.RedBlocks, err = d.ReadU64(); err != nil {
		return err
	}
	return nil
}

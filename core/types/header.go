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

// Package types defines the block-DAG data model from spec.md §3: Header,
// Body, Block, TransactionInfo, BlockInfo, EpochInfo. Every type implements
// codec.Marshaler/Unmarshaler for the canonical BCS-style on-disk and
// on-wire encoding.
package types

import (
	"github.com/holiman/uint256"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

// ChainId identifies which Starcoin-family network a block belongs to.
type ChainId uint8

// Header is the hashable part of a Block (spec.md §3).
type Header struct {
	ParentHash           common.Hash
	ParentsHash          []common.Hash
	Timestamp            uint64
	Number               uint64
	Author               common.Address
	StateRoot            common.Hash
	TxnAccumulatorRoot   common.Hash
	BlockAccumulatorRoot common.Hash
	Difficulty           *uint256.Int
	BodyHash             common.Hash
	ChainId              ChainId
	Nonce                uint64
	PruningPoint         common.Hash
}

// Id returns the content-addressed identity of the header: hash(header).
func (h *Header) Id() common.Hash {
	return common.Keccak256Hash(codec.Encode(h))
}

// IsGenesis reports whether h has no parents, per spec.md §3's "parents_hash
// is non-empty for non-genesis" invariant.
func (h *Header) IsGenesis() bool { return len(h.ParentsHash) == 0 }

func (h *Header) MarshalBCS(e *codec.Encoder) {
	e.WriteFixed(h.ParentHash[:])
	e.WriteUvarint(uint64(len(h.ParentsHash)))
	for _, p := range h.ParentsHash {
		e.WriteFixed(p[:])
	}
	e.WriteU64(h.Timestamp)
	e.WriteU64(h.Number)
	e.WriteFixed(h.Author[:])
	e.WriteFixed(h.StateRoot[:])
	e.WriteFixed(h.TxnAccumulatorRoot[:])
	e.WriteFixed(h.BlockAccumulatorRoot[:])
	diff := h.Difficulty
	if diff == nil {
		diff = uint256.NewInt(0)
	}
	b := diff.Bytes32()
	e.WriteFixed(b[:])
	e.WriteFixed(h.BodyHash[:])
	e.WriteByte(byte(h.ChainId))
	e.WriteU64(h.Nonce)
	e.WriteFixed(h.PruningPoint[:])
}

func (h *Header) UnmarshalBCS(d *codec.Decoder) error {
	var err error
	if fixedHash(d, &h.ParentHash, &err); err != nil {
		return err
	}
	n, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	h.ParentsHash = make([]common.Hash, n)
	for i := range h.ParentsHash {
		if fixedHash(d, &h.ParentsHash[i], &err); err != nil {
			return err
		}
	}
	if h.Timestamp, err = d.ReadU64(); err != nil {
		return err
	}
	if h.Number, err = d.ReadU64(); err != nil {
		return err
	}
	ab, err := d.ReadFixed(common.AddressLength)
	if err != nil {
		return err
	}
	h.Author = common.BytesToAddress(ab)
	if fixedHash(d, &h.StateRoot, &err); err != nil {
		return err
	}
	if fixedHash(d, &h.TxnAccumulatorRoot, &err); err != nil {
		return err
	}
	if fixedHash(d, &h.BlockAccumulatorRoot, &err); err != nil {
		return err
	}
	db, err := d.ReadFixed(32)
	if err != nil {
		return err
	}
	h.Difficulty = new(uint256.Int).SetBytes32(db)
	if fixedHash(d, &h.BodyHash, &err); err != nil {
		return err
	}
	cid, err := d.ReadByte()
	if err != nil {
		return err
	}
	h.ChainId = ChainId(cid)
	if h.Nonce, err = d.ReadU64(); err != nil {
		return err
	}
	if fixedHash(d, &h.PruningPoint, &err); err != nil {
		return err
	}
	return nil
}

// fixedHash reads a 32-byte Hash from d into dst, storing any error into err.
// Using the shared *err out-param keeps the long UnmarshalBCS bodies above
// from repeating the same four lines for every Hash field.
func fixedHash(d *codec.Decoder, dst *common.Hash, err *error) bool {
	b, e := d.ReadFixed(common.HashLength)
	if e != nil {
		*err = e
		return false
	}
	copy(dst[:], b)
	*err = nil
	return true
}

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

// TransactionInfo is the per-transaction execution receipt: the resulting
// state root, the events emitted, gas used, and the VM status. One is
// produced per transaction OpenedBlock keeps (the block-metadata
// pseudo-transaction included; discarded ones get none) and becomes a leaf of
// the transaction-info accumulator.
type TransactionInfo struct {
	TransactionHash   common.Hash
	StateRootHash     common.Hash
	EventRootHash     common.Hash
	GasUsed           uint64
	Status            TransactionStatus
}

// TransactionStatus mirrors the three outcomes OpenedBlock.push_txns can
// produce for a single transaction.
type TransactionStatus uint8

const (
	// StatusKeep means the transaction executed and its effects are kept.
	StatusKeep TransactionStatus = iota
	// StatusDiscard means the transaction was invalid and had no effect;
	// it is excluded from the block body entirely.
	StatusDiscard
	// StatusRetry means the block is full (gas or count limit) and the
	// transaction must be retried in a later block.
	StatusRetry
)

func (s TransactionStatus) String() string {
	switch s {
	case StatusKeep:
		return "keep"
	case StatusDiscard:
		return "discard"
	case StatusRetry:
		return "retry"
	default:
		return "unknown"
	}
}

func (t *TransactionInfo) MarshalBCS(e *codec.Encoder) {
	e.WriteFixed(t.TransactionHash[:])
	e.WriteFixed(t.StateRootHash[:])
	e.WriteFixed(t.EventRootHash[:])
	e.WriteU64(t.GasUsed)
	e.WriteByte(byte(t.Status))
}

func (t *TransactionInfo) UnmarshalBCS(d *codec.Decoder) error {
	var err error
	if fixedHash(d, &t.TransactionHash, &err); err != nil {
		return err
	}
	if fixedHash(d, &t.StateRootHash, &err); err != nil {
		return err
	}
	if fixedHash(d, &t.EventRootHash, &err); err != nil {
		return err
	}
	if t.GasUsed, err = d.ReadU64(); err != nil {
		return err
	}
	st, err := d.ReadByte()
	if err != nil {
		return err
	}
	t.Status = TransactionStatus(st)
	return nil
}

// Id hashes the info itself, used as the transaction-info accumulator leaf.
func (t *TransactionInfo) Id() common.Hash {
	return common.Keccak256Hash(codec.Encode(t))
}

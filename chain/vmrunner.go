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

// Package chain implements spec.md §4.6's OpenedBlock (C6): staging a block
// under construction by executing transactions against a dual-VM StateDB,
// grounded on original_source/chain/open-block/src/vm2.rs. That file is the
// only OpenedBlock lifecycle implementation retrieved into this pack (the
// base, non-"_v2"-suffixed open_block.rs was not retrieved); its
// initialize/push_txns/push_txn_and_state pattern is generalized here to
// drive both the vm1 and vm2 state trees symmetrically.
package chain

import (
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/state"
)

// TxnOutput is one transaction's execution result, as returned by a
// VmRunner. It mirrors the Move VM's TransactionOutput: a status, the
// write-set to apply on Keep, any emitted event payloads, and gas used.
type TxnOutput struct {
	Status   types.TransactionStatus
	WriteSet state.WriteSet
	Events   [][]byte
	GasUsed  uint64
}

// VmRunner is the assumed `execute_block_transactions` entrypoint spec.md
// §4.6 and SPEC_FULL.md §4.6 name without specifying: a batch of
// transactions, each as its codec (BCS) encoding, is executed against st
// honoring an optional gas ceiling (nil for the unlimited
// block-metadata-only call). OpenedBlock is given two VmRunner values by its
// caller, vm1 and vm2, one per underlying state tree of state.V2; this
// package ships no implementation of its own.
type VmRunner interface {
	ExecuteBlockTransactions(st *state.Tree, rawTxns [][]byte, gasLeft *uint64) ([]TxnOutput, error)
}

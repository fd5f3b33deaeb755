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

package chain

import (
	"fmt"
	"sync"

	"github.com/starcoinorg/starcoin-core/accumulator"
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/starerr"
	"github.com/starcoinorg/starcoin-core/state"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

// VM1 and VM2 index OpenedBlock's two parallel VM states, matching
// chain_state_db_v2.rs's state.0/state.1 tuple indexing.
const (
	VM1 = 0
	VM2 = 1
)

// ExcludedTxns reports transactions a PushTxns call did not include in the
// block body, per spec.md §4.6 step 5.
type ExcludedTxns struct {
	DiscardedTxns []*types.SignedUserTransaction
	UntouchedTxns []*types.SignedUserTransaction
}

// BlockTemplate is Finalize's result: every header field except the
// proof-of-work nonce and difficulty, which only the external consensus
// module supplies, plus the finished body.
type BlockTemplate struct {
	ParentHash           common.Hash
	ParentsHash          []common.Hash
	Timestamp            uint64
	Number               uint64
	Author               common.Address
	StateRoot            common.Hash
	TxnAccumulatorRoot   common.Hash
	BlockAccumulatorRoot common.Hash
	BodyHash             common.Hash
	ChainId              types.ChainId
	PruningPoint         common.Hash
	Body                 *types.Body
}

var noEventsHash = common.Keccak256Hash([]byte("starcoin-no-events"))

func eventsRootHash(events [][]byte) common.Hash {
	if len(events) == 0 {
		return noEventsHash
	}
	return common.Keccak256Hash(events...)
}

// OpenedBlock stages a block under construction per spec.md §4.6's
// initialize/push_txns/finalize lifecycle, executing against a dual-VM
// state.V2 and appending one TransactionInfo per kept transaction
// (including the block-metadata pseudo-txn) to a single shared
// transaction-info accumulator, in execution order.
type OpenedBlock struct {
	mu sync.Mutex

	vm1, vm2 VmRunner
	state    *state.V2

	txnAccumulator *accumulator.Accumulator

	parentHash   common.Hash
	parentsHash  []common.Hash
	author       common.Address
	timestamp    uint64
	number       uint64
	chainID      types.ChainId
	pruningPoint common.Hash
	redBlocks    uint64

	gasLimit uint64
	gasUsed  uint64

	initialized bool
	finalized   bool

	includedTxns  []*types.SignedUserTransaction
	discardedTxns []*types.SignedUserTransaction
}

// New opens a fresh block-construction context.
func New(
	vm1, vm2 VmRunner,
	st *state.V2,
	txnAccumulator *accumulator.Accumulator,
	parentHash common.Hash,
	parentsHash []common.Hash,
	author common.Address,
	timestamp, number uint64,
	chainID types.ChainId,
	pruningPoint common.Hash,
	gasLimit uint64,
) *OpenedBlock {
	return &OpenedBlock{
		vm1: vm1, vm2: vm2, state: st, txnAccumulator: txnAccumulator,
		parentHash: parentHash, parentsHash: append([]common.Hash(nil), parentsHash...),
		author: author, timestamp: timestamp, number: number, chainID: chainID,
		pruningPoint: pruningPoint, gasLimit: gasLimit,
	}
}

func (ob *OpenedBlock) runner(vmIdx int) VmRunner {
	if vmIdx == VM1 {
		return ob.vm1
	}
	return ob.vm2
}

func (ob *OpenedBlock) stateTree(vmIdx int) *state.Tree {
	if vmIdx == VM1 {
		return ob.state.VM1
	}
	return ob.state.VM2
}

// Initialize executes the synthetic block-metadata transaction against both
// VM states, per spec.md §4.6's initialize step. Must be called exactly
// once, before any PushTxns call. redBlocks is this block's GHOSTDAG red
// merge-set member count (core/types.BlockMetadata.RedBlocks).
//
// Both VM states observe the block-metadata txn (each tracks its own
// independent world state), but per vm2.rs's initialize_v2 -- the only
// retrieved model for this step -- it is a single pseudo-txn: exactly one
// TransactionInfo leaf is appended to the shared accumulator, built from
// VM2's execution result, not one leaf per VM (spec.md §8 Scenario 1's
// num_leaves arithmetic counts one metadata leaf per block).
func (ob *OpenedBlock) Initialize(redBlocks uint64) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if ob.initialized {
		return starerr.NewInvariantViolation("chain.Initialize", "OpenedBlock already initialized")
	}
	ob.redBlocks = redBlocks

	meta := &types.BlockMetadata{
		ParentHash:  ob.parentHash,
		Timestamp:   ob.timestamp,
		Author:      ob.author,
		Number:      ob.number,
		ChainId:     ob.chainID,
		ParentsHash: append([]common.Hash(nil), ob.parentsHash...),
		RedBlocks:   redBlocks,
	}

	out1, err := ob.execMetadata(VM1, meta)
	if err != nil {
		return err
	}
	if _, err := ob.applyAndCommit(VM1, out1); err != nil {
		return err
	}

	out2, err := ob.execMetadata(VM2, meta)
	if err != nil {
		return err
	}
	if err := ob.pushTxnAndState(VM2, meta.Id(), out2); err != nil {
		return err
	}

	ob.initialized = true
	return nil
}

// execMetadata runs meta against vmIdx's state tree without applying its
// write-set or touching the accumulator, so the caller decides whether this
// VM's run also produces an accumulator leaf.
func (ob *OpenedBlock) execMetadata(vmIdx int, meta *types.BlockMetadata) (TxnOutput, error) {
	outs, err := ob.runner(vmIdx).ExecuteBlockTransactions(ob.stateTree(vmIdx), [][]byte{codec.Encode(meta)}, nil)
	if err != nil {
		return TxnOutput{}, err
	}
	if len(outs) != 1 {
		return TxnOutput{}, starerr.NewInvariantViolation("chain.Initialize", "vm runner returned wrong output count for the block-metadata txn")
	}
	out := outs[0]
	if out.Status != types.StatusKeep {
		return TxnOutput{}, fmt.Errorf("chain: block-metadata txn %s was not kept (status %s): %w", meta.Id(), out.Status, starerr.ErrVerificationFailed)
	}
	return out, nil
}

// PushTxns executes userTxns against the vmIdx state (VM1 or VM2), per
// spec.md §4.6's push_txns steps 1-5. It may be called many times; state is
// carried over between calls. Caller-supplied order within one call is
// preserved; the block-metadata txn is always first, written by Initialize.
//
// The retrieval pack only contains the vm2 (open-block/src/vm2.rs) side of
// this lifecycle, which addresses one VM's transaction universe per call
// (SignedUserTransaction2, independent of vm1's own, unretrieved, txn set).
// This method generalizes that one concrete shape to both VM indices rather
// than inventing an unevidenced single-call-drives-both-VMs variant.
func (ob *OpenedBlock) PushTxns(vmIdx int, userTxns []*types.SignedUserTransaction) (ExcludedTxns, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if !ob.initialized {
		return ExcludedTxns{}, starerr.NewInvariantViolation("chain.PushTxns", "OpenedBlock not initialized")
	}
	if ob.finalized {
		return ExcludedTxns{}, starerr.NewInvariantViolation("chain.PushTxns", "OpenedBlock already finalized")
	}
	if vmIdx != VM1 && vmIdx != VM2 {
		return ExcludedTxns{}, fmt.Errorf("chain: invalid vm index %d", vmIdx)
	}
	if ob.gasUsed > ob.gasLimit {
		return ExcludedTxns{}, starerr.NewInvariantViolation("chain.PushTxns", "gas_used exceeds gas_limit")
	}
	gasLeft := ob.gasLimit - ob.gasUsed

	raw := make([][]byte, len(userTxns))
	for i, t := range userTxns {
		raw[i] = codec.Encode(t)
	}

	outs, err := ob.runner(vmIdx).ExecuteBlockTransactions(ob.stateTree(vmIdx), raw, &gasLeft)
	if err != nil {
		return ExcludedTxns{}, err
	}

	var excluded ExcludedTxns
	if len(outs) < len(userTxns) {
		excluded.UntouchedTxns = append(excluded.UntouchedTxns, userTxns[len(outs):]...)
		userTxns = userTxns[:len(outs)]
	}

	for i, txn := range userTxns {
		out := outs[i]
		txnHash := txn.Hash()
		switch out.Status {
		case types.StatusKeep:
			if err := ob.pushTxnAndState(vmIdx, txnHash, out); err != nil {
				return ExcludedTxns{}, err
			}
			ob.gasUsed += out.GasUsed
			ob.includedTxns = append(ob.includedTxns, txn)
		case types.StatusDiscard, types.StatusRetry:
			// Retry is impossible mid-block (spec.md §4.6 step 4: "treat as
			// Discard, log invariant alert"); there is no separate retry queue here.
			ob.discardedTxns = append(ob.discardedTxns, txn)
			excluded.DiscardedTxns = append(excluded.DiscardedTxns, txn)
		}
	}

	return excluded, nil
}

// applyAndCommit applies out's write-set to vmIdx's state tree and commits
// it, returning the resulting per-transaction state root. It does not touch
// the accumulator, so a caller observing more than one VM's output for the
// same logical txn (Initialize's dual-VM block-metadata run) can apply
// state to every VM while appending only one accumulator leaf.
func (ob *OpenedBlock) applyAndCommit(vmIdx int, out TxnOutput) (common.Hash, error) {
	st := ob.stateTree(vmIdx)
	st.ApplyWriteSet(out.WriteSet)
	return st.Commit()
}

// pushTxnAndState applies out's write-set to vmIdx's state tree, commits it
// to obtain the per-transaction state root, builds the TransactionInfo, and
// appends its id to the shared transaction-info accumulator.
func (ob *OpenedBlock) pushTxnAndState(vmIdx int, txnHash common.Hash, out TxnOutput) error {
	txnStateRoot, err := ob.applyAndCommit(vmIdx, out)
	if err != nil {
		return err
	}
	info := &types.TransactionInfo{
		TransactionHash: txnHash,
		StateRootHash:   txnStateRoot,
		EventRootHash:   eventsRootHash(out.Events),
		GasUsed:         out.GasUsed,
		Status:          types.StatusKeep,
	}
	_, err = ob.txnAccumulator.Append([]common.Hash{info.Id()})
	return err
}

// GasUsed returns the cumulative gas consumed across every PushTxns call so far.
func (ob *OpenedBlock) GasUsed() uint64 {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.gasUsed
}

// IncludedTxns returns the transactions kept so far, in execution order.
func (ob *OpenedBlock) IncludedTxns() []*types.SignedUserTransaction {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return append([]*types.SignedUserTransaction(nil), ob.includedTxns...)
}

// DiscardedTxns returns the transactions discarded so far, in execution order.
func (ob *OpenedBlock) DiscardedTxns() []*types.SignedUserTransaction {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return append([]*types.SignedUserTransaction(nil), ob.discardedTxns...)
}

// Finalize commits the dual-VM state (writing the MultiState blob per
// state.V2.Commit) and seals the block template's roots. blockAccumulatorRoot
// is supplied by the caller (the block accumulator, C2, lives one level up
// at the chain, not inside OpenedBlock). Consensus then supplies nonce and
// difficulty to yield a complete Block.
func (ob *OpenedBlock) Finalize(blockAccumulatorRoot common.Hash) (*BlockTemplate, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if !ob.initialized {
		return nil, starerr.NewInvariantViolation("chain.Finalize", "OpenedBlock not initialized")
	}
	if ob.finalized {
		return nil, starerr.NewInvariantViolation("chain.Finalize", "OpenedBlock already finalized")
	}

	stateRoot, err := ob.state.Commit()
	if err != nil {
		return nil, err
	}

	body := &types.Body{Transactions: append([]*types.SignedUserTransaction(nil), ob.includedTxns...)}
	bodyHash := common.Keccak256Hash(codec.Encode(body))

	tmpl := &BlockTemplate{
		ParentHash:           ob.parentHash,
		ParentsHash:          append([]common.Hash(nil), ob.parentsHash...),
		Timestamp:            ob.timestamp,
		Number:               ob.number,
		Author:               ob.author,
		StateRoot:            stateRoot,
		TxnAccumulatorRoot:   ob.txnAccumulator.RootHash(),
		BlockAccumulatorRoot: blockAccumulatorRoot,
		BodyHash:             bodyHash,
		ChainId:              ob.chainID,
		PruningPoint:         ob.pruningPoint,
		Body:                 body,
	}
	ob.finalized = true
	return tmpl, nil
}

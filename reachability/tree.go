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

package reachability

import (
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/starerr"
	"github.com/starcoinorg/starcoin-core/storage"
)

// DefaultReindexDepth bounds how far a reindex propagates above the
// triggering block before treating the ancestor it reaches as the subtree
// root to rebalance.
const DefaultReindexDepth = 64

// DefaultReindexSlack is the headroom reserved, per touched internal node,
// for that node's own future children.
const DefaultReindexSlack = 32

// AddTreeBlock inserts newBlock as a tree child of parent, spec.md §4.3.1.
// If parent has no remaining interval capacity, newBlock is given the empty
// placeholder interval and a reindex is triggered rooted at the current
// reindex root.
func (idx *ReachabilityIndex) AddTreeBlock(writer storage.Writer, newBlock, parent common.Hash, reindexDepth, reindexSlack uint64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	parentNode, err := idx.getNode(parent)
	if err != nil {
		return starerr.ErrParentNotFound
	}

	remaining := parentNode.Remaining
	parentNode.Children = append(parentNode.Children, newBlock)
	parentHeight := parentNode.Height

	if remaining.IsEmpty() {
		placeholder := Interval{Start: remaining.End, End: remaining.End}
		child := &node{Interval: placeholder, Remaining: placeholder, Parent: parent, Height: parentHeight + 1}
		if err := idx.writeNode(writer, newBlock, child); err != nil {
			return err
		}
		if err := idx.writeNode(writer, parent, parentNode); err != nil {
			return err
		}

		reindexRoot, err := idx.meta.Read(reindexRootKey)
		if err != nil {
			return err
		}
		return idx.reindexIntervals(writer, newBlock, reindexRoot, reindexDepth, reindexSlack)
	}

	allocated, rest := remaining.SplitHalf()
	parentNode.Remaining = rest
	child := &node{Interval: allocated, Remaining: allocated, Parent: parent, Height: parentHeight + 1}
	if err := idx.writeNode(writer, newBlock, child); err != nil {
		return err
	}
	return idx.writeNode(writer, parent, parentNode)
}

// isChainAncestor is the unlocked core of IsChainAncestor, used by callers
// that already hold idx.mu.
func (idx *ReachabilityIndex) isChainAncestor(a, b common.Hash) (bool, error) {
	an, err := idx.getNode(a)
	if err != nil {
		return false, err
	}
	bn, err := idx.getNode(b)
	if err != nil {
		return false, err
	}
	return an.Interval.Contains(bn.Interval), nil
}

// IsChainAncestor reports whether a is a tree ancestor of b, tested via
// interval containment: is_chain_ancestor(A, B) ⇔ B.interval ⊆ A.interval.
func (idx *ReachabilityIndex) IsChainAncestor(a, b common.Hash) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.isChainAncestor(a, b)
}

// findCommonTreeAncestor is the unlocked core of FindCommonTreeAncestor.
func (idx *ReachabilityIndex) findCommonTreeAncestor(block, reindexRoot common.Hash) (common.Hash, error) {
	current := block
	for {
		isAncestor, err := idx.isChainAncestor(current, reindexRoot)
		if err != nil {
			return common.Hash{}, err
		}
		if isAncestor {
			return current, nil
		}
		n, err := idx.getNode(current)
		if err != nil {
			return common.Hash{}, err
		}
		current = n.Parent
	}
}

// FindCommonTreeAncestor finds the most recent tree ancestor common to both
// block and reindexRoot, iterating up from block since the chain between
// reindexRoot and the common ancestor is usually the longer one.
func (idx *ReachabilityIndex) FindCommonTreeAncestor(block, reindexRoot common.Hash) (common.Hash, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.findCommonTreeAncestor(block, reindexRoot)
}

// findNextReindexRoot is the unlocked core of FindNextReindexRoot.
func (idx *ReachabilityIndex) findNextReindexRoot(current, hint common.Hash, reindexDepth, reindexSlack uint64) (common.Hash, common.Hash, error) {
	ancestor := current
	next := current

	hintHeight, err := idx.getHeightUnlocked(hint)
	if err != nil {
		return common.Hash{}, common.Hash{}, err
	}

	isAncestor, err := idx.isChainAncestor(current, hint)
	if err != nil {
		return common.Hash{}, common.Hash{}, err
	}
	if !isAncestor {
		currentHeight, err := idx.getHeightUnlocked(current)
		if err != nil {
			return common.Hash{}, common.Hash{}, err
		}
		if hintHeight < currentHeight || hintHeight-currentHeight < reindexSlack {
			return current, current, nil
		}
		commonAncestor, err := idx.findCommonTreeAncestor(hint, current)
		if err != nil {
			return common.Hash{}, common.Hash{}, err
		}
		ancestor = commonAncestor
		next = commonAncestor
	}

	for {
		child, err := idx.getNextChainAncestorUnchecked(hint, next)
		if err != nil {
			return common.Hash{}, common.Hash{}, err
		}
		childHeight, err := idx.getHeightUnlocked(child)
		if err != nil {
			return common.Hash{}, common.Hash{}, err
		}
		if hintHeight < childHeight {
			return common.Hash{}, common.Hash{}, starerr.NewInvariantViolation("reachability.FindNextReindexRoot", "hint height below chain-ancestor height")
		}
		if hintHeight-childHeight < reindexDepth {
			break
		}
		next = child
	}

	return ancestor, next, nil
}

// FindNextReindexRoot finds a possible new reindex root given the current
// root and a hint (the selected tip), per spec.md §4.3.4. It returns the
// ancestor from which concentration should begin and the new root itself;
// if no change should happen, both equal current.
func (idx *ReachabilityIndex) FindNextReindexRoot(current, hint common.Hash, reindexDepth, reindexSlack uint64) (common.Hash, common.Hash, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.findNextReindexRoot(current, hint, reindexDepth, reindexSlack)
}

func (idx *ReachabilityIndex) getHeightUnlocked(h common.Hash) (uint64, error) {
	n, err := idx.getNode(h)
	if err != nil {
		return 0, err
	}
	return n.Height, nil
}

// TryAdvancingReindexRoot attempts to move the reindex root toward hint, the
// current selected tip, per spec.md §4.3.4.
func (idx *ReachabilityIndex) TryAdvancingReindexRoot(writer storage.Writer, hint common.Hash, reindexDepth, reindexSlack uint64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	current, err := idx.meta.Read(reindexRootKey)
	if err != nil {
		return err
	}

	ancestor, next, err := idx.findNextReindexRoot(current, hint, reindexDepth, reindexSlack)
	if err != nil {
		return err
	}
	if current == next {
		return nil
	}

	for ancestor != next {
		child, err := idx.getNextChainAncestorUnchecked(next, ancestor)
		if err != nil {
			return err
		}
		ctx := &reindexOperationContext{idx: idx, writer: writer, depth: reindexDepth, slack: reindexSlack}
		if err := ctx.concentrateInterval(ancestor, child, child == next); err != nil {
			return err
		}
		ancestor = child
	}

	return idx.meta.Write(writer, reindexRootKey, next)
}

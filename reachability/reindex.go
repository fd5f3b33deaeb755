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
	"github.com/starcoinorg/starcoin-core/storage"
)

// reindexOperationContext bundles the parameters of one reindex pass:
// reindex_depth bounds how far above the triggering block the boundary
// search climbs before giving up and reindexing from there; reindex_slack is
// the headroom reserved, at every internal node touched, for that node's own
// future children (so the same subtree does not immediately exhaust again).
type reindexOperationContext struct {
	idx    *ReachabilityIndex
	writer storage.Writer
	depth  uint64
	slack  uint64
}

// reindexIntervals rebalances the subtree rooted at the ancestor of newBlock
// depth steps above it (or reindexRoot or Origin, if reached first), so that
// every node in that subtree regains capacity proportional to its subtree
// size, per spec.md §4.3.2.
func (idx *ReachabilityIndex) reindexIntervals(writer storage.Writer, newBlock, reindexRoot common.Hash, depth, slack uint64) error {
	boundary, err := idx.findReindexBoundary(newBlock, reindexRoot, depth)
	if err != nil {
		return err
	}
	boundaryNode, err := idx.getNode(boundary)
	if err != nil {
		return err
	}
	ctx := &reindexOperationContext{idx: idx, writer: writer, depth: depth, slack: slack}
	return ctx.reallocate(boundary, boundaryNode.Interval)
}

// findReindexBoundary climbs from start toward the root, stopping at
// reindexRoot, Origin, or after depth steps — whichever comes first.
func (idx *ReachabilityIndex) findReindexBoundary(start, reindexRoot common.Hash, depth uint64) (common.Hash, error) {
	current := start
	for steps := uint64(0); steps < depth; steps++ {
		if current == reindexRoot || current == common.Origin {
			return current, nil
		}
		n, err := idx.getNode(current)
		if err != nil {
			return common.Hash{}, err
		}
		current = n.Parent
	}
	return current, nil
}

// reallocate assigns iv to h, then recursively splits iv's usable portion
// (iv minus a trailing slack reservation) among h's children proportional to
// each child's subtree size.
func (ctx *reindexOperationContext) reallocate(h common.Hash, iv Interval) error {
	n, err := ctx.idx.getNode(h)
	if err != nil {
		return err
	}
	n.Interval = iv

	if len(n.Children) == 0 {
		n.Remaining = iv
		return ctx.idx.writeNode(ctx.writer, h, n)
	}

	slack := ctx.slack
	if iv.Size() > 0 && slack >= iv.Size() {
		slack = iv.Size() / 4
	}
	usable := Interval{Start: iv.Start, End: iv.End - slack}

	sizes := make([]uint64, len(n.Children))
	for i, c := range n.Children {
		s, err := ctx.idx.subtreeSize(c)
		if err != nil {
			return err
		}
		sizes[i] = s
	}
	childIntervals := SplitExponential(usable, sizes)
	for i, c := range n.Children {
		if err := ctx.reallocate(c, childIntervals[i]); err != nil {
			return err
		}
	}

	n.Remaining = Interval{Start: usable.End, End: iv.End}
	return ctx.idx.writeNode(ctx.writer, h, n)
}

// concentrateInterval re-runs reallocate on ancestor's subtree within
// ancestor's current interval, used while walking try_advancing_reindex_root's
// ancestor-to-next chain. The split is the same proportional-to-subtree-size
// split reallocate always makes: child's branch (the one leading toward the
// new reindex root) does not get a larger share than its size gives it, and
// child and isFinal (the last hop, child == next) do not affect the result.
func (ctx *reindexOperationContext) concentrateInterval(ancestor, child common.Hash, isFinal bool) error {
	n, err := ctx.idx.getNode(ancestor)
	if err != nil {
		return err
	}
	_ = isFinal
	return ctx.reallocate(ancestor, n.Interval)
}

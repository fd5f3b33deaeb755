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
	"math"
	"sync"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/starerr"
	"github.com/starcoinorg/starcoin-core/storage"
)

// DefaultNodeCacheSize bounds the reachability node LRU.
const DefaultNodeCacheSize = 65535

// rootInterval is the full capacity handed to Origin at genesis: every other
// node's interval is carved from this range.
var rootInterval = Interval{Start: 0, End: math.MaxUint64}

// ReachabilityIndex answers chain/DAG ancestry queries in O(1)/O(log n) via
// interval containment over the selected-parent tree, spec.md §4.3.
type ReachabilityIndex struct {
	mu    sync.Mutex
	nodes *storage.CachedAccess[common.Hash, *node]
	meta  *storage.CachedAccess[metaKey, common.Hash]
}

// New opens a ReachabilityIndex over db.
func New(db storage.KeyValueStore, cacheSize int) (*ReachabilityIndex, error) {
	nodes, err := storage.NewCachedAccess[common.Hash, *node](db, nodeSchema{}, cacheSize)
	if err != nil {
		return nil, err
	}
	meta, err := storage.NewCachedAccess[metaKey, common.Hash](db, metaSchema{}, 1)
	if err != nil {
		return nil, err
	}
	return &ReachabilityIndex{nodes: nodes, meta: meta}, nil
}

// Init seeds the index with the Origin node (full capacity, no parent) if it
// is not already present, and points the reindex root at Origin. Safe to
// call on every startup; a no-op once Origin exists.
func (idx *ReachabilityIndex) Init(writer storage.Writer) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if ok, err := idx.nodes.Has(common.Origin); err != nil {
		return err
	} else if ok {
		return nil
	}
	origin := &node{Interval: rootInterval, Remaining: rootInterval, Parent: common.Origin, Height: 0}
	if err := idx.nodes.Write(writer, common.Origin, origin); err != nil {
		return err
	}
	return idx.meta.Write(writer, reindexRootKey, common.Origin)
}

func (idx *ReachabilityIndex) getNode(h common.Hash) (*node, error) {
	n, err := idx.nodes.Read(h)
	if err != nil {
		return nil, err
	}
	// Read returns the cached pointer directly; callers mutate their own
	// copy before writing back, so hand out a shallow copy to avoid
	// corrupting the cache on a write that is later abandoned.
	cp := *n
	cp.Children = append([]common.Hash(nil), n.Children...)
	cp.FutureCoveringSet = append([]common.Hash(nil), n.FutureCoveringSet...)
	return &cp, nil
}

func (idx *ReachabilityIndex) writeNode(writer storage.Writer, h common.Hash, n *node) error {
	return idx.nodes.Write(writer, h, n)
}

// GetParent returns h's tree parent.
func (idx *ReachabilityIndex) GetParent(h common.Hash) (common.Hash, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	n, err := idx.getNode(h)
	if err != nil {
		return common.Hash{}, err
	}
	return n.Parent, nil
}

// GetHeight returns h's tree height (Origin is height 0).
func (idx *ReachabilityIndex) GetHeight(h common.Hash) (uint64, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	n, err := idx.getNode(h)
	if err != nil {
		return 0, err
	}
	return n.Height, nil
}

// GetInterval returns h's currently assigned interval.
func (idx *ReachabilityIndex) GetInterval(h common.Hash) (Interval, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	n, err := idx.getNode(h)
	if err != nil {
		return Interval{}, err
	}
	return n.Interval, nil
}

// GetReindexRoot returns the current reindex root.
func (idx *ReachabilityIndex) GetReindexRoot() (common.Hash, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.meta.Read(reindexRootKey)
}

// SetReindexRoot persists a new reindex root.
func (idx *ReachabilityIndex) SetReindexRoot(writer storage.Writer, root common.Hash) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.meta.Write(writer, reindexRootKey, root)
}

func (idx *ReachabilityIndex) subtreeSize(h common.Hash) (uint64, error) {
	n, err := idx.getNode(h)
	if err != nil {
		return 0, err
	}
	size := uint64(1)
	for _, c := range n.Children {
		s, err := idx.subtreeSize(c)
		if err != nil {
			return 0, err
		}
		size += s
	}
	return size, nil
}

// getNextChainAncestorUnchecked returns the child of ancestor whose subtree
// contains descendant, i.e. the next hop on descendant's parent chain after
// ancestor. Callers must already know descendant is a tree-descendant of
// ancestor.
func (idx *ReachabilityIndex) getNextChainAncestorUnchecked(descendant, ancestor common.Hash) (common.Hash, error) {
	current := descendant
	for {
		n, err := idx.getNode(current)
		if err != nil {
			return common.Hash{}, err
		}
		if n.Parent == ancestor {
			return current, nil
		}
		if current == common.Origin {
			return common.Hash{}, starerr.NewInvariantViolation("reachability.getNextChainAncestorUnchecked", "reached origin without passing ancestor")
		}
		current = n.Parent
	}
}

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

package state

import (
	"sync"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage"
)

// Op is a single write-set entry's kind, per spec.md §4.5's
// `(Put(v) | Delete)`.
type Op int

const (
	OpPut Op = iota
	OpDelete
)

// WriteSetEntry is one member of a WriteSet.
type WriteSetEntry struct {
	Key   []byte
	Op    Op
	Value []byte
}

// WriteSet is the batch argument to Tree.ApplyWriteSet.
type WriteSet []WriteSetEntry

type overlayEntry struct {
	deleted bool
	value   []byte
}

// Tree is a forkable sparse Merkle tree over BCS-serialized values keyed by
// Keccak256(accessPath), implementing spec.md §4.5's StateDB.
//
// Mutations (Set/Remove/ApplyWriteSet) land in an in-memory overlay keyed by
// hashed access path, invisible to the persisted tree until Commit folds
// them into new tree nodes and produces a new root. Commit's new nodes live
// in an in-memory pending set until Flush persists them through the backing
// store; this mirrors spec.md §4.5's "commit flushes mutations into a new
// root without persisting" / "flush writes committed nodes to the backing
// store" split.
type Tree struct {
	mu sync.Mutex

	store *storage.CachedAccess[common.Hash, *node]

	// clean fronts store with a byte-oriented cache of already-flushed
	// nodes, populated on every Flush and consulted by readNode before the
	// golang-lru-backed store -- the "clean cache" split go-ethereum's
	// trie.Database uses, kept alongside (not instead of) store's own LRU
	// because store's cache also holds not-yet-flushed writes via Write.
	clean *fastcache.Cache

	root    common.Hash
	overlay map[common.Hash]overlayEntry
	pending map[common.Hash]*node
}

// New opens a Tree over db rooted at the empty tree.
func New(db storage.KeyValueStore, cf string) (*Tree, error) {
	return NewAt(db, cf, emptyHash[depth])
}

// NewAt opens a Tree over db rooted at a specific (already-committed) root,
// per spec.md §4.5's `fork_at`. A zero root opens the empty tree.
func NewAt(db storage.KeyValueStore, cf string, root common.Hash) (*Tree, error) {
	if root == (common.Hash{}) {
		root = emptyHash[depth]
	}
	store, err := storage.NewCachedAccess[common.Hash, *node](db, nodeSchema{cf: cf}, DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Tree{
		store:   store,
		clean:   fastcache.New(CleanCacheBytes),
		root:    root,
		overlay: make(map[common.Hash]overlayEntry),
		pending: make(map[common.Hash]*node),
	}, nil
}

// RootHash returns the tree's current committed root (the empty-tree
// sentinel if nothing has ever been committed).
func (t *Tree) RootHash() common.Hash {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root
}

// Get returns the value stored at key, or ok=false if absent. Reflects any
// Set/Remove/ApplyWriteSet not yet committed.
func (t *Tree) Get(key []byte) (value []byte, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	keyHash := common.Keccak256Hash(key)
	if e, found := t.overlay[keyHash]; found {
		if e.deleted {
			return nil, false, nil
		}
		return e.value, true, nil
	}
	return t.getAt(t.root, depth, keyHash)
}

// GetAt returns the value key held at a specific historical root, per
// spec.md §4.5's `fork_at(r).get(k) == original.get_at(r, k)` invariant.
// It consults only the persisted/pending tree, never this Tree's overlay.
func (t *Tree) GetAt(root common.Hash, key []byte) (value []byte, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getAt(root, depth, common.Keccak256Hash(key))
}

func (t *Tree) getAt(hash common.Hash, d int, keyHash common.Hash) ([]byte, bool, error) {
	if hash == emptyHash[d] {
		return nil, false, nil
	}
	if d == 0 {
		n, err := t.readNode(hash)
		if err != nil {
			return nil, false, err
		}
		if n.KeyHash != keyHash {
			return nil, false, nil
		}
		return n.Value, true, nil
	}
	n, err := t.readNode(hash)
	if err != nil {
		return nil, false, err
	}
	if bitAt(keyHash, depth-d) == 0 {
		return t.getAt(n.Left, d-1, keyHash)
	}
	return t.getAt(n.Right, d-1, keyHash)
}

func (t *Tree) readNode(hash common.Hash) (*node, error) {
	if n, ok := t.pending[hash]; ok {
		return n, nil
	}
	if b, ok := t.clean.HasGet(nil, hash[:]); ok {
		return decodeNode(b)
	}
	n, err := t.store.Read(hash)
	if err != nil {
		return nil, err
	}
	t.clean.Set(hash[:], encodeNode(n))
	return n, nil
}

// Set stages key=value in the overlay, visible to Get but not reflected in
// RootHash until Commit.
func (t *Tree) Set(key, value []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	keyHash := common.Keccak256Hash(key)
	t.overlay[keyHash] = overlayEntry{value: append([]byte(nil), value...)}
}

// Remove stages key's deletion in the overlay.
func (t *Tree) Remove(key []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	keyHash := common.Keccak256Hash(key)
	t.overlay[keyHash] = overlayEntry{deleted: true}
}

// ApplyWriteSet stages every entry of ws in the overlay, in order.
func (t *Tree) ApplyWriteSet(ws WriteSet) {
	for _, e := range ws {
		if e.Op == OpDelete {
			t.Remove(e.Key)
		} else {
			t.Set(e.Key, e.Value)
		}
	}
}

// Commit folds every staged overlay mutation into new tree nodes (held in
// the in-memory pending set) and returns the new root. Idempotent on an
// unchanged tree: with an empty overlay, Commit returns the current root
// without touching pending.
func (t *Tree) Commit() (common.Hash, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.overlay) == 0 {
		return t.root, nil
	}

	for keyHash, e := range t.overlay {
		var leaf common.Hash
		if e.deleted {
			leaf = emptyHash[0]
		} else {
			n := &node{IsLeaf: true, KeyHash: keyHash, Value: e.value}
			leaf = leafHash(keyHash, e.value)
			t.pending[leaf] = n
		}
		newRoot, err := t.setPath(t.root, depth, keyHash, leaf)
		if err != nil {
			return common.Hash{}, err
		}
		t.root = newRoot
	}
	t.overlay = make(map[common.Hash]overlayEntry)
	return t.root, nil
}

// setPath returns the new hash at (hash, d) after replacing the leaf slot
// reached by keyHash's bit path with newLeaf, materializing any internal
// nodes touched along the way into the pending set.
func (t *Tree) setPath(hash common.Hash, d int, keyHash common.Hash, newLeaf common.Hash) (common.Hash, error) {
	if d == 0 {
		return newLeaf, nil
	}

	var left, right common.Hash
	if hash == emptyHash[d] {
		left, right = emptyHash[d-1], emptyHash[d-1]
	} else {
		n, err := t.readNode(hash)
		if err != nil {
			return common.Hash{}, err
		}
		left, right = n.Left, n.Right
	}

	var err error
	if bitAt(keyHash, depth-d) == 0 {
		left, err = t.setPath(left, d-1, keyHash, newLeaf)
	} else {
		right, err = t.setPath(right, d-1, keyHash, newLeaf)
	}
	if err != nil {
		return common.Hash{}, err
	}

	if left == emptyHash[d-1] && right == emptyHash[d-1] {
		return emptyHash[d], nil
	}
	h := internalHash(left, right)
	t.pending[h] = &node{Left: left, Right: right}
	return h, nil
}

// Flush writes every pending node through writer, per spec.md §4.5.
func (t *Tree) Flush(writer storage.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.pending) == 0 {
		return nil
	}
	items := make([]storage.KV[common.Hash, *node], 0, len(t.pending))
	for h, n := range t.pending {
		items = append(items, storage.KV[common.Hash, *node]{Key: h, Value: n})
	}
	if err := t.store.WriteMany(writer, items); err != nil {
		return err
	}
	for h, n := range t.pending {
		t.clean.Set(h[:], encodeNode(n))
	}
	t.pending = make(map[common.Hash]*node)
	return nil
}

// ForkAt returns a new Tree sharing this Tree's backing node store (and CF)
// but rooted at root, per spec.md §4.5's `fork_at`. The fork starts with an
// empty overlay/pending set; nodes not yet flushed by the original Tree are
// visible to the fork only once flushed, since forks share storage, not
// in-memory state.
func (t *Tree) ForkAt(db storage.KeyValueStore, cf string, root common.Hash) (*Tree, error) {
	return NewAt(db, cf, root)
}

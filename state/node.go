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
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

// node is a single sparse-Merkle-tree node, content-addressed by its own
// hash. A leaf carries the full key hash and raw value; an internal node
// carries its two children's hashes (which may themselves be emptyHash[d]
// sentinels for an unmaterialized empty subtree).
type node struct {
	IsLeaf bool

	// leaf fields
	KeyHash common.Hash
	Value   []byte

	// internal fields
	Left  common.Hash
	Right common.Hash
}

func (n *node) MarshalBCS(e *codec.Encoder) {
	e.WriteBool(n.IsLeaf)
	if n.IsLeaf {
		e.WriteFixed(n.KeyHash.Bytes())
		e.WriteBytes(n.Value)
		return
	}
	e.WriteFixed(n.Left.Bytes())
	e.WriteFixed(n.Right.Bytes())
}

func (n *node) UnmarshalBCS(d *codec.Decoder) error {
	isLeaf, err := d.ReadBool()
	if err != nil {
		return err
	}
	n.IsLeaf = isLeaf
	if isLeaf {
		kh, err := d.ReadFixed(common.HashLength)
		if err != nil {
			return err
		}
		n.KeyHash = common.BytesToHash(kh)
		val, err := d.ReadBytes()
		if err != nil {
			return err
		}
		n.Value = val
		return nil
	}
	l, err := d.ReadFixed(common.HashLength)
	if err != nil {
		return err
	}
	r, err := d.ReadFixed(common.HashLength)
	if err != nil {
		return err
	}
	n.Left = common.BytesToHash(l)
	n.Right = common.BytesToHash(r)
	return nil
}

func leafHash(keyHash common.Hash, value []byte) common.Hash {
	return common.Keccak256Hash([]byte{1}, keyHash.Bytes(), value)
}

func internalHash(left, right common.Hash) common.Hash {
	return common.Keccak256Hash([]byte{0}, left.Bytes(), right.Bytes())
}

// emptyHash[d] is the root hash of a fully empty subtree of height d.
// emptyHash[0] is the empty-leaf sentinel; emptyHash[depth] is the root
// hash of a Tree with no entries at all.
var emptyHash [depth + 1]common.Hash

func init() {
	emptyHash[0] = common.Keccak256Hash([]byte("starcoin-state-tree-empty-leaf"))
	for d := 1; d <= depth; d++ {
		emptyHash[d] = internalHash(emptyHash[d-1], emptyHash[d-1])
	}
}

// bitAt returns the bit of h at position index counting from the most
// significant bit of h[0] (index 0 is the tree's topmost branch decision).
func bitAt(h common.Hash, index int) int {
	byteIdx := index / 8
	bitIdx := 7 - uint(index%8)
	return int((h[byteIdx] >> bitIdx) & 1)
}

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

// nodeStoreCF is the CF per spec.md §6's storage table: `state-tree-node`.
// It is parameterized (as accumulator.nodeSchema is) so a StateDBV2's two
// underlying trees (vm1, vm2) keep disjoint node stores under one CF
// family, avoiding any cross-VM content-hash collision ambiguity.
const nodeStoreCF = "state-tree-node"

type nodeSchema struct {
	cf string
}

func (s nodeSchema) CF() string { return s.cf }

func (s nodeSchema) EncodeKey(h common.Hash) []byte { return h.Bytes() }

func (s nodeSchema) EncodeValue(n *node) []byte { return codec.Encode(n) }

func (s nodeSchema) DecodeValue(b []byte) (*node, error) {
	n := &node{}
	if err := codec.Decode(b, n); err != nil {
		return nil, err
	}
	return n, nil
}

// encodeNode/decodeNode expose nodeSchema's codec to the fastcache clean
// layer in tree.go, which caches raw bytes rather than *node values.
func encodeNode(n *node) []byte { return codec.Encode(n) }

func decodeNode(b []byte) (*node, error) {
	return nodeSchema{}.DecodeValue(b)
}

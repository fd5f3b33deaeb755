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
	"fmt"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

const nodeCF = "reachability-node"
const metaCF = "reachability-meta"

type nodeSchema struct{}

func (nodeSchema) CF() string                   { return nodeCF }
func (nodeSchema) EncodeKey(k common.Hash) []byte { return k.Bytes() }
func (nodeSchema) EncodeValue(v *node) []byte     { return codec.Encode(v) }
func (nodeSchema) DecodeValue(b []byte) (*node, error) {
	n := &node{}
	if err := codec.Decode(b, n); err != nil {
		return nil, fmt.Errorf("reachability: decoding node: %w", err)
	}
	return n, nil
}

// metaKey names the one singleton record this package persists besides
// nodes: the current reindex root.
type metaKey uint8

const reindexRootKey metaKey = 0

type metaSchema struct{}

func (metaSchema) CF() string                    { return metaCF }
func (metaSchema) EncodeKey(k metaKey) []byte     { return []byte{byte(k)} }
func (metaSchema) EncodeValue(v common.Hash) []byte { return v.Bytes() }
func (metaSchema) DecodeValue(b []byte) (common.Hash, error) {
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("reachability: bad meta value length %d", len(b))
	}
	return common.BytesToHash(b), nil
}

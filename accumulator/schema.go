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

package accumulator

import (
	"encoding/binary"
	"fmt"

	"github.com/starcoinorg/starcoin-core/common"
)

// nodeSchema binds the node CF used by one accumulator instance (the CF
// name is parameterized so the block accumulator and the per-block
// transaction-info accumulator, spec.md §6's two accumulator-node tables,
// can share this one implementation).
type nodeSchema struct {
	cf string
}

func (s nodeSchema) CF() string { return s.cf }

func (s nodeSchema) EncodeKey(idx NodeIndex) []byte {
	b := make([]byte, 9)
	b[0] = idx.Level
	binary.BigEndian.PutUint64(b[1:], idx.Pos)
	return b
}

func (s nodeSchema) EncodeValue(h common.Hash) []byte { return h.Bytes() }

func (s nodeSchema) DecodeValue(b []byte) (common.Hash, error) {
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("accumulator: bad node value length %d", len(b))
	}
	return common.BytesToHash(b), nil
}

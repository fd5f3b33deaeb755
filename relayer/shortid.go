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

// Package relayer implements spec.md §4.7's BlockRelayer (C7): compact block
// encode/decode around a local mempool, and the PeerNewBlock broadcast to
// the chain subsystem once a block is fully reconstructed. Grounded on
// original_source/relayer/src/block_relayer.rs and
// original_source/block-relayer/src/block_relayer.rs.
package relayer

import (
	"encoding/binary"

	"github.com/starcoinorg/starcoin-core/common"
)

// ShortID is a transaction's block-local compact identifier: a 64-bit
// SipHash-2-4 digest of its full hash, keyed by the containing block so
// that short ids are only ever compared within one block's reconciliation
// (spec.md §4.7).
type ShortID uint64

// shortIDKey derives the per-block SipHash key from the block header's id,
// taking its first 16 bytes as the two 64-bit round keys SipHash takes.
func shortIDKey(headerID common.Hash) (k0, k1 uint64) {
	b := headerID.Bytes()
	k0 = binary.LittleEndian.Uint64(b[0:8])
	k1 = binary.LittleEndian.Uint64(b[8:16])
	return k0, k1
}

func computeShortID(k0, k1 uint64, txnHash common.Hash) ShortID {
	return ShortID(sipHash24(k0, k1, txnHash.Bytes()))
}

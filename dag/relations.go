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

package dag

import (
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

// relations is the per-block parent/child/selected-parent record, the Go
// analogue of kaspad's blockNode.parents/children/selectedParent fields, but
// persisted rather than held only in memory (this DAG is backed by
// TypedStore, not an in-process node graph).
type relations struct {
	Parents        []common.Hash
	Children       []common.Hash
	SelectedParent common.Hash
}

func (r *relations) MarshalBCS(e *codec.Encoder) {
	e.WriteUvarint(uint64(len(r.Parents)))
	for _, p := range r.Parents {
		e.WriteFixed(p[:])
	}
	e.WriteUvarint(uint64(len(r.Children)))
	for _, c := range r.Children {
		e.WriteFixed(c[:])
	}
	e.WriteFixed(r.SelectedParent[:])
}

func (r *relations) UnmarshalBCS(d *codec.Decoder) error {
	n, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	r.Parents = make([]common.Hash, n)
	for i := range r.Parents {
		b, err := d.ReadFixed(common.HashLength)
		if err != nil {
			return err
		}
		r.Parents[i] = common.BytesToHash(b)
	}
	n, err = d.ReadUvarint()
	if err != nil {
		return err
	}
	r.Children = make([]common.Hash, n)
	for i := range r.Children {
		b, err := d.ReadFixed(common.HashLength)
		if err != nil {
			return err
		}
		r.Children[i] = common.BytesToHash(b)
	}
	b, err := d.ReadFixed(common.HashLength)
	if err != nil {
		return err
	}
	r.SelectedParent = common.BytesToHash(b)
	return nil
}

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
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

func (n *node) MarshalBCS(e *codec.Encoder) {
	e.WriteU64(n.Interval.Start)
	e.WriteU64(n.Interval.End)
	e.WriteU64(n.Remaining.Start)
	e.WriteU64(n.Remaining.End)
	e.WriteFixed(n.Parent.Bytes())
	e.WriteUvarint(uint64(len(n.Children)))
	for _, c := range n.Children {
		e.WriteFixed(c.Bytes())
	}
	e.WriteU64(n.Height)
	e.WriteUvarint(uint64(len(n.FutureCoveringSet)))
	for _, f := range n.FutureCoveringSet {
		e.WriteFixed(f.Bytes())
	}
}

func (n *node) UnmarshalBCS(d *codec.Decoder) error {
	var err error
	if n.Interval.Start, err = d.ReadU64(); err != nil {
		return err
	}
	if n.Interval.End, err = d.ReadU64(); err != nil {
		return err
	}
	if n.Remaining.Start, err = d.ReadU64(); err != nil {
		return err
	}
	if n.Remaining.End, err = d.ReadU64(); err != nil {
		return err
	}
	b, err := d.ReadFixed(common.HashLength)
	if err != nil {
		return err
	}
	n.Parent = common.BytesToHash(b)

	childCount, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	n.Children = make([]common.Hash, childCount)
	for i := range n.Children {
		b, err := d.ReadFixed(common.HashLength)
		if err != nil {
			return err
		}
		n.Children[i] = common.BytesToHash(b)
	}

	if n.Height, err = d.ReadU64(); err != nil {
		return err
	}

	fcsCount, err := d.ReadUvarint()
	if err != nil {
		return err
	}
	n.FutureCoveringSet = make([]common.Hash, fcsCount)
	for i := range n.FutureCoveringSet {
		b, err := d.ReadFixed(common.HashLength)
		if err != nil {
			return err
		}
		n.FutureCoveringSet[i] = common.BytesToHash(b)
	}
	return nil
}

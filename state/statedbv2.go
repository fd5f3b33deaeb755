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
	"github.com/starcoinorg/starcoin-core/storage"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

// multiStatePath is the fixed access path StateDBV2 stores its joint root
// record under in the vm2 tree, mirroring chain_state_db_v2.rs's
// MULTI_STATE_PATH constant.
var multiStatePath = []byte("/1/MultiState::MultiState")

// MultiState is the two-slot joint-root record spec.md §4.5's dual-VM
// extension stores under multiStatePath: a single header field (the final
// vm2 root) thus identifies both sub-states' contents.
type MultiState struct {
	StateRoot1 common.Hash
	StateRoot2 common.Hash
}

func (m *MultiState) MarshalBCS(e *codec.Encoder) {
	e.WriteFixed(m.StateRoot1.Bytes())
	e.WriteFixed(m.StateRoot2.Bytes())
}

func (m *MultiState) UnmarshalBCS(d *codec.Decoder) error {
	r1, err := d.ReadFixed(common.HashLength)
	if err != nil {
		return err
	}
	r2, err := d.ReadFixed(common.HashLength)
	if err != nil {
		return err
	}
	m.StateRoot1 = common.BytesToHash(r1)
	m.StateRoot2 = common.BytesToHash(r2)
	return nil
}

// V2 is the dual-VM composite of spec.md §4.5: two independent state trees
// (VM1, VM2) whose joint root is recorded in VM2 under multiStatePath, so a
// single 32-byte block-header state root (VM2's) identifies both.
type V2 struct {
	VM1 *Tree
	VM2 *Tree
}

// NewV2 opens a V2 over db, vm1 and vm2 each backed by their own CF so the
// two trees' content-addressed nodes never collide.
func NewV2(db storage.KeyValueStore, vm1Root, vm2Root common.Hash) (*V2, error) {
	vm1, err := NewAt(db, nodeStoreCF+"-vm1", vm1Root)
	if err != nil {
		return nil, err
	}
	vm2, err := NewAt(db, nodeStoreCF+"-vm2", vm2Root)
	if err != nil {
		return nil, err
	}
	return &V2{VM1: vm1, VM2: vm2}, nil
}

// Commit commits vm1, then vm2, writes the MultiState blob into vm2 under
// multiStatePath, then commits vm2 again; the returned root is vm2's final
// root, per spec.md §4.5 and chain_state_db_v2.rs's commit().
func (v *V2) Commit() (common.Hash, error) {
	root1, err := v.VM1.Commit()
	if err != nil {
		return common.Hash{}, err
	}
	root2, err := v.VM2.Commit()
	if err != nil {
		return common.Hash{}, err
	}

	ms := &MultiState{StateRoot1: root1, StateRoot2: root2}
	v.VM2.Set(multiStatePath, codec.Encode(ms))

	finalRoot2, err := v.VM2.Commit()
	if err != nil {
		return common.Hash{}, err
	}
	return finalRoot2, nil
}

// Flush persists both trees' pending nodes through writer.
func (v *V2) Flush(writer storage.Writer) error {
	if err := v.VM1.Flush(writer); err != nil {
		return err
	}
	return v.VM2.Flush(writer)
}

// ReadMultiState decodes the MultiState blob last committed into vm2.
func (v *V2) ReadMultiState() (*MultiState, bool, error) {
	raw, ok, err := v.VM2.Get(multiStatePath)
	if err != nil || !ok {
		return nil, ok, err
	}
	ms := &MultiState{}
	if err := codec.Decode(raw, ms); err != nil {
		return nil, false, err
	}
	return ms, true, nil
}

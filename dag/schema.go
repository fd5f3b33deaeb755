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
	"fmt"

	"github.com/golang/snappy"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/storage/codec"
)

const (
	headerCF     = "dag-header"
	blockInfoCF  = "dag-block-info"
	relationsCF  = "dag-relations"
	tipsCF       = "dag-tips"
	bodyCF       = "dag-body"
)

type headerSchema struct{}

func (headerSchema) CF() string                     { return headerCF }
func (headerSchema) EncodeKey(k common.Hash) []byte { return k.Bytes() }
func (headerSchema) EncodeValue(v *types.Header) []byte { return codec.Encode(v) }
func (headerSchema) DecodeValue(b []byte) (*types.Header, error) {
	h := new(types.Header)
	if err := codec.Decode(b, h); err != nil {
		return nil, fmt.Errorf("dag: decoding header: %w", err)
	}
	return h, nil
}

type blockInfoSchema struct{}

func (blockInfoSchema) CF() string                     { return blockInfoCF }
func (blockInfoSchema) EncodeKey(k common.Hash) []byte { return k.Bytes() }
func (blockInfoSchema) EncodeValue(v *types.BlockInfo) []byte { return codec.Encode(v) }
func (blockInfoSchema) DecodeValue(b []byte) (*types.BlockInfo, error) {
	bi := new(types.BlockInfo)
	if err := codec.Decode(b, bi); err != nil {
		return nil, fmt.Errorf("dag: decoding block info: %w", err)
	}
	return bi, nil
}

type relationsSchema struct{}

func (relationsSchema) CF() string                     { return relationsCF }
func (relationsSchema) EncodeKey(k common.Hash) []byte { return k.Bytes() }
func (relationsSchema) EncodeValue(v *relations) []byte { return codec.Encode(v) }
func (relationsSchema) DecodeValue(b []byte) (*relations, error) {
	r := new(relations)
	if err := codec.Decode(b, r); err != nil {
		return nil, fmt.Errorf("dag: decoding relations: %w", err)
	}
	return r, nil
}

// bodySchema stores block bodies snappy-compressed, exactly as the
// teacher's rawdb freezer compresses block bodies before writing them --
// bodies are the bulk of on-disk DAG data and the only part spec.md §4.4
// allows pruning, so they are worth the codec's CPU cost on the cold path.
type bodySchema struct{}

func (bodySchema) CF() string                     { return bodyCF }
func (bodySchema) EncodeKey(k common.Hash) []byte { return k.Bytes() }
func (bodySchema) EncodeValue(v *types.Body) []byte {
	return snappy.Encode(nil, codec.Encode(v))
}
func (bodySchema) DecodeValue(b []byte) (*types.Body, error) {
	raw, err := snappy.Decode(nil, b)
	if err != nil {
		return nil, fmt.Errorf("dag: decompressing body: %w", err)
	}
	body := new(types.Body)
	if err := codec.Decode(raw, body); err != nil {
		return nil, fmt.Errorf("dag: decoding body: %w", err)
	}
	return body, nil
}

// tipsKey names the one singleton record holding the current DAG tip set.
type tipsKey uint8

const tipsSingleton tipsKey = 0

type tipsSchema struct{}

func (tipsSchema) CF() string                    { return tipsCF }
func (tipsSchema) EncodeKey(k tipsKey) []byte    { return []byte{byte(k)} }
func (tipsSchema) EncodeValue(v common.HashSlice) []byte {
	e := codec.NewEncoder()
	e.WriteUvarint(uint64(len(v)))
	for _, h := range v {
		e.WriteFixed(h[:])
	}
	return e.Bytes()
}
func (tipsSchema) DecodeValue(b []byte) (common.HashSlice, error) {
	d := codec.NewDecoder(b)
	n, err := d.ReadUvarint()
	if err != nil {
		return nil, fmt.Errorf("dag: decoding tips: %w", err)
	}
	out := make(common.HashSlice, n)
	for i := range out {
		raw, err := d.ReadFixed(common.HashLength)
		if err != nil {
			return nil, fmt.Errorf("dag: decoding tips: %w", err)
		}
		out[i] = common.BytesToHash(raw)
	}
	return out, nil
}

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

// Package codec implements the canonical, length-prefixed, little-endian
// binary encoding (BCS-style, per spec.md §6) used for every on-disk key,
// on-disk value, and wire message in this repository. It intentionally
// avoids reflection-based general serialization (the teacher's rlp package
// is reflection-driven, but this repo's value set is small and fixed, so
// explicit Encoder/Decoder methods per type keep the format obviously
// canonical, which matters for content-addressed hashing).
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/starcoinorg/starcoin-core/starerr"
)

// Encoder accumulates a canonical byte encoding.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte { return e.buf }

// WriteByte appends a single byte.
func (e *Encoder) WriteByte(b byte) { e.buf = append(e.buf, b) }

// WriteBool appends a boolean as a single byte.
func (e *Encoder) WriteBool(b bool) {
	if b {
		e.WriteByte(1)
	} else {
		e.WriteByte(0)
	}
}

// WriteU32 appends a little-endian uint32.
func (e *Encoder) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// WriteU64 appends a little-endian uint64.
func (e *Encoder) WriteU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// WriteUvarint appends v as a ULEB128 variable-length unsigned integer, the
// length-prefix encoding BCS uses for sequence lengths and enum tags.
func (e *Encoder) WriteUvarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	e.buf = append(e.buf, tmp[:n]...)
}

// WriteBytes appends a ULEB128 length prefix followed by raw bytes.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteUvarint(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

// WriteFixed appends raw bytes with no length prefix, for fixed-size fields
// such as a 32-byte Hash.
func (e *Encoder) WriteFixed(b []byte) { e.buf = append(e.buf, b...) }

// Decoder consumes a canonical byte encoding sequentially.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a Decoder reading from b.
func NewDecoder(b []byte) *Decoder { return &Decoder{buf: b} }

// Remaining reports how many bytes are left unread.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

func (d *Decoder) need(n int) error {
	if d.Remaining() < n {
		return fmt.Errorf("codec: need %d bytes, have %d: %w", n, d.Remaining(), starerr.ErrDecodeFailed)
	}
	return nil
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadBool reads a single-byte boolean.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	return b != 0, err
}

// ReadU32 reads a little-endian uint32.
func (d *Decoder) ReadU32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64.
func (d *Decoder) ReadU64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return v, nil
}

// ReadUvarint reads a ULEB128 variable-length unsigned integer.
func (d *Decoder) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("codec: malformed uvarint: %w", starerr.ErrDecodeFailed)
	}
	d.pos += n
	return v, nil
}

// ReadBytes reads a ULEB128-length-prefixed byte slice.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if err := d.need(int(n)); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, d.buf[d.pos:d.pos+int(n)])
	d.pos += int(n)
	return b, nil
}

// ReadFixed reads exactly n raw bytes.
func (d *Decoder) ReadFixed(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, d.buf[d.pos:d.pos+n])
	d.pos += n
	return b, nil
}

// Marshaler is implemented by every type persisted through a storage.Schema
// or sent over the wire.
type Marshaler interface {
	MarshalBCS(e *Encoder)
}

// Unmarshaler is the Marshaler counterpart for decoding.
type Unmarshaler interface {
	UnmarshalBCS(d *Decoder) error
}

// Encode is a convenience wrapper producing the byte encoding of m.
func Encode(m Marshaler) []byte {
	e := NewEncoder()
	m.MarshalBCS(e)
	return e.Bytes()
}

// Decode is a convenience wrapper populating m from b, failing if trailing
// bytes remain (a canonical encoding must consume exactly its input).
func Decode(b []byte, m Unmarshaler) error {
	d := NewDecoder(b)
	if err := m.UnmarshalBCS(d); err != nil {
		return err
	}
	if d.Remaining() != 0 {
		return fmt.Errorf("codec: %d trailing bytes: %w", d.Remaining(), starerr.ErrDecodeFailed)
	}
	return nil
}

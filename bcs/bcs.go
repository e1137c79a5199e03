// Copyright 2025 AptosBB Authors
// This file is part of AptosBB, a transaction-execution harness for Aptos.
//
// AptosBB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// AptosBB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with AptosBB. If not, see <http://www.gnu.org/licenses/>.

// Package bcs implements the subset of the Binary Canonical Serialization
// format the harness needs to sign transactions and decode on-chain
// resources. Values serialize to a unique byte representation; sequence
// lengths and enum variants use ULEB128.
package bcs

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// ErrDeserialize is reported for any malformed input, including
// non-canonical ULEB128 encodings and trailing bytes.
var ErrDeserialize = errors.New("bcs: malformed input")

// maxSequenceLength caps decoded sequence lengths so a corrupted length
// prefix cannot trigger an oversized allocation.
const maxSequenceLength = 1 << 31

// Marshaler is implemented by types that serialize themselves into an Encoder.
type Marshaler interface {
	MarshalBCS(e *Encoder) error
}

// Unmarshaler is implemented by types that deserialize themselves from a Decoder.
type Unmarshaler interface {
	UnmarshalBCS(d *Decoder) error
}

// Marshal returns the canonical serialization of v.
func Marshal(v Marshaler) ([]byte, error) {
	e := NewEncoder()
	if err := v.MarshalBCS(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Unmarshal parses data into v and rejects trailing bytes.
func Unmarshal(data []byte, v Unmarshaler) error {
	d := NewDecoder(data)
	if err := v.UnmarshalBCS(d); err != nil {
		return err
	}
	if d.Remaining() != 0 {
		return errors.Wrapf(ErrDeserialize, "%d trailing bytes", d.Remaining())
	}
	return nil
}

// Encoder accumulates a BCS byte stream.
type Encoder struct {
	buf bytes.Buffer
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the serialized stream produced so far.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *Encoder) WriteBool(v bool) {
	if v {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}

func (e *Encoder) WriteU8(v uint8) {
	e.buf.WriteByte(v)
}

func (e *Encoder) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

// WriteUleb128 writes v in unsigned little-endian base-128, used for
// sequence lengths and enum variant indices.
func (e *Encoder) WriteUleb128(v uint32) {
	for v >= 0x80 {
		e.buf.WriteByte(byte(v&0x7f) | 0x80)
		v >>= 7
	}
	e.buf.WriteByte(byte(v))
}

// WriteFixedBytes writes raw bytes without a length prefix.
func (e *Encoder) WriteFixedBytes(b []byte) {
	e.buf.Write(b)
}

// WriteBytes writes a length-prefixed byte vector.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteUleb128(uint32(len(b)))
	e.buf.Write(b)
}

func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// Decoder consumes a BCS byte stream.
type Decoder struct {
	data []byte
	pos  int
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining reports how many bytes are left unconsumed.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, errors.Wrapf(ErrDeserialize, "need %d bytes, have %d", n, d.Remaining())
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(ErrDeserialize, "invalid bool byte 0x%02x", b[0])
	}
}

func (d *Decoder) ReadU8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadU16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) ReadU32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) ReadU64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadUleb128 reads a canonical ULEB128-encoded u32. Encodings with
// superfluous continuation bytes are rejected.
func (d *Decoder) ReadUleb128() (uint32, error) {
	var value uint64
	for shift := 0; shift < 32; shift += 7 {
		b, err := d.take(1)
		if err != nil {
			return 0, err
		}
		digit := b[0] & 0x7f
		value |= uint64(digit) << shift
		if b[0]&0x80 == 0 {
			if shift > 0 && digit == 0 {
				return 0, errors.Wrap(ErrDeserialize, "non-canonical uleb128")
			}
			if value > 0xffff_ffff {
				return 0, errors.Wrap(ErrDeserialize, "uleb128 out of range")
			}
			return uint32(value), nil
		}
	}
	return 0, errors.Wrap(ErrDeserialize, "uleb128 too long")
}

// ReadFixedBytes reads n raw bytes.
func (d *Decoder) ReadFixedBytes(n int) ([]byte, error) {
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadBytes reads a length-prefixed byte vector.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadUleb128()
	if err != nil {
		return nil, err
	}
	if n > maxSequenceLength {
		return nil, errors.Wrapf(ErrDeserialize, "sequence length %d too large", n)
	}
	return d.ReadFixedBytes(int(n))
}

func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

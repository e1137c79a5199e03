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

package bcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_Primitives(t *testing.T) {
	tests := []struct {
		name  string
		write func(e *Encoder)
		want  []byte
	}{
		{"bool true", func(e *Encoder) { e.WriteBool(true) }, []byte{0x01}},
		{"bool false", func(e *Encoder) { e.WriteBool(false) }, []byte{0x00}},
		{"u8", func(e *Encoder) { e.WriteU8(0xab) }, []byte{0xab}},
		{"u16", func(e *Encoder) { e.WriteU16(0x1234) }, []byte{0x34, 0x12}},
		{"u32", func(e *Encoder) { e.WriteU32(0x12345678) }, []byte{0x78, 0x56, 0x34, 0x12}},
		{"u64", func(e *Encoder) { e.WriteU64(0x0102030405060708) }, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}},
		{"string", func(e *Encoder) { e.WriteString("abc") }, []byte{0x03, 'a', 'b', 'c'}},
		{"empty bytes", func(e *Encoder) { e.WriteBytes(nil) }, []byte{0x00}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := NewEncoder()
			test.write(e)
			assert.Equal(t, test.want, e.Bytes())
		})
	}
}

func TestEncoder_Uleb128(t *testing.T) {
	tests := []struct {
		value uint32
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{0xffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, test := range tests {
		e := NewEncoder()
		e.WriteUleb128(test.value)
		assert.Equal(t, test.want, e.Bytes(), "value %d", test.value)

		d := NewDecoder(test.want)
		got, err := d.ReadUleb128()
		require.NoError(t, err)
		assert.Equal(t, test.value, got)
		assert.Equal(t, 0, d.Remaining())
	}
}

func TestDecoder_RejectsNonCanonicalUleb128(t *testing.T) {
	// 0x80 0x00 decodes to 0 but is not the canonical encoding.
	_, err := NewDecoder([]byte{0x80, 0x00}).ReadUleb128()
	assert.ErrorIs(t, err, ErrDeserialize)
}

func TestDecoder_RejectsOutOfRangeUleb128(t *testing.T) {
	_, err := NewDecoder([]byte{0xff, 0xff, 0xff, 0xff, 0x1f}).ReadUleb128()
	assert.ErrorIs(t, err, ErrDeserialize)
}

func TestDecoder_RoundTrip(t *testing.T) {
	e := NewEncoder()
	e.WriteBool(true)
	e.WriteU8(7)
	e.WriteU16(514)
	e.WriteU32(1 << 20)
	e.WriteU64(1 << 40)
	e.WriteBytes([]byte{0xde, 0xad})
	e.WriteString("harness")

	d := NewDecoder(e.Bytes())

	b, err := d.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	u8, err := d.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), u8)

	u16, err := d.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(514), u16)

	u32, err := d.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<20), u32)

	u64, err := d.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), u64)

	bs, err := d.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, bs)

	s, err := d.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "harness", s)

	assert.Equal(t, 0, d.Remaining())
}

func TestDecoder_Truncated(t *testing.T) {
	_, err := NewDecoder([]byte{0x01}).ReadU64()
	assert.ErrorIs(t, err, ErrDeserialize)

	_, err = NewDecoder([]byte{0x05, 'a', 'b'}).ReadBytes()
	assert.ErrorIs(t, err, ErrDeserialize)

	_, err = NewDecoder(nil).ReadBool()
	assert.ErrorIs(t, err, ErrDeserialize)
}

func TestDecoder_InvalidBool(t *testing.T) {
	_, err := NewDecoder([]byte{0x02}).ReadBool()
	assert.ErrorIs(t, err, ErrDeserialize)
}

type pair struct {
	a uint64
	b []byte
}

func (p *pair) MarshalBCS(e *Encoder) error {
	e.WriteU64(p.a)
	e.WriteBytes(p.b)
	return nil
}

func (p *pair) UnmarshalBCS(d *Decoder) error {
	var err error
	if p.a, err = d.ReadU64(); err != nil {
		return err
	}
	if p.b, err = d.ReadBytes(); err != nil {
		return err
	}
	return nil
}

func TestMarshal_RejectsTrailingBytes(t *testing.T) {
	data, err := Marshal(&pair{a: 1, b: []byte{2}})
	require.NoError(t, err)

	var decoded pair
	require.NoError(t, Unmarshal(data, &decoded))
	assert.Equal(t, uint64(1), decoded.a)

	err = Unmarshal(append(data, 0x00), &decoded)
	assert.ErrorIs(t, err, ErrDeserialize)
}

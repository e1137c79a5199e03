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

package types

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/bcs"
)

// TypeTag variant indices of the canonical encoding.
const (
	tagVariantBool    = 0
	tagVariantU8      = 1
	tagVariantU64     = 2
	tagVariantU128    = 3
	tagVariantAddress = 4
	tagVariantSigner  = 5
	tagVariantVector  = 6
	tagVariantStruct  = 7
	tagVariantU16     = 8
	tagVariantU32     = 9
	tagVariantU256    = 10
)

// TypeTag is a runtime type argument of a function call or a generic
// struct instantiation.
type TypeTag interface {
	bcs.Marshaler
	fmt.Stringer
}

type (
	BoolTag    struct{}
	U8Tag      struct{}
	U16Tag     struct{}
	U32Tag     struct{}
	U64Tag     struct{}
	U128Tag    struct{}
	U256Tag    struct{}
	AddressTag struct{}
	SignerTag  struct{}

	// VectorTag is vector<Elem>.
	VectorTag struct {
		Elem TypeTag
	}
)

func (BoolTag) String() string    { return "bool" }
func (U8Tag) String() string      { return "u8" }
func (U16Tag) String() string     { return "u16" }
func (U32Tag) String() string     { return "u32" }
func (U64Tag) String() string     { return "u64" }
func (U128Tag) String() string    { return "u128" }
func (U256Tag) String() string    { return "u256" }
func (AddressTag) String() string { return "address" }
func (SignerTag) String() string  { return "signer" }
func (v VectorTag) String() string {
	return fmt.Sprintf("vector<%s>", v.Elem)
}

func (BoolTag) MarshalBCS(e *bcs.Encoder) error    { e.WriteUleb128(tagVariantBool); return nil }
func (U8Tag) MarshalBCS(e *bcs.Encoder) error      { e.WriteUleb128(tagVariantU8); return nil }
func (U16Tag) MarshalBCS(e *bcs.Encoder) error     { e.WriteUleb128(tagVariantU16); return nil }
func (U32Tag) MarshalBCS(e *bcs.Encoder) error     { e.WriteUleb128(tagVariantU32); return nil }
func (U64Tag) MarshalBCS(e *bcs.Encoder) error     { e.WriteUleb128(tagVariantU64); return nil }
func (U128Tag) MarshalBCS(e *bcs.Encoder) error    { e.WriteUleb128(tagVariantU128); return nil }
func (U256Tag) MarshalBCS(e *bcs.Encoder) error    { e.WriteUleb128(tagVariantU256); return nil }
func (AddressTag) MarshalBCS(e *bcs.Encoder) error { e.WriteUleb128(tagVariantAddress); return nil }
func (SignerTag) MarshalBCS(e *bcs.Encoder) error  { e.WriteUleb128(tagVariantSigner); return nil }

func (v VectorTag) MarshalBCS(e *bcs.Encoder) error {
	e.WriteUleb128(tagVariantVector)
	return v.Elem.MarshalBCS(e)
}

// StructTag identifies a (possibly generic) struct type, e.g.
// 0x1::fungible_asset::FungibleStore.
type StructTag struct {
	Address  Address
	Module   Identifier
	Name     Identifier
	TypeArgs []TypeTag
}

func NewStructTag(addr Address, module, name string, typeArgs ...TypeTag) (StructTag, error) {
	m, err := NewIdentifier(module)
	if err != nil {
		return StructTag{}, err
	}
	n, err := NewIdentifier(name)
	if err != nil {
		return StructTag{}, err
	}
	return StructTag{Address: addr, Module: m, Name: n, TypeArgs: typeArgs}, nil
}

// MustStructTag is NewStructTag for trusted constants; panics on failure.
func MustStructTag(addr Address, module, name string, typeArgs ...TypeTag) StructTag {
	tag, err := NewStructTag(addr, module, name, typeArgs...)
	if err != nil {
		panic(err)
	}
	return tag
}

func (t StructTag) String() string {
	s := fmt.Sprintf("%s::%s::%s", t.Address, t.Module, t.Name)
	if len(t.TypeArgs) == 0 {
		return s
	}
	args := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = a.String()
	}
	return s + "<" + strings.Join(args, ", ") + ">"
}

func (t StructTag) MarshalBCS(e *bcs.Encoder) error {
	e.WriteUleb128(tagVariantStruct)
	return t.marshalFields(e)
}

func (t StructTag) marshalFields(e *bcs.Encoder) error {
	if err := t.Address.MarshalBCS(e); err != nil {
		return err
	}
	if err := t.Module.MarshalBCS(e); err != nil {
		return err
	}
	if err := t.Name.MarshalBCS(e); err != nil {
		return err
	}
	e.WriteUleb128(uint32(len(t.TypeArgs)))
	for _, a := range t.TypeArgs {
		if err := a.MarshalBCS(e); err != nil {
			return err
		}
	}
	return nil
}

func (t *StructTag) unmarshalFields(d *bcs.Decoder) error {
	if err := t.Address.UnmarshalBCS(d); err != nil {
		return err
	}
	if err := t.Module.UnmarshalBCS(d); err != nil {
		return err
	}
	if err := t.Name.UnmarshalBCS(d); err != nil {
		return err
	}
	n, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	t.TypeArgs = nil
	for i := uint32(0); i < n; i++ {
		arg, err := DecodeTypeTag(d)
		if err != nil {
			return err
		}
		t.TypeArgs = append(t.TypeArgs, arg)
	}
	return nil
}

func (t *StructTag) UnmarshalBCS(d *bcs.Decoder) error {
	v, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	if v != tagVariantStruct {
		return errors.Wrapf(bcs.ErrDeserialize, "expected struct tag, got variant %d", v)
	}
	return t.unmarshalFields(d)
}

// Equal compares two struct tags including type arguments.
func (t StructTag) Equal(o StructTag) bool {
	return t.String() == o.String()
}

// DecodeTypeTag reads one TypeTag from the decoder.
func DecodeTypeTag(d *bcs.Decoder) (TypeTag, error) {
	v, err := d.ReadUleb128()
	if err != nil {
		return nil, err
	}
	switch v {
	case tagVariantBool:
		return BoolTag{}, nil
	case tagVariantU8:
		return U8Tag{}, nil
	case tagVariantU16:
		return U16Tag{}, nil
	case tagVariantU32:
		return U32Tag{}, nil
	case tagVariantU64:
		return U64Tag{}, nil
	case tagVariantU128:
		return U128Tag{}, nil
	case tagVariantU256:
		return U256Tag{}, nil
	case tagVariantAddress:
		return AddressTag{}, nil
	case tagVariantSigner:
		return SignerTag{}, nil
	case tagVariantVector:
		elem, err := DecodeTypeTag(d)
		if err != nil {
			return nil, err
		}
		return VectorTag{Elem: elem}, nil
	case tagVariantStruct:
		var tag StructTag
		if err := tag.unmarshalFields(d); err != nil {
			return nil, err
		}
		return tag, nil
	default:
		return nil, errors.Wrapf(bcs.ErrDeserialize, "unknown type tag variant %d", v)
	}
}

// ParseTypeTag parses the textual form of a type tag, including nested
// generics such as "vector<0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>>".
func ParseTypeTag(s string) (TypeTag, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "bool":
		return BoolTag{}, nil
	case "u8":
		return U8Tag{}, nil
	case "u16":
		return U16Tag{}, nil
	case "u32":
		return U32Tag{}, nil
	case "u64":
		return U64Tag{}, nil
	case "u128":
		return U128Tag{}, nil
	case "u256":
		return U256Tag{}, nil
	case "address":
		return AddressTag{}, nil
	case "signer":
		return SignerTag{}, nil
	}
	if inner, ok := strings.CutPrefix(s, "vector<"); ok {
		if !strings.HasSuffix(inner, ">") {
			return nil, errors.Wrapf(ErrInvalidIdentifier, "type tag %q", s)
		}
		elem, err := ParseTypeTag(inner[:len(inner)-1])
		if err != nil {
			return nil, err
		}
		return VectorTag{Elem: elem}, nil
	}
	return ParseStructTag(s)
}

// ParseStructTag parses "0xADDR::module::Name" optionally followed by
// "<type args>".
func ParseStructTag(s string) (StructTag, error) {
	s = strings.TrimSpace(s)
	var argsPart string
	if i := strings.Index(s, "<"); i >= 0 {
		if !strings.HasSuffix(s, ">") {
			return StructTag{}, errors.Wrapf(ErrInvalidIdentifier, "struct tag %q", s)
		}
		argsPart = s[i+1 : len(s)-1]
		s = s[:i]
	}
	parts := strings.Split(s, "::")
	if len(parts) != 3 {
		return StructTag{}, errors.Wrapf(ErrInvalidIdentifier, "struct tag %q must have the form address::module::Name", s)
	}
	addr, err := AddressFromString(parts[0])
	if err != nil {
		return StructTag{}, errors.Wrapf(ErrInvalidIdentifier, "struct tag %q", s)
	}
	tag, err := NewStructTag(addr, parts[1], parts[2])
	if err != nil {
		return StructTag{}, err
	}
	for _, arg := range splitTopLevel(argsPart) {
		t, err := ParseTypeTag(arg)
		if err != nil {
			return StructTag{}, err
		}
		tag.TypeArgs = append(tag.TypeArgs, t)
	}
	return tag, nil
}

// splitTopLevel splits a comma-separated type argument list, ignoring
// commas nested inside angle brackets.
func splitTopLevel(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

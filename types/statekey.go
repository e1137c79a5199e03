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
	"encoding/hex"

	"github.com/aptosbb/aptosbb/bcs"
)

// StateKeyKind discriminates the supported key derivation schemes.
type StateKeyKind uint8

const (
	// StateKeyResource addresses a resource through the resource-store
	// scheme, the current layout.
	StateKeyResource StateKeyKind = iota
	// StateKeyModule addresses published module bytecode.
	StateKeyModule
	// StateKeyTableItem addresses an entry of an on-chain table.
	StateKeyTableItem
	// StateKeyAccessPath addresses a resource through the legacy
	// access-path scheme. The layout has historically supported both
	// resource schemes, so both stay first-class.
	StateKeyAccessPath
)

// StateKey is the lowest-level addressing unit of ledger state. Keys are
// immutable once constructed.
type StateKey struct {
	kind    StateKeyKind
	address Address    // resource owner, module owner or table handle
	tag     StructTag  // resource and access-path keys
	module  Identifier // module keys
	raw     []byte     // table item key bytes
}

// ResourceKey derives the resource-store key for a resource of type tag
// held at addr.
func ResourceKey(addr Address, tag StructTag) StateKey {
	return StateKey{kind: StateKeyResource, address: addr, tag: tag}
}

// AccessPathKey derives the legacy access-path key for the same resource.
func AccessPathKey(addr Address, tag StructTag) StateKey {
	return StateKey{kind: StateKeyAccessPath, address: addr, tag: tag}
}

// ModuleKey derives the key holding the bytecode of addr::name.
func ModuleKey(addr Address, name Identifier) StateKey {
	return StateKey{kind: StateKeyModule, address: addr, module: name}
}

// TableItemKey derives the key of one table entry.
func TableItemKey(handle Address, key []byte) StateKey {
	raw := make([]byte, len(key))
	copy(raw, key)
	return StateKey{kind: StateKeyTableItem, address: handle, raw: raw}
}

func (k StateKey) Kind() StateKeyKind {
	return k.kind
}

// Address returns the resource owner, module owner or table handle,
// depending on the key kind.
func (k StateKey) Address() Address {
	return k.address
}

// Tag returns the resource type for resource and access-path keys.
func (k StateKey) Tag() StructTag {
	return k.tag
}

// ModuleName returns the module name for module keys.
func (k StateKey) ModuleName() Identifier {
	return k.module
}

// TableKey returns the raw entry key for table item keys.
func (k StateKey) TableKey() []byte {
	return k.raw
}

// Encoded returns the canonical byte form of the key, usable as a map key
// via string conversion. The two resource schemes encode to distinct bytes.
func (k StateKey) Encoded() []byte {
	e := bcs.NewEncoder()
	e.WriteU8(uint8(k.kind))
	e.WriteFixedBytes(k.address[:])
	switch k.kind {
	case StateKeyResource:
		_ = k.tag.MarshalBCS(e)
	case StateKeyAccessPath:
		// Access paths wrap the tag in a path discriminator byte.
		e.WriteU8(0x01)
		_ = k.tag.MarshalBCS(e)
	case StateKeyModule:
		_ = k.module.MarshalBCS(e)
	case StateKeyTableItem:
		e.WriteBytes(k.raw)
	}
	return e.Bytes()
}

func (k StateKey) String() string {
	return "0x" + hex.EncodeToString(k.Encoded())
}

// Equal reports whether two keys address the same state slot under the
// same scheme.
func (k StateKey) Equal(o StateKey) bool {
	return string(k.Encoded()) == string(o.Encoded())
}

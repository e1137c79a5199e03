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
	"golang.org/x/crypto/sha3"

	"github.com/aptosbb/aptosbb/bcs"
)

// AptMetadataAddress is the object address holding the metadata of the
// native gas asset.
var AptMetadataAddress = Address{AddressLength - 1: 0x0a}

// Struct tags of the framework resources the harness reads.
func AccountResourceTag() StructTag {
	return MustStructTag(AddressOne, "account", "Account")
}

func FungibleStoreTag() StructTag {
	return MustStructTag(AddressOne, "fungible_asset", "FungibleStore")
}

// ObjectGroupTag identifies the resource group aggregating object
// resources under a single state entry.
func ObjectGroupTag() StructTag {
	return MustStructTag(AddressOne, "object", "ObjectGroup")
}

func PackageRegistryTag() StructTag {
	return MustStructTag(AddressOne, "code", "PackageRegistry")
}

// primaryStoreDomainSeparator derives object addresses of primary
// fungible stores.
const primaryStoreDomainSeparator = 0xfc

// PrimaryStoreAddress derives the deterministic address of owner's primary
// store for the fungible asset described by metadata.
func PrimaryStoreAddress(owner, metadata Address) Address {
	h := sha3.New256()
	h.Write(owner[:])
	h.Write(metadata[:])
	h.Write([]byte{primaryStoreDomainSeparator})
	return BytesToAddress(h.Sum(nil))
}

// PrimaryAptStore returns the address of owner's primary store of the
// native gas asset.
func PrimaryAptStore(owner Address) Address {
	return PrimaryStoreAddress(owner, AptMetadataAddress)
}

// AccountResource is the on-chain account record.
type AccountResource struct {
	AuthenticationKey []byte
	SequenceNumber    uint64
}

func (r *AccountResource) StructTag() StructTag {
	return AccountResourceTag()
}

func (r *AccountResource) MarshalBCS(e *bcs.Encoder) error {
	e.WriteBytes(r.AuthenticationKey)
	e.WriteU64(r.SequenceNumber)
	return nil
}

func (r *AccountResource) UnmarshalBCS(d *bcs.Decoder) error {
	var err error
	if r.AuthenticationKey, err = d.ReadBytes(); err != nil {
		return err
	}
	if r.SequenceNumber, err = d.ReadU64(); err != nil {
		return err
	}
	return nil
}

// FungibleStoreResource holds a balance of one fungible asset. It lives
// inside the object resource group at the store's object address.
type FungibleStoreResource struct {
	Metadata Address
	Balance  uint64
	Frozen   bool
}

func (r *FungibleStoreResource) StructTag() StructTag {
	return FungibleStoreTag()
}

func (r *FungibleStoreResource) MarshalBCS(e *bcs.Encoder) error {
	if err := r.Metadata.MarshalBCS(e); err != nil {
		return err
	}
	e.WriteU64(r.Balance)
	e.WriteBool(r.Frozen)
	return nil
}

func (r *FungibleStoreResource) UnmarshalBCS(d *bcs.Decoder) error {
	if err := r.Metadata.UnmarshalBCS(d); err != nil {
		return err
	}
	var err error
	if r.Balance, err = d.ReadU64(); err != nil {
		return err
	}
	if r.Frozen, err = d.ReadBool(); err != nil {
		return err
	}
	return nil
}

// PackageRegistry lists the packages published at an address.
type PackageRegistry struct {
	Packages []PackageMetadata
}

func (r *PackageRegistry) StructTag() StructTag {
	return PackageRegistryTag()
}

func (r *PackageRegistry) MarshalBCS(e *bcs.Encoder) error {
	e.WriteUleb128(uint32(len(r.Packages)))
	for i := range r.Packages {
		if err := r.Packages[i].MarshalBCS(e); err != nil {
			return err
		}
	}
	return nil
}

func (r *PackageRegistry) UnmarshalBCS(d *bcs.Decoder) error {
	n, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	r.Packages = make([]PackageMetadata, n)
	for i := range r.Packages {
		if err := r.Packages[i].UnmarshalBCS(d); err != nil {
			return err
		}
	}
	return nil
}

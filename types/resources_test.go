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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptosbb/aptosbb/bcs"
)

func TestAccountResource_RoundTrip(t *testing.T) {
	res := &AccountResource{
		AuthenticationKey: make([]byte, AddressLength),
		SequenceNumber:    42,
	}
	data, err := bcs.Marshal(res)
	require.NoError(t, err)

	var decoded AccountResource
	require.NoError(t, bcs.Unmarshal(data, &decoded))
	assert.Equal(t, uint64(42), decoded.SequenceNumber)
	assert.Equal(t, res.AuthenticationKey, decoded.AuthenticationKey)
}

func TestFungibleStoreResource_RoundTrip(t *testing.T) {
	res := &FungibleStoreResource{
		Metadata: AptMetadataAddress,
		Balance:  1_000_000,
		Frozen:   false,
	}
	data, err := bcs.Marshal(res)
	require.NoError(t, err)

	var decoded FungibleStoreResource
	require.NoError(t, bcs.Unmarshal(data, &decoded))
	assert.Equal(t, res.Metadata, decoded.Metadata)
	assert.Equal(t, uint64(1_000_000), decoded.Balance)
	assert.False(t, decoded.Frozen)
}

func TestPrimaryStoreAddress(t *testing.T) {
	owner := MustAddressFromString("0xcafe")

	// Deterministic and owner-specific.
	assert.Equal(t, PrimaryAptStore(owner), PrimaryAptStore(owner))
	assert.NotEqual(t, PrimaryAptStore(owner), PrimaryAptStore(AddressOne))
	assert.NotEqual(t, owner, PrimaryAptStore(owner))

	// Different asset metadata leads to a different store object.
	other := MustAddressFromString("0xb0b")
	assert.NotEqual(t, PrimaryStoreAddress(owner, AptMetadataAddress), PrimaryStoreAddress(owner, other))
}

func TestResourceGroup(t *testing.T) {
	var group ResourceGroup

	storeTag := FungibleStoreTag()
	accountTag := AccountResourceTag()

	_, ok := group.Get(storeTag)
	assert.False(t, ok)

	group.Set(storeTag, []byte{1})
	group.Set(accountTag, []byte{2})
	group.Set(storeTag, []byte{3}) // replace

	assert.Equal(t, 2, group.Len())
	data, ok := group.Get(storeTag)
	assert.True(t, ok)
	assert.Equal(t, []byte{3}, data)

	encoded, err := bcs.Marshal(&group)
	require.NoError(t, err)

	var decoded ResourceGroup
	require.NoError(t, bcs.Unmarshal(encoded, &decoded))
	assert.Equal(t, 2, decoded.Len())
	data, ok = decoded.Get(accountTag)
	assert.True(t, ok)
	assert.Equal(t, []byte{2}, data)
}

func TestPackageMetadata_RoundTrip(t *testing.T) {
	meta := &PackageMetadata{
		Name:          "vault",
		UpgradePolicy: UpgradePolicyCompatible,
		SourceDigest:  "abc123",
		Modules: []ModuleMetadata{
			{Name: "vault", Source: []byte("module vault {}"), SourceMap: []byte{0x01}},
		},
		Functions: []FunctionMetadata{
			{Module: "vault", Name: "deposit", ParamCount: 2},
			{Module: "vault", Name: "total", IsView: true, ReturnArity: 1},
		},
	}
	data, err := bcs.Marshal(meta)
	require.NoError(t, err)

	var decoded PackageMetadata
	require.NoError(t, bcs.Unmarshal(data, &decoded))
	assert.Equal(t, *meta, decoded)

	fn, ok := decoded.FindFunction("vault", "total")
	require.True(t, ok)
	assert.True(t, fn.IsView)
	assert.Equal(t, uint32(1), fn.ReturnArity)

	_, ok = decoded.FindFunction("vault", "missing")
	assert.False(t, ok)
}

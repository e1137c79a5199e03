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

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/aptosbb/aptosbb/client"
	"github.com/aptosbb/aptosbb/types"
)

var testKey = types.ResourceKey(types.AddressOne, types.AccountResourceTag())

func TestRemoteReader_CachesPositiveLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := NewMockSnapshotClient(ctrl)

	mockClient.EXPECT().
		StateValue(gomock.Any(), gomock.Any(), uint64(7)).
		Return([]byte{0x01}, nil).
		Times(1)

	reader := NewRemoteReader(mockClient, 7)

	for i := 0; i < 3; i++ {
		data, err := reader.GetStateValue(testKey)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01}, data)
	}
	assert.Equal(t, uint64(7), reader.Version())
}

func TestRemoteReader_CachesNegativeLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := NewMockSnapshotClient(ctrl)

	mockClient.EXPECT().
		StateValue(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, client.ErrStateValueNotFound).
		Times(1)

	reader := NewRemoteReader(mockClient, 1)

	for i := 0; i < 3; i++ {
		_, err := reader.GetStateValue(testKey)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestRemoteReader_PropagatesConnectivityErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := NewMockSnapshotClient(ctrl)

	mockClient.EXPECT().
		StateValue(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, client.ErrConnectivity).
		Times(2)

	reader := NewRemoteReader(mockClient, 1)

	// Errors are not cached; the next read retries the network.
	_, err := reader.GetStateValue(testKey)
	assert.ErrorIs(t, err, client.ErrConnectivity)
	_, err = reader.GetStateValue(testKey)
	assert.ErrorIs(t, err, client.ErrConnectivity)
}

func TestRemoteReader_DiskCacheSkipsNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := NewMockSnapshotClient(ctrl)

	disk, err := OpenDiskCache(t.TempDir())
	require.NoError(t, err)
	defer disk.Close()

	mockClient.EXPECT().
		StateValue(gomock.Any(), gomock.Any(), uint64(9)).
		Return([]byte{0xaa}, nil).
		Times(1)

	first := NewRemoteReader(mockClient, 9, WithDiskCache(disk))
	data, err := first.GetStateValue(testKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, data)

	// A fresh reader at the same version is served from disk.
	second := NewRemoteReader(mockClient, 9, WithDiskCache(disk))
	data, err = second.GetStateValue(testKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, data)
}

func TestDiskCache_VersionsAreIndependent(t *testing.T) {
	disk, err := OpenDiskCache(t.TempDir())
	require.NoError(t, err)
	defer disk.Close()

	disk.Put(1, testKey, []byte{0x01})
	disk.PutAbsent(2, testKey)

	data, absent, hit := disk.Get(1, testKey)
	assert.True(t, hit)
	assert.False(t, absent)
	assert.Equal(t, []byte{0x01}, data)

	_, absent, hit = disk.Get(2, testKey)
	assert.True(t, hit)
	assert.True(t, absent)

	_, _, hit = disk.Get(3, testKey)
	assert.False(t, hit)
}

func TestOverlay_ShadowsBase(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := NewMockReader(ctrl)

	overlay := NewOverlay(base)

	t.Run("falls through to base", func(t *testing.T) {
		base.EXPECT().GetStateValue(gomock.Any()).Return([]byte{0x01}, nil)
		data, err := overlay.GetStateValue(testKey)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01}, data)
	})

	t.Run("write shadows base", func(t *testing.T) {
		overlay.SetStateValue(testKey, []byte{0x02})
		data, err := overlay.GetStateValue(testKey)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02}, data)
	})

	t.Run("deletion shadows base", func(t *testing.T) {
		overlay.DeleteStateValue(testKey)
		_, err := overlay.GetStateValue(testKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestOverlay_Apply(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := NewMockReader(ctrl)
	overlay := NewOverlay(base)

	other := types.ResourceKey(types.MustAddressFromString("0x2"), types.AccountResourceTag())

	var ws types.WriteSet
	ws = ws.Set(testKey, []byte{0x01})
	ws = ws.Set(other, []byte{0x02})
	ws = ws.Delete(other)
	overlay.Apply(ws)

	data, err := overlay.GetStateValue(testKey)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, data)

	_, err = overlay.GetStateValue(other)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 2, overlay.WriteCount())
}

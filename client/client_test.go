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

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptosbb/aptosbb/types"
)

func TestClient_LedgerInfo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))
			w.Write([]byte(`{"chain_id":1,"ledger_version":"123456789","ledger_timestamp":"1700000000123456"}`))
		}))
		defer server.Close()

		info, err := New(server.URL).LedgerInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, types.MainnetChainID, info.ChainID)
		assert.Equal(t, uint64(123456789), info.Version)
		assert.Equal(t, uint64(1700000000), info.TimestampSecs())
	})

	t.Run("api key is forwarded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			w.Write([]byte(`{"chain_id":2,"ledger_version":"1","ledger_timestamp":"2"}`))
		}))
		defer server.Close()

		info, err := New(server.URL, WithAPIKey("secret")).LedgerInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, types.TestnetChainID, info.ChainID)
	})

	t.Run("malformed metadata", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chain_id":1,"ledger_version":"not-a-number","ledger_timestamp":"2"}`))
		}))
		defer server.Close()

		_, err := New(server.URL).LedgerInfo(context.Background())
		assert.ErrorIs(t, err, ErrConnectivity)
	})

	t.Run("unreachable node", func(t *testing.T) {
		_, err := New("http://127.0.0.1:1").LedgerInfo(context.Background())
		assert.ErrorIs(t, err, ErrConnectivity)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := New(server.URL).LedgerInfo(context.Background())
		assert.ErrorIs(t, err, ErrConnectivity)
	})
}

func TestClient_StateValue(t *testing.T) {
	addr := types.MustAddressFromString("0xcafe")

	t.Run("resource", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/v1/accounts/"+addr.Hex()+"/resource/")
			assert.Equal(t, "42", r.URL.Query().Get("ledger_version"))
			assert.Equal(t, "application/x-bcs", r.Header.Get("Accept"))
			w.Write([]byte{0xaa, 0xbb})
		}))
		defer server.Close()

		key := types.ResourceKey(addr, types.AccountResourceTag())
		data, err := New(server.URL).StateValue(context.Background(), key, 42)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xaa, 0xbb}, data)
	})

	t.Run("access path resolves through resource endpoint", func(t *testing.T) {
		var path string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.Write([]byte{0x01})
		}))
		defer server.Close()

		key := types.AccessPathKey(addr, types.AccountResourceTag())
		_, err := New(server.URL).StateValue(context.Background(), key, 1)
		require.NoError(t, err)
		assert.Contains(t, path, "/resource/")
	})

	t.Run("module", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/module/vault")
			w.Write([]byte{0x02})
		}))
		defer server.Close()

		key := types.ModuleKey(addr, types.MustIdentifier("vault"))
		data, err := New(server.URL).StateValue(context.Background(), key, 1)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02}, data)
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		key := types.ResourceKey(addr, types.AccountResourceTag())
		_, err := New(server.URL).StateValue(context.Background(), key, 1)
		assert.ErrorIs(t, err, ErrStateValueNotFound)
	})
}

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

package account

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptosbb/aptosbb/types"
)

func TestNew_DerivesAddressFromKey(t *testing.T) {
	acc := New()
	assert.Equal(t, AuthenticationKey(acc.PublicKey()), acc.Address())
	assert.NotEqual(t, types.Address{}, acc.Address())

	// Two generated accounts must not collide.
	assert.NotEqual(t, acc.Address(), New().Address())
}

func TestNewAt_KeepsRequestedAddress(t *testing.T) {
	addr := types.MustAddressFromString("0xdead")
	acc := NewAt(addr)
	assert.Equal(t, addr, acc.Address())
	assert.NotEqual(t, AuthenticationKey(acc.PublicKey()), acc.Address())
}

func TestNewFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)

	a, err := NewFromSeed(seed)
	require.NoError(t, err)
	b, err := NewFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.Address(), b.Address())

	_, err = NewFromSeed([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestSignTransaction(t *testing.T) {
	acc := New()
	raw := &types.RawTransaction{
		Sender:         acc.Address(),
		SequenceNumber: 3,
		Payload: types.EntryFunctionPayload{
			Module:   types.ModuleId{Address: types.AddressOne, Name: types.MustIdentifier("aptos_account")},
			Function: types.MustIdentifier("transfer"),
		},
		MaxGasAmount:            2_000_000,
		GasUnitPrice:            100,
		ExpirationTimestampSecs: 1_700_000_300,
		ChainID:                 types.MainnetChainID,
	}

	signed, err := acc.SignTransaction(raw)
	require.NoError(t, err)
	assert.True(t, signed.Verify())

	t.Run("tampered payload fails verification", func(t *testing.T) {
		tampered := *signed
		tampered.Raw.SequenceNumber = 4
		assert.False(t, tampered.Verify())
	})

	t.Run("foreign key fails verification", func(t *testing.T) {
		other := New()
		forged := *signed
		forged.PublicKey = append([]byte(nil), other.PublicKey()...)
		assert.False(t, forged.Verify())
	})
}

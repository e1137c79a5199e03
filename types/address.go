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
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/bcs"
)

// AddressLength is the fixed byte length of an account address.
const AddressLength = 32

// Address is a fixed-length account address on the ledger.
type Address [AddressLength]byte

// AddressOne is the framework address hosting the standard modules.
var AddressOne = Address{AddressLength - 1: 0x01}

var ErrInvalidAddress = errors.New("invalid account address")

// AddressFromString parses an address from its hex form. Both the full
// 64-digit form and the short form ("0x1") are accepted, with or without
// the 0x prefix.
func AddressFromString(s string) (Address, error) {
	var addr Address
	h := strings.TrimPrefix(s, "0x")
	if h == "" || len(h) > 2*AddressLength {
		return addr, errors.Wrapf(ErrInvalidAddress, "%q", s)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return addr, errors.Wrapf(ErrInvalidAddress, "%q", s)
	}
	copy(addr[AddressLength-len(b):], b)
	return addr, nil
}

// MustAddressFromString parses an address and panics on malformed input.
// Intended for constants and tests.
func MustAddressFromString(s string) Address {
	addr, err := AddressFromString(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress converts b to an address, left-padding with zeros. Inputs
// longer than AddressLength are truncated from the left.
func BytesToAddress(b []byte) Address {
	var addr Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(addr[AddressLength-len(b):], b)
	return addr
}

func (a Address) Bytes() []byte {
	return a[:]
}

// IsSpecial reports whether the address is one of the reserved framework
// addresses (all bytes zero except the last).
func (a Address) IsSpecial() bool {
	for _, b := range a[:AddressLength-1] {
		if b != 0 {
			return false
		}
	}
	return a[AddressLength-1] < 0x10
}

// Hex returns the full-length hex form with the 0x prefix.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// String renders special addresses in their conventional short form ("0x1")
// and all others in full.
func (a Address) String() string {
	if a.IsSpecial() {
		s := strings.TrimLeft(hex.EncodeToString(a[:]), "0")
		if s == "" {
			s = "0"
		}
		return "0x" + s
	}
	return a.Hex()
}

func (a Address) MarshalBCS(e *bcs.Encoder) error {
	e.WriteFixedBytes(a[:])
	return nil
}

func (a *Address) UnmarshalBCS(d *bcs.Decoder) error {
	b, err := d.ReadFixedBytes(AddressLength)
	if err != nil {
		return err
	}
	copy(a[:], b)
	return nil
}

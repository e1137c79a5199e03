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

package harness

import (
	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/bcs"
	"github.com/aptosbb/aptosbb/state"
	"github.com/aptosbb/aptosbb/types"
)

// ErrResourceNotFound is reported when no resource of the requested type
// exists at the address under either key derivation scheme.
var ErrResourceNotFound = errors.New("resource not found")

// ReadStateValue resolves one raw state value against the session: the
// overlay first, then the pinned snapshot.
func (h *Harness) ReadStateValue(key types.StateKey) ([]byte, error) {
	return h.overlay.GetStateValue(key)
}

// ReadResource decodes the resource of type tag at addr into out. Both
// key derivation schemes are probed, resource-store first, so resources
// remain visible regardless of which scheme the chain stored them under.
func (h *Harness) ReadResource(addr types.Address, tag types.StructTag, out bcs.Unmarshaler) error {
	for _, key := range []types.StateKey{types.ResourceKey(addr, tag), types.AccessPathKey(addr, tag)} {
		data, err := h.overlay.GetStateValue(key)
		if errors.Is(err, state.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := bcs.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "decoding resource %s at %s", tag, addr)
		}
		return nil
	}
	return errors.Wrapf(ErrResourceNotFound, "%s at %s", tag, addr)
}

// ExistsResource reports whether a resource of type tag exists at addr
// under either scheme.
func (h *Harness) ExistsResource(addr types.Address, tag types.StructTag) bool {
	for _, key := range []types.StateKey{types.ResourceKey(addr, tag), types.AccessPathKey(addr, tag)} {
		if _, err := h.overlay.GetStateValue(key); err == nil {
			return true
		}
	}
	return false
}

// ReadAccountResource reads the account resource of addr.
func (h *Harness) ReadAccountResource(addr types.Address) (*types.AccountResource, error) {
	var res types.AccountResource
	if err := h.ReadResource(addr, types.AccountResourceTag(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// readGroupResource decodes the inner resource of type tag out of the
// object group at addr.
func (h *Harness) readGroupResource(addr types.Address, tag types.StructTag, out bcs.Unmarshaler) (bool, error) {
	var group types.ResourceGroup
	if err := h.ReadResource(addr, types.ObjectGroupTag(), &group); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return false, nil
		}
		return false, err
	}
	data, ok := group.Get(tag)
	if !ok {
		return false, nil
	}
	if err := bcs.Unmarshal(data, out); err != nil {
		return false, errors.Wrapf(err, "decoding group member %s at %s", tag, addr)
	}
	return true, nil
}

// BalanceOf reads the native-coin balance held by addr's primary
// fungible store. The second result distinguishes a missing store from a
// zero balance.
func (h *Harness) BalanceOf(addr types.Address) (uint64, bool) {
	var store types.FungibleStoreResource
	ok, err := h.readGroupResource(types.PrimaryAptStore(addr), types.FungibleStoreTag(), &store)
	if err != nil {
		h.log.Warningf("balance read of %s failed: %v", addr, err)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	return store.Balance, true
}

// ReadBalance returns the native-coin balance of addr, conflating a
// missing store, a failed read and a true zero balance into 0. Use
// BalanceOf when the distinction matters.
func (h *Harness) ReadBalance(addr types.Address) uint64 {
	balance, _ := h.BalanceOf(addr)
	return balance
}

// HasBalance reports whether addr holds at least amount of the native
// coin.
func (h *Harness) HasBalance(addr types.Address, amount uint64) bool {
	return h.ReadBalance(addr) >= amount
}

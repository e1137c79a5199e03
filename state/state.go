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

// Package state provides the layered state model of the harness: an
// immutable snapshot of remote ledger state pinned at one version, and a
// mutable session overlay holding every write applied since construction.
package state

//go:generate mockgen -source state.go -destination state_mock.go -package state

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/types"
)

// ErrNotFound is returned by readers when no value exists at a key.
var ErrNotFound = errors.New("state value not found")

// Reader resolves raw state values by key.
type Reader interface {
	// GetStateValue returns the value stored at key, or ErrNotFound.
	GetStateValue(key types.StateKey) ([]byte, error)
}

// SnapshotClient is the remote access the snapshot reader needs; the
// fullnode client satisfies it.
type SnapshotClient interface {
	StateValue(ctx context.Context, key types.StateKey, version uint64) ([]byte, error)
}

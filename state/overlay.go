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

import "github.com/aptosbb/aptosbb/types"

// overlayEntry is one session write; a deletion shadows the base value.
type overlayEntry struct {
	data    []byte
	deleted bool
}

// Overlay layers the session's writes on top of an immutable base. Every
// applied write is irreversible for the life of the overlay; there is no
// rollback. Not safe for concurrent use: the harness owns exactly one
// overlay and mutates it from a single thread of control.
type Overlay struct {
	base    Reader
	entries map[string]overlayEntry
}

// NewOverlay creates an empty overlay over base.
func NewOverlay(base Reader) *Overlay {
	return &Overlay{
		base:    base,
		entries: make(map[string]overlayEntry),
	}
}

// GetStateValue resolves key against the overlay first, then the base.
func (o *Overlay) GetStateValue(key types.StateKey) ([]byte, error) {
	if entry, ok := o.entries[string(key.Encoded())]; ok {
		if entry.deleted {
			return nil, ErrNotFound
		}
		return entry.data, nil
	}
	return o.base.GetStateValue(key)
}

// SetStateValue writes value at key.
func (o *Overlay) SetStateValue(key types.StateKey, value []byte) {
	o.entries[string(key.Encoded())] = overlayEntry{data: value}
}

// DeleteStateValue removes key, shadowing any base value.
func (o *Overlay) DeleteStateValue(key types.StateKey) {
	o.entries[string(key.Encoded())] = overlayEntry{deleted: true}
}

// Apply replays every operation of ws onto the overlay, in order.
func (o *Overlay) Apply(ws types.WriteSet) {
	for _, op := range ws {
		if op.Deletion {
			o.DeleteStateValue(op.Key)
		} else {
			o.SetStateValue(op.Key, op.Value)
		}
	}
}

// WriteCount returns the number of distinct keys the session has touched.
func (o *Overlay) WriteCount() int {
	return len(o.entries)
}

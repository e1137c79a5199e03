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
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/aptosbb/aptosbb/types"
)

// Entries are tagged so a cached miss is distinguishable from a cached
// empty value.
const (
	diskEntryPresent byte = 0x01
	diskEntryAbsent  byte = 0x00
)

// DiskCache persists remote state values fetched at a specific ledger
// version. Values at a version are immutable, so entries never expire.
// Cache writes are best-effort; a write failure never fails a read path.
type DiskCache struct {
	db *leveldb.DB
}

// OpenDiskCache opens (or creates) the cache database in dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &DiskCache{db: db}, nil
}

func (c *DiskCache) Close() error {
	return c.db.Close()
}

// diskKey is the 8-byte big-endian version followed by the encoded state
// key, keeping entries of one snapshot adjacent.
func diskKey(version uint64, key types.StateKey) []byte {
	encoded := key.Encoded()
	out := make([]byte, 8+len(encoded))
	binary.BigEndian.PutUint64(out, version)
	copy(out[8:], encoded)
	return out
}

// Get returns (value, absent, hit) for key at version.
func (c *DiskCache) Get(version uint64, key types.StateKey) ([]byte, bool, bool) {
	entry, err := c.db.Get(diskKey(version, key), nil)
	if err != nil || len(entry) == 0 {
		return nil, false, false
	}
	if entry[0] == diskEntryAbsent {
		return nil, true, true
	}
	return entry[1:], false, true
}

// Put records the value fetched for key at version.
func (c *DiskCache) Put(version uint64, key types.StateKey, value []byte) {
	entry := make([]byte, 1+len(value))
	entry[0] = diskEntryPresent
	copy(entry[1:], value)
	_ = c.db.Put(diskKey(version, key), entry, nil)
}

// PutAbsent records that key does not exist at version.
func (c *DiskCache) PutAbsent(version uint64, key types.StateKey) {
	_ = c.db.Put(diskKey(version, key), []byte{diskEntryAbsent}, nil)
}

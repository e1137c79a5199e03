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
	"context"
	"time"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aptosbb/aptosbb/client"
	"github.com/aptosbb/aptosbb/types"
)

const (
	// defaultCacheSize bounds the in-memory cache of fetched state values.
	defaultCacheSize = 4096

	// fetchTimeout bounds each lazy remote read during execution.
	fetchTimeout = 30 * time.Second
)

// cachedValue distinguishes a cached value from a cached miss; negative
// results are cached too since the snapshot is immutable.
type cachedValue struct {
	data   []byte
	absent bool
}

// RemoteReader resolves state values against a remote node, pinned at a
// fixed ledger version. The version never changes for the life of the
// reader, so every answer is immutable and cacheable forever.
type RemoteReader struct {
	client  SnapshotClient
	version uint64
	cache   *lru.Cache[string, cachedValue]
	disk    *DiskCache
}

// RemoteOption configures a RemoteReader.
type RemoteOption func(*RemoteReader)

// WithDiskCache persists fetched values in db so later sessions pinned at
// the same version skip the network.
func WithDiskCache(db *DiskCache) RemoteOption {
	return func(r *RemoteReader) {
		r.disk = db
	}
}

// NewRemoteReader pins c at version.
func NewRemoteReader(c SnapshotClient, version uint64, opts ...RemoteOption) *RemoteReader {
	cache, _ := lru.New[string, cachedValue](defaultCacheSize)
	r := &RemoteReader{
		client:  c,
		version: version,
		cache:   cache,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Version returns the pinned ledger version.
func (r *RemoteReader) Version() uint64 {
	return r.version
}

// GetStateValue resolves key at the pinned version, consulting the
// in-memory cache, then the disk cache, then the network.
func (r *RemoteReader) GetStateValue(key types.StateKey) ([]byte, error) {
	cacheKey := string(key.Encoded())
	if v, ok := r.cache.Get(cacheKey); ok {
		if v.absent {
			return nil, ErrNotFound
		}
		return v.data, nil
	}

	if r.disk != nil {
		if data, absent, ok := r.disk.Get(r.version, key); ok {
			r.cache.Add(cacheKey, cachedValue{data: data, absent: absent})
			if absent {
				return nil, ErrNotFound
			}
			return data, nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	data, err := r.client.StateValue(ctx, key, r.version)
	switch {
	case err == nil:
		r.cache.Add(cacheKey, cachedValue{data: data})
		if r.disk != nil {
			r.disk.Put(r.version, key, data)
		}
		return data, nil
	case errors.Is(err, client.ErrStateValueNotFound):
		r.cache.Add(cacheKey, cachedValue{absent: true})
		if r.disk != nil {
			r.disk.PutAbsent(r.version, key)
		}
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

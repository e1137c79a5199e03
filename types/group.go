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
	"sort"

	"github.com/aptosbb/aptosbb/bcs"
)

// ResourceGroup is the serialized form of a grouped state entry: several
// resources of one address aggregated under a single state key. Entries
// stay sorted by type tag so the encoding is canonical.
type ResourceGroup struct {
	entries []groupEntry
}

type groupEntry struct {
	tag  StructTag
	data []byte
}

// Get returns the serialized resource of type tag, if present.
func (g *ResourceGroup) Get(tag StructTag) ([]byte, bool) {
	for _, e := range g.entries {
		if e.tag.Equal(tag) {
			return e.data, true
		}
	}
	return nil, false
}

// Set stores data as the resource of type tag, replacing any previous
// entry.
func (g *ResourceGroup) Set(tag StructTag, data []byte) {
	for i := range g.entries {
		if g.entries[i].tag.Equal(tag) {
			g.entries[i].data = data
			return
		}
	}
	g.entries = append(g.entries, groupEntry{tag: tag, data: data})
	sort.Slice(g.entries, func(i, j int) bool {
		return g.entries[i].tag.String() < g.entries[j].tag.String()
	})
}

// Len returns the number of resources in the group.
func (g *ResourceGroup) Len() int {
	return len(g.entries)
}

func (g *ResourceGroup) MarshalBCS(e *bcs.Encoder) error {
	e.WriteUleb128(uint32(len(g.entries)))
	for _, entry := range g.entries {
		if err := entry.tag.marshalFields(e); err != nil {
			return err
		}
		e.WriteBytes(entry.data)
	}
	return nil
}

func (g *ResourceGroup) UnmarshalBCS(d *bcs.Decoder) error {
	n, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	g.entries = make([]groupEntry, n)
	for i := range g.entries {
		if err := g.entries[i].tag.unmarshalFields(d); err != nil {
			return err
		}
		if g.entries[i].data, err = d.ReadBytes(); err != nil {
			return err
		}
	}
	return nil
}

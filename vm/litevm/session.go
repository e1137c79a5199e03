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

package litevm

import (
	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/bcs"
	"github.com/aptosbb/aptosbb/state"
	"github.com/aptosbb/aptosbb/types"
	"github.com/aptosbb/aptosbb/vm"
)

// session accumulates the writes and events of one execution on top of a
// read-only view. Reads observe earlier writes of the same session.
type session struct {
	view     state.Reader
	writeSet types.WriteSet
	pending  map[string]int
	events   []types.Event
}

func newSession(view state.Reader) *session {
	return &session{
		view:    view,
		pending: make(map[string]int),
	}
}

func (s *session) getRaw(key types.StateKey) ([]byte, bool, error) {
	if i, ok := s.pending[key.String()]; ok {
		op := s.writeSet[i]
		if op.Deletion {
			return nil, false, nil
		}
		return op.Value, true, nil
	}
	data, err := s.view.GetStateValue(key)
	if errors.Is(err, state.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(vm.ErrExecution, "state read %s failed: %v", key, err)
	}
	return data, true, nil
}

func (s *session) setRaw(key types.StateKey, value []byte) {
	if i, ok := s.pending[key.String()]; ok {
		s.writeSet[i] = types.WriteOp{Key: key, Value: value}
		return
	}
	s.pending[key.String()] = len(s.writeSet)
	s.writeSet = s.writeSet.Set(key, value)
}

// readResource decodes the resource of type tag at addr into out. Both
// key derivation schemes are probed, resource-store first.
func (s *session) readResource(addr types.Address, tag types.StructTag, out bcs.Unmarshaler) (bool, error) {
	for _, key := range []types.StateKey{types.ResourceKey(addr, tag), types.AccessPathKey(addr, tag)} {
		data, ok, err := s.getRaw(key)
		if err != nil {
			return false, err
		}
		if ok {
			if err := bcs.Unmarshal(data, out); err != nil {
				return false, errors.Wrapf(vm.ErrExecution, "corrupt resource %s at %s: %v", tag, addr, err)
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *session) writeResource(addr types.Address, tag types.StructTag, in bcs.Marshaler) error {
	data, err := bcs.Marshal(in)
	if err != nil {
		return errors.Wrapf(vm.ErrExecution, "encoding resource %s: %v", tag, err)
	}
	s.setRaw(types.ResourceKey(addr, tag), data)
	return nil
}

// readGroupResource decodes the inner resource of type tag out of the
// object group stored at addr.
func (s *session) readGroupResource(addr types.Address, tag types.StructTag, out bcs.Unmarshaler) (bool, error) {
	group, ok, err := s.readGroup(addr)
	if err != nil || !ok {
		return false, err
	}
	data, ok := group.Get(tag)
	if !ok {
		return false, nil
	}
	if err := bcs.Unmarshal(data, out); err != nil {
		return false, errors.Wrapf(vm.ErrExecution, "corrupt group member %s at %s: %v", tag, addr, err)
	}
	return true, nil
}

func (s *session) writeGroupResource(addr types.Address, tag types.StructTag, in bcs.Marshaler) error {
	group, _, err := s.readGroup(addr)
	if err != nil {
		return err
	}
	if group == nil {
		group = &types.ResourceGroup{}
	}
	data, err := bcs.Marshal(in)
	if err != nil {
		return errors.Wrapf(vm.ErrExecution, "encoding group member %s: %v", tag, err)
	}
	group.Set(tag, data)
	encoded, err := bcs.Marshal(group)
	if err != nil {
		return errors.Wrapf(vm.ErrExecution, "encoding group at %s: %v", addr, err)
	}
	s.setRaw(types.ResourceKey(addr, types.ObjectGroupTag()), encoded)
	return nil
}

func (s *session) readGroup(addr types.Address) (*types.ResourceGroup, bool, error) {
	var group types.ResourceGroup
	ok, err := s.readResource(addr, types.ObjectGroupTag(), &group)
	if err != nil || !ok {
		return nil, false, err
	}
	return &group, true, nil
}

func (s *session) moduleExists(module types.ModuleId) (bool, error) {
	_, ok, err := s.getRaw(types.ModuleKey(module.Address, module.Name))
	return ok, err
}

// findFunction scans the package registry at the module's address for the
// ABI entry of module::name.
func (s *session) findFunction(module types.ModuleId, name string) (*types.FunctionMetadata, bool, error) {
	var registry types.PackageRegistry
	ok, err := s.readResource(module.Address, types.PackageRegistryTag(), &registry)
	if err != nil || !ok {
		return nil, false, err
	}
	for i := range registry.Packages {
		if fn, found := registry.Packages[i].FindFunction(string(module.Name), name); found {
			return fn, true, nil
		}
	}
	return nil, false, nil
}

func (s *session) emit(tag types.StructTag, data []byte) {
	s.events = append(s.events, types.Event{Type: tag, Data: data})
}

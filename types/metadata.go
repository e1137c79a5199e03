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

import "github.com/aptosbb/aptosbb/bcs"

// Package upgrade policies.
const (
	UpgradePolicyCompatible uint8 = 1
	UpgradePolicyImmutable  uint8 = 2
)

// PackageMetadata describes one deployable package: its modules with
// their auxiliary build artifacts and the functions they expose. The
// serialized form travels inside module-publish payloads.
type PackageMetadata struct {
	Name          string
	UpgradePolicy uint8
	SourceDigest  string
	Modules       []ModuleMetadata
	Functions     []FunctionMetadata
}

// ModuleMetadata carries per-module auxiliary artifacts. Source and
// SourceMap are empty unless the package was built with the corresponding
// options.
type ModuleMetadata struct {
	Name      string
	Source    []byte
	SourceMap []byte
}

// FunctionMetadata is the ABI entry for one exposed function.
type FunctionMetadata struct {
	Module      string
	Name        string
	IsView      bool
	ParamCount  uint32
	ReturnArity uint32
}

func (m *PackageMetadata) MarshalBCS(e *bcs.Encoder) error {
	e.WriteString(m.Name)
	e.WriteU8(m.UpgradePolicy)
	e.WriteString(m.SourceDigest)
	e.WriteUleb128(uint32(len(m.Modules)))
	for i := range m.Modules {
		e.WriteString(m.Modules[i].Name)
		e.WriteBytes(m.Modules[i].Source)
		e.WriteBytes(m.Modules[i].SourceMap)
	}
	e.WriteUleb128(uint32(len(m.Functions)))
	for i := range m.Functions {
		f := &m.Functions[i]
		e.WriteString(f.Module)
		e.WriteString(f.Name)
		e.WriteBool(f.IsView)
		e.WriteUleb128(f.ParamCount)
		e.WriteUleb128(f.ReturnArity)
	}
	return nil
}

func (m *PackageMetadata) UnmarshalBCS(d *bcs.Decoder) error {
	var err error
	if m.Name, err = d.ReadString(); err != nil {
		return err
	}
	if m.UpgradePolicy, err = d.ReadU8(); err != nil {
		return err
	}
	if m.SourceDigest, err = d.ReadString(); err != nil {
		return err
	}
	n, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	m.Modules = make([]ModuleMetadata, n)
	for i := range m.Modules {
		if m.Modules[i].Name, err = d.ReadString(); err != nil {
			return err
		}
		if m.Modules[i].Source, err = d.ReadBytes(); err != nil {
			return err
		}
		if m.Modules[i].SourceMap, err = d.ReadBytes(); err != nil {
			return err
		}
	}
	if n, err = d.ReadUleb128(); err != nil {
		return err
	}
	m.Functions = make([]FunctionMetadata, n)
	for i := range m.Functions {
		f := &m.Functions[i]
		if f.Module, err = d.ReadString(); err != nil {
			return err
		}
		if f.Name, err = d.ReadString(); err != nil {
			return err
		}
		if f.IsView, err = d.ReadBool(); err != nil {
			return err
		}
		if f.ParamCount, err = d.ReadUleb128(); err != nil {
			return err
		}
		if f.ReturnArity, err = d.ReadUleb128(); err != nil {
			return err
		}
	}
	return nil
}

// FindFunction looks up the ABI entry of module::name, if declared.
func (m *PackageMetadata) FindFunction(module, name string) (*FunctionMetadata, bool) {
	for i := range m.Functions {
		if m.Functions[i].Module == module && m.Functions[i].Name == name {
			return &m.Functions[i], true
		}
	}
	return nil, false
}

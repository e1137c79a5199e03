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

// Payload variant indices of the canonical encoding.
const (
	payloadVariantModulePublish = 1
	payloadVariantEntryFunction = 2
)

// Payload is the operation a transaction requests from the engine:
// publishing a compiled package or calling an entry function.
type Payload interface {
	bcs.Marshaler
	isPayload()
}

// EntryFunctionPayload calls module::function with the given type
// arguments and pre-serialized argument values.
type EntryFunctionPayload struct {
	Module   ModuleId
	Function Identifier
	TypeArgs []TypeTag
	Args     [][]byte
}

func (EntryFunctionPayload) isPayload() {}

func (p EntryFunctionPayload) MarshalBCS(e *bcs.Encoder) error {
	e.WriteUleb128(payloadVariantEntryFunction)
	if err := p.Module.MarshalBCS(e); err != nil {
		return err
	}
	if err := p.Function.MarshalBCS(e); err != nil {
		return err
	}
	e.WriteUleb128(uint32(len(p.TypeArgs)))
	for _, t := range p.TypeArgs {
		if err := t.MarshalBCS(e); err != nil {
			return err
		}
	}
	e.WriteUleb128(uint32(len(p.Args)))
	for _, a := range p.Args {
		e.WriteBytes(a)
	}
	return nil
}

// ModulePublishPayload deploys the compiled modules of one package along
// with its serialized metadata.
type ModulePublishPayload struct {
	MetadataSerialized []byte
	Code               [][]byte
}

func (ModulePublishPayload) isPayload() {}

func (p ModulePublishPayload) MarshalBCS(e *bcs.Encoder) error {
	e.WriteUleb128(payloadVariantModulePublish)
	e.WriteBytes(p.MetadataSerialized)
	e.WriteUleb128(uint32(len(p.Code)))
	for _, c := range p.Code {
		e.WriteBytes(c)
	}
	return nil
}

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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/bcs"
)

// ErrInvalidIdentifier is returned when a module, function or member name
// does not satisfy the identifier grammar. This reflects a caller
// programming error, not a runtime condition.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Identifier is a syntactically valid Move-style name: a letter or
// underscore followed by letters, digits or underscores.
type Identifier string

// NewIdentifier validates s and returns it as an Identifier.
func NewIdentifier(s string) (Identifier, error) {
	if !IsValidIdentifier(s) {
		return "", errors.Wrapf(ErrInvalidIdentifier, "%q", s)
	}
	return Identifier(s), nil
}

// MustIdentifier is NewIdentifier for trusted constants; panics on failure.
func MustIdentifier(s string) Identifier {
	id, err := NewIdentifier(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsValidIdentifier reports whether s satisfies the identifier grammar.
func IsValidIdentifier(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (id Identifier) String() string {
	return string(id)
}

func (id Identifier) MarshalBCS(e *bcs.Encoder) error {
	e.WriteString(string(id))
	return nil
}

func (id *Identifier) UnmarshalBCS(d *bcs.Decoder) error {
	s, err := d.ReadString()
	if err != nil {
		return err
	}
	if !IsValidIdentifier(s) {
		return errors.Wrapf(bcs.ErrDeserialize, "identifier %q", s)
	}
	*id = Identifier(s)
	return nil
}

// ModuleId identifies a published module by its owning address and name.
type ModuleId struct {
	Address Address
	Name    Identifier
}

func NewModuleId(addr Address, name string) (ModuleId, error) {
	id, err := NewIdentifier(name)
	if err != nil {
		return ModuleId{}, err
	}
	return ModuleId{Address: addr, Name: id}, nil
}

func (m ModuleId) String() string {
	return fmt.Sprintf("%s::%s", m.Address, m.Name)
}

func (m ModuleId) MarshalBCS(e *bcs.Encoder) error {
	if err := m.Address.MarshalBCS(e); err != nil {
		return err
	}
	return m.Name.MarshalBCS(e)
}

func (m *ModuleId) UnmarshalBCS(d *bcs.Decoder) error {
	if err := m.Address.UnmarshalBCS(d); err != nil {
		return err
	}
	return m.Name.UnmarshalBCS(d)
}

// MemberId is a fully-qualified reference to a member of a module,
// e.g. an entry or view function.
type MemberId struct {
	Module ModuleId
	Member Identifier
}

// ParseMemberId parses the textual "0xADDR::module::member" form.
func ParseMemberId(s string) (MemberId, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 {
		return MemberId{}, errors.Wrapf(ErrInvalidIdentifier, "member id %q must have the form address::module::member", s)
	}
	addr, err := AddressFromString(parts[0])
	if err != nil {
		return MemberId{}, errors.Wrapf(ErrInvalidIdentifier, "member id %q", s)
	}
	module, err := NewIdentifier(parts[1])
	if err != nil {
		return MemberId{}, err
	}
	member, err := NewIdentifier(parts[2])
	if err != nil {
		return MemberId{}, err
	}
	return MemberId{Module: ModuleId{Address: addr, Name: module}, Member: member}, nil
}

func (m MemberId) String() string {
	return fmt.Sprintf("%s::%s", m.Module, m.Member)
}

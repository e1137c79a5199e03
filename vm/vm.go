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

// Package vm defines the execution engine boundary of the harness.
// Engines are stateless: they read through the provided state view and
// report every mutation in the returned write set, which the caller
// applies to its overlay.
package vm

//go:generate mockgen -source vm.go -destination vm_mock.go -package vm

import (
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/state"
	"github.com/aptosbb/aptosbb/types"
)

// ErrExecution marks engine-internal failures, as opposed to the
// engine-level verdicts reported inside a transaction output.
var ErrExecution = errors.New("execution failed")

// Environment carries the per-session execution parameters an engine
// needs beyond the transaction itself.
type Environment struct {
	// BlockTimeSecs is the virtual clock used for expiry checks.
	BlockTimeSecs uint64
	// ChainID is the identifier transactions must carry.
	ChainID types.ChainID
}

// VM executes transactions and read-only calls against a state view.
type VM interface {
	// ExecuteTransaction runs txn and returns its full output. Engine-level
	// failures (aborts, discards) are reported inside the output's status;
	// an error return means the engine itself broke.
	ExecuteTransaction(view state.Reader, txn *types.SignedTransaction, env Environment) (*types.TransactionOutput, error)

	// ExecuteViewFunction runs a read-only function call and returns its
	// serialized result values. It never produces state mutations.
	ExecuteViewFunction(view state.Reader, fn types.MemberId, typeArgs []types.TypeTag, args [][]byte) ([][]byte, error)
}

// Factory creates a fresh engine instance.
type Factory func() VM

var (
	registryMu sync.Mutex
	registry   = map[string]Factory{}
)

// RegisterVM makes an engine implementation available under name.
// Implementations register themselves in an init function and are pulled
// in via blank imports.
func RegisterVM(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic("vm: duplicate registration of " + name)
	}
	registry[name] = factory
}

// NewVM instantiates the engine registered under name.
func NewVM(name string) (VM, error) {
	registryMu.Lock()
	factory, ok := registry[name]
	registryMu.Unlock()
	if !ok {
		return nil, errors.Newf("unknown vm implementation %q, available: %s", name, strings.Join(RegisteredVMs(), ", "))
	}
	return factory(), nil
}

// RegisteredVMs lists the available engine names, sorted.
func RegisteredVMs() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

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

// Package litevm is the built-in reference engine. It implements
// transaction admission (signatures, sequence numbers, expiry, chain id),
// module publishing and the framework's fungible-asset operations; entry
// functions of session-published modules resolve against the package ABI
// and execute as no-ops. It does not interpret Move bytecode.
package litevm

import (
	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/bcs"
	"github.com/aptosbb/aptosbb/state"
	"github.com/aptosbb/aptosbb/types"
	"github.com/aptosbb/aptosbb/vm"
)

// Name is the registry name of this engine.
const Name = "litevm"

func init() {
	vm.RegisterVM(Name, func() vm.VM { return New() })
}

// Gas charged per operation kind. Flat rates; the engine does not meter
// per-instruction.
const (
	gasPublish       = 1500
	gasTransfer      = 500
	gasCreateAccount = 300
	gasNoop          = 100
	gasAborted       = 200
)

// Move abort codes surfaced by the fungible-asset operations.
const (
	abortInsufficientBalance = 0x1_0004
	abortStoreFrozen         = 0x5_0003
	abortAccountExists       = 0x8_0001
)

// LiteVM executes against a read-only view and reports all effects in
// the returned write set.
type LiteVM struct{}

func New() *LiteVM {
	return &LiteVM{}
}

func (v *LiteVM) ExecuteTransaction(view state.Reader, txn *types.SignedTransaction, env vm.Environment) (*types.TransactionOutput, error) {
	if !txn.Verify() {
		return discarded(types.StatusInvalidSignature), nil
	}
	if txn.Raw.ChainID != env.ChainID {
		return discarded(types.StatusBadChainID), nil
	}

	s := newSession(view)

	var sender types.AccountResource
	ok, err := s.readResource(txn.Raw.Sender, types.AccountResourceTag(), &sender)
	if err != nil {
		return nil, err
	}
	if !ok {
		return discarded(types.StatusSendingAccountDoesNotExist), nil
	}
	switch {
	case txn.Raw.SequenceNumber < sender.SequenceNumber:
		return discarded(types.StatusSequenceNumberTooOld), nil
	case txn.Raw.SequenceNumber > sender.SequenceNumber:
		return discarded(types.StatusSequenceNumberTooNew), nil
	}
	// The expiry must be strictly greater than the virtual clock.
	if txn.Raw.ExpirationTimestampSecs <= env.BlockTimeSecs {
		return discarded(types.StatusTransactionExpired), nil
	}

	// The payload runs in its own session so an abort drops its writes
	// while the sequence number is still consumed.
	payload := newSession(view)
	status, gas, err := v.executePayload(payload, txn.Raw.Sender, txn.Raw.Payload)
	if err != nil {
		return nil, err
	}

	bump := newSession(view)
	sender.SequenceNumber++
	if err := bump.writeResource(txn.Raw.Sender, types.AccountResourceTag(), &sender); err != nil {
		return nil, err
	}

	out := &types.TransactionOutput{
		Status:   status,
		WriteSet: bump.writeSet,
		GasUsed:  gas,
	}
	if status.IsSuccess() {
		out.WriteSet = append(out.WriteSet, payload.writeSet...)
		out.Events = payload.events
	}
	return out, nil
}

func discarded(code types.StatusCode) *types.TransactionOutput {
	return &types.TransactionOutput{Status: types.Discarded(code)}
}

func (v *LiteVM) executePayload(s *session, sender types.Address, payload types.Payload) (types.TransactionStatus, uint64, error) {
	switch p := payload.(type) {
	case types.ModulePublishPayload:
		return v.publish(s, sender, p.MetadataSerialized, p.Code)
	case types.EntryFunctionPayload:
		return v.executeEntryFunction(s, sender, p)
	default:
		return types.KeptWithError(types.StatusMiscellaneousError), gasAborted, nil
	}
}

func (v *LiteVM) executeEntryFunction(s *session, sender types.Address, p types.EntryFunctionPayload) (types.TransactionStatus, uint64, error) {
	if p.Module.Address == types.AddressOne {
		switch {
		case p.Module.Name == "code" && p.Function == "publish_package_txn":
			metadata, code, ok := decodePublishArgs(p.Args)
			if !ok {
				return types.KeptWithError(types.StatusMiscellaneousError), gasAborted, nil
			}
			return v.publish(s, sender, metadata, code)

		case p.Module.Name == "aptos_account" && p.Function == "create_account":
			addr, ok := decodeAddressArg(p.Args, 0)
			if !ok {
				return types.KeptWithError(types.StatusMiscellaneousError), gasAborted, nil
			}
			return v.createAccount(s, addr)

		case p.Module.Name == "aptos_account" && p.Function == "transfer":
			to, okTo := decodeAddressArg(p.Args, 0)
			amount, okAmount := decodeU64Arg(p.Args, 1)
			if !okTo || !okAmount {
				return types.KeptWithError(types.StatusMiscellaneousError), gasAborted, nil
			}
			return v.transfer(s, sender, to, types.AptMetadataAddress, amount, true)

		case p.Module.Name == "primary_fungible_store" && p.Function == "transfer":
			metadata, okMeta := decodeAddressArg(p.Args, 0)
			to, okTo := decodeAddressArg(p.Args, 1)
			amount, okAmount := decodeU64Arg(p.Args, 2)
			if !okMeta || !okTo || !okAmount {
				return types.KeptWithError(types.StatusMiscellaneousError), gasAborted, nil
			}
			return v.transfer(s, sender, to, metadata, amount, false)
		}
	}
	return v.dispatchPublished(s, p)
}

// dispatchPublished resolves an entry function of a session-published
// module against the package ABI. Bodies are not interpreted; a resolved
// entry function executes as a no-op.
func (v *LiteVM) dispatchPublished(s *session, p types.EntryFunctionPayload) (types.TransactionStatus, uint64, error) {
	exists, err := s.moduleExists(p.Module)
	if err != nil {
		return types.TransactionStatus{}, 0, err
	}
	if !exists {
		return types.KeptWithError(types.StatusLinkerError), gasAborted, nil
	}
	_, found, err := s.findFunction(p.Module, string(p.Function))
	if err != nil {
		return types.TransactionStatus{}, 0, err
	}
	if !found {
		return types.KeptWithError(types.StatusFunctionNotFound), gasAborted, nil
	}
	return types.TxnSuccess(), gasNoop, nil
}

func (v *LiteVM) publish(s *session, sender types.Address, metadataBytes []byte, code [][]byte) (types.TransactionStatus, uint64, error) {
	var metadata types.PackageMetadata
	if err := bcs.Unmarshal(metadataBytes, &metadata); err != nil {
		return types.KeptWithError(types.StatusMiscellaneousError), gasAborted, nil
	}
	if len(metadata.Modules) != len(code) {
		return types.KeptWithError(types.StatusMiscellaneousError), gasAborted, nil
	}

	for i, module := range metadata.Modules {
		name, err := types.NewIdentifier(module.Name)
		if err != nil {
			return types.KeptWithError(types.StatusMiscellaneousError), gasAborted, nil
		}
		s.setRaw(types.ModuleKey(sender, name), code[i])
	}

	var registry types.PackageRegistry
	if _, err := s.readResource(sender, types.PackageRegistryTag(), &registry); err != nil {
		return types.TransactionStatus{}, 0, err
	}
	replaced := false
	for i := range registry.Packages {
		if registry.Packages[i].Name == metadata.Name {
			registry.Packages[i] = metadata
			replaced = true
			break
		}
	}
	if !replaced {
		registry.Packages = append(registry.Packages, metadata)
	}
	if err := s.writeResource(sender, types.PackageRegistryTag(), &registry); err != nil {
		return types.TransactionStatus{}, 0, err
	}
	return types.TxnSuccess(), gasPublish, nil
}

func (v *LiteVM) createAccount(s *session, addr types.Address) (types.TransactionStatus, uint64, error) {
	var existing types.AccountResource
	ok, err := s.readResource(addr, types.AccountResourceTag(), &existing)
	if err != nil {
		return types.TransactionStatus{}, 0, err
	}
	if ok {
		return types.KeptWithError(abortAccountExists), gasAborted, nil
	}
	fresh := types.AccountResource{AuthenticationKey: addr.Bytes()}
	if err := s.writeResource(addr, types.AccountResourceTag(), &fresh); err != nil {
		return types.TransactionStatus{}, 0, err
	}
	return types.TxnSuccess(), gasCreateAccount, nil
}

// transfer moves amount of the asset described by metadata between the
// primary stores of from and to. With createReceiver set, a missing
// receiver account is created on the fly, matching the framework's
// account-transfer semantics.
func (v *LiteVM) transfer(s *session, from, to, metadata types.Address, amount uint64, createReceiver bool) (types.TransactionStatus, uint64, error) {
	fromStore := types.PrimaryStoreAddress(from, metadata)
	var src types.FungibleStoreResource
	ok, err := s.readGroupResource(fromStore, types.FungibleStoreTag(), &src)
	if err != nil {
		return types.TransactionStatus{}, 0, err
	}
	if !ok || src.Balance < amount {
		return types.KeptWithError(abortInsufficientBalance), gasAborted, nil
	}
	if src.Frozen {
		return types.KeptWithError(abortStoreFrozen), gasAborted, nil
	}

	if createReceiver {
		var receiver types.AccountResource
		ok, err := s.readResource(to, types.AccountResourceTag(), &receiver)
		if err != nil {
			return types.TransactionStatus{}, 0, err
		}
		if !ok {
			receiver = types.AccountResource{AuthenticationKey: to.Bytes()}
			if err := s.writeResource(to, types.AccountResourceTag(), &receiver); err != nil {
				return types.TransactionStatus{}, 0, err
			}
		}
	}

	toStore := types.PrimaryStoreAddress(to, metadata)
	var dst types.FungibleStoreResource
	ok, err = s.readGroupResource(toStore, types.FungibleStoreTag(), &dst)
	if err != nil {
		return types.TransactionStatus{}, 0, err
	}
	if ok && dst.Frozen {
		return types.KeptWithError(abortStoreFrozen), gasAborted, nil
	}

	src.Balance -= amount
	if err := s.writeGroupResource(fromStore, types.FungibleStoreTag(), &src); err != nil {
		return types.TransactionStatus{}, 0, err
	}
	// A self-transfer resolves both legs to the same store. The deposit
	// must observe the withdrawal, so re-read through the session instead
	// of reusing the pre-withdrawal value.
	dst = types.FungibleStoreResource{Metadata: metadata}
	if _, err := s.readGroupResource(toStore, types.FungibleStoreTag(), &dst); err != nil {
		return types.TransactionStatus{}, 0, err
	}
	dst.Balance += amount
	if err := s.writeGroupResource(toStore, types.FungibleStoreTag(), &dst); err != nil {
		return types.TransactionStatus{}, 0, err
	}

	s.emit(types.MustStructTag(types.AddressOne, "fungible_asset", "Withdraw"), storeEvent(fromStore, amount))
	s.emit(types.MustStructTag(types.AddressOne, "fungible_asset", "Deposit"), storeEvent(toStore, amount))
	return types.TxnSuccess(), gasTransfer, nil
}

func (v *LiteVM) ExecuteViewFunction(view state.Reader, fn types.MemberId, typeArgs []types.TypeTag, args [][]byte) ([][]byte, error) {
	s := newSession(view)

	if fn.Module.Address == types.AddressOne {
		switch {
		case fn.Module.Name == "primary_fungible_store" && fn.Member == "balance":
			owner, ok := decodeAddressArg(args, 0)
			if !ok {
				return nil, errors.Newf("%s: malformed owner argument", fn)
			}
			metadata := types.AptMetadataAddress
			if len(args) > 1 {
				if metadata, ok = decodeAddressArg(args, 1); !ok {
					return nil, errors.Newf("%s: malformed metadata argument", fn)
				}
			}
			var store types.FungibleStoreResource
			found, err := s.readGroupResource(types.PrimaryStoreAddress(owner, metadata), types.FungibleStoreTag(), &store)
			if err != nil {
				return nil, err
			}
			balance := uint64(0)
			if found {
				balance = store.Balance
			}
			return [][]byte{encodeU64(balance)}, nil

		case fn.Module.Name == "account" && fn.Member == "get_sequence_number":
			owner, ok := decodeAddressArg(args, 0)
			if !ok {
				return nil, errors.Newf("%s: malformed address argument", fn)
			}
			var acc types.AccountResource
			found, err := s.readResource(owner, types.AccountResourceTag(), &acc)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, errors.Newf("%s: account %s does not exist", fn, owner)
			}
			return [][]byte{encodeU64(acc.SequenceNumber)}, nil
		}
	}

	exists, err := s.moduleExists(fn.Module)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.Newf("module %s not found", fn.Module)
	}
	abi, found, err := s.findFunction(fn.Module, string(fn.Member))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Newf("function %s not found", fn)
	}
	if !abi.IsView {
		return nil, errors.Newf("%s is not a view function", fn)
	}
	results := make([][]byte, abi.ReturnArity)
	for i := range results {
		results[i] = []byte{}
	}
	return results, nil
}

func storeEvent(store types.Address, amount uint64) []byte {
	e := bcs.NewEncoder()
	e.WriteFixedBytes(store.Bytes())
	e.WriteU64(amount)
	return e.Bytes()
}

func encodeU64(v uint64) []byte {
	e := bcs.NewEncoder()
	e.WriteU64(v)
	return e.Bytes()
}

func decodePublishArgs(args [][]byte) (metadata []byte, code [][]byte, ok bool) {
	if len(args) != 2 {
		return nil, nil, false
	}
	d := bcs.NewDecoder(args[0])
	metadata, err := d.ReadBytes()
	if err != nil || d.Remaining() != 0 {
		return nil, nil, false
	}
	d = bcs.NewDecoder(args[1])
	n, err := d.ReadUleb128()
	if err != nil {
		return nil, nil, false
	}
	for i := uint32(0); i < n; i++ {
		module, err := d.ReadBytes()
		if err != nil {
			return nil, nil, false
		}
		code = append(code, module)
	}
	if d.Remaining() != 0 {
		return nil, nil, false
	}
	return metadata, code, true
}

func decodeAddressArg(args [][]byte, i int) (types.Address, bool) {
	var addr types.Address
	if i >= len(args) {
		return addr, false
	}
	if err := bcs.Unmarshal(args[i], &addr); err != nil {
		return addr, false
	}
	return addr, true
}

func decodeU64Arg(args [][]byte, i int) (uint64, bool) {
	if i >= len(args) {
		return 0, false
	}
	d := bcs.NewDecoder(args[i])
	v, err := d.ReadU64()
	if err != nil || d.Remaining() != 0 {
		return 0, false
	}
	return v, true
}

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

import "fmt"

// StatusCode classifies engine-level failures. The values follow the
// upstream VM status numbering where one exists.
type StatusCode uint64

const (
	StatusInvalidSignature           StatusCode = 1
	StatusSequenceNumberTooOld       StatusCode = 3
	StatusSequenceNumberTooNew       StatusCode = 4
	StatusTransactionExpired         StatusCode = 6
	StatusSendingAccountDoesNotExist StatusCode = 7
	StatusBadChainID                 StatusCode = 275
	StatusLinkerError                StatusCode = 1101
	StatusFunctionNotFound           StatusCode = 1113
	StatusAborted                    StatusCode = 4016
	StatusMiscellaneousError         StatusCode = 4021
)

type statusKind uint8

const (
	statusSuccess statusKind = iota
	statusKeptWithError
	statusDiscarded
)

// TransactionStatus is the engine's verdict on a submitted transaction:
// executed successfully, kept on chain with an error, or discarded
// without any state effect.
type TransactionStatus struct {
	kind statusKind
	code StatusCode
}

// TxnSuccess is the status of a successfully executed transaction.
func TxnSuccess() TransactionStatus {
	return TransactionStatus{kind: statusSuccess}
}

// KeptWithError marks a transaction that is kept on chain (sequence number
// consumed, gas charged) but whose execution failed with code.
func KeptWithError(code StatusCode) TransactionStatus {
	return TransactionStatus{kind: statusKeptWithError, code: code}
}

// Discarded marks a transaction rejected before execution; it leaves no
// trace on chain.
func Discarded(code StatusCode) TransactionStatus {
	return TransactionStatus{kind: statusDiscarded, code: code}
}

func (s TransactionStatus) IsSuccess() bool {
	return s.kind == statusSuccess
}

// IsKept reports whether the transaction left a trace on chain. Successful
// transactions are kept by definition.
func (s TransactionStatus) IsKept() bool {
	return s.kind == statusSuccess || s.kind == statusKeptWithError
}

func (s TransactionStatus) IsDiscarded() bool {
	return s.kind == statusDiscarded
}

// Code returns the failure code; zero for successful transactions.
func (s TransactionStatus) Code() StatusCode {
	return s.code
}

func (s TransactionStatus) String() string {
	switch s.kind {
	case statusSuccess:
		return "Success"
	case statusKeptWithError:
		return fmt.Sprintf("KeptWithError(%d)", s.code)
	default:
		return fmt.Sprintf("Discarded(%d)", s.code)
	}
}

// WriteOp is one state mutation of a transaction: either a value written
// at a key or the deletion of the key.
type WriteOp struct {
	Key      StateKey
	Value    []byte
	Deletion bool
}

// WriteSet is the ordered list of state mutations a kept transaction
// applies.
type WriteSet []WriteOp

// Set appends a write of value at key.
func (ws WriteSet) Set(key StateKey, value []byte) WriteSet {
	return append(ws, WriteOp{Key: key, Value: value})
}

// Delete appends a deletion of key.
func (ws WriteSet) Delete(key StateKey) WriteSet {
	return append(ws, WriteOp{Key: key, Deletion: true})
}

// Event is a typed notification emitted during execution.
type Event struct {
	Type StructTag
	Data []byte
}

// TransactionOutput is the full result of one execution: the verdict plus
// the writes, events and gas it produced. The harness never retains it
// beyond the call that produced it.
type TransactionOutput struct {
	Status   TransactionStatus
	WriteSet WriteSet
	Events   []Event
	GasUsed  uint64
}

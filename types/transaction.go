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
	"crypto/ed25519"

	"golang.org/x/crypto/sha3"

	"github.com/aptosbb/aptosbb/bcs"
)

// ChainID distinguishes ledger instances so transactions cannot be
// replayed across chains.
type ChainID uint8

const (
	MainnetChainID ChainID = 1
	TestnetChainID ChainID = 2
	LocalChainID   ChainID = 4
)

func (c ChainID) String() string {
	switch c {
	case MainnetChainID:
		return "mainnet"
	case TestnetChainID:
		return "testnet"
	case LocalChainID:
		return "local"
	default:
		return "unknown"
	}
}

// rawTransactionSalt prefixes every signing message so raw transaction
// bytes can never collide with other signed structures.
const rawTransactionSalt = "APTOS::RawTransaction"

// RawTransaction is the unsigned transaction content.
type RawTransaction struct {
	Sender                  Address
	SequenceNumber          uint64
	Payload                 Payload
	MaxGasAmount            uint64
	GasUnitPrice            uint64
	ExpirationTimestampSecs uint64
	ChainID                 ChainID
}

func (t *RawTransaction) MarshalBCS(e *bcs.Encoder) error {
	if err := t.Sender.MarshalBCS(e); err != nil {
		return err
	}
	e.WriteU64(t.SequenceNumber)
	if err := t.Payload.MarshalBCS(e); err != nil {
		return err
	}
	e.WriteU64(t.MaxGasAmount)
	e.WriteU64(t.GasUnitPrice)
	e.WriteU64(t.ExpirationTimestampSecs)
	e.WriteU8(uint8(t.ChainID))
	return nil
}

// SigningMessage returns the bytes an account signs: a domain-separation
// digest followed by the canonical serialization of the transaction.
func (t *RawTransaction) SigningMessage() ([]byte, error) {
	raw, err := bcs.Marshal(t)
	if err != nil {
		return nil, err
	}
	salt := sha3.Sum256([]byte(rawTransactionSalt))
	return append(salt[:], raw...), nil
}

// SignedTransaction couples a raw transaction with the sender's public key
// and signature over the signing message.
type SignedTransaction struct {
	Raw       RawTransaction
	PublicKey []byte
	Signature []byte
}

// Verify checks the signature against the embedded public key.
func (t *SignedTransaction) Verify() bool {
	if len(t.PublicKey) != ed25519.PublicKeySize {
		return false
	}
	msg, err := t.Raw.SigningMessage()
	if err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(t.PublicKey), msg, t.Signature)
}

func (t *SignedTransaction) MarshalBCS(e *bcs.Encoder) error {
	if err := t.Raw.MarshalBCS(e); err != nil {
		return err
	}
	e.WriteBytes(t.PublicKey)
	e.WriteBytes(t.Signature)
	return nil
}

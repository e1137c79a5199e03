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

// Package account provides local keypairs and transaction signing. The
// caller owns the Account value; the harness only tracks a derived
// ordering counter for its address.
package account

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/sha3"

	"github.com/aptosbb/aptosbb/types"
)

// ed25519Scheme is the authentication-key derivation suffix of the
// single-signer scheme.
const ed25519Scheme = 0x00

// Account is a locally held keypair with its derived on-chain address.
type Account struct {
	addr types.Address
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// New generates a fresh keypair; the address equals the derived
// authentication key.
func New() *Account {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		// The system randomness source failing is not recoverable.
		panic(err)
	}
	return &Account{
		addr: AuthenticationKey(pub),
		priv: priv,
		pub:  pub,
	}
}

// NewAt generates a fresh keypair bound to a caller-chosen address. The
// address then does not match the authentication key; the engine trusts
// the key it is handed at creation.
func NewAt(addr types.Address) *Account {
	acc := New()
	acc.addr = addr
	return acc
}

// NewFromSeed derives a deterministic account from a 32-byte seed.
// Intended for tests.
func NewFromSeed(seed []byte) (*Account, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Newf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Account{
		addr: AuthenticationKey(pub),
		priv: priv,
		pub:  pub,
	}, nil
}

// AuthenticationKey derives the address/auth key of a public key:
// sha3-256 over the key bytes and the scheme identifier.
func AuthenticationKey(pub ed25519.PublicKey) types.Address {
	h := sha3.New256()
	h.Write(pub)
	h.Write([]byte{ed25519Scheme})
	return types.BytesToAddress(h.Sum(nil))
}

// Address returns the account's on-chain address.
func (a *Account) Address() types.Address {
	return a.addr
}

// PublicKey returns the verification key.
func (a *Account) PublicKey() ed25519.PublicKey {
	return a.pub
}

// SignTransaction signs raw and returns the submittable transaction.
func (a *Account) SignTransaction(raw *types.RawTransaction) (*types.SignedTransaction, error) {
	msg, err := raw.SigningMessage()
	if err != nil {
		return nil, errors.Wrap(err, "building signing message")
	}
	return &types.SignedTransaction{
		Raw:       *raw,
		PublicKey: append([]byte(nil), a.pub...),
		Signature: ed25519.Sign(a.priv, msg),
	}, nil
}

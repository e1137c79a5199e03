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

// Package harness is the fork-and-execute session: remote chain state
// pinned at one ledger version underneath a local overlay, with local
// accounts, sequence tracking and an exchangeable execution engine on
// top. A Harness is not safe for concurrent use; it is owned by a single
// test or scenario.
package harness

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/account"
	"github.com/aptosbb/aptosbb/bcs"
	"github.com/aptosbb/aptosbb/client"
	"github.com/aptosbb/aptosbb/compiler"
	"github.com/aptosbb/aptosbb/config"
	"github.com/aptosbb/aptosbb/logger"
	"github.com/aptosbb/aptosbb/state"
	"github.com/aptosbb/aptosbb/types"
	"github.com/aptosbb/aptosbb/vm"
)

// Transaction defaults applied to every submission. The gas budget is
// deliberately generous; pentest scenarios should fail on semantics, not
// on gas.
const (
	DefaultMaxGasAmount     = 2_000_000
	DefaultGasUnitPrice     = 100
	DefaultExpirationWindow = 300 // seconds past the wall clock
)

// Harness is one execution session.
type Harness struct {
	log     logger.Logger
	overlay *state.Overlay
	engine  vm.VM
	builder compiler.Builder

	// seqs is the local sequence ledger. Unseen addresses start at zero,
	// even when the forked chain state says otherwise; pre-existing
	// remote accounts need their counter seeded explicitly.
	seqs map[types.Address]uint64

	chainID   types.ChainID
	version   uint64
	blockTime uint64

	diskCache *state.DiskCache
}

// FromRemoteLatest forks the chain backing cfg.NodeURL. With cfg.Version
// zero the fork pins to the node's latest version, otherwise to the
// requested one. The returned harness owns the disk cache, if any; Close
// releases it.
func FromRemoteLatest(ctx context.Context, cfg *config.Config) (*Harness, error) {
	log := logger.NewLogger(cfg.LogLevel, "Harness")

	var clientOpts []client.Option
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, client.WithAPIKey(cfg.APIKey))
	}
	if cfg.HTTPTimeout > 0 {
		clientOpts = append(clientOpts, client.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
	}
	c := client.New(cfg.NodeURL, clientOpts...)

	info, err := c.LedgerInfo(ctx)
	if err != nil {
		return nil, err
	}
	version := cfg.Version
	if version == 0 {
		version = info.Version
	}
	log.Infof("forking %s at version %d (chain %s)", cfg.NodeURL, version, info.ChainID)

	var remoteOpts []state.RemoteOption
	var diskCache *state.DiskCache
	if cfg.CacheDir != "" {
		diskCache, err = state.OpenDiskCache(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		remoteOpts = append(remoteOpts, state.WithDiskCache(diskCache))
	}
	remote := state.NewRemoteReader(c, version, remoteOpts...)

	engine, err := vm.NewVM(cfg.VMImpl)
	if err != nil {
		if diskCache != nil {
			_ = diskCache.Close()
		}
		return nil, err
	}

	h := New(remote, engine, info.ChainID, info.TimestampSecs())
	h.log = log
	h.version = version
	h.diskCache = diskCache
	h.builder = compiler.NewCLIBuilder(cfg.LogLevel)
	return h, nil
}

// New creates a harness over an arbitrary base state; tests use it to run
// fully offline. The block time seeds the virtual clock used for expiry
// checks.
func New(base state.Reader, engine vm.VM, chainID types.ChainID, blockTimeSecs uint64) *Harness {
	return &Harness{
		log:       logger.NewLogger("info", "Harness"),
		overlay:   state.NewOverlay(base),
		engine:    engine,
		seqs:      make(map[types.Address]uint64),
		chainID:   chainID,
		blockTime: blockTimeSecs,
	}
}

// SetBuilder replaces the Move package builder.
func (h *Harness) SetBuilder(b compiler.Builder) {
	h.builder = b
}

// Close releases resources held by the harness. The in-memory overlay is
// simply dropped.
func (h *Harness) Close() error {
	if h.diskCache != nil {
		return h.diskCache.Close()
	}
	return nil
}

// Version returns the pinned ledger version of the fork; zero for
// offline harnesses.
func (h *Harness) Version() uint64 {
	return h.version
}

func (h *Harness) ChainID() types.ChainID {
	return h.chainID
}

// BlockTime returns the virtual clock, in seconds.
func (h *Harness) BlockTime() uint64 {
	return h.blockTime
}

// SetBlockTime moves the virtual clock. Engines use it for expiry checks
// only; it never rewrites the wall-clock expiry of built transactions.
func (h *Harness) SetBlockTime(secs uint64) {
	h.blockTime = secs
}

// NewAccount creates a fresh account: a new keypair whose address is the
// derived authentication key, with its account resource written straight
// into the overlay. Creation is best-effort; a failed write-back
// verification is surfaced as a warning, the account is returned either
// way.
func (h *Harness) NewAccount() *account.Account {
	acc := account.New()
	h.seqs[acc.Address()] = 0
	if !h.seedAccount(acc.Address()) {
		h.log.Warningf("account %s not readable after creation", acc.Address())
	}
	return acc
}

// NewAccountAt creates an account at a caller-chosen address with a fresh
// keypair. On a failed write-back verification the sequence ledger stays
// untouched for addr.
func (h *Harness) NewAccountAt(addr types.Address) *account.Account {
	if h.seedAccount(addr) {
		h.seqs[addr] = 0
	} else {
		h.log.Warningf("account creation at %s could not be verified, sequence ledger left unseeded", addr)
	}
	return account.NewAt(addr)
}

// seedAccount writes a zero-sequence account resource for addr and
// verifies it through the full resolution path; a failure means the
// overlay is not shadowing the snapshot the way execution will see it.
func (h *Harness) seedAccount(addr types.Address) bool {
	res := types.AccountResource{AuthenticationKey: addr.Bytes()}
	data, err := bcs.Marshal(&res)
	if err != nil {
		return false
	}
	h.overlay.SetStateValue(types.ResourceKey(addr, types.AccountResourceTag()), data)

	verify, err := h.ReadAccountResource(addr)
	return err == nil && verify.SequenceNumber == 0
}

// SequenceNumber returns the local counter of addr without consuming it.
// Unseen addresses report zero.
func (h *Harness) SequenceNumber(addr types.Address) uint64 {
	return h.seqs[addr]
}

// NextSequenceNumber hands out the next counter value of addr and
// advances it. The counter counts submission attempts, not successes.
func (h *Harness) NextSequenceNumber(addr types.Address) uint64 {
	seq, ok := h.seqs[addr]
	if !ok {
		h.log.Debugf("sequence ledger has no entry for %s, starting at 0", addr)
	}
	h.seqs[addr] = seq + 1
	return seq
}

// RunTransactionWithOutput builds, signs and executes one transaction of
// acc carrying payload, and applies the write set of kept transactions
// to the overlay.
func (h *Harness) RunTransactionWithOutput(acc *account.Account, payload types.Payload) (*types.TransactionOutput, error) {
	seq := h.NextSequenceNumber(acc.Address())
	raw := &types.RawTransaction{
		Sender:                  acc.Address(),
		SequenceNumber:          seq,
		Payload:                 payload,
		MaxGasAmount:            DefaultMaxGasAmount,
		GasUnitPrice:            DefaultGasUnitPrice,
		ExpirationTimestampSecs: uint64(time.Now().Unix()) + DefaultExpirationWindow,
		ChainID:                 h.chainID,
	}
	txn, err := acc.SignTransaction(raw)
	if err != nil {
		return nil, err
	}

	out, err := h.engine.ExecuteTransaction(h.overlay, txn, vm.Environment{
		BlockTimeSecs: h.blockTime,
		ChainID:       h.chainID,
	})
	if err != nil {
		return nil, err
	}
	if out.Status.IsKept() {
		h.overlay.Apply(out.WriteSet)
	}
	h.log.Debugf("txn %s seq %d: %s, gas %d, %d writes",
		acc.Address(), seq, out.Status, out.GasUsed, len(out.WriteSet))
	return out, nil
}

// RunTransaction is RunTransactionWithOutput reduced to the verdict.
func (h *Harness) RunTransaction(acc *account.Account, payload types.Payload) (types.TransactionStatus, error) {
	out, err := h.RunTransactionWithOutput(acc, payload)
	if err != nil {
		return types.TransactionStatus{}, err
	}
	return out.Status, nil
}

// RunEntryFunction calls function ("0xA::module::fn") with the given type
// arguments and pre-serialized arguments.
func (h *Harness) RunEntryFunction(acc *account.Account, function string, typeArgs []types.TypeTag, args [][]byte) (*types.TransactionOutput, error) {
	member, err := types.ParseMemberId(function)
	if err != nil {
		return nil, err
	}
	return h.RunTransactionWithOutput(acc, types.EntryFunctionPayload{
		Module:   member.Module,
		Function: member.Member,
		TypeArgs: typeArgs,
		Args:     args,
	})
}

// PublishPackage compiles the Move package at dir and publishes it from
// acc. A failed build is reported as a kept-with-error verdict instead of
// an error, so scenario code can treat compile and execution failures
// uniformly.
func (h *Harness) PublishPackage(ctx context.Context, acc *account.Account, dir string, opts compiler.BuildOptions) (*types.TransactionOutput, error) {
	if h.builder == nil {
		return nil, errors.New("no package builder configured")
	}
	pkg, err := h.builder.BuildPackage(ctx, dir, opts)
	if err != nil {
		h.log.Errorf("building package %s failed: %v", dir, err)
		return &types.TransactionOutput{
			Status: types.KeptWithError(types.StatusMiscellaneousError),
		}, nil
	}
	h.log.Infof("publishing package %s (%d modules) from %s", pkg.Name, len(pkg.Modules), acc.Address())
	return h.RunTransactionWithOutput(acc, types.ModulePublishPayload{
		MetadataSerialized: pkg.MetadataSerialized,
		Code:               pkg.Modules,
	})
}

// ExecuteViewFunction runs the read-only function ("0xA::module::fn")
// against the current session state.
func (h *Harness) ExecuteViewFunction(function string, typeArgs []types.TypeTag, args [][]byte) ([][]byte, error) {
	member, err := types.ParseMemberId(function)
	if err != nil {
		return nil, err
	}
	return h.engine.ExecuteViewFunction(h.overlay, member, typeArgs, args)
}

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

package pentest

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/harness"
	"github.com/aptosbb/aptosbb/types"
)

func init() {
	Register(Scenario{
		Name:        "session-sanity",
		Description: "verifies account creation, sequence tracking and state reads of the session itself",
		Run:         runSessionSanity,
	})
}

// runSessionSanity exercises the session plumbing every real scenario
// depends on. A failure here means scenario results cannot be trusted.
func runSessionSanity(ctx context.Context, h *harness.Harness) error {
	acc := h.NewAccount()
	if !h.ExistsResource(acc.Address(), types.AccountResourceTag()) {
		return errors.Newf("created account %s has no account resource", acc.Address())
	}

	res, err := h.ReadAccountResource(acc.Address())
	if err != nil {
		return err
	}
	if res.SequenceNumber != 0 {
		return errors.Newf("fresh account starts at sequence %d, want 0", res.SequenceNumber)
	}

	// A call into a module that does not exist must be kept with a linker
	// error and consume the sequence number.
	out, err := h.RunEntryFunction(acc, acc.Address().Hex()+"::nonexistent::poke", nil, nil)
	if err != nil {
		return err
	}
	if !out.Status.IsKept() || out.Status.IsSuccess() {
		return errors.Newf("call into missing module ended as %s, want kept failure", out.Status)
	}
	if got := h.SequenceNumber(acc.Address()); got != 1 {
		return errors.Newf("sequence counter after one attempt is %d, want 1", got)
	}

	// Reads must not disturb session state.
	before := h.ReadBalance(acc.Address())
	if after := h.ReadBalance(acc.Address()); after != before {
		return errors.Newf("repeated balance read changed result: %d -> %d", before, after)
	}
	return nil
}

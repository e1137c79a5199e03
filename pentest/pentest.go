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

// Package pentest runs registered attack scenarios against forked chain
// state. Every scenario gets its own fresh harness so state effects never
// leak between scenarios.
package pentest

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/aptosbb/aptosbb/harness"
	"github.com/aptosbb/aptosbb/logger"
)

// Scenario is one self-contained attack or probe. Run reports nil when
// the scenario passed, meaning the observed chain behaved as expected.
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, h *harness.Harness) error
}

var (
	registryMu sync.Mutex
	registry   = map[string]Scenario{}
)

// Register adds a scenario to the global registry; scenario packages call
// it from init.
func Register(s Scenario) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if s.Name == "" || s.Run == nil {
		panic("pentest: scenario needs a name and a run function")
	}
	if _, exists := registry[s.Name]; exists {
		panic("pentest: duplicate scenario " + s.Name)
	}
	registry[s.Name] = s
}

// Scenarios lists the registered scenarios, sorted by name.
func Scenarios() []Scenario {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Scenario, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Result is the outcome of one scenario run.
type Result struct {
	Name    string
	Err     error
	Elapsed time.Duration
}

// HarnessFactory creates the fresh session a scenario runs in.
type HarnessFactory func(ctx context.Context) (*harness.Harness, error)

// runScenario executes one scenario, converting panics into failures so a
// broken scenario cannot take the whole run down.
func runScenario(ctx context.Context, s Scenario, h *harness.Harness) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("scenario panicked: %v", r)
		}
	}()
	return s.Run(ctx, h)
}

// RunAll executes every registered scenario on its own harness, writes a
// summary table to out and returns the per-scenario results. The error is
// non-nil when at least one scenario failed.
func RunAll(ctx context.Context, factory HarnessFactory, out io.Writer, logLevel string) ([]Result, error) {
	log := logger.NewLogger(logLevel, "Pentest")
	scenarios := Scenarios()
	if len(scenarios) == 0 {
		return nil, errors.New("no scenarios registered")
	}

	results := make([]Result, 0, len(scenarios))
	failed := 0
	for _, s := range scenarios {
		log.Infof("running scenario %s", s.Name)
		start := time.Now()

		h, err := factory(ctx)
		if err != nil {
			// Without a session nothing else can run either.
			return nil, errors.Wrapf(err, "creating harness for %s", s.Name)
		}
		err = runScenario(ctx, s, h)
		if closeErr := h.Close(); closeErr != nil {
			log.Warningf("closing harness of %s: %v", s.Name, closeErr)
		}

		if err != nil {
			failed++
			log.Errorf("scenario %s failed: %v", s.Name, err)
		}
		results = append(results, Result{Name: s.Name, Err: err, Elapsed: time.Since(start)})
	}

	renderSummary(out, results)
	if failed > 0 {
		return results, errors.Newf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return results, nil
}

func renderSummary(out io.Writer, results []Result) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Scenario", "Status", "Elapsed", "Detail"})
	for _, r := range results {
		status := text.FgGreen.Sprint("PASS")
		detail := ""
		if r.Err != nil {
			status = text.FgRed.Sprint("FAIL")
			detail = r.Err.Error()
		}
		t.AppendRow(table.Row{r.Name, status, r.Elapsed.Round(time.Millisecond), detail})
	}
	t.Render()
}

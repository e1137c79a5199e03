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

package main

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/aptosbb/aptosbb/config"
	"github.com/aptosbb/aptosbb/harness"
	"github.com/aptosbb/aptosbb/logger"
	"github.com/aptosbb/aptosbb/pentest"
)

// apiKeyEnv is the environment variable the authenticated run mode reads
// its fullnode credential from.
const apiKeyEnv = "APTOSBB_KEY"

var runFlags = []cli.Flag{
	&config.NodeURLFlag,
	&config.VersionFlag,
	&config.VMImplFlag,
	&config.CacheDirFlag,
	&config.HTTPTimeoutFlag,
	&config.ConfigFileFlag,
	&logger.LogLevelFlag,
}

var RunCmd = cli.Command{
	Action: RunScenarios,
	Name:   "run",
	Usage:  "Runs all scenarios against the forked chain, unauthenticated",
	Flags:  append([]cli.Flag{&config.ApiKeyFlag}, runFlags...),
}

var RunWithKeyCmd = cli.Command{
	Action: RunScenariosWithKey,
	Name:   "api",
	Usage:  "Runs all scenarios using the api key from " + apiKeyEnv,
	Flags:  runFlags,
}

var ListCmd = cli.Command{
	Action: ListScenarios,
	Name:   "list",
	Usage:  "Lists the registered scenarios",
}

// RunScenarios forks the configured chain anonymously and runs every
// registered scenario.
func RunScenarios(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	return runAll(ctx.Context, cfg)
}

// RunScenariosWithKey behaves like RunScenarios but requires a fullnode
// api key in the environment; higher rate limits make large scenario sets
// practical.
func RunScenariosWithKey(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	cfg.APIKey = os.Getenv(apiKeyEnv)
	if cfg.APIKey == "" {
		return errors.Newf("environment variable %s is not set", apiKeyEnv)
	}
	return runAll(ctx.Context, cfg)
}

func runAll(ctx context.Context, cfg *config.Config) error {
	factory := func(ctx context.Context) (*harness.Harness, error) {
		return harness.FromRemoteLatest(ctx, cfg)
	}
	_, err := pentest.RunAll(ctx, factory, os.Stdout, cfg.LogLevel)
	return err
}

// ListScenarios prints the registered scenarios without touching any
// network.
func ListScenarios(*cli.Context) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Scenario", "Description"})
	for _, s := range pentest.Scenarios() {
		t.AppendRow(table.Row{s.Name, s.Description})
	}
	t.Render()
	return nil
}

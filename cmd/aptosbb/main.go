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
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	// Pull in the built-in engine so it registers itself.
	_ "github.com/aptosbb/aptosbb/vm/litevm"
)

// PentestApp data structure
var PentestApp = cli.App{
	Name:      "AptosBB Pentest Harness",
	HelpName:  "aptosbb",
	Copyright: "(c) 2025 AptosBB Authors",
	Usage:     "runs attack scenarios against forked Aptos chain state",
	Commands: []*cli.Command{
		&RunCmd,
		&RunWithKeyCmd,
		&ListCmd,
	},
	Description: `
Forks the state of a remote Aptos network at one ledger version and runs
every registered pentest scenario against it locally. Nothing is ever
submitted to the remote chain.`,
}

func main() {
	if err := PentestApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

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

package compiler

import (
	"context"
	"os/exec"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/logger"
)

// defaultAptosBinary is the toolchain binary looked up on PATH.
const defaultAptosBinary = "aptos"

// CLIBuilder compiles packages by shelling out to the aptos toolchain and
// loading the build artifacts it leaves behind.
type CLIBuilder struct {
	binary string
	log    logger.Logger
}

// NewCLIBuilder creates a builder using the aptos binary from PATH.
func NewCLIBuilder(logLevel string) *CLIBuilder {
	return &CLIBuilder{
		binary: defaultAptosBinary,
		log:    logger.NewLogger(logLevel, "Compiler"),
	}
}

// WithBinary overrides the toolchain binary path.
func (b *CLIBuilder) WithBinary(path string) *CLIBuilder {
	b.binary = path
	return b
}

func (b *CLIBuilder) BuildPackage(ctx context.Context, dir string, opts BuildOptions) (*Package, error) {
	args := buildArgs(dir, opts)
	b.log.Debugf("compiling move package; dir: %s, args: %v", dir, args)

	cmd := exec.CommandContext(ctx, b.binary, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.Wrapf(ErrBuild, "%s %s: %v\n%s", b.binary, strings.Join(args, " "), err, out)
	}

	buildDir, err := findBuildDir(dir)
	if err != nil {
		return nil, err
	}
	return LoadPackage(buildDir)
}

// buildArgs assembles the compile invocation. Artifact inclusion maps to
// the toolchain's three-level included-artifacts setting.
func buildArgs(dir string, opts BuildOptions) []string {
	args := []string{
		"move", "compile",
		"--save-metadata",
		"--package-dir", dir,
		"--included-artifacts", includedArtifacts(opts),
	}
	if len(opts.NamedAddresses) > 0 {
		names := make([]string, 0, len(opts.NamedAddresses))
		for name := range opts.NamedAddresses {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make([]string, len(names))
		for i, name := range names {
			pairs[i] = name + "=" + opts.NamedAddresses[name].Hex()
		}
		args = append(args, "--named-addresses", strings.Join(pairs, ","))
	}
	return args
}

func includedArtifacts(opts BuildOptions) string {
	switch {
	case opts.WithSrcs && opts.WithSourceMaps:
		return "all"
	case opts.WithSrcs:
		return "sparse"
	default:
		return "none"
	}
}

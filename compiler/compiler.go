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

// Package compiler turns Move package sources into publishable artifacts:
// serialized package metadata plus compiled module bytecode.
package compiler

//go:generate mockgen -source compiler.go -destination compiler_mock.go -package compiler

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/bcs"
	"github.com/aptosbb/aptosbb/types"
)

// ErrBuild is returned when a package cannot be compiled or its build
// artifacts cannot be loaded.
var ErrBuild = errors.New("package build failed")

// BuildOptions controls which auxiliary artifacts end up in the package
// metadata and how named addresses resolve during compilation.
type BuildOptions struct {
	WithSrcs       bool
	WithABIs       bool
	WithSourceMaps bool
	WithErrorMap   bool
	// NamedAddresses assigns concrete addresses to the named addresses of
	// the package manifest.
	NamedAddresses map[string]types.Address
}

// MaximalMetadataOptions enables every metadata artifact. Publishing with
// full metadata is what lets inspection tooling recover sources later.
func MaximalMetadataOptions() BuildOptions {
	return BuildOptions{
		WithSrcs:       true,
		WithABIs:       true,
		WithSourceMaps: true,
		WithErrorMap:   true,
	}
}

// Package is one compiled Move package, ready to publish.
type Package struct {
	Name               string
	MetadataSerialized []byte
	Modules            [][]byte
}

// Builder compiles a Move package rooted at dir.
type Builder interface {
	BuildPackage(ctx context.Context, dir string, opts BuildOptions) (*Package, error)
}

const (
	metadataFileName = "package-metadata.bcs"
	bytecodeDirName  = "bytecode_modules"
)

// LoadPackage reads a prebuilt package from a build output directory, the
// layout the Move toolchain produces under build/<PackageName>/. The
// module bytecode order follows the metadata's module list.
func LoadPackage(dir string) (*Package, error) {
	metadataBytes, err := os.ReadFile(filepath.Join(dir, metadataFileName))
	if err != nil {
		return nil, errors.Wrapf(ErrBuild, "reading package metadata in %s: %v", dir, err)
	}
	var metadata types.PackageMetadata
	if err := bcs.Unmarshal(metadataBytes, &metadata); err != nil {
		return nil, errors.Wrapf(ErrBuild, "decoding package metadata in %s: %v", dir, err)
	}

	modules := make([][]byte, len(metadata.Modules))
	for i, module := range metadata.Modules {
		path := filepath.Join(dir, bytecodeDirName, module.Name+".mv")
		code, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(ErrBuild, "reading module bytecode %s: %v", path, err)
		}
		modules[i] = code
	}
	return &Package{
		Name:               metadata.Name,
		MetadataSerialized: metadataBytes,
		Modules:            modules,
	}, nil
}

// findBuildDir locates the single build/<PackageName>/ directory the
// toolchain produced under the package root.
func findBuildDir(packageDir string) (string, error) {
	buildRoot := filepath.Join(packageDir, "build")
	entries, err := os.ReadDir(buildRoot)
	if err != nil {
		return "", errors.Wrapf(ErrBuild, "no build output under %s: %v", packageDir, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) == 0 {
		return "", errors.Wrapf(ErrBuild, "no package directory under %s", buildRoot)
	}
	sort.Strings(dirs)
	if len(dirs) > 1 {
		return "", errors.Wrapf(ErrBuild, "ambiguous build output under %s: %s", buildRoot, strings.Join(dirs, ", "))
	}
	return filepath.Join(buildRoot, dirs[0]), nil
}

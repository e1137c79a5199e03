package compiler

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptosbb/aptosbb/bcs"
	"github.com/aptosbb/aptosbb/types"
)

func writePackageFixture(t *testing.T, dir string, modules map[string][]byte) []byte {
	t.Helper()
	meta := types.PackageMetadata{
		Name:          "fixture",
		UpgradePolicy: types.UpgradePolicyCompatible,
	}
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	// Metadata order is what LoadPackage must follow.
	for _, name := range names {
		meta.Modules = append(meta.Modules, types.ModuleMetadata{Name: name})
	}
	data, err := bcs.Marshal(&meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, metadataFileName), data, 0o644))

	require.NoError(t, os.Mkdir(filepath.Join(dir, bytecodeDirName), 0o755))
	for name, code := range modules {
		require.NoError(t, os.WriteFile(filepath.Join(dir, bytecodeDirName, name+".mv"), code, 0o644))
	}
	return data
}

func TestLoadPackage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		dir := t.TempDir()
		metadata := writePackageFixture(t, dir, map[string][]byte{
			"exploit": {0xa1, 0x1c, 0xeb, 0x0b, 0x01},
		})

		pkg, err := LoadPackage(dir)
		require.NoError(t, err)
		assert.Equal(t, "fixture", pkg.Name)
		assert.Equal(t, metadata, pkg.MetadataSerialized)
		require.Len(t, pkg.Modules, 1)
		assert.Equal(t, []byte{0xa1, 0x1c, 0xeb, 0x0b, 0x01}, pkg.Modules[0])
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := LoadPackage(t.TempDir())
		assert.ErrorIs(t, err, ErrBuild)
	})

	t.Run("corrupt metadata", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, metadataFileName), []byte{0xff, 0xff}, 0o644))
		_, err := LoadPackage(dir)
		assert.ErrorIs(t, err, ErrBuild)
	})

	t.Run("missing bytecode", func(t *testing.T) {
		dir := t.TempDir()
		meta := types.PackageMetadata{Name: "p", Modules: []types.ModuleMetadata{{Name: "gone"}}}
		data, err := bcs.Marshal(&meta)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, metadataFileName), data, 0o644))
		_, err = LoadPackage(dir)
		assert.ErrorIs(t, err, ErrBuild)
	})
}

func TestFindBuildDir(t *testing.T) {
	t.Run("single package", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "build", "MyPackage"), 0o755))
		dir, err := findBuildDir(root)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "build", "MyPackage"), dir)
	})

	t.Run("no build output", func(t *testing.T) {
		_, err := findBuildDir(t.TempDir())
		assert.ErrorIs(t, err, ErrBuild)
	})

	t.Run("ambiguous output", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "build", "A"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(root, "build", "B"), 0o755))
		_, err := findBuildDir(root)
		assert.ErrorIs(t, err, ErrBuild)
	})
}

func TestBuildArgs(t *testing.T) {
	t.Run("maximal metadata", func(t *testing.T) {
		args := buildArgs("/pkg", MaximalMetadataOptions())
		assert.Contains(t, args, "--save-metadata")
		assert.Contains(t, args, "all")
	})

	t.Run("default options", func(t *testing.T) {
		args := buildArgs("/pkg", BuildOptions{})
		assert.Contains(t, args, "none")
	})

	t.Run("named addresses are sorted", func(t *testing.T) {
		args := buildArgs("/pkg", BuildOptions{NamedAddresses: map[string]types.Address{
			"victim":   types.AddressOne,
			"attacker": types.MustAddressFromString("0x42"),
		}})
		require.Contains(t, args, "--named-addresses")
		joined := args[len(args)-1]
		assert.Equal(t, "attacker="+types.MustAddressFromString("0x42").Hex()+",victim="+types.AddressOne.Hex(), joined)
	})
}

func TestCLIBuilder_MissingBinary(t *testing.T) {
	b := NewCLIBuilder("ERROR").WithBinary(filepath.Join(t.TempDir(), "no-such-binary"))
	_, err := b.BuildPackage(context.Background(), t.TempDir(), BuildOptions{})
	assert.ErrorIs(t, err, ErrBuild)
}

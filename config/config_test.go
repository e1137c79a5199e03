package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/aptosbb/aptosbb/logger"
)

func runApp(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var cfg *Config
	var cfgErr error
	app := &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&NodeURLFlag,
			&ApiKeyFlag,
			&VersionFlag,
			&VMImplFlag,
			&CacheDirFlag,
			&HTTPTimeoutFlag,
			&ConfigFileFlag,
			&logger.LogLevelFlag,
		},
		Action: func(ctx *cli.Context) error {
			cfg, cfgErr = NewConfig(ctx)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"test"}, args...)))
	return cfg, cfgErr
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := runApp(t)
	require.NoError(t, err)
	assert.Equal(t, MainnetNodeURL, cfg.NodeURL)
	assert.Equal(t, "litevm", cfg.VMImpl)
	assert.Equal(t, uint64(0), cfg.Version)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfig_Flags(t *testing.T) {
	cfg, err := runApp(t,
		"--node-url", TestnetNodeURL,
		"--api-key", "secret",
		"--version", "12345",
		"--http-timeout", "5s",
	)
	require.NoError(t, err)
	assert.Equal(t, TestnetNodeURL, cfg.NodeURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, uint64(12345), cfg.Version)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestConfig_File(t *testing.T) {
	t.Run("file fills unset flags", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"node-url: http://localhost:8080\nvm-impl: custom\nversion: 7\n",
		), 0o644))

		cfg, err := runApp(t, "--config", path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", cfg.NodeURL)
		assert.Equal(t, "custom", cfg.VMImpl)
		assert.Equal(t, uint64(7), cfg.Version)
	})

	t.Run("timeout as duration string", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("http-timeout: 90s\n"), 0o644))

		cfg, err := runApp(t, "--config", path)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.HTTPTimeout)
	})

	t.Run("malformed timeout errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("http-timeout: ninety\n"), 0o644))
		_, err := runApp(t, "--config", path)
		assert.Error(t, err)
	})

	t.Run("explicit flags win over the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("node-url: http://localhost:8080\n"), 0o644))

		cfg, err := runApp(t, "--config", path, "--node-url", "http://override:9090")
		require.NoError(t, err)
		assert.Equal(t, "http://override:9090", cfg.NodeURL)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := runApp(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("no-such-key: 1\n"), 0o644))
		_, err := runApp(t, "--config", path)
		assert.Error(t, err)
	})
}

func TestConfig_EmptyNodeURL(t *testing.T) {
	_, err := runApp(t, "--node-url", "")
	assert.Error(t, err)
}

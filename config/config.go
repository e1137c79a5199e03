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

// Package config assembles the harness configuration from command-line
// flags with an optional yaml file underneath; flags win over the file.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"

	"github.com/aptosbb/aptosbb/logger"
)

// Default fullnode endpoints per network.
const (
	MainnetNodeURL = "https://fullnode.mainnet.aptoslabs.com"
	TestnetNodeURL = "https://fullnode.testnet.aptoslabs.com"
)

var (
	NodeURLFlag = cli.StringFlag{
		Name:    "node-url",
		Aliases: []string{"n"},
		Usage:   "Fullnode REST endpoint to fork state from",
		Value:   MainnetNodeURL,
	}
	ApiKeyFlag = cli.StringFlag{
		Name:  "api-key",
		Usage: "Bearer token sent with every fullnode request",
	}
	VersionFlag = cli.Uint64Flag{
		Name:  "version",
		Usage: "Ledger version to pin the fork at (0 = latest)",
	}
	VMImplFlag = cli.StringFlag{
		Name:  "vm-impl",
		Usage: "Execution engine to run transactions with",
		Value: "litevm",
	}
	CacheDirFlag = cli.StringFlag{
		Name:  "cache-dir",
		Usage: "Directory for the on-disk cache of fetched remote state (empty = memory only)",
	}
	HTTPTimeoutFlag = cli.DurationFlag{
		Name:  "http-timeout",
		Usage: "Timeout of individual fullnode requests",
		Value: 30 * time.Second,
	}
	ConfigFileFlag = cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path of a yaml config file; flags set on the command line take precedence",
	}
)

// Config carries every user-specified value of the harness.
type Config struct {
	AppName     string
	CommandName string

	NodeURL     string
	APIKey      string
	Version     uint64
	VMImpl      string
	CacheDir    string
	HTTPTimeout time.Duration
	LogLevel    string
}

// fileConfig is the yaml shape of the config file. The timeout travels as
// a duration string ("30s"); yaml cannot decode time.Duration directly.
type fileConfig struct {
	NodeURL     string `yaml:"node-url"`
	APIKey      string `yaml:"api-key"`
	Version     uint64 `yaml:"version"`
	VMImpl      string `yaml:"vm-impl"`
	CacheDir    string `yaml:"cache-dir"`
	HTTPTimeout string `yaml:"http-timeout"`
	LogLevel    string `yaml:"log"`
}

// NewConfig builds the configuration of one command invocation. Values
// come from the config file first, then from explicitly set flags; flag
// defaults fill whatever remains.
func NewConfig(ctx *cli.Context) (*Config, error) {
	cfg := &Config{
		AppName:     ctx.App.HelpName,
		CommandName: ctx.Command.Name,

		NodeURL:     ctx.String(NodeURLFlag.Name),
		APIKey:      ctx.String(ApiKeyFlag.Name),
		Version:     ctx.Uint64(VersionFlag.Name),
		VMImpl:      ctx.String(VMImplFlag.Name),
		CacheDir:    ctx.String(CacheDirFlag.Name),
		HTTPTimeout: ctx.Duration(HTTPTimeoutFlag.Name),
		LogLevel:    ctx.String(logger.LogLevelFlag.Name),
	}

	if path := ctx.String(ConfigFileFlag.Name); path != "" {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		mergeFileConfig(ctx, cfg, fileCfg)
	}

	if cfg.NodeURL == "" {
		return nil, errors.New("node url must not be empty")
	}
	log := logger.NewLogger(cfg.LogLevel, "Config")
	log.Debugf("using node %s, engine %s", cfg.NodeURL, cfg.VMImpl)
	return cfg, nil
}

func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	var raw fileConfig
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}
	cfg := &Config{
		NodeURL:  raw.NodeURL,
		APIKey:   raw.APIKey,
		Version:  raw.Version,
		VMImpl:   raw.VMImpl,
		CacheDir: raw.CacheDir,
		LogLevel: raw.LogLevel,
	}
	if raw.HTTPTimeout != "" {
		cfg.HTTPTimeout, err = time.ParseDuration(raw.HTTPTimeout)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing http-timeout in %s", path)
		}
	}
	return cfg, nil
}

// mergeFileConfig overrides cfg with file values for every flag the user
// did not set explicitly.
func mergeFileConfig(ctx *cli.Context, cfg, file *Config) {
	if !ctx.IsSet(NodeURLFlag.Name) && file.NodeURL != "" {
		cfg.NodeURL = file.NodeURL
	}
	if !ctx.IsSet(ApiKeyFlag.Name) && file.APIKey != "" {
		cfg.APIKey = file.APIKey
	}
	if !ctx.IsSet(VersionFlag.Name) && file.Version != 0 {
		cfg.Version = file.Version
	}
	if !ctx.IsSet(VMImplFlag.Name) && file.VMImpl != "" {
		cfg.VMImpl = file.VMImpl
	}
	if !ctx.IsSet(CacheDirFlag.Name) && file.CacheDir != "" {
		cfg.CacheDir = file.CacheDir
	}
	if !ctx.IsSet(HTTPTimeoutFlag.Name) && file.HTTPTimeout != 0 {
		cfg.HTTPTimeout = file.HTTPTimeout
	}
	if !ctx.IsSet(logger.LogLevelFlag.Name) && file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
}

// Copyright 2026 The starcoin-core Authors
// This file is part of the starcoin-core library.
//
// The starcoin-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The starcoin-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the starcoin-core library. If not, see <http://www.gnu.org/licenses/>.

// Package config loads the minimal node/chain configuration file spec.md §1
// scopes in ("a minimal loader") via a TOML document, mirroring the
// teacher's own TOML-based node config loader.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/core/types"
	"github.com/starcoinorg/starcoin-core/dag"
)

// ChainConfig fixes the identity and consensus parameters of the network a
// node participates in: the genesis it must match at handshake time
// (spec.md §6), the protocol version window it accepts, and the DAG's
// anticone bound.
type ChainConfig struct {
	ChainId       types.ChainId `toml:"chain_id"`
	GenesisHash   string        `toml:"genesis_hash"`
	MinVersion    uint32        `toml:"min_version"`
	CurrentVersion uint32       `toml:"current_version"`
	DagK          uint64        `toml:"dag_k"`
}

// StorageConfig sizes the on-disk store and its per-CF caches.
type StorageConfig struct {
	DataDir        string `toml:"data_dir"`
	CacheSizeMB    int    `toml:"cache_size_mb"`
	Handles        int    `toml:"handles"`
	PerCFCacheSize int    `toml:"per_cf_cache_size"`
}

// LogConfig selects the logging transport and verbosity, matching the
// teacher's own log.Lvl/terminal-vs-json split.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "terminal" or "json"
	File   string `toml:"file"`   // empty means stderr
}

// NodeConfig is the full document a `starcoin-node` process loads at
// startup.
type NodeConfig struct {
	Chain   ChainConfig   `toml:"chain"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// Default returns the single-node development configuration: an in-memory
// friendly data dir, the default DAG anticone bound, and terminal logging at
// info level.
func Default() *NodeConfig {
	return &NodeConfig{
		Chain: ChainConfig{
			ChainId:        1,
			MinVersion:     3,
			CurrentVersion: 5,
			DagK:           dag.DefaultParams.K,
		},
		Storage: StorageConfig{
			DataDir:        "./data",
			CacheSizeMB:    256,
			Handles:        512,
			PerCFCacheSize: 4096,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "terminal",
		},
	}
}

// Load reads and parses the TOML document at path on top of Default,
// so an incomplete config file only overrides the fields it sets.
func Load(path string) (*NodeConfig, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: loading %q: %w", path, err)
	}
	return cfg, nil
}

// DagParams converts the chain config's DAG tuning into dag.Params.
func (c *ChainConfig) DagParams() dag.Params {
	return dag.Params{K: c.DagK}
}

// ParseGenesisHash decodes GenesisHash, defaulting to the zero hash when
// unset (a config that does not pin a genesis accepts any at first
// handshake).
func (c *ChainConfig) ParseGenesisHash() (common.Hash, error) {
	if c.GenesisHash == "" {
		return common.Hash{}, nil
	}
	return common.HexToHash(c.GenesisHash)
}

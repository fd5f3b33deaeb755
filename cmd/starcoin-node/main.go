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

// Command starcoin-node is the thin process entrypoint: load config, open
// storage, start the service registry, wait for a termination signal, stop
// cleanly. CLI UX beyond this -- subcommands, console, RPC transport -- is
// out of scope per spec.md §1; this mirrors the teacher's own minimal-shim
// relationship between cmd/geth and the libraries it wires together.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/starcoinorg/starcoin-core/config"
	"github.com/starcoinorg/starcoin-core/log"
	"github.com/starcoinorg/starcoin-core/service"
	"github.com/starcoinorg/starcoin-core/storage"
	"github.com/starcoinorg/starcoin-core/storage/leveldbstore"
	"github.com/starcoinorg/starcoin-core/storage/memorydb"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a node.toml configuration file",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "overrides storage.data_dir from the config file",
	}
	inMemoryFlag = &cli.BoolFlag{
		Name:  "dev",
		Usage: "use an in-memory store instead of opening datadir (development only)",
	}
)

func main() {
	app := &cli.App{
		Name:  "starcoin-node",
		Usage: "run a Starcoin DAG node",
		Flags: []cli.Flag{configFlag, dataDirFlag, inMemoryFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if dir := c.String(dataDirFlag.Name); dir != "" {
		cfg.Storage.DataDir = dir
	}

	if err := configureLogging(cfg.Log); err != nil {
		return err
	}

	db, closeDB, err := openStore(cfg.Storage, c.Bool(inMemoryFlag.Name))
	if err != nil {
		return err
	}
	defer closeDB()

	registry := service.NewRegistry()
	if err := registry.Register("chain", service.NewChainServiceFactory(db, cfg.Chain.DagParams())); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := registry.Start(ctx, "chain"); err != nil {
		return err
	}
	log.Info("starcoin-node started", "datadir", cfg.Storage.DataDir)

	waitForShutdownSignal()

	log.Info("starcoin-node shutting down")
	registry.StopAll()
	return nil
}

func configureLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var handler slog.Handler
	switch {
	case cfg.File != "":
		handler = log.NewRotatingFileHandler(cfg.File, 100, 5, 30)
	case cfg.Format == "json":
		handler = log.JSONHandler(os.Stderr)
	default:
		handler = log.NewTerminalHandler(os.Stderr, level)
	}
	log.SetDefault(log.NewLogger(handler))
	return nil
}

// openStore opens the on-disk LevelDB store at cfg.DataDir, or an in-memory
// store when dev is set (tests and local experimentation). The returned
// close func must be called once the node has finished using db.
func openStore(cfg config.StorageConfig, dev bool) (storage.KeyValueStore, func(), error) {
	if dev {
		return memorydb.New(), func() {}, nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("starcoin-node: creating data dir: %w", err)
	}
	db, err := leveldbstore.Open(cfg.DataDir, cfg.CacheSizeMB, cfg.Handles)
	if err != nil {
		return nil, nil, fmt.Errorf("starcoin-node: opening store: %w", err)
	}
	return db, func() { _ = db.Close() }, nil
}

func waitForShutdownSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}

// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"

	"github.com/blinklabs-io/powlab/internal/config"
	"github.com/blinklabs-io/powlab/internal/logging"
	"github.com/blinklabs-io/powlab/internal/metrics"
	"github.com/blinklabs-io/powlab/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "powlab",
		Usage:   "Block header proof-of-work verification and nonce search",
		Version: version.GetVersionString(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file to load",
			},
		},
		Commands: []*cli.Command{
			verifyBlockCommand(),
			powIterateCommand(),
			convertNumberCommand(),
			reorgProbabilityCommand(),
			transactCommand(),
			versionCommand(),
		},
		Before: func(c *cli.Context) error {
			// Load config
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			// Configure logging
			logging.Setup()
			startListeners(cfg)
			return nil
		},
		After: func(c *cli.Context) error {
			// Syncing stdout/stderr fails on some platforms and there is
			// nothing useful to do about it
			_ = logging.GetLogger().Sync()
			return nil
		},
	}

	// Stop long running searches on interrupt
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "powlab: %s\n", err)
		stop()
		os.Exit(1)
	}
}

func startListeners(cfg *config.Config) {
	logger := logging.GetLogger()
	// Start debug listener
	if cfg.Debug.ListenPort > 0 {
		logger.Infof(
			"starting debug listener on %s:%d",
			cfg.Debug.ListenAddress,
			cfg.Debug.ListenPort,
		)
		go func() {
			server := &http.Server{
				Addr: fmt.Sprintf(
					"%s:%d",
					cfg.Debug.ListenAddress,
					cfg.Debug.ListenPort,
				),
				ReadHeaderTimeout: 10 * time.Second,
			}
			if err := server.ListenAndServe(); err != nil {
				logger.Errorf("failed to start debug listener: %s", err)
			}
		}()
	}
	// Start metrics listener
	if cfg.Metrics.ListenPort > 0 {
		metrics.Start(cfg.Metrics.ListenAddress, cfg.Metrics.ListenPort)
	}
}

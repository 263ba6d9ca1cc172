// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/blinklabs-io/powlab/internal/blockdata"
	"github.com/blinklabs-io/powlab/internal/config"
	"github.com/blinklabs-io/powlab/internal/logging"
	"github.com/blinklabs-io/powlab/internal/metrics"
	"github.com/blinklabs-io/powlab/internal/numconv"
	"github.com/blinklabs-io/powlab/internal/reorg"
	"github.com/blinklabs-io/powlab/internal/report"
	"github.com/blinklabs-io/powlab/internal/state"
	"github.com/blinklabs-io/powlab/internal/transact"
	"github.com/blinklabs-io/powlab/internal/version"
	"github.com/blinklabs-io/powlab/pow"
)

func verifyBlockCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify-block",
		Usage: "Rebuild a block hash from its header fields and check its proof-of-work",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "hash",
				Usage: "hash of the block to verify (default: latest block)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the verification result as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.GetConfig()
			logger := logging.GetLogger()
			client := blockdata.NewClient(cfg.Provider.BaseUrl, cfg.Provider.Timeout)
			blockHash := c.String("hash")
			if blockHash == "" {
				logger.Info("no block hash provided, using the latest block")
				var err error
				blockHash, err = client.LatestBlockHash(c.Context)
				if err != nil {
					return fmt.Errorf("failed to fetch latest block hash: %w", err)
				}
			}
			logger.Infof("fetching block details for %s", blockHash)
			block, err := client.FetchBlock(c.Context, blockHash)
			if err != nil {
				return fmt.Errorf("failed to fetch block details: %w", err)
			}
			header, err := block.Header()
			if err != nil {
				return fmt.Errorf("invalid block record: %w", err)
			}
			reference, err := block.BlockHash()
			if err != nil {
				return fmt.Errorf("invalid block record: %w", err)
			}
			result := pow.VerifyWithReference(header, reference)
			metrics.ObserveVerification(result)
			logger.Debugw(
				"verified block header",
				"hash", result.ReconstructedHash,
				"valid", result.Valid(),
			)
			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			report.BlockFields(os.Stdout, block)
			report.CompactTarget(os.Stdout, header.Bits)
			report.Verification(os.Stdout, result)
			return nil
		},
	}
}

func powIterateCommand() *cli.Command {
	return &cli.Command{
		Name:  "pow-iterate",
		Usage: "Find the first nonce whose hash with the data starts with enough zero bits",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data",
				Value: "Hello world!",
				Usage: "data to be hashed",
			},
			&cli.UintFlag{
				Name:  "difficulty",
				Value: 5,
				Usage: "number of zero bits the hash must start with",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "number of search workers (default: from config)",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "ignore cached search results",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.GetConfig()
			payload := []byte(c.String("data"))
			difficulty := c.Uint("difficulty")
			workers := cfg.Search.Workers
			if c.IsSet("workers") {
				workers = c.Int("workers")
			}
			return runNonceSearch(c.Context, cfg, payload, difficulty, workers, !c.Bool("no-cache"))
		},
	}
}

func runNonceSearch(
	ctx context.Context,
	cfg *config.Config,
	payload []byte,
	difficulty uint,
	workers int,
	useCache bool,
) error {
	logger := logging.GetLogger()
	useCache = useCache && cfg.State.CacheSearches
	var cache *state.State
	if useCache {
		cache = state.GetState()
		if err := cache.Load(); err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Errorf("failed to close state: %s", err)
			}
		}()
		cached, err := cache.LookupSearchResult(payload, difficulty)
		if err != nil {
			return fmt.Errorf("failed to lookup cached search result: %w", err)
		}
		if cached != nil {
			metrics.ObserveSearch(metrics.SearchOutcomeCached, 0)
			report.NonceSearch(os.Stdout, cached, 0, true)
			return nil
		}
	}
	logger.Infof(
		"starting proof of work iteration on %q with difficulty %d and %d worker(s)",
		payload,
		difficulty,
		workers,
	)
	searcher := &pow.Searcher{
		Workers:          workers,
		ProgressInterval: cfg.Search.ProgressInterval,
		Progress: func(p pow.SearchProgress) {
			metrics.ObserveSearchProgress(p)
			logger.Debugw(
				"search progress",
				"worker", p.Worker,
				"attempts", p.Attempts,
				"nonce", p.Nonce,
			)
		},
	}
	start := time.Now()
	result, err := searcher.Find(ctx, payload, difficulty)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			metrics.ObserveSearch(metrics.SearchOutcomeCancelled, elapsed)
			return cli.Exit("search cancelled", 130)
		}
		metrics.ObserveSearch(metrics.SearchOutcomeError, elapsed)
		return err
	}
	metrics.ObserveSearch(metrics.SearchOutcomeFound, elapsed)
	if useCache {
		if err := cache.SaveSearchResult(payload, difficulty, result); err != nil {
			logger.Warnf("failed to cache search result: %s", err)
		}
	}
	report.NonceSearch(os.Stdout, result, elapsed, false)
	return nil
}

func convertNumberCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert-number",
		Usage:     "Convert a number between binary, decimal and hexadecimal",
		ArgsUsage: "NUMBER",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "from",
				Required: true,
				Usage:    "base of the provided number (2, 10 or 16)",
			},
			&cli.IntFlag{
				Name:     "to",
				Required: true,
				Usage:    "base to convert the number to (2, 10 or 16)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one NUMBER argument", 2)
			}
			converted, err := numconv.Convert(c.Args().First(), c.Int("from"), c.Int("to"))
			if err != nil {
				return err
			}
			logging.GetLogger().Debugf("converted number: %s", converted)
			fmt.Println(converted)
			return nil
		},
	}
}

func reorgProbabilityCommand() *cli.Command {
	return &cli.Command{
		Name:  "reorg-probability",
		Usage: "Compute the success probability of a reorg double spend",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:     "q",
				Required: true,
				Usage:    "share of the network hashrate held by the attacker",
			},
			&cli.IntFlag{
				Name:     "z",
				Required: true,
				Usage:    "number of confirmations the merchant waits for",
			},
			&cli.StringFlag{
				Name:  "formula",
				Value: string(reorg.FormulaOriginal),
				Usage: "original (attacker catches up) or modified (attacker overtakes)",
			},
		},
		Action: func(c *cli.Context) error {
			prob, err := reorg.Probability(
				c.Float64("q"),
				c.Int("z"),
				reorg.Formula(c.String("formula")),
			)
			if err != nil {
				return err
			}
			fmt.Printf("Reorg attack probability = %.2f%% (%v)\n", prob*100, prob)
			return nil
		},
	}
}

func transactCommand() *cli.Command {
	return &cli.Command{
		Name:  "transact",
		Usage: "Walk through signing and verifying a simplified transaction",
		Action: func(c *cli.Context) error {
			outcome, err := transact.Walkthrough(logging.GetLogger())
			if err != nil {
				return err
			}
			fmt.Printf("Forged spend rejected: %v\n", outcome.MaliciousErr != nil)
			fmt.Printf("Legitimate spend accepted: %v\n", outcome.LegitimateErr == nil)
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Printf("powlab %s\n", version.GetVersionString())
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/pastortable/internal/config"
	"github.com/lox/pastortable/internal/simulator"
)

type SimulateCmd struct {
	Games    int    `short:"g" help:"Number of games to play (overrides config)"`
	Workers  int    `short:"w" help:"Games played concurrently (overrides config)"`
	MaxTurns int    `help:"Turn cap per game (overrides config)"`
	Agents   int    `short:"n" help:"Fixed table size (overrides config)"`
	Seed     int64  `help:"Batch seed (overrides config, 0 for random)"`
	Report   string `short:"o" help:"Also write the summary to this file"`
}

func (c *SimulateCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := setupLogger(os.Stderr, cfg, cli.Debug)

	seed, ok := cfg.Game.ResolveSeed(c.Seed)
	if !ok {
		seed = time.Now().UnixNano()
	}
	table, err := cfg.Game.SessionConfig(seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting simulation", "games", cfg.Simulation.Games, "workers", cfg.Simulation.Workers, "seed", seed)
	report, err := simulator.New(simulator.Config{
		Games:    cfg.Simulation.Games,
		Workers:  cfg.Simulation.Workers,
		MaxTurns: cfg.Simulation.MaxTurns,
		Agents:   cfg.Simulation.Agents,
		Seed:     seed,
		Table:    table,
		Logger:   logger,
	}).Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, report)
	if c.Report != "" {
		if err := simulator.WriteSummary(c.Report, report); err != nil {
			return err
		}
		logger.Info("Summary written", "file", c.Report)
	}
	if report.Stats.Violations > 0 {
		return fmt.Errorf("%d invariant violations, replay with the failing seeds", report.Stats.Violations)
	}
	return nil
}

func (c *SimulateCmd) applyOverrides(cfg *config.Config) {
	if c.Games != 0 {
		cfg.Simulation.Games = c.Games
	}
	if c.Workers != 0 {
		cfg.Simulation.Workers = c.Workers
	}
	if c.MaxTurns != 0 {
		cfg.Simulation.MaxTurns = c.MaxTurns
	}
	if c.Agents != 0 {
		cfg.Simulation.Agents = c.Agents
	}
}

package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/pastortable/internal/config"
	"github.com/lox/pastortable/internal/game"
	"github.com/lox/pastortable/internal/tui"
)

type PlayCmd struct {
	Agents          int    `short:"n" help:"Number of pastors at the table (overrides config)"`
	Direction       string `short:"d" help:"Counting direction: left or right (overrides config)"`
	Steps           int    `short:"s" help:"Steps for a bare attack (overrides config)"`
	Seed            int64  `help:"RNG seed for the generated table (overrides config, 0 for random)"`
	ShowProfessions bool   `help:"Show professions next to names in the game log"`
}

func (c *PlayCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logFile, err := setupFileLogger(cfg, cli.Debug)
	if err != nil {
		return err
	}
	defer logFile.Close()

	seed, ok := cfg.Game.ResolveSeed(c.Seed)
	if !ok {
		seed = time.Now().UnixNano()
	}
	sessionConfig, err := cfg.Game.SessionConfig(seed)
	if err != nil {
		return err
	}
	logger.Info("Starting game", "agents", sessionConfig.Agents, "seed", sessionConfig.Seed, "direction", sessionConfig.Direction)

	model := tui.NewTUIModel(logger, tui.Options{
		DefaultSteps:    cfg.Game.DefaultSteps,
		ShowProfessions: c.ShowProfessions,
	})
	bus := game.NewEventBus()
	bus.Subscribe(model)
	sessionConfig.EventBus = bus
	sessionConfig.Logger = logger

	session, err := game.NewSession(sessionConfig)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	model.SetSession(session)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if winner, ok := session.Winner(); ok {
		fmt.Printf("%s won after %d turns with $%d and %d followers\n",
			winner.Name, session.Turn(), winner.Wealth, winner.Followers)
	}
	logger.Info("Game closed", "id", session.ID(), "turns", session.Turn(), "over", session.IsGameOver())
	return nil
}

func (c *PlayCmd) applyOverrides(cfg *config.Config) {
	if c.Agents != 0 {
		cfg.Game.Agents = c.Agents
	}
	if c.Direction != "" {
		cfg.Game.Direction = c.Direction
	}
	if c.Steps != 0 {
		cfg.Game.DefaultSteps = c.Steps
	}
}

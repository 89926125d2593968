package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lox/pastortable/internal/config"
)

type CheckCmd struct {
	File string `arg:"" optional:"" help:"Configuration file (defaults to --config)"`
}

func (c *CheckCmd) Run(cli *CLI) error {
	file := c.File
	if file == "" {
		file = cli.Config
	}
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config file %s does not exist", file)
	}

	cfg, err := config.Load(file)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fmt.Printf("%s: ok (%d agents, counting %s, %s resurrections)\n",
		file, cfg.Game.Agents, cfg.Game.Direction, cfg.Game.ResurrectMode)
	return nil
}

// Package config loads pastortable settings from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pastortable/internal/game"
	"github.com/lox/pastortable/internal/pastor"
)

// Config represents the complete configuration file
type Config struct {
	Game       *GameSettings       `hcl:"game,block"`
	Log        *LogSettings        `hcl:"log,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// GameSettings describes the table a new game starts with
type GameSettings struct {
	Agents        int      `hcl:"agents,optional"`
	Direction     string   `hcl:"direction,optional"`
	DefaultSteps  int      `hcl:"default_steps,optional"`
	Seed          *int64   `hcl:"seed,optional"` // nil picks a fresh seed per run
	ResurrectMode string   `hcl:"resurrect_mode,optional"`
	RepairFactor  int      `hcl:"repair_factor,optional"`
	Professions   []string `hcl:"professions,optional"`
}

// LogSettings controls where logs go and how verbose they are
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SimulationSettings controls batch soak runs
type SimulationSettings struct {
	Games    int `hcl:"games,optional"`
	Workers  int `hcl:"workers,optional"`
	MaxTurns int `hcl:"max_turns,optional"`
	Agents   int `hcl:"agents,optional"` // 0 draws a table size per game
}

// Defaults
const (
	DefaultAgents   = 6
	DefaultSteps    = 1
	DefaultLogLevel = "info"
	DefaultLogFile  = "pastortable.log"
	DefaultGames    = 100
	DefaultWorkers  = 4
	DefaultMaxTurns = 1000
)

// Default returns the configuration used when no file is present
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Simulation == nil {
		c.Simulation = &SimulationSettings{}
	}

	if c.Game.Agents == 0 {
		c.Game.Agents = DefaultAgents
	}
	if c.Game.Direction == "" {
		c.Game.Direction = game.Right.String()
	}
	if c.Game.DefaultSteps == 0 {
		c.Game.DefaultSteps = DefaultSteps
	}
	if c.Game.ResurrectMode == "" {
		c.Game.ResurrectMode = game.ResurrectGrant.String()
	}
	if c.Game.RepairFactor == 0 {
		c.Game.RepairFactor = game.DefaultRepairFactor
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}

	if c.Simulation.Games == 0 {
		c.Simulation.Games = DefaultGames
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = DefaultWorkers
	}
	if c.Simulation.MaxTurns == 0 {
		c.Simulation.MaxTurns = DefaultMaxTurns
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	g := c.Game
	if g.Agents < game.MinAgents || g.Agents > game.MaxAgents {
		return fmt.Errorf("game: agents must be between %d and %d, got %d", game.MinAgents, game.MaxAgents, g.Agents)
	}
	if _, err := game.ParseDirection(g.Direction); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if g.DefaultSteps < 1 {
		return fmt.Errorf("game: default_steps must be positive, got %d", g.DefaultSteps)
	}
	if _, err := game.ParseResurrectMode(g.ResurrectMode); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if g.RepairFactor < 1 {
		return fmt.Errorf("game: repair_factor must be positive, got %d", g.RepairFactor)
	}
	if _, err := pastor.ParseProfessions(g.Professions); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	s := c.Simulation
	if s.Games < 1 {
		return fmt.Errorf("simulation: games must be positive, got %d", s.Games)
	}
	if s.Workers < 1 {
		return fmt.Errorf("simulation: workers must be positive, got %d", s.Workers)
	}
	if s.MaxTurns < 1 {
		return fmt.Errorf("simulation: max_turns must be positive, got %d", s.MaxTurns)
	}
	if s.Agents != 0 && (s.Agents < game.MinAgents || s.Agents > game.MaxAgents) {
		return fmt.Errorf("simulation: agents must be 0 or between %d and %d, got %d", game.MinAgents, game.MaxAgents, s.Agents)
	}
	return nil
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ResolveSeed picks the seed for a run. A non-zero flag wins over a seed
// pinned in the file; ok is false when neither is set.
func (g *GameSettings) ResolveSeed(flag int64) (seed int64, ok bool) {
	if flag != 0 {
		return flag, true
	}
	if g.Seed != nil {
		return *g.Seed, true
	}
	return 0, false
}

// SessionConfig converts the game block into session options seeded with
// seed. Use ResolveSeed to honour a pinned seed.
func (g *GameSettings) SessionConfig(seed int64) (game.SessionConfig, error) {
	direction, err := game.ParseDirection(g.Direction)
	if err != nil {
		return game.SessionConfig{}, err
	}
	mode, err := game.ParseResurrectMode(g.ResurrectMode)
	if err != nil {
		return game.SessionConfig{}, err
	}
	professions, err := pastor.ParseProfessions(g.Professions)
	if err != nil {
		return game.SessionConfig{}, err
	}
	return game.SessionConfig{
		Agents:        g.Agents,
		Direction:     direction,
		Seed:          seed,
		Professions:   professions,
		ResurrectMode: mode,
		RepairFactor:  g.RepairFactor,
	}, nil
}

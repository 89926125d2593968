package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pastortable/internal/game"
	"github.com/lox/pastortable/internal/pastor"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, DefaultAgents, c.Game.Agents)
	assert.Equal(t, "right", c.Game.Direction)
	assert.Equal(t, "grant", c.Game.ResurrectMode)
	assert.Equal(t, game.DefaultRepairFactor, c.Game.RepairFactor)
	assert.Nil(t, c.Game.Seed)
	assert.Equal(t, DefaultLogFile, c.Log.File)
	assert.Equal(t, log.InfoLevel, c.LogLevel())
	assert.Equal(t, DefaultGames, c.Simulation.Games)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pastortable.hcl")
	src := `
game {
  agents         = 8
  direction      = "left"
  default_steps  = 3
  seed           = 1234
  resurrect_mode = "transfer"
  professions    = ["Chaplain", "bishop", "Evangelist"]
}

log {
  level = "debug"
}

simulation {
  games   = 50
  workers = 2
  agents  = 4
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, 8, c.Game.Agents)
	assert.Equal(t, 3, c.Game.DefaultSteps)
	require.NotNil(t, c.Game.Seed)
	assert.Equal(t, int64(1234), *c.Game.Seed)
	assert.Equal(t, log.DebugLevel, c.LogLevel())
	assert.Equal(t, DefaultLogFile, c.Log.File, "unset attributes still get defaults")
	assert.Equal(t, 50, c.Simulation.Games)
	assert.Equal(t, DefaultMaxTurns, c.Simulation.MaxTurns)
	assert.Equal(t, 4, c.Simulation.Agents)

	seed, ok := c.Game.ResolveSeed(0)
	require.True(t, ok)
	assert.Equal(t, int64(1234), seed, "pinned seed is used without a flag")

	sc, err := c.Game.SessionConfig(seed)
	require.NoError(t, err)
	assert.Equal(t, game.Left, sc.Direction)
	assert.Equal(t, game.ResurrectTransfer, sc.ResurrectMode)
	assert.Equal(t, int64(1234), sc.Seed)
	assert.Equal(t, []pastor.Profession{"Chaplain", "Bishop", "Evangelist"}, sc.Professions)
}

func TestResolveSeed(t *testing.T) {
	pinned := int64(1234)
	g := &GameSettings{Seed: &pinned}

	seed, ok := g.ResolveSeed(55)
	assert.True(t, ok)
	assert.Equal(t, int64(55), seed, "flag wins over the file")

	seed, ok = g.ResolveSeed(0)
	assert.True(t, ok)
	assert.Equal(t, pinned, seed)

	_, ok = Default().Game.ResolveSeed(0)
	assert.False(t, ok, "nothing pinned and no flag")
}

func TestSessionConfigSeed(t *testing.T) {
	sc, err := Default().Game.SessionConfig(77)
	require.NoError(t, err)
	assert.Equal(t, int64(77), sc.Seed)
	assert.Empty(t, sc.Professions)
	assert.Equal(t, DefaultAgents, sc.Agents)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`game {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse")

	_, err = Parse([]byte(`game { agents = "many" }`), "typed.hcl")
	assert.ErrorContains(t, err, "failed to decode")

	_, err = Parse([]byte(`table "main" {}`), "unknown.hcl")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"too few agents", func(c *Config) { c.Game.Agents = 1 }, "agents must be between"},
		{"too many agents", func(c *Config) { c.Game.Agents = 11 }, "agents must be between"},
		{"bad direction", func(c *Config) { c.Game.Direction = "up" }, "direction"},
		{"bad steps", func(c *Config) { c.Game.DefaultSteps = -1 }, "default_steps"},
		{"bad mode", func(c *Config) { c.Game.ResurrectMode = "steal" }, "resurrect mode"},
		{"bad factor", func(c *Config) { c.Game.RepairFactor = -2 }, "repair_factor"},
		{"bad profession", func(c *Config) { c.Game.Professions = []string{"Astronaut"} }, "Astronaut"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log"},
		{"bad workers", func(c *Config) { c.Simulation.Workers = -1 }, "workers"},
		{"too many simulated agents", func(c *Config) { c.Simulation.Agents = 20 }, "simulation: agents"},
		{"too few simulated agents", func(c *Config) { c.Simulation.Agents = 1 }, "simulation: agents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

package simulator

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pastortable/internal/game"
	"github.com/lox/pastortable/internal/pastor"
	"github.com/lox/pastortable/internal/randutil"
)

func TestRunKeepsInvariants(t *testing.T) {
	clock := quartz.NewMock(t)
	sim := New(Config{
		Games:    60,
		Workers:  4,
		MaxTurns: 400,
		Seed:     2024,
		Logger:   log.New(io.Discard),
		Clock:    clock,
	})

	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	stats := report.Stats
	assert.Equal(t, 60, stats.Games)
	assert.Zero(t, stats.Violations, "failing seeds: %v", stats.FailedSeeds)
	assert.Equal(t, stats.RepairExhaustions, stats.Unseatable, "repair only gives up when no seating exists")
	assert.Positive(t, stats.Eliminations)
	assert.Positive(t, stats.Finished)
	assert.Zero(t, report.Elapsed, "mock clock never moves")
	require.NoError(t, stats.Validate())
}

func TestRunIsDeterministic(t *testing.T) {
	run := func(workers int) []float64 {
		report, err := New(Config{Games: 20, Workers: workers, MaxTurns: 200, Seed: 7, Clock: quartz.NewMock(t)}).Run(context.Background())
		require.NoError(t, err)
		return report.Stats.Values
	}

	assert.Equal(t, run(1), run(8), "results do not depend on scheduling")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Games: 10, Workers: 2}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlayGameFixedTable(t *testing.T) {
	sim := New(Config{
		Agents:   5,
		MaxTurns: 500,
		Table: game.SessionConfig{
			Direction:     game.Left,
			ResurrectMode: game.ResurrectTransfer,
		},
		Clock: quartz.NewMock(t),
	})

	result := sim.PlayGame(99)
	assert.Equal(t, 5, result.Agents)
	assert.Equal(t, int64(99), result.Seed)
	assert.Empty(t, result.Violations)
	assert.LessOrEqual(t, result.Turns, 500)
	if result.Finished {
		_, ok := pastor.LookupProfession(string(result.Winner))
		assert.True(t, ok)
		assert.GreaterOrEqual(t, result.Eliminations, 4, "four agents had to leave")
	}
}

func TestPlayGameSingleProfession(t *testing.T) {
	sim := New(Config{
		Agents:   4,
		MaxTurns: 50,
		Table:    game.SessionConfig{Professions: []pastor.Profession{"Chaplain"}},
		Clock:    quartz.NewMock(t),
	})

	result := sim.PlayGame(1)
	assert.Empty(t, result.Violations, "exhausted repairs are reported, not violations")
	assert.Positive(t, result.RepairExhaustions)
	assert.Equal(t, result.RepairExhaustions, result.Unseatable)
}

func TestRandomPolicy(t *testing.T) {
	p := NewRandomPolicy(randutil.New(3))
	seen := make(map[Command]bool)
	for range 500 {
		cmd, steps := p.Next(nil)
		seen[cmd] = true
		if cmd == CommandAttack {
			assert.GreaterOrEqual(t, steps, 1)
			assert.LessOrEqual(t, steps, game.MaxAgents+2)
		}
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, "resurrect", CommandResurrect.String())
}

func TestPrintSummary(t *testing.T) {
	report, err := RunSimulation(context.Background(), 5, 11, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "SIMULATION RESULTS (seed 11)")
	assert.Contains(t, out, "Games played: 5")
	assert.Contains(t, out, "Invariant violations: 0")
}

func TestWriteSummary(t *testing.T) {
	report, err := RunSimulation(context.Background(), 3, 5, nil)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "summary.txt")
	require.NoError(t, WriteSummary(file, report))

	var buf bytes.Buffer
	PrintSummary(&buf, report)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}

func TestCheckTableSeating(t *testing.T) {
	t.Run("conflict on a seatable ring", func(t *testing.T) {
		a := pastor.NewAgent(1, "Ana", 100, 10, "Bishop")
		b := pastor.NewAgent(2, "Luis", 90, 9, "Chaplain")
		c := pastor.NewAgent(3, "Marta", 80, 8, "Bishop")
		d := pastor.NewAgent(4, "Pedro", 70, 7, "Chaplain")
		session, err := game.NewSessionWithAgents(game.SessionConfig{ID: "seatable"}, []*pastor.Agent{a, b, c, d})
		require.NoError(t, err)
		require.NoError(t, checkTable(session, nil))

		ring := session.Engine().Ring()
		require.True(t, ring.Remove(c.ID))
		require.True(t, ring.InsertAfter(a.ID, c))
		require.Positive(t, session.Engine().Conflicts())

		err = checkTable(session, &game.RepairReport{Passes: 8, Moves: 8})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "seatable ring")

		err = checkTable(session, &game.RepairReport{Passes: 1, Resolved: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reported success")
	})

	t.Run("conflict with no valid seating", func(t *testing.T) {
		agents := []*pastor.Agent{
			pastor.NewAgent(1, "Ana", 100, 10, "Bishop"),
			pastor.NewAgent(2, "Luis", 90, 9, "Bishop"),
			pastor.NewAgent(3, "Marta", 80, 8, "Bishop"),
		}
		session, err := game.NewSessionWithAgents(game.SessionConfig{ID: "unseatable"}, agents)
		require.NoError(t, err)
		require.False(t, session.Engine().Seatable())
		require.Positive(t, session.Engine().Conflicts())

		assert.NoError(t, checkTable(session, &game.RepairReport{Passes: 6, Moves: 6}))
	})
}

type skipPolicy struct{}

func (skipPolicy) Next(*game.Session) (Command, int) { return CommandSkip, 0 }

func TestPlayGameCustomPolicy(t *testing.T) {
	sim := New(Config{
		MaxTurns: 25,
		Agents:   4,
		Policy:   func(*rand.Rand) Policy { return skipPolicy{} },
		Clock:    quartz.NewMock(t),
	})

	result := sim.PlayGame(9)
	assert.False(t, result.Finished, "nobody is eliminated when everyone skips")
	assert.Equal(t, 25, result.Turns)
	assert.Zero(t, result.Eliminations)
	assert.Empty(t, result.Violations)
}

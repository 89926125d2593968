// Package simulator plays many randomly driven games concurrently and
// checks the table invariants after every command.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pastortable/internal/fileutil"
	"github.com/lox/pastortable/internal/game"
	"github.com/lox/pastortable/internal/randutil"
	"github.com/lox/pastortable/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Games    int
	Workers  int
	MaxTurns int
	Agents   int // 0 draws a table size per game
	Seed     int64
	Table    game.SessionConfig          // direction, professions and rule options for every game
	Policy   func(rng *rand.Rand) Policy // nil plays RandomPolicy
	Logger   *log.Logger
	Clock    quartz.Clock
}

// Report is the outcome of a batch
type Report struct {
	Seed    int64
	Stats   *statistics.Statistics
	Elapsed time.Duration
}

// Simulator runs batches of games
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Games <= 0 {
		config.Games = 1
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.MaxTurns <= 0 {
		config.MaxTurns = 1000
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Policy == nil {
		config.Policy = func(rng *rand.Rand) Policy { return NewRandomPolicy(rng) }
	}
	return &Simulator{config: config, logger: config.Logger.WithPrefix("simulator")}
}

// Run plays every game and aggregates the results. Cancelling ctx stops
// scheduling new games.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	start := s.config.Clock.Now()
	results := make([]statistics.GameResult, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Games {
		seed := randutil.Derive(s.config.Seed, i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.PlayGame(seed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulation interrupted: %w", err)
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	report := &Report{Seed: s.config.Seed, Stats: stats, Elapsed: s.config.Clock.Since(start)}
	s.logger.Info("Simulation finished",
		"games", stats.Games,
		"finished", stats.Finished,
		"violations", stats.Violations,
		"elapsed", report.Elapsed)
	return report, nil
}

// PlayGame plays one game to completion or the turn cap.
func (s *Simulator) PlayGame(seed int64) statistics.GameResult {
	rng := randutil.New(seed)
	agents := s.config.Agents
	if agents == 0 {
		agents = game.MinAgents + rng.IntN(game.MaxAgents-game.MinAgents+1)
	}
	result := statistics.GameResult{Seed: seed, Agents: agents}

	bus := game.NewEventBus()
	bus.Subscribe(game.EventSubscriberFunc(func(e game.GameEvent) {
		switch e.(type) {
		case game.EliminationEvent:
			result.Eliminations++
		case game.ResurrectionEvent:
			result.Resurrections++
		case game.RobberyEvent:
			result.Robberies++
		}
	}))

	cfg := s.config.Table
	cfg.Agents = agents
	cfg.Seed = seed
	cfg.Logger = s.config.Logger
	cfg.Clock = s.config.Clock
	cfg.EventBus = bus
	session, err := game.NewSession(cfg)
	if err != nil {
		result.Violations = append(result.Violations, err.Error())
		s.logger.Error("Failed to start game", "seed", seed, "error", err)
		return result
	}
	if session.Engine().Conflicts() > 0 {
		s.countExhaustion(session, &result)
	}
	if v := checkTable(session, nil); v != nil {
		result.Violations = append(result.Violations, v.Error())
		s.logger.Error("Invariant violated at start", "seed", seed, "error", v)
		return result
	}

	policy := s.config.Policy(rng)
	// rejected commands do not use up a turn, so bound the attempts too
	for attempts := 0; attempts < 4*s.config.MaxTurns && session.Turn() <= s.config.MaxTurns; attempts++ {
		cmd, steps := policy.Next(session)
		repair, err := Apply(session, cmd, steps)
		if err != nil {
			if !isRejection(err) {
				result.Violations = append(result.Violations, fmt.Sprintf("%s: %v", cmd, err))
				break
			}
			result.Rejected++
		}
		if repair != nil && repair.Exhausted() {
			s.countExhaustion(session, &result)
		}
		if v := checkTable(session, repair); v != nil {
			result.Violations = append(result.Violations, v.Error())
			s.logger.Error("Invariant violated", "seed", seed, "turn", session.Turn(), "command", cmd, "error", v)
			break
		}
		if session.IsGameOver() {
			break
		}
	}

	result.Turns = session.Turn() - 1
	if winner, ok := session.Winner(); ok {
		result.Finished = true
		result.Winner = winner.Profession
		result.Turns = session.Turn()
	}
	return result
}

func (s *Simulator) countExhaustion(session *game.Session, result *statistics.GameResult) {
	result.RepairExhaustions++
	if !session.Engine().Seatable() {
		result.Unseatable++
	}
}

func isRejection(err error) bool {
	return errors.Is(err, game.ErrRuleViolation) ||
		errors.Is(err, game.ErrPileEmpty) ||
		errors.Is(err, game.ErrInvalidArgument)
}

// checkTable verifies structure and conservation, and that neighbours only
// share a profession when no valid seating exists.
func checkTable(session *game.Session, repair *game.RepairReport) error {
	if err := session.CheckInvariants(); err != nil {
		return err
	}
	engine := session.Engine()
	n := engine.Conflicts()
	if n == 0 {
		return nil
	}
	if repair != nil && repair.Resolved {
		return fmt.Errorf("repair reported success with %d conflicts left", n)
	}
	if engine.Seatable() {
		return fmt.Errorf("%d neighbours share a profession on a seatable ring", n)
	}
	return nil
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, games int, seed int64, logger *log.Logger) (*Report, error) {
	return New(Config{
		Games:   games,
		Workers: 4,
		Seed:    seed,
		Logger:  logger,
	}).Run(ctx)
}

// PrintSummary writes a summary of the batch to w
func PrintSummary(w io.Writer, report *Report) {
	stats := report.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== SIMULATION RESULTS (seed %d) ===\n", report.Seed)
	fmt.Fprintf(w, "Games played: %d (%d finished, %d hit the turn cap)\n",
		stats.Games, stats.Finished, stats.Games-stats.Finished)
	fmt.Fprintf(w, "Elapsed: %s\n", report.Elapsed.Round(time.Millisecond))

	fmt.Fprintf(w, "\n=== TURNS ===\n")
	fmt.Fprintf(w, "Mean: %.2f turns/game\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.1f\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.2f\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== ACTIONS ===\n")
	fmt.Fprintf(w, "Eliminations: %d\n", stats.Eliminations)
	fmt.Fprintf(w, "Resurrections: %d\n", stats.Resurrections)
	fmt.Fprintf(w, "Robberies: %d\n", stats.Robberies)
	fmt.Fprintf(w, "Rejected commands: %d\n", stats.Rejected)

	fmt.Fprintf(w, "\n=== SEATING ===\n")
	fmt.Fprintf(w, "Repairs exhausted: %d (%d with no valid seating)\n", stats.RepairExhaustions, stats.Unseatable)
	fmt.Fprintf(w, "Invariant violations: %d\n", stats.Violations)
	if len(stats.FailedSeeds) > 0 {
		fmt.Fprintf(w, "Failing seeds: %v\n", stats.FailedSeeds)
	}

	if stats.Finished > 0 {
		fmt.Fprintf(w, "\n=== WINNERS BY PROFESSION ===\n")
		for _, p := range stats.TopProfessions() {
			n := stats.WinsByProfession[p]
			fmt.Fprintf(w, "%-24s %4d (%.1f%%)\n", p, n, float64(n)/float64(stats.Finished)*100)
		}
	}
}

// WriteSummary writes the PrintSummary output to filename atomically
func WriteSummary(filename string, report *Report) error {
	err := fileutil.WriteAtomic(filename, 0o644, func(w io.Writer) error {
		PrintSummary(w, report)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

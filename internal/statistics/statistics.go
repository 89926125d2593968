// Package statistics aggregates the outcomes of simulated games.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/pastortable/internal/pastor"
)

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed              int64 // RNG seed for this game (for replay)
	Agents            int
	Turns             int  // turns played
	Finished          bool // a single agent remained before the turn cap
	Winner            pastor.Profession
	Eliminations      int
	Resurrections     int
	Robberies         int
	Rejected          int // commands refused by the rules
	RepairExhaustions int // repairs that gave up with conflicts left
	Unseatable        int // of those, repairs where no valid seating existed
	Violations        []string
}

// Statistics tracks simulation statistics over many games
type Statistics struct {
	Games    int
	Finished int
	SumTurns float64
	SumTurn2 float64   // Sum of squares for variance calculation
	Values   []float64 // turns per game, for median/percentile calculation

	Eliminations      int
	Resurrections     int
	Robberies         int
	Rejected          int
	RepairExhaustions int
	Unseatable        int
	Violations        int
	FailedSeeds       []int64 // games with at least one invariant violation

	WinsByProfession map[pastor.Profession]int
}

// Mean returns the mean number of turns per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumTurns / float64(s.Games)
}

// Variance returns the sample variance of turns per game
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumTurn2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of turns per game
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a game result into the statistics
func (s *Statistics) Add(result GameResult) {
	turns := float64(result.Turns)
	s.Games++
	s.SumTurns += turns
	s.SumTurn2 += turns * turns
	s.Values = append(s.Values, turns)

	s.Eliminations += result.Eliminations
	s.Resurrections += result.Resurrections
	s.Robberies += result.Robberies
	s.Rejected += result.Rejected
	s.RepairExhaustions += result.RepairExhaustions
	s.Unseatable += result.Unseatable

	if len(result.Violations) > 0 {
		s.Violations += len(result.Violations)
		s.FailedSeeds = append(s.FailedSeeds, result.Seed)
	}

	if result.Finished {
		s.Finished++
		if s.WinsByProfession == nil {
			s.WinsByProfession = make(map[pastor.Profession]int)
		}
		s.WinsByProfession[result.Winner]++
	}
}

// Median returns the median number of turns
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the turn count at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// TopProfessions returns professions ordered by wins, then by name
func (s *Statistics) TopProfessions() []pastor.Profession {
	out := make([]pastor.Profession, 0, len(s.WinsByProfession))
	for p := range s.WinsByProfession {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		wi, wj := s.WinsByProfession[out[i]], s.WinsByProfession[out[j]]
		if wi != wj {
			return wi > wj
		}
		return out[i] < out[j]
	})
	return out
}

// Validate performs consistency checks on the aggregated data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	if s.Finished > s.Games {
		return fmt.Errorf("finished games (%d) exceeds total games (%d)", s.Finished, s.Games)
	}

	wins := 0
	for _, n := range s.WinsByProfession {
		wins += n
	}
	if wins != s.Finished {
		return fmt.Errorf("profession wins total (%d) does not match finished games (%d)", wins, s.Finished)
	}

	if s.Unseatable > s.RepairExhaustions {
		return fmt.Errorf("unseatable repairs (%d) exceed exhausted repairs (%d)", s.Unseatable, s.RepairExhaustions)
	}

	return nil
}

package simulator

import (
	"math/rand/v2"

	"github.com/lox/pastortable/internal/game"
)

// Command is one player action at the table.
type Command int

const (
	CommandAttack Command = iota
	CommandResurrect
	CommandRob
	CommandSkip
)

// String returns the string representation of a command
func (c Command) String() string {
	switch c {
	case CommandAttack:
		return "attack"
	case CommandResurrect:
		return "resurrect"
	case CommandRob:
		return "rob"
	case CommandSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Policy chooses the next command for the acting agent.
type Policy interface {
	Next(s *game.Session) (cmd Command, steps int)
}

// RandomPolicy picks commands with fixed weights and a uniform step count.
// It is a soak driver, not a strategy.
type RandomPolicy struct {
	rng      *rand.Rand
	maxSteps int
}

// NewRandomPolicy creates a policy drawing from rng.
func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	return &RandomPolicy{rng: rng, maxSteps: game.MaxAgents + 2}
}

// Next implements Policy.
func (p *RandomPolicy) Next(*game.Session) (Command, int) {
	roll := p.rng.IntN(100)
	switch {
	case roll < 50:
		return CommandAttack, 1 + p.rng.IntN(p.maxSteps)
	case roll < 70:
		return CommandResurrect, 0
	case roll < 85:
		return CommandRob, 0
	default:
		return CommandSkip, 0
	}
}

// Apply runs cmd against the session. It returns the seating repair the
// command triggered, if any.
func Apply(s *game.Session, cmd Command, steps int) (*game.RepairReport, error) {
	switch cmd {
	case CommandAttack:
		out, err := s.Attack(steps)
		if err != nil {
			return nil, err
		}
		return &out.Repair, nil
	case CommandResurrect:
		out, err := s.Resurrect()
		if err != nil {
			return nil, err
		}
		return &out.Repair, nil
	case CommandRob:
		_, err := s.Rob()
		return nil, err
	default:
		_, err := s.Advance()
		return nil, err
	}
}

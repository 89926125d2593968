package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pastortable/internal/gameid"
	"github.com/lox/pastortable/internal/pastor"
	"github.com/lox/pastortable/internal/randutil"
)

// Table size limits accepted by NewSession.
const (
	MinAgents = 2
	MaxAgents = 10
)

// SessionConfig configures a new game.
type SessionConfig struct {
	ID            string // generated when empty
	Agents        int
	Direction     Direction
	Seed          int64
	Professions   []pastor.Profession // empty means the full vocabulary
	ResurrectMode ResurrectMode
	RepairFactor  int
	Logger        *log.Logger
	Clock         quartz.Clock
	EventBus      EventBus
}

// Session is the driver facing side of one game. It tracks the acting agent
// and the counting direction and turns player commands into engine calls.
type Session struct {
	id        string
	engine    *Engine
	acting    *pastor.Agent
	winner    *pastor.Agent
	direction Direction
	turn      int
	total     int
	logger    *log.Logger
	clock     quartz.Clock
	bus       EventBus
}

// NewSession creates a game with config.Agents randomly generated agents.
func NewSession(config SessionConfig) (*Session, error) {
	if err := checkAgentCount(config.Agents); err != nil {
		return nil, err
	}
	gen := pastor.NewGenerator(randutil.New(config.Seed), config.Professions)
	return NewSessionWithAgents(config, gen.Generate(config.Agents))
}

// NewSessionWithAgents creates a game seating agents in the given order. The
// seating is repaired once and the richest agent acts first.
func NewSessionWithAgents(config SessionConfig, agents []*pastor.Agent) (*Session, error) {
	if err := checkAgentCount(len(agents)); err != nil {
		return nil, err
	}
	if !config.Direction.Valid() {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidArgument, int(config.Direction))
	}
	seen := make(map[pastor.AgentID]bool, len(agents))
	for _, a := range agents {
		if seen[a.ID] {
			return nil, fmt.Errorf("%w: duplicate agent id %d", ErrInvalidArgument, a.ID)
		}
		seen[a.ID] = true
	}

	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.EventBus == nil {
		config.EventBus = NewEventBus()
	}
	if config.ID == "" {
		config.ID = gameid.Generate()
	}

	ring := NewRing()
	for _, a := range agents {
		ring.InsertAtEnd(a)
	}
	logger := config.Logger.WithPrefix("game")
	engine := NewEngine(ring, NewPile(), EngineConfig{
		RepairFactor:  config.RepairFactor,
		ResurrectMode: config.ResurrectMode,
		Logger:        logger,
		Clock:         config.Clock,
		EventBus:      config.EventBus,
	})

	s := &Session{
		id:        config.ID,
		engine:    engine,
		direction: config.Direction,
		turn:      1,
		total:     len(agents),
		logger:    logger,
		clock:     config.Clock,
		bus:       config.EventBus,
	}
	engine.RepairSeating()
	s.acting, _ = engine.Richest()

	logger.Info("Game started", "id", s.id, "agents", s.total, "direction", s.direction, "acting", s.acting.Name)
	s.bus.Publish(NewGameStartEvent(s.clock.Now(), s.id, ring.Items(), s.acting, s.direction))
	s.bus.Publish(NewTurnChangeEvent(s.clock.Now(), s.turn, s.acting, s.direction))
	return s, nil
}

func checkAgentCount(n int) error {
	if n < MinAgents || n > MaxAgents {
		return fmt.Errorf("%w: %d agents, must be between %d and %d", ErrInvalidArgument, n, MinAgents, MaxAgents)
	}
	return nil
}

func (s *Session) ensurePlaying() error {
	if s.winner != nil {
		return fmt.Errorf("%w: %s has won", ErrGameOver, s.winner.Name)
	}
	return nil
}

// Attack eliminates a neighbour of the acting agent. With an empty pile the
// weakest of the next steps neighbours is consumed; otherwise the neighbour
// exactly steps seats away goes to the pile. The turn then passes on.
func (s *Session) Attack(steps int) (Outcome, error) {
	if err := s.ensurePlaying(); err != nil {
		return Outcome{}, err
	}
	var (
		out Outcome
		err error
	)
	if s.engine.Pile().IsEmpty() {
		out, err = s.engine.EliminateWeakest(s.acting, s.direction, steps)
	} else {
		out, err = s.engine.EliminateByOffset(s.acting, s.direction, steps)
	}
	if err != nil {
		return Outcome{}, err
	}
	s.endTurn()
	return out, nil
}

// Resurrect brings back the top of the pile and passes the turn on.
func (s *Session) Resurrect() (Outcome, error) {
	if err := s.ensurePlaying(); err != nil {
		return Outcome{}, err
	}
	out, err := s.engine.Resurrect(s.acting)
	if err != nil {
		return Outcome{}, err
	}
	s.endTurn()
	return out, nil
}

// Rob lets the acting agent rob the richest one. It is rejected unless the
// acting agent is the poorest; a rejected robbery keeps the turn.
func (s *Session) Rob() (Robbery, error) {
	if err := s.ensurePlaying(); err != nil {
		return Robbery{}, err
	}
	richest, _ := s.engine.Richest()
	rob, err := s.engine.RobFromRichest(s.acting, richest)
	if err != nil {
		return Robbery{}, err
	}
	s.endTurn()
	return rob, nil
}

// Advance passes the turn without acting.
func (s *Session) Advance() (*pastor.Agent, error) {
	if err := s.ensurePlaying(); err != nil {
		return nil, err
	}
	s.endTurn()
	return s.acting, nil
}

func (s *Session) endTurn() {
	if winner, ok := s.engine.Winner(); ok {
		s.winner = winner
		s.acting = winner
		s.logger.Info("Game over", "id", s.id, "winner", winner.Name, "turns", s.turn)
		s.bus.Publish(NewGameOverEvent(s.clock.Now(), s.id, winner, s.turn))
		return
	}

	next, err := s.engine.AdvanceTurn(s.acting, s.direction)
	if err != nil {
		s.logger.Error("Acting agent is not seated, restarting from the head", "agent", s.acting.Name, "error", err)
		next, _ = s.engine.Ring().Head()
	}
	s.acting = next
	s.turn++
	s.bus.Publish(NewTurnChangeEvent(s.clock.Now(), s.turn, s.acting, s.direction))
}

// SetDirection changes the counting direction for later commands.
func (s *Session) SetDirection(d Direction) error {
	if !d.Valid() {
		return fmt.Errorf("%w: direction %d", ErrInvalidArgument, int(d))
	}
	s.direction = d
	return nil
}

// ID returns the game identifier.
func (s *Session) ID() string { return s.id }

// Acting returns the agent whose turn it is.
func (s *Session) Acting() *pastor.Agent { return s.acting }

// Direction returns the counting direction.
func (s *Session) Direction() Direction { return s.direction }

// Turn returns the 1-based number of the current turn.
func (s *Session) Turn() int { return s.turn }

// Engine returns the underlying rules engine.
func (s *Session) Engine() *Engine { return s.engine }

// EventBus returns the bus the session publishes on.
func (s *Session) EventBus() EventBus { return s.bus }

// Roster returns the seated agents in order from the head.
func (s *Session) Roster() []*pastor.Agent { return s.engine.Ring().Items() }

// Pile returns the eliminated agents from bottom to top.
func (s *Session) Pile() []*pastor.Agent { return s.engine.Pile().Items() }

// Richest returns the wealthiest seated agent.
func (s *Session) Richest() (*pastor.Agent, bool) { return s.engine.Richest() }

// Poorest returns the least wealthy seated agent.
func (s *Session) Poorest() (*pastor.Agent, bool) { return s.engine.Poorest() }

// IsGameOver reports whether a single agent remains.
func (s *Session) IsGameOver() bool { return s.winner != nil }

// Winner returns the last agent standing.
func (s *Session) Winner() (*pastor.Agent, bool) { return s.winner, s.winner != nil }

// TotalAgents returns how many agents the game started with.
func (s *Session) TotalAgents() int { return s.total }

// CheckInvariants verifies the ring structure, that no agent was lost or
// duplicated between ring and pile, and that the acting agent is seated.
func (s *Session) CheckInvariants() error {
	ring, pile := s.engine.Ring(), s.engine.Pile()
	if err := ring.Validate(); err != nil {
		return err
	}
	if got := ring.Len() + pile.Len(); got != s.total {
		return fmt.Errorf("agent count drifted: %d seated + %d piled, want %d", ring.Len(), pile.Len(), s.total)
	}
	seen := make(map[pastor.AgentID]bool, s.total)
	for _, a := range append(ring.Items(), pile.Items()...) {
		if seen[a.ID] {
			return fmt.Errorf("agent %d is both seated and piled", a.ID)
		}
		seen[a.ID] = true
	}
	if !ring.Contains(s.acting.ID) {
		return fmt.Errorf("acting agent %s is not seated", s.acting.Name)
	}
	return nil
}

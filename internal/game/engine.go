// Package game implements the table rules: eliminating neighbours, the
// resurrection pile, robbery, turn order, seating repair and win detection.
package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pastortable/internal/pastor"
	"github.com/lox/pastortable/internal/roster"
)

// Ring is the circular seating of active agents.
type Ring = roster.Roster[pastor.AgentID, *pastor.Agent]

type cursor = roster.Cursor[pastor.AgentID, *pastor.Agent]

// NewRing creates an empty ring keyed by agent id.
func NewRing() *Ring {
	return roster.New(pastor.Key)
}

// DefaultRepairFactor bounds seating repair to factor*size passes.
const DefaultRepairFactor = 2

// ResurrectMode decides who pays for a resurrection.
type ResurrectMode int

const (
	// ResurrectGrant gives the revived agent half of the actor's wealth and
	// followers while the actor keeps its totals.
	ResurrectGrant ResurrectMode = iota
	// ResurrectTransfer moves that half from the actor to the revived agent.
	ResurrectTransfer
)

// String returns the string representation of a resurrect mode
func (m ResurrectMode) String() string {
	switch m {
	case ResurrectGrant:
		return "grant"
	case ResurrectTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// ParseResurrectMode accepts "grant" or "transfer".
func ParseResurrectMode(s string) (ResurrectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grant", "":
		return ResurrectGrant, nil
	case "transfer":
		return ResurrectTransfer, nil
	default:
		return 0, fmt.Errorf("%w: resurrect mode %q, use grant or transfer", ErrInvalidArgument, s)
	}
}

// EngineConfig holds the tunable rule parameters.
type EngineConfig struct {
	RepairFactor  int
	ResurrectMode ResurrectMode
	Logger        *log.Logger
	Clock         quartz.Clock
	EventBus      EventBus
}

// Outcome is returned by every rule that changes the seating.
type Outcome struct {
	Agent  *pastor.Agent // the agent removed from or returned to the ring
	Repair RepairReport
}

// Robbery records what changed hands in a robbery.
type Robbery struct {
	Wealth    int
	Followers int
}

// Engine applies the turn rules to a ring and an elimination pile it shares
// with the caller. It is not safe for concurrent use.
type Engine struct {
	ring          *Ring
	pile          *Pile
	repairFactor  int
	resurrectMode ResurrectMode
	logger        *log.Logger
	clock         quartz.Clock
	bus           EventBus
}

// NewEngine creates an engine over ring and pile.
func NewEngine(ring *Ring, pile *Pile, config EngineConfig) *Engine {
	if config.RepairFactor <= 0 {
		config.RepairFactor = DefaultRepairFactor
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
	return &Engine{
		ring:          ring,
		pile:          pile,
		repairFactor:  config.RepairFactor,
		resurrectMode: config.ResurrectMode,
		logger:        config.Logger,
		clock:         config.Clock,
		bus:           config.EventBus,
	}
}

// Ring returns the ring the engine mutates.
func (e *Engine) Ring() *Ring { return e.ring }

// Pile returns the elimination pile.
func (e *Engine) Pile() *Pile { return e.pile }

// EventBus returns the bus events are published on.
func (e *Engine) EventBus() EventBus { return e.bus }

func checkMove(d Direction, steps int) error {
	if !d.Valid() {
		return fmt.Errorf("%w: direction %d", ErrInvalidArgument, int(d))
	}
	if steps < 1 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidArgument, steps)
	}
	return nil
}

func step(c cursor, d Direction) cursor {
	if d == Left {
		return c.Prev()
	}
	return c.Next()
}

func (e *Engine) seek(a *pastor.Agent) (cursor, error) {
	if a == nil {
		return cursor{}, fmt.Errorf("%w: no acting agent", ErrNotFound)
	}
	if e.ring.IsEmpty() {
		return cursor{}, fmt.Errorf("%w: ring is empty", ErrNotFound)
	}
	c, ok := e.ring.Seek(a.ID)
	if !ok {
		return cursor{}, fmt.Errorf("%w: %s is not seated", ErrNotFound, a.Name)
	}
	return c, nil
}

// LocateByOffset returns the agent steps links away from acting.
func (e *Engine) LocateByOffset(acting *pastor.Agent, d Direction, steps int) (*pastor.Agent, error) {
	if err := checkMove(d, steps); err != nil {
		return nil, err
	}
	c, err := e.seek(acting)
	if err != nil {
		return nil, err
	}
	for range steps % e.ring.Len() {
		c = step(c, d)
	}
	return c.Value(), nil
}

// EliminateByOffset sends the agent steps links away to the pile as it is,
// without taking its resources. It requires a non-empty pile.
func (e *Engine) EliminateByOffset(acting *pastor.Agent, d Direction, steps int) (Outcome, error) {
	if err := checkMove(d, steps); err != nil {
		return Outcome{}, err
	}
	if e.pile.IsEmpty() {
		return Outcome{}, ErrPileEmpty
	}
	if e.ring.Len() < 2 {
		return Outcome{}, ErrGameOver
	}
	target, err := e.LocateByOffset(acting, d, steps)
	if err != nil {
		return Outcome{}, err
	}
	if target.ID == acting.ID {
		return Outcome{}, fmt.Errorf("%w: %d steps %s lands back on %s", ErrInvalidArgument, steps, d, acting.Name)
	}

	e.ring.Remove(target.ID)
	e.pile.Push(target)
	e.logger.Info("Eliminated neighbour", "actor", acting.Name, "victim", target.Name, "steps", steps, "direction", d)
	e.bus.Publish(NewEliminationEvent(e.clock.Now(), acting, target, EliminateByOffset, steps, 1, 0, 0))

	return Outcome{Agent: target, Repair: e.RepairSeating()}, nil
}

// EliminateWeakest walks up to steps neighbours from acting and eliminates
// the one with the fewest followers, first seen winning ties. Its wealth and
// followers move to acting. The walk never reaches acting itself.
func (e *Engine) EliminateWeakest(acting *pastor.Agent, d Direction, steps int) (Outcome, error) {
	if err := checkMove(d, steps); err != nil {
		return Outcome{}, err
	}
	c, err := e.seek(acting)
	if err != nil {
		return Outcome{}, err
	}
	if e.ring.Len() < 2 {
		return Outcome{}, ErrGameOver
	}

	candidates := min(steps, e.ring.Len()-1)
	c = step(c, d)
	weakest := c.Value()
	for i := 1; i < candidates; i++ {
		c = step(c, d)
		if a := c.Value(); a.Followers < weakest.Followers {
			weakest = a
		}
	}

	wealth, followers := weakest.Drain()
	acting.Take(wealth, followers)
	e.ring.Remove(weakest.ID)
	e.pile.Push(weakest)
	e.logger.Info("Eliminated weakest neighbour",
		"actor", acting.Name,
		"victim", weakest.Name,
		"candidates", candidates,
		"wealth", wealth,
		"followers", followers)
	e.bus.Publish(NewEliminationEvent(e.clock.Now(), acting, weakest, EliminateWeakest, steps, candidates, wealth, followers))

	return Outcome{Agent: weakest, Repair: e.RepairSeating()}, nil
}

// Resurrect pops the most recently eliminated agent, funds it with half of
// acting's wealth and followers and seats it at the tail.
func (e *Engine) Resurrect(acting *pastor.Agent) (Outcome, error) {
	if e.pile.IsEmpty() {
		return Outcome{}, ErrPileEmpty
	}
	if _, err := e.seek(acting); err != nil {
		return Outcome{}, err
	}

	revived, _ := e.pile.Pop()
	wealth, followers := acting.Wealth/2, acting.Followers/2
	if e.resurrectMode == ResurrectTransfer {
		wealth, followers = acting.Give(wealth, followers)
	}
	revived.Take(wealth, followers)
	e.ring.InsertAtEnd(revived)
	e.logger.Info("Resurrected agent",
		"actor", acting.Name,
		"revived", revived.Name,
		"wealth", wealth,
		"followers", followers,
		"mode", e.resurrectMode)
	e.bus.Publish(NewResurrectionEvent(e.clock.Now(), acting, revived, wealth, followers, e.resurrectMode))

	return Outcome{Agent: revived, Repair: e.RepairSeating()}, nil
}

// RobFromRichest moves a third of richest's wealth and followers to poorest.
// Only the current poorest agent may rob.
func (e *Engine) RobFromRichest(poorest, richest *pastor.Agent) (Robbery, error) {
	current, ok := e.Poorest()
	if !ok {
		return Robbery{}, fmt.Errorf("%w: ring is empty", ErrNotFound)
	}
	if poorest == nil || current.ID != poorest.ID {
		return Robbery{}, fmt.Errorf("%w: only the poorest may rob, that is %s", ErrRuleViolation, current.Name)
	}
	if richest == nil || !e.ring.Contains(richest.ID) {
		return Robbery{}, fmt.Errorf("%w: robbery victim is not seated", ErrNotFound)
	}

	wealth, followers := richest.Give(richest.Wealth/3, richest.Followers/3)
	poorest.Take(wealth, followers)
	e.logger.Info("Robbed richest agent",
		"thief", poorest.Name,
		"victim", richest.Name,
		"wealth", wealth,
		"followers", followers)
	e.bus.Publish(NewRobberyEvent(e.clock.Now(), poorest, richest, wealth, followers))

	return Robbery{Wealth: wealth, Followers: followers}, nil
}

// AdvanceTurn returns the agent who acts after current.
func (e *Engine) AdvanceTurn(current *pastor.Agent, d Direction) (*pastor.Agent, error) {
	if err := checkMove(d, 1); err != nil {
		return nil, err
	}
	c, err := e.seek(current)
	if err != nil {
		return nil, err
	}
	return step(c, d).Value(), nil
}

// Winner returns the sole remaining agent once the ring is down to one.
func (e *Engine) Winner() (*pastor.Agent, bool) {
	if e.ring.Len() != 1 {
		return nil, false
	}
	return e.ring.Head()
}

// Richest returns the wealthiest agent, first from the head on ties.
func (e *Engine) Richest() (*pastor.Agent, bool) {
	return e.ring.FindExtremum(pastor.RicherThan)
}

// Poorest returns the least wealthy agent, first from the head on ties.
func (e *Engine) Poorest() (*pastor.Agent, bool) {
	return e.ring.FindExtremum(pastor.PoorerThan)
}

// Seat returns an agent's live position counted from the head.
func (e *Engine) Seat(a *pastor.Agent) (int, bool) {
	return e.ring.Position(a.ID)
}

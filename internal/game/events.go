package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/pastortable/internal/pastor"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for table events
const (
	EventTypeGameStart     EventType = "game_start"
	EventTypeElimination   EventType = "elimination"
	EventTypeResurrection  EventType = "resurrection"
	EventTypeRobbery       EventType = "robbery"
	EventTypeTurnChange    EventType = "turn_change"
	EventTypeSeatingRepair EventType = "seating_repair"
	EventTypeGameOver      EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens at the table
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// EliminationMode tells which rule removed an agent.
type EliminationMode int

const (
	// EliminateWeakest consumes the neighbour with the fewest followers.
	EliminateWeakest EliminationMode = iota
	// EliminateByOffset sends the neighbour a fixed number of seats away to the pile.
	EliminateByOffset
)

// String returns the string representation of an elimination mode
func (m EliminationMode) String() string {
	switch m {
	case EliminateWeakest:
		return "weakest"
	case EliminateByOffset:
		return "offset"
	default:
		return "unknown"
	}
}

// GameStartEvent is published once the table is seated
type GameStartEvent struct {
	GameID    string
	Agents    []pastor.Agent
	Acting    pastor.Agent
	Direction Direction
	timestamp time.Time
}

func (e GameStartEvent) EventType() EventType { return EventTypeGameStart }
func (e GameStartEvent) Timestamp() time.Time { return e.timestamp }

// NewGameStartEvent creates a new game start event
func NewGameStartEvent(at time.Time, gameID string, agents []*pastor.Agent, acting *pastor.Agent, d Direction) GameStartEvent {
	return GameStartEvent{
		GameID:    gameID,
		Agents:    snapshots(agents),
		Acting:    acting.Snapshot(),
		Direction: d,
		timestamp: at,
	}
}

// EliminationEvent is published when an agent leaves the ring for the pile
type EliminationEvent struct {
	Actor      pastor.Agent
	Victim     pastor.Agent
	Mode       EliminationMode
	Steps      int
	Candidates int
	Wealth     int // moved from victim to actor
	Followers  int
	timestamp  time.Time
}

func (e EliminationEvent) EventType() EventType { return EventTypeElimination }
func (e EliminationEvent) Timestamp() time.Time { return e.timestamp }

// NewEliminationEvent creates a new elimination event
func NewEliminationEvent(at time.Time, actor, victim *pastor.Agent, mode EliminationMode, steps, candidates, wealth, followers int) EliminationEvent {
	return EliminationEvent{
		Actor:      actor.Snapshot(),
		Victim:     victim.Snapshot(),
		Mode:       mode,
		Steps:      steps,
		Candidates: candidates,
		Wealth:     wealth,
		Followers:  followers,
		timestamp:  at,
	}
}

// ResurrectionEvent is published when an agent returns from the pile
type ResurrectionEvent struct {
	Actor     pastor.Agent
	Revived   pastor.Agent
	Wealth    int // granted to the revived agent
	Followers int
	Mode      ResurrectMode
	timestamp time.Time
}

func (e ResurrectionEvent) EventType() EventType { return EventTypeResurrection }
func (e ResurrectionEvent) Timestamp() time.Time { return e.timestamp }

// NewResurrectionEvent creates a new resurrection event
func NewResurrectionEvent(at time.Time, actor, revived *pastor.Agent, wealth, followers int, mode ResurrectMode) ResurrectionEvent {
	return ResurrectionEvent{
		Actor:     actor.Snapshot(),
		Revived:   revived.Snapshot(),
		Wealth:    wealth,
		Followers: followers,
		Mode:      mode,
		timestamp: at,
	}
}

// RobberyEvent is published when the poorest agent robs the richest
type RobberyEvent struct {
	Thief     pastor.Agent
	Victim    pastor.Agent
	Wealth    int
	Followers int
	timestamp time.Time
}

func (e RobberyEvent) EventType() EventType { return EventTypeRobbery }
func (e RobberyEvent) Timestamp() time.Time { return e.timestamp }

// NewRobberyEvent creates a new robbery event
func NewRobberyEvent(at time.Time, thief, victim *pastor.Agent, wealth, followers int) RobberyEvent {
	return RobberyEvent{
		Thief:     thief.Snapshot(),
		Victim:    victim.Snapshot(),
		Wealth:    wealth,
		Followers: followers,
		timestamp: at,
	}
}

// TurnChangeEvent is published when the turn passes to another agent
type TurnChangeEvent struct {
	Turn      int
	Acting    pastor.Agent
	Direction Direction
	timestamp time.Time
}

func (e TurnChangeEvent) EventType() EventType { return EventTypeTurnChange }
func (e TurnChangeEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnChangeEvent creates a new turn change event
func NewTurnChangeEvent(at time.Time, turn int, acting *pastor.Agent, d Direction) TurnChangeEvent {
	return TurnChangeEvent{
		Turn:      turn,
		Acting:    acting.Snapshot(),
		Direction: d,
		timestamp: at,
	}
}

// SeatingRepairEvent is published when the repair moved agents or gave up
type SeatingRepairEvent struct {
	Report    RepairReport
	Conflicts int // neighbouring pairs still sharing a profession
	timestamp time.Time
}

func (e SeatingRepairEvent) EventType() EventType { return EventTypeSeatingRepair }
func (e SeatingRepairEvent) Timestamp() time.Time { return e.timestamp }

// NewSeatingRepairEvent creates a new seating repair event
func NewSeatingRepairEvent(at time.Time, report RepairReport, conflicts int) SeatingRepairEvent {
	return SeatingRepairEvent{
		Report:    report,
		Conflicts: conflicts,
		timestamp: at,
	}
}

// GameOverEvent is published when one agent is left
type GameOverEvent struct {
	GameID    string
	Winner    pastor.Agent
	Turns     int
	timestamp time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }

// NewGameOverEvent creates a new game over event
func NewGameOverEvent(at time.Time, gameID string, winner *pastor.Agent, turns int) GameOverEvent {
	return GameOverEvent{
		GameID:    gameID,
		Winner:    winner.Snapshot(),
		Turns:     turns,
		timestamp: at,
	}
}

func snapshots(agents []*pastor.Agent) []pastor.Agent {
	out := make([]pastor.Agent, len(agents))
	for i, a := range agents {
		out[i] = a.Snapshot()
	}
	return out
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber.
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event).
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously, in subscription order
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Function
// subscribers cannot be compared and are never removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, ok := subscriber.(EventSubscriberFunc); ok {
		return
	}
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// FormattingOptions controls how events are rendered
type FormattingOptions struct {
	ShowProfessions bool // include professions next to names
}

// EventFormatter turns events into log lines for drivers
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders any known event. Unknown events render as their type.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case GameStartEvent:
		return ef.FormatGameStart(e)
	case EliminationEvent:
		return ef.FormatElimination(e)
	case ResurrectionEvent:
		return ef.FormatResurrection(e)
	case RobberyEvent:
		return ef.FormatRobbery(e)
	case TurnChangeEvent:
		return ef.FormatTurnChange(e)
	case SeatingRepairEvent:
		return ef.FormatSeatingRepair(e)
	case GameOverEvent:
		return ef.FormatGameOver(e)
	default:
		return event.EventType().String()
	}
}

func (ef *EventFormatter) name(a pastor.Agent) string {
	if ef.opts.ShowProfessions && a.Profession != "" {
		return fmt.Sprintf("%s (%s)", a.Name, a.Profession)
	}
	return a.Name
}

// FormatGameStart formats a game start event
func (ef *EventFormatter) FormatGameStart(e GameStartEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\033[1mGame %s\033[0m\n", e.GameID)
	fmt.Fprintf(&b, "%d pastors at the table, counting %s\n", len(e.Agents), e.Direction)
	fmt.Fprintf(&b, "%s is the richest with $%d and opens", ef.name(e.Acting), e.Acting.Wealth)
	return b.String()
}

// FormatElimination formats an elimination event
func (ef *EventFormatter) FormatElimination(e EliminationEvent) string {
	switch e.Mode {
	case EliminateWeakest:
		return fmt.Sprintf("%s consumes %s, the weakest of %d (+$%d, +%d followers)",
			ef.name(e.Actor), ef.name(e.Victim), e.Candidates, e.Wealth, e.Followers)
	default:
		return fmt.Sprintf("%s sends %s, %d seats away, to the pile",
			ef.name(e.Actor), ef.name(e.Victim), e.Steps)
	}
}

// FormatResurrection formats a resurrection event
func (ef *EventFormatter) FormatResurrection(e ResurrectionEvent) string {
	return fmt.Sprintf("%s resurrects %s with $%d and %d followers",
		ef.name(e.Actor), ef.name(e.Revived), e.Wealth, e.Followers)
}

// FormatRobbery formats a robbery event
func (ef *EventFormatter) FormatRobbery(e RobberyEvent) string {
	return fmt.Sprintf("%s robs $%d and %d followers from %s",
		ef.name(e.Thief), e.Wealth, e.Followers, ef.name(e.Victim))
}

// FormatTurnChange formats a turn change event
func (ef *EventFormatter) FormatTurnChange(e TurnChangeEvent) string {
	return fmt.Sprintf("Turn %d: %s ($%d, %d followers)",
		e.Turn, ef.name(e.Acting), e.Acting.Wealth, e.Acting.Followers)
}

// FormatSeatingRepair formats a seating repair event
func (ef *EventFormatter) FormatSeatingRepair(e SeatingRepairEvent) string {
	if e.Report.Exhausted() {
		return fmt.Sprintf("Seating repair gave up after %d passes, %d neighbours still share a profession",
			e.Report.Passes, e.Conflicts)
	}
	return fmt.Sprintf("Table reseated: %d moves in %d passes", e.Report.Moves, e.Report.Passes)
}

// FormatGameOver formats a game over event
func (ef *EventFormatter) FormatGameOver(e GameOverEvent) string {
	return fmt.Sprintf("\033[1m%s wins after %d turns with $%d and %d followers\033[0m",
		ef.name(e.Winner), e.Turns, e.Winner.Wealth, e.Winner.Followers)
}

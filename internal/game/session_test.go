package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pastortable/internal/pastor"
)

type recorder struct {
	events []GameEvent
}

func (r *recorder) OnEvent(event GameEvent) { r.events = append(r.events, event) }

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

func fourPastors() []*pastor.Agent {
	return []*pastor.Agent{
		agent(1, "A", 100, 40),
		agent(2, "B", 30, 7),
		agent(3, "C", 50, 20),
		agent(4, "D", 60, 30),
	}
}

func newTestSession(t *testing.T, agents []*pastor.Agent) (*Session, *recorder, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	rec := &recorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	s, err := NewSessionWithAgents(SessionConfig{ID: "test", Clock: clock, EventBus: bus}, agents)
	require.NoError(t, err)
	return s, rec, clock
}

func TestSessionStart(t *testing.T) {
	s, rec, clock := newTestSession(t, fourPastors())

	assert.Equal(t, "test", s.ID())
	assert.Equal(t, "A", s.Acting().Name, "richest opens")
	assert.Equal(t, Right, s.Direction())
	assert.Equal(t, 1, s.Turn())
	assert.Equal(t, 4, s.TotalAgents())
	assert.False(t, s.IsGameOver())
	assert.Equal(t, []EventType{EventTypeGameStart, EventTypeTurnChange}, rec.types())

	start := rec.events[0].(GameStartEvent)
	assert.Equal(t, "test", start.GameID)
	assert.Len(t, start.Agents, 4)
	assert.Equal(t, clock.Now(), start.Timestamp())
	require.NoError(t, s.CheckInvariants())
}

func TestSessionRejectsBadTables(t *testing.T) {
	_, err := NewSession(SessionConfig{Agents: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewSession(SessionConfig{Agents: MaxAgents + 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewSession(SessionConfig{Agents: 4, Direction: Direction(9)})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	dup := []*pastor.Agent{agent(1, "A", 0, 0), agent(1, "B", 0, 0)}
	_, err = NewSessionWithAgents(SessionConfig{}, dup)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSessionPlaysTurns(t *testing.T) {
	s, rec, _ := newTestSession(t, fourPastors())

	out, err := s.Attack(1)
	require.NoError(t, err)
	assert.Equal(t, "B", out.Agent.Name)
	assert.Equal(t, "C", s.Acting().Name)
	assert.Equal(t, 2, s.Turn())
	assert.Equal(t, []string{"A", "C", "D"}, names(s.Roster()))

	out, err = s.Resurrect()
	require.NoError(t, err)
	assert.Equal(t, "B", out.Agent.Name)
	assert.Equal(t, 25, out.Agent.Wealth, "half of C's wealth")
	assert.Equal(t, 10, out.Agent.Followers)
	assert.Equal(t, []string{"A", "C", "D", "B"}, names(s.Roster()))
	assert.Equal(t, "D", s.Acting().Name)

	// With someone on the pile, attack switches to the fixed offset rule.
	s.Engine().Pile().Push(agent(9, "Z", 0, 0))
	out, err = s.Attack(1)
	require.NoError(t, err)
	assert.Equal(t, "B", out.Agent.Name)
	assert.Equal(t, 25, out.Agent.Wealth, "offset victims keep their resources")
	assert.Equal(t, "A", s.Acting().Name)
	assert.Equal(t, []string{"Z", "B"}, names(s.Pile()))

	var eliminations []EliminationEvent
	for _, e := range rec.events {
		if el, ok := e.(EliminationEvent); ok {
			eliminations = append(eliminations, el)
		}
	}
	require.Len(t, eliminations, 2)
	assert.Equal(t, EliminateWeakest, eliminations[0].Mode)
	assert.Equal(t, EliminateByOffset, eliminations[1].Mode)
}

func TestSessionRobbery(t *testing.T) {
	s, _, _ := newTestSession(t, fourPastors())

	_, err := s.Rob()
	require.ErrorIs(t, err, ErrRuleViolation)
	assert.Equal(t, "A", s.Acting().Name, "rejected robbery keeps the turn")
	assert.Equal(t, 1, s.Turn())

	require.NoError(t, s.SetDirection(Left))
	next, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, "D", next.Name)
	next, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, "C", next.Name)
	next, err = s.Advance()
	require.NoError(t, err)
	require.Equal(t, "B", next.Name)

	rob, err := s.Rob()
	require.NoError(t, err)
	assert.Equal(t, Robbery{Wealth: 33, Followers: 13}, rob)
	assert.Equal(t, 63, next.Wealth)
	assert.Equal(t, 20, next.Followers)
	richest, _ := s.Richest()
	assert.Equal(t, 67, richest.Wealth)
	assert.Equal(t, "A", s.Acting().Name)

	assert.ErrorIs(t, s.SetDirection(Direction(5)), ErrInvalidArgument)
}

func TestSessionGameOver(t *testing.T) {
	s, rec, _ := newTestSession(t, []*pastor.Agent{agent(1, "A", 10, 10), agent(2, "B", 5, 5)})

	_, err := s.Attack(3)
	require.NoError(t, err)
	assert.True(t, s.IsGameOver())
	w, ok := s.Winner()
	require.True(t, ok)
	assert.Equal(t, "A", w.Name)
	assert.Equal(t, 15, w.Wealth)

	last := rec.events[len(rec.events)-1]
	over, ok := last.(GameOverEvent)
	require.True(t, ok)
	assert.Equal(t, 1, over.Turns)
	assert.Equal(t, "A", over.Winner.Name)

	_, err = s.Attack(1)
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = s.Resurrect()
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = s.Rob()
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrGameOver)
	require.NoError(t, s.CheckInvariants())
}

func TestSessionSeededTablesRepeat(t *testing.T) {
	a, err := NewSession(SessionConfig{Agents: 6, Seed: 42, ID: "a"})
	require.NoError(t, err)
	b, err := NewSession(SessionConfig{Agents: 6, Seed: 42, ID: "b"})
	require.NoError(t, err)

	assert.Equal(t, names(a.Roster()), names(b.Roster()))
	assert.Equal(t, a.Acting().ID, b.Acting().ID)
}

func TestSessionRandomPlayKeepsInvariants(t *testing.T) {
	for seed := range int64(20) {
		s, err := NewSession(SessionConfig{Agents: 2 + int(seed%9), Seed: seed, ID: "fuzz"})
		require.NoError(t, err)
		rng := rand.New(rand.NewPCG(uint64(seed), 99))

		for i := 0; i < 300 && !s.IsGameOver(); i++ {
			var err error
			switch rng.IntN(4) {
			case 0:
				_, err = s.Attack(1 + rng.IntN(12))
			case 1:
				_, err = s.Resurrect()
			case 2:
				_, err = s.Rob()
			default:
				_, err = s.Advance()
			}
			if err != nil {
				require.True(t,
					errors.Is(err, ErrRuleViolation) || errors.Is(err, ErrPileEmpty) || errors.Is(err, ErrInvalidArgument),
					"seed %d turn %d: %v", seed, s.Turn(), err)
			}
			require.NoError(t, s.CheckInvariants(), "seed %d turn %d", seed, s.Turn())
			if s.Engine().Seatable() {
				require.Zero(t, s.Engine().Conflicts(), "seed %d turn %d: seatable ring left in conflict", seed, s.Turn())
			}
		}
	}
}

package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lox/pastortable/internal/pastor"
)

func TestEventFormatter_Format(t *testing.T) {
	now := time.Now()
	ana := pastor.NewAgent(1, "Ana", 120, 30, "Chaplain")
	luis := pastor.NewAgent(2, "Luis", 0, 0, "Bishop")

	tests := []struct {
		name     string
		opts     FormattingOptions
		event    GameEvent
		expected string
	}{
		{
			name:     "weakest elimination",
			event:    NewEliminationEvent(now, ana, luis, EliminateWeakest, 3, 3, 40, 9),
			expected: "Ana consumes Luis, the weakest of 3 (+$40, +9 followers)",
		},
		{
			name:     "offset elimination",
			event:    NewEliminationEvent(now, ana, luis, EliminateByOffset, 2, 1, 0, 0),
			expected: "Ana sends Luis, 2 seats away, to the pile",
		},
		{
			name:     "professions shown",
			opts:     FormattingOptions{ShowProfessions: true},
			event:    NewEliminationEvent(now, ana, luis, EliminateByOffset, 1, 1, 0, 0),
			expected: "Ana (Chaplain) sends Luis (Bishop), 1 seats away, to the pile",
		},
		{
			name:     "resurrection",
			event:    NewResurrectionEvent(now, ana, luis, 60, 15, ResurrectGrant),
			expected: "Ana resurrects Luis with $60 and 15 followers",
		},
		{
			name:     "robbery",
			event:    NewRobberyEvent(now, luis, ana, 40, 10),
			expected: "Luis robs $40 and 10 followers from Ana",
		},
		{
			name:     "turn change",
			event:    NewTurnChangeEvent(now, 7, ana, Left),
			expected: "Turn 7: Ana ($120, 30 followers)",
		},
		{
			name:     "repair with moves",
			event:    NewSeatingRepairEvent(now, RepairReport{Passes: 3, Moves: 2, Resolved: true}, 0),
			expected: "Table reseated: 2 moves in 3 passes",
		},
		{
			name:     "repair exhausted",
			event:    NewSeatingRepairEvent(now, RepairReport{Passes: 8, Moves: 8}, 2),
			expected: "Seating repair gave up after 8 passes, 2 neighbours still share a profession",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewEventFormatter(tt.opts)
			assert.Equal(t, tt.expected, formatter.Format(tt.event))
		})
	}
}

func TestEventFormatter_GameStartAndOver(t *testing.T) {
	now := time.Now()
	ana := pastor.NewAgent(1, "Ana", 120, 30, "Chaplain")
	luis := pastor.NewAgent(2, "Luis", 10, 5, "Bishop")
	formatter := NewEventFormatter(FormattingOptions{})

	start := formatter.Format(NewGameStartEvent(now, "g1", []*pastor.Agent{ana, luis}, ana, Right))
	assert.Contains(t, start, "Game g1")
	assert.Contains(t, start, "2 pastors at the table, counting right")
	assert.Contains(t, start, "Ana is the richest with $120 and opens")

	over := formatter.Format(NewGameOverEvent(now, "g1", ana, 12))
	assert.Contains(t, over, "Ana wins after 12 turns with $120 and 30 followers")
}

func TestEventsSnapshotAgents(t *testing.T) {
	ana := pastor.NewAgent(1, "Ana", 120, 30, "Chaplain")
	event := NewTurnChangeEvent(time.Now(), 1, ana, Right)
	ana.Take(1000, 0)

	assert.Equal(t, 120, event.Acting.Wealth, "events keep the state at publish time")
}

type countingSubscriber struct{ n int }

func (c *countingSubscriber) OnEvent(GameEvent) { c.n++ }

func TestSimpleEventBus(t *testing.T) {
	bus := NewEventBus()
	first, second := &countingSubscriber{}, &countingSubscriber{}
	var order []string
	bus.Subscribe(first)
	bus.Subscribe(second)
	bus.Subscribe(EventSubscriberFunc(func(e GameEvent) {
		order = append(order, e.EventType().String())
	}))

	ana := pastor.NewAgent(1, "Ana", 1, 1, "")
	bus.Publish(NewTurnChangeEvent(time.Now(), 1, ana, Right))
	bus.Unsubscribe(first)
	bus.Publish(NewRobberyEvent(time.Now(), ana, ana, 0, 0))

	assert.Equal(t, 1, first.n)
	assert.Equal(t, 2, second.n)
	assert.Equal(t, "turn_change,robbery", strings.Join(order, ","))
}

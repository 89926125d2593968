package game

import "github.com/lox/pastortable/internal/pastor"

// Pile holds eliminated agents, last in first out.
type Pile struct {
	agents []*pastor.Agent
}

// NewPile creates an empty pile.
func NewPile() *Pile {
	return &Pile{}
}

// Push puts a on top of the pile.
func (p *Pile) Push(a *pastor.Agent) {
	p.agents = append(p.agents, a)
}

// Pop removes and returns the most recently eliminated agent.
func (p *Pile) Pop() (*pastor.Agent, bool) {
	n := len(p.agents)
	if n == 0 {
		return nil, false
	}
	a := p.agents[n-1]
	p.agents[n-1] = nil
	p.agents = p.agents[:n-1]
	return a, true
}

// Peek returns the top of the pile without removing it.
func (p *Pile) Peek() (*pastor.Agent, bool) {
	if len(p.agents) == 0 {
		return nil, false
	}
	return p.agents[len(p.agents)-1], true
}

// Len returns the number of agents on the pile.
func (p *Pile) Len() int { return len(p.agents) }

// IsEmpty reports whether the pile is empty.
func (p *Pile) IsEmpty() bool { return len(p.agents) == 0 }

// Items returns the pile from bottom to top.
func (p *Pile) Items() []*pastor.Agent {
	out := make([]*pastor.Agent, len(p.agents))
	copy(out, p.agents)
	return out
}

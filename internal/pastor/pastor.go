// Package pastor models the agents seated at the table and generates them.
package pastor

import (
	"cmp"
	"fmt"
)

// AgentID uniquely identifies an agent for the lifetime of a game.
type AgentID uint64

// Agent is a pastor sitting at the table.
type Agent struct {
	ID         AgentID
	Name       string
	Wealth     int
	Followers  int
	Profession Profession
}

// NewAgent creates an agent with the given id and resources.
func NewAgent(id AgentID, name string, wealth, followers int, profession Profession) *Agent {
	return &Agent{
		ID:         id,
		Name:       name,
		Wealth:     wealth,
		Followers:  followers,
		Profession: profession,
	}
}

// Key returns the ring key for a. It is used as the roster key function.
func Key(a *Agent) AgentID { return a.ID }

// String returns the string representation of an agent
func (a *Agent) String() string {
	return fmt.Sprintf("%s[%s $%d %df]", a.Name, a.Profession, a.Wealth, a.Followers)
}

// Take moves wealth and followers onto a.
func (a *Agent) Take(wealth, followers int) {
	a.Wealth += wealth
	a.Followers += followers
}

// Drain zeroes the agent's resources and returns what it held.
func (a *Agent) Drain() (wealth, followers int) {
	wealth, followers = a.Wealth, a.Followers
	a.Wealth, a.Followers = 0, 0
	return wealth, followers
}

// Give removes up to the given amounts from a and returns what was removed.
func (a *Agent) Give(wealth, followers int) (int, int) {
	wealth = min(wealth, a.Wealth)
	followers = min(followers, a.Followers)
	a.Wealth -= wealth
	a.Followers -= followers
	return wealth, followers
}

// Snapshot returns a copy of the agent for reporting.
func (a *Agent) Snapshot() Agent { return *a }

// RicherThan orders agents by wealth for FindExtremum: positive when the
// candidate is strictly richer than the current best.
func RicherThan(candidate, best *Agent) int {
	return cmp.Compare(candidate.Wealth, best.Wealth)
}

// PoorerThan is positive when the candidate is strictly poorer than the
// current best.
func PoorerThan(candidate, best *Agent) int {
	return cmp.Compare(best.Wealth, candidate.Wealth)
}
